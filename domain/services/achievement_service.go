package services

import (
	"context"
	"fmt"
	"time"

	"idolbot/domain/entities"
	"idolbot/domain/interfaces"
	"idolbot/events"

	log "github.com/sirupsen/logrus"
)

// achievementService evaluates the achievement catalog against a user's stats
type achievementService struct {
	achievementRepo interfaces.AchievementRepository
	stats           interfaces.StatsProvider
	eventPublisher  interfaces.EventPublisher
	now             func() time.Time
}

// NewAchievementService creates a new achievement service
func NewAchievementService(
	achievementRepo interfaces.AchievementRepository,
	stats interfaces.StatsProvider,
	eventPublisher interfaces.EventPublisher,
) interfaces.AchievementService {
	return &achievementService{
		achievementRepo: achievementRepo,
		stats:           stats,
		eventPublisher:  eventPublisher,
		now:             time.Now,
	}
}

// CheckAndUnlock stores every catalog entry whose requirement the user now meets
// and returns the ones this call actually inserted.
func (s *achievementService) CheckAndUnlock(ctx context.Context, discordID, channelID string) ([]entities.Achievement, error) {
	snapshot, err := s.stats.Snapshot(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	unlocked, err := s.unlockedSet(ctx, discordID)
	if err != nil {
		return nil, err
	}

	var newlyUnlocked []entities.Achievement
	for _, achievement := range entities.Achievements() {
		if _, ok := unlocked[achievement.ID]; ok {
			continue
		}
		if snapshot.Value(achievement.Category) < achievement.Requirement {
			continue
		}

		unlockedAt := s.now()
		inserted, err := s.achievementRepo.Unlock(ctx, discordID, achievement.ID, unlockedAt)
		if err != nil {
			return newlyUnlocked, fmt.Errorf("failed to unlock achievement %s: %w", achievement.ID, err)
		}
		if !inserted {
			// a concurrent check got there first
			continue
		}

		newlyUnlocked = append(newlyUnlocked, achievement)

		log.WithFields(log.Fields{
			"discord_id":     discordID,
			"achievement_id": achievement.ID,
		}).Info("Achievement unlocked")

		if s.eventPublisher != nil {
			if err := s.eventPublisher.Publish(events.AchievementUnlockedEvent{
				DiscordID:     discordID,
				AchievementID: achievement.ID,
				Name:          achievement.Name,
				Emoji:         achievement.Emoji,
				Description:   achievement.Description,
				ChannelID:     channelID,
				UnlockedAt:    unlockedAt,
			}); err != nil {
				log.WithError(err).WithField("achievement_id", achievement.ID).Warn("Failed to publish achievement event")
			}
		}
	}

	return newlyUnlocked, nil
}

// Progress summarizes a user's unlocked achievements per category
func (s *achievementService) Progress(ctx context.Context, discordID string) (*entities.AchievementProgress, error) {
	unlocked, err := s.unlockedSet(ctx, discordID)
	if err != nil {
		return nil, err
	}

	progress := &entities.AchievementProgress{
		TotalPossible: len(entities.Achievements()),
	}

	for _, category := range entities.AchievementCategories {
		catalog := entities.AchievementsByCategory(category)
		cp := entities.CategoryProgress{
			Category: category,
			Total:    len(catalog),
		}
		for _, achievement := range catalog {
			if _, ok := unlocked[achievement.ID]; !ok {
				continue
			}
			cp.Unlocked = append(cp.Unlocked, achievement)
			cp.HighestIcon = achievement.Emoji
		}
		progress.Unlocked = append(progress.Unlocked, cp.Unlocked...)
		progress.ByCategory = append(progress.ByCategory, cp)
	}
	progress.TotalUnlocked = len(progress.Unlocked)

	return progress, nil
}

func (s *achievementService) unlockedSet(ctx context.Context, discordID string) (map[string]struct{}, error) {
	rows, err := s.achievementRepo.GetUnlocked(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unlocked achievements: %w", err)
	}

	unlocked := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		unlocked[row.AchievementID] = struct{}{}
	}
	return unlocked, nil
}
