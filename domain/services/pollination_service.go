package services

import (
	"context"
	"fmt"
	"sort"

	"idolbot/domain/entities"
	"idolbot/domain/interfaces"
	"idolbot/events"

	log "github.com/sirupsen/logrus"
)

const pollinationPageSize = 100

// pollinationService counts keycap-number posts in the pollination channel
type pollinationService struct {
	pollinationRepo interfaces.PollinationRepository
	transactor      interfaces.PollinationTransactor
	source          interfaces.MessageSource
	pageSize        int
}

// NewPollinationService creates a new pollination service
func NewPollinationService(
	pollinationRepo interfaces.PollinationRepository,
	transactor interfaces.PollinationTransactor,
	source interfaces.MessageSource,
) interfaces.PollinationService {
	return &pollinationService{
		pollinationRepo: pollinationRepo,
		transactor:      transactor,
		source:          source,
		pageSize:        pollinationPageSize,
	}
}

// Scan reads every message posted after the channel's cursor, oldest first,
// and records one numbered pollination per message that contains keycap
// numbers. Each page is stored together with the advanced cursor in one
// transaction, so an interrupted scan resumes where the last page ended.
func (s *pollinationService) Scan(ctx context.Context, channelID string) (*entities.ScanReport, error) {
	cursor, err := s.pollinationRepo.GetCursor(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan cursor: %w", err)
	}

	report := &entities.ScanReport{ChannelID: channelID, LastMessageID: cursor}

	for {
		messages, err := s.source.MessagesAfter(ctx, channelID, cursor, s.pageSize)
		if err != nil {
			return report, fmt.Errorf("failed to fetch messages after %q: %w", cursor, err)
		}
		if len(messages) == 0 {
			break
		}

		var added int
		var next int64
		err = s.transactor.WithinTransaction(ctx, func(ctx context.Context, repo interfaces.PollinationRepository, publisher interfaces.EventPublisher) error {
			var err error
			added, next, err = s.storePage(ctx, repo, publisher, channelID, messages)
			return err
		})
		if err != nil {
			return report, fmt.Errorf("failed to store pollination page: %w", err)
		}

		cursor = messages[len(messages)-1].ID
		report.MessagesScanned += len(messages)
		report.PollinationsAdded += added
		report.NextNumber = next
		report.LastMessageID = cursor

		log.WithFields(log.Fields{
			"channel_id":         channelID,
			"messages_scanned":   report.MessagesScanned,
			"pollinations_added": report.PollinationsAdded,
			"next_number":        next,
		}).Debug("Pollination page stored")

		if len(messages) < s.pageSize {
			break
		}
	}

	if report.NextNumber == 0 {
		next, err := s.pollinationRepo.NextNumber(ctx)
		if err != nil {
			return report, fmt.Errorf("failed to get next pollination number: %w", err)
		}
		report.NextNumber = next
	}

	log.WithFields(log.Fields{
		"channel_id":         channelID,
		"messages_scanned":   report.MessagesScanned,
		"pollinations_added": report.PollinationsAdded,
	}).Info("Pollination scan complete")

	return report, nil
}

func (s *pollinationService) storePage(ctx context.Context, repo interfaces.PollinationRepository, publisher interfaces.EventPublisher, channelID string, messages []entities.ScannedMessage) (int, int64, error) {
	next, err := repo.NextNumber(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get next pollination number: %w", err)
	}

	perUser := make(map[string]int)
	added := 0
	for _, m := range messages {
		numbers := entities.ExtractPollinationNumbers(m.Content)
		if len(numbers) == 0 {
			continue
		}

		inserted, err := repo.Insert(ctx, &entities.Pollination{
			DiscordID:      m.AuthorID,
			Number:         next,
			MessageID:      m.ID,
			ContentNumbers: entities.FormatContentNumbers(numbers),
			PostedAt:       m.CreatedAt,
		})
		if err != nil {
			return 0, 0, fmt.Errorf("failed to insert pollination for message %s: %w", m.ID, err)
		}
		if !inserted {
			continue
		}
		next++
		added++
		perUser[m.AuthorID]++
	}

	if err := repo.SetCursor(ctx, channelID, messages[len(messages)-1].ID); err != nil {
		return 0, 0, fmt.Errorf("failed to advance scan cursor: %w", err)
	}

	users := make([]string, 0, len(perUser))
	for id := range perUser {
		users = append(users, id)
	}
	sort.Strings(users)
	for _, id := range users {
		if err := publisher.Publish(events.PollinationsRecordedEvent{DiscordID: id, ChannelID: channelID, Added: perUser[id]}); err != nil {
			log.WithError(err).WithField("discord_id", id).Warn("Failed to publish pollination event")
		}
	}

	return added, next, nil
}

// Count returns a user's pollination count
func (s *pollinationService) Count(ctx context.Context, discordID string) (int64, error) {
	count, err := s.pollinationRepo.CountByUser(ctx, discordID)
	if err != nil {
		return 0, fmt.Errorf("failed to count pollinations: %w", err)
	}
	return count, nil
}

// Top returns the users with the most pollinations
func (s *pollinationService) Top(ctx context.Context, limit int) ([]*entities.PollinationCount, error) {
	if limit <= 0 {
		limit = entities.DefaultLeaderboardLimit
	}
	top, err := s.pollinationRepo.GetTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pollination leaderboard: %w", err)
	}
	return top, nil
}

// Total returns the number of pollinations recorded across the server
func (s *pollinationService) Total(ctx context.Context) (int64, error) {
	total, err := s.pollinationRepo.Total(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count pollinations: %w", err)
	}
	return total, nil
}

// ByUser returns every pollination a user posted, by number
func (s *pollinationService) ByUser(ctx context.Context, discordID string) ([]*entities.Pollination, error) {
	pollinations, err := s.pollinationRepo.ListByUser(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user pollinations: %w", err)
	}
	return pollinations, nil
}

// Lookup returns the pollinations numbered within numbers
func (s *pollinationService) Lookup(ctx context.Context, numbers entities.NumberRange) ([]*entities.Pollination, error) {
	pollinations, err := s.pollinationRepo.ListByNumberRange(ctx, numbers.From, numbers.To)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pollinations %s: %w", numbers, err)
	}
	return pollinations, nil
}

// Reset deletes all pollinations and scan cursors. The next scan renumbers
// every channel from the start.
func (s *pollinationService) Reset(ctx context.Context) error {
	if err := s.pollinationRepo.Reset(ctx); err != nil {
		return err
	}
	log.Warn("All pollination data was reset")
	return nil
}
