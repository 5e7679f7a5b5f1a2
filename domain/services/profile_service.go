package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"idolbot/domain/entities"
	"idolbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

var ErrInvalidProfile = errors.New("invalid profile update")

const (
	MaxBioLength      = 200
	MaxIdolNameLength = 50
)

// profileService assembles guesser profiles
type profileService struct {
	profileRepo     interfaces.ProfileRepository
	leaderboardRepo interfaces.LeaderboardRepository
	pollinationRepo interfaces.PollinationRepository
	achievements    interfaces.AchievementService
	levels          interfaces.LevelReader
	ledger          interfaces.CurrencyLedger
}

// NewProfileService creates a new profile service
func NewProfileService(
	profileRepo interfaces.ProfileRepository,
	leaderboardRepo interfaces.LeaderboardRepository,
	pollinationRepo interfaces.PollinationRepository,
	achievements interfaces.AchievementService,
	levels interfaces.LevelReader,
	ledger interfaces.CurrencyLedger,
) interfaces.ProfileService {
	return &profileService{
		profileRepo:     profileRepo,
		leaderboardRepo: leaderboardRepo,
		pollinationRepo: pollinationRepo,
		achievements:    achievements,
		levels:          levels,
		ledger:          ledger,
	}
}

// GetDetails returns a user's profile with rank, server context and badges.
// A user without a profile gets an empty one.
func (s *profileService) GetDetails(ctx context.Context, discordID string) (*entities.ProfileDetails, error) {
	profile, err := s.profileRepo.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		profile = &entities.UserProfile{DiscordID: discordID}
	}

	rank, points, err := s.leaderboardRepo.GetRank(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard rank: %w", err)
	}

	serverWins, err := s.profileRepo.GetServerGamesWon(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get server games won: %w", err)
	}

	pollinations, err := s.pollinationRepo.CountByUser(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pollinations: %w", err)
	}

	details := &entities.ProfileDetails{
		Profile:        profile,
		Rank:           rank,
		LeaderboardPts: points,
		ServerGamesWon: serverWins,
		Pollinations:   pollinations,
	}

	// Level and badges are decoration; a failure only blanks them
	if level, err := s.levels.Level(ctx, discordID); err == nil {
		details.Level = level
	} else {
		log.WithError(err).WithField("discord_id", discordID).Warn("Failed to read level for profile")
	}

	if progress, err := s.achievements.Progress(ctx, discordID); err == nil {
		details.Badges = progress.Badges()
	} else {
		log.WithError(err).WithField("discord_id", discordID).Warn("Failed to load achievements for profile")
	}

	return details, nil
}

// ServerProfile gathers a user's bio with the server counters. Only the
// profile and server game total are required; the rest are left nil on error.
func (s *profileService) ServerProfile(ctx context.Context, discordID string) (*entities.ServerProfile, error) {
	profile, err := s.profileRepo.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		profile = &entities.UserProfile{DiscordID: discordID}
	}

	serverGames, err := s.profileRepo.GetServerGamesWon(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get server games: %w", err)
	}

	result := &entities.ServerProfile{Profile: profile, ServerGames: serverGames}
	logger := log.WithField("discord_id", discordID)

	if count, err := s.pollinationRepo.CountByUser(ctx, discordID); err == nil {
		result.Pollinations = &count
	} else {
		logger.WithError(err).Warn("Failed to count pollinations for server profile")
	}

	if balance, err := s.ledger.Balance(ctx, discordID); err == nil {
		result.Balance = &balance
	} else {
		logger.WithError(err).Debug("Balance unavailable for server profile")
	}

	if level, err := s.levels.Level(ctx, discordID); err == nil {
		result.Level = level
	} else {
		logger.WithError(err).Warn("Failed to read level for server profile")
	}

	return result, nil
}

// UpdateBio validates and stores profile text
func (s *profileService) UpdateBio(ctx context.Context, discordID, username string, update entities.BioUpdate) (*entities.UserProfile, error) {
	if update.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidProfile)
	}

	if update.Bio != nil {
		bio := strings.TrimSpace(*update.Bio)
		if len([]rune(bio)) > MaxBioLength {
			return nil, fmt.Errorf("%w: bio must be at most %d characters", ErrInvalidProfile, MaxBioLength)
		}
		update.Bio = &bio
	}
	if update.FavoriteIdolName != nil {
		name := strings.TrimSpace(*update.FavoriteIdolName)
		if len([]rune(name)) > MaxIdolNameLength {
			return nil, fmt.Errorf("%w: idol name must be at most %d characters", ErrInvalidProfile, MaxIdolNameLength)
		}
		update.FavoriteIdolName = &name
	}
	if update.FavoriteIdolImageURL != nil {
		url := strings.TrimSpace(*update.FavoriteIdolImageURL)
		if url != "" && !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
			return nil, fmt.Errorf("%w: image must be an http(s) URL", ErrInvalidProfile)
		}
		update.FavoriteIdolImageURL = &url
	}

	profile, err := s.profileRepo.UpdateBio(ctx, discordID, username, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update bio: %w", err)
	}
	return profile, nil
}
