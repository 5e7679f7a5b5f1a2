package services

import (
	"context"
	"fmt"

	"idolbot/domain/entities"
	"idolbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// leaderboardService implements the points ranking and its administration
type leaderboardService struct {
	leaderboardRepo interfaces.LeaderboardRepository
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(leaderboardRepo interfaces.LeaderboardRepository) interfaces.LeaderboardService {
	return &leaderboardService{leaderboardRepo: leaderboardRepo}
}

// Top returns the highest ranked users
func (s *leaderboardService) Top(ctx context.Context, limit int) ([]*entities.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = entities.DefaultLeaderboardLimit
	}
	entries, err := s.leaderboardRepo.GetTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return entries, nil
}

// AdjustPoints adds (or with a negative delta, removes) leaderboard points
func (s *leaderboardService) AdjustPoints(ctx context.Context, discordID, username string, delta int64) (int64, error) {
	if delta == 0 {
		return 0, ErrInvalidAmount
	}

	total, err := s.leaderboardRepo.AddPoints(ctx, discordID, username, delta)
	if err != nil {
		return 0, fmt.Errorf("failed to adjust points: %w", err)
	}

	log.WithFields(log.Fields{
		"discord_id": discordID,
		"delta":      delta,
		"total":      total,
	}).Info("Leaderboard points adjusted")

	return total, nil
}

// RemovePlayer deletes a user's leaderboard row; their profile is kept
func (s *leaderboardService) RemovePlayer(ctx context.Context, discordID string) (bool, error) {
	removed, err := s.leaderboardRepo.Remove(ctx, discordID)
	if err != nil {
		return false, fmt.Errorf("failed to remove player: %w", err)
	}
	return removed, nil
}
