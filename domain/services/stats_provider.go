package services

import (
	"context"
	"fmt"

	"idolbot/domain/entities"
	"idolbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// statsProvider gathers the values compared by achievement checks from
// their owning subsystems in parallel
type statsProvider struct {
	profileRepo     interfaces.ProfileRepository
	pollinationRepo interfaces.PollinationRepository
	levels          interfaces.LevelReader
	ledger          interfaces.CurrencyLedger
}

// NewStatsProvider creates a new stats provider
func NewStatsProvider(
	profileRepo interfaces.ProfileRepository,
	pollinationRepo interfaces.PollinationRepository,
	levels interfaces.LevelReader,
	ledger interfaces.CurrencyLedger,
) interfaces.StatsProvider {
	return &statsProvider{
		profileRepo:     profileRepo,
		pollinationRepo: pollinationRepo,
		levels:          levels,
		ledger:          ledger,
	}
}

// Snapshot loads a user's stats. Profile and pollination reads are required;
// the level and the ledger balance degrade to zero and the profile's money
// total respectively when their source is unavailable.
func (p *statsProvider) Snapshot(ctx context.Context, discordID string) (entities.StatSnapshot, error) {
	var (
		profile      *entities.UserProfile
		pollinations int64
		level        int
		balance      int64
		balanceOK    bool
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		profile, err = p.profileRepo.GetByDiscordID(gctx, discordID)
		if err != nil {
			return fmt.Errorf("failed to get profile: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		pollinations, err = p.pollinationRepo.CountByUser(gctx, discordID)
		if err != nil {
			return fmt.Errorf("failed to count pollinations: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		level, err = p.levels.Level(gctx, discordID)
		if err != nil {
			log.WithError(err).WithField("discord_id", discordID).Warn("Failed to read level, using 0")
			level = 0
		}
		return nil
	})

	g.Go(func() error {
		var err error
		balance, err = p.ledger.Balance(gctx, discordID)
		if err != nil {
			log.WithError(err).WithField("discord_id", discordID).Warn("Failed to read ledger balance, using profile money")
			return nil
		}
		balanceOK = true
		return nil
	})

	if err := g.Wait(); err != nil {
		return entities.StatSnapshot{}, err
	}

	snapshot := entities.StatSnapshot{
		Pollinations: pollinations,
		Level:        int64(level),
		Money:        balance,
	}
	if profile != nil {
		snapshot.GamesWon = profile.GamesWon
		snapshot.TotalPoints = profile.TotalPoints()
		if !balanceOK {
			snapshot.Money = profile.TotalMoney()
		}
	}

	return snapshot, nil
}
