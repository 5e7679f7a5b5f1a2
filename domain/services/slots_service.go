package services

import (
	"context"
	"errors"
	"fmt"

	"idolbot/domain/entities"
	"idolbot/domain/interfaces"

	"github.com/mroth/weightedrand/v2"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidAmount = errors.New("amount must be positive")

const (
	silverRerollChance   = 30 // percent
	silverWinNumerator   = 3  // winnings x1.5
	silverWinDenominator = 2
	silverLossMultiplier = 2
	goldenWinMultiplier  = 3
	goldenMinimumWin     = 30
)

// SlotsConfig holds the payout table
type SlotsConfig struct {
	Cost              int64
	ThreeUniqueReward int64
	ThreeMatchReward  int64
	LemonMultiplier   int64
}

// slotsService implements the slot machine
type slotsService struct {
	freeSpinRepo  interfaces.FreeSpinRepository
	ticketRepo    interfaces.TicketBuffRepository
	ledger        interfaces.CurrencyLedger
	achievements  interfaces.AchievementService
	tasks         interfaces.TaskRunner
	cfg           SlotsConfig
	reels         [3][]entities.SlotSymbol
	stop          func(reel int) int
	silverRerolls func() bool
}

// NewSlotsService creates a new slots service
func NewSlotsService(
	freeSpinRepo interfaces.FreeSpinRepository,
	ticketRepo interfaces.TicketBuffRepository,
	ledger interfaces.CurrencyLedger,
	achievements interfaces.AchievementService,
	tasks interfaces.TaskRunner,
	cfg SlotsConfig,
) (interfaces.SlotsService, error) {
	reels := entities.SlotReels()

	var stopChoosers [3]*weightedrand.Chooser[int, int]
	for i, reel := range reels {
		choices := make([]weightedrand.Choice[int, int], 0, len(reel))
		for pos := range reel {
			choices = append(choices, weightedrand.NewChoice(pos, 1))
		}
		chooser, err := weightedrand.NewChooser(choices...)
		if err != nil {
			return nil, fmt.Errorf("failed to build reel %d: %w", i, err)
		}
		stopChoosers[i] = chooser
	}

	reroll, err := weightedrand.NewChooser(
		weightedrand.NewChoice(true, silverRerollChance),
		weightedrand.NewChoice(false, 100-silverRerollChance),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build reroll chooser: %w", err)
	}

	return &slotsService{
		freeSpinRepo:  freeSpinRepo,
		ticketRepo:    ticketRepo,
		ledger:        ledger,
		achievements:  achievements,
		tasks:         tasks,
		cfg:           cfg,
		reels:         reels,
		stop:          func(reel int) int { return stopChoosers[reel].Pick() },
		silverRerolls: reroll.Pick,
	}, nil
}

// Spin plays one round. A free spin is used before any currency is charged;
// otherwise one ticket buff, golden first, applies to the round.
func (s *slotsService) Spin(ctx context.Context, discordID, channelID string) (*entities.SpinResult, error) {
	freeSpin, err := s.freeSpinRepo.Consume(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to consume free spin: %w", err)
	}

	var ticket entities.TicketKind
	if !freeSpin {
		ticket, err = s.takeTicket(ctx, discordID)
		if err != nil {
			return nil, err
		}
	}

	result := s.roll()
	if !result.IsWin() && ticket == entities.TicketSilver && s.silverRerolls() {
		result = s.roll()
		result.Rerolled = true
	}
	result.FreeSpin = freeSpin
	result.Ticket = ticket
	s.score(&result)

	switch {
	case result.Winnings > 0:
		if err := s.ledger.Award(ctx, discordID, result.Winnings); err != nil {
			return nil, fmt.Errorf("failed to award winnings: %w", err)
		}
		s.tasks.Submit("achievements.check", func(ctx context.Context) error {
			if _, err := s.achievements.CheckAndUnlock(ctx, discordID, channelID); err != nil {
				return fmt.Errorf("failed to check achievements for %s: %w", discordID, err)
			}
			return nil
		})
	case result.Cost > 0:
		if err := s.ledger.Subtract(ctx, discordID, result.Cost); err != nil {
			return nil, fmt.Errorf("failed to charge spin: %w", err)
		}
	}

	if spins, err := s.freeSpinRepo.Get(ctx, discordID); err == nil {
		result.FreeSpins = spins
	} else {
		log.WithError(err).WithField("discord_id", discordID).Warn("Failed to read free spins")
	}

	log.WithFields(log.Fields{
		"discord_id": discordID,
		"outcome":    result.Outcome,
		"winnings":   result.Winnings,
		"cost":       result.Cost,
		"free_spin":  result.FreeSpin,
		"ticket":     result.Ticket,
		"rerolled":   result.Rerolled,
	}).Info("Slots spin")

	return &result, nil
}

func (s *slotsService) takeTicket(ctx context.Context, discordID string) (entities.TicketKind, error) {
	buffs, err := s.ticketRepo.Get(ctx, discordID)
	if err != nil {
		return "", fmt.Errorf("failed to get ticket buffs: %w", err)
	}
	if buffs == nil {
		return "", nil
	}

	kind, ok := buffs.Active()
	if !ok {
		return "", nil
	}

	consumed, err := s.ticketRepo.Consume(ctx, discordID, kind)
	if err != nil {
		return "", fmt.Errorf("failed to consume %s ticket: %w", kind, err)
	}
	if !consumed {
		return "", nil
	}
	return kind, nil
}

// roll stops the three reels and classifies the payline
func (s *slotsService) roll() entities.SpinResult {
	var result entities.SpinResult

	for col, reel := range s.reels {
		n := len(reel)
		stop := s.stop(col)
		result.Rows[0][col] = reel[(stop-1+n)%n]
		result.Rows[1][col] = reel[stop]
		result.Rows[2][col] = reel[(stop+1)%n]
	}
	result.Payline = result.Rows[1]

	a, b, c := result.Payline[0], result.Payline[1], result.Payline[2]
	switch {
	case a == b && b == c:
		result.Outcome = entities.SlotOutcomeThreeMatch
		result.Jackpot = a == entities.SlotLemon
	case a != b && b != c && a != c:
		result.Outcome = entities.SlotOutcomeThreeUnique
	default:
		result.Outcome = entities.SlotOutcomeLoss
	}
	return result
}

// score fills in winnings or cost for an already classified result
func (s *slotsService) score(result *entities.SpinResult) {
	switch result.Outcome {
	case entities.SlotOutcomeThreeMatch:
		result.Winnings = s.cfg.ThreeMatchReward
		if result.Jackpot {
			result.Winnings *= s.cfg.LemonMultiplier
		}
	case entities.SlotOutcomeThreeUnique:
		result.Winnings = s.cfg.ThreeUniqueReward
	default:
		if !result.FreeSpin {
			result.Cost = s.cfg.Cost
		}
	}

	switch result.Ticket {
	case entities.TicketSilver:
		result.Winnings = result.Winnings * silverWinNumerator / silverWinDenominator
		result.Cost *= silverLossMultiplier
	case entities.TicketGolden:
		if result.Winnings > 0 {
			result.Winnings *= goldenWinMultiplier
			if result.Winnings < goldenMinimumWin {
				result.Winnings = goldenMinimumWin
			}
		}
	}
}

// Buffs returns the user's ticket buffs and free spins
func (s *slotsService) Buffs(ctx context.Context, discordID string) (*entities.TicketBuffs, int, error) {
	buffs, err := s.ticketRepo.Get(ctx, discordID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get ticket buffs: %w", err)
	}
	if buffs == nil {
		buffs = &entities.TicketBuffs{DiscordID: discordID}
	}

	spins, err := s.freeSpinRepo.Get(ctx, discordID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get free spins: %w", err)
	}
	return buffs, spins, nil
}

// GiftSpins grants free spins
func (s *slotsService) GiftSpins(ctx context.Context, discordID string, spins int) (int, error) {
	if spins <= 0 {
		return 0, ErrInvalidAmount
	}
	total, err := s.freeSpinRepo.Add(ctx, discordID, spins)
	if err != nil {
		return 0, fmt.Errorf("failed to add free spins: %w", err)
	}
	return total, nil
}

// GiftTicket grants ticket buffs
func (s *slotsService) GiftTicket(ctx context.Context, discordID string, kind entities.TicketKind, count int) (*entities.TicketBuffs, error) {
	if count <= 0 {
		return nil, ErrInvalidAmount
	}
	if kind != entities.TicketSilver && kind != entities.TicketGolden {
		return nil, fmt.Errorf("unknown ticket kind %q", kind)
	}
	buffs, err := s.ticketRepo.Add(ctx, discordID, kind, count)
	if err != nil {
		return nil, fmt.Errorf("failed to add %s tickets: %w", kind, err)
	}
	return buffs, nil
}
