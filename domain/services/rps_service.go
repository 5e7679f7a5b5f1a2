package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"idolbot/domain/entities"
	"idolbot/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrRPSMatchActive   = errors.New("an rps game between these players is already running in this channel")
	ErrRPSMatchNotFound = errors.New("rps game not found")
	ErrRPSBetFailed     = errors.New("failed to collect the rps bet")
)

// RPSRound is one rock-paper-scissors round against the bot
type RPSRound struct {
	Player entities.RPSChoice
	Bot    entities.RPSChoice
	Result entities.RPSResult
}

// RPSMove is the state of a match after a player moved. Round is nil while
// the other player still has to pick.
type RPSMove struct {
	Match entities.RPSMatch
	Round *entities.RPSMatchRound
}

// RPSService plays rock-paper-scissors, either a single round against the bot
// or best-of-N matches with an optional bet held by the currency ledger
type RPSService struct {
	pick   func(n int) int
	newID  func() string
	ledger interfaces.CurrencyLedger

	mu      sync.Mutex
	matches map[string]*entities.RPSMatch
	keys    map[string]string
}

// NewRPSService creates a service that picks the bot's hand uniformly
func NewRPSService(ledger interfaces.CurrencyLedger) *RPSService {
	return &RPSService{
		pick:    rand.IntN,
		newID:   uuid.NewString,
		ledger:  ledger,
		matches: make(map[string]*entities.RPSMatch),
		keys:    make(map[string]string),
	}
}

// Play scores the player's hand against a random bot hand
func (s *RPSService) Play(player entities.RPSChoice) RPSRound {
	bot := s.botHand()
	return RPSRound{
		Player: player,
		Bot:    bot,
		Result: entities.DecideRPS(player, bot),
	}
}

func (s *RPSService) botHand() entities.RPSChoice {
	return entities.RPSChoices[s.pick(len(entities.RPSChoices))]
}

// StartMatch registers a match and takes the bet from both players. The
// registration is rolled back when either charge fails.
func (s *RPSService) StartMatch(ctx context.Context, channelID, challenger, opponent string, vsBot bool, bet int64, rounds int) (*entities.RPSMatch, error) {
	match, err := entities.NewRPSMatch(s.newID(), channelID, challenger, opponent, vsBot, bet, rounds)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if _, ok := s.keys[match.Key()]; ok {
		s.mu.Unlock()
		return nil, ErrRPSMatchActive
	}
	s.keys[match.Key()] = match.ID
	s.matches[match.ID] = match
	s.mu.Unlock()

	if match.Bet > 0 {
		if err := s.collectBet(ctx, match); err != nil {
			s.remove(match)
			return nil, err
		}
	}

	log.WithFields(log.Fields{
		"match_id":   match.ID,
		"channel_id": channelID,
		"challenger": challenger,
		"opponent":   opponent,
		"bet":        bet,
		"rounds":     rounds,
	}).Info("RPS match started")

	snapshot := *match
	return &snapshot, nil
}

func (s *RPSService) collectBet(ctx context.Context, match *entities.RPSMatch) error {
	for _, id := range []string{match.Challenger, match.Opponent} {
		balance, err := s.ledger.Balance(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRPSBetFailed, err)
		}
		if balance < match.Bet {
			return fmt.Errorf("%w: %s has %d of %d", ErrRPSBetFailed, id, balance, match.Bet)
		}
	}

	if err := s.ledger.Subtract(ctx, match.Challenger, match.Bet); err != nil {
		return fmt.Errorf("%w: %w", ErrRPSBetFailed, err)
	}
	if err := s.ledger.Subtract(ctx, match.Opponent, match.Bet); err != nil {
		s.refund(ctx, match.ID, match.Challenger, match.Bet)
		return fmt.Errorf("%w: %w", ErrRPSBetFailed, err)
	}
	return nil
}

// Move records a player's hand. Against the bot the bot answers at once.
// When the round decides the match the match is removed and the winner is
// paid the pool.
func (s *RPSService) Move(ctx context.Context, matchID, playerID string, choice entities.RPSChoice) (*RPSMove, error) {
	s.mu.Lock()
	match, ok := s.matches[matchID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrRPSMatchNotFound
	}

	round, err := match.Move(playerID, choice)
	if err == nil && round == nil && match.VsBot {
		round, err = match.Move(match.Opponent, s.botHand())
	}
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if round != nil && round.Finished() {
		delete(s.matches, match.ID)
		delete(s.keys, match.Key())
	}
	result := &RPSMove{Match: *match, Round: round}
	s.mu.Unlock()

	if round != nil && round.Finished() {
		log.WithFields(log.Fields{
			"match_id": match.ID,
			"winner":   round.MatchWinner,
			"rounds":   round.Number,
		}).Info("RPS match finished")

		if result.Match.Bet > 0 {
			if err := s.ledger.Award(ctx, round.MatchWinner, result.Match.Pool()); err != nil {
				return result, fmt.Errorf("failed to pay rps pool: %w", err)
			}
		}
	}
	return result, nil
}

// Expire ends a match that ran out of time and refunds the bets. It reports
// false when the match already finished.
func (s *RPSService) Expire(ctx context.Context, matchID string) (*entities.RPSMatch, bool) {
	s.mu.Lock()
	match, ok := s.matches[matchID]
	if ok {
		delete(s.matches, match.ID)
		delete(s.keys, match.Key())
	}
	s.mu.Unlock()
	if !ok {
		return nil, false
	}

	if match.Bet > 0 {
		s.refund(ctx, match.ID, match.Challenger, match.Bet)
		s.refund(ctx, match.ID, match.Opponent, match.Bet)
	}
	log.WithField("match_id", match.ID).Info("RPS match timed out")
	return match, true
}

// Active reports how many matches are running
func (s *RPSService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches)
}

func (s *RPSService) remove(match *entities.RPSMatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, match.ID)
	delete(s.keys, match.Key())
}

func (s *RPSService) refund(ctx context.Context, matchID, discordID string, amount int64) {
	if err := s.ledger.Award(ctx, discordID, amount); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"match_id":   matchID,
			"discord_id": discordID,
			"amount":     amount,
		}).Error("Failed to refund rps bet")
	}
}
