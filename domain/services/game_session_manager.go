package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"idolbot/domain/entities"
	"idolbot/domain/interfaces"
	"idolbot/events"

	log "github.com/sirupsen/logrus"
)

var (
	ErrSessionAlreadyActive = errors.New("a game is already active in this channel")
	ErrNoActiveSession      = errors.New("no active game in this channel")
	ErrInvalidSession       = errors.New("invalid game options")
)

// WrongGuessHandler receives wrong guesses for hint replies
type WrongGuessHandler interface {
	OnWrongGuess(ctx context.Context, guess WrongGuess)
	OnSessionResolved(channelID string)
}

// gameSessionManager runs the guess-the-idol state machine and settles rewards
type gameSessionManager struct {
	registry        *SessionRegistry
	hints           WrongGuessHandler
	ledger          interfaces.CurrencyLedger
	profileRepo     interfaces.ProfileRepository
	leaderboardRepo interfaces.LeaderboardRepository
	achievements    interfaces.AchievementService
	tasks           interfaces.TaskRunner
	eventPublisher  interfaces.EventPublisher
	rewardAmount    int64
	now             func() time.Time
}

// NewGameSessionManager creates a new game session manager
func NewGameSessionManager(
	registry *SessionRegistry,
	hints WrongGuessHandler,
	ledger interfaces.CurrencyLedger,
	profileRepo interfaces.ProfileRepository,
	leaderboardRepo interfaces.LeaderboardRepository,
	achievements interfaces.AchievementService,
	tasks interfaces.TaskRunner,
	eventPublisher interfaces.EventPublisher,
	rewardAmount int64,
) interfaces.GameService {
	return &gameSessionManager{
		registry:        registry,
		hints:           hints,
		ledger:          ledger,
		profileRepo:     profileRepo,
		leaderboardRepo: leaderboardRepo,
		achievements:    achievements,
		tasks:           tasks,
		eventPublisher:  eventPublisher,
		rewardAmount:    rewardAmount,
		now:             time.Now,
	}
}

// StartSession opens a round in a channel that has none
func (m *gameSessionManager) StartSession(ctx context.Context, req entities.StartSessionRequest) (*entities.GameSession, error) {
	var (
		session *entities.GameSession
		err     error
	)

	m.registry.WithChannel(req.ChannelID, func() {
		if m.registry.Get(req.ChannelID) != nil {
			err = ErrSessionAlreadyActive
			return
		}

		session, err = entities.NewGameSession(req.ChannelID, req.Starter, req.Target, req.AttemptLimit, req.GroupName, req.ImageURL, req.NoHints, m.now())
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrInvalidSession, err)
			return
		}
		m.registry.Put(session)
	})
	if err != nil {
		return nil, err
	}

	starter := req.Starter
	m.tasks.Submit("profile.games_started", func(ctx context.Context) error {
		if err := m.profileRepo.IncrementGamesStarted(ctx, starter.UserID, starter.Username); err != nil {
			return fmt.Errorf("failed to increment games started for %s: %w", starter.UserID, err)
		}
		return nil
	})

	m.publish(events.GameStartedEvent{
		ChannelID:    session.ChannelID,
		StarterID:    starter.UserID,
		AttemptLimit: session.AttemptLimit,
		HasGroupName: session.HasGroupName(),
		NoHints:      session.NoHints,
		StartedAt:    session.StartedAt,
	})

	log.WithFields(log.Fields{
		"channel_id":    session.ChannelID,
		"starter_id":    starter.UserID,
		"attempt_limit": session.AttemptLimit,
		"group_name":    session.HasGroupName(),
		"no_hints":      session.NoHints,
	}).Info("Game session started")

	return session, nil
}

// SubmitGuess applies one guess to the channel's session
func (m *gameSessionManager) SubmitGuess(ctx context.Context, channelID string, user entities.Player, rawText string) entities.GuessResult {
	result := entities.GuessResult{
		Outcome:   entities.GuessOutcomeNoActiveSession,
		ChannelID: channelID,
		User:      user,
		Guess:     entities.NormalizeAnswer(rawText),
	}

	var (
		won     bool
		starter entities.Player
	)

	m.registry.WithChannel(channelID, func() {
		session := m.registry.Get(channelID)
		if session == nil {
			return
		}

		step := session.ApplyGuess(user, rawText)
		result.Outcome = step.Outcome
		result.Remaining = step.Remaining
		result.ExhaustedNow = step.ExhaustedNow
		if session.GroupGuesser != nil {
			groupGuesser := *session.GroupGuesser
			result.GroupGuesser = &groupGuesser
		}

		switch step.Outcome {
		case entities.GuessOutcomeCorrectWin:
			won = true
			starter = session.Starter
			result.Target = session.Target
			result.ImageURL = session.ImageURL
			rewards := entities.ComputeRewards(m.rewardAmount, user, session.Starter, result.GroupGuesser)
			result.Rewards = &rewards
			m.registry.Remove(channelID)

		case entities.GuessOutcomeWrong:
			result.HintTone = entities.HintToneFor(step.Remaining, session.NoHints)
			m.hints.OnWrongGuess(ctx, WrongGuess{
				ChannelID:   channelID,
				UserID:      user.UserID,
				DisplayName: user.Username,
				Guess:       result.Guess,
				Remaining:   step.Remaining,
				Target:      session.Target,
				GroupName:   session.GroupName,
				NoHints:     session.NoHints,
			})
		}
	})

	if won {
		m.hints.OnSessionResolved(channelID)
		m.settleRewards(ctx, channelID, *result.Rewards)
		m.scheduleAchievementChecks(channelID, *result.Rewards)

		event := events.GameWonEvent{
			ChannelID:  channelID,
			WinnerID:   user.UserID,
			StarterID:  starter.UserID,
			Target:     result.Target,
			BaseReward: m.rewardAmount,
			WonAt:      m.now(),
		}
		if result.GroupGuesser != nil {
			event.GroupGuesserID = result.GroupGuesser.UserID
		}
		m.publish(event)

		log.WithFields(log.Fields{
			"channel_id": channelID,
			"winner_id":  user.UserID,
			"starter_id": starter.UserID,
		}).Info("Game session won")
	}

	return result
}

// EndSession removes the channel's session without paying rewards
func (m *gameSessionManager) EndSession(ctx context.Context, channelID string, requestor entities.Player) (*entities.EndResult, error) {
	var ended *entities.GameSession

	m.registry.WithChannel(channelID, func() {
		ended = m.registry.Get(channelID)
		if ended == nil {
			return
		}
		ended.Active = false
		m.registry.Remove(channelID)
	})
	if ended == nil {
		return nil, ErrNoActiveSession
	}
	m.hints.OnSessionResolved(channelID)

	m.publish(events.GameEndedEvent{
		ChannelID: channelID,
		EndedByID: requestor.UserID,
		Target:    ended.Target,
		EndedAt:   m.now(),
	})

	log.WithFields(log.Fields{
		"channel_id":  channelID,
		"ended_by_id": requestor.UserID,
	}).Info("Game session ended")

	return &entities.EndResult{
		ChannelID: channelID,
		Target:    ended.Target,
		ImageURL:  ended.ImageURL,
		EndedBy:   requestor,
	}, nil
}

// settleRewards performs every reward write. Each write is independent; a
// failure is logged and does not stop the others.
func (m *gameSessionManager) settleRewards(ctx context.Context, channelID string, rewards entities.RewardBreakdown) {
	for _, share := range rewards.Shares {
		fields := log.Fields{
			"channel_id": channelID,
			"discord_id": share.Player.UserID,
			"source":     share.Source,
			"currency":   share.Currency,
			"points":     share.Points,
		}

		if share.Currency > 0 {
			if err := m.ledger.Award(ctx, share.Player.UserID, share.Currency); err != nil {
				log.WithError(err).WithFields(fields).Error("Failed to award currency")
			}
		}

		if err := m.profileRepo.RecordReward(ctx, share.Player.UserID, share.Player.Username, share.Source, share.Points, share.Currency); err != nil {
			log.WithError(err).WithFields(fields).Error("Failed to record profile reward")
		}

		if _, err := m.leaderboardRepo.AddPoints(ctx, share.Player.UserID, share.Player.Username, share.Points); err != nil {
			log.WithError(err).WithFields(fields).Error("Failed to add leaderboard points")
		}

		if share.Source == entities.RewardSourceWinning {
			if err := m.profileRepo.IncrementGamesWon(ctx, share.Player.UserID, share.Player.Username); err != nil {
				log.WithError(err).WithFields(fields).Error("Failed to increment games won")
			}
		}
	}
}

func (m *gameSessionManager) scheduleAchievementChecks(channelID string, rewards entities.RewardBreakdown) {
	for _, player := range rewards.Recipients() {
		discordID := player.UserID
		m.tasks.Submit("achievements.check", func(ctx context.Context) error {
			if _, err := m.achievements.CheckAndUnlock(ctx, discordID, channelID); err != nil {
				return fmt.Errorf("failed to check achievements for %s: %w", discordID, err)
			}
			return nil
		})
	}
}

func (m *gameSessionManager) publish(event events.Event) {
	if m.eventPublisher == nil {
		return
	}
	if err := m.eventPublisher.Publish(event); err != nil {
		log.WithError(err).WithField("event_type", event.Type()).Warn("Failed to publish event")
	}
}
