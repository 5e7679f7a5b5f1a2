package game

import (
	"context"
	"errors"
	"fmt"

	"idolbot/bot/common"
	"idolbot/domain/entities"
	"idolbot/domain/interfaces"
	"idolbot/domain/services"
	"idolbot/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature runs guess-the-idol rounds: /start, /end and ! guess messages
type Feature struct {
	game       interfaces.GameService
	metrics    *observability.MetricsProvider
	pingRoleID string
}

// NewFeature creates the game feature. An empty pingRoleID disables the role ping.
func NewFeature(game interfaces.GameService, metrics *observability.MetricsProvider, pingRoleID string) *Feature {
	return &Feature{
		game:       game,
		metrics:    metrics,
		pingRoleID: pingRoleID,
	}
}

// HandleCommand routes /start and /end
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var err error
	switch i.ApplicationCommandData().Name {
	case "start":
		err = f.handleStart(s, i)
	case "end":
		err = f.handleEnd(s, i)
	}
	if err != nil {
		common.HandleError(s, i, err, false)
	}
}

func (f *Feature) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	opts := common.CommandOptions(i)

	req := entities.StartSessionRequest{
		ChannelID:    i.ChannelID,
		Starter:      common.InteractionUser(i),
		Target:       opts.String("name"),
		AttemptLimit: int(opts.Int("limit", 0)),
		GroupName:    opts.String("group"),
		ImageURL:     opts.String("image"),
		NoHints:      opts.Bool("nohints"),
	}

	session, err := f.game.StartSession(ctx, req)
	switch {
	case errors.Is(err, services.ErrSessionAlreadyActive):
		return common.NewUserError("⚠️ A game is already active!", "start rejected, channel busy")
	case errors.Is(err, services.ErrInvalidSession):
		return common.NewUserError("Please give an idol name and a limit of at least 1 try.", err.Error())
	case err != nil:
		return common.NewSystemError(err, "failed to start game")
	}

	if err := common.Respond(s, i, fmt.Sprintf("✅ Game started with %d tries.", session.AttemptLimit), true); err != nil {
		log.WithError(err).Error("Failed to acknowledge start command")
	}

	if _, err := s.ChannelMessageSend(i.ChannelID, StartAnnouncement(session, f.pingRoleID)); err != nil {
		log.WithError(err).WithField("channel_id", i.ChannelID).Error("Failed to announce game")
	}
	return nil
}

func (f *Feature) handleEnd(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	result, err := f.game.EndSession(context.Background(), i.ChannelID, common.InteractionUser(i))
	if errors.Is(err, services.ErrNoActiveSession) {
		return common.NewUserError("No game to end.", "end rejected, no active game")
	}
	if err != nil {
		return common.NewSystemError(err, "failed to end game")
	}

	if err := common.Respond(s, i, "🛑 Game ended.", false); err != nil {
		log.WithError(err).Error("Failed to acknowledge end command")
	}

	if _, err := s.ChannelMessageSend(i.ChannelID, EndAnnouncement(result)); err != nil {
		log.WithError(err).WithField("channel_id", i.ChannelID).Error("Failed to post end reveal")
	}
	return nil
}

// HandleMessage treats messages starting with ! as guesses. It reports
// whether the message was a guess.
func (f *Feature) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	guess, ok := ParseGuess(m.Content)
	if !ok {
		return false
	}

	user := entities.Player{UserID: m.Author.ID, Username: m.Author.Username}
	if m.Member != nil && m.Member.Nick != "" {
		user.Username = m.Member.Nick
	}

	result := f.game.SubmitGuess(context.Background(), m.ChannelID, user, guess)
	if result.Outcome == entities.GuessOutcomeNoActiveSession {
		return true
	}
	f.metrics.RecordGuess(string(result.Outcome))

	for _, emoji := range GuessReactions(result) {
		if err := s.MessageReactionAdd(m.ChannelID, m.ID, emoji); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"channel_id": m.ChannelID,
				"message_id": m.ID,
				"emoji":      emoji,
			}).Warn("Failed to react to guess")
			break
		}
	}

	switch result.Outcome {
	case entities.GuessOutcomeCorrectWin:
		if _, err := s.ChannelMessageSend(m.ChannelID, WinAnnouncement(result)); err != nil {
			log.WithError(err).WithField("channel_id", m.ChannelID).Error("Failed to announce winner")
		}
	case entities.GuessOutcomeGroupNameAlreadyGuessed:
		if reply := GroupClaimedReply(result); reply != "" {
			if _, err := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); err != nil {
				log.WithError(err).WithField("channel_id", m.ChannelID).Warn("Failed to reply to late group guess")
			}
		}
	}
	return true
}
