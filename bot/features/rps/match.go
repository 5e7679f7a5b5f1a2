package rps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"idolbot/bot/common"
	"idolbot/domain/entities"
	"idolbot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	// ButtonPrefix marks the hand buttons of an rps_game message
	ButtonPrefix = "rps"

	playerTimeout = 60 * time.Second
	botTimeout    = 20 * time.Second
)

// matches arms the timeout of every running rps_game
type matches struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func (m *matches) arm(matchID string, after time.Duration, expire func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timers == nil {
		m.timers = make(map[string]*time.Timer)
	}
	m.timers[matchID] = time.AfterFunc(after, func() {
		m.disarm(matchID)
		expire()
	})
}

func (m *matches) disarm(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.timers[matchID]; ok {
		t.Stop()
		delete(m.timers, matchID)
	}
}

func (f *Feature) handleMatch(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.CommandOptions(i)
	challenger := common.InteractionUser(i).UserID
	botID := s.State.User.ID

	opponent := botID
	if u := opts.User(s, "opponent"); u != nil {
		opponent = u.ID
	}
	vsBot := opponent == botID
	bet := opts.Int("bet_amount", 0)
	rounds := int(opts.Int("rounds", 1))

	match, err := f.game.StartMatch(context.Background(), i.ChannelID, challenger, opponent, vsBot, bet, rounds)
	if err != nil {
		common.HandleError(s, i, matchError(err), false)
		return
	}

	botName := s.State.User.Username
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    MatchHeader(match, botName),
			Components: Buttons(match.ID),
		},
	})
	if err != nil {
		log.WithError(err).Error("Failed to send rps game")
		f.game.Expire(context.Background(), match.ID)
		return
	}

	timeout := playerTimeout
	if vsBot {
		timeout = botTimeout
	}
	f.timers.arm(match.ID, timeout, func() {
		expired, ok := f.game.Expire(context.Background(), match.ID)
		if !ok {
			return
		}
		content := TimeoutText(expired)
		noButtons := []discordgo.MessageComponent{}
		if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Content:    &content,
			Components: &noButtons,
		}); err != nil {
			log.WithError(err).WithField("match_id", match.ID).Error("Failed to announce rps timeout")
		}
	})
}

// HandleComponent records a hand picked with a game button
func (f *Feature) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	matchID, choice, err := ParseButtonID(i.MessageComponentData().CustomID)
	if err != nil {
		common.HandleError(s, i, common.NewUserError("That button is not part of a game.", err.Error()), false)
		return
	}

	move, err := f.game.Move(context.Background(), matchID, common.InteractionUser(i).UserID, choice)
	if err != nil && move == nil {
		common.HandleError(s, i, moveError(err), false)
		return
	}
	if err != nil {
		log.WithError(err).WithField("match_id", matchID).Error("Failed to settle rps game")
	}

	if move.Round == nil {
		if err := common.Respond(s, i, fmt.Sprintf("You chose %s **%s**. Waiting for your opponent...", choice.Emoji(), choice), true); err != nil {
			log.WithError(err).Error("Failed to acknowledge rps move")
		}
		return
	}

	content := i.Message.Content + "\n\n" + MatchRoundText(&move.Match, move.Round, s.State.User.Username)
	components := Buttons(matchID)
	if move.Round.Finished() {
		f.timers.disarm(matchID)
		content += "\n" + FinalText(&move.Match)
		components = []discordgo.MessageComponent{}
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
	if err != nil {
		log.WithError(err).Error("Failed to update rps game")
	}
}

func matchError(err error) error {
	switch {
	case errors.Is(err, entities.ErrBetAgainstTheBot):
		return common.NewUserError("You cannot place a bet when playing against the bot.", err.Error())
	case errors.Is(err, services.ErrRPSMatchActive):
		return common.NewUserError("You already have an active RPS game in this channel!", err.Error())
	case errors.Is(err, services.ErrRPSBetFailed):
		return common.NewUserError("Failed to deduct bet from one or both players. Make sure both have enough coins.", err.Error())
	case errors.Is(err, entities.ErrSelfChallenge),
		errors.Is(err, entities.ErrNegativeBet),
		errors.Is(err, entities.ErrInvalidRounds):
		return common.NewUserError(capitalize(err.Error())+".", err.Error())
	}
	return common.NewSystemError(err, "failed to start rps game")
}

func moveError(err error) error {
	switch {
	case errors.Is(err, services.ErrRPSMatchNotFound), errors.Is(err, entities.ErrMatchFinished):
		return common.NewUserError("This game is already over.", err.Error())
	case errors.Is(err, entities.ErrNotInMatch):
		return common.NewUserError("This isn't your game!", err.Error())
	case errors.Is(err, entities.ErrAlreadyMoved):
		return common.NewUserError("You already made your move this round!", err.Error())
	}
	return common.NewSystemError(err, "failed to record rps move")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Buttons are the hand picker of a game message
func Buttons(matchID string) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, len(entities.RPSChoices))
	for _, c := range entities.RPSChoices {
		buttons = append(buttons, discordgo.Button{
			Label:    capitalize(string(c)),
			Emoji:    &discordgo.ComponentEmoji{Name: c.Emoji()},
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("%s:%s:%s", ButtonPrefix, matchID, c),
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

// ParseButtonID splits a hand button ID into the match and the hand
func ParseButtonID(customID string) (string, entities.RPSChoice, error) {
	parts := strings.Split(customID, ":")
	if len(parts) != 3 || parts[0] != ButtonPrefix || parts[1] == "" {
		return "", "", fmt.Errorf("invalid rps button %q", customID)
	}
	choice, err := entities.ParseRPSChoice(parts[2])
	if err != nil {
		return "", "", err
	}
	return parts[1], choice, nil
}

// MatchHeader opens a game message
func MatchHeader(m *entities.RPSMatch, botName string) string {
	if m.VsBot {
		return fmt.Sprintf("🎮 **Rock-Paper-Scissors vs %s!** 🎮 First to %d wins!", botName, m.WinTarget)
	}
	header := fmt.Sprintf("🎮 **Rock-Paper-Scissors** 🎮 %s vs %s, first to %d wins!",
		common.Mention(m.Challenger), common.Mention(m.Opponent), m.WinTarget)
	if m.Bet > 0 {
		header += fmt.Sprintf("\nBet: **%d** coins each.", m.Bet)
	}
	return header
}

// MatchRoundText describes a resolved round and the running score
func MatchRoundText(m *entities.RPSMatch, r *entities.RPSMatchRound, botName string) string {
	if m.VsBot {
		verdict := "[Draw]"
		switch r.RoundWinner {
		case m.Challenger:
			verdict = "[Win]"
		case m.Opponent:
			verdict = "[Loss]"
		}
		return fmt.Sprintf("Round %d: I choose... **%s!** %s %s\nScore: You %d - %d %s",
			r.Number, r.OpponentMove, r.OpponentMove.Emoji(), verdict, r.ChallengerScore, r.OpponentScore, botName)
	}

	var line string
	switch r.RoundWinner {
	case "":
		line = fmt.Sprintf("Round %d: both chose %s. It's a tie!", r.Number, r.ChallengerMove)
	case m.Challenger:
		line = fmt.Sprintf("Round %d: %s beats %s. %s wins!", r.Number, r.ChallengerMove, r.OpponentMove, common.Mention(m.Challenger))
	default:
		line = fmt.Sprintf("Round %d: %s beats %s. %s wins!", r.Number, r.OpponentMove, r.ChallengerMove, common.Mention(m.Opponent))
	}
	return fmt.Sprintf("%s\nScore: %s %d - %d %s",
		line, common.Mention(m.Challenger), r.ChallengerScore, r.OpponentScore, common.Mention(m.Opponent))
}

// FinalText announces the match winner
func FinalText(m *entities.RPSMatch) string {
	if m.VsBot {
		if m.Winner == m.Challenger {
			return "🏆 You win the match!"
		}
		return "😈 I win the match! Better luck next time."
	}
	if m.Bet > 0 {
		return fmt.Sprintf("🏆 %s wins %d coins!", common.Mention(m.Winner), m.Pool())
	}
	return fmt.Sprintf("🏆 %s wins the match!", common.Mention(m.Winner))
}

// TimeoutText replaces a game message whose players stopped moving
func TimeoutText(m *entities.RPSMatch) string {
	if m.Bet > 0 {
		return "Game timed out! Not all players made a move. Bets have been refunded."
	}
	return "Game timed out! Not all players made a move."
}
