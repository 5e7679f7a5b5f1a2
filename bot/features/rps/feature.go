package rps

import (
	"fmt"

	"idolbot/bot/common"
	"idolbot/domain/entities"
	"idolbot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature serves /rps against the bot and best-of-N /rps_game matches
type Feature struct {
	game   *services.RPSService
	timers matches
}

func NewFeature(game *services.RPSService) *Feature {
	return &Feature{game: game}
}

// HandleCommand routes /rps and /rps_game
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.ApplicationCommandData().Name == "rps_game" {
		f.handleMatch(s, i)
		return
	}
	f.handleRound(s, i)
}

func (f *Feature) handleRound(s *discordgo.Session, i *discordgo.InteractionCreate) {
	choice, err := entities.ParseRPSChoice(common.CommandOptions(i).String("choice"))
	if err != nil {
		common.HandleError(s, i, common.NewUserError("Please choose rock, paper, or scissors.", err.Error()), false)
		return
	}

	if err := common.Respond(s, i, RoundText(f.game.Play(choice)), false); err != nil {
		log.WithError(err).Error("Failed to send rps result")
	}
}

// RoundText renders a round from the player's side
func RoundText(round services.RPSRound) string {
	verdict := "You lose!"
	switch round.Result {
	case entities.RPSWin:
		verdict = "You win!"
	case entities.RPSTie:
		verdict = "It's a tie!"
	}
	return fmt.Sprintf("You chose %s **%s**.\nI chose %s **%s**.\n%s",
		round.Player.Emoji(), round.Player, round.Bot.Emoji(), round.Bot, verdict)
}

// Choices are the options offered by /rps choice
func Choices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(entities.RPSChoices))
	for _, c := range entities.RPSChoices {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(c), Value: string(c)})
	}
	return choices
}
