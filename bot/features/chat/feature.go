package chat

import (
	"context"
	"strings"
	"time"

	"idolbot/bot/common"
	"idolbot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const chatTimeout = 30 * time.Second

// Feature forwards /chat prompts to the text generator
type Feature struct {
	generator interfaces.TextGenerator
}

func NewFeature(generator interfaces.TextGenerator) *Feature {
	return &Feature{generator: generator}
}

// HandleCommand defers, generates and edits in the reply
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	prompt := strings.TrimSpace(common.CommandOptions(i).String("message"))
	if prompt == "" {
		common.HandleError(s, i, common.NewUserError("You didn't say anything.", "empty chat prompt"), false)
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Failed to defer chat response")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
	defer cancel()

	reply := f.generator.Generate(ctx, prompt)
	if err := common.FollowUp(s, i, &discordgo.WebhookParams{Content: reply}); err != nil {
		log.WithError(err).Error("Failed to send chat reply")
	}
}
