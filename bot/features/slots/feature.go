package slots

import (
	"context"

	"idolbot/bot/common"
	"idolbot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature serves /slots, /buffs and /free_spins
type Feature struct {
	slots interfaces.SlotsService
}

func NewFeature(slots interfaces.SlotsService) *Feature {
	return &Feature{slots: slots}
}

// HandleCommand routes the slots commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var err error
	switch i.ApplicationCommandData().Name {
	case "slots":
		err = f.handleSpin(s, i)
	case "buffs":
		err = f.handleBuffs(s, i, false)
	case "free_spins":
		err = f.handleBuffs(s, i, true)
	}
	if err != nil {
		common.HandleError(s, i, err, false)
	}
}

func (f *Feature) handleSpin(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	user := common.InteractionUser(i)

	result, err := f.slots.Spin(context.Background(), user.UserID, i.ChannelID)
	if err != nil {
		return common.NewSystemError(err, "failed to spin slots")
	}

	if err := common.Respond(s, i, SpinText(result), false); err != nil {
		log.WithError(err).Error("Failed to send slots result")
	}
	return nil
}

func (f *Feature) handleBuffs(s *discordgo.Session, i *discordgo.InteractionCreate, spinsOnly bool) error {
	user := common.InteractionUser(i)

	buffs, spins, err := f.slots.Buffs(context.Background(), user.UserID)
	if err != nil {
		return common.NewSystemError(err, "failed to load buffs")
	}

	content := BuffsText(buffs, spins)
	if spinsOnly {
		content = FreeSpinsText(spins)
	}
	if err := common.Respond(s, i, content, spinsOnly); err != nil {
		log.WithError(err).Error("Failed to send buffs")
	}
	return nil
}
