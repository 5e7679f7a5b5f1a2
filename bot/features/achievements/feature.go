package achievements

import (
	"context"

	"idolbot/bot/common"
	"idolbot/domain/entities"
	"idolbot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature serves /achievements
type Feature struct {
	achievements interfaces.AchievementService
	tasks        interfaces.TaskRunner
}

func NewFeature(achievements interfaces.AchievementService, tasks interfaces.TaskRunner) *Feature {
	return &Feature{achievements: achievements, tasks: tasks}
}

// HandleCommand shows a user's achievement progress. A background check runs
// first so stale unlocks show up on the next call.
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.CommandOptions(i)

	target := common.InteractionUser(i)
	if user := opts.User(s, "user"); user != nil {
		target = entities.Player{UserID: user.ID, Username: user.Username}
	}

	targetID := target.UserID
	channelID := i.ChannelID
	f.tasks.Submit("achievements.check", func(ctx context.Context) error {
		_, err := f.achievements.CheckAndUnlock(ctx, targetID, channelID)
		return err
	})

	progress, err := f.achievements.Progress(context.Background(), target.UserID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to load achievements"), false)
		return
	}

	var embed *discordgo.MessageEmbed
	if category := opts.String("category"); category != "" {
		embed = CategoryEmbed(progress, target.Username, entities.AchievementCategory(category))
	} else {
		embed = OverviewEmbed(progress, target.Username)
	}

	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.WithError(err).Error("Failed to send achievements")
	}
}
