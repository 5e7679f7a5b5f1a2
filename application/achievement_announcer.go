package application

import (
	"context"
	"fmt"

	"idolbot/domain/interfaces"
	"idolbot/events"

	log "github.com/sirupsen/logrus"
)

// AchievementAnnouncer posts newly unlocked achievements in the channel
// where they were earned
type AchievementAnnouncer struct {
	transport interfaces.MessageTransport
}

func NewAchievementAnnouncer(transport interfaces.MessageTransport) *AchievementAnnouncer {
	return &AchievementAnnouncer{transport: transport}
}

// AnnouncementText renders the chat line for an unlocked achievement
func AnnouncementText(e events.AchievementUnlockedEvent) string {
	return fmt.Sprintf("🏆 **Achievement Unlocked!** <@%s> earned %s **%s**\n*%s*", e.DiscordID, e.Emoji, e.Name, e.Description)
}

// HandleAchievementUnlocked announces one achievement. Events without a
// channel are skipped.
func (a *AchievementAnnouncer) HandleAchievementUnlocked(ctx context.Context, event events.Event) error {
	unlocked, err := AssertEventType[events.AchievementUnlockedEvent](event)
	if err != nil {
		return err
	}

	if unlocked.ChannelID == "" {
		log.WithFields(log.Fields{
			"discord_id":     unlocked.DiscordID,
			"achievement_id": unlocked.AchievementID,
		}).Debug("Achievement unlocked without a channel, not announcing")
		return nil
	}

	if err := a.transport.Send(ctx, unlocked.ChannelID, AnnouncementText(unlocked)); err != nil {
		return fmt.Errorf("failed to announce achievement %s for %s: %w", unlocked.AchievementID, unlocked.DiscordID, err)
	}
	return nil
}
