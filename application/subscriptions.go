package application

import (
	"context"
	"fmt"

	"idolbot/domain/interfaces"
	"idolbot/events"
	"idolbot/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// SubscriptionDeps are the collaborators the application handlers need
type SubscriptionDeps struct {
	Transport    interfaces.MessageTransport
	Achievements interfaces.AchievementService
	Tasks        interfaces.TaskRunner
	Metrics      *observability.MetricsProvider
}

// RegisterApplicationSubscriptions wires the in-process event handlers: the
// achievement announcement, achievement checks after new pollinations and
// game metrics.
func RegisterApplicationSubscriptions(bus *events.Bus, deps SubscriptionDeps) {
	announcer := NewAchievementAnnouncer(deps.Transport)
	bus.Subscribe(events.EventTypeAchievementUnlocked, func(ctx context.Context, event events.Event) {
		if unlocked, err := AssertEventType[events.AchievementUnlockedEvent](event); err == nil {
			deps.Metrics.RecordAchievementUnlocked(unlocked.AchievementID)
		}
		logHandlerError(event, announcer.HandleAchievementUnlocked(ctx, event))
	})

	bus.Subscribe(events.EventTypePollinationsRecorded, func(ctx context.Context, event events.Event) {
		logHandlerError(event, schedulePollinationCheck(deps, event))
	})

	gameTypes := map[events.EventType]string{
		events.EventTypeGameStarted: observability.GameStarted,
		events.EventTypeGameWon:     observability.GameWon,
		events.EventTypeGameEnded:   observability.GameEnded,
	}
	for eventType, gameType := range gameTypes {
		bus.Subscribe(eventType, func(ctx context.Context, event events.Event) {
			deps.Metrics.RecordGame(gameType)
		})
	}
}

func schedulePollinationCheck(deps SubscriptionDeps, event events.Event) error {
	recorded, err := AssertEventType[events.PollinationsRecordedEvent](event)
	if err != nil {
		return err
	}

	channelID := recorded.ChannelID
	discordID := recorded.DiscordID
	deps.Tasks.Submit("achievements.check", func(ctx context.Context) error {
		if _, err := deps.Achievements.CheckAndUnlock(ctx, discordID, channelID); err != nil {
			return fmt.Errorf("failed to check achievements for %s: %w", discordID, err)
		}
		return nil
	})
	return nil
}

func logHandlerError(event events.Event, err error) {
	if err == nil {
		return
	}
	log.WithError(err).WithField("eventType", event.Type()).Error("Event handler failed")
}
