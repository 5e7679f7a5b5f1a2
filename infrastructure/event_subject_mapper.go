package infrastructure

import (
	"fmt"

	"idolbot/events"
)

// DomainEventStream is the JetStream stream that stores mirrored events
const DomainEventStream = "idol_events"

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeGameStarted:
		return "idol.game.started"
	case events.EventTypeGameWon:
		return "idol.game.won"
	case events.EventTypeGameEnded:
		return "idol.game.ended"
	case events.EventTypeAchievementUnlocked:
		return "idol.achievement.unlocked"
	default:
		return fmt.Sprintf("idol.unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "idol.game.started":
		return events.EventTypeGameStarted
	case "idol.game.won":
		return events.EventTypeGameWon
	case "idol.game.ended":
		return events.EventTypeGameEnded
	case "idol.achievement.unlocked":
		return events.EventTypeAchievementUnlocked
	default:
		return events.EventType(subject)
	}
}

// MirroredEventTypes returns the event types forwarded to NATS
func (m *EventSubjectMapper) MirroredEventTypes() []events.EventType {
	return []events.EventType{
		events.EventTypeGameStarted,
		events.EventTypeGameWon,
		events.EventTypeGameEnded,
		events.EventTypeAchievementUnlocked,
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"idol.game.started",
		"idol.game.won",
		"idol.game.ended",
		"idol.achievement.unlocked",
	}
}
