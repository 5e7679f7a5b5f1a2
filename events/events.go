package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeGameStarted          EventType = "game_started"
	EventTypeGameWon              EventType = "game_won"
	EventTypeGameEnded            EventType = "game_ended"
	EventTypeAchievementUnlocked  EventType = "achievement_unlocked"
	EventTypePollinationsRecorded EventType = "pollinations_recorded"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// GameStartedEvent is emitted when a guess-the-idol round opens in a channel
type GameStartedEvent struct {
	ChannelID    string    `json:"channel_id"`
	StarterID    string    `json:"starter_id"`
	AttemptLimit int       `json:"attempt_limit"`
	HasGroupName bool      `json:"has_group_name"`
	NoHints      bool      `json:"no_hints"`
	StartedAt    time.Time `json:"started_at"`
}

func (e GameStartedEvent) Type() EventType {
	return EventTypeGameStarted
}

// GameWonEvent is emitted once per round, after rewards were settled
type GameWonEvent struct {
	ChannelID      string    `json:"channel_id"`
	WinnerID       string    `json:"winner_id"`
	StarterID      string    `json:"starter_id"`
	GroupGuesserID string    `json:"group_guesser_id,omitempty"`
	Target         string    `json:"target"`
	BaseReward     int64     `json:"base_reward"`
	WonAt          time.Time `json:"won_at"`
}

func (e GameWonEvent) Type() EventType {
	return EventTypeGameWon
}

// GameEndedEvent is emitted when a round is ended without a winner
type GameEndedEvent struct {
	ChannelID string    `json:"channel_id"`
	EndedByID string    `json:"ended_by_id"`
	Target    string    `json:"target"`
	EndedAt   time.Time `json:"ended_at"`
}

func (e GameEndedEvent) Type() EventType {
	return EventTypeGameEnded
}

// AchievementUnlockedEvent is emitted for every newly stored achievement
type AchievementUnlockedEvent struct {
	DiscordID     string    `json:"discord_id"`
	AchievementID string    `json:"achievement_id"`
	Name          string    `json:"name"`
	Emoji         string    `json:"emoji"`
	Description   string    `json:"description"`
	ChannelID     string    `json:"channel_id,omitempty"` // where to announce, empty for the default channel
	UnlockedAt    time.Time `json:"unlocked_at"`
}

func (e AchievementUnlockedEvent) Type() EventType {
	return EventTypeAchievementUnlocked
}

// PollinationsRecordedEvent is emitted after a scan committed new pollinations for a user
type PollinationsRecordedEvent struct {
	DiscordID string `json:"discord_id"`
	ChannelID string `json:"channel_id"`
	Added     int    `json:"added"`
}

func (e PollinationsRecordedEvent) Type() EventType {
	return EventTypePollinationsRecorded
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Handlers run asynchronously so publishers never block on them
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Publish emits the event and satisfies the publisher interface used by services
func (b *Bus) Publish(event Event) error {
	b.Emit(context.Background(), event)
	return nil
}

// TransactionalBus holds events until the surrounding database transaction commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) error {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
	return nil
}

// Flush is called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing pending events")

	// Handlers must not inherit a context tied to the finished transaction
	eventCtx := context.WithoutCancel(ctx)

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
