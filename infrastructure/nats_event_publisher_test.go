package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"idolbot/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	subject string
	data    []byte
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (r *recordingPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, publishedMessage{subject: subject, data: data})
	return nil
}

func (r *recordingPublisher) all() []publishedMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]publishedMessage(nil), r.messages...)
}

func newTestPublisher(client MessagePublisher) *NATSEventPublisher {
	p := NewNATSEventPublisher(client, NewEventSubjectMapper())
	p.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	p.newID = func() string { return "3f0b3c9e-7d1f-4c8e-9a55-0d6b7c1e2f11" }
	return p
}

func TestEventSubjectMapper(t *testing.T) {
	t.Parallel()

	mapper := NewEventSubjectMapper()

	tests := []struct {
		event   events.Event
		subject string
	}{
		{events.GameStartedEvent{}, "idol.game.started"},
		{events.GameWonEvent{}, "idol.game.won"},
		{events.GameEndedEvent{}, "idol.game.ended"},
		{events.AchievementUnlockedEvent{}, "idol.achievement.unlocked"},
		{events.PollinationsRecordedEvent{}, "idol.unknown.pollinations_recorded"},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			assert.Equal(t, tt.subject, mapper.MapEventToSubject(tt.event))
		})
	}

	for _, subject := range mapper.GetAllSubjects() {
		eventType := mapper.MapSubjectToEventType(subject)
		assert.Contains(t, mapper.MirroredEventTypes(), eventType, subject)
	}
}

func TestNATSEventPublisher_Envelope(t *testing.T) {
	t.Parallel()

	client := &recordingPublisher{}
	publisher := newTestPublisher(client)

	err := publisher.Publish(events.GameWonEvent{
		ChannelID:  "c1",
		WinnerID:   "200",
		StarterID:  "100",
		Target:     "lisa",
		BaseReward: 100,
	})
	require.NoError(t, err)

	messages := client.all()
	require.Len(t, messages, 1)
	assert.Equal(t, "idol.game.won", messages[0].subject)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(messages[0].data, &envelope))
	assert.Equal(t, "3f0b3c9e-7d1f-4c8e-9a55-0d6b7c1e2f11", envelope.EventID)
	assert.Equal(t, "game_won", envelope.EventType)
	assert.Equal(t, SourceService, envelope.SourceService)
	assert.True(t, envelope.Timestamp.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))

	var payload events.GameWonEvent
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, "200", payload.WinnerID)
	assert.Equal(t, "lisa", payload.Target)
	assert.Empty(t, payload.GroupGuesserID)
}

func TestNATSEventPublisher_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing stream is tolerated", func(t *testing.T) {
		publisher := newTestPublisher(&recordingPublisher{err: errors.New("nats: no response from stream")})
		assert.NoError(t, publisher.Publish(events.GameEndedEvent{ChannelID: "c1"}))
	})

	t.Run("other failures are returned", func(t *testing.T) {
		publisher := newTestPublisher(&recordingPublisher{err: errors.New("nats: connection closed")})
		err := publisher.Publish(events.GameEndedEvent{ChannelID: "c1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to publish event to NATS")
	})
}

func TestNATSEventPublisher_ForwardsMirroredEventsOnly(t *testing.T) {
	t.Parallel()

	client := &recordingPublisher{}
	publisher := newTestPublisher(client)

	bus := events.NewBus()
	publisher.Forward(bus)

	bus.Emit(context.Background(), events.AchievementUnlockedEvent{DiscordID: "100", AchievementID: "first_win"})
	bus.Emit(context.Background(), events.PollinationsRecordedEvent{DiscordID: "100", Added: 2})

	require.Eventually(t, func() bool {
		return len(client.all()) == 1
	}, time.Second, 10*time.Millisecond)

	// Give a stray forward of the unmirrored event a chance to show up
	time.Sleep(50 * time.Millisecond)
	messages := client.all()
	require.Len(t, messages, 1)
	assert.Equal(t, "idol.achievement.unlocked", messages[0].subject)
}
