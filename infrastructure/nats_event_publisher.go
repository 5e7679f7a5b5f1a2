package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"idolbot/events"
	"idolbot/infrastructure/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// SourceService is stamped on every envelope
const SourceService = "idolbot"

// MessagePublisher is the subset of NATSClient the event publisher needs
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// EventEnvelope wraps a serialized domain event on the wire
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSEventPublisher mirrors domain events to NATS subjects
type NATSEventPublisher struct {
	client        MessagePublisher
	subjectMapper *EventSubjectMapper
	now           func() time.Time
	newID         func() string
}

// NewNATSEventPublisher creates a new NATS event publisher
func NewNATSEventPublisher(client MessagePublisher, subjectMapper *EventSubjectMapper) *NATSEventPublisher {
	return &NATSEventPublisher{
		client:        client,
		subjectMapper: subjectMapper,
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
}

// Publish publishes an event to NATS using the appropriate subject
func (p *NATSEventPublisher) Publish(event events.Event) error {
	return p.publish(context.Background(), event)
}

func (p *NATSEventPublisher) publish(ctx context.Context, event events.Event) error {
	subject := p.subjectMapper.MapEventToSubject(event)

	envelopeData, envelope, err := p.encode(event)
	if err != nil {
		return err
	}

	if err := p.client.Publish(ctx, subject, envelopeData); err != nil {
		// No stream bound to the subject yet; mirroring is best effort
		if strings.Contains(err.Error(), "no response from stream") {
			return nil
		}
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	observability.GetMetrics().RecordNATSMessagePublished(string(event.Type()))

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Successfully published event to NATS")

	return nil
}

func (p *NATSEventPublisher) encode(event events.Event) ([]byte, *EventEnvelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := &EventEnvelope{
		EventID:       p.newID(),
		EventType:     string(event.Type()),
		Timestamp:     p.now().UTC(),
		SourceService: SourceService,
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return data, envelope, nil
}

// Forward subscribes the publisher to every mirrored event type on the bus.
// Failures are logged; the in-process handlers are unaffected.
func (p *NATSEventPublisher) Forward(bus *events.Bus) {
	for _, eventType := range p.subjectMapper.MirroredEventTypes() {
		bus.Subscribe(eventType, func(ctx context.Context, event events.Event) {
			if err := p.publish(ctx, event); err != nil {
				log.WithError(err).WithField("eventType", event.Type()).Warn("Failed to mirror event to NATS")
			}
		})
	}
}

// EnsureDomainEventStream ensures the stream holding mirrored events exists
func EnsureDomainEventStream(client *NATSClient, subjectMapper *EventSubjectMapper) error {
	return client.EnsureStream(DomainEventStream, subjectMapper.GetAllSubjects())
}
