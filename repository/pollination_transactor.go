package repository

import (
	"context"

	"idolbot/database"
	"idolbot/domain/interfaces"
	"idolbot/events"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// pollinationTransactor binds a pollination repository and a transactional
// event bus to one database transaction
type pollinationTransactor struct {
	db  *database.DB
	bus *events.Bus
}

// NewPollinationTransactor creates a transactor whose events reach bus after commit
func NewPollinationTransactor(db *database.DB, bus *events.Bus) interfaces.PollinationTransactor {
	return &pollinationTransactor{db: db, bus: bus}
}

// WithinTransaction commits when fn succeeds and flushes the events fn
// published; on failure it rolls back and discards them
func (t *pollinationTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repo interfaces.PollinationRepository, publisher interfaces.EventPublisher) error) error {
	publisher := events.NewTransactionalBus(t.bus)

	err := t.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		return fn(ctx, NewPollinationRepositoryScoped(tx), publisher)
	})
	if err != nil {
		publisher.Discard()
		return err
	}

	if err := publisher.Flush(ctx); err != nil {
		log.WithError(err).Warn("Failed to flush pollination events")
	}
	return nil
}
