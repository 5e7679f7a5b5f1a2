package repository

import (
	"context"
	"errors"
	"fmt"

	"idolbot/database"
	"idolbot/domain/entities"
	"idolbot/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// ticketBuffsDB is a local struct for database mapping
type ticketBuffsDB struct {
	DiscordID     string `db:"discord_id"`
	SilverTickets int    `db:"silver_tickets"`
	GoldenTickets int    `db:"golden_tickets"`
}

func (t *ticketBuffsDB) toDomain() *entities.TicketBuffs {
	return &entities.TicketBuffs{
		DiscordID:     t.DiscordID,
		SilverTickets: t.SilverTickets,
		GoldenTickets: t.GoldenTickets,
	}
}

var ticketColumns = map[entities.TicketKind]string{
	entities.TicketSilver: "silver_tickets",
	entities.TicketGolden: "golden_tickets",
}

// ticketBuffRepository implements interfaces.TicketBuffRepository
type ticketBuffRepository struct {
	q Queryable
}

// NewTicketBuffRepository creates a new ticket buff repository
func NewTicketBuffRepository(db *database.DB) interfaces.TicketBuffRepository {
	return &ticketBuffRepository{q: db.Pool}
}

// NewTicketBuffRepositoryScoped creates a ticket buff repository bound to a transaction
func NewTicketBuffRepositoryScoped(tx Queryable) interfaces.TicketBuffRepository {
	return &ticketBuffRepository{q: tx}
}

// Get returns the user's tickets; a user without a row holds none
func (r *ticketBuffRepository) Get(ctx context.Context, discordID string) (*entities.TicketBuffs, error) {
	query := `SELECT discord_id, silver_tickets, golden_tickets FROM ticket_buffs WHERE discord_id = $1`

	var row ticketBuffsDB
	err := r.q.QueryRow(ctx, query, discordID).Scan(&row.DiscordID, &row.SilverTickets, &row.GoldenTickets)
	if errors.Is(err, pgx.ErrNoRows) {
		return &entities.TicketBuffs{DiscordID: discordID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket buffs for user %s: %w", discordID, err)
	}
	return row.toDomain(), nil
}

// Add grants tickets of one kind and returns the updated set
func (r *ticketBuffRepository) Add(ctx context.Context, discordID string, kind entities.TicketKind, count int) (*entities.TicketBuffs, error) {
	column, ok := ticketColumns[kind]
	if !ok {
		return nil, fmt.Errorf("unknown ticket kind %q", kind)
	}

	query := fmt.Sprintf(`
		INSERT INTO ticket_buffs (discord_id, %[1]s)
		VALUES ($1, $2)
		ON CONFLICT (discord_id) DO UPDATE
		SET %[1]s = ticket_buffs.%[1]s + EXCLUDED.%[1]s, updated_at = NOW()
		RETURNING discord_id, silver_tickets, golden_tickets`, column)

	var row ticketBuffsDB
	if err := r.q.QueryRow(ctx, query, discordID, count).Scan(&row.DiscordID, &row.SilverTickets, &row.GoldenTickets); err != nil {
		return nil, fmt.Errorf("failed to add %s tickets for user %s: %w", kind, discordID, err)
	}
	return row.toDomain(), nil
}

// Consume takes one ticket of kind if the user has any
func (r *ticketBuffRepository) Consume(ctx context.Context, discordID string, kind entities.TicketKind) (bool, error) {
	column, ok := ticketColumns[kind]
	if !ok {
		return false, fmt.Errorf("unknown ticket kind %q", kind)
	}

	query := fmt.Sprintf(`
		UPDATE ticket_buffs
		SET %[1]s = %[1]s - 1, updated_at = NOW()
		WHERE discord_id = $1 AND %[1]s > 0`, column)

	result, err := r.q.Exec(ctx, query, discordID)
	if err != nil {
		return false, fmt.Errorf("failed to consume %s ticket for user %s: %w", kind, discordID, err)
	}
	return result.RowsAffected() == 1, nil
}
