package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"idolbot/database"
	"idolbot/domain/entities"
	"idolbot/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// pollinationDB is a row of the pollinations table
type pollinationDB struct {
	ID             int64
	DiscordID      string
	Number         int64
	MessageID      string
	ContentNumbers string
	PostedAt       time.Time
}

func (p *pollinationDB) toDomain() *entities.Pollination {
	return &entities.Pollination{
		ID:             p.ID,
		DiscordID:      p.DiscordID,
		Number:         p.Number,
		MessageID:      p.MessageID,
		ContentNumbers: p.ContentNumbers,
		PostedAt:       p.PostedAt,
	}
}

// pollinationRepository implements interfaces.PollinationRepository
type pollinationRepository struct {
	q Queryable
}

// NewPollinationRepository creates a new pollination repository
func NewPollinationRepository(db *database.DB) interfaces.PollinationRepository {
	return &pollinationRepository{q: db.Pool}
}

// NewPollinationRepositoryScoped creates a pollination repository bound to a transaction
func NewPollinationRepositoryScoped(tx Queryable) interfaces.PollinationRepository {
	return &pollinationRepository{q: tx}
}

// NextNumber returns one past the highest number handed out so far
func (r *pollinationRepository) NextNumber(ctx context.Context) (int64, error) {
	var next int64
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(pollination_number), 0) + 1 FROM pollinations`).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to get next pollination number: %w", err)
	}
	return next, nil
}

// Insert stores a pollination unless its message was already counted. A
// clash on the pollination number is an error.
func (r *pollinationRepository) Insert(ctx context.Context, p *entities.Pollination) (bool, error) {
	query := `
		INSERT INTO pollinations (discord_id, pollination_number, message_id, content_numbers, posted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (message_id) DO NOTHING
		RETURNING id`

	err := r.q.QueryRow(ctx, query, p.DiscordID, p.Number, p.MessageID, p.ContentNumbers, p.PostedAt).Scan(&p.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert pollination for message %s: %w", p.MessageID, err)
	}
	return true, nil
}

func (r *pollinationRepository) CountByUser(ctx context.Context, discordID string) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM pollinations WHERE discord_id = $1`, discordID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pollinations for user %s: %w", discordID, err)
	}
	return count, nil
}

func (r *pollinationRepository) Total(ctx context.Context) (int64, error) {
	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM pollinations`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count pollinations: %w", err)
	}
	return total, nil
}

// GetTop returns the users with the most pollinations, ties broken by ID
func (r *pollinationRepository) GetTop(ctx context.Context, limit int) ([]*entities.PollinationCount, error) {
	query := `
		SELECT discord_id, COUNT(*) AS pollinations
		FROM pollinations
		GROUP BY discord_id
		ORDER BY pollinations DESC, discord_id ASC
		LIMIT $1`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pollination leaderboard: %w", err)
	}
	defer rows.Close()

	var counts []*entities.PollinationCount
	for rows.Next() {
		var c entities.PollinationCount
		if err := rows.Scan(&c.DiscordID, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan pollination count: %w", err)
		}
		counts = append(counts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pollination counts: %w", err)
	}
	return counts, nil
}

func (r *pollinationRepository) ListByUser(ctx context.Context, discordID string) ([]*entities.Pollination, error) {
	query := `
		SELECT id, discord_id, pollination_number, message_id, content_numbers, posted_at
		FROM pollinations
		WHERE discord_id = $1
		ORDER BY pollination_number`

	pollinations, err := r.list(ctx, query, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pollinations for user %s: %w", discordID, err)
	}
	return pollinations, nil
}

func (r *pollinationRepository) ListByNumberRange(ctx context.Context, from, to int64) ([]*entities.Pollination, error) {
	query := `
		SELECT id, discord_id, pollination_number, message_id, content_numbers, posted_at
		FROM pollinations
		WHERE pollination_number BETWEEN $1 AND $2
		ORDER BY pollination_number`

	pollinations, err := r.list(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list pollinations %d-%d: %w", from, to, err)
	}
	return pollinations, nil
}

func (r *pollinationRepository) list(ctx context.Context, query string, args ...any) ([]*entities.Pollination, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pollinations []*entities.Pollination
	for rows.Next() {
		var p pollinationDB
		if err := rows.Scan(&p.ID, &p.DiscordID, &p.Number, &p.MessageID, &p.ContentNumbers, &p.PostedAt); err != nil {
			return nil, err
		}
		pollinations = append(pollinations, p.toDomain())
	}
	return pollinations, rows.Err()
}

// Reset clears both tables in one statement so numbering restarts at 1
func (r *pollinationRepository) Reset(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `TRUNCATE pollinations, pollination_progress RESTART IDENTITY`); err != nil {
		return fmt.Errorf("failed to reset pollinations: %w", err)
	}
	return nil
}

func (r *pollinationRepository) GetCursor(ctx context.Context, channelID string) (string, error) {
	var cursor *string
	err := r.q.QueryRow(ctx, `SELECT last_message_id FROM pollination_progress WHERE channel_id = $1`, channelID).Scan(&cursor)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get scan cursor for channel %s: %w", channelID, err)
	}
	return deref(cursor), nil
}

func (r *pollinationRepository) SetCursor(ctx context.Context, channelID, messageID string) error {
	query := `
		INSERT INTO pollination_progress (channel_id, last_message_id)
		VALUES ($1, $2)
		ON CONFLICT (channel_id) DO UPDATE
		SET last_message_id = EXCLUDED.last_message_id, updated_at = NOW()`

	if _, err := r.q.Exec(ctx, query, channelID, messageID); err != nil {
		return fmt.Errorf("failed to set scan cursor for channel %s: %w", channelID, err)
	}
	return nil
}
