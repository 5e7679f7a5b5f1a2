package repository

import (
	"context"
	"errors"
	"fmt"

	"idolbot/database"
	"idolbot/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// freeSpinRepository implements interfaces.FreeSpinRepository
type freeSpinRepository struct {
	q Queryable
}

// NewFreeSpinRepository creates a new free spin repository
func NewFreeSpinRepository(db *database.DB) interfaces.FreeSpinRepository {
	return &freeSpinRepository{q: db.Pool}
}

// NewFreeSpinRepositoryScoped creates a free spin repository bound to a transaction
func NewFreeSpinRepositoryScoped(tx Queryable) interfaces.FreeSpinRepository {
	return &freeSpinRepository{q: tx}
}

// Get returns the user's free spins, zero when they have no row
func (r *freeSpinRepository) Get(ctx context.Context, discordID string) (int, error) {
	var spins int
	err := r.q.QueryRow(ctx, `SELECT spins FROM free_spins WHERE discord_id = $1`, discordID).Scan(&spins)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get free spins for user %s: %w", discordID, err)
	}
	return spins, nil
}

// Add grants spins and returns the new count
func (r *freeSpinRepository) Add(ctx context.Context, discordID string, spins int) (int, error) {
	query := `
		INSERT INTO free_spins (discord_id, spins)
		VALUES ($1, $2)
		ON CONFLICT (discord_id) DO UPDATE
		SET spins = free_spins.spins + EXCLUDED.spins, updated_at = NOW()
		RETURNING spins`

	var total int
	if err := r.q.QueryRow(ctx, query, discordID, spins).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to add free spins for user %s: %w", discordID, err)
	}
	return total, nil
}

// Consume takes one spin if the user has any
func (r *freeSpinRepository) Consume(ctx context.Context, discordID string) (bool, error) {
	query := `
		UPDATE free_spins
		SET spins = spins - 1, updated_at = NOW()
		WHERE discord_id = $1 AND spins > 0`

	result, err := r.q.Exec(ctx, query, discordID)
	if err != nil {
		return false, fmt.Errorf("failed to consume free spin for user %s: %w", discordID, err)
	}
	return result.RowsAffected() == 1, nil
}
