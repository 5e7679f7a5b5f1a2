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

// leaderboardDB is a local struct for database mapping
type leaderboardDB struct {
	DiscordID string    `db:"discord_id"`
	Username  string    `db:"username"`
	Points    int64     `db:"points"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (l *leaderboardDB) toDomain() *entities.LeaderboardEntry {
	return &entities.LeaderboardEntry{
		DiscordID: l.DiscordID,
		Username:  l.Username,
		Points:    l.Points,
	}
}

// leaderboardRepository implements interfaces.LeaderboardRepository
type leaderboardRepository struct {
	q Queryable
}

// NewLeaderboardRepository creates a new leaderboard repository
func NewLeaderboardRepository(db *database.DB) interfaces.LeaderboardRepository {
	return &leaderboardRepository{q: db.Pool}
}

// NewLeaderboardRepositoryScoped creates a leaderboard repository bound to a transaction
func NewLeaderboardRepositoryScoped(tx Queryable) interfaces.LeaderboardRepository {
	return &leaderboardRepository{q: tx}
}

// AddPoints upserts the user's row and clamps the total at zero
func (r *leaderboardRepository) AddPoints(ctx context.Context, discordID, username string, delta int64) (int64, error) {
	query := `
		INSERT INTO leaderboard (discord_id, username, points, updated_at)
		VALUES ($1, $2::text, GREATEST(0, $3::bigint), NOW())
		ON CONFLICT (discord_id) DO UPDATE
		SET points = GREATEST(0, leaderboard.points + $3::bigint),
			username = COALESCE(NULLIF($2::text, ''), leaderboard.username),
			updated_at = NOW()
		RETURNING points`

	var points int64
	if err := r.q.QueryRow(ctx, query, discordID, username, delta).Scan(&points); err != nil {
		return 0, fmt.Errorf("failed to add points for user %s: %w", discordID, err)
	}
	return points, nil
}

// GetTop returns the highest ranked users
func (r *leaderboardRepository) GetTop(ctx context.Context, limit int) ([]*entities.LeaderboardEntry, error) {
	query := `
		SELECT discord_id, username, points, updated_at
		FROM leaderboard
		ORDER BY points DESC, updated_at ASC
		LIMIT $1`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*entities.LeaderboardEntry
	for rows.Next() {
		var row leaderboardDB
		if err := rows.Scan(&row.DiscordID, &row.Username, &row.Points, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}
	return entries, nil
}

// GetRank returns the user's 1-based rank, with ties sharing a rank
func (r *leaderboardRepository) GetRank(ctx context.Context, discordID string) (int, int64, error) {
	query := `
		SELECT rank, points FROM (
			SELECT discord_id, points, RANK() OVER (ORDER BY points DESC) AS rank
			FROM leaderboard
		) ranked
		WHERE discord_id = $1`

	var (
		rank   int64
		points int64
	)
	err := r.q.QueryRow(ctx, query, discordID).Scan(&rank, &points)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get rank for user %s: %w", discordID, err)
	}
	return int(rank), points, nil
}

// Remove deletes the user's row
func (r *leaderboardRepository) Remove(ctx context.Context, discordID string) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM leaderboard WHERE discord_id = $1`, discordID)
	if err != nil {
		return false, fmt.Errorf("failed to remove user %s from leaderboard: %w", discordID, err)
	}
	return result.RowsAffected() > 0, nil
}
