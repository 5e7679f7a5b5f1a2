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

// profileDB is a local struct for database mapping
type profileDB struct {
	DiscordID            string    `db:"discord_id"`
	Username             string    `db:"username"`
	GamesStarted         int64     `db:"games_started"`
	GamesWon             int64     `db:"games_won"`
	PointsFromStarting   int64     `db:"points_from_starting"`
	PointsFromAssists    int64     `db:"points_from_assists"`
	PointsFromWinning    int64     `db:"points_from_winning"`
	MoneyFromStarting    int64     `db:"money_from_starting"`
	MoneyFromAssists     int64     `db:"money_from_assists"`
	MoneyFromWinning     int64     `db:"money_from_winning"`
	Bio                  *string   `db:"bio"`
	FavoriteIdolName     *string   `db:"favorite_idol_name"`
	FavoriteIdolImageURL *string   `db:"favorite_idol_image_url"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

const profileColumns = `discord_id, username, games_started, games_won,
	points_from_starting, points_from_assists, points_from_winning,
	money_from_starting, money_from_assists, money_from_winning,
	bio, favorite_idol_name, favorite_idol_image_url, created_at, updated_at`

func (p *profileDB) scanTargets() []any {
	return []any{
		&p.DiscordID, &p.Username, &p.GamesStarted, &p.GamesWon,
		&p.PointsFromStarting, &p.PointsFromAssists, &p.PointsFromWinning,
		&p.MoneyFromStarting, &p.MoneyFromAssists, &p.MoneyFromWinning,
		&p.Bio, &p.FavoriteIdolName, &p.FavoriteIdolImageURL, &p.CreatedAt, &p.UpdatedAt,
	}
}

func (p *profileDB) toDomain() *entities.UserProfile {
	return &entities.UserProfile{
		DiscordID:            p.DiscordID,
		Username:             p.Username,
		GamesStarted:         p.GamesStarted,
		GamesWon:             p.GamesWon,
		PointsFromStarting:   p.PointsFromStarting,
		PointsFromAssists:    p.PointsFromAssists,
		PointsFromWinning:    p.PointsFromWinning,
		MoneyFromStarting:    p.MoneyFromStarting,
		MoneyFromAssists:     p.MoneyFromAssists,
		MoneyFromWinning:     p.MoneyFromWinning,
		Bio:                  deref(p.Bio),
		FavoriteIdolName:     deref(p.FavoriteIdolName),
		FavoriteIdolImageURL: deref(p.FavoriteIdolImageURL),
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// rewardColumns maps a reward source to its point and money counters
var rewardColumns = map[entities.RewardSource][2]string{
	entities.RewardSourceStarting: {"points_from_starting", "money_from_starting"},
	entities.RewardSourceAssist:   {"points_from_assists", "money_from_assists"},
	entities.RewardSourceWinning:  {"points_from_winning", "money_from_winning"},
}

// profileRepository implements interfaces.ProfileRepository
type profileRepository struct {
	q Queryable
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) interfaces.ProfileRepository {
	return &profileRepository{q: db.Pool}
}

// NewProfileRepositoryScoped creates a profile repository bound to a transaction
func NewProfileRepositoryScoped(tx Queryable) interfaces.ProfileRepository {
	return &profileRepository{q: tx}
}

// GetByDiscordID retrieves a profile by Discord ID
func (r *profileRepository) GetByDiscordID(ctx context.Context, discordID string) (*entities.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE discord_id = $1`

	var row profileDB
	err := r.q.QueryRow(ctx, query, discordID).Scan(row.scanTargets()...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile for user %s: %w", discordID, err)
	}
	return row.toDomain(), nil
}

// IncrementGamesStarted bumps games_started, creating the profile if needed
func (r *profileRepository) IncrementGamesStarted(ctx context.Context, discordID, username string) error {
	return r.incrementCounter(ctx, "games_started", discordID, username)
}

// IncrementGamesWon bumps games_won, creating the profile if needed
func (r *profileRepository) IncrementGamesWon(ctx context.Context, discordID, username string) error {
	return r.incrementCounter(ctx, "games_won", discordID, username)
}

func (r *profileRepository) incrementCounter(ctx context.Context, column, discordID, username string) error {
	query := fmt.Sprintf(`
		INSERT INTO user_profiles (discord_id, username, %[1]s)
		VALUES ($1, $2, 1)
		ON CONFLICT (discord_id) DO UPDATE
		SET %[1]s = user_profiles.%[1]s + 1,
			username = COALESCE(NULLIF(EXCLUDED.username, ''), user_profiles.username),
			updated_at = NOW()`, column)

	if _, err := r.q.Exec(ctx, query, discordID, username); err != nil {
		return fmt.Errorf("failed to increment %s for user %s: %w", column, discordID, err)
	}
	return nil
}

// RecordReward adds points and money to the counters of one reward source
func (r *profileRepository) RecordReward(ctx context.Context, discordID, username string, source entities.RewardSource, points, money int64) error {
	columns, ok := rewardColumns[source]
	if !ok {
		return fmt.Errorf("unknown reward source %q", source)
	}

	query := fmt.Sprintf(`
		INSERT INTO user_profiles (discord_id, username, %[1]s, %[2]s)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (discord_id) DO UPDATE
		SET %[1]s = user_profiles.%[1]s + EXCLUDED.%[1]s,
			%[2]s = user_profiles.%[2]s + EXCLUDED.%[2]s,
			username = COALESCE(NULLIF(EXCLUDED.username, ''), user_profiles.username),
			updated_at = NOW()`, columns[0], columns[1])

	if _, err := r.q.Exec(ctx, query, discordID, username, points, money); err != nil {
		return fmt.Errorf("failed to record %s reward for user %s: %w", source, discordID, err)
	}
	return nil
}

// UpdateBio applies the non-nil fields of update
func (r *profileRepository) UpdateBio(ctx context.Context, discordID, username string, update entities.BioUpdate) (*entities.UserProfile, error) {
	query := `
		INSERT INTO user_profiles (discord_id, username, bio, favorite_idol_name, favorite_idol_image_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (discord_id) DO UPDATE
		SET bio = COALESCE($3, user_profiles.bio),
			favorite_idol_name = COALESCE($4, user_profiles.favorite_idol_name),
			favorite_idol_image_url = COALESCE($5, user_profiles.favorite_idol_image_url),
			username = COALESCE(NULLIF(EXCLUDED.username, ''), user_profiles.username),
			updated_at = NOW()
		RETURNING ` + profileColumns

	var row profileDB
	err := r.q.QueryRow(ctx, query, discordID, username, update.Bio, update.FavoriteIdolName, update.FavoriteIdolImageURL).Scan(row.scanTargets()...)
	if err != nil {
		return nil, fmt.Errorf("failed to update bio for user %s: %w", discordID, err)
	}
	return row.toDomain(), nil
}

// GetServerGamesWon sums games won across all profiles
func (r *profileRepository) GetServerGamesWon(ctx context.Context) (int64, error) {
	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(games_won), 0)::bigint FROM user_profiles`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum games won: %w", err)
	}
	return total, nil
}
