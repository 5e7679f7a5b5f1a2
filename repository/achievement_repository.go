package repository

import (
	"context"
	"fmt"
	"time"

	"idolbot/database"
	"idolbot/domain/entities"
	"idolbot/domain/interfaces"
)

// userAchievementDB is a local struct for database mapping
type userAchievementDB struct {
	DiscordID     string    `db:"discord_id"`
	AchievementID string    `db:"achievement_id"`
	UnlockedAt    time.Time `db:"unlocked_at"`
}

func (a *userAchievementDB) toDomain() *entities.UserAchievement {
	return &entities.UserAchievement{
		DiscordID:     a.DiscordID,
		AchievementID: a.AchievementID,
		UnlockedAt:    a.UnlockedAt,
	}
}

// achievementRepository implements interfaces.AchievementRepository
type achievementRepository struct {
	q Queryable
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db *database.DB) interfaces.AchievementRepository {
	return &achievementRepository{q: db.Pool}
}

// NewAchievementRepositoryScoped creates an achievement repository bound to a transaction
func NewAchievementRepositoryScoped(tx Queryable) interfaces.AchievementRepository {
	return &achievementRepository{q: tx}
}

// GetUnlocked returns a user's achievements, oldest first
func (r *achievementRepository) GetUnlocked(ctx context.Context, discordID string) ([]*entities.UserAchievement, error) {
	query := `
		SELECT discord_id, achievement_id, unlocked_at
		FROM user_achievements
		WHERE discord_id = $1
		ORDER BY unlocked_at ASC, achievement_id ASC`

	rows, err := r.q.Query(ctx, query, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements for user %s: %w", discordID, err)
	}
	defer rows.Close()

	var achievements []*entities.UserAchievement
	for rows.Next() {
		var row userAchievementDB
		if err := rows.Scan(&row.DiscordID, &row.AchievementID, &row.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievements: %w", err)
	}
	return achievements, nil
}

// Unlock inserts the achievement unless the user already has it
func (r *achievementRepository) Unlock(ctx context.Context, discordID, achievementID string, unlockedAt time.Time) (bool, error) {
	query := `
		INSERT INTO user_achievements (discord_id, achievement_id, unlocked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (discord_id, achievement_id) DO NOTHING`

	result, err := r.q.Exec(ctx, query, discordID, achievementID, unlockedAt)
	if err != nil {
		return false, fmt.Errorf("failed to unlock %s for user %s: %w", achievementID, discordID, err)
	}
	return result.RowsAffected() == 1, nil
}
