package interfaces

import (
	"context"
	"time"

	"idolbot/domain/entities"
	"idolbot/events"
)

// LeaderboardRepository defines the interface for the raw points ranking
type LeaderboardRepository interface {
	// AddPoints adds delta (which may be negative) to a user's points, creating the row
	// if needed. Points never go below zero. Returns the new total.
	AddPoints(ctx context.Context, discordID, username string, delta int64) (int64, error)

	// GetTop returns the highest ranked users
	GetTop(ctx context.Context, limit int) ([]*entities.LeaderboardEntry, error)

	// GetRank returns the 1-based rank and points of a user, rank 0 when unranked
	GetRank(ctx context.Context, discordID string) (int, int64, error)

	// Remove deletes a user from the leaderboard, reporting whether a row existed
	Remove(ctx context.Context, discordID string) (bool, error)
}

// ProfileRepository defines the interface for itemized guess-game profiles
type ProfileRepository interface {
	// GetByDiscordID returns nil, nil when the user has no profile
	GetByDiscordID(ctx context.Context, discordID string) (*entities.UserProfile, error)

	// IncrementGamesStarted bumps games_started, creating the profile if needed
	IncrementGamesStarted(ctx context.Context, discordID, username string) error

	// IncrementGamesWon bumps games_won, creating the profile if needed
	IncrementGamesWon(ctx context.Context, discordID, username string) error

	// RecordReward adds points and money to the counters of one reward source
	RecordReward(ctx context.Context, discordID, username string, source entities.RewardSource, points, money int64) error

	// UpdateBio applies the non-nil fields of update and returns the stored profile
	UpdateBio(ctx context.Context, discordID, username string, update entities.BioUpdate) (*entities.UserProfile, error)

	// GetServerGamesWon returns the sum of games won across all profiles
	GetServerGamesWon(ctx context.Context) (int64, error)
}

// AchievementRepository defines the interface for unlocked achievements
type AchievementRepository interface {
	// GetUnlocked returns a user's achievements, oldest first
	GetUnlocked(ctx context.Context, discordID string) ([]*entities.UserAchievement, error)

	// Unlock stores an achievement and reports whether it was newly inserted
	Unlock(ctx context.Context, discordID, achievementID string, unlockedAt time.Time) (bool, error)
}

// FreeSpinRepository defines the interface for slots free spin counters
type FreeSpinRepository interface {
	Get(ctx context.Context, discordID string) (int, error)

	// Add grants spins and returns the new count
	Add(ctx context.Context, discordID string, spins int) (int, error)

	// Consume takes one spin if available and reports whether it did
	Consume(ctx context.Context, discordID string) (bool, error)
}

// TicketBuffRepository defines the interface for slots ticket buffs
type TicketBuffRepository interface {
	// Get returns a zero-valued buff set when the user holds none
	Get(ctx context.Context, discordID string) (*entities.TicketBuffs, error)

	Add(ctx context.Context, discordID string, kind entities.TicketKind, count int) (*entities.TicketBuffs, error)

	// Consume takes one ticket of kind if available and reports whether it did
	Consume(ctx context.Context, discordID string, kind entities.TicketKind) (bool, error)
}

// PollinationRepository defines the interface for counted pollination posts
type PollinationRepository interface {
	// NextNumber returns the number the next inserted pollination will get
	NextNumber(ctx context.Context) (int64, error)

	// Insert stores a pollination, returning false when the message was already counted
	Insert(ctx context.Context, pollination *entities.Pollination) (bool, error)

	CountByUser(ctx context.Context, discordID string) (int64, error)
	Total(ctx context.Context) (int64, error)
	GetTop(ctx context.Context, limit int) ([]*entities.PollinationCount, error)

	// ListByUser and ListByNumberRange return pollinations ordered by number
	ListByUser(ctx context.Context, discordID string) ([]*entities.Pollination, error)
	ListByNumberRange(ctx context.Context, from, to int64) ([]*entities.Pollination, error)

	// Reset deletes every pollination and every scan cursor
	Reset(ctx context.Context) error

	// GetCursor returns the last scanned message ID of a channel, empty when never scanned
	GetCursor(ctx context.Context, channelID string) (string, error)
	SetCursor(ctx context.Context, channelID, messageID string) error
}

// PollinationTransactor runs fn with a pollination repository and an event
// publisher bound to one database transaction. Events published inside fn are
// delivered only after the transaction commits.
type PollinationTransactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repo PollinationRepository, publisher EventPublisher) error) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}
