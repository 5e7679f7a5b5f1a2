package interfaces

import (
	"context"
	"time"

	"idolbot/domain/entities"
)

// CurrencyLedger is the external economy that holds user money
type CurrencyLedger interface {
	// Award adds amount to a user's cash balance
	Award(ctx context.Context, discordID string, amount int64) error

	// Subtract removes amount from a user's cash balance
	Subtract(ctx context.Context, discordID string, amount int64) error

	// Balance returns a user's cash balance
	Balance(ctx context.Context, discordID string) (int64, error)
}

// TextGenerator produces short conversational replies
type TextGenerator interface {
	// Generate returns a reply to prompt. Failures are reported as a fallback
	// reply rather than an error.
	Generate(ctx context.Context, prompt string) string
}

// StatsProvider assembles the values achievement checks compare against
type StatsProvider interface {
	Snapshot(ctx context.Context, discordID string) (entities.StatSnapshot, error)
}

// LevelReader reads a user's chat level from the level bot's announcements
type LevelReader interface {
	Level(ctx context.Context, discordID string) (int, error)
}

// MessageTransport sends bot output to chat channels
type MessageTransport interface {
	Send(ctx context.Context, channelID, content string) error
	React(ctx context.Context, channelID, messageID, emoji string) error
}

// MessageSource pages through channel history for scanners
type MessageSource interface {
	// MessagesAfter returns up to limit messages newer than afterID, oldest first.
	// An empty afterID starts from the beginning of the channel.
	MessagesAfter(ctx context.Context, channelID, afterID string, limit int) ([]entities.ScannedMessage, error)
}

// TaskRunner executes best-effort background work. Submitted tasks are never
// retried and their errors are only logged.
type TaskRunner interface {
	Submit(name string, task func(ctx context.Context) error) bool
}

// Clock abstracts time for services with cooldowns
type Clock interface {
	Now() time.Time
}

// GameService defines the guess-the-idol session operations
type GameService interface {
	StartSession(ctx context.Context, req entities.StartSessionRequest) (*entities.GameSession, error)
	SubmitGuess(ctx context.Context, channelID string, user entities.Player, rawText string) entities.GuessResult
	EndSession(ctx context.Context, channelID string, requestor entities.Player) (*entities.EndResult, error)
}

// AchievementService defines the achievement operations
type AchievementService interface {
	// CheckAndUnlock stores every newly reached achievement and returns those
	CheckAndUnlock(ctx context.Context, discordID, channelID string) ([]entities.Achievement, error)
	Progress(ctx context.Context, discordID string) (*entities.AchievementProgress, error)
}

// ProfileService defines the profile operations
type ProfileService interface {
	GetDetails(ctx context.Context, discordID string) (*entities.ProfileDetails, error)
	UpdateBio(ctx context.Context, discordID, username string, update entities.BioUpdate) (*entities.UserProfile, error)
	ServerProfile(ctx context.Context, discordID string) (*entities.ServerProfile, error)
}

// LeaderboardService defines the leaderboard operations
type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]*entities.LeaderboardEntry, error)
	AdjustPoints(ctx context.Context, discordID, username string, delta int64) (int64, error)
	RemovePlayer(ctx context.Context, discordID string) (bool, error)
}

// SlotsService defines the slots operations
type SlotsService interface {
	// Spin plays one round; channelID is where unlocked achievements are announced
	Spin(ctx context.Context, discordID, channelID string) (*entities.SpinResult, error)
	Buffs(ctx context.Context, discordID string) (*entities.TicketBuffs, int, error)
	GiftSpins(ctx context.Context, discordID string, spins int) (int, error)
	GiftTicket(ctx context.Context, discordID string, kind entities.TicketKind, count int) (*entities.TicketBuffs, error)
}

// PollinationService defines the pollination operations
type PollinationService interface {
	Scan(ctx context.Context, channelID string) (*entities.ScanReport, error)
	Count(ctx context.Context, discordID string) (int64, error)
	Total(ctx context.Context) (int64, error)
	Top(ctx context.Context, limit int) ([]*entities.PollinationCount, error)
	ByUser(ctx context.Context, discordID string) ([]*entities.Pollination, error)
	Lookup(ctx context.Context, numbers entities.NumberRange) ([]*entities.Pollination, error)
	Reset(ctx context.Context) error
}
