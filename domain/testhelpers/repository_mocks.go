package testhelpers

import (
	"context"
	"time"

	"idolbot/domain/entities"
	"idolbot/events"

	"github.com/stretchr/testify/mock"
)

// MockLeaderboardRepository is a mock implementation of LeaderboardRepository
type MockLeaderboardRepository struct {
	mock.Mock
}

func (m *MockLeaderboardRepository) AddPoints(ctx context.Context, discordID, username string, delta int64) (int64, error) {
	args := m.Called(ctx, discordID, username, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaderboardRepository) GetTop(ctx context.Context, limit int) ([]*entities.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardRepository) GetRank(ctx context.Context, discordID string) (int, int64, error) {
	args := m.Called(ctx, discordID)
	return args.Int(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockLeaderboardRepository) Remove(ctx context.Context, discordID string) (bool, error) {
	args := m.Called(ctx, discordID)
	return args.Bool(0), args.Error(1)
}

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByDiscordID(ctx context.Context, discordID string) (*entities.UserProfile, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProfile), args.Error(1)
}

func (m *MockProfileRepository) IncrementGamesStarted(ctx context.Context, discordID, username string) error {
	args := m.Called(ctx, discordID, username)
	return args.Error(0)
}

func (m *MockProfileRepository) IncrementGamesWon(ctx context.Context, discordID, username string) error {
	args := m.Called(ctx, discordID, username)
	return args.Error(0)
}

func (m *MockProfileRepository) RecordReward(ctx context.Context, discordID, username string, source entities.RewardSource, points, money int64) error {
	args := m.Called(ctx, discordID, username, source, points, money)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateBio(ctx context.Context, discordID, username string, update entities.BioUpdate) (*entities.UserProfile, error) {
	args := m.Called(ctx, discordID, username, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProfile), args.Error(1)
}

func (m *MockProfileRepository) GetServerGamesWon(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockAchievementRepository is a mock implementation of AchievementRepository
type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) GetUnlocked(ctx context.Context, discordID string) ([]*entities.UserAchievement, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.UserAchievement), args.Error(1)
}

func (m *MockAchievementRepository) Unlock(ctx context.Context, discordID, achievementID string, unlockedAt time.Time) (bool, error) {
	args := m.Called(ctx, discordID, achievementID, unlockedAt)
	return args.Bool(0), args.Error(1)
}

// MockFreeSpinRepository is a mock implementation of FreeSpinRepository
type MockFreeSpinRepository struct {
	mock.Mock
}

func (m *MockFreeSpinRepository) Get(ctx context.Context, discordID string) (int, error) {
	args := m.Called(ctx, discordID)
	return args.Int(0), args.Error(1)
}

func (m *MockFreeSpinRepository) Add(ctx context.Context, discordID string, spins int) (int, error) {
	args := m.Called(ctx, discordID, spins)
	return args.Int(0), args.Error(1)
}

func (m *MockFreeSpinRepository) Consume(ctx context.Context, discordID string) (bool, error) {
	args := m.Called(ctx, discordID)
	return args.Bool(0), args.Error(1)
}

// MockTicketBuffRepository is a mock implementation of TicketBuffRepository
type MockTicketBuffRepository struct {
	mock.Mock
}

func (m *MockTicketBuffRepository) Get(ctx context.Context, discordID string) (*entities.TicketBuffs, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TicketBuffs), args.Error(1)
}

func (m *MockTicketBuffRepository) Add(ctx context.Context, discordID string, kind entities.TicketKind, count int) (*entities.TicketBuffs, error) {
	args := m.Called(ctx, discordID, kind, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TicketBuffs), args.Error(1)
}

func (m *MockTicketBuffRepository) Consume(ctx context.Context, discordID string, kind entities.TicketKind) (bool, error) {
	args := m.Called(ctx, discordID, kind)
	return args.Bool(0), args.Error(1)
}

// MockPollinationRepository is a mock implementation of PollinationRepository
type MockPollinationRepository struct {
	mock.Mock
}

func (m *MockPollinationRepository) NextNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPollinationRepository) Insert(ctx context.Context, pollination *entities.Pollination) (bool, error) {
	args := m.Called(ctx, pollination)
	return args.Bool(0), args.Error(1)
}

func (m *MockPollinationRepository) CountByUser(ctx context.Context, discordID string) (int64, error) {
	args := m.Called(ctx, discordID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPollinationRepository) Total(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPollinationRepository) GetTop(ctx context.Context, limit int) ([]*entities.PollinationCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PollinationCount), args.Error(1)
}

func (m *MockPollinationRepository) ListByUser(ctx context.Context, discordID string) ([]*entities.Pollination, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Pollination), args.Error(1)
}

func (m *MockPollinationRepository) ListByNumberRange(ctx context.Context, from, to int64) ([]*entities.Pollination, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Pollination), args.Error(1)
}

func (m *MockPollinationRepository) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPollinationRepository) GetCursor(ctx context.Context, channelID string) (string, error) {
	args := m.Called(ctx, channelID)
	return args.String(0), args.Error(1)
}

func (m *MockPollinationRepository) SetCursor(ctx context.Context, channelID, messageID string) error {
	args := m.Called(ctx, channelID, messageID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
