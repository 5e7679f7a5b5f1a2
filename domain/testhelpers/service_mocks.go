package testhelpers

import (
	"context"
	"sync"

	"idolbot/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockCurrencyLedger is a mock implementation of CurrencyLedger
type MockCurrencyLedger struct {
	mock.Mock
}

func (m *MockCurrencyLedger) Award(ctx context.Context, discordID string, amount int64) error {
	args := m.Called(ctx, discordID, amount)
	return args.Error(0)
}

func (m *MockCurrencyLedger) Subtract(ctx context.Context, discordID string, amount int64) error {
	args := m.Called(ctx, discordID, amount)
	return args.Error(0)
}

func (m *MockCurrencyLedger) Balance(ctx context.Context, discordID string) (int64, error) {
	args := m.Called(ctx, discordID)
	return args.Get(0).(int64), args.Error(1)
}

// MockTextGenerator is a mock implementation of TextGenerator
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) string {
	args := m.Called(ctx, prompt)
	return args.String(0)
}

// MockStatsProvider is a mock implementation of StatsProvider
type MockStatsProvider struct {
	mock.Mock
}

func (m *MockStatsProvider) Snapshot(ctx context.Context, discordID string) (entities.StatSnapshot, error) {
	args := m.Called(ctx, discordID)
	return args.Get(0).(entities.StatSnapshot), args.Error(1)
}

// MockLevelReader is a mock implementation of LevelReader
type MockLevelReader struct {
	mock.Mock
}

func (m *MockLevelReader) Level(ctx context.Context, discordID string) (int, error) {
	args := m.Called(ctx, discordID)
	return args.Int(0), args.Error(1)
}

// MockMessageTransport is a mock implementation of MessageTransport
type MockMessageTransport struct {
	mock.Mock
}

func (m *MockMessageTransport) Send(ctx context.Context, channelID, content string) error {
	args := m.Called(ctx, channelID, content)
	return args.Error(0)
}

func (m *MockMessageTransport) React(ctx context.Context, channelID, messageID, emoji string) error {
	args := m.Called(ctx, channelID, messageID, emoji)
	return args.Error(0)
}

// MockMessageSource is a mock implementation of MessageSource
type MockMessageSource struct {
	mock.Mock
}

func (m *MockMessageSource) MessagesAfter(ctx context.Context, channelID, afterID string, limit int) ([]entities.ScannedMessage, error) {
	args := m.Called(ctx, channelID, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ScannedMessage), args.Error(1)
}

// InlineTaskRunner runs submitted tasks synchronously and records their names
type InlineTaskRunner struct {
	mu     sync.Mutex
	Names  []string
	Errors []error
}

func (r *InlineTaskRunner) Submit(name string, task func(ctx context.Context) error) bool {
	err := task(context.Background())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.Names = append(r.Names, name)
	if err != nil {
		r.Errors = append(r.Errors, err)
	}
	return true
}

// Submitted returns a copy of the recorded task names
func (r *InlineTaskRunner) Submitted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Names...)
}

// DeferredTaskRunner stores submitted tasks until RunAll is called
type DeferredTaskRunner struct {
	mu    sync.Mutex
	tasks []func(ctx context.Context) error
	names []string
}

func (r *DeferredTaskRunner) Submit(name string, task func(ctx context.Context) error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, task)
	r.names = append(r.names, name)
	return true
}

// Pending returns the names of tasks not yet run
func (r *DeferredTaskRunner) Pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

// RunAll executes and clears every pending task, returning their errors
func (r *DeferredTaskRunner) RunAll(ctx context.Context) []error {
	r.mu.Lock()
	tasks := r.tasks
	r.tasks = nil
	r.names = nil
	r.mu.Unlock()

	var errs []error
	for _, task := range tasks {
		if err := task(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// MockAchievementService is a mock implementation of AchievementService
type MockAchievementService struct {
	mock.Mock
}

func (m *MockAchievementService) CheckAndUnlock(ctx context.Context, discordID, channelID string) ([]entities.Achievement, error) {
	args := m.Called(ctx, discordID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Achievement), args.Error(1)
}

func (m *MockAchievementService) Progress(ctx context.Context, discordID string) (*entities.AchievementProgress, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AchievementProgress), args.Error(1)
}

// MockLeaderboardService is a mock implementation of LeaderboardService
type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) Top(ctx context.Context, limit int) ([]*entities.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardService) AdjustPoints(ctx context.Context, discordID, username string, delta int64) (int64, error) {
	args := m.Called(ctx, discordID, username, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaderboardService) RemovePlayer(ctx context.Context, discordID string) (bool, error) {
	args := m.Called(ctx, discordID)
	return args.Bool(0), args.Error(1)
}

// MockSlotsService is a mock implementation of SlotsService
type MockSlotsService struct {
	mock.Mock
}

func (m *MockSlotsService) Spin(ctx context.Context, discordID, channelID string) (*entities.SpinResult, error) {
	args := m.Called(ctx, discordID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SpinResult), args.Error(1)
}

func (m *MockSlotsService) Buffs(ctx context.Context, discordID string) (*entities.TicketBuffs, int, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).(*entities.TicketBuffs), args.Int(1), args.Error(2)
}

func (m *MockSlotsService) GiftSpins(ctx context.Context, discordID string, spins int) (int, error) {
	args := m.Called(ctx, discordID, spins)
	return args.Int(0), args.Error(1)
}

func (m *MockSlotsService) GiftTicket(ctx context.Context, discordID string, kind entities.TicketKind, count int) (*entities.TicketBuffs, error) {
	args := m.Called(ctx, discordID, kind, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TicketBuffs), args.Error(1)
}

// MockPollinationService is a mock implementation of PollinationService
type MockPollinationService struct {
	mock.Mock
}

func (m *MockPollinationService) Scan(ctx context.Context, channelID string) (*entities.ScanReport, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ScanReport), args.Error(1)
}

func (m *MockPollinationService) Count(ctx context.Context, discordID string) (int64, error) {
	args := m.Called(ctx, discordID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPollinationService) Top(ctx context.Context, limit int) ([]*entities.PollinationCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PollinationCount), args.Error(1)
}

func (m *MockPollinationService) Total(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPollinationService) ByUser(ctx context.Context, discordID string) ([]*entities.Pollination, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Pollination), args.Error(1)
}

func (m *MockPollinationService) Lookup(ctx context.Context, numbers entities.NumberRange) ([]*entities.Pollination, error) {
	args := m.Called(ctx, numbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Pollination), args.Error(1)
}

func (m *MockPollinationService) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
