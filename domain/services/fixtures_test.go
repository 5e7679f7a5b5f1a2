package services

import (
	"context"
	"sync"

	"idolbot/domain/entities"
	"idolbot/domain/interfaces"
	"idolbot/domain/testhelpers"

	"github.com/stretchr/testify/mock"
)

// Test players shared by the service tests
var (
	alice = entities.Player{UserID: "100", Username: "alice"}
	bob   = entities.Player{UserID: "200", Username: "bob"}
	carol = entities.Player{UserID: "300", Username: "carol"}
)

const (
	testChannelID = "c1"
	testReward    = int64(100)
)

type recordingHints struct {
	mu       sync.Mutex
	guesses  []WrongGuess
	resolved []string
}

func (r *recordingHints) OnWrongGuess(ctx context.Context, g WrongGuess) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guesses = append(r.guesses, g)
}

func (r *recordingHints) OnSessionResolved(channelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved = append(r.resolved, channelID)
}

func (r *recordingHints) resolvedChannels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.resolved...)
}

func (r *recordingHints) all() []WrongGuess {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]WrongGuess(nil), r.guesses...)
}

type managerFixture struct {
	registry     *SessionRegistry
	hints        *recordingHints
	ledger       *testhelpers.MockCurrencyLedger
	profiles     *testhelpers.MockProfileRepository
	leaderboard  *testhelpers.MockLeaderboardRepository
	achievements *testhelpers.MockAchievementService
	tasks        *testhelpers.InlineTaskRunner
	publisher    *testhelpers.MockEventPublisher
	manager      interfaces.GameService
}

func newManagerFixture() *managerFixture {
	f := &managerFixture{
		registry:     NewSessionRegistry(0),
		hints:        &recordingHints{},
		ledger:       &testhelpers.MockCurrencyLedger{},
		profiles:     &testhelpers.MockProfileRepository{},
		leaderboard:  &testhelpers.MockLeaderboardRepository{},
		achievements: &testhelpers.MockAchievementService{},
		tasks:        &testhelpers.InlineTaskRunner{},
		publisher:    &testhelpers.MockEventPublisher{},
	}
	f.manager = NewGameSessionManager(f.registry, f.hints, f.ledger, f.profiles, f.leaderboard, f.achievements, f.tasks, f.publisher, testReward)
	f.publisher.On("Publish", mock.Anything).Return(nil).Maybe()
	f.profiles.On("IncrementGamesStarted", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

// allowRewardWrites accepts every reward write. Call it after registering
// more specific expectations so those take precedence.
func (f *managerFixture) allowRewardWrites() {
	f.ledger.On("Award", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.profiles.On("RecordReward", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.profiles.On("IncrementGamesWon", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.leaderboard.On("AddPoints", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
	f.achievements.On("CheckAndUnlock", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Maybe()
}

func (f *managerFixture) start(starter entities.Player, target string, limit int, group string) error {
	_, err := f.manager.StartSession(context.Background(), entities.StartSessionRequest{
		ChannelID:    testChannelID,
		Starter:      starter,
		Target:       target,
		AttemptLimit: limit,
		GroupName:    group,
		ImageURL:     "https://img.example/idol.png",
	})
	return err
}

func (f *managerFixture) guess(user entities.Player, text string) entities.GuessResult {
	return f.manager.SubmitGuess(context.Background(), testChannelID, user, text)
}
