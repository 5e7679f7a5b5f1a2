package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"idolbot/domain/entities"
	"idolbot/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestGameSessionManager_ExampleRound(t *testing.T) {
	t.Parallel()

	f := newManagerFixture()
	f.allowRewardWrites()

	require.NoError(t, f.start(alice, "jisoo", 5, "blackpink"))

	wrong := f.guess(bob, "rose")
	assert.Equal(t, entities.GuessOutcomeWrong, wrong.Outcome)
	assert.Equal(t, 4, wrong.Remaining)
	assert.Equal(t, entities.HintTonePlayful, wrong.HintTone)

	win := f.guess(carol, "Jisoo")
	require.Equal(t, entities.GuessOutcomeCorrectWin, win.Outcome)
	require.NotNil(t, win.Rewards)
	assert.Equal(t, "jisoo", win.Target)
	assert.Equal(t, int64(100), win.Rewards.CurrencyFor(carol.UserID))
	assert.Equal(t, int64(3), win.Rewards.PointsFor(carol.UserID))
	assert.Equal(t, int64(60), win.Rewards.CurrencyFor(alice.UserID))
	assert.Equal(t, int64(1), win.Rewards.PointsFor(alice.UserID))
	_, hasAssist := win.Rewards.Share(entities.RewardSourceAssist)
	assert.False(t, hasAssist)

	assert.False(t, f.registry.IsActive(testChannelID))

	f.ledger.AssertCalled(t, "Award", mock.Anything, carol.UserID, int64(100))
	f.ledger.AssertCalled(t, "Award", mock.Anything, alice.UserID, int64(60))
	f.ledger.AssertNumberOfCalls(t, "Award", 2)
	f.leaderboard.AssertCalled(t, "AddPoints", mock.Anything, carol.UserID, carol.Username, int64(3))
	f.leaderboard.AssertCalled(t, "AddPoints", mock.Anything, alice.UserID, alice.Username, int64(1))
	f.profiles.AssertCalled(t, "RecordReward", mock.Anything, carol.UserID, carol.Username, entities.RewardSourceWinning, int64(3), int64(100))
	f.profiles.AssertCalled(t, "RecordReward", mock.Anything, alice.UserID, alice.Username, entities.RewardSourceStarting, int64(1), int64(60))
	f.profiles.AssertCalled(t, "IncrementGamesWon", mock.Anything, carol.UserID, carol.Username)
	f.profiles.AssertNumberOfCalls(t, "IncrementGamesWon", 1)

	f.achievements.AssertCalled(t, "CheckAndUnlock", mock.Anything, carol.UserID, testChannelID)
	f.achievements.AssertCalled(t, "CheckAndUnlock", mock.Anything, alice.UserID, testChannelID)

	hints := f.hints.all()
	require.Len(t, hints, 1)
	assert.Equal(t, WrongGuess{
		ChannelID:   testChannelID,
		UserID:      bob.UserID,
		DisplayName: bob.Username,
		Guess:       "rose",
		Remaining:   4,
		Target:      "jisoo",
		GroupName:   "blackpink",
	}, hints[0])
}

func TestGameSessionManager_RewardSplits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		starter      entities.Player
		groupGuesser *entities.Player
		winner       entities.Player
		wantCurrency map[string]int64
		wantPoints   map[string]int64
	}{
		{
			name:         "distinct starter, assist and winner",
			starter:      alice,
			groupGuesser: &bob,
			winner:       carol,
			wantCurrency: map[string]int64{alice.UserID: 60, bob.UserID: 30, carol.UserID: 100},
			wantPoints:   map[string]int64{alice.UserID: 1, bob.UserID: 1, carol.UserID: 3},
		},
		{
			name:         "starter wins their own round",
			starter:      alice,
			winner:       alice,
			wantCurrency: map[string]int64{alice.UserID: 160},
			wantPoints:   map[string]int64{alice.UserID: 4},
		},
		{
			name:         "group guesser goes on to win",
			starter:      alice,
			groupGuesser: &carol,
			winner:       carol,
			wantCurrency: map[string]int64{alice.UserID: 60, carol.UserID: 100},
			wantPoints:   map[string]int64{alice.UserID: 1, carol.UserID: 3},
		},
		{
			name:         "starter guesses group and wins",
			starter:      alice,
			groupGuesser: &alice,
			winner:       alice,
			wantCurrency: map[string]int64{alice.UserID: 160},
			wantPoints:   map[string]int64{alice.UserID: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newManagerFixture()
			f.allowRewardWrites()

			require.NoError(t, f.start(tt.starter, "jisoo", 3, "blackpink"))
			if tt.groupGuesser != nil {
				group := f.guess(*tt.groupGuesser, "BLACKPINK")
				require.Equal(t, entities.GuessOutcomeGroupNameFirst, group.Outcome)
			}

			win := f.guess(tt.winner, "jisoo")
			require.Equal(t, entities.GuessOutcomeCorrectWin, win.Outcome)

			for userID, want := range tt.wantCurrency {
				assert.Equal(t, want, win.Rewards.CurrencyFor(userID), "currency for %s", userID)
			}
			for userID, want := range tt.wantPoints {
				assert.Equal(t, want, win.Rewards.PointsFor(userID), "points for %s", userID)
			}

			var paid int64
			for _, call := range f.ledger.Calls {
				if call.Method == "Award" {
					paid += call.Arguments.Get(2).(int64)
				}
			}
			var want int64
			for _, c := range tt.wantCurrency {
				want += c
			}
			assert.Equal(t, want, paid)
		})
	}
}

func TestGameSessionManager_LedgerFailureDoesNotStopOtherWrites(t *testing.T) {
	t.Parallel()

	f := newManagerFixture()
	f.ledger.On("Award", mock.Anything, carol.UserID, int64(100)).Return(errors.New("ledger unreachable"))
	f.leaderboard.On("AddPoints", mock.Anything, alice.UserID, mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))
	f.allowRewardWrites()

	require.NoError(t, f.start(alice, "jisoo", 3, ""))
	win := f.guess(carol, "jisoo")

	require.Equal(t, entities.GuessOutcomeCorrectWin, win.Outcome)
	assert.False(t, f.registry.IsActive(testChannelID))
	f.profiles.AssertCalled(t, "RecordReward", mock.Anything, carol.UserID, carol.Username, entities.RewardSourceWinning, int64(3), int64(100))
	f.profiles.AssertCalled(t, "IncrementGamesWon", mock.Anything, carol.UserID, carol.Username)
	f.leaderboard.AssertCalled(t, "AddPoints", mock.Anything, carol.UserID, carol.Username, int64(3))
	f.ledger.AssertCalled(t, "Award", mock.Anything, alice.UserID, int64(60))
}

func TestGameSessionManager_ZeroRewardSkipsLedger(t *testing.T) {
	t.Parallel()

	f := newManagerFixture()
	f.manager = NewGameSessionManager(f.registry, f.hints, f.ledger, f.profiles, f.leaderboard, f.achievements, f.tasks, f.publisher, 0)
	f.allowRewardWrites()

	require.NoError(t, f.start(alice, "jisoo", 3, ""))
	win := f.guess(carol, "jisoo")

	require.Equal(t, entities.GuessOutcomeCorrectWin, win.Outcome)
	f.ledger.AssertNotCalled(t, "Award", mock.Anything, mock.Anything, mock.Anything)
	f.leaderboard.AssertCalled(t, "AddPoints", mock.Anything, carol.UserID, carol.Username, int64(3))
}

func TestGameSessionManager_StartSession(t *testing.T) {
	t.Parallel()

	t.Run("rejects a second session in the same channel", func(t *testing.T) {
		t.Parallel()

		f := newManagerFixture()
		require.NoError(t, f.start(alice, "jisoo", 3, ""))

		err := f.start(bob, "lisa", 3, "")
		assert.ErrorIs(t, err, ErrSessionAlreadyActive)
	})

	t.Run("other channels are independent", func(t *testing.T) {
		t.Parallel()

		f := newManagerFixture()
		require.NoError(t, f.start(alice, "jisoo", 3, ""))

		_, err := f.manager.StartSession(context.Background(), entities.StartSessionRequest{
			ChannelID:    "c2",
			Starter:      bob,
			Target:       "lisa",
			AttemptLimit: 3,
		})
		assert.NoError(t, err)
	})

	t.Run("invalid options", func(t *testing.T) {
		t.Parallel()

		f := newManagerFixture()

		err := f.start(alice, "   ", 3, "")
		assert.ErrorIs(t, err, ErrInvalidSession)
		assert.ErrorIs(t, err, entities.ErrEmptyTarget)

		err = f.start(alice, "jisoo", 0, "")
		assert.ErrorIs(t, err, ErrInvalidSession)
		assert.ErrorIs(t, err, entities.ErrInvalidAttemptLimit)

		assert.False(t, f.registry.IsActive(testChannelID))
		assert.Empty(t, f.tasks.Submitted())
	})

	t.Run("records games started and publishes event", func(t *testing.T) {
		t.Parallel()

		f := newManagerFixture()
		require.NoError(t, f.start(alice, "jisoo", 3, "blackpink"))

		assert.Equal(t, []string{"profile.games_started"}, f.tasks.Submitted())
		f.profiles.AssertCalled(t, "IncrementGamesStarted", mock.Anything, alice.UserID, alice.Username)
		f.publisher.AssertCalled(t, "Publish", mock.MatchedBy(func(e events.Event) bool {
			started, ok := e.(events.GameStartedEvent)
			return ok && started.StarterID == alice.UserID && started.HasGroupName && started.AttemptLimit == 3
		}))
	})
}

func TestGameSessionManager_SubmitGuess(t *testing.T) {
	t.Parallel()

	t.Run("no session", func(t *testing.T) {
		t.Parallel()

		f := newManagerFixture()
		result := f.guess(bob, "jisoo")
		assert.Equal(t, entities.GuessOutcomeNoActiveSession, result.Outcome)
	})

	t.Run("exhausting attempts", func(t *testing.T) {
		t.Parallel()

		f := newManagerFixture()
		require.NoError(t, f.start(alice, "jisoo", 2, ""))

		first := f.guess(bob, "rose")
		assert.Equal(t, 1, first.Remaining)
		assert.Equal(t, entities.HintToneHint, first.HintTone)

		second := f.guess(bob, "lisa")
		assert.Equal(t, entities.GuessOutcomeWrong, second.Outcome)
		assert.True(t, second.ExhaustedNow)

		third := f.guess(bob, "jisoo")
		assert.Equal(t, entities.GuessOutcomeAttemptsExhausted, third.Outcome)
		assert.True(t, f.registry.IsActive(testChannelID))
		assert.Len(t, f.hints.all(), 2)
	})

	t.Run("no-hint rounds use cheeky tone", func(t *testing.T) {
		t.Parallel()

		f := newManagerFixture()
		_, err := f.manager.StartSession(context.Background(), entities.StartSessionRequest{
			ChannelID:    testChannelID,
			Starter:      alice,
			Target:       "jisoo",
			AttemptLimit: 5,
			NoHints:      true,
		})
		require.NoError(t, err)

		result := f.guess(bob, "rose")
		assert.Equal(t, entities.HintToneCheeky, result.HintTone)
		hints := f.hints.all()
		require.Len(t, hints, 1)
		assert.True(t, hints[0].NoHints)
	})

	t.Run("duplicate group claim", func(t *testing.T) {
		t.Parallel()

		f := newManagerFixture()
		require.NoError(t, f.start(alice, "jisoo", 3, "blackpink"))

		first := f.guess(bob, "blackpink")
		assert.Equal(t, entities.GuessOutcomeGroupNameFirst, first.Outcome)

		second := f.guess(carol, "blackpink")
		assert.Equal(t, entities.GuessOutcomeGroupNameAlreadyGuessed, second.Outcome)
		require.NotNil(t, second.GroupGuesser)
		assert.Equal(t, bob.UserID, second.GroupGuesser.UserID)
		assert.Empty(t, f.hints.all())
	})

	t.Run("late correct guess after win", func(t *testing.T) {
		t.Parallel()

		f := newManagerFixture()
		f.allowRewardWrites()
		require.NoError(t, f.start(alice, "jisoo", 3, ""))

		require.Equal(t, entities.GuessOutcomeCorrectWin, f.guess(carol, "jisoo").Outcome)
		late := f.guess(bob, "jisoo")
		assert.Equal(t, entities.GuessOutcomeNoActiveSession, late.Outcome)
		f.ledger.AssertNumberOfCalls(t, "Award", 2)
	})
}

func TestGameSessionManager_RestartAfterResolution(t *testing.T) {
	t.Parallel()

	t.Run("after a win", func(t *testing.T) {
		t.Parallel()

		f := newManagerFixture()
		f.allowRewardWrites()
		require.NoError(t, f.start(alice, "jisoo", 3, ""))
		require.Equal(t, entities.GuessOutcomeCorrectWin, f.guess(bob, "jisoo").Outcome)
		assert.Equal(t, []string{testChannelID}, f.hints.resolvedChannels())

		assert.NoError(t, f.start(bob, "lisa", 3, ""))
	})

	t.Run("after manual end", func(t *testing.T) {
		t.Parallel()

		f := newManagerFixture()
		require.NoError(t, f.start(alice, "jisoo", 3, ""))

		ended, err := f.manager.EndSession(context.Background(), testChannelID, alice)
		require.NoError(t, err)
		assert.Equal(t, "jisoo", ended.Target)
		assert.Equal(t, alice, ended.EndedBy)
		f.ledger.AssertNotCalled(t, "Award", mock.Anything, mock.Anything, mock.Anything)

		_, err = f.manager.EndSession(context.Background(), testChannelID, alice)
		assert.ErrorIs(t, err, ErrNoActiveSession)
		assert.Equal(t, []string{testChannelID}, f.hints.resolvedChannels())

		assert.NoError(t, f.start(bob, "lisa", 3, ""))
	})
}

func TestGameSessionManager_PublishesWinEvent(t *testing.T) {
	t.Parallel()

	f := newManagerFixture()
	f.allowRewardWrites()
	require.NoError(t, f.start(alice, "jisoo", 3, "blackpink"))
	f.guess(bob, "blackpink")
	f.guess(carol, "jisoo")

	f.publisher.AssertCalled(t, "Publish", mock.MatchedBy(func(e events.Event) bool {
		won, ok := e.(events.GameWonEvent)
		return ok &&
			won.WinnerID == carol.UserID &&
			won.StarterID == alice.UserID &&
			won.GroupGuesserID == bob.UserID &&
			won.BaseReward == testReward
	}))
}

func TestGameSessionManager_ConcurrentCorrectGuessesHaveOneWinner(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		guessers := rapid.IntRange(2, 12).Draw(rt, "guessers")

		f := newManagerFixture()
		f.allowRewardWrites()
		require.NoError(rt, f.start(alice, "jisoo", 3, ""))

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			results []entities.GuessOutcome
		)
		for i := 0; i < guessers; i++ {
			player := entities.Player{UserID: string(rune('a' + i)), Username: "p"}
			wg.Add(1)
			go func() {
				defer wg.Done()
				result := f.guess(player, "jisoo")
				mu.Lock()
				results = append(results, result.Outcome)
				mu.Unlock()
			}()
		}
		wg.Wait()

		wins := 0
		for _, outcome := range results {
			switch outcome {
			case entities.GuessOutcomeCorrectWin:
				wins++
			case entities.GuessOutcomeNoActiveSession:
			default:
				rt.Fatalf("unexpected outcome %s", outcome)
			}
		}
		if wins != 1 {
			rt.Fatalf("expected exactly one winner, got %d", wins)
		}
		f.profiles.AssertNumberOfCalls(rt, "IncrementGamesWon", 1)
	})
}
