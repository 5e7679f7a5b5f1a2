package services

import (
	"context"
	"errors"
	"testing"

	"idolbot/domain/entities"
	"idolbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStatsProvider_Snapshot(t *testing.T) {
	t.Parallel()

	profile := &entities.UserProfile{
		DiscordID:          "u1",
		GamesWon:           7,
		PointsFromWinning:  21,
		PointsFromStarting: 4,
		MoneyFromWinning:   700,
		MoneyFromStarting:  240,
	}

	tests := []struct {
		name       string
		profile    *entities.UserProfile
		level      int
		levelErr   error
		balance    int64
		balanceErr error
		want       entities.StatSnapshot
	}{
		{
			name:    "all sources available",
			profile: profile,
			level:   12,
			balance: 5000,
			want:    entities.StatSnapshot{Pollinations: 3, GamesWon: 7, Level: 12, TotalPoints: 25, Money: 5000},
		},
		{
			name:       "ledger down falls back to profile money",
			profile:    profile,
			level:      12,
			balanceErr: errors.New("unreachable"),
			want:       entities.StatSnapshot{Pollinations: 3, GamesWon: 7, Level: 12, TotalPoints: 25, Money: 940},
		},
		{
			name:     "level unavailable counts as zero",
			profile:  profile,
			levelErr: errors.New("no channel"),
			balance:  10,
			want:     entities.StatSnapshot{Pollinations: 3, GamesWon: 7, TotalPoints: 25, Money: 10},
		},
		{
			name:    "no profile yet",
			balance: 10,
			want:    entities.StatSnapshot{Pollinations: 3, Money: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			profiles := &testhelpers.MockProfileRepository{}
			pollinations := &testhelpers.MockPollinationRepository{}
			levels := &testhelpers.MockLevelReader{}
			ledger := &testhelpers.MockCurrencyLedger{}

			profiles.On("GetByDiscordID", mock.Anything, "u1").Return(tt.profile, nil)
			pollinations.On("CountByUser", mock.Anything, "u1").Return(int64(3), nil)
			levels.On("Level", mock.Anything, "u1").Return(tt.level, tt.levelErr)
			ledger.On("Balance", mock.Anything, "u1").Return(tt.balance, tt.balanceErr)

			got, err := NewStatsProvider(profiles, pollinations, levels, ledger).Snapshot(context.Background(), "u1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatsProvider_RequiredSourceFails(t *testing.T) {
	t.Parallel()

	profiles := &testhelpers.MockProfileRepository{}
	pollinations := &testhelpers.MockPollinationRepository{}
	levels := &testhelpers.MockLevelReader{}
	ledger := &testhelpers.MockCurrencyLedger{}

	profiles.On("GetByDiscordID", mock.Anything, "u1").Return(nil, nil)
	pollinations.On("CountByUser", mock.Anything, "u1").Return(int64(0), errors.New("db down"))
	levels.On("Level", mock.Anything, "u1").Return(0, nil).Maybe()
	ledger.On("Balance", mock.Anything, "u1").Return(int64(0), nil).Maybe()

	_, err := NewStatsProvider(profiles, pollinations, levels, ledger).Snapshot(context.Background(), "u1")
	assert.ErrorContains(t, err, "failed to count pollinations")
}
