package repository

import (
	"context"
	"testing"

	"idolbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardRepository_AddPoints(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLeaderboardRepository(testDB.DB)
	ctx := context.Background()

	t.Run("creates and accumulates", func(t *testing.T) {
		total, err := repo.AddPoints(ctx, "100", "alice", 3)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		total, err = repo.AddPoints(ctx, "100", "alice", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})

	t.Run("clamps at zero", func(t *testing.T) {
		total, err := repo.AddPoints(ctx, "200", "bob", 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		total, err = repo.AddPoints(ctx, "200", "bob", -10)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)

		total, err = repo.AddPoints(ctx, "300", "carol", -5)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("empty username keeps the stored one", func(t *testing.T) {
		_, err := repo.AddPoints(ctx, "100", "", 1)
		require.NoError(t, err)

		top, err := repo.GetTop(ctx, 1)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, "alice", top[0].Username)
	})
}

func TestLeaderboardRepository_Ranking(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLeaderboardRepository(testDB.DB)
	ctx := context.Background()

	for id, points := range map[string]int64{"1": 10, "2": 30, "3": 30, "4": 5} {
		_, err := repo.AddPoints(ctx, id, "user"+id, points)
		require.NoError(t, err)
	}

	top, err := repo.GetTop(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, int64(30), top[0].Points)
	assert.Equal(t, int64(30), top[1].Points)
	assert.Equal(t, "1", top[2].DiscordID)

	rank, points, err := repo.GetRank(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 1, rank)
	assert.Equal(t, int64(30), points)

	rank, _, err = repo.GetRank(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 3, rank)

	rank, points, err = repo.GetRank(ctx, "missing")
	require.NoError(t, err)
	assert.Zero(t, rank)
	assert.Zero(t, points)

	removed, err := repo.Remove(ctx, "2")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(ctx, "2")
	require.NoError(t, err)
	assert.False(t, removed)
}
