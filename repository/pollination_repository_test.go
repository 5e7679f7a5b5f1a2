package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"idolbot/domain/interfaces"
	"idolbot/events"
	"idolbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollinationRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPollinationRepository(testDB.DB)
	ctx := context.Background()

	next, err := repo.NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)

	for _, p := range []struct {
		user string
		num  int64
		msg  string
	}{
		{"100", 1, "m1"},
		{"200", 2, "m2"},
		{"200", 3, "m3"},
	} {
		inserted, err := repo.Insert(ctx, testutil.CreateTestPollination(p.user, p.num, p.msg))
		require.NoError(t, err)
		assert.True(t, inserted)
	}

	dup := testutil.CreateTestPollination("100", 4, "m1")
	inserted, err := repo.Insert(ctx, dup)
	require.NoError(t, err)
	assert.False(t, inserted)

	next, err = repo.NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), next)

	count, err := repo.CountByUser(ctx, "200")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	total, err := repo.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	top, err := repo.GetTop(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "200", top[0].DiscordID)
	assert.Equal(t, int64(2), top[0].Count)

	mine, err := repo.ListByUser(ctx, "200")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, int64(2), mine[0].Number)
	assert.Equal(t, "m3", mine[1].MessageID)

	ranged, err := repo.ListByNumberRange(ctx, 2, 9)
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.Equal(t, int64(2), ranged[0].Number)
	assert.Equal(t, int64(3), ranged[1].Number)

	none, err := repo.ListByNumberRange(ctx, 50, 60)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPollinationRepository_Reset(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPollinationRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Insert(ctx, testutil.CreateTestPollination("100", 1, "m1"))
	require.NoError(t, err)
	require.NoError(t, repo.SetCursor(ctx, "poll", "m1"))

	require.NoError(t, repo.Reset(ctx))

	total, err := repo.Total(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	next, err := repo.NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)

	cursor, err := repo.GetCursor(ctx, "poll")
	require.NoError(t, err)
	assert.Empty(t, cursor)
}

func TestPollinationRepository_Cursor(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPollinationRepository(testDB.DB)
	ctx := context.Background()

	cursor, err := repo.GetCursor(ctx, "poll")
	require.NoError(t, err)
	assert.Empty(t, cursor)

	require.NoError(t, repo.SetCursor(ctx, "poll", "m1"))
	require.NoError(t, repo.SetCursor(ctx, "poll", "m9"))

	cursor, err = repo.GetCursor(ctx, "poll")
	require.NoError(t, err)
	assert.Equal(t, "m9", cursor)
}

func TestPollinationTransactor(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	bus := events.NewBus()
	delivered := make(chan events.Event, 4)
	bus.Subscribe(events.EventTypePollinationsRecorded, func(ctx context.Context, e events.Event) {
		delivered <- e
	})

	transactor := NewPollinationTransactor(testDB.DB, bus)
	repo := NewPollinationRepository(testDB.DB)
	ctx := context.Background()

	t.Run("commit stores rows and delivers events", func(t *testing.T) {
		err := transactor.WithinTransaction(ctx, func(ctx context.Context, txRepo interfaces.PollinationRepository, publisher interfaces.EventPublisher) error {
			if _, err := txRepo.Insert(ctx, testutil.CreateTestPollination("100", 1, "m1")); err != nil {
				return err
			}
			if err := txRepo.SetCursor(ctx, "poll", "m1"); err != nil {
				return err
			}
			return publisher.Publish(events.PollinationsRecordedEvent{DiscordID: "100", ChannelID: "poll", Added: 1})
		})
		require.NoError(t, err)

		select {
		case e := <-delivered:
			assert.Equal(t, "100", e.(events.PollinationsRecordedEvent).DiscordID)
		case <-time.After(2 * time.Second):
			t.Fatal("event not delivered after commit")
		}

		cursor, err := repo.GetCursor(ctx, "poll")
		require.NoError(t, err)
		assert.Equal(t, "m1", cursor)
	})

	t.Run("rollback drops rows, cursor and events", func(t *testing.T) {
		err := transactor.WithinTransaction(ctx, func(ctx context.Context, txRepo interfaces.PollinationRepository, publisher interfaces.EventPublisher) error {
			if _, err := txRepo.Insert(ctx, testutil.CreateTestPollination("200", 2, "m2")); err != nil {
				return err
			}
			if err := txRepo.SetCursor(ctx, "poll", "m2"); err != nil {
				return err
			}
			_ = publisher.Publish(events.PollinationsRecordedEvent{DiscordID: "200", ChannelID: "poll", Added: 1})
			return errors.New("page failed")
		})
		require.EqualError(t, err, "page failed")

		select {
		case e := <-delivered:
			t.Fatalf("unexpected event %v", e)
		case <-time.After(200 * time.Millisecond):
		}

		cursor, err := repo.GetCursor(ctx, "poll")
		require.NoError(t, err)
		assert.Equal(t, "m1", cursor)

		count, err := repo.CountByUser(ctx, "200")
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
