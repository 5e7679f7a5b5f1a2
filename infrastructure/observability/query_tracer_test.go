package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"idolbot/config"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLOperation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sql  string
		want string
	}{
		{"SELECT 1", "select"},
		{"\n\t  INSERT INTO leaderboard (discord_id) VALUES ($1)", "insert"},
		{"WITH ranked AS (SELECT 1) SELECT * FROM ranked", "with"},
		{"", "unknown"},
		{"   ", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, sqlOperation(tt.sql))
		})
	}
}

func TestQueryTracer_CarriesStartThroughContext(t *testing.T) {
	t.Parallel()

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tracer := &QueryTracer{now: func() time.Time { return clock }}

	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "UPDATE free_spins SET spins = spins - 1"})
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	require.True(t, ok)
	assert.Equal(t, "update", start.operation)
	assert.Equal(t, clock, start.at)

	// Recording without an initialized global provider is a no-op
	assert.NotPanics(t, func() {
		tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("boom")})
		tracer.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})
	})
}

func TestMetricsProvider_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	cfg := config.NewTestConfig()
	cfg.OTelEnabled = false

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	assert.False(t, mp.isEnabled())

	assert.NotPanics(t, func() {
		mp.RecordGuess("wrong")
		mp.RecordGame(GameStarted)
		mp.RecordHint("immediate", nil)
		mp.RecordAchievementUnlocked("first_win")
		mp.RecordLedgerCall("award", errors.New("down"))
		mp.RecordTask("achievements.check", ResultOK)
		mp.RecordNATSMessagePublished("game_won")
		mp.RecordDatabaseQuery("select", time.Millisecond, nil)
	})
	require.NoError(t, mp.Shutdown(context.Background()))
}

func TestMetricsProvider_NilIsNoop(t *testing.T) {
	t.Parallel()

	var mp *MetricsProvider
	assert.NotPanics(t, func() {
		mp.RecordGuess("wrong")
		mp.RecordTask("x", ResultDropped)
	})
}

func TestMetricsProvider_NoneExporter(t *testing.T) {
	t.Parallel()

	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "none"

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	assert.False(t, mp.isEnabled())
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	t.Parallel()

	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "carrier-pigeon"

	mp := NewMetricsProvider(cfg)
	err := mp.Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown exporter type")
}
