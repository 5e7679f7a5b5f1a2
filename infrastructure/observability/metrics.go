package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"idolbot/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// MetricsProvider manages OpenTelemetry metrics for the bot
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	// Metric instruments
	guessesCounter               metric.Int64Counter
	gamesCounter                 metric.Int64Counter
	sessionsActiveGauge          metric.Int64UpDownCounter
	hintsCounter                 metric.Int64Counter
	achievementsUnlockedCounter  metric.Int64Counter
	ledgerCallsCounter           metric.Int64Counter
	tasksCounter                 metric.Int64Counter
	natsMessagesPublishedCounter metric.Int64Counter
	databaseQueriesCounter       metric.Int64Counter
	databaseQueryDurationHist    metric.Float64Histogram
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Println("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Println("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Println("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.Printf("Using OTLP metric exporter: %s", mp.config.OTelOTLPEndpoint)

	case "none":
		log.Println("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	interval := time.Duration(mp.config.OTelExportIntervalMillis) * time.Millisecond
	if interval <= 0 {
		interval = time.Minute
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)),
		),
	)

	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("idolbot")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Println("Metrics provider initialized successfully")
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	// Guess game metrics
	mp.guessesCounter, err = mp.meter.Int64Counter(
		GuessesTotal,
		metric.WithDescription("Total number of guesses by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create guesses counter: %w", err)
	}

	mp.gamesCounter, err = mp.meter.Int64Counter(
		GamesTotal,
		metric.WithDescription("Total number of games started, won and ended"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create games counter: %w", err)
	}

	mp.sessionsActiveGauge, err = mp.meter.Int64UpDownCounter(
		SessionsActive,
		metric.WithDescription("Current number of active game sessions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create active sessions gauge: %w", err)
	}

	mp.hintsCounter, err = mp.meter.Int64Counter(
		HintsTotal,
		metric.WithDescription("Total number of hint replies by kind and result"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create hints counter: %w", err)
	}

	mp.achievementsUnlockedCounter, err = mp.meter.Int64Counter(
		AchievementsUnlockedTotal,
		metric.WithDescription("Total number of achievements unlocked"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create achievements counter: %w", err)
	}

	mp.ledgerCallsCounter, err = mp.meter.Int64Counter(
		LedgerCallsTotal,
		metric.WithDescription("Total number of currency ledger calls by result"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create ledger calls counter: %w", err)
	}

	mp.tasksCounter, err = mp.meter.Int64Counter(
		TasksTotal,
		metric.WithDescription("Total number of background tasks by result"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create tasks counter: %w", err)
	}

	// NATS metrics
	mp.natsMessagesPublishedCounter, err = mp.meter.Int64Counter(
		NATSMessagesPublishedTotal,
		metric.WithDescription("Total number of NATS messages published"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create NATS messages published counter: %w", err)
	}

	// Database metrics
	mp.databaseQueriesCounter, err = mp.meter.Int64Counter(
		DatabaseQueriesTotal,
		metric.WithDescription("Total number of database queries"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create database queries counter: %w", err)
	}

	mp.databaseQueryDurationHist, err = mp.meter.Float64Histogram(
		DatabaseQueryDuration,
		metric.WithDescription("Duration of database queries in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create database query duration histogram: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordGuess records one submitted guess
func (mp *MetricsProvider) RecordGuess(outcome string) {
	if !mp.isEnabled() {
		return
	}

	mp.guessesCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelOutcome, outcome),
		),
	)
}

// RecordGame records a game lifecycle transition and keeps the active session gauge in step
func (mp *MetricsProvider) RecordGame(gameType string) {
	if !mp.isEnabled() {
		return
	}

	mp.gamesCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelType, gameType),
		),
	)

	delta := int64(-1)
	if gameType == GameStarted {
		delta = 1
	}
	mp.sessionsActiveGauge.Add(context.Background(), delta)
}

// RecordHint records a hint reply attempt
func (mp *MetricsProvider) RecordHint(kind string, err error) {
	if !mp.isEnabled() {
		return
	}

	mp.hintsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelKind, kind),
			attribute.String(LabelResult, resultOf(err)),
		),
	)
}

// RecordAchievementUnlocked records a newly unlocked achievement
func (mp *MetricsProvider) RecordAchievementUnlocked(achievementID string) {
	if !mp.isEnabled() {
		return
	}

	mp.achievementsUnlockedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelAchievement, achievementID),
		),
	)
}

// RecordLedgerCall records a call to the currency ledger
func (mp *MetricsProvider) RecordLedgerCall(operation string, err error) {
	if !mp.isEnabled() {
		return
	}

	mp.ledgerCallsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelOperation, operation),
			attribute.String(LabelResult, resultOf(err)),
		),
	)
}

// RecordTask records the result of a background task
func (mp *MetricsProvider) RecordTask(name, result string) {
	if !mp.isEnabled() {
		return
	}

	mp.tasksCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelTask, name),
			attribute.String(LabelResult, result),
		),
	)
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsMessagesPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelEventType, eventType),
		),
	)
}

// RecordDatabaseQuery records a database query with duration
func (mp *MetricsProvider) RecordDatabaseQuery(operation string, duration time.Duration, err error) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(LabelOperation, operation),
		attribute.String(LabelResult, resultOf(err)),
	)

	mp.databaseQueriesCounter.Add(context.Background(), 1, attrs)
	mp.databaseQueryDurationHist.Record(context.Background(), duration.Seconds(), attrs)
}

// isEnabled checks if metrics are enabled and initialized. A nil provider is disabled.
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.meter != nil
}

func resultOf(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider, nil before initialization
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
