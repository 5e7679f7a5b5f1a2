package cmd

import (
	"context"
	"fmt"
	"time"

	"idolbot/application"
	"idolbot/bot"
	"idolbot/config"
	"idolbot/database"
	"idolbot/domain/interfaces"
	"idolbot/domain/services"
	"idolbot/events"
	"idolbot/infrastructure"
	"idolbot/infrastructure/ai"
	"idolbot/infrastructure/ledger"
	"idolbot/infrastructure/observability"
	"idolbot/repository"

	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting idol bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL(), database.WithQueryTracer(observability.NewQueryTracer()))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	log.Info("Running database migrations...")
	if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Metrics are optional; the provider falls back to no-op instruments
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		log.WithError(err).Warn("Failed to initialize metrics, continuing without them")
	}
	metrics := observability.GetMetrics()

	eventBus := events.NewBus()

	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		natsClient, err = connectNATS(ctx, cfg.NATSServers, eventBus)
		if err != nil {
			return err
		}
	} else {
		log.Info("NATS_SERVERS not set, domain events stay in process")
	}

	var currency interfaces.CurrencyLedger = ledger.Disabled{}
	if cfg.UnbelievaBoatAPIKey != "" {
		currency = ledger.NewClient(ledger.Config{
			BaseURL:    cfg.UnbelievaBoatBaseURL,
			Token:      cfg.UnbelievaBoatAPIKey,
			GuildID:    cfg.GuildID,
			Timeout:    5 * time.Second,
			RetryCount: 2,
		})
	} else {
		log.Warn("UNBELIEVABOAT_API_KEY not set, currency rewards are disabled")
	}

	generator := ai.NewGenerator(ai.Config{
		GeminiAPIKey: cfg.GeminiAPIKey,
		GeminiModel:  cfg.GeminiModel,
		GroqAPIKey:   cfg.GroqAPIKey,
		GroqModel:    cfg.GroqModel,
		Timeout:      cfg.AITimeout,
	})

	// Repositories
	profileRepo := repository.NewProfileRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	pollinationRepo := repository.NewPollinationRepository(db)
	freeSpinRepo := repository.NewFreeSpinRepository(db)
	ticketRepo := repository.NewTicketBuffRepository(db)
	transactor := repository.NewPollinationTransactor(db, eventBus)

	tasks := application.NewTaskQueue(cfg.TaskQueueWorkers, cfg.TaskQueueSize, metrics.RecordTask)
	tasks.Start(ctx)

	// The session is created before the bot so the hint coalescer and the
	// achievement announcer can send through it
	session, err := bot.NewSession(cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	transport := bot.NewTransport(session)
	levels := bot.NewLevelReader(session, cfg.LevelChannelID)

	// Services
	log.Info("Initializing services...")
	stats := services.NewStatsProvider(profileRepo, pollinationRepo, levels, currency)
	achievementService := services.NewAchievementService(achievementRepo, stats, eventBus)

	hints := services.NewHintCoalescer(generator, transport, cfg.HintCooldown)
	hints.SetObserver(metrics.RecordHint)

	registry := services.NewSessionRegistry(cfg.SessionSweepInterval)
	registry.RegisterSweeper(hints)
	go registry.Run(ctx)

	gameService := services.NewGameSessionManager(
		registry,
		hints,
		currency,
		profileRepo,
		leaderboardRepo,
		achievementService,
		tasks,
		eventBus,
		cfg.GuessRewardAmount,
	)

	slotsService, err := services.NewSlotsService(freeSpinRepo, ticketRepo, currency, achievementService, tasks, services.SlotsConfig{
		Cost:              cfg.SlotsCost,
		ThreeUniqueReward: cfg.SlotsThreeUniqueReward,
		ThreeMatchReward:  cfg.SlotsThreeMatchReward,
		LemonMultiplier:   cfg.SlotsLemonMultiplier,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize slots: %w", err)
	}

	svc := bot.Services{
		Game:         gameService,
		Achievements: achievementService,
		Profiles:     services.NewProfileService(profileRepo, leaderboardRepo, pollinationRepo, achievementService, levels, currency),
		Leaderboard:  services.NewLeaderboardService(leaderboardRepo),
		Slots:        slotsService,
		Pollinations: services.NewPollinationService(pollinationRepo, transactor, transport),
		RPS:          services.NewRPSService(currency),
		Chat:         generator,
		Tasks:        tasks,
		Metrics:      metrics,
		IsAdmin:      cfg.IsAdmin,
	}
	log.Info("Services initialized successfully")

	application.RegisterApplicationSubscriptions(eventBus, application.SubscriptionDeps{
		Transport:    transport,
		Achievements: achievementService,
		Tasks:        tasks,
		Metrics:      metrics,
	})

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	pingRole := cfg.GamePingRoleID
	if !cfg.PingRoleEnabled() {
		pingRole = ""
	}
	botConfig := bot.Config{
		GuildID:                 cfg.GuildID,
		GamePingRoleID:          pingRole,
		LeftRightChannelID:      cfg.LeftRightChannelID,
		PollinationChannelID:    cfg.PollinationChannelID,
		PollinationScanSchedule: cfg.PollinationScanSchedule,
	}
	discordBot, err := bot.New(ctx, botConfig, session, svc)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down bot...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}

	if err := tasks.Close(shutdownCtx); err != nil {
		log.WithError(err).Warn("Background tasks did not finish before shutdown")
	}

	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}

	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down metrics")
	}

	log.Info("Shutdown completed")
	return nil
}

// connectNATS connects to NATS and mirrors every bus event onto JetStream
func connectNATS(ctx context.Context, servers string, bus *events.Bus) (*infrastructure.NATSClient, error) {
	log.WithField("servers", servers).Info("Connecting to NATS...")

	client := infrastructure.NewNATSClient(servers)
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	mapper := infrastructure.NewEventSubjectMapper()
	if err := infrastructure.EnsureDomainEventStream(client, mapper); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ensure event stream: %w", err)
	}

	infrastructure.NewNATSEventPublisher(client, mapper).Forward(bus)
	log.Info("NATS event mirror started")
	return client, nil
}
