package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"idolbot/database"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken       string
	GuildID            string
	GamePingRoleID     string // Role pinged when a game starts ("" or "0" disables)
	LeftRightChannelID string // Channel where media posts get ⬅️ ➡️ reactions
	LevelChannelID     string // Channel scanned for level-up announcements
	AdminDiscordIDs    []string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Guess game configuration
	GuessRewardAmount    int64
	HintCooldown         time.Duration
	SessionSweepInterval time.Duration

	// Slots configuration
	SlotsCost              int64
	SlotsThreeUniqueReward int64
	SlotsThreeMatchReward  int64
	SlotsLemonMultiplier   int64

	// Currency ledger (UnbelievaBoat)
	UnbelievaBoatAPIKey  string
	UnbelievaBoatBaseURL string

	// Text generation
	GroqAPIKey   string
	GroqModel    string
	GeminiAPIKey string
	GeminiModel  string
	AITimeout    time.Duration

	// Pollination scanning
	PollinationChannelID    string
	PollinationScanSchedule string

	// Background task queue
	TaskQueueWorkers int
	TaskQueueSize    int

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated, empty disables)

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		// A missing .env is fine; real deployments set the environment directly
		_ = godotenv.Load()

		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsAdmin reports whether the Discord user ID is allowed to run admin commands
func (c *Config) IsAdmin(discordID string) bool {
	for _, id := range c.AdminDiscordIDs {
		if id == discordID {
			return true
		}
	}
	return false
}

// PingRoleEnabled reports whether game announcements should ping a role
func (c *Config) PingRoleEnabled() bool {
	return c.GamePingRoleID != "" && c.GamePingRoleID != "0"
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DiscordToken:       os.Getenv("DISCORD_TOKEN"),
		GuildID:            os.Getenv("GUILD_ID"),
		GamePingRoleID:     os.Getenv("GAME_PING_ROLE_ID"),
		LeftRightChannelID: os.Getenv("LEFTRIGHT_CHANNEL_ID"),
		LevelChannelID:     os.Getenv("LEVEL_CHANNEL_ID"),
		AdminDiscordIDs:    parseIDList(os.Getenv("ADMIN_DISCORD_IDS")),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		GuessRewardAmount:    getInt64WithDefault("GUESS_REWARD_AMOUNT", 100),
		HintCooldown:         time.Duration(getInt64WithDefault("HINT_COOLDOWN_SECONDS", 10)) * time.Second,
		SessionSweepInterval: getDurationWithDefault("SESSION_SWEEP_INTERVAL", time.Minute),

		SlotsCost:              getInt64WithDefault("SLOTS_COST", 10),
		SlotsThreeUniqueReward: getInt64WithDefault("SLOTS_THREE_UNIQUE_REWARD", 15),
		SlotsThreeMatchReward:  getInt64WithDefault("SLOTS_THREE_MATCH_REWARD", 100),
		SlotsLemonMultiplier:   getInt64WithDefault("SLOTS_LEMON_MULTIPLIER", 5),

		UnbelievaBoatAPIKey:  os.Getenv("UNBELIEVABOAT_API_KEY"),
		UnbelievaBoatBaseURL: getEnvWithDefault("UNBELIEVABOAT_BASE_URL", "https://unbelievaboat.com/api/v1"),

		GroqAPIKey:   os.Getenv("GROQ_API_KEY"),
		GroqModel:    getEnvWithDefault("GROQ_MODEL", "llama3-8b-8192"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnvWithDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		AITimeout:    getDurationWithDefault("AI_TIMEOUT", 10*time.Second),

		PollinationChannelID:    os.Getenv("POLLINATION_CHANNEL_ID"),
		PollinationScanSchedule: getEnvWithDefault("POLLINATION_SCAN_SCHEDULE", "@daily"),

		TaskQueueWorkers: int(getInt64WithDefault("TASK_QUEUE_WORKERS", 4)),
		TaskQueueSize:    int(getInt64WithDefault("TASK_QUEUE_SIZE", 256)),

		NATSServers: os.Getenv("NATS_SERVERS"),

		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "idolbot"),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "otel-collector:4317"),
		OTelExportIntervalMillis: int(getInt64WithDefault("OTEL_EXPORT_INTERVAL_MILLIS", 60000)),

		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.GuildID == "" {
			return nil, fmt.Errorf("GUILD_ID is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	if config.GuessRewardAmount < 0 {
		return nil, fmt.Errorf("GUESS_REWARD_AMOUNT must not be negative")
	}
	if config.TaskQueueWorkers < 1 {
		config.TaskQueueWorkers = 1
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt64WithDefault parses an integer environment variable, falling back on absence or parse errors
func getInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// parseIDList splits a comma-separated list of Discord IDs
func parseIDList(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:             "test",
		DiscordToken:            "test-token",
		AdminDiscordIDs:         []string{"999999", "999991"},
		GuessRewardAmount:       100,
		HintCooldown:            10 * time.Second,
		SessionSweepInterval:    time.Minute,
		SlotsCost:               10,
		SlotsThreeUniqueReward:  15,
		SlotsThreeMatchReward:   100,
		SlotsLemonMultiplier:    5,
		AITimeout:               10 * time.Second,
		PollinationScanSchedule: "@daily",
		TaskQueueWorkers:        1,
		TaskQueueSize:           16,
		OTelExporterType:        "none",
		LogLevel:                "info",
	}
}
