package observability

// Metric name prefixes
const (
	MetricPrefix = "idolbot"
)

// Metric names
const (
	// Guess game metrics
	GuessesTotal   = MetricPrefix + ".game.guesses_total"
	GamesTotal     = MetricPrefix + ".game.games_total"
	SessionsActive = MetricPrefix + ".game.sessions_active"
	HintsTotal     = MetricPrefix + ".game.hints_total"

	// Achievement metrics
	AchievementsUnlockedTotal = MetricPrefix + ".achievements.unlocked_total"

	// Currency ledger metrics
	LedgerCallsTotal = MetricPrefix + ".ledger.calls_total"

	// Background task metrics
	TasksTotal = MetricPrefix + ".tasks.total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Database metrics
	DatabaseQueriesTotal  = MetricPrefix + ".database.queries_total"
	DatabaseQueryDuration = MetricPrefix + ".database.query_duration"
)

// Label keys
const (
	// Common labels
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelResult    = "result"

	// Game labels
	LabelOutcome = "outcome"
	LabelKind    = "kind"

	LabelAchievement = "achievement"
	LabelOperation   = "operation"
	LabelTask        = "task"
)

// Game lifecycle types
const (
	GameStarted = "started"
	GameWon     = "won"
	GameEnded   = "ended"
)

// Result values
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultPanic   = "panic"
	ResultDropped = "dropped"
)
