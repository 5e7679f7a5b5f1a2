package entities

// LeaderboardEntry is a row of the raw points ranking
type LeaderboardEntry struct {
	DiscordID string
	Username  string
	Points    int64
}

// DefaultLeaderboardLimit is the number of rows shown by the leaderboard command
const DefaultLeaderboardLimit = 10
