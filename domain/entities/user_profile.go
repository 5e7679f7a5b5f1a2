package entities

import "time"

// UserProfile is the itemized guess-game record of a user
type UserProfile struct {
	DiscordID            string
	Username             string
	GamesStarted         int64
	GamesWon             int64
	PointsFromStarting   int64
	PointsFromAssists    int64
	PointsFromWinning    int64
	MoneyFromStarting    int64
	MoneyFromAssists     int64
	MoneyFromWinning     int64
	Bio                  string
	FavoriteIdolName     string
	FavoriteIdolImageURL string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TotalPoints sums the three point sources
func (p *UserProfile) TotalPoints() int64 {
	return p.PointsFromStarting + p.PointsFromAssists + p.PointsFromWinning
}

// TotalMoney sums the three money sources
func (p *UserProfile) TotalMoney() int64 {
	return p.MoneyFromStarting + p.MoneyFromAssists + p.MoneyFromWinning
}

// WinRate returns the share of all server wins that belong to this user, in percent
func (p *UserProfile) WinRate(serverGamesWon int64) float64 {
	if serverGamesWon <= 0 {
		return 0
	}
	return float64(p.GamesWon) / float64(serverGamesWon) * 100
}

// ProfileDetails is a profile together with its server-wide context
type ProfileDetails struct {
	Profile        *UserProfile
	Rank           int // 1-based leaderboard rank, 0 when unranked
	LeaderboardPts int64
	ServerGamesWon int64
	Level          int
	Pollinations   int64
	Badges         string
}

// ServerProfile is a user's standing across the server's economy. Nil
// counters could not be read.
type ServerProfile struct {
	Profile      *UserProfile
	ServerGames  int64
	Pollinations *int64
	Balance      *int64
	Level        int // 0 when no level-up was found
}

// BioUpdate carries optional profile text changes; nil fields are left untouched
type BioUpdate struct {
	Bio                  *string
	FavoriteIdolName     *string
	FavoriteIdolImageURL *string
}

// IsEmpty reports whether the update changes nothing
func (u BioUpdate) IsEmpty() bool {
	return u.Bio == nil && u.FavoriteIdolName == nil && u.FavoriteIdolImageURL == nil
}
