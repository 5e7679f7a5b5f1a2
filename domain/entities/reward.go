package entities

// RewardSource tags where profile points and money came from
type RewardSource string

const (
	RewardSourceWinning  RewardSource = "winning"
	RewardSourceStarting RewardSource = "starting"
	RewardSourceAssist   RewardSource = "assist"
)

// Point and currency shares paid when a round is won
const (
	WinnerPoints        int64 = 3
	StarterPoints       int64 = 1
	AssistPoints        int64 = 1
	StarterSharePercent int64 = 60
	AssistSharePercent  int64 = 30
)

// RewardShare is one payment to one participant
type RewardShare struct {
	Player   Player
	Source   RewardSource
	Currency int64
	Points   int64
}

// RewardBreakdown lists every payment made for a won round
type RewardBreakdown struct {
	BaseReward int64
	Shares     []RewardShare
}

// ComputeRewards splits a base reward between winner, starter and group guesser.
// The starter is paid even when they are also the winner. The group guesser is
// only paid when they are not the winner.
func ComputeRewards(base int64, winner, starter Player, groupGuesser *Player) RewardBreakdown {
	breakdown := RewardBreakdown{
		BaseReward: base,
		Shares: []RewardShare{
			{Player: winner, Source: RewardSourceWinning, Currency: base, Points: WinnerPoints},
			{Player: starter, Source: RewardSourceStarting, Currency: percentCeil(base, StarterSharePercent), Points: StarterPoints},
		},
	}

	if groupGuesser != nil && groupGuesser.UserID != winner.UserID {
		breakdown.Shares = append(breakdown.Shares, RewardShare{
			Player:   *groupGuesser,
			Source:   RewardSourceAssist,
			Currency: percentCeil(base, AssistSharePercent),
			Points:   AssistPoints,
		})
	}

	return breakdown
}

// Share returns the payment for a given source, if any
func (b RewardBreakdown) Share(source RewardSource) (RewardShare, bool) {
	for _, share := range b.Shares {
		if share.Source == source {
			return share, true
		}
	}
	return RewardShare{}, false
}

// CurrencyFor sums every currency share paid to a user
func (b RewardBreakdown) CurrencyFor(userID string) int64 {
	var total int64
	for _, share := range b.Shares {
		if share.Player.UserID == userID {
			total += share.Currency
		}
	}
	return total
}

// PointsFor sums every point share paid to a user
func (b RewardBreakdown) PointsFor(userID string) int64 {
	var total int64
	for _, share := range b.Shares {
		if share.Player.UserID == userID {
			total += share.Points
		}
	}
	return total
}

// Recipients returns each rewarded user once, in payment order
func (b RewardBreakdown) Recipients() []Player {
	seen := make(map[string]struct{}, len(b.Shares))
	var players []Player
	for _, share := range b.Shares {
		if _, ok := seen[share.Player.UserID]; ok {
			continue
		}
		seen[share.Player.UserID] = struct{}{}
		players = append(players, share.Player)
	}
	return players
}

// percentCeil computes ceil(base * percent / 100) for non-negative values
func percentCeil(base, percent int64) int64 {
	if base <= 0 {
		return 0
	}
	return (base*percent + 99) / 100
}
