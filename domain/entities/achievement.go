package entities

import "time"

// AchievementCategory groups achievements by the stat they measure
type AchievementCategory string

const (
	AchievementCategoryPollination AchievementCategory = "pollination"
	AchievementCategoryGames       AchievementCategory = "games"
	AchievementCategoryLevels      AchievementCategory = "levels"
	AchievementCategoryPoints      AchievementCategory = "points"
	AchievementCategoryMoney       AchievementCategory = "money"
)

// AchievementCategories lists categories in display order
var AchievementCategories = []AchievementCategory{
	AchievementCategoryPollination,
	AchievementCategoryGames,
	AchievementCategoryLevels,
	AchievementCategoryPoints,
	AchievementCategoryMoney,
}

// Achievement is an entry of the static achievement catalog
type Achievement struct {
	ID          string
	Category    AchievementCategory
	Name        string
	Description string
	Emoji       string
	Requirement int64
	Tier        int // 1 bronze .. 5 diamond
}

// UserAchievement records when a user unlocked an achievement
type UserAchievement struct {
	DiscordID     string
	AchievementID string
	UnlockedAt    time.Time
}

var achievementCatalog = []Achievement{
	{ID: "poll_10", Category: AchievementCategoryPollination, Name: "Pollinator", Description: "Post 10 pollinations", Emoji: "🌸", Requirement: 10, Tier: 1},
	{ID: "poll_25", Category: AchievementCategoryPollination, Name: "Flower Power", Description: "Post 25 pollinations", Emoji: "🌺", Requirement: 25, Tier: 2},
	{ID: "poll_50", Category: AchievementCategoryPollination, Name: "Bloom Master", Description: "Post 50 pollinations", Emoji: "🌻", Requirement: 50, Tier: 3},
	{ID: "poll_100", Category: AchievementCategoryPollination, Name: "Garden Guardian", Description: "Post 100 pollinations", Emoji: "🌹", Requirement: 100, Tier: 4},
	{ID: "poll_250", Category: AchievementCategoryPollination, Name: "Pollination Legend", Description: "Post 250 pollinations", Emoji: "🏵️", Requirement: 250, Tier: 5},

	{ID: "games_5", Category: AchievementCategoryGames, Name: "First Steps", Description: "Win 5 guess-the-idol games", Emoji: "🎮", Requirement: 5, Tier: 1},
	{ID: "games_15", Category: AchievementCategoryGames, Name: "Rising Star", Description: "Win 15 guess-the-idol games", Emoji: "⭐", Requirement: 15, Tier: 2},
	{ID: "games_30", Category: AchievementCategoryGames, Name: "Idol Expert", Description: "Win 30 guess-the-idol games", Emoji: "🏆", Requirement: 30, Tier: 3},
	{ID: "games_75", Category: AchievementCategoryGames, Name: "Champion", Description: "Win 75 guess-the-idol games", Emoji: "👑", Requirement: 75, Tier: 4},
	{ID: "games_150", Category: AchievementCategoryGames, Name: "Legendary Guesser", Description: "Win 150 guess-the-idol games", Emoji: "💎", Requirement: 150, Tier: 5},

	{ID: "level_10", Category: AchievementCategoryLevels, Name: "Rookie", Description: "Reach Level 10", Emoji: "🥉", Requirement: 10, Tier: 1},
	{ID: "level_25", Category: AchievementCategoryLevels, Name: "Experienced", Description: "Reach Level 25", Emoji: "🥈", Requirement: 25, Tier: 2},
	{ID: "level_50", Category: AchievementCategoryLevels, Name: "Veteran", Description: "Reach Level 50", Emoji: "🥇", Requirement: 50, Tier: 3},
	{ID: "level_75", Category: AchievementCategoryLevels, Name: "Elite", Description: "Reach Level 75", Emoji: "🏅", Requirement: 75, Tier: 4},
	{ID: "level_100", Category: AchievementCategoryLevels, Name: "Ascended", Description: "Reach Level 100", Emoji: "🌟", Requirement: 100, Tier: 5},

	{ID: "points_100", Category: AchievementCategoryPoints, Name: "Point Collector", Description: "Earn 100 total points", Emoji: "💯", Requirement: 100, Tier: 1},
	{ID: "points_500", Category: AchievementCategoryPoints, Name: "Point Accumulator", Description: "Earn 500 total points", Emoji: "🔢", Requirement: 500, Tier: 2},
	{ID: "points_1000", Category: AchievementCategoryPoints, Name: "Point Master", Description: "Earn 1000 total points", Emoji: "🎯", Requirement: 1000, Tier: 3},
	{ID: "points_2500", Category: AchievementCategoryPoints, Name: "Point Virtuoso", Description: "Earn 2500 total points", Emoji: "✨", Requirement: 2500, Tier: 4},
	{ID: "points_5000", Category: AchievementCategoryPoints, Name: "Point Legend", Description: "Earn 5000 total points", Emoji: "💫", Requirement: 5000, Tier: 5},

	{ID: "money_1000", Category: AchievementCategoryMoney, Name: "Penny Pincher", Description: "Earn 1000 total coins", Emoji: "🪙", Requirement: 1000, Tier: 1},
	{ID: "money_5000", Category: AchievementCategoryMoney, Name: "Coin Collector", Description: "Earn 5000 total coins", Emoji: "💰", Requirement: 5000, Tier: 2},
	{ID: "money_15000", Category: AchievementCategoryMoney, Name: "Wealthy", Description: "Earn 15000 total coins", Emoji: "💸", Requirement: 15000, Tier: 3},
	{ID: "money_50000", Category: AchievementCategoryMoney, Name: "Rich", Description: "Earn 50000 total coins", Emoji: "🤑", Requirement: 50000, Tier: 4},
	{ID: "money_100000", Category: AchievementCategoryMoney, Name: "Millionaire", Description: "Earn 100000 total coins", Emoji: "💎", Requirement: 100000, Tier: 5},
}

// Achievements returns a copy of the catalog in evaluation order
func Achievements() []Achievement {
	out := make([]Achievement, len(achievementCatalog))
	copy(out, achievementCatalog)
	return out
}

// AchievementByID looks up a catalog entry
func AchievementByID(id string) (Achievement, bool) {
	for _, a := range achievementCatalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// AchievementsByCategory returns the catalog entries of one category, lowest tier first
func AchievementsByCategory(category AchievementCategory) []Achievement {
	var out []Achievement
	for _, a := range achievementCatalog {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// StatSnapshot is the per-category stat values an achievement check compares against
type StatSnapshot struct {
	Pollinations int64
	GamesWon     int64
	Level        int64
	TotalPoints  int64
	Money        int64
}

// Value returns the stat measured by a category
func (s StatSnapshot) Value(category AchievementCategory) int64 {
	switch category {
	case AchievementCategoryPollination:
		return s.Pollinations
	case AchievementCategoryGames:
		return s.GamesWon
	case AchievementCategoryLevels:
		return s.Level
	case AchievementCategoryPoints:
		return s.TotalPoints
	case AchievementCategoryMoney:
		return s.Money
	default:
		return 0
	}
}

// CategoryProgress summarizes one category for display
type CategoryProgress struct {
	Category    AchievementCategory
	Unlocked    []Achievement
	Total       int
	HighestIcon string // emoji of the highest unlocked tier, empty when none
}

// AchievementProgress summarizes a user's unlocked achievements
type AchievementProgress struct {
	Unlocked      []Achievement
	ByCategory    []CategoryProgress
	TotalUnlocked int
	TotalPossible int
}

// Badges joins the highest-tier emoji of every category with an unlock
func (p AchievementProgress) Badges() string {
	var badges string
	for _, c := range p.ByCategory {
		badges += c.HighestIcon
	}
	return badges
}
