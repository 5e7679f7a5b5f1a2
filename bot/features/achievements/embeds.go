package achievements

import (
	"fmt"
	"strings"

	"idolbot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

const colorGold = 0xFFD700

type categoryLabel struct {
	name  string
	emoji string
}

var categoryLabels = map[entities.AchievementCategory]categoryLabel{
	entities.AchievementCategoryPollination: {"Pollinations", "🌸"},
	entities.AchievementCategoryGames:       {"Games", "🎮"},
	entities.AchievementCategoryPoints:      {"Points", "💎"},
	entities.AchievementCategoryMoney:       {"Money", "💰"},
	entities.AchievementCategoryLevels:      {"Levels", "🏅"},
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return part * 100 / total
}

// OverviewEmbed summarizes progress across every category
func OverviewEmbed(progress *entities.AchievementProgress, username string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🏅 %s's Achievements", username),
		Color: colorGold,
		Fields: []*discordgo.MessageEmbedField{{
			Name: "📊 **Overall Progress**",
			Value: fmt.Sprintf("%d/%d achievements unlocked (%d%%)",
				progress.TotalUnlocked, progress.TotalPossible, percent(progress.TotalUnlocked, progress.TotalPossible)),
		}},
	}

	var lines []string
	for _, c := range progress.ByCategory {
		label := categoryLabels[c.Category]
		lines = append(lines, fmt.Sprintf("%s **%s**: %d/%d (%d%%)",
			label.emoji, label.name, len(c.Unlocked), c.Total, percent(len(c.Unlocked), c.Total)))
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "📋 **Categories**", Value: strings.Join(lines, "\n")})

	if n := len(progress.Unlocked); n > 0 {
		recent := progress.Unlocked[max(0, n-3):]
		var text []string
		for _, a := range recent {
			text = append(text, fmt.Sprintf("%s **%s**", a.Emoji, a.Name))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "🆕 **Recent Achievements**", Value: strings.Join(text, "\n")})
	}

	return embed
}

// CategoryEmbed lists every achievement of one category, locked ones greyed out
func CategoryEmbed(progress *entities.AchievementProgress, username string, category entities.AchievementCategory) *discordgo.MessageEmbed {
	unlocked := make(map[string]bool)
	for _, a := range progress.Unlocked {
		unlocked[a.ID] = true
	}

	label := categoryLabels[category]
	var lines []string
	count := 0
	for _, a := range entities.AchievementsByCategory(category) {
		if unlocked[a.ID] {
			count++
			lines = append(lines, fmt.Sprintf("%s **%s** - *%s*", a.Emoji, a.Name, a.Description))
		} else {
			lines = append(lines, fmt.Sprintf("🔒 ~~%s~~ - *%s*", a.Name, a.Description))
		}
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s's %s Achievements", label.emoji, username, label.name),
		Color:       colorGold,
		Description: strings.Join(lines, "\n"),
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d/%d unlocked", count, len(lines))},
	}
}

// CategoryChoices are the options offered by /achievements category
func CategoryChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(entities.AchievementCategories))
	for _, c := range entities.AchievementCategories {
		label := categoryLabels[c]
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  label.name + " " + label.emoji,
			Value: string(c),
		})
	}
	return choices
}
