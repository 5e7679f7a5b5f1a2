package leaderboard

import (
	"context"
	"fmt"
	"strings"

	"idolbot/bot/common"
	"idolbot/domain/entities"
	"idolbot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature shows the guess game points ranking
type Feature struct {
	leaderboard interfaces.LeaderboardService
}

func NewFeature(leaderboard interfaces.LeaderboardService) *Feature {
	return &Feature{leaderboard: leaderboard}
}

// HandleCommand handles /leaderboard
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	showIDs := common.CommandOptions(i).Bool("showids")

	entries, err := f.leaderboard.Top(context.Background(), entities.DefaultLeaderboardLimit)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to load leaderboard"), false)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📊 Guess-the-Idol Leaderboard",
		Description: "Current standings for Guess-the-Idol.",
		Color:       common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Top Players", Value: Table(entries, showIDs)},
		},
	}

	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.WithError(err).Error("Failed to send leaderboard")
	}
}

func rankDisplay(position int) string {
	switch position {
	case 1:
		return "1st 🥇"
	case 2:
		return "2nd 🥈"
	case 3:
		return "3rd 🥉"
	default:
		return fmt.Sprintf("#%d", position)
	}
}

// Table renders the ranking as a fixed-width code block
func Table(entries []*entities.LeaderboardEntry, showIDs bool) string {
	var b strings.Builder
	b.WriteString("```\nRank   | Username          | Points")
	if showIDs {
		b.WriteString(" | User ID")
	}
	b.WriteString("\n---------------------------------------\n")

	if len(entries) == 0 {
		b.WriteString("No one has played yet!\n```")
		return b.String()
	}

	for idx, entry := range entries {
		name := entry.Username
		if runes := []rune(name); len(runes) > 17 {
			name = string(runes[:17])
		}
		line := fmt.Sprintf("%-6s | %-17s | %-6d", rankDisplay(idx+1), name, entry.Points)
		if showIDs {
			line += " | " + entry.DiscordID
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("```")
	return b.String()
}
