package pollination

import (
	"context"
	"fmt"
	"strings"

	"idolbot/bot/common"
	"idolbot/domain/entities"
	"idolbot/domain/interfaces"
	"idolbot/domain/utils"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature serves the pollination scan, leaderboard, lookup and admin commands
type Feature struct {
	pollinations   interfaces.PollinationService
	isAdmin        func(discordID string) bool
	defaultChannel string
}

// NewFeature creates the pollination feature. defaultChannel is scanned when
// the admin command names no channel.
func NewFeature(pollinations interfaces.PollinationService, isAdmin func(string) bool, defaultChannel string) *Feature {
	return &Feature{
		pollinations:   pollinations,
		isAdmin:        isAdmin,
		defaultChannel: defaultChannel,
	}
}

// HandleCommand routes the pollination commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "x_admin_countpollinations":
		f.handleScan(s, i)
	case "pollination_leaderboard":
		f.handleLeaderboard(s, i)
	case "check_pollination":
		f.handleCheck(s, i)
	case "x_admin_totalpollinations":
		f.handleTotal(s, i)
	case "x_admin_reset_pollinations":
		f.handleResetPrompt(s, i)
	case "x_admin_reset_pollinations_yes":
		f.handleResetConfirm(s, i)
	}
}

func (f *Feature) handleScan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !f.requireAdmin(s, i) {
		return
	}

	channelID := f.defaultChannel
	if opt, ok := common.CommandOptions(i)["channel"]; ok {
		channelID = opt.ChannelValue(s).ID
	}
	if channelID == "" {
		channelID = i.ChannelID
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.WithError(err).Error("Failed to defer pollination scan")
		return
	}

	report, err := f.pollinations.Scan(context.Background(), channelID)
	if err != nil {
		log.WithError(err).WithField("channel_id", channelID).Error("Pollination scan failed")
		if report == nil {
			common.FollowUpWithError(s, i, "Pollination scan failed.")
			return
		}
	}

	if err := common.FollowUp(s, i, &discordgo.WebhookParams{
		Content: ScanSummary(report, err != nil),
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		log.WithError(err).Error("Failed to send scan summary")
	}
}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Failed to defer pollination leaderboard")
		return
	}

	counts, err := f.pollinations.Top(context.Background(), entities.DefaultLeaderboardLimit)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to load pollination leaderboard"), true)
		return
	}

	names := make(map[string]string, len(counts))
	for _, c := range counts {
		names[c.DiscordID] = common.GetDisplayName(s, i.GuildID, c.DiscordID)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🌸 Pollination Leaderboard",
		Description: "Top pollinators by number of pollinations.",
		Color:       common.ColorPink,
		Fields:      []*discordgo.MessageEmbedField{{Name: "Top Pollinators", Value: Table(counts, names)}},
	}
	if err := common.FollowUp(s, i, &discordgo.WebhookParams{Embeds: []*discordgo.MessageEmbed{embed}}); err != nil {
		log.WithError(err).Error("Failed to send pollination leaderboard")
	}
}

// ScanSummary describes a scan run; partial marks a run that stopped on an error
func ScanSummary(report *entities.ScanReport, partial bool) string {
	status := "✅ Pollination scan complete"
	if partial {
		status = "⚠️ Pollination scan stopped early"
	}
	return fmt.Sprintf("%s for <#%s>.\nScanned **%s** messages, counted **%s** new pollinations. Next number: **%d**.",
		status, report.ChannelID,
		utils.FormatThousands(int64(report.MessagesScanned)),
		utils.FormatThousands(int64(report.PollinationsAdded)),
		report.NextNumber)
}

// Table renders pollination counts as a fixed-width code block, falling back
// to a mention when no display name is known
func Table(counts []*entities.PollinationCount, names map[string]string) string {
	var b strings.Builder
	b.WriteString("```\nRank   | Pollinator        | Pollinations\n------------------------------------------\n")
	if len(counts) == 0 {
		b.WriteString("No pollinations yet!\n```")
		return b.String()
	}

	for idx, c := range counts {
		name := names[c.DiscordID]
		if name == "" {
			name = common.Mention(c.DiscordID)
		}
		if runes := []rune(name); len(runes) > 17 {
			name = string(runes[:17])
		}
		fmt.Fprintf(&b, "%-6s | %-17s | %d\n", rankDisplay(idx+1), name, c.Count)
	}
	b.WriteString("```")
	return b.String()
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
		return utils.RankLabel(position)
	}
}
