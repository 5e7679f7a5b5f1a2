package profile

import (
	"fmt"
	"math"
	"strings"

	"idolbot/domain/entities"
	"idolbot/domain/utils"

	"github.com/bwmarrin/discordgo"
)

// ColorProfile is the accent of profile embeds and cards
const ColorProfile = 0xFF6B9D

const divider = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// HasHistory reports whether a profile has any games or points recorded
func HasHistory(p *entities.UserProfile) bool {
	if p == nil {
		return false
	}
	return p.GamesStarted > 0 || p.GamesWon > 0 || p.TotalPoints() > 0
}

// WinRatePercent rounds a profile's share of server wins to a whole percent
func WinRatePercent(details *entities.ProfileDetails) int {
	return int(math.Round(details.Profile.WinRate(details.ServerGamesWon)))
}

func rankText(rank int) string {
	if rank <= 0 {
		return "Unranked"
	}
	return fmt.Sprintf("#%d", rank)
}

// BuildEmbed renders a guesser profile. The card attachment, when present, is
// shown as the embed image.
func BuildEmbed(details *entities.ProfileDetails, displayName, avatarURL, cardName string) *discordgo.MessageEmbed {
	p := details.Profile

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎮 %s's Profile", displayName),
		Color: ColorProfile,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "🎯 **Games Started**",
				Value: fmt.Sprintf("You've started `%d` games", p.GamesStarted),
			},
			{
				Name: "📈 **Win Rate**",
				Value: fmt.Sprintf("🏆 **%d%%** - You've won `%d` out of `%d` total server games",
					WinRatePercent(details), p.GamesWon, details.ServerGamesWon),
			},
			{Name: divider, Value: "\u200b"},
			{
				Name: "💎 **Total Points & Rank**",
				Value: fmt.Sprintf("💎 **Total Points:** `%d`\n🏅 **Current Rank:** `%s`",
					p.TotalPoints(), rankText(details.Rank)),
			},
			{Name: divider, Value: "\u200b"},
			{
				Name: "⭐ **Points Breakdown**",
				Value: fmt.Sprintf("🥇 **From Winning:** `%d`\n🤝 **From Assists:** `%d`\n🎮 **From Starting Games:** `%d`",
					p.PointsFromWinning, p.PointsFromAssists, p.PointsFromStarting),
			},
			{Name: divider, Value: "\u200b"},
			{
				Name: "💰 **Money from Games**",
				Value: fmt.Sprintf("🥇 **From Winning:** `%d` coins\n🤝 **From Assists:** `%d` coins\n🎮 **From Starting:** `%d` coins\n\n💸 **Total Earned:** `%d` coins",
					p.MoneyFromWinning, p.MoneyFromAssists, p.MoneyFromStarting, p.TotalMoney()),
			},
		},
	}

	var extras []string
	if details.Level > 0 {
		extras = append(extras, fmt.Sprintf("📶 **Level:** `%d`", details.Level))
	}
	if details.Pollinations > 0 {
		extras = append(extras, fmt.Sprintf("🌸 **Pollinations:** `%d`", details.Pollinations))
	}
	if details.Badges != "" {
		extras = append(extras, "🎖️ **Badges:** "+details.Badges)
	}
	if len(extras) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "✨ **Extras**", Value: strings.Join(extras, "\n")})
	}

	if p.Bio != "" {
		embed.Description = "*" + p.Bio + "*"
	}
	if p.FavoriteIdolName != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "💖 **Favorite Idol**", Value: p.FavoriteIdolName})
	}

	if avatarURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: avatarURL}
	}
	switch {
	case cardName != "":
		embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + cardName}
	case p.FavoriteIdolImageURL != "":
		embed.Image = &discordgo.MessageEmbedImage{URL: p.FavoriteIdolImageURL}
	}

	return embed
}

// ColorServerProfile is the accent of /server_profile
const ColorServerProfile = 0x6BCB77

func unavailable(v *int64, missing string) string {
	if v == nil {
		return missing
	}
	return utils.FormatThousands(*v)
}

// BuildServerEmbed renders a user's server-wide standing
func BuildServerEmbed(sp *entities.ServerProfile, username, avatarURL string) *discordgo.MessageEmbed {
	bio := sp.Profile.Bio
	if bio == "" {
		bio = "_No bio set. Use `/set_bio` to set one!_"
	}
	level := "Unavailable"
	if sp.Level > 0 {
		level = fmt.Sprintf("Level: %d", sp.Level)
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s's profile", username),
		Color: ColorServerProfile,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bio", Value: bio},
			{Name: "💰 **Your Money**", Value: unavailable(sp.Balance, "_[Unavailable]_")},
			{Name: "🏅 **Your Level**", Value: level},
			{Name: "🌸 **Pollinations**", Value: unavailable(sp.Pollinations, "_[Unavailable]_")},
			{Name: "🎮 **Total Games Played**", Value: utils.FormatThousands(sp.ServerGames)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Server stats for Idol Guesser"},
	}
	if avatarURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: avatarURL}
	}
	if sp.Profile.FavoriteIdolName != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Favorite Idol", Value: sp.Profile.FavoriteIdolName})
	}
	if sp.Profile.FavoriteIdolImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: sp.Profile.FavoriteIdolImageURL}
	}
	return embed
}
