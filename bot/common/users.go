package common

import (
	"idolbot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// InteractionUser returns the invoking user of an interaction in guilds and DMs
func InteractionUser(i *discordgo.InteractionCreate) entities.Player {
	var user *discordgo.User
	switch {
	case i.Member != nil && i.Member.User != nil:
		user = i.Member.User
	case i.User != nil:
		user = i.User
	default:
		return entities.Player{}
	}
	return entities.Player{UserID: user.ID, Username: user.Username}
}

// DisplayName returns the server nickname of the invoking member, falling back to the username
func DisplayName(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.Nick != "" {
		return i.Member.Nick
	}
	return InteractionUser(i).Username
}

// GetDisplayName returns the server-specific display name for a user
// Falls back to username if nickname is not set or if there's an error
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	member, err := s.GuildMember(guildID, userID)
	if err == nil && member != nil {
		if member.Nick != "" {
			return member.Nick
		}
		if member.User != nil {
			return member.User.Username
		}
	}

	user, err := s.User(userID)
	if err == nil && user != nil {
		return user.Username
	}

	return "Unknown"
}

// Mention returns a Discord mention string for a user
func Mention(userID string) string {
	return "<@" + userID + ">"
}
