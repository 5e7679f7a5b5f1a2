package bot

import (
	"fmt"

	"idolbot/bot/features/achievements"
	"idolbot/bot/features/rps"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func userOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    required,
	}
}

// Commands returns every slash command the bot serves
func Commands() []*discordgo.ApplicationCommand {
	minLimit := float64(1)
	zero := float64(0)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "start",
			Description: "Start a Guess-the-Idol game in this channel",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "The idol to guess", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "limit", Description: "Tries per player", Required: true, MinValue: &minLimit},
				{Type: discordgo.ApplicationCommandOptionString, Name: "group", Description: "The idol's group"},
				{Type: discordgo.ApplicationCommandOptionString, Name: "image", Description: "Image revealed at the end"},
				{Type: discordgo.ApplicationCommandOptionBoolean, Name: "nohints", Description: "Tease wrong guesses instead of hinting"},
			},
		},
		{Name: "end", Description: "End the game in this channel"},
		{
			Name:        "leaderboard",
			Description: "Show the Guess-the-Idol leaderboard",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionBoolean, Name: "showids", Description: "Show user IDs"},
			},
		},
		{
			Name:        "guesser_profile",
			Description: "Show a guesser profile",
			Options:     []*discordgo.ApplicationCommandOption{userOption("User to show (defaults to you)", false)},
		},
		{Name: "server_profile", Description: "Show your money, level and pollinations on this server"},
		{
			Name:        "set_bio",
			Description: "Update your profile",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "bio", Description: "Your bio", MaxLength: 200},
				{Type: discordgo.ApplicationCommandOptionString, Name: "favorite_idol", Description: "Your favorite idol", MaxLength: 50},
				{Type: discordgo.ApplicationCommandOptionString, Name: "favorite_idol_image", Description: "Image URL of your favorite idol"},
			},
		},
		{
			Name:        "achievements",
			Description: "Show achievement progress",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("User to show (defaults to you)", false),
				{Type: discordgo.ApplicationCommandOptionString, Name: "category", Description: "Show one category in detail", Choices: achievements.CategoryChoices()},
			},
		},
		{Name: "slots", Description: "Spin the slot machine"},
		{Name: "buffs", Description: "Show your active slots buffs"},
		{Name: "free_spins", Description: "Show your free spins"},
		{
			Name:        "rps",
			Description: "Play rock, paper, scissors",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "choice", Description: "Your hand", Required: true, Choices: rps.Choices()},
			},
		},
		{
			Name:        "rps_game",
			Description: "Play a best-of match of rock, paper, scissors",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "opponent", Description: "Who to play (defaults to me)"},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "bet_amount", Description: "Coins each player puts in", MinValue: &zero},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "rounds",
					Description: "Best of 1, 3 or 5 (defaults to 1)",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Best of 1", Value: 1},
						{Name: "Best of 3", Value: 3},
						{Name: "Best of 5", Value: 5},
					},
				},
			},
		},
		{
			Name:        "chat",
			Description: "Talk to the bot",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "message", Description: "What to say", Required: true},
			},
		},
		{
			Name:        "x_admin_addpoints",
			Description: "Admin: add leaderboard points",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Player", true),
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "points", Description: "Points to add", Required: true},
			},
		},
		{
			Name:        "x_admin_subtractpoints",
			Description: "Admin: subtract leaderboard points",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Player", true),
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "points", Description: "Points to subtract", Required: true},
			},
		},
		{
			Name:        "x_admin_removeplayer",
			Description: "Admin: remove a player from the leaderboard",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Player", true)},
		},
		{
			Name:        "x_admin_giftspins",
			Description: "Admin: gift free spins",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Player", true),
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "Free spins", Required: true},
			},
		},
		{
			Name:        "x_admin_giftticket",
			Description: "Admin: gift slots tickets",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Player", true),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "kind",
					Description: "Ticket kind",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "silver", Value: "silver"},
						{Name: "golden", Value: "golden"},
					},
				},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "Tickets", Required: true},
			},
		},
		{
			Name:        "x_admin_countpollinations",
			Description: "Admin: scan for new pollinations",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Channel to scan (defaults to the pollination channel)"},
			},
		},
		{Name: "pollination_leaderboard", Description: "Show the top pollinators"},
		{
			Name:        "check_pollination",
			Description: "Look up pollinations by number, range or user",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "number", Description: "A number or range, e.g. 50 or 50-60"},
				userOption("List this user's pollinations", false),
			},
		},
		{Name: "x_admin_totalpollinations", Description: "Admin: show the number of stored pollinations"},
		{Name: "x_admin_reset_pollinations", Description: "Admin: ask to delete all pollination data"},
		{Name: "x_admin_reset_pollinations_yes", Description: "Admin: confirm deleting all pollination data"},
	}
}

// registerCommands replaces the guild's command set with Commands()
func (b *Bot) registerCommands() error {
	created, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.config.GuildID, Commands())
	if err != nil {
		return fmt.Errorf("cannot register commands: %w", err)
	}
	log.WithField("count", len(created)).Info("Slash commands registered")
	return nil
}
