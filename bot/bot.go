package bot

import (
	"context"
	"fmt"
	"strings"

	"idolbot/bot/features/achievements"
	"idolbot/bot/features/admin"
	"idolbot/bot/features/chat"
	"idolbot/bot/features/game"
	"idolbot/bot/features/leaderboard"
	"idolbot/bot/features/leftright"
	"idolbot/bot/features/pollination"
	"idolbot/bot/features/profile"
	"idolbot/bot/features/rps"
	"idolbot/bot/features/slots"
	"idolbot/domain/interfaces"
	"idolbot/domain/services"
	"idolbot/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	GuildID                 string
	GamePingRoleID          string
	LeftRightChannelID      string
	PollinationChannelID    string
	PollinationScanSchedule string
}

// Services are the domain services the features call into
type Services struct {
	Game         interfaces.GameService
	Achievements interfaces.AchievementService
	Profiles     interfaces.ProfileService
	Leaderboard  interfaces.LeaderboardService
	Slots        interfaces.SlotsService
	Pollinations interfaces.PollinationService
	RPS          *services.RPSService
	Chat         interfaces.TextGenerator
	Tasks        interfaces.TaskRunner
	Metrics      *observability.MetricsProvider
	IsAdmin      func(discordID string) bool
}

type commandHandler interface {
	HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate)
}

type componentHandler interface {
	HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate)
}

// Bot manages the Discord connection and all feature modules
type Bot struct {
	config   Config
	session  *discordgo.Session
	services Services

	// Feature modules
	game         *game.Feature
	leaderboard  *leaderboard.Feature
	profile      *profile.Feature
	achievements *achievements.Feature
	slots        *slots.Feature
	rps          *rps.Feature
	chat         *chat.Feature
	admin        *admin.Feature
	pollination  *pollination.Feature
	leftright    *leftright.Feature

	stopPollinationWorker func()
}

// NewSession creates an unopened Discord session. Collaborators that send
// through the session can be built before the bot itself.
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent
	return dg, nil
}

// New wires the features, opens the connection, registers slash commands and
// starts background workers
func New(ctx context.Context, config Config, session *discordgo.Session, svc Services) (*Bot, error) {
	bot := &Bot{
		config:   config,
		session:  session,
		services: svc,
	}

	cards, err := profile.NewCardGenerator()
	if err != nil {
		log.WithError(err).Warn("Profile cards disabled")
		cards = nil
	}

	bot.game = game.NewFeature(svc.Game, svc.Metrics, config.GamePingRoleID)
	bot.leaderboard = leaderboard.NewFeature(svc.Leaderboard)
	bot.profile = profile.NewFeature(svc.Profiles, cards)
	bot.achievements = achievements.NewFeature(svc.Achievements, svc.Tasks)
	bot.slots = slots.NewFeature(svc.Slots)
	bot.rps = rps.NewFeature(svc.RPS)
	bot.chat = chat.NewFeature(svc.Chat)
	bot.admin = admin.NewFeature(svc.Leaderboard, svc.Slots, svc.IsAdmin)
	bot.pollination = pollination.NewFeature(svc.Pollinations, svc.IsAdmin, config.PollinationChannelID)
	bot.leftright = leftright.NewFeature(config.LeftRightChannelID)

	session.AddHandler(bot.handleCommands)
	session.AddHandler(bot.handleMessageCreate)
	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.WithField("user", r.User.Username).Info("Discord session ready")
	})

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		session.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	bot.stopPollinationWorker, err = bot.StartPollinationScanWorker(ctx)
	if err != nil {
		session.Close()
		return nil, err
	}
	log.Info("Background workers started")

	return bot, nil
}

// Close stops background workers and the Discord connection
func (b *Bot) Close() error {
	if b.stopPollinationWorker != nil {
		b.stopPollinationWorker()
	}
	log.Info("Background workers stopped")

	return b.session.Close()
}

func (b *Bot) routes() map[string]commandHandler {
	return map[string]commandHandler{
		"start":                          b.game,
		"end":                            b.game,
		"leaderboard":                    b.leaderboard,
		"guesser_profile":                b.profile,
		"server_profile":                 b.profile,
		"set_bio":                        b.profile,
		"achievements":                   b.achievements,
		"slots":                          b.slots,
		"buffs":                          b.slots,
		"free_spins":                     b.slots,
		"rps":                            b.rps,
		"rps_game":                       b.rps,
		"chat":                           b.chat,
		"x_admin_addpoints":              b.admin,
		"x_admin_subtractpoints":         b.admin,
		"x_admin_removeplayer":           b.admin,
		"x_admin_giftspins":              b.admin,
		"x_admin_giftticket":             b.admin,
		"x_admin_countpollinations":      b.pollination,
		"pollination_leaderboard":        b.pollination,
		"check_pollination":              b.pollination,
		"x_admin_totalpollinations":      b.pollination,
		"x_admin_reset_pollinations":     b.pollination,
		"x_admin_reset_pollinations_yes": b.pollination,
	}
}

// componentRoutes maps a custom ID prefix, the part before the first colon,
// to the feature that owns the component
func (b *Bot) componentRoutes() map[string]componentHandler {
	return map[string]componentHandler{
		rps.ButtonPrefix: b.rps,
	}
}

// handleCommands routes slash commands and message components to their feature
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type == discordgo.InteractionMessageComponent {
		b.handleComponent(s, i)
		return
	}
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	handler, ok := b.routes()[name]
	if !ok {
		log.WithField("command", name).Warn("Unknown command")
		return
	}
	handler.HandleCommand(s, i)
}

func (b *Bot) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	prefix, _, _ := strings.Cut(customID, ":")
	handler, ok := b.componentRoutes()[prefix]
	if !ok {
		log.WithField("custom_id", customID).Warn("Unknown component")
		return
	}
	handler.HandleComponent(s, i)
}

// handleMessageCreate feeds user messages to the left/right reactions and the guess game
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	b.leftright.HandleMessage(s, m)
	b.game.HandleMessage(s, m)
}
