package admin

import (
	"context"
	"errors"
	"fmt"

	"idolbot/bot/common"
	"idolbot/domain/entities"
	"idolbot/domain/interfaces"
	"idolbot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature serves the x_admin_* maintenance commands
type Feature struct {
	leaderboard interfaces.LeaderboardService
	slots       interfaces.SlotsService
	isAdmin     func(discordID string) bool
}

// NewFeature creates the admin feature; isAdmin gates every command
func NewFeature(leaderboard interfaces.LeaderboardService, slots interfaces.SlotsService, isAdmin func(string) bool) *Feature {
	return &Feature{leaderboard: leaderboard, slots: slots, isAdmin: isAdmin}
}

// HandleCommand checks the caller and routes the command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	caller := common.InteractionUser(i)
	if !f.isAdmin(caller.UserID) {
		common.HandleError(s, i, common.NewUserError("You do not have permission to use this command.", "admin command denied"), false)
		return
	}

	opts := common.CommandOptions(i)
	target := opts.User(s, "user")
	if target == nil {
		common.HandleError(s, i, common.NewUserError("Please provide a user.", "admin command without user"), false)
		return
	}

	var (
		reply string
		err   error
	)
	ctx := context.Background()

	switch name := i.ApplicationCommandData().Name; name {
	case "x_admin_addpoints", "x_admin_subtractpoints":
		points := opts.Int("points", 0)
		if name == "x_admin_subtractpoints" {
			points = -points
		}
		reply, err = f.adjustPoints(ctx, target, points)
	case "x_admin_removeplayer":
		reply, err = f.removePlayer(ctx, target)
	case "x_admin_giftspins":
		reply, err = f.giftSpins(ctx, target, int(opts.Int("amount", 0)))
	case "x_admin_giftticket":
		reply, err = f.giftTicket(ctx, target, entities.TicketKind(opts.String("kind")), int(opts.Int("amount", 1)))
	default:
		return
	}
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	log.WithFields(log.Fields{
		"admin_id":  caller.UserID,
		"target_id": target.ID,
		"command":   i.ApplicationCommandData().Name,
	}).Info("Admin command executed")

	if err := common.Respond(s, i, reply, false); err != nil {
		log.WithError(err).Error("Failed to acknowledge admin command")
	}
}

func (f *Feature) adjustPoints(ctx context.Context, target *discordgo.User, delta int64) (string, error) {
	total, err := f.leaderboard.AdjustPoints(ctx, target.ID, target.Username, delta)
	if errors.Is(err, services.ErrInvalidAmount) {
		return "", common.NewUserError("Please provide a non-zero number of points.", "zero point adjustment")
	}
	if err != nil {
		return "", common.NewSystemError(err, "failed to adjust points")
	}

	verb := "Added"
	amount := delta
	if delta < 0 {
		verb = "Subtracted"
		amount = -delta
	}
	return fmt.Sprintf("%s %d points for %s (%s). They now have %d points.", verb, amount, target.Username, target.ID, total), nil
}

func (f *Feature) removePlayer(ctx context.Context, target *discordgo.User) (string, error) {
	removed, err := f.leaderboard.RemovePlayer(ctx, target.ID)
	if err != nil {
		return "", common.NewSystemError(err, "failed to remove player")
	}
	if !removed {
		return "", common.NewUserError(fmt.Sprintf("%s is not on the leaderboard.", target.Username), "remove of unknown player")
	}
	return fmt.Sprintf("Removed %s (%s) from the leaderboard.", target.Username, target.ID), nil
}

func (f *Feature) giftSpins(ctx context.Context, target *discordgo.User, amount int) (string, error) {
	total, err := f.slots.GiftSpins(ctx, target.ID, amount)
	if errors.Is(err, services.ErrInvalidAmount) {
		return "", common.NewUserError("Amount must be a positive number.", "non-positive spin gift")
	}
	if err != nil {
		return "", common.NewSystemError(err, "failed to gift free spins")
	}
	return fmt.Sprintf("✅ Successfully gifted **%d** free spins to %s! They now have %d.", amount, common.Mention(target.ID), total), nil
}

func (f *Feature) giftTicket(ctx context.Context, target *discordgo.User, kind entities.TicketKind, amount int) (string, error) {
	buffs, err := f.slots.GiftTicket(ctx, target.ID, kind, amount)
	if errors.Is(err, services.ErrInvalidAmount) {
		return "", common.NewUserError("Amount must be a positive number.", "non-positive ticket gift")
	}
	if err != nil {
		return "", common.NewSystemError(err, "failed to gift tickets")
	}
	return fmt.Sprintf("✅ Gifted **%d** %s ticket(s) to %s. Silver: %d, Golden: %d.",
		amount, kind, common.Mention(target.ID), buffs.SilverTickets, buffs.GoldenTickets), nil
}
