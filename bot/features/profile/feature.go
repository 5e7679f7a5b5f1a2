package profile

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"idolbot/bot/common"
	"idolbot/domain/entities"
	"idolbot/domain/interfaces"
	"idolbot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature serves /guesser_profile, /server_profile and /set_bio
type Feature struct {
	profiles interfaces.ProfileService
	cards    *CardGenerator
}

// NewFeature creates the profile feature. A nil card generator sends embeds without a card.
func NewFeature(profiles interfaces.ProfileService, cards *CardGenerator) *Feature {
	return &Feature{profiles: profiles, cards: cards}
}

// HandleCommand routes the profile commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "guesser_profile":
		f.handleProfile(s, i)
	case "server_profile":
		f.handleServerProfile(s, i)
	case "set_bio":
		if err := f.handleSetBio(s, i); err != nil {
			common.HandleError(s, i, err, false)
		}
	}
}

func (f *Feature) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Failed to defer profile response")
		return
	}

	target := common.InteractionUser(i)
	displayName := common.DisplayName(i)
	avatarURL := ""
	if user := common.CommandOptions(i).User(s, "user"); user != nil {
		target = entities.Player{UserID: user.ID, Username: user.Username}
		displayName = common.GetDisplayName(s, i.GuildID, user.ID)
		avatarURL = user.AvatarURL("256")
	} else if i.Member != nil && i.Member.User != nil {
		avatarURL = i.Member.User.AvatarURL("256")
	}

	details, err := f.profiles.GetDetails(context.Background(), target.UserID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to load profile"), true)
		return
	}
	if !HasHistory(details.Profile) {
		common.FollowUpWithError(s, i, "No profile found. Play some games to create your profile!")
		return
	}

	params := &discordgo.WebhookParams{}
	cardName := ""
	if f.cards != nil {
		png, err := f.cards.Render(details, displayName)
		if err != nil {
			log.WithError(err).WithField("discord_id", target.UserID).Warn("Failed to render profile card")
		} else {
			cardName = CardFileName
			params.Files = []*discordgo.File{{
				Name:        CardFileName,
				ContentType: "image/png",
				Reader:      bytes.NewReader(png),
			}}
		}
	}

	embed := BuildEmbed(details, displayName, avatarURL, cardName)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Requested by " + common.DisplayName(i)}
	params.Embeds = []*discordgo.MessageEmbed{embed}

	if err := common.FollowUp(s, i, params); err != nil {
		log.WithError(err).Error("Failed to send profile")
	}
}

func (f *Feature) handleServerProfile(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Failed to defer server profile response")
		return
	}

	user := common.InteractionUser(i)
	sp, err := f.profiles.ServerProfile(context.Background(), user.UserID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to load server profile"), true)
		return
	}

	avatarURL := ""
	if i.Member != nil && i.Member.User != nil {
		avatarURL = i.Member.User.AvatarURL("256")
	} else if i.User != nil {
		avatarURL = i.User.AvatarURL("256")
	}

	embed := BuildServerEmbed(sp, user.Username, avatarURL)
	if err := common.FollowUp(s, i, &discordgo.WebhookParams{Embeds: []*discordgo.MessageEmbed{embed}}); err != nil {
		log.WithError(err).Error("Failed to send server profile")
	}
}

func (f *Feature) handleSetBio(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opts := common.CommandOptions(i)
	update := entities.BioUpdate{
		Bio:                  opts.StringPtr("bio"),
		FavoriteIdolName:     opts.StringPtr("favorite_idol"),
		FavoriteIdolImageURL: opts.StringPtr("favorite_idol_image"),
	}

	user := common.InteractionUser(i)
	_, err := f.profiles.UpdateBio(context.Background(), user.UserID, user.Username, update)
	if errors.Is(err, services.ErrInvalidProfile) {
		msg := strings.TrimPrefix(err.Error(), services.ErrInvalidProfile.Error()+": ")
		return common.NewUserError("⚠️ "+msg, "bio update rejected")
	}
	if err != nil {
		return common.NewSystemError(err, "failed to update bio")
	}

	if err := common.Respond(s, i, "✅ Your profile has been updated.", true); err != nil {
		log.WithError(err).Error("Failed to acknowledge bio update")
	}
	return nil
}
