package pollination

import (
	"context"
	"fmt"
	"strings"

	"idolbot/bot/common"
	"idolbot/domain/entities"
	"idolbot/domain/utils"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// messageLimit is the longest reply sent inline; longer ones go out as a file
const messageLimit = 2000

const invalidLookup = "Please provide a valid pollination number or range (e.g., 50 or 50-60)."

func (f *Feature) handleCheck(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.CommandOptions(i)
	number := opts.String("number")
	user := opts.User(s, "user")

	var numbers entities.NumberRange
	if user == nil {
		var err error
		if numbers, err = entities.ParseNumberRange(number); err != nil {
			common.HandleError(s, i, common.NewUserError(invalidLookup, err.Error()), false)
			return
		}
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Failed to defer pollination lookup")
		return
	}

	var (
		content  string
		filename string
	)
	if user != nil {
		found, err := f.pollinations.ByUser(context.Background(), user.ID)
		if err != nil {
			common.HandleError(s, i, common.NewSystemError(err, "failed to list user pollinations"), true)
			return
		}
		content = UserListing(user.ID, found, f.linker(i.GuildID))
		filename = fmt.Sprintf("pollinations_%s.txt", user.ID)
	} else {
		found, err := f.pollinations.Lookup(context.Background(), numbers)
		if err != nil {
			common.HandleError(s, i, common.NewSystemError(err, "failed to look up pollinations"), true)
			return
		}
		content = NumberListing(numbers, found, f.linker(i.GuildID))
		filename = fmt.Sprintf("pollinations_%s.txt", numbers)
	}

	if err := common.FollowUp(s, i, listingParams(content, filename)); err != nil {
		log.WithError(err).Error("Failed to send pollination lookup")
	}
}

func (f *Feature) handleTotal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !f.requireAdmin(s, i) {
		return
	}
	total, err := f.pollinations.Total(context.Background())
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to count pollinations"), false)
		return
	}
	if err := common.Respond(s, i, TotalMessage(total), true); err != nil {
		log.WithError(err).Error("Failed to send pollination total")
	}
}

func (f *Feature) handleResetPrompt(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !f.requireAdmin(s, i) {
		return
	}
	if err := common.Respond(s, i, "⚠️ Are you sure you want to reset ALL pollination data? This cannot be undone! Use `/x_admin_reset_pollinations_yes` to confirm.", true); err != nil {
		log.WithError(err).Error("Failed to send reset confirmation prompt")
	}
}

func (f *Feature) handleResetConfirm(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !f.requireAdmin(s, i) {
		return
	}
	if err := f.pollinations.Reset(context.Background()); err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to reset pollinations"), false)
		return
	}
	if err := common.Respond(s, i, "✅ All pollination data has been reset. You can now run the pollination scan to rebuild the data with sequential numbering.", true); err != nil {
		log.WithError(err).Error("Failed to confirm pollination reset")
	}
}

func (f *Feature) requireAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if f.isAdmin(common.InteractionUser(i).UserID) {
		return true
	}
	common.HandleError(s, i, common.NewUserError("You do not have permission to use this command.", "pollination admin command denied"), false)
	return false
}

// linker builds jump links into the pollination channel, the only channel
// pollinations are counted from
func (f *Feature) linker(guildID string) func(messageID string) string {
	return func(messageID string) string {
		return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, f.defaultChannel, messageID)
	}
}

// TotalMessage reports the number of stored pollinations
func TotalMessage(total int64) string {
	return fmt.Sprintf("There are currently **%s** pollinations in the database.", utils.FormatThousands(total))
}

// UserListing lists every pollination a user posted
func UserListing(discordID string, found []*entities.Pollination, link func(string) string) string {
	if len(found) == 0 {
		return fmt.Sprintf("No pollinations found for %s.", common.Mention(discordID))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s has %d pollinations:", common.Mention(discordID), len(found))
	for _, p := range found {
		fmt.Fprintf(&b, "\n#%d (content: %s) [jump](%s)", p.Number, p.ContentNumbers, link(p.MessageID))
	}
	return b.String()
}

// NumberListing describes the pollinations found for a number or range
func NumberListing(numbers entities.NumberRange, found []*entities.Pollination, link func(string) string) string {
	if len(found) == 0 {
		return fmt.Sprintf("No pollinations found for number(s) %s.", numbers)
	}
	if numbers.Single() {
		p := found[0]
		return fmt.Sprintf("Pollination #%d by %s (original numbers: %s)\n[Jump to message](%s)",
			p.Number, common.Mention(p.DiscordID), p.ContentNumbers, link(p.MessageID))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Pollinations for numbers %s:", numbers)
	for _, p := range found {
		fmt.Fprintf(&b, "\n#%d by %s (%s) [jump](%s)", p.Number, common.Mention(p.DiscordID), p.ContentNumbers, link(p.MessageID))
	}
	return b.String()
}

// listingParams sends content inline, or as a text attachment when it does
// not fit in one message
func listingParams(content, filename string) *discordgo.WebhookParams {
	if len([]rune(content)) <= messageLimit {
		return &discordgo.WebhookParams{Content: content}
	}
	return &discordgo.WebhookParams{
		Content: "The result is too long to display, see the attached file.",
		Files: []*discordgo.File{{
			Name:        filename,
			ContentType: "text/plain",
			Reader:      strings.NewReader(content),
		}},
	}
}
