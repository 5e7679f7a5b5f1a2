package leftright

import (
	"strings"

	"idolbot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature adds ⬅️ ➡️ voting reactions to media posted in one channel
type Feature struct {
	channelID string
}

// NewFeature creates the feature; an empty channelID disables it
func NewFeature(channelID string) *Feature {
	return &Feature{channelID: channelID}
}

// HasMedia reports whether any attachment is an image or a video
func HasMedia(attachments []*discordgo.MessageAttachment) bool {
	for _, a := range attachments {
		if strings.HasPrefix(a.ContentType, "image") || strings.HasPrefix(a.ContentType, "video") {
			return true
		}
	}
	return false
}

// HandleMessage reacts to media posts in the configured channel
func (f *Feature) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if f.channelID == "" || m.ChannelID != f.channelID || !HasMedia(m.Attachments) {
		return false
	}

	for _, emoji := range []string{common.EmojiLeft, common.EmojiRight} {
		if err := s.MessageReactionAdd(m.ChannelID, m.ID, emoji); err != nil {
			log.WithError(err).WithField("message_id", m.ID).Warn("Could not add left/right reaction")
			break
		}
	}
	return true
}
