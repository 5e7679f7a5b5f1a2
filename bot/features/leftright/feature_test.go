package leftright

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestHasMedia(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		attachments []*discordgo.MessageAttachment
		want        bool
	}{
		{"none", nil, false},
		{"text file", []*discordgo.MessageAttachment{{ContentType: "text/plain"}}, false},
		{"image", []*discordgo.MessageAttachment{{ContentType: "image/png"}}, true},
		{"video after text", []*discordgo.MessageAttachment{{ContentType: "text/plain"}, {ContentType: "video/mp4"}}, true},
		{"unknown type", []*discordgo.MessageAttachment{{}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasMedia(tt.attachments))
		})
	}
}

func TestHandleMessage_IgnoresOtherChannels(t *testing.T) {
	t.Parallel()

	f := NewFeature("42")
	msg := &discordgo.MessageCreate{Message: &discordgo.Message{
		ChannelID:   "7",
		Attachments: []*discordgo.MessageAttachment{{ContentType: "image/png"}},
	}}
	assert.False(t, f.HandleMessage(nil, msg))
	assert.False(t, NewFeature("").HandleMessage(nil, msg))
}
