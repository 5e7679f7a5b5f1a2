package bot

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"idolbot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// Transport sends, reacts and reads channel history through a discordgo session
type Transport struct {
	session *discordgo.Session
}

// NewTransport wraps a session
func NewTransport(session *discordgo.Session) *Transport {
	return &Transport{session: session}
}

// Send posts a plain message
func (t *Transport) Send(ctx context.Context, channelID, content string) error {
	if _, err := t.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send message to %s: %w", channelID, err)
	}
	return nil
}

// React adds a reaction to a message
func (t *Transport) React(ctx context.Context, channelID, messageID, emoji string) error {
	if err := t.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to react to %s: %w", messageID, err)
	}
	return nil
}

// MessagesAfter returns up to limit messages posted after afterID, oldest
// first. An empty afterID reads from the start of the channel.
func (t *Transport) MessagesAfter(ctx context.Context, channelID, afterID string, limit int) ([]entities.ScannedMessage, error) {
	if afterID == "" {
		afterID = "0"
	}

	messages, err := t.session.ChannelMessages(channelID, limit, "", afterID, "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages of %s: %w", channelID, err)
	}
	return toScanned(messages), nil
}

func toScanned(messages []*discordgo.Message) []entities.ScannedMessage {
	scanned := make([]entities.ScannedMessage, 0, len(messages))
	for _, m := range messages {
		if m == nil {
			continue
		}
		sm := entities.ScannedMessage{
			ID:        m.ID,
			Content:   m.Content,
			CreatedAt: m.Timestamp,
		}
		if m.Author != nil {
			sm.AuthorID = m.Author.ID
		}
		scanned = append(scanned, sm)
	}

	slices.SortFunc(scanned, func(a, b entities.ScannedMessage) int {
		return compareSnowflakes(a.ID, b.ID)
	})
	return scanned
}

// compareSnowflakes orders Discord IDs numerically
func compareSnowflakes(a, b string) int {
	x, errA := strconv.ParseUint(a, 10, 64)
	y, errB := strconv.ParseUint(b, 10, 64)
	if errA != nil || errB != nil {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
