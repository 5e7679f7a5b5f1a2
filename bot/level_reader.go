package bot

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

const levelScanLimit = 100

type messageLister interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
}

// LevelReader derives a user's level from the level-up announcements of
// another bot in one channel
type LevelReader struct {
	lister    messageLister
	channelID string
}

// NewLevelReader creates a reader; an empty channelID makes every level 0
func NewLevelReader(lister messageLister, channelID string) *LevelReader {
	return &LevelReader{lister: lister, channelID: channelID}
}

// Level returns the highest level announced for the user among the most recent messages
func (r *LevelReader) Level(ctx context.Context, discordID string) (int, error) {
	if r.channelID == "" {
		return 0, nil
	}

	messages, err := r.lister.ChannelMessages(r.channelID, levelScanLimit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to read level channel: %w", err)
	}

	contents := make([]string, 0, len(messages))
	for _, m := range messages {
		if m != nil {
			contents = append(contents, m.Content)
		}
	}
	return HighestLevel(contents, discordID), nil
}

// HighestLevel finds the largest "<@id> has advanced to level N" value
func HighestLevel(contents []string, discordID string) int {
	pattern := regexp.MustCompile(`<@!?` + regexp.QuoteMeta(discordID) + `> has advanced to level (\d+)`)

	highest := 0
	for _, content := range contents {
		match := pattern.FindStringSubmatch(content)
		if match == nil {
			continue
		}
		if level, err := strconv.Atoi(match[1]); err == nil && level > highest {
			highest = level
		}
	}
	return highest
}
