package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	messages []*discordgo.Message
	err      error
	calls    int
	limit    int
}

func (f *fakeLister) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.calls++
	f.limit = limit
	return f.messages, f.err
}

func TestHighestLevel(t *testing.T) {
	t.Parallel()

	contents := []string{
		"<@100> has advanced to level 4",
		"<@!100> has advanced to level 12!",
		"<@1000> has advanced to level 50",
		"<@100> has advanced to level 9",
		"congrats <@100>",
	}

	assert.Equal(t, 12, HighestLevel(contents, "100"))
	assert.Equal(t, 50, HighestLevel(contents, "1000"))
	assert.Equal(t, 0, HighestLevel(contents, "200"))
	assert.Equal(t, 0, HighestLevel(nil, "100"))
}

func TestLevelReader(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unconfigured channel", func(t *testing.T) {
		lister := &fakeLister{}
		level, err := NewLevelReader(lister, "").Level(ctx, "100")
		require.NoError(t, err)
		assert.Equal(t, 0, level)
		assert.Zero(t, lister.calls)
	})

	t.Run("reads last hundred messages", func(t *testing.T) {
		lister := &fakeLister{messages: []*discordgo.Message{
			{Content: "<@100> has advanced to level 7"},
			nil,
		}}
		level, err := NewLevelReader(lister, "levels").Level(ctx, "100")
		require.NoError(t, err)
		assert.Equal(t, 7, level)
		assert.Equal(t, 100, lister.limit)
	})

	t.Run("fetch error", func(t *testing.T) {
		lister := &fakeLister{err: errors.New("forbidden")}
		_, err := NewLevelReader(lister, "levels").Level(ctx, "100")
		assert.ErrorContains(t, err, "forbidden")
	})
}
