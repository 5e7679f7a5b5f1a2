package leaderboard

import (
	"strings"
	"testing"

	"idolbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		assert.Contains(t, Table(nil, false), "No one has played yet!")
	})

	t.Run("ranked rows", func(t *testing.T) {
		entries := []*entities.LeaderboardEntry{
			{DiscordID: "100", Username: "alice", Points: 12},
			{DiscordID: "200", Username: "bob", Points: 9},
			{DiscordID: "300", Username: "carol", Points: 4},
			{DiscordID: "400", Username: "a_really_long_username_here", Points: 1},
		}

		table := Table(entries, true)
		lines := strings.Split(strings.Trim(table, "`\n"), "\n")
		require.Len(t, lines, 6)

		assert.Contains(t, lines[0], "| User ID")
		assert.True(t, strings.HasPrefix(lines[2], "1st 🥇  | alice"))
		assert.Contains(t, lines[3], "2nd 🥈")
		assert.Contains(t, lines[4], "3rd 🥉")
		assert.True(t, strings.HasPrefix(lines[5], "#4     | a_really_long_use |"))
		assert.True(t, strings.HasSuffix(lines[5], "| 400"))
	})

	t.Run("ids hidden by default", func(t *testing.T) {
		table := Table([]*entities.LeaderboardEntry{{DiscordID: "100", Username: "alice", Points: 1}}, false)
		assert.NotContains(t, table, "100")
	})
}
