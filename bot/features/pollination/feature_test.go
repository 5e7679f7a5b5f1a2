package pollination

import (
	"strings"
	"testing"

	"idolbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanSummary(t *testing.T) {
	t.Parallel()

	report := &entities.ScanReport{
		ChannelID:         "555",
		MessagesScanned:   1250,
		PollinationsAdded: 3,
		NextNumber:        71,
	}

	assert.Equal(t,
		"✅ Pollination scan complete for <#555>.\nScanned **1,250** messages, counted **3** new pollinations. Next number: **71**.",
		ScanSummary(report, false))
	assert.True(t, strings.HasPrefix(ScanSummary(report, true), "⚠️ Pollination scan stopped early"))
}

func TestTable(t *testing.T) {
	t.Parallel()

	assert.Contains(t, Table(nil, nil), "No pollinations yet!")

	counts := []*entities.PollinationCount{
		{DiscordID: "1", Count: 9},
		{DiscordID: "2", Count: 4},
		{DiscordID: "3", Count: 2},
		{DiscordID: "4", Count: 1},
	}
	table := Table(counts, map[string]string{"1": "alice", "2": "bob", "3": "carol"})
	lines := strings.Split(strings.Trim(table, "`\n"), "\n")
	require.Len(t, lines, 6)

	assert.Equal(t, "1st 🥇  | alice             | 9", lines[2])
	assert.Equal(t, "#4     | <@4>              | 1", lines[5])
}
