package pollination

import (
	"io"
	"strings"
	"testing"

	"idolbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLink(messageID string) string {
	return "https://discord.com/channels/g/c/" + messageID
}

func TestNumberListing(t *testing.T) {
	t.Parallel()

	found := []*entities.Pollination{
		{Number: 50, DiscordID: "1", MessageID: "m50", ContentNumbers: "50"},
		{Number: 51, DiscordID: "2", MessageID: "m51", ContentNumbers: "51, 52"},
	}

	tests := []struct {
		name    string
		numbers entities.NumberRange
		found   []*entities.Pollination
		want    string
	}{
		{
			name:    "single number",
			numbers: entities.NumberRange{From: 50, To: 50},
			found:   found[:1],
			want:    "Pollination #50 by <@1> (original numbers: 50)\n[Jump to message](https://discord.com/channels/g/c/m50)",
		},
		{
			name:    "range",
			numbers: entities.NumberRange{From: 50, To: 60},
			found:   found,
			want: "Pollinations for numbers 50-60:" +
				"\n#50 by <@1> (50) [jump](https://discord.com/channels/g/c/m50)" +
				"\n#51 by <@2> (51, 52) [jump](https://discord.com/channels/g/c/m51)",
		},
		{
			name:    "nothing found",
			numbers: entities.NumberRange{From: 70, To: 80},
			want:    "No pollinations found for number(s) 70-80.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NumberListing(tt.numbers, tt.found, testLink))
		})
	}
}

func TestUserListing(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "No pollinations found for <@9>.", UserListing("9", nil, testLink))

	got := UserListing("9", []*entities.Pollination{
		{Number: 3, MessageID: "m3", ContentNumbers: "3"},
		{Number: 8, MessageID: "m8", ContentNumbers: "8, 12"},
	}, testLink)
	assert.Equal(t, "<@9> has 2 pollinations:"+
		"\n#3 (content: 3) [jump](https://discord.com/channels/g/c/m3)"+
		"\n#8 (content: 8, 12) [jump](https://discord.com/channels/g/c/m8)", got)
}

func TestListingParams(t *testing.T) {
	t.Parallel()

	short := listingParams("hello", "pollinations_1.txt")
	assert.Equal(t, "hello", short.Content)
	assert.Empty(t, short.Files)

	long := strings.Repeat("x", messageLimit+1)
	params := listingParams(long, "pollinations_1-900.txt")
	require.Len(t, params.Files, 1)
	assert.Equal(t, "pollinations_1-900.txt", params.Files[0].Name)
	body, err := io.ReadAll(params.Files[0].Reader)
	require.NoError(t, err)
	assert.Equal(t, long, string(body))
}

func TestTotalMessage(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "There are currently **1,024** pollinations in the database.", TotalMessage(1024))
}
