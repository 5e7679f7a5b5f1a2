package profile

import (
	"bytes"
	"image/png"
	"testing"

	"idolbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDetails() *entities.ProfileDetails {
	return &entities.ProfileDetails{
		Profile: &entities.UserProfile{
			DiscordID:          "100",
			Username:           "alice",
			GamesStarted:       4,
			GamesWon:           3,
			PointsFromStarting: 2,
			PointsFromAssists:  1,
			PointsFromWinning:  3,
			MoneyFromStarting:  100,
			MoneyFromAssists:   75,
			MoneyFromWinning:   450,
			Bio:                "stan loona",
			FavoriteIdolName:   "Chuu",
		},
		Rank:           2,
		ServerGamesWon: 8,
		Level:          12,
		Badges:         "🎮🥉",
	}
}

func TestHasHistory(t *testing.T) {
	t.Parallel()

	assert.False(t, HasHistory(nil))
	assert.False(t, HasHistory(&entities.UserProfile{DiscordID: "1"}))
	assert.True(t, HasHistory(&entities.UserProfile{GamesStarted: 1}))
	assert.True(t, HasHistory(&entities.UserProfile{PointsFromAssists: 1}))
}

func TestWinRatePercent(t *testing.T) {
	t.Parallel()

	details := sampleDetails()
	assert.Equal(t, 38, WinRatePercent(details))

	details.ServerGamesWon = 0
	assert.Equal(t, 0, WinRatePercent(details))
}

func TestBuildEmbed(t *testing.T) {
	t.Parallel()

	t.Run("with card", func(t *testing.T) {
		embed := BuildEmbed(sampleDetails(), "Alice", "https://cdn/avatar.png", CardFileName)

		assert.Equal(t, "🎮 Alice's Profile", embed.Title)
		assert.Equal(t, ColorProfile, embed.Color)
		assert.Equal(t, "*stan loona*", embed.Description)
		require.NotNil(t, embed.Image)
		assert.Equal(t, "attachment://profile.png", embed.Image.URL)
		require.NotNil(t, embed.Thumbnail)

		var values []string
		for _, field := range embed.Fields {
			values = append(values, field.Value)
		}
		assert.Contains(t, values, "🏆 **38%** - You've won `3` out of `8` total server games")
		assert.Contains(t, values, "💎 **Total Points:** `6`\n🏅 **Current Rank:** `#2`")
		assert.Contains(t, values, "Chuu")
	})

	t.Run("unranked falls back to idol image", func(t *testing.T) {
		details := sampleDetails()
		details.Rank = 0
		details.Profile.FavoriteIdolImageURL = "https://img/chuu.png"

		embed := BuildEmbed(details, "Alice", "", "")

		require.NotNil(t, embed.Image)
		assert.Equal(t, "https://img/chuu.png", embed.Image.URL)
		assert.Nil(t, embed.Thumbnail)
		assert.Contains(t, embed.Fields[3].Value, "`Unranked`")
	})
}

func TestCardGenerator_Render(t *testing.T) {
	t.Parallel()

	gen, err := NewCardGenerator()
	require.NoError(t, err)

	data, err := gen.Render(sampleDetails(), "Alice")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, cardWidth, img.Bounds().Dx())
	assert.Equal(t, cardHeight, img.Bounds().Dy())
}

func TestBuildServerEmbed(t *testing.T) {
	t.Parallel()

	pollinations, balance := int64(12), int64(4200)

	tests := []struct {
		name      string
		sp        *entities.ServerProfile
		want      map[string]string
		wantImage string
	}{
		{
			name: "every counter",
			sp: &entities.ServerProfile{
				Profile:      &entities.UserProfile{Bio: "stan loona", FavoriteIdolName: "Yves", FavoriteIdolImageURL: "https://img/yves.png"},
				ServerGames:  1500,
				Pollinations: &pollinations,
				Balance:      &balance,
				Level:        9,
			},
			want: map[string]string{
				"Bio":                        "stan loona",
				"💰 **Your Money**":           "4,200",
				"🏅 **Your Level**":           "Level: 9",
				"🌸 **Pollinations**":         "12",
				"🎮 **Total Games Played**":   "1,500",
				"Favorite Idol":              "Yves",
			},
			wantImage: "https://img/yves.png",
		},
		{
			name: "nothing available",
			sp:   &entities.ServerProfile{Profile: &entities.UserProfile{}},
			want: map[string]string{
				"Bio":                      "_No bio set. Use `/set_bio` to set one!_",
				"💰 **Your Money**":         "_[Unavailable]_",
				"🏅 **Your Level**":         "Unavailable",
				"🌸 **Pollinations**":       "_[Unavailable]_",
				"🎮 **Total Games Played**": "0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			embed := BuildServerEmbed(tt.sp, "alice", "https://cdn/avatar.png")

			assert.Equal(t, "alice's profile", embed.Title)
			assert.Equal(t, ColorServerProfile, embed.Color)
			assert.Equal(t, "Server stats for Idol Guesser", embed.Footer.Text)
			assert.Equal(t, "https://cdn/avatar.png", embed.Thumbnail.URL)

			got := make(map[string]string, len(embed.Fields))
			for _, f := range embed.Fields {
				got[f.Name] = f.Value
			}
			assert.Equal(t, tt.want, got)

			if tt.wantImage == "" {
				assert.Nil(t, embed.Image)
			} else {
				require.NotNil(t, embed.Image)
				assert.Equal(t, tt.wantImage, embed.Image.URL)
			}
		})
	}
}
