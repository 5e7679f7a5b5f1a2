package game

import (
	"strings"
	"testing"
	"time"

	"idolbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGuess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		content string
		guess   string
		ok      bool
	}{
		{"!Lisa", "lisa", true},
		{"!  Jennie Kim  ", "jennie kim", true},
		{"lisa", "", false},
		{"!", "", false},
		{"!   ", "", false},
		{" !lisa", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			guess, ok := ParseGuess(tt.content)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.guess, guess)
		})
	}
}

func TestGuessReactions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result entities.GuessResult
		want   []string
	}{
		{
			name:   "wrong with tries left",
			result: entities.GuessResult{Outcome: entities.GuessOutcomeWrong, Remaining: 2},
			want:   []string{"❌", "2️⃣"},
		},
		{
			name:   "wrong and now exhausted",
			result: entities.GuessResult{Outcome: entities.GuessOutcomeWrong, Remaining: 0, ExhaustedNow: true},
			want:   []string{"❌", "0️⃣", "☠️"},
		},
		{
			name:   "more tries than keycaps",
			result: entities.GuessResult{Outcome: entities.GuessOutcomeWrong, Remaining: 11},
			want:   []string{"❌"},
		},
		{
			name:   "already exhausted",
			result: entities.GuessResult{Outcome: entities.GuessOutcomeAttemptsExhausted},
			want:   []string{"☠️"},
		},
		{
			name:   "first group claim",
			result: entities.GuessResult{Outcome: entities.GuessOutcomeGroupNameFirst},
			want:   []string{"✅"},
		},
		{
			name:   "group already claimed is answered with a reply",
			result: entities.GuessResult{Outcome: entities.GuessOutcomeGroupNameAlreadyGuessed},
			want:   nil,
		},
		{
			name:   "win is announced, not reacted",
			result: entities.GuessResult{Outcome: entities.GuessOutcomeCorrectWin},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GuessReactions(tt.result))
		})
	}
}

func TestStartAnnouncement(t *testing.T) {
	t.Parallel()

	starter := entities.Player{UserID: "100", Username: "alice"}
	session, err := entities.NewGameSession("c1", starter, "Lisa", 3, "Blackpink", "", false, time.Now())
	require.NoError(t, err)

	text := StartAnnouncement(session, "")
	assert.Contains(t, text, "<@100> started a 🎮 Guess-the-Idol 🎮 game!")
	assert.Contains(t, text, "You have **3** tries.")
	assert.Contains(t, text, "A group name has been provided!")

	session.NoHints = true
	assert.Contains(t, StartAnnouncement(session, "555"), "No hints this round")

	pings := []struct {
		role     string
		wantPing string
	}{
		{role: "", wantPing: ""},
		{role: "0", wantPing: ""},
		{role: "555", wantPing: " <@&555>"},
	}
	for _, tt := range pings {
		got := StartAnnouncement(session, tt.role)
		if tt.wantPing == "" {
			assert.NotContains(t, got, "<@&", "role %q", tt.role)
			continue
		}
		assert.True(t, strings.HasSuffix(got, tt.wantPing), "role %q", tt.role)
	}
}

func TestGroupClaimedReply(t *testing.T) {
	t.Parallel()

	bob := &entities.Player{UserID: "200", Username: "bob"}

	assert.Equal(t, "The group name was already guessed by <@200>!", GroupClaimedReply(entities.GuessResult{
		Outcome:      entities.GuessOutcomeGroupNameAlreadyGuessed,
		GroupGuesser: bob,
	}))
	assert.Empty(t, GroupClaimedReply(entities.GuessResult{Outcome: entities.GuessOutcomeGroupNameAlreadyGuessed}))
	assert.Empty(t, GroupClaimedReply(entities.GuessResult{Outcome: entities.GuessOutcomeGroupNameFirst, GroupGuesser: bob}))
}

func TestWinAnnouncement(t *testing.T) {
	t.Parallel()

	winner := entities.Player{UserID: "200", Username: "bob"}
	starter := entities.Player{UserID: "100", Username: "alice"}
	group := entities.Player{UserID: "300", Username: "carol"}
	rewards := entities.ComputeRewards(100, winner, starter, &group)

	text := WinAnnouncement(entities.GuessResult{
		Outcome:  entities.GuessOutcomeCorrectWin,
		User:     winner,
		Target:   "lisa",
		ImageURL: "https://cdn.example/lisa.png",
		Rewards:  &rewards,
	})

	assert.Contains(t, text, "🎉 <@200> guessed right! It was **lisa**. +100 coins awarded!")
	assert.Contains(t, text, "coordinator <@100>. +60")
	assert.Contains(t, text, "<@300> named the group first and earned +30")
	assert.Contains(t, text, "**Image Reveal:**\nhttps://cdn.example/lisa.png")

	noImage := WinAnnouncement(entities.GuessResult{User: winner, Target: "lisa"})
	assert.NotContains(t, noImage, "Image Reveal")
}

func TestEndAnnouncement(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "No image was provided for this round.", EndAnnouncement(&entities.EndResult{Target: "lisa"}))
	assert.Contains(t, EndAnnouncement(&entities.EndResult{ImageURL: "https://cdn.example/x.png"}), "https://cdn.example/x.png")
}
