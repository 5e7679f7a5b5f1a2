package entities

import (
	"fmt"
	"strings"
)

// RPSChoice is a rock-paper-scissors hand
type RPSChoice string

const (
	RPSRock     RPSChoice = "rock"
	RPSPaper    RPSChoice = "paper"
	RPSScissors RPSChoice = "scissors"
)

// RPSChoices lists every valid hand
var RPSChoices = []RPSChoice{RPSRock, RPSPaper, RPSScissors}

// RPSResult is the result from the player's point of view
type RPSResult string

const (
	RPSWin  RPSResult = "win"
	RPSLose RPSResult = "lose"
	RPSTie  RPSResult = "tie"
)

// ParseRPSChoice validates user input
func ParseRPSChoice(s string) (RPSChoice, error) {
	c := RPSChoice(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range RPSChoices {
		if c == valid {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid choice %q", s)
}

// Beats reports whether c defeats other
func (c RPSChoice) Beats(other RPSChoice) bool {
	return (c == RPSRock && other == RPSScissors) ||
		(c == RPSPaper && other == RPSRock) ||
		(c == RPSScissors && other == RPSPaper)
}

// Emoji returns the display emoji for a hand
func (c RPSChoice) Emoji() string {
	switch c {
	case RPSRock:
		return "🪨"
	case RPSPaper:
		return "📄"
	case RPSScissors:
		return "✂️"
	}
	return "❔"
}

// DecideRPS scores a round for the player
func DecideRPS(player, bot RPSChoice) RPSResult {
	switch {
	case player == bot:
		return RPSTie
	case player.Beats(bot):
		return RPSWin
	default:
		return RPSLose
	}
}
