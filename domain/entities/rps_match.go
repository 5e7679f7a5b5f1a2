package entities

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRounds    = errors.New("rounds must be 1, 3 or 5")
	ErrNotInMatch       = errors.New("you are not part of this game")
	ErrAlreadyMoved     = errors.New("you already made your move this round")
	ErrMatchFinished    = errors.New("this game is already over")
	ErrSelfChallenge    = errors.New("you cannot challenge yourself")
	ErrNegativeBet      = errors.New("bet must not be negative")
	ErrBetAgainstTheBot = errors.New("cannot bet against the bot")
)

// RPSMatch is a best-of-N rock-paper-scissors game between two players.
// When VsBot is set the opponent is the bot and moves for itself.
type RPSMatch struct {
	ID         string
	ChannelID  string
	Challenger string
	Opponent   string
	VsBot      bool
	Bet        int64
	Rounds     int
	WinTarget  int

	Round           int
	ChallengerScore int
	OpponentScore   int
	Winner          string

	moves map[string]RPSChoice
}

// RPSMatchRound is the outcome of one resolved round
type RPSMatchRound struct {
	Number          int
	ChallengerMove  RPSChoice
	OpponentMove    RPSChoice
	RoundWinner     string
	ChallengerScore int
	OpponentScore   int
	MatchWinner     string
}

// Tie reports whether nobody took the round
func (r *RPSMatchRound) Tie() bool {
	return r.RoundWinner == ""
}

// Finished reports whether the round decided the match
func (r *RPSMatchRound) Finished() bool {
	return r.MatchWinner != ""
}

// NewRPSMatch validates the match options. rounds must be 1, 3 or 5; the
// first player to win a majority of them takes the match.
func NewRPSMatch(id, channelID, challenger, opponent string, vsBot bool, bet int64, rounds int) (*RPSMatch, error) {
	if rounds != 1 && rounds != 3 && rounds != 5 {
		return nil, ErrInvalidRounds
	}
	if challenger == opponent {
		return nil, ErrSelfChallenge
	}
	if bet < 0 {
		return nil, ErrNegativeBet
	}
	if vsBot && bet > 0 {
		return nil, ErrBetAgainstTheBot
	}
	return &RPSMatch{
		ID:         id,
		ChannelID:  channelID,
		Challenger: challenger,
		Opponent:   opponent,
		VsBot:      vsBot,
		Bet:        bet,
		Rounds:     rounds,
		WinTarget:  (rounds + 1) / 2,
		Round:      1,
		moves:      make(map[string]RPSChoice, 2),
	}, nil
}

// Key identifies the match among the games running in a channel. A player
// pair has at most one game per channel.
func (m *RPSMatch) Key() string {
	return RPSMatchKey(m.ChannelID, m.Challenger, m.Opponent)
}

// RPSMatchKey builds the key of a match between two players in a channel
func RPSMatchKey(channelID, challenger, opponent string) string {
	return fmt.Sprintf("rps:%s:%s:%s", channelID, challenger, opponent)
}

// Pool is the payout for the match winner
func (m *RPSMatch) Pool() int64 {
	return m.Bet * 2
}

// Finished reports whether a player reached the win target
func (m *RPSMatch) Finished() bool {
	return m.Winner != ""
}

// HasMoved reports whether the player already picked a hand this round
func (m *RPSMatch) HasMoved(playerID string) bool {
	_, ok := m.moves[playerID]
	return ok
}

// Move records a player's hand. Once both players have moved the round is
// scored and returned; until then the round is nil.
func (m *RPSMatch) Move(playerID string, choice RPSChoice) (*RPSMatchRound, error) {
	if m.Finished() {
		return nil, ErrMatchFinished
	}
	if playerID != m.Challenger && playerID != m.Opponent {
		return nil, ErrNotInMatch
	}
	if m.HasMoved(playerID) {
		return nil, ErrAlreadyMoved
	}
	m.moves[playerID] = choice
	if len(m.moves) < 2 {
		return nil, nil
	}

	round := &RPSMatchRound{
		Number:         m.Round,
		ChallengerMove: m.moves[m.Challenger],
		OpponentMove:   m.moves[m.Opponent],
	}
	switch DecideRPS(round.ChallengerMove, round.OpponentMove) {
	case RPSWin:
		m.ChallengerScore++
		round.RoundWinner = m.Challenger
	case RPSLose:
		m.OpponentScore++
		round.RoundWinner = m.Opponent
	}

	switch {
	case m.ChallengerScore >= m.WinTarget:
		m.Winner = m.Challenger
	case m.OpponentScore >= m.WinTarget:
		m.Winner = m.Opponent
	}

	round.ChallengerScore = m.ChallengerScore
	round.OpponentScore = m.OpponentScore
	round.MatchWinner = m.Winner

	m.Round++
	clear(m.moves)
	return round, nil
}
