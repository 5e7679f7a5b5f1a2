package entities

import (
	"errors"
	"strings"
	"time"
)

// GuessOutcome classifies the result of a guess submitted to a channel
type GuessOutcome string

const (
	GuessOutcomeNoActiveSession         GuessOutcome = "no_active_session"
	GuessOutcomeAttemptsExhausted       GuessOutcome = "attempts_exhausted"
	GuessOutcomeCorrectWin              GuessOutcome = "correct_win"
	GuessOutcomeCorrectAlreadyWon       GuessOutcome = "correct_already_won"
	GuessOutcomeCorrectAdditional       GuessOutcome = "correct_additional"
	GuessOutcomeGroupNameFirst          GuessOutcome = "group_name_first"
	GuessOutcomeGroupNameAlreadyGuessed GuessOutcome = "group_name_already_guessed"
	GuessOutcomeWrong                   GuessOutcome = "wrong"
)

// HintThreshold is the remaining-attempts count at or below which wrong
// guesses get a hint-bearing reply instead of plain banter.
const HintThreshold = 2

var (
	ErrEmptyTarget         = errors.New("target answer must not be empty")
	ErrInvalidAttemptLimit = errors.New("attempt limit must be positive")
)

// Player identifies a Discord user taking part in a game
type Player struct {
	UserID   string
	Username string
}

// GameSession is the in-memory state of one guess-the-idol round in a channel
type GameSession struct {
	ChannelID      string
	Target         string
	AttemptLimit   int
	GroupName      string
	ImageURL       string
	NoHints        bool
	Starter        Player
	StartedAt      time.Time
	Active         bool
	AttemptsByUser map[string]int
	// CorrectGuessers holds every user that produced the exact answer; the first one is Winner.
	CorrectGuessers map[string]struct{}
	Winner          *Player
	GroupGuesser    *Player
}

// NormalizeAnswer lowercases and trims a target, group name or guess for comparison
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewGameSession creates an active session with normalized answers
func NewGameSession(channelID string, starter Player, target string, attemptLimit int, groupName, imageURL string, noHints bool, now time.Time) (*GameSession, error) {
	target = NormalizeAnswer(target)
	if target == "" {
		return nil, ErrEmptyTarget
	}
	if attemptLimit <= 0 {
		return nil, ErrInvalidAttemptLimit
	}

	return &GameSession{
		ChannelID:       channelID,
		Target:          target,
		AttemptLimit:    attemptLimit,
		GroupName:       NormalizeAnswer(groupName),
		ImageURL:        strings.TrimSpace(imageURL),
		NoHints:         noHints,
		Starter:         starter,
		StartedAt:       now,
		Active:          true,
		AttemptsByUser:  make(map[string]int),
		CorrectGuessers: make(map[string]struct{}),
	}, nil
}

// HasGroupName reports whether the session accepts a group-name assist
func (s *GameSession) HasGroupName() bool {
	return s.GroupName != ""
}

// Attempts returns the number of wrong guesses a user has made
func (s *GameSession) Attempts(userID string) int {
	return s.AttemptsByUser[userID]
}

// Remaining returns how many wrong guesses a user has left
func (s *GameSession) Remaining(userID string) int {
	remaining := s.AttemptLimit - s.AttemptsByUser[userID]
	if remaining < 0 {
		return 0
	}
	return remaining
}

// GuessStep is the state change produced by ApplyGuess
type GuessStep struct {
	Outcome      GuessOutcome
	Remaining    int
	ExhaustedNow bool
}

// ApplyGuess advances the session state machine for one guess. Callers must
// serialize calls for the same session.
func (s *GameSession) ApplyGuess(user Player, rawGuess string) GuessStep {
	if !s.Active {
		return GuessStep{Outcome: GuessOutcomeNoActiveSession}
	}

	if s.AttemptsByUser[user.UserID] >= s.AttemptLimit {
		return GuessStep{Outcome: GuessOutcomeAttemptsExhausted}
	}

	guess := NormalizeAnswer(rawGuess)

	if guess == s.Target {
		if _, seen := s.CorrectGuessers[user.UserID]; seen {
			return GuessStep{Outcome: GuessOutcomeCorrectAlreadyWon, Remaining: s.Remaining(user.UserID)}
		}
		s.CorrectGuessers[user.UserID] = struct{}{}
		if len(s.CorrectGuessers) == 1 {
			winner := user
			s.Winner = &winner
			s.Active = false
			return GuessStep{Outcome: GuessOutcomeCorrectWin, Remaining: s.Remaining(user.UserID)}
		}
		return GuessStep{Outcome: GuessOutcomeCorrectAdditional, Remaining: s.Remaining(user.UserID)}
	}

	if s.HasGroupName() && guess == s.GroupName {
		if s.GroupGuesser != nil {
			return GuessStep{Outcome: GuessOutcomeGroupNameAlreadyGuessed, Remaining: s.Remaining(user.UserID)}
		}
		guesser := user
		s.GroupGuesser = &guesser
		return GuessStep{Outcome: GuessOutcomeGroupNameFirst, Remaining: s.Remaining(user.UserID)}
	}

	s.AttemptsByUser[user.UserID]++
	remaining := s.Remaining(user.UserID)
	return GuessStep{
		Outcome:      GuessOutcomeWrong,
		Remaining:    remaining,
		ExhaustedNow: remaining == 0,
	}
}

// HintTone selects the register of the AI reply to a wrong guess
type HintTone string

const (
	HintTonePlayful HintTone = "playful"
	HintToneHint    HintTone = "hint"
	HintToneCheeky  HintTone = "cheeky"
)

// HintToneFor picks the reply tone for a wrong guess
func HintToneFor(remaining int, noHints bool) HintTone {
	switch {
	case noHints:
		return HintToneCheeky
	case remaining <= HintThreshold:
		return HintToneHint
	default:
		return HintTonePlayful
	}
}

// GuessResult is returned to the transport layer for rendering
type GuessResult struct {
	Outcome      GuessOutcome
	ChannelID    string
	User         Player
	Guess        string
	Target       string
	Remaining    int
	ExhaustedNow bool
	HintTone     HintTone
	ImageURL     string
	GroupGuesser *Player
	Rewards      *RewardBreakdown
}

// EndResult describes a manually ended session
type EndResult struct {
	ChannelID string
	Target    string
	ImageURL  string
	EndedBy   Player
}

// StartSessionRequest carries the options of a start command
type StartSessionRequest struct {
	ChannelID    string
	Starter      Player
	Target       string
	AttemptLimit int
	GroupName    string
	ImageURL     string
	NoHints      bool
}
