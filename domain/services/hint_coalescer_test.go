package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"idolbot/domain/entities"
	"idolbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type hintHarness struct {
	coalescer *HintCoalescer
	generator *testhelpers.MockTextGenerator
	transport *testhelpers.MockMessageTransport

	mu       sync.Mutex
	timers   []func()
	observed []string
}

// newHintHarness runs replies synchronously and captures cooldown timers so
// tests decide when a window closes.
func newHintHarness() *hintHarness {
	h := &hintHarness{
		generator: &testhelpers.MockTextGenerator{},
		transport: &testhelpers.MockMessageTransport{},
	}
	h.generator.On("Generate", mock.Anything, mock.Anything).Return("nice try").Maybe()
	h.transport.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	h.coalescer = NewHintCoalescer(h.generator, h.transport, time.Second)
	h.coalescer.dispatch = func(f func()) { f() }
	h.coalescer.pick = func(int) int { return 0 }
	h.coalescer.afterFunc = func(_ time.Duration, f func()) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.timers = append(h.timers, f)
	}
	h.coalescer.SetObserver(func(kind string, err error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.observed = append(h.observed, kind)
	})
	return h
}

func (h *hintHarness) expireAll() {
	h.mu.Lock()
	timers := h.timers
	h.timers = nil
	h.mu.Unlock()

	for _, f := range timers {
		f()
	}
}

func (h *hintHarness) kinds() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.observed...)
}

func (h *hintHarness) prompts() []string {
	var prompts []string
	for _, call := range h.generator.Calls {
		if call.Method == "Generate" {
			prompts = append(prompts, call.Arguments.String(1))
		}
	}
	return prompts
}

func wrongGuess(user, guess string, remaining int) WrongGuess {
	return WrongGuess{
		ChannelID:   testChannelID,
		UserID:      user,
		DisplayName: user,
		Guess:       guess,
		Remaining:   remaining,
		Target:      "jisoo",
		GroupName:   "blackpink",
	}
}

func TestHintCoalescer_Coalescing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		guesses   []WrongGuess
		wantKinds []string
	}{
		{
			name: "two users in one window",
			guesses: []WrongGuess{
				wrongGuess("bob", "rose", 4),
				wrongGuess("carol", "lisa", 4),
				wrongGuess("bob", "jennie", 3),
			},
			wantKinds: []string{"immediate", "batched"},
		},
		{
			name: "same user repeating the same guess",
			guesses: []WrongGuess{
				wrongGuess("bob", "rose", 4),
				wrongGuess("bob", "rose", 3),
				wrongGuess("bob", "rose", 2),
			},
			wantKinds: []string{"immediate"},
		},
		{
			name: "one user with two different guesses",
			guesses: []WrongGuess{
				wrongGuess("bob", "rose", 4),
				wrongGuess("bob", "lisa", 3),
				wrongGuess("bob", "jennie", 2),
			},
			wantKinds: []string{"immediate", "batched"},
		},
		{
			name: "a single queued guess is not enough",
			guesses: []WrongGuess{
				wrongGuess("bob", "rose", 4),
				wrongGuess("carol", "lisa", 4),
			},
			wantKinds: []string{"immediate"},
		},
		{
			name: "lone guess",
			guesses: []WrongGuess{
				wrongGuess("bob", "rose", 4),
			},
			wantKinds: []string{"immediate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHintHarness()
			for _, g := range tt.guesses {
				h.coalescer.OnWrongGuess(context.Background(), g)
			}
			h.expireAll()

			assert.Equal(t, tt.wantKinds, h.kinds())
			h.transport.AssertNumberOfCalls(t, "Send", len(tt.wantKinds))
		})
	}
}

func TestHintCoalescer_BatchPrompt(t *testing.T) {
	t.Parallel()

	h := newHintHarness()
	h.coalescer.OnWrongGuess(context.Background(), wrongGuess("bob", "rose", 4))
	h.coalescer.OnWrongGuess(context.Background(), wrongGuess("carol", "lisa", 4))
	h.coalescer.OnWrongGuess(context.Background(), wrongGuess("dave", "lisa", 2))
	h.coalescer.OnWrongGuess(context.Background(), wrongGuess("erin", "jennie", 4))
	h.expireAll()

	prompts := h.prompts()
	require.Len(t, prompts, 2)
	assert.Contains(t, prompts[0], `bob guessed "rose"`)
	assert.Contains(t, prompts[1], "(lisa, jennie)")
	// lowest remaining count in the window selects the hint tone
	assert.Contains(t, prompts[1], "hint about the idol")
	assert.Contains(t, prompts[1], `"jisoo"`)
}

func TestHintCoalescer_NewWindowAfterExpiry(t *testing.T) {
	t.Parallel()

	h := newHintHarness()
	h.coalescer.OnWrongGuess(context.Background(), wrongGuess("bob", "rose", 4))
	h.expireAll()
	h.coalescer.OnWrongGuess(context.Background(), wrongGuess("carol", "lisa", 4))

	assert.Equal(t, []string{"immediate", "immediate"}, h.kinds())
}

func TestHintCoalescer_ChannelsAreIndependent(t *testing.T) {
	t.Parallel()

	h := newHintHarness()
	h.coalescer.OnWrongGuess(context.Background(), wrongGuess("bob", "rose", 4))
	other := wrongGuess("carol", "lisa", 4)
	other.ChannelID = "c2"
	h.coalescer.OnWrongGuess(context.Background(), other)

	assert.Equal(t, []string{"immediate", "immediate"}, h.kinds())
	h.transport.AssertCalled(t, "Send", mock.Anything, testChannelID, "nice try")
	h.transport.AssertCalled(t, "Send", mock.Anything, "c2", "nice try")
}

func TestHintCoalescer_CheekyTone(t *testing.T) {
	t.Parallel()

	h := newHintHarness()
	g := wrongGuess("bob", "rose", 1)
	g.NoHints = true
	h.coalescer.OnWrongGuess(context.Background(), g)

	prompts := h.prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Hints are switched off")
	assert.NotContains(t, prompts[0], "jisoo")
}

func TestHintCoalescer_PromptToneByRemaining(t *testing.T) {
	t.Parallel()

	tests := []struct {
		remaining int
		want      string
	}{
		{remaining: 4, want: "witty, and playful message. Keep it"},
		{remaining: 2, want: "gentle hint"},
		{remaining: 0, want: "gentle hint"},
	}

	for _, tt := range tests {
		prompt := buildHintPrompt(wrongGuess("bob", "rose", tt.remaining), entities.HintToneFor(tt.remaining, false), 0)
		assert.Contains(t, prompt, tt.want, "remaining %d", tt.remaining)
	}
}

func TestHintCoalescer_SendFailureIsObserved(t *testing.T) {
	t.Parallel()

	h := newHintHarness()
	h.transport = &testhelpers.MockMessageTransport{}
	h.transport.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("discord down"))
	h.coalescer.transport = h.transport

	var gotErr error
	h.coalescer.SetObserver(func(kind string, err error) { gotErr = err })
	h.coalescer.OnWrongGuess(context.Background(), wrongGuess("bob", "rose", 4))

	assert.EqualError(t, gotErr, "discord down")
}

func TestHintCoalescer_Sweep(t *testing.T) {
	t.Parallel()

	h := newHintHarness()
	h.coalescer.OnWrongGuess(context.Background(), wrongGuess("bob", "rose", 4))
	other := wrongGuess("carol", "lisa", 4)
	other.ChannelID = "c2"
	h.coalescer.OnWrongGuess(context.Background(), other)
	require.Equal(t, 2, h.coalescer.Tracked())

	// c1 is still cooling down, so its state outlives the first sweep
	h.coalescer.Sweep(map[string]struct{}{"c2": {}})
	assert.Equal(t, 2, h.coalescer.Tracked())

	h.expireAll()
	h.coalescer.Sweep(map[string]struct{}{"c2": {}})
	assert.Equal(t, 1, h.coalescer.Tracked())
	assert.Equal(t, []string{"immediate", "immediate"}, h.kinds())
}

func TestHintCoalescer_SweepDuringCooldownKeepsOneReplyPerWindow(t *testing.T) {
	t.Parallel()

	h := newHintHarness()
	h.coalescer.OnWrongGuess(context.Background(), wrongGuess("bob", "rose", 4))
	h.mu.Lock()
	staleTimer := h.timers[0]
	h.timers = nil
	h.mu.Unlock()

	h.coalescer.Sweep(map[string]struct{}{})
	h.coalescer.OnWrongGuess(context.Background(), wrongGuess("carol", "lisa", 4))
	staleTimer()
	h.coalescer.OnWrongGuess(context.Background(), wrongGuess("dave", "jennie", 4))

	assert.Equal(t, []string{"immediate"}, h.kinds())
}

func TestHintCoalescer_StaleTimerAfterStateRemoved(t *testing.T) {
	t.Parallel()

	h := newHintHarness()
	h.coalescer.OnWrongGuess(context.Background(), wrongGuess("bob", "rose", 4))
	h.mu.Lock()
	staleTimer := h.timers[0]
	h.timers = nil
	h.mu.Unlock()

	// the state is gone entirely, as if the channel had been swept after its window closed
	h.coalescer.mu.Lock()
	delete(h.coalescer.channels, testChannelID)
	h.coalescer.mu.Unlock()

	h.coalescer.OnWrongGuess(context.Background(), wrongGuess("carol", "lisa", 4))
	staleTimer()
	h.coalescer.OnWrongGuess(context.Background(), wrongGuess("dave", "jennie", 4))

	assert.Equal(t, []string{"immediate", "immediate"}, h.kinds())
}

func TestHintCoalescer_ResolvedSessionDropsQueue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		resolve func(h *hintHarness)
	}{
		{
			name:    "round won or ended",
			resolve: func(h *hintHarness) { h.coalescer.OnSessionResolved(testChannelID) },
		},
		{
			name:    "swept as inactive",
			resolve: func(h *hintHarness) { h.coalescer.Sweep(map[string]struct{}{}) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHintHarness()
			h.coalescer.OnWrongGuess(context.Background(), wrongGuess("bob", "rose", 4))
			h.coalescer.OnWrongGuess(context.Background(), wrongGuess("carol", "lisa", 4))
			h.coalescer.OnWrongGuess(context.Background(), wrongGuess("dave", "jennie", 4))

			tt.resolve(h)
			h.expireAll()

			assert.Equal(t, []string{"immediate"}, h.kinds())
		})
	}
}

func TestSummarizeQueue(t *testing.T) {
	t.Parallel()

	guesses, diverse := summarizeQueue([]queuedGuess{
		{userID: "a", guess: "rose"},
		{userID: "b", guess: "rose"},
	})
	assert.Equal(t, []string{"rose"}, guesses)
	assert.True(t, diverse)

	guesses, diverse = summarizeQueue(nil)
	assert.Empty(t, guesses)
	assert.False(t, diverse)

	_, diverse = summarizeQueue([]queuedGuess{{userID: "a", guess: "rose"}})
	assert.False(t, diverse)

}
