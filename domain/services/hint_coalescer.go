package services

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"idolbot/domain/entities"
	"idolbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultHintCooldown       = 10 * time.Second
	DefaultHintRequestTimeout = 10 * time.Second
)

// WrongGuess is what the coalescer needs to know about one wrong guess
type WrongGuess struct {
	ChannelID   string
	UserID      string
	DisplayName string
	Guess       string
	Remaining   int
	Target      string
	GroupName   string
	NoHints     bool
}

type queuedGuess struct {
	userID    string
	guess     string
	remaining int
}

type channelHintState struct {
	cooldown   bool
	generation uint64
	queue      []queuedGuess
	target     string
	groupName  string
	noHints    bool
}

// HintObserver is notified about every reply the coalescer sends or fails to send
type HintObserver func(kind string, err error)

// HintCoalescer sends at most one AI reply per channel per cooldown window and
// folds the wrong guesses made during the window into one follow-up reply.
type HintCoalescer struct {
	mu       sync.Mutex
	channels map[string]*channelHintState
	// generation is shared by all channels and never reset, so a timer armed
	// before a channel's state was swept cannot close a later window
	generation uint64

	generator      interfaces.TextGenerator
	transport      interfaces.MessageTransport
	cooldown       time.Duration
	requestTimeout time.Duration
	observer       HintObserver

	afterFunc func(d time.Duration, f func())
	dispatch  func(f func())
	pick      func(n int) int
}

// NewHintCoalescer creates a coalescer that talks through generator and transport
func NewHintCoalescer(generator interfaces.TextGenerator, transport interfaces.MessageTransport, cooldown time.Duration) *HintCoalescer {
	if cooldown <= 0 {
		cooldown = DefaultHintCooldown
	}
	return &HintCoalescer{
		channels:       make(map[string]*channelHintState),
		generator:      generator,
		transport:      transport,
		cooldown:       cooldown,
		requestTimeout: DefaultHintRequestTimeout,
		afterFunc:      func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		dispatch:       func(f func()) { go f() },
		pick:           rand.IntN,
	}
}

// SetObserver installs a callback used for metrics
func (c *HintCoalescer) SetObserver(observer HintObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = observer
}

// OnWrongGuess replies immediately when the channel is off cooldown and queues the guess otherwise
func (c *HintCoalescer) OnWrongGuess(ctx context.Context, g WrongGuess) {
	c.mu.Lock()
	st, ok := c.channels[g.ChannelID]
	if !ok {
		st = &channelHintState{}
		c.channels[g.ChannelID] = st
	}
	st.target = g.Target
	st.groupName = g.GroupName
	st.noHints = g.NoHints

	if st.cooldown {
		enqueue(st, queuedGuess{userID: g.UserID, guess: g.Guess, remaining: g.Remaining})
		c.mu.Unlock()
		return
	}

	st.cooldown = true
	c.generation++
	st.generation = c.generation
	generation := st.generation
	prompt := buildHintPrompt(g, entities.HintToneFor(g.Remaining, g.NoHints), c.pick(len(cheekyTemplates)))
	c.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	c.dispatch(func() {
		c.reply(bg, g.ChannelID, prompt, "immediate")
	})
	c.afterFunc(c.cooldown, func() {
		c.expire(bg, g.ChannelID, generation)
	})
}

// Sweep drops hint state for channels that are not in active. A channel
// still inside a cooldown window keeps its state until the window closes, but
// loses its queued guesses.
func (c *HintCoalescer) Sweep(active map[string]struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for channelID, st := range c.channels {
		if _, ok := active[channelID]; ok {
			continue
		}
		if st.cooldown {
			st.queue = nil
			continue
		}
		delete(c.channels, channelID)
	}
}

// OnSessionResolved discards the guesses queued for a channel whose round was
// won or ended, so no follow-up is sent for it
func (c *HintCoalescer) OnSessionResolved(channelID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if st, ok := c.channels[channelID]; ok {
		st.queue = nil
	}
}

// Tracked returns the number of channels with hint state
func (c *HintCoalescer) Tracked() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.channels)
}

func enqueue(st *channelHintState, q queuedGuess) {
	for _, existing := range st.queue {
		if existing.userID == q.userID && existing.guess == q.guess {
			return
		}
	}
	st.queue = append(st.queue, q)
}

// expire ends a cooldown window and sends the batched follow-up when the
// queue holds at least two distinct users or two distinct guesses.
func (c *HintCoalescer) expire(ctx context.Context, channelID string, generation uint64) {
	c.mu.Lock()
	st, ok := c.channels[channelID]
	if !ok || st.generation != generation {
		c.mu.Unlock()
		return
	}
	st.cooldown = false
	queue := st.queue
	st.queue = nil
	if len(queue) == 0 {
		c.mu.Unlock()
		return
	}
	target, groupName, noHints := st.target, st.groupName, st.noHints
	c.mu.Unlock()

	guesses, diverse := summarizeQueue(queue)
	if !diverse {
		return
	}

	remaining := queue[0].remaining
	for _, q := range queue[1:] {
		if q.remaining < remaining {
			remaining = q.remaining
		}
	}

	prompt := buildBatchPrompt(guesses, target, groupName, entities.HintToneFor(remaining, noHints), c.pick(len(cheekyTemplates)))
	c.dispatch(func() {
		c.reply(ctx, channelID, prompt, "batched")
	})
}

// summarizeQueue returns the distinct guesses in arrival order and whether
// the queue is diverse enough for a follow-up
func summarizeQueue(queue []queuedGuess) ([]string, bool) {
	users := make(map[string]struct{})
	seen := make(map[string]struct{})
	var guesses []string
	for _, q := range queue {
		users[q.userID] = struct{}{}
		if _, ok := seen[q.guess]; ok {
			continue
		}
		seen[q.guess] = struct{}{}
		guesses = append(guesses, q.guess)
	}
	return guesses, len(users) >= 2 || len(guesses) >= 2
}

func (c *HintCoalescer) reply(ctx context.Context, channelID, prompt, kind string) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	text := c.generator.Generate(ctx, prompt)
	err := c.transport.Send(ctx, channelID, text)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"channel_id": channelID,
			"kind":       kind,
		}).Warn("Failed to send hint reply")
	}

	c.mu.Lock()
	observer := c.observer
	c.mu.Unlock()
	if observer != nil {
		observer(kind, err)
	}
}
