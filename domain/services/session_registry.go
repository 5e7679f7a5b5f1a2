package services

import (
	"context"
	"sync"
	"time"

	"idolbot/domain/entities"
	"idolbot/domain/utils"

	log "github.com/sirupsen/logrus"
)

// ChannelSweeper drops per-channel state for channels without an active session
type ChannelSweeper interface {
	Sweep(active map[string]struct{})
}

// SessionRegistry owns the table of active guess-the-idol sessions, the
// per-channel lock that serializes their mutation and the periodic sweep of
// per-channel state held by other components.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*entities.GameSession
	locks    *utils.ChannelLock

	sweepInterval time.Duration
	sweepersMu    sync.Mutex
	sweepers      []ChannelSweeper
}

// NewSessionRegistry creates an empty registry
func NewSessionRegistry(sweepInterval time.Duration) *SessionRegistry {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	return &SessionRegistry{
		sessions:      make(map[string]*entities.GameSession),
		locks:         utils.NewChannelLock(),
		sweepInterval: sweepInterval,
	}
}

// WithChannel runs fn while holding the channel's lock. All reads and writes
// of a channel's session must happen inside fn.
func (r *SessionRegistry) WithChannel(channelID string, fn func()) {
	r.locks.WithLock(channelID, fn)
}

// Get returns the active session of a channel, or nil
func (r *SessionRegistry) Get(channelID string) *entities.GameSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session := r.sessions[channelID]
	if session == nil || !session.Active {
		return nil
	}
	return session
}

// Put stores a session, replacing whatever the channel held
func (r *SessionRegistry) Put(session *entities.GameSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ChannelID] = session
}

// Remove deletes a channel's session
func (r *SessionRegistry) Remove(channelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, channelID)
}

// IsActive reports whether the channel has an active session
func (r *SessionRegistry) IsActive(channelID string) bool {
	return r.Get(channelID) != nil
}

// ActiveChannels returns the set of channels with an active session
func (r *SessionRegistry) ActiveChannels() map[string]struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active := make(map[string]struct{}, len(r.sessions))
	for channelID, session := range r.sessions {
		if session.Active {
			active[channelID] = struct{}{}
		}
	}
	return active
}

// RegisterSweeper adds a component whose per-channel state is swept with the registry
func (r *SessionRegistry) RegisterSweeper(s ChannelSweeper) {
	r.sweepersMu.Lock()
	defer r.sweepersMu.Unlock()
	r.sweepers = append(r.sweepers, s)
}

// Sweep drops resolved sessions and tells every sweeper which channels are still active
func (r *SessionRegistry) Sweep() {
	r.mu.Lock()
	for channelID, session := range r.sessions {
		if !session.Active {
			delete(r.sessions, channelID)
		}
	}
	r.mu.Unlock()

	active := r.ActiveChannels()

	r.sweepersMu.Lock()
	sweepers := append([]ChannelSweeper(nil), r.sweepers...)
	r.sweepersMu.Unlock()

	for _, s := range sweepers {
		s.Sweep(active)
	}

	log.WithField("active_channels", len(active)).Debug("Swept inactive channel state")
}

// Run sweeps on every interval until ctx is cancelled
func (r *SessionRegistry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	log.WithField("interval", r.sweepInterval).Info("Session sweep started")

	for {
		select {
		case <-ticker.C:
			r.Sweep()
		case <-ctx.Done():
			log.Info("Session sweep stopped")
			return
		}
	}
}
