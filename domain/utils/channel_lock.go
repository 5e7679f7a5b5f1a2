package utils

import "sync"

type keyedMutex struct {
	mu   sync.Mutex
	refs int
}

// ChannelLock serializes work per key (a channel ID) while letting different
// keys proceed in parallel. Entries are dropped once no goroutine holds or
// waits on them.
type ChannelLock struct {
	mu    sync.Mutex
	locks map[string]*keyedMutex
}

// NewChannelLock creates an empty ChannelLock
func NewChannelLock() *ChannelLock {
	return &ChannelLock{locks: make(map[string]*keyedMutex)}
}

// Lock acquires the lock for key
func (l *ChannelLock) Lock(key string) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &keyedMutex{}
		l.locks[key] = m
	}
	m.refs++
	l.mu.Unlock()

	m.mu.Lock()
}

// Unlock releases the lock for key. Unlocking a key that is not locked panics.
func (l *ChannelLock) Unlock(key string) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		l.mu.Unlock()
		panic("utils: unlock of unlocked channel " + key)
	}
	m.refs--
	if m.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()

	m.mu.Unlock()
}

// WithLock runs fn while holding the lock for key
func (l *ChannelLock) WithLock(key string, fn func()) {
	l.Lock(key)
	defer l.Unlock(key)
	fn()
}

// Len returns the number of keys currently held or awaited
func (l *ChannelLock) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
