// Package session keeps the screen controllers of each console session alive
// between requests and closes them once the session goes idle.
package session

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is how long an unused screen survives.
const DefaultTTL = 30 * time.Minute

// Closer is a value owned by the store.
type Closer interface {
	Close()
}

type entry struct {
	value    Closer
	lastUsed time.Time
}

// Store holds values per key and closes them after ttl without use.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*entry
	logger  *slog.Logger

	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewStore returns a Store and starts its sweeper.
func NewStore(ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry),
		logger:  logger,
		stop:    make(chan struct{}),
	}
	s.wg.Add(1)
	go s.sweepLoop()
	return s
}

// Key builds the key of a screen within a session.
func Key(sessionID, screen string) string {
	return sessionID + "/" + screen
}

// Get returns the value stored under key, creating it with create when it is
// missing, expired or of another type.
func Get[V Closer](s *Store, key string, create func() V) V {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[key]; ok {
		if v, ok := e.value.(V); ok && now.Sub(e.lastUsed) < s.ttl {
			e.lastUsed = now
			return v
		}
		e.value.Close()
		delete(s.entries, key)
	}

	v := create()
	s.entries[key] = &entry{value: v, lastUsed: now}
	return v
}

// Drop closes every value whose key starts with prefix, e.g. all screens of a
// session on logout. It returns how many were closed.
func (s *Store) Drop(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k, e := range s.entries {
		if strings.HasPrefix(k, prefix) {
			e.value.Close()
			delete(s.entries, k)
			n++
		}
	}
	return n
}

// Sweep closes values idle for longer than the ttl and returns how many.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for k, e := range s.entries {
		if now.Sub(e.lastUsed) >= s.ttl {
			e.value.Close()
			delete(s.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of live values.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the sweeper and closes every value. Safe to call multiple times.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
		s.Drop("")
	})
}

func (s *Store) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug("closed idle console screens", "count", n)
			}
		}
	}
}
