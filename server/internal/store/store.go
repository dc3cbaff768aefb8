package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/obsidianstack/statcard/internal/card"
)

// Entry is the latest card of one panel together with when it was rendered.
type Entry struct {
	PanelID   string
	RenderID  string
	Card      card.ViewModel
	UpdatedAt time.Time
}

// Store is a thread-safe in-memory card store, keyed by panel ID.
// A background goroutine (Run) periodically evicts entries that have not
// been updated within the configured TTL.
type Store struct {
	mu   sync.RWMutex
	data map[string]*Entry
	ttl  time.Duration
	now  func() time.Time // injectable for deterministic tests

	onEvict func(panelID string)
}

// New creates a Store with the given TTL.
func New(ttl time.Duration) *Store {
	return &Store{
		data: make(map[string]*Entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// TTL returns the configured entry lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// OnEvict registers fn to be called, outside the lock, for every panel
// removed by Evict.
func (s *Store) OnEvict(fn func(panelID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvict = fn
}

// Put stores or replaces the card for panelID under a fresh render ID and
// returns the new entry.
func (s *Store) Put(panelID string, vm card.ViewModel) *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &Entry{
		PanelID:   panelID,
		RenderID:  uuid.NewString(),
		Card:      vm,
		UpdatedAt: s.now(),
	}
	s.data[panelID] = e
	return e
}

// Get returns the Entry for panelID and whether it is present and live.
// Entries older than the TTL are reported as missing even before eviction.
func (s *Store) Get(panelID string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[panelID]
	if !ok || !e.UpdatedAt.After(s.now().Add(-s.ttl)) {
		return nil, false
	}
	return e, true
}

// List returns all live entries sorted by panel ID.
func (s *Store) List() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := s.now().Add(-s.ttl)
	out := make([]*Entry, 0, len(s.data))
	for _, e := range s.data {
		if e.UpdatedAt.After(cutoff) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PanelID < out[j].PanelID })
	return out
}

// Count returns the total number of entries currently held, including stale ones.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Evict removes entries whose UpdatedAt is older than now minus TTL.
// It returns the number of entries removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	cutoff := now.Add(-s.ttl)
	var removed []string
	for id, e := range s.data {
		if !e.UpdatedAt.After(cutoff) {
			delete(s.data, id)
			removed = append(removed, id)
		}
	}
	fn := s.onEvict
	s.mu.Unlock()

	if fn != nil {
		for _, id := range removed {
			fn(id)
		}
	}
	return len(removed)
}

// Run starts the background TTL eviction loop. It ticks at half the TTL
// (minimum 1 second). Run blocks until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				slog.Debug("store: evicted stale cards", "count", n)
			}
		}
	}
}
