// Package session keeps one blackjack table per client session and
// serialises every call made against a table.
package session

import (
	"context"
	"errors"
	"io"
	rand "math/rand/v2"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/Flowwrian/blackjack-simulator/internal/randutil"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
)

// DefaultID names the table used by clients that send no session ID. It is
// never reaped.
const DefaultID = "default"

// ErrNotFound is returned for unknown session IDs
var ErrNotFound = errors.New("session not found")

// GameFactory builds a fresh game from a per-session RNG
type GameFactory func(rng *rand.Rand) *game.Game

// Table is one session's game plus its lock
type Table struct {
	ID      string
	Created time.Time

	mu       sync.Mutex
	game     *game.Game
	lastUsed time.Time // guarded by Store.mu
	removed  atomic.Bool
}

// Summary holds lightweight session metadata for clients
type Summary struct {
	ID       string    `json:"id"`
	Created  time.Time `json:"created"`
	LastUsed time.Time `json:"last_used"`
}

// Store maps session IDs to tables
type Store struct {
	mu      sync.Mutex
	tables  map[string]*Table
	rng     *rand.Rand // guarded by mu
	factory GameFactory
	clock   quartz.Clock
	ttl     time.Duration
	logger  *log.Logger
}

// Option configures a Store
type Option func(*Store)

// WithClock sets the clock used for idle tracking
func WithClock(clock quartz.Clock) Option {
	return func(s *Store) { s.clock = clock }
}

// WithTTL sets how long a session may stay idle before Reap drops it
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithLogger sets the store logger
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithRand sets the source every session RNG is derived from
func WithRand(rng *rand.Rand) Option {
	return func(s *Store) { s.rng = rng }
}

// NewStore creates a store whose games are built by factory
func NewStore(factory GameFactory, opts ...Option) *Store {
	s := &Store{
		tables:  make(map[string]*Table),
		factory: factory,
		clock:   quartz.NewReal(),
		ttl:     30 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng, _ = randutil.FromOptional(nil)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.logger = s.logger.WithPrefix("session")
	return s
}

// Create starts a new session with a random ID
func (s *Store) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.createLocked(id)
	return id
}

// Ensure returns the table for id, creating it if needed
func (s *Store) Ensure(id string) *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tables[id]; ok {
		return t
	}
	return s.createLocked(id)
}

func (s *Store) createLocked(id string) *Table {
	now := s.clock.Now()
	t := &Table{
		ID:       id,
		Created:  now,
		game:     s.factory(randutil.Child(s.rng)),
		lastUsed: now,
	}
	s.tables[id] = t
	s.logger.Info("Session created", "id", id, "sessions", len(s.tables))
	return t
}

// Get returns the table for id
func (s *Store) Get(id string) (*Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	return t, ok
}

// Do runs fn with exclusive access to the session's game. The lock is held
// for the whole call, so fn should build any response it needs before
// returning.
func (s *Store) Do(id string, fn func(*game.Game) error) error {
	s.mu.Lock()
	t, ok := s.tables[id]
	if ok {
		t.lastUsed = s.clock.Now()
	}
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return t.run(fn)
}

// run holds the table lock for fn. A table deleted or reaped after the
// lookup refuses the call.
func (t *Table) run(fn func(*game.Game) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.removed.Load() {
		return ErrNotFound
	}
	return fn(t.game)
}

// Delete removes a session, reporting whether it existed
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	if !ok {
		return false
	}
	t.removed.Store(true)
	delete(s.tables, id)
	s.logger.Info("Session deleted", "id", id)
	return true
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tables)
}

// List returns session metadata ordered by ID
func (s *Store) List() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Summary, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, Summary{ID: t.ID, Created: t.Created, LastUsed: t.lastUsed})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Reap drops sessions idle for longer than the TTL and returns how many
func (s *Store) Reap() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	reaped := 0
	for id, t := range s.tables {
		if id == DefaultID {
			continue
		}
		if now.Sub(t.lastUsed) > s.ttl {
			t.removed.Store(true)
			delete(s.tables, id)
			reaped++
		}
	}
	if reaped > 0 {
		s.logger.Info("Reaped idle sessions", "count", reaped, "remaining", len(s.tables))
	}
	return reaped
}

// Run reaps idle sessions every interval until ctx is done
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := s.clock.NewTicker(interval, "session", "reap")
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Reap()
		}
	}
}
