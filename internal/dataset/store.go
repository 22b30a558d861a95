package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ErrUnavailable wraps every failed load; the cause stays reachable through errors.Is.
var ErrUnavailable = errors.New("dataset unavailable")

// DefaultTTL is how long a snapshot is served before the file is read again.
const DefaultTTL = time.Hour

// LoadEvent describes one completed load attempt.
type LoadEvent struct {
	Snapshot *Snapshot
	Duration time.Duration
	Err      error
}

// Store caches the current snapshot and reloads it when it expires or is invalidated.
// Concurrent callers that find the cache stale share a single load.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
	stale   bool
	// gen counts invalidations; a load publishes only if none happened while it ran.
	gen uint64

	src   Source
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	// OnLoad, when set before first use, observes every load attempt.
	OnLoad func(LoadEvent)
}

// NewStore creates a store around src. A non-positive ttl selects DefaultTTL.
func NewStore(src Source, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{src: src, ttl: ttl, now: time.Now}
}

// Get returns the cached snapshot while it is fresh, otherwise loads a new one.
// A failed load never replaces the published snapshot.
func (s *Store) Get(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	cur, stale := s.current, s.stale
	s.mu.RUnlock()

	if cur != nil && !stale && s.now().Sub(cur.LoadedAt) < s.ttl {
		log.Debug().Str("snapshot", cur.ID).Msg("Dataset cache hit")
		return cur, nil
	}

	ch := s.group.DoChan("load", func() (interface{}, error) {
		return s.load(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

func (s *Store) load(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	start := s.now()
	log.Info().Msg("Loading player dataset")

	snap, err := Build(ctx, s.src, start)
	ev := LoadEvent{Snapshot: snap, Duration: s.now().Sub(start), Err: err}
	if s.OnLoad != nil {
		s.OnLoad(ev)
	}
	if err != nil {
		log.Error().Err(err).Msg("Dataset load failed")
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	s.mu.Lock()
	superseded := s.gen != gen
	if !superseded {
		s.current = snap
		s.stale = false
	}
	s.mu.Unlock()
	if superseded {
		log.Info().Str("snapshot", snap.ID).Msg("Dataset load superseded by invalidation, not published")
		return snap, nil
	}

	log.Info().
		Str("snapshot", snap.ID).
		Str("source", snap.Source).
		Int("players", snap.Population.Players).
		Int("eligible", snap.Population.Eligible).
		Dur("took", ev.Duration).
		Msg("Dataset loaded")
	return snap, nil
}

// Invalidate forces the next Get to reload. A load already in flight still answers the
// callers that joined it but is not published, and later callers start a fresh one.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.gen++
	s.mu.Unlock()
	s.group.Forget("load")
	log.Info().Msg("Dataset cache invalidated")
}

// Reload invalidates the cache and loads immediately.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	s.Invalidate()
	return s.Get(ctx)
}

// Current returns the published snapshot without loading; nil before the first load.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
