// Package schedule guards shift-range fetches against request staleness:
// when a fetch for one calendar range is superseded by a newer one before it
// resolves, its result must be discarded, or stale data overwrites fresh
// data in the view. Each fetch is tagged with a sequence number and results
// commit only while their tag is still the latest.
package schedule

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bakehouse-dev/baker-scheduling/web/internal/domain"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/metrics"
)

// ErrStale marks a fetch whose result arrived after a newer fetch had been
// issued for the same view. Callers drop the result and stay quiet; the
// newer fetch owns the view now.
var ErrStale = errors.New("schedule: fetch superseded by a newer request")

// Range is a calendar window, [Start, End] inclusive by day.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Equal(other Range) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

// FetchFunc performs the actual upstream call for a range.
type FetchFunc func(ctx context.Context, rng Range) ([]domain.Shift, error)

// Loader serializes view-state updates for one session's calendar. Fetches
// may overlap freely in flight; only the latest-issued one may commit.
type Loader struct {
	mu     sync.Mutex
	seq    uint64
	rng    Range
	shifts []domain.Shift
	loaded bool
}

func NewLoader() *Loader {
	return &Loader{}
}

// Load runs fetch for the range and commits the result to the loader's
// snapshot unless a newer Load was issued meanwhile, in which case the
// result is discarded and ErrStale returned. Errors from superseded fetches
// are likewise collapsed into ErrStale: the view no longer cares.
func (l *Loader) Load(ctx context.Context, rng Range, fetch FetchFunc) ([]domain.Shift, error) {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.mu.Unlock()

	shifts, err := fetch(ctx, rng)

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq != l.seq {
		metrics.StaleFetchesDiscarded.Inc()
		return nil, ErrStale
	}

	if err != nil {
		return nil, err
	}

	l.rng = rng
	l.shifts = shifts
	l.loaded = true

	return shifts, nil
}

// Snapshot returns the last committed range and shifts, if any.
func (l *Loader) Snapshot() (Range, []domain.Shift, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.rng, l.shifts, l.loaded
}

type loaderKey struct {
	owner string
	view  string
}

// Loaders hands out one Loader per (session owner, view) pair, created on
// demand. Dropping an owner forgets every view's loader at once so nothing
// outlives the session.
type Loaders struct {
	mu    sync.Mutex
	byKey map[loaderKey]*Loader
}

func NewLoaders() *Loaders {
	return &Loaders{
		byKey: make(map[loaderKey]*Loader),
	}
}

func (ls *Loaders) For(owner, view string) *Loader {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	key := loaderKey{owner: owner, view: view}
	loader, ok := ls.byKey[key]
	if !ok {
		loader = NewLoader()
		ls.byKey[key] = loader
	}

	return loader
}

// Drop forgets all of an owner's loaders, typically on logout.
func (ls *Loaders) Drop(owner string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	for key := range ls.byKey {
		if key.owner == owner {
			delete(ls.byKey, key)
		}
	}
}
