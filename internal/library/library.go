// Package library ingests batches of audio files. It resolves them on a
// bounded worker pool, keeps the records in input order and recomputes
// missing durations in the background.
package library

import (
	"context"
	"runtime"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/llehouerou/metaread/internal/notify"
	"github.com/llehouerou/metaread/internal/tags"
)

const (
	maxWorkers           = 12
	defaultProgressEvery = 50
)

// Resolver turns a file into a record. *reader.Reader implements it.
type Resolver interface {
	ResolveEssential(ctx context.Context, path string) (*tags.Track, error)
	ResolveSecondary(ctx context.Context, t *tags.Track) error
	ComputeAccurateDuration(ctx context.Context, t *tags.Track, sink notify.Sink) error
}

// Option configures a List.
type Option func(*List)

// WithWorkers sets the size of the resolution pool. Values below 1 keep
// the default of min(NumCPU, 12).
func WithWorkers(n int) Option {
	return func(l *List) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithDurationWorkers sets how many files are decoded at once during the
// duration pass.
func WithDurationWorkers(n int) Option {
	return func(l *List) {
		if n > 0 {
			l.durationWorkers = n
		}
	}
}

// WithProgressEvery sets how many resolved files trigger a progress
// message.
func WithProgressEvery(n int) Option {
	return func(l *List) {
		if n > 0 {
			l.progressEvery = n
		}
	}
}

// WithSecondary also resolves lyrics and generic metadata while adding.
func WithSecondary(enabled bool) Option {
	return func(l *List) { l.secondary = enabled }
}

// List is an in-memory collection of resolved tracks.
type List struct {
	r Resolver

	workers         int
	durationWorkers int
	progressEvery   int
	secondary       bool

	mu      sync.RWMutex
	tracks  []*tags.Track
	cancels map[uuid.UUID]context.CancelFunc
	subs    []notify.Sink
}

// New creates an empty List resolving files with r.
func New(r Resolver, opts ...Option) *List {
	workers := min(runtime.NumCPU(), maxWorkers)
	l := &List{
		r:               r,
		workers:         workers,
		durationWorkers: workers,
		progressEvery:   defaultProgressEvery,
		cancels:         make(map[uuid.UUID]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tracks returns a snapshot of the list. The records themselves are
// shared, so later duration updates are visible through them.
func (l *List) Tracks() []*tags.Track {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*tags.Track, len(l.tracks))
	copy(out, l.tracks)
	return out
}

// Len returns the number of tracks.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tracks)
}

// Track returns the track with the given ID.
func (l *List) Track(id uuid.UUID) (*tags.Track, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, t := range l.tracks {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Remove deletes a track and cancels its pending duration computation.
// It reports whether the track was in the list.
func (l *List) Remove(id uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cancel, ok := l.cancels[id]; ok {
		cancel()
		delete(l.cancels, id)
	}
	for i, t := range l.tracks {
		if t.ID == id {
			l.tracks = append(l.tracks[:i], l.tracks[i+1:]...)
			return true
		}
	}
	return false
}

// Subscribe returns a queue receiving a TrackUpdated event for every
// track of the list whose duration was recomputed. No event is dropped;
// release the queue with Unsubscribe.
func (l *List) Subscribe() *notify.Queue {
	q := notify.NewQueue()
	l.mu.Lock()
	l.subs = append(l.subs, q)
	l.mu.Unlock()
	return q
}

// Unsubscribe stops delivery to q and closes it.
func (l *List) Unsubscribe(q *notify.Queue) {
	l.mu.Lock()
	l.subs = slices.DeleteFunc(l.subs, func(s notify.Sink) bool {
		sq, ok := s.(*notify.Queue)
		return ok && sq == q
	})
	l.mu.Unlock()
	q.Close()
}

// Notify forwards e to the subscribers if the track is still listed.
// Updates for removed tracks are dropped.
func (l *List) Notify(e notify.Event) {
	if e.Track == nil {
		return
	}
	l.mu.RLock()
	held := l.holds(e.Track)
	subs := append([]notify.Sink(nil), l.subs...)
	l.mu.RUnlock()

	if !held {
		return
	}
	notify.Multi(subs).Notify(e)
}

func (l *List) addTracks(ts []*tags.Track) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tracks = append(l.tracks, ts...)
}

// holds reports whether t is listed. The caller holds l.mu.
func (l *List) holds(t *tags.Track) bool {
	return slices.Contains(l.tracks, t)
}
