package library

import (
	"context"
	"errors"
	"sync"

	"github.com/juho05/log"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/metaread/internal/reader"
	"github.com/llehouerou/metaread/internal/tags"
)

// Progress phases.
const (
	PhaseDiscovered  = "discovered"
	PhaseTracksAdded = "tracksAdded"
	PhaseDurations   = "durations"
	PhaseDone        = "done"
)

// Progress reports the state of an AddFiles call.
type Progress struct {
	Phase   string
	Current int
	Total   int
	// Added holds the tracks resolved since the previous tracksAdded
	// message, in input order.
	Added []*tags.Track
}

type result struct {
	index int
	track *tags.Track
}

// AddFiles resolves every music file under paths and appends the records
// to the list in input order. Files that cannot be opened are logged and
// skipped. Durations that need a full decode are computed before it
// returns. progress may be nil; otherwise it is closed on return.
func (l *List) AddFiles(ctx context.Context, paths []string, progress chan<- Progress) ([]*tags.Track, error) {
	if progress != nil {
		defer close(progress)
	}
	send := func(p Progress) {
		if progress != nil {
			progress <- p
		}
	}

	files, err := discoverFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	send(Progress{Phase: PhaseDiscovered, Total: len(files)})

	added := l.resolveFiles(ctx, files, send)
	l.addTracks(added)

	if err := ctx.Err(); err != nil {
		return added, err
	}

	l.computeDurations(ctx, added, send)

	send(Progress{Phase: PhaseDone, Current: len(added), Total: len(files)})
	return added, ctx.Err()
}

// resolveFiles runs the essential pass on the worker pool. Results are
// collected in a single goroutine so progress messages stay ordered.
func (l *List) resolveFiles(ctx context.Context, files []string, send func(Progress)) []*tags.Track {
	total := len(files)
	resultCh := make(chan result, total)

	go func() {
		g := new(errgroup.Group)
		g.SetLimit(min(l.workers, max(total, 1)))
		for i, f := range files {
			g.Go(func() error {
				if ctx.Err() != nil {
					resultCh <- result{index: i}
					return nil
				}
				resultCh <- result{index: i, track: l.resolve(ctx, f)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	slots := make([]*tags.Track, total)
	finished := make([]bool, total)
	processed := 0
	flushed := 0

	// flush emits the contiguous prefix of finished files.
	flush := func() {
		var batch []*tags.Track
		for flushed < total && finished[flushed] {
			if t := slots[flushed]; t != nil {
				batch = append(batch, t)
			}
			flushed++
		}
		send(Progress{Phase: PhaseTracksAdded, Current: processed, Total: total, Added: batch})
	}

	for res := range resultCh {
		processed++
		slots[res.index] = res.track
		finished[res.index] = true
		if processed%l.progressEvery == 0 && processed < total {
			flush()
		}
	}
	flush()

	out := make([]*tags.Track, 0, total)
	for _, t := range slots {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

func (l *List) resolve(ctx context.Context, path string) *tags.Track {
	t, err := l.r.ResolveEssential(ctx, path)
	if err != nil {
		var openErr *reader.OpenError
		if errors.As(err, &openErr) {
			log.Warnf("%s", openErr)
		} else {
			log.Warnf("resolve %s: %s", path, err)
		}
		return nil
	}
	if l.secondary {
		if err := l.r.ResolveSecondary(ctx, t); err != nil {
			log.Warnf("secondary metadata of %s: %s", path, err)
		}
	}
	return t
}

// computeDurations decodes every track whose duration is still unknown.
// Each task gets its own context so Remove can cancel it.
func (l *List) computeDurations(ctx context.Context, ts []*tags.Track, send func(Progress)) {
	var todo []*tags.Track
	for _, t := range ts {
		if reader.NeedsBruteForce(t) {
			todo = append(todo, t)
		}
	}
	if len(todo) == 0 {
		return
	}

	var (
		mu   sync.Mutex
		done int
	)
	g := new(errgroup.Group)
	g.SetLimit(l.durationWorkers)
	for _, t := range todo {
		taskCtx, ok := l.registerTask(ctx, t)
		if !ok {
			continue
		}
		g.Go(func() error {
			defer l.finishTask(t)
			// Failures are logged by the resolver and leave the record as is.
			_ = l.r.ComputeAccurateDuration(taskCtx, t, l)

			mu.Lock()
			done++
			send(Progress{Phase: PhaseDurations, Current: done, Total: len(todo)})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
}

// registerTask creates the cancelable context of t's duration task. It
// fails when t was removed in the meantime.
func (l *List) registerTask(ctx context.Context, t *tags.Track) (context.Context, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.holds(t) {
		return nil, false
	}
	taskCtx, cancel := context.WithCancel(ctx)
	l.cancels[t.ID] = cancel
	return taskCtx, true
}

func (l *List) finishTask(t *tags.Track) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cancel, ok := l.cancels[t.ID]; ok {
		cancel()
		delete(l.cancels, t.ID)
	}
}
