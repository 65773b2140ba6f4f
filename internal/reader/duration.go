package reader

import (
	"context"
	"errors"

	"github.com/juho05/log"

	"github.com/llehouerou/metaread/internal/errmsg"
	"github.com/llehouerou/metaread/internal/notify"
	"github.com/llehouerou/metaread/internal/tags"
)

var (
	errNoDecoder = errors.New("no decoder configured")
	errNoFrames  = errors.New("decoder returned no frames")
)

// NeedsBruteForce reports whether t's duration can only be known by
// decoding the whole file.
func NeedsBruteForce(t *tags.Track) bool {
	return t.DurationPending()
}

// ComputeAccurateDuration decodes t's file and stores frames/rate as an
// accurate duration. On success exactly one TrackUpdated event is sent
// to sink, which may be nil. On failure the duration is left untouched
// and the error is logged and returned.
func (r *Reader) ComputeAccurateDuration(ctx context.Context, t *tags.Track, sink notify.Sink) error {
	d, err := r.accurateDuration(ctx, t.Path)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Errorf("%s", errmsg.FormatWith(errmsg.OpAudioDecode, t.Path, err))
		}
		return err
	}

	t.SetDuration(d, true)
	log.Tracef("accurate duration of %s: %.3fs", t.Path, d)
	if sink != nil {
		sink.Notify(notify.Event{Type: notify.TrackUpdated, Track: t})
	}
	return nil
}

func (r *Reader) accurateDuration(ctx context.Context, path string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if r.dec == nil {
		return 0, errNoDecoder
	}
	frames, rate, err := r.dec.FrameCount(ctx, path)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if frames <= 0 || rate <= 0 {
		return 0, errNoFrames
	}
	return float64(frames) / rate, nil
}

// Schedule runs ComputeAccurateDuration in its own goroutine. The
// returned channel is closed once it finished, successfully or not.
func (r *Reader) Schedule(ctx context.Context, t *tags.Track, sink notify.Sink) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.ComputeAccurateDuration(ctx, t, sink)
	}()
	return done
}
