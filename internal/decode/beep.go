package decode

import (
	"context"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"
)

func countFLAC(ctx context.Context, r io.ReadSeekCloser) (int64, float64, error) {
	// Some taggers prepend ID3v2 to FLAC files.
	if _, err := SkipID3v2(r); err != nil {
		return 0, 0, err
	}

	streamer, format, err := flac.Decode(r)
	if err != nil {
		return 0, 0, fmt.Errorf("flac: %w", err)
	}
	defer streamer.Close()

	frames, err := countStream(ctx, streamer)
	if err != nil {
		return 0, 0, fmt.Errorf("flac: %w", err)
	}
	return frames, float64(format.SampleRate), nil
}

func countWAV(ctx context.Context, r io.ReadSeekCloser) (int64, float64, error) {
	streamer, format, err := wav.Decode(r)
	if err != nil {
		return 0, 0, fmt.Errorf("wav: %w", err)
	}
	defer streamer.Close()

	frames, err := countStream(ctx, streamer)
	if err != nil {
		return 0, 0, fmt.Errorf("wav: %w", err)
	}
	return frames, float64(format.SampleRate), nil
}

// countStream drains a beep streamer.
func countStream(ctx context.Context, s beep.Streamer) (int64, error) {
	buf := make([][2]float64, 4096)
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n, ok := s.Stream(buf)
		total += int64(n)
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return 0, err
	}
	return total, nil
}
