package decode

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/llehouerou/go-mp3"
)

// go-mp3 always outputs 16-bit stereo.
const mp3BytesPerFrame = 4

func countMP3(_ context.Context, r io.ReadSeekCloser) (int64, float64, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return 0, 0, fmt.Errorf("mp3: %w", err)
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return 0, 0, errors.New("mp3: invalid sample rate")
	}

	var total int64
	buf := make([]byte, 64*1024)
	for {
		n, err := decoder.Read(buf)
		total += int64(n)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, 0, fmt.Errorf("mp3: %w", err)
		}
	}
	return total / mp3BytesPerFrame, float64(sampleRate), nil
}
