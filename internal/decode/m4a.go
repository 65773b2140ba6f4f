package decode

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

// ALAC default frame size.
const alacFrameSize = 4096

var errUnknownM4ACodec = errors.New("m4a: unsupported codec")

// countM4A decodes each sample of the audio track with faad2 (AAC) or
// alac (ALAC).
func countM4A(ctx context.Context, r io.ReadSeekCloser) (int64, float64, error) {
	container, err := m4a.Open(r)
	if err != nil {
		return 0, 0, fmt.Errorf("m4a: %w", err)
	}

	channels := int(container.Channels())
	if channels <= 0 {
		return 0, 0, fmt.Errorf("m4a: invalid channel count %d", channels)
	}
	sampleRate := float64(container.SampleRate())

	var decodeSample func([]byte) (int, error)
	switch container.Codec() {
	case m4a.CodecAAC:
		decoder, err := faad2.NewDecoder(ctx)
		if err != nil {
			return 0, 0, fmt.Errorf("aac: %w", err)
		}
		defer decoder.Close(context.Background())
		if err := decoder.Init(ctx, container.CodecConfig()); err != nil {
			return 0, 0, fmt.Errorf("aac: %w", err)
		}
		decodeSample = func(data []byte) (int, error) {
			pcm, err := decoder.Decode(ctx, data)
			if err != nil {
				return 0, err
			}
			return len(pcm) / channels, nil
		}

	case m4a.CodecALAC:
		sampleSize := int(container.SampleSize())
		decoder, err := alac.NewWithConfig(alac.Config{
			SampleRate:  int(container.SampleRate()),
			SampleSize:  sampleSize,
			NumChannels: channels,
			FrameSize:   alacFrameSize,
		})
		if err != nil {
			return 0, 0, fmt.Errorf("alac: %w", err)
		}
		bytesPerFrame := sampleSize / 8 * channels
		if bytesPerFrame <= 0 {
			return 0, 0, fmt.Errorf("alac: invalid sample size %d", sampleSize)
		}
		decodeSample = func(data []byte) (int, error) {
			return len(decoder.Decode(data)) / bytesPerFrame, nil
		}

	case m4a.CodecUnknown:
		return 0, 0, errUnknownM4ACodec
	}
	if decodeSample == nil {
		return 0, 0, errUnknownM4ACodec
	}

	var total int64
	for i := range container.SampleCount() {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}
		data, err := container.ReadSample(i)
		if err != nil {
			return 0, 0, fmt.Errorf("m4a: read sample %d: %w", i, err)
		}
		n, err := decodeSample(data)
		if err != nil {
			return 0, 0, fmt.Errorf("m4a: decode sample %d: %w", i, err)
		}
		total += int64(n)
	}
	return total, sampleRate, nil
}
