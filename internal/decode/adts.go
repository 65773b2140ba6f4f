package decode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// Every raw data block of an ADTS frame carries 1024 PCM frames.
const adtsSamplesPerBlock = 1024

var errNoADTSFrames = errors.New("adts: no frames found")

// adtsSampleRates is indexed by the 4-bit sampling frequency index.
var adtsSampleRates = [...]int{
	96000, 88200, 64000, 48000, 44100, 32000,
	24000, 22050, 16000, 12000, 11025, 8000, 7350,
}

type adtsHeader struct {
	sampleRate  int
	frameLength int
	blocks      int
}

// parseADTSHeader decodes the fixed and variable header fields. b holds at
// least 7 bytes starting at the 0xFFF syncword.
func parseADTSHeader(b []byte) (adtsHeader, bool) {
	if b[0] != 0xFF || b[1]&0xF6 != 0xF0 {
		return adtsHeader{}, false
	}
	rateIndex := int(b[2]>>2) & 0x0F
	if rateIndex >= len(adtsSampleRates) {
		return adtsHeader{}, false
	}
	h := adtsHeader{
		sampleRate:  adtsSampleRates[rateIndex],
		frameLength: int(b[3]&0x03)<<11 | int(b[4])<<3 | int(b[5])>>5,
		blocks:      int(b[6]&0x03) + 1,
	}
	if h.frameLength < 7 {
		return adtsHeader{}, false
	}
	return h, true
}

// countADTS walks the ADTS frame headers of a raw AAC stream. Each frame
// header records its length and block count, so no audio is decoded.
// Garbage between frames is skipped byte by byte.
func countADTS(ctx context.Context, r io.ReadSeekCloser) (int64, float64, error) {
	if _, err := SkipID3v2(r); err != nil {
		return 0, 0, fmt.Errorf("adts: %w", err)
	}
	br := bufio.NewReader(r)

	var (
		total int64
		rate  int
	)
	for {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}
		b, err := br.Peek(7)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, 0, fmt.Errorf("adts: %w", err)
		}
		h, ok := parseADTSHeader(b)
		if !ok {
			if _, err := br.Discard(1); err != nil {
				return 0, 0, fmt.Errorf("adts: %w", err)
			}
			continue
		}
		if rate == 0 {
			rate = h.sampleRate
		}
		// A truncated last frame still counts; its header was complete.
		total += int64(h.blocks * adtsSamplesPerBlock)
		if _, err := br.Discard(h.frameLength); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, 0, fmt.Errorf("adts: %w", err)
		}
	}

	if total == 0 {
		return 0, 0, errNoADTSFrames
	}
	return total, float64(rate), nil
}
