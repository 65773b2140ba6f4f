// Package decode counts the PCM frames of an audio file by decoding it
// completely. It backs the accurate-duration pass for files whose
// container does not record a reliable duration.
package decode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned for formats no decoder handles.
var ErrUnsupported = errors.New("unsupported audio format")

// Decoder counts decoded frames.
type Decoder interface {
	// FrameCount decodes path and returns the number of PCM frames per
	// channel together with the output sample rate.
	FrameCount(ctx context.Context, path string) (frames int64, sampleRate float64, err error)
}

// Native decodes with pure-Go and cgo codec libraries, picked by file
// extension.
type Native struct{}

func New() *Native { return &Native{} }

type countFunc func(ctx context.Context, r io.ReadSeekCloser) (int64, float64, error)

var counters = map[string]countFunc{
	".mp3":  countMP3,
	".flac": countFLAC,
	".wav":  countWAV,
	".ogg":  countOgg,
	".oga":  countOgg,
	".opus": countOgg,
	".m4a":  countM4A,
	".m4b":  countM4A,
	".m4r":  countM4A,
	".mp4":  countM4A,
	".alac": countM4A,
	".aac":  countADTS,
	".adts": countADTS,
}

// Supports reports whether path has a decodable extension.
func Supports(path string) bool {
	_, ok := counters[strings.ToLower(filepath.Ext(path))]
	return ok
}

func (d *Native) FrameCount(ctx context.Context, path string) (int64, float64, error) {
	count, ok := counters[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	frames, rate, err := count(ctx, &ctxReadSeeker{ctx: ctx, r: f})
	if err != nil {
		return 0, 0, err
	}
	if rate <= 0 {
		return 0, 0, errors.New("decode: invalid sample rate")
	}
	return frames, rate, nil
}

// ctxReadSeeker fails reads once ctx is done so that long decodes stop
// early.
type ctxReadSeeker struct {
	ctx context.Context
	r   io.ReadSeeker
}

func (c *ctxReadSeeker) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func (c *ctxReadSeeker) Seek(offset int64, whence int) (int64, error) {
	return c.r.Seek(offset, whence)
}

// Close is a no-op; FrameCount owns the file.
func (c *ctxReadSeeker) Close() error { return nil }

// SkipID3v2 positions r after an ID3v2 tag, or back at the start if
// there is none. It reports whether a tag was skipped.
func SkipID3v2(r io.ReadSeeker) (bool, error) {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return false, err
	}

	// ID3v2 size is a syncsafe integer in bytes 6-9.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return true, err
}
