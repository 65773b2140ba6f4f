// Package source lists raw tags and container properties of audio files.
// Each implementation wraps one tag library; Composite picks one per file
// extension and falls back to TagLib.
package source

import (
	"context"
	"errors"
	"strings"

	"github.com/llehouerou/metaread/internal/tags"
)

var (
	// ErrNoTags is returned when a file carries no tag container at all.
	ErrNoTags = errors.New("no tags found")
	// ErrUnsupported is returned for containers a source cannot read.
	ErrUnsupported = errors.New("unsupported container")
)

// Probe describes the container of one file.
type Probe struct {
	// FormatName is the short container name, e.g. "mp3" or "flac".
	FormatName string
	// FileType is the descriptive container name.
	FileType string
	// AudioFormat is the codec of the best audio stream.
	AudioFormat string

	Duration         float64
	DurationReliable bool
	SampleRate       int
	Channels         int

	HasAudioStream bool
	HasVideo       bool
}

// Tag is one raw key/value pair as stored in the file.
type Tag struct {
	Key   string
	Value tags.Value
}

// Source reads tags and container properties.
type Source interface {
	Probe(ctx context.Context, path string) (Probe, error)
	// ListRawTags returns the container-level tags in file order.
	ListRawTags(ctx context.Context, path string) ([]Tag, error)
	// BestAudioStreamTags returns tags attached to the main audio stream.
	// Most containers have none.
	BestAudioStreamTags(ctx context.Context, path string) ([]Tag, error)
	// AttachedPicture returns the embedded cover, or nil if there is none.
	AttachedPicture(ctx context.Context, path string) (*tags.Art, error)
}

// textTag drops the NUL padding fixed-width fields carry.
func textTag(key, value string) Tag {
	return Tag{Key: key, Value: tags.TextValue(strings.TrimRight(value, "\x00"))}
}

func binaryTag(key string, data []byte) Tag {
	return Tag{Key: key, Value: tags.BinaryValue(data)}
}

func newArt(data []byte, mimeType string) *tags.Art {
	if len(data) == 0 {
		return nil
	}
	if mimeType == "" || mimeType == "-->" {
		mimeType = tags.DetectImageMIME(data)
	}
	return &tags.Art{Data: data, MIMEType: mimeType}
}
