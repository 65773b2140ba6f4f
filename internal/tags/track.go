package tags

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Track is the canonical metadata record of one audio file. Scalar fields
// are nil when the file does not carry them. The duration fields may be
// updated after the record is handed out, so they are only reachable
// through the accessor methods.
type Track struct {
	ID   uuid.UUID
	Path string

	Title       *string
	Artist      *string
	AlbumArtist *string
	Album       *string
	Genre       *string
	Composer    *string
	Conductor   *string
	Performer   *string
	Lyricist    *string
	Lyrics      *string

	Year        *int
	TrackNumber *int
	TotalTracks *int
	DiscNumber  *int
	TotalDiscs  *int
	BPM         *int

	IsDRMProtected bool
	Art            *Art

	FileType       string
	AudioFormat    string
	HasAudioStream bool
	HasVideo       bool

	GenericMetadata *OrderedMap[string]

	mu                 sync.RWMutex
	duration           float64
	durationIsAccurate bool
	durationPending    bool
}

// NewTrack creates an empty record for path with a fresh ID.
func NewTrack(path string) *Track {
	return &Track{
		ID:              uuid.New(),
		Path:            path,
		FileType:        FileType(path),
		GenericMetadata: NewOrderedMap[string](),
	}
}

// Duration returns the duration in seconds.
func (t *Track) Duration() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.duration
}

// DurationIsAccurate reports whether the duration comes from a reliable
// container header or a full decode.
func (t *Track) DurationIsAccurate() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.durationIsAccurate
}

// SetDuration updates the duration and its accuracy flag. An accurate
// duration clears the pending mark.
func (t *Track) SetDuration(seconds float64, accurate bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.duration = seconds
	t.durationIsAccurate = accurate
	if accurate {
		t.durationPending = false
	}
}

// MarkDurationPending flags the record for a full-decode duration pass.
func (t *Track) MarkDurationPending() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.durationPending = true
}

// DurationPending reports whether the duration still has to be computed
// by decoding the file.
func (t *Track) DurationPending() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.durationPending
}

// DisplayedTrackNumber formats the track position as "n / total" or "n".
func (t *Track) DisplayedTrackNumber() string {
	return displayedNumber(t.TrackNumber, t.TotalTracks)
}

// DisplayedDiscNumber formats the disc position as "n / total" or "n".
func (t *Track) DisplayedDiscNumber() string {
	return displayedNumber(t.DiscNumber, t.TotalDiscs)
}

func displayedNumber(n, total *int) string {
	switch {
	case n != nil && total != nil:
		return fmt.Sprintf("%d / %d", *n, *total)
	case n != nil:
		return fmt.Sprintf("%d", *n)
	}
	return ""
}

// ArtistTitle returns "artist - title", or whichever one is set.
func (t *Track) ArtistTitle() string {
	switch {
	case t.Artist != nil && t.Title != nil:
		return *t.Artist + " - " + *t.Title
	case t.Title != nil:
		return *t.Title
	case t.Artist != nil:
		return *t.Artist
	}
	return ""
}

// DefaultDisplayName returns ArtistTitle, falling back to the file name
// without extension.
func (t *Track) DefaultDisplayName() string {
	if s := t.ArtistTitle(); s != "" {
		return s
	}
	base := filepath.Base(t.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
