package tags

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrack_DisplayHelpers(t *testing.T) {
	tests := []struct {
		name       string
		track      *Track
		wantNumber string
		wantName   string
	}{
		{
			name:       "full",
			track:      &Track{Path: "/m/a.mp3", Title: strPtr("Song"), Artist: strPtr("Band"), TrackNumber: intPtr(3), TotalTracks: intPtr(12)},
			wantNumber: "3 / 12",
			wantName:   "Band - Song",
		},
		{
			name:       "title only",
			track:      &Track{Path: "/m/a.mp3", Title: strPtr("Song"), TrackNumber: intPtr(3)},
			wantNumber: "3",
			wantName:   "Song",
		},
		{
			name:       "nothing tagged",
			track:      &Track{Path: "/m/01 - Intro.flac"},
			wantNumber: "",
			wantName:   "01 - Intro",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.track.DisplayedTrackNumber(); got != tt.wantNumber {
				t.Errorf("DisplayedTrackNumber() = %q, want %q", got, tt.wantNumber)
			}
			if got := tt.track.DefaultDisplayName(); got != tt.wantName {
				t.Errorf("DefaultDisplayName() = %q, want %q", got, tt.wantName)
			}
		})
	}
}

func TestTrack_DisplayedDiscNumber(t *testing.T) {
	tr := &Track{DiscNumber: intPtr(1), TotalDiscs: intPtr(2)}
	assert.Equal(t, "1 / 2", tr.DisplayedDiscNumber())
}

func TestNewTrack(t *testing.T) {
	a := NewTrack("/music/Song.FLAC")
	b := NewTrack("/music/Song.FLAC")

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "flac", a.FileType)
	assert.NotNil(t, a.GenericMetadata)
	assert.Zero(t, a.Duration())
	assert.False(t, a.DurationIsAccurate())
}

func TestTrack_SetDurationConcurrent(t *testing.T) {
	tr := NewTrack("/music/a.mp3")

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			_ = tr.Duration()
			_ = tr.DurationIsAccurate()
		})
	}
	tr.SetDuration(123.5, true)
	wg.Wait()

	assert.InDelta(t, 123.5, tr.Duration(), 1e-9)
	assert.True(t, tr.DurationIsAccurate())
}

func TestTrack_DurationPending(t *testing.T) {
	tr := NewTrack("/music/a.aac")
	assert.False(t, tr.DurationPending())

	tr.MarkDurationPending()
	tr.SetDuration(10, false)
	assert.True(t, tr.DurationPending(), "inaccurate update keeps the mark")

	tr.SetDuration(12.25, true)
	assert.False(t, tr.DurationPending())
}
