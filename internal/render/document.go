package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/llehouerou/metaread/internal/lyrics"
	"github.com/llehouerou/metaread/internal/tags"
)

// Field is one generic metadata entry. Documents carry generic metadata
// as a list so that tag order survives both encoders.
type Field struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// ArtInfo describes embedded art without its bytes.
type ArtInfo struct {
	MIMEType  string `json:"mime_type" yaml:"mime_type"`
	Size      int    `json:"size" yaml:"size"`
	HumanSize string `json:"human_size" yaml:"human_size"`
}

// SyncedLine is one timestamped lyric line; Time is in seconds.
type SyncedLine struct {
	Time float64 `json:"time" yaml:"time"`
	Text string  `json:"text" yaml:"text"`
}

// Document is the serializable form of a track.
type Document struct {
	Path        string `json:"path" yaml:"path"`
	FileType    string `json:"file_type" yaml:"file_type"`
	AudioFormat string `json:"audio_format,omitempty" yaml:"audio_format,omitempty"`

	Title       *string `json:"title,omitempty" yaml:"title,omitempty"`
	Artist      *string `json:"artist,omitempty" yaml:"artist,omitempty"`
	AlbumArtist *string `json:"album_artist,omitempty" yaml:"album_artist,omitempty"`
	Album       *string `json:"album,omitempty" yaml:"album,omitempty"`
	Genre       *string `json:"genre,omitempty" yaml:"genre,omitempty"`
	Composer    *string `json:"composer,omitempty" yaml:"composer,omitempty"`
	Conductor   *string `json:"conductor,omitempty" yaml:"conductor,omitempty"`
	Performer   *string `json:"performer,omitempty" yaml:"performer,omitempty"`
	Lyricist    *string `json:"lyricist,omitempty" yaml:"lyricist,omitempty"`

	Year        *int `json:"year,omitempty" yaml:"year,omitempty"`
	TrackNumber *int `json:"track_number,omitempty" yaml:"track_number,omitempty"`
	TotalTracks *int `json:"total_tracks,omitempty" yaml:"total_tracks,omitempty"`
	DiscNumber  *int `json:"disc_number,omitempty" yaml:"disc_number,omitempty"`
	TotalDiscs  *int `json:"total_discs,omitempty" yaml:"total_discs,omitempty"`
	BPM         *int `json:"bpm,omitempty" yaml:"bpm,omitempty"`

	Duration         float64 `json:"duration" yaml:"duration"`
	DurationAccurate bool    `json:"duration_accurate" yaml:"duration_accurate"`

	IsDRMProtected bool `json:"drm_protected" yaml:"drm_protected"`
	HasAudioStream bool `json:"has_audio_stream" yaml:"has_audio_stream"`
	HasVideo       bool `json:"has_video" yaml:"has_video"`

	Art          *ArtInfo     `json:"art,omitempty" yaml:"art,omitempty"`
	Lyrics       *string      `json:"lyrics,omitempty" yaml:"lyrics,omitempty"`
	SyncedLyrics []SyncedLine `json:"synced_lyrics,omitempty" yaml:"synced_lyrics,omitempty"`

	Generic []Field `json:"generic,omitempty" yaml:"generic,omitempty"`
}

// NewDocument snapshots t.
func NewDocument(t *tags.Track) Document {
	doc := Document{
		Path:        t.Path,
		FileType:    t.FileType,
		AudioFormat: t.AudioFormat,

		Title:       t.Title,
		Artist:      t.Artist,
		AlbumArtist: t.AlbumArtist,
		Album:       t.Album,
		Genre:       t.Genre,
		Composer:    t.Composer,
		Conductor:   t.Conductor,
		Performer:   t.Performer,
		Lyricist:    t.Lyricist,

		Year:        t.Year,
		TrackNumber: t.TrackNumber,
		TotalTracks: t.TotalTracks,
		DiscNumber:  t.DiscNumber,
		TotalDiscs:  t.TotalDiscs,
		BPM:         t.BPM,

		Duration:         t.Duration(),
		DurationAccurate: t.DurationIsAccurate(),

		IsDRMProtected: t.IsDRMProtected,
		HasAudioStream: t.HasAudioStream,
		HasVideo:       t.HasVideo,

		Lyrics: t.Lyrics,
	}
	if t.Art != nil {
		doc.Art = &ArtInfo{
			MIMEType:  t.Art.MIMEType,
			Size:      len(t.Art.Data),
			HumanSize: humanSize(len(t.Art.Data)),
		}
	}
	if t.Lyrics != nil {
		if l := lyrics.Parse(*t.Lyrics); l.IsSynced() {
			for _, line := range l.Lines {
				doc.SyncedLyrics = append(doc.SyncedLyrics, SyncedLine{Time: line.Time.Seconds(), Text: line.Text})
			}
		}
	}
	if t.GenericMetadata != nil {
		for k, v := range t.GenericMetadata.All() {
			doc.Generic = append(doc.Generic, Field{Key: k, Value: v})
		}
	}
	return doc
}

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
}

// WriteJSON writes the tracks as an indented JSON array.
func WriteJSON(w io.Writer, ts []*tags.Track) error {
	docs := documents(ts)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}

// WriteYAML writes the tracks as a YAML sequence.
func WriteYAML(w io.Writer, ts []*tags.Track) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(documents(ts)); err != nil {
		return err
	}
	return enc.Close()
}

func documents(ts []*tags.Track) []Document {
	docs := make([]Document, 0, len(ts))
	for _, t := range ts {
		docs = append(docs, NewDocument(t))
	}
	return docs
}

func humanSize(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Replace(humanize.IBytes(uint64(n)), "iB", "B", 1)
}
