package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/metaread/internal/lyrics"
	"github.com/llehouerou/metaread/internal/tags"
)

const defaultValueWidth = 80

// Options tunes the text output.
type Options struct {
	// Generic adds the generic metadata section.
	Generic bool
	// Lyrics adds the lyrics section.
	Lyrics bool
	// ValueWidth truncates single-line values; zero disables truncation.
	ValueWidth int
}

// Text renders tracks as aligned, styled label/value rows.
type Text struct {
	theme Theme
	st    styles
	opts  Options
}

// NewText creates a text renderer with the default theme.
func NewText(opts Options) *Text {
	theme := defaultTheme
	return &Text{theme: theme, st: theme.styles(), opts: opts}
}

// DefaultOptions returns the options used by the read command.
func DefaultOptions() Options {
	return Options{ValueWidth: defaultValueWidth}
}

type row struct {
	label string
	value string
	note  string
}

// Track renders one track.
func (r *Text) Track(t *tags.Track) string {
	var b strings.Builder
	b.WriteString(r.theme.Gradient(Sanitize(t.DefaultDisplayName())))
	b.WriteString("\n")
	r.writeRows(&b, r.essentialRows(t))

	if r.opts.Generic && t.GenericMetadata != nil && t.GenericMetadata.Len() > 0 {
		b.WriteString(r.st.Section.Render("Generic"))
		b.WriteString("\n")
		rows := make([]row, 0, t.GenericMetadata.Len())
		for k, v := range t.GenericMetadata.All() {
			rows = append(rows, row{label: Sanitize(k), value: v})
		}
		r.writeRows(&b, rows)
	}

	if r.opts.Lyrics && t.Lyrics != nil {
		b.WriteString(r.st.Section.Render("Lyrics"))
		b.WriteString("\n")
		r.writeLyrics(&b, lyrics.Parse(*t.Lyrics))
	}
	return b.String()
}

// writeLyrics prints synced lyrics with their timestamps.
func (r *Text) writeLyrics(b *strings.Builder, l *lyrics.Lyrics) {
	for _, line := range l.Lines {
		b.WriteString("  ")
		if l.IsSynced() {
			b.WriteString(r.st.Label.Render(runewidth.FillLeft(FormatDuration(line.Time.Seconds()), 5)))
			b.WriteString("  ")
		}
		b.WriteString(r.st.Value.Render(Sanitize(line.Text)))
		b.WriteString("\n")
	}
}

// WriteTracks renders the tracks separated by blank lines.
func (r *Text) WriteTracks(w io.Writer, ts []*tags.Track) error {
	for i, t := range ts {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, r.Track(t)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Text) essentialRows(t *tags.Track) []row {
	rows := []row{{label: "Path", value: t.Path}}
	add := func(label string, v *string) {
		if v != nil {
			rows = append(rows, row{label: label, value: *v})
		}
	}
	addInt := func(label string, v *int) {
		if v != nil {
			rows = append(rows, row{label: label, value: strconv.Itoa(*v)})
		}
	}

	add("Title", t.Title)
	add("Artist", t.Artist)
	add("Album artist", t.AlbumArtist)
	add("Album", t.Album)
	add("Genre", t.Genre)
	add("Composer", t.Composer)
	add("Conductor", t.Conductor)
	add("Performer", t.Performer)
	add("Lyricist", t.Lyricist)
	addInt("Year", t.Year)
	if s := t.DisplayedTrackNumber(); s != "" {
		rows = append(rows, row{label: "Track", value: s})
	}
	if s := t.DisplayedDiscNumber(); s != "" {
		rows = append(rows, row{label: "Disc", value: s})
	}
	addInt("BPM", t.BPM)

	rows = append(rows, durationRow(t))

	format := t.FileType
	if t.AudioFormat != "" {
		format += " (" + t.AudioFormat + ")"
	}
	rows = append(rows, row{label: "Format", value: format})
	if t.HasVideo {
		rows = append(rows, row{label: "Video", value: "yes"})
	}
	if t.IsDRMProtected {
		rows = append(rows, row{label: "DRM", value: "protected"})
	}
	if t.Art != nil {
		rows = append(rows, row{
			label: "Art",
			value: fmt.Sprintf("%s, %s", t.Art.MIMEType, humanSize(len(t.Art.Data))),
		})
	}
	return rows
}

func durationRow(t *tags.Track) row {
	d := t.Duration()
	switch {
	case t.DurationPending() && d <= 0:
		return row{label: "Duration", value: "unknown", note: "(pending)"}
	case t.DurationIsAccurate():
		return row{label: "Duration", value: FormatDuration(d)}
	}
	return row{label: "Duration", value: FormatDuration(d), note: "(estimated)"}
}

func (r *Text) writeRows(b *strings.Builder, rows []row) {
	width := 0
	for _, rw := range rows {
		width = max(width, runewidth.StringWidth(rw.label))
	}
	for _, rw := range rows {
		b.WriteString("  ")
		b.WriteString(r.st.Label.Render(Pad(rw.label, width)))
		b.WriteString("  ")
		b.WriteString(r.st.Value.Render(r.value(rw.value)))
		if rw.note != "" {
			b.WriteString(" ")
			b.WriteString(r.st.Note.Render(rw.note))
		}
		b.WriteString("\n")
	}
}

// value flattens multi-line values onto one row.
func (r *Text) value(s string) string {
	s = strings.Join(Lines(s), " / ")
	if r.opts.ValueWidth > 0 {
		return Truncate(s, r.opts.ValueWidth)
	}
	return s
}

// FormatDuration formats seconds as m:ss or h:mm:ss.
func FormatDuration(seconds float64) string {
	total := int(seconds + 0.5)
	if total < 0 {
		total = 0
	}
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// List renders one line per track: duration, then display name.
func (r *Text) List(ts []*tags.Track) string {
	durations := make([]string, len(ts))
	width := 0
	for i, t := range ts {
		durations[i] = FormatDuration(t.Duration())
		if !t.DurationIsAccurate() {
			durations[i] = "~" + durations[i]
		}
		width = max(width, runewidth.StringWidth(durations[i]))
	}

	var b strings.Builder
	for i, t := range ts {
		b.WriteString("  ")
		b.WriteString(r.st.Label.Render(runewidth.FillLeft(durations[i], width)))
		b.WriteString("  ")
		b.WriteString(r.st.Value.Render(r.value(t.DefaultDisplayName())))
		b.WriteString("\n")
	}
	return b.String()
}
