package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/llehouerou/metaread/internal/tags"
)

const genericPrefix = "generic."

// segment is either a literal string or a placeholder.
type segment struct {
	isPlaceholder bool
	value         string // placeholder name (without braces) or literal text
	pad           int    // zero-padding width of numeric placeholders
}

// Template formats one line per track. Placeholders are {name}, {name:N}
// zero-pads numbers to N digits, {generic.Label} reads a generic
// metadata entry and {{ and }} are literal braces.
type Template struct {
	segments []segment
}

var placeholders = map[string]func(t *tags.Track) string{
	"title":       func(t *tags.Track) string { return str(t.Title) },
	"artist":      func(t *tags.Track) string { return str(t.Artist) },
	"albumartist": func(t *tags.Track) string { return str(t.AlbumArtist) },
	"album":       func(t *tags.Track) string { return str(t.Album) },
	"genre":       func(t *tags.Track) string { return str(t.Genre) },
	"composer":    func(t *tags.Track) string { return str(t.Composer) },
	"conductor":   func(t *tags.Track) string { return str(t.Conductor) },
	"performer":   func(t *tags.Track) string { return str(t.Performer) },
	"lyricist":    func(t *tags.Track) string { return str(t.Lyricist) },
	"year":        func(t *tags.Track) string { return num(t.Year) },
	"track":       func(t *tags.Track) string { return num(t.TrackNumber) },
	"tracks":      func(t *tags.Track) string { return num(t.TotalTracks) },
	"disc":        func(t *tags.Track) string { return num(t.DiscNumber) },
	"discs":       func(t *tags.Track) string { return num(t.TotalDiscs) },
	"bpm":         func(t *tags.Track) string { return num(t.BPM) },
	"duration":    func(t *tags.Track) string { return FormatDuration(t.Duration()) },
	"seconds":     func(t *tags.Track) string { return strconv.FormatFloat(t.Duration(), 'f', 3, 64) },
	"path":        func(t *tags.Track) string { return t.Path },
	"filename":    func(t *tags.Track) string { return filepath.Base(t.Path) },
	"filetype":    func(t *tags.Track) string { return t.FileType },
	"format":      func(t *tags.Track) string { return t.AudioFormat },
	"name":        func(t *tags.Track) string { return t.DefaultDisplayName() },
}

// ParseTemplate compiles a template. It fails on unknown placeholders
// and unclosed braces.
func ParseTemplate(template string) (*Template, error) {
	var segments []segment
	var current []rune
	inPlaceholder := false

	runes := []rune(template)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if !inPlaceholder && i+1 < len(runes) && (r == '{' || r == '}') && runes[i+1] == r {
			current = append(current, r)
			i++
			continue
		}

		switch {
		case r == '{' && !inPlaceholder:
			if len(current) > 0 {
				segments = append(segments, segment{value: string(current)})
				current = nil
			}
			inPlaceholder = true
		case r == '}' && inPlaceholder:
			seg, err := parsePlaceholder(string(current))
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
			current = nil
			inPlaceholder = false
		default:
			current = append(current, r)
		}
	}

	if inPlaceholder {
		return nil, fmt.Errorf("template: unclosed placeholder {%s", string(current))
	}
	if len(current) > 0 {
		segments = append(segments, segment{value: string(current)})
	}
	return &Template{segments: segments}, nil
}

func parsePlaceholder(s string) (segment, error) {
	seg := segment{isPlaceholder: true, value: strings.TrimSpace(s)}
	if strings.HasPrefix(seg.value, genericPrefix) {
		return seg, nil
	}
	if name, width, ok := strings.Cut(seg.value, ":"); ok {
		pad, err := strconv.Atoi(width)
		if err != nil || pad < 0 {
			return segment{}, fmt.Errorf("template: invalid width in {%s}", s)
		}
		seg.value, seg.pad = name, pad
	}
	seg.value = strings.ToLower(seg.value)
	if _, ok := placeholders[seg.value]; !ok {
		return segment{}, fmt.Errorf("template: unknown placeholder {%s}", s)
	}
	return seg, nil
}

// Execute formats t. Missing values expand to nothing.
func (tpl *Template) Execute(t *tags.Track) string {
	var b strings.Builder
	for _, seg := range tpl.segments {
		if !seg.isPlaceholder {
			b.WriteString(seg.value)
			continue
		}
		b.WriteString(Sanitize(expand(seg, t)))
	}
	return b.String()
}

// WriteTracks writes one formatted line per track.
func (tpl *Template) WriteTracks(w io.Writer, ts []*tags.Track) error {
	for _, t := range ts {
		if _, err := fmt.Fprintln(w, tpl.Execute(t)); err != nil {
			return err
		}
	}
	return nil
}

func expand(seg segment, t *tags.Track) string {
	if label, ok := strings.CutPrefix(seg.value, genericPrefix); ok {
		if t.GenericMetadata == nil {
			return ""
		}
		v, _ := t.GenericMetadata.Get(label)
		return v
	}
	v := placeholders[seg.value](t)
	if seg.pad > 0 && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%0*d", seg.pad, n)
		}
	}
	return v
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
