package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"github.com/juho05/log"
	"github.com/llehouerou/go-mp3"

	"github.com/llehouerou/metaread/internal/decode"
	"github.com/llehouerou/metaread/internal/tags"
)

// ID3 reads MP3 files. ID3v2.3/2.4 frames are parsed with bogem/id3v2;
// ID3v2.2 tags, which bogem rejects, go through dhowden/tag. The ID3v1
// trailer is only consulted when no ID3v2 tag is present.
type ID3 struct{}

func NewID3() *ID3 { return &ID3{} }

func (s *ID3) ListRawTags(ctx context.Context, path string) ([]Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if errors.Is(err, id3v2.ErrUnsupportedVersion) {
		return s.listWithDhowden(path)
	}
	if err != nil {
		return nil, fmt.Errorf("open id3v2: %w", err)
	}
	defer id3tag.Close()

	if out := id3v2Tags(id3tag); len(out) > 0 {
		return out, nil
	}
	return readID3v1(path)
}

func (s *ID3) listWithDhowden(path string) ([]Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := readDhowden(f)
	if err != nil {
		return nil, err
	}
	return dhowdenTags(m), nil
}

func (s *ID3) BestAudioStreamTags(context.Context, string) ([]Tag, error) {
	return nil, nil
}

// AttachedPicture returns the front cover if present, else the first APIC.
func (s *ID3) AttachedPicture(ctx context.Context, path string) (*tags.Art, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"Attached picture"}})
	if errors.Is(err, id3v2.ErrUnsupportedVersion) {
		return dhowdenArt(path)
	}
	if err != nil {
		return nil, fmt.Errorf("open id3v2: %w", err)
	}
	defer id3tag.Close()

	var first *tags.Art
	for _, f := range id3tag.GetFrames(id3tag.CommonID("Attached picture")) {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok {
			continue
		}
		art := newArt(pic.Picture, pic.MimeType)
		if art == nil {
			continue
		}
		if pic.PictureType == id3v2.PTFrontCover {
			return art, nil
		}
		if first == nil {
			first = art
		}
	}
	return first, nil
}

// Probe reads the first MPEG frame with go-mp3. A stream go-mp3 cannot
// decode still probes, with an unknown duration.
func (s *ID3) Probe(ctx context.Context, path string) (Probe, error) {
	if err := ctx.Err(); err != nil {
		return Probe{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Probe{}, err
	}
	defer f.Close()

	p := Probe{
		FormatName:     "mp3",
		FileType:       "MP2/3 (MPEG audio layer 2/3)",
		AudioFormat:    "MP3 (MPEG audio layer 3)",
		HasAudioStream: true,
	}

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		// A tagged file keeps its record even when its stream is damaged;
		// anything else is not an MPEG audio file.
		if tagged, tagErr := hasID3(f); tagErr != nil || !tagged {
			return Probe{}, fmt.Errorf("%w: mp3: %w", ErrUnsupported, err)
		}
		log.Tracef("probe %s: mp3 decoder: %s", path, err)
		return p, nil
	}
	sampleRate := decoder.SampleRate()
	if sampleRate <= 0 {
		return p, nil
	}
	p.SampleRate = sampleRate
	p.Channels = 2

	// The frame count is derived from the bitrate, not from a full decode.
	sampleCount := max(decoder.SampleCount(), 0)
	p.Duration = float64(sampleCount) / float64(sampleRate)
	return p, nil
}

// hasID3 reports whether r starts with an ID3v2 tag or ends with an
// ID3v1 trailer.
func hasID3(r io.ReadSeeker) (bool, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return false, err
	}
	skipped, err := decode.SkipID3v2(r)
	if err != nil || skipped {
		return skipped, err
	}
	if _, err := r.Seek(-128, io.SeekEnd); err != nil {
		// Shorter than an ID3v1 trailer.
		return false, nil
	}
	magic := make([]byte, 3)
	if _, err := io.ReadFull(r, magic); err != nil {
		return false, err
	}
	return string(magic) == "TAG", nil
}

func id3v2Tags(id3tag *id3v2.Tag) []Tag {
	frames := id3tag.AllFrames()

	var out []Tag
	for _, id := range slices.Sorted(maps.Keys(frames)) {
		for _, f := range frames[id] {
			if t, ok := id3v2Frame(id, f); ok {
				out = append(out, t)
			}
		}
	}
	return out
}

func id3v2Frame(id string, f id3v2.Framer) (Tag, bool) {
	key := strings.ToLower(id)
	switch fr := f.(type) {
	case id3v2.TextFrame:
		return textTag(key, fr.Text), true
	case id3v2.UserDefinedTextFrame:
		return textTag(fr.Description, fr.Value), true
	case id3v2.CommentFrame:
		return textTag(key, fr.Text), true
	case id3v2.UnsynchronisedLyricsFrame:
		return textTag(key, fr.Lyrics), true
	case id3v2.PictureFrame:
		return binaryTag(key, fr.Picture), true
	case id3v2.UFIDFrame:
		return textTag(key, string(fr.Identifier)), true
	case id3v2.PopularimeterFrame:
		return textTag(key, strconv.Itoa(int(fr.Rating))), true
	case id3v2.UnknownFrame:
		return binaryTag(key, fr.Body), true
	}
	return Tag{}, false
}

// id3v1Keys lists the ID3v1 fields in trailer order.
var id3v1Keys = []string{"title", "artist", "album", "year", "comment", "track", "genre"}

func readID3v1(path string) ([]Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadID3v1Tags(f)
	if errors.Is(err, tag.ErrNotID3v1) || errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read id3v1: %w", err)
	}

	raw := m.Raw()
	var out []Tag
	for _, k := range id3v1Keys {
		t, ok := dhowdenTag(k, raw[k])
		if !ok || (t.Value.Text == "" && len(t.Value.Data) == 0) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func dhowdenArt(path string) (*tags.Art, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := readDhowden(f)
	if errors.Is(err, ErrNoTags) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	pic := m.Picture()
	if pic == nil {
		return nil, nil
	}
	return newArt(pic.Data, pic.MIMEType), nil
}
