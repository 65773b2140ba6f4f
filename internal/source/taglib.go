package source

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.senan.xyz/taglib"

	"github.com/llehouerou/metaread/internal/tags"
)

// TagLib reads any format TagLib supports. Keys are TagLib property
// names such as TITLE or TRACKNUMBER; multi-valued properties are joined.
type TagLib struct{}

func NewTagLib() *TagLib { return &TagLib{} }

func (s *TagLib) ListRawTags(ctx context.Context, path string) ([]Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rawTags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, fmt.Errorf("taglib read tags: %w", err)
	}
	if len(rawTags) == 0 {
		return nil, ErrNoTags
	}

	out := make([]Tag, 0, len(rawTags))
	for _, k := range slices.Sorted(maps.Keys(rawTags)) {
		values := rawTags[k]
		if len(values) == 0 {
			continue
		}
		out = append(out, textTag(k, strings.Join(values, "; ")))
	}
	return out, nil
}

func (s *TagLib) BestAudioStreamTags(context.Context, string) ([]Tag, error) {
	return nil, nil
}

func (s *TagLib) AttachedPicture(ctx context.Context, path string) (*tags.Art, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := taglib.ReadImage(path)
	if err != nil {
		return nil, fmt.Errorf("taglib read image: %w", err)
	}
	return newArt(data, ""), nil
}

func (s *TagLib) Probe(ctx context.Context, path string) (Probe, error) {
	if err := ctx.Err(); err != nil {
		return Probe{}, err
	}

	props, err := taglib.ReadProperties(path)
	if err != nil {
		return Probe{}, fmt.Errorf("taglib read properties: %w", err)
	}

	fileType := tags.FileType(path)
	p := Probe{
		FormatName:     fileType,
		FileType:       strings.ToUpper(fileType),
		SampleRate:     int(props.SampleRate),
		Channels:       int(props.Channels),
		HasAudioStream: props.Channels > 0 || props.SampleRate > 0,
	}
	if d := props.Length.Seconds(); d > 0 {
		p.Duration = d
		p.DurationReliable = true
	}
	return p, nil
}
