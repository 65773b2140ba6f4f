package source

import (
	"context"
	"errors"

	"github.com/juho05/log"

	"github.com/llehouerou/metaread/internal/tags"
)

// Composite dispatches to a native source by file extension. Anything the
// native source cannot read falls back to FFprobe when configured, then
// to TagLib.
type Composite struct {
	id3     Source
	flac    Source
	generic Source
	taglib  Source
	ffprobe Source
}

// CompositeOption configures a Composite.
type CompositeOption func(*Composite)

// WithFFprobe routes non-native containers through ffprobe.
func WithFFprobe(s Source) CompositeOption {
	return func(c *Composite) {
		c.ffprobe = s
	}
}

// WithTagLib replaces the TagLib fallback.
func WithTagLib(s Source) CompositeOption {
	return func(c *Composite) {
		c.taglib = s
	}
}

func NewComposite(opts ...CompositeOption) *Composite {
	c := &Composite{
		id3:     NewID3(),
		flac:    NewFLAC(),
		generic: NewGeneric(),
		taglib:  NewTagLib(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// primary returns the source for path and the fallback used when it fails.
func (c *Composite) primary(path string) (Source, Source) {
	fallback := c.taglib
	switch "." + tags.FileType(path) {
	case tags.ExtMP3:
		return c.id3, fallback
	case tags.ExtFLAC:
		return c.flac, fallback
	case tags.ExtM4A, tags.ExtM4B, tags.ExtM4R, tags.ExtMP4, tags.ExtALAC,
		tags.ExtOGG, tags.ExtOGA, tags.ExtOPUS, tags.ExtSPX:
		return c.generic, fallback
	}
	if c.ffprobe != nil {
		return c.ffprobe, fallback
	}
	return c.taglib, nil
}

func (c *Composite) ListRawTags(ctx context.Context, path string) ([]Tag, error) {
	primary, fallback := c.primary(path)
	out, err := primary.ListRawTags(ctx, path)
	if err == nil || errors.Is(err, ErrNoTags) || fallback == nil || ctx.Err() != nil {
		return out, err
	}
	log.Tracef("list tags %s: %s, trying taglib", path, err)
	return fallback.ListRawTags(ctx, path)
}

func (c *Composite) BestAudioStreamTags(ctx context.Context, path string) ([]Tag, error) {
	primary, _ := c.primary(path)
	return primary.BestAudioStreamTags(ctx, path)
}

func (c *Composite) AttachedPicture(ctx context.Context, path string) (*tags.Art, error) {
	primary, fallback := c.primary(path)
	art, err := primary.AttachedPicture(ctx, path)
	if err == nil || fallback == nil || ctx.Err() != nil {
		return art, err
	}
	log.Tracef("read picture %s: %s, trying taglib", path, err)
	return fallback.AttachedPicture(ctx, path)
}

// Probe asks the fallback as well when the primary source fails or cannot
// tell the duration.
func (c *Composite) Probe(ctx context.Context, path string) (Probe, error) {
	primary, fallback := c.primary(path)
	p, err := primary.Probe(ctx, path)
	if fallback == nil || ctx.Err() != nil || (err == nil && p.Duration > 0) {
		return p, err
	}

	fb, fbErr := fallback.Probe(ctx, path)
	if err != nil {
		// The fallback only vouches for the file when it found audio.
		if fbErr != nil || (!fb.HasAudioStream && fb.Duration <= 0) {
			return Probe{}, err
		}
		return fb, nil
	}
	if fbErr == nil && fb.Duration > 0 {
		p.Duration = fb.Duration
		p.DurationReliable = fb.DurationReliable
	}
	return p, nil
}
