// Package reader resolves one audio file into a tags.Track. It lists the
// raw tags through a source, drains them through the dialect chain of the
// file's extension and takes the first value each dialect offers.
package reader

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/juho05/log"

	"github.com/llehouerou/metaread/internal/decode"
	"github.com/llehouerou/metaread/internal/errmsg"
	"github.com/llehouerou/metaread/internal/lyrics"
	"github.com/llehouerou/metaread/internal/source"
	"github.com/llehouerou/metaread/internal/tags"
)

// Extensions whose probe duration is a bitrate estimate.
var rawExtensions = map[string]struct{}{
	"aac": {}, "adts": {}, "ac3": {}, "dts": {}, "mp2": {},
}

// Generic keys that duplicate essential attributes.
var genericIgnoredKeys = map[string]struct{}{
	"title": {}, "artist": {}, "duration": {}, "disc": {},
	"track": {}, "album": {}, "genre": {},
}

// Option configures a Reader.
type Option func(*Reader)

// WithFolderArt enables the cover image lookup next to the file when
// the tags carry no picture.
func WithFolderArt(enabled bool) Option {
	return func(r *Reader) { r.folderArt = enabled }
}

// WithSidecarLyrics reads lyrics from the .lrc file next to the audio
// file when the tags carry none.
func WithSidecarLyrics(enabled bool) Option {
	return func(r *Reader) { r.sidecarLyrics = enabled }
}

// Reader is safe for concurrent use; every resolution owns its context.
type Reader struct {
	src           source.Source
	dec           decode.Decoder
	folderArt     bool
	sidecarLyrics bool
}

// New creates a Reader reading tags from src and counting frames with dec.
func New(src source.Source, dec decode.Decoder, opts ...Option) *Reader {
	r := &Reader{src: src, dec: dec}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// resolution is the per-file state after every dialect drained the pool.
type resolution struct {
	tctx     *tags.Context
	chain    []tags.Parser
	relevant []tags.Parser
}

func (res *resolution) isRelevant(d tags.Dialect) bool {
	return slices.ContainsFunc(res.relevant, func(p tags.Parser) bool {
		return p.Dialect() == d
	})
}

// load lists the container and stream tags of path and maps them through
// the chain of its extension.
func (r *Reader) load(ctx context.Context, path string) (*resolution, error) {
	pool := tags.NewOrderedMap[tags.Value]()

	container, err := r.src.ListRawTags(ctx, path)
	if err != nil && !errors.Is(err, source.ErrNoTags) {
		return nil, &OpenError{Path: path, Err: err}
	}
	for _, t := range container {
		pool.Set(t.Key, t.Value)
	}

	// Stream tags override container tags without moving them.
	stream, err := r.src.BestAudioStreamTags(ctx, path)
	if err != nil && !errors.Is(err, source.ErrNoTags) {
		return nil, &OpenError{Path: path, Err: err}
	}
	for _, t := range stream {
		pool.Set(t.Key, t.Value)
	}

	res := &resolution{tctx: tags.NewContext(tags.FileType(path), pool)}
	for _, d := range ChainFor(path) {
		p, ok := tags.ParserFor(d)
		if !ok {
			continue
		}
		p.MapFields(res.tctx)
		res.chain = append(res.chain, p)
	}
	for _, p := range res.chain {
		if p.HasMetadata(res.tctx) {
			res.relevant = append(res.relevant, p)
		}
	}
	return res, nil
}

// ResolveEssential probes path and resolves every essential attribute.
// When the duration is missing and no tag supplies one, the record is
// marked for a full-decode pass (see NeedsBruteForce).
func (r *Reader) ResolveEssential(ctx context.Context, path string) (*tags.Track, error) {
	probe, err := r.src.Probe(ctx, path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	res, err := r.load(ctx, path)
	if err != nil {
		return nil, err
	}

	t := tags.NewTrack(path)
	if probe.FileType != "" {
		t.FileType = probe.FileType
	}
	t.AudioFormat = probe.AudioFormat
	t.HasAudioStream = probe.HasAudioStream
	t.HasVideo = probe.HasVideo

	ps, tctx := res.relevant, res.tctx

	t.Title = cleanUp(firstString(ps, tctx, tags.Parser.Title))
	t.Artist = cleanUp(firstString(ps, tctx, tags.Parser.Artist))
	t.AlbumArtist = cleanUp(firstString(ps, tctx, tags.Parser.AlbumArtist))
	t.Album = cleanUp(firstString(ps, tctx, tags.Parser.Album))
	t.Genre = cleanUp(firstString(ps, tctx, tags.Parser.Genre))
	t.Composer = cleanUp(firstString(ps, tctx, tags.Parser.Composer))
	t.Conductor = cleanUp(firstString(ps, tctx, tags.Parser.Conductor))
	t.Performer = cleanUp(firstString(ps, tctx, tags.Parser.Performer))
	t.Lyricist = cleanUp(firstString(ps, tctx, tags.Parser.Lyricist))
	t.Year, _ = first(ps, tctx, tags.Parser.Year)
	t.BPM, _ = first(ps, tctx, tags.Parser.BPM)

	t.TrackNumber, t.TotalTracks = splice(ps, tctx, tags.Parser.TrackNumber, tags.Parser.TotalTracks)
	t.DiscNumber, t.TotalDiscs = splice(ps, tctx, tags.Parser.DiscNumber, tags.Parser.TotalDiscs)

	if drm, _ := first(ps, tctx, tags.Parser.IsDRMProtected); drm != nil {
		t.IsDRMProtected = *drm
	}

	t.Art = r.resolveArt(ctx, path, ps, tctx)

	r.resolveDuration(t, probe, ps, tctx)
	return t, nil
}

func (r *Reader) resolveArt(ctx context.Context, path string, ps []tags.Parser, tctx *tags.Context) *tags.Art {
	art, err := r.src.AttachedPicture(ctx, path)
	if err != nil {
		log.Tracef("attached picture of %s: %v", path, err)
	}
	if art != nil {
		return art
	}
	if art, _ := first(ps, tctx, tags.Parser.Art); art != nil {
		return art
	}
	if r.folderArt {
		return source.FolderArt(path)
	}
	return nil
}

func (r *Reader) resolveDuration(t *tags.Track, probe source.Probe, ps []tags.Parser, tctx *tags.Context) {
	d := probe.Duration
	t.SetDuration(d, d > 0 && probe.DurationReliable)

	if d > 0 && !isRaw(t.Path, probe) {
		return
	}
	if fromTags, _ := first(ps, tctx, tags.Parser.Duration); fromTags != nil && *fromTags > 0 {
		t.SetDuration(*fromTags, false)
		return
	}
	t.MarkDurationPending()
}

func isRaw(path string, probe source.Probe) bool {
	if source.IsRawFormat(probe.FormatName) {
		return true
	}
	_, ok := rawExtensions[tags.FileType(path)]
	return ok
}

// ResolveSecondary re-reads the tags of t's file and fills the lyrics
// and the generic metadata.
func (r *Reader) ResolveSecondary(ctx context.Context, t *tags.Track) error {
	res, err := r.load(ctx, t.Path)
	if err != nil {
		return err
	}

	if t.Lyrics == nil {
		t.Lyrics = cleanUp(firstString(res.relevant, res.tctx, tags.Parser.Lyrics))
	}
	if t.Lyrics == nil && r.sidecarLyrics {
		text, err := lyrics.ReadSidecar(t.Path)
		if err != nil {
			log.Warnf("%s", errmsg.FormatWith(errmsg.OpTagsRead, lyrics.SidecarPath(t.Path), err))
		}
		t.Lyrics = cleanUp(&text)
	}

	if t.GenericMetadata == nil {
		t.GenericMetadata = tags.NewOrderedMap[string]()
	}
	for _, p := range res.relevant {
		bucket := res.tctx.Bucket(p.Dialect())
		for key, v := range bucket.Generic.All() {
			if _, ignored := genericIgnoredKeys[strings.ToLower(key)]; ignored {
				continue
			}
			if v.IsBinary() {
				continue
			}
			s := strings.TrimSpace(v.String())
			if s == "" {
				continue
			}
			t.GenericMetadata.Set(p.Label(key), s)
		}
	}
	return nil
}

// Resolve runs the essential and the secondary pass.
func (r *Reader) Resolve(ctx context.Context, path string) (*tags.Track, error) {
	t, err := r.ResolveEssential(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := r.ResolveSecondary(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ChainEntry is the state of one dialect after its MapFields ran.
type ChainEntry struct {
	Dialect   tags.Dialect
	Relevant  bool
	Essential *tags.OrderedMap[tags.Value]
	Generic   *tags.OrderedMap[tags.Value]
	// Labels maps each generic key to its display label.
	Labels map[string]string
}

// Chain maps the tags of path through its dialect chain and returns
// every bucket in chain order.
func (r *Reader) Chain(ctx context.Context, path string) ([]ChainEntry, error) {
	res, err := r.load(ctx, path)
	if err != nil {
		return nil, err
	}
	entries := make([]ChainEntry, 0, len(res.chain))
	for _, p := range res.chain {
		b := res.tctx.Bucket(p.Dialect())
		labels := make(map[string]string, b.Generic.Len())
		for _, k := range b.Generic.Keys() {
			labels[k] = p.Label(k)
		}
		entries = append(entries, ChainEntry{
			Dialect:   p.Dialect(),
			Relevant:  res.isRelevant(p.Dialect()),
			Essential: b.Essential,
			Generic:   b.Generic,
			Labels:    labels,
		})
	}
	return entries, nil
}

// first returns the first non-nil getter result and the index of the
// parser that produced it, or -1.
func first[T any](ps []tags.Parser, tctx *tags.Context, get func(tags.Parser, *tags.Context) *T) (*T, int) {
	for i, p := range ps {
		if v := get(p, tctx); v != nil {
			return v, i
		}
	}
	return nil, -1
}

func firstString(ps []tags.Parser, tctx *tags.Context, get func(tags.Parser, *tags.Context) *string) *string {
	s, _ := first(ps, tctx, get)
	return s
}

// splice resolves a number/total pair. The number comes from the first
// parser that has one; a parser offering only a total ("/12") does not
// stop the search. When the parser that produced the number has no total,
// the dedicated total getter of that parser and the later ones fills it
// in, then the bare total seen earlier.
func splice(
	ps []tags.Parser,
	tctx *tags.Context,
	getNumber func(tags.Parser, *tags.Context) *tags.Numbered,
	getTotal func(tags.Parser, *tags.Context) *int,
) (number, total *int) {
	var bareTotal *int
	for i, p := range ps {
		n := getNumber(p, tctx)
		if n == nil {
			continue
		}
		if n.Number == nil {
			if bareTotal == nil {
				bareTotal = n.Total
			}
			continue
		}
		total = n.Total
		if total == nil {
			total, _ = first(ps[i:], tctx, getTotal)
		}
		if total == nil {
			total = bareTotal
		}
		return n.Number, total
	}
	return nil, bareTotal
}

// cleanUp trims s; a blank value reads as absent.
func cleanUp(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
