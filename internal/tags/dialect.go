package tags

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Dialect identifies a tagging namespace.
type Dialect string

// Supported dialects.
const (
	DialectCommon  Dialect = "common"
	DialectID3     Dialect = "id3"
	DialectITunes  Dialect = "itunes"
	DialectVorbis  Dialect = "vorbis"
	DialectAPE     Dialect = "ape"
	DialectWM      Dialect = "wm"
	DialectDefault Dialect = "default"
)

// FieldMap is the static key table of one dialect. Keys are in normalized
// form.
type FieldMap struct {
	Essential map[string]struct{}
	Generic   map[string]string
	Ignored   map[string]struct{}
}

func (f *FieldMap) isEssential(key string) bool {
	_, ok := f.Essential[key]
	return ok
}

func (f *FieldMap) isGeneric(key string) bool {
	_, ok := f.Generic[key]
	return ok
}

func (f *FieldMap) isIgnored(key string) bool {
	_, ok := f.Ignored[key]
	return ok
}

// Label returns the display label for a generic key.
func (f *FieldMap) Label(key string) string {
	if label, ok := f.Generic[NormalizeKey(key)]; ok {
		return label
	}
	return capitalizeFirst(strings.TrimSpace(key))
}

// Bucket holds the keys one dialect claimed from the raw pool.
type Bucket struct {
	Essential *OrderedMap[Value]
	Generic   *OrderedMap[Value]
}

// Context is the working state of one file's resolution. It is owned by a
// single resolution and must not be shared between goroutines.
type Context struct {
	FileType string
	Raw      *OrderedMap[Value]

	buckets map[Dialect]*Bucket
}

// NewContext wraps a raw tag pool. The pool is drained by MapFields.
func NewContext(fileType string, raw *OrderedMap[Value]) *Context {
	if raw == nil {
		raw = NewOrderedMap[Value]()
	}
	return &Context{
		FileType: strings.TrimPrefix(strings.ToLower(fileType), "."),
		Raw:      raw,
		buckets:  make(map[Dialect]*Bucket),
	}
}

// Bucket returns the bucket of dialect d, creating it on first use.
func (c *Context) Bucket(d Dialect) *Bucket {
	b, ok := c.buckets[d]
	if !ok {
		b = &Bucket{
			Essential: NewOrderedMap[Value](),
			Generic:   NewOrderedMap[Value](),
		}
		c.buckets[d] = b
	}
	return b
}

// Parser reads canonical attributes out of one dialect's bucket. Getters
// never fail: missing or malformed values read as nil.
type Parser interface {
	Dialect() Dialect
	MapFields(ctx *Context)
	HasMetadata(ctx *Context) bool
	Label(key string) string

	Title(ctx *Context) *string
	Artist(ctx *Context) *string
	AlbumArtist(ctx *Context) *string
	Album(ctx *Context) *string
	Composer(ctx *Context) *string
	Conductor(ctx *Context) *string
	Performer(ctx *Context) *string
	Lyricist(ctx *Context) *string
	Genre(ctx *Context) *string
	Lyrics(ctx *Context) *string
	Year(ctx *Context) *int
	BPM(ctx *Context) *int
	DiscNumber(ctx *Context) *Numbered
	TrackNumber(ctx *Context) *Numbered
	TotalDiscs(ctx *Context) *int
	TotalTracks(ctx *Context) *int
	Art(ctx *Context) *Art
	Duration(ctx *Context) *float64
	IsDRMProtected(ctx *Context) *bool
}

// baseParser supplies the nil default for every getter.
type baseParser struct{}

func (baseParser) Title(*Context) *string         { return nil }
func (baseParser) Artist(*Context) *string        { return nil }
func (baseParser) AlbumArtist(*Context) *string   { return nil }
func (baseParser) Album(*Context) *string         { return nil }
func (baseParser) Composer(*Context) *string      { return nil }
func (baseParser) Conductor(*Context) *string     { return nil }
func (baseParser) Performer(*Context) *string     { return nil }
func (baseParser) Lyricist(*Context) *string      { return nil }
func (baseParser) Genre(*Context) *string         { return nil }
func (baseParser) Lyrics(*Context) *string        { return nil }
func (baseParser) Year(*Context) *int             { return nil }
func (baseParser) BPM(*Context) *int              { return nil }
func (baseParser) DiscNumber(*Context) *Numbered  { return nil }
func (baseParser) TrackNumber(*Context) *Numbered { return nil }
func (baseParser) TotalDiscs(*Context) *int       { return nil }
func (baseParser) TotalTracks(*Context) *int      { return nil }
func (baseParser) Art(*Context) *Art              { return nil }
func (baseParser) Duration(*Context) *float64     { return nil }
func (baseParser) IsDRMProtected(*Context) *bool  { return nil }

// fieldParser implements the FieldMap-driven part of a Parser. Dialects
// embed it and override the getters they define.
type fieldParser struct {
	baseParser
	dialect Dialect
	fields  *FieldMap
}

func (p fieldParser) Dialect() Dialect { return p.dialect }

// MapFields moves every key the dialect recognizes out of the raw pool.
// Ignored keys are dropped; unknown keys stay for later dialects.
func (p fieldParser) MapFields(ctx *Context) {
	b := ctx.Bucket(p.dialect)
	for raw, v := range ctx.Raw.All() {
		key := NormalizeKey(raw)
		switch {
		case p.fields.isIgnored(key):
			ctx.Raw.Delete(raw)
		case p.fields.isEssential(key):
			b.Essential.Set(key, v)
			ctx.Raw.Delete(raw)
		case p.fields.isGeneric(key):
			b.Generic.Set(key, v)
			ctx.Raw.Delete(raw)
		}
	}
}

func (p fieldParser) HasMetadata(ctx *Context) bool {
	return ctx.Bucket(p.dialect).Essential.Len() > 0
}

func (p fieldParser) Label(key string) string { return p.fields.Label(key) }

// value returns the first present key of the essential bucket.
func (p fieldParser) value(ctx *Context, keys ...string) (Value, bool) {
	essential := ctx.Bucket(p.dialect).Essential
	for _, k := range keys {
		if v, ok := essential.Get(k); ok {
			return v, true
		}
	}
	return Value{}, false
}

func (p fieldParser) str(ctx *Context, keys ...string) *string {
	v, ok := p.value(ctx, keys...)
	if !ok {
		return nil
	}
	s := v.String()
	return &s
}

func (p fieldParser) year(ctx *Context, keys ...string) *int {
	v, ok := p.value(ctx, keys...)
	if !ok {
		return nil
	}
	return ParseYearNow(v.String())
}

func (p fieldParser) number(ctx *Context, keys ...string) *Numbered {
	v, ok := p.value(ctx, keys...)
	if !ok {
		return nil
	}
	return ParseDiscOrTrackNumberValue(v)
}

func (p fieldParser) total(ctx *Context, keys ...string) *int {
	v, ok := p.value(ctx, keys...)
	if !ok {
		return nil
	}
	return ParseTotal(v.String())
}

func (p fieldParser) bpm(ctx *Context, keys ...string) *int {
	v, ok := p.value(ctx, keys...)
	if !ok {
		return nil
	}
	return ParseBPMValue(v)
}

func (p fieldParser) duration(ctx *Context, keys ...string) *float64 {
	v, ok := p.value(ctx, keys...)
	if !ok {
		return nil
	}
	return ParseDuration(v.String())
}

func (p fieldParser) art(ctx *Context, keys ...string) *Art {
	v, ok := p.value(ctx, keys...)
	if !ok || len(v.Data) == 0 {
		return nil
	}
	return &Art{Data: v.Data, MIMEType: DetectImageMIME(v.Data)}
}

func keySet(keys ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

var parsers = map[Dialect]Parser{
	DialectCommon:  newCommonParser(),
	DialectID3:     newID3Parser(),
	DialectITunes:  newITunesParser(),
	DialectVorbis:  newVorbisParser(),
	DialectAPE:     newAPEParser(),
	DialectWM:      newWMParser(),
	DialectDefault: defaultParser{},
}

// ParserFor returns the parser for dialect d. Parsers are stateless and
// safe for concurrent use; all per-file state lives in the Context.
func ParserFor(d Dialect) (Parser, bool) {
	p, ok := parsers[d]
	return p, ok
}
