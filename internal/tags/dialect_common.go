package tags

// Container-level tag names shared by most formats.
const (
	commonTitle       = "title"
	commonArtist      = "artist"
	commonAlbumArtist = "album_artist"
	commonAlbum       = "album"
	commonComposer    = "composer"
	commonPerformer   = "performer"
	commonGenre       = "genre"
	commonDisc        = "disc"
	commonTrack       = "track"
	commonDate        = "date"
	commonLyrics      = "lyrics"
	commonDuration    = "duration"
)

var commonFields = FieldMap{
	Essential: keySet(commonTitle, commonArtist, commonAlbumArtist, commonAlbum,
		commonComposer, commonPerformer, commonGenre, commonDisc, commonTrack,
		commonDate, commonLyrics, commonDuration),
	Generic: map[string]string{
		"publisher":   "Publisher",
		"copyright":   "Copyright",
		"encoded_by":  "Encoded By",
		"encoder":     "Encoder",
		"language":    "Language",
		"comment":     "Comment",
		"compilation": "Part of a Compilation?",
	},
}

type commonParser struct{ fieldParser }

func newCommonParser() commonParser {
	return commonParser{fieldParser{dialect: DialectCommon, fields: &commonFields}}
}

func (p commonParser) Title(ctx *Context) *string { return p.str(ctx, commonTitle) }

func (p commonParser) Artist(ctx *Context) *string {
	return p.str(ctx, commonArtist, commonAlbumArtist)
}

func (p commonParser) AlbumArtist(ctx *Context) *string { return p.str(ctx, commonAlbumArtist) }
func (p commonParser) Album(ctx *Context) *string       { return p.str(ctx, commonAlbum) }
func (p commonParser) Composer(ctx *Context) *string    { return p.str(ctx, commonComposer) }
func (p commonParser) Performer(ctx *Context) *string   { return p.str(ctx, commonPerformer) }
func (p commonParser) Lyrics(ctx *Context) *string      { return p.str(ctx, commonLyrics) }

func (p commonParser) Genre(ctx *Context) *string {
	v, ok := p.value(ctx, commonGenre)
	if !ok {
		return nil
	}
	return ResolveID3Genre(v, 0)
}

func (p commonParser) DiscNumber(ctx *Context) *Numbered  { return p.number(ctx, commonDisc) }
func (p commonParser) TrackNumber(ctx *Context) *Numbered { return p.number(ctx, commonTrack) }
func (p commonParser) Year(ctx *Context) *int             { return p.year(ctx, commonDate) }
func (p commonParser) Duration(ctx *Context) *float64     { return p.duration(ctx, commonDuration) }
