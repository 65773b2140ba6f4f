package tags

// MP4 atom names as read from the ilst box, in normalized form.
var (
	itunesTitle       = []string{"©nam"}
	itunesArtist      = []string{"©art", "©ope", "©prf"}
	itunesAlbumArtist = []string{"aart"}
	itunesAlbum       = []string{"©alb", "©oal"}
	itunesComposer    = []string{"©wrt"}
	itunesConductor   = []string{"©con", "cond"}
	itunesPerformer   = []string{"©prf"}
	itunesLyricist    = []string{"©lyt", "©oly"}
	itunesGenreName   = []string{"©gen"}
	itunesGenreCode   = []string{"gnre"}
	itunesGenreID     = []string{"geid"}
	itunesTrack       = []string{"trkn"}
	itunesDisc        = []string{"disk", "disc"}
	itunesYear        = []string{"©day", "year"}
	itunesBPM         = []string{"tmpo"}
	itunesLyrics      = []string{"©lyr"}
	itunesArt         = []string{"covr"}
	itunesDuration    = []string{"duration"}
	itunesDRM         = []string{"drm"}
)

// itunesGenreOffset shifts gnre codes onto the ID3 table, which starts
// at zero while gnre starts at one.
const itunesGenreOffset = -1

var itunesFields = FieldMap{
	Essential: keySet(concat(itunesTitle, itunesArtist, itunesAlbumArtist,
		itunesAlbum, itunesComposer, itunesConductor, itunesPerformer,
		itunesLyricist, itunesGenreName, itunesGenreCode, itunesGenreID,
		itunesTrack, itunesDisc, itunesYear, itunesBPM, itunesLyrics,
		itunesArt, itunesDuration, itunesDRM)...),
	Generic: map[string]string{
		"©too": "Encoder",
		"©enc": "Encoded By",
		"cprt": "Copyright",
		"©cmt": "Comment",
		"©grp": "Grouping",
		"©wrk": "Work",
		"©mvn": "Movement Name",
		"©mvi": "Movement Number",
		"©mvc": "Movement Count",
		"shwm": "Show Movement",
		"©st3": "Subtitle",
		"©des": "Description",
		"desc": "Description",
		"ldes": "Long Description",
		"©isr": "ISRC",
		"©lab": "Label",
		"©pub": "Publisher",
		"©dir": "Director",
		"©src": "Source",
		"©url": "Official Website",
		"cpil": "Part of a Compilation?",
		"pgap": "Gapless Playback",
		"sonm": "Title Sort Order",
		"soar": "Artist Sort Order",
		"soal": "Album Sort Order",
		"soaa": "Album Artist Sort Order",
		"soco": "Composer Sort Order",
		"sosn": "Show Sort Order",
		"tvsh": "TV Show",
		"tven": "TV Episode ID",
		"tvsn": "TV Season",
		"tves": "TV Episode",
		"tvnn": "TV Network",
		"stik": "Media Type",
		"rtng": "Content Rating",
		"purd": "Purchase Date",
		"apid": "Apple ID",
		"akid": "Account Kind",
		"cnid": "Catalog ID",
		"atid": "Artist ID",
		"plid": "Playlist ID",
		"sfid": "Store Front ID",
		"cmid": "Composer ID",
		"hdvd": "HD Video",
		"keyw": "Keywords",
		"catg": "Category",
		"pcst": "Podcast",
		"purl": "Podcast URL",
		"egid": "Episode Global ID",
	},
}

type itunesParser struct{ fieldParser }

func newITunesParser() itunesParser {
	return itunesParser{fieldParser{dialect: DialectITunes, fields: &itunesFields}}
}

func (p itunesParser) Title(ctx *Context) *string       { return p.str(ctx, itunesTitle...) }
func (p itunesParser) Artist(ctx *Context) *string      { return p.str(ctx, itunesArtist...) }
func (p itunesParser) AlbumArtist(ctx *Context) *string { return p.str(ctx, itunesAlbumArtist...) }
func (p itunesParser) Album(ctx *Context) *string       { return p.str(ctx, itunesAlbum...) }
func (p itunesParser) Composer(ctx *Context) *string    { return p.str(ctx, itunesComposer...) }
func (p itunesParser) Conductor(ctx *Context) *string   { return p.str(ctx, itunesConductor...) }
func (p itunesParser) Performer(ctx *Context) *string   { return p.str(ctx, itunesPerformer...) }
func (p itunesParser) Lyricist(ctx *Context) *string    { return p.str(ctx, itunesLyricist...) }
func (p itunesParser) Lyrics(ctx *Context) *string      { return p.str(ctx, itunesLyrics...) }

// Genre prefers the free-text ©gen atom, then the ID3-coded gnre atom,
// then the iTunes Store geID.
func (p itunesParser) Genre(ctx *Context) *string {
	if s := p.str(ctx, itunesGenreName...); s != nil {
		return s
	}
	if v, ok := p.value(ctx, itunesGenreCode...); ok {
		return ResolveID3Genre(v, itunesGenreOffset)
	}
	if v, ok := p.value(ctx, itunesGenreID...); ok {
		return ResolveITunesGenreID(v)
	}
	return nil
}

func (p itunesParser) TrackNumber(ctx *Context) *Numbered { return p.number(ctx, itunesTrack...) }
func (p itunesParser) DiscNumber(ctx *Context) *Numbered  { return p.number(ctx, itunesDisc...) }
func (p itunesParser) Year(ctx *Context) *int             { return p.year(ctx, itunesYear...) }
func (p itunesParser) BPM(ctx *Context) *int              { return p.bpm(ctx, itunesBPM...) }
func (p itunesParser) Art(ctx *Context) *Art              { return p.art(ctx, itunesArt...) }
func (p itunesParser) Duration(ctx *Context) *float64     { return p.duration(ctx, itunesDuration...) }

// IsDRMProtected reports true when a drm marker is present. Absence reads
// as nil so later dialects may still decide.
func (p itunesParser) IsDRMProtected(ctx *Context) *bool {
	v, ok := p.value(ctx, itunesDRM...)
	if !ok {
		return nil
	}
	if b := ParseBool(v.String()); b != nil {
		return b
	}
	protected := true
	return &protected
}
