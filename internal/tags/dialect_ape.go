package tags

import "bytes"

var (
	apeTitle       = []string{"title"}
	apeArtist      = []string{"artist", "albumartist", "album_artist", "original artist", "artists"}
	apeAlbumArtist = []string{"albumartist", "album_artist"}
	apeAlbum       = []string{"album", "original album"}
	apeGenre       = []string{"genre"}
	apeComposer    = []string{"composer"}
	apeConductor   = []string{"conductor"}
	apePerformer   = []string{"performer"}
	apeLyricist    = []string{"lyricist", "original lyricist"}
	apeDisc        = []string{"disc"}
	apeTrack       = []string{"track"}
	apeYear        = []string{"year", "originaldate", "originalyear", "original year", "originalreleasedate", "original_year"}
	apeBPM         = []string{"bpm"}
	apeLyrics      = []string{"lyrics"}
	apeArt         = []string{"cover art (front)"}
)

var apeFields = FieldMap{
	Essential: keySet(concat(apeTitle, apeArtist, apeAlbum, apeGenre,
		apeComposer, apeConductor, apePerformer, apeLyricist, apeDisc,
		apeTrack, apeYear, apeBPM, apeLyrics, apeArt)...),
	Generic: map[string]string{
		"subtitle":         "Subtitle",
		"debut album":      "Debut Album",
		"comment":          "Comment",
		"copyright":        "Copyright",
		"publicationright": "Publication Right",
		"file":             "File",
		"ean/upc":          "EAN/UPC",
		"isbn":             "ISBN",
		"catalog":          "Catalog",
		"lc":               "Label Code",
		"record location":  "Record Location",
		"record date":      "Record Date",
		"media":            "Media",
		"index":            "Index",
		"related":          "Related",
		"isrc":             "ISRC",
		"abstract":         "Abstract",
		"language":         "Language",
		"bibliography":     "Bibliography",
		"introplay":        "Introplay",
		"tool name":        "Tool Name",
		"tool version":     "Tool Version",
		"albumsort":        "Album Sort Order",
		"titlesort":        "Title Sort Order",
		"artistsort":       "Artist Sort Order",
		"albumartistsort":  "Album Artist Sort Order",
		"composersort":     "Composer Sort Order",
		"work":             "Work Name",
		"writer":           "Writer",
		"mixartist":        "Remixer",
		"arranger":         "Arranger",
		"engineer":         "Engineer",
		"producer":         "Producer",
		"publisher":        "Publisher",
		"djmixer":          "DJ Mixer",
		"mixer":            "Mixer",
		"label":            "Label",
		"movementname":     "Movement Name",
		"movement":         "Movement",
		"movementtotal":    "Movement Count",
		"showmovement":     "Show Movement",
		"grouping":         "Grouping",
		"discsubtitle":     "Disc Subtitle",
		"compilation":      "Part of a Compilation?",
		"mood":             "Mood",
		"catalognumber":    "Catalog Number",
		"releasecountry":   "Release Country",
		"script":           "Script",
		"license":          "License",
		"encodedby":        "Encoded By",
		"encodersettings":  "Encoder Settings",
		"barcode":          "Barcode",
		"asin":             "ASIN",
		"weblink":          "Official Artist Website",
	},
}

type apeParser struct{ fieldParser }

func newAPEParser() apeParser {
	return apeParser{fieldParser{dialect: DialectAPE, fields: &apeFields}}
}

func (p apeParser) Title(ctx *Context) *string         { return p.str(ctx, apeTitle...) }
func (p apeParser) Artist(ctx *Context) *string        { return p.str(ctx, apeArtist...) }
func (p apeParser) AlbumArtist(ctx *Context) *string   { return p.str(ctx, apeAlbumArtist...) }
func (p apeParser) Album(ctx *Context) *string         { return p.str(ctx, apeAlbum...) }
func (p apeParser) Composer(ctx *Context) *string      { return p.str(ctx, apeComposer...) }
func (p apeParser) Conductor(ctx *Context) *string     { return p.str(ctx, apeConductor...) }
func (p apeParser) Performer(ctx *Context) *string     { return p.str(ctx, apePerformer...) }
func (p apeParser) Lyricist(ctx *Context) *string      { return p.str(ctx, apeLyricist...) }
func (p apeParser) Genre(ctx *Context) *string         { return p.str(ctx, apeGenre...) }
func (p apeParser) Lyrics(ctx *Context) *string        { return p.str(ctx, apeLyrics...) }
func (p apeParser) DiscNumber(ctx *Context) *Numbered  { return p.number(ctx, apeDisc...) }
func (p apeParser) TrackNumber(ctx *Context) *Numbered { return p.number(ctx, apeTrack...) }
func (p apeParser) Year(ctx *Context) *int             { return p.year(ctx, apeYear...) }
func (p apeParser) BPM(ctx *Context) *int              { return p.bpm(ctx, apeBPM...) }

// Art reads the APEv2 binary cover item, which prefixes the image with a
// NUL-terminated file name.
func (p apeParser) Art(ctx *Context) *Art {
	v, ok := p.value(ctx, apeArt...)
	if !ok || len(v.Data) == 0 {
		return nil
	}
	data := v.Data
	if i := bytes.IndexByte(data, 0); i >= 0 && DetectImageMIME(data) == "application/octet-stream" {
		data = data[i+1:]
	}
	if len(data) == 0 {
		return nil
	}
	return &Art{Data: data, MIMEType: DetectImageMIME(data)}
}
