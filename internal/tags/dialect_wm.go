package tags

import (
	"strconv"
	"strings"
)

// WM/ASF attribute names after the "wm/" prefix is stripped.
var (
	wmTitle          = []string{"title"}
	wmArtist         = []string{"author", "albumartist", "originalartist"}
	wmAlbumArtist    = []string{"albumartist"}
	wmAlbum          = []string{"albumtitle", "originalalbumtitle"}
	wmGenre          = []string{"genre"}
	wmGenreID        = []string{"genreid"}
	wmComposer       = []string{"composer"}
	wmConductor      = []string{"conductor"}
	wmLyricist       = []string{"originallyricist"}
	wmDisc           = []string{"partofset"}
	wmTotalDiscs     = []string{"disctotal"}
	wmTrack          = []string{"tracknumber"}
	wmTrackZeroBased = []string{"track"}
	wmTotalTracks    = []string{"tracktotal"}
	wmYear           = []string{"year", "originalreleaseyear"}
	wmLyrics         = []string{"lyrics", "lyrics_synchronised"}
	wmDuration       = []string{"duration", "totalduration"}
	wmDRM            = []string{"protected"}
	wmArt            = []string{"picture"}
)

// asfTicksPerSecond converts ASF durations, which count 100 ns units.
const asfTicksPerSecond = 10_000_000.0

var wmFields = FieldMap{
	Essential: keySet(concat(wmTitle, wmArtist, wmAlbum, wmGenre, wmGenreID,
		wmComposer, wmConductor, wmLyricist, wmDisc, wmTotalDiscs, wmTrack,
		wmTrackZeroBased, wmTotalTracks, wmYear, wmLyrics, wmDuration, wmDRM,
		wmArt)...),
	Generic: map[string]string{
		"averagelevel":              "Avg. Volume Level",
		"peakvalue":                 "Peak Volume Level",
		"description":               "Comment",
		"comments":                  "Comment",
		"provider":                  "Provider",
		"publisher":                 "Publisher",
		"providerrating":            "Provider Rating",
		"providerstyle":             "Provider Style",
		"contentdistributor":        "Content Distributor",
		"wmfsdkversion":             "Windows Media Format Version",
		"encodingtime":              "Encoding Timestamp",
		"wmadrcpeakreference":       "DRC Peak Reference",
		"wmadrcaveragereference":    "DRC Average Reference",
		"uniquefileidentifier":      "Unique File Identifier",
		"modifiedby":                "Remixer",
		"subtitle":                  "Subtitle",
		"setsubtitle":               "Disc Subtitle",
		"contentgroupdescription":   "Grouping",
		"albumartistsortorder":      "Album Artist Sort Order",
		"albumsortorder":            "Album Sort Order",
		"artistsortorder":           "Artist Sort Order",
		"titlesortorder":            "Title Sort Order",
		"composersort":              "Composer Sort Order",
		"arranger":                  "Arranger",
		"asin":                      "ASIN",
		"authorurl":                 "Official Artist Site Url",
		"barcode":                   "Barcode",
		"beatsperminute":            "BPM (Beats Per Minute)",
		"catalogno":                 "Catalog Number",
		"iscompilation":             "Part of a Compilation?",
		"copyright":                 "Copyright",
		"country":                   "Country",
		"encodedby":                 "Encoded By",
		"encodingsettings":          "Encoder",
		"engineer":                  "Engineer",
		"fbpm":                      "Floating Point BPM",
		"isrc":                      "ISRC",
		"initialkey":                "Key",
		"language":                  "Language",
		"writer":                    "Writer",
		"lyricsurl":                 "Lyrics Site Url",
		"media":                     "Media",
		"mediastationcallsign":      "Service Provider",
		"mediastationname":          "Service Name",
		"mixer":                     "Mixer",
		"mood":                      "Mood",
		"occasion":                  "Occasion",
		"officialreleaseurl":        "Official Release Site Url",
		"originalfilename":          "Original Filename",
		"url_official_artist_site":  "Official Artist Website",
		"producer":                  "Producer",
		"quality":                   "Quality",
		"shareduserrating":          "Rating",
		"script":                    "Script",
		"tags":                      "Tags",
		"tempo":                     "Tempo",
		"tool":                      "Encoder",
		"toolname":                  "Encoder",
		"toolversion":               "Encoder Version",
		"deviceconformancetemplate": "Device Conformance Template",
		"isvbr":                     "Is VBR?",
		"mediaprimaryclassid":       "Primary Media Class ID",
		"codec":                     "Codec",
		"category":                  "Category",
	},
	Ignored: keySet("wmfsdkneeded"),
}

type wmParser struct{ fieldParser }

func newWMParser() wmParser {
	return wmParser{fieldParser{dialect: DialectWM, fields: &wmFields}}
}

func (p wmParser) Title(ctx *Context) *string       { return p.str(ctx, wmTitle...) }
func (p wmParser) Artist(ctx *Context) *string      { return p.str(ctx, wmArtist...) }
func (p wmParser) AlbumArtist(ctx *Context) *string { return p.str(ctx, wmAlbumArtist...) }
func (p wmParser) Album(ctx *Context) *string       { return p.str(ctx, wmAlbum...) }
func (p wmParser) Composer(ctx *Context) *string    { return p.str(ctx, wmComposer...) }
func (p wmParser) Conductor(ctx *Context) *string   { return p.str(ctx, wmConductor...) }
func (p wmParser) Lyricist(ctx *Context) *string    { return p.str(ctx, wmLyricist...) }
func (p wmParser) Lyrics(ctx *Context) *string      { return p.str(ctx, wmLyrics...) }

func (p wmParser) Genre(ctx *Context) *string {
	if s := p.str(ctx, wmGenre...); s != nil {
		return s
	}
	if v, ok := p.value(ctx, wmGenreID...); ok {
		return id3GenreFromString(strings.TrimSpace(v.String()), 0)
	}
	return nil
}

func (p wmParser) DiscNumber(ctx *Context) *Numbered { return p.number(ctx, wmDisc...) }
func (p wmParser) TotalDiscs(ctx *Context) *int      { return p.total(ctx, wmTotalDiscs...) }
func (p wmParser) TotalTracks(ctx *Context) *int     { return p.total(ctx, wmTotalTracks...) }

// TrackNumber prefers the one-based WM/TrackNumber; the legacy WM/Track
// attribute is zero-based.
func (p wmParser) TrackNumber(ctx *Context) *Numbered {
	if n := p.number(ctx, wmTrack...); n != nil {
		return n
	}
	n := p.number(ctx, wmTrackZeroBased...)
	if n == nil || n.Number == nil {
		return n
	}
	number := *n.Number + 1
	return &Numbered{Number: &number, Total: n.Total}
}

func (p wmParser) Year(ctx *Context) *int { return p.year(ctx, wmYear...) }
func (p wmParser) Art(ctx *Context) *Art  { return p.art(ctx, wmArt...) }

// Duration accepts ASF 100 ns ticks for integers longer than seven digits,
// and the usual duration formats otherwise.
func (p wmParser) Duration(ctx *Context) *float64 {
	v, ok := p.value(ctx, wmDuration...)
	if !ok {
		return nil
	}
	s := strings.TrimSpace(v.String())
	if len(s) > 7 {
		if ticks, err := strconv.ParseInt(s, 10, 64); err == nil {
			d := float64(ticks) / asfTicksPerSecond
			return &d
		}
	}
	return ParseDuration(s)
}

func (p wmParser) IsDRMProtected(ctx *Context) *bool {
	v, ok := p.value(ctx, wmDRM...)
	if !ok {
		return nil
	}
	return ParseBool(v.String())
}
