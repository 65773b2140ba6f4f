package tags

// Alias lists run ID3v2.4/2.3 frame, then ID3v2.2 frame, then ID3v1 field.
var (
	id3Title       = []string{"tit2", "tt2", "title"}
	id3Artist      = []string{"tpe1", "tp1", "artist", "tope", "toa"}
	id3AlbumArtist = []string{"tpe2", "tp2"}
	id3Album       = []string{"talb", "tal", "album", "toal", "tot"}
	id3Genre       = []string{"tcon", "tco", "genre"}
	id3Composer    = []string{"tcom", "tcm"}
	id3Conductor   = []string{"tpe3", "tp3"}
	id3Lyricist    = []string{"text", "txt", "toly", "tol"}
	id3Disc        = []string{"tpos", "tpa"}
	id3Track       = []string{"trck", "trk", "track"}
	id3Year        = []string{"tyer", "tdrc", "tye", "tory", "tdor", "tor", "year", "tdat", "tda", "tdrl"}
	id3BPM         = []string{"tbpm", "tbp"}
	id3Lyrics      = []string{"uslt", "ult", "sylt", "slt"}
	id3Art         = []string{"apic", "pic"}
	id3Duration    = []string{"tlen", "tle"}
)

var id3Fields = FieldMap{
	Essential: keySet(concat(id3Title, id3Artist, id3AlbumArtist, id3Album,
		id3Genre, id3Composer, id3Conductor, id3Lyricist, id3Disc, id3Track,
		id3Year, id3BPM, id3Lyrics, id3Art, id3Duration)...),
	Generic: id3GenericLabels,
	Ignored: keySet("priv", "ctoc", "chap"),
}

var id3GenericLabels = map[string]string{
	// ID3v2.3 / ID3v2.4
	"aenc": "Audio Encryption",
	"aspi": "Audio Seek Point Index",
	"comm": "Comment",
	"comr": "Commercial Frame",
	"encr": "Encryption Method Registration",
	"equ2": "Equalization",
	"equa": "Equalization",
	"etco": "Event Timing Codes",
	"geob": "General Encapsulated Object",
	"grid": "Group Identification Registration",
	"grp1": "Grouping",
	"ipls": "Involved People List",
	"link": "Linked Information",
	"mcdi": "Music CD Identifier",
	"mllt": "MPEG Location Lookup Table",
	"mvin": "Movement Number",
	"mvnm": "Movement Name",
	"owne": "Ownership Frame",
	"pcnt": "Play Counter",
	"popm": "Popularimeter",
	"poss": "Position Synchronisation Frame",
	"rbuf": "Recommended Buffer Size",
	"rva2": "Relative Volume Adjustment",
	"rvad": "Relative Volume Adjustment",
	"rvrb": "Reverb",
	"seek": "Seek Frame",
	"sign": "Signature Frame",
	"sytc": "Synchronised Tempo Codes",
	"tcmp": "Part of a Compilation?",
	"tcop": "Copyright",
	"tden": "Encoding Time",
	"tdly": "Playlist Delay",
	"tdtg": "Tagging Time",
	"tenc": "Encoded By",
	"tflt": "File Type",
	"time": "Time",
	"tipl": "Involved People List",
	"tit1": "Grouping",
	"tit3": "Subtitle",
	"tkey": "Initial Key",
	"tlan": "Language",
	"tmcl": "Musician Credits",
	"tmed": "Media Type",
	"tmoo": "Mood",
	"tofn": "Original Filename",
	"town": "File Owner",
	"tpe4": "Remixer",
	"tpro": "Produced Notice",
	"tpub": "Publisher",
	"trda": "Recording Dates",
	"trsn": "Internet Radio Station Name",
	"trso": "Internet Radio Station Owner",
	"tsiz": "Size",
	"tso2": "Album Artist Sort Order",
	"tsoa": "Album Sort Order",
	"tsoc": "Composer Sort Order",
	"tsop": "Performer Sort Order",
	"tsot": "Title Sort Order",
	"tsrc": "ISRC",
	"tsse": "Encoder Settings",
	"tsst": "Set Subtitle",
	"ufid": "Unique File Identifier",
	"user": "Terms of Use",
	"wcom": "Commercial Information",
	"wcop": "Copyright/Legal Information",
	"woaf": "Official Audio File Webpage",
	"woar": "Official Artist/Performer Webpage",
	"woas": "Official Audio Source Webpage",
	"wors": "Official Internet Radio Station Homepage",
	"wpay": "Payment",
	"wpub": "Publisher's Official Webpage",
	"wxxx": "User Defined URL",

	// ID3v2.2
	"buf": "Recommended Buffer Size",
	"cnt": "Play Counter",
	"com": "Comment",
	"cra": "Audio Encryption",
	"crm": "Encrypted Meta Frame",
	"equ": "Equalization",
	"etc": "Event Timing Codes",
	"geo": "General Encapsulated Object",
	"ipl": "Involved People List",
	"lnk": "Linked Information",
	"mci": "Music CD Identifier",
	"mll": "MPEG Location Lookup Table",
	"pop": "Popularimeter",
	"rev": "Reverb",
	"rva": "Relative Volume Adjustment",
	"stc": "Synchronised Tempo Codes",
	"tcp": "Part of a Compilation?",
	"tcr": "Copyright",
	"tdy": "Playlist Delay",
	"ten": "Encoded By",
	"tft": "File Type",
	"tim": "Time",
	"tke": "Initial Key",
	"tla": "Language",
	"tmt": "Media Type",
	"tof": "Original Filename",
	"tp4": "Remixer",
	"tpb": "Publisher",
	"trc": "ISRC",
	"trd": "Recording Dates",
	"tsi": "Size",
	"tss": "Encoder Settings",
	"tt1": "Grouping",
	"tt3": "Subtitle",
	"ufi": "Unique File Identifier",
	"waf": "Official Audio File Webpage",
	"war": "Official Artist/Performer Webpage",
	"was": "Official Audio Source Webpage",
	"wcm": "Commercial Information",
	"wcp": "Copyright/Legal Information",
	"wpb": "Publisher's Official Webpage",
	"wxx": "User Defined URL",

	// Common TXXX descriptions
	"compatible_brands": "Compatible Brands",
	"gn_extdata":        "Gracenote Data",
}

type id3Parser struct{ fieldParser }

func newID3Parser() id3Parser {
	return id3Parser{fieldParser{dialect: DialectID3, fields: &id3Fields}}
}

func (p id3Parser) Title(ctx *Context) *string       { return p.str(ctx, id3Title...) }
func (p id3Parser) Artist(ctx *Context) *string      { return p.str(ctx, id3Artist...) }
func (p id3Parser) AlbumArtist(ctx *Context) *string { return p.str(ctx, id3AlbumArtist...) }
func (p id3Parser) Album(ctx *Context) *string       { return p.str(ctx, id3Album...) }
func (p id3Parser) Composer(ctx *Context) *string    { return p.str(ctx, id3Composer...) }
func (p id3Parser) Conductor(ctx *Context) *string   { return p.str(ctx, id3Conductor...) }
func (p id3Parser) Lyricist(ctx *Context) *string    { return p.str(ctx, id3Lyricist...) }
func (p id3Parser) Lyrics(ctx *Context) *string      { return p.str(ctx, id3Lyrics...) }

// Genre resolves numeric codes such as "17" or "(17)" through the ID3
// table without offset.
func (p id3Parser) Genre(ctx *Context) *string {
	v, ok := p.value(ctx, id3Genre...)
	if !ok {
		return nil
	}
	return ResolveID3Genre(v, 0)
}

func (p id3Parser) DiscNumber(ctx *Context) *Numbered  { return p.number(ctx, id3Disc...) }
func (p id3Parser) TrackNumber(ctx *Context) *Numbered { return p.number(ctx, id3Track...) }
func (p id3Parser) Year(ctx *Context) *int             { return p.year(ctx, id3Year...) }
func (p id3Parser) BPM(ctx *Context) *int              { return p.bpm(ctx, id3BPM...) }
func (p id3Parser) Art(ctx *Context) *Art              { return p.art(ctx, id3Art...) }

// Duration reads TLEN, which holds milliseconds.
func (p id3Parser) Duration(ctx *Context) *float64 { return p.duration(ctx, id3Duration...) }

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
