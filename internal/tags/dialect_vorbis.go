package tags

var (
	vorbisTitle       = []string{"title"}
	vorbisArtist      = []string{"artist", "albumartist", "album_artist", "original artist", "artists"}
	vorbisAlbumArtist = []string{"albumartist", "album_artist"}
	vorbisAlbum       = []string{"album", "original album"}
	vorbisGenre       = []string{"genre"}
	vorbisComposer    = []string{"composer"}
	vorbisConductor   = []string{"conductor"}
	vorbisPerformer   = []string{"performer"}
	vorbisLyricist    = []string{"lyricist", "original lyricist"}
	vorbisDisc        = []string{"discnumber"}
	vorbisTotalDiscs  = []string{"disctotal", "totaldiscs"}
	vorbisTrack       = []string{"tracknumber"}
	vorbisTotalTracks = []string{"tracktotal", "totaltracks"}
	vorbisYear        = []string{"year", "date", "originaldate", "originalyear", "original year", "originalreleasedate", "original_year"}
	vorbisBPM         = []string{"bpm"}
	vorbisDuration    = []string{"length"}
	vorbisLyrics      = []string{"lyrics", "unsyncedlyrics"}
	vorbisArt         = []string{"metadata_block_picture"}
)

var vorbisFields = FieldMap{
	Essential: keySet(concat(vorbisTitle, vorbisArtist, vorbisAlbum, vorbisGenre,
		vorbisComposer, vorbisConductor, vorbisPerformer, vorbisLyricist,
		vorbisDisc, vorbisTotalDiscs, vorbisTrack, vorbisTotalTracks,
		vorbisYear, vorbisBPM, vorbisDuration, vorbisLyrics, vorbisArt)...),
	Generic: map[string]string{
		"copyright":                 "Copyright",
		"ean/upn":                   "EAN / UPN",
		"labelno":                   "Catalog Number",
		"license":                   "License",
		"opus":                      "Opus Number",
		"version":                   "Version",
		"encoded-by":                "Encoded By",
		"encodedby":                 "Encoded By",
		"encoding":                  "Encoder Settings",
		"encodedusing":              "Encoded Using",
		"encoderoptions":            "Encoder Options",
		"encodersettings":           "Encoder Settings",
		"encodingtime":              "Encoding Time",
		"encoder":                   "Encoder",
		"arranger":                  "Arranger",
		"author":                    "Author",
		"writer":                    "Writer",
		"publisher":                 "Publisher",
		"ensemble":                  "Ensemble",
		"part":                      "Part",
		"partnumber":                "Part Number",
		"location":                  "Location",
		"actor":                     "Actor",
		"director":                  "Director",
		"replaygainalbumgain":       "ReplayGain Album Gain",
		"replaygainalbumpeak":       "ReplayGain Album Peak",
		"replaygaintrackgain":       "ReplayGain Track Gain",
		"replaygaintrackpeak":       "ReplayGain Track Peak",
		"replaygain_album_gain":     "ReplayGain Album Gain",
		"replaygain_album_peak":     "ReplayGain Album Peak",
		"replaygain_track_gain":     "ReplayGain Track Gain",
		"replaygain_track_peak":     "ReplayGain Track Peak",
		"vendor":                    "Vendor",
		"grouping":                  "Grouping",
		"albumartistsort":           "Album Artist Sort Order",
		"artistsort":                "Artist Sort Order",
		"albumsort":                 "Album Sort Order",
		"titlesort":                 "Title Sort Order",
		"composersort":              "Composer Sort Order",
		"subtitle":                  "Track Subtitle",
		"upc":                       "UPC",
		"barcode":                   "Barcode",
		"catalognumber":             "Catalog Number",
		"category":                  "Category",
		"description":               "Description",
		"contact":                   "Contact",
		"comment":                   "Comment",
		"commercial_info_url":       "Commercial Information Webpage",
		"copyright_url":             "Copyright/Legal Information Webpage",
		"country":                   "Country",
		"cuesheet":                  "Cuesheet",
		"filetype":                  "File Type",
		"key":                       "Initial Key",
		"involvedpeople":            "Involved People",
		"djmixer":                   "DJ Mixer",
		"engineer":                  "Engineer",
		"mixer":                     "Mixer",
		"producer":                  "Producer",
		"productnumber":             "Product Number",
		"organization":              "Organization",
		"instrumental":              "Instrumental",
		"instrument":                "Instrument",
		"isrc":                      "ISRC",
		"label":                     "Label",
		"language":                  "Language",
		"love-dislike rating":       "Love",
		"media":                     "Media Type",
		"mood":                      "Mood",
		"style":                     "Style",
		"music_cd_identifier":       "Music CD Identifier",
		"script":                    "Script",
		"musiciancredits":           "Musician Credits",
		"url_official_artist_site":  "Official Artist/Performer Webpage",
		"official_audio_file_url":   "Official Audio File Webpage",
		"official_audio_source_url": "Official Audio Source Webpage",
		"official_radio_url":        "Official Internet Radio Station Webpage",
		"original filename":         "Original Filename",
		"period":                    "Period",
		"payment_url":               "Payment Webpage",
		"pricepaid":                 "Price Paid",
		"produced_notice":           "Produced Notice",
		"label_url":                 "Publisher's Official Webpage",
		"radio_station":             "Radio Station",
		"rating":                    "Rating",
		"rights":                    "Rights",
		"releasetime":               "Release Time",
		"remixer":                   "Remixer",
		"soloists":                  "Soloists",
		"set subtitle":              "Set Subtitle",
		"discsubtitle":              "Disc Subtitle",
		"skipwhenshuffling":         "Skip When Shuffling",
		"source":                    "Source",
		"sourcemedia":               "Source Media",
		"station_owner":             "Station Owner",
		"taggingtime":               "Tagging Time",
		"termsofuse":                "Terms of Use",
		"track_number_text":         "Track Position",
		"ufid":                      "Unique File Identifier",
		"work":                      "Work",
		"movementname":              "Movement Name",
		"movement":                  "Movement",
		"movementtotal":             "Movement Total",
		"showmovement":              "Show Movement",
		"compilation":               "Part of a Compilation?",
		"releasestatus":             "Release Status",
		"releasetype":               "Release Type",
		"releasecountry":            "Release Country",
		"asin":                      "ASIN",
		"website":                   "Official Artist Website",
	},
}

type vorbisParser struct{ fieldParser }

func newVorbisParser() vorbisParser {
	return vorbisParser{fieldParser{dialect: DialectVorbis, fields: &vorbisFields}}
}

func (p vorbisParser) Title(ctx *Context) *string         { return p.str(ctx, vorbisTitle...) }
func (p vorbisParser) Artist(ctx *Context) *string        { return p.str(ctx, vorbisArtist...) }
func (p vorbisParser) AlbumArtist(ctx *Context) *string   { return p.str(ctx, vorbisAlbumArtist...) }
func (p vorbisParser) Album(ctx *Context) *string         { return p.str(ctx, vorbisAlbum...) }
func (p vorbisParser) Composer(ctx *Context) *string      { return p.str(ctx, vorbisComposer...) }
func (p vorbisParser) Conductor(ctx *Context) *string     { return p.str(ctx, vorbisConductor...) }
func (p vorbisParser) Performer(ctx *Context) *string     { return p.str(ctx, vorbisPerformer...) }
func (p vorbisParser) Lyricist(ctx *Context) *string      { return p.str(ctx, vorbisLyricist...) }
func (p vorbisParser) Genre(ctx *Context) *string         { return p.str(ctx, vorbisGenre...) }
func (p vorbisParser) Lyrics(ctx *Context) *string        { return p.str(ctx, vorbisLyrics...) }
func (p vorbisParser) DiscNumber(ctx *Context) *Numbered  { return p.number(ctx, vorbisDisc...) }
func (p vorbisParser) TotalDiscs(ctx *Context) *int       { return p.total(ctx, vorbisTotalDiscs...) }
func (p vorbisParser) TrackNumber(ctx *Context) *Numbered { return p.number(ctx, vorbisTrack...) }
func (p vorbisParser) TotalTracks(ctx *Context) *int      { return p.total(ctx, vorbisTotalTracks...) }
func (p vorbisParser) Year(ctx *Context) *int             { return p.year(ctx, vorbisYear...) }
func (p vorbisParser) BPM(ctx *Context) *int              { return p.bpm(ctx, vorbisBPM...) }
func (p vorbisParser) Duration(ctx *Context) *float64     { return p.duration(ctx, vorbisDuration...) }
func (p vorbisParser) Art(ctx *Context) *Art              { return p.art(ctx, vorbisArt...) }
