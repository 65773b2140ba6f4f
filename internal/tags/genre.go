package tags

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// id3Genres is the ID3v1 genre table with the Winamp extensions.
var id3Genres = [...]string{
	"Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk", "Grunge",
	"Hip-Hop", "Jazz", "Metal", "New Age", "Oldies", "Other", "Pop", "R&B",
	"Rap", "Reggae", "Rock", "Techno", "Industrial", "Alternative", "Ska",
	"Death Metal", "Pranks", "Soundtrack", "Euro-Techno", "Ambient",
	"Trip-Hop", "Vocal", "Jazz+Funk", "Fusion", "Trance", "Classical",
	"Instrumental", "Acid", "House", "Game", "Sound Clip", "Gospel",
	"Noise", "AlternRock", "Bass", "Soul", "Punk", "Space", "Meditative",
	"Instrumental Pop", "Instrumental Rock", "Ethnic", "Gothic",
	"Darkwave", "Techno-Industrial", "Electronic", "Pop-Folk",
	"Eurodance", "Dream", "Southern Rock", "Comedy", "Cult", "Gangsta",
	"Top 40", "Christian Rap", "Pop/Funk", "Jungle", "Native American",
	"Cabaret", "New Wave", "Psychedelic", "Rave", "Showtunes", "Trailer",
	"Lo-Fi", "Tribal", "Acid Punk", "Acid Jazz", "Polka", "Retro",
	"Musical", "Rock & Roll", "Hard Rock", "Folk", "Folk-Rock",
	"National Folk", "Swing", "Fast Fusion", "Bebop", "Latin", "Revival",
	"Celtic", "Bluegrass", "Avantgarde", "Gothic Rock", "Progressive Rock",
	"Psychedelic Rock", "Symphonic Rock", "Slow Rock", "Big Band",
	"Chorus", "Easy Listening", "Acoustic", "Humour", "Speech", "Chanson",
	"Opera", "Chamber Music", "Sonata", "Symphony", "Booty Bass", "Primus",
	"Porn Groove", "Satire", "Slow Jam", "Club", "Tango", "Samba",
	"Folklore", "Ballad", "Power Ballad", "Rhythmic Soul", "Freestyle",
	"Duet", "Punk Rock", "Drum Solo", "A Cappella", "Euro-House", "Dance Hall",
	"Goa", "Drum & Bass", "Club-House", "Hardcore Techno", "Terror", "Indie",
	"BritPop", "Afro-Punk", "Polsk Punk", "Beat", "Christian Gangsta Rap",
	"Heavy Metal", "Black Metal", "Crossover", "Contemporary Christian",
	"Christian Rock", "Merengue", "Salsa", "Thrash Metal", "Anime", "JPop",
	"Synthpop", "Abstract", "Art Rock", "Baroque", "Bhangra", "Big Beat",
	"Breakbeat", "Chillout", "Downtempo", "Dub", "EBM", "Eclectic",
	"Electro", "Electroclash", "Emo", "Experimental", "Garage", "Global",
	"IDM", "Illbient", "Industro-Goth", "Jam Band", "Krautrock", "Leftfield",
	"Lounge", "Math Rock", "New Romantic", "Nu-Breakz", "Post-Punk",
	"Post-Rock", "Psytrance", "Shoegaze", "Space Rock", "Trop Rock",
	"World Music", "Neoclassical", "Audiobook", "Audio Theatre",
	"Neue Deutsche Welle", "Podcast", "Indie Rock", "G-Funk", "Dubstep",
	"Garage Rock", "Psybient",
}

// itunesGenres maps iTunes Store genre IDs (the geID atom) to names.
var itunesGenres = map[int]string{
	2:        "Blues",
	3:        "Comedy",
	4:        "Children's Music",
	5:        "Classical",
	6:        "Country",
	7:        "Electronic",
	8:        "Holiday",
	9:        "Opera",
	10:       "Singer/Songwriter",
	11:       "Jazz",
	12:       "Latino",
	13:       "New Age",
	14:       "Pop",
	15:       "R&B/Soul",
	16:       "Soundtrack",
	17:       "Dance",
	18:       "Hip-Hop/Rap",
	19:       "World",
	20:       "Alternative",
	21:       "Rock",
	22:       "Christian & Gospel",
	23:       "Vocal",
	24:       "Reggae",
	25:       "Easy Listening",
	27:       "J-Pop",
	28:       "Enka",
	29:       "Anime",
	30:       "Kayokyoku",
	50:       "Fitness & Workout",
	51:       "K-Pop",
	52:       "Karaoke",
	53:       "Instrumental",
	1122:     "Brazilian",
	50000061: "Spoken Word",
	50000063: "Disney",
	50000064: "French Pop",
	50000066: "German Pop",
	50000068: "German Folk",
}

// prefixedGenreRe matches the ID3v2.3 "(17)Rock" refinement form.
var prefixedGenreRe = regexp.MustCompile(`^\((\d+)\)(.+)$`)

// ID3Genre returns the name for an ID3 genre code.
func ID3Genre(code int) (string, bool) {
	if code < 0 || code >= len(id3Genres) {
		return "", false
	}
	return id3Genres[code], true
}

// ITunesGenre returns the name for an iTunes Store genre ID.
func ITunesGenre(code int) (string, bool) {
	name, ok := itunesGenres[code]
	return name, ok
}

// ResolveID3Genre turns a genre value into a name. Numeric text and
// single-byte binary values are looked up in the ID3 table after adding
// offset; other text is returned verbatim.
func ResolveID3Genre(v Value, offset int) *string {
	if v.Text != "" {
		return id3GenreFromString(v.Text, offset)
	}
	vals := nonZeroBytes(v.Data)
	switch {
	case len(vals) > 1 && utf8.Valid(v.Data):
		s := string(trimNULs(v.Data))
		return &s
	case len(vals) >= 1:
		if name, ok := ID3Genre(int(vals[0]) + offset); ok {
			return &name
		}
	}
	return nil
}

// ResolveITunesGenreID looks a geID value up in the iTunes table.
func ResolveITunesGenreID(v Value) *string {
	if v.Text != "" {
		if code := ParseNumericString(v.Text); code != nil {
			if name, ok := ITunesGenre(*code); ok {
				return &name
			}
		}
		s := v.Text
		return &s
	}
	if code := DecodeBinaryNumber(v.Data); code != nil {
		if name, ok := ITunesGenre(*code); ok {
			return &name
		}
	}
	return nil
}

func id3GenreFromString(s string, offset int) *string {
	if code := ParseNumericString(s); code != nil {
		if name, ok := ID3Genre(*code + offset); ok {
			return &name
		}
		return &s
	}
	if m := prefixedGenreRe.FindStringSubmatch(strings.TrimSpace(s)); m != nil {
		refined := strings.TrimSpace(m[2])
		return &refined
	}
	return &s
}
