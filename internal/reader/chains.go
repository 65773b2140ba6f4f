package reader

import "github.com/llehouerou/metaread/internal/tags"

var (
	defaultChain = []tags.Dialect{
		tags.DialectCommon, tags.DialectID3, tags.DialectVorbis,
		tags.DialectAPE, tags.DialectWM, tags.DialectDefault,
	}
	wmChain = []tags.Dialect{
		tags.DialectCommon, tags.DialectWM, tags.DialectID3,
		tags.DialectVorbis, tags.DialectAPE, tags.DialectDefault,
	}
	vorbisChain = []tags.Dialect{
		tags.DialectCommon, tags.DialectVorbis, tags.DialectAPE,
		tags.DialectID3, tags.DialectWM, tags.DialectDefault,
	}
	apeChain = []tags.Dialect{
		tags.DialectCommon, tags.DialectAPE, tags.DialectVorbis,
		tags.DialectID3, tags.DialectWM, tags.DialectDefault,
	}
	itunesChain = []tags.Dialect{
		tags.DialectCommon, tags.DialectITunes, tags.DialectID3,
		tags.DialectVorbis, tags.DialectAPE, tags.DialectWM, tags.DialectDefault,
	}
)

// chainsByFileType maps a lower-case extension to its dialect chain.
var chainsByFileType = map[string][]tags.Dialect{
	"wma": wmChain,

	"flac": vorbisChain,
	"dsf":  vorbisChain,
	"ogg":  vorbisChain,
	"oga":  vorbisChain,
	"opus": vorbisChain,
	"spx":  vorbisChain,

	"ape": apeChain,
	"mpc": apeChain,
	"wv":  apeChain,

	"m4a":  itunesChain,
	"m4b":  itunesChain,
	"m4r":  itunesChain,
	"mp4":  itunesChain,
	"aac":  itunesChain,
	"alac": itunesChain,
}

// ChainFor returns the dialects queried for path, in priority order.
// The returned slice must not be modified.
func ChainFor(path string) []tags.Dialect {
	if c, ok := chainsByFileType[tags.FileType(path)]; ok {
		return c
	}
	return defaultChain
}
