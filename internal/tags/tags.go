// Package tags resolves audio file tags into one canonical record.
// Raw tags from any tagging dialect (ID3, iTunes, Vorbis, APEv2, WM/ASF
// and container-level tags) are drained into per-dialect buckets and read
// back through a uniform Parser contract.
package tags

import (
	"path/filepath"
	"strings"
)

// File extensions recognized as audio.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOPUS = ".opus"
	ExtOGG  = ".ogg"
	ExtOGA  = ".oga"
	ExtSPX  = ".spx"
	ExtM4A  = ".m4a"
	ExtM4B  = ".m4b"
	ExtM4R  = ".m4r"
	ExtMP4  = ".mp4"
	ExtAAC  = ".aac"
	ExtALAC = ".alac"
	ExtWMA  = ".wma"
	ExtAPE  = ".ape"
	ExtMPC  = ".mpc"
	ExtWV   = ".wv"
	ExtDSF  = ".dsf"
	ExtWAV  = ".wav"
	ExtAIFF = ".aiff"
	ExtAIF  = ".aif"
	ExtAC3  = ".ac3"
	ExtDTS  = ".dts"
	ExtMP2  = ".mp2"
)

var musicExtensions = map[string]struct{}{
	ExtMP3: {}, ExtFLAC: {}, ExtOPUS: {}, ExtOGG: {}, ExtOGA: {}, ExtSPX: {},
	ExtM4A: {}, ExtM4B: {}, ExtM4R: {}, ExtMP4: {}, ExtAAC: {}, ExtALAC: {},
	ExtWMA: {}, ExtAPE: {}, ExtMPC: {}, ExtWV: {}, ExtDSF: {}, ExtWAV: {},
	ExtAIFF: {}, ExtAIF: {}, ExtAC3: {}, ExtDTS: {}, ExtMP2: {},
}

// FileType returns the lower-case extension of path without the dot.
func FileType(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// IsMusicFile returns true if the path has a supported audio extension.
func IsMusicFile(path string) bool {
	_, ok := musicExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
