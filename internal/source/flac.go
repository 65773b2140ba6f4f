package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"

	"github.com/llehouerou/metaread/internal/decode"
	"github.com/llehouerou/metaread/internal/tags"
)

var errNoStreamInfo = errors.New("flac: missing STREAMINFO block")

// FLAC reads native FLAC metadata blocks.
type FLAC struct{}

func NewFLAC() *FLAC { return &FLAC{} }

// ListRawTags returns the Vorbis comments in block order.
func (s *FLAC) ListRawTags(ctx context.Context, path string) ([]Tag, error) {
	f, err := parseFLAC(ctx, path)
	if err != nil {
		return nil, err
	}

	var out []Tag
	found := false
	for _, meta := range f.Meta {
		if meta.Type != goflac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return nil, fmt.Errorf("parse vorbis comments: %w", err)
		}
		found = true
		for _, c := range cmts.Comments {
			key, value, ok := strings.Cut(c, "=")
			if !ok || key == "" {
				continue
			}
			out = append(out, textTag(key, value))
		}
	}
	if !found {
		return nil, ErrNoTags
	}
	return out, nil
}

func (s *FLAC) BestAudioStreamTags(context.Context, string) ([]Tag, error) {
	return nil, nil
}

// AttachedPicture returns the front cover PICTURE block, else the first one.
func (s *FLAC) AttachedPicture(ctx context.Context, path string) (*tags.Art, error) {
	f, err := parseFLAC(ctx, path)
	if err != nil {
		return nil, err
	}

	var first *tags.Art
	for _, meta := range f.Meta {
		if meta.Type != goflac.Picture {
			continue
		}
		pic, err := flacpicture.ParseFromMetaDataBlock(*meta)
		if err != nil {
			continue
		}
		art := newArt(pic.ImageData, pic.MIME)
		if art == nil {
			continue
		}
		if pic.PictureType == flacpicture.PictureTypeFrontCover {
			return art, nil
		}
		if first == nil {
			first = art
		}
	}
	return first, nil
}

// Probe reads STREAMINFO. The duration is exact when the encoder recorded
// the total sample count.
func (s *FLAC) Probe(ctx context.Context, path string) (Probe, error) {
	f, err := parseFLAC(ctx, path)
	if err != nil {
		return Probe{}, err
	}

	for _, meta := range f.Meta {
		if meta.Type != goflac.StreamInfo {
			continue
		}
		info, err := parseStreamInfo(meta.Data)
		if err != nil {
			return Probe{}, err
		}
		p := Probe{
			FormatName:     "flac",
			FileType:       "raw FLAC",
			AudioFormat:    "FLAC (Free Lossless Audio Codec)",
			SampleRate:     info.sampleRate,
			Channels:       info.channels,
			HasAudioStream: true,
		}
		if info.sampleRate > 0 && info.totalSamples > 0 {
			p.Duration = float64(info.totalSamples) / float64(info.sampleRate)
			p.DurationReliable = true
		}
		return p, nil
	}
	return Probe{}, errNoStreamInfo
}

type streamInfo struct {
	sampleRate    int
	channels      int
	bitsPerSample int
	totalSamples  int64
}

// parseStreamInfo decodes the packed STREAMINFO fields.
// Bytes 10-13: sample rate (20 bits), channels-1 (3 bits), bps-1 (5 bits);
// bytes 13-17: total samples (36 bits).
func parseStreamInfo(data []byte) (streamInfo, error) {
	if len(data) < 18 {
		return streamInfo{}, errNoStreamInfo
	}
	return streamInfo{
		sampleRate:    int(data[10])<<12 | int(data[11])<<4 | int(data[12])>>4,
		channels:      int(data[12]>>1&0x07) + 1,
		bitsPerSample: (int(data[12])&0x01)<<4 | int(data[13])>>4 + 1,
		totalSamples: int64(data[13]&0x0F)<<32 | int64(data[14])<<24 |
			int64(data[15])<<16 | int64(data[16])<<8 | int64(data[17]),
	}, nil
}

// parseFLAC parses the metadata blocks, skipping an ID3v2 header some
// taggers prepend to FLAC files.
func parseFLAC(ctx context.Context, path string) (*goflac.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := goflac.ParseFile(path)
	if err == nil {
		return f, nil
	}

	r, openErr := os.Open(path)
	if openErr != nil {
		return nil, openErr
	}
	defer r.Close()

	skipped, skipErr := decode.SkipID3v2(r)
	if skipErr != nil || !skipped {
		return nil, fmt.Errorf("parse flac: %w", err)
	}
	f, err = goflac.ParseBytes(r)
	if err != nil {
		return nil, fmt.Errorf("parse flac: %w", err)
	}
	return f, nil
}
