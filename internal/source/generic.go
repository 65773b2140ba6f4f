package source

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/llehouerou/go-m4a"

	"github.com/llehouerou/metaread/internal/decode"
	"github.com/llehouerou/metaread/internal/tags"
)

// Generic reads MP4 and Ogg files through dhowden/tag. Container
// properties come from go-m4a and the Ogg page headers.
type Generic struct{}

func NewGeneric() *Generic { return &Generic{} }

func (s *Generic) ListRawTags(ctx context.Context, path string) ([]Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := readDhowden(f)
	if err != nil {
		return nil, err
	}
	return dhowdenTags(m), nil
}

func (s *Generic) BestAudioStreamTags(context.Context, string) ([]Tag, error) {
	return nil, nil
}

func (s *Generic) AttachedPicture(ctx context.Context, path string) (*tags.Art, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return dhowdenArt(path)
}

func (s *Generic) Probe(ctx context.Context, path string) (Probe, error) {
	if err := ctx.Err(); err != nil {
		return Probe{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Probe{}, err
	}
	defer f.Close()

	switch "." + tags.FileType(path) {
	case tags.ExtM4A, tags.ExtM4B, tags.ExtM4R, tags.ExtMP4, tags.ExtALAC:
		return probeM4A(f)
	case tags.ExtOGG, tags.ExtOGA, tags.ExtOPUS, tags.ExtSPX:
		return probeOgg(f)
	}
	return Probe{}, fmt.Errorf("%w: %s", ErrUnsupported, path)
}

func probeM4A(f *os.File) (Probe, error) {
	container, err := m4a.Open(f)
	if err != nil {
		return Probe{}, fmt.Errorf("open m4a: %w", err)
	}

	p := Probe{
		FormatName:     "mov,mp4,m4a,3gp,3g2,mj2",
		FileType:       "QuickTime / MOV",
		SampleRate:     int(container.SampleRate()),
		Channels:       int(container.Channels()),
		HasAudioStream: true,
	}
	switch container.Codec() {
	case m4a.CodecAAC:
		p.AudioFormat = "AAC (Advanced Audio Coding)"
	case m4a.CodecALAC:
		p.AudioFormat = "ALAC (Apple Lossless Audio Codec)"
	case m4a.CodecUnknown:
		p.AudioFormat = "unknown"
		p.HasAudioStream = false
	}
	if d := container.Duration().Seconds(); d > 0 {
		p.Duration = d
		p.DurationReliable = true
	}
	return p, nil
}

func probeOgg(f *os.File) (Probe, error) {
	info, err := decode.ProbeOgg(f)
	if errors.Is(err, decode.ErrUnsupported) {
		// Speex and FLAC-in-Ogg carry tags but no codec we decode.
		return Probe{FormatName: "ogg", FileType: "Ogg", HasAudioStream: true}, nil
	}
	if err != nil {
		return Probe{}, err
	}

	p := Probe{
		FormatName:     "ogg",
		FileType:       "Ogg",
		AudioFormat:    info.Codec,
		SampleRate:     info.SampleRate,
		Channels:       info.Channels,
		HasAudioStream: true,
	}
	if d := info.Duration(); d > 0 {
		p.Duration = d
		p.DurationReliable = true
	}
	return p, nil
}
