package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/llehouerou/metaread/internal/tags"
)

// rawFormats are elementary streams whose duration is estimated from
// the bitrate.
var rawFormats = map[string]struct{}{
	"aac": {}, "adts": {}, "ac3": {}, "dts": {}, "mp2": {},
}

// IsRawFormat reports whether a probe format name is an elementary
// stream without a container header.
func IsRawFormat(formatName string) bool {
	for name := range strings.SplitSeq(formatName, ",") {
		if _, ok := rawFormats[name]; ok {
			return true
		}
	}
	return false
}

// FFprobe shells out to ffprobe. It reads every container ffmpeg knows,
// including WMA, APE, Musepack and WavPack.
type FFprobe struct {
	bin string

	mu       sync.Mutex
	lastPath string
	last     *ffprobeOutput
}

// NewFFprobe returns an FFprobe using bin, or ffprobe from PATH when bin
// is empty. It fails when the binary cannot be found.
func NewFFprobe(bin string) (*FFprobe, error) {
	if bin == "" {
		bin = "ffprobe"
	}
	resolved, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}
	return &FFprobe{bin: resolved}, nil
}

func (s *FFprobe) ListRawTags(ctx context.Context, path string) ([]Tag, error) {
	out, err := s.run(ctx, path)
	if err != nil {
		return nil, err
	}
	return out.Format.Tags, nil
}

func (s *FFprobe) BestAudioStreamTags(ctx context.Context, path string) ([]Tag, error) {
	out, err := s.run(ctx, path)
	if err != nil {
		return nil, err
	}
	if st := out.bestAudioStream(); st != nil {
		return st.Tags, nil
	}
	return nil, nil
}

func (s *FFprobe) Probe(ctx context.Context, path string) (Probe, error) {
	out, err := s.run(ctx, path)
	if err != nil {
		return Probe{}, err
	}

	p := Probe{
		FormatName: out.Format.FormatName,
		FileType:   out.Format.FormatLongName,
	}
	if st := out.bestAudioStream(); st != nil {
		p.HasAudioStream = true
		p.AudioFormat = st.CodecLongName
		p.Channels = st.Channels
		p.SampleRate, _ = strconv.Atoi(st.SampleRate)
	}
	for _, st := range out.Streams {
		if st.CodecType == "video" && st.Disposition.AttachedPic == 0 {
			p.HasVideo = true
		}
	}
	if d, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil && d > 0 {
		p.Duration = d
		p.DurationReliable = !IsRawFormat(p.FormatName)
	}
	return p, nil
}

// AttachedPicture copies the attached_pic stream out with ffmpeg.
func (s *FFprobe) AttachedPicture(ctx context.Context, path string) (*tags.Art, error) {
	out, err := s.run(ctx, path)
	if err != nil {
		return nil, err
	}

	for _, st := range out.Streams {
		if st.Disposition.AttachedPic == 0 {
			continue
		}
		cmd := exec.CommandContext(ctx, s.ffmpegBin(), "-v", "quiet", "-i", path,
			"-map", "0:"+strconv.Itoa(st.Index), "-c", "copy", "-f", "image2pipe", "-")
		var stdout bytes.Buffer
		cmd.Stdout = &stdout
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("ffmpeg extract picture: %w", err)
		}
		return newArt(stdout.Bytes(), ""), nil
	}
	return nil, nil
}

func (s *FFprobe) ffmpegBin() string {
	dir, base := filepath.Split(s.bin)
	return filepath.Join(dir, strings.Replace(base, "ffprobe", "ffmpeg", 1))
}

// run executes ffprobe once per path. The reader asks for probe, tags and
// picture of the same file in a row, so the last result is kept.
func (s *FFprobe) run(ctx context.Context, path string) (*ffprobeOutput, error) {
	s.mu.Lock()
	if s.lastPath == path && s.last != nil {
		out := s.last
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	cmd := exec.CommandContext(ctx, s.bin, "-v", "quiet", "-print_format", "json",
		"-show_format", "-show_streams", path)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var out ffprobeOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("decode ffprobe output: %w", err)
	}
	if out.Format.FormatName == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}

	s.mu.Lock()
	s.lastPath, s.last = path, &out
	s.mu.Unlock()
	return &out, nil
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  struct {
		FormatName     string      `json:"format_name"`
		FormatLongName string      `json:"format_long_name"`
		Duration       string      `json:"duration"`
		Tags           orderedTags `json:"tags"`
	} `json:"format"`
}

type ffprobeStream struct {
	Index         int    `json:"index"`
	CodecType     string `json:"codec_type"`
	CodecName     string `json:"codec_name"`
	CodecLongName string `json:"codec_long_name"`
	SampleRate    string `json:"sample_rate"`
	Channels      int    `json:"channels"`
	Disposition   struct {
		Default     int `json:"default"`
		AttachedPic int `json:"attached_pic"`
	} `json:"disposition"`
	Tags orderedTags `json:"tags"`
}

// bestAudioStream prefers the default audio stream, then the first one.
func (o *ffprobeOutput) bestAudioStream() *ffprobeStream {
	var first *ffprobeStream
	for i := range o.Streams {
		st := &o.Streams[i]
		if st.CodecType != "audio" {
			continue
		}
		if st.Disposition.Default == 1 {
			return st
		}
		if first == nil {
			first = st
		}
	}
	return first
}

// orderedTags decodes a JSON object of strings keeping key order.
type orderedTags []Tag

func (t *orderedTags) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("ffprobe tags: expected object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		*t = append(*t, textTag(key, fmt.Sprint(value)))
	}
	_, err = dec.Token()
	return err
}
