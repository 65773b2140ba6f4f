package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/juho05/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/metaread/internal/config"
	"github.com/llehouerou/metaread/internal/source"
	"github.com/llehouerou/metaread/internal/tags"
)

func TestMain(m *testing.M) {
	log.SetSeverity(log.NONE)
	os.Exit(m.Run())
}

// fakeSource titles every file after its base name. Files named
// "broken*" fail to open; files named "raw*" have no duration.
type fakeSource struct {
	art *tags.Art
}

func (fakeSource) Probe(_ context.Context, path string) (source.Probe, error) {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "broken"):
		return source.Probe{}, errors.New("invalid data")
	case strings.HasPrefix(base, "raw"):
		return source.Probe{HasAudioStream: true}, nil
	}
	return source.Probe{Duration: 125, DurationReliable: true, HasAudioStream: true}, nil
}

func (fakeSource) ListRawTags(_ context.Context, path string) ([]source.Tag, error) {
	return []source.Tag{
		{Key: "title", Value: tags.TextValue(filepath.Base(path))},
		{Key: "artist", Value: tags.TextValue("Band")},
		{Key: "TALB", Value: tags.TextValue("Album")},
		{Key: "TCOP", Value: tags.TextValue("2024 Label")},
	}, nil
}

func (fakeSource) BestAudioStreamTags(context.Context, string) ([]source.Tag, error) {
	return nil, nil
}

func (s fakeSource) AttachedPicture(context.Context, string) (*tags.Art, error) {
	return s.art, nil
}

type fakeDecoder struct{}

func (fakeDecoder) FrameCount(context.Context, string) (int64, float64, error) {
	return 44100 * 7, 44100, nil
}

func run(t *testing.T, src fakeSource, args ...string) (string, string, error) {
	t.Helper()
	cmd := New(WithConfig(&config.Config{}), WithSource(src), WithDecoder(fakeDecoder{}))
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--log-level", "0"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return ansi.Strip(stdout.String()), stderr.String(), err
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
}

func TestRead_Text(t *testing.T) {
	out, _, err := run(t, fakeSource{}, "read", "/music/song.mp3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Band - song.mp3\n"), out)
	assert.Contains(t, out, "Duration  2:05\n")
	assert.NotContains(t, out, "Generic")
}

func TestRead_Generic(t *testing.T) {
	out, _, err := run(t, fakeSource{}, "read", "--generic", "/music/song.mp3")
	require.NoError(t, err)
	assert.Contains(t, out, "Generic\n  Copyright  2024 Label\n")
}

func TestRead_JSON(t *testing.T) {
	out, _, err := run(t, fakeSource{}, "read", "-f", "json", "/music/a.mp3", "/music/b.mp3")
	require.NoError(t, err)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "a.mp3", docs[0]["title"])
	assert.Equal(t, "b.mp3", docs[1]["title"])
	assert.NotContains(t, docs[0], "generic")
}

func TestRead_YAML(t *testing.T) {
	out, _, err := run(t, fakeSource{}, "read", "--format", "yaml", "/music/a.mp3")
	require.NoError(t, err)
	assert.Contains(t, out, "title: a.mp3\n")
}

func TestRead_Accurate(t *testing.T) {
	out, _, err := run(t, fakeSource{}, "read", "/music/raw.mp3")
	require.NoError(t, err)
	assert.Contains(t, out, "Duration  unknown (pending)\n")

	out, _, err = run(t, fakeSource{}, "read", "--accurate", "/music/raw.mp3")
	require.NoError(t, err)
	assert.Contains(t, out, "Duration  0:07\n")
}

func TestRead_AccurateManyFiles(t *testing.T) {
	workers := 2
	cmd := New(
		WithConfig(&config.Config{Scan: config.ScanConfig{DurationWorkers: workers}}),
		WithSource(fakeSource{}),
		WithDecoder(fakeDecoder{}),
	)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(io.Discard)

	args := []string{"--log-level", "0", "read", "--accurate", "--format", "json"}
	for i := range 6 {
		args = append(args, fmt.Sprintf("/music/raw%d.mp3", i))
	}
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	var docs []map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &docs))
	require.Len(t, docs, 6)
	for i, doc := range docs {
		assert.Equal(t, fmt.Sprintf("raw%d.mp3", i), doc["title"])
		assert.InDelta(t, 7.0, doc["duration"], 1e-9)
		assert.Equal(t, true, doc["duration_accurate"])
	}
}

func TestRead_ReportsFailedFiles(t *testing.T) {
	out, stderr, err := run(t, fakeSource{}, "read", "/music/a.mp3", "/music/broken.mp3")
	require.ErrorIs(t, err, errFailed)
	assert.Contains(t, out, "a.mp3")
	assert.Contains(t, stderr, "Failed to open audio container '/music/broken.mp3': invalid data")
}

func TestRead_UnknownFormat(t *testing.T) {
	_, _, err := run(t, fakeSource{}, "read", "-f", "xml", "/music/a.mp3")
	assert.Error(t, err)
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.mp3", "raw.flac", "broken.ogg", "notes.txt")

	out, _, err := run(t, fakeSource{}, "scan", "--list", dir)
	require.NoError(t, err)
	assert.Equal(t, "2 tracks, 1 skipped\n  2:05  Band - a.mp3\n  0:07  Band - raw.flac\n", out)
}

func TestScan_ProgressBar(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.mp3", "b.mp3")

	out, stderr, err := run(t, fakeSource{}, "scan", dir)
	require.NoError(t, err)
	assert.Equal(t, "2 tracks\n", out)
	assert.Contains(t, stderr, "2 / 2")
}

func TestScan_JSON(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.mp3")

	out, _, err := run(t, fakeSource{}, "scan", "--no-progress", "-f", "json", dir)
	require.NoError(t, err)
	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "a.mp3", docs[0]["title"])
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestArt(t *testing.T) {
	data := testPNG(t, 64, 32)
	src := fakeSource{art: &tags.Art{Data: data, MIMEType: "image/png"}}

	t.Run("original", func(t *testing.T) {
		dir := t.TempDir()
		_, _, err := run(t, src, "art", filepath.Join(dir, "a.mp3"))
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(dir, "cover.png"))
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("resized", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "small.png")
		_, _, err := run(t, src, "art", "/music/a.mp3", "-o", out, "--size", "16")
		require.NoError(t, err)

		f, err := os.Open(out)
		require.NoError(t, err)
		defer f.Close()
		cfg, format, err := image.DecodeConfig(f)
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 16, cfg.Width)
		assert.Equal(t, 8, cfg.Height)
	})

	t.Run("stdout", func(t *testing.T) {
		cmd := New(WithConfig(&config.Config{}), WithSource(src), WithDecoder(fakeDecoder{}))
		var stdout bytes.Buffer
		cmd.SetOut(&stdout)
		cmd.SetArgs([]string{"art", "/music/a.mp3", "-o", "-"})
		require.NoError(t, cmd.Execute())
		assert.Equal(t, data, stdout.Bytes())
	})

	t.Run("missing", func(t *testing.T) {
		_, _, err := run(t, fakeSource{}, "art", "/music/a.mp3", "-o", "-")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Failed to export art '/music/a.mp3': no embedded art")
	})
}

func TestChain(t *testing.T) {
	out, _, err := run(t, fakeSource{}, "chain", "/music/a.flac")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "/music/a.flac\n1. common\n"), out)
	assert.Contains(t, out, "a.flac")
	assert.Contains(t, out, "6. default")
}

func TestArtExtension(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/png", ".png"},
		{"IMAGE/PNG", ".png"},
		{"image/jpeg", ".jpg"},
		{"", ".jpg"},
		{"image/webp", ".webp"},
	}
	for _, tt := range tests {
		if got := artExtension(tt.mime); got != tt.want {
			t.Errorf("artExtension(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}

func TestRead_Template(t *testing.T) {
	out, _, err := run(t, fakeSource{}, "read", "-t", "{artist} / {title} / {generic.Copyright}", "/music/a.mp3", "/music/b.mp3")
	require.NoError(t, err)
	assert.Equal(t, "Band / a.mp3 / 2024 Label\nBand / b.mp3 / 2024 Label\n", out)

	_, _, err = run(t, fakeSource{}, "read", "-t", "{nope}", "/music/a.mp3")
	assert.Error(t, err)
}
