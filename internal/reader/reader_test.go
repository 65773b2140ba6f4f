package reader

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/juho05/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/metaread/internal/notify"
	"github.com/llehouerou/metaread/internal/source"
	"github.com/llehouerou/metaread/internal/tags"
)

func TestMain(m *testing.M) {
	log.SetSeverity(log.NONE)
	os.Exit(m.Run())
}

type fakeSource struct {
	probe     source.Probe
	probeErr  error
	container []source.Tag
	stream    []source.Tag
	tagsErr   error
	art       *tags.Art
}

func (f *fakeSource) Probe(context.Context, string) (source.Probe, error) {
	return f.probe, f.probeErr
}

func (f *fakeSource) ListRawTags(context.Context, string) ([]source.Tag, error) {
	return f.container, f.tagsErr
}

func (f *fakeSource) BestAudioStreamTags(context.Context, string) ([]source.Tag, error) {
	return f.stream, nil
}

func (f *fakeSource) AttachedPicture(context.Context, string) (*tags.Art, error) {
	return f.art, nil
}

type fakeDecoder struct {
	frames int64
	rate   float64
	err    error
	block  chan struct{}
	calls  atomic.Int32
}

func (d *fakeDecoder) FrameCount(ctx context.Context, _ string) (int64, float64, error) {
	d.calls.Add(1)
	if d.block != nil {
		select {
		case <-d.block:
		case <-ctx.Done():
			return 0, 0, ctx.Err()
		}
	}
	return d.frames, d.rate, d.err
}

func textTags(pairs ...string) []source.Tag {
	out := make([]source.Tag, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, source.Tag{Key: pairs[i], Value: tags.TextValue(pairs[i+1])})
	}
	return out
}

func reliableProbe(seconds float64) source.Probe {
	return source.Probe{Duration: seconds, DurationReliable: true, HasAudioStream: true}
}

func intPtr(n int) *int { return &n }

func TestChainFor(t *testing.T) {
	tests := []struct {
		path  string
		first tags.Dialect
		next  tags.Dialect
	}{
		{"a.wma", tags.DialectCommon, tags.DialectWM},
		{"a.FLAC", tags.DialectCommon, tags.DialectVorbis},
		{"a.opus", tags.DialectCommon, tags.DialectVorbis},
		{"a.mpc", tags.DialectCommon, tags.DialectAPE},
		{"a.m4a", tags.DialectCommon, tags.DialectITunes},
		{"a.mp3", tags.DialectCommon, tags.DialectID3},
		{"noext", tags.DialectCommon, tags.DialectID3},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			chain := ChainFor(tt.path)
			if chain[0] != tt.first || chain[1] != tt.next {
				t.Errorf("ChainFor(%q) = %v, want [%s %s ...]", tt.path, chain, tt.first, tt.next)
			}
			if last := chain[len(chain)-1]; last != tags.DialectDefault {
				t.Errorf("ChainFor(%q) ends with %s, want default", tt.path, last)
			}
		})
	}
}

func TestResolveEssential_CrossDialectPriority(t *testing.T) {
	src := &fakeSource{
		probe:     reliableProbe(120),
		container: textTags("TPE2", "ID3 Album Artist", "ALBUMARTIST", "Vorbis Album Artist"),
	}
	r := New(src, nil)

	flac, err := r.ResolveEssential(context.Background(), "/music/a.flac")
	require.NoError(t, err)
	require.NotNil(t, flac.AlbumArtist)
	assert.Equal(t, "Vorbis Album Artist", *flac.AlbumArtist)

	mp3, err := r.ResolveEssential(context.Background(), "/music/a.mp3")
	require.NoError(t, err)
	require.NotNil(t, mp3.AlbumArtist)
	assert.Equal(t, "ID3 Album Artist", *mp3.AlbumArtist)
}

func TestResolveEssential_StreamTagsOverrideContainer(t *testing.T) {
	src := &fakeSource{
		probe:     reliableProbe(120),
		container: textTags("title", "Container"),
		stream:    textTags("title", "Stream"),
	}

	tr, err := New(src, nil).ResolveEssential(context.Background(), "/music/a.ogg")
	require.NoError(t, err)
	require.NotNil(t, tr.Title)
	assert.Equal(t, "Stream", *tr.Title)
}

func TestResolveEssential_SplicesTotals(t *testing.T) {
	src := &fakeSource{
		probe: reliableProbe(120),
		container: textTags(
			"TRCK", "3",
			"TRACKTOTAL", "12",
			"TPOS", "1",
			"DISCTOTAL", "2",
		),
	}

	tr, err := New(src, nil).ResolveEssential(context.Background(), "/music/a.mp3")
	require.NoError(t, err)
	require.NotNil(t, tr.TrackNumber)
	require.NotNil(t, tr.TotalTracks)
	assert.Equal(t, 3, *tr.TrackNumber)
	assert.Equal(t, 12, *tr.TotalTracks)
	require.NotNil(t, tr.DiscNumber)
	require.NotNil(t, tr.TotalDiscs)
	assert.Equal(t, 1, *tr.DiscNumber)
	assert.Equal(t, 2, *tr.TotalDiscs)
	assert.Equal(t, "3 / 12", tr.DisplayedTrackNumber())
}

func TestResolveEssential_PairTotalWins(t *testing.T) {
	src := &fakeSource{
		probe:     reliableProbe(120),
		container: textTags("TRCK", "3/10", "TRACKTOTAL", "12"),
	}

	tr, err := New(src, nil).ResolveEssential(context.Background(), "/music/a.mp3")
	require.NoError(t, err)
	require.NotNil(t, tr.TotalTracks)
	assert.Equal(t, 10, *tr.TotalTracks)
}

func TestResolveEssential_BareTotalDoesNotHideNumber(t *testing.T) {
	tests := []struct {
		name       string
		container  []source.Tag
		wantNumber *int
		wantTotal  *int
	}{
		{
			name:       "later dialect has the number",
			container:  textTags("TRCK", "/12", "TRACKNUMBER", "5"),
			wantNumber: intPtr(5),
			wantTotal:  intPtr(12),
		},
		{
			name:       "later dialect has number and total",
			container:  textTags("TRCK", "/12", "TRACKNUMBER", "5/9"),
			wantNumber: intPtr(5),
			wantTotal:  intPtr(9),
		},
		{
			name:      "no dialect has a number",
			container: textTags("TRCK", "/12"),
			wantTotal: intPtr(12),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{probe: reliableProbe(120), container: tt.container}
			tr, err := New(src, nil).ResolveEssential(context.Background(), "/music/a.mp3")
			require.NoError(t, err)
			assert.Equal(t, tt.wantNumber, tr.TrackNumber)
			assert.Equal(t, tt.wantTotal, tr.TotalTracks)
		})
	}
}

func TestResolveEssential_CleansStrings(t *testing.T) {
	src := &fakeSource{
		probe:     reliableProbe(120),
		container: textTags("TIT2", "  Padded  ", "TALB", "   "),
	}

	tr, err := New(src, nil).ResolveEssential(context.Background(), "/music/a.mp3")
	require.NoError(t, err)
	require.NotNil(t, tr.Title)
	assert.Equal(t, "Padded", *tr.Title)
	assert.Nil(t, tr.Album)
}

func TestResolveEssential_DRM(t *testing.T) {
	src := &fakeSource{
		probe:     reliableProbe(120),
		container: textTags("WM/Protected", "1"),
	}

	tr, err := New(src, nil).ResolveEssential(context.Background(), "/music/a.wma")
	require.NoError(t, err)
	assert.True(t, tr.IsDRMProtected)

	src.container = nil
	tr, err = New(src, nil).ResolveEssential(context.Background(), "/music/a.wma")
	require.NoError(t, err)
	assert.False(t, tr.IsDRMProtected)
}

func TestResolveEssential_NoTagsIsNotAnError(t *testing.T) {
	src := &fakeSource{probe: reliableProbe(60), tagsErr: source.ErrNoTags}

	tr, err := New(src, nil).ResolveEssential(context.Background(), "/music/Band - Song.flac")
	require.NoError(t, err)
	assert.Nil(t, tr.Title)
	assert.Equal(t, "Band - Song", tr.DefaultDisplayName())
}

func TestResolveEssential_OpenError(t *testing.T) {
	cause := errors.New("invalid data found when processing input")
	tests := []struct {
		name string
		src  *fakeSource
	}{
		{"probe", &fakeSource{probeErr: cause}},
		{"tags", &fakeSource{probe: reliableProbe(1), tagsErr: cause}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(tt.src, nil).ResolveEssential(context.Background(), "/music/broken.mp3")
			require.Error(t, err)
			assert.Nil(t, tr)

			var openErr *OpenError
			require.ErrorAs(t, err, &openErr)
			assert.Equal(t, "/music/broken.mp3", openErr.Path)
			assert.ErrorIs(t, err, cause)
			assert.Contains(t, err.Error(), "Failed to open audio container '/music/broken.mp3'")
		})
	}
}

func TestResolveEssential_NonAudioMP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.mp3")
	require.NoError(t, os.WriteFile(path, []byte("shopping list: milk, eggs, bread\n"), 0o600))

	tr, err := New(source.NewComposite(), nil).ResolveEssential(context.Background(), path)
	require.Error(t, err)
	assert.Nil(t, tr)

	var openErr *OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, path, openErr.Path)
	assert.ErrorIs(t, err, source.ErrUnsupported)
}

func TestResolveEssential_Art(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}
	png := append([]byte{0x89}, []byte("PNG\r\n\x1a\n")...)

	t.Run("attached picture wins", func(t *testing.T) {
		src := &fakeSource{
			probe:     reliableProbe(1),
			container: []source.Tag{{Key: "APIC", Value: tags.BinaryValue(png)}},
			art:       &tags.Art{Data: jpeg, MIMEType: "image/jpeg"},
		}
		tr, err := New(src, nil).ResolveEssential(context.Background(), "/music/a.mp3")
		require.NoError(t, err)
		require.NotNil(t, tr.Art)
		assert.Equal(t, "image/jpeg", tr.Art.MIMEType)
	})

	t.Run("tag picture", func(t *testing.T) {
		src := &fakeSource{
			probe:     reliableProbe(1),
			container: []source.Tag{{Key: "APIC", Value: tags.BinaryValue(png)}},
		}
		tr, err := New(src, nil).ResolveEssential(context.Background(), "/music/a.mp3")
		require.NoError(t, err)
		require.NotNil(t, tr.Art)
		assert.Equal(t, "image/png", tr.Art.MIMEType)
	})

	t.Run("folder fallback", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.jpg"), jpeg, 0o600))
		path := filepath.Join(dir, "a.mp3")

		src := &fakeSource{probe: reliableProbe(1)}
		tr, err := New(src, nil).ResolveEssential(context.Background(), path)
		require.NoError(t, err)
		assert.Nil(t, tr.Art)

		tr, err = New(src, nil, WithFolderArt(true)).ResolveEssential(context.Background(), path)
		require.NoError(t, err)
		require.NotNil(t, tr.Art)
		assert.Equal(t, jpeg, tr.Art.Data)
	})
}

func TestResolveEssential_Duration(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		probe        source.Probe
		tags         []source.Tag
		wantDuration float64
		wantAccurate bool
		wantPending  bool
	}{
		{
			name:         "reliable header",
			path:         "/music/a.flac",
			probe:        reliableProbe(215.5),
			wantDuration: 215.5,
			wantAccurate: true,
		},
		{
			name:         "estimated header",
			path:         "/music/a.mp3",
			probe:        source.Probe{Duration: 180},
			wantDuration: 180,
		},
		{
			name:         "missing, tag length",
			path:         "/music/a.mp3",
			probe:        source.Probe{},
			tags:         textTags("TLEN", "181000"),
			wantDuration: 181,
		},
		{
			name:         "raw stream prefers tag length",
			path:         "/music/a.ac3",
			probe:        source.Probe{FormatName: "ac3", Duration: 100, DurationReliable: true},
			tags:         textTags("duration", "00:03:10"),
			wantDuration: 190,
		},
		{
			name:         "missing everywhere",
			path:         "/music/a.mp3",
			probe:        source.Probe{},
			wantDuration: 0,
			wantPending:  true,
		},
		{
			name:         "raw stream without tag",
			path:         "/music/a.aac",
			probe:        source.Probe{FormatName: "aac", Duration: 100},
			wantDuration: 100,
			wantPending:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{probe: tt.probe, container: tt.tags}
			tr, err := New(src, nil).ResolveEssential(context.Background(), tt.path)
			require.NoError(t, err)

			assert.InDelta(t, tt.wantDuration, tr.Duration(), 1e-9)
			assert.Equal(t, tt.wantAccurate, tr.DurationIsAccurate())
			assert.Equal(t, tt.wantPending, NeedsBruteForce(tr))
		})
	}
}

func TestResolveSecondary(t *testing.T) {
	src := &fakeSource{
		probe: reliableProbe(1),
		container: []source.Tag{
			{Key: "TIT2", Value: tags.TextValue("Song")},
			{Key: "TCOP", Value: tags.TextValue("(c) Label")},
			{Key: "USLT", Value: tags.TextValue("la la la")},
			{Key: "replaygain_track_gain", Value: tags.TextValue("-6.5 dB")},
			{Key: "GEOB", Value: tags.BinaryValue([]byte{0x00, 0xFF, 0xFE})},
		},
	}
	r := New(src, nil)

	tr, err := r.Resolve(context.Background(), "/music/a.mp3")
	require.NoError(t, err)

	require.NotNil(t, tr.Lyrics)
	assert.Equal(t, "la la la", *tr.Lyrics)
	assert.Equal(t, []string{"Copyright", "Replaygain Track Gain"}, tr.GenericMetadata.Keys())
	v, _ := tr.GenericMetadata.Get("Copyright")
	assert.Equal(t, "(c) Label", v)
}

func TestResolveSecondary_SidecarLyrics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.mp3")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lrc"), []byte("[00:01.00]hello\n"), 0o600))

	src := &fakeSource{probe: reliableProbe(1), container: textTags("TIT2", "Song")}

	tr, err := New(src, nil).Resolve(context.Background(), path)
	require.NoError(t, err)
	assert.Nil(t, tr.Lyrics)

	tr, err = New(src, nil, WithSidecarLyrics(true)).Resolve(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, tr.Lyrics)
	assert.Equal(t, "[00:01.00]hello", *tr.Lyrics)

	// Embedded lyrics win.
	src.container = textTags("TIT2", "Song", "USLT", "embedded")
	tr, err = New(src, nil, WithSidecarLyrics(true)).Resolve(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "embedded", *tr.Lyrics)
}

func TestResolve_Idempotent(t *testing.T) {
	src := &fakeSource{
		probe: reliableProbe(200),
		container: textTags(
			"TIT2", "Song", "TPE1", "Band", "TRCK", "2/9", "TYER", "2004",
			"TCON", "(17)", "TCOP", "(c)", "mood", "calm",
		),
	}
	r := New(src, nil)

	a, err := r.Resolve(context.Background(), "/music/a.mp3")
	require.NoError(t, err)
	b, err := r.Resolve(context.Background(), "/music/a.mp3")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Title, b.Title)
	assert.Equal(t, a.Artist, b.Artist)
	assert.Equal(t, a.Genre, b.Genre)
	assert.Equal(t, a.Year, b.Year)
	assert.Equal(t, a.TrackNumber, b.TrackNumber)
	assert.Equal(t, a.TotalTracks, b.TotalTracks)
	assert.Equal(t, a.GenericMetadata.Keys(), b.GenericMetadata.Keys())
	for k, v := range a.GenericMetadata.All() {
		other, _ := b.GenericMetadata.Get(k)
		assert.Equal(t, v, other, k)
	}
	assert.InDelta(t, a.Duration(), b.Duration(), 1e-9)
}

func TestChain(t *testing.T) {
	src := &fakeSource{
		probe:     reliableProbe(1),
		container: textTags("title", "Song", "TPUB", "Label", "whatever", "x"),
	}

	entries, err := New(src, nil).Chain(context.Background(), "/music/a.mp3")
	require.NoError(t, err)
	require.Len(t, entries, len(ChainFor("a.mp3")))

	assert.Equal(t, tags.DialectCommon, entries[0].Dialect)
	assert.True(t, entries[0].Relevant)
	assert.Equal(t, []string{"title"}, entries[0].Essential.Keys())

	assert.Equal(t, tags.DialectID3, entries[1].Dialect)
	assert.False(t, entries[1].Relevant)
	assert.Equal(t, []string{"tpub"}, entries[1].Generic.Keys())
	assert.Equal(t, "Publisher", entries[1].Labels["tpub"])

	last := entries[len(entries)-1]
	assert.Equal(t, tags.DialectDefault, last.Dialect)
	assert.Equal(t, []string{"whatever"}, last.Generic.Keys())
}

type recordingSink struct {
	mu     sync.Mutex
	events []notify.Event
}

func (s *recordingSink) Notify(e notify.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) snapshot() []notify.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Event(nil), s.events...)
}

func TestComputeAccurateDuration(t *testing.T) {
	src := &fakeSource{probe: source.Probe{}}
	dec := &fakeDecoder{frames: 441000, rate: 44100}
	r := New(src, dec)

	tr, err := r.ResolveEssential(context.Background(), "/music/a.mp3")
	require.NoError(t, err)
	require.True(t, NeedsBruteForce(tr))

	// Another holder of the same record sees the update.
	held := tr

	sink := &recordingSink{}
	<-r.Schedule(context.Background(), tr, sink)

	assert.InDelta(t, 10.0, held.Duration(), 1e-9)
	assert.True(t, held.DurationIsAccurate())
	assert.False(t, NeedsBruteForce(held))

	events := sink.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, notify.TrackUpdated, events[0].Type)
	assert.Same(t, tr, events[0].Track)
}

func TestComputeAccurateDuration_Failure(t *testing.T) {
	tests := []struct {
		name string
		dec  *fakeDecoder
	}{
		{"decode error", &fakeDecoder{err: errors.New("corrupt frame")}},
		{"no frames", &fakeDecoder{rate: 44100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := tags.NewTrack("/music/a.mp3")
			tr.SetDuration(12, false)
			tr.MarkDurationPending()

			sink := &recordingSink{}
			err := New(&fakeSource{}, tt.dec).ComputeAccurateDuration(context.Background(), tr, sink)
			require.Error(t, err)

			assert.InDelta(t, 12.0, tr.Duration(), 1e-9)
			assert.False(t, tr.DurationIsAccurate())
			assert.Empty(t, sink.snapshot())
		})
	}
}

func TestSchedule_Canceled(t *testing.T) {
	dec := &fakeDecoder{frames: 100, rate: 10, block: make(chan struct{})}
	tr := tags.NewTrack("/music/a.mp3")
	tr.MarkDurationPending()

	ctx, cancel := context.WithCancel(context.Background())
	sink := &recordingSink{}
	done := New(&fakeSource{}, dec).Schedule(ctx, tr, sink)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Schedule did not finish after cancel")
	}
	assert.Zero(t, tr.Duration())
	assert.True(t, NeedsBruteForce(tr))
	assert.Empty(t, sink.snapshot())
}

// writeID3v1OnlyMP3 writes one silent MPEG-1 Layer III frame followed
// by an ID3v1.1 trailer.
func writeID3v1OnlyMP3(t *testing.T, path, title, artist, year string, track byte) {
	t.Helper()

	frame := make([]byte, 417)
	copy(frame, []byte{0xFF, 0xFB, 0x90, 0x00})

	field := func(s string, n int) []byte {
		b := make([]byte, n)
		copy(b, s)
		return b
	}

	var buf bytes.Buffer
	buf.Write(frame)
	buf.WriteString("TAG")
	buf.Write(field(title, 30))
	buf.Write(field(artist, 30))
	buf.Write(field("", 30))
	buf.Write(field(year, 4))
	comment := field("", 30)
	comment[29] = track
	buf.Write(comment)
	buf.WriteByte(0xFF)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func TestResolve_ID3v1OnlyMP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.mp3")
	writeID3v1OnlyMP3(t, path, "Song", "Band", "99", 4)

	r := New(source.NewComposite(), nil)
	tr, err := r.Resolve(context.Background(), path)
	require.NoError(t, err)

	require.NotNil(t, tr.Title)
	assert.Equal(t, "Song", *tr.Title)
	require.NotNil(t, tr.Artist)
	assert.Equal(t, "Band", *tr.Artist)
	require.NotNil(t, tr.Year)
	assert.Equal(t, 1999, *tr.Year)
	require.NotNil(t, tr.TrackNumber)
	assert.Equal(t, 4, *tr.TrackNumber)
	assert.Nil(t, tr.TotalTracks)
	assert.Nil(t, tr.Album)
}
