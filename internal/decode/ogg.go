package decode

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/vorbis"
	"github.com/jj11hh/opus"
)

const (
	opusSampleRate   = 48000
	opusMaxFrameSize = 5760
	oggTailSearch    = 64 * 1024
)

var (
	errInvalidOggMagic   = errors.New("ogg: invalid capture pattern")
	errInvalidOggVersion = errors.New("ogg: unsupported version")
	errInvalidOpusHead   = errors.New("opus: invalid OpusHead packet")
	errInvalidVorbisHead = errors.New("vorbis: invalid identification header")
)

// oggPageHeader represents the header of an Ogg page.
type oggPageHeader struct {
	GranulePos   int64
	SerialNumber uint32
	SequenceNum  uint32
	NumSegments  uint8
	SegmentTable []uint8
}

// parseOggPageHeader reads and parses an Ogg page header from the reader.
func parseOggPageHeader(r io.Reader) (*oggPageHeader, error) {
	var buf [27]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	if string(buf[0:4]) != "OggS" {
		return nil, errInvalidOggMagic
	}
	if buf[4] != 0 {
		return nil, errInvalidOggVersion
	}

	hdr := &oggPageHeader{
		GranulePos:   int64(binary.LittleEndian.Uint64(buf[6:14])),
		SerialNumber: binary.LittleEndian.Uint32(buf[14:18]),
		SequenceNum:  binary.LittleEndian.Uint32(buf[18:22]),
		NumSegments:  buf[26],
	}
	if hdr.NumSegments > 0 {
		hdr.SegmentTable = make([]uint8, hdr.NumSegments)
		if _, err := io.ReadFull(r, hdr.SegmentTable); err != nil {
			return nil, err
		}
	}
	return hdr, nil
}

// oggPacketReader reassembles packets across page boundaries.
type oggPacketReader struct {
	r       *bufio.Reader
	partial []byte
	queue   [][]byte
}

func newOggPacketReader(r io.Reader) *oggPacketReader {
	return &oggPacketReader{r: bufio.NewReader(r)}
}

// next returns the next complete packet, or io.EOF at the end of the
// stream. A truncated last page ends the stream.
func (p *oggPacketReader) next() ([]byte, error) {
	for len(p.queue) == 0 {
		if err := p.readPage(); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, io.EOF
			}
			return nil, err
		}
	}
	pkt := p.queue[0]
	p.queue = p.queue[1:]
	return pkt, nil
}

func (p *oggPacketReader) readPage() error {
	hdr, err := parseOggPageHeader(p.r)
	if err != nil {
		return err
	}
	size := 0
	for _, l := range hdr.SegmentTable {
		size += int(l)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(p.r, body); err != nil {
		return err
	}

	pos := 0
	for _, l := range hdr.SegmentTable {
		p.partial = append(p.partial, body[pos:pos+int(l)]...)
		pos += int(l)
		// A lacing value below 255 ends the packet.
		if l < 255 {
			p.queue = append(p.queue, p.partial)
			p.partial = nil
		}
	}
	return nil
}

// OggInfo is the stream layout read from the Ogg headers.
type OggInfo struct {
	Codec       string
	SampleRate  int
	Channels    int
	PreSkip     int
	LastGranule int64
}

// Duration is the playable length in seconds derived from the last
// granule position.
func (i OggInfo) Duration() float64 {
	if i.SampleRate <= 0 || i.LastGranule <= int64(i.PreSkip) {
		return 0
	}
	return float64(i.LastGranule-int64(i.PreSkip)) / float64(i.SampleRate)
}

// ProbeOgg reads the identification header and the granule position of
// the last page. It returns ErrUnsupported for codecs other than Opus
// and Vorbis.
func ProbeOgg(r io.ReadSeeker) (OggInfo, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return OggInfo{}, err
	}
	first, err := newOggPacketReader(r).next()
	if err != nil {
		return OggInfo{}, fmt.Errorf("ogg: %w", err)
	}
	info, err := parseIdentification(first)
	if err != nil {
		return OggInfo{}, err
	}
	info.LastGranule, err = lastGranule(r)
	if err != nil {
		return OggInfo{}, err
	}
	return info, nil
}

func parseIdentification(packet []byte) (OggInfo, error) {
	switch {
	case len(packet) >= 8 && string(packet[:8]) == "OpusHead":
		if len(packet) < 19 {
			return OggInfo{}, errInvalidOpusHead
		}
		return OggInfo{
			Codec:      "Opus",
			SampleRate: opusSampleRate,
			Channels:   int(packet[9]),
			PreSkip:    int(binary.LittleEndian.Uint16(packet[10:12])),
		}, nil
	case len(packet) >= 7 && packet[0] == 0x01 && string(packet[1:7]) == "vorbis":
		if len(packet) < 16 {
			return OggInfo{}, errInvalidVorbisHead
		}
		return OggInfo{
			Codec:      "Vorbis",
			SampleRate: int(binary.LittleEndian.Uint32(packet[12:16])),
			Channels:   int(packet[11]),
		}, nil
	}
	return OggInfo{}, fmt.Errorf("%w: ogg codec", ErrUnsupported)
}

// lastGranule scans the tail of the stream backwards for the last page
// header.
func lastGranule(r io.ReadSeeker) (int64, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	searchSize := min(int64(oggTailSearch), size)
	if _, err := r.Seek(-searchSize, io.SeekEnd); err != nil {
		return 0, err
	}
	buf := make([]byte, searchSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, err
	}
	buf = buf[:n]

	for i := len(buf) - 27; i >= 0; i-- {
		if string(buf[i:i+4]) == "OggS" && buf[i+4] == 0 {
			return int64(binary.LittleEndian.Uint64(buf[i+6 : i+14])), nil
		}
	}
	return 0, errors.New("ogg: could not determine last granule position")
}

// countOgg decodes every audio packet of the first logical stream.
func countOgg(ctx context.Context, r io.ReadSeekCloser) (int64, float64, error) {
	packets := newOggPacketReader(r)
	first, err := packets.next()
	if err != nil {
		return 0, 0, fmt.Errorf("ogg: %w", err)
	}
	info, err := parseIdentification(first)
	if err != nil {
		return 0, 0, err
	}
	if info.Channels <= 0 {
		return 0, 0, fmt.Errorf("ogg: invalid channel count %d", info.Channels)
	}

	var frames int64
	switch info.Codec {
	case "Opus":
		frames, err = countOpus(ctx, packets, info)
	default:
		frames, err = countVorbis(ctx, packets, first, info)
	}
	if err != nil {
		return 0, 0, err
	}
	return frames, float64(info.SampleRate), nil
}

func countOpus(ctx context.Context, packets *oggPacketReader, info OggInfo) (int64, error) {
	decoder, err := opus.NewDecoder(opusSampleRate, info.Channels)
	if err != nil {
		return 0, fmt.Errorf("opus: %w", err)
	}
	// OpusTags follows OpusHead.
	if _, err := packets.next(); err != nil {
		return 0, fmt.Errorf("opus: %w", err)
	}

	pcm := make([]float32, opusMaxFrameSize*info.Channels)
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		pkt, err := packets.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("opus: %w", err)
		}
		if len(pkt) == 0 {
			continue
		}
		n, err := decoder.DecodeFloat32(pkt, pcm)
		if err != nil {
			// Skip invalid packets
			continue
		}
		total += int64(n)
	}
	return max(total-int64(info.PreSkip), 0), nil
}

func countVorbis(ctx context.Context, packets *oggPacketReader, ident []byte, _ OggInfo) (int64, error) {
	decoder := &vorbis.Decoder{}
	if err := decoder.ReadHeader(ident); err != nil {
		return 0, fmt.Errorf("vorbis: %w", err)
	}
	// Comment and setup headers.
	for range 2 {
		pkt, err := packets.next()
		if err != nil {
			return 0, fmt.Errorf("vorbis: %w", err)
		}
		if err := decoder.ReadHeader(pkt); err != nil {
			return 0, fmt.Errorf("vorbis: %w", err)
		}
	}

	channels := decoder.Channels()
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		pkt, err := packets.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("vorbis: %w", err)
		}
		if len(pkt) == 0 {
			continue
		}
		samples, err := decoder.Decode(pkt)
		if err != nil {
			continue
		}
		total += int64(len(samples) / channels)
	}
	return total, nil
}
