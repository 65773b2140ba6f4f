package tags

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Valid year range; values outside it are rejected, never clamped.
const (
	minYear = 1000
	maxYear = 3000
)

var (
	leadingYearRe = regexp.MustCompile(`^(\d{4})[-/.T ]`)
	mmddyyRe      = regexp.MustCompile(`^\d+-\d+-(\d+)$`)
	hmsRe         = regexp.MustCompile(`^(\d+):(\d+):(\d+(?:\.\d*)?)$`)
	msRe          = regexp.MustCompile(`^(\d+):(\d+(?:\.\d*)?)$`)
)

// Numbered is a track or disc position with an optional total.
type Numbered struct {
	Number *int
	Total  *int
}

// ParseYearNow is ParseYear pivoted on the current calendar year.
func ParseYearNow(s string) *int {
	return ParseYear(s, time.Now().Year())
}

// ParseYear extracts a year from a tag value. It accepts a plain year in
// [1000, 3000], a date starting with a four-digit year, and MM-DD-YY style
// dates. Two-digit years are expanded with a century pivot: below the
// current two-digit year means 20YY, otherwise 19YY.
func ParseYear(s string, currentYear int) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		if inYearRange(n) {
			return &n
		}
		if len(s) <= 2 && n >= 0 {
			return expandTwoDigitYear(n, currentYear)
		}
		return nil
	}

	if m := leadingYearRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && inYearRange(n) {
			return &n
		}
	}

	if m := mmddyyRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		if inYearRange(n) {
			return &n
		}
		if len(m[1]) <= 2 {
			return expandTwoDigitYear(n, currentYear)
		}
	}

	return nil
}

func inYearRange(n int) bool {
	return n >= minYear && n <= maxYear
}

func expandTwoDigitYear(yy, currentYear int) *int {
	if yy < 0 || yy > 99 {
		return nil
	}
	year := 1900 + yy
	if yy < currentYear%100 {
		year = 2000 + yy
	}
	return &year
}

// ParseDiscOrTrackNumberString parses "N" or "N / M". It returns nil when
// neither part is a number.
func ParseDiscOrTrackNumberString(s string) *Numbered {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &Numbered{Number: &n}
	}

	tokens := strings.SplitN(s, "/", 2)
	number := atoiPtr(tokens[0])
	var total *int
	if len(tokens) == 2 {
		total = atoiPtr(tokens[1])
	}
	if number == nil && total == nil {
		return nil
	}
	return &Numbered{Number: number, Total: total}
}

// ParseDiscOrTrackNumberValue parses a track or disc value that may be
// text or a binary pair.
func ParseDiscOrTrackNumberValue(v Value) *Numbered {
	if v.Text != "" {
		return ParseDiscOrTrackNumberString(v.Text)
	}
	data := v.Data
	if len(data) == 0 {
		return nil
	}

	// MP4 trkn/disk layout: 2 reserved bytes, uint16 number, uint16 total.
	if len(data) >= 6 && data[0] == 0 && data[1] == 0 {
		n := int(binary.BigEndian.Uint16(data[2:4]))
		t := int(binary.BigEndian.Uint16(data[4:6]))
		if n == 0 && t == 0 {
			return nil
		}
		out := &Numbered{}
		if n > 0 {
			out.Number = &n
		}
		if t > 0 {
			out.Total = &t
		}
		return out
	}

	vals := nonZeroBytes(data)
	switch len(vals) {
	case 0:
		return nil
	case 1:
		n := int(vals[0])
		return &Numbered{Number: &n}
	default:
		n, t := int(vals[0]), int(vals[1])
		return &Numbered{Number: &n, Total: &t}
	}
}

// ParseTotal parses a dedicated total-tracks or total-discs value.
func ParseTotal(s string) *int {
	return atoiPtr(s)
}

// ParseDuration parses integer milliseconds, floating-point seconds, or
// H:MM:SS(.fff) and MM:SS(.fff) strings into seconds.
func ParseDuration(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		d := float64(ms) / 1000.0
		return &d
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) {
			return nil
		}
		return &secs
	}
	if m := hmsRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		mins, _ := strconv.ParseFloat(m[2], 64)
		secs, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return nil
		}
		d := h*3600 + mins*60 + secs
		return &d
	}
	if m := msRe.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.ParseFloat(m[1], 64)
		secs, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil
		}
		d := mins*60 + secs
		return &d
	}
	return nil
}

// ParseBPM parses a positive tempo. Non-positive and malformed values are
// rejected.
func ParseBPM(s string) *int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n > 0 {
			return &n
		}
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		n := int(math.Round(f))
		if n > 0 {
			return &n
		}
	}
	return nil
}

// ParseBPMValue parses a tempo from text or from the first non-zero byte of
// a binary value.
func ParseBPMValue(v Value) *int {
	if v.Text != "" {
		return ParseBPM(v.Text)
	}
	if len(v.Data) >= 2 && len(v.Data) <= 4 {
		if n := DecodeBinaryNumber(v.Data); n != nil && *n > 0 {
			return n
		}
		return nil
	}
	vals := nonZeroBytes(v.Data)
	if len(vals) == 0 {
		return nil
	}
	n := int(vals[0])
	return &n
}

// ParseNumericString treats s as a number when it has no letters and at
// least one digit, e.g. "(17)" or " 17 ".
func ParseNumericString(s string) *int {
	if strings.IndexFunc(s, unicode.IsLetter) >= 0 {
		return nil
	}
	if strings.IndexFunc(s, unicode.IsDigit) < 0 {
		return nil
	}
	return atoiPtr(strings.TrimFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }))
}

// DecodeBinaryNumber reads b as a big-endian integer through its hex
// encoding.
func DecodeBinaryNumber(b []byte) *int {
	if len(b) == 0 || len(b) > 8 {
		return nil
	}
	n, err := strconv.ParseInt(hex.EncodeToString(b), 16, 64)
	if err != nil || n > math.MaxInt32 {
		return nil
	}
	out := int(n)
	return &out
}

// ParseBool parses numeric or textual boolean flags.
func ParseBool(s string) *bool {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		b := n != 0
		return &b
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return &b
	}
	return nil
}

func atoiPtr(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}

func nonZeroBytes(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c > 0 {
			out = append(out, c)
		}
	}
	return out
}
