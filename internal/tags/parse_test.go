package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestParseYear(t *testing.T) {
	const currentYear = 2026

	tests := []struct {
		name string
		in   string
		want *int
	}{
		{"plain year", "1999", intPtr(1999)},
		{"padded", " 2004 ", intPtr(2004)},
		{"iso date", "2004-05-01", intPtr(2004)},
		{"timestamp", "2004-05-01T10:00:00Z", intPtr(2004)},
		{"slashed date", "1987/03/02", intPtr(1987)},
		{"mm-dd-yy old", "09-12-83", intPtr(1983)},
		{"mm-dd-yy recent", "09-12-05", intPtr(2005)},
		{"mm-dd-yyyy", "12-25-2010", intPtr(2010)},
		{"two digit past pivot", "99", intPtr(1999)},
		{"two digit before pivot", "05", intPtr(2005)},
		{"two digit at pivot", "26", intPtr(1926)},
		{"out of range", "13000", nil},
		{"too early", "999", nil},
		{"garbage", "abc", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseYear(tt.in, currentYear)
			assert.Equal(t, tt.want, got, "ParseYear(%q)", tt.in)
		})
	}
}

func TestParseDiscOrTrackNumberString(t *testing.T) {
	tests := []struct {
		in        string
		wantNil   bool
		wantNum   *int
		wantTotal *int
	}{
		{in: "2 / 13", wantNum: intPtr(2), wantTotal: intPtr(13)},
		{in: "2/13", wantNum: intPtr(2), wantTotal: intPtr(13)},
		{in: "7", wantNum: intPtr(7)},
		{in: " 7 ", wantNum: intPtr(7)},
		{in: "/12", wantTotal: intPtr(12)},
		{in: "abc", wantNil: true},
		{in: "a/b", wantNil: true},
		{in: "", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseDiscOrTrackNumberString(tt.in)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, tt.wantNum, got.Number)
				assert.Equal(t, tt.wantTotal, got.Total)
			}
		})
	}
}

func TestParseDiscOrTrackNumberValue_Binary(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		wantNil   bool
		wantNum   *int
		wantTotal *int
	}{
		{name: "mp4 trkn", data: []byte{0, 0, 0, 3, 0, 12, 0, 0}, wantNum: intPtr(3), wantTotal: intPtr(12)},
		{name: "mp4 disk without total", data: []byte{0, 0, 0, 1, 0, 0}, wantNum: intPtr(1)},
		{name: "single byte", data: []byte{5}, wantNum: intPtr(5)},
		{name: "byte pair", data: []byte{0, 7, 0, 9}, wantNum: intPtr(7), wantTotal: intPtr(9)},
		{name: "all zero", data: []byte{0, 0, 0, 0, 0, 0}, wantNil: true},
		{name: "empty", data: nil, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDiscOrTrackNumberValue(BinaryValue(tt.data))
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, tt.wantNum, got.Number)
				assert.Equal(t, tt.wantTotal, got.Total)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"125000", floatPtr(125.0)},
		{"215.5", floatPtr(215.5)},
		{"1:05:30.5", floatPtr(3930.5)},
		{"3:25", floatPtr(205)},
		{"03:25.25", floatPtr(205.25)},
		{"not a number", nil},
		{"", nil},
		{"NaN", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseDuration(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.InDelta(t, *tt.want, *got, 1e-9)
			}
		})
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestParseBPM(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"120", intPtr(120)},
		{" 98 ", intPtr(98)},
		{"120.4", intPtr(120)},
		{"0", nil},
		{"-5", nil},
		{"fast", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseBPM(tt.in))
		})
	}
}

func TestParseBPMValue_Binary(t *testing.T) {
	assert.Equal(t, intPtr(128), ParseBPMValue(BinaryValue([]byte{0x00, 0x80})))
	assert.Equal(t, intPtr(90), ParseBPMValue(BinaryValue([]byte{90})))
	assert.Nil(t, ParseBPMValue(BinaryValue([]byte{0, 0})))
}

func TestParseNumericString(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"17", intPtr(17)},
		{"(17)", intPtr(17)},
		{" 3 ", intPtr(3)},
		{"(17)Rock", nil},
		{"Rock", nil},
		{"()", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumericString(tt.in))
		})
	}
}

func TestDecodeBinaryNumber(t *testing.T) {
	assert.Equal(t, intPtr(300), DecodeBinaryNumber([]byte{0x01, 0x2C}))
	assert.Equal(t, intPtr(21), DecodeBinaryNumber([]byte{0, 0, 0, 0x15}))
	assert.Nil(t, DecodeBinaryNumber(nil))
	assert.Nil(t, DecodeBinaryNumber([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}))
}

func TestParseBool(t *testing.T) {
	yes, no := true, false
	assert.Equal(t, &yes, ParseBool("1"))
	assert.Equal(t, &no, ParseBool("0"))
	assert.Equal(t, &yes, ParseBool("true"))
	assert.Equal(t, &no, ParseBool("False"))
	assert.Nil(t, ParseBool("maybe"))
}
