package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestID3Genre(t *testing.T) {
	tests := []struct {
		code   int
		want   string
		wantOK bool
	}{
		{0, "Blues", true},
		{17, "Rock", true},
		{80, "Folk", true},
		{191, "Psybient", true},
		{192, "", false},
		{-1, "", false},
	}

	for _, tt := range tests {
		got, ok := ID3Genre(tt.code)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ID3Genre(%d) = (%q, %v), want (%q, %v)", tt.code, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestResolveID3Genre(t *testing.T) {
	tests := []struct {
		name   string
		value  Value
		offset int
		want   *string
	}{
		{"numeric string", TextValue("17"), 0, strPtr("Rock")},
		{"parenthesized code", TextValue("(17)"), 0, strPtr("Rock")},
		{"refinement", TextValue("(17)Rock & Roll"), 0, strPtr("Rock & Roll")},
		{"plain name", TextValue("Synthwave"), 0, strPtr("Synthwave")},
		{"unknown code kept", TextValue("999"), 0, strPtr("999")},
		{"itunes offset on text", TextValue("18"), -1, strPtr("Rock")},
		{"itunes gnre binary", BinaryValue([]byte{0x00, 0x12}), -1, strPtr("Rock")},
		{"binary text", BinaryValue([]byte("Jazz")), 0, strPtr("Jazz")},
		{"binary zero", BinaryValue([]byte{0, 0}), 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveID3Genre(tt.value, tt.offset))
		})
	}
}

func TestResolveITunesGenreID(t *testing.T) {
	assert.Equal(t, strPtr("Rock"), ResolveITunesGenreID(BinaryValue([]byte{0, 0, 0, 0x15})))
	assert.Equal(t, strPtr("Jazz"), ResolveITunesGenreID(TextValue("11")))
	assert.Equal(t, strPtr("Custom"), ResolveITunesGenreID(TextValue("Custom")))
	assert.Nil(t, ResolveITunesGenreID(BinaryValue([]byte{0, 0, 0, 1})))
}
