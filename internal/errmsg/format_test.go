//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpContainerOpen,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpContainerOpen,
			err:      errors.New("file not found"),
			expected: "Failed to open audio container: file not found",
		},
		{
			name:     "scan operation",
			op:       OpFilesScan,
			err:      errors.New("permission denied"),
			expected: "Failed to scan files: permission denied",
		},
		{
			name:     "decode operation",
			op:       OpAudioDecode,
			err:      errors.New("unexpected EOF"),
			expected: "Failed to decode audio: unexpected EOF",
		},
		{
			name:     "config operation",
			op:       OpConfigLoad,
			err:      errors.New("bad toml"),
			expected: "Failed to load config: bad toml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpContainerOpen,
			context:  "song.mp3",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpContainerOpen,
			context:  "song.mp3",
			err:      errors.New("permission denied"),
			expected: "Failed to open audio container 'song.mp3': permission denied",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpTagsRead,
			context:  "",
			err:      errors.New("permission denied"),
			expected: "Failed to read tags: permission denied",
		},
		{
			name:     "art export with path context",
			op:       OpArtExport,
			context:  "/tmp/cover.jpg",
			err:      errors.New("no embedded art"),
			expected: "Failed to export art '/tmp/cover.jpg': no embedded art",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{
		OpContainerOpen, OpTagsRead, OpAudioDecode,
		OpFilesScan,
		OpArtExport,
		OpConfigLoad,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
