package tags

import "unicode/utf8"

// Value is a raw tag payload handed over by a tag source.
// Text holds string tags; Data holds binary payloads such as pictures or
// binary genre/track atoms.
type Value struct {
	Text string
	Data []byte
}

// TextValue wraps a string tag.
func TextValue(s string) Value {
	return Value{Text: s}
}

// BinaryValue wraps a binary tag.
func BinaryValue(b []byte) Value {
	return Value{Data: b}
}

// IsBinary reports whether the value carries binary data only.
func (v Value) IsBinary() bool {
	return v.Text == "" && len(v.Data) > 0
}

// String returns the text form of the value. Binary data is returned
// only when it is valid UTF-8.
func (v Value) String() string {
	if v.Text != "" {
		return v.Text
	}
	if len(v.Data) > 0 && utf8.Valid(v.Data) {
		return string(trimNULs(v.Data))
	}
	return ""
}

// Art is an embedded picture.
type Art struct {
	Data     []byte
	MIMEType string
}

// DetectImageMIME sniffs the MIME type of common image formats.
func DetectImageMIME(data []byte) string {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "image/jpeg"
	case len(data) >= 8 && string(data[1:4]) == "PNG":
		return "image/png"
	case len(data) >= 6 && (string(data[:6]) == "GIF87a" || string(data[:6]) == "GIF89a"):
		return "image/gif"
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "image/webp"
	case len(data) >= 2 && data[0] == 'B' && data[1] == 'M':
		return "image/bmp"
	}
	return "application/octet-stream"
}

func trimNULs(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return b
}
