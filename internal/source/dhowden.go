package source

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dhowden/tag"
)

// readDhowden reads every tag dhowden/tag can find in r.
func readDhowden(r io.ReadSeeker) (tag.Metadata, error) {
	m, err := tag.ReadFrom(r)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return nil, ErrNoTags
	}
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}
	return m, nil
}

// dhowdenTags flattens Raw() into tags sorted by key.
func dhowdenTags(m tag.Metadata) []Tag {
	raw := m.Raw()
	id3 := isID3Format(m.Format())

	var out []Tag
	for _, k := range slices.Sorted(maps.Keys(raw)) {
		v := raw[k]

		// trkn/disk arrive as two ints; merge them back into "n/total".
		if base, ok := strings.CutSuffix(k, "_count"); ok {
			if _, paired := raw[base]; paired {
				continue
			}
		}
		if n, ok := v.(int); ok {
			if total, ok := raw[k+"_count"].(int); ok && total > 0 {
				out = append(out, textTag(latin1Key(k), strconv.Itoa(n)+"/"+strconv.Itoa(total)))
				continue
			}
		}

		key := latin1Key(k)
		if id3 {
			key = strings.ToLower(stripDuplicateSuffix(key))
		}
		if t, ok := dhowdenTag(key, v); ok {
			out = append(out, t)
		}
	}
	return out
}

func dhowdenTag(key string, v any) (Tag, bool) {
	switch val := v.(type) {
	case string:
		return textTag(key, val), true
	case int:
		if val == 0 {
			return Tag{}, false
		}
		return textTag(key, strconv.Itoa(val)), true
	case []byte:
		return binaryTag(key, val), true
	case *tag.Picture:
		if val == nil {
			return Tag{}, false
		}
		return binaryTag(key, val.Data), true
	case *tag.Comm:
		if val == nil {
			return Tag{}, false
		}
		// User text frames are keyed by their description.
		if key == "txxx" || key == "txx" {
			return textTag(val.Description, val.Text), true
		}
		return textTag(key, val.Text), true
	case *tag.UFID:
		if val == nil {
			return Tag{}, false
		}
		return textTag(key, string(val.Identifier)), true
	case nil:
		return Tag{}, false
	}
	return textTag(key, fmt.Sprint(v)), true
}

func isID3Format(f tag.Format) bool {
	return f == tag.ID3v1 || f == tag.ID3v2_2 || f == tag.ID3v2_3 || f == tag.ID3v2_4
}

// stripDuplicateSuffix removes the "_N" suffix dhowden/tag appends to
// repeated frames.
func stripDuplicateSuffix(key string) string {
	i := strings.LastIndexByte(key, '_')
	if i <= 0 || i == len(key)-1 {
		return key
	}
	if _, err := strconv.Atoi(key[i+1:]); err != nil {
		return key
	}
	return key[:i]
}

// latin1Key converts MP4 atom names such as "\xa9nam" to UTF-8 ("©nam").
func latin1Key(k string) string {
	if utf8.ValidString(k) {
		return k
	}
	var b strings.Builder
	for i := range len(k) {
		b.WriteRune(rune(k[i]))
	}
	return b.String()
}
