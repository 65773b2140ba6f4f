package tags

import (
	"net/url"
	"strings"
)

// wmPrefix is the namespace prefix carried by WM/ASF attribute names.
const wmPrefix = "wm/"

// NormalizeKey turns a raw tag key into the form used by the dialect
// field maps: percent-decoded, NUL-free, trimmed, lower-cased, and
// without the WM/ASF namespace prefix.
func NormalizeKey(raw string) string {
	key := raw
	if strings.Contains(key, "%") {
		if decoded, err := url.PathUnescape(key); err == nil {
			key = decoded
		}
	}
	key = strings.ReplaceAll(key, "\x00", "")
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.TrimPrefix(key, wmPrefix)
	return strings.TrimSpace(key)
}
