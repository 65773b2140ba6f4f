package tags

import "strings"

// defaultIgnoredSubstrings drops vendor bookkeeping keys from the catch-all.
var defaultIgnoredSubstrings = []string{"priv.www.amazon.com"}

// defaultParser claims every key left in the pool as a generic field.
type defaultParser struct{ baseParser }

func (defaultParser) Dialect() Dialect { return DialectDefault }

// MapFields drains the whole pool. Keys keep their original spelling so
// the label can be derived from it.
func (defaultParser) MapFields(ctx *Context) {
	b := ctx.Bucket(DialectDefault)
	for raw, v := range ctx.Raw.All() {
		ctx.Raw.Delete(raw)
		key := strings.TrimSpace(strings.ReplaceAll(raw, "\x00", ""))
		if key == "" || isDefaultIgnored(key) {
			continue
		}
		b.Generic.Set(key, v)
	}
}

func (defaultParser) HasMetadata(ctx *Context) bool {
	return ctx.Bucket(DialectDefault).Generic.Len() > 0
}

// Label splits the key on underscores and capitalizes each token,
// e.g. "replaygain_track_gain" becomes "Replaygain Track Gain".
func (defaultParser) Label(key string) string {
	tokens := strings.Split(key, "_")
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t == "" {
			continue
		}
		out = append(out, capitalizeFirst(t))
	}
	return strings.Join(out, " ")
}

func isDefaultIgnored(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range defaultIgnoredSubstrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
