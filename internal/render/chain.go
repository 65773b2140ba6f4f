package render

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/metaread/internal/reader"
	"github.com/llehouerou/metaread/internal/tags"
)

// Chain renders the buckets of every dialect in chain order. Dialects
// without metadata are marked as skipped.
func (r *Text) Chain(path string, entries []reader.ChainEntry) string {
	var b strings.Builder
	b.WriteString(r.theme.Gradient(Sanitize(path)))
	b.WriteString("\n")

	for i, e := range entries {
		header := fmt.Sprintf("%d. %s", i+1, e.Dialect)
		b.WriteString(r.st.Section.Render(header))
		if !e.Relevant {
			b.WriteString(" ")
			b.WriteString(r.st.Note.Render("(no metadata)"))
		}
		b.WriteString("\n")

		if e.Essential.Len() == 0 && e.Generic.Len() == 0 {
			continue
		}
		rows := bucketRows(e.Essential, nil)
		rows = append(rows, bucketRows(e.Generic, e.Labels)...)
		r.writeRows(&b, rows)
	}
	return b.String()
}

func bucketRows(m *tags.OrderedMap[tags.Value], labels map[string]string) []row {
	rows := make([]row, 0, m.Len())
	for k, v := range m.All() {
		rw := row{label: Sanitize(k)}
		if labels != nil {
			rw.note = "(generic)"
			if l, ok := labels[k]; ok && l != k {
				rw.note = fmt.Sprintf("(generic: %s)", Sanitize(l))
			}
		}
		if v.IsBinary() {
			rw.value = fmt.Sprintf("<binary %s>", humanSize(len(v.Data)))
		} else {
			rw.value = v.String()
		}
		rows = append(rows, rw)
	}
	return rows
}

// Summary renders the result line of a scan.
func (r *Text) Summary(added, pending, skipped int) string {
	parts := []string{
		r.st.Success.Render(fmt.Sprintf("%s tracks", humanize.Comma(int64(added)))),
	}
	if pending > 0 {
		parts = append(parts, r.st.Warning.Render(fmt.Sprintf("%d without accurate duration", pending)))
	}
	if skipped > 0 {
		parts = append(parts, r.st.Warning.Render(fmt.Sprintf("%d skipped", skipped)))
	}
	return strings.Join(parts, ", ") + "\n"
}
