// Package frontmatter splits the delimited metadata header from a Markdown
// document and decodes its minimal key/value grammar.
package frontmatter

import (
	"strings"

	"github.com/weavehq/weave/internal/models"
)

const delim = "---"

// Extract splits content into header metadata and body. If the content does
// not open with a "---" delimiter line (after leading whitespace), the whole
// input is body and the metadata is empty. Malformed header lines are
// skipped; there are no error conditions.
func Extract(content string) (models.Metadata, string) {
	meta := models.Metadata{}

	trimmed := strings.TrimLeft(content, " \t\r\n")
	if !strings.HasPrefix(trimmed, delim) {
		return meta, content
	}

	// Only the first two delimiter occurrences are significant.
	parts := strings.SplitN(content, delim, 3)
	if len(parts) < 3 {
		return meta, content
	}

	header := strings.TrimSpace(parts[1])
	body := strings.TrimSpace(parts[2])

	for _, line := range strings.Split(header, "\n") {
		line = strings.TrimSpace(line)
		key, raw, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		raw = strings.TrimSpace(raw)
		if key == "" {
			continue
		}
		// Later occurrences of the same key overwrite earlier ones.
		meta[key] = decodeValue(raw)
	}

	return meta, body
}

// decodeValue interprets a raw header value: a bracketed value becomes an
// ordered list of unquoted items, anything else a scalar with one layer of
// matching quotes stripped.
func decodeValue(raw string) any {
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		inner := raw[1 : len(raw)-1]
		items := strings.Split(inner, ",")
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, unquote(strings.TrimSpace(it)))
		}
		return out
	}
	return unquote(raw)
}

// unquote strips one layer of matching single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
