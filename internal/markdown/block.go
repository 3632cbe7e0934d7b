package markdown

import (
	"fmt"
	"strings"

	"github.com/weavehq/weave/internal/style"
)

const (
	fence           = "```"
	defaultLanguage = "bash"

	// Fixed classes inside code blocks: one per output row, plus the
	// accent for language prompts.
	codeRowClass    = "text-gray-300"
	codeAccentClass = "text-green-400"
	codePreClass    = "font-mono text-sm overflow-x-auto"

	// Placeholder for blank code lines, preserves vertical spacing.
	blankCodeLine = "&nbsp;"
)

// blockState is the parser's current mode. Exactly one mode is active at a
// time; code-block lines are captured verbatim and never read as bullets.
type blockState int

const (
	stateNormal blockState = iota
	stateCode
	stateList
)

// parseState is the per-invocation working state. Created fresh for every
// parse and discarded at the end, never shared across documents.
type parseState struct {
	state     blockState
	codeLang  string
	codeLines []string
	listItems []string
}

// Fragments processes body line by line and returns the rendered HTML
// fragments in emission order. Malformed input never fails: an open list at
// end of input is flushed, an unterminated code fence drops its pending
// lines without emitting a fragment.
func (p *Parser) Fragments(body string) []string {
	st := &parseState{}
	var out []string

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		// Fence markers toggle code capture from any state.
		if strings.HasPrefix(trimmed, fence) {
			if st.state == stateCode {
				out = append(out, p.codeBlock(st.codeLang, st.codeLines))
				st.state = stateNormal
				st.codeLang = ""
				st.codeLines = nil
				continue
			}
			if st.state == stateList {
				out = appendNonEmpty(out, p.list(st.listItems))
				st.listItems = nil
			}
			st.state = stateCode
			st.codeLang = strings.TrimSpace(strings.TrimPrefix(trimmed, fence))
			if st.codeLang == "" {
				st.codeLang = defaultLanguage
			}
			st.codeLines = nil
			continue
		}

		if st.state == stateCode {
			// Verbatim, untrimmed.
			st.codeLines = append(st.codeLines, line)
			continue
		}

		if item, ok := bulletItem(trimmed); ok {
			st.state = stateList
			st.listItems = append(st.listItems, item)
			continue
		}

		if st.state == stateList {
			out = appendNonEmpty(out, p.list(st.listItems))
			st.listItems = nil
			st.state = stateNormal
			if trimmed == "" {
				// Blank line closes the list and is consumed.
				continue
			}
			// Non-bullet line closes the list and is re-evaluated below.
		}

		switch {
		case strings.HasPrefix(trimmed, "#"):
			out = append(out, p.heading(trimmed))
		case trimmed == "":
			// Consumed, no output.
		default:
			out = append(out, p.paragraph(trimmed))
		}
	}

	if st.state == stateList {
		out = appendNonEmpty(out, p.list(st.listItems))
	}
	// An unterminated fence leaves stateCode: pending lines are dropped.

	return out
}

func appendNonEmpty(out []string, fragment string) []string {
	if fragment == "" {
		return out
	}
	return append(out, fragment)
}

// bulletItem reports whether a trimmed line is a list item and returns the
// item text after the marker.
func bulletItem(trimmed string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(trimmed, marker) {
			return strings.TrimSpace(trimmed[len(marker):]), true
		}
	}
	return "", false
}

// heading renders a heading line. The display style is capped at h5, while
// the literal tag keeps the true marker count.
func (p *Parser) heading(trimmed string) string {
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	text := strings.TrimSpace(trimmed[level:])

	key := fmt.Sprintf("h%d", level)
	if level > 5 {
		key = style.KindH5
	}
	attrs := p.styles.Resolve(key)

	prefixHTML := ""
	if attrs.Prefix != "" {
		prefixHTML = fmt.Sprintf(`<span class="%s">%s</span> `, attrs.PrefixClass, attrs.Prefix)
	}

	return fmt.Sprintf("<div class=\"%s\">\n    <h%d class=\"%s\">\n        %s%s\n    </h%d>\n</div>",
		attrs.Container, level, attrs.Class, prefixHTML, text, level)
}

// paragraph renders a plain text line with full inline formatting.
func (p *Parser) paragraph(trimmed string) string {
	attrs := p.styles.Resolve(style.KindParagraph)
	text := formatInline(trimmed, p.styles, true)

	return fmt.Sprintf("<div class=\"%s\">\n    <p class=\"%s\">\n        %s\n    </p>\n</div>",
		attrs.Container, attrs.Class, text)
}

// codeBlock renders captured fence content. The three HTML metacharacters
// are escaped over the whole block, & first so entities are not re-escaped.
func (p *Parser) codeBlock(lang string, pending []string) string {
	content := strings.Join(pending, "\n")
	content = strings.ReplaceAll(content, "&", "&amp;")
	content = strings.ReplaceAll(content, "<", "&lt;")
	content = strings.ReplaceAll(content, ">", "&gt;")

	prompt := languagePrompt(lang)

	var rows []string
	for _, line := range strings.Split(content, "\n") {
		switch {
		case prompt != "" && strings.TrimSpace(line) != "":
			rows = append(rows, fmt.Sprintf(`  <div class="%s"><span class="%s">%s</span><code>%s</code></div>`,
				codeRowClass, codeAccentClass, prompt, line))
		case strings.TrimSpace(line) == "":
			rows = append(rows, fmt.Sprintf(`  <div class="%s"><code>%s</code></div>`,
				codeRowClass, blankCodeLine))
		default:
			rows = append(rows, fmt.Sprintf(`  <div class="%s"><code>%s</code></div>`,
				codeRowClass, line))
		}
	}

	attrs := p.styles.Resolve(style.KindCodeBlock)
	return fmt.Sprintf("<div class=\"%s\">\n    <div class=\"%s\">\n        <pre class=\"%s\">\n%s\n        </pre>\n    </div>\n</div>",
		attrs.Container, attrs.Class, codePreClass, strings.Join(rows, "\n"))
}

// languagePrompt maps a fence language tag to its line prompt.
func languagePrompt(lang string) string {
	switch lang {
	case "bash", "sh", "shell":
		return "$ "
	case "python", "py":
		return ">>> "
	}
	return ""
}

// list renders pending items, each with the reduced inline rule set and a
// bullet glyph in its own class. Empty pending sets emit nothing.
func (p *Parser) list(items []string) string {
	if len(items) == 0 {
		return ""
	}

	attrs := p.styles.Resolve(style.KindList)
	bullet := fmt.Sprintf(`<span class="%s">%s</span>`, attrs.PrefixClass, attrs.Prefix)

	rows := make([]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, fmt.Sprintf("    <li>%s%s</li>", bullet, formatInline(item, p.styles, false)))
	}

	return fmt.Sprintf("<div class=\"%s\">\n    <ul class=\"%s\">\n%s\n    </ul>\n</div>",
		attrs.Container, attrs.Class, strings.Join(rows, "\n"))
}
