package markdown

import (
	"fmt"
	"regexp"

	"github.com/weavehq/weave/internal/style"
)

// Inline substitution patterns. Each matches the shortest run between its
// delimiters with no delimiter character inside, so the rules cannot consume
// each other's markers and multiple occurrences per line work independently.
var (
	codeRe        = regexp.MustCompile("`([^`]+)`")
	boldStarRe    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	boldUnderRe   = regexp.MustCompile(`__([^_]+)__`)
	italicStarRe  = regexp.MustCompile(`\*([^*]+)\*`)
	italicUnderRe = regexp.MustCompile(`_([^_]+)_`)
	linkRe        = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// formatInline applies the ordered inline substitutions to a single line of
// text: code span, bold, italic, link. Double-delimiter rules must run
// before their single-delimiter counterparts. List items use the reduced
// rule set (underscore bold/italic are not applied there).
func formatInline(text string, styles style.Config, underscores bool) string {
	code := styles.Resolve(style.KindCodeInline)
	bold := styles.Resolve(style.KindBold)
	italic := styles.Resolve(style.KindItalic)
	link := styles.Resolve(style.KindLink)

	text = codeRe.ReplaceAllString(text, fmt.Sprintf(`<code class="%s">$1</code>`, code.Class))
	text = boldStarRe.ReplaceAllString(text, fmt.Sprintf(`<strong class="%s">$1</strong>`, bold.Class))
	if underscores {
		text = boldUnderRe.ReplaceAllString(text, fmt.Sprintf(`<strong class="%s">$1</strong>`, bold.Class))
	}
	text = italicStarRe.ReplaceAllString(text, fmt.Sprintf(`<em class="%s">$1</em>`, italic.Class))
	if underscores {
		text = italicUnderRe.ReplaceAllString(text, fmt.Sprintf(`<em class="%s">$1</em>`, italic.Class))
	}
	text = linkRe.ReplaceAllString(text, fmt.Sprintf(`<a href="$2" class="%s">$1</a>`, link.Class))

	return text
}
