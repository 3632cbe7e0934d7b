// Package markdown converts Markdown bodies into Tailwind-styled HTML
// fragments using a line-oriented state machine and a pluggable style table.
package markdown

import (
	"fmt"
	"strings"

	"github.com/weavehq/weave/internal/style"
)

// Parser renders Markdown bodies under a fixed style table. It holds no
// mutable parse state, so a single Parser is safe to share across
// concurrent Render calls.
type Parser struct {
	styles style.Config
}

// New creates a Parser. A nil styles table selects the built-in defaults.
func New(styles style.Config) *Parser {
	if styles == nil {
		styles = style.Default()
	}
	return &Parser{styles: styles}
}

// Render converts body to HTML: fragments joined by a single newline.
func (p *Parser) Render(body string) string {
	return strings.Join(p.Fragments(body), "\n")
}

// RenderCard renders body and wraps the result in the card shell.
func (p *Parser) RenderCard(body string) string {
	card := p.styles.Resolve(style.KindCard)
	return fmt.Sprintf("<div class=\"%s\">\n%s\n</div>", card.Class, p.Render(body))
}
