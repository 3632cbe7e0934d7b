package markdown

import (
	"strings"
	"testing"

	"github.com/weavehq/weave/internal/style"
)

func TestFormatInline_AllRules(t *testing.T) {
	in := "`code` and **bold** and [link](http://x)"
	out := formatInline(in, style.Default(), true)

	if !strings.Contains(out, "<code") || !strings.Contains(out, ">code</code>") {
		t.Errorf("code span missing: %s", out)
	}
	if !strings.Contains(out, "<strong") || !strings.Contains(out, ">bold</strong>") {
		t.Errorf("bold missing: %s", out)
	}
	if !strings.Contains(out, `<a href="http://x"`) || !strings.Contains(out, ">link</a>") {
		t.Errorf("link missing: %s", out)
	}
	if strings.Contains(out, "`") || strings.Contains(out, "**") {
		t.Errorf("delimiters survived: %s", out)
	}
}

func TestFormatInline_MultipleOccurrences(t *testing.T) {
	out := formatInline("*a* then *b*", style.Default(), true)
	if got := strings.Count(out, "<em"); got != 2 {
		t.Errorf("em count = %d, want 2: %s", got, out)
	}
	if strings.Contains(out, "*") {
		t.Errorf("asterisks survived: %s", out)
	}
}

func TestFormatInline_BoldBeforeItalic(t *testing.T) {
	out := formatInline("**strong**", style.Default(), true)
	if strings.Contains(out, "<em") {
		t.Errorf("double asterisks must not produce italic: %s", out)
	}
	if !strings.Contains(out, ">strong</strong>") {
		t.Errorf("bold not applied: %s", out)
	}
}

func TestFormatInline_UnderscoreVariants(t *testing.T) {
	out := formatInline("__b__ and _i_", style.Default(), true)
	if !strings.Contains(out, ">b</strong>") {
		t.Errorf("underscore bold missing: %s", out)
	}
	if !strings.Contains(out, ">i</em>") {
		t.Errorf("underscore italic missing: %s", out)
	}
}

func TestFormatInline_UnderscoresDisabled(t *testing.T) {
	out := formatInline("__b__ and _i_", style.Default(), false)
	if strings.Contains(out, "<strong") || strings.Contains(out, "<em") {
		t.Errorf("underscore rules applied despite reduced set: %s", out)
	}
}

func TestFormatInline_CodeSpanRejectsEmbeddedBacktick(t *testing.T) {
	// Two separate shortest-match spans, not one greedy one.
	out := formatInline("`a` mid `b`", style.Default(), true)
	if got := strings.Count(out, "<code"); got != 2 {
		t.Errorf("code span count = %d, want 2: %s", got, out)
	}
	if !strings.Contains(out, " mid ") {
		t.Errorf("text between spans consumed: %s", out)
	}
}

func TestFormatInline_PlainTextUntouched(t *testing.T) {
	in := "nothing special here"
	if out := formatInline(in, style.Default(), true); out != in {
		t.Errorf("out = %q, want input unchanged", out)
	}
}

func TestFormatInline_UsesConfiguredClasses(t *testing.T) {
	cfg := style.Config{
		style.KindBold: {Class: "my-bold"},
	}
	out := formatInline("**x**", cfg, true)
	if !strings.Contains(out, `<strong class="my-bold">`) {
		t.Errorf("configured class not used: %s", out)
	}
}
