package style

import "testing"

func TestResolve_ConfiguredEntry(t *testing.T) {
	cfg := Config{
		KindParagraph: {Container: "p-0", Class: "custom"},
	}
	a := cfg.Resolve(KindParagraph)
	if a.Class != "custom" {
		t.Errorf("class = %q, want %q", a.Class, "custom")
	}
}

func TestResolve_MissingKindFallsBack(t *testing.T) {
	cfg := Config{}
	a := cfg.Resolve(KindBold)
	if a.Class == "" {
		t.Error("expected default bold class, got empty")
	}
	if a != defaults[KindBold] {
		t.Errorf("attrs = %+v, want default entry", a)
	}
}

func TestResolve_NilConfig(t *testing.T) {
	var cfg Config
	a := cfg.Resolve(KindCard)
	if a.Class == "" {
		t.Error("nil config should resolve to defaults")
	}
}

func TestDefault_AllKindsPresent(t *testing.T) {
	kinds := []string{
		KindH1, KindH2, KindH3, KindH4, KindH5,
		KindParagraph, KindCodeInline, KindCodeBlock,
		KindBold, KindItalic, KindLink, KindList, KindCard,
	}
	cfg := Default()
	for _, k := range kinds {
		if _, ok := cfg[k]; !ok {
			t.Errorf("missing default entry for %q", k)
		}
	}
}

func TestDefault_ReturnsCopy(t *testing.T) {
	a := Default()
	a[KindBold] = Attrs{Class: "mutated"}
	if defaults[KindBold].Class == "mutated" {
		t.Error("Default() must not share the underlying map")
	}
}
