// Package style defines the element style table that drives HTML rendering.
package style

// Element kinds recognised by the renderer.
const (
	KindH1         = "h1"
	KindH2         = "h2"
	KindH3         = "h3"
	KindH4         = "h4"
	KindH5         = "h5"
	KindParagraph  = "paragraph"
	KindCodeInline = "code_inline"
	KindCodeBlock  = "code_block"
	KindBold       = "bold"
	KindItalic     = "italic"
	KindLink       = "link"
	KindList       = "list"
	KindCard       = "card"
)

// Attrs describes how one element kind is rendered. Not every field is
// meaningful for every kind: headings use all of them, inline elements only
// Class, lists reuse Prefix/PrefixClass for the bullet glyph.
type Attrs struct {
	Container   string `yaml:"container" json:"container,omitempty"`
	Class       string `yaml:"class" json:"class,omitempty"`
	Prefix      string `yaml:"prefix" json:"prefix,omitempty"`
	PrefixClass string `yaml:"prefix_class" json:"prefix_class,omitempty"`
	Divider     bool   `yaml:"divider" json:"divider,omitempty"`
}

// Config maps an element kind to its rendering attributes. Immutable once
// constructed; shared read-only by all render operations.
type Config map[string]Attrs

// Resolve returns the attributes for kind, falling back to the built-in
// default entry when the kind is missing. A missing kind never fails the
// render.
func (c Config) Resolve(kind string) Attrs {
	if c != nil {
		if a, ok := c[kind]; ok {
			return a
		}
	}
	return defaults[kind]
}

// Default returns a copy of the built-in Tailwind style table. Every kind
// the renderer emits has an entry.
func Default() Config {
	out := make(Config, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	return out
}

// defaults is constructed once and read-only thereafter.
var defaults = Config{
	KindH1: {
		Container:   "mb-8",
		Class:       "text-5xl font-bold mb-4 text-gray-900",
		Prefix:      "$",
		PrefixClass: "text-blue-600",
		Divider:     true,
	},
	KindH2: {
		Container:   "mb-6",
		Class:       "text-3xl font-bold text-gray-800",
		Prefix:      "▸",
		PrefixClass: "text-orange-500",
	},
	KindH3: {
		Container:   "mb-4",
		Class:       "text-2xl font-semibold text-gray-700",
		Prefix:      "//",
		PrefixClass: "text-gray-400",
	},
	KindH4: {
		Container: "mb-3",
		Class:     "text-xl font-semibold text-gray-700",
	},
	KindH5: {
		Container: "mb-2",
		Class:     "text-lg font-medium text-gray-600",
	},
	KindParagraph: {
		Container: "mb-4",
		Class:     "text-base leading-relaxed text-gray-700",
	},
	KindCodeInline: {
		Class: "px-2 py-1 bg-gray-100 text-blue-600 rounded font-mono text-sm",
	},
	KindCodeBlock: {
		Container: "mb-6",
		Class:     "bg-gray-900 rounded-lg shadow-lg border border-gray-700 p-4",
	},
	KindBold: {
		Class: "font-bold text-gray-900",
	},
	KindItalic: {
		Class: "italic text-gray-600",
	},
	KindLink: {
		Class: "text-blue-600 hover:text-blue-800 underline font-semibold",
	},
	KindList: {
		Container:   "mb-6",
		Class:       "list-none space-y-2 pl-4",
		Prefix:      "▸",
		PrefixClass: "text-blue-600 mr-2",
	},
	KindCard: {
		Class: "bg-white rounded-lg shadow-xl border border-gray-200 p-8",
	},
}
