package theme

import (
	"fmt"
	"slices"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"themecheck/internal/grammar"
	"themecheck/internal/style"
)

// ChromaPrefix marks a theme reference as a built-in chroma style name.
const ChromaPrefix = "chroma:"

// FromChroma converts a registered chroma style into a theme whose rules
// target the scopes the chroma grammar emits.
func FromChroma(name string) (*Theme, error) {
	cs, ok := styles.Registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown chroma style %q", name)
	}
	th := &Theme{
		Name:     ChromaPrefix + name,
		Semantic: map[string]style.Style{},
	}
	if text := cs.Get(chroma.Text); text.Colour.IsSet() {
		th.Foreground = text.Colour.String()
	}

	types := grammar.TokenTypes()
	slices.Sort(types)
	for _, tt := range types {
		entry := cs.Get(tt)
		if !entry.Colour.IsSet() {
			continue
		}
		scopes := grammar.ScopesFor(tt)
		th.Rules = append(th.Rules, style.Rule{
			Selectors: []string{scopes[len(scopes)-1]},
			Style:     style.Style{Foreground: entry.Colour.String(), FontStyle: fontStyle(entry)},
		})
	}
	return th, nil
}

func fontStyle(e chroma.StyleEntry) style.FontStyle {
	var fs style.FontStyle
	if e.Bold == chroma.Yes {
		fs |= style.Bold
	}
	if e.Italic == chroma.Yes {
		fs |= style.Italic
	}
	if e.Underline == chroma.Yes {
		fs |= style.Underline
	}
	return fs
}
