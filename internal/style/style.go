// Package style defines theme styles and the scope-selector matcher that picks
// the style for a lexical scope stack.
package style

import (
	"strings"
)

// DefaultForeground is the neutral foreground used when no rule yields a color.
const DefaultForeground = "#D4D4D4"

// FontStyle is a set of font style flags.
type FontStyle uint8

const (
	Italic FontStyle = 1 << iota
	Bold
	Underline
	Strikethrough
)

var fontStyleNames = []struct {
	flag FontStyle
	name string
}{
	{Italic, "italic"},
	{Bold, "bold"},
	{Underline, "underline"},
	{Strikethrough, "strikethrough"},
}

// ParseFontStyle parses a space separated font style list such as
// "italic bold". Unknown words are ignored.
func ParseFontStyle(s string) FontStyle {
	var fs FontStyle
	for _, word := range strings.Fields(s) {
		for _, n := range fontStyleNames {
			if word == n.name {
				fs |= n.flag
			}
		}
	}
	return fs
}

// Has reports whether all flags in f are set.
func (fs FontStyle) Has(f FontStyle) bool { return fs&f == f }

func (fs FontStyle) String() string {
	var words []string
	for _, n := range fontStyleNames {
		if fs.Has(n.flag) {
			words = append(words, n.name)
		}
	}
	return strings.Join(words, " ")
}

// MarshalText encodes the flags in theme notation.
func (fs FontStyle) MarshalText() ([]byte, error) {
	return []byte(fs.String()), nil
}

// UnmarshalText decodes theme notation.
func (fs *FontStyle) UnmarshalText(b []byte) error {
	*fs = ParseFontStyle(string(b))
	return nil
}

// Style is the visual part of a theme rule.
type Style struct {
	Foreground string    `json:"foreground,omitempty"`
	FontStyle  FontStyle `json:"fontStyle,omitempty"`
}

// Rule maps one or more scope selectors to a style.
type Rule struct {
	Selectors []string
	Style     Style
}

// Match is the result of matching a scope stack against a rule list.
type Match struct {
	Style Style
	// Index is the position in the scope stack that matched, or -1.
	Index int
}

// Matched reports whether any rule matched.
func (m Match) Matched() bool { return m.Index >= 0 }

// Default is the match returned when no rule applies.
var Default = Match{Style: Style{Foreground: DefaultForeground}, Index: -1}

// Selects reports whether selector matches scope: scope must start with
// selector and continue with a '.' or end there.
func Selects(selector, scope string) bool {
	if !strings.HasPrefix(scope, selector) {
		return false
	}
	return len(scope) == len(selector) || scope[len(selector)] == '.'
}

// MatchStack finds the style for a scope stack. Scopes are walked innermost
// first; at each position the longest matching selector wins and later rules
// win ties. The first position with any match decides.
func MatchStack(stack []string, rules []Rule) Match {
	for i := len(stack) - 1; i >= 0; i-- {
		scope := stack[i]
		best := -1
		var found *Rule
		for r := range rules {
			for _, sel := range rules[r].Selectors {
				if !Selects(sel, scope) {
					continue
				}
				if len(sel) >= best {
					best = len(sel)
					found = &rules[r]
				}
			}
		}
		if found != nil {
			return Match{Style: found.Style, Index: i}
		}
	}
	return Default
}
