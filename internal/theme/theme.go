// Package theme loads editor color themes into ordered scope rules and
// semantic token rules.
package theme

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"themecheck/internal/style"
)

// ErrIncludeCycle is returned when a theme includes itself, directly or
// through other themes.
var ErrIncludeCycle = errors.New("theme include cycle")

// Theme is a loaded theme with inheritance already applied.
type Theme struct {
	Name       string
	Foreground string
	// Rules are ordered base theme first, so later rules override earlier
	// ones of equal specificity.
	Rules []style.Rule
	// Semantic maps "type", "type.modifier" or "*.modifier" to a style.
	Semantic map[string]style.Style
	// Sources lists the files that were read, base theme first.
	Sources []string
}

func (t *Theme) TokenRules() []style.Rule              { return t.Rules }
func (t *Theme) SemanticRules() map[string]style.Style { return t.Semantic }
func (t *Theme) DefaultForeground() string             { return t.Foreground }

// file mirrors the JSON layout of an editor color theme.
type file struct {
	Name                string                     `json:"name"`
	Include             string                     `json:"include"`
	Colors              map[string]string          `json:"colors"`
	TokenColors         json.RawMessage            `json:"tokenColors"`
	SemanticTokenColors map[string]json.RawMessage `json:"semanticTokenColors"`
}

type tokenColor struct {
	Name     string          `json:"name"`
	Scope    json.RawMessage `json:"scope"`
	Settings struct {
		Foreground string  `json:"foreground"`
		FontStyle  *string `json:"fontStyle"`
	} `json:"settings"`
}

type semanticStyle struct {
	Foreground    string `json:"foreground"`
	FontStyle     string `json:"fontStyle"`
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Underline     bool   `json:"underline"`
	Strikethrough bool   `json:"strikethrough"`
}

// Load reads a theme file. Names prefixed with "chroma:" load a built-in
// chroma style instead.
func Load(path string) (*Theme, error) {
	if name, ok := strings.CutPrefix(path, ChromaPrefix); ok {
		return FromChroma(name)
	}
	th := &Theme{Semantic: map[string]style.Style{}}
	if err := th.load(path, map[string]bool{}); err != nil {
		return nil, err
	}
	return th, nil
}

func (t *Theme) load(path string, seen map[string]bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving theme path %s: %w", path, err)
	}
	if seen[abs] {
		return fmt.Errorf("%w: %s", ErrIncludeCycle, path)
	}
	seen[abs] = true

	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("reading theme: %w", err)
	}
	var f file
	if err := json.Unmarshal(StripJSONC(data), &f); err != nil {
		return fmt.Errorf("parsing theme %s: %w", path, err)
	}

	if f.Include != "" {
		if err := t.load(filepath.Join(filepath.Dir(abs), f.Include), seen); err != nil {
			return fmt.Errorf("including %s: %w", f.Include, err)
		}
	}

	if f.Name != "" {
		t.Name = f.Name
	}
	if fg := f.Colors["editor.foreground"]; fg != "" {
		t.Foreground = fg
	}
	rules, err := parseTokenColors(f.TokenColors)
	if err != nil {
		return fmt.Errorf("parsing tokenColors in %s: %w", path, err)
	}
	t.Rules = append(t.Rules, rules...)
	for key, raw := range f.SemanticTokenColors {
		s, err := parseSemanticStyle(raw)
		if err != nil {
			return fmt.Errorf("parsing semanticTokenColors[%q] in %s: %w", key, path, err)
		}
		t.Semantic[key] = s
	}
	t.Sources = append(t.Sources, abs)
	return nil
}

func parseTokenColors(raw json.RawMessage) ([]style.Rule, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var entries []tokenColor
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	rules := make([]style.Rule, 0, len(entries))
	for _, e := range entries {
		selectors, err := parseScope(e.Scope)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", e.Name, err)
		}
		if len(selectors) == 0 {
			// Scope-less entries set editor defaults, not token colors.
			continue
		}
		s := style.Style{Foreground: e.Settings.Foreground}
		if e.Settings.FontStyle != nil {
			s.FontStyle = style.ParseFontStyle(*e.Settings.FontStyle)
		}
		rules = append(rules, style.Rule{Selectors: selectors, Style: s})
	}
	return rules, nil
}

// parseScope accepts a single selector, a comma separated list or an array.
func parseScope(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []string
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
	} else {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		list = strings.Split(s, ",")
	}
	var out []string
	for _, sel := range list {
		if sel = strings.TrimSpace(sel); sel != "" {
			out = append(out, sel)
		}
	}
	return out, nil
}

// parseSemanticStyle accepts either a color string or a style object.
func parseSemanticStyle(raw json.RawMessage) (style.Style, error) {
	var color string
	if err := json.Unmarshal(raw, &color); err == nil {
		return style.Style{Foreground: color}, nil
	}
	var ss semanticStyle
	if err := json.Unmarshal(raw, &ss); err != nil {
		return style.Style{}, err
	}
	fs := style.ParseFontStyle(ss.FontStyle)
	for flag, on := range map[style.FontStyle]bool{
		style.Bold:          ss.Bold,
		style.Italic:        ss.Italic,
		style.Underline:     ss.Underline,
		style.Strikethrough: ss.Strikethrough,
	} {
		if on {
			fs |= flag
		}
	}
	return style.Style{Foreground: ss.Foreground, FontStyle: fs}, nil
}
