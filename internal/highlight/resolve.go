// Package highlight merges lexical scopes and semantic classifications into
// explainable styled ranges the way an editor would paint them.
package highlight

import (
	"slices"
	"strings"

	"themecheck/internal/semantic"
	"themecheck/internal/style"
)

// Provenance tells which mechanism decided a style.
type Provenance string

const (
	ProvenanceLexical  Provenance = "lexical"
	ProvenanceSemantic Provenance = "semantic"
)

// ResolvedStyle is the final style of one character with its explanation.
type ResolvedStyle struct {
	Foreground string          `json:"foreground"`
	FontStyle  style.FontStyle `json:"fontStyle,omitempty"`
	Provenance Provenance      `json:"provenance"`
	Trace      []TraceEntry    `json:"trace"`
	// Active indexes the trace entry that produced the color, -1 if the
	// color is the default.
	Active int `json:"active"`
}

// Equal reports exact equality, including provenance and the whole trace.
func (s ResolvedStyle) Equal(o ResolvedStyle) bool {
	return s.Foreground == o.Foreground &&
		s.FontStyle == o.FontStyle &&
		s.Provenance == o.Provenance &&
		s.Active == o.Active &&
		slices.Equal(s.Trace, o.Trace)
}

// ActiveEntry returns the trace entry that produced the color.
func (s ResolvedStyle) ActiveEntry() (TraceEntry, bool) {
	if s.Active < 0 || s.Active >= len(s.Trace) {
		return TraceEntry{}, false
	}
	return s.Trace[s.Active], true
}

// Semantic is the semantic classification of one character.
type Semantic struct {
	Type      string
	Modifiers []string
}

// Theme is what the resolver needs from a loaded theme.
type Theme interface {
	TokenRules() []style.Rule
	SemanticRules() map[string]style.Style
	DefaultForeground() string
}

// Options tune resolution.
type Options struct {
	// WildcardModifiers lets "*.modifier" semantic rules take part in the
	// explicit tier.
	WildcardModifiers bool
}

// Resolver computes ResolvedStyles against one theme. It holds no state
// besides the read-only theme rules.
type Resolver struct {
	rules      []style.Rule
	semantic   *semantic.Resolver
	foreground string
	opts       Options
}

// NewResolver builds a resolver for th.
func NewResolver(th Theme, opts Options) *Resolver {
	fg := th.DefaultForeground()
	if fg == "" {
		fg = style.DefaultForeground
	}
	return &Resolver{
		rules:      th.TokenRules(),
		semantic:   semantic.NewResolver(th.SemanticRules()),
		foreground: fg,
		opts:       opts,
	}
}

// correctType rewrites classifier quirks: some servers report attributes as
// macros.
func correctType(tokenType string, stack []string) string {
	if tokenType != "macro" {
		return tokenType
	}
	for _, s := range stack {
		if strings.Contains(s, "attribute") {
			return "modifier"
		}
	}
	return tokenType
}

func (r *Resolver) explicit(tokenType string, modifiers []string) (style.Style, bool) {
	if r.opts.WildcardModifiers {
		return r.semantic.Resolve(tokenType, modifiers)
	}
	return r.semantic.Explicit(tokenType, modifiers)
}

func (r *Resolver) color(s style.Style) string {
	if s.Foreground == "" {
		return r.foreground
	}
	return s.Foreground
}

func (r *Resolver) matchColor(m style.Match) string {
	if !m.Matched() {
		return r.foreground
	}
	return r.color(m.Style)
}

// Resolve computes the style of a character from its scope stack and
// optional semantic classification.
func (r *Resolver) Resolve(stack []string, sem *Semantic) ResolvedStyle {
	if sem == nil {
		m := style.MatchStack(stack, r.rules)
		return ResolvedStyle{
			Foreground: r.matchColor(m),
			FontStyle:  m.Style.FontStyle,
			Provenance: ProvenanceLexical,
			Trace:      scopeEntries(stack),
			Active:     m.Index,
		}
	}

	tokenType := correctType(sem.Type, stack)
	trace := make([]TraceEntry, 0, len(stack)+4)
	trace = append(trace, TraceEntry{Kind: TraceSemanticType, Text: tokenType})
	if len(sem.Modifiers) > 0 {
		trace = append(trace, TraceEntry{Kind: TraceModifiers, Text: strings.Join(sem.Modifiers, ", ")})
	}

	if s, ok := r.explicit(tokenType, sem.Modifiers); ok {
		trace = append(trace, TraceEntry{Kind: TraceSeparator})
		trace = append(trace, scopeEntries(stack)...)
		return ResolvedStyle{
			Foreground: r.color(s),
			FontStyle:  s.FontStyle,
			Provenance: ProvenanceSemantic,
			Trace:      trace,
			Active:     0,
		}
	}

	if m, scopes, ok := semantic.Fallback(tokenType, sem.Modifiers, r.rules); ok && m.Matched() {
		hint := len(trace)
		trace = append(trace, TraceEntry{Kind: TraceFallback, Text: strings.Join(scopes, ", ")})
		trace = append(trace, TraceEntry{Kind: TraceSeparator})
		trace = append(trace, scopeEntries(stack)...)
		return ResolvedStyle{
			Foreground: r.matchColor(m),
			FontStyle:  m.Style.FontStyle,
			Provenance: ProvenanceSemantic,
			Trace:      trace,
			Active:     hint,
		}
	}

	trace = append(trace, TraceEntry{Kind: TraceFallback, Text: FallbackLexical})
	trace = append(trace, TraceEntry{Kind: TraceSeparator})
	lexStart := len(trace)
	trace = append(trace, scopeEntries(stack)...)
	m := style.MatchStack(stack, r.rules)
	active := -1
	if m.Matched() {
		active = lexStart + m.Index
	}
	return ResolvedStyle{
		Foreground: r.matchColor(m),
		FontStyle:  m.Style.FontStyle,
		Provenance: ProvenanceLexical,
		Trace:      trace,
		Active:     active,
	}
}
