package highlight

import (
	"testing"

	"github.com/stretchr/testify/require"

	"themecheck/internal/style"
)

type testTheme struct {
	rules    []style.Rule
	semantic map[string]style.Style
	fg       string
}

func (t testTheme) TokenRules() []style.Rule              { return t.rules }
func (t testTheme) SemanticRules() map[string]style.Style { return t.semantic }
func (t testTheme) DefaultForeground() string             { return t.fg }

func rule(sel, fg string) style.Rule {
	return style.Rule{Selectors: []string{sel}, Style: style.Style{Foreground: fg}}
}

var darkRules = []style.Rule{
	rule("comment", "#6A9955"),
	rule("string", "#CE9178"),
	rule("keyword", "#569CD6"),
	rule("variable", "#9CDCFE"),
	rule("entity.name.function", "#DCDCAA"),
	{Selectors: []string{"variable.parameter"}, Style: style.Style{Foreground: "#9CDCFF", FontStyle: style.Italic}},
}

func scopeTrace(scopes ...string) []TraceEntry { return scopeEntries(scopes) }

func TestResolveLexical(t *testing.T) {
	r := NewResolver(testTheme{rules: darkRules}, Options{})

	got := r.Resolve([]string{"source.x", "variable.parameter.y"}, nil)
	require.Equal(t, ResolvedStyle{
		Foreground: "#9CDCFF",
		FontStyle:  style.Italic,
		Provenance: ProvenanceLexical,
		Trace:      scopeTrace("source.x", "variable.parameter.y"),
		Active:     1,
	}, got)

	got = r.Resolve([]string{"var.something"}, nil)
	require.Equal(t, style.DefaultForeground, got.Foreground)
	require.Equal(t, -1, got.Active)
}

func TestResolveUsesThemeForeground(t *testing.T) {
	r := NewResolver(testTheme{fg: "#ABCDEF"}, Options{})
	got := r.Resolve([]string{"source.x"}, nil)
	require.Equal(t, "#ABCDEF", got.Foreground)
	require.Equal(t, -1, got.Active)
}

func TestResolveSemanticTiers(t *testing.T) {
	stack := []string{"source.x", "variable.other.x"}
	tests := []struct {
		name     string
		semantic map[string]style.Style
		sem      Semantic
		want     ResolvedStyle
	}{
		{
			name:     "explicit rule",
			semantic: map[string]style.Style{"function": {Foreground: "#FF0000", FontStyle: style.Bold}},
			sem:      Semantic{Type: "function"},
			want: ResolvedStyle{
				Foreground: "#FF0000",
				FontStyle:  style.Bold,
				Provenance: ProvenanceSemantic,
				Trace: append([]TraceEntry{
					{Kind: TraceSemanticType, Text: "function"},
					{Kind: TraceSeparator},
				}, scopeTrace(stack...)...),
				Active: 0,
			},
		},
		{
			name:     "modifier rule beats type rule",
			semantic: map[string]style.Style{"variable": {Foreground: "#111111"}, "variable.readonly": {Foreground: "#222222"}},
			sem:      Semantic{Type: "variable", Modifiers: []string{"readonly"}},
			want: ResolvedStyle{
				Foreground: "#222222",
				Provenance: ProvenanceSemantic,
				Trace: append([]TraceEntry{
					{Kind: TraceSemanticType, Text: "variable"},
					{Kind: TraceModifiers, Text: "readonly"},
					{Kind: TraceSeparator},
				}, scopeTrace(stack...)...),
				Active: 0,
			},
		},
		{
			name: "standard fallback",
			sem:  Semantic{Type: "function", Modifiers: []string{"declaration"}},
			want: ResolvedStyle{
				Foreground: "#DCDCAA",
				Provenance: ProvenanceSemantic,
				Trace: append([]TraceEntry{
					{Kind: TraceSemanticType, Text: "function"},
					{Kind: TraceModifiers, Text: "declaration"},
					{Kind: TraceFallback, Text: "entity.name.function, support.function"},
					{Kind: TraceSeparator},
				}, scopeTrace(stack...)...),
				Active: 2,
			},
		},
		{
			name: "lexical fallback",
			sem:  Semantic{Type: "unknownType"},
			want: ResolvedStyle{
				Foreground: "#9CDCFE",
				Provenance: ProvenanceLexical,
				Trace: append([]TraceEntry{
					{Kind: TraceSemanticType, Text: "unknownType"},
					{Kind: TraceFallback, Text: FallbackLexical},
					{Kind: TraceSeparator},
				}, scopeTrace(stack...)...),
				Active: 4,
			},
		},
		{
			name: "fallback entry without a matching rule",
			sem:  Semantic{Type: "namespace"},
			want: ResolvedStyle{
				Foreground: "#9CDCFE",
				Provenance: ProvenanceLexical,
				Trace: append([]TraceEntry{
					{Kind: TraceSemanticType, Text: "namespace"},
					{Kind: TraceFallback, Text: FallbackLexical},
					{Kind: TraceSeparator},
				}, scopeTrace(stack...)...),
				Active: 4,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(testTheme{rules: darkRules, semantic: tt.semantic}, Options{})
			sem := tt.sem
			require.Equal(t, tt.want, r.Resolve(stack, &sem))
		})
	}
}

func TestResolveWildcardModifiers(t *testing.T) {
	th := testTheme{rules: darkRules, semantic: map[string]style.Style{"*.deprecated": {Foreground: "#777777"}}}
	sem := &Semantic{Type: "function", Modifiers: []string{"deprecated"}}
	stack := []string{"source.x"}

	got := NewResolver(th, Options{}).Resolve(stack, sem)
	require.Equal(t, "#DCDCAA", got.Foreground)

	got = NewResolver(th, Options{WildcardModifiers: true}).Resolve(stack, sem)
	require.Equal(t, "#777777", got.Foreground)
	require.Equal(t, 0, got.Active)
}

func TestResolveMacroCorrection(t *testing.T) {
	th := testTheme{semantic: map[string]style.Style{
		"macro":    {Foreground: "#111111"},
		"modifier": {Foreground: "#222222"},
	}}
	r := NewResolver(th, Options{})

	got := r.Resolve([]string{"source.attribute.foo"}, &Semantic{Type: "macro"})
	require.Equal(t, "#222222", got.Foreground)
	require.Equal(t, TraceEntry{Kind: TraceSemanticType, Text: "modifier"}, got.Trace[0])

	got = r.Resolve([]string{"source.rust", "meta.macro"}, &Semantic{Type: "macro"})
	require.Equal(t, "#111111", got.Foreground)
}

func TestResolveDeterministic(t *testing.T) {
	r := NewResolver(testTheme{rules: darkRules}, Options{})
	stack := []string{"source.x", "keyword.control.x"}
	sem := &Semantic{Type: "keyword", Modifiers: []string{"async"}}
	require.Equal(t, r.Resolve(stack, sem), r.Resolve(stack, sem))
	require.True(t, r.Resolve(stack, sem).Equal(r.Resolve(stack, sem)))
}
