package semantic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"themecheck/internal/style"
)

func TestDecode(t *testing.T) {
	legend := Legend{
		TokenTypes:     []string{"variable", "function"},
		TokenModifiers: []string{"declaration", "readonly"},
	}
	tokens, err := Decode([]int{0, 9, 5, 1, 0, 1, 4, 4, 0, 1}, legend)
	require.NoError(t, err)

	want := []Token{
		{Line: 0, Start: 9, End: 14, Type: "function"},
		{Line: 1, Start: 4, End: 8, Type: "variable", Modifiers: []string{"declaration"}},
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_SameLineDeltas(t *testing.T) {
	legend := Legend{TokenTypes: []string{"keyword", "type"}, TokenModifiers: []string{"a", "b", "c"}}
	tokens, err := Decode([]int{
		2, 4, 3, 0, 0,
		0, 5, 2, 1, 6,
		0, 3, 1, 7, 0, // unknown type index is skipped but still moves the cursor
		0, 2, 1, 0, 0,
	}, legend)
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	require.Equal(t, Token{Line: 2, Start: 4, End: 7, Type: "keyword"}, tokens[0])
	require.Equal(t, Token{Line: 2, Start: 9, End: 11, Type: "type", Modifiers: []string{"b", "c"}}, tokens[1])
	require.Equal(t, 14, tokens[2].Start)
}

func TestDecode_BadLength(t *testing.T) {
	_, err := Decode([]int{0, 1, 2}, Legend{})
	require.Error(t, err)
}

func TestToRuneColumns(t *testing.T) {
	lines := []string{"a😀b := 1", "plain"}
	tokens := ToRuneColumns([]Token{
		{Line: 0, Start: 3, End: 4, Type: "variable"}, // after the surrogate pair
		{Line: 1, Start: 0, End: 5, Type: "variable"},
		{Line: 5, Start: 0, End: 1, Type: "variable"},
	}, lines)
	require.Len(t, tokens, 2)
	require.Equal(t, 2, tokens[0].Start)
	require.Equal(t, 3, tokens[0].End)
	require.Equal(t, 5, tokens[1].End)
}

func TestStandardFallback(t *testing.T) {
	tests := []struct {
		name      string
		tokenType string
		modifiers []string
		wantKey   string
		wantOK    bool
	}{
		{"bare type", "function", nil, "function", true},
		{"readonly variable", "variable", []string{"readonly"}, "variable.readonly", true},
		{"default library and readonly", "variable", []string{"readonly", "defaultLibrary"}, "variable.defaultLibrary.readonly", true},
		{"default library only", "function", []string{"defaultLibrary"}, "function.defaultLibrary", true},
		{"readonly with no specific entry", "parameter", []string{"readonly"}, "parameter", true},
		{"unknown type", "modifier", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, key, ok := StandardFallback(tt.tokenType, tt.modifiers)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.wantKey, key)
		})
	}
}

func TestResolverPrecedence(t *testing.T) {
	typeStyle := style.Style{Foreground: "#111111"}
	modStyle := style.Style{Foreground: "#222222"}
	wildStyle := style.Style{Foreground: "#333333"}
	r := NewResolver(map[string]style.Style{
		"variable":          typeStyle,
		"variable.readonly": modStyle,
		"*.declaration":     wildStyle,
	})

	s, ok := r.Explicit("variable", []string{"declaration", "readonly"})
	require.True(t, ok)
	require.Equal(t, modStyle, s)

	s, ok = r.Explicit("variable", []string{"declaration"})
	require.True(t, ok)
	require.Equal(t, typeStyle, s)

	_, ok = r.Explicit("function", []string{"declaration"})
	require.False(t, ok)

	s, ok = r.Resolve("function", []string{"declaration"})
	require.True(t, ok)
	require.Equal(t, wildStyle, s)

	_, ok = r.Resolve("function", nil)
	require.False(t, ok)
}

func TestFallback(t *testing.T) {
	fn := style.Style{Foreground: "#DCDCAA"}
	rules := []style.Rule{{Selectors: []string{"entity.name.function"}, Style: fn}}

	m, scopes, ok := Fallback("function", nil, rules)
	require.True(t, ok)
	require.Equal(t, []string{"entity.name.function", "support.function"}, scopes)
	require.Equal(t, style.Match{Style: fn, Index: 0}, m)

	_, _, ok = Fallback("nothing", nil, rules)
	require.False(t, ok)
}
