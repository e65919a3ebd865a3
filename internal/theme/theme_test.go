package theme

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"themecheck/internal/highlight"
	"themecheck/internal/style"
)

func writeTheme(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const baseTheme = `{
	// base theme
	"name": "Base",
	"colors": { "editor.foreground": "#D4D4D4" },
	"tokenColors": [
		{ "settings": { "foreground": "#FFFFFF" } },
		{ "scope": "comment", "settings": { "foreground": "#6A9955" } },
		{ "scope": "keyword, storage.type", "settings": { "foreground": "#569CD6" } },
		{ "scope": ["string", "string.quoted"], "settings": { "foreground": "#CE9178", "fontStyle": "italic" } },
	],
	"semanticTokenColors": {
		"variable.readonly": "#4FC1FF",
		"function": { "foreground": "#DCDCAA", "bold": true },
	}
}`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	th, err := Load(writeTheme(t, dir, "base.json", baseTheme))
	require.NoError(t, err)

	require.Equal(t, "Base", th.Name)
	require.Equal(t, "#D4D4D4", th.Foreground)
	require.Equal(t, []style.Rule{
		{Selectors: []string{"comment"}, Style: style.Style{Foreground: "#6A9955"}},
		{Selectors: []string{"keyword", "storage.type"}, Style: style.Style{Foreground: "#569CD6"}},
		{Selectors: []string{"string", "string.quoted"}, Style: style.Style{Foreground: "#CE9178", FontStyle: style.Italic}},
	}, th.Rules)
	require.Equal(t, map[string]style.Style{
		"variable.readonly": {Foreground: "#4FC1FF"},
		"function":          {Foreground: "#DCDCAA", FontStyle: style.Bold},
	}, th.Semantic)
}

func TestLoadInclude(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "base.json", baseTheme)
	derived := writeTheme(t, dir, "derived.json", `{
		"name": "Derived",
		"include": "./base.json",
		"tokenColors": [ { "scope": "comment", "settings": { "foreground": "#00FF00" } } ],
		"semanticTokenColors": { "function": "#FF0000" }
	}`)

	th, err := Load(derived)
	require.NoError(t, err)
	require.Equal(t, "Derived", th.Name)
	require.Len(t, th.Sources, 2)
	require.Equal(t, "#FF0000", th.Semantic["function"].Foreground)
	require.Equal(t, "#4FC1FF", th.Semantic["variable.readonly"].Foreground)

	m := style.MatchStack([]string{"source.x", "comment.line.x"}, th.Rules)
	require.Equal(t, "#00FF00", m.Style.Foreground)

	r := highlight.NewResolver(th, highlight.Options{})
	got := r.Resolve([]string{"source.x", "comment.line.x"}, nil)
	require.Equal(t, "#00FF00", got.Foreground)
}

func TestLoadIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "a.json", `{"include": "b.json"}`)
	writeTheme(t, dir, "b.json", `{"include": "a.json"}`)
	_, err := Load(filepath.Join(dir, "a.json"))
	require.ErrorIs(t, err, ErrIncludeCycle)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeTheme(t, dir, "bad.json", `{"tokenColors": 3}`))
	require.Error(t, err)

	_, err = Load(writeTheme(t, dir, "badscope.json", `{"tokenColors": [{"scope": 3, "settings": {}}]}`))
	require.Error(t, err)
}

func TestStripJSONC(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want any
	}{
		{"line comment", "{\"a\": 1 // one\n}", map[string]any{"a": 1.0}},
		{"block comment", `{"a": /* x */ 1}`, map[string]any{"a": 1.0}},
		{"trailing commas", `{"a": [1, 2,], }`, map[string]any{"a": []any{1.0, 2.0}}},
		{"comment after trailing comma", "[1, // x\n]", []any{1.0}},
		{"slashes in string", `{"url": "http://x/*y*/"}`, map[string]any{"url": "http://x/*y*/"}},
		{"escaped quote", `{"q": "a\"//b"}`, map[string]any{"q": `a"//b`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got any
			require.NoError(t, json.Unmarshal(StripJSONC([]byte(tt.in)), &got))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFromChroma(t *testing.T) {
	th, err := Load(ChromaPrefix + "monokai")
	require.NoError(t, err)
	require.Equal(t, "chroma:monokai", th.Name)
	require.NotEmpty(t, th.Rules)
	require.NotEmpty(t, th.Foreground)

	m := style.MatchStack([]string{"source.go", "comment.line.go"}, th.Rules)
	require.True(t, m.Matched())

	_, err = FromChroma("no-such-style")
	require.Error(t, err)
}

func TestVSCodeDark(t *testing.T) {
	th, err := Load(ChromaPrefix + "vscode-dark")
	require.NoError(t, err)
	require.Equal(t, "#d4d4d4", th.Foreground)

	m := style.MatchStack([]string{"source.go", "comment.line.double-slash.go"}, th.Rules)
	require.True(t, m.Matched())
	require.Equal(t, "#6a9955", m.Style.Foreground)
	require.True(t, m.Style.FontStyle.Has(style.Italic))

	m = style.MatchStack([]string{"source.go", "entity.name.function.go"}, th.Rules)
	require.Equal(t, "#dcdcaa", m.Style.Foreground)
}
