package inspect

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"themecheck/internal/highlight"
	"themecheck/internal/pipeline"
)

func testResult() pipeline.Result {
	return pipeline.Result{
		Path:     "a.go",
		Language: "go",
		Ranges: []highlight.Range{
			{
				Start: highlight.Position{Line: 0, Character: 0},
				End:   highlight.Position{Line: 0, Character: 4},
				Text:  "func",
				Style: highlight.ResolvedStyle{
					Foreground: "#569CD6",
					Provenance: highlight.ProvenanceLexical,
					Trace: []highlight.TraceEntry{
						{Kind: highlight.TraceScope, Text: "source.go"},
						{Kind: highlight.TraceScope, Text: "storage.type.go"},
					},
					Active: 1,
				},
			},
			{
				Start: highlight.Position{Line: 0, Character: 4},
				End:   highlight.Position{Line: 0, Character: 9},
				Text:  " main",
				Style: highlight.ResolvedStyle{
					Foreground: "#D4D4D4",
					Provenance: highlight.ProvenanceLexical,
					Trace:      []highlight.TraceEntry{{Kind: highlight.TraceScope, Text: "source.go"}},
					Active:     -1,
				},
			},
		},
		Diagnostics: []string{"semantic tokens: server exited"},
	}
}

func loaded(t *testing.T) Model {
	t.Helper()
	m := New("a.go", func() (pipeline.Result, error) { return testResult(), nil })
	next, _ := m.Update(resultMsg{result: testResult()})
	return next.(Model)
}

func TestLoadCommand(t *testing.T) {
	m := New("a.go", func() (pipeline.Result, error) { return testResult(), nil })
	require.True(t, m.loading)

	msg := m.loadCmd()()
	res, ok := msg.(resultMsg)
	require.True(t, ok)
	require.NoError(t, res.err)
	require.Len(t, res.result.Ranges, 2)
}

func TestUpdateResult(t *testing.T) {
	m := loaded(t)
	require.False(t, m.loading)
	require.Len(t, m.ranges.Items(), 2)

	view := ansi.Strip(m.View())
	require.Contains(t, view, "func main")
	require.Contains(t, view, "R: ranges")
}

func TestUpdateError(t *testing.T) {
	m := New("a.go", nil)
	next, _ := m.Update(resultMsg{err: errors.New("no grammar")})
	m = next.(Model)
	require.Contains(t, ansi.Strip(m.View()), "no grammar")
	require.Contains(t, ansi.Strip(m.View()), "Q: quit")

	// nothing to cycle through without ranges
	m, _, handled := m.handleKey("tab")
	require.True(t, handled)
	require.Equal(t, viewCode, m.mode)
}

func TestHandleKeys(t *testing.T) {
	m := loaded(t)

	m, _, handled := m.handleKey("tab")
	require.True(t, handled)
	require.Equal(t, viewRanges, m.mode)

	m, _, _ = m.handleKey("enter")
	require.Equal(t, viewDetails, m.mode)
	require.Contains(t, ansi.Strip(m.details.View()), "> scope      storage.type.go")

	m, _, _ = m.handleKey("shift+tab")
	require.Equal(t, viewRanges, m.mode)
	m, _, _ = m.handleKey("c")
	require.Equal(t, viewCode, m.mode)

	_, cmd, handled := m.handleKey("q")
	require.True(t, handled)
	require.NotNil(t, cmd)

	_, _, handled = m.handleKey("x")
	require.False(t, handled)
}

func TestWindowResize(t *testing.T) {
	m := loaded(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	require.Equal(t, 120, m.width)
	require.Equal(t, 38, m.code.Height())
}

func TestDetails(t *testing.T) {
	res := testResult()

	active := ansi.Strip(Details(res.Ranges[0]))
	require.Contains(t, active, `"func"`)
	require.Contains(t, active, "line 1, characters 0-4")
	require.Contains(t, active, "#569CD6")
	require.Contains(t, active, "  scope      source.go")
	require.Contains(t, active, "> scope      storage.type.go")

	def := ansi.Strip(Details(res.Ranges[1]))
	require.Contains(t, def, "no rule matched")
	require.NotContains(t, def, "> ")
}
