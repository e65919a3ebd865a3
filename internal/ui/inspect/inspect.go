// Package inspect is an interactive viewer for one highlighted file: the
// rendered source, the list of styled ranges, and the trace behind each.
package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"themecheck/internal/highlight"
	"themecheck/internal/pipeline"
	"themecheck/internal/themecheck/styles"
	"themecheck/internal/ui/colorize"
)

type viewMode int

const (
	viewCode viewMode = iota
	viewRanges
	viewDetails
)

// LoadFunc produces the result to inspect. It runs off the UI goroutine.
type LoadFunc func() (pipeline.Result, error)

type resultMsg struct {
	result pipeline.Result
	err    error
}

type rangeItem struct {
	r highlight.Range
}

func (i rangeItem) FilterValue() string {
	var sb strings.Builder
	sb.WriteString(i.r.Text)
	for _, e := range i.r.Style.Trace {
		sb.WriteByte(' ')
		sb.WriteString(e.Text)
	}
	return sb.String()
}

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(rangeItem)
	if !ok {
		return
	}
	indicator, posStyle := " ", styles.Dim
	if index == m.Index() {
		indicator, posStyle = ">", styles.Selected
	}
	pos := fmt.Sprintf("%d:%d-%d", i.r.Start.Line+1, i.r.Start.Character, i.r.End.Character)
	text := strings.ReplaceAll(i.r.Text, "\t", "→")
	if text == "" {
		text = "⏎"
	}
	fmt.Fprintf(w, " %s %s  %s  %s",
		indicator,
		posStyle.Render(fmt.Sprintf("%-10s", pos)),
		colorize.RangeStyle(i.r.Style).Render(text),
		styles.Dim.Render(string(i.r.Style.Provenance)))
}

// Model is the bubbletea model of the inspector.
type Model struct {
	code    viewport.Model
	ranges  list.Model
	details viewport.Model
	spinner spinner.Model
	mode    viewMode
	path    string
	load    LoadFunc
	result  pipeline.Result
	err     error
	loading bool
	width   int
	height  int
}

// New returns an inspector for path that calls load on start.
func New(path string, load LoadFunc) Model {
	code := viewport.New()
	code.SetWidth(80)
	code.SetHeight(24)

	ranges := list.New([]list.Item{}, itemDelegate{}, 80, 24)
	ranges.SetShowStatusBar(false)
	ranges.SetFilteringEnabled(true)
	ranges.Title = "Ranges"
	ranges.Styles.Title = styles.Title

	details := viewport.New()
	details.SetWidth(80)
	details.SetHeight(24)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	m := Model{
		code:    code,
		ranges:  ranges,
		details: details,
		spinner: s,
		path:    path,
		load:    load,
		loading: true,
		width:   80,
		height:  24,
	}
	m.updateCode()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m Model) loadCmd() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		res, err := load()
		return resultMsg{result: res, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case resultMsg:
		m.loading = false
		m.result, m.err = msg.result, msg.err
		m.updateRanges()
		m.updateCode()
		m.updateDetails()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		m.updateCode()
		return m, cmd

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if m.mode == viewRanges && m.ranges.FilterState() == list.Filtering {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}
		if next, cmd, handled := m.handleKey(msg.String()); handled {
			return next, cmd
		}
	}

	switch m.mode {
	case viewRanges:
		m.ranges, cmd = m.ranges.Update(msg)
	case viewDetails:
		m.details, cmd = m.details.Update(msg)
	default:
		m.code, cmd = m.code.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(key string) (Model, tea.Cmd, bool) {
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit, true
	case "c":
		m.mode = viewCode
	case "r":
		if len(m.result.Ranges) > 0 {
			m.mode = viewRanges
		}
	case "d":
		if len(m.result.Ranges) > 0 {
			m.updateDetails()
			m.mode = viewDetails
		}
	case "enter":
		if m.mode != viewRanges {
			return m, nil, false
		}
		m.updateDetails()
		m.mode = viewDetails
	case "tab":
		if len(m.result.Ranges) == 0 {
			return m, nil, true
		}
		m.mode = (m.mode + 1) % 3
		m.updateDetails()
	case "shift+tab":
		if len(m.result.Ranges) == 0 {
			return m, nil, true
		}
		m.mode = (m.mode + 2) % 3
		m.updateDetails()
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m *Model) resize(width, height int) {
	if width == m.width && height == m.height {
		return
	}
	m.width, m.height = width, height
	m.code.SetWidth(width)
	m.code.SetHeight(height - 2)
	m.ranges.SetWidth(width)
	m.ranges.SetHeight(height - 2)
	m.details.SetWidth(width)
	m.details.SetHeight(height - 2)
	m.updateCode()
	m.updateDetails()
}

func (m Model) View() string {
	var content string
	var menu string
	switch m.mode {
	case viewRanges:
		content = m.ranges.View()
		menu = " Enter: trace • C: code • D: details • /: filter • Tab: cycle • Q: quit "
	case viewDetails:
		content = m.details.View()
		menu = " C: code • R: ranges • Tab: cycle • Q: quit "
	default:
		content = m.code.View()
		if len(m.result.Ranges) > 0 {
			menu = " R: ranges • D: details • Tab: cycle • Q: quit "
		} else {
			menu = " Q: quit "
		}
	}
	return content + "\n" + styles.MenuBar.Width(m.width).Render(menu)
}

func (m *Model) updateRanges() {
	items := make([]list.Item, len(m.result.Ranges))
	for i, r := range m.result.Ranges {
		items[i] = rangeItem{r: r}
	}
	m.ranges.SetItems(items)
}

func (m *Model) updateCode() {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", m.path)
	switch {
	case m.loading:
		fmt.Fprintf(&md, "%s Highlighting...\n", m.spinner.View())
	case m.err != nil:
		fmt.Fprintf(&md, "**Error:** %s\n", m.err)
	default:
		fmt.Fprintf(&md, "Language `%s`, %d ranges\n", m.result.Language, len(m.result.Ranges))
		for _, d := range m.result.Diagnostics {
			fmt.Fprintf(&md, "\n> %s\n", d)
		}
	}
	header := styles.RenderMarkdown(md.String(), m.width-2)

	if m.loading || m.err != nil {
		m.code.SetContent(header)
		return
	}
	m.code.SetContent(header + "\n\n" + colorize.ANSI(m.result.Ranges, colorize.Enabled()))
}

func (m *Model) updateDetails() {
	item, ok := m.ranges.SelectedItem().(rangeItem)
	if !ok {
		m.details.SetContent("")
		return
	}
	m.details.SetContent(Details(item.r))
	m.details.GotoTop()
}

// Details describes one range: position, style, and its trace with the
// entry that produced the color highlighted.
func Details(r highlight.Range) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%q\n", r.Text)
	fmt.Fprintf(&sb, "line %d, characters %d-%d\n\n", r.Start.Line+1, r.Start.Character, r.End.Character)

	swatch := colorize.RangeStyle(r.Style).Render("■■")
	fmt.Fprintf(&sb, "%s %s", swatch, r.Style.Foreground)
	if fs := r.Style.FontStyle.String(); fs != "" {
		fmt.Fprintf(&sb, " %s", fs)
	}
	fmt.Fprintf(&sb, "  (%s)\n\n", r.Style.Provenance)

	if r.Style.Active < 0 {
		sb.WriteString(styles.Dim.Render("no rule matched; default foreground") + "\n\n")
	}
	for i, e := range r.Style.Trace {
		line := fmt.Sprintf("%-10s %s", e.Kind, e)
		if i == r.Style.Active {
			sb.WriteString(styles.ActiveTraceEntry.Render("> "+line) + "\n")
		} else {
			sb.WriteString(styles.TraceEntry.Render("  "+line) + "\n")
		}
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.TrimSuffix(sb.String(), "\n"))
}
