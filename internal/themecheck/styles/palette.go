// Package styles holds the colors and renderers shared by themecheck's
// terminal output.
package styles

import (
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
)

// VS Code Dark+ colors.
const (
	VSCodeForeground = "#D4D4D4"
	VSCodeBackground = "#1E1E1E"
	VSCodeComment    = "#6A9955"
	VSCodeKeyword    = "#569CD6"
	VSCodeString     = "#CE9178"
	VSCodeFunction   = "#DCDCAA"
	VSCodeVariable   = "#9CDCFE"
	VSCodeType       = "#4EC9B0"
	VSCodeNumber     = "#B5CEA8"
	VSCodeLink       = "#4FC1FF"
	VSCodeSelection  = "#264F78"
	VSCodeLineNumber = "#858585"
	VSCodeError      = "#F14C4C"
)

var (
	// MenuBar is the bottom bar of the inspector.
	MenuBar = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1)

	Title    = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).MarginLeft(2)
	Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	Dim      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	Spinner  = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	// TraceEntry and ActiveTraceEntry render explanation steps; the active
	// one is the step that produced the color.
	TraceEntry       = lipgloss.NewStyle().Foreground(lipgloss.Color(VSCodeLineNumber))
	ActiveTraceEntry = lipgloss.NewStyle().
				Foreground(lipgloss.Color(charmtone.Zest.Hex())).
				Background(lipgloss.Color(VSCodeSelection)).
				Bold(true)

	Ok       = lipgloss.NewStyle().Foreground(lipgloss.Color(charmtone.Guac.Hex()))
	Mismatch = lipgloss.NewStyle().Foreground(lipgloss.Color(VSCodeError)).Bold(true)
	Created  = lipgloss.NewStyle().Foreground(lipgloss.Color(VSCodeLink))
)
