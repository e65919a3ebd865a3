package colorize

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"themecheck/internal/highlight"
	"themecheck/internal/style"
)

// Page is the input to HTML.
type Page struct {
	Title      string
	Background string
	Foreground string
	Ranges     []highlight.Range
}

type htmlSpan struct {
	Text  string
	Style template.CSS
	Title string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { background: {{.Background}}; color: {{.Foreground}}; }
pre { font-family: Menlo, Consolas, monospace; font-size: 13px; line-height: 1.4; }
</style>
</head>
<body>
<pre>{{range $i, $line := .Lines}}{{if $i}}
{{end}}{{range $line}}<span style="{{.Style}}" title="{{.Title}}">{{.Text}}</span>{{end}}{{end}}</pre>
</body>
</html>
`))

// HTML writes a standalone page with one span per range. Each span's title
// shows the range's trace so hovering explains the color.
func HTML(w io.Writer, p Page) error {
	var lines [][]htmlSpan
	for _, r := range p.Ranges {
		for len(lines) <= r.Start.Line {
			lines = append(lines, nil)
		}
		if r.Text == "" {
			continue
		}
		lines[r.Start.Line] = append(lines[r.Start.Line], htmlSpan{
			Text:  r.Text,
			Style: css(r.Style),
			Title: traceTitle(r.Style),
		})
	}

	bg, fg := p.Background, p.Foreground
	if bg == "" {
		bg = "#1E1E1E"
	}
	if fg == "" {
		fg = style.DefaultForeground
	}
	data := struct {
		Title      string
		Background template.CSS
		Foreground template.CSS
		Lines      [][]htmlSpan
	}{p.Title, template.CSS(bg), template.CSS(fg), lines}

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}

func css(rs highlight.ResolvedStyle) template.CSS {
	var parts []string
	if rs.Foreground != "" {
		parts = append(parts, "color: "+rs.Foreground)
	}
	if rs.FontStyle.Has(style.Bold) {
		parts = append(parts, "font-weight: bold")
	}
	if rs.FontStyle.Has(style.Italic) {
		parts = append(parts, "font-style: italic")
	}
	var deco []string
	if rs.FontStyle.Has(style.Underline) {
		deco = append(deco, "underline")
	}
	if rs.FontStyle.Has(style.Strikethrough) {
		deco = append(deco, "line-through")
	}
	if len(deco) > 0 {
		parts = append(parts, "text-decoration: "+strings.Join(deco, " "))
	}
	return template.CSS(strings.Join(parts, "; "))
}

func traceTitle(rs highlight.ResolvedStyle) string {
	entries := make([]string, len(rs.Trace))
	for i, e := range rs.Trace {
		if i == rs.Active {
			entries[i] = "> " + e.String()
		} else {
			entries[i] = e.String()
		}
	}
	return string(rs.Provenance) + ": " + strings.Join(entries, " ")
}
