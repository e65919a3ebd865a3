package highlight

// BracketPalette is the default bracket pair colorization palette.
var BracketPalette = []string{"#FFD700", "#DA70D6", "#179FFF"}

var bracketPartner = map[rune]rune{')': '(', ']': '[', '}': '{'}

func isOpener(r rune) bool { return r == '(' || r == '[' || r == '{' }

// bracketSafe reports whether brackets in a range are code brackets: not in
// a comment or regular expression, and not in a string unless inside an
// embedded or interpolated expression.
func bracketSafe(s ResolvedStyle) bool {
	if Names(s.Trace, "comment") || Names(s.Trace, "regex") {
		return false
	}
	if !Names(s.Trace, "string") {
		return true
	}
	return Names(s.Trace, "embedded") ||
		Names(s.Trace, "interpolation") ||
		Names(s.Trace, "template-expression")
}

// ColorizeBrackets splits ranges around brackets in safe scopes and colors
// each bracket by nesting depth. One stack of open brackets is shared by
// the whole document so pairs may span lines. Unmatched closers keep their
// style. An empty palette leaves ranges untouched.
func ColorizeBrackets(ranges []Range, palette []string) []Range {
	if len(palette) == 0 {
		return ranges
	}
	var (
		stack []rune
		out   = make([]Range, 0, len(ranges))
	)
	for _, rg := range ranges {
		if !bracketSafe(rg.Style) {
			out = appendRange(out, rg)
			continue
		}
		runes := []rune(rg.Text)
		start := 0
		for i, ch := range runes {
			var color string
			switch {
			case isOpener(ch):
				color = palette[len(stack)%len(palette)]
				stack = append(stack, ch)
			case bracketPartner[ch] != 0:
				if len(stack) == 0 || stack[len(stack)-1] != bracketPartner[ch] {
					continue
				}
				stack = stack[:len(stack)-1]
				color = palette[len(stack)%len(palette)]
			default:
				continue
			}
			if i > start {
				out = appendRange(out, sliceRange(rg, runes, start, i, rg.Style))
			}
			out = appendRange(out, sliceRange(rg, runes, i, i+1, bracketStyle(rg.Style, color)))
			start = i + 1
		}
		if start < len(runes) || len(runes) == 0 {
			out = appendRange(out, sliceRange(rg, runes, start, len(runes), rg.Style))
		}
	}
	return out
}

// appendRange appends rg, joining it to the previous range when both are on
// the same line with identical styles, as happens for "()" at equal depth.
func appendRange(out []Range, rg Range) []Range {
	if n := len(out); n > 0 {
		last := &out[n-1]
		if last.End == rg.Start && last.Style.Equal(rg.Style) && rg.Start != rg.End {
			last.End = rg.End
			last.Text += rg.Text
			return out
		}
	}
	return append(out, rg)
}

func sliceRange(rg Range, runes []rune, from, to int, s ResolvedStyle) Range {
	base := rg.Start.Character
	return Range{
		Start: Position{Line: rg.Start.Line, Character: base + from},
		End:   Position{Line: rg.Start.Line, Character: base + to},
		Text:  string(runes[from:to]),
		Style: s,
	}
}

func bracketStyle(s ResolvedStyle, color string) ResolvedStyle {
	trace := make([]TraceEntry, len(s.Trace), len(s.Trace)+1)
	copy(trace, s.Trace)
	trace = append(trace, TraceEntry{Kind: TraceBracket, Text: BracketTrace})
	return ResolvedStyle{
		Foreground: color,
		FontStyle:  s.FontStyle,
		Provenance: s.Provenance,
		Trace:      trace,
		Active:     len(trace) - 1,
	}
}
