package highlight

import (
	"slices"
	"strings"
)

// Position is a line and character offset. Characters are runes.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a maximal run of characters on one line sharing a ResolvedStyle.
type Range struct {
	Start Position      `json:"start"`
	End   Position      `json:"end"`
	Text  string        `json:"text"`
	Style ResolvedStyle `json:"style"`
}

// LexicalToken assigns a scope stack to characters [Start, End) of a line.
type LexicalToken struct {
	Line   int
	Start  int
	End    int
	Scopes []string
}

// SemanticToken assigns a classification to characters [Start, End) of a
// line.
type SemanticToken struct {
	Line      int
	Start     int
	End       int
	Type      string
	Modifiers []string
}

// SplitLines splits text the way positions are counted: on '\n', with a
// trailing '\r' removed from each line.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// charState is the per-character input to resolution.
type charState struct {
	scopes []string
	sem    *Semantic
}

// same reports whether two states share their inputs, in which case they
// resolve identically.
func (s charState) same(o charState) bool {
	if s.sem != o.sem || len(s.scopes) != len(o.scopes) {
		return false
	}
	return len(s.scopes) == 0 || &s.scopes[0] == &o.scopes[0]
}

// scratch is a per-character buffer reused across lines.
type scratch struct {
	states []charState
	sems   []Semantic
}

func (b *scratch) reset(n int) []charState {
	if cap(b.states) < n {
		b.states = make([]charState, n)
	}
	b.states = b.states[:n]
	clear(b.states)
	b.sems = b.sems[:0]
	return b.states
}

// Merge resolves every character of text and emits maximal runs per line.
// Lexical tokens must be ordered by line; semantic tokens may be nil. Later
// tokens overwrite earlier ones where they overlap.
func Merge(text string, lexical []LexicalToken, sem []SemanticToken, r *Resolver) []Range {
	lines := SplitLines(text)
	lexByLine := groupByLine(lexical, len(lines), func(t LexicalToken) int { return t.Line })
	semByLine := groupByLine(sem, len(lines), func(t SemanticToken) int { return t.Line })

	var (
		buf    scratch
		ranges []Range
	)
	for ln, line := range lines {
		runes := []rune(line)
		ranges = append(ranges, mergeLine(ln, runes, lexByLine[ln], semByLine[ln], r, &buf)...)
	}
	return ranges
}

func groupByLine[T any](tokens []T, n int, line func(T) int) [][]T {
	out := make([][]T, n)
	for _, t := range tokens {
		l := line(t)
		if l < 0 || l >= n {
			continue
		}
		out[l] = append(out[l], t)
	}
	return out
}

func mergeLine(ln int, runes []rune, lex []LexicalToken, sem []SemanticToken, r *Resolver, buf *scratch) []Range {
	if len(runes) == 0 {
		var scopes []string
		if len(lex) > 0 {
			scopes = lex[0].Scopes
		}
		return []Range{{
			Start: Position{Line: ln},
			End:   Position{Line: ln},
			Style: r.Resolve(scopes, nil),
		}}
	}

	states := buf.reset(len(runes))
	for _, t := range lex {
		for c := max(t.Start, 0); c < min(t.End, len(runes)); c++ {
			states[c].scopes = t.Scopes
		}
	}
	buf.sems = slices.Grow(buf.sems, len(sem))
	for _, t := range sem {
		buf.sems = append(buf.sems, Semantic{Type: t.Type, Modifiers: t.Modifiers})
		s := &buf.sems[len(buf.sems)-1]
		for c := max(t.Start, 0); c < min(t.End, len(runes)); c++ {
			states[c].sem = s
		}
	}

	var out []Range
	start := 0
	cur := r.Resolve(states[0].scopes, states[0].sem)
	for c := 1; c < len(runes); c++ {
		if states[c].same(states[c-1]) {
			continue
		}
		next := r.Resolve(states[c].scopes, states[c].sem)
		if next.Equal(cur) {
			continue
		}
		out = append(out, newRange(ln, start, c, runes, cur))
		start, cur = c, next
	}
	return append(out, newRange(ln, start, len(runes), runes, cur))
}

func newRange(ln, start, end int, runes []rune, s ResolvedStyle) Range {
	return Range{
		Start: Position{Line: ln, Character: start},
		End:   Position{Line: ln, Character: end},
		Text:  string(runes[start:end]),
		Style: s,
	}
}
