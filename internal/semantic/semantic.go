// Package semantic decodes language-server semantic tokens and resolves
// semantic classifications to theme styles.
package semantic

import (
	"fmt"
	"unicode/utf16"
)

// Legend maps token type and modifier indices to names.
type Legend struct {
	TokenTypes     []string `json:"tokenTypes"`
	TokenModifiers []string `json:"tokenModifiers"`
}

// Tokens is the raw result of a semantic tokens request.
type Tokens struct {
	Data   []int
	Legend Legend
}

// Token is one decoded semantic classification. Start and End are
// character offsets in Line, End exclusive.
type Token struct {
	Line      int
	Start     int
	End       int
	Type      string
	Modifiers []string
}

// Decode expands the flat delta-encoded data into tokens. Each token uses
// five integers: delta line, delta (or absolute) start, length, type index
// and modifier bitmask. Tokens with a type index outside the legend are
// skipped.
func Decode(data []int, legend Legend) ([]Token, error) {
	if len(data)%5 != 0 {
		return nil, fmt.Errorf("semantic token data length %d is not a multiple of 5", len(data))
	}
	tokens := make([]Token, 0, len(data)/5)
	line, char := 0, 0
	for i := 0; i < len(data); i += 5 {
		deltaLine, deltaStart, length := data[i], data[i+1], data[i+2]
		typeIdx, mods := data[i+3], data[i+4]
		if deltaLine > 0 {
			line += deltaLine
			char = deltaStart
		} else {
			char += deltaStart
		}
		if typeIdx < 0 || typeIdx >= len(legend.TokenTypes) {
			continue
		}
		tokens = append(tokens, Token{
			Line:      line,
			Start:     char,
			End:       char + length,
			Type:      legend.TokenTypes[typeIdx],
			Modifiers: decodeModifiers(mods, legend.TokenModifiers),
		})
	}
	return tokens, nil
}

func decodeModifiers(mask int, names []string) []string {
	var mods []string
	for bit := 0; bit < len(names) && mask>>bit != 0; bit++ {
		if mask&(1<<bit) != 0 {
			mods = append(mods, names[bit])
		}
	}
	return mods
}

// ToRuneColumns converts token offsets from UTF-16 code units, the default
// LSP position encoding, to rune offsets within lines. Tokens on lines past
// the end of lines are dropped.
func ToRuneColumns(tokens []Token, lines []string) []Token {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Line >= len(lines) {
			continue
		}
		line := lines[tok.Line]
		tok.Start = utf16ToRune(line, tok.Start)
		tok.End = utf16ToRune(line, tok.End)
		out = append(out, tok)
	}
	return out
}

func utf16ToRune(line string, units int) int {
	runes, seen := 0, 0
	for _, r := range line {
		if seen >= units {
			return runes
		}
		seen += utf16.RuneLen(r)
		runes++
	}
	return runes + max(0, units-seen)
}
