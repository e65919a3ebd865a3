package highlight

import (
	"fmt"
	"slices"
	"strings"
)

// TraceKind tags an explanation trace entry.
type TraceKind uint8

const (
	// TraceScope is a lexical scope name.
	TraceScope TraceKind = iota
	// TraceSemanticType is the (possibly corrected) semantic token type.
	TraceSemanticType
	// TraceModifiers lists the semantic token modifiers.
	TraceModifiers
	// TraceFallback records which fallback tier was consulted.
	TraceFallback
	// TraceSeparator divides semantic entries from lexical scopes.
	TraceSeparator
	// TraceBracket marks a bracket recolored by nesting depth.
	TraceBracket
)

var traceKindNames = [...]string{
	TraceScope:        "scope",
	TraceSemanticType: "semantic",
	TraceModifiers:    "modifiers",
	TraceFallback:     "fallback",
	TraceSeparator:    "separator",
	TraceBracket:      "bracket",
}

func (k TraceKind) String() string {
	if int(k) < len(traceKindNames) {
		return traceKindNames[k]
	}
	return fmt.Sprintf("TraceKind(%d)", k)
}

func (k TraceKind) MarshalText() ([]byte, error) {
	if int(k) >= len(traceKindNames) {
		return nil, fmt.Errorf("unknown trace kind %d", k)
	}
	return []byte(k.String()), nil
}

func (k *TraceKind) UnmarshalText(b []byte) error {
	i := slices.Index(traceKindNames[:], string(b))
	if i < 0 {
		return fmt.Errorf("unknown trace kind %q", b)
	}
	*k = TraceKind(i)
	return nil
}

// TraceEntry is one step of a style explanation.
type TraceEntry struct {
	Kind TraceKind `json:"kind"`
	Text string    `json:"text,omitempty"`
}

func (e TraceEntry) String() string {
	switch e.Kind {
	case TraceModifiers:
		return "[" + e.Text + "]"
	case TraceFallback:
		return "(fallback: " + e.Text + ")"
	case TraceSeparator:
		return "--"
	default:
		return e.Text
	}
}

// Fallback hint texts.
const (
	FallbackLexical = "textmate"
	BracketTrace    = "bracket-pair-colorization"
)

func scopeEntries(stack []string) []TraceEntry {
	entries := make([]TraceEntry, len(stack))
	for i, s := range stack {
		entries[i] = TraceEntry{Kind: TraceScope, Text: s}
	}
	return entries
}

// Names reports whether any scope or semantic entry contains substr.
func Names(trace []TraceEntry, substr string) bool {
	for _, e := range trace {
		if (e.Kind == TraceScope || e.Kind == TraceSemanticType) && strings.Contains(e.Text, substr) {
			return true
		}
	}
	return false
}
