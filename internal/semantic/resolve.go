package semantic

import (
	"slices"

	"themecheck/internal/style"
)

const (
	modReadonly       = "readonly"
	modDefaultLibrary = "defaultLibrary"
)

// standardFallback maps semantic keys to the textmate scopes an editor uses
// when the theme has no semantic rule for them.
var standardFallback = map[string][]string{
	"comment":       {"comment"},
	"string":        {"string"},
	"keyword":       {"keyword.control"},
	"number":        {"constant.numeric"},
	"regexp":        {"constant.regexp"},
	"operator":      {"keyword.operator"},
	"namespace":     {"entity.name.namespace"},
	"type":          {"entity.name.type", "support.type"},
	"struct":        {"entity.name.type.struct"},
	"class":         {"entity.name.type.class", "support.class"},
	"interface":     {"entity.name.type.interface"},
	"enum":          {"entity.name.type.enum"},
	"typeParameter": {"entity.name.type.parameter"},
	"function":      {"entity.name.function", "support.function"},
	"member":        {"entity.name.function.member", "support.function"},
	"method":        {"entity.name.function.member", "support.function"},
	"macro":         {"entity.name.function.preprocessor"},
	"variable":      {"variable.other.readwrite", "entity.name.variable"},
	"parameter":     {"variable.parameter"},
	"property":      {"variable.other.property"},
	"enumMember":    {"variable.other.enummember"},
	"event":         {"variable.other.event"},
	"decorator":     {"entity.name.decorator", "entity.name.function"},
	"label":         {"entity.name.label"},

	"variable.readonly":                {"variable.other.constant"},
	"property.readonly":                {"variable.other.constant.property"},
	"type.defaultLibrary":              {"support.type"},
	"class.defaultLibrary":             {"support.class"},
	"function.defaultLibrary":          {"support.function"},
	"variable.defaultLibrary":          {"support.variable"},
	"property.defaultLibrary":          {"support.variable.property"},
	"variable.defaultLibrary.readonly": {"support.constant"},
	"property.defaultLibrary.readonly": {"support.constant.property"},
}

// StandardFallback returns the textmate scopes standing in for a semantic
// type and the table key that produced them. More specific keys built from
// the readonly and defaultLibrary modifiers are tried first.
func StandardFallback(tokenType string, modifiers []string) (scopes []string, key string, ok bool) {
	readonly := slices.Contains(modifiers, modReadonly)
	defaultLib := slices.Contains(modifiers, modDefaultLibrary)

	var keys []string
	if readonly && defaultLib {
		keys = append(keys, tokenType+"."+modDefaultLibrary+"."+modReadonly)
	}
	if readonly {
		keys = append(keys, tokenType+"."+modReadonly)
	}
	if defaultLib {
		keys = append(keys, tokenType+"."+modDefaultLibrary)
	}
	keys = append(keys, tokenType)

	for _, k := range keys {
		if scopes, ok := standardFallback[k]; ok {
			return scopes, k, true
		}
	}
	return nil, "", false
}

// Resolver looks up semantic styles in a theme's semanticTokenColors map.
type Resolver struct {
	rules map[string]style.Style
}

// NewResolver returns a resolver over explicit semantic rules keyed by
// "type", "type.modifier" or "*.modifier".
func NewResolver(rules map[string]style.Style) *Resolver {
	return &Resolver{rules: rules}
}

// Resolve finds a theme rule for a classification: "type.modifier" rules in
// modifier order, then the "type" rule, then "*.modifier" rules.
func (r *Resolver) Resolve(tokenType string, modifiers []string) (style.Style, bool) {
	if s, ok := r.Explicit(tokenType, modifiers); ok {
		return s, true
	}
	for _, mod := range modifiers {
		if s, ok := r.rules["*."+mod]; ok {
			return s, true
		}
	}
	return style.Style{}, false
}

// Explicit is Resolve without the wildcard modifier rules.
func (r *Resolver) Explicit(tokenType string, modifiers []string) (style.Style, bool) {
	for _, mod := range modifiers {
		if s, ok := r.rules[tokenType+"."+mod]; ok {
			return s, true
		}
	}
	if s, ok := r.rules[tokenType]; ok {
		return s, true
	}
	return style.Style{}, false
}

// Fallback resolves the standard fallback scopes for a classification
// through the lexical rules. The candidates are matched as a scope stack.
func Fallback(tokenType string, modifiers []string, rules []style.Rule) (style.Match, []string, bool) {
	scopes, _, ok := StandardFallback(tokenType, modifiers)
	if !ok {
		return style.Default, nil, false
	}
	return style.MatchStack(scopes, rules), scopes, true
}
