package grammar

import "github.com/alecthomas/chroma/v2"

// scopeTable maps chroma token types to textmate scope names, outermost
// first. Types missing from the table resolve through their sub-category
// and then their category. Types mapping to nothing carry only the root
// scope.
var scopeTable = map[chroma.TokenType][]string{
	chroma.Text:           nil,
	chroma.TextWhitespace: nil,
	chroma.Other:          nil,
	chroma.Error:          {"invalid.illegal"},

	chroma.Keyword:            {"keyword.control"},
	chroma.KeywordConstant:    {"constant.language"},
	chroma.KeywordDeclaration: {"storage.type"},
	chroma.KeywordNamespace:   {"keyword.control.import"},
	chroma.KeywordPseudo:      {"keyword.other"},
	chroma.KeywordReserved:    {"keyword.other.reserved"},
	chroma.KeywordType:        {"support.type"},

	chroma.Name:                  {"variable.other"},
	chroma.NameAttribute:         {"entity.other.attribute-name"},
	chroma.NameBuiltin:           {"support.function.builtin"},
	chroma.NameBuiltinPseudo:     {"variable.language"},
	chroma.NameClass:             {"entity.name.type.class"},
	chroma.NameConstant:          {"variable.other.constant"},
	chroma.NameDecorator:         {"entity.name.function.decorator"},
	chroma.NameEntity:            {"constant.character.entity"},
	chroma.NameException:         {"entity.name.type.exception"},
	chroma.NameFunction:          {"entity.name.function"},
	chroma.NameFunctionMagic:     {"support.function.magic"},
	chroma.NameLabel:             {"entity.name.label"},
	chroma.NameNamespace:         {"entity.name.namespace"},
	chroma.NameOther:             {"variable.other"},
	chroma.NameProperty:          {"variable.other.property"},
	chroma.NameTag:               {"entity.name.tag"},
	chroma.NameVariable:          {"variable.other.readwrite"},
	chroma.NameVariableClass:     {"variable.other.class"},
	chroma.NameVariableGlobal:    {"variable.other.global"},
	chroma.NameVariableInstance:  {"variable.other.instance"},
	chroma.NameVariableMagic:     {"variable.language"},
	chroma.NameVariableAnonymous: {"variable.other.anonymous"},

	chroma.Literal:     {"constant.other"},
	chroma.LiteralDate: {"constant.other.date"},

	chroma.String:          {"string.quoted"},
	chroma.StringAffix:     {"storage.type.string"},
	chroma.StringBacktick:  {"string.quoted.other"},
	chroma.StringChar:      {"string.quoted.single.char"},
	chroma.StringDelimiter: {"string.quoted", "punctuation.definition.string"},
	chroma.StringDoc:       {"comment.block.documentation"},
	chroma.StringDouble:    {"string.quoted.double"},
	chroma.StringEscape:    {"string.quoted", "constant.character.escape"},
	chroma.StringHeredoc:   {"string.unquoted.heredoc"},
	chroma.StringInterpol:  {"string.interpolated", "meta.embedded.line"},
	chroma.StringOther:     {"string.other"},
	chroma.StringRegex:     {"string.regexp"},
	chroma.StringSingle:    {"string.quoted.single"},
	chroma.StringSymbol:    {"constant.other.symbol"},

	chroma.Number:            {"constant.numeric"},
	chroma.NumberBin:         {"constant.numeric.binary"},
	chroma.NumberFloat:       {"constant.numeric.float"},
	chroma.NumberHex:         {"constant.numeric.hex"},
	chroma.NumberInteger:     {"constant.numeric.integer"},
	chroma.NumberIntegerLong: {"constant.numeric.integer.long"},
	chroma.NumberOct:         {"constant.numeric.octal"},

	chroma.Operator:     {"keyword.operator"},
	chroma.OperatorWord: {"keyword.operator.word"},
	chroma.Punctuation:  {"punctuation"},

	chroma.Comment:            {"comment"},
	chroma.CommentHashbang:    {"comment.line.shebang"},
	chroma.CommentMultiline:   {"comment.block"},
	chroma.CommentPreproc:     {"meta.preprocessor"},
	chroma.CommentPreprocFile: {"meta.preprocessor", "string.quoted.include"},
	chroma.CommentSingle:      {"comment.line"},
	chroma.CommentSpecial:     {"comment.line.documentation"},

	chroma.Generic:           {"markup"},
	chroma.GenericDeleted:    {"markup.deleted"},
	chroma.GenericEmph:       {"markup.italic"},
	chroma.GenericError:      {"invalid.illegal"},
	chroma.GenericHeading:    {"markup.heading"},
	chroma.GenericInserted:   {"markup.inserted"},
	chroma.GenericOutput:     {"markup.raw"},
	chroma.GenericPrompt:     {"markup.prompt"},
	chroma.GenericStrong:     {"markup.bold"},
	chroma.GenericSubheading: {"markup.heading.sub"},
	chroma.GenericTraceback:  {"markup.traceback"},
	chroma.GenericUnderline:  {"markup.underline"},
}

// ScopesFor returns the unsuffixed scope names chroma token type tt maps to.
func ScopesFor(tt chroma.TokenType) []string {
	if s, ok := scopeTable[tt]; ok {
		return s
	}
	if s, ok := scopeTable[tt.SubCategory()]; ok {
		return s
	}
	return scopeTable[tt.Category()]
}

// TokenTypes returns every chroma token type with a scope mapping.
func TokenTypes() []chroma.TokenType {
	out := make([]chroma.TokenType, 0, len(scopeTable))
	for tt, s := range scopeTable {
		if len(s) > 0 {
			out = append(out, tt)
		}
	}
	return out
}
