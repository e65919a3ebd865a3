// Package grammar produces lexical scope stacks for source text using
// chroma lexers.
package grammar

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"themecheck/internal/highlight"
)

// ErrUnknownLanguage is returned when a language is requested by name and no
// lexer knows it.
var ErrUnknownLanguage = errors.New("unknown language")

// Token assigns a scope stack to a span of one line.
type Token = highlight.LexicalToken

// Tokenizer produces tokens covering every character of text, in line
// order and non-overlapping per line.
type Tokenizer interface {
	Tokenize(text string) ([]Token, error)
}

var _ Tokenizer = (*Grammar)(nil)

// Grammar tokenizes text for one language.
type Grammar struct {
	lexer chroma.Lexer
	// Language is the short language identifier, e.g. "go".
	Language string
	// LanguageID is the identifier sent to language servers, e.g.
	// "typescript" where Language is "ts".
	LanguageID string
	// ScopeName is the root scope of every stack, e.g. "source.go".
	ScopeName string
}

// Get returns the grammar for a language name or alias.
func Get(language string) (*Grammar, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, language)
	}
	return newGrammar(lexer), nil
}

// ForFile picks a grammar for path. An explicit language wins; otherwise
// the file name is matched, then the content analysed, and finally plain
// text is used.
func ForFile(path, language, text string) (*Grammar, error) {
	if language != "" {
		return Get(language)
	}
	if l := lexers.Match(filepath.Base(path)); l != nil {
		g := newGrammar(l)
		if id, ok := reactIDs[strings.ToLower(filepath.Ext(path))]; ok {
			g.LanguageID = id
		}
		return g, nil
	}
	if l := lexers.Analyse(text); l != nil {
		return newGrammar(l), nil
	}
	return newGrammar(lexers.Fallback), nil
}

func newGrammar(lexer chroma.Lexer) *Grammar {
	cfg := lexer.Config()
	lang := strings.ToLower(cfg.Name)
	if len(cfg.Aliases) > 0 {
		lang = cfg.Aliases[0]
	}
	lang = strings.ReplaceAll(lang, " ", "-")
	root := "source." + lang
	if lang == "plaintext" || lang == "text" {
		root = "text.plain"
	}
	id, ok := languageIDs[strings.ToLower(cfg.Name)]
	if !ok {
		id = lang
	}
	return &Grammar{lexer: chroma.Coalesce(lexer), Language: lang, LanguageID: id, ScopeName: root}
}

// languageIDs maps lowercased chroma lexer names to the identifiers language
// servers expect in didOpen.
var languageIDs = map[string]string{
	"bash":        "shellscript",
	"c":           "c",
	"c#":          "csharp",
	"c++":         "cpp",
	"css":         "css",
	"dockerfile":  "dockerfile",
	"go":          "go",
	"html":        "html",
	"java":        "java",
	"javascript":  "javascript",
	"json":        "json",
	"kotlin":      "kotlin",
	"lua":         "lua",
	"makefile":    "makefile",
	"markdown":    "markdown",
	"objective-c": "objective-c",
	"php":         "php",
	"plaintext":   "plaintext",
	"python":      "python",
	"ruby":        "ruby",
	"rust":        "rust",
	"scala":       "scala",
	"sql":         "sql",
	"swift":       "swift",
	"typescript":  "typescript",
	"yaml":        "yaml",
	"zig":         "zig",
}

var reactIDs = map[string]string{
	".jsx": "javascriptreact",
	".tsx": "typescriptreact",
}

// Tokenize returns one token per lexeme per line, covering every character
// of text. Columns are runes; a "\r" before "\n" is not counted.
func (g *Grammar) Tokenize(text string) ([]highlight.LexicalToken, error) {
	lines := highlight.SplitLines(text)
	it, err := g.lexer.Tokenise(nil, strings.ReplaceAll(text, "\r\n", "\n"))
	if err != nil {
		return nil, fmt.Errorf("tokenizing %s: %w", g.Language, err)
	}

	stacks := map[chroma.TokenType][]string{}
	var toks []highlight.LexicalToken
	line, col := 0, 0
	for tok := it(); tok != chroma.EOF; tok = it() {
		stack, ok := stacks[tok.Type]
		if !ok {
			stack = g.stack(tok.Type)
			stacks[tok.Type] = stack
		}
		for i, seg := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				line++
				col = 0
			}
			if line >= len(lines) {
				break
			}
			n := len([]rune(seg))
			if n == 0 {
				continue
			}
			end := min(col+n, len([]rune(lines[line])))
			if end > col {
				toks = append(toks, highlight.LexicalToken{Line: line, Start: col, End: end, Scopes: stack})
			}
			col += n
		}
	}
	return toks, nil
}

// stack builds the scope stack for a token type, suffixing each scope with
// the language the way textmate grammars do.
func (g *Grammar) stack(tt chroma.TokenType) []string {
	scopes := ScopesFor(tt)
	stack := make([]string, 0, len(scopes)+1)
	stack = append(stack, g.ScopeName)
	for _, s := range scopes {
		stack = append(stack, s+"."+g.Language)
	}
	return stack
}
