// Package pipeline highlights files end to end: tokenize, fetch semantic
// tokens, merge, and color brackets.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	protocol "github.com/sourcegraph/go-lsp"

	"themecheck/internal/grammar"
	"themecheck/internal/highlight"
	"themecheck/internal/lsp"
	"themecheck/internal/semantic"
)

// SemanticSource supplies semantic tokens for a document.
type SemanticSource interface {
	SemanticTokens(ctx context.Context, uri protocol.DocumentURI, languageID, text string) (*semantic.Tokens, error)
}

// Options controls a Runner.
type Options struct {
	// Languages maps file extensions without the dot ("go") to language
	// names and overrides detection.
	Languages map[string]string
	// Palette colors brackets by depth. Nil disables the bracket pass.
	Palette []string
	// WildcardModifiers enables "*.modifier" semantic rules.
	WildcardModifiers bool
}

// Document is a file ready to be highlighted.
type Document struct {
	Path    string
	Text    string
	Grammar *grammar.Grammar
}

// Result is the highlighting of one document.
type Result struct {
	Path     string
	Language string
	Ranges   []highlight.Range
	// Diagnostics describe recovered problems, such as a failed semantic
	// tokens request.
	Diagnostics []string
}

// Runner highlights documents one at a time.
type Runner struct {
	resolver *highlight.Resolver
	sem      SemanticSource
	opts     Options
}

// New returns a runner for theme th. sem may be nil for lexical-only
// highlighting.
func New(th highlight.Theme, sem SemanticSource, opts Options) *Runner {
	return &Runner{
		resolver: highlight.NewResolver(th, highlight.Options{WildcardModifiers: opts.WildcardModifiers}),
		sem:      sem,
		opts:     opts,
	}
}

// Load reads every path and picks its grammar. Any failure aborts the
// whole batch.
func (r *Runner) Load(paths []string) ([]Document, error) {
	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		text := string(data)
		lang := r.opts.Languages[strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")]
		g, err := grammar.ForFile(path, lang, text)
		if err != nil {
			return nil, fmt.Errorf("grammar for %s: %w", path, err)
		}
		docs = append(docs, Document{Path: path, Text: text, Grammar: g})
	}
	return docs, nil
}

// Highlight produces the styled ranges for doc. A failed semantic tokens
// request degrades the document to lexical highlighting and is reported in
// the result's diagnostics.
func (r *Runner) Highlight(ctx context.Context, doc Document) (Result, error) {
	res := Result{Path: doc.Path, Language: doc.Grammar.Language}

	lexical, err := doc.Grammar.Tokenize(doc.Text)
	if err != nil {
		return res, fmt.Errorf("tokenizing %s: %w", doc.Path, err)
	}

	var sem []highlight.SemanticToken
	if r.sem != nil {
		sem, err = r.semanticTokens(ctx, doc)
		if err != nil {
			slog.Warn("Semantic tokens failed, using lexical highlighting", "file", doc.Path, "error", err)
			res.Diagnostics = append(res.Diagnostics, fmt.Sprintf("semantic tokens: %v", err))
			sem = nil
		}
	}

	res.Ranges = highlight.Merge(doc.Text, lexical, sem, r.resolver)
	if len(r.opts.Palette) > 0 {
		res.Ranges = highlight.ColorizeBrackets(res.Ranges, r.opts.Palette)
	}
	slog.Debug("Highlighted file", "file", doc.Path, "language", res.Language,
		"lexical", len(lexical), "semantic", len(sem), "ranges", len(res.Ranges))
	return res, nil
}

func (r *Runner) semanticTokens(ctx context.Context, doc Document) ([]highlight.SemanticToken, error) {
	raw, err := r.sem.SemanticTokens(ctx, lsp.FileURI(doc.Path), doc.Grammar.LanguageID, doc.Text)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	decoded, err := semantic.Decode(raw.Data, raw.Legend)
	if err != nil {
		return nil, err
	}
	decoded = semantic.ToRuneColumns(decoded, highlight.SplitLines(doc.Text))
	out := make([]highlight.SemanticToken, len(decoded))
	for i, t := range decoded {
		out[i] = highlight.SemanticToken{Line: t.Line, Start: t.Start, End: t.End, Type: t.Type, Modifiers: t.Modifiers}
	}
	return out, nil
}

// Run highlights docs in order and hands each result to fn. It stops at the
// first error returned by Highlight or fn, or when ctx is done.
func (r *Runner) Run(ctx context.Context, docs []Document, fn func(Result) error) error {
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := r.Highlight(ctx, doc)
		if err != nil {
			return err
		}
		if err := fn(res); err != nil {
			return err
		}
	}
	return nil
}
