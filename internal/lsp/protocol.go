package lsp

import (
	"encoding/json"

	lsp "github.com/sourcegraph/go-lsp"

	"themecheck/internal/semantic"
)

// Semantic token types and modifiers advertised to servers.
var (
	standardTokenTypes = []string{
		"namespace", "type", "class", "enum", "interface", "struct",
		"typeParameter", "parameter", "variable", "property", "enumMember",
		"event", "function", "method", "macro", "keyword", "modifier",
		"comment", "string", "number", "regexp", "operator", "decorator",
	}
	standardTokenModifiers = []string{
		"declaration", "definition", "readonly", "static", "deprecated",
		"abstract", "async", "modification", "documentation", "defaultLibrary",
	}
)

// The go-lsp types predate semantic tokens, so the parts of the protocol
// touching them are declared here. Outer fields shadow the embedded ones
// when encoding.

type initializeParams struct {
	lsp.InitializeParams
	Capabilities clientCapabilities `json:"capabilities"`
}

type clientCapabilities struct {
	TextDocument textDocumentClientCapabilities `json:"textDocument"`
}

type textDocumentClientCapabilities struct {
	SemanticTokens semanticTokensClientCapabilities `json:"semanticTokens"`
}

type semanticTokensClientCapabilities struct {
	Requests       semanticTokensRequests `json:"requests"`
	TokenTypes     []string               `json:"tokenTypes"`
	TokenModifiers []string               `json:"tokenModifiers"`
	Formats        []string               `json:"formats"`
}

type semanticTokensRequests struct {
	Full bool `json:"full"`
}

type initializeResult struct {
	Capabilities serverCapabilities `json:"capabilities"`
}

type serverCapabilities struct {
	SemanticTokensProvider *semanticTokensOptions `json:"semanticTokensProvider,omitempty"`
}

type semanticTokensOptions struct {
	Legend semantic.Legend `json:"legend"`
	// Full is either a boolean or an options object.
	Full json.RawMessage `json:"full,omitempty"`
}

type semanticTokensParams struct {
	TextDocument lsp.TextDocumentIdentifier `json:"textDocument"`
}

type semanticTokensResult struct {
	ResultID string `json:"resultId,omitempty"`
	Data     []int  `json:"data"`
}

type configurationParams struct {
	Items []json.RawMessage `json:"items"`
}

func newInitializeParams(pid int, root lsp.DocumentURI) initializeParams {
	return initializeParams{
		InitializeParams: lsp.InitializeParams{ProcessID: pid, RootURI: root},
		Capabilities: clientCapabilities{
			TextDocument: textDocumentClientCapabilities{
				SemanticTokens: semanticTokensClientCapabilities{
					Requests:       semanticTokensRequests{Full: true},
					TokenTypes:     standardTokenTypes,
					TokenModifiers: standardTokenModifiers,
					Formats:        []string{"relative"},
				},
			},
		},
	}
}
