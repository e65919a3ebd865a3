// Package lsp is a minimal language server client that fetches semantic
// tokens for whole documents.
package lsp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"
	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"themecheck/internal/semantic"
)

// ErrUnsupported is returned when the server does not provide semantic
// tokens.
var ErrUnsupported = errors.New("server does not provide semantic tokens")

const (
	DefaultTimeout       = 10 * time.Second
	DefaultCacheTTL      = 10 * time.Minute
	cacheCleanupInterval = 30 * time.Minute
	exitGrace            = 2 * time.Second
)

// Options configures a Client. Zero values select defaults.
type Options struct {
	// Timeout bounds each request.
	Timeout time.Duration
	// CacheTTL is how long semantic tokens for unchanged text are reused.
	CacheTTL time.Duration
}

// Client talks JSON-RPC to one language server.
type Client struct {
	conn    *jsonrpc2.Conn
	cmd     *exec.Cmd
	timeout time.Duration
	cache   *gocache.Cache

	legend    semantic.Legend
	supported bool
}

// Start spawns a language server and connects to its stdio.
func Start(ctx context.Context, command string, args []string, opts Options) (*Client, error) {
	cmd := exec.Command(command, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("language server stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("language server stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting language server %s: %w", command, err)
	}
	slog.Debug("Started language server", "command", command, "args", args, "pid", cmd.Process.Pid)

	c := NewClient(ctx, stdio{stdout, stdin}, opts)
	c.cmd = cmd
	return c, nil
}

// NewClient connects to a server over rwc.
func NewClient(ctx context.Context, rwc io.ReadWriteCloser, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	return &Client{
		conn:    jsonrpc2.NewConn(ctx, jsonrpc2.NewBufferedStream(rwc, tolerantCodec{}), serverRequests()),
		timeout: opts.Timeout,
		cache:   gocache.New(opts.CacheTTL, cacheCleanupInterval),
	}
}

type stdio struct {
	io.ReadCloser
	in io.WriteCloser
}

func (s stdio) Write(p []byte) (int, error) { return s.in.Write(p) }

func (s stdio) Close() error {
	return errors.Join(s.in.Close(), s.ReadCloser.Close())
}

// serverRequests answers requests the server sends to the client. None of
// them affect semantic tokens, so they are acknowledged and otherwise
// ignored.
func serverRequests() jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		switch req.Method {
		case "window/logMessage", "window/showMessage":
			var msg struct {
				Message string `json:"message"`
			}
			if req.Params != nil && json.Unmarshal(*req.Params, &msg) == nil {
				slog.Debug("Language server message", "message", msg.Message)
			}
		case "workspace/configuration":
			var params configurationParams
			if req.Params != nil && json.Unmarshal(*req.Params, &params) == nil {
				return make([]any, len(params.Items)), nil
			}
		default:
			slog.Debug("Ignoring language server request", "method", req.Method, "notification", req.Notif)
		}
		return nil, nil
	})
}

// FileURI converts a path to a file URI.
func FileURI(path string) lsp.DocumentURI {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return lsp.DocumentURI("file://" + filepath.ToSlash(abs))
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.conn.Call(ctx, method, params, result); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

// Initialize performs the initialize handshake and records the server's
// semantic token legend.
func (c *Client) Initialize(ctx context.Context, root lsp.DocumentURI) error {
	var res initializeResult
	if err := c.call(ctx, "initialize", newInitializeParams(os.Getpid(), root), &res); err != nil {
		return err
	}
	if p := res.Capabilities.SemanticTokensProvider; p != nil {
		c.legend = p.Legend
		c.supported = true
	} else {
		slog.Warn("Language server does not provide semantic tokens")
	}
	if err := c.conn.Notify(ctx, "initialized", struct{}{}); err != nil {
		return fmt.Errorf("initialized: %w", err)
	}
	return nil
}

// Legend returns the legend announced during Initialize.
func (c *Client) Legend() semantic.Legend { return c.legend }

// Supported reports whether the server announced semantic tokens.
func (c *Client) Supported() bool { return c.supported }

func cacheKey(uri lsp.DocumentURI, languageID, text string) string {
	sum := sha256.Sum256([]byte(text))
	return string(uri) + "\x00" + languageID + "\x00" + hex.EncodeToString(sum[:])
}

// SemanticTokens opens the document, requests full semantic tokens and
// closes it again. Results for unchanged text are served from a cache.
func (c *Client) SemanticTokens(ctx context.Context, uri lsp.DocumentURI, languageID, text string) (*semantic.Tokens, error) {
	if !c.supported {
		return nil, ErrUnsupported
	}
	key := cacheKey(uri, languageID, text)
	if v, ok := c.cache.Get(key); ok {
		if toks, ok := v.(*semantic.Tokens); ok {
			slog.Debug("Semantic token cache hit", "uri", uri)
			return toks, nil
		}
	}

	err := c.conn.Notify(ctx, "textDocument/didOpen", lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{URI: uri, LanguageID: languageID, Version: 1, Text: text},
	})
	if err != nil {
		return nil, fmt.Errorf("textDocument/didOpen: %w", err)
	}
	defer func() {
		err := c.conn.Notify(context.WithoutCancel(ctx), "textDocument/didClose", lsp.DidCloseTextDocumentParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: uri},
		})
		if err != nil {
			slog.Debug("Closing document failed", "uri", uri, "error", err)
		}
	}()

	var res *semanticTokensResult
	params := semanticTokensParams{TextDocument: lsp.TextDocumentIdentifier{URI: uri}}
	if err := c.call(ctx, "textDocument/semanticTokens/full", params, &res); err != nil {
		return nil, err
	}
	toks := &semantic.Tokens{Legend: c.legend}
	if res != nil {
		toks.Data = res.Data
	}
	c.cache.SetDefault(key, toks)
	return toks, nil
}

// Shutdown asks the server to exit and releases the connection. The exit
// notification is sent even when shutdown fails. The server process is killed
// if it does not exit in time.
func (c *Client) Shutdown(ctx context.Context) error {
	var errs []error
	if err := c.call(ctx, "shutdown", nil, nil); err != nil {
		errs = append(errs, err)
	}
	if err := c.conn.Notify(ctx, "exit", nil); err != nil {
		errs = append(errs, fmt.Errorf("exit: %w", err))
	}
	if err := c.conn.Close(); err != nil && !errors.Is(err, jsonrpc2.ErrClosed) {
		errs = append(errs, fmt.Errorf("closing connection: %w", err))
	}
	if c.cmd != nil {
		c.reap()
	}
	return errors.Join(errs...)
}

func (c *Client) reap() {
	done := make(chan error, 1)
	go func() { done <- c.cmd.Wait() }()
	select {
	case err := <-done:
		slog.Debug("Language server exited", "error", err)
	case <-time.After(exitGrace):
		slog.Warn("Language server did not exit, killing it", "pid", c.cmd.Process.Pid)
		_ = c.cmd.Process.Kill()
		<-done
	}
}
