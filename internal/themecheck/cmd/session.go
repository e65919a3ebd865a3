package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"themecheck/internal/config"
	"themecheck/internal/lsp"
	"themecheck/internal/pipeline"
	"themecheck/internal/snapshot"
	"themecheck/internal/theme"
)

const shutdownTimeout = 5 * time.Second

// loadSettings reads the config file and applies command line overrides.
// Positional args replace the configured file list.
func loadSettings(cmd *cobra.Command, args []string) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, used, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if used != "" {
		slog.Debug("Loaded config", "file", used)
	}

	if cmd.Flags().Changed("theme") {
		cfg.Theme, _ = cmd.Flags().GetString("theme")
	}
	if cmd.Flags().Changed("snapshots") {
		cfg.SnapshotDir, _ = cmd.Flags().GetString("snapshots")
	}
	if noServer, _ := cmd.Flags().GetBool("no-server"); noServer {
		cfg.Server.Enabled = false
	}
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		cfg.Output.Format = f.Value.String()
	}
	if len(args) > 0 {
		cfg.Files = args
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// session holds what a run needs across files: the theme, the language
// server connection, and the runner built from both.
type session struct {
	cfg    config.Config
	theme  *theme.Theme
	client *lsp.Client
	runner *pipeline.Runner
}

// openSession loads the theme and, when enabled, starts and initializes the
// language server. Any failure here aborts the run.
func openSession(ctx context.Context, cfg config.Config) (*session, error) {
	th, err := theme.Load(cfg.Theme)
	if err != nil {
		return nil, fmt.Errorf("loading theme: %w", err)
	}
	s := &session{cfg: cfg, theme: th}

	if cfg.Server.Enabled {
		client, err := lsp.Start(ctx, cfg.Server.Command, cfg.Server.Args, lsp.Options{Timeout: cfg.Server.Timeout})
		if err != nil {
			return nil, err
		}
		root, err := workspaceRoot(cfg.Server.Root)
		if err != nil {
			_ = client.Shutdown(ctx)
			return nil, err
		}
		if err := client.Initialize(ctx, lsp.FileURI(root)); err != nil {
			_ = client.Shutdown(ctx)
			return nil, fmt.Errorf("initializing language server: %w", err)
		}
		s.client = client
	}
	s.buildRunner()
	return s, nil
}

func workspaceRoot(root string) (string, error) {
	if root == "" {
		return os.Getwd()
	}
	return filepath.Abs(root)
}

func (s *session) buildRunner() {
	var src pipeline.SemanticSource
	if s.client != nil && s.client.Supported() {
		src = s.client
	}
	s.runner = pipeline.New(s.theme, src, pipeline.Options{
		Languages:         s.cfg.Languages,
		Palette:           s.cfg.Palette(),
		WildcardModifiers: s.cfg.Semantic.WildcardModifiers,
	})
}

// reloadTheme re-reads the theme and rebuilds the runner. On error the
// previous theme stays active.
func (s *session) reloadTheme() error {
	th, err := theme.Load(s.cfg.Theme)
	if err != nil {
		return fmt.Errorf("reloading theme: %w", err)
	}
	s.theme = th
	s.buildRunner()
	return nil
}

// themeFiles returns the files the theme was read from, for watching.
func (s *session) themeFiles() []string {
	if strings.HasPrefix(s.cfg.Theme, theme.ChromaPrefix) {
		return nil
	}
	return s.theme.Sources
}

func (s *session) Close() {
	if s.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.client.Shutdown(ctx); err != nil {
		slog.Warn("Language server shutdown failed", "error", err)
	}
	s.client = nil
}

// toSnapshot turns a highlighting result into its stored form.
func (s *session) toSnapshot(res pipeline.Result) *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Version:  snapshot.FormatVersion,
		File:     filepath.ToSlash(res.Path),
		Language: res.Language,
		Theme:    s.theme.Name,
		Ranges:   res.Ranges,
	}
}
