package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/spf13/cobra"

	"themecheck/internal/pipeline"
	"themecheck/internal/ui/inspect"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Browse a file's styled ranges and their traces",
		Example: `
# Open the inspector
themecheck inspect main.go
  `,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) {
				return errors.New("inspect needs a terminal")
			}
			cfg, err := loadSettings(cmd, args)
			if err != nil {
				return err
			}

			// The session opens inside the load command so the inspector
			// can show a spinner while the language server starts.
			var (
				mu sync.Mutex
				s  *session
			)
			defer func() {
				mu.Lock()
				defer mu.Unlock()
				if s != nil {
					s.Close()
				}
			}()
			load := func() (pipeline.Result, error) {
				mu.Lock()
				defer mu.Unlock()
				var err error
				s, err = openSession(cmd.Context(), cfg)
				if err != nil {
					return pipeline.Result{}, err
				}
				docs, err := s.runner.Load(args)
				if err != nil {
					return pipeline.Result{}, err
				}
				return s.runner.Highlight(cmd.Context(), docs[0])
			}

			program := tea.NewProgram(
				inspect.New(args[0], load),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := program.Run(); err != nil {
				slog.Error("TUI run error", "error", err)
				return fmt.Errorf("TUI error: %w", err)
			}
			return nil
		},
	}
}
