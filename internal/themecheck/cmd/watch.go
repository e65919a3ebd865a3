package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"themecheck/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [files...]",
		Short: "Verify again whenever a source file or the theme changes",
		Long: `Watch runs verification, then reruns it each time a checked file or the
theme file changes. The language server stays up between runs and semantic
tokens for unchanged files are reused.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd, args)
			if err != nil {
				return err
			}
			files, err := cfg.ExpandFiles()
			if err != nil {
				return err
			}
			update, _ := cmd.Flags().GetBool("update")

			s, err := openSession(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			w, err := watcher.New(watcher.Config{Files: slices.Concat(files, s.themeFiles())})
			if err != nil {
				return err
			}
			defer func() { _ = w.Stop() }()
			changes, err := w.Start()
			if err != nil {
				return err
			}

			return watchLoop(cmd.Context(), cmd.OutOrStdout(), s, files, update, changes)
		},
	}
	cmd.Flags().BoolP("update", "u", false, "Rewrite snapshots instead of comparing")
	return cmd
}

// watchLoop verifies once and again on every change signal until ctx is
// done or changes is closed. Failed runs are reported and the loop goes on.
func watchLoop(ctx context.Context, out io.Writer, s *session, files []string, update bool, changes <-chan struct{}) error {
	run := func() {
		reports, err := verify(ctx, s, files, update)
		if err != nil {
			slog.Error("Verification failed", "error", err)
			return
		}
		writeReport(out, s.theme.Name, reports)
		if err := mismatchError(reports); err != nil {
			fmt.Fprintln(out, err)
		}
	}

	run()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			if err := s.reloadTheme(); err != nil {
				slog.Error("Keeping previous theme", "error", err)
			}
			run()
		}
	}
}
