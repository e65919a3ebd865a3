package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"themecheck/internal/themecheck/log"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "themecheck [files...]",
		Short: "Verify how a theme highlights source files",
		Long: `Themecheck highlights source files the way an editor does, combining grammar
scopes, language server semantic tokens, and a color theme, and compares the
result with stored snapshots. Every styled range records the trace that
explains its color.`,
		Example: `
# Verify the files listed in themecheck.yaml
themecheck

# Verify two files against their snapshots
themecheck main.go util.go

# Rewrite snapshots after an intended theme change
themecheck --update
  `,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug, _ := cmd.Flags().GetBool("debug")
			log.Setup(debug)
		},
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

			reports, err := verify(cmd.Context(), s, files, update)
			if err != nil {
				return err
			}
			writeReport(cmd.OutOrStdout(), s.theme.Name, reports)
			return mismatchError(reports)
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "Config file (default ./themecheck.yaml)")
	pf.StringP("theme", "t", "", "Theme file or chroma:<style>, overriding the config")
	pf.Bool("no-server", false, "Do not start the language server")
	pf.BoolP("debug", "d", false, "Debug")
	root.Flags().BoolP("update", "u", false, "Rewrite snapshots instead of comparing")
	root.Flags().String("snapshots", "", "Snapshot directory, overriding the config")

	root.AddCommand(
		newRunCmd(),
		newInspectCmd(),
		newWatchCmd(),
		newInitCmd(),
		newSchemaCmd(),
	)
	return root
}

func Execute() {
	root := newRootCmd()

	// fang's styled output only makes sense on a terminal.
	if !term.IsTerminal(os.Stdout.Fd()) {
		if err := root.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
