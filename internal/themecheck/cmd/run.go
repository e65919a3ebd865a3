package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"themecheck/internal/config"
	"themecheck/internal/snapshot"
	"themecheck/internal/ui/colorize"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Highlight one file and print the result",
		Long: `Highlight a single file and print it as colored terminal text, as the JSON
snapshot form with every range's trace, or as a standalone HTML page.`,
		Example: `
# Show a file as the theme colors it
themecheck run main.go

# Dump ranges and traces
themecheck run main.go --format json

# Write an HTML page; hover a token to see its trace
themecheck run main.go --format html -o main.html
  `,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd, args)
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			docs, err := s.runner.Load(args)
			if err != nil {
				return err
			}
			res, err := s.runner.Highlight(cmd.Context(), docs[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if path, _ := cmd.Flags().GetString("output"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating output: %w", err)
				}
				defer f.Close()
				out = f
			}

			switch cfg.Output.Format {
			case config.FormatJSON:
				data, err := snapshot.Encode(s.toSnapshot(res))
				if err != nil {
					return fmt.Errorf("encoding result: %w", err)
				}
				_, err = out.Write(data)
				return err
			case config.FormatHTML:
				return colorize.HTML(out, colorize.Page{
					Title:      res.Path,
					Foreground: s.theme.Foreground,
					Ranges:     res.Ranges,
				})
			default:
				color := colorize.Enabled() && isTerminal(out)
				_, err := io.WriteString(out, colorize.ANSI(res.Ranges, color)+"\n")
				return err
			}
		},
	}
	cmd.Flags().StringP("format", "f", config.FormatANSI, "Output format: ansi, json or html")
	cmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	return cmd
}
