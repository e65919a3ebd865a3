package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"themecheck/internal/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [files...]",
		Short: "Write a starter themecheck.yaml",
		Example: `
# Check every Go file under testdata
themecheck init 'testdata/*.go'
  `,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultFile
			}
			if err := config.WriteDefault(path, args); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
}
