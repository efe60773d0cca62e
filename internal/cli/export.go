package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mitoma/sver"
)

func newExportCmd() *cobra.Command {
	var dest string

	cmd := &cobra.Command{
		Use:   "export <path>[:<profile>]",
		Short: "export a minimal checkout of a version's contributing files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dest == "" {
				return usageErrorf("--dest is required")
			}
			if err := sver.Export(cmd.Context(), ".", args[0], dest); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&dest, "dest", "", "destination directory")
	return cmd
}
