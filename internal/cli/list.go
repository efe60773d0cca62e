package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mitoma/sver"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <path>[:<profile>] [...]",
		Short: "list package dependencies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, target := range args {
				paths, err := sver.List(cmd.Context(), ".", target)
				if err != nil {
					return err
				}
				for _, p := range paths {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
			}
			return nil
		},
	}
	return cmd
}
