package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mitoma/sver/internal/gitrepo"
	"github.com/mitoma/sver/internal/inspect"
)

func newInspectCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "inspect -- <command> [args...]",
		Short: "(experimental) list files accessed by a command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "stdout" && output != "devnull" {
				return usageErrorf("invalid --output %q", output)
			}

			repo, err := gitrepo.Open(cmd.Context(), ".")
			if err != nil {
				return err
			}

			accessed, err := inspect.Run(cmd.Context(), repo.Root(), args[0], args[1:])
			if err != nil {
				return err
			}

			if output == "devnull" {
				return nil
			}
			for _, p := range accessed {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "stdout", "command stdout target (stdout|devnull)")
	return cmd
}
