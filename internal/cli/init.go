package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mitoma/sver"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [<path>[:<profile>]]",
		Short: "generate empty config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			created, err := sver.InitConfig(cmd.Context(), ".", target)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintln(cmd.OutOrStdout(), "wrote sver.toml")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "sver.toml already exists")
			}
			return nil
		},
	}
	return cmd
}
