package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mitoma/sver"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "validate all config files in repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, ok, err := sver.Validate(cmd.Context(), ".")
			if err != nil {
				return err
			}
			for _, r := range records {
				fmt.Fprintln(cmd.OutOrStdout(), r.String())
			}
			if !ok {
				return fmt.Errorf("one or more sver.toml files failed validation")
			}
			return nil
		},
	}
	return cmd
}
