// Package cli wires sver's operations into a cobra command tree. It is a
// thin shell over the public sver package: argument parsing, output
// formatting, and exit-code mapping live here; resolution, hashing and
// validation do not.
package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitoma/sver/internal/obslog"
	"github.com/mitoma/sver/internal/sverrors"
)

// NewRootCmd builds the root `sver` command.
func NewRootCmd() *cobra.Command {
	var verbosity int

	root := &cobra.Command{
		Use:   "sver",
		Short: "Version calculator based on source code",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			obslog.Setup(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase logging verbosity")

	root.AddCommand(newCalcCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newInspectCmd())

	// Flag parsing errors and positional-argument errors are usage errors.
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})
	for _, sub := range root.Commands() {
		if check := sub.Args; check != nil {
			sub.Args = func(cmd *cobra.Command, args []string) error {
				if err := check(cmd, args); err != nil {
					return usageErrorf("%v", err)
				}
				return nil
			}
		}
	}

	return root
}

// usageErrorf formats a usage error; the caller is expected to have set
// cobra's SilenceUsage so this can be surfaced as the sole error message.
func usageErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", sverrors.ErrUsageError, fmt.Sprintf(format, args...))
}
