package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/mitoma/sver"
)

func newCalcCmd() *cobra.Command {
	var length, output string

	cmd := &cobra.Command{
		Use:   "calc <path>[:<profile>] [<path>[:<profile>] ...]",
		Short: "calc version",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if length != "short" && length != "long" {
				return usageErrorf("invalid --length %q", length)
			}
			if output != "version-only" && output != "toml" && output != "json" {
				return usageErrorf("invalid --output %q", output)
			}

			// Resolve every target before printing anything: on the
			// first failure among a batch, nothing is emitted.
			versions := make([]sver.Version, 0, len(args))
			for _, target := range args {
				v, err := sver.Calc(cmd.Context(), ".", target, length)
				if err != nil {
					return err
				}
				versions = append(versions, v)
			}

			return printVersions(cmd, versions, output)
		},
	}

	cmd.Flags().StringVarP(&length, "length", "l", "short", "length of version (short|long)")
	cmd.Flags().StringVarP(&output, "output", "o", "version-only", "output format (version-only|toml|json)")
	return cmd
}

type versionOutput struct {
	RepositoryRoot string `toml:"repository_root" json:"repository_root"`
	Path           string `toml:"path" json:"path"`
	Version        string `toml:"version" json:"version"`
}

type versionsOutput struct {
	Versions []versionOutput `toml:"versions" json:"versions"`
}

func printVersions(cmd *cobra.Command, versions []sver.Version, output string) error {
	switch output {
	case "toml":
		out := toVersionsOutput(versions)
		b, err := toml.Marshal(out)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	case "json":
		out := toVersionsOutput(versions)
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	default:
		var lines []string
		for _, v := range versions {
			lines = append(lines, v.Version)
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
		return nil
	}
}

func toVersionsOutput(versions []sver.Version) versionsOutput {
	out := versionsOutput{Versions: make([]versionOutput, len(versions))}
	for i, v := range versions {
		out.Versions[i] = versionOutput{
			RepositoryRoot: v.RepositoryRoot,
			Path:           v.Path,
			Version:        v.Version,
		}
	}
	return out
}
