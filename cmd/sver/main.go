package main

import (
	"fmt"
	"os"

	"github.com/mitoma/sver/internal/cli"
	"github.com/mitoma/sver/internal/sverrors"
)

func main() {
	root := cli.NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(sverrors.ExitCode(err))
	}
}
