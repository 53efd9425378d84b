package main

import (
	"os"

	"github.com/mrgen-dev/mrgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
