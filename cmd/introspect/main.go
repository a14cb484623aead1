// Command introspect is the CLI host for the analysis record engine.
package main

import (
	"fmt"
	"os"

	"github.com/grimstre/introspect/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
