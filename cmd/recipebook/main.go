// Command recipebook keeps a local recipe collection and serves it as a
// web page.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/recipebook/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
