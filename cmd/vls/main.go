// Command vls runs, checks and edits box-and-wire scripts.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/vls/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "vls:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
