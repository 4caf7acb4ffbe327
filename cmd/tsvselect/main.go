// Command tsvselect prints the rows of a TSV table that every ranking rule
// selects.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/tsvselect/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	cmd := cli.NewRootCommand(cli.DefaultConfig())
	err := cmd.ExecuteContext(ctx)

	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// Flag and argument errors from cobra.
		fmt.Fprintln(os.Stderr, "Error:", err)
		err = cli.WrapExitError(cli.ExitCommandError, "invalid invocation", err)
	}
	stop()
	os.Exit(cli.GetExitCode(err))
}
