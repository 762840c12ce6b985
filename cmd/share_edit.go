package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/etnz/coinvest/renderer"
	"github.com/etnz/coinvest/share"
	"github.com/google/subcommands"
)

type shareEditCmd struct {
	display
	operation int64
}

func (*shareEditCmd) Name() string     { return "share-edit" }
func (*shareEditCmd) Synopsis() string { return "change the share of an investor in an operation" }
func (*shareEditCmd) Usage() string {
	return `coinvest share-edit -operation <operation id> <share id> <value>

Changes the share of an investor in the profit of one operation. Prints the
shares of the operation once saved.
`
}

func (c *shareEditCmd) SetFlags(f *flag.FlagSet) {
	c.display.SetFlags(f)
	f.Int64Var(&c.operation, "operation", 0, "operation the share belongs to")
}

func (c *shareEditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 || c.operation == 0 {
		fmt.Fprintln(os.Stderr, "Error: -operation, share id and value are required.")
		return subcommands.ExitUsageError
	}
	id, err := strconv.ParseInt(f.Arg(0), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid share id %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}
	_, client, status := setup()
	if status != subcommands.ExitSuccess {
		return status
	}

	e := share.NewEditor(client)
	if err := e.Load(ctx, c.operation); err != nil {
		return report(os.Stderr, "loading shares", err)
	}
	if _, err := e.Activate(id); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := e.Type(id, f.Arg(1)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := e.Blur(ctx, id); err != nil {
		return report(os.Stderr, "saving share", err)
	}
	if err := c.print(renderer.Shares(c.operation, e)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
