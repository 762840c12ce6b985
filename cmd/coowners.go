package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/coinvest/api"
	"github.com/etnz/coinvest/capital"
	"github.com/etnz/coinvest/config"
	"github.com/etnz/coinvest/renderer"
	"github.com/google/subcommands"
)

// loadEditor returns the capital editor of the account given as first argument.
func loadEditor(ctx context.Context, f *flag.FlagSet) (config.Config, *api.Client, *capital.Editor, subcommands.ExitStatus) {
	id, ok := parseAccountID(f)
	if !ok {
		return config.Config{}, nil, nil, subcommands.ExitUsageError
	}
	cfg, client, status := setup()
	if status != subcommands.ExitSuccess {
		return cfg, nil, nil, status
	}
	e, err := capital.Load(ctx, client, id)
	if err != nil {
		return cfg, nil, nil, report(os.Stderr, "loading co-owners", err)
	}
	return cfg, client, e, subcommands.ExitSuccess
}

type coOwnersCmd struct {
	display
}

func (*coOwnersCmd) Name() string     { return "co-owners" }
func (*coOwnersCmd) Synopsis() string { return "show the co-owners of an investment account" }
func (*coOwnersCmd) Usage() string {
	return `coinvest co-owners [-html] <account id>

Shows the co-owners of the account with their capital and default share.
`
}

func (c *coOwnersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, _, e, status := loadEditor(ctx, f)
	if status != subcommands.ExitSuccess {
		return status
	}
	if err := c.print(renderer.RenderCapital(e.View(), cfg.Currency)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type coOwnerAddCmd struct{}

func (*coOwnerAddCmd) Name() string     { return "co-owner-add" }
func (*coOwnerAddCmd) Synopsis() string { return "add a co-owner to an investment account" }
func (*coOwnerAddCmd) Usage() string {
	return `coinvest co-owner-add <account id> <investor id>

Makes the investor a co-owner of the account. Use 'coinvest search' to find
the investor id.
`
}

func (c *coOwnerAddCmd) SetFlags(f *flag.FlagSet) {}

func (c *coOwnerAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: account id and investor id are required.")
		return subcommands.ExitUsageError
	}
	investor, err := strconv.ParseInt(f.Arg(1), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid investor id %q\n", f.Arg(1))
		return subcommands.ExitUsageError
	}
	_, _, e, status := loadEditor(ctx, f)
	if status != subcommands.ExitSuccess {
		return status
	}
	if err := e.Add(ctx, investor); err != nil {
		return report(os.Stderr, "adding co-owner", err)
	}
	fmt.Printf("✅ Investor %d is now a co-owner of %q.\n", investor, e.Account().Name)
	return subcommands.ExitSuccess
}

type capitalCmd struct {
	display
	apply bool
}

func (*capitalCmd) Name() string     { return "capital" }
func (*capitalCmd) Synopsis() string { return "change the capital of co-owners" }
func (*capitalCmd) Usage() string {
	return `coinvest capital [-apply] [-html] <account id> <co-owner id>=<capital>[:<default share>] ...

Changes the capital, and optionally the default share, of co-owners, then saves
them all at once. A capital that would exceed the total capital of the account
is lowered to what is left. An empty capital is saved as 0.

With -apply the shares of the operations already recorded are recalculated.
`
}

func (c *capitalCmd) SetFlags(f *flag.FlagSet) {
	c.display.SetFlags(f)
	f.BoolVar(&c.apply, "apply", false, "recalculate the shares of the existing operations")
}

func (c *capitalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Error: account id and at least one change are required.")
		return subcommands.ExitUsageError
	}
	cfg, _, e, status := loadEditor(ctx, f)
	if status != subcommands.ExitSuccess {
		return status
	}

	for _, arg := range f.Args()[1:] {
		if err := applyChange(e, arg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	save := e.Save
	if c.apply {
		save = e.SaveAndApply
	}
	if err := save(ctx); err != nil {
		return report(os.Stderr, "saving capital", err)
	}
	if err := c.print(renderer.RenderCapital(e.View(), cfg.Currency)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// applyChange applies "<co-owner id>=<capital>[:<default share>]" to the editor.
func applyChange(e *capital.Editor, arg string) error {
	key, value, ok := strings.Cut(arg, "=")
	if !ok {
		return fmt.Errorf("invalid change %q, want <co-owner id>=<capital>[:<default share>]", arg)
	}
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid co-owner id %q", key)
	}
	capitalText, share, hasShare := strings.Cut(value, ":")
	got, err := e.Change(id, capitalText)
	if err != nil {
		return err
	}
	if got != capitalText {
		fmt.Fprintf(os.Stderr, "capital of co-owner %d lowered to %s\n", id, got)
	}
	if hasShare {
		return e.SetDefaultShare(id, share)
	}
	return nil
}
