package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/coinvest"
	"github.com/etnz/coinvest/accounts"
	"github.com/etnz/coinvest/config"
	"github.com/etnz/coinvest/renderer"
	"github.com/google/subcommands"
	"github.com/google/uuid"
)

// loadAccounts returns the accounts controller of the configured user, with
// the account list loaded.
func loadAccounts(ctx context.Context) (config.Config, *accounts.Controller, subcommands.ExitStatus) {
	cfg, client, status := setup()
	if status != subcommands.ExitSuccess {
		return cfg, nil, status
	}
	c := accounts.New(client, cfg.UserID)
	if err := c.Reload(ctx); err != nil {
		return cfg, nil, report(os.Stderr, "listing investment accounts", err)
	}
	return cfg, c, subcommands.ExitSuccess
}

// parseAccountID parses the single account id argument of a command.
func parseAccountID(f *flag.FlagSet) (uuid.UUID, bool) {
	if f.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: investment account id is required.")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid investment account id %q: %v\n", f.Arg(0), err)
		return uuid.Nil, false
	}
	return id, true
}

type accountsCmd struct {
	display
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list the investment accounts" }
func (*accountsCmd) Usage() string {
	return `coinvest accounts [-html]

Lists the investment accounts the user owns or co-owns.
`
}

func (c *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, ctrl, status := loadAccounts(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	if err := c.print(renderer.Accounts(ctrl.Accounts(), ctrl.Default(), nil, cfg.Currency)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type accountCreateCmd struct {
	display
	name      string
	token     string
	principle string
}

func (*accountCreateCmd) Name() string     { return "account-create" }
func (*accountCreateCmd) Synopsis() string { return "create an investment account" }
func (*accountCreateCmd) Usage() string {
	return `coinvest account-create -name <name> -token <broker token> [-principle Abs|Rel]

Creates an investment account owned by the user, connected to the broker with
the given token.
`
}

func (c *accountCreateCmd) SetFlags(f *flag.FlagSet) {
	c.display.SetFlags(f)
	f.StringVar(&c.name, "name", "", "account name")
	f.StringVar(&c.token, "token", "", "broker API token")
	f.StringVar(&c.principle, "principle", "", "capital sharing principle: Abs or Rel (server default if empty)")
}

func (c *accountCreateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	principle, err := coinvest.ParseCapitalSharingPrinciple(c.principle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	cfg, ctrl, status := loadAccounts(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}

	form := accounts.Form{Name: c.name, Token: c.token, CapitalSharingPrinciple: principle}
	account, err := ctrl.Create(ctx, form)
	if verr := ctrl.FieldErrors(); verr != nil {
		c.print(renderer.Accounts(ctrl.Accounts(), ctrl.Default(), verr, cfg.Currency))
		return subcommands.ExitFailure
	}
	if err != nil {
		return report(os.Stderr, "creating investment account", err)
	}

	fmt.Printf("✅ Investment account %q created with id %s.\n", account.Name, account.ID)
	return subcommands.ExitSuccess
}

type accountDefaultCmd struct{}

func (*accountDefaultCmd) Name() string     { return "account-default" }
func (*accountDefaultCmd) Synopsis() string { return "make an investment account the default one" }
func (*accountDefaultCmd) Usage() string {
	return `coinvest account-default <account id>

Makes the account the default investment account of the user (user_id in the
configuration).
`
}

func (c *accountDefaultCmd) SetFlags(f *flag.FlagSet) {}

func (c *accountDefaultCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, ok := parseAccountID(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	cfg, ctrl, status := loadAccounts(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	if cfg.UserID == 0 {
		fmt.Fprintln(os.Stderr, "Error: user_id is not configured (COINVEST_USER_ID).")
		return subcommands.ExitUsageError
	}
	if err := ctrl.SetDefault(ctx, id); err != nil {
		return report(os.Stderr, "setting the default account", err)
	}
	fmt.Printf("✅ %s is now the default investment account.\n", id)
	return subcommands.ExitSuccess
}

type accountRemoveCmd struct{}

func (*accountRemoveCmd) Name() string     { return "account-remove" }
func (*accountRemoveCmd) Synopsis() string { return "remove an investment account" }
func (*accountRemoveCmd) Usage() string {
	return `coinvest account-remove <account id>

Deletes the investment account.
`
}

func (c *accountRemoveCmd) SetFlags(f *flag.FlagSet) {}

func (c *accountRemoveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, ok := parseAccountID(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	_, ctrl, status := loadAccounts(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	if err := ctrl.Remove(ctx, id); err != nil {
		return report(os.Stderr, "removing investment account", err)
	}
	fmt.Printf("✅ Investment account %s removed, %d left.\n", id, len(ctrl.Accounts()))
	return subcommands.ExitSuccess
}
