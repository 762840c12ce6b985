// Command coinvest is the command line client of the co-investment service.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/coinvest/cmd"
	"github.com/etnz/coinvest/logging"
	"github.com/google/subcommands"
)

func main() {
	cmd.Complete("coinvest")
	logging.Setup()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
