package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete answers the shell completion request of 'name', if any, and exits.
// It returns when the program was not run for completion.
//
// Install it with: COMP_INSTALL=1 coinvest
func Complete(name string) {
	completion().Complete(name)
}

// completion returns the completion tree of the command line.
func completion() *complete.Command {
	display := map[string]complete.Predictor{"html": predict.Nothing}
	with := func(flags map[string]complete.Predictor) map[string]complete.Predictor {
		for k, v := range display {
			flags[k] = v
		}
		return flags
	}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":  predict.Files("*.yaml"),
			"session": predict.Files("*"),
			"trace":   predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"login": {Flags: map[string]complete.Predictor{
				"csrf":       predict.Something,
				"session-id": predict.Something,
				"H":          predict.Something,
			}},
			"search":   {Flags: with(map[string]complete.Predictor{"wait": predict.Nothing}), Args: predict.Something},
			"accounts": {Flags: with(map[string]complete.Predictor{})},
			"account-create": {Flags: with(map[string]complete.Predictor{
				"name":      predict.Something,
				"token":     predict.Something,
				"principle": predict.Set{"Abs", "Rel"},
			})},
			"account-default": {Args: predict.Something},
			"account-remove":  {Args: predict.Something},
			"co-owners":       {Flags: with(map[string]complete.Predictor{}), Args: predict.Something},
			"co-owner-add":    {Args: predict.Something},
			"capital":         {Flags: with(map[string]complete.Predictor{"apply": predict.Nothing}), Args: predict.Something},
			"share-edit":      {Flags: with(map[string]complete.Predictor{"operation": predict.Something}), Args: predict.Something},
			"console":         {Flags: with(map[string]complete.Predictor{"metrics-addr": predict.Something}), Args: predict.Something},
			"topic":           {Flags: with(map[string]complete.Predictor{}), Args: predict.Set(topicNames())},
			"help":            {Args: predict.Set(commandNames)},
			"commands":        {},
			"flags":           {},
		},
	}
}

// commandNames are the names of the registered subcommands.
var commandNames = []string{
	"login", "search", "accounts", "account-create", "account-default", "account-remove",
	"co-owners", "co-owner-add", "capital", "share-edit", "console",
	"topic",
}
