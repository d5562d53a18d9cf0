package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/semmy-space/credstore/internal/cli"
	"github.com/semmy-space/credstore/internal/output"
	"github.com/willabides/kongplete"
)

var (
	version = "dev"
)

func main() {
	cliInstance := &cli.CLI{}
	parser := kong.Must(cliInstance,
		kong.Name("credstore"),
		kong.Description("Store passwords and binary secrets in the platform credential store"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	// Answer shell completion requests before parsing
	kongplete.Complete(parser, cli.CompletionOptions()...)

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	// Run command with bound dependencies
	if err := ctx.Run(); err != nil {
		formatter := output.New(cliInstance.ResolvedOutput())
		os.Exit(output.ExitWithError(formatter, err))
	}
}
