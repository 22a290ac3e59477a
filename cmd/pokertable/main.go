package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version   kong.VersionFlag `short:"v" help:"Show version"`
	Serve     ServeCmd         `cmd:"" help:"Run the websocket table server"`
	Simulate  SimulateCmd      `cmd:"" help:"Play bots against each other and report results"`
	Eval      EvalCmd          `cmd:"" help:"Evaluate a poker hand"`
	PHH       PHHCmd           `cmd:"" name:"phh" help:"Show exported PHH hand histories"`
	HashToken HashTokenCmd     `cmd:"" help:"Hash a join token for a player block"`
	SignToken SignTokenCmd     `cmd:"" help:"Sign a JWT join token"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokertable"),
		kong.Description("Multi-variant poker table engine and server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
