package main

import (
	"github.com/alecthomas/kong"
	"github.com/lox/tictactoe/internal/config"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Serve   ServeCmd         `cmd:"" help:"Serve the game to browsers"`
	Play    PlayCmd          `cmd:"" help:"Play in the terminal"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tictactoe"),
		kong.Description("Two-player tic-tac-toe with a ten second turn clock"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFile,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
