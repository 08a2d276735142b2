package main

import (
	"strconv"

	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Server   ServerCmd        `cmd:"" help:"Serve the blackjack HTTP and WebSocket API"`
	Play     PlayCmd          `cmd:"" help:"Play at a table in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Play many rounds with a built-in strategy and report the results"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-player blackjack table: API server, terminal game and strategy simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":  version,
			"bots":     botEnum(),
			"decks":    strconv.Itoa(game.DefaultDecks),
			"bankroll": strconv.Itoa(game.DefaultBankroll),
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
