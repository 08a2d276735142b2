package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Flowwrian/blackjack-simulator/cmd/blackjack/shared"
	"github.com/Flowwrian/blackjack-simulator/internal/bot"
	"github.com/Flowwrian/blackjack-simulator/internal/fileutil"
	"github.com/Flowwrian/blackjack-simulator/internal/simulator"
	"github.com/charmbracelet/log"
)

// SimulateCmd plays a built-in strategy for many rounds
type SimulateCmd struct {
	Rounds   int    `kong:"default='10000',help='Rounds per table'"`
	Tables   int    `kong:"default='1',help='Tables played in parallel'"`
	Bot      string `kong:"default='basic',enum='${bots}',help='Strategy: ${enum}'"`
	BaseBet  int    `kong:"name='base-bet',default='10',help='Flat bet, or the unit for the counter bot'"`
	Decks    int    `kong:"default='${decks}',help='Decks per shoe'"`
	Bankroll int    `kong:"default='${bankroll}',help='Starting bankroll per table'"`
	Seed     *int64 `kong:"help='Seed (default: time-based)'"`
	Report   string `kong:"help='Write the JSON report to this path'"`
	Verbose  bool   `kong:"short='V',help='Log every round'"`
	Dots     bool   `kong:"help='Print a coloured dot per round'"`
}

func botEnum() string {
	return strings.Join(bot.Names(), ",")
}

func (c *SimulateCmd) Run() error {
	level := log.InfoLevel
	if c.Verbose {
		level = log.DebugLevel
	}
	logger := shared.SetupLogger(level)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	ctx := shared.SetupSignalHandlerWithLogger(logger)

	var monitor simulator.RoundMonitor
	if c.Dots {
		monitor = simulator.NewDotsMonitor(os.Stderr)
	}

	sim := simulator.New(simulator.Config{
		Rounds:   c.Rounds,
		Tables:   c.Tables,
		Bot:      c.Bot,
		BaseBet:  c.BaseBet,
		Decks:    c.Decks,
		Bankroll: c.Bankroll,
		Seed:     seed,
		Logger:   logger,
		Monitor:  monitor,
	})

	logger.Info("Running simulation",
		"bot", c.Bot,
		"tables", c.Tables,
		"rounds", c.Rounds,
		"seed", seed)

	report, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	simulator.PrintSummary(os.Stdout, report)

	if c.Report != "" {
		if err := fileutil.WriteJSONAtomic(c.Report, report, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Info("Report written", "path", c.Report)
	}
	return nil
}
