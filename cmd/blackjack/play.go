package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/Flowwrian/blackjack-simulator/internal/randutil"
	"github.com/Flowwrian/blackjack-simulator/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// PlayCmd runs an interactive table in the terminal
type PlayCmd struct {
	Decks    int    `kong:"default='${decks}',help='Decks per shoe'"`
	Bankroll int    `kong:"default='${bankroll}',help='Starting bankroll'"`
	Guard    bool   `kong:"help='Refuse bets larger than the bankroll'"`
	Seed     *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	NoColor  bool   `kong:"name='no-color',help='Disable colours'"`
	LogFile  string `kong:"name='log-file',help='Write debug logs to this file'"`
}

func (c *PlayCmd) Run() error {
	if c.Decks < 1 {
		return fmt.Errorf("decks must be at least 1, got %d", c.Decks)
	}
	if c.NoColor {
		tui.DisableColor()
	}

	// The screen belongs to the TUI, so logs go to a file or nowhere.
	var w io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		w = f
	}
	logger := log.NewWithOptions(w, log.Options{Level: log.DebugLevel, ReportTimestamp: true})

	rng, seed := randutil.FromOptional(c.Seed)
	logger.Debug("Starting terminal table", "seed", seed, "decks", c.Decks)

	opts := []game.Option{game.WithDecks(c.Decks), game.WithBankroll(c.Bankroll)}
	if c.Guard {
		opts = append(opts, game.WithBankrollGuard())
	}

	model := tui.NewTUIModel(logger, rng, opts...)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	g := model.Game()
	fmt.Printf("Final bankroll: $%d after %d rounds\n", g.Bankroll(), g.Snapshot().Stats.MatchesPlayed)
	return nil
}
