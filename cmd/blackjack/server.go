package main

import (
	"context"
	"fmt"
	"os"
	"time"

	rand "math/rand/v2"

	"github.com/Flowwrian/blackjack-simulator/cmd/blackjack/shared"
	"github.com/Flowwrian/blackjack-simulator/internal/config"
	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/Flowwrian/blackjack-simulator/internal/randutil"
	"github.com/Flowwrian/blackjack-simulator/internal/server"
	"github.com/Flowwrian/blackjack-simulator/internal/session"
)

// ServerCmd serves the game API. Flags win over the environment, which wins
// over the config file.
type ServerCmd struct {
	Config   string   `kong:"default='blackjack.hcl',help='HCL config file (missing file uses defaults)'"`
	EnvFile  []string `kong:"name='env-file',help='.env files to load before reading the environment'"`
	Addr     string   `kong:"help='Listen address, overrides server.address'"`
	Port     int      `kong:"help='Listen port, overrides server.port'"`
	LogLevel string   `kong:"name='log-level',help='Log level: debug, info, warn or error'"`
	JSONLogs bool     `kong:"name='json-logs',help='Write logs as JSON'"`
	Seed     *int64   `kong:"help='Deterministic RNG seed for all tables (optional)'"`
	Decks    int      `kong:"help='Decks per shoe, overrides table.decks'"`
}

func (c *ServerCmd) load() (*config.Config, error) {
	if err := config.LoadDotEnv(c.EnvFile...); err != nil {
		return nil, err
	}
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	// Command line overrides
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.Seed != nil {
		cfg.Table.Seed = c.Seed
	}
	if c.Decks != 0 {
		cfg.Table.Decks = c.Decks
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *ServerCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	level, _ := config.ParseLevel(cfg.Server.LogLevel)
	logger := shared.SetupLogger(level)
	if c.JSONLogs {
		logger = shared.SetupStructuredLogger(os.Stderr, level)
	}

	rng, seed := randutil.FromOptional(cfg.Table.Seed)
	if cfg.Table.Seed != nil {
		logger.Info("Using deterministic seed", "seed", seed)
	} else {
		logger.Info("Using random seed", "seed", seed)
	}

	store := session.NewStore(func(r *rand.Rand) *game.Game {
		return game.New(r, cfg.GameOptions(logger)...)
	},
		session.WithTTL(cfg.SessionTTL()),
		session.WithLogger(logger),
		session.WithRand(rng),
	)
	store.Ensure(session.DefaultID)

	s := server.NewServer(cfg.ListenAddr(), store, logger,
		server.WithAllowedOrigins(cfg.Server.AllowedOrigins))

	logger.Info("Starting blackjack server",
		"address", cfg.ListenAddr(),
		"decks", cfg.Table.Decks,
		"starting_bankroll", cfg.Table.StartingBankroll,
		"bankroll_guard", cfg.Table.BankrollGuard,
		"session_ttl", cfg.SessionTTL(),
		"allowed_origins", cfg.Server.AllowedOrigins)

	// Setup graceful shutdown
	ctx := shared.SetupSignalHandlerWithLogger(logger)

	reapCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go store.Run(reapCtx, time.Minute)

	// Start server in background
	serverErr := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil {
			serverErr <- err
		}
	}()

	// Wait for shutdown or error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
