// Package config loads server and table settings from an HCL file, an
// optional .env file and BLACKJACK_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
)

// Environment variable names that override file settings
const (
	EnvAddr     = "BLACKJACK_ADDR"
	EnvPort     = "BLACKJACK_PORT"
	EnvLogLevel = "BLACKJACK_LOG_LEVEL"
	EnvDecks    = "BLACKJACK_DECKS"
	EnvBankroll = "BLACKJACK_BANKROLL"
	EnvSeed     = "BLACKJACK_SEED"
)

// DefaultFile is the config file looked up when none is given
const DefaultFile = "blackjack.hcl"

// Config represents the complete configuration
type Config struct {
	Server ServerSettings
	Table  TableSettings
}

// ServerSettings contains HTTP server configuration
type ServerSettings struct {
	Address        string   `hcl:"address,optional"`
	Port           int      `hcl:"port,optional"`
	LogLevel       string   `hcl:"log_level,optional"`
	AllowedOrigins []string `hcl:"allowed_origins,optional"`
	SessionTTL     string   `hcl:"session_ttl,optional"`
}

// TableSettings configures every game the process creates
type TableSettings struct {
	Decks            int    `hcl:"decks,optional"`
	StartingBankroll int    `hcl:"starting_bankroll,optional"`
	BankrollGuard    bool   `hcl:"bankroll_guard,optional"`
	MinBet           int    `hcl:"min_bet,optional"`
	Seed             *int64 `hcl:"seed,optional"`
}

// fileConfig mirrors the HCL layout; both blocks may be omitted
type fileConfig struct {
	Server *ServerSettings `hcl:"server,block"`
	Table  *TableSettings  `hcl:"table,block"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Server: ServerSettings{
			Address:        "localhost",
			Port:           8000,
			LogLevel:       "info",
			AllowedOrigins: []string{"*"},
			SessionTTL:     "30m",
		},
		Table: TableSettings{
			Decks:            game.DefaultDecks,
			StartingBankroll: game.DefaultBankroll,
			MinBet:           1,
		},
	}
}

// Load reads filename. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := &Config{}
	if fc.Server != nil {
		cfg.Server = *fc.Server
	}
	if fc.Table != nil {
		cfg.Table = *fc.Table
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Server.Address == "" {
		c.Server.Address = def.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = def.Server.LogLevel
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = def.Server.AllowedOrigins
	}
	if c.Server.SessionTTL == "" {
		c.Server.SessionTTL = def.Server.SessionTTL
	}
	if c.Table.Decks == 0 {
		c.Table.Decks = def.Table.Decks
	}
	if c.Table.StartingBankroll == 0 {
		c.Table.StartingBankroll = def.Table.StartingBankroll
	}
	if c.Table.MinBet == 0 {
		c.Table.MinBet = def.Table.MinBet
	}
}

// LoadDotEnv loads KEY=value pairs from the given files (".env" when none)
// into the process environment. Missing files are ignored; variables that
// are already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from environment variables read through
// lookup, normally os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Address = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Server.LogLevel = strings.ToLower(v)
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{EnvPort, &c.Server.Port},
		{EnvDecks, &c.Table.Decks},
		{EnvBankroll, &c.Table.StartingBankroll},
	}
	for _, e := range ints {
		v, ok := lookup(e.name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", e.name, err)
		}
		*e.dst = n
	}

	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvSeed, err)
		}
		c.Table.Seed = &seed
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := ParseLevel(c.Server.LogLevel); err != nil {
		return err
	}
	if ttl, err := time.ParseDuration(c.Server.SessionTTL); err != nil {
		return fmt.Errorf("invalid session_ttl %q: %w", c.Server.SessionTTL, err)
	} else if ttl <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %s", ttl)
	}
	if c.Table.Decks < 1 {
		return fmt.Errorf("decks must be at least 1, got %d", c.Table.Decks)
	}
	if c.Table.StartingBankroll < 0 {
		return fmt.Errorf("starting_bankroll must not be negative, got %d", c.Table.StartingBankroll)
	}
	if c.Table.MinBet < 1 {
		return fmt.Errorf("min_bet must be at least 1, got %d", c.Table.MinBet)
	}
	return nil
}

// ListenAddr returns the host:port the server binds to
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// SessionTTL returns the parsed idle timeout. Call Validate first.
func (c *Config) SessionTTL() time.Duration {
	ttl, err := time.ParseDuration(c.Server.SessionTTL)
	if err != nil {
		return 30 * time.Minute
	}
	return ttl
}

// GameOptions converts the table settings into game options
func (c *Config) GameOptions(logger *log.Logger) []game.Option {
	opts := []game.Option{
		game.WithDecks(c.Table.Decks),
		game.WithBankroll(c.Table.StartingBankroll),
		game.WithMinBet(c.Table.MinBet),
		game.WithLogger(logger),
	}
	if c.Table.BankrollGuard {
		opts = append(opts, game.WithBankrollGuard())
	}
	return opts
}

// ParseLevel maps a config log level onto a logger level
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("invalid log level %q", level)
	}
}
