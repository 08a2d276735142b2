package game

import (
	"io"
	rand "math/rand/v2"

	"github.com/Flowwrian/blackjack-simulator/internal/deck"
	"github.com/charmbracelet/log"
)

const (
	DefaultDecks    = 8
	DefaultBankroll = 10_000
)

// Option configures a Game during creation.
type Option func(*gameConfig)

type gameConfig struct {
	decks         int
	bankroll      int
	shoe          *deck.Shoe
	bankrollGuard bool
	minBet        int
	logger        *log.Logger
	onEvent       func(GameEvent)
}

// WithDecks sets the number of decks in the shoe. Values below 1 are ignored.
func WithDecks(n int) Option {
	return func(c *gameConfig) {
		if n >= 1 {
			c.decks = n
		}
	}
}

// WithBankroll sets the player's starting bankroll.
func WithBankroll(amount int) Option {
	return func(c *gameConfig) {
		c.bankroll = amount
	}
}

// WithShoe uses a prepared shoe instead of building one from the RNG. The
// shoe's deck count replaces any WithDecks value.
func WithShoe(shoe *deck.Shoe) Option {
	return func(c *gameConfig) {
		c.shoe = shoe
	}
}

// WithBankrollGuard rejects bets larger than the current bankroll.
func WithBankrollGuard() Option {
	return func(c *gameConfig) {
		c.bankrollGuard = true
	}
}

// WithMinBet sets the table minimum. Bets below it fail with ErrInvalidBet.
func WithMinBet(amount int) Option {
	return func(c *gameConfig) {
		c.minBet = amount
	}
}

// WithLogger sets the logger used for round tracing.
func WithLogger(logger *log.Logger) Option {
	return func(c *gameConfig) {
		c.logger = logger
	}
}

// WithEventHandler registers a callback that receives every game event in
// order. The callback runs synchronously inside the game call.
func WithEventHandler(fn func(GameEvent)) Option {
	return func(c *gameConfig) {
		c.onEvent = fn
	}
}

// New creates a game with a required RNG and optional configuration.
// The RNG is required to make randomness explicit and testing deterministic.
//
//	g := game.New(randutil.New(42), game.WithDecks(6), game.WithBankroll(500))
func New(rng *rand.Rand, opts ...Option) *Game {
	if rng == nil {
		panic("rng is required for game creation")
	}

	cfg := &gameConfig{
		decks:    DefaultDecks,
		bankroll: DefaultBankroll,
		minBet:   1,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	shoe := cfg.shoe
	if shoe == nil {
		shoe = deck.NewShoe(rng, cfg.decks)
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Game{
		dealer:        &Dealer{},
		player:        NewPlayer(cfg.bankroll),
		shoe:          shoe,
		decks:         shoe.Decks(),
		status:        Initialized,
		bankrollGuard: cfg.bankrollGuard,
		minBet:        max(cfg.minBet, 1),
		logger:        logger.WithPrefix("game"),
		onEvent:       cfg.onEvent,
	}
}
