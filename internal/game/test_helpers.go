package game

import (
	"io"

	"github.com/Flowwrian/blackjack-simulator/internal/deck"
	"github.com/Flowwrian/blackjack-simulator/internal/randutil"
	"github.com/charmbracelet/log"
)

// NewTestGame creates a single-deck game whose shoe deals cards in the given
// order ("6h 5s Kc" deals the dealer 6h and 5s, then the player Kc). Once
// the stacked cards run out the shoe refills from a seeded RNG.
func NewTestGame(cards string, opts ...Option) *Game {
	rng := randutil.New(42)
	shoe := deck.NewStackedShoe(rng, 1, deck.MustParseCards(cards)...)
	base := []Option{
		WithShoe(shoe),
		WithLogger(log.New(io.Discard)),
	}
	return New(rng, append(base, opts...)...)
}
