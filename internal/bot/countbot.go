package bot

import (
	"github.com/Flowwrian/blackjack-simulator/internal/deck"
	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/charmbracelet/log"
)

// DefaultSpread caps the count bot's bet at this many base units
const DefaultSpread = 8

// CountBot plays the chart and sizes bets from the running count shown in
// the player's statistics, converted to a true count per remaining deck.
// The count is never reset on a reshuffle.
type CountBot struct {
	logger *log.Logger
	spread int
}

// NewCountBot creates a count bot betting up to spread base units
func NewCountBot(logger *log.Logger, spread int) *CountBot {
	if spread < 1 {
		spread = 1
	}
	return &CountBot{logger: logger, spread: spread}
}

// TrueCount divides the running count by the decks left in the shoe
func TrueCount(view game.Snapshot) int {
	decksLeft := view.CardsRemaining / deck.CardsPerDeck
	if decksLeft < 1 {
		decksLeft = 1
	}
	return view.Stats.CardCount / decksLeft
}

func (c *CountBot) Bet(view game.Snapshot, base int) int {
	units := min(max(TrueCount(view), 1), c.spread)
	bet := flatBet(base) * units
	if units > 1 {
		c.logger.Debug("Raising bet", "running", view.Stats.CardCount, "true", TrueCount(view), "bet", bet)
	}
	return bet
}

func (c *CountBot) Decide(view game.Snapshot) Decision {
	return chartDecision(view)
}
