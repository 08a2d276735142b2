// Package bot contains automated blackjack players used by the simulator
// and by the terminal client's hint line.
package bot

import (
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/charmbracelet/log"
)

// Bot decides bets and actions from the player's view of the table.
type Bot interface {
	// Bet returns the stake for the next round given a base unit.
	Bet(view game.Snapshot, base int) int
	// Decide is only called while the round is Ongoing.
	Decide(view game.Snapshot) Decision
}

// Decision is an action with a short human-readable reason
type Decision struct {
	Action    game.Action
	Reasoning string
}

var names = []string{"dealer", "basic", "counter", "random"}

// Names lists the bots ByName understands
func Names() []string {
	return slices.Clone(names)
}

// ByName creates a bot from its name. rng is only used by bots that need
// randomness and may be nil otherwise.
func ByName(name string, rng *rand.Rand, logger *log.Logger) (Bot, error) {
	logger = logger.WithPrefix("bot").With("bot", name)
	switch name {
	case "dealer":
		return NewDealerBot(logger), nil
	case "basic":
		return NewChartBot(logger), nil
	case "counter":
		return NewCountBot(logger, DefaultSpread), nil
	case "random":
		if rng == nil {
			return nil, fmt.Errorf("bot %q requires an rng", name)
		}
		return NewRandBot(rng, logger), nil
	default:
		return nil, fmt.Errorf("unknown bot %q (want one of %v)", name, names)
	}
}

// flatBet stakes the base unit every round
func flatBet(base int) int {
	if base < 1 {
		return 1
	}
	return base
}

// upCardValue returns the dealer's visible card value, or 0 if none
func upCardValue(view game.Snapshot) int {
	c, ok := view.DealerUpCard()
	if !ok {
		return 0
	}
	return c.Value()
}

// isSoft reports whether an ace in the hand is counted as 11
func isSoft(hand game.Hand) bool {
	hard := 0
	hasAce := false
	for _, c := range hand {
		if c.IsAce() {
			hasAce = true
			hard++
			continue
		}
		hard += c.Value()
	}
	return hasAce && hand.Value() == hard+10
}
