package bot

import (
	rand "math/rand/v2"

	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/charmbracelet/log"
)

var randomActions = []game.Action{game.Hit, game.Stand, game.Double}

// RandBot is a simple bot that makes uniform random legal actions
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger}
}

func (r *RandBot) Bet(_ game.Snapshot, base int) int {
	return flatBet(base)
}

func (r *RandBot) Decide(_ game.Snapshot) Decision {
	return Decision{
		Action:    randomActions[r.rng.IntN(len(randomActions))],
		Reasoning: "rand-bot random action",
	}
}
