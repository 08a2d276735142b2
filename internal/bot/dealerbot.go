package bot

import (
	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/charmbracelet/log"
)

// DealerBot plays the house rule: hit below 17, never double
type DealerBot struct {
	logger *log.Logger
}

// NewDealerBot creates a new DealerBot instance
func NewDealerBot(logger *log.Logger) *DealerBot {
	return &DealerBot{logger: logger}
}

func (d *DealerBot) Bet(_ game.Snapshot, base int) int {
	return flatBet(base)
}

func (d *DealerBot) Decide(view game.Snapshot) Decision {
	if view.PlayerValue() < game.DealerStandValue {
		return Decision{Action: game.Hit, Reasoning: "dealer-bot hitting below 17"}
	}
	return Decision{Action: game.Stand, Reasoning: "dealer-bot standing"}
}
