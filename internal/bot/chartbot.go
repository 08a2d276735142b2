package bot

import (
	"fmt"

	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/charmbracelet/log"
)

// ChartBot follows a basic strategy chart keyed on the player's hard or
// soft total and the dealer's up card. Doubles are only taken on the
// first decision after the player's second card.
type ChartBot struct {
	logger *log.Logger
}

// NewChartBot creates a new ChartBot instance
func NewChartBot(logger *log.Logger) *ChartBot {
	return &ChartBot{logger: logger}
}

func (c *ChartBot) Bet(_ game.Snapshot, base int) int {
	return flatBet(base)
}

func (c *ChartBot) Decide(view game.Snapshot) Decision {
	d := chartDecision(view)
	c.logger.Debug("Chart decision", "hand", view.PlayerHand, "up", upCardValue(view), "action", d.Action)
	return d
}

func chartDecision(view game.Snapshot) Decision {
	total := view.PlayerValue()
	up := upCardValue(view)
	canDouble := len(view.PlayerHand) == 2

	between := func(lo, hi int) bool { return up >= lo && up <= hi }
	double := func(reason string) Decision {
		if canDouble {
			return Decision{Action: game.Double, Reasoning: reason}
		}
		return Decision{Action: game.Hit, Reasoning: reason + ", hitting instead"}
	}
	hit := Decision{Action: game.Hit, Reasoning: fmt.Sprintf("chart-bot hitting %d vs %d", total, up)}
	stand := Decision{Action: game.Stand, Reasoning: fmt.Sprintf("chart-bot standing %d vs %d", total, up)}

	if isSoft(view.PlayerHand) && len(view.PlayerHand) > 1 {
		switch {
		case total >= 19:
			return stand
		case total == 18:
			if between(3, 6) && canDouble {
				return double("chart-bot doubling soft 18")
			}
			if between(2, 8) {
				return stand
			}
			return hit
		case total == 17 && between(3, 6),
			(total == 15 || total == 16) && between(4, 6),
			(total == 13 || total == 14) && between(5, 6):
			return double(fmt.Sprintf("chart-bot doubling soft %d", total))
		default:
			return hit
		}
	}

	switch {
	case total >= 17:
		return stand
	case total >= 13:
		if between(2, 6) {
			return stand
		}
		return hit
	case total == 12:
		if between(4, 6) {
			return stand
		}
		return hit
	case total == 11 && between(2, 10),
		total == 10 && between(2, 9),
		total == 9 && between(3, 6):
		return double(fmt.Sprintf("chart-bot doubling %d", total))
	default:
		return hit
	}
}
