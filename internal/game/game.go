package game

import (
	"fmt"

	"github.com/Flowwrian/blackjack-simulator/internal/deck"
	"github.com/charmbracelet/log"
)

// Game is one table: a shoe, the dealer and a single player. It performs no
// locking; callers sharing a Game must serialize access.
type Game struct {
	dealer *Dealer
	player *Player
	shoe   *deck.Shoe
	decks  int
	bet    int
	status Status

	dealerPlayed  bool
	bankrollGuard bool
	minBet        int

	logger  *log.Logger
	onEvent func(GameEvent)
}

// Snapshot is a by-value copy of the table state, safe to serialize
type Snapshot struct {
	DealerHand     Hand
	HoleHidden     bool
	PlayerHand     Hand
	Bankroll       int
	Stats          StatsSnapshot
	Bet            int
	CardsRemaining int
	Decks          int
	Status         Status
}

// DealerUpCard returns the dealer's first card if one has been dealt
func (s Snapshot) DealerUpCard() (deck.Card, bool) {
	if len(s.DealerHand) == 0 {
		return deck.Card{}, false
	}
	return s.DealerHand[0], true
}

// PlayerValue returns the player's hand value
func (s Snapshot) PlayerValue() int { return s.PlayerHand.Value() }

// DealerValue returns the value of the dealer cards present in the snapshot
func (s Snapshot) DealerValue() int { return s.DealerHand.Value() }

// StartRound takes the bet and deals the opening cards. A dealer natural
// ends the round immediately with DealerWon; otherwise the player receives
// one card and the round is Ongoing.
func (g *Game) StartRound(bet int) (Status, error) {
	if g.status != Initialized {
		return g.status, fmt.Errorf("start round in status %s: %w", g.status, ErrOutOfSequence)
	}
	if bet <= 0 {
		return g.status, fmt.Errorf("bet %d: %w", bet, ErrInvalidBet)
	}
	if bet < g.minBet {
		return g.status, fmt.Errorf("bet %d below table minimum %d: %w", bet, g.minBet, ErrInvalidBet)
	}
	if g.bankrollGuard && bet > g.player.bankroll {
		return g.status, fmt.Errorf("bet %d with bankroll %d: %w", bet, g.player.bankroll, ErrInsufficientFunds)
	}

	g.player.debit(bet)
	g.bet = bet
	g.dealerPlayed = false

	stats := g.player.Stats()
	stats.RecordBet(bet)
	stats.RecordMatchPlayed()

	events, dealerValue := g.dealer.InitialDraw(g.shoe)
	g.apply(events...)

	if dealerValue == BlackjackValue {
		// Shown to the player, but never counted.
		g.dealer.RevealHoleCard()
		g.status = DealerWon
	} else {
		g.apply(g.player.DrawCard(g.shoe))
		g.status = Ongoing
	}

	g.logger.Debug("Round started", "bet", bet, "bankroll", g.player.bankroll, "status", g.status)
	g.emit(RoundStartEvent{Bet: bet, Bankroll: g.player.bankroll, Status: g.status})
	return g.status, nil
}

// ApplyAction applies a player decision. Split is rejected in every state
// without touching the table.
func (g *Game) ApplyAction(action Action) (Status, error) {
	switch action {
	case Split:
		return g.status, ErrSplitUnsupported
	case Hit, Stand, Double:
	default:
		return g.status, fmt.Errorf("%w: %d", ErrUnknownAction, int(action))
	}

	if g.status != Ongoing {
		return g.status, fmt.Errorf("%s in status %s: %w", action, g.status, ErrOutOfSequence)
	}

	switch action {
	case Hit:
		g.apply(g.player.DrawCard(g.shoe))
		g.status = g.evaluatePlayer(Ongoing)
	case Stand:
		g.status = PlayerFinished
	case Double:
		if g.bankrollGuard && g.bet > g.player.bankroll {
			return g.status, fmt.Errorf("double %d with bankroll %d: %w", g.bet, g.player.bankroll, ErrInsufficientFunds)
		}
		g.player.debit(g.bet)
		g.bet *= 2
		g.apply(g.player.DrawCard(g.shoe))
		stats := g.player.Stats()
		stats.RecordBet(g.bet)
		stats.RecordDouble()
		g.status = g.evaluatePlayer(PlayerFinished)
	}

	g.logger.Debug("Player action", "action", action, "value", g.player.Value(), "status", g.status)
	g.emit(PlayerActionEvent{Action: action, Bet: g.bet, Value: g.player.Value(), Status: g.status})
	return g.status, nil
}

// evaluatePlayer maps the player's total after a draw. A total that is
// neither bust nor 21 yields otherwise.
func (g *Game) evaluatePlayer(otherwise Status) Status {
	switch v := g.player.Value(); {
	case v > BlackjackValue:
		return DealerWon
	case v == BlackjackValue:
		return PlayerWon
	default:
		return otherwise
	}
}

// PlayDealersTurn reveals the hole card, draws to 17 and compares totals. It
// is valid once the player has finished, or after the player reached 21.
func (g *Game) PlayDealersTurn() (Status, error) {
	ready := g.status == PlayerFinished || (g.status == PlayerWon && !g.dealerPlayed)
	if !ready {
		return g.status, fmt.Errorf("dealer turn in status %s: %w", g.status, ErrOutOfSequence)
	}

	if ev, ok := g.dealer.RevealHoleCard(); ok {
		g.apply(ev)
	}
	g.apply(g.dealer.PlayAutoTurn(g.shoe)...)
	g.dealerPlayed = true

	dealerValue := g.dealer.Value()
	playerValue := g.player.Value()
	switch {
	case dealerValue > BlackjackValue || dealerValue < playerValue:
		g.status = PlayerWon
	case dealerValue == playerValue:
		g.status = Draw
	default:
		g.status = DealerWon
	}

	g.logger.Debug("Dealer turn", "dealer", dealerValue, "player", playerValue, "status", g.status)
	g.emit(DealerTurnEvent{DealerValue: dealerValue, PlayerValue: playerValue, Status: g.status})
	return g.status, nil
}

// SettleRound pays out the given outcome and clears both hands. Outcome
// statuses must match the outcome the round actually reached. Any other
// status abandons the round without bankroll or statistics changes.
func (g *Game) SettleRound(status Status) error {
	var delta int
	abandoned := !status.IsOutcome()

	if !abandoned {
		over := g.status == DealerWon || g.dealerPlayed
		if !over {
			return fmt.Errorf("settle %s in status %s: %w", status, g.status, ErrOutOfSequence)
		}
		if status != g.status {
			return fmt.Errorf("settle %s, round reached %s: %w", status, g.status, ErrStatusMismatch)
		}

		switch status {
		case PlayerWon:
			g.player.credit(2 * g.bet)
			delta = g.bet
		case Draw:
			g.player.credit(g.bet)
		case DealerWon:
			delta = -g.bet
		}
		if err := g.player.Stats().RecordWin(delta); err != nil {
			return fmt.Errorf("settle %s: %w", status, err)
		}
	}

	g.dealer.reset()
	g.player.resetHand()
	g.dealerPlayed = false
	g.status = Initialized

	g.logger.Debug("Round settled", "outcome", status, "delta", delta, "bankroll", g.player.bankroll, "abandoned", abandoned)
	g.emit(RoundSettledEvent{Status: status, Delta: delta, Bankroll: g.player.bankroll, Abandoned: abandoned})
	return nil
}

// Status returns the current phase
func (g *Game) Status() Status { return g.status }

// Bet returns the stake of the current or most recent round
func (g *Game) Bet() int { return g.bet }

// Bankroll returns the player's bankroll
func (g *Game) Bankroll() int { return g.player.bankroll }

// Decks returns the shoe's deck count
func (g *Game) Decks() int { return g.decks }

// DealerPlayed reports whether the dealer has taken the turn this round
func (g *Game) DealerPlayed() bool { return g.dealerPlayed }

// Snapshot returns the full table state including the hole card
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		DealerHand:     g.dealer.Hand(),
		PlayerHand:     g.player.Hand(),
		Bankroll:       g.player.bankroll,
		Stats:          g.player.stats.Snapshot(),
		Bet:            g.bet,
		CardsRemaining: g.shoe.Len(),
		Decks:          g.decks,
		Status:         g.status,
	}
}

// PlayerView is Snapshot with the dealer's hole card withheld until it has
// been revealed.
func (g *Game) PlayerView() Snapshot {
	s := g.Snapshot()
	if len(s.DealerHand) >= 2 && !g.dealer.HoleRevealed() {
		s.DealerHand = s.DealerHand[:1]
		s.HoleHidden = true
	}
	return s
}

func (g *Game) apply(events ...DrawEvent) {
	for _, ev := range events {
		if ev.Visible {
			g.player.stats.RecordCardSeen(ev.Card)
		} else {
			// Face-down cards leave the game without their value.
			ev.Card = deck.Card{}
		}
		if ev.Reshuffled {
			g.logger.Debug("Shoe reshuffled", "decks", g.decks)
		}
		g.emit(ev)
	}
}

func (g *Game) emit(ev GameEvent) {
	if g.onEvent != nil {
		g.onEvent(ev)
	}
}
