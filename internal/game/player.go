package game

import "github.com/Flowwrian/blackjack-simulator/internal/deck"

// Player is the single seat at the table
type Player struct {
	bankroll int
	hand     Hand
	stats    PlayerStats
}

// NewPlayer creates a player with the given bankroll
func NewPlayer(bankroll int) *Player {
	return &Player{bankroll: bankroll}
}

// DrawCard draws one card into the player's hand. Player cards are always
// visible.
func (p *Player) DrawCard(shoe *deck.Shoe) DrawEvent {
	card, reshuffled := shoe.Draw()
	p.hand = append(p.hand, card)
	return DrawEvent{Card: card, To: ToPlayer, Visible: true, Reshuffled: reshuffled}
}

// Bankroll may be negative when bets are not guarded
func (p *Player) Bankroll() int { return p.bankroll }

// Hand returns a copy of the player's cards
func (p *Player) Hand() Hand { return p.hand.Clone() }

// Value returns the player's hand value
func (p *Player) Value() int { return p.hand.Value() }

// Stats exposes the player's statistics for recording
func (p *Player) Stats() *PlayerStats { return &p.stats }

func (p *Player) debit(amount int)  { p.bankroll -= amount }
func (p *Player) credit(amount int) { p.bankroll += amount }
func (p *Player) resetHand()        { p.hand = nil }
