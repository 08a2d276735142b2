package game

import "github.com/Flowwrian/blackjack-simulator/internal/deck"

// DealerStandValue is the total at which the dealer stops drawing. Soft and
// hard totals are treated alike.
const DealerStandValue = 17

// Dealer holds the house hand
type Dealer struct {
	hand         Hand
	holeRevealed bool
}

// InitialDraw deals the dealer two cards: the up card visible, the hole
// card hidden. It returns both draw events and the two-card value.
func (d *Dealer) InitialDraw(shoe *deck.Shoe) ([]DrawEvent, int) {
	events := []DrawEvent{
		d.DrawCard(shoe, true),
		d.DrawCard(shoe, false),
	}
	return events, d.hand.Value()
}

// DrawCard draws one card into the dealer's hand
func (d *Dealer) DrawCard(shoe *deck.Shoe, visible bool) DrawEvent {
	card, reshuffled := shoe.Draw()
	d.hand = append(d.hand, card)
	return DrawEvent{Card: card, To: ToDealer, Visible: visible, Reshuffled: reshuffled}
}

// RevealHoleCard turns the second card face up. It reports false when there
// is no hole card or it has already been revealed.
func (d *Dealer) RevealHoleCard() (DrawEvent, bool) {
	if len(d.hand) < 2 || d.holeRevealed {
		return DrawEvent{}, false
	}
	d.holeRevealed = true
	return DrawEvent{Card: d.hand[1], To: ToDealer, Visible: true}, true
}

// PlayAutoTurn draws visibly until the hand reaches DealerStandValue
func (d *Dealer) PlayAutoTurn(shoe *deck.Shoe) []DrawEvent {
	var events []DrawEvent
	for d.hand.Value() < DealerStandValue {
		events = append(events, d.DrawCard(shoe, true))
	}
	return events
}

// Hand returns a copy of the dealer's cards
func (d *Dealer) Hand() Hand { return d.hand.Clone() }

// Value returns the dealer's hand value
func (d *Dealer) Value() int { return d.hand.Value() }

// HoleRevealed reports whether the second card is face up
func (d *Dealer) HoleRevealed() bool { return d.holeRevealed }

func (d *Dealer) reset() {
	d.hand = nil
	d.holeRevealed = false
}
