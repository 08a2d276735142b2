package game

import (
	"strings"

	"github.com/Flowwrian/blackjack-simulator/internal/deck"
)

// BlackjackValue is the best possible hand value
const BlackjackValue = 21

// Hand is an ordered set of cards held by the dealer or the player
type Hand []deck.Card

// HandValue scores cards the blackjack way. Non-aces are summed first, then
// each ace adds 11 if that keeps the total at or under 21 and 1 otherwise.
func HandValue(cards []deck.Card) int {
	total := 0
	aces := 0
	for _, c := range cards {
		if c.IsAce() {
			aces++
			continue
		}
		total += c.Value()
	}

	for range aces {
		if total+11 > BlackjackValue {
			total++
		} else {
			total += 11
		}
	}

	return total
}

// Value returns the blackjack value of the hand
func (h Hand) Value() int {
	return HandValue(h)
}

// IsBust returns true if the hand is over 21
func (h Hand) IsBust() bool {
	return h.Value() > BlackjackValue
}

// IsNatural returns true for a two-card 21
func (h Hand) IsNatural() bool {
	return len(h) == 2 && h.Value() == BlackjackValue
}

// Clone returns an independent copy of the hand
func (h Hand) Clone() Hand {
	if h == nil {
		return Hand{}
	}
	out := make(Hand, len(h))
	copy(out, h)
	return out
}

func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
