package game

import (
	"testing"

	"github.com/Flowwrian/blackjack-simulator/internal/deck"
)

func TestHandValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cards string
		want  int
	}{
		{"empty", "", 0},
		{"pair of tens", "Th Kd", 20},
		{"no aces", "2c 3d 4h 5s 6c", 20},
		{"blackjack", "As Kh", 21},
		{"soft seventeen", "Ah 6d", 17},
		{"ace downgraded", "Ah 6d 9c", 16},
		{"two aces and nine", "Ac Ad 9s", 21},
		{"two aces", "Ac Ad", 12},
		{"four aces king two", "Ac Ad Ah As Kc 2d", 16},
		{"ace after bust", "Kc Qd 5h Ah", 26},
		{"face cards", "Jc Qd Kh", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cards, err := deck.ParseCards(tt.cards)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.cards, err)
			}
			if got := HandValue(cards); got != tt.want {
				t.Errorf("HandValue(%s) = %d, want %d", tt.cards, got, tt.want)
			}
		})
	}
}

func TestHandValueWithoutAcesIsSum(t *testing.T) {
	t.Parallel()

	for _, c := range deck.Build(nil, 1) {
		if c.IsAce() {
			continue
		}
		h := Hand{c, c}
		if got, want := h.Value(), 2*c.Value(); got != want {
			t.Errorf("%s %s = %d, want %d", c, c, got, want)
		}
	}
}

func TestAceOrderDoesNotMatter(t *testing.T) {
	t.Parallel()

	a := Hand(deck.MustParseCards("Ac 9d Ah"))
	b := Hand(deck.MustParseCards("Ah Ac 9d"))
	if a.Value() != b.Value() {
		t.Errorf("order changed value: %d vs %d", a.Value(), b.Value())
	}
}

func TestHandPredicates(t *testing.T) {
	t.Parallel()

	if !Hand(deck.MustParseCards("As Kh")).IsNatural() {
		t.Error("A K should be a natural")
	}
	if Hand(deck.MustParseCards("7s 7h 7d")).IsNatural() {
		t.Error("three-card 21 is not a natural")
	}
	if !Hand(deck.MustParseCards("Kc Qd 2h")).IsBust() {
		t.Error("22 should be bust")
	}
}

func TestHandCloneIsIndependent(t *testing.T) {
	t.Parallel()

	h := Hand(deck.MustParseCards("2c 3d"))
	c := h.Clone()
	c[0] = deck.NewCard(deck.Spades, deck.Ace)
	if h[0].IsAce() {
		t.Error("clone shares storage with original")
	}
	if got := Hand(nil).Clone(); got == nil || len(got) != 0 {
		t.Errorf("clone of nil hand = %#v, want empty non-nil", got)
	}
}
