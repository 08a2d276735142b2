package deck

import (
	rand "math/rand/v2"
)

// CardsPerDeck is the size of one standard deck
const CardsPerDeck = 52

// Shoe holds one or more shuffled decks and is dealt from the end like a
// stack. An empty shoe refills itself with a fresh shuffle of the same number
// of decks, so Draw always yields a card.
type Shoe struct {
	cards []Card
	decks int
	rng   *rand.Rand
}

// Build creates decks full 52-card decks and shuffles them together.
func Build(rng *rand.Rand, decks int) []Card {
	cards := make([]Card, 0, decks*CardsPerDeck)
	for range decks {
		for suit := Clubs; suit <= Spades; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				cards = append(cards, NewCard(suit, rank))
			}
		}
	}
	shuffle(rng, cards)
	return cards
}

// shuffle uses Fisher-Yates, falling back to the global source when rng is nil
func shuffle(rng *rand.Rand, cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// NewShoe creates a freshly shuffled shoe with the given number of decks
func NewShoe(rng *rand.Rand, decks int) *Shoe {
	if decks < 1 {
		decks = 1
	}
	return &Shoe{
		cards: Build(rng, decks),
		decks: decks,
		rng:   rng,
	}
}

// NewStackedShoe creates a shoe that deals the given cards in the order they
// are passed. Once they run out the shoe refills normally.
func NewStackedShoe(rng *rand.Rand, decks int, cards ...Card) *Shoe {
	if decks < 1 {
		decks = 1
	}
	stacked := make([]Card, len(cards))
	for i, c := range cards {
		stacked[len(cards)-1-i] = c
	}
	return &Shoe{
		cards: stacked,
		decks: decks,
		rng:   rng,
	}
}

// Draw removes and returns the last card. The second return value reports
// whether the shoe had to be rebuilt first.
func (s *Shoe) Draw() (Card, bool) {
	reshuffled := false
	if len(s.cards) == 0 {
		s.cards = Build(s.rng, s.decks)
		reshuffled = true
	}

	last := len(s.cards) - 1
	card := s.cards[last]
	s.cards = s.cards[:last]
	return card, reshuffled
}

// Len returns the number of cards left in the shoe
func (s *Shoe) Len() int {
	return len(s.cards)
}

// Decks returns the configured number of decks
func (s *Shoe) Decks() int {
	return s.decks
}

// Cards returns a copy of the remaining cards, bottom first
func (s *Shoe) Cards() []Card {
	out := make([]Card, len(s.cards))
	copy(out, s.cards)
	return out
}
