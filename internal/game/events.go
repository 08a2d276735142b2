package game

import "github.com/Flowwrian/blackjack-simulator/internal/deck"

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeCardDrawn    EventType = "card_drawn"
	EventTypeRoundStart   EventType = "round_start"
	EventTypePlayerAction EventType = "player_action"
	EventTypeDealerTurn   EventType = "dealer_turn"
	EventTypeRoundSettled EventType = "round_settled"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent is anything the game reports to an event handler
type GameEvent interface {
	EventType() EventType
}

// Recipient identifies whose hand a card went to
type Recipient int

const (
	ToPlayer Recipient = iota
	ToDealer
)

func (r Recipient) String() string {
	if r == ToDealer {
		return "dealer"
	}
	return "player"
}

// DrawEvent describes a single card leaving the shoe. Dealer and Player
// return these instead of touching the player's statistics; the Game
// applies visible cards to the running count. Handlers never see the value
// of a face-down card: Card is the zero Card when Visible is false.
type DrawEvent struct {
	Card       deck.Card
	To         Recipient
	Visible    bool
	Reshuffled bool
}

func (e DrawEvent) EventType() EventType { return EventTypeCardDrawn }

// RoundStartEvent is emitted after the bet is taken and the opening cards dealt
type RoundStartEvent struct {
	Bet      int
	Bankroll int
	Status   Status
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }

// PlayerActionEvent is emitted after an action is applied
type PlayerActionEvent struct {
	Action Action
	Bet    int
	Value  int
	Status Status
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }

// DealerTurnEvent is emitted once the dealer has finished drawing
type DealerTurnEvent struct {
	DealerValue int
	PlayerValue int
	Status      Status
}

func (e DealerTurnEvent) EventType() EventType { return EventTypeDealerTurn }

// RoundSettledEvent is emitted after settlement. Delta is the amount
// recorded in the win history; Abandoned is set when the round was cleared
// without a decided outcome.
type RoundSettledEvent struct {
	Status    Status
	Delta     int
	Bankroll  int
	Abandoned bool
}

func (e RoundSettledEvent) EventType() EventType { return EventTypeRoundSettled }
