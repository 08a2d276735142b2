package server

import (
	"encoding/json"
	"time"

	"github.com/Flowwrian/blackjack-simulator/internal/deck"
	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/Flowwrian/blackjack-simulator/internal/session"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server payloads. The HTTP routes accept the same bodies.

// BetData is the body of /startGame and the "start" message
type BetData struct {
	Amount int `json:"amount"`
}

// ActionData carries a wire token: an action for /action, an outcome for /end
type ActionData struct {
	Action string `json:"action"`
}

// Server → Client payloads

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CardData is a card as the browser client renders it
type CardData struct {
	Color        string `json:"color"`
	Value        string `json:"value"`
	NumericValue int    `json:"numeric_value"`
}

type DealerData struct {
	Hand       []CardData `json:"hand"`
	Value      int        `json:"value"`
	HoleHidden bool       `json:"hole_hidden"`
}

type PlayerData struct {
	Balance int                `json:"balance"`
	Hand    []CardData         `json:"hand"`
	Value   int                `json:"value"`
	Stats   game.StatsSnapshot `json:"stats"`
}

// GameData is the table state sent after every operation
type GameData struct {
	Dealer         DealerData  `json:"dealer"`
	Player         PlayerData  `json:"player"`
	Bets           int         `json:"bets"`
	CardsRemaining int         `json:"cards_remaining"`
	GameStatus     game.Status `json:"game_status"`
	Session        string      `json:"session"`
}

// StatsData is the /stats response
type StatsData struct {
	Session  string             `json:"session"`
	Balance  int                `json:"balance"`
	Decks    int                `json:"decks"`
	Stats    game.StatsSnapshot `json:"stats"`
	Sessions int                `json:"sessions"`
}

// SessionCreatedData is returned by POST /sessions
type SessionCreatedData struct {
	ID string `json:"id"`
}

// SessionListData is returned by GET /sessions
type SessionListData struct {
	Sessions []session.Summary `json:"sessions"`
}

// CardDataFromDeck converts a card to its wire form
func CardDataFromDeck(c deck.Card) CardData {
	return CardData{
		Color:        c.Suit.Name(),
		Value:        c.Rank.Name(),
		NumericValue: c.Value(),
	}
}

func cardsToData(hand game.Hand) []CardData {
	out := make([]CardData, len(hand))
	for i, c := range hand {
		out[i] = CardDataFromDeck(c)
	}
	return out
}

// GameDataFromSnapshot converts a snapshot to its wire form. Pass a
// PlayerView while the round is live so the hole card stays hidden.
func GameDataFromSnapshot(sessionID string, s game.Snapshot) GameData {
	return GameData{
		Dealer: DealerData{
			Hand:       cardsToData(s.DealerHand),
			Value:      s.DealerValue(),
			HoleHidden: s.HoleHidden,
		},
		Player: PlayerData{
			Balance: s.Bankroll,
			Hand:    cardsToData(s.PlayerHand),
			Value:   s.PlayerValue(),
			Stats:   s.Stats,
		},
		Bets:           s.Bet,
		CardsRemaining: s.CardsRemaining,
		GameStatus:     s.Status,
		Session:        sessionID,
	}
}
