package server

import (
	"fmt"

	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/Flowwrian/blackjack-simulator/internal/session"
	"github.com/charmbracelet/log"
)

// GameService runs the round protocol against a session's game. The HTTP
// routes and the WebSocket connection share it, so both transports produce
// identical state and errors.
type GameService struct {
	store  *session.Store
	logger *log.Logger
}

// NewGameService creates a game service backed by store
func NewGameService(store *session.Store, logger *log.Logger) *GameService {
	return &GameService{
		store:  store,
		logger: logger.WithPrefix("game"),
	}
}

// Store returns the session store
func (gs *GameService) Store() *session.Store {
	return gs.store
}

// Init returns the table as the player sees it
func (gs *GameService) Init(id string) (GameData, error) {
	var data GameData
	err := gs.store.Do(id, func(g *game.Game) error {
		data = GameDataFromSnapshot(id, g.PlayerView())
		return nil
	})
	return data, err
}

// StartGame places the bet and deals the opening cards
func (gs *GameService) StartGame(id string, amount int) (GameData, error) {
	var data GameData
	err := gs.store.Do(id, func(g *game.Game) error {
		status, err := g.StartRound(amount)
		if err != nil {
			return err
		}
		gs.logger.Info("Round started", "session", id, "bet", amount, "status", status)
		data = GameDataFromSnapshot(id, g.PlayerView())
		return nil
	})
	return data, err
}

// Action applies a player action given as a wire token
func (gs *GameService) Action(id, token string) (GameData, error) {
	action, err := game.ParseAction(token)
	if err != nil {
		return GameData{}, err
	}

	var data GameData
	err = gs.store.Do(id, func(g *game.Game) error {
		status, err := g.ApplyAction(action)
		if err != nil {
			return err
		}
		gs.logger.Info("Player action", "session", id, "action", action, "status", status)
		data = GameDataFromSnapshot(id, g.PlayerView())
		return nil
	})
	return data, err
}

// SimulateDealer plays the dealer's turn and returns the full table
func (gs *GameService) SimulateDealer(id string) (GameData, error) {
	var data GameData
	err := gs.store.Do(id, func(g *game.Game) error {
		status, err := g.PlayDealersTurn()
		if err != nil {
			return err
		}
		gs.logger.Info("Dealer played", "session", id, "status", status)
		data = GameDataFromSnapshot(id, g.Snapshot())
		return nil
	})
	return data, err
}

// End settles the round with the outcome given as a wire token. Only
// PlayerWon, DealerWon and Draw are accepted.
func (gs *GameService) End(id, token string) (GameData, error) {
	status, err := game.ParseStatus(token)
	if err != nil {
		return GameData{}, fmt.Errorf("end: %w", err)
	}
	if !status.IsOutcome() {
		return GameData{}, fmt.Errorf("end: %w: %q is not an outcome", game.ErrUnknownStatus, token)
	}

	var data GameData
	err = gs.store.Do(id, func(g *game.Game) error {
		if err := g.SettleRound(status); err != nil {
			return err
		}
		gs.logger.Info("Round settled", "session", id, "outcome", status, "balance", g.Bankroll())
		data = GameDataFromSnapshot(id, g.Snapshot())
		return nil
	})
	return data, err
}

// Stats returns the session's player statistics
func (gs *GameService) Stats(id string) (StatsData, error) {
	var data StatsData
	err := gs.store.Do(id, func(g *game.Game) error {
		snap := g.Snapshot()
		data = StatsData{
			Session: id,
			Balance: snap.Bankroll,
			Decks:   snap.Decks,
			Stats:   snap.Stats,
		}
		return nil
	})
	data.Sessions = gs.store.Len()
	return data, err
}
