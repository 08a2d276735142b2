package server

import (
	"errors"
	"net/http"

	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/Flowwrian/blackjack-simulator/internal/session"
)

// ErrInvalidMessage marks a request body or message that could not be decoded
var ErrInvalidMessage = errors.New("invalid message")

// errorCode maps an error onto an HTTP status and a wire error code
func errorCode(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrSplitUnsupported):
		return http.StatusNotImplemented, "split_unsupported"
	case errors.Is(err, game.ErrUnknownAction), errors.Is(err, game.ErrUnknownStatus):
		return http.StatusBadRequest, "unknown_action"
	case errors.Is(err, game.ErrInvalidBet):
		return http.StatusBadRequest, "invalid_bet"
	case errors.Is(err, ErrInvalidMessage):
		return http.StatusBadRequest, "invalid_message"
	case errors.Is(err, game.ErrInsufficientFunds):
		return http.StatusConflict, "insufficient_funds"
	case errors.Is(err, game.ErrOutOfSequence):
		return http.StatusConflict, "out_of_sequence"
	case errors.Is(err, game.ErrStatusMismatch):
		return http.StatusConflict, "status_mismatch"
	case errors.Is(err, game.ErrNoMatchesPlayed):
		return http.StatusConflict, "no_matches_played"
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "session_not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func errorData(err error) (int, ErrorData) {
	status, code := errorCode(err)
	return status, ErrorData{Code: code, Message: err.Error()}
}
