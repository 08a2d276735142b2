package game

import "errors"

var (
	// ErrSplitUnsupported is returned for every Split request. Splitting is
	// not implemented and the request must not touch game state.
	ErrSplitUnsupported = errors.New("split is not supported")

	// ErrOutOfSequence is returned when an operation is called in a phase
	// that does not allow it (e.g. an action after the player stood).
	ErrOutOfSequence = errors.New("operation out of sequence")

	// ErrNoMatchesPlayed is returned when a win is recorded before any
	// match has been counted.
	ErrNoMatchesPlayed = errors.New("no matches played")

	ErrInvalidBet        = errors.New("invalid bet")
	ErrInsufficientFunds = errors.New("bet exceeds bankroll")

	// ErrStatusMismatch is returned when a round is settled with an outcome
	// other than the one it reached.
	ErrStatusMismatch = errors.New("status does not match round outcome")

	ErrUnknownAction = errors.New("unknown action")
	ErrUnknownStatus = errors.New("unknown status")
)
