package game

import (
	"errors"

	"github.com/lox/pokertable/poker"
)

// Validation errors. State is left unchanged when any of these is returned.
var (
	ErrIllegalAction      = errors.New("illegal action")
	ErrNotPlayerTurn      = errors.New("not player's turn")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrNotDealer          = errors.New("only the dealer may select the variant")
	ErrSelectionNotActive = errors.New("variant selection not active")
	ErrInvalidVariant     = errors.New("invalid variant")
	ErrRoundInProgress    = errors.New("round in progress")
	ErrSeatTaken          = errors.New("seat taken")
	ErrTableFull          = errors.New("table full")
	ErrPlayerExists       = errors.New("player already seated")
)

// Structural failures. The round is abandoned and the table returns to
// waiting.
var (
	ErrRoundStartFailed = errors.New("round start failed")
	ErrDeckExhausted    = poker.ErrDeckExhausted
)
