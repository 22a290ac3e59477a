package server

import (
	"errors"
	"fmt"

	"github.com/lox/pokertable/internal/auth"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/table"
)

var (
	ErrNotSeated     = errors.New("not seated at a table")
	ErrAlreadySeated = errors.New("already seated at a table")
)

// messageError reports a frame that could not be decoded.
type messageError struct {
	typ MessageType
	err error
}

func (e *messageError) Error() string {
	return fmt.Sprintf("invalid %s message: %v", e.typ, e.err)
}

func (e *messageError) Unwrap() error {
	return e.err
}

var errorCodes = []struct {
	err  error
	code string
}{
	{game.ErrIllegalAction, "illegal_action"},
	{game.ErrNotPlayerTurn, "not_your_turn"},
	{game.ErrPlayerNotFound, "player_not_found"},
	{game.ErrNotDealer, "not_dealer"},
	{game.ErrSelectionNotActive, "selection_not_active"},
	{game.ErrInvalidVariant, "invalid_variant"},
	{game.ErrRoundInProgress, "round_in_progress"},
	{game.ErrSeatTaken, "seat_taken"},
	{game.ErrTableFull, "table_full"},
	{game.ErrPlayerExists, "player_exists"},
	{game.ErrRoundStartFailed, "round_failed"},
	{game.ErrDeckExhausted, "deck_exhausted"},
	{table.ErrGameNotFound, "game_not_found"},
	{ErrNotSeated, "not_seated"},
	{ErrAlreadySeated, "already_seated"},
	{auth.ErrInvalidToken, "unauthorized"},
	{auth.ErrUnavailable, "auth_unavailable"},
}

// errorCode maps err to the stable code sent to clients.
func errorCode(err error) string {
	var me *messageError
	if errors.As(err, &me) {
		return "invalid_message"
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "internal_error"
}
