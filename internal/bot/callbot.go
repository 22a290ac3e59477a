package bot

import (
	"github.com/lox/pokertable/internal/game"
)

// CallBot checks or calls every street and never bets.
type CallBot struct {
	base
}

func (c *CallBot) MakeDecision(d Decision) game.Action {
	return d.Prefer(game.Check, game.Call)
}
