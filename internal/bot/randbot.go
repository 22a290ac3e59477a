package bot

import (
	"github.com/lox/pokertable/internal/game"
)

// RandBot makes uniform random legal actions.
type RandBot struct {
	base
}

func (r *RandBot) MakeDecision(d Decision) game.Action {
	if len(d.Allowed) == 0 {
		return game.Action{Kind: game.Fold}
	}
	kind := d.Allowed[r.rng.IntN(len(d.Allowed))]
	switch kind {
	case game.Bet:
		return d.Aggress(d.State.BigBlind + r.rng.IntN(d.Self.Chips-d.State.BigBlind+1))
	case game.Raise:
		lo, hi := d.MinRaiseTo(), d.AllInTo()
		if hi <= lo {
			return d.Aggress(hi)
		}
		return d.Aggress(lo + r.rng.IntN(hi-lo+1))
	}
	return game.Action{Kind: kind}
}
