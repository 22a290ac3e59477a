package bot

import (
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/poker"
)

// TAGBot plays few hands and plays them aggressively.
type TAGBot struct {
	base
}

func (t *TAGBot) MakeDecision(d Decision) game.Action {
	strength := d.Strength()
	if strength == poker.HolePremium || strength == poker.HoleStrong {
		return d.Aggress(d.MinRaiseTo() + d.State.Pot/4)
	}

	if d.Can(game.Check) {
		return game.Action{Kind: game.Check}
	}
	if d.ToCall() <= d.State.BigBlind && t.rng.Float64() < 0.3 {
		return d.Prefer(game.Call, game.Fold)
	}
	return game.Action{Kind: game.Fold}
}
