package bot

import (
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/poker"
)

// ChartBot plays a starting hand chart on the first street and check/calls
// after that.
type ChartBot struct {
	base
}

func (c *ChartBot) MakeDecision(d Decision) game.Action {
	if !firstStreet(d.State.Phase) {
		return d.Prefer(game.Check, game.Call, game.Fold)
	}

	bb := d.State.BigBlind
	switch d.Strength() {
	case poker.HolePremium:
		// Push when short, otherwise raise three big blinds.
		if d.Self.Chips <= 20*bb {
			return d.Aggress(d.AllInTo())
		}
		return d.Aggress(d.State.CurrentBet + 3*bb)
	case poker.HoleStrong:
		if d.ToCall() <= 4*bb {
			return d.Aggress(d.State.CurrentBet + 2*bb)
		}
		return d.Prefer(game.Call, game.Fold)
	case poker.HoleMedium:
		if d.ToCall() <= 3*bb {
			return d.Prefer(game.Check, game.Call)
		}
	case poker.HoleWeak:
		if d.ToCall() <= bb {
			return d.Prefer(game.Check, game.Call)
		}
	}
	return d.Prefer(game.Check, game.Fold)
}

// firstStreet reports whether phase is the opening betting round of any
// variant.
func firstStreet(phase game.Phase) bool {
	return phase == game.Preflop || phase == game.Predraw || phase == game.ThirdStreet
}
