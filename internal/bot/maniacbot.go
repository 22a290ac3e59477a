package bot

import (
	"github.com/lox/pokertable/internal/game"
)

// ManiacBot bets and raises far too often.
type ManiacBot struct {
	base
}

func (m *ManiacBot) MakeDecision(d Decision) game.Action {
	bb := d.State.BigBlind
	if d.ToCall() == 0 {
		if m.rng.Float64() < 0.85 {
			if d.Self.Chips <= 20*bb || m.rng.Float64() < 0.3 {
				return d.Aggress(d.AllInTo())
			}
			return d.Aggress(d.State.CurrentBet + (d.Self.Chips*3)/4)
		}
		return d.Prefer(game.Check)
	}

	switch r := m.rng.Float64(); {
	case r < 0.4:
		return d.Aggress(d.AllInTo())
	case r < 0.8:
		return d.Prefer(game.Call, game.Fold)
	}
	return game.Action{Kind: game.Fold}
}
