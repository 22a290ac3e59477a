package bot

import (
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/poker"
)

// FoldBot checks when it can and folds otherwise.
type FoldBot struct {
	base
}

func (f *FoldBot) MakeDecision(d Decision) game.Action {
	return d.Prefer(game.Check, game.Fold)
}

// Discard stands pat.
func (f *FoldBot) Discard([]poker.Card) []poker.Card {
	return nil
}
