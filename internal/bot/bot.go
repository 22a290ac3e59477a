// Package bot provides simple seat agents that drive a game.Game without a
// human at the table. They are used by the simulator and in tests.
package bot

import (
	"fmt"
	rand "math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/poker"
)

// Decision is what an agent sees when it is asked to act.
type Decision struct {
	State   game.Snapshot
	Self    game.PlayerSnapshot
	Allowed []game.ActionKind
}

// NewDecision builds the decision for playerID from a snapshot.
func NewDecision(s game.Snapshot, playerID string, allowed []game.ActionKind) Decision {
	self, _ := s.Player(playerID)
	return Decision{State: s, Self: self, Allowed: allowed}
}

// Can reports whether kind is legal.
func (d Decision) Can(kind game.ActionKind) bool {
	for _, a := range d.Allowed {
		if a == kind {
			return true
		}
	}
	return false
}

// ToCall is the amount needed to match the current bet.
func (d Decision) ToCall() int {
	return max(d.State.CurrentBet-d.Self.CurrentBet, 0)
}

// MinRaiseTo is the smallest legal raise total.
func (d Decision) MinRaiseTo() int {
	return d.State.CurrentBet + d.State.MinRaise
}

// AllInTo is the raise total that commits the whole stack.
func (d Decision) AllInTo() int {
	return d.Self.CurrentBet + d.Self.Chips
}

// Aggress bets or raises to roughly target, clamped to the legal range. It
// falls back to the first passive action when neither is allowed.
func (d Decision) Aggress(target int) game.Action {
	switch {
	case d.Can(game.Bet):
		return game.Action{Kind: game.Bet, Amount: clamp(target, d.State.BigBlind, d.Self.Chips)}
	case d.Can(game.Raise):
		return game.Action{Kind: game.Raise, Amount: clamp(target, d.MinRaiseTo(), d.AllInTo())}
	}
	return d.Prefer(game.Check, game.Call, game.Fold)
}

// Prefer returns the first of kinds that is allowed, or a fold.
func (d Decision) Prefer(kinds ...game.ActionKind) game.Action {
	for _, k := range kinds {
		if d.Can(k) {
			return game.Action{Kind: k}
		}
	}
	return game.Action{Kind: game.Fold}
}

// Strength buckets the agent's own cards.
func (d Decision) Strength() poker.HoleCardCategory {
	return poker.CategorizeHoles(d.Self.Cards)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return hi
	}
	return min(max(v, lo), hi)
}

// Agent plays one seat.
type Agent interface {
	MakeDecision(d Decision) game.Action
	// Discard picks the cards to exchange in a draw round.
	Discard(hand []poker.Card) []poker.Card
	// ChooseVariant picks the round variant when dealing Dealer's Choice.
	ChooseVariant(options []game.Variant) game.Variant
}

// Kinds lists the agent names accepted by New.
var Kinds = []string{"random", "call", "fold", "chart", "maniac", "tag"}

// New constructs the named agent.
func New(kind string, rng *rand.Rand, logger *log.Logger) (Agent, error) {
	b := base{rng: rng, logger: logger}
	switch kind {
	case "random":
		return &RandBot{base: b}, nil
	case "call":
		return &CallBot{base: b}, nil
	case "fold":
		return &FoldBot{base: b}, nil
	case "chart":
		return &ChartBot{base: b}, nil
	case "maniac":
		return &ManiacBot{base: b}, nil
	case "tag":
		return &TAGBot{base: b}, nil
	}
	return nil, fmt.Errorf("unknown bot type %q", kind)
}

// base supplies the draw and variant choices shared by every agent.
type base struct {
	rng    *rand.Rand
	logger *log.Logger
}

// Discard keeps pairs and better plus any ace or face card, and throws the
// rest, lowest first, up to the draw limit.
func (b base) Discard(hand []poker.Card) []poker.Card {
	counts := make(map[poker.Rank]int, len(hand))
	for _, c := range hand {
		counts[c.Rank]++
	}
	var throw []poker.Card
	for _, c := range hand {
		if counts[c.Rank] == 1 && c.Rank.Value() < poker.Jack.Value() {
			throw = append(throw, c)
		}
	}
	sort.Slice(throw, func(i, j int) bool { return throw[i].Rank.Value() < throw[j].Rank.Value() })
	if len(throw) > 3 {
		throw = throw[:3]
	}
	return throw
}

func (b base) ChooseVariant(options []game.Variant) game.Variant {
	return options[b.rng.IntN(len(options))]
}
