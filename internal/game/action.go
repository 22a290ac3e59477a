package game

import (
	"fmt"
	"strings"
)

// ActionKind is a betting action. ActionNone and Win only ever appear as a
// player's PreviousAction.
type ActionKind int

const (
	ActionNone ActionKind = iota
	Fold
	Check
	Call
	Bet
	Raise
	Win
)

var actionNames = [...]string{"none", "fold", "check", "call", "bet", "raise", "win"}

func (a ActionKind) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// ParseActionKind parses one of fold, check, call, bet or raise.
func ParseActionKind(s string) (ActionKind, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for i := Fold; i <= Raise; i++ {
		if actionNames[i] == v {
			return i, nil
		}
	}
	return ActionNone, fmt.Errorf("%w: unknown action %q", ErrIllegalAction, s)
}

func (a ActionKind) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *ActionKind) UnmarshalText(b []byte) error {
	for i, name := range actionNames {
		if name == string(b) {
			*a = ActionKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown action %q", b)
}

// Action is a player's request. Amount is the bet size for Bet and the new
// total bet level for Raise; it is ignored otherwise.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Amount int        `json:"amount,omitempty"`
}

func (a Action) String() string {
	if a.Kind == Bet || a.Kind == Raise {
		return fmt.Sprintf("%s %d", a.Kind, a.Amount)
	}
	return a.Kind.String()
}

// allowedActions computes the legal set for p given the street state. The
// caller guarantees it is p's turn.
func (g *Game) allowedActions(p *Player) []ActionKind {
	if !p.canAct() {
		return nil
	}
	actions := []ActionKind{Fold}
	if p.CurrentBet == g.currentBet {
		actions = append(actions, Check)
	}
	toCall := g.currentBet - p.CurrentBet
	if toCall > 0 {
		actions = append(actions, Call)
	}
	if !g.opponentCanRespond(p) {
		return actions
	}
	if g.currentBet == 0 && p.Chips >= g.bigBlind {
		actions = append(actions, Bet)
	}
	if g.currentBet > 0 && p.Chips > toCall && p.Chips >= g.minRaise {
		actions = append(actions, Raise)
	}
	return actions
}

// opponentCanRespond reports whether anyone other than p could still call
// a bet.
func (g *Game) opponentCanRespond(p *Player) bool {
	for _, o := range g.players {
		if o != p && o.canAct() {
			return true
		}
	}
	return false
}

func containsAction(actions []ActionKind, a ActionKind) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}
