package game

import (
	"github.com/lox/pokertable/poker"
)

// Player is the per-seat state owned by a Game. Seat is stable across
// rounds and ID across reconnects.
type Player struct {
	ID             string
	Seat           int
	Username       string
	Avatar         string
	Chips          int
	Cards          []poker.Card
	CurrentBet     int // wagered this street
	TotalBet       int // wagered this hand
	Folded         bool
	Active         bool // dealt into the current round
	Ready          bool
	AllIn          bool
	PreviousAction ActionKind

	discarded bool
	leaving   bool
}

// inHand reports whether the player still contests the pot.
func (p *Player) inHand() bool {
	return p.Active && !p.Folded
}

// canAct reports whether the player can still make betting decisions.
func (p *Player) canAct() bool {
	return p.Active && !p.Folded && !p.AllIn && p.Chips > 0
}

// pay moves up to amount chips from the stack into the current bet and
// returns what was actually paid.
func (p *Player) pay(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	if amount < 0 {
		amount = 0
	}
	p.Chips -= amount
	p.CurrentBet += amount
	p.TotalBet += amount
	if p.Chips == 0 && p.Active {
		p.AllIn = true
	}
	return amount
}

func (p *Player) resetForRound() {
	p.CurrentBet = 0
	p.TotalBet = 0
	p.Active = p.Chips > 0 && !p.leaving
	p.Folded = !p.Active
	p.AllIn = false
	p.PreviousAction = ActionNone
	p.Cards = nil
	p.discarded = false
}

func (p *Player) upCards() []poker.Card {
	var up []poker.Card
	for _, c := range p.Cards {
		if c.FaceUp {
			up = append(up, c)
		}
	}
	return up
}
