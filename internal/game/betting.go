package game

import (
	"fmt"

	"github.com/lox/pokertable/poker"
)

// GetAllowedActions returns the legal actions for playerID. Players other
// than the one to act get an empty set.
func (g *Game) GetAllowedActions(playerID string) ([]ActionKind, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.indexOf(playerID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if !g.bettingOpen() || idx != g.activePlayerIndex {
		return []ActionKind{}, nil
	}
	return g.allowedActions(g.players[idx]), nil
}

// ApplyAction validates and applies a betting action for the player to act.
// Validation failures leave the game untouched.
func (g *Game) ApplyAction(playerID string, action Action) ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.indexOf(playerID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if !g.bettingOpen() {
		return nil, fmt.Errorf("%w: no betting in phase %s", ErrIllegalAction, g.phase)
	}
	if idx != g.activePlayerIndex {
		return nil, fmt.Errorf("%w: waiting on %s", ErrNotPlayerTurn, g.activePlayerID)
	}
	p := g.players[idx]
	allowed := g.allowedActions(p)
	if !containsAction(allowed, action.Kind) {
		return nil, fmt.Errorf("%w: %s not in %v", ErrIllegalAction, action.Kind, allowed)
	}

	toCall := g.currentBet - p.CurrentBet
	var pay int
	switch action.Kind {
	case Bet:
		if action.Amount < g.bigBlind && action.Amount < p.Chips {
			return nil, fmt.Errorf("%w: bet %d below big blind %d", ErrIllegalAction, action.Amount, g.bigBlind)
		}
		pay = min(action.Amount, p.Chips)
	case Raise:
		// Amount is the new total; anything past the stack is an all-in.
		if action.Amount <= g.currentBet {
			return nil, fmt.Errorf("%w: raise to %d does not exceed %d", ErrIllegalAction, action.Amount, g.currentBet)
		}
		pay = min(action.Amount-p.CurrentBet, p.Chips)
		if pay < p.Chips && action.Amount-g.currentBet < g.minRaise {
			return nil, fmt.Errorf("%w: raise to %d below minimum %d", ErrIllegalAction, action.Amount, g.currentBet+g.minRaise)
		}
	case Call:
		pay = min(toCall, p.Chips)
	}

	// Validated; mutate from here on.
	switch action.Kind {
	case Fold:
		p.Folded = true
	case Bet, Raise:
		p.pay(pay)
		if raise := p.CurrentBet - g.currentBet; raise > 0 {
			if raise >= g.minRaise {
				g.minRaise = raise
			}
			g.currentBet = p.CurrentBet
		}
	case Call:
		p.pay(pay)
	}
	p.PreviousAction = action.Kind
	if p.AllIn {
		g.markIneligible(p)
	}

	g.logger.Debug().
		Str("player_id", p.ID).
		Str("action", action.Kind.String()).
		Int("amount", pay).
		Bool("all_in", p.AllIn).
		Msg("Player acted")

	events := g.rebuildPots()
	events = append([]Event{PlayerActedEvent{
		PlayerID: p.ID,
		Action:   action.Kind,
		Amount:   pay,
		AllIn:    p.AllIn,
		Pot:      g.totalPot(),
	}}, events...)

	more, err := g.checkPhaseProgress()
	return append(events, more...), err
}

// Discard exchanges cards during the draw. Each player may discard once,
// before acting on the draw street: at most three cards, or four when the
// kept card is an ace.
func (g *Game) Discard(playerID string, cards []poker.Card) ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.playerByID(playerID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if g.deck == nil || g.phase != Draw {
		return nil, fmt.Errorf("%w: discards only during the draw", ErrIllegalAction)
	}
	if !p.inHand() || p.discarded || p.PreviousAction != ActionNone {
		return nil, fmt.Errorf("%w: %s cannot discard now", ErrIllegalAction, playerID)
	}

	keep := make([]poker.Card, 0, len(p.Cards))
	remove := make([]bool, len(p.Cards))
	for _, c := range cards {
		found := false
		for i, held := range p.Cards {
			if !remove[i] && held.Same(c) {
				remove[i], found = true, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s not held", ErrIllegalAction, c)
		}
	}
	for i, held := range p.Cards {
		if !remove[i] {
			keep = append(keep, held)
		}
	}
	limit := 3
	if len(cards) == 4 && len(keep) == 1 && keep[0].Rank == poker.Ace {
		limit = 4
	}
	if len(cards) > limit {
		return nil, fmt.Errorf("%w: may discard at most %d", ErrIllegalAction, limit)
	}

	p.discarded = true
	if len(cards) == 0 {
		return []Event{CardsDiscardedEvent{PlayerID: p.ID}}, nil
	}
	drawn, err := g.deck.DrawN(len(cards) + 1)
	if err != nil {
		err = fmt.Errorf("drawing for %s: %w", p.ID, err)
		return g.abortRound(err), err
	}
	g.burnPile = append(g.burnPile, drawn[0])
	p.Cards = append(keep, drawn[1:]...)

	return []Event{
		CardsDiscardedEvent{PlayerID: p.ID, Count: len(cards)},
		CardsDealtEvent{PlayerID: p.ID, Phase: Draw, Cards: drawn[1:]},
	}, nil
}

func (g *Game) bettingOpen() bool {
	return g.deck != nil && g.phase != Waiting && g.phase != Showdown && g.activePlayerIndex >= 0
}

// needsAction reports whether any player still has a betting decision on
// the current street. A lone player able to act with nothing to call has
// no one to bet against.
func (g *Game) needsAction() bool {
	canAct := 0
	for _, p := range g.players {
		if !p.canAct() {
			continue
		}
		canAct++
		if p.CurrentBet < g.currentBet {
			return true
		}
	}
	if canAct < 2 {
		return false
	}
	for _, p := range g.players {
		if p.canAct() && p.PreviousAction == ActionNone {
			return true
		}
	}
	return false
}

// streetComplete reports whether every live player has acted and matched
// the bet. Preflop, an unacted big blind facing a raise keeps the street
// open.
func (g *Game) streetComplete() bool {
	if g.phase == Preflop && g.bigBlindIndex >= 0 {
		bb := g.players[g.bigBlindIndex]
		if bb.canAct() && bb.PreviousAction == ActionNone && g.currentBet > g.bigBlind {
			return false
		}
	}
	return !g.needsAction()
}

// checkPhaseProgress runs after every applied action. It either ends the
// hand for a lone survivor, passes the turn, or advances the street.
func (g *Game) checkPhaseProgress() ([]Event, error) {
	if g.countInHand() <= 1 {
		return g.awardLastPlayer(), nil
	}
	if !g.streetComplete() {
		next := g.nextIndex(g.activePlayerIndex, g.owesDecision)
		if next >= 0 {
			g.setActive(next)
			return []Event{g.turnEvent()}, nil
		}
	}
	return g.runOut()
}

func (g *Game) owesDecision(p *Player) bool {
	return p.canAct() && (p.PreviousAction == ActionNone || p.CurrentBet < g.currentBet)
}

// runOut advances streets until someone has a decision to make or the hand
// reaches showdown.
func (g *Game) runOut() ([]Event, error) {
	var events []Event
	for {
		idx := indexOfPhase(g.phaseOrder, g.phase)
		next := g.phaseOrder[idx+1]
		if next == Showdown {
			return append(events, g.showdown()...), nil
		}

		for _, p := range g.players {
			p.CurrentBet = 0
			if p.PreviousAction != Fold {
				p.PreviousAction = ActionNone
			}
		}
		g.currentBet = 0
		g.minRaise = g.bigBlind
		g.phase = next

		dealt, err := g.dealStreet(next)
		if err != nil {
			return append(events, g.abortRound(err)...), err
		}
		events = append(events, dealt...)
		events = append(events, PhaseChangedEvent{Phase: next, CommunityCards: append([]poker.Card(nil), g.communityCards...)})
		g.logger.Debug().Str("phase", next.String()).Int("pot", g.totalPot()).Msg("Phase advanced")

		first := g.nextIndex(g.dealerIndex, (*Player).canAct)
		g.setActive(first)
		if first >= 0 && g.needsAction() {
			return append(events, g.turnEvent()), nil
		}
	}
}

// awardLastPlayer gives every pot to the only player left in the hand.
func (g *Game) awardLastPlayer() []Event {
	var winner *Player
	for _, p := range g.players {
		if p.inHand() {
			winner = p
			break
		}
	}
	amount := g.totalPot()
	if winner == nil {
		g.logger.Warn().Int("pot", amount).Msg("No player left in hand, refunding")
		return g.abortRound(fmt.Errorf("%w: no players left in hand", ErrRoundStartFailed))
	}

	winner.Chips += amount
	winner.PreviousAction = Win
	g.pot = 0
	g.sidepots = nil
	g.logger.Debug().Str("player_id", winner.ID).Int("amount", amount).Msg("Pot awarded uncontested")

	events := []Event{PotAwardedEvent{
		Amount:      amount,
		Winners:     []string{winner.ID},
		Shares:      map[string]int{winner.ID: amount},
		Uncontested: true,
	}}
	return append(events, g.resetRound()...)
}
