package game

import (
	"errors"
	"fmt"

	"github.com/lox/pokertable/poker"
)

// StartRound begins a new hand: it resets round state, rotates the dealer
// button and blinds, and deals. Under Dealer's Choice without a
// pre-selected variant it opens variant selection and returns early; dealing
// resumes when the selection resolves.
func (g *Game) StartRound() ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.startRound()
}

func (g *Game) startRound() ([]Event, error) {
	if g.deck != nil || g.variantSelectionActive {
		return nil, ErrRoundInProgress
	}
	g.cancelSelection()
	g.dropLeavers()

	// Round-scoped state.
	g.communityCards = nil
	g.burnPile = nil
	g.pot = 0
	g.sidepots = nil
	g.ineligible = nil
	g.currentBet = 0
	g.minRaise = g.bigBlind
	g.setActive(-1)
	g.hasDealerSelection = false
	g.phaseOrder = PhaseOrder(g.variant)
	for _, p := range g.players {
		p.resetForRound()
	}

	if err := g.requireFunded(); err != nil {
		return []Event{RoundFailedEvent{Round: g.roundCount, Reason: err.Error()}}, err
	}

	g.roundCount++
	g.dealerIndex = g.buttonAfter(g.dealerSeat)
	g.dealerSeat = g.players[g.dealerIndex].Seat
	g.dealerID = g.players[g.dealerIndex].ID
	g.assignBlinds()

	g.logger.Debug().
		Int("round", g.roundCount).
		Str("dealer", g.dealerID).
		Str("small_blind", g.smallBlindID).
		Str("big_blind", g.bigBlindID).
		Msg("Starting round")

	switch {
	case g.hasNextRoundVariant:
		g.hasNextRoundVariant = false
		return g.continueRoundSetup(g.nextRoundVariant)
	case g.variant == DealersChoice:
		return g.startDealerVariantSelection(g.selectionTimeout), nil
	}
	return g.continueRoundSetup(g.variant)
}

func (p *Player) isFunded() bool {
	return p.Active
}

// requireFunded fails round setup, back in waiting, unless at least two
// players have chips.
func (g *Game) requireFunded() error {
	funded := 0
	for _, p := range g.players {
		if p.isFunded() {
			funded++
		}
	}
	if funded >= 2 {
		return nil
	}
	g.phase = Waiting
	err := fmt.Errorf("%w: need at least 2 players with chips, have %d", ErrRoundStartFailed, funded)
	g.logger.Warn().Err(err).Msg("Cannot start round")
	return err
}

// buttonAfter returns the first funded player seated after seat, wrapping to
// the lowest seat. The button keeps moving clockwise from a seat its holder
// has left.
func (g *Game) buttonAfter(seat int) int {
	for i, p := range g.players {
		if p.Seat > seat && p.isFunded() {
			return i
		}
	}
	return g.nextIndex(-1, (*Player).isFunded)
}

// assignBlinds seats the blinds on the next two funded players after the
// dealer.
func (g *Game) assignBlinds() {
	g.smallBlindIndex = g.nextIndex(g.dealerIndex, (*Player).isFunded)
	g.bigBlindIndex = g.nextIndex(g.smallBlindIndex, (*Player).isFunded)
	g.smallBlindID = g.players[g.smallBlindIndex].ID
	g.bigBlindID = g.players[g.bigBlindIndex].ID
}

// continueRoundSetup deals the round for the resolved variant. Players who
// left while the dealer was choosing are dropped first and the blinds
// re-seated around the same button.
func (g *Game) continueRoundSetup(variant Variant) ([]Event, error) {
	if g.hasLeavers() {
		g.dropLeavers()
		if err := g.requireFunded(); err != nil {
			return []Event{RoundFailedEvent{Round: g.roundCount, Reason: err.Error()}}, err
		}
		g.assignBlinds()
	}

	g.roundVariant = variant
	g.phaseOrder = PhaseOrder(variant)
	g.phase = g.phaseOrder[1]
	g.deck = g.deckFactory(g.rng)

	for _, p := range g.players {
		p.resetForRound()
	}

	events := []Event{RoundStartedEvent{
		Round:        g.roundCount,
		Variant:      variant,
		DealerID:     g.dealerID,
		SmallBlindID: g.smallBlindID,
		BigBlindID:   g.bigBlindID,
	}}

	dealt, err := g.dealStreet(g.phase)
	if err != nil {
		return append(events, g.abortRound(err)...), err
	}
	events = append(events, dealt...)
	events = append(events, g.postBlinds()...)

	first := g.firstActor()
	g.setActive(first)
	g.logger.Debug().
		Str("variant", variant.String()).
		Str("phase", g.phase.String()).
		Str("first_to_act", g.activePlayerID).
		Msg("Round dealt")

	if first < 0 || !g.needsAction() {
		more, err := g.runOut()
		return append(events, more...), err
	}
	return append(events, g.turnEvent()), nil
}

// postBlinds posts the small and big blinds, each capped at the poster's
// stack. The big blind's PreviousAction stays ActionNone so it keeps its
// option when action returns unraised.
func (g *Game) postBlinds() []Event {
	var events []Event
	sb := g.players[g.smallBlindIndex]
	paid := sb.pay(g.smallBlind)
	if sb.AllIn {
		g.markIneligible(sb)
	}
	events = append(events, BlindPostedEvent{PlayerID: sb.ID, Amount: paid, AllIn: sb.AllIn})

	bb := g.players[g.bigBlindIndex]
	paid = bb.pay(g.bigBlind)
	if bb.AllIn {
		g.markIneligible(bb)
	}
	events = append(events, BlindPostedEvent{PlayerID: bb.ID, Amount: paid, Big: true, AllIn: bb.AllIn})

	g.currentBet = g.bigBlind
	g.minRaise = g.bigBlind
	return append(events, g.rebuildPots()...)
}

// firstActor picks who opens the first street: the highest up-card in stud,
// otherwise the seat after the big blind.
func (g *Game) firstActor() int {
	if g.roundVariant == SevenCardStud {
		best := -1
		var bestCard poker.Card
		for i, p := range g.players {
			if !p.canAct() {
				continue
			}
			for _, c := range p.upCards() {
				if best < 0 || c.Beats(bestCard) {
					best, bestCard = i, c
				}
			}
		}
		if best >= 0 {
			return best
		}
	}
	return g.nextIndex(g.bigBlindIndex, (*Player).canAct)
}

// dealStreet deals the cards belonging to phase. It draws everything it
// needs before handing anything out, so a short deck fails cleanly.
func (g *Game) dealStreet(phase Phase) ([]Event, error) {
	switch phase {
	case Preflop:
		n := g.roundVariant.holeCards()
		faceUp := make([]bool, n)
		if g.roundVariant == Chicago {
			faceUp[n-1] = true
		}
		return g.dealHoleCards(phase, faceUp)
	case Predraw:
		return g.dealHoleCards(phase, make([]bool, 5))
	case ThirdStreet:
		return g.dealHoleCards(phase, []bool{false, false, true})
	case FourthStreet, FifthStreet, SixthStreet:
		return g.dealHoleCards(phase, []bool{true})
	case SeventhStreet:
		return g.dealHoleCards(phase, []bool{false})
	case Flop:
		return g.dealCommunityCards(phase, 3)
	case Turn, River:
		return g.dealCommunityCards(phase, 1)
	}
	return nil, nil
}

// dealHoleCards deals one pass per card index, clockwise from the seat left
// of the dealer, skipping players out of the hand.
func (g *Game) dealHoleCards(phase Phase, faceUp []bool) ([]Event, error) {
	var order []*Player
	for i := 1; i <= len(g.players); i++ {
		p := g.players[(g.dealerIndex+i)%len(g.players)]
		if p.inHand() {
			order = append(order, p)
		}
	}
	cards, err := g.deck.DrawN(len(order) * len(faceUp))
	if err != nil {
		return nil, fmt.Errorf("dealing %s: %w", phase, err)
	}

	dealt := make(map[*Player][]poker.Card, len(order))
	k := 0
	for _, up := range faceUp {
		for _, p := range order {
			c := cards[k]
			k++
			c.FaceUp = up
			p.Cards = append(p.Cards, c)
			dealt[p] = append(dealt[p], c)
		}
	}

	events := make([]Event, 0, len(order))
	for _, p := range order {
		events = append(events, CardsDealtEvent{PlayerID: p.ID, Phase: phase, Cards: dealt[p]})
	}
	return events, nil
}

// dealCommunityCards burns one card then turns n community cards. Variants
// without a board treat it as a no-op.
func (g *Game) dealCommunityCards(phase Phase, n int) ([]Event, error) {
	if !g.roundVariant.usesCommunityCards() {
		return nil, nil
	}
	cards, err := g.deck.DrawN(n + 1)
	if err != nil {
		return nil, fmt.Errorf("dealing %s: %w", phase, err)
	}
	g.burnPile = append(g.burnPile, cards[0])
	board := make([]poker.Card, 0, n)
	for _, c := range cards[1:] {
		c.FaceUp = true
		board = append(board, c)
	}
	g.communityCards = append(g.communityCards, board...)
	return []Event{CardsDealtEvent{Phase: phase, Cards: board}}, nil
}

// abortRound handles a structural failure mid-round: every contribution
// is returned, the table goes back to waiting and the failure is reported.
func (g *Game) abortRound(cause error) []Event {
	g.logger.Error().Err(cause).Int("round", g.roundCount).Msg("Round aborted")
	for _, p := range g.players {
		p.Chips += p.TotalBet
		p.TotalBet = 0
		p.CurrentBet = 0
	}
	g.pot = 0
	g.sidepots = nil
	g.ineligible = nil
	g.deck = nil
	g.currentBet = 0
	g.phase = Waiting
	g.setActive(-1)
	return []Event{RoundFailedEvent{Round: g.roundCount, Reason: cause.Error()}}
}

// resetRound clears round state after pots are paid and optionally deals
// the next hand.
func (g *Game) resetRound() []Event {
	chips := make(map[string]int, len(g.players))
	for _, p := range g.players {
		p.CurrentBet = 0
		p.TotalBet = 0
		chips[p.ID] = p.Chips
		if p.Chips == 0 {
			p.Active = false
		}
	}
	g.deck = nil
	g.pot = 0
	g.sidepots = nil
	g.ineligible = nil
	g.currentBet = 0
	g.minRaise = g.bigBlind
	g.phase = Waiting
	g.setActive(-1)

	events := []Event{RoundEndedEvent{Round: g.roundCount, Chips: chips}}
	g.logger.Debug().Int("round", g.roundCount).Msg("Round ended")

	if !g.autoStart {
		return events
	}
	next, err := g.startRound()
	if err != nil && !errors.Is(err, ErrRoundStartFailed) {
		g.logger.Warn().Err(err).Msg("Next round did not start")
	}
	return append(events, next...)
}

// dropLeavers removes players who left during the previous round.
func (g *Game) hasLeavers() bool {
	for _, p := range g.players {
		if p.leaving {
			return true
		}
	}
	return false
}

func (g *Game) dropLeavers() {
	kept := g.players[:0]
	for _, p := range g.players {
		if !p.leaving {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(g.players); i++ {
		g.players[i] = nil
	}
	g.players = kept
	g.reindex()
}
