package game

import (
	"github.com/lox/pokertable/poker"
)

// BestHand evaluates a player's hand for the variant. Omaha variants must
// play exactly two hole cards; every other variant plays the best five of
// hole plus community cards.
func BestHand(hole, community []poker.Card, variant Variant) poker.HandResult {
	switch variant {
	case Omaha, OmahaHiLo:
		return poker.EvaluateOmaha(hole, community)
	}
	all := make([]poker.Card, 0, len(hole)+len(community))
	all = append(append(all, hole...), community...)
	return poker.Evaluate(all)
}

// EvaluateHands returns every player tied for the best hand, in the order
// given, along with the winning result.
func EvaluateHands(players []*Player, community []poker.Card, variant Variant) ([]*Player, poker.HandResult) {
	var (
		winners []*Player
		best    poker.HandResult
	)
	for _, p := range players {
		r := BestHand(p.Cards, community, variant)
		switch {
		case len(winners) == 0 || poker.Compare(r, best) > 0:
			winners = []*Player{p}
			best = r
		case poker.Compare(r, best) == 0:
			winners = append(winners, p)
		}
	}
	return winners, best
}

// showdown reveals hands, distributes every pot and ends the round.
func (g *Game) showdown() []Event {
	g.phase = Showdown
	g.setActive(-1)
	events := []Event{PhaseChangedEvent{Phase: Showdown, CommunityCards: append([]poker.Card(nil), g.communityCards...)}}

	hands := make(map[string]poker.HandResult)
	lows := make(map[string]poker.LowResult)
	reveal := ShowdownEvent{}
	for _, p := range g.players {
		if !p.inHand() {
			continue
		}
		sh := ShowdownHand{
			PlayerID: p.ID,
			Cards:    append([]poker.Card(nil), p.Cards...),
			Hand:     BestHand(p.Cards, g.communityCards, g.roundVariant),
		}
		hands[p.ID] = sh.Hand
		if g.roundVariant == OmahaHiLo {
			low := poker.EvaluateOmahaLow(p.Cards, g.communityCards)
			lows[p.ID] = low
			sh.Low = &low
		}
		reveal.Hands = append(reveal.Hands, sh)
	}
	events = append(events, reveal)
	events = append(events, g.distributePots(hands, lows)...)
	return append(events, g.resetRound()...)
}

// distributePots pays sidepots oldest first, then the main pot. Each pot is
// split evenly among the best eligible hands; the odd chips go to the first
// winner clockwise from the dealer.
func (g *Game) distributePots(hands map[string]poker.HandResult, lows map[string]poker.LowResult) []Event {
	type payout struct {
		index    int
		amount   int
		eligible []string
	}
	pots := make([]payout, 0, len(g.sidepots)+1)
	for i, sp := range g.sidepots {
		pots = append(pots, payout{index: i + 1, amount: sp.Amount, eligible: sp.Eligible})
	}
	pots = append(pots, payout{index: 0, amount: g.pot, eligible: g.mainPotEligible()})

	var events []Event
	for _, pot := range pots {
		if pot.amount == 0 {
			continue
		}
		var eligible []*Player
		for _, id := range pot.eligible {
			if p := g.playerByID(id); p != nil && p.inHand() {
				eligible = append(eligible, p)
			}
		}
		if len(eligible) == 0 {
			// Every contributor left the hand; the live hands contest it.
			for _, p := range g.players {
				if p.inHand() {
					eligible = append(eligible, p)
				}
			}
		}

		if len(eligible) == 1 {
			events = append(events, g.award(pot.index, pot.amount, eligible, "", true, false))
			continue
		}

		high, low := pot.amount, 0
		var lowWinners []*Player
		if g.roundVariant == OmahaHiLo {
			lowWinners = bestLows(eligible, lows)
			if len(lowWinners) > 0 {
				low = pot.amount / 2
				high = pot.amount - low
			}
		}

		winners, best := bestHands(eligible, hands)
		events = append(events, g.award(pot.index, high, winners, best.Description, false, false))
		if low > 0 {
			events = append(events, g.award(pot.index, low, lowWinners, lows[lowWinners[0].ID].Description, false, true))
		}
	}
	g.pot = 0
	g.sidepots = nil
	return events
}

func bestHands(players []*Player, hands map[string]poker.HandResult) ([]*Player, poker.HandResult) {
	var (
		winners []*Player
		best    poker.HandResult
	)
	for _, p := range players {
		r := hands[p.ID]
		switch {
		case len(winners) == 0 || poker.Compare(r, best) > 0:
			winners, best = []*Player{p}, r
		case poker.Compare(r, best) == 0:
			winners = append(winners, p)
		}
	}
	return winners, best
}

func bestLows(players []*Player, lows map[string]poker.LowResult) []*Player {
	var (
		winners []*Player
		best    int
	)
	for _, p := range players {
		l := lows[p.ID]
		switch {
		case !l.Qualified:
		case len(winners) == 0 || l.Value < best:
			winners, best = []*Player{p}, l.Value
		case l.Value == best:
			winners = append(winners, p)
		}
	}
	return winners
}

// award splits amount among winners and credits their stacks.
func (g *Game) award(index, amount int, winners []*Player, desc string, uncontested, low bool) Event {
	shares := splitPot(amount, len(winners))
	first := g.firstClockwise(winners)

	ev := PotAwardedEvent{
		Pot:         index,
		Amount:      amount,
		Shares:      make(map[string]int, len(winners)),
		Description: desc,
		Uncontested: uncontested,
		Low:         low,
	}
	for i, w := range winners {
		share := shares.each
		if i == first {
			share += shares.remainder
		}
		w.Chips += share
		w.PreviousAction = Win
		ev.Winners = append(ev.Winners, w.ID)
		ev.Shares[w.ID] = share
	}

	g.logger.Debug().
		Int("pot", index).
		Int("amount", amount).
		Strs("winners", ev.Winners).
		Str("hand", desc).
		Bool("low", low).
		Msg("Pot awarded")
	return ev
}

type potShares struct {
	each      int
	remainder int
}

func splitPot(amount, n int) potShares {
	if n <= 0 {
		return potShares{}
	}
	return potShares{each: amount / n, remainder: amount % n}
}

// firstClockwise returns the index within winners of the player seated
// first clockwise from the dealer.
func (g *Game) firstClockwise(winners []*Player) int {
	n := len(g.players)
	for i := 1; i <= n; i++ {
		p := g.players[(g.dealerIndex+i+n)%n]
		for j, w := range winners {
			if w == p {
				return j
			}
		}
	}
	return 0
}
