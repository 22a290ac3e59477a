package game

import (
	"sort"
)

// Sidepot is a pot segment with a restricted set of eligible winners.
type Sidepot struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"`
}

// totalPot returns the main pot plus every sidepot.
func (g *Game) totalPot() int {
	total := g.pot
	for _, sp := range g.sidepots {
		total += sp.Amount
	}
	return total
}

// allInLevels returns the distinct whole-hand contributions of all-in
// players in ascending order.
func (g *Game) allInLevels() []int {
	seen := make(map[int]bool)
	var levels []int
	for _, p := range g.players {
		if p.AllIn && p.TotalBet > 0 && !seen[p.TotalBet] {
			seen[p.TotalBet] = true
			levels = append(levels, p.TotalBet)
		}
	}
	sort.Ints(levels)
	return levels
}

// rebuildPots lays every chip wagered this hand into the main pot and
// sidepots. The main pot holds contributions up to the lowest all-in level
// and every player still in the hand is eligible for it. Each higher all-in
// level caps a sidepot; chips above the highest level form the newest
// sidepot. A player all-in at level L is eligible only for pots below L.
// Pot totals always equal the sum of contributions, so stacks plus pots
// stay constant.
func (g *Game) rebuildPots() []Event {
	before := len(g.sidepots)
	levels := g.allInLevels()

	floors := append([]int{0}, levels...)
	layers := make([]Sidepot, 0, len(floors))
	for i, floor := range floors {
		ceiling := -1
		if i+1 < len(floors) {
			ceiling = floors[i+1]
		}
		layer := Sidepot{}
		for _, p := range g.players {
			part := p.TotalBet - floor
			if ceiling >= 0 && p.TotalBet > ceiling {
				part = ceiling - floor
			}
			if part <= 0 {
				continue
			}
			layer.Amount += part
			if p.inHand() {
				layer.Eligible = append(layer.Eligible, p.ID)
			}
		}
		layers = append(layers, layer)
	}

	// The first layer's cap is the lowest all-in level; when nobody is
	// all-in it is uncapped and holds everything.
	g.pot = layers[0].Amount
	g.sidepots = g.sidepots[:0]
	for _, layer := range layers[1:] {
		if layer.Amount > 0 {
			g.sidepots = append(g.sidepots, layer)
		}
	}

	var events []Event
	for i := before; i < len(g.sidepots); i++ {
		events = append(events, SidepotCreatedEvent{
			Index:    i + 1,
			Amount:   g.sidepots[i].Amount,
			Eligible: append([]string(nil), g.sidepots[i].Eligible...),
		})
	}
	return events
}

// mainPotEligible lists players in the hand who are eligible for the main
// pot, in seat order.
func (g *Game) mainPotEligible() []string {
	var ids []string
	for _, p := range g.players {
		if p.inHand() && p.TotalBet > 0 {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// markIneligible records that an all-in player may not win chips wagered
// above their stack.
func (g *Game) markIneligible(p *Player) {
	for _, id := range g.ineligible {
		if id == p.ID {
			return
		}
	}
	g.ineligible = append(g.ineligible, p.ID)
}
