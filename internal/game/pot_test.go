package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contributed seats players with the given whole-hand contributions, as if
// mid-hand. A negative amount marks the player all-in for its absolute value.
func contributed(t *testing.T, amounts map[string]int, order ...string) *Game {
	t.Helper()
	g := newTestGame(t, TexasHoldEm)
	seatPlayers(t, g, 1000, order...)
	for _, p := range g.players {
		p.Active = true
		bet := amounts[p.ID]
		if bet < 0 {
			bet = -bet
			p.AllIn = true
			p.Chips = 0
		}
		p.TotalBet = bet
	}
	return g
}

func TestRebuildPots(t *testing.T) {
	t.Parallel()

	t.Run("no all-ins keeps one pot", func(t *testing.T) {
		g := contributed(t, map[string]int{"a": 20, "b": 20, "c": 20}, "a", "b", "c")
		events := g.rebuildPots()
		assert.Empty(t, events)
		assert.Equal(t, 60, g.pot)
		assert.Empty(t, g.sidepots)
	})

	t.Run("layers by all-in level", func(t *testing.T) {
		g := contributed(t, map[string]int{"a": -10, "b": -30, "c": -50, "d": 50}, "a", "b", "c", "d")
		events := g.rebuildPots()

		assert.Equal(t, 40, g.pot)
		assert.Equal(t, []Sidepot{
			{Amount: 60, Eligible: []string{"b", "c", "d"}},
			{Amount: 40, Eligible: []string{"c", "d"}},
		}, g.sidepots)
		assert.Len(t, events, 2)
		assert.Equal(t, 140, g.totalPot())
	})

	t.Run("chips above the top all-in form the newest sidepot", func(t *testing.T) {
		g := contributed(t, map[string]int{"a": -10, "b": -30, "c": -50, "d": 80, "e": 80}, "a", "b", "c", "d", "e")
		g.rebuildPots()

		assert.Equal(t, 50, g.pot)
		require.Len(t, g.sidepots, 3)
		assert.Equal(t, Sidepot{Amount: 60, Eligible: []string{"d", "e"}}, g.sidepots[2])
		assert.Equal(t, 250, g.totalPot())
	})

	t.Run("folded chips stay without eligibility", func(t *testing.T) {
		g := contributed(t, map[string]int{"a": -10, "b": 40, "c": 40}, "a", "b", "c")
		g.playerByID("b").Folded = true
		g.rebuildPots()

		assert.Equal(t, 30, g.pot)
		assert.Equal(t, []Sidepot{{Amount: 60, Eligible: []string{"c"}}}, g.sidepots)
	})

	t.Run("only new sidepots are announced", func(t *testing.T) {
		g := contributed(t, map[string]int{"a": -10, "b": 30, "c": 30}, "a", "b", "c")
		first := g.rebuildPots()
		require.Len(t, first, 1)
		assert.Equal(t, SidepotCreatedEvent{Index: 1, Amount: 40, Eligible: []string{"b", "c"}}, first[0])

		assert.Empty(t, g.rebuildPots())
	})
}

func TestSidePotShowdown(t *testing.T) {
	t.Parallel()
	// Deal order starts left of the dealer: a, b, c, d.
	g := newTestGame(t, TexasHoldEm, WithStackedDecks(stacked(
		"AS KS QS 7C AH KH QH 2D 3S 2C 6D 9H 3C TC 3D 4D")))
	seatPlayers(t, g, 1000, "d")
	for id, chips := range map[string]int{"a": 10, "b": 30, "c": 50} {
		_, err := g.AddPlayer(id, id, map[string]int{"a": 2, "b": 3, "c": 4}[id], chips)
		require.NoError(t, err)
	}
	require.Equal(t, 1090, g.TotalChips())
	startRound(t, g)

	s := g.ReturnGameState()
	require.Equal(t, "d", s.DealerID)
	require.Equal(t, "c", s.ActivePlayerID)

	act(t, g, "c", Raise, 50)
	act(t, g, "d", Call)
	act(t, g, "a", Call)
	events := act(t, g, "b", Call)

	require.Len(t, eventsOf[ShowdownEvent](events), 1)
	awards := eventsOf[PotAwardedEvent](events)
	require.Len(t, awards, 3)
	assert.Equal(t, 1, awards[0].Pot)
	assert.Equal(t, map[string]int{"b": 60}, awards[0].Shares)
	assert.Equal(t, 2, awards[1].Pot)
	assert.Equal(t, map[string]int{"c": 40}, awards[1].Shares)
	assert.Equal(t, 0, awards[2].Pot)
	assert.Equal(t, map[string]int{"a": 40}, awards[2].Shares)

	want := map[string]int{"a": 40, "b": 60, "c": 40, "d": 950}
	for id, chips := range want {
		assert.Equal(t, chips, playerState(t, g, id).Chips, id)
	}
	assert.Equal(t, 1090, g.TotalChips())
}

func TestAwardRemainder(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, TexasHoldEm)
	seatPlayers(t, g, 0, "p1", "p2", "p3")
	g.dealerIndex = 0

	winners := []*Player{g.players[2], g.players[0], g.players[1]}
	ev := g.award(0, 100, winners, "", false, false).(PotAwardedEvent)

	assert.Equal(t, map[string]int{"p1": 33, "p2": 34, "p3": 33}, ev.Shares)
	assert.Equal(t, 34, g.playerByID("p2").Chips)
	assert.Equal(t, Win, g.playerByID("p1").PreviousAction)
}
