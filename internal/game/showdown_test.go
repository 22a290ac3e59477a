package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/poker"
)

func TestEvaluateHands(t *testing.T) {
	t.Parallel()
	board := poker.MustParseCards("AS KD QH JC TS")
	players := []*Player{
		{ID: "p1", Cards: poker.MustParseCards("2C 3D")},
		{ID: "p2", Cards: poker.MustParseCards("AH AD")},
		{ID: "p3", Cards: poker.MustParseCards("2H 3S")},
	}

	winners, best := EvaluateHands(players, board, TexasHoldEm)
	require.Len(t, winners, 2)
	assert.Equal(t, "p1", winners[0].ID)
	assert.Equal(t, "p3", winners[1].ID)
	assert.Equal(t, poker.CategoryStraight, best.Category)
	assert.Equal(t, "Ace-high Straight", best.Description)
}

func TestBestHandOmahaUsesTwoHoleCards(t *testing.T) {
	t.Parallel()
	hole := poker.MustParseCards("AS 2D 3C 4H")
	board := poker.MustParseCards("KS QS JS TS 9S")

	assert.Equal(t, poker.CategoryStraightFlush, BestHand(hole, board, TexasHoldEm).Category)
	omaha := BestHand(hole, board, Omaha)
	assert.Equal(t, poker.CategoryHighCard, omaha.Category)
	assert.Equal(t, "Ace High", omaha.Description)
}

func TestSplitPot(t *testing.T) {
	t.Parallel()
	// The board plays a royal flush for everyone.
	g := newTestGame(t, TexasHoldEm, WithStackedDecks(stacked(
		"2C 3C 4C 2D 3D 4D 5H AS KS QS 6H JS 7H TS")))
	seatPlayers(t, g, 1000, "p1", "p2", "p3")
	startRound(t, g)

	act(t, g, "p1", Call)
	act(t, g, "p2", Fold)
	act(t, g, "p3", Check)
	for _, phase := range []Phase{Flop, Turn, River} {
		require.Equal(t, phase, g.ReturnGameState().Phase)
		checkAround(t, g)
	}

	s := g.ReturnGameState()
	assert.Equal(t, Waiting, s.Phase)
	p1, _ := s.Player("p1")
	p2, _ := s.Player("p2")
	p3, _ := s.Player("p3")
	assert.Equal(t, 1002, p1.Chips)
	assert.Equal(t, 995, p2.Chips)
	assert.Equal(t, 1003, p3.Chips, "odd chip goes first clockwise from the dealer")
}

func TestOmahaHiLo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		deck   string
		awards []PotAwardedEvent
		chips  map[string]int
	}{
		{
			name: "high and low split",
			// p2: AH 2D 9C 9S, p1: KC KD QH JH, board 3C 5D KH 8S TD.
			deck: "AH KC 2D KD 9C QH 9S JH 2S 3C 5D KH 2H 8S 4S TD",
			awards: []PotAwardedEvent{
				{Amount: 10, Winners: []string{"p1"}, Shares: map[string]int{"p1": 10}, Description: "Three of a Kind, Kings"},
				{Amount: 10, Winners: []string{"p2"}, Shares: map[string]int{"p2": 10}, Description: "8-5-3-2-A low", Low: true},
			},
			chips: map[string]int{"p1": 1000, "p2": 1000},
		},
		{
			name: "no qualifying low scoops",
			deck: "9D KC 9C KD JD QH QC JH 2S 3C 5D KH 2H 8S 4S TD",
			awards: []PotAwardedEvent{
				{Amount: 20, Winners: []string{"p1"}, Shares: map[string]int{"p1": 20}, Description: "Three of a Kind, Kings"},
			},
			chips: map[string]int{"p1": 1010, "p2": 990},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := newTestGame(t, OmahaHiLo, WithStackedDecks(stacked(tt.deck)))
			seatPlayers(t, g, 1000, "p1", "p2")
			startRound(t, g)

			var events []Event
			for g.ReturnGameState().Phase != Waiting {
				s := g.ReturnGameState()
				kind := Check
				if s.CurrentBet > 0 {
					p, _ := s.Player(s.ActivePlayerID)
					if p.CurrentBet < s.CurrentBet {
						kind = Call
					}
				}
				events = append(events, act(t, g, s.ActivePlayerID, kind)...)
			}

			showdowns := eventsOf[ShowdownEvent](events)
			require.Len(t, showdowns, 1)
			for _, h := range showdowns[0].Hands {
				assert.NotNil(t, h.Low, h.PlayerID)
			}
			assert.Equal(t, tt.awards, eventsOf[PotAwardedEvent](events))
			for id, chips := range tt.chips {
				assert.Equal(t, chips, playerState(t, g, id).Chips, id)
			}
		})
	}
}
