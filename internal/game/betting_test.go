package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/internal/randutil"
)

func TestAllowedActions(t *testing.T) {
	t.Parallel()

	t.Run("matched bet offers check not call", func(t *testing.T) {
		g := newTestGame(t, TexasHoldEm)
		seatPlayers(t, g, 1000, "p1", "p2", "p3")
		startRound(t, g)
		act(t, g, "p1", Call)
		act(t, g, "p2", Call)

		allowed, err := g.GetAllowedActions("p3")
		require.NoError(t, err)
		assert.ElementsMatch(t, []ActionKind{Fold, Check, Raise}, allowed)
	})

	t.Run("facing a bet offers call not check", func(t *testing.T) {
		g := newTestGame(t, TexasHoldEm)
		seatPlayers(t, g, 1000, "p1", "p2", "p3")
		startRound(t, g)

		allowed, err := g.GetAllowedActions("p1")
		require.NoError(t, err)
		assert.ElementsMatch(t, []ActionKind{Fold, Call, Raise}, allowed)
	})

	t.Run("unopened street offers bet", func(t *testing.T) {
		g := newTestGame(t, TexasHoldEm)
		seatPlayers(t, g, 1000, "p1", "p2")
		startRound(t, g)
		act(t, g, "p2", Call)
		act(t, g, "p1", Check)

		allowed, err := g.GetAllowedActions("p2")
		require.NoError(t, err)
		assert.ElementsMatch(t, []ActionKind{Fold, Check, Bet}, allowed)
	})

	t.Run("not your turn is empty", func(t *testing.T) {
		g := newTestGame(t, TexasHoldEm)
		seatPlayers(t, g, 1000, "p1", "p2", "p3")
		startRound(t, g)

		allowed, err := g.GetAllowedActions("p2")
		require.NoError(t, err)
		assert.Empty(t, allowed)

		_, err = g.GetAllowedActions("ghost")
		assert.ErrorIs(t, err, ErrPlayerNotFound)
	})

	t.Run("all-in player has no actions", func(t *testing.T) {
		g := newTestGame(t, TexasHoldEm)
		seatPlayers(t, g, 1000, "p1", "p2", "p3")
		startRound(t, g)
		act(t, g, "p1", Raise, 1000)

		p1 := g.playerByID("p1")
		assert.Zero(t, p1.Chips)
		assert.Empty(t, g.allowedActions(p1))
	})

	t.Run("no raise without an opponent able to call", func(t *testing.T) {
		g := newTestGame(t, TexasHoldEm)
		seatPlayers(t, g, 1000, "p1", "p2")
		startRound(t, g)
		act(t, g, "p2", Raise, 1000)

		allowed, err := g.GetAllowedActions("p1")
		require.NoError(t, err)
		assert.ElementsMatch(t, []ActionKind{Fold, Call}, allowed)
	})
}

func TestIllegalActionLeavesStateUnchanged(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, TexasHoldEm)
	seatPlayers(t, g, 1000, "p1", "p2", "p3")
	startRound(t, g)
	before := g.ReturnGameState()

	tests := []struct {
		name   string
		player string
		action Action
		err    error
	}{
		{"check facing a bet", "p1", Action{Kind: Check}, ErrIllegalAction},
		{"bet when a bet is open", "p1", Action{Kind: Bet, Amount: 50}, ErrIllegalAction},
		{"raise below minimum", "p1", Action{Kind: Raise, Amount: 15}, ErrIllegalAction},
		{"raise not above current bet", "p1", Action{Kind: Raise, Amount: 10}, ErrIllegalAction},
		{"out of turn", "p2", Action{Kind: Call}, ErrNotPlayerTurn},
		{"unknown player", "ghost", Action{Kind: Fold}, ErrPlayerNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := g.ApplyAction(tt.player, tt.action)
			assert.ErrorIs(t, err, tt.err)
			assert.Empty(t, events)
			assert.Equal(t, before, g.ReturnGameState())
		})
	}
}

func TestActionsOutsideRound(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, TexasHoldEm)
	seatPlayers(t, g, 1000, "p1", "p2")

	_, err := g.ApplyAction("p1", Action{Kind: Check})
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestTurnOrderAfterRaise(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, TexasHoldEm)
	seatPlayers(t, g, 1000, "p1", "p2", "p3", "p4")
	startRound(t, g)

	// p1 deals, p2 and p3 post, p4 opens.
	assert.Equal(t, "p4", g.ReturnGameState().ActivePlayerID)
	act(t, g, "p4", Call)
	act(t, g, "p1", Call)
	events := act(t, g, "p2", Raise, 30)

	var order []string
	turns := eventsOf[TurnChangedEvent](events)
	require.Len(t, turns, 1)
	order = append(order, turns[0].PlayerID)
	assert.Equal(t, 20, turns[0].ToCall)

	for _, id := range []string{"p3", "p4"} {
		turns := eventsOf[TurnChangedEvent](act(t, g, id, Call))
		require.Len(t, turns, 1)
		order = append(order, turns[0].PlayerID)
		assert.Equal(t, Preflop, g.ReturnGameState().Phase)
	}
	assert.Equal(t, []string{"p3", "p4", "p1"}, order)

	events = act(t, g, "p1", Call)
	s := g.ReturnGameState()
	assert.Equal(t, Flop, s.Phase)
	assert.Len(t, s.CommunityCards, 3)
	assert.Len(t, s.BurnPile, 1)
	assert.Equal(t, 120, s.Pot)
	assert.Zero(t, s.CurrentBet)
	assert.Equal(t, "p2", s.ActivePlayerID, "post-flop action starts left of the dealer")
	require.Len(t, eventsOf[PhaseChangedEvent](events), 1)
	for _, p := range s.Players {
		assert.Zero(t, p.CurrentBet)
		assert.Equal(t, ActionNone, p.PreviousAction)
	}
}

func TestBigBlindOption(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, TexasHoldEm)
	seatPlayers(t, g, 1000, "p1", "p2", "p3")
	startRound(t, g)

	act(t, g, "p1", Call)
	act(t, g, "p2", Call)
	s := g.ReturnGameState()
	assert.Equal(t, Preflop, s.Phase, "big blind still has the option")
	assert.Equal(t, "p3", s.ActivePlayerID)

	act(t, g, "p3", Raise, 20)
	assert.Equal(t, "p1", g.ReturnGameState().ActivePlayerID)
	act(t, g, "p1", Call)
	act(t, g, "p2", Call)
	assert.Equal(t, Flop, g.ReturnGameState().Phase)
}

func TestRaiseSetsMinimum(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, TexasHoldEm)
	seatPlayers(t, g, 1000, "p1", "p2", "p3")
	startRound(t, g)

	act(t, g, "p1", Raise, 40) // raise of 30
	s := g.ReturnGameState()
	assert.Equal(t, 40, s.CurrentBet)
	assert.Equal(t, 30, s.MinRaise)

	_, err := g.ApplyAction("p2", Action{Kind: Raise, Amount: 60})
	assert.ErrorIs(t, err, ErrIllegalAction)
	act(t, g, "p2", Raise, 70)
	assert.Equal(t, 70, g.ReturnGameState().CurrentBet)
}

func TestShortAllInRaiseReopensBetting(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, TexasHoldEm)
	_, err := g.AddPlayer("p1", "p1", 0, 15)
	require.NoError(t, err)
	seatPlayers(t, g, 1000, "p2", "p3", "p4")
	startRound(t, g)

	act(t, g, "p4", Call)
	// Raising 10 to 15 is short of a full raise but allowed all-in.
	act(t, g, "p1", Raise, 15)

	s := g.ReturnGameState()
	assert.Equal(t, 15, s.CurrentBet)
	assert.Equal(t, 10, s.MinRaise)
	assert.Equal(t, []string{"p1"}, s.IneligiblePlayers)

	act(t, g, "p2", Call)
	act(t, g, "p3", Call)
	s = g.ReturnGameState()
	assert.Equal(t, "p4", s.ActivePlayerID, "a caller acts again")
	allowed, err := g.GetAllowedActions("p4")
	require.NoError(t, err)
	assert.Contains(t, allowed, Raise)
}

func TestUncontestedWin(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, TexasHoldEm)
	seatPlayers(t, g, 1000, "p1", "p2", "p3")
	startRound(t, g)

	act(t, g, "p1", Fold)
	events := act(t, g, "p2", Fold)

	awards := eventsOf[PotAwardedEvent](events)
	require.Len(t, awards, 1)
	assert.True(t, awards[0].Uncontested)
	assert.Equal(t, 15, awards[0].Amount)
	assert.Equal(t, []string{"p3"}, awards[0].Winners)
	require.Len(t, eventsOf[RoundEndedEvent](events), 1)
	assert.Empty(t, eventsOf[ShowdownEvent](events))

	s := g.ReturnGameState()
	assert.Equal(t, Waiting, s.Phase)
	p3, _ := s.Player("p3")
	assert.Equal(t, 1005, p3.Chips)
	assert.Equal(t, Win, p3.PreviousAction)
	assert.Equal(t, 3000, s.TotalChips())
}

// TestChipConservation plays random legal actions through many hands and
// checks stacks plus pots never change.
func TestChipConservation(t *testing.T) {
	t.Parallel()
	for _, variant := range []Variant{TexasHoldEm, Omaha, OmahaHiLo, Chicago, FiveCardDraw, SevenCardStud} {
		t.Run(variant.String(), func(t *testing.T) {
			t.Parallel()
			g := newTestGame(t, variant, WithSeed(7), WithAutoStart(true))
			seatPlayers(t, g, 200, "p1", "p2", "p3", "p4")
			const total = 800
			rng := randutil.New(11)

			startRound(t, g)
			for i := 0; i < 3000; i++ {
				s := g.ReturnGameState()
				require.Equal(t, total, s.TotalChips(), "after %d actions", i)
				if s.ActivePlayerID == "" {
					break
				}
				if s.Phase == Draw {
					p, _ := s.Player(s.ActivePlayerID)
					if p.PreviousAction == ActionNone {
						_, _ = g.Discard(p.ID, p.Cards[:rng.IntN(4)])
					}
				}

				allowed, err := g.GetAllowedActions(s.ActivePlayerID)
				require.NoError(t, err)
				require.NotEmpty(t, allowed)
				kind := allowed[rng.IntN(len(allowed))]
				if kind == Fold && len(allowed) > 1 && rng.IntN(3) > 0 {
					kind = allowed[1]
				}

				p, _ := s.Player(s.ActivePlayerID)
				var amount int
				switch kind {
				case Bet:
					amount = s.BigBlind + rng.IntN(p.Chips-s.BigBlind+1)
				case Raise:
					lo := s.CurrentBet + s.MinRaise
					hi := p.CurrentBet + p.Chips
					amount = hi
					if lo < hi {
						amount = lo + rng.IntN(hi-lo+1)
					}
				}
				_, err = g.ApplyAction(s.ActivePlayerID, Action{Kind: kind, Amount: amount})
				require.NoError(t, err)
			}
			assert.Equal(t, total, g.TotalChips())
		})
	}
}
