package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/poker"
)

func TestNewGameValidation(t *testing.T) {
	t.Parallel()

	_, err := NewGame("t", Variant(99))
	assert.ErrorIs(t, err, ErrInvalidVariant)

	_, err = NewGame("t", TexasHoldEm, WithBlinds(10, 5))
	assert.Error(t, err)

	_, err = NewGame("t", TexasHoldEm, WithMaxPlayers(1))
	assert.Error(t, err)

	_, err = NewGame("t", TexasHoldEm, WithSelectionTimeout(0))
	assert.Error(t, err)
}

func TestAddPlayer(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, TexasHoldEm, WithMaxPlayers(3))

	p, err := g.AddPlayer("a", "Alice", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Seat)

	_, err = g.AddPlayer("b", "Bob", 3, 100)
	require.NoError(t, err)

	_, err = g.AddPlayer("c", "Carol", 3, 100)
	assert.ErrorIs(t, err, ErrSeatTaken)

	_, err = g.AddPlayer("a", "Again", 0, 100)
	assert.ErrorIs(t, err, ErrPlayerExists)

	p, err = g.AddPlayer("c", "Carol", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Seat)

	_, err = g.AddPlayer("d", "Dan", 0, 100)
	assert.ErrorIs(t, err, ErrTableFull)

	ids := []string{}
	for _, ps := range g.ReturnGameState().Players {
		ids = append(ids, ps.ID)
	}
	assert.Equal(t, []string{"a", "c", "b"}, ids, "players are kept in seat order")
}

func TestStartRound(t *testing.T) {
	t.Parallel()

	t.Run("needs two funded players", func(t *testing.T) {
		g := newTestGame(t, TexasHoldEm)
		seatPlayers(t, g, 1000, "p1")
		_, err := g.AddPlayer("broke", "broke", 0, 0)
		require.NoError(t, err)

		events, err := g.StartRound()
		require.ErrorIs(t, err, ErrRoundStartFailed)
		require.Len(t, eventsOf[RoundFailedEvent](events), 1)

		s := g.ReturnGameState()
		assert.Equal(t, Waiting, s.Phase)
		assert.Zero(t, s.RoundCount)
	})

	t.Run("positions blinds and deal", func(t *testing.T) {
		g := newTestGame(t, TexasHoldEm)
		seatPlayers(t, g, 1000, "p1", "p2", "p3")
		events := startRound(t, g)

		s := g.ReturnGameState()
		assert.Equal(t, 1, s.RoundCount)
		assert.Equal(t, Preflop, s.Phase)
		assert.Equal(t, "p1", s.DealerID)
		assert.Equal(t, "p2", s.SmallBlindID)
		assert.Equal(t, "p3", s.BigBlindID)
		assert.Equal(t, "p1", s.ActivePlayerID, "first to act sits after the big blind")
		assert.Equal(t, 10, s.CurrentBet)
		assert.Equal(t, 15, s.Pot)
		assert.Equal(t, poker.DeckSize-6, s.DeckRemaining)
		assert.Equal(t, 3000, s.TotalChips())

		for _, p := range s.Players {
			assert.Len(t, p.Cards, 2)
		}
		blinds := eventsOf[BlindPostedEvent](events)
		require.Len(t, blinds, 2)
		assert.Equal(t, BlindPostedEvent{PlayerID: "p2", Amount: 5}, blinds[0])
		assert.Equal(t, BlindPostedEvent{PlayerID: "p3", Amount: 10, Big: true}, blinds[1])
		assert.Equal(t, ActionNone, playerState(t, g, "p3").PreviousAction)

		_, err := g.StartRound()
		assert.ErrorIs(t, err, ErrRoundInProgress)
	})

	t.Run("deals clockwise from the dealer's left", func(t *testing.T) {
		g := newTestGame(t, TexasHoldEm, WithStackedDecks(stacked("2C 3C 4C 2D 3D 4D")))
		seatPlayers(t, g, 1000, "p1", "p2", "p3")
		startRound(t, g)

		assert.Equal(t, "4C 4D", poker.FormatCards(playerState(t, g, "p1").Cards))
		assert.Equal(t, "2C 2D", poker.FormatCards(playerState(t, g, "p2").Cards))
		assert.Equal(t, "3C 3D", poker.FormatCards(playerState(t, g, "p3").Cards))
	})

	t.Run("dealer button rotates", func(t *testing.T) {
		g := newTestGame(t, TexasHoldEm)
		seatPlayers(t, g, 1000, "p1", "p2", "p3")
		startRound(t, g)
		act(t, g, "p1", Fold)
		act(t, g, "p2", Fold)

		startRound(t, g)
		s := g.ReturnGameState()
		assert.Equal(t, 2, s.RoundCount)
		assert.Equal(t, "p2", s.DealerID)
		assert.Equal(t, "p3", s.SmallBlindID)
		assert.Equal(t, "p1", s.BigBlindID)
	})

	t.Run("capped blind posts all-in", func(t *testing.T) {
		g := newTestGame(t, TexasHoldEm)
		seatPlayers(t, g, 1000, "p1", "p2")
		_, err := g.AddPlayer("short", "short", 0, 4)
		require.NoError(t, err)
		startRound(t, g)

		short := playerState(t, g, "short")
		assert.Equal(t, "short", g.ReturnGameState().BigBlindID)
		assert.True(t, short.AllIn)
		assert.Equal(t, 4, short.TotalBet)
		assert.Contains(t, g.ReturnGameState().IneligiblePlayers, "short")
	})
}

func TestVariantDealing(t *testing.T) {
	t.Parallel()

	t.Run("omaha deals four", func(t *testing.T) {
		g := newTestGame(t, Omaha)
		seatPlayers(t, g, 1000, "p1", "p2", "p3")
		startRound(t, g)
		for _, p := range g.ReturnGameState().Players {
			assert.Len(t, p.Cards, 4)
		}
	})

	t.Run("chicago exposes the second card", func(t *testing.T) {
		g := newTestGame(t, Chicago)
		seatPlayers(t, g, 1000, "p1", "p2")
		startRound(t, g)
		for _, p := range g.ReturnGameState().Players {
			require.Len(t, p.Cards, 2)
			assert.False(t, p.Cards[0].FaceUp)
			assert.True(t, p.Cards[1].FaceUp)
		}
	})

	t.Run("stud opens with the highest up-card", func(t *testing.T) {
		g := newTestGame(t, SevenCardStud, WithStackedDecks(stacked("2C 3C 4C 2D 3D 4D 5C KS KD")))
		seatPlayers(t, g, 1000, "p1", "p2", "p3")
		startRound(t, g)

		s := g.ReturnGameState()
		assert.Equal(t, ThirdStreet, s.Phase)
		assert.Equal(t, "p3", s.ActivePlayerID, "KS beats KD on suit")
		p3, _ := s.Player("p3")
		require.Len(t, p3.Cards, 3)
		assert.False(t, p3.Cards[0].FaceUp)
		assert.False(t, p3.Cards[1].FaceUp)
		assert.True(t, p3.Cards[2].FaceUp)
	})

	t.Run("stud streets", func(t *testing.T) {
		g := newTestGame(t, SevenCardStud)
		seatPlayers(t, g, 1000, "p1", "p2")
		startRound(t, g)

		wantUp := []int{1, 2, 3, 4, 4}
		for street, up := range wantUp {
			s := g.ReturnGameState()
			for _, p := range s.Players {
				require.Len(t, p.Cards, 3+street, "phase %s", s.Phase)
				n := 0
				for _, c := range p.Cards {
					if c.FaceUp {
						n++
					}
				}
				assert.Equal(t, up, n, "up-cards on %s", s.Phase)
			}
			assert.Empty(t, s.CommunityCards)
			checkAround(t, g)
		}
		assert.Equal(t, Waiting, g.ReturnGameState().Phase)
	})
}

// checkAround calls or checks until the street changes.
func checkAround(t *testing.T, g *Game) {
	t.Helper()
	start := g.ReturnGameState()
	for {
		s := g.ReturnGameState()
		if s.Phase != start.Phase || s.RoundCount != start.RoundCount || s.ActivePlayerID == "" {
			return
		}
		allowed, err := g.GetAllowedActions(s.ActivePlayerID)
		require.NoError(t, err)
		kind := Check
		if !containsAction(allowed, Check) {
			kind = Call
		}
		act(t, g, s.ActivePlayerID, kind)
	}
}

func TestRunOutWhenAllIn(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, TexasHoldEm, WithStackedDecks(stacked("AS 2C AD 7H 3S KC QD JC 4S 9H 5S 8S")))
	seatPlayers(t, g, 100, "p1", "p2")
	startRound(t, g)

	// Heads-up: p2 is the small blind and acts first.
	act(t, g, "p2", Raise, 100)
	events := act(t, g, "p1", Call)

	phases := []Phase{}
	for _, e := range eventsOf[PhaseChangedEvent](events) {
		phases = append(phases, e.Phase)
	}
	assert.Equal(t, []Phase{Flop, Turn, River, Showdown}, phases)
	require.Len(t, eventsOf[ShowdownEvent](events), 1)

	s := g.ReturnGameState()
	assert.Equal(t, Waiting, s.Phase)
	assert.Equal(t, 200, s.TotalChips())
	p2, _ := s.Player("p2")
	assert.Equal(t, 200, p2.Chips, "aces beat seven-two")
}

func TestDeckExhaustedAbortsRound(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, TexasHoldEm, WithStackedDecks(poker.MustParseCards("AS KS QS JS")))
	seatPlayers(t, g, 1000, "p1", "p2")
	startRound(t, g)

	act(t, g, "p2", Call)
	events, err := g.ApplyAction("p1", Action{Kind: Check})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeckExhausted))
	require.Len(t, eventsOf[RoundFailedEvent](events), 1)

	s := g.ReturnGameState()
	assert.Equal(t, Waiting, s.Phase)
	assert.Zero(t, s.Pot)
	for _, p := range s.Players {
		assert.Equal(t, 1000, p.Chips, "contributions are refunded")
	}

	// The next round deals from a fresh deck.
	startRound(t, g)
	assert.Equal(t, Preflop, g.ReturnGameState().Phase)
}

func TestAutoStartDealsNextRound(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, TexasHoldEm, WithAutoStart(true))
	seatPlayers(t, g, 1000, "p1", "p2", "p3")
	startRound(t, g)

	act(t, g, "p1", Fold)
	events := act(t, g, "p2", Fold)

	require.Len(t, eventsOf[RoundEndedEvent](events), 1)
	require.Len(t, eventsOf[RoundStartedEvent](events), 1)
	s := g.ReturnGameState()
	assert.Equal(t, 2, s.RoundCount)
	assert.Equal(t, Preflop, s.Phase)
	assert.Equal(t, 3000, s.TotalChips())
}

func TestRemovePlayer(t *testing.T) {
	t.Parallel()

	t.Run("between rounds", func(t *testing.T) {
		g := newTestGame(t, TexasHoldEm)
		seatPlayers(t, g, 1000, "p1", "p2")
		_, err := g.RemovePlayer("p1")
		require.NoError(t, err)
		assert.Len(t, g.ReturnGameState().Players, 1)

		_, err = g.RemovePlayer("nobody")
		assert.ErrorIs(t, err, ErrPlayerNotFound)
	})

	t.Run("mid round on their turn", func(t *testing.T) {
		g := newTestGame(t, TexasHoldEm)
		seatPlayers(t, g, 1000, "p1", "p2", "p3")
		startRound(t, g)

		events, err := g.RemovePlayer("p1")
		require.NoError(t, err)
		require.Len(t, eventsOf[PlayerActedEvent](events), 1)

		s := g.ReturnGameState()
		assert.Equal(t, "p2", s.ActivePlayerID)
		p1, ok := s.Player("p1")
		require.True(t, ok, "player stays seated until the round ends")
		assert.True(t, p1.Folded)

		act(t, g, "p2", Fold)
		startRound(t, g)
		_, ok = g.ReturnGameState().Player("p1")
		assert.False(t, ok)
		assert.Equal(t, 2000, g.ReturnGameState().TotalChips())
	})

	t.Run("last opponent leaving ends the hand", func(t *testing.T) {
		g := newTestGame(t, TexasHoldEm)
		seatPlayers(t, g, 1000, "p1", "p2")
		startRound(t, g)

		events, err := g.RemovePlayer("p1")
		require.NoError(t, err)
		awards := eventsOf[PotAwardedEvent](events)
		require.Len(t, awards, 1)
		assert.Equal(t, []string{"p2"}, awards[0].Winners)
		assert.True(t, awards[0].Uncontested)
	})
}

// foldAround folds whoever is to act until the round is over.
func foldAround(t *testing.T, g *Game) {
	t.Helper()
	for s := g.ReturnGameState(); s.Phase != Waiting; s = g.ReturnGameState() {
		act(t, g, s.ActivePlayerID, Fold)
	}
}

func TestButtonMovesOnFromDepartedDealer(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		leave func(t *testing.T, g *Game)
	}{
		{"between rounds", func(t *testing.T, g *Game) {
			foldAround(t, g)
			_, err := g.RemovePlayer("p3")
			require.NoError(t, err)
		}},
		{"mid round", func(t *testing.T, g *Game) {
			_, err := g.RemovePlayer("p3")
			require.NoError(t, err)
			foldAround(t, g)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := newTestGame(t, TexasHoldEm)
			seatPlayers(t, g, 1000, "p1", "p2", "p3", "p4")

			for _, dealer := range []string{"p1", "p2"} {
				started := eventsOf[RoundStartedEvent](startRound(t, g))
				require.Len(t, started, 1)
				require.Equal(t, dealer, started[0].DealerID)
				foldAround(t, g)
			}
			started := eventsOf[RoundStartedEvent](startRound(t, g))
			require.Equal(t, "p3", started[0].DealerID)
			tt.leave(t, g)

			started = eventsOf[RoundStartedEvent](startRound(t, g))
			require.Len(t, started, 1)
			assert.Equal(t, "p4", started[0].DealerID)
			assert.Equal(t, "p1", started[0].SmallBlindID)
			assert.Equal(t, "p2", started[0].BigBlindID)
		})
	}
}

func TestVariantSeatLimits(t *testing.T) {
	t.Parallel()

	_, err := NewGame("t", SevenCardStud, WithMaxPlayers(8))
	assert.ErrorContains(t, err, "between 2 and 7")
	_, err = NewGame("t", DealersChoice, WithMaxPlayers(7))
	assert.Error(t, err)
	_, err = NewGame("t", TexasHoldEm, WithMaxPlayers(10))
	assert.NoError(t, err)

	g := newTestGame(t, SevenCardStud)
	seatPlayers(t, g, 100, "p1", "p2", "p3", "p4", "p5", "p6", "p7")
	_, err = g.AddPlayer("p8", "p8", 0, 100)
	assert.ErrorIs(t, err, ErrTableFull)
}
