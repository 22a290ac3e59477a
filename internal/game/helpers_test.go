package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/poker"
)

// newTestGame creates a game that does not deal the next round on its own.
func newTestGame(t *testing.T, variant Variant, opts ...Option) *Game {
	t.Helper()
	opts = append([]Option{WithSeed(42), WithAutoStart(false)}, opts...)
	g, err := NewGame("test", variant, opts...)
	require.NoError(t, err)
	return g
}

// seatPlayers seats ids in order with the given stack each.
func seatPlayers(t *testing.T, g *Game, chips int, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := g.AddPlayer(id, id, 0, chips)
		require.NoError(t, err)
	}
}

// stacked returns order followed by every other card of a fresh deck, so a
// scripted hand never runs the deck dry.
func stacked(order string) []poker.Card {
	head := poker.MustParseCards(order)
	used := make(map[string]bool, len(head))
	for _, c := range head {
		used[c.String()] = true
	}
	cards := append([]poker.Card(nil), head...)
	for _, c := range poker.NewDeck(nil, false).Cards() {
		if !used[c.String()] {
			cards = append(cards, c)
		}
	}
	return cards
}

func act(t *testing.T, g *Game, id string, kind ActionKind, amount ...int) []Event {
	t.Helper()
	a := Action{Kind: kind}
	if len(amount) > 0 {
		a.Amount = amount[0]
	}
	events, err := g.ApplyAction(id, a)
	require.NoError(t, err, "%s %s", id, a)
	return events
}

func startRound(t *testing.T, g *Game) []Event {
	t.Helper()
	events, err := g.StartRound()
	require.NoError(t, err)
	return events
}

func eventsOf[T Event](events []Event) []T {
	var out []T
	for _, e := range events {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func playerState(t *testing.T, g *Game, id string) PlayerSnapshot {
	t.Helper()
	p, ok := g.ReturnGameState().Player(id)
	require.True(t, ok, "player %s not found", id)
	return p
}
