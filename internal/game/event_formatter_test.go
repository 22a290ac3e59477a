package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/pokertable/poker"
)

func TestEventFormatter(t *testing.T) {
	t.Parallel()
	ef := NewEventFormatter(FormattingOptions{
		Perspective: "p1",
		Names:       map[string]string{"p1": "Alice", "p2": "Bob"},
	})

	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"round start", RoundStartedEvent{Round: 3, Variant: Omaha, DealerID: "p2"}, "=== Round 3 • omaha • dealer Bob ==="},
		{"blind", BlindPostedEvent{PlayerID: "p1", Amount: 10, Big: true}, "Alice: posts big blind 10"},
		{"short blind", BlindPostedEvent{PlayerID: "p3", Amount: 4, AllIn: true}, "p3: posts small blind 4 and is all-in"},
		{"own hole cards", CardsDealtEvent{PlayerID: "p1", Phase: Preflop, Cards: poker.MustParseCards("AS KD")}, "Dealt to Alice: [AS KD]"},
		{"hidden hole cards", CardsDealtEvent{PlayerID: "p2", Phase: Preflop, Cards: poker.MustParseCards("AS KD")}, ""},
		{"community cards", CardsDealtEvent{Phase: Flop, Cards: poker.MustParseCards("2C 3C 4C")}, ""},
		{"call", PlayerActedEvent{PlayerID: "p2", Action: Call, Amount: 10, Pot: 25}, "Bob: calls 10 (pot now: 25)"},
		{"all-in raise", PlayerActedEvent{PlayerID: "p1", Action: Raise, Amount: 990, Pot: 1015, AllIn: true}, "Alice: raises 990 (pot now: 1015) and is all-in"},
		{"flop", PhaseChangedEvent{Phase: Flop, CommunityCards: poker.MustParseCards("2C 3C 4C")}, "*** FLOP *** [2C 3C 4C]"},
		{"turn", PhaseChangedEvent{Phase: Turn, CommunityCards: poker.MustParseCards("2C 3C 4C 5D")}, "*** TURN *** [2C 3C 4C] [5D]"},
		{"draw", PhaseChangedEvent{Phase: Draw}, "*** DRAW ***"},
		{"stand pat", CardsDiscardedEvent{PlayerID: "p2"}, "Bob: stands pat"},
		{"timed out", VariantSelectedEvent{DealerID: "p1", Variant: TexasHoldEm, TimedOut: true}, "Alice ran out of time, playing texas-holdem"},
		{
			"split side pot",
			PotAwardedEvent{Pot: 1, Amount: 41, Winners: []string{"p2", "p1"}, Shares: map[string]int{"p1": 20, "p2": 21}, Description: "Pair of Aces"},
			"Alice 20, Bob 21 collects side pot 1 with Pair of Aces",
		},
		{
			"low half",
			PotAwardedEvent{Amount: 10, Winners: []string{"p2"}, Shares: map[string]int{"p2": 10}, Low: true, Description: "8-5-3-2-A low"},
			"Bob 10 collects main pot (low) with 8-5-3-2-A low",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ef.Format(tt.event))
		})
	}
}

func TestEventFormatterShowsUpCards(t *testing.T) {
	t.Parallel()
	ef := NewEventFormatter(FormattingOptions{})
	cards := poker.MustParseCards("AS KD")
	cards[1].FaceUp = true

	assert.Equal(t, "Dealt to p2: [KD]", ef.Format(CardsDealtEvent{PlayerID: "p2", Cards: cards}))

	ef = NewEventFormatter(FormattingOptions{ShowHoleCards: true})
	assert.Equal(t, "Dealt to p2: [AS KD]", ef.Format(CardsDealtEvent{PlayerID: "p2", Cards: cards}))
}
