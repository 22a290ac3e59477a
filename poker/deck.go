package poker

import (
	"errors"
	rand "math/rand/v2"

	"github.com/lox/pokertable/internal/randutil"
)

// ErrDeckExhausted is returned when drawing from an empty deck.
var ErrDeckExhausted = errors.New("deck exhausted")

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// Deck is an ordered 52-card deck. Cards are drawn from the top.
type Deck struct {
	cards []Card
	next  int
	rng   *rand.Rand
}

// NewDeck builds the 52 cards in suit-major, rank-minor order and
// shuffles them when shuffle is set. A nil rng uses a time seeded source.
func NewDeck(rng *rand.Rand, shuffle bool) *Deck {
	if rng == nil {
		rng = randutil.NewTimeSeeded()
	}
	d := &Deck{
		cards: make([]Card, 0, DeckSize),
		rng:   rng,
	}
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, Card{Rank: rank, Suit: suit})
		}
	}
	if shuffle {
		d.Shuffle()
	}
	return d
}

// NewStackedDeck returns a deck that deals the given cards in order. Used to
// script hands in tests and replays.
func NewStackedDeck(cards []Card) *Deck {
	stacked := make([]Card, len(cards))
	for i, c := range cards {
		c.FaceUp = false
		stacked[i] = c
	}
	return &Deck{cards: stacked}
}

// Shuffle resets the draw position and shuffles every card using Fisher-Yates.
func (d *Deck) Shuffle() {
	d.next = 0
	if d.rng == nil {
		d.rng = randutil.NewTimeSeeded()
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if d.next >= len(d.cards) {
		return Card{}, ErrDeckExhausted
	}
	c := d.cards[d.next]
	d.next++
	return c, nil
}

// DrawN draws n cards. It fails without drawing anything if fewer than n
// remain.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if d.Remaining() < n {
		return nil, ErrDeckExhausted
	}
	out := make([]Card, n)
	copy(out, d.cards[d.next:d.next+n])
	d.next += n
	return out, nil
}

// Remaining returns the number of undrawn cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Cards returns a copy of the undrawn cards in draw order.
func (d *Deck) Cards() []Card {
	out := make([]Card, d.Remaining())
	copy(out, d.cards[d.next:])
	return out
}
