package poker

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidRank = errors.New("invalid rank")
	ErrInvalidSuit = errors.New("invalid suit")
	ErrInvalidCard = errors.New("invalid card")
)

// Suit represents a card suit. The numeric order is also the house
// tie-break order used when comparing single cards (spades highest).
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

var suitNames = [...]string{"clubs", "diamonds", "hearts", "spades"}

const suitLetters = "CDHS"

func (s Suit) String() string {
	if int(s) < len(suitNames) {
		return suitNames[s]
	}
	return "unknown"
}

// Letter returns the single upper-case letter used in card names.
func (s Suit) Letter() byte {
	if int(s) < len(suitLetters) {
		return suitLetters[s]
	}
	return '?'
}

// ParseSuit accepts a full suit name ("spades") or its letter ("S").
func ParseSuit(s string) (Suit, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for i, name := range suitNames {
		if v == name || v == name[:len(name)-1] || (len(v) == 1 && v[0] == name[0]) {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSuit, s)
}

// Rank represents a card rank. Two through Ace carry their pip value,
// Wild sits outside the standard range and is never produced by NewDeck.
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
	Wild Rank = 100
)

var rankNames = map[Rank]string{
	Two: "two", Three: "three", Four: "four", Five: "five", Six: "six",
	Seven: "seven", Eight: "eight", Nine: "nine", Ten: "ten", Jack: "jack",
	Queen: "queen", King: "king", Ace: "ace", Wild: "wild",
}

var rankPlurals = map[Rank]string{
	Two: "Twos", Three: "Threes", Four: "Fours", Five: "Fives", Six: "Sixes",
	Seven: "Sevens", Eight: "Eights", Nine: "Nines", Ten: "Tens", Jack: "Jacks",
	Queen: "Queens", King: "Kings", Ace: "Aces",
}

// Value returns the numeric rank value: 2..14, or 100 for Wild.
func (r Rank) Value() int {
	return int(r)
}

// Valid reports whether r is a standard rank or Wild.
func (r Rank) Valid() bool {
	_, ok := rankNames[r]
	return ok
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "unknown"
}

// Letter returns the single character used in card names.
func (r Rank) Letter() byte {
	switch {
	case r >= Two && r <= Nine:
		return byte('0' + r)
	case r == Ten:
		return 'T'
	case r == Jack:
		return 'J'
	case r == Queen:
		return 'Q'
	case r == King:
		return 'K'
	case r == Ace:
		return 'A'
	case r == Wild:
		return 'W'
	}
	return '?'
}

func (r Rank) title() string {
	name := r.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

func (r Rank) plural() string {
	if p, ok := rankPlurals[r]; ok {
		return p
	}
	return r.title() + "s"
}

// ParseRank accepts a full rank name ("queen"), a letter ("Q", "T") or
// a number ("10", "7").
func ParseRank(s string) (Rank, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "10" {
		return Ten, nil
	}
	for r, name := range rankNames {
		if v == name {
			return r, nil
		}
	}
	if len(v) == 1 {
		for r := range rankNames {
			if strings.ToLower(string(r.Letter())) == v {
				return r, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRank, s)
}

// Card is an immutable playing card. FaceUp marks cards dealt exposed
// (stud up-cards, the Chicago final hole card).
type Card struct {
	Rank   Rank
	Suit   Suit
	FaceUp bool
}

// NewCard builds a card from rank and suit strings.
func NewCard(rank, suit string, faceUp bool) (Card, error) {
	r, err := ParseRank(rank)
	if err != nil {
		return Card{}, err
	}
	s, err := ParseSuit(suit)
	if err != nil {
		return Card{}, err
	}
	return Card{Rank: r, Suit: s, FaceUp: faceUp}, nil
}

// ParseCard parses a canonical two-character card name such as "AS" or "td".
func ParseCard(name string) (Card, error) {
	n := strings.TrimSpace(name)
	if len(n) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, name)
	}
	return NewCard(n[:1], n[1:], false)
}

// MustParseCards parses a space separated list of card names and panics on
// error. Intended for tests and fixtures.
func MustParseCards(s string) []Card {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			panic(err)
		}
		cards = append(cards, c)
	}
	return cards
}

// String returns the canonical two-character name, e.g. "AS".
func (c Card) String() string {
	return string([]byte{c.Rank.Letter(), c.Suit.Letter()})
}

// Same reports whether two cards have the same rank and suit, ignoring
// exposure.
func (c Card) Same(o Card) bool {
	return c.Rank == o.Rank && c.Suit == o.Suit
}

// Beats reports whether c outranks o as a single card, breaking rank ties by
// suit (spades > hearts > diamonds > clubs).
func (c Card) Beats(o Card) bool {
	if c.Rank != o.Rank {
		return c.Rank > o.Rank
	}
	return c.Suit > o.Suit
}

// Up returns a face-up copy of the card.
func (c Card) Up() Card {
	c.FaceUp = true
	return c
}

type cardJSON struct {
	Name      string `json:"name"`
	Rank      string `json:"rank"`
	Suit      string `json:"suit"`
	RankValue int    `json:"rank_value"`
	FaceUp    bool   `json:"face_up"`
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{
		Name:      c.String(),
		Rank:      c.Rank.String(),
		Suit:      c.Suit.String(),
		RankValue: c.Rank.Value(),
		FaceUp:    c.FaceUp,
	})
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var v cardJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseCard(v.Name)
	if err != nil {
		return err
	}
	parsed.FaceUp = v.FaceUp
	*c = parsed
	return nil
}

// FormatCards joins card names with spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
