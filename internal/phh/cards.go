package phh

import (
	"strings"

	"github.com/lox/pokertable/poker"
)

// FormatCard converts a card to PHH notation: upper-case rank, lower-case
// suit, e.g. "Th".
func FormatCard(c poker.Card) string {
	return string(c.Rank.Letter()) + strings.ToLower(string(c.Suit.Letter()))
}

// FormatCards concatenates cards without separators, as PHH actions expect.
func FormatCards(cards []poker.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(FormatCard(c))
	}
	return b.String()
}

// ParseCards reads concatenated PHH cards such as "AhKd". Unknown cards
// ("??") are skipped.
func ParseCards(s string) ([]poker.Card, error) {
	var cards []poker.Card
	for i := 0; i+1 < len(s); i += 2 {
		name := s[i : i+2]
		if name == "??" {
			continue
		}
		c, err := poker.ParseCard(name)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
