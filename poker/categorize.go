package poker

// HoleCardCategory is a coarse preflop strength bucket for two hole cards.
type HoleCardCategory string

const (
	HolePremium HoleCardCategory = "Premium"
	HoleStrong  HoleCardCategory = "Strong"
	HoleMedium  HoleCardCategory = "Medium"
	HoleWeak    HoleCardCategory = "Weak"
	HoleTrash   HoleCardCategory = "Trash"
	HoleUnknown HoleCardCategory = "Unknown"
)

// CategorizeHoleCards provides a simple preflop hand categorization.
// Categories: Premium (JJ+, AK), Strong (TT, AQ/AJ), Medium (77+, suited broadway),
// Weak (small pairs, suited connectors), Trash (everything else).
func CategorizeHoleCards(card1, card2 Card) HoleCardCategory {
	if !card1.Rank.Valid() || !card2.Rank.Valid() || card1.Rank == Wild || card2.Rank == Wild {
		return HoleUnknown
	}

	small, big := card1.Rank.Value(), card2.Rank.Value()
	if small > big {
		small, big = big, small
	}
	suited := card1.Suit == card2.Suit
	pair := small == big

	switch {
	case pair && small >= 11, small == 13 && big == 14:
		return HolePremium
	case pair && small == 10, big == 14 && (small == 12 || small == 11):
		return HoleStrong
	case pair && small >= 7, suited && small >= 10:
		return HoleMedium
	case pair, suited && big-small <= 2:
		return HoleWeak
	}
	return HoleTrash
}

// CategorizeHoles buckets a larger starting hand (Omaha, stud) by its best
// two-card combination.
func CategorizeHoles(cards []Card) HoleCardCategory {
	if len(cards) < 2 {
		return HoleUnknown
	}
	best := HoleUnknown
	for i := 0; i < len(cards); i++ {
		for j := i + 1; j < len(cards); j++ {
			if c := CategorizeHoleCards(cards[i], cards[j]); c.stronger(best) {
				best = c
			}
		}
	}
	return best
}

var holeOrder = map[HoleCardCategory]int{
	HoleUnknown: 0, HoleTrash: 1, HoleWeak: 2, HoleMedium: 3, HoleStrong: 4, HolePremium: 5,
}

func (c HoleCardCategory) stronger(o HoleCardCategory) bool {
	return holeOrder[c] > holeOrder[o]
}
