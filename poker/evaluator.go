package poker

import (
	"fmt"
	"sort"
	"strings"
)

// HandCategory enumerates hand classes from weakest to strongest. Zero is
// reserved for an empty hand.
type HandCategory int

const (
	CategoryEmpty HandCategory = iota
	CategoryHighCard
	CategoryPair
	CategoryTwoPair
	CategoryThreeOfAKind
	CategoryStraight
	CategoryFlush
	CategoryFullHouse
	CategoryFourOfAKind
	CategoryStraightFlush
	CategoryRoyalFlush
)

var categoryNames = [...]string{
	"Empty Hand", "High Card", "Pair", "Two Pair", "Three of a Kind", "Straight",
	"Flush", "Full House", "Four of a Kind", "Straight Flush", "Royal Flush",
}

func (c HandCategory) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Unknown"
}

// HandResult is the outcome of evaluating a set of cards. Higher Score
// always wins. The integer part is the category; the fractional part encodes
// the deciding ranks (rank/100, then rank/10^4, then rank/10^6).
type HandResult struct {
	Category    HandCategory `json:"category"`
	Score       float64      `json:"score"`
	Description string       `json:"description"`
}

// Compare returns 1 if a beats b, -1 if b beats a and 0 on a tie. Scores are
// built from integers and compared exactly.
func Compare(a, b HandResult) int {
	switch {
	case a.Score > b.Score:
		return 1
	case a.Score < b.Score:
		return -1
	}
	return 0
}

type rankCount struct {
	rank  Rank
	count int
}

// Evaluate ranks 5 to 7 cards using a rank histogram. Wild cards are
// ignored.
func Evaluate(cards []Card) HandResult {
	if len(cards) == 0 {
		return HandResult{Category: CategoryEmpty, Description: CategoryEmpty.String()}
	}

	var counts [Ace + 1]int
	var present [Ace + 1]bool
	var suitCounts [4]int
	var suitPresent [4][Ace + 1]bool
	for _, c := range cards {
		if c.Rank < Two || c.Rank > Ace || c.Suit > Spades {
			continue
		}
		counts[c.Rank]++
		present[c.Rank] = true
		suitCounts[c.Suit]++
		suitPresent[c.Suit][c.Rank] = true
	}

	groups := make([]rankCount, 0, 7)
	for r := Ace; r >= Two; r-- {
		if counts[r] > 0 {
			groups = append(groups, rankCount{rank: r, count: counts[r]})
		}
	}
	if len(groups) == 0 {
		return HandResult{Category: CategoryEmpty, Description: CategoryEmpty.String()}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	flushSuit := -1
	for s, n := range suitCounts {
		if n >= 5 {
			flushSuit = s
			break
		}
	}
	straightHigh := straightHighCard(present)

	if flushSuit >= 0 {
		suit := Suit(flushSuit)
		if sf := straightHighCard(suitPresent[flushSuit]); sf > 0 {
			if sf == Ace {
				return result(CategoryRoyalFlush, "Royal Flush of "+suit.title())
			}
			return result(CategoryStraightFlush,
				fmt.Sprintf("%s-high Straight Flush of %s", sf.title(), suit.title()), sf)
		}
	}

	top := groups[0]
	switch {
	case top.count >= 4:
		kick := highest(present, 1, top.rank)
		return result(CategoryFourOfAKind, "Four of a Kind, "+top.rank.plural(), append([]Rank{top.rank}, kick...)...)
	case top.count == 3 && fullHousePair(groups) > 0:
		pair := fullHousePair(groups)
		return result(CategoryFullHouse,
			fmt.Sprintf("Full House, %s over %s", top.rank.plural(), pair.plural()),
			top.rank, pair)
	case flushSuit >= 0:
		suit := Suit(flushSuit)
		ranks := highest(suitPresent[flushSuit], 3)
		return result(CategoryFlush,
			fmt.Sprintf("%s-high Flush of %s", ranks[0].title(), suit.title()), ranks...)
	case straightHigh > 0:
		return result(CategoryStraight, straightHigh.title()+"-high Straight", straightHigh)
	case top.count == 3:
		kick := highest(present, 2, top.rank)
		return result(CategoryThreeOfAKind, "Three of a Kind, "+top.rank.plural(), append([]Rank{top.rank}, kick...)...)
	case top.count == 2 && len(groups) > 1 && groups[1].count == 2:
		hi, lo := top.rank, groups[1].rank
		kick := highest(present, 1, hi, lo)
		return result(CategoryTwoPair,
			fmt.Sprintf("Two Pair, %s and %s", hi.plural(), lo.plural()),
			append([]Rank{hi, lo}, kick...)...)
	case top.count == 2:
		kick := highest(present, 2, top.rank)
		return result(CategoryPair, "Pair of "+top.rank.plural(), append([]Rank{top.rank}, kick...)...)
	}

	ranks := highest(present, 3)
	return result(CategoryHighCard, ranks[0].title()+" High", ranks...)
}

// EvaluateOmaha returns the best hand using exactly two hole cards and three
// board cards. With fewer cards available it evaluates everything together.
func EvaluateOmaha(hole, board []Card) HandResult {
	if len(hole) < 2 || len(board) < 3 {
		all := make([]Card, 0, len(hole)+len(board))
		all = append(append(all, hole...), board...)
		return Evaluate(all)
	}
	var best HandResult
	five := make([]Card, 5)
	for i := 0; i < len(hole); i++ {
		for j := i + 1; j < len(hole); j++ {
			five[0], five[1] = hole[i], hole[j]
			for a := 0; a < len(board); a++ {
				for b := a + 1; b < len(board); b++ {
					for c := b + 1; c < len(board); c++ {
						five[2], five[3], five[4] = board[a], board[b], board[c]
						if r := Evaluate(five); r.Score > best.Score {
							best = r
						}
					}
				}
			}
		}
	}
	return best
}

// LowResult is an ace-to-five eight-or-better low. Lower Value wins;
// Qualified is false when no five distinct ranks of eight or lower exist.
type LowResult struct {
	Qualified   bool   `json:"qualified"`
	Value       int    `json:"value"`
	Description string `json:"description"`
}

// EvaluateOmahaLow finds the best qualifying low using two hole and three
// board cards.
func EvaluateOmahaLow(hole, board []Card) LowResult {
	best := LowResult{}
	if len(hole) < 2 || len(board) < 3 {
		return best
	}
	five := make([]Card, 5)
	for i := 0; i < len(hole); i++ {
		for j := i + 1; j < len(hole); j++ {
			five[0], five[1] = hole[i], hole[j]
			for a := 0; a < len(board); a++ {
				for b := a + 1; b < len(board); b++ {
					for c := b + 1; c < len(board); c++ {
						five[2], five[3], five[4] = board[a], board[b], board[c]
						r := evaluateLow(five)
						if r.Qualified && (!best.Qualified || r.Value < best.Value) {
							best = r
						}
					}
				}
			}
		}
	}
	return best
}

func evaluateLow(five []Card) LowResult {
	seen := make(map[int]bool, 5)
	vals := make([]int, 0, 5)
	for _, c := range five {
		v := int(c.Rank)
		if c.Rank == Ace {
			v = 1
		}
		if v > 8 || seen[v] {
			return LowResult{}
		}
		seen[v] = true
		vals = append(vals, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(vals)))
	value := 0
	parts := make([]string, len(vals))
	for i, v := range vals {
		value = value*16 + v
		if v == 1 {
			parts[i] = "A"
		} else {
			parts[i] = fmt.Sprintf("%d", v)
		}
	}
	return LowResult{Qualified: true, Value: value, Description: strings.Join(parts, "-") + " low"}
}

// straightHighCard returns the top rank of the best five-card run, Five for
// the wheel, or 0.
func straightHighCard(present [Ace + 1]bool) Rank {
	for high := Ace; high >= Six; high-- {
		run := true
		for r := high - 4; r <= high; r++ {
			if !present[r] {
				run = false
				break
			}
		}
		if run {
			return high
		}
	}
	if present[Ace] && present[Two] && present[Three] && present[Four] && present[Five] {
		return Five
	}
	return 0
}

// fullHousePair returns the best rank other than the trips that has at
// least two cards, or 0.
func fullHousePair(groups []rankCount) Rank {
	var best Rank
	for _, g := range groups[1:] {
		if g.count >= 2 && g.rank > best {
			best = g.rank
		}
	}
	return best
}

// highest returns up to n present ranks in descending order, skipping the
// excluded ones.
func highest(present [Ace + 1]bool, n int, exclude ...Rank) []Rank {
	out := make([]Rank, 0, n)
	for r := Ace; r >= Two && len(out) < n; r-- {
		if !present[r] || containsRank(exclude, r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func containsRank(ranks []Rank, r Rank) bool {
	for _, x := range ranks {
		if x == r {
			return true
		}
	}
	return false
}

func result(cat HandCategory, desc string, deciding ...Rank) HandResult {
	value := int64(cat) * 100_000_000
	scale := int64(1_000_000)
	for i := 0; i < len(deciding) && i < 3; i++ {
		value += int64(deciding[i]) * scale
		scale /= 100
	}
	return HandResult{
		Category:    cat,
		Score:       float64(value) / 100_000_000,
		Description: desc,
	}
}

func (s Suit) title() string {
	name := s.String()
	return strings.ToUpper(name[:1]) + name[1:]
}
