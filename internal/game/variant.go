package game

import (
	"fmt"
	"strings"
)

// Variant identifies the poker game played at a table or in a round.
type Variant int

const (
	TexasHoldEm Variant = iota
	Omaha
	OmahaHiLo
	Chicago
	FiveCardDraw
	SevenCardStud
	DealersChoice
)

var variantNames = [...]string{
	"texas-holdem", "omaha", "omaha-hi-lo", "chicago", "five-card-draw", "seven-card-stud", "dealers-choice",
}

func (v Variant) String() string {
	if v >= 0 && int(v) < len(variantNames) {
		return variantNames[v]
	}
	return "unknown"
}

func (v Variant) valid() bool {
	return v >= TexasHoldEm && v <= DealersChoice
}

// ParseVariant accepts the canonical names plus a few loose spellings
// ("holdem", "stud", "draw").
func ParseVariant(s string) (Variant, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.NewReplacer("_", "-", " ", "-", "'", "").Replace(v)
	for i, name := range variantNames {
		if v == name || v == strings.ReplaceAll(name, "-", "") {
			return Variant(i), nil
		}
	}
	switch v {
	case "holdem", "hold-em", "texasholdem":
		return TexasHoldEm, nil
	case "stud", "7-card-stud":
		return SevenCardStud, nil
	case "draw", "5-card-draw":
		return FiveCardDraw, nil
	case "hi-lo", "omaha-8":
		return OmahaHiLo, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidVariant, s)
}

func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Variant) UnmarshalText(b []byte) error {
	parsed, err := ParseVariant(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// SelectableVariants are the variants a dealer may pick under Dealer's Choice.
var SelectableVariants = []Variant{TexasHoldEm, Omaha, OmahaHiLo, FiveCardDraw, SevenCardStud, Chicago}

// MaxSeats is the most players v deals to. Stud deals seven cards each with
// no burns, so eight players cannot reach seventh street; draw stops at six
// so most draws can be replaced. Dealer's Choice takes the smallest limit of
// the variants a dealer may pick.
func (v Variant) MaxSeats() int {
	switch v {
	case SevenCardStud:
		return 7
	case FiveCardDraw:
		return 6
	case DealersChoice:
		limit := 10
		for _, s := range SelectableVariants {
			limit = min(limit, s.MaxSeats())
		}
		return limit
	}
	return 10
}

func selectable(v Variant) bool {
	for _, s := range SelectableVariants {
		if s == v {
			return true
		}
	}
	return false
}

func (v Variant) usesCommunityCards() bool {
	switch v {
	case FiveCardDraw, SevenCardStud:
		return false
	}
	return true
}

func (v Variant) holeCards() int {
	switch v {
	case Omaha, OmahaHiLo:
		return 4
	case FiveCardDraw:
		return 5
	case SevenCardStud:
		return 3
	}
	return 2
}

// Phase is a step of the round state machine.
type Phase int

const (
	Waiting Phase = iota
	Preflop
	Flop
	Turn
	River
	Predraw
	Draw
	ThirdStreet
	FourthStreet
	FifthStreet
	SixthStreet
	SeventhStreet
	Showdown
)

var phaseNames = [...]string{
	"waiting", "preflop", "flop", "turn", "river", "predraw", "draw",
	"thirdstreet", "fourthstreet", "fifthstreet", "sixthstreet", "seventhstreet", "showdown",
}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if string(b) == name {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

var (
	communityOrder = []Phase{Waiting, Preflop, Flop, Turn, River, Showdown}
	drawOrder      = []Phase{Waiting, Predraw, Draw, Showdown}
	studOrder      = []Phase{Waiting, ThirdStreet, FourthStreet, FifthStreet, SixthStreet, SeventhStreet, Showdown}
)

// PhaseOrder returns the phase sequence for a variant. Dealer's Choice has
// no order of its own until a variant is selected, so it reports waiting
// and showdown only.
func PhaseOrder(v Variant) []Phase {
	switch v {
	case TexasHoldEm, Omaha, OmahaHiLo, Chicago:
		return communityOrder
	case FiveCardDraw:
		return drawOrder
	case SevenCardStud:
		return studOrder
	}
	return []Phase{Waiting, Showdown}
}

func indexOfPhase(order []Phase, p Phase) int {
	for i, x := range order {
		if x == p {
			return i
		}
	}
	return -1
}
