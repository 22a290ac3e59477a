package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lox/pokertable/internal/display"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/poker"
)

// EvalCmd evaluates a hand from the command line.
type EvalCmd struct {
	Cards   []string `kong:"arg,help='Hole cards, e.g. AS KD (or a full hand without --board)'"`
	Board   string   `kong:"help='Community cards, space or comma separated'"`
	Variant string   `kong:"default='texas-holdem',help='Variant rules for combining hole and board cards'"`
	NoColor bool     `kong:"help='Disable coloured output'"`
}

func (c *EvalCmd) Run() error {
	variant, err := game.ParseVariant(c.Variant)
	if err != nil {
		return err
	}
	hole, err := parseCards(strings.Join(c.Cards, " "))
	if err != nil {
		return err
	}
	board, err := parseCards(c.Board)
	if err != nil {
		return err
	}
	if len(hole)+len(board) < 5 {
		return fmt.Errorf("need at least 5 cards, got %d", len(hole)+len(board))
	}

	r := display.New(os.Stdout, !c.NoColor)
	fmt.Println(r.HandResult(append(append([]poker.Card(nil), hole...), board...), game.BestHand(hole, board, variant)))
	if variant == game.OmahaHiLo {
		low := poker.EvaluateOmahaLow(hole, board)
		if low.Qualified {
			fmt.Println("Low:", low.Description)
		} else {
			fmt.Println("Low: no qualifying low")
		}
	}
	return nil
}

func parseCards(s string) ([]poker.Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	cards := make([]poker.Card, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		card, err := poker.ParseCard(f)
		if err != nil {
			return nil, err
		}
		if seen[card.String()] {
			return nil, fmt.Errorf("duplicate card %s", card)
		}
		seen[card.String()] = true
		cards = append(cards, card)
	}
	return cards, nil
}
