package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/lox/pokertable/internal/display"
	"github.com/lox/pokertable/internal/phh"
)

// PHHCmd prints hands exported with --phh-dir/--phh-db or the matching
// server settings.
type PHHCmd struct {
	Hands   []string `kong:"arg,optional,help='.phh files, or hand ids with --db'"`
	DB      string   `kong:"help='Read hands from this SQLite file or postgres:// URL'"`
	Table   string   `kong:"help='With --db and no hand ids, list this table'"`
	Limit   int      `kong:"default='20',help='Maximum hands to list with --table'"`
	Actions bool     `kong:"short='a',help='Also list every action'"`
	NoColor bool     `kong:"help='Disable coloured output'"`
}

func (c *PHHCmd) Run() error {
	hands, err := c.load(context.Background())
	if err != nil {
		return err
	}
	if len(hands) == 0 {
		return fmt.Errorf("no hands to show")
	}

	r := display.New(os.Stdout, !c.NoColor)
	for _, hand := range hands {
		fmt.Println(r.Styles().Header.Render(fmt.Sprintf("%s • %s • %d players", hand.HandID, hand.Variant, len(hand.Players))))
		fmt.Println(r.Table([]string{"Seat", "Player", "Blind", "Start", "Finish", "Won"}, phhRows(hand)))
		if c.Actions {
			for _, a := range hand.Actions {
				fmt.Println("  " + a)
			}
		}
	}
	return nil
}

func (c *PHHCmd) load(ctx context.Context) ([]*phh.HandHistory, error) {
	if c.DB == "" {
		var hands []*phh.HandHistory
		for _, name := range c.Hands {
			hand, err := readPHH(name)
			if err != nil {
				return nil, err
			}
			hands = append(hands, hand)
		}
		return hands, nil
	}

	store, err := phh.OpenStore(c.DB)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	ids := c.Hands
	if len(ids) == 0 {
		if c.Table == "" {
			return nil, fmt.Errorf("--db needs hand ids or --table")
		}
		if ids, err = store.HandIDs(ctx, c.Table, c.Limit); err != nil {
			return nil, err
		}
	}
	hands := make([]*phh.HandHistory, 0, len(ids))
	for _, id := range ids {
		hand, err := store.Hand(ctx, id)
		if err != nil {
			return nil, err
		}
		hands = append(hands, hand)
	}
	return hands, nil
}

func readPHH(name string) (*phh.HandHistory, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	hand, err := phh.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return hand, nil
}

func phhRows(hand *phh.HandHistory) [][]string {
	at := func(s []int, i int) string {
		if i < len(s) {
			return strconv.Itoa(s[i])
		}
		return "-"
	}
	won := func(s []int, i int) string {
		if i < len(s) && s[i] > 0 {
			return strconv.Itoa(s[i])
		}
		return ""
	}
	rows := make([][]string, 0, len(hand.Players))
	for i, p := range hand.Players {
		rows = append(rows, []string{
			"p" + strconv.Itoa(i+1),
			p,
			at(hand.BlindsOrStraddles, i),
			at(hand.StartingStacks, i),
			at(hand.FinishingStacks, i),
			won(hand.Winnings, i),
		})
	}
	return rows
}
