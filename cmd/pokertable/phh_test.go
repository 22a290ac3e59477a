package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/internal/phh"
)

func TestReadPHH(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	hand := &phh.HandHistory{
		Variant:           "NT",
		HandID:            "main-4",
		Players:           []string{"bob", "alice"},
		Antes:             []int{0, 0},
		BlindsOrStraddles: []int{5, 10},
		MinBet:            10,
		StartingStacks:    []int{500, 500},
		FinishingStacks:   []int{495, 505},
		Winnings:          []int{0, 15},
		Actions:           []string{"d dh p1 AsKs", "d dh p2 2c2d", "p1 f"},
	}
	require.NoError(t, phh.NewDirSink(dir).WriteHand(hand))

	got, err := readPHH(filepath.Join(dir, "main-4.phh"))
	require.NoError(t, err)
	assert.Equal(t, hand.Actions, got.Actions)
	assert.Equal(t, [][]string{
		{"p1", "bob", "5", "500", "495", ""},
		{"p2", "alice", "10", "500", "505", "15"},
	}, phhRows(got))

	bad := filepath.Join(dir, "bad.phh")
	require.NoError(t, os.WriteFile(bad, []byte("variant = ["), 0o644))
	_, err = readPHH(bad)
	assert.ErrorContains(t, err, "bad.phh")
}

func TestPHHCmdLoadFromDatabase(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := filepath.Join(t.TempDir(), "hands.db")
	store, err := phh.OpenStore(db)
	require.NoError(t, err)
	for _, id := range []string{"main-1", "main-2"} {
		require.NoError(t, store.WriteHand(&phh.HandHistory{
			Variant: "NT", Table: "main", HandID: id,
			Players: []string{"a", "b"}, Actions: []string{"p1 f"},
		}))
	}
	require.NoError(t, store.Close())

	hands, err := (&PHHCmd{DB: db, Table: "main"}).load(ctx)
	require.NoError(t, err)
	require.Len(t, hands, 2)

	hands, err = (&PHHCmd{DB: db, Hands: []string{"main-2"}}).load(ctx)
	require.NoError(t, err)
	require.Len(t, hands, 1)
	assert.Equal(t, "main-2", hands[0].HandID)

	_, err = (&PHHCmd{DB: db}).load(ctx)
	assert.ErrorContains(t, err, "--table")

	_, err = (&PHHCmd{DB: db, Hands: []string{"main-9"}}).load(ctx)
	assert.ErrorIs(t, err, phh.ErrHandNotFound)
}
