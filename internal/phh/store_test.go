package phh

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHand(id, table string, at time.Time) *HandHistory {
	return &HandHistory{
		Variant:           "NT",
		Table:             table,
		HandID:            id,
		Players:           []string{"bob", "alice"},
		Antes:             []int{0, 0},
		BlindsOrStraddles: []int{5, 10},
		MinBet:            10,
		StartingStacks:    []int{1000, 1000},
		FinishingStacks:   []int{995, 1005},
		Actions:           []string{"d dh p1 AsKs", "d dh p2 2c2d", "p1 f"},
		Timestamp:         at,
	}
}

func TestStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, err := OpenStore(filepath.Join(t.TempDir(), "db", "hands.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, s.WriteHand(sampleHand("main-2", "main", base.Add(time.Second))))
	require.NoError(t, s.WriteHand(sampleHand("main-1", "main", base)))
	require.NoError(t, s.WriteHand(sampleHand("side-1", "side", base)))

	ids, err := s.HandIDs(ctx, "main", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"main-1", "main-2"}, ids)

	ids, err = s.HandIDs(ctx, "main", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"main-1"}, ids)

	h, err := s.Hand(ctx, "main-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"d dh p1 AsKs", "d dh p2 2c2d", "p1 f"}, h.Actions)
	assert.Equal(t, []int{995, 1005}, h.FinishingStacks)

	updated := sampleHand("main-2", "main", base.Add(time.Second))
	updated.Actions = []string{"p1 f"}
	require.NoError(t, s.WriteHand(updated))
	h, err = s.Hand(ctx, "main-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1 f"}, h.Actions)

	_, err = s.Hand(ctx, "main-9")
	assert.ErrorIs(t, err, ErrHandNotFound)
}

func TestOpenStoreErrors(t *testing.T) {
	t.Parallel()
	_, err := OpenStore("  ")
	assert.Error(t, err)
}

func TestBind(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a = ? AND b = ?", (&Store{}).bind("a = ? AND b = ?"))
	assert.Equal(t, "a = $1 AND b = $2", (&Store{postgres: true}).bind("a = ? AND b = ?"))
}

func TestMultiSink(t *testing.T) {
	t.Parallel()
	ok := &memorySink{}
	failing := &memorySink{err: errors.New("offline")}
	err := MultiSink{failing, ok}.WriteHand(sampleHand("t-1", "t", time.Now()))
	assert.ErrorContains(t, err, "offline")
	assert.Len(t, ok.hands, 1, "later sinks still receive the hand")
}
