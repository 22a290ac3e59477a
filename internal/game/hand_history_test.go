package game

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/poker"
)

type memoryWriter struct {
	mu    sync.Mutex
	hands map[string]string
	err   error
}

func (w *memoryWriter) WriteHandHistory(handID, content string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	if w.hands == nil {
		w.hands = make(map[string]string)
	}
	w.hands[handID] = content
	return nil
}

// playFoldedRound deals a round in which the given players fold in turn.
func playFoldedRound(t *testing.T, g *Game, hh *HandHistory, folders ...string) {
	t.Helper()
	require.NoError(t, hh.Record(startRound(t, g)))
	for _, id := range folders {
		require.NoError(t, hh.Record(act(t, g, id, Fold)))
	}
}

func TestHandHistoryRecordsRound(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, TexasHoldEm, WithStackedDecks(stacked("2C 3C 4C 2D 3D 4D")))
	seatPlayers(t, g, 1000, "p1", "p2", "p3")

	w := &memoryWriter{}
	hh := NewHandHistory("table1", w, quartz.NewMock(t), FormattingOptions{Names: map[string]string{"p3": "Carol"}})
	playFoldedRound(t, g, hh, "p1", "p2")

	require.Contains(t, w.hands, "table1-1")
	lines := strings.Split(strings.TrimSpace(w.hands["table1-1"]), "\n")
	assert.Equal(t, "=== HAND table1-1 ===", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Date: "))
	assert.Equal(t, "=== END HAND ===", lines[len(lines)-1])

	text := w.hands["table1-1"]
	for _, want := range []string{
		"=== Round 1 • texas-holdem • dealer p1 ===",
		"Dealt to p1: [4C 4D]",
		"Dealt to Carol: [3C 3D]",
		"p2: posts small blind 5",
		"Carol: posts big blind 10",
		"p1: folds",
		"Carol 15 collects main pot",
		"=== Round 1 complete ===",
	} {
		assert.Contains(t, text, want)
	}

	playFoldedRound(t, g, hh, "p2", "p3")
	assert.Len(t, w.hands, 2)
	assert.Contains(t, w.hands, "table1-2")
}

func TestHandHistoryRecordsFailedRound(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, TexasHoldEm, WithStackedDecks(poker.MustParseCards("AS KS QS JS")))
	seatPlayers(t, g, 1000, "p1", "p2")

	w := &memoryWriter{}
	hh := NewHandHistory("t", w, nil, FormattingOptions{})
	require.NoError(t, hh.Record(startRound(t, g)))
	require.NoError(t, hh.Record(act(t, g, "p2", Call)))

	events, err := g.ApplyAction("p1", Action{Kind: Check})
	require.ErrorIs(t, err, ErrDeckExhausted)
	require.NoError(t, hh.Record(events))
	assert.Contains(t, w.hands["t-1"], "Round 1 failed")
}

func TestHandHistoryWriterError(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, TexasHoldEm)
	seatPlayers(t, g, 1000, "p1", "p2", "p3")

	w := &memoryWriter{err: errors.New("disk full")}
	hh := NewHandHistory("t", w, nil, FormattingOptions{})
	require.NoError(t, hh.Record(startRound(t, g)))
	require.NoError(t, hh.Record(act(t, g, "p1", Fold)))
	err := hh.Record(act(t, g, "p2", Fold))
	assert.ErrorContains(t, err, "disk full")
}

func TestFileHandHistoryWriter(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "history")
	w := NewFileHandHistoryWriter(dir)

	require.NoError(t, w.WriteHandHistory("abc-1", "hello\n"))
	data, err := os.ReadFile(filepath.Join(dir, "hand_abc-1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))

	require.NoError(t, w.WriteHandHistory("abc-1", "replaced\n"))
	data, err = os.ReadFile(filepath.Join(dir, "hand_abc-1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "replaced\n", string(data))

	assert.NoError(t, NoOpHandHistoryWriter{}.WriteHandHistory("x", "y"))
}
