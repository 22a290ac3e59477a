package phh

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/coder/quartz"

	"github.com/lox/pokertable/internal/fileutil"
	"github.com/lox/pokertable/internal/game"
)

// Sink receives each finished hand.
type Sink interface {
	WriteHand(hand *HandHistory) error
}

// DirSink writes one <hand>.phh file per hand into a directory.
type DirSink struct {
	dir string
}

// NewDirSink creates a sink rooted at dir. The directory is created on the
// first write.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

// WriteHand encodes the hand and writes it atomically.
func (s *DirSink) WriteHand(hand *HandHistory) error {
	data, err := EncodeToBytes(hand)
	if err != nil {
		return err
	}
	name := filepath.Join(s.dir, hand.HandID+".phh")
	if err := fileutil.WriteFileAtomic(name, data, 0o644); err != nil {
		return fmt.Errorf("phh: write %s: %w", name, err)
	}
	return nil
}

var variantCodes = map[game.Variant]string{
	game.TexasHoldEm:   "NT",
	game.Omaha:         "PO",
	game.OmahaHiLo:     "FO/8",
	game.FiveCardDraw:  "F5CD",
	game.SevenCardStud: "F7S",
}

// VariantCode maps a round variant to its PHH code. Variants PHH has no code
// for use their own name.
func VariantCode(v game.Variant) string {
	if code, ok := variantCodes[v]; ok {
		return code
	}
	return v.String()
}

// Recorder folds a table's event stream into PHH hands. Like
// game.HandHistory it may be fed from request handlers and Subscribe at once.
type Recorder struct {
	mu      sync.Mutex
	tableID string
	sink    Sink
	clock   quartz.Clock

	hand *builder
}

// NewRecorder creates a recorder for tableID. A nil clock uses the real clock.
func NewRecorder(tableID string, sink Sink, clock quartz.Clock) *Recorder {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Recorder{tableID: tableID, sink: sink, clock: clock}
}

// Record consumes events, writing a hand whenever a round ends. Failed rounds
// are dropped since they never settle.
func (r *Recorder) Record(events []game.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, e := range events {
		switch e := e.(type) {
		case game.RoundStartedEvent:
			r.hand = newBuilder(r.tableID, e, r.clock)
		case game.RoundFailedEvent:
			r.hand = nil
		case game.RoundEndedEvent:
			if r.hand == nil {
				continue
			}
			hand := r.hand.finish(e)
			r.hand = nil
			if err := r.sink.WriteHand(hand); err != nil {
				errs = append(errs, err)
			}
		default:
			if r.hand != nil {
				r.hand.add(e)
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("recording phh: %w", errs[0])
	}
	return nil
}

type builder struct {
	hand    *HandHistory
	index   map[string]int
	blinds  map[string]int
	paid    map[string]int
	won     map[string]int
	street  map[string]int
	players []string
}

func newBuilder(tableID string, e game.RoundStartedEvent, clock quartz.Clock) *builder {
	now := clock.Now().UTC()
	return &builder{
		hand: &HandHistory{
			Variant:   VariantCode(e.Variant),
			Table:     tableID,
			HandID:    fmt.Sprintf("%s-%d", tableID, e.Round),
			MinBet:    0,
			Time:      now.Format("15:04:05"),
			TimeZone:  "UTC",
			Day:       now.Day(),
			Month:     int(now.Month()),
			Year:      now.Year(),
			Timestamp: now,
			Metadata: map[string]any{
				"variant": e.Variant.String(),
				"round":   e.Round,
				"dealer":  e.DealerID,
			},
		},
		index:  make(map[string]int),
		blinds: make(map[string]int),
		paid:   make(map[string]int),
		won:    make(map[string]int),
		street: make(map[string]int),
	}
}

// seat returns the PHH label ("p1", "p2", ...) for a player, assigning one on
// first sight. Hole cards are dealt before blinds, so labels follow deal order.
func (b *builder) seat(id string) string {
	i, ok := b.index[id]
	if !ok {
		b.players = append(b.players, id)
		i = len(b.players)
		b.index[id] = i
	}
	return fmt.Sprintf("p%d", i)
}

func (b *builder) action(format string, args ...any) {
	b.hand.Actions = append(b.hand.Actions, fmt.Sprintf(format, args...))
}

func (b *builder) add(e game.Event) {
	switch e := e.(type) {
	case game.CardsDealtEvent:
		if e.PlayerID == "" {
			b.action("d db %s", FormatCards(e.Cards))
			return
		}
		b.action("d dh %s %s", b.seat(e.PlayerID), FormatCards(e.Cards))
	case game.CardsDiscardedEvent:
		if e.Count == 0 {
			b.action("%s sd", b.seat(e.PlayerID))
			return
		}
		b.action("%s sd %s", b.seat(e.PlayerID), strings.Repeat("??", e.Count))
	case game.BlindPostedEvent:
		b.seat(e.PlayerID)
		b.blinds[e.PlayerID] += e.Amount
		b.paid[e.PlayerID] += e.Amount
		b.street[e.PlayerID] += e.Amount
		if e.Big {
			b.hand.MinBet = e.Amount
		}
	case game.PlayerActedEvent:
		p := b.seat(e.PlayerID)
		b.paid[e.PlayerID] += e.Amount
		b.street[e.PlayerID] += e.Amount
		switch e.Action {
		case game.Fold:
			b.action("%s f", p)
		case game.Check, game.Call:
			b.action("%s cc", p)
		case game.Bet, game.Raise:
			b.action("%s cbr %d", p, b.street[e.PlayerID])
		}
	case game.PhaseChangedEvent:
		clear(b.street)
	case game.ShowdownEvent:
		for _, h := range e.Hands {
			b.action("%s sm %s", b.seat(h.PlayerID), FormatCards(h.Cards))
		}
	case game.PotAwardedEvent:
		for id, share := range e.Shares {
			b.won[id] += share
		}
	}
}

func (b *builder) finish(e game.RoundEndedEvent) *HandHistory {
	h := b.hand
	n := len(b.players)
	h.Players = b.players
	h.SeatCount = n
	h.Seats = make([]int, n)
	h.Antes = make([]int, n)
	h.BlindsOrStraddles = make([]int, n)
	h.StartingStacks = make([]int, n)
	h.FinishingStacks = make([]int, n)
	h.Winnings = make([]int, n)
	for i, id := range b.players {
		final := e.Chips[id]
		h.Seats[i] = i + 1
		h.BlindsOrStraddles[i] = b.blinds[id]
		h.FinishingStacks[i] = final
		h.Winnings[i] = b.won[id]
		h.StartingStacks[i] = final + b.paid[id] - b.won[id]
	}
	if h.Actions == nil {
		h.Actions = []string{}
	}
	return h
}
