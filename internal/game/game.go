package game

import (
	"fmt"
	rand "math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/pokertable/internal/randutil"
	"github.com/lox/pokertable/poker"
)

// Game is the aggregate root for one table. It owns its players, deck and
// pots. Every exported method holds mu for its whole duration, so a Game
// behaves as a single actor; separate Games share nothing.
type Game struct {
	mu sync.Mutex

	id      string
	players []*Player // sorted by seat

	dealerIndex     int
	dealerSeat      int // seat holding the button, 0 before the first round
	smallBlindIndex int
	bigBlindIndex   int
	dealerID        string
	smallBlindID    string
	bigBlindID      string

	pot        int
	sidepots   []Sidepot
	ineligible []string

	deck           *poker.Deck
	communityCards []poker.Card
	burnPile       []poker.Card

	activePlayerIndex int
	activePlayerID    string
	currentBet        int
	minRaise          int

	variant      Variant // table variant
	roundVariant Variant // variant in play this round
	phase        Phase
	phaseOrder   []Phase
	roundCount   int

	dealerSelectedVariant  Variant
	hasDealerSelection     bool
	variantSelectionActive bool
	nextRoundVariant       Variant
	hasNextRoundVariant    bool
	selectionTimer         *quartz.Timer
	selectionGen           uint64

	smallBlind       int
	bigBlind         int
	maxPlayers       int
	selectionTimeout time.Duration
	autoStart        bool

	rng         *rand.Rand
	clock       quartz.Clock
	logger      zerolog.Logger
	deckFactory func(*rand.Rand) *poker.Deck

	subMu       sync.Mutex
	subscribers []func([]Event)
}

// NewGame creates an empty table playing the given variant.
func NewGame(id string, variant Variant, opts ...Option) (*Game, error) {
	if !variant.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVariant, variant)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxPlayers == 0 {
		cfg.maxPlayers = min(defaultMaxPlayers, variant.MaxSeats())
	}
	if err := cfg.validate(variant); err != nil {
		return nil, err
	}
	if cfg.rng == nil {
		cfg.rng = randutil.NewTimeSeeded()
	}
	if cfg.deckFactory == nil {
		cfg.deckFactory = func(rng *rand.Rand) *poker.Deck { return poker.NewDeck(rng, true) }
	}

	return &Game{
		id:                id,
		variant:           variant,
		roundVariant:      variant,
		phase:             Waiting,
		phaseOrder:        PhaseOrder(variant),
		dealerIndex:       -1,
		smallBlindIndex:   -1,
		bigBlindIndex:     -1,
		activePlayerIndex: -1,
		smallBlind:        cfg.smallBlind,
		bigBlind:          cfg.bigBlind,
		minRaise:          cfg.bigBlind,
		maxPlayers:        cfg.maxPlayers,
		selectionTimeout:  cfg.selectionTimeout,
		autoStart:         cfg.autoStart,
		rng:               cfg.rng,
		clock:             cfg.clock,
		logger:            cfg.logger.With().Str("component", "game").Str("game_id", id).Logger(),
		deckFactory:       cfg.deckFactory,
	}, nil
}

// ID returns the table id.
func (g *Game) ID() string {
	return g.id
}

// Subscribe registers fn to receive events produced outside a caller's
// request, i.e. by the variant selection timeout. fn runs without the game
// lock held.
func (g *Game) Subscribe(fn func([]Event)) {
	g.subMu.Lock()
	defer g.subMu.Unlock()
	g.subscribers = append(g.subscribers, fn)
}

func (g *Game) publish(events []Event) {
	if len(events) == 0 {
		return
	}
	g.subMu.Lock()
	subs := make([]func([]Event), len(g.subscribers))
	copy(subs, g.subscribers)
	g.subMu.Unlock()
	for _, fn := range subs {
		fn(events)
	}
}

// AddPlayer seats a player. Seat 0 picks the lowest free seat. Players may
// join mid-round; they are dealt in from the next round.
func (g *Game) AddPlayer(id, username string, seat, chips int) (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrPlayerNotFound)
	}
	if g.playerByID(id) != nil {
		return nil, fmt.Errorf("%w: %s", ErrPlayerExists, id)
	}
	if len(g.players) >= g.maxPlayers {
		return nil, ErrTableFull
	}
	if chips < 0 {
		return nil, fmt.Errorf("negative chip count %d", chips)
	}

	taken := make(map[int]bool, len(g.players))
	for _, p := range g.players {
		taken[p.Seat] = true
	}
	if seat == 0 {
		for s := 1; s <= g.maxPlayers; s++ {
			if !taken[s] {
				seat = s
				break
			}
		}
	}
	if seat < 1 || seat > g.maxPlayers {
		return nil, fmt.Errorf("%w: seat %d out of range", ErrSeatTaken, seat)
	}
	if taken[seat] {
		return nil, fmt.Errorf("%w: seat %d", ErrSeatTaken, seat)
	}

	p := &Player{ID: id, Seat: seat, Username: username, Chips: chips}
	g.players = append(g.players, p)
	sort.SliceStable(g.players, func(i, j int) bool {
		return g.players[i].Seat < g.players[j].Seat
	})
	g.reindex()

	g.logger.Debug().Str("player_id", id).Int("seat", seat).Int("chips", chips).Msg("Player seated")
	return p, nil
}

// RemovePlayer takes a player off the table. During a round the player is
// folded immediately and removed when the round ends; their chips already
// in the pot stay there.
func (g *Game) RemovePlayer(id string) ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	p := g.players[idx]

	if g.deck == nil {
		if g.variantSelectionActive && id != g.dealerID {
			// Removed when the selection resolves and dealing resumes.
			p.leaving = true
			return nil, nil
		}
		if g.variantSelectionActive {
			g.cancelSelection()
			g.phase = Waiting
		}
		g.players = append(g.players[:idx], g.players[idx+1:]...)
		g.reindex()
		return nil, nil
	}

	p.leaving = true
	if !p.inHand() {
		return nil, nil
	}
	var events []Event
	wasTurn := idx == g.activePlayerIndex
	p.Folded = true
	p.PreviousAction = Fold
	events = append(events, PlayerActedEvent{PlayerID: p.ID, Action: Fold, Pot: g.totalPot()})
	events = append(events, g.rebuildPots()...)
	if wasTurn || g.countInHand() <= 1 {
		more, err := g.checkPhaseProgress()
		return append(events, more...), err
	}
	return events, nil
}

// SetReady records a player's ready flag.
func (g *Game) SetReady(id string, ready bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.playerByID(id)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	p.Ready = ready
	return nil
}

// SetAvatar records a player's avatar reference.
func (g *Game) SetAvatar(id, avatar string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.playerByID(id)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	p.Avatar = avatar
	return nil
}

// TotalChips returns every chip on the table: stacks plus all pots.
func (g *Game) TotalChips() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	total := g.totalPot()
	for _, p := range g.players {
		total += p.Chips
	}
	return total
}

func (g *Game) playerByID(id string) *Player {
	if i := g.indexOf(id); i >= 0 {
		return g.players[i]
	}
	return nil
}

func (g *Game) indexOf(id string) int {
	for i, p := range g.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// reindex re-resolves seat indices from ids after the player slice changes.
func (g *Game) reindex() {
	g.dealerIndex = g.indexOf(g.dealerID)
	g.smallBlindIndex = g.indexOf(g.smallBlindID)
	g.bigBlindIndex = g.indexOf(g.bigBlindID)
	g.activePlayerIndex = g.indexOf(g.activePlayerID)
}

// nextIndex returns the first index after from (clockwise, wrapping) whose
// player satisfies ok, or -1.
func (g *Game) nextIndex(from int, ok func(*Player) bool) int {
	n := len(g.players)
	for i := 1; i <= n; i++ {
		idx := ((from+i)%n + n) % n
		if ok(g.players[idx]) {
			return idx
		}
	}
	return -1
}

func (g *Game) countInHand() int {
	n := 0
	for _, p := range g.players {
		if p.inHand() {
			n++
		}
	}
	return n
}

func (g *Game) countCanAct() int {
	n := 0
	for _, p := range g.players {
		if p.canAct() {
			n++
		}
	}
	return n
}

func (g *Game) setActive(idx int) {
	g.activePlayerIndex = idx
	if idx >= 0 {
		g.activePlayerID = g.players[idx].ID
	} else {
		g.activePlayerID = ""
	}
}

func (g *Game) turnEvent() Event {
	if g.activePlayerIndex < 0 {
		return nil
	}
	p := g.players[g.activePlayerIndex]
	return TurnChangedEvent{
		PlayerID: p.ID,
		Allowed:  g.allowedActions(p),
		ToCall:   max(g.currentBet-p.CurrentBet, 0),
	}
}
