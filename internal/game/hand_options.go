package game

import (
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/pokertable/internal/randutil"
	"github.com/lox/pokertable/poker"
)

// DefaultSelectionTimeout is how long a Dealer's Choice dealer has to pick.
const DefaultSelectionTimeout = 15 * time.Second

const defaultMaxPlayers = 9

// Option configures a Game during creation.
type Option func(*gameConfig)

type gameConfig struct {
	rng              *rand.Rand
	clock            quartz.Clock
	logger           zerolog.Logger
	smallBlind       int
	bigBlind         int
	maxPlayers       int
	selectionTimeout time.Duration
	autoStart        bool
	deckFactory      func(*rand.Rand) *poker.Deck
}

func defaultConfig() gameConfig {
	return gameConfig{
		clock:            quartz.NewReal(),
		logger:           zerolog.Nop(),
		smallBlind:       5,
		bigBlind:         10,
		selectionTimeout: DefaultSelectionTimeout,
		autoStart:        true,
	}
}

// WithRNG sets the shuffle source. Without it a time seeded source is used.
func WithRNG(rng *rand.Rand) Option {
	return func(c *gameConfig) {
		c.rng = rng
	}
}

// WithSeed is shorthand for WithRNG(randutil.New(seed)).
func WithSeed(seed int64) Option {
	return func(c *gameConfig) {
		c.rng = randutil.New(seed)
	}
}

// WithClock sets the clock used for the variant selection timer.
func WithClock(clock quartz.Clock) Option {
	return func(c *gameConfig) {
		c.clock = clock
	}
}

// WithLogger sets the game logger. Default is zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(c *gameConfig) {
		c.logger = logger
	}
}

// WithBlinds sets the small and big blind amounts. Default 5/10.
func WithBlinds(small, big int) Option {
	return func(c *gameConfig) {
		c.smallBlind = small
		c.bigBlind = big
	}
}

// WithMaxPlayers caps the number of seats. Default 9, or the variant's
// MaxSeats when that is lower.
func WithMaxPlayers(n int) Option {
	return func(c *gameConfig) {
		c.maxPlayers = n
	}
}

// WithSelectionTimeout sets the Dealer's Choice selection window.
func WithSelectionTimeout(d time.Duration) Option {
	return func(c *gameConfig) {
		c.selectionTimeout = d
	}
}

// WithAutoStart controls whether the next round is dealt as soon as a
// round ends. Default true.
func WithAutoStart(on bool) Option {
	return func(c *gameConfig) {
		c.autoStart = on
	}
}

// WithDeckFactory overrides deck construction, e.g. to deal a stacked deck.
func WithDeckFactory(f func(*rand.Rand) *poker.Deck) Option {
	return func(c *gameConfig) {
		c.deckFactory = f
	}
}

// WithStackedDecks deals the given decks in order, one per round, and falls
// back to shuffled decks afterwards.
func WithStackedDecks(decks ...[]poker.Card) Option {
	return func(c *gameConfig) {
		next := 0
		c.deckFactory = func(rng *rand.Rand) *poker.Deck {
			if next < len(decks) {
				d := poker.NewStackedDeck(decks[next])
				next++
				return d
			}
			return poker.NewDeck(rng, true)
		}
	}
}

func (c *gameConfig) validate(variant Variant) error {
	if c.smallBlind <= 0 || c.bigBlind <= 0 {
		return fmt.Errorf("blinds must be positive (got %d/%d)", c.smallBlind, c.bigBlind)
	}
	if c.bigBlind < c.smallBlind {
		return fmt.Errorf("big blind %d below small blind %d", c.bigBlind, c.smallBlind)
	}
	if limit := variant.MaxSeats(); c.maxPlayers < 2 || c.maxPlayers > limit {
		return fmt.Errorf("max players for %s must be between 2 and %d (got %d)", variant, limit, c.maxPlayers)
	}
	if c.selectionTimeout <= 0 {
		return fmt.Errorf("selection timeout must be positive (got %s)", c.selectionTimeout)
	}
	if c.clock == nil {
		return fmt.Errorf("clock is required")
	}
	return nil
}
