package table

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/poker"
)

// ErrGameNotFound is returned for an unknown table id.
var ErrGameNotFound = errors.New("game not found")

// Summary holds lightweight metadata for listing tables.
type Summary struct {
	ID         string       `json:"id"`
	Name       string       `json:"name,omitempty"`
	Variant    game.Variant `json:"variant"`
	Phase      game.Phase   `json:"phase"`
	Players    int          `json:"players"`
	RoundCount int          `json:"round_count"`
}

type entry struct {
	name string
	game *game.Game
}

// Manager is a registry of independent games keyed by table id. The lock
// only guards the map; each Game serializes its own operations.
type Manager struct {
	logger zerolog.Logger
	mu     sync.RWMutex
	games  map[string]*entry
}

// NewManager constructs an empty registry.
func NewManager(logger zerolog.Logger) *Manager {
	return &Manager{
		logger: logger.With().Str("component", "table_manager").Logger(),
		games:  make(map[string]*entry),
	}
}

// Create builds a game and registers it under a fresh uuid. The manager's
// logger is passed to the game unless opts override it.
func (m *Manager) Create(name string, variant game.Variant, opts ...game.Option) (string, *game.Game, error) {
	id := uuid.NewString()
	opts = append([]game.Option{game.WithLogger(m.logger)}, opts...)
	g, err := game.NewGame(id, variant, opts...)
	if err != nil {
		return "", nil, fmt.Errorf("creating table %q: %w", name, err)
	}

	m.mu.Lock()
	m.games[id] = &entry{name: name, game: g}
	m.mu.Unlock()

	m.logger.Info().Str("table_id", id).Str("name", name).Str("variant", variant.String()).Msg("Table created")
	return id, g, nil
}

// Get returns the game for id.
func (m *Manager) Get(id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return e.game, nil
}

// Delete removes a table.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	delete(m.games, id)
	m.logger.Info().Str("table_id", id).Msg("Table deleted")
	return nil
}

// List returns a summary of every table ordered by name then id.
func (m *Manager) List() []Summary {
	m.mu.RLock()
	entries := make(map[string]*entry, len(m.games))
	for id, e := range m.games {
		entries[id] = e
	}
	m.mu.RUnlock()

	summaries := make([]Summary, 0, len(entries))
	for id, e := range entries {
		s := e.game.ReturnGameState()
		summaries = append(summaries, Summary{
			ID:         id,
			Name:       e.name,
			Variant:    s.Variant,
			Phase:      s.Phase,
			Players:    len(s.Players),
			RoundCount: s.RoundCount,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Name != summaries[j].Name {
			return summaries[i].Name < summaries[j].Name
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries
}

// StartRound starts a round on table id.
func (m *Manager) StartRound(id string) ([]game.Event, error) {
	g, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return g.StartRound()
}

// ApplyAction applies a betting action on table id.
func (m *Manager) ApplyAction(id, playerID string, action game.Action) ([]game.Event, error) {
	g, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return g.ApplyAction(playerID, action)
}

// Discard exchanges cards during a draw on table id.
func (m *Manager) Discard(id, playerID string, cards []poker.Card) ([]game.Event, error) {
	g, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return g.Discard(playerID, cards)
}

// GetAllowedActions returns the legal actions for a player on table id.
func (m *Manager) GetAllowedActions(id, playerID string) ([]game.ActionKind, error) {
	g, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return g.GetAllowedActions(playerID)
}

// HandleVariantSelection forwards a Dealer's Choice pick to table id.
func (m *Manager) HandleVariantSelection(id, playerID string, variant game.Variant) ([]game.Event, error) {
	g, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return g.HandleVariantSelection(playerID, variant)
}

// ReturnGameState snapshots table id.
func (m *Manager) ReturnGameState(id string) (game.Snapshot, error) {
	g, err := m.Get(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	return g.ReturnGameState(), nil
}
