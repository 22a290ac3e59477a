package game

import (
	"github.com/lox/pokertable/poker"
)

// Snapshot is a read-only, JSON-serializable copy of a Game. It carries full
// information; transports redact hole cards per viewer with Redact.
type Snapshot struct {
	ID                     string           `json:"id"`
	Variant                Variant          `json:"variant"`
	RoundVariant           Variant          `json:"round_variant"`
	Phase                  Phase            `json:"phase"`
	PhaseOrder             []Phase          `json:"phase_order"`
	RoundCount             int              `json:"round_count"`
	Players                []PlayerSnapshot `json:"players"`
	DealerID               string           `json:"dealer_id"`
	SmallBlindID           string           `json:"small_blind_id"`
	BigBlindID             string           `json:"big_blind_id"`
	ActivePlayerID         string           `json:"active_player_id"`
	SmallBlind             int              `json:"small_blind"`
	BigBlind               int              `json:"big_blind"`
	CurrentBet             int              `json:"current_bet"`
	MinRaise               int              `json:"min_raise"`
	Pot                    int              `json:"pot"`
	Sidepots               []Sidepot        `json:"sidepots"`
	IneligiblePlayers      []string         `json:"ineligible_players"`
	CommunityCards         []poker.Card     `json:"community_cards"`
	BurnPile               []poker.Card     `json:"burn_pile"`
	DeckRemaining          int              `json:"deck_remaining"`
	VariantSelectionActive bool             `json:"variant_selection_active"`
	DealerSelectedVariant  *Variant         `json:"dealer_selected_variant,omitempty"`
	NextRoundVariant       *Variant         `json:"next_round_variant,omitempty"`
}

// PlayerSnapshot is one seat in a Snapshot. HiddenCards counts face-down
// cards removed by Redact.
type PlayerSnapshot struct {
	ID             string       `json:"id"`
	Seat           int          `json:"seat"`
	Username       string       `json:"username"`
	Avatar         string       `json:"avatar,omitempty"`
	Chips          int          `json:"chips"`
	Cards          []poker.Card `json:"cards"`
	HiddenCards    int          `json:"hidden_cards,omitempty"`
	CurrentBet     int          `json:"current_bet"`
	TotalBet       int          `json:"total_bet"`
	Folded         bool         `json:"folded"`
	Active         bool         `json:"active"`
	Ready          bool         `json:"ready"`
	AllIn          bool         `json:"all_in"`
	PreviousAction ActionKind   `json:"previous_action"`
}

// ReturnGameState returns a deep copy of the game state.
func (g *Game) ReturnGameState() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		ID:                     g.id,
		Variant:                g.variant,
		RoundVariant:           g.roundVariant,
		Phase:                  g.phase,
		PhaseOrder:             append([]Phase(nil), g.phaseOrder...),
		RoundCount:             g.roundCount,
		DealerID:               g.dealerID,
		SmallBlindID:           g.smallBlindID,
		BigBlindID:             g.bigBlindID,
		ActivePlayerID:         g.activePlayerID,
		SmallBlind:             g.smallBlind,
		BigBlind:               g.bigBlind,
		CurrentBet:             g.currentBet,
		MinRaise:               g.minRaise,
		Pot:                    g.pot,
		IneligiblePlayers:      append([]string(nil), g.ineligible...),
		CommunityCards:         append([]poker.Card(nil), g.communityCards...),
		BurnPile:               append([]poker.Card(nil), g.burnPile...),
		VariantSelectionActive: g.variantSelectionActive,
	}
	if g.deck != nil {
		s.DeckRemaining = g.deck.Remaining()
	}
	if g.hasDealerSelection {
		v := g.dealerSelectedVariant
		s.DealerSelectedVariant = &v
	}
	if g.hasNextRoundVariant {
		v := g.nextRoundVariant
		s.NextRoundVariant = &v
	}
	for _, sp := range g.sidepots {
		s.Sidepots = append(s.Sidepots, Sidepot{Amount: sp.Amount, Eligible: append([]string(nil), sp.Eligible...)})
	}
	for _, p := range g.players {
		s.Players = append(s.Players, PlayerSnapshot{
			ID:             p.ID,
			Seat:           p.Seat,
			Username:       p.Username,
			Avatar:         p.Avatar,
			Chips:          p.Chips,
			Cards:          append([]poker.Card(nil), p.Cards...),
			CurrentBet:     p.CurrentBet,
			TotalBet:       p.TotalBet,
			Folded:         p.Folded,
			Active:         p.Active,
			Ready:          p.Ready,
			AllIn:          p.AllIn,
			PreviousAction: p.PreviousAction,
		})
	}
	return s
}

// TotalChips sums stacks and pots in the snapshot.
func (s Snapshot) TotalChips() int {
	total := s.Pot
	for _, sp := range s.Sidepots {
		total += sp.Amount
	}
	for _, p := range s.Players {
		total += p.Chips
	}
	return total
}

// Player returns the snapshot entry for id.
func (s Snapshot) Player(id string) (PlayerSnapshot, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerSnapshot{}, false
}

// Redact returns a copy of s as seen by viewerID: other players' face-down
// cards are removed and counted in HiddenCards. At showdown every hand still
// in play is shown.
func (s Snapshot) Redact(viewerID string) Snapshot {
	out := s
	out.Players = make([]PlayerSnapshot, len(s.Players))
	out.BurnPile = nil
	for i, p := range s.Players {
		if p.ID != viewerID && !(s.Phase == Showdown && !p.Folded) {
			var shown []poker.Card
			hidden := 0
			for _, c := range p.Cards {
				if c.FaceUp {
					shown = append(shown, c)
				} else {
					hidden++
				}
			}
			p.Cards = shown
			p.HiddenCards = hidden
		}
		out.Players[i] = p
	}
	return out
}
