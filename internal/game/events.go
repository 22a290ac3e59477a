package game

import (
	"github.com/lox/pokertable/poker"
)

// EventType names an outbound notification.
type EventType string

const (
	EventTypeRoundStarted            EventType = "round_started"
	EventTypeRoundFailed             EventType = "round_failed"
	EventTypeRoundEnded              EventType = "round_ended"
	EventTypeVariantSelectionStarted EventType = "variant_selection_started"
	EventTypeVariantSelected         EventType = "variant_selected"
	EventTypeBlindPosted             EventType = "blind_posted"
	EventTypeCardsDealt              EventType = "cards_dealt"
	EventTypeCardsDiscarded          EventType = "cards_discarded"
	EventTypePlayerActed             EventType = "player_acted"
	EventTypeTurnChanged             EventType = "turn_changed"
	EventTypePhaseChanged            EventType = "phase_changed"
	EventTypeSidepotCreated          EventType = "sidepot_created"
	EventTypeShowdown                EventType = "showdown"
	EventTypePotAwarded              EventType = "pot_awarded"
)

// Event is a notification produced by an engine call. The caller decides how
// to deliver it; the engine has no transport of its own.
type Event interface {
	EventType() EventType
}

// RoundStartedEvent is emitted once blinds and dealer positions are fixed.
type RoundStartedEvent struct {
	Round        int     `json:"round"`
	Variant      Variant `json:"variant"`
	DealerID     string  `json:"dealer_id"`
	SmallBlindID string  `json:"small_blind_id"`
	BigBlindID   string  `json:"big_blind_id"`
}

func (RoundStartedEvent) EventType() EventType { return EventTypeRoundStarted }

// RoundFailedEvent reports a structural failure; the table is back to waiting.
type RoundFailedEvent struct {
	Round  int    `json:"round"`
	Reason string `json:"reason"`
}

func (RoundFailedEvent) EventType() EventType { return EventTypeRoundFailed }

// RoundEndedEvent closes a hand after pots are distributed.
type RoundEndedEvent struct {
	Round int            `json:"round"`
	Chips map[string]int `json:"chips"`
}

func (RoundEndedEvent) EventType() EventType { return EventTypeRoundEnded }

type VariantSelectionStartedEvent struct {
	DealerID  string    `json:"dealer_id"`
	TimeoutMs int64     `json:"timeout_ms"`
	Options   []Variant `json:"options"`
}

func (VariantSelectionStartedEvent) EventType() EventType { return EventTypeVariantSelectionStarted }

type VariantSelectedEvent struct {
	DealerID string  `json:"dealer_id"`
	Variant  Variant `json:"variant"`
	TimedOut bool    `json:"timed_out"`
}

func (VariantSelectedEvent) EventType() EventType { return EventTypeVariantSelected }

type BlindPostedEvent struct {
	PlayerID string `json:"player_id"`
	Amount   int    `json:"amount"`
	Big      bool   `json:"big"`
	AllIn    bool   `json:"all_in"`
}

func (BlindPostedEvent) EventType() EventType { return EventTypeBlindPosted }

// CardsDealtEvent carries cards dealt to one player, or community cards when
// PlayerID is empty.
type CardsDealtEvent struct {
	PlayerID string       `json:"player_id,omitempty"`
	Phase    Phase        `json:"phase"`
	Cards    []poker.Card `json:"cards"`
}

func (CardsDealtEvent) EventType() EventType { return EventTypeCardsDealt }

type CardsDiscardedEvent struct {
	PlayerID string `json:"player_id"`
	Count    int    `json:"count"`
}

func (CardsDiscardedEvent) EventType() EventType { return EventTypeCardsDiscarded }

type PlayerActedEvent struct {
	PlayerID string     `json:"player_id"`
	Action   ActionKind `json:"action"`
	Amount   int        `json:"amount"`
	AllIn    bool       `json:"all_in"`
	Pot      int        `json:"pot"`
}

func (PlayerActedEvent) EventType() EventType { return EventTypePlayerActed }

type TurnChangedEvent struct {
	PlayerID string       `json:"player_id"`
	Allowed  []ActionKind `json:"allowed"`
	ToCall   int          `json:"to_call"`
}

func (TurnChangedEvent) EventType() EventType { return EventTypeTurnChanged }

type PhaseChangedEvent struct {
	Phase          Phase        `json:"phase"`
	CommunityCards []poker.Card `json:"community_cards"`
}

func (PhaseChangedEvent) EventType() EventType { return EventTypePhaseChanged }

type SidepotCreatedEvent struct {
	Index    int      `json:"index"`
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"`
}

func (SidepotCreatedEvent) EventType() EventType { return EventTypeSidepotCreated }

// ShowdownHand is one revealed hand.
type ShowdownHand struct {
	PlayerID string           `json:"player_id"`
	Cards    []poker.Card     `json:"cards"`
	Hand     poker.HandResult `json:"hand"`
	Low      *poker.LowResult `json:"low,omitempty"`
}

type ShowdownEvent struct {
	Hands []ShowdownHand `json:"hands"`
}

func (ShowdownEvent) EventType() EventType { return EventTypeShowdown }

// PotAwardedEvent reports one pot (or half of a hi-lo pot). Pot is 0 for the
// main pot and i for sidepot i.
type PotAwardedEvent struct {
	Pot         int            `json:"pot"`
	Amount      int            `json:"amount"`
	Winners     []string       `json:"winners"`
	Shares      map[string]int `json:"shares"`
	Description string         `json:"description,omitempty"`
	Uncontested bool           `json:"uncontested"`
	Low         bool           `json:"low,omitempty"`
}

func (PotAwardedEvent) EventType() EventType { return EventTypePotAwarded }
