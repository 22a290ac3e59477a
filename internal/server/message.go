package server

import (
	"encoding/json"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/table"
)

// MessageType names a websocket message.
type MessageType string

// Client → server messages.
const (
	MessageTypeJoinTable     MessageType = "join_table"
	MessageTypeLeaveTable    MessageType = "leave_table"
	MessageTypeSetReady      MessageType = "set_ready"
	MessageTypeStartRound    MessageType = "start_round"
	MessageTypeAction        MessageType = "action"
	MessageTypeDiscard       MessageType = "discard"
	MessageTypeSelectVariant MessageType = "select_variant"
	MessageTypeNextVariant   MessageType = "next_variant"
	MessageTypeListTables    MessageType = "list_tables"
	MessageTypeGetState      MessageType = "get_state"
)

// Server → client messages.
const (
	MessageTypeJoined MessageType = "joined"
	MessageTypeLeft   MessageType = "left"
	MessageTypeEvent  MessageType = "event"
	MessageTypeState  MessageType = "state"
	MessageTypeTables MessageType = "tables"
	MessageTypeError  MessageType = "error"
)

func (t MessageType) String() string {
	return string(t)
}

// Message is the envelope for every websocket frame.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage marshals data into a message of the given type.
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{Type: messageType, Data: dataBytes}, nil
}

type JoinTableData struct {
	TableID  string `json:"table_id"`
	PlayerID string `json:"player_id,omitempty"`
	Username string `json:"username"`
	Seat     int    `json:"seat,omitempty"`
	Chips    int    `json:"chips"`
	Token    string `json:"token,omitempty"`
}

type ReadyData struct {
	Ready bool `json:"ready"`
}

type ActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

type DiscardData struct {
	Cards []string `json:"cards"`
}

type VariantData struct {
	Variant string `json:"variant"`
}

type JoinedData struct {
	TableID  string `json:"table_id"`
	PlayerID string `json:"player_id"`
	Seat     int    `json:"seat"`
}

type LeftData struct {
	TableID string `json:"table_id"`
}

// EventData wraps one engine event with its type tag.
type EventData struct {
	Type  game.EventType `json:"type"`
	Event game.Event     `json:"event"`
}

type TablesData struct {
	Tables []table.Summary `json:"tables"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
