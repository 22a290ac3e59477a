package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Websocket keepalive and limits. pingPeriod must stay below pongWait so a
// healthy peer always answers before its read deadline passes.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 8 << 10
	sendBuffer     = 256
)

var ErrConnectionClosed = errors.New("connection closed")

// Connection is one websocket client. It is seated at no more than one
// table at a time.
type Connection struct {
	conn   *websocket.Conn
	server *Server
	send   chan *Message
	logger zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.RWMutex
	playerID  string
	tableID   string
	closeOnce sync.Once
}

func newConnection(conn *websocket.Conn, server *Server) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		server: server,
		send:   make(chan *Message, sendBuffer),
		logger: server.logger.With().Str("remote", conn.RemoteAddr().String()).Logger(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// Done is closed once the connection has shut down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// SendMessage queues msg for the client. A client that cannot keep up is
// disconnected.
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn().Str("player_id", c.Player()).Msg("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

func (c *Connection) reply(messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		c.logger.Error().Err(err).Str("type", messageType.String()).Msg("Failed to encode message")
		return
	}
	_ = c.SendMessage(msg)
}

func (c *Connection) sendError(err error) {
	c.reply(MessageTypeError, ErrorData{Code: errorCode(err), Message: err.Error()})
}

func (c *Connection) setSeat(playerID, tableID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
	c.tableID = tableID
}

// Player returns the seated player id, or "".
func (c *Connection) Player() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// Table returns the table the connection is seated at, or "".
func (c *Connection) Table() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tableID
}

func (c *Connection) extendReadDeadline() {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
}

func (c *Connection) write(messageType int, data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// readPump decodes client requests until the socket fails or closes.
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	c.extendReadDeadline()
	c.conn.SetPongHandler(func(string) error {
		c.extendReadDeadline()
		return nil
	})

	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		switch {
		case err == nil:
			c.handleMessage(&msg)
			continue
		case websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure):
			c.logger.Error().Err(err).Str("player_id", c.Player()).Msg("Websocket read failed")
		}
		return
	}
}

// writePump owns all writes to the socket: queued messages, pings and the
// final close frame.
func (c *Connection) writePump() {
	pings := time.NewTicker(pingPeriod)
	defer func() {
		pings.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			data, err := json.Marshal(msg)
			if err != nil {
				c.logger.Error().Err(err).Str("type", msg.Type.String()).Msg("Failed to encode message")
				continue
			}
			if err := c.write(websocket.TextMessage, data); err != nil {
				c.logger.Debug().Err(err).Msg("Failed to write message")
				return
			}
		case <-pings.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage decodes msg and routes it to the server.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug().Str("type", msg.Type.String()).Str("player_id", c.Player()).Msg("Received message")

	decode := func(v any) bool {
		if err := json.Unmarshal(msg.Data, v); err != nil {
			c.sendError(&messageError{msg.Type, err})
			return false
		}
		return true
	}

	switch msg.Type {
	case MessageTypeJoinTable:
		var data JoinTableData
		if decode(&data) {
			c.server.join(c, data)
		}
	case MessageTypeLeaveTable:
		c.server.leave(c)
	case MessageTypeSetReady:
		var data ReadyData
		if decode(&data) {
			c.server.setReady(c, data)
		}
	case MessageTypeStartRound:
		c.server.startRound(c)
	case MessageTypeAction:
		var data ActionData
		if decode(&data) {
			c.server.applyAction(c, data)
		}
	case MessageTypeDiscard:
		var data DiscardData
		if decode(&data) {
			c.server.discard(c, data)
		}
	case MessageTypeSelectVariant:
		var data VariantData
		if decode(&data) {
			c.server.selectVariant(c, data)
		}
	case MessageTypeNextVariant:
		var data VariantData
		if decode(&data) {
			c.server.nextVariant(c, data)
		}
	case MessageTypeListTables:
		c.reply(MessageTypeTables, TablesData{Tables: c.server.manager.List()})
	case MessageTypeGetState:
		c.server.sendState(c)
	default:
		c.sendError(&messageError{msg.Type, errors.New("unknown message type")})
	}
}
