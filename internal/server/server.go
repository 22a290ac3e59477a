package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lox/pokertable/internal/auth"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/phh"
	"github.com/lox/pokertable/internal/table"
	"github.com/lox/pokertable/poker"
)

// Server exposes the tables of a Manager over websockets. Every seated
// connection receives the events of its table with other players' hidden
// cards removed, followed by a redacted snapshot.
type Server struct {
	manager       *table.Manager
	logger        zerolog.Logger
	upgrader      websocket.Upgrader
	historyWriter game.HandHistoryWriter
	phhSink       phh.Sink
	validator     auth.Validator
	clock         quartz.Clock

	mu          sync.RWMutex
	connections map[*Connection]bool
	tables      map[string]*tableState
	httpServer  *http.Server
}

type tableState struct {
	history       *game.HandHistory
	recorder      *phh.Recorder
	startingChips int
}

// Option configures a Server.
type Option func(*Server)

// WithHandHistory records every round played on attached tables to w.
func WithHandHistory(w game.HandHistoryWriter) Option {
	return func(s *Server) { s.historyWriter = w }
}

// WithPHH additionally exports every round in PHH format.
func WithPHH(sink phh.Sink) Option {
	return func(s *Server) { s.phhSink = sink }
}

// WithAuth requires a valid token to join. The identity behind the token
// replaces the player id and username the client asked for.
func WithAuth(v auth.Validator) Option {
	return func(s *Server) { s.validator = v }
}

// WithClock sets the clock used to date hand histories.
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// NewServer creates a websocket server for the tables in manager.
func NewServer(manager *table.Manager, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		manager: manager,
		logger:  logger.With().Str("component", "server").Logger(),
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		historyWriter: game.NoOpHandHistoryWriter{},
		clock:         quartz.NewReal(),
		connections:   make(map[*Connection]bool),
		tables:        make(map[string]*tableState),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach makes table id joinable. Players that join without a chip count
// are seated with startingChips. Attaching a table twice is a no-op.
func (s *Server) Attach(id string, startingChips int) error {
	g, err := s.manager.Get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.tables[id]; ok {
		s.mu.Unlock()
		return nil
	}
	ts := &tableState{
		history:       game.NewHandHistory(id, s.historyWriter, s.clock, game.FormattingOptions{}),
		startingChips: startingChips,
	}
	if s.phhSink != nil {
		ts.recorder = phh.NewRecorder(id, s.phhSink, s.clock)
	}
	s.tables[id] = ts
	s.mu.Unlock()

	// Events raised by the selection timeout arrive here rather than from a
	// request handler.
	g.Subscribe(func(events []game.Event) {
		s.dispatch(id, events)
	})
	return nil
}

// Handler returns the HTTP routes served by s.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/tables", s.handleTables)
	return mux
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info().Str("addr", addr).Msg("Starting WebSocket server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and closes the open ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	conns := make([]*Connection, 0, len(s.connections))
	for c := range s.connections {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := newConnection(ws, s)
	s.mu.Lock()
	s.connections[c] = true
	s.mu.Unlock()
	s.logger.Debug().Str("remote", ws.RemoteAddr().String()).Msg("Client connected")

	c.Start()
	go func() {
		<-c.Done()
		s.disconnect(c)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(TablesData{Tables: s.manager.List()}); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode tables")
	}
}

func (s *Server) disconnect(c *Connection) {
	s.mu.Lock()
	delete(s.connections, c)
	s.mu.Unlock()

	if c.Table() != "" {
		s.leave(c)
	}
	s.logger.Debug().Msg("Client disconnected")
}

// seated returns the connection's table and player, replying with an
// error when it has not joined one.
func (s *Server) seated(c *Connection) (tableID, playerID string, ok bool) {
	tableID, playerID = c.Table(), c.Player()
	if tableID == "" {
		c.sendError(ErrNotSeated)
		return "", "", false
	}
	return tableID, playerID, true
}

func (s *Server) join(c *Connection, data JoinTableData) {
	if c.Table() != "" {
		c.sendError(ErrAlreadySeated)
		return
	}

	s.mu.RLock()
	ts, ok := s.tables[data.TableID]
	s.mu.RUnlock()
	if !ok {
		c.sendError(fmt.Errorf("%w: %s", table.ErrGameNotFound, data.TableID))
		return
	}
	g, err := s.manager.Get(data.TableID)
	if err != nil {
		c.sendError(err)
		return
	}

	playerID, username := data.PlayerID, data.Username
	if s.validator != nil {
		id, err := s.validator.Validate(c.ctx, data.Token)
		if err != nil {
			s.logger.Warn().Err(err).Str("table_id", data.TableID).Msg("Join rejected")
			c.sendError(err)
			return
		}
		playerID = id.PlayerID
		if id.Name != "" {
			username = id.Name
		}
	}
	if playerID == "" {
		playerID = uuid.NewString()
	}
	chips := data.Chips
	if chips <= 0 {
		chips = ts.startingChips
	}

	p, err := g.AddPlayer(playerID, username, data.Seat, chips)
	if err != nil {
		c.sendError(err)
		return
	}
	c.setSeat(playerID, data.TableID)

	s.logger.Info().
		Str("table_id", data.TableID).
		Str("player_id", playerID).
		Str("username", username).
		Int("seat", p.Seat).
		Int("chips", chips).
		Msg("Player joined")

	c.reply(MessageTypeJoined, JoinedData{TableID: data.TableID, PlayerID: playerID, Seat: p.Seat})
	s.broadcastState(data.TableID)
}

func (s *Server) leave(c *Connection) {
	tableID, playerID, ok := s.seated(c)
	if !ok {
		return
	}
	c.setSeat("", "")

	events, err := s.withGame(tableID, func(g *game.Game) ([]game.Event, error) {
		return g.RemovePlayer(playerID)
	})
	if err != nil {
		c.sendError(err)
	}
	s.logger.Info().Str("table_id", tableID).Str("player_id", playerID).Msg("Player left")

	c.reply(MessageTypeLeft, LeftData{TableID: tableID})
	s.dispatch(tableID, events)
}

func (s *Server) setReady(c *Connection, data ReadyData) {
	tableID, playerID, ok := s.seated(c)
	if !ok {
		return
	}
	_, err := s.withGame(tableID, func(g *game.Game) ([]game.Event, error) {
		return nil, g.SetReady(playerID, data.Ready)
	})
	if err != nil {
		c.sendError(err)
		return
	}
	s.broadcastState(tableID)
}

func (s *Server) startRound(c *Connection) {
	tableID, _, ok := s.seated(c)
	if !ok {
		return
	}
	events, err := s.manager.StartRound(tableID)
	s.dispatch(tableID, events)
	if err != nil {
		c.sendError(err)
	}
}

func (s *Server) applyAction(c *Connection, data ActionData) {
	tableID, playerID, ok := s.seated(c)
	if !ok {
		return
	}
	kind, err := game.ParseActionKind(data.Action)
	if err != nil {
		c.sendError(err)
		return
	}
	events, err := s.manager.ApplyAction(tableID, playerID, game.Action{Kind: kind, Amount: data.Amount})
	s.dispatch(tableID, events)
	if err != nil {
		c.sendError(err)
	}
}

func (s *Server) discard(c *Connection, data DiscardData) {
	tableID, playerID, ok := s.seated(c)
	if !ok {
		return
	}
	cards := make([]poker.Card, 0, len(data.Cards))
	for _, name := range data.Cards {
		card, err := poker.ParseCard(name)
		if err != nil {
			c.sendError(&messageError{MessageTypeDiscard, err})
			return
		}
		cards = append(cards, card)
	}
	events, err := s.manager.Discard(tableID, playerID, cards)
	s.dispatch(tableID, events)
	if err != nil {
		c.sendError(err)
	}
}

func (s *Server) selectVariant(c *Connection, data VariantData) {
	tableID, playerID, ok := s.seated(c)
	if !ok {
		return
	}
	variant, err := game.ParseVariant(data.Variant)
	if err != nil {
		c.sendError(err)
		return
	}
	events, err := s.manager.HandleVariantSelection(tableID, playerID, variant)
	s.dispatch(tableID, events)
	if err != nil {
		c.sendError(err)
	}
}

func (s *Server) nextVariant(c *Connection, data VariantData) {
	tableID, playerID, ok := s.seated(c)
	if !ok {
		return
	}
	variant, err := game.ParseVariant(data.Variant)
	if err != nil {
		c.sendError(err)
		return
	}
	_, err = s.withGame(tableID, func(g *game.Game) ([]game.Event, error) {
		return nil, g.SetNextRoundVariant(playerID, variant)
	})
	if err != nil {
		c.sendError(err)
		return
	}
	s.broadcastState(tableID)
}

func (s *Server) sendState(c *Connection) {
	tableID, playerID, ok := s.seated(c)
	if !ok {
		return
	}
	snapshot, err := s.manager.ReturnGameState(tableID)
	if err != nil {
		c.sendError(err)
		return
	}
	c.reply(MessageTypeState, snapshot.Redact(playerID))
}

func (s *Server) withGame(tableID string, fn func(*game.Game) ([]game.Event, error)) ([]game.Event, error) {
	g, err := s.manager.Get(tableID)
	if err != nil {
		return nil, err
	}
	return fn(g)
}

// dispatch records events in the table's hand history and fans them out to
// the connections seated there.
func (s *Server) dispatch(tableID string, events []game.Event) {
	if len(events) == 0 {
		return
	}

	s.mu.RLock()
	ts := s.tables[tableID]
	s.mu.RUnlock()
	if ts != nil {
		if err := ts.history.Record(events); err != nil {
			s.logger.Error().Err(err).Str("table_id", tableID).Msg("Failed to record hand history")
		}
		if ts.recorder != nil {
			if err := ts.recorder.Record(events); err != nil {
				s.logger.Error().Err(err).Str("table_id", tableID).Msg("Failed to record phh")
			}
		}
	}

	snapshot, err := s.manager.ReturnGameState(tableID)
	if err != nil {
		s.logger.Warn().Err(err).Str("table_id", tableID).Msg("Dropping events for unknown table")
		return
	}
	for _, c := range s.tableConnections(tableID) {
		viewer := c.Player()
		for _, e := range events {
			c.reply(MessageTypeEvent, EventData{Type: e.EventType(), Event: redactEvent(e, viewer)})
		}
		c.reply(MessageTypeState, snapshot.Redact(viewer))
	}
}

func (s *Server) broadcastState(tableID string) {
	snapshot, err := s.manager.ReturnGameState(tableID)
	if err != nil {
		return
	}
	for _, c := range s.tableConnections(tableID) {
		c.reply(MessageTypeState, snapshot.Redact(c.Player()))
	}
}

func (s *Server) tableConnections(tableID string) []*Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var conns []*Connection
	for c := range s.connections {
		if c.Table() == tableID {
			conns = append(conns, c)
		}
	}
	return conns
}

// redactEvent removes face-down cards dealt to anyone but viewer.
func redactEvent(e game.Event, viewer string) game.Event {
	dealt, ok := e.(game.CardsDealtEvent)
	if !ok || dealt.PlayerID == "" || dealt.PlayerID == viewer {
		return e
	}
	up := make([]poker.Card, 0, len(dealt.Cards))
	for _, c := range dealt.Cards {
		if c.FaceUp {
			up = append(up, c)
		}
	}
	dealt.Cards = up
	return dealt
}
