package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lox/pokertable/cmd/pokertable/shared"
	"github.com/lox/pokertable/internal/config"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/phh"
	"github.com/lox/pokertable/internal/server"
	"github.com/lox/pokertable/internal/table"
)

// ServeCmd runs the websocket server for the tables in an HCL config file.
type ServeCmd struct {
	Config string `kong:"short='c',default='pokertable.hcl',type='path',help='HCL config file (defaults are used when missing)'"`
	Addr   string `kong:"help='Listen address, overriding the config file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	JSON   bool   `kong:"help='Log structured JSON instead of console output'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed; table i is seeded with seed+i'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := shared.NewLogger(shared.ParseLevel(cfg.Server.LogLevel, c.Debug), c.JSON)

	var writer game.HandHistoryWriter = game.NoOpHandHistoryWriter{}
	if cfg.Server.HandHistoryDir != "" {
		writer = game.NewFileHandHistoryWriter(cfg.Server.HandHistoryDir)
	}

	serverOpts := []server.Option{server.WithHandHistory(writer)}
	var sinks phh.MultiSink
	if cfg.Server.PHHDir != "" {
		sinks = append(sinks, phh.NewDirSink(cfg.Server.PHHDir))
	}
	if cfg.Server.PHHDatabase != "" {
		store, err := phh.OpenStore(cfg.Server.PHHDatabase)
		if err != nil {
			return err
		}
		defer store.Close()
		sinks = append(sinks, store)
	}
	if len(sinks) > 0 {
		serverOpts = append(serverOpts, server.WithPHH(sinks))
	}
	if v := cfg.Validator(); v != nil {
		serverOpts = append(serverOpts, server.WithAuth(v))
	}

	manager := table.NewManager(logger)
	srv := server.NewServer(manager, logger, serverOpts...)

	for i, tc := range cfg.Tables {
		opts := tc.GameOptions()
		if c.Seed != nil {
			opts = append(opts, game.WithSeed(*c.Seed+int64(i)))
		}
		id, _, err := manager.Create(tc.Name, tc.GameVariant(), opts...)
		if err != nil {
			return err
		}
		if err := srv.Attach(id, tc.StartingChips); err != nil {
			return err
		}
		logger.Info().
			Str("table_id", id).
			Str("name", tc.Name).
			Str("variant", tc.Variant).
			Int("small_blind", tc.SmallBlind).
			Int("big_blind", tc.BigBlind).
			Int("max_players", tc.MaxPlayers).
			Msg("Table ready")
	}

	addr := cfg.Address()
	if c.Addr != "" {
		addr = c.Addr
	}

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown error")
		return err
	}
	logger.Info().Msg("Server stopped")
	return nil
}
