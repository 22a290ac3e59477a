package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/pokertable/cmd/pokertable/shared"
	"github.com/lox/pokertable/internal/bot"
	"github.com/lox/pokertable/internal/display"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/phh"
	"github.com/lox/pokertable/internal/simulator"
)

// SimulateCmd plays bots against each other on parallel tables.
type SimulateCmd struct {
	Tables         int           `kong:"default='4',help='Tables to run in parallel'"`
	Rounds         int           `kong:"default='1000',help='Rounds per table'"`
	Players        int           `kong:"default='6',help='Players per table'"`
	Variant        string        `kong:"default='texas-holdem',help='Table variant (texas-holdem, omaha, omaha-hi-lo, chicago, five-card-draw, seven-card-stud, dealers-choice)'"`
	Bots           []string      `kong:"default='random,call,chart',help='Bot kinds assigned to seats in turn'"`
	SmallBlind     int           `kong:"default='1',help='Small blind amount'"`
	BigBlind       int           `kong:"default='2',help='Big blind amount'"`
	StartingChips  int           `kong:"default='200',help='Starting chips per player'"`
	Seed           int64         `kong:"default='0',help='RNG seed (0 for random)'"`
	Timeout        time.Duration `kong:"default='60s',help='Per-table time limit'"`
	HandHistoryDir string        `kong:"help='Write a text hand history for every round to this directory'"`
	PHHDir         string        `kong:"name='phh-dir',help='Write every settled round as a .phh file to this directory'"`
	PHHDatabase    string        `kong:"name='phh-db',help='Store every settled round in this SQLite file or postgres:// URL'"`
	Verbose        bool          `kong:"short='V',help='Verbose logging'"`
	NoColor        bool          `kong:"help='Disable coloured output'"`
}

func (c *SimulateCmd) Run() error {
	level := log.InfoLevel
	if c.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "simulate",
	})

	variant, err := game.ParseVariant(c.Variant)
	if err != nil {
		return err
	}
	for _, kind := range c.Bots {
		if _, err := bot.New(kind, nil, logger); err != nil {
			return fmt.Errorf("%w (choose from %s)", err, strings.Join(bot.Kinds, ", "))
		}
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("Starting simulation", "tables", c.Tables, "rounds", c.Rounds, "variant", variant, "seed", seed)

	var history game.HandHistoryWriter
	if c.HandHistoryDir != "" {
		history = game.NewFileHandHistoryWriter(c.HandHistoryDir)
	}

	var sinks phh.MultiSink
	if c.PHHDir != "" {
		sinks = append(sinks, phh.NewDirSink(c.PHHDir))
	}
	if c.PHHDatabase != "" {
		store, err := phh.OpenStore(c.PHHDatabase)
		if err != nil {
			return err
		}
		defer store.Close()
		sinks = append(sinks, store)
	}
	var phhSink phh.Sink
	if len(sinks) > 0 {
		phhSink = sinks
	}

	ctx := shared.SetupSignalHandler(logger)
	start := time.Now()
	result, err := simulator.New(simulator.Config{
		Tables:        c.Tables,
		Rounds:        c.Rounds,
		Players:       c.Players,
		Variant:       variant,
		Bots:          c.Bots,
		Seed:          seed,
		SmallBlind:    c.SmallBlind,
		BigBlind:      c.BigBlind,
		StartingChips: c.StartingChips,
		Timeout:       c.Timeout,
		HandHistory:   history,
		PHH:           phhSink,
		Logger:        logger,
	}).Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed (seed %d): %w", seed, err)
	}

	r := display.New(os.Stdout, !c.NoColor)
	fmt.Println(r.Styles().Header.Render(fmt.Sprintf("%d rounds • %s • seed %d • %v", result.Rounds(), variant, seed, time.Since(start).Round(time.Millisecond))))
	fmt.Println(r.Table(
		[]string{"Table", "Rounds", "Failed", "Showdowns", "Uncontested", "Biggest pot", "Note"},
		tableRows(result),
	))
	fmt.Println(r.Table(
		[]string{"Bot", "Hands", "bb/hand", "95% CI", "Showdown bb", "Non-showdown bb", "Big pots"},
		agentRows(result),
	))
	return nil
}

func tableRows(result *simulator.Result) [][]string {
	rows := make([][]string, 0, len(result.Tables))
	for _, t := range result.Tables {
		rows = append(rows, []string{
			fmt.Sprint(t.Table),
			fmt.Sprint(t.Rounds),
			fmt.Sprint(t.Failed),
			fmt.Sprint(t.Showdowns),
			fmt.Sprint(t.Uncontested),
			fmt.Sprint(t.BiggestPot),
			t.Stopped,
		})
	}
	return rows
}

func agentRows(result *simulator.Result) [][]string {
	rows := make([][]string, 0, len(result.Agents))
	for _, kind := range result.AgentKinds() {
		s := result.Agents[kind]
		lo, hi := s.ConfidenceInterval95()
		rows = append(rows, []string{
			kind,
			fmt.Sprint(s.Hands),
			fmt.Sprintf("%+.3f", s.Mean()),
			fmt.Sprintf("[%+.3f, %+.3f]", lo, hi),
			fmt.Sprintf("%+.1f", s.ShowdownBB),
			fmt.Sprintf("%+.1f", s.NonShowdownBB),
			fmt.Sprint(s.BigPots),
		})
	}
	return rows
}
