// Package simulator plays many rounds between bots on parallel tables and
// checks the engine's bookkeeping as it goes.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokertable/internal/bot"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/phh"
	"github.com/lox/pokertable/internal/randutil"
	"github.com/lox/pokertable/internal/statistics"
)

// maxSteps bounds the engine calls in one round so a stuck table fails
// instead of spinning.
const maxSteps = 2000

// Config holds configuration for running simulations
type Config struct {
	Tables        int
	Rounds        int // per table
	Players       int // per table
	Variant       game.Variant
	Bots          []string // agent kinds, assigned to seats in turn
	Seed          int64
	SmallBlind    int
	BigBlind      int
	StartingChips int
	Timeout       time.Duration // per table
	HandHistory   game.HandHistoryWriter
	PHH           phh.Sink
	Logger        *log.Logger
}

func (c Config) withDefaults() Config {
	if c.Tables == 0 {
		c.Tables = 1
	}
	if c.Players == 0 {
		c.Players = 6
	}
	if len(c.Bots) == 0 {
		c.Bots = []string{"random"}
	}
	if c.SmallBlind == 0 {
		c.SmallBlind = 1
	}
	if c.BigBlind == 0 {
		c.BigBlind = 2 * c.SmallBlind
	}
	if c.StartingChips == 0 {
		c.StartingChips = 100 * c.BigBlind
	}
	if c.Timeout == 0 {
		c.Timeout = time.Minute
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	return c
}

func (c Config) validate() error {
	if c.Tables < 1 || c.Rounds < 1 {
		return fmt.Errorf("need at least one table and one round, got %d tables and %d rounds", c.Tables, c.Rounds)
	}
	if limit := c.Variant.MaxSeats(); c.Players < 2 || c.Players > limit {
		return fmt.Errorf("players for %s must be between 2 and %d, got %d", c.Variant, limit, c.Players)
	}
	for _, kind := range c.Bots {
		if _, err := bot.New(kind, randutil.New(0), c.Logger); err != nil {
			return err
		}
	}
	return nil
}

// TableResult summarises one table.
type TableResult struct {
	Table       int
	Rounds      int // completed rounds
	Failed      int // rounds abandoned on an exhausted deck
	Showdowns   int
	Uncontested int
	BiggestPot  int
	Variants    map[string]int
	FinalChips  map[string]int
	Stopped     string // why the table finished early, if it did
}

// Result is the outcome of a simulation.
type Result struct {
	Tables []TableResult
	// Agents holds results per agent kind, in big blinds.
	Agents map[string]*statistics.Statistics
}

// Rounds returns the completed rounds across every table.
func (r *Result) Rounds() int {
	n := 0
	for _, t := range r.Tables {
		n += t.Rounds
	}
	return n
}

// AgentKinds returns the agent kinds in the result, sorted.
func (r *Result) AgentKinds() []string {
	kinds := make([]string, 0, len(r.Agents))
	for k := range r.Agents {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Simulator runs poker round simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	return &Simulator{config: config.withDefaults()}
}

// Run plays every table concurrently. It returns the first error from any
// table, including a chip conservation failure.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if err := s.config.validate(); err != nil {
		return nil, err
	}

	tables := make([]TableResult, s.config.Tables)
	stats := make([]map[string]*statistics.Statistics, s.config.Tables)

	g, ctx := errgroup.WithContext(ctx)
	for i := range tables {
		g.Go(func() error {
			tr, st, err := s.playTable(ctx, i)
			if err != nil {
				return err
			}
			tables[i], stats[i] = tr, st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Tables: tables, Agents: make(map[string]*statistics.Statistics)}
	for _, st := range stats {
		for kind, ks := range st {
			if result.Agents[kind] == nil {
				result.Agents[kind] = &statistics.Statistics{}
			}
			result.Agents[kind].Merge(ks)
		}
	}
	for kind, ks := range result.Agents {
		if err := ks.Validate(); err != nil {
			return nil, fmt.Errorf("statistics for %s: %w", kind, err)
		}
	}
	return result, nil
}

type seat struct {
	kind  string
	agent bot.Agent
}

func (s *Simulator) playTable(ctx context.Context, table int) (TableResult, map[string]*statistics.Statistics, error) {
	cfg := s.config
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	logger := cfg.Logger.With("table", table)
	id := fmt.Sprintf("sim-%d", table)
	g, err := game.NewGame(id, cfg.Variant,
		game.WithRNG(randutil.Derive(cfg.Seed, table)),
		game.WithAutoStart(false),
		game.WithBlinds(cfg.SmallBlind, cfg.BigBlind),
		game.WithMaxPlayers(cfg.Players),
	)
	if err != nil {
		return TableResult{}, nil, err
	}

	agentRNG := randutil.Derive(cfg.Seed^0x5eed, table)
	seats := make(map[string]seat, cfg.Players)
	for i := 0; i < cfg.Players; i++ {
		kind := cfg.Bots[i%len(cfg.Bots)]
		agent, err := bot.New(kind, agentRNG, logger)
		if err != nil {
			return TableResult{}, nil, err
		}
		playerID := fmt.Sprintf("%s-%d", kind, i+1)
		if _, err := g.AddPlayer(playerID, playerID, 0, cfg.StartingChips); err != nil {
			return TableResult{}, nil, err
		}
		seats[playerID] = seat{kind: kind, agent: agent}
	}

	var history *game.HandHistory
	if cfg.HandHistory != nil {
		history = game.NewHandHistory(id, cfg.HandHistory, nil, game.FormattingOptions{})
	}
	var recorder *phh.Recorder
	if cfg.PHH != nil {
		recorder = phh.NewRecorder(id, cfg.PHH, nil)
	}

	result := TableResult{Table: table, Variants: make(map[string]int)}
	stats := make(map[string]*statistics.Statistics)
	total := g.TotalChips()

	for round := 1; round <= cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return result, nil, fmt.Errorf("table %d timed out after %v (seed %d, round %d): %w", table, cfg.Timeout, cfg.Seed, round, err)
		}

		before := chipCounts(g.ReturnGameState())
		events, err := playRound(ctx, g, seats, logger)
		if history != nil {
			if herr := history.Record(events); herr != nil {
				logger.Warn("Failed to record hand history", "error", herr)
			}
		}
		if recorder != nil {
			if rerr := recorder.Record(events); rerr != nil {
				logger.Warn("Failed to record phh", "error", rerr)
			}
		}

		switch {
		case ctx.Err() != nil:
			return result, nil, fmt.Errorf("table %d timed out after %v (seed %d, round %d): %w", table, cfg.Timeout, cfg.Seed, round, ctx.Err())
		case errors.Is(err, game.ErrRoundStartFailed):
			result.Stopped = "not enough players with chips"
			logger.Debug("Table finished early", "round", round)
		case errors.Is(err, game.ErrDeckExhausted):
			result.Failed++
			logger.Warn("Round abandoned", "round", round, "error", err)
		case err != nil:
			return result, nil, fmt.Errorf("table %d round %d (seed %d): %w", table, round, cfg.Seed, err)
		default:
			result.Rounds++
			tally(&result, stats, seats, events, before, chipCounts(g.ReturnGameState()), cfg.BigBlind)
		}

		if got := g.TotalChips(); got != total {
			return result, nil, fmt.Errorf("table %d round %d: chip conservation violated: have %d, want %d", table, round, got, total)
		}
		if result.Stopped != "" {
			break
		}
	}

	result.FinalChips = chipCounts(g.ReturnGameState())
	logger.Info("Table complete", "rounds", result.Rounds, "failed", result.Failed, "showdowns", result.Showdowns)
	return result, stats, nil
}

// playRound deals one round and drives it to completion.
func playRound(ctx context.Context, g *game.Game, seats map[string]seat, logger *log.Logger) ([]game.Event, error) {
	events, err := g.StartRound()
	if err != nil {
		return events, err
	}

	drawn := false
	for step := 0; ; step++ {
		if step > maxSteps {
			return events, fmt.Errorf("round did not finish after %d steps", maxSteps)
		}
		if err := ctx.Err(); err != nil {
			return events, err
		}

		s := g.ReturnGameState()
		if s.VariantSelectionActive {
			choice := seats[s.DealerID].agent.ChooseVariant(game.SelectableVariants)
			more, err := g.HandleVariantSelection(s.DealerID, choice)
			events = append(events, more...)
			if err != nil {
				return events, err
			}
			continue
		}
		if s.Phase == game.Waiting {
			return events, nil
		}

		if s.Phase == game.Draw && !drawn {
			drawn = true
			for _, p := range s.Players {
				if !p.Active || p.Folded {
					continue
				}
				more, err := g.Discard(p.ID, seats[p.ID].agent.Discard(p.Cards))
				events = append(events, more...)
				if errors.Is(err, game.ErrDeckExhausted) {
					return events, err
				}
				if err != nil {
					logger.Debug("Discard rejected", "player", p.ID, "error", err)
				}
			}
			continue
		}

		actor := s.ActivePlayerID
		if actor == "" {
			return events, fmt.Errorf("no player to act in phase %s", s.Phase)
		}
		allowed, err := g.GetAllowedActions(actor)
		if err != nil {
			return events, err
		}
		d := bot.NewDecision(s, actor, allowed)
		action := seats[actor].agent.MakeDecision(d)

		more, err := g.ApplyAction(actor, action)
		if errors.Is(err, game.ErrIllegalAction) {
			logger.Warn("Agent chose an illegal action", "player", actor, "action", action.String(), "error", err)
			more, err = g.ApplyAction(actor, d.Prefer(game.Check, game.Fold))
		}
		events = append(events, more...)
		if err != nil {
			return events, err
		}
	}
}

func chipCounts(s game.Snapshot) map[string]int {
	chips := make(map[string]int, len(s.Players))
	for _, p := range s.Players {
		chips[p.ID] = p.Chips
	}
	return chips
}

func tally(result *TableResult, stats map[string]*statistics.Statistics, seats map[string]seat,
	events []game.Event, before, after map[string]int, bigBlind int) {
	variant := ""
	pot := 0
	showdown := make(map[string]bool)
	uncontested := false
	for _, e := range events {
		switch e := e.(type) {
		case game.RoundStartedEvent:
			variant = e.Variant.String()
		case game.ShowdownEvent:
			for _, h := range e.Hands {
				showdown[h.PlayerID] = true
			}
		case game.PotAwardedEvent:
			pot += e.Amount
			uncontested = uncontested || e.Uncontested
		}
	}

	result.Variants[variant]++
	if len(showdown) > 0 {
		result.Showdowns++
	}
	if uncontested {
		result.Uncontested++
	}
	result.BiggestPot = max(result.BiggestPot, pot)

	bb := float64(bigBlind)
	for id, start := range before {
		end, ok := after[id]
		if !ok || start == 0 {
			continue
		}
		st := seats[id]
		if stats[st.kind] == nil {
			stats[st.kind] = &statistics.Statistics{}
		}
		stats[st.kind].Add(statistics.HandResult{
			NetBB:          float64(end-start) / bb,
			Variant:        variant,
			WentToShowdown: showdown[id],
			PotBB:          float64(pot) / bb,
		})
	}
}
