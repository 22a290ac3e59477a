// Package game implements the rules engine for a single poker table.
//
// The main type is Game, which owns the seated players, the deck, the main
// pot and sidepots, and drives a round through the phases of its variant:
//
//	texas-holdem, omaha, omaha-hi-lo, chicago: waiting, preflop, flop, turn, river, showdown
//	five-card-draw:                            waiting, predraw, draw, showdown
//	seven-card-stud:                           waiting, thirdstreet .. seventhstreet, showdown
//
// Dealer's Choice tables ask the dealer to pick one of the above before each
// hand and fall back to Texas Hold'em when the selection times out.
//
// # Basic Usage
//
//	g, _ := game.NewGame("table-1", game.TexasHoldEm, game.WithBlinds(5, 10))
//	g.AddPlayer("alice", "Alice", 0, 1000)
//	g.AddPlayer("bob", "Bob", 0, 1000)
//	events, err := g.StartRound()
//	...
//	events, err = g.ApplyAction("alice", game.Action{Kind: game.Call})
//
// Every mutating call returns the events it produced; the caller decides how
// to deliver them. Events raised by the selection timer are delivered to
// functions registered with Subscribe.
//
// # Deterministic Testing
//
// Shuffles come from an injected *rand.Rand and the selection timer from an
// injected quartz.Clock:
//
//	g, _ := game.NewGame("t", game.DealersChoice,
//		game.WithSeed(42),
//		game.WithClock(quartz.NewMock(t)),
//	)
//
// Scripted hands can be dealt from stacked decks with WithStackedDecks.
package game
