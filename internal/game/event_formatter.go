package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lox/pokertable/poker"
)

// FormattingOptions controls how events are rendered as text.
type FormattingOptions struct {
	ShowHoleCards bool              // include face-down cards dealt to every player
	Perspective   string            // player id whose own cards are always shown
	Names         map[string]string // player id to display name
}

// EventFormatter renders engine events as hand-history style lines.
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format returns one line for e, or "" for events with nothing to show.
func (ef *EventFormatter) Format(e Event) string {
	switch e := e.(type) {
	case RoundStartedEvent:
		return fmt.Sprintf("=== Round %d • %s • dealer %s ===", e.Round, e.Variant, ef.name(e.DealerID))
	case RoundFailedEvent:
		return fmt.Sprintf("Round %d failed: %s", e.Round, e.Reason)
	case RoundEndedEvent:
		return fmt.Sprintf("=== Round %d complete ===", e.Round)
	case VariantSelectionStartedEvent:
		return fmt.Sprintf("%s is choosing the game (%ds)", ef.name(e.DealerID), e.TimeoutMs/1000)
	case VariantSelectedEvent:
		if e.TimedOut {
			return fmt.Sprintf("%s ran out of time, playing %s", ef.name(e.DealerID), e.Variant)
		}
		return fmt.Sprintf("%s chose %s", ef.name(e.DealerID), e.Variant)
	case BlindPostedEvent:
		kind := "small"
		if e.Big {
			kind = "big"
		}
		line := fmt.Sprintf("%s: posts %s blind %d", ef.name(e.PlayerID), kind, e.Amount)
		if e.AllIn {
			line += " and is all-in"
		}
		return line
	case CardsDealtEvent:
		return ef.formatDeal(e)
	case CardsDiscardedEvent:
		if e.Count == 0 {
			return fmt.Sprintf("%s: stands pat", ef.name(e.PlayerID))
		}
		return fmt.Sprintf("%s: discards %d", ef.name(e.PlayerID), e.Count)
	case PlayerActedEvent:
		return ef.formatAction(e)
	case PhaseChangedEvent:
		return ef.formatPhase(e)
	case SidepotCreatedEvent:
		return fmt.Sprintf("Side pot %d: %d", e.Index, e.Amount)
	case ShowdownEvent:
		lines := make([]string, 0, len(e.Hands))
		for _, h := range e.Hands {
			line := fmt.Sprintf("%s: shows [%s] (%s)", ef.name(h.PlayerID), ef.formatCards(h.Cards), h.Hand.Description)
			if h.Low != nil && h.Low.Qualified {
				line += fmt.Sprintf(" low %s", h.Low.Description)
			}
			lines = append(lines, line)
		}
		return strings.Join(lines, "\n")
	case PotAwardedEvent:
		return ef.formatAward(e)
	}
	return ""
}

func (ef *EventFormatter) formatAction(e PlayerActedEvent) string {
	name := ef.name(e.PlayerID)
	var line string
	switch e.Action {
	case Fold:
		line = fmt.Sprintf("%s: folds", name)
	case Check:
		line = fmt.Sprintf("%s: checks", name)
	case Call:
		line = fmt.Sprintf("%s: calls %d (pot now: %d)", name, e.Amount, e.Pot)
	case Bet:
		line = fmt.Sprintf("%s: bets %d (pot now: %d)", name, e.Amount, e.Pot)
	case Raise:
		line = fmt.Sprintf("%s: raises %d (pot now: %d)", name, e.Amount, e.Pot)
	default:
		line = fmt.Sprintf("%s: %s %d", name, e.Action, e.Amount)
	}
	if e.AllIn {
		line += " and is all-in"
	}
	return line
}

func (ef *EventFormatter) formatPhase(e PhaseChangedEvent) string {
	board := ef.formatCards(e.CommunityCards)
	switch {
	case e.Phase == Showdown && board != "":
		return fmt.Sprintf("*** SHOWDOWN *** [%s]", board)
	case e.Phase == Turn && len(e.CommunityCards) >= 4:
		return fmt.Sprintf("*** TURN *** [%s] [%s]", ef.formatCards(e.CommunityCards[:3]), e.CommunityCards[3])
	case e.Phase == River && len(e.CommunityCards) >= 5:
		return fmt.Sprintf("*** RIVER *** [%s] [%s]", ef.formatCards(e.CommunityCards[:4]), e.CommunityCards[4])
	case board != "":
		return fmt.Sprintf("*** %s *** [%s]", strings.ToUpper(e.Phase.String()), board)
	}
	return fmt.Sprintf("*** %s ***", strings.ToUpper(e.Phase.String()))
}

func (ef *EventFormatter) formatDeal(e CardsDealtEvent) string {
	if e.PlayerID == "" {
		return ""
	}
	shown := e.Cards
	if !ef.opts.ShowHoleCards && e.PlayerID != ef.opts.Perspective {
		shown = nil
		for _, c := range e.Cards {
			if c.FaceUp {
				shown = append(shown, c)
			}
		}
	}
	if len(shown) == 0 {
		return ""
	}
	return fmt.Sprintf("Dealt to %s: [%s]", ef.name(e.PlayerID), ef.formatCards(shown))
}

func (ef *EventFormatter) formatAward(e PotAwardedEvent) string {
	pot := "main pot"
	if e.Pot > 0 {
		pot = fmt.Sprintf("side pot %d", e.Pot)
	}
	if e.Low {
		pot += " (low)"
	}
	ids := append([]string(nil), e.Winners...)
	sort.Strings(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s %d", ef.name(id), e.Shares[id]))
	}
	line := fmt.Sprintf("%s collects %s", strings.Join(parts, ", "), pot)
	if e.Description != "" {
		line += " with " + e.Description
	}
	return line
}

func (ef *EventFormatter) name(id string) string {
	if n, ok := ef.opts.Names[id]; ok && n != "" {
		return n
	}
	return id
}

func (ef *EventFormatter) formatCards(cards []poker.Card) string {
	return poker.FormatCards(cards)
}
