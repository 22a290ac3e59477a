package game

import (
	"fmt"
	"time"
)

// startDealerVariantSelection opens the Dealer's Choice window and arms the
// fallback timer. Setup resumes from HandleVariantSelection or the timer,
// whichever resolves first.
func (g *Game) startDealerVariantSelection(timeout time.Duration) []Event {
	g.variantSelectionActive = true
	g.phase = Waiting
	g.selectionGen++
	gen := g.selectionGen
	g.selectionTimer = g.clock.AfterFunc(timeout, func() {
		g.selectionTimedOut(gen)
	}, "game", "variant-selection")

	g.logger.Debug().
		Str("dealer", g.dealerID).
		Dur("timeout", timeout).
		Msg("Waiting for dealer to choose variant")

	return []Event{VariantSelectionStartedEvent{
		DealerID:  g.dealerID,
		TimeoutMs: timeout.Milliseconds(),
		Options:   append([]Variant(nil), SelectableVariants...),
	}}
}

// HandleVariantSelection resolves an open selection with the dealer's pick.
func (g *Game) HandleVariantSelection(playerID string, variant Variant) ([]Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if playerID != g.dealerID || g.dealerID == "" {
		return nil, fmt.Errorf("%w: %s is not the dealer", ErrNotDealer, playerID)
	}
	if !g.variantSelectionActive {
		return nil, ErrSelectionNotActive
	}
	if !selectable(variant) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidVariant, variant)
	}
	return g.resolveSelection(variant, false)
}

// selectionTimedOut is the timer arm of the resolve-once gate. A timer
// from an earlier selection, or one that lost the race to the dealer, finds
// a different generation or an inactive selection and does nothing.
func (g *Game) selectionTimedOut(gen uint64) {
	g.mu.Lock()
	if !g.variantSelectionActive || g.selectionGen != gen {
		g.mu.Unlock()
		return
	}
	g.logger.Info().Str("dealer", g.dealerID).Msg("Variant selection timed out, defaulting to texas-holdem")
	events, err := g.resolveSelection(TexasHoldEm, true)
	g.mu.Unlock()

	if err != nil {
		g.logger.Warn().Err(err).Msg("Round setup after selection timeout failed")
	}
	g.publish(events)
}

func (g *Game) resolveSelection(variant Variant, timedOut bool) ([]Event, error) {
	g.stopSelectionTimer()
	g.variantSelectionActive = false
	g.dealerSelectedVariant = variant
	g.hasDealerSelection = true

	events := []Event{VariantSelectedEvent{DealerID: g.dealerID, Variant: variant, TimedOut: timedOut}}
	more, err := g.continueRoundSetup(variant)
	return append(events, more...), err
}

// cancelSelection abandons any open selection and invalidates its timer.
func (g *Game) cancelSelection() {
	g.stopSelectionTimer()
	if g.variantSelectionActive {
		g.logger.Debug().Str("dealer", g.dealerID).Msg("Variant selection cancelled")
	}
	g.variantSelectionActive = false
	g.selectionGen++
}

func (g *Game) stopSelectionTimer() {
	if g.selectionTimer != nil {
		g.selectionTimer.Stop()
		g.selectionTimer = nil
	}
}

// SetNextRoundVariant lets the current dealer choose the next hand's variant
// ahead of time. The choice is used once, by the next StartRound.
func (g *Game) SetNextRoundVariant(playerID string, variant Variant) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if playerID != g.dealerID || g.dealerID == "" {
		return fmt.Errorf("%w: %s is not the dealer", ErrNotDealer, playerID)
	}
	if !selectable(variant) {
		return fmt.Errorf("%w: %s", ErrInvalidVariant, variant)
	}
	g.nextRoundVariant = variant
	g.hasNextRoundVariant = true
	return nil
}
