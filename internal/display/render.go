package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/poker"
)

// Card renders one card in its suit colour.
func (r *Renderer) Card(c poker.Card) string {
	if c.Suit == poker.Hearts || c.Suit == poker.Diamonds {
		return r.styles.RedCard.Render(c.String())
	}
	return r.styles.BlackCard.Render(c.String())
}

// Cards renders cards separated by spaces, followed by a placeholder for
// each of hidden face-down cards.
func (r *Renderer) Cards(cards []poker.Card, hidden int) string {
	parts := make([]string, 0, len(cards)+hidden)
	for _, c := range cards {
		parts = append(parts, r.Card(c))
	}
	for i := 0; i < hidden; i++ {
		parts = append(parts, r.styles.HiddenCard.Render("##"))
	}
	if len(parts) == 0 {
		return r.styles.Info.Render("-")
	}
	return strings.Join(parts, " ")
}

// Snapshot renders a table as seen by the snapshot's holder. Redact the
// snapshot first to hide other players' cards.
func (r *Renderer) Snapshot(s game.Snapshot) string {
	var b strings.Builder

	b.WriteString(r.styles.Header.Render(fmt.Sprintf("Round %d • %s • %s", s.RoundCount, s.RoundVariant, s.Phase)))
	b.WriteString("\n")
	if len(s.CommunityCards) > 0 {
		fmt.Fprintf(&b, "%s %s\n", r.styles.Label.Render("Board:"), r.Cards(s.CommunityCards, 0))
	}
	fmt.Fprintf(&b, "%s %d", r.styles.Label.Render("Pot:"), s.Pot)
	for i, sp := range s.Sidepots {
		fmt.Fprintf(&b, "  side %d: %d", i+1, sp.Amount)
	}
	b.WriteString("\n")

	rows := make([][]string, 0, len(s.Players))
	for _, p := range s.Players {
		name := p.Username
		if name == "" {
			name = p.ID
		}
		var marks []string
		if p.ID == s.DealerID {
			marks = append(marks, "D")
		}
		if p.AllIn {
			marks = append(marks, "all-in")
		}
		status := strings.Join(marks, " ")

		switch {
		case p.Folded:
			name = r.styles.Folded.Render(name)
		case p.ID == s.ActivePlayerID:
			name = r.styles.Active.Render("> " + name)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.Seat),
			name,
			fmt.Sprintf("%d", p.Chips),
			fmt.Sprintf("%d", p.CurrentBet),
			r.Cards(p.Cards, p.HiddenCards),
			status,
		})
	}
	b.WriteString(r.Table([]string{"Seat", "Player", "Chips", "Bet", "Cards", ""}, rows))
	return b.String()
}

// Table renders rows under headers with a plain border.
func (r *Renderer) Table(headers []string, rows [][]string) string {
	header := r.styles.Label
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.styles.Info).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.Padding(0, 1)
			}
			return r.lg.NewStyle().Padding(0, 1)
		}).
		String()
}

// Event renders one formatted event line, coloured by kind. Lines the
// formatter drops come back empty.
func (r *Renderer) Event(ef *game.EventFormatter, e game.Event) string {
	line := ef.Format(e)
	if line == "" {
		return ""
	}
	switch e.(type) {
	case game.RoundStartedEvent, game.PhaseChangedEvent:
		return r.styles.Label.Render(line)
	case game.PotAwardedEvent:
		return r.styles.Success.Render(line)
	case game.RoundFailedEvent:
		return r.styles.Error.Render(line)
	case game.VariantSelectionStartedEvent, game.VariantSelectedEvent:
		return r.styles.Warning.Render(line)
	}
	return line
}

// HandResult renders an evaluated hand.
func (r *Renderer) HandResult(cards []poker.Card, h poker.HandResult) string {
	return fmt.Sprintf("%s  %s %s", r.Cards(cards, 0), r.styles.Label.Render(h.Description), r.styles.Info.Render(fmt.Sprintf("(%s, score %.0f)", h.Category, h.Score)))
}
