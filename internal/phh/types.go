// Package phh exports rounds in the Poker Hand History (PHH) TOML format.
package phh

import "time"

// HandHistory is one hand as PHH fields. Per-player slices are indexed by the
// PHH seat label: element i belongs to player p(i+1).
type HandHistory struct {
	// Game.
	Variant string `toml:"variant"`
	Table   string `toml:"table,omitempty"`
	MinBet  int    `toml:"min_bet"`

	// Seating and stacks.
	SeatCount         int      `toml:"seat_count,omitempty"`
	Seats             []int    `toml:"seats,omitempty"`
	Players           []string `toml:"players,omitempty"`
	Antes             []int    `toml:"antes"`
	BlindsOrStraddles []int    `toml:"blinds_or_straddles"`
	StartingStacks    []int    `toml:"starting_stacks"`
	FinishingStacks   []int    `toml:"finishing_stacks,omitempty"`
	Winnings          []int    `toml:"winnings,omitempty"`

	// Play, in PHH action notation ("d dh p1 AsKs", "p2 cbr 30", ...).
	Actions []string `toml:"actions"`

	HandID   string         `toml:"hand"`
	Metadata map[string]any `toml:"metadata,omitempty"`

	// When the hand started, split the way PHH records it.
	Time     string `toml:"time,omitempty"`
	TimeZone string `toml:"time_zone,omitempty"`
	Day      int    `toml:"day,omitempty"`
	Month    int    `toml:"month,omitempty"`
	Year     int    `toml:"year,omitempty"`

	Timestamp time.Time `toml:"-"`
}
