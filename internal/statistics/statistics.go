// Package statistics accumulates per-agent results from simulated rounds.
package statistics

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// HandResult is one agent's outcome for one round.
type HandResult struct {
	NetBB          float64 // net big blinds won or lost
	Variant        string  // variant the round was dealt as
	WentToShowdown bool
	PotBB          float64 // total awarded in the round, in big blinds
}

// Bucket tracks results for one slice of the data.
type Bucket struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
}

func (b *Bucket) add(v float64) {
	b.Hands++
	b.SumBB += v
	b.SumBB2 += v * v
}

func (b *Bucket) merge(o Bucket) {
	b.Hands += o.Hands
	b.SumBB += o.SumBB
	b.SumBB2 += o.SumBB2
}

func (s *Statistics) variant(name string) *Bucket {
	if s.ByVariant == nil {
		s.ByVariant = make(map[string]*Bucket)
	}
	b := s.ByVariant[name]
	if b == nil {
		b = &Bucket{}
		s.ByVariant[name] = b
	}
	return b
}

// Mean returns the average result in big blinds per hand.
func (b Bucket) Mean() float64 {
	if b.Hands == 0 {
		return 0
	}
	return b.SumBB / float64(b.Hands)
}

// Statistics tracks results for one agent across many rounds.
type Statistics struct {
	Bucket
	Values []float64 // every result, for median and percentiles

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64 // wins and losses at showdown
	NonShowdownBB   float64 // wins and losses without showdown
	AllBB           float64

	ByVariant map[string]*Bucket

	MaxPotBB  float64
	BigPots   int     // pots of 50bb or more
	BigPotsBB float64 // net from big pots
}

// Variance returns the sample variance of all results.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of all results.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates one round.
func (s *Statistics) Add(result HandResult) {
	netBB := result.NetBB
	s.add(netBB)
	s.Values = append(s.Values, netBB)

	if netBB > 0 {
		if result.WentToShowdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}
	if result.WentToShowdown {
		s.ShowdownBB += netBB
	} else {
		s.NonShowdownBB += netBB
	}
	s.AllBB += netBB

	s.variant(result.Variant).add(netBB)

	if result.PotBB > s.MaxPotBB {
		s.MaxPotBB = result.PotBB
	}
	if result.PotBB >= 50 {
		s.BigPots++
		s.BigPotsBB += netBB
	}
}

// Merge folds o into s.
func (s *Statistics) Merge(o *Statistics) {
	s.Bucket.merge(o.Bucket)
	s.Values = append(s.Values, o.Values...)
	s.ShowdownWins += o.ShowdownWins
	s.NonShowdownWins += o.NonShowdownWins
	s.ShowdownBB += o.ShowdownBB
	s.NonShowdownBB += o.NonShowdownBB
	s.AllBB += o.AllBB
	s.MaxPotBB = max(s.MaxPotBB, o.MaxPotBB)
	s.BigPots += o.BigPots
	s.BigPotsBB += o.BigPotsBB
	for v, ob := range o.ByVariant {
		s.variant(v).merge(*ob)
	}
}

// Variants returns the variant names seen, sorted.
func (s *Statistics) Variants() []string {
	return slices.Sorted(maps.Keys(s.ByVariant))
}

// Median returns the median result.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the interpolated value at p, from 0.0 to 1.0.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks that the showdown split accounts for every result.
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) <= 1e-6
}

// Validate checks the internal consistency of the totals.
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllBB=%.6f, ShowdownBB=%.6f, NonShowdownBB=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)", len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("total wins (%d) exceeds total hands (%d)", wins, s.Hands)
	}
	variantHands := 0
	for _, b := range s.ByVariant {
		variantHands += b.Hands
	}
	if variantHands != s.Hands {
		return fmt.Errorf("variant hands total (%d) does not match total hands (%d)", variantHands, s.Hands)
	}
	return nil
}
