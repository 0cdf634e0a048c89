package budget

import (
	"fmt"
	"strings"
)

// Default tolerances for the phantom-median mechanism. These are accuracy
// knobs, not magic numbers: SlopeEpsilon is the forward-difference step used
// to probe the aggregate curve, SegmentTolerance the slack allowed when
// bracketing the requested total, and FloorTolerance the nudge added before
// flooring so float noise cannot floor a true integer down by one.
const (
	DefaultSlopeEpsilon     = 1e-8
	DefaultSegmentTolerance = 1e-9
	DefaultFloorTolerance   = 1e-11
)

// SolveStrategy selects how the solver locates the breakpoint segment that
// brackets the requested total.
type SolveStrategy int

const (
	// StrategyScan walks the breakpoint segments left to right.
	StrategyScan SolveStrategy = iota
	// StrategyBisect binary-searches the breakpoints for the first candidate
	// segment and applies the same acceptance test as the scan from there.
	// The two strategies return identical results for identical inputs.
	StrategyBisect
)

func (s SolveStrategy) String() string {
	if s == StrategyBisect {
		return "bisect"
	}
	return "scan"
}

// ParseStrategy maps a config string onto a SolveStrategy.
func ParseStrategy(name string) (SolveStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "scan":
		return StrategyScan, nil
	case "bisect", "binary":
		return StrategyBisect, nil
	default:
		return StrategyScan, fmt.Errorf("budget: unknown solve strategy %q", name)
	}
}

// Mechanism turns many individual budget proposals into one collective
// budget. Every subject is funded at the median of the submitted amounts
// with two extra values inserted, a zero and a shared phantom value x. The
// phantom is tuned until the per-subject medians sum to the requested total,
// then the continuous result is apportioned into integers that hit the total
// exactly.
type Mechanism struct {
	SlopeEpsilon     float64
	SegmentTolerance float64
	FloorTolerance   float64
	Strategy         SolveStrategy
}

// DefaultMechanism returns a Mechanism with the default tolerances and the
// scan strategy.
func DefaultMechanism() Mechanism {
	return Mechanism{
		SlopeEpsilon:     DefaultSlopeEpsilon,
		SegmentTolerance: DefaultSegmentTolerance,
		FloorTolerance:   DefaultFloorTolerance,
		Strategy:         StrategyScan,
	}
}

// Outcome is the full result of one aggregation call.
type Outcome struct {
	// Phantom is the solved phantom value x*.
	Phantom float64
	// Continuous holds the per-subject medians at x*. They sum to the
	// requested total up to float error.
	Continuous []float64
	// Allocation is the integer budget. It sums to the requested total
	// exactly.
	Allocation []int
}

// Aggregate runs the mechanism and returns only the integer allocation.
func (m Mechanism) Aggregate(total int, votes [][]float64) ([]int, error) {
	outcome, err := m.AggregateDetailed(total, votes)
	if err != nil {
		return nil, err
	}
	return outcome.Allocation, nil
}

// AggregateDetailed runs the mechanism on one vote matrix. votes holds one
// row per citizen, each row the citizen's proposed amount per subject; all
// rows must have the same length and contain only finite non-negative
// amounts. The returned allocation always sums to total.
func (m Mechanism) AggregateDetailed(total int, votes [][]float64) (Outcome, error) {
	if total < 0 {
		return Outcome{}, fmt.Errorf("budget: requested total %d is negative", total)
	}
	if len(votes) == 0 {
		return Outcome{Continuous: []float64{}, Allocation: []int{}}, nil
	}

	t, err := newTally(votes)
	if err != nil {
		return Outcome{}, err
	}

	subjects := t.numSubjects()
	if subjects == 0 {
		if total > 0 {
			return Outcome{}, fmt.Errorf("budget: no subjects to allocate %d across", total)
		}
		return Outcome{Continuous: []float64{}, Allocation: []int{}}, nil
	}
	if total == 0 {
		return Outcome{
			Continuous: make([]float64, subjects),
			Allocation: make([]int, subjects),
		}, nil
	}

	// The aggregate is non-decreasing in the phantom, so its value at
	// phantom zero is the least total the mechanism can produce. Totals
	// below it cannot be met and would break the exact-sum guarantee.
	want := float64(total)
	least, _ := t.totalAndSlope(0, m.SlopeEpsilon)

	var phantom float64
	switch {
	case want < least-m.SegmentTolerance:
		return Outcome{}, fmt.Errorf("budget: total %d is below the minimum achievable aggregate %.6f", total, least)
	case want <= least:
		phantom = 0
	default:
		phantom = m.solvePhantom(t, want)
	}

	continuous := t.allocationsAt(phantom)
	return Outcome{
		Phantom:    phantom,
		Continuous: continuous,
		Allocation: m.apportion(continuous, total),
	}, nil
}

// Aggregate runs the mechanism with the default tolerances.
func Aggregate(total int, votes [][]float64) ([]int, error) {
	return DefaultMechanism().Aggregate(total, votes)
}
