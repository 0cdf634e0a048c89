package budget

import (
	"fmt"
	"math"
	"sort"
)

// tally holds the per-subject sorted submissions and the breakpoint set for
// one aggregation call. It is derived once from the vote matrix and
// read-only afterwards.
type tally struct {
	// subjects[j] is every citizen's amount for subject j, ascending.
	subjects [][]float64
	// breakpoints are the distinct submitted amounts plus zero, ascending.
	// The aggregate is linear between consecutive breakpoints.
	breakpoints []float64
}

func newTally(votes [][]float64) (*tally, error) {
	width := len(votes[0])
	for i, row := range votes {
		if len(row) != width {
			return nil, fmt.Errorf("budget: citizen %d submitted %d amounts, want %d", i, len(row), width)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return nil, fmt.Errorf("budget: citizen %d subject %d has invalid amount %v", i, j, v)
			}
		}
	}

	subjects := make([][]float64, width)
	for j := range subjects {
		col := make([]float64, len(votes))
		for i := range votes {
			col[i] = votes[i][j]
		}
		sort.Float64s(col)
		subjects[j] = col
	}

	seen := map[float64]struct{}{0: {}}
	breakpoints := []float64{0}
	for _, col := range subjects {
		for _, v := range col {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				breakpoints = append(breakpoints, v)
			}
		}
	}
	sort.Float64s(breakpoints)

	return &tally{subjects: subjects, breakpoints: breakpoints}, nil
}

func (t *tally) numSubjects() int { return len(t.subjects) }

// phantomMedian returns the median of one subject's submissions with a zero
// and the phantom x inserted. sorted must be ascending. With the two extra
// values the result is a continuous non-decreasing function of x whose kinks
// sit on submitted amounts.
func phantomMedian(sorted []float64, x float64) float64 {
	merged := make([]float64, 0, len(sorted)+2)
	merged = append(merged, sorted...)
	merged = append(merged, 0, x)
	sort.Float64s(merged)

	n := len(merged)
	if n%2 == 1 {
		return merged[n/2]
	}
	return (merged[n/2-1] + merged[n/2]) / 2
}

// totalAndSlope evaluates the aggregate allocation at phantom x together
// with its local slope, probed by a forward difference of eps. Subjects
// whose median does not move at x contribute nothing to the slope.
func (t *tally) totalAndSlope(x, eps float64) (float64, float64) {
	total, slope := 0.0, 0.0
	for _, col := range t.subjects {
		now := phantomMedian(col, x)
		next := phantomMedian(col, x+eps)
		total += now
		if next > now {
			slope += (next - now) / eps
		}
	}
	return total, slope
}

// allocationsAt returns every subject's continuous allocation at phantom x.
func (t *tally) allocationsAt(x float64) []float64 {
	out := make([]float64, len(t.subjects))
	for j, col := range t.subjects {
		out[j] = phantomMedian(col, x)
	}
	return out
}
