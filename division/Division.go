package division

import (
	"fmt"
	"math"
	"sort"
)

// Cost stand-in for log(0) cells in the max-product rule: large enough to
// dominate any realistic log-sum, small enough to keep the potentials
// finite.
const zeroValuePenalty = 1e9

// UtilitarianAssignment assigns one task per agent maximizing the summed
// value. Returns the chosen column per agent and the achieved sum.
func UtilitarianAssignment(value [][]float64) ([]int, float64, error) {
	if len(value) == 0 {
		return []int{}, 0, nil
	}
	cost := make([][]float64, len(value))
	for i, row := range value {
		neg := make([]float64, len(row))
		for j, v := range row {
			neg[j] = -v
		}
		cost[i] = neg
	}
	assign, _, err := MinCostAssignment(cost)
	if err != nil {
		return nil, 0, err
	}
	total := 0.0
	for i, j := range assign {
		total += value[i][j]
	}
	return assign, total, nil
}

// MaxProductAssignment assigns one task per agent maximizing the product of
// values, by minimizing the sum of negated logs. Zero-valued cells carry a
// flat penalty so they are chosen only when nothing else completes the
// assignment. Returns the chosen column per agent and the achieved product.
func MaxProductAssignment(value [][]float64) ([]int, float64, error) {
	if len(value) == 0 {
		return []int{}, 1, nil
	}
	cost := make([][]float64, len(value))
	for i, row := range value {
		logs := make([]float64, len(row))
		for j, v := range row {
			if v > 0 {
				logs[j] = -math.Log(v)
			} else {
				logs[j] = zeroValuePenalty
			}
		}
		cost[i] = logs
	}
	assign, _, err := MinCostAssignment(cost)
	if err != nil {
		return nil, 0, err
	}
	product := 1.0
	for i, j := range assign {
		product *= value[i][j]
	}
	return assign, product, nil
}

// EgalitarianAssignment assigns one task per agent maximizing the worst
// agent's value: binary search over the distinct values as thresholds, with
// a perfect matching on the at-least-threshold graph as the feasibility
// test. Returns the chosen column per agent and the achieved minimum.
func EgalitarianAssignment(value [][]float64) ([]int, float64, error) {
	n := len(value)
	if n == 0 {
		return []int{}, 0, nil
	}
	m := len(value[0])
	if err := checkMatrix(value, m); err != nil {
		return nil, 0, err
	}
	if n > m {
		return nil, 0, fmt.Errorf("division: %d agents cannot each get one of %d tasks", n, m)
	}

	levels := distinctSorted(value)
	completeAt := func(threshold float64) []int {
		adj := make([][]bool, n)
		for i := range adj {
			adj[i] = make([]bool, m)
			for j := 0; j < m; j++ {
				adj[i][j] = value[i][j] >= threshold
			}
		}
		size, match := MaxBipartiteMatching(adj)
		if size < n {
			return nil
		}
		return match
	}

	// Every edge survives the lowest threshold, so a complete assignment
	// always exists there; push the threshold as high as it will go.
	best := completeAt(levels[0])
	lo, hi := 0, len(levels)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if match := completeAt(levels[mid]); match != nil {
			best = match
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	worst := math.Inf(1)
	for i, j := range best {
		if value[i][j] < worst {
			worst = value[i][j]
		}
	}
	return best, worst, nil
}

func distinctSorted(matrix [][]float64) []float64 {
	seen := make(map[float64]struct{})
	var out []float64
	for _, row := range matrix {
		for _, v := range row {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}
	sort.Float64s(out)
	return out
}
