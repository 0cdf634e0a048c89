package division

import (
	"fmt"
	"math"
)

// MinCostAssignment solves the minimum-cost assignment problem for a cost
// matrix with n agents (rows) and m tasks (columns), n <= m: every agent
// receives exactly one task, no task is shared, and the summed cost is
// minimal. Returns the chosen column per agent and the total cost.
//
// This is the Hungarian algorithm in its potential form: row and column
// potentials keep reduced costs non-negative while augmenting paths grow the
// matching one agent at a time, O(n^2 m) overall.
func MinCostAssignment(cost [][]float64) ([]int, float64, error) {
	n := len(cost)
	if n == 0 {
		return []int{}, 0, nil
	}
	m := len(cost[0])
	if err := checkMatrix(cost, m); err != nil {
		return nil, 0, err
	}
	if n > m {
		return nil, 0, fmt.Errorf("division: %d agents cannot each get one of %d tasks", n, m)
	}

	// 1-based arrays with column 0 as the virtual start of every
	// augmenting path.
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	matchedRow := make([]int, m+1)
	way := make([]int, m+1)

	for i := 1; i <= n; i++ {
		matchedRow[0] = i
		j0 := 0
		minv := make([]float64, m+1)
		used := make([]bool, m+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}

		for {
			used[j0] = true
			i0 := matchedRow[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				reduced := cost[i0-1][j-1] - u[i0] - v[j]
				if reduced < minv[j] {
					minv[j] = reduced
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[matchedRow[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if matchedRow[j0] == 0 {
				break
			}
		}

		// Flip the augmenting path back to column 0.
		for j0 != 0 {
			j1 := way[j0]
			matchedRow[j0] = matchedRow[j1]
			j0 = j1
		}
	}

	assign := make([]int, n)
	total := 0.0
	for j := 1; j <= m; j++ {
		if matchedRow[j] != 0 {
			assign[matchedRow[j]-1] = j - 1
			total += cost[matchedRow[j]-1][j-1]
		}
	}
	return assign, total, nil
}

func checkMatrix(matrix [][]float64, width int) error {
	for i, row := range matrix {
		if len(row) != width {
			return fmt.Errorf("division: row %d has %d columns, want %d", i, len(row), width)
		}
		for j, val := range row {
			if math.IsNaN(val) || math.IsInf(val, 0) {
				return fmt.Errorf("division: row %d column %d holds non-finite value %v", i, j, val)
			}
		}
	}
	return nil
}
