package division

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinCostAssignmentSquare(t *testing.T) {
	cost := [][]float64{
		{4, 1, 3},
		{2, 0, 5},
		{3, 2, 2},
	}
	assign, total, err := MinCostAssignment(cost)
	require.NoError(t, err)
	assertValidAssignment(t, assign, 3)
	assert.InDelta(t, bruteForceBest(cost, 3, sumObjective, false), total, 1e-9)
}

func TestMinCostAssignmentRectangular(t *testing.T) {
	cost := [][]float64{
		{10, 2, 8},
		{7, 9, 1},
	}
	assign, total, err := MinCostAssignment(cost)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, assign)
	assert.InDelta(t, 3.0, total, 1e-9)
}

func TestMinCostAssignmentRejectsBadInput(t *testing.T) {
	_, _, err := MinCostAssignment([][]float64{{1, 2}, {3}})
	assert.Error(t, err)
	_, _, err = MinCostAssignment([][]float64{{1}, {2}})
	assert.Error(t, err)
	_, _, err = MinCostAssignment([][]float64{{math.NaN(), 1}, {1, 2}})
	assert.Error(t, err)
}

func TestMinCostAssignmentMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(4)
		cost := randomMatrix(rng, n, n)
		assign, total, err := MinCostAssignment(cost)
		require.NoError(t, err)
		assertValidAssignment(t, assign, n)
		assert.InDelta(t, bruteForceBest(cost, n, sumObjective, false), total, 1e-9, "cost=%v", cost)
	}
}

func TestUtilitarianAssignment(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(4)
		value := randomMatrix(rng, n, n)
		assign, total, err := UtilitarianAssignment(value)
		require.NoError(t, err)
		assertValidAssignment(t, assign, n)
		assert.InDelta(t, bruteForceBest(value, n, sumObjective, true), total, 1e-9, "value=%v", value)
	}
}

func TestMaxProductAssignment(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(4)
		value := randomMatrix(rng, n, n)
		assign, product, err := MaxProductAssignment(value)
		require.NoError(t, err)
		assertValidAssignment(t, assign, n)
		assert.InDelta(t, bruteForceBest(value, n, productObjective, true), product, 1e-6, "value=%v", value)
	}
}

func TestMaxProductAvoidsZerosWhenPossible(t *testing.T) {
	assign, product, err := MaxProductAssignment([][]float64{{0, 1}, {1, 0}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, assign)
	assert.InDelta(t, 1.0, product, 1e-9)
}

func TestMaxProductTakesForcedZero(t *testing.T) {
	_, product, err := MaxProductAssignment([][]float64{{0, 0}, {1, 1}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, product)
}

func TestEgalitarianAssignment(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(4)
		value := randomMatrix(rng, n, n)
		assign, worst, err := EgalitarianAssignment(value)
		require.NoError(t, err)
		assertValidAssignment(t, assign, n)
		assert.InDelta(t, bruteForceBest(value, n, minObjective, true), worst, 1e-9, "value=%v", value)
	}
}

func TestEgalitarianPrefersBalancedSplit(t *testing.T) {
	assign, worst, err := EgalitarianAssignment([][]float64{{1, 5}, {5, 1}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, assign)
	assert.Equal(t, 5.0, worst)
}

func TestMaxBipartiteMatching(t *testing.T) {
	// The third row forces the first one off column 0 via an augmenting path.
	size, match := MaxBipartiteMatching([][]bool{
		{true, true, false},
		{true, false, false},
		{false, true, true},
	})
	assert.Equal(t, 3, size)
	assert.Equal(t, []int{1, 0, 2}, match)

	size, _ = MaxBipartiteMatching([][]bool{
		{true, false},
		{true, false},
	})
	assert.Equal(t, 1, size)
}

// ---- helpers ----

func assertValidAssignment(t *testing.T, assign []int, n int) {
	t.Helper()
	require.Len(t, assign, n)
	seen := make(map[int]bool)
	for _, j := range assign {
		require.GreaterOrEqual(t, j, 0)
		require.False(t, seen[j], "column %d assigned twice", j)
		seen[j] = true
	}
}

func randomMatrix(rng *rand.Rand, n, m int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		row := make([]float64, m)
		for j := range row {
			row[j] = float64(rng.Intn(20))
		}
		out[i] = row
	}
	return out
}

func sumObjective(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func productObjective(values []float64) float64 {
	product := 1.0
	for _, v := range values {
		product *= v
	}
	return product
}

func minObjective(values []float64) float64 {
	worst := math.Inf(1)
	for _, v := range values {
		if v < worst {
			worst = v
		}
	}
	return worst
}

// bruteForceBest tries every permutation and reports the best objective,
// maximizing when maximize is set and minimizing otherwise.
func bruteForceBest(matrix [][]float64, n int, objective func([]float64) float64, maximize bool) float64 {
	best := math.Inf(1)
	if maximize {
		best = math.Inf(-1)
	}
	perm := make([]int, n)
	used := make([]bool, n)
	var walk func(i int)
	walk = func(i int) {
		if i == n {
			chosen := make([]float64, n)
			for a, b := range perm {
				chosen[a] = matrix[a][b]
			}
			score := objective(chosen)
			if (maximize && score > best) || (!maximize && score < best) {
				best = score
			}
			return
		}
		for j := 0; j < n; j++ {
			if used[j] {
				continue
			}
			used[j] = true
			perm[i] = j
			walk(i + 1)
			used[j] = false
		}
	}
	walk(0)
	return best
}
