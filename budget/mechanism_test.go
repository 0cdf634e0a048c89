package budget

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdoptedScenarios(t *testing.T) {
	cases := []struct {
		name  string
		total int
		votes [][]float64
		want  []int
	}{
		{
			name:  "two polarized citizens",
			total: 100,
			votes: [][]float64{{100, 0, 0}, {0, 0, 100}},
			want:  []int{50, 0, 50},
		},
		{
			name:  "mirrored preferences",
			total: 100,
			votes: [][]float64{{80, 20}, {20, 80}},
			want:  []int{50, 50},
		},
		{
			name:  "three citizens nine subjects",
			total: 30,
			votes: [][]float64{
				{0, 0, 6, 0, 0, 6, 6, 6, 6},
				{0, 6, 0, 6, 6, 6, 6, 0, 0},
				{6, 0, 0, 6, 6, 0, 0, 6, 6},
			},
			want: []int{0, 0, 0, 5, 5, 5, 5, 5, 5},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Aggregate(tc.total, tc.votes)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAggregateHitsTotal(t *testing.T) {
	got, err := Aggregate(100, [][]float64{{33, 33, 34}, {10, 10, 80}})
	require.NoError(t, err)
	assert.Equal(t, 100, sumInts(got))
}

func TestScanAndBisectAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	scan := DefaultMechanism()
	bisect := DefaultMechanism()
	bisect.Strategy = StrategyBisect

	for trial := 0; trial < 200; trial++ {
		votes := randomVotes(rng)
		total := feasibleTotal(t, rng, votes)

		fromScan, err := scan.AggregateDetailed(total, votes)
		require.NoError(t, err)
		fromBisect, err := bisect.AggregateDetailed(total, votes)
		require.NoError(t, err)

		assert.Equal(t, fromScan.Phantom, fromBisect.Phantom)
		assert.Equal(t, fromScan.Allocation, fromBisect.Allocation)
	}
}

func TestExactSumOnRandomMatrices(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 300; trial++ {
		votes := randomVotes(rng)
		total := feasibleTotal(t, rng, votes)

		got, err := Aggregate(total, votes)
		require.NoError(t, err)
		require.Len(t, got, len(votes[0]))
		assert.Equal(t, total, sumInts(got), "votes=%v", votes)
		for _, v := range got {
			assert.GreaterOrEqual(t, v, 0)
		}
	}
}

func TestZeroBudgetGivesZeros(t *testing.T) {
	got, err := Aggregate(0, [][]float64{{5, 5}, {5, 5}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, got)
}

func TestEmptyMatrixGivesEmptyAllocation(t *testing.T) {
	got, err := Aggregate(100, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInputValidation(t *testing.T) {
	cases := []struct {
		name  string
		total int
		votes [][]float64
	}{
		{"ragged rows", 10, [][]float64{{1, 2, 3}, {1, 2}}},
		{"negative amount", 10, [][]float64{{1, -2}, {1, 2}}},
		{"nan amount", 10, [][]float64{{math.NaN(), 2}, {1, 2}}},
		{"infinite amount", 10, [][]float64{{math.Inf(1), 2}, {1, 2}}},
		{"negative total", -1, [][]float64{{1, 2}, {1, 2}}},
		{"positive total without subjects", 5, [][]float64{{}, {}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Aggregate(tc.total, tc.votes)
			assert.Error(t, err)
		})
	}
}

func TestTotalBelowAchievableFloor(t *testing.T) {
	// Two citizens both asking 5 per subject force a median of 2.5 per
	// subject even at phantom zero, so a total of 2 cannot be met.
	_, err := Aggregate(2, [][]float64{{5, 5}, {5, 5}})
	assert.Error(t, err)
}

func TestSnapToZeroPhantomAtTheFloor(t *testing.T) {
	outcome, err := DefaultMechanism().AggregateDetailed(5, [][]float64{{5, 5}, {5, 5}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, outcome.Phantom)
	assert.Equal(t, []float64{2.5, 2.5}, outcome.Continuous)
	// Equal remainders: the leftover unit goes to the lowest subject index.
	assert.Equal(t, []int{3, 2}, outcome.Allocation)
}

func TestAllZeroVotesSpreadEvenly(t *testing.T) {
	// A flat aggregate never reaches the total, so the rounding stage wraps
	// the whole amount round-robin across subjects.
	got, err := Aggregate(10, [][]float64{{0, 0, 0}})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 3}, got)
}

func TestPhantomMedian(t *testing.T) {
	// Odd combined count: middle of {0, 5, 5, 5, 100}.
	assert.Equal(t, 5.0, phantomMedian([]float64{5, 5, 5}, 100))
	// Even combined count averages the middle pair of {0, 10, 20, 80}.
	assert.Equal(t, 15.0, phantomMedian([]float64{20, 80}, 10))
	// A huge phantom saturates at the upper-middle pair of the data.
	assert.Equal(t, 50.0, phantomMedian([]float64{20, 80}, 10000))
	// No submissions at all: median of {0, x}.
	assert.Equal(t, 3.0, phantomMedian(nil, 6))
}

func TestMedianMonotonicInSingleVote(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(7)
		col := make([]float64, n)
		for i := range col {
			col[i] = float64(rng.Intn(60))
		}
		raised := make([]float64, n)
		copy(raised, col)
		raised[rng.Intn(n)] += float64(1 + rng.Intn(40))

		sortedCol := sortedCopy(col)
		sortedRaised := sortedCopy(raised)
		for _, x := range []float64{0, 0.5, 3, 17.25, 59, 1000} {
			before := phantomMedian(sortedCol, x)
			after := phantomMedian(sortedRaised, x)
			assert.GreaterOrEqual(t, after, before,
				"col=%v raised=%v x=%v", col, raised, x)
		}
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	votes := [][]float64{{33, 33, 34}, {10, 10, 80}, {60, 20, 20}}
	first, err := DefaultMechanism().AggregateDetailed(100, votes)
	require.NoError(t, err)
	second, err := DefaultMechanism().AggregateDetailed(100, votes)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// randomVotes draws a small matrix mixing integer and half-unit amounts.
func randomVotes(rng *rand.Rand) [][]float64 {
	citizens := 1 + rng.Intn(8)
	subjects := 1 + rng.Intn(6)
	votes := make([][]float64, citizens)
	for i := range votes {
		row := make([]float64, subjects)
		for j := range row {
			row[j] = float64(rng.Intn(200)) / 2
		}
		votes[i] = row
	}
	return votes
}

// feasibleTotal picks a total at or above the aggregate's value at phantom
// zero, so the request is always satisfiable.
func feasibleTotal(t *testing.T, rng *rand.Rand, votes [][]float64) int {
	tl, err := newTally(votes)
	require.NoError(t, err)
	least, _ := tl.totalAndSlope(0, DefaultSlopeEpsilon)
	return int(math.Ceil(least)) + rng.Intn(300)
}

func sumInts(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func sortedCopy(xs []float64) []float64 {
	out := make([]float64, len(xs))
	copy(out, xs)
	sort.Float64s(out)
	return out
}
