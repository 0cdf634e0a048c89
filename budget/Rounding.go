package budget

import (
	"log"
	"math"
	"sort"
)

// apportion converts continuous allocations that sum to total (up to float
// error) into integers that sum to total exactly: floor every amount, then
// hand the leftover units one at a time to the subjects with the largest
// fractional remainders, lowest subject index first on ties. This is the
// classical largest-remainder method.
func (m Mechanism) apportion(continuous []float64, total int) []int {
	out := make([]int, len(continuous))
	fracs := make([]float64, len(continuous))
	floored := 0
	for i, v := range continuous {
		f := int(math.Floor(v + m.FloorTolerance))
		out[i] = f
		fracs[i] = v - float64(f)
		floored += f
	}

	shortfall := total - floored
	if shortfall <= 0 {
		return out
	}

	order := make([]int, len(continuous))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		if fracs[order[a]] != fracs[order[b]] {
			return fracs[order[a]] > fracs[order[b]]
		}
		return order[a] < order[b]
	})

	if shortfall > len(continuous) {
		// Expected only when the solver could not reach the total, e.g. a
		// flat aggregate below the request. Wrap deterministically instead
		// of failing so the exact-sum guarantee still holds.
		log.Printf("[budget] shortfall %d exceeds subject count %d, distributing round-robin", shortfall, len(continuous))
	}
	for k := 0; k < shortfall; k++ {
		out[order[k%len(order)]]++
	}
	return out
}
