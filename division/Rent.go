package division

import (
	"fmt"
	"math"
)

// RentOutcome is an envy-free split of rooms and rent: agent i takes room
// Rooms[i] and pays Prices[Rooms[i]], the prices sum to the rent, and no
// agent prefers another room at its price. Prices may be negative when a
// room is bad enough that the others subsidize its occupant.
type RentOutcome struct {
	Rooms  []int
	Prices []float64
}

// RentDivision computes an envy-free room assignment and per-room prices
// for n agents and n rooms with the given total rent. value[i][j] is agent
// i's value for room j.
//
// A welfare-maximizing assignment always supports envy-free prices: price
// differences must dominate the pairwise envy weights, which a longest-path
// potential over the envy graph provides (the welfare-maximal assignment
// rules out positive cycles). Shifting all prices equally preserves the
// differences while making them sum to the rent.
func RentDivision(value [][]float64, rent float64) (*RentOutcome, error) {
	n := len(value)
	if n == 0 {
		return &RentOutcome{Rooms: []int{}, Prices: []float64{}}, nil
	}
	if err := checkMatrix(value, n); err != nil {
		return nil, err
	}
	if len(value[0]) != n {
		return nil, fmt.Errorf("division: rent division needs as many rooms as agents, got %d agents and %d rooms", n, len(value[0]))
	}
	if math.IsNaN(rent) || math.IsInf(rent, 0) {
		return nil, fmt.Errorf("division: rent %v is not finite", rent)
	}

	rooms, _, err := UtilitarianAssignment(value)
	if err != nil {
		return nil, err
	}

	// envy(i, k): how much agent i prefers k's room over its own before
	// prices. Envy-freeness needs price[room k] - price[room i] >= envy(i, k)
	// for every pair, which longest-path potentials satisfy by construction.
	envy := func(i, k int) float64 {
		return value[i][rooms[k]] - value[i][rooms[i]]
	}

	potential := make([]float64, n)
	settled := false
	for round := 0; round < n && !settled; round++ {
		settled = true
		for i := 0; i < n; i++ {
			for k := 0; k < n; k++ {
				if i == k {
					continue
				}
				if through := potential[i] + envy(i, k); through > potential[k] {
					potential[k] = through
					settled = false
				}
			}
		}
	}
	if !settled {
		// A positive envy cycle contradicts the welfare-maximal assignment;
		// reaching this means the input broke an invariant upstream.
		return nil, fmt.Errorf("division: envy potentials failed to settle")
	}

	shift := -rent
	for _, p := range potential {
		shift += p
	}
	shift /= float64(n)

	prices := make([]float64, n)
	for i, p := range potential {
		prices[rooms[i]] = p - shift
	}
	return &RentOutcome{Rooms: rooms, Prices: prices}, nil
}

// IsEnvyFree reports whether every agent weakly prefers its own room at its
// price over every other room at that room's price, within tol.
func IsEnvyFree(value [][]float64, rooms []int, prices []float64, tol float64) bool {
	for i := range rooms {
		own := value[i][rooms[i]] - prices[rooms[i]]
		for k := range rooms {
			if value[i][rooms[k]]-prices[rooms[k]] > own+tol {
				return false
			}
		}
	}
	return true
}
