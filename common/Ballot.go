package common

import "math"

// Ballot is one citizen's proposed split of the campaign total across the
// campaign's subjects, in subject order.
type Ballot []float64

func (b Ballot) Sum() float64 {
	total := 0.0
	for _, v := range b {
		total += v
	}
	return total
}

func (b Ballot) Clone() Ballot {
	out := make(Ballot, len(b))
	copy(out, b)
	return out
}

// DistanceL1 is the city-block distance between two ballots. Ballots of
// different lengths are treated as infinitely far apart.
func (b Ballot) DistanceL1(other Ballot) float64 {
	if len(b) != len(other) {
		return math.Inf(1)
	}
	total := 0.0
	for i := range b {
		total += math.Abs(b[i] - other[i])
	}
	return total
}

// Campaign is one iteration's ballot question: which subjects are up for
// funding and how much there is to distribute.
type Campaign struct {
	Subjects []string
	Total    int
}

func (c Campaign) NumSubjects() int { return len(c.Subjects) }
