package budget

// solvePhantom finds the phantom value at which the aggregate reaches the
// requested total. The aggregate is continuous, non-decreasing and exactly
// linear between consecutive breakpoints, so locating the bracketing segment
// determines the answer in closed form. Callers guarantee the total is above
// the aggregate's value at phantom zero.
func (m Mechanism) solvePhantom(t *tally, want float64) float64 {
	start := 0
	if m.Strategy == StrategyBisect {
		start = m.firstCandidate(t, want)
	}
	return m.solveFrom(t, want, start)
}

// solveFrom applies the segment acceptance test left to right from segment
// index start. When no segment brackets the total, the aggregate is
// extrapolated past the last breakpoint along its final slope; a flat final
// slope snaps to the last breakpoint itself.
func (m Mechanism) solveFrom(t *tally, want float64, start int) float64 {
	breaks := t.breakpoints
	for i := start; i+1 < len(breaks); i++ {
		low, high := breaks[i], breaks[i+1]
		totalLow, slopeLow := t.totalAndSlope(low, m.SlopeEpsilon)
		totalHigh, _ := t.totalAndSlope(high, m.SlopeEpsilon)
		if totalLow <= want && want <= totalHigh+m.SegmentTolerance {
			if slopeLow > m.SegmentTolerance {
				return low + (want-totalLow)/slopeLow
			}
			// Flat segment: the total already matches at the left endpoint.
			return low
		}
	}

	last := breaks[len(breaks)-1]
	totalLast, slopeLast := t.totalAndSlope(last, m.SlopeEpsilon)
	if slopeLast > m.SegmentTolerance {
		return last + (want-totalLast)/slopeLast
	}
	return last
}

// firstCandidate binary-searches for the first segment whose upper endpoint
// reaches the requested total. The aggregate is monotone, so the predicate
// is monotone over segment indexes, and every segment before the returned
// one would fail the scan's acceptance test anyway. Resuming the scan from
// here therefore returns exactly what a full scan would.
func (m Mechanism) firstCandidate(t *tally, want float64) int {
	lo, hi := 0, len(t.breakpoints)-1
	for lo < hi {
		mid := (lo + hi) / 2
		totalHigh, _ := t.totalAndSlope(t.breakpoints[mid+1], m.SlopeEpsilon)
		if want <= totalHigh+m.SegmentTolerance {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}
