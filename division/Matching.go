package division

// MaxBipartiteMatching finds a maximum matching for the bipartite graph
// given as an adjacency matrix (adj[i][j] reports whether row i may be
// matched to column j) using Kuhn's augmenting-path algorithm. Returns the
// matching size and, per row, the matched column or -1.
func MaxBipartiteMatching(adj [][]bool) (int, []int) {
	rows := len(adj)
	cols := 0
	if rows > 0 {
		cols = len(adj[0])
	}

	matchedCol := make([]int, cols)
	for j := range matchedCol {
		matchedCol[j] = -1
	}

	var tryGrow func(i int, visited []bool) bool
	tryGrow = func(i int, visited []bool) bool {
		for j := 0; j < cols; j++ {
			if !adj[i][j] || visited[j] {
				continue
			}
			visited[j] = true
			if matchedCol[j] == -1 || tryGrow(matchedCol[j], visited) {
				matchedCol[j] = i
				return true
			}
		}
		return false
	}

	size := 0
	for i := 0; i < rows; i++ {
		if tryGrow(i, make([]bool, cols)) {
			size++
		}
	}

	matchedRow := make([]int, rows)
	for i := range matchedRow {
		matchedRow[i] = -1
	}
	for j, i := range matchedCol {
		if i != -1 {
			matchedRow[i] = j
		}
	}
	return size, matchedRow
}
