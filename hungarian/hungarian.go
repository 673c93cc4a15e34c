// Package hungarian solves the maximum-weight bipartite assignment problem on
// a square integer weight matrix, in O(n³) via the Hungarian algorithm
// (shortest augmenting paths with potentials, after Kevin Stern's variant).
//
// All arithmetic is integer-exact. The matcher supports the two edge
// manipulations the branch-and-bound search needs: rows and columns can be
// excluded from the matching entirely (pre-committed "forced" pairs and
// cancelled seats), and columns can be marked mandatory, meaning they must be
// served by a real (non-dummy) row.
package hungarian

// Weight of a single edge in the assignment graph.
type Weight int32

// Score is a sum of edge weights. 64 bits so that n * (offset + max rank
// weight) cannot overflow for any realistic problem size.
type Score int64

// infCost marks an edge that must never appear in a valid matching. Large
// enough to dominate any sum of real costs, small enough that accumulating it
// into dual labels over n phases stays far away from int64 overflow.
const infCost int64 = 1 << 40

// Matrix is a dense square weight matrix, row-major.
type Matrix struct {
	n     int
	cells []Weight
}

// NewMatrix allocates an n×n zero matrix.
func NewMatrix(n int) *Matrix {
	return &Matrix{n: n, cells: make([]Weight, n*n)}
}

// Dim returns the number of rows (== columns).
func (m *Matrix) Dim() int { return m.n }

// At returns the weight of edge (x, y).
func (m *Matrix) At(x, y int) Weight { return m.cells[x*m.n+y] }

// Set stores the weight of edge (x, y).
func (m *Matrix) Set(x, y int, w Weight) { m.cells[x*m.n+y] = w }

// Match computes a maximum-weight matching on m that covers every row not
// excluded by skipX, using only columns not excluded by skipY.
//
// dummyX marks filler rows that square the underlying problem; mandatoryY
// marks columns that must be matched to a non-dummy row. Any mask may be nil,
// meaning all-false. Excluded rows and columns are the pre-committed part of
// the matching: the caller has already decided their partners and accounts for
// their weight separately.
//
// The number of active rows must not exceed the number of active columns;
// surplus columns simply stay unmatched.
//
// On success, Match returns the total weight of the matched edges and a
// length-n slice mapping each row to its column (-1 for excluded rows). The
// boolean result is false when no valid matching exists: either the active
// rows outnumber the active columns, or the mandatory columns cannot all be
// served by non-dummy rows.
func Match(m *Matrix, dummyX, mandatoryY, skipX, skipY []bool) (Score, []int, bool) {
	n := m.Dim()
	if dummyX == nil {
		dummyX = make([]bool, n)
	}
	if mandatoryY == nil {
		mandatoryY = make([]bool, n)
	}

	// compact the active rows and columns, preserving index order
	var rows, cols []int
	for x := 0; x < n; x++ {
		if skipX == nil || !skipX[x] {
			rows = append(rows, x)
		}
	}
	for y := 0; y < n; y++ {
		if skipY == nil || !skipY[y] {
			cols = append(cols, y)
		}
	}
	if len(rows) > len(cols) {
		return 0, nil, false
	}

	// The matching must cover all rows, so we square the compacted problem by
	// padding with virtual rows that absorb surplus columns at zero weight.
	// Virtual rows count as dummies: they may not serve mandatory columns.
	dim := len(cols)

	// maximisation via cost inversion: cost = maxW - weight
	var maxW int64
	for _, x := range rows {
		for _, y := range cols {
			if w := int64(m.At(x, y)); w > maxW {
				maxW = w
			}
		}
	}
	cost := make([][]int64, dim)
	for i := range cost {
		cost[i] = make([]int64, dim)
		for j, y := range cols {
			switch {
			case i >= len(rows): // virtual padding row
				if mandatoryY[y] {
					cost[i][j] = infCost
				} else {
					cost[i][j] = maxW
				}
			case dummyX[rows[i]] && mandatoryY[y]:
				cost[i][j] = infCost
			default:
				cost[i][j] = maxW - int64(m.At(rows[i], y))
			}
		}
	}

	st := newState(cost, dim)
	st.reduce()
	st.computeInitialDuals()
	st.greedyMatch()
	for w := st.fetchUnmatchedRow(); w < dim; w = st.fetchUnmatchedRow() {
		st.initializePhase(w)
		st.executePhase()
	}

	// a matched forbidden edge means no valid matching exists
	for i := 0; i < dim; i++ {
		j := st.matchColByRow[i]
		y := cols[j]
		if mandatoryY[y] && (i >= len(rows) || dummyX[rows[i]]) {
			return 0, nil, false
		}
	}

	var total Score
	assignment := make([]int, n)
	for x := range assignment {
		assignment[x] = -1
	}
	for i, x := range rows {
		y := cols[st.matchColByRow[i]]
		assignment[x] = y
		total += Score(m.At(x, y))
	}
	return total, assignment, true
}

// state holds the working arrays of a single matching run. The cost matrix is
// mutated in place by the initial reduction.
type state struct {
	cost [][]int64
	dim  int

	labelByRow, labelByCol []int64
	minSlackRowByCol       []int
	minSlackValueByCol     []int64
	matchColByRow          []int
	matchRowByCol          []int
	parentRowByCommitted   []int
	committedRows          []bool
}

func newState(cost [][]int64, dim int) *state {
	st := &state{
		cost:                 cost,
		dim:                  dim,
		labelByRow:           make([]int64, dim),
		labelByCol:           make([]int64, dim),
		minSlackRowByCol:     make([]int, dim),
		minSlackValueByCol:   make([]int64, dim),
		matchColByRow:        make([]int, dim),
		matchRowByCol:        make([]int, dim),
		parentRowByCommitted: make([]int, dim),
		committedRows:        make([]bool, dim),
	}
	for i := 0; i < dim; i++ {
		st.matchColByRow[i] = -1
		st.matchRowByCol[i] = -1
	}
	return st
}

// reduce subtracts each row's and each column's smallest finite cost. An
// optimal assignment for the reduced matrix is optimal for the original.
// Forbidden edges are left untouched so they keep dominating every sum.
func (st *state) reduce() {
	for i := 0; i < st.dim; i++ {
		min := infCost
		for j := 0; j < st.dim; j++ {
			if st.cost[i][j] < min {
				min = st.cost[i][j]
			}
		}
		if min == infCost {
			continue
		}
		for j := 0; j < st.dim; j++ {
			if st.cost[i][j] < infCost {
				st.cost[i][j] -= min
			}
		}
	}
	for j := 0; j < st.dim; j++ {
		min := infCost
		for i := 0; i < st.dim; i++ {
			if st.cost[i][j] < min {
				min = st.cost[i][j]
			}
		}
		if min == infCost {
			continue
		}
		for i := 0; i < st.dim; i++ {
			if st.cost[i][j] < infCost {
				st.cost[i][j] -= min
			}
		}
	}
}

// computeInitialDuals assigns zero labels to the rows and to each column a
// label equal to the minimum cost among its incident edges.
func (st *state) computeInitialDuals() {
	for j := 0; j < st.dim; j++ {
		st.labelByCol[j] = infCost
		for i := 0; i < st.dim; i++ {
			if st.cost[i][j] < st.labelByCol[j] {
				st.labelByCol[j] = st.cost[i][j]
			}
		}
	}
}

// greedyMatch jump-starts augmentation by matching along tight edges.
func (st *state) greedyMatch() {
	for i := 0; i < st.dim; i++ {
		for j := 0; j < st.dim; j++ {
			if st.matchColByRow[i] == -1 && st.matchRowByCol[j] == -1 &&
				st.cost[i][j]-st.labelByRow[i]-st.labelByCol[j] == 0 {
				st.match(i, j)
			}
		}
	}
}

func (st *state) fetchUnmatchedRow() int {
	for i, j := range st.matchColByRow {
		if j == -1 {
			return i
		}
	}
	return st.dim
}

// initializePhase roots the next augmentation phase at row w: clears the
// committed sets and seeds the slack arrays from w's edges.
func (st *state) initializePhase(w int) {
	for i := range st.committedRows {
		st.committedRows[i] = false
	}
	for j := range st.parentRowByCommitted {
		st.parentRowByCommitted[j] = -1
	}
	st.committedRows[w] = true
	for j := 0; j < st.dim; j++ {
		st.minSlackValueByCol[j] = st.cost[w][j] - st.labelByRow[w] - st.labelByCol[j]
		st.minSlackRowByCol[j] = w
	}
}

// executePhase grows the matching by one edge. It repeatedly commits the
// column with minimum slack; if that column is unmatched an augmenting path
// has been found and is flipped, otherwise the column's partner row joins the
// committed set. Whenever no zero-slack edge is available the dual labels are
// shifted by the minimum slack to create one.
func (st *state) executePhase() {
	for {
		minSlackRow, minSlackCol := -1, -1
		minSlackValue := infCost + 1
		for j := 0; j < st.dim; j++ {
			if st.parentRowByCommitted[j] == -1 && st.minSlackValueByCol[j] < minSlackValue {
				minSlackValue = st.minSlackValueByCol[j]
				minSlackRow = st.minSlackRowByCol[j]
				minSlackCol = j
			}
		}
		if minSlackValue > 0 {
			st.updateLabeling(minSlackValue)
		}
		st.parentRowByCommitted[minSlackCol] = minSlackRow
		if st.matchRowByCol[minSlackCol] == -1 {
			// augmenting path found; flip the trail of reassignments
			committedCol := minSlackCol
			parentRow := st.parentRowByCommitted[committedCol]
			for {
				temp := st.matchColByRow[parentRow]
				st.match(parentRow, committedCol)
				committedCol = temp
				if committedCol == -1 {
					return
				}
				parentRow = st.parentRowByCommitted[committedCol]
			}
		}
		row := st.matchRowByCol[minSlackCol]
		st.committedRows[row] = true
		for j := 0; j < st.dim; j++ {
			if st.parentRowByCommitted[j] == -1 {
				slack := st.cost[row][j] - st.labelByRow[row] - st.labelByCol[j]
				if st.minSlackValueByCol[j] > slack {
					st.minSlackValueByCol[j] = slack
					st.minSlackRowByCol[j] = row
				}
			}
		}
	}
}

// updateLabeling shifts the duals by slack: committed rows up, committed
// columns down, keeping the labeling feasible while creating a new tight edge.
func (st *state) updateLabeling(slack int64) {
	for i := 0; i < st.dim; i++ {
		if st.committedRows[i] {
			st.labelByRow[i] += slack
		}
	}
	for j := 0; j < st.dim; j++ {
		if st.parentRowByCommitted[j] != -1 {
			st.labelByCol[j] -= slack
		} else {
			st.minSlackValueByCol[j] -= slack
		}
	}
}

func (st *state) match(i, j int) {
	st.matchColByRow[i] = j
	st.matchRowByCol[j] = i
}
