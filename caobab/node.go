package caobab

import "sort"

// BABNode is a node of the branch-and-bound tree: the set of decisions taken
// so far. Both slices are kept sorted and disjoint. Nodes are small value
// objects; children are derived by copying, so no references are shared
// between nodes in the frontier.
type BABNode struct {
	// CancelledCourses may not take place; no participant may be assigned to
	// them and their instructors become ordinary participants.
	CancelledCourses []int

	// EnforcedCourses must take place: their instructors are pre-committed
	// and their first NumMin places must be filled with real participants.
	EnforcedCourses []int
}

// Cancelled reports whether course c is cancelled in this node.
func (n *BABNode) Cancelled(c int) bool { return containsSorted(n.CancelledCourses, c) }

// Enforced reports whether course c is enforced in this node.
func (n *BABNode) Enforced(c int) bool { return containsSorted(n.EnforcedCourses, c) }

// depth is the number of decisions taken on the path to this node.
func (n *BABNode) depth() int { return len(n.CancelledCourses) + len(n.EnforcedCourses) }

// childCancelling derives a child node with course c additionally cancelled.
func (n *BABNode) childCancelling(c int) BABNode {
	return BABNode{
		CancelledCourses: insertSorted(n.CancelledCourses, c),
		EnforcedCourses:  append([]int(nil), n.EnforcedCourses...),
	}
}

// childEnforcing derives a child node with course c additionally enforced.
func (n *BABNode) childEnforcing(c int) BABNode {
	return BABNode{
		CancelledCourses: append([]int(nil), n.CancelledCourses...),
		EnforcedCourses:  insertSorted(n.EnforcedCourses, c),
	}
}

// Less orders nodes for the search frontier: primarily by depth, so that
// deeper nodes are explored first (a depth-first bias that finds feasible
// incumbents quickly and tightens pruning), with lexicographic comparison of
// the cancelled then enforced sets as a deterministic tie-break. Two nodes
// compare equal only if their sets coincide.
func (n *BABNode) Less(other *BABNode) bool {
	if n.depth() != other.depth() {
		return n.depth() < other.depth()
	}
	if c := compareSorted(n.CancelledCourses, other.CancelledCourses); c != 0 {
		return c < 0
	}
	return compareSorted(n.EnforcedCourses, other.EnforcedCourses) < 0
}

func containsSorted(s []int, v int) bool {
	i := sort.SearchInts(s, v)
	return i < len(s) && s[i] == v
}

func insertSorted(s []int, v int) []int {
	out := make([]int, 0, len(s)+1)
	i := sort.SearchInts(s, v)
	out = append(out, s[:i]...)
	out = append(out, v)
	return append(out, s[i:]...)
}

func compareSorted(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}
