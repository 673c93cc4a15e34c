package caobab

import (
	"container/heap"
	"context"
	"errors"

	"github.com/mhthies/cdecao"
	"github.com/mhthies/cdecao/hungarian"
)

// ErrNoFeasibleAssignment is returned by Solve when the search space is
// exhausted without finding any feasible assignment.
var ErrNoFeasibleAssignment = errors.New("no feasible course assignment exists")

// Solve computes the optimal course assignment for the given problem data.
// It returns only when optimality is proven or the search space is
// exhausted; ctx is checked between node evaluations, so cancellation takes
// effect at node granularity and surfaces as ctx.Err().
//
// Input data must satisfy the invariants of cdecao.CheckConsistency; Solve
// does not re-validate them.
func Solve(ctx context.Context, courses []cdecao.Course, participants []cdecao.Participant) (cdecao.Assignment, hungarian.Score, error) {
	return SolveInstrumented(ctx, courses, participants, dummyMiddleware{})
}

// SolveInstrumented is Solve with a Middleware observing every node and
// branch-and-bound decision, e.g. a *TreeLogger for later DOT export.
func SolveInstrumented(ctx context.Context, courses []cdecao.Course, participants []cdecao.Participant, mw Middleware) (cdecao.Assignment, hungarian.Score, error) {
	problem := PrecomputeProblem(courses, participants)

	open := &nodeQueue{}
	heap.Init(open)

	var nextID int64
	push := func(node BABNode, parent int64, bound hungarian.Score, haveBound bool) {
		id := nextID
		nextID++
		mw.NewNode(id, parent, node)
		heap.Push(open, openNode{id: id, node: node, bound: bound, haveBound: haveBound})
	}

	// the root carries no bound yet; its relaxation has not been computed
	push(BABNode{}, -1, 0, false)

	var incumbent cdecao.Assignment
	var incumbentScore hungarian.Score

	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return incumbent, incumbentScore, err
		}

		current := heap.Pop(open).(openNode)

		// The bound was computed at the parent; the incumbent may have
		// improved since the node was enqueued.
		if incumbent != nil && current.haveBound && current.bound <= incumbentScore {
			mw.ProcessDecision(current.id, current.bound, DecisionPruned)
			continue
		}

		result := runNode(courses, participants, problem, current.node)

		switch result.Kind {
		case NoSolution:
			mw.ProcessDecision(current.id, 0, DecisionNoSolution)

		case Feasible:
			if incumbent == nil || result.Score > incumbentScore {
				incumbent = result.Assignment
				incumbentScore = result.Score
				mw.ProcessDecision(current.id, result.Score, DecisionNewIncumbent)
			} else {
				mw.ProcessDecision(current.id, result.Score, DecisionWorseThanIncumbent)
			}

		case Infeasible:
			// the relaxation score bounds all feasible descendants
			if incumbent != nil && result.Score <= incumbentScore {
				mw.ProcessDecision(current.id, result.Score, DecisionWorseThanIncumbent)
				continue
			}
			mw.ProcessDecision(current.id, result.Score, DecisionBranched)

			c := result.BranchCourse
			// a child putting one course into both sets would be malformed
			// and is discarded; so is a child identical to its parent
			if !result.WrongPlacement && !current.node.Enforced(c) && !current.node.Cancelled(c) {
				push(current.node.childCancelling(c), current.id, result.Score, true)
			}
			if !current.node.Cancelled(c) && !current.node.Enforced(c) {
				push(current.node.childEnforcing(c), current.id, result.Score, true)
			}
		}
	}

	if incumbent == nil {
		return nil, 0, ErrNoFeasibleAssignment
	}
	return incumbent, incumbentScore, nil
}

// openNode is an entry of the search frontier: a node plus the upper bound
// inherited from its parent's relaxation.
type openNode struct {
	id        int64
	node      BABNode
	bound     hungarian.Score
	haveBound bool
}

// nodeQueue is a heap of open nodes ordered by BABNode.Less, so the deepest
// node (with deterministic tie-breaks) is popped first.
type nodeQueue []openNode

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	// deeper nodes pop first: reverse of the natural node order
	return q[j].node.Less(&q[i].node)
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(openNode)) }

func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
