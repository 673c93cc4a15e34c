package caobab

import (
	"fmt"
	"io"
	"sort"

	"github.com/mhthies/cdecao/hungarian"
)

// Decision identifies what the driver did with a node.
type Decision string

const (
	DecisionNoSolution         Decision = "relaxation has no valid matching"
	DecisionWorseThanIncumbent Decision = "worse than incumbent"
	DecisionNewIncumbent       Decision = "feasible and better than incumbent, so replacing incumbent"
	DecisionBranched           Decision = "infeasible but better than incumbent, so branching"
	DecisionPruned             Decision = "pruned by incumbent bound"
)

// Middleware observes the branch-and-bound procedure. Implementations must
// not retain the BABNode slices beyond the call.
type Middleware interface {
	// NewNode is called when the driver enqueues a node. The root has parent
	// id -1.
	NewNode(id, parent int64, node BABNode)

	// ProcessDecision is called once per popped node with the decision taken
	// and the node's relaxation score. A pruned node is reported with the
	// bound inherited from its parent; a node without a relaxation score
	// (DecisionNoSolution) is reported with zero.
	ProcessDecision(id int64, score hungarian.Score, decision Decision)
}

type dummyMiddleware struct{}

func (dummyMiddleware) NewNode(id, parent int64, node BABNode) {}

func (dummyMiddleware) ProcessDecision(id int64, score hungarian.Score, decision Decision) {}

// TreeLogger is a Middleware recording the enumeration tree for later
// inspection. Note that it keeps a summary per node, not the node payloads
// themselves, to keep memory usage independent of problem size.
type TreeLogger struct {
	nodes map[int64]logNode
}

// NewTreeLogger returns an empty TreeLogger.
func NewTreeLogger() *TreeLogger {
	return &TreeLogger{nodes: make(map[int64]logNode)}
}

// a summary of one enumeration tree node
type logNode struct {
	id     int64
	parent int64

	cancelled int
	enforced  int

	score    hungarian.Score
	solved   bool
	decision Decision
}

func (t *TreeLogger) NewNode(id, parent int64, node BABNode) {
	if _, already := t.nodes[id]; already {
		panic("tree logger: a node with this id has already been logged")
	}
	t.nodes[id] = logNode{
		id:        id,
		parent:    parent,
		cancelled: len(node.CancelledCourses),
		enforced:  len(node.EnforcedCourses),
	}
}

func (t *TreeLogger) ProcessDecision(id int64, score hungarian.Score, decision Decision) {
	node, found := t.nodes[id]
	if !found {
		panic("tree logger: decision for a node that was never enqueued")
	}
	node.score = score
	node.decision = decision
	node.solved = true
	t.nodes[id] = node
}

// ToDOT writes a DOT-file visualisation of the recorded enumeration tree.
func (t *TreeLogger) ToDOT(out io.Writer) {
	writeRow := func(r string, args ...interface{}) {
		if len(args) > 0 {
			fmt.Fprintf(out, r, args...)
		} else {
			io.WriteString(out, r)
		}
		io.WriteString(out, "\n")
	}

	writeRow("digraph enumtree {")
	writeRow("node [fontname=Courier,shape=rectangle];")
	writeRow("edge [color=Blue, style=dashed];")

	// deterministic output order
	ids := make([]int64, 0, len(t.nodes))
	for id := range t.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		n := t.nodes[id]
		color := "Pink"
		label := "\"unsolved\""
		if n.solved {
			tag := ""
			switch n.decision {
			case DecisionNewIncumbent:
				color = "Green"
				tag = "new incumbent!"
			case DecisionNoSolution:
				color = "Red"
				tag = "no solution"
			case DecisionWorseThanIncumbent:
				color = "Gray"
				tag = "worse"
			case DecisionPruned:
				color = "Gray"
				tag = "pruned"
			case DecisionBranched:
				color = "Black"
				tag = "branching"
			default:
				color = "Red"
				tag = string(n.decision)
			}
			label = fmt.Sprintf("<score=%d <BR /> id:%v cancel:%d enforce:%d <BR /> %v >",
				n.score, n.id, n.cancelled, n.enforced, tag)
		}
		writeRow("%v [label=%v,color=%v];", id, label, color)
	}

	for _, id := range ids {
		parent := t.nodes[id].parent
		if parent < 0 {
			continue
		}
		writeRow("%v -> %v ;", parent, id)
	}

	writeRow("}")
}
