package caobab

import (
	"github.com/mhthies/cdecao"
	"github.com/mhthies/cdecao/hungarian"
)

// ResultKind discriminates the three outcomes of a node evaluation.
type ResultKind int

const (
	// Feasible: the relaxed optimum satisfies all constraints of the node.
	Feasible ResultKind = iota
	// Infeasible: the relaxation violates a minimum-size constraint; the
	// result carries the course to branch on and the relaxation score as an
	// upper bound for all descendants.
	Infeasible
	// NoSolution: the node is a dead end. Either the relaxation itself has
	// no valid matching (e.g. the cancelled courses leave too few places, or
	// enforced places cannot be filled), the node is malformed (a course both
	// cancelled and enforced), or the relaxed optimum places a participant
	// wrongly while no course is below its minimum size.
	NoSolution
)

// NodeResult is the outcome of evaluating a single BABNode. Kind selects
// which payload fields are meaningful; scores are never encoded as sentinels.
type NodeResult struct {
	Kind ResultKind

	// Assignment and Score are set for Feasible results. Score is also set
	// for Infeasible results, where it is the relaxation's upper bound.
	Assignment cdecao.Assignment
	Score      hungarian.Score

	// BranchCourse and WrongPlacement are set for Infeasible results.
	BranchCourse   int
	WrongPlacement bool
}

// runNode evaluates one branch-and-bound node: it translates the node's
// cancel/enforce decisions into row/column masks over the precomputed
// adjacency matrix, solves the matching relaxation and classifies the result.
// The precomputed problem is never mutated, so it can be shared by all nodes.
func runNode(courses []cdecao.Course, participants []cdecao.Participant,
	problem *Problem, node BABNode) NodeResult {

	n := problem.AdjacencyMatrix.Dim()
	numParticipants := len(participants)

	skipX := make([]bool, n)
	skipY := make([]bool, n)
	mandatoryY := make([]bool, n)
	courseInstructors := make([]bool, numParticipants)

	// rows pre-committed for instructor duty, and columns removed by cancellations
	onDuty := 0
	cancelledPlaces := 0

	for c, course := range courses {
		base := problem.InverseCourseMap[c]
		if node.Cancelled(c) {
			if node.Enforced(c) {
				// malformed node: the driver never generates this, but a
				// directly constructed one is a pruning signal, not a panic
				return NodeResult{Kind: NoSolution}
			}
			for j := 0; j < course.NumMax; j++ {
				skipY[base+j] = true
			}
			cancelledPlaces += course.NumMax
			continue
		}
		for _, instr := range course.Instructors {
			skipX[instr] = true
			courseInstructors[instr] = true
			onDuty++
		}
		if node.Enforced(c) {
			for j := 0; j < course.NumMin; j++ {
				mandatoryY[base+j] = true
			}
		}
	}

	// Removing columns shrinks the problem, so the same number of rows has to
	// go. Instructor rows are already out; the rest comes from the dummy pool.
	// An exhausted pool means the remaining places cannot seat everyone.
	if surplus := cancelledPlaces - onDuty; surplus > 0 {
		if surplus > n-numParticipants {
			return NodeResult{Kind: NoSolution}
		}
		for x := numParticipants; x < numParticipants+surplus; x++ {
			skipX[x] = true
		}
	}

	score, matching, ok := hungarian.Match(problem.AdjacencyMatrix, problem.DummyX, mandatoryY, skipX, skipY)
	if !ok {
		return NodeResult{Kind: NoSolution}
	}

	// on-duty instructors score like a first choice
	score += hungarian.Score(onDuty) * hungarian.Score(WeightOffset)

	assignment := make(cdecao.Assignment, numParticipants)
	for x := 0; x < numParticipants; x++ {
		if matching[x] >= 0 {
			assignment[x] = problem.CourseMap[matching[x]]
		}
	}
	for c, course := range courses {
		if node.Cancelled(c) {
			continue
		}
		for _, instr := range course.Instructors {
			assignment[instr] = c
		}
	}

	feasible, wrongPlacement, branchCourse := checkFeasibility(courses, participants, assignment, &node, courseInstructors)
	if feasible {
		return NodeResult{Kind: Feasible, Assignment: assignment, Score: score}
	}
	if branchCourse < 0 {
		// nothing to branch on: a wrong placement without a deficient course
		// can never be repaired further down the tree, as descendants only
		// remove capacity
		return NodeResult{Kind: NoSolution}
	}
	return NodeResult{
		Kind:           Infeasible,
		Score:          score,
		BranchCourse:   branchCourse,
		WrongPlacement: wrongPlacement,
	}
}
