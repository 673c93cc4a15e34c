package caobab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhthies/cdecao"
	"github.com/mhthies/cdecao/hungarian"
)

// Idea of the fixture: one course must be cancelled, because otherwise there
// are not enough participants to fill all courses. Course 1 wins over course 2
// due to participant 5's choices, so course 2 will be cancelled.
func createSimpleProblem() ([]cdecao.Participant, []cdecao.Course) {
	participants := []cdecao.Participant{
		{Index: 0, DBID: 0, Name: "Participant 0", Choices: []int{1, 2}},
		{Index: 1, DBID: 1, Name: "Participant 1", Choices: []int{0, 2}},
		{Index: 2, DBID: 2, Name: "Participant 2", Choices: []int{0, 1}},
		{Index: 3, DBID: 3, Name: "Participant 3", Choices: []int{0, 1}},
		{Index: 4, DBID: 4, Name: "Participant 4", Choices: []int{0, 2}},
		{Index: 5, DBID: 5, Name: "Participant 5", Choices: []int{1, 2}},
	}
	courses := []cdecao.Course{
		{Index: 0, DBID: 0, Name: "Wanted Course 0", NumMin: 2, NumMax: 2, Instructors: []int{0}},
		{Index: 1, DBID: 1, Name: "Okay Course 1", NumMin: 2, NumMax: 8, Instructors: []int{1}},
		{Index: 2, DBID: 2, Name: "Boring Course 2", NumMin: 2, NumMax: 10, Instructors: []int{2}},
	}
	return participants, courses
}

func TestPrecomputeProblem(t *testing.T) {
	participants, courses := createSimpleProblem()

	problem := PrecomputeProblem(courses, participants)

	n := 0
	for _, c := range courses {
		n += c.NumMax
	}
	require.Equal(t, n, problem.AdjacencyMatrix.Dim())
	require.Equal(t, n, len(problem.CourseMap))
	require.Equal(t, n, len(problem.DummyX))
	require.Equal(t, len(courses), len(problem.InverseCourseMap))

	// column ranges reference their owning course
	for c, course := range courses {
		base := problem.InverseCourseMap[c]
		for j := 0; j < course.NumMax; j++ {
			assert.Equal(t, c, problem.CourseMap[base+j],
				"column %d should be mapped to course %d, as it is within %d columns after %d",
				base+j, c, course.NumMax, base)
		}
	}

	// edge weights follow the preference weight schedule
	weights := []hungarian.Weight{WeightOffset, WeightOffset - 1, WeightOffset - 2}
	for x, p := range participants {
		for y := 0; y < n; y++ {
			want := hungarian.Weight(0)
			for rank, choice := range p.Choices {
				if choice == problem.CourseMap[y] {
					want = weights[rank]
				}
			}
			assert.Equal(t, want, problem.AdjacencyMatrix.At(x, y),
				"unexpected edge weight for participant %d with course place %d", x, y)
		}
	}

	// dummy rows are all zero
	for x := len(participants); x < n; x++ {
		for y := 0; y < n; y++ {
			assert.Equal(t, hungarian.Weight(0), problem.AdjacencyMatrix.At(x, y),
				"edge weight for dummy participant %d with course place %d is not zero", x, y)
		}
	}

	// dummy mask covers exactly the padding rows
	for x := 0; x < len(participants); x++ {
		assert.False(t, problem.DummyX[x])
	}
	for x := len(participants); x < n; x++ {
		assert.True(t, problem.DummyX[x])
	}
}

func TestBABNodeOrdering(t *testing.T) {
	node0 := BABNode{}
	node1 := BABNode{CancelledCourses: []int{0}}
	node2 := BABNode{EnforcedCourses: []int{2}}
	node3 := BABNode{CancelledCourses: []int{1, 2}}
	node4 := BABNode{EnforcedCourses: []int{0, 1, 2}}
	node5 := BABNode{CancelledCourses: []int{0, 1}, EnforcedCourses: []int{0, 1}}

	assert.True(t, node0.Less(&node1))
	assert.True(t, node0.Less(&node2))
	assert.True(t, node1.Less(&node3))
	assert.True(t, node2.Less(&node3))
	assert.True(t, node2.Less(&node4))
	assert.True(t, node4.Less(&node5))

	// equal sets never compare as ordered
	same := BABNode{CancelledCourses: []int{0}}
	assert.False(t, node1.Less(&same))
	assert.False(t, same.Less(&node1))
}

func TestCheckFeasibility(t *testing.T) {
	participants, courses := createSimpleProblem()

	// a feasible assignment
	assignment := cdecao.Assignment{0, 1, 1, 0, 0, 1}
	courseInstructors := []bool{true, true, false, false, false, false}
	node := BABNode{CancelledCourses: []int{2}}
	feasible, wrongPlacement, branchCourse := checkFeasibility(courses, participants, assignment, &node, courseInstructors)
	assert.True(t, feasible)
	assert.False(t, wrongPlacement)
	assert.Equal(t, -1, branchCourse)

	// courses 1 and 2 have too few participants; course 2 lacks more
	assignment = cdecao.Assignment{0, 1, 2, 0, 0, 1}
	courseInstructors = []bool{true, true, true, false, false, false}
	node = BABNode{}
	feasible, wrongPlacement, branchCourse = checkFeasibility(courses, participants, assignment, &node, courseInstructors)
	assert.False(t, feasible)
	assert.False(t, wrongPlacement)
	assert.Equal(t, 2, branchCourse)

	// participants 4 and 5 sit in courses they did not choose
	assignment = cdecao.Assignment{0, 1, 2, 0, 1, 0}
	courseInstructors = []bool{true, true, true, false, false, false}
	node = BABNode{EnforcedCourses: []int{0}}
	feasible, wrongPlacement, branchCourse = checkFeasibility(courses, participants, assignment, &node, courseInstructors)
	assert.False(t, feasible)
	assert.True(t, wrongPlacement)
	assert.Equal(t, 2, branchCourse)

	// an on-duty instructor away from their course is a wrong placement
	assignment = cdecao.Assignment{1, 1, 1, 0, 0, 1}
	courseInstructors = []bool{true, true, false, false, false, false}
	node = BABNode{CancelledCourses: []int{2}}
	feasible, wrongPlacement, _ = checkFeasibility(courses, participants, assignment, &node, courseInstructors)
	assert.False(t, feasible)
	assert.True(t, wrongPlacement)
}

// checkAssignment verifies all invariants of a feasible solution for a node.
func checkAssignment(t *testing.T, courses []cdecao.Course, participants []cdecao.Participant,
	assignment cdecao.Assignment, node *BABNode) {
	t.Helper()

	// instructors of non-cancelled courses teach their own course
	courseInstructors := make([]bool, len(participants))
	for c, course := range courses {
		if node.Cancelled(c) {
			continue
		}
		for _, instr := range course.Instructors {
			assert.Equal(t, c, assignment[instr],
				"instructor %d of course %d is assigned to %d", instr, c, assignment[instr])
			courseInstructors[instr] = true
		}
	}

	courseSize := make([]int, len(courses))
	for p, c := range assignment {
		if !courseInstructors[p] {
			courseSize[c]++
		}
	}

	for c, size := range courseSize {
		assert.LessOrEqual(t, size, courses[c].NumMax,
			"maximum size violation for course %d: %d places, %d participants", c, courses[c].NumMax, size)
		if !node.Cancelled(c) {
			assert.GreaterOrEqual(t, size, courses[c].NumMin,
				"minimum size violation for course %d: %d required, %d assigned", c, courses[c].NumMin, size)
		}
	}

	for _, c := range node.CancelledCourses {
		assert.Equal(t, 0, courseSize[c], "cancelled course %d has participants", c)
	}

	for p, participant := range participants {
		if !courseInstructors[p] {
			assert.Contains(t, participant.Choices, assignment[p],
				"course %d of participant %d is none of their choices", assignment[p], p)
		}
	}
}

func TestRunNodeSimple(t *testing.T) {
	// This test depends on PrecomputeProblem, checkFeasibility and
	// hungarian.Match, so if it fails, check their test results first.
	participants, courses := createSimpleProblem()
	problem := PrecomputeProblem(courses, participants)
	node := BABNode{CancelledCourses: []int{1}}

	result := runNode(courses, participants, problem, node)

	require.Equal(t, Feasible, result.Kind, "expected feasible result, got %v", result.Kind)
	checkAssignment(t, courses, participants, result.Assignment, &node)
	assert.Greater(t, result.Score, hungarian.Score(len(participants))*hungarian.Score(WeightOffset-1))
}

func TestRunNodeAlreadyFeasible(t *testing.T) {
	// cancelling course 2 makes the very first relaxation feasible
	participants, courses := createSimpleProblem()
	problem := PrecomputeProblem(courses, participants)
	node := BABNode{CancelledCourses: []int{2}}

	result := runNode(courses, participants, problem, node)

	require.Equal(t, Feasible, result.Kind)
	checkAssignment(t, courses, participants, result.Assignment, &node)
	assert.Equal(t, hungarian.Score(299999), result.Score)
	assert.Equal(t, 0, result.Assignment[4])
}

func TestRunNodeDeficitBranch(t *testing.T) {
	// the root relaxation fills course 0 and leaves courses 1 and 2 below
	// their minimum; course 2 has the larger deficit
	participants, courses := createSimpleProblem()
	problem := PrecomputeProblem(courses, participants)

	result := runNode(courses, participants, problem, BABNode{})

	require.Equal(t, Infeasible, result.Kind)
	assert.Equal(t, 2, result.BranchCourse)
	assert.False(t, result.WrongPlacement)
	assert.Equal(t, hungarian.Score(300000), result.Score)
}

func TestRunNodeMalformed(t *testing.T) {
	// a course in both sets is malformed; the node is discarded, not solved
	participants, courses := createSimpleProblem()
	problem := PrecomputeProblem(courses, participants)
	node := BABNode{CancelledCourses: []int{0}, EnforcedCourses: []int{0}}

	result := runNode(courses, participants, problem, node)

	assert.Equal(t, NoSolution, result.Kind)
}

func TestRunNodeNotEnoughPlaces(t *testing.T) {
	// cancelling everything leaves nowhere to put the participants
	participants, courses := createSimpleProblem()
	problem := PrecomputeProblem(courses, participants)
	node := BABNode{CancelledCourses: []int{0, 1, 2}}

	result := runNode(courses, participants, problem, node)

	assert.Equal(t, NoSolution, result.Kind)
}

func TestRunNodeEnforcedCourseGetsFilled(t *testing.T) {
	// enforcing course 2 forces its minimum size to be met by the relaxation
	participants, courses := createSimpleProblem()
	problem := PrecomputeProblem(courses, participants)
	node := BABNode{EnforcedCourses: []int{2}}

	result := runNode(courses, participants, problem, node)

	// the node cannot be feasible (courses 0 and 1 cannot both reach their
	// minimum with course 2 staffed), but course 2 itself is no longer the
	// deficient one: the relaxation pulls participants 4 and 5 into it
	require.Equal(t, Infeasible, result.Kind)
	assert.Equal(t, 1, result.BranchCourse)
	assert.Equal(t, hungarian.Score(299998), result.Score)
}
