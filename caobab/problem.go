// Package caobab implements the course assignment optimization: a branch and
// bound search whose per-node relaxation is a maximum-weight bipartite
// matching between participants and course places, solved by the hungarian
// package. The search branches on cancelling or enforcing the course that
// violates the minimum-size constraint the most.
package caobab

import (
	"github.com/mhthies/cdecao"
	"github.com/mhthies/cdecao/hungarian"
)

// WeightOffset is the base weight of a first-choice assignment. The offset
// dwarfs the per-rank decrements, so the matching objective first maximizes
// the number of participants placed into any of their chosen courses and only
// then optimizes preference ranks within that.
const WeightOffset hungarian.Weight = 50000

// choiceWeight returns the edge weight of a participant's rank-th choice.
// Weights decrease strictly with rank; unchosen courses get weight 0 (the
// offset makes any chosen-course edge dominate them).
func choiceWeight(rank int) hungarian.Weight {
	return WeightOffset - hungarian.Weight(rank)
}

// Problem holds the data precomputed once per (courses, participants) pair
// and shared, read-only, by all branch-and-bound node evaluations.
type Problem struct {
	// AdjacencyMatrix is the n×n weight matrix of the assignment relaxation,
	// where n is the total number of course places. Rows 0..P-1 are real
	// participants, rows P..n-1 are dummy participants padding the problem to
	// a square; dummy rows are all zero.
	AdjacencyMatrix *hungarian.Matrix

	// CourseMap maps each matrix column to the course owning that place.
	CourseMap []int

	// InverseCourseMap maps each course to its first column; course c owns
	// the column range [InverseCourseMap[c], InverseCourseMap[c]+NumMax[c]).
	InverseCourseMap []int

	// DummyX marks the dummy participant rows.
	DummyX []bool
}

// PrecomputeProblem builds the Problem for the given courses and
// participants. It panics if the course places cannot seat all participants
// (P > Σ NumMax); checking input data beyond that is the caller's job, see
// cdecao.CheckConsistency.
func PrecomputeProblem(courses []cdecao.Course, participants []cdecao.Participant) *Problem {
	n := 0
	for _, c := range courses {
		n += c.NumMax
	}
	if len(participants) > n {
		panic("caobab: more participants than course places")
	}

	p := &Problem{
		AdjacencyMatrix:  hungarian.NewMatrix(n),
		CourseMap:        make([]int, n),
		InverseCourseMap: make([]int, len(courses)),
		DummyX:           make([]bool, n),
	}

	col := 0
	for c, course := range courses {
		p.InverseCourseMap[c] = col
		for j := 0; j < course.NumMax; j++ {
			p.CourseMap[col] = c
			col++
		}
	}

	for x, participant := range participants {
		for rank, choice := range participant.Choices {
			base := p.InverseCourseMap[choice]
			for j := 0; j < courses[choice].NumMax; j++ {
				p.AdjacencyMatrix.Set(x, base+j, choiceWeight(rank))
			}
		}
	}
	for x := len(participants); x < n; x++ {
		p.DummyX[x] = true
	}

	return p
}
