// Package cdecao computes optimal course assignments: every participant is
// placed into exactly one course such that course capacities are respected,
// instructors teach the course they offer, everybody else ends up in one of
// their chosen courses, and the preference-weighted objective is maximal.
// Courses may be cancelled to reach feasibility.
//
// The solver itself lives in the caobab package (branch and bound over
// weighted bipartite matchings, see caobab.Solve); this package holds the
// shared data model and the input consistency check.
package cdecao

import "fmt"

// A Participant of the event. Index must equal the participant's position in
// the participants slice; DBID is a stable external identifier with no
// meaning to the solver. Choices lists course indices in order of preference.
type Participant struct {
	Index   int
	DBID    uint64
	Name    string
	Choices []int
}

// A Course that may be offered. Index must equal the course's position in the
// courses slice. NumMin and NumMax bound the number of attendees *excluding*
// the course's own instructors. Instructors lists participant indices.
type Course struct {
	Index       int
	DBID        uint64
	Name        string
	NumMin      int
	NumMax      int
	Instructors []int
}

// An Assignment maps each participant (by index) to a course index. It is
// total: len(assignment) equals the number of participants.
type Assignment []int

// CheckConsistency verifies the cross-referencing invariants of a problem
// description: indices equal list positions, every choice references an
// existing course, every instructor references an existing participant, and
// capacity bounds satisfy 0 < NumMin <= NumMax.
//
// The solver assumes these invariants and does not re-check them (a violation
// may make it panic); callers reading external data must run this first.
func CheckConsistency(participants []Participant, courses []Course) error {
	for i, p := range participants {
		if p.Index != i {
			return fmt.Errorf("index of participant %q is %d, expected %d", p.Name, p.Index, i)
		}
		for _, c := range p.Choices {
			if c < 0 || c >= len(courses) {
				return fmt.Errorf("participant %q has invalid course choice %d", p.Name, c)
			}
		}
	}
	instructorOf := make(map[int]int)
	for i, c := range courses {
		if c.Index != i {
			return fmt.Errorf("index of course %q is %d, expected %d", c.Name, c.Index, i)
		}
		if c.NumMin <= 0 || c.NumMin > c.NumMax {
			return fmt.Errorf("course %q has invalid capacity bounds [%d, %d]", c.Name, c.NumMin, c.NumMax)
		}
		if len(c.Instructors) > c.NumMin {
			return fmt.Errorf("course %q has more instructors (%d) than its minimum size %d", c.Name, len(c.Instructors), c.NumMin)
		}
		for _, instr := range c.Instructors {
			if instr < 0 || instr >= len(participants) {
				return fmt.Errorf("course %q has invalid instructor index %d", c.Name, instr)
			}
			if other, taken := instructorOf[instr]; taken {
				return fmt.Errorf("participant %q instructs both course %q and course %q",
					participants[instr].Name, courses[other].Name, c.Name)
			}
			instructorOf[instr] = i
		}
	}
	return nil
}
