package caobab

import "github.com/mhthies/cdecao"

// checkFeasibility decides whether a relaxed matching is a valid solution for
// the given node and, if not, extracts the branching information.
//
// courseInstructors marks participants that are on instructor duty in this
// node, i.e. must sit in the course they teach. For everyone else the
// assigned course must be one of their choices.
//
// The results are:
//   - feasible: every non-cancelled course has at least NumMin attendees (not
//     counting its instructors), no cancelled course has attendees, every
//     on-duty instructor sits in their course and every other participant
//     sits in a chosen course;
//   - wrongPlacement: some participant sits where they must not: an on-duty
//     instructor away from their course or a regular participant outside
//     their choices. The driver then branches on enforcement only, since
//     cancelling capacity cannot repair a wrong placement;
//   - branchCourse: the non-cancelled course with the largest NumMin deficit
//     (lowest index on ties), or -1 when no course is deficient.
func checkFeasibility(courses []cdecao.Course, participants []cdecao.Participant,
	assignment cdecao.Assignment, node *BABNode, courseInstructors []bool) (feasible, wrongPlacement bool, branchCourse int) {

	feasible = true
	branchCourse = -1

	for c, course := range courses {
		if node.Cancelled(c) {
			continue
		}
		for _, instr := range course.Instructors {
			if courseInstructors[instr] && assignment[instr] != c {
				wrongPlacement = true
				feasible = false
			}
		}
	}

	courseSize := make([]int, len(courses))
	for p, c := range assignment {
		if courseInstructors[p] {
			continue
		}
		courseSize[c]++
		if !chose(participants[p], c) {
			wrongPlacement = true
			feasible = false
		}
	}

	for _, c := range node.CancelledCourses {
		if courseSize[c] > 0 {
			feasible = false
		}
	}

	maxDeficit := 0
	for c, course := range courses {
		if node.Cancelled(c) {
			continue
		}
		if courseSize[c] < course.NumMin {
			feasible = false
			if deficit := course.NumMin - courseSize[c]; deficit > maxDeficit {
				maxDeficit = deficit
				branchCourse = c
			}
		}
	}

	return feasible, wrongPlacement, branchCourse
}

func chose(p cdecao.Participant, course int) bool {
	for _, c := range p.Choices {
		if c == course {
			return true
		}
	}
	return false
}
