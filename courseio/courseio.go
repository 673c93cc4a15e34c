// Package courseio reads course assignment problems and renders computed
// assignments. The core solver itself is I/O-free; everything that touches
// files or text lives here.
package courseio

import (
	"strings"

	"github.com/mhthies/cdecao"
)

// FormatAssignment renders a computed course assignment into a human readable
// string, e.g. for printing to stdout. The output looks like
//
//	===== Course name =====
//	Anton Administrator (instr)
//	Bertalotta Beispiel
//
//	===== Another course name =====
//	…
//
// Cancelled courses appear as empty sections.
func FormatAssignment(assignment cdecao.Assignment, courses []cdecao.Course, participants []cdecao.Participant) string {
	var b strings.Builder
	for _, c := range courses {
		b.WriteString("\n===== ")
		b.WriteString(c.Name)
		b.WriteString(" =====\n")
		for p, ac := range assignment {
			if ac != c.Index {
				continue
			}
			b.WriteString(participants[p].Name)
			if isInstructor(c, p) {
				b.WriteString(" (instr)")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func isInstructor(c cdecao.Course, participant int) bool {
	for _, instr := range c.Instructors {
		if instr == participant {
			return true
		}
	}
	return false
}
