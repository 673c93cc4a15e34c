package courseio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mhthies/cdecao"
	"github.com/mhthies/cdecao/hungarian"
)

// The "simple" JSON problem format:
//
//	{
//	  "courses": [
//	    {"id": 1, "name": "Algorithms", "num_min": 2, "num_max": 10, "instructors": [0]},
//	    …
//	  ],
//	  "participants": [
//	    {"id": 7, "name": "Anton Administrator", "choices": [0, 2, 1]},
//	    …
//	  ]
//	}
//
// Choices and instructors reference list positions; ids are opaque external
// identifiers carried through to the output.

type simpleCourse struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	NumMin      int    `json:"num_min"`
	NumMax      int    `json:"num_max"`
	Instructors []int  `json:"instructors"`
}

type simpleParticipant struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Choices []int  `json:"choices"`
}

type simpleProblem struct {
	Courses      []simpleCourse      `json:"courses"`
	Participants []simpleParticipant `json:"participants"`
}

// ReadProblem parses a problem in the simple JSON format and checks its
// consistency.
func ReadProblem(r io.Reader) ([]cdecao.Course, []cdecao.Participant, error) {
	var doc simpleProblem
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("parsing problem: %w", err)
	}

	courses := make([]cdecao.Course, len(doc.Courses))
	for i, c := range doc.Courses {
		courses[i] = cdecao.Course{
			Index:       i,
			DBID:        c.ID,
			Name:        c.Name,
			NumMin:      c.NumMin,
			NumMax:      c.NumMax,
			Instructors: c.Instructors,
		}
	}
	participants := make([]cdecao.Participant, len(doc.Participants))
	for i, p := range doc.Participants {
		participants[i] = cdecao.Participant{
			Index:   i,
			DBID:    p.ID,
			Name:    p.Name,
			Choices: p.Choices,
		}
	}

	if err := cdecao.CheckConsistency(participants, courses); err != nil {
		return nil, nil, err
	}
	return courses, participants, nil
}

type assignmentEntry struct {
	Participant  uint64 `json:"participant"`
	Name         string `json:"name"`
	Course       uint64 `json:"course"`
	CourseName   string `json:"course_name"`
	IsInstructor bool   `json:"is_instructor"`
}

type assignmentDocument struct {
	Assignment []assignmentEntry `json:"assignment"`
	Cancelled  []uint64          `json:"cancelled_courses"`
	Score      int64             `json:"score"`
}

// WriteAssignment writes a computed assignment as JSON: one entry per
// participant (referencing external ids), the cancelled courses and the
// achieved score.
func WriteAssignment(w io.Writer, assignment cdecao.Assignment,
	courses []cdecao.Course, participants []cdecao.Participant, score hungarian.Score) error {

	doc := assignmentDocument{Score: int64(score)}

	attended := make([]bool, len(courses))
	for p, c := range assignment {
		attended[c] = true
		doc.Assignment = append(doc.Assignment, assignmentEntry{
			Participant:  participants[p].DBID,
			Name:         participants[p].Name,
			Course:       courses[c].DBID,
			CourseName:   courses[c].Name,
			IsInstructor: isInstructor(courses[c], p),
		})
	}
	for c, course := range courses {
		if !attended[c] {
			doc.Cancelled = append(doc.Cancelled, course.DBID)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
