package courseio

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhthies/cdecao"
)

func testProblem() ([]cdecao.Course, []cdecao.Participant) {
	courses := []cdecao.Course{
		{Index: 0, DBID: 10, Name: "Algorithms", NumMin: 1, NumMax: 2, Instructors: []int{0}},
		{Index: 1, DBID: 11, Name: "Gardening", NumMin: 1, NumMax: 2, Instructors: []int{1}},
	}
	participants := []cdecao.Participant{
		{Index: 0, DBID: 20, Name: "Anton Administrator", Choices: []int{1}},
		{Index: 1, DBID: 21, Name: "Bertalotta Beispiel", Choices: []int{0}},
		{Index: 2, DBID: 22, Name: "Charly Clown", Choices: []int{0, 1}},
	}
	return courses, participants
}

func TestFormatAssignment(t *testing.T) {
	courses, participants := testProblem()
	assignment := cdecao.Assignment{0, 1, 0}

	got := FormatAssignment(assignment, courses, participants)

	want := "\n===== Algorithms =====\n" +
		"Anton Administrator (instr)\n" +
		"Charly Clown\n" +
		"\n===== Gardening =====\n" +
		"Bertalotta Beispiel (instr)\n"
	assert.Equal(t, want, got)
}

func TestFormatAssignment_CancelledCourse(t *testing.T) {
	courses, participants := testProblem()
	// nobody attends Gardening; it renders as an empty section
	assignment := cdecao.Assignment{0, 0, 0}

	got := FormatAssignment(assignment, courses, participants)

	assert.Contains(t, got, "\n===== Gardening =====\n")
	assert.True(t, strings.HasSuffix(got, "===== Gardening =====\n"))
}

func TestReadProblem(t *testing.T) {
	doc := `{
		"courses": [
			{"id": 10, "name": "Algorithms", "num_min": 1, "num_max": 2, "instructors": [0]},
			{"id": 11, "name": "Gardening", "num_min": 1, "num_max": 2, "instructors": [1]}
		],
		"participants": [
			{"id": 20, "name": "Anton Administrator", "choices": [1]},
			{"id": 21, "name": "Bertalotta Beispiel", "choices": [0]},
			{"id": 22, "name": "Charly Clown", "choices": [0, 1]}
		]
	}`

	courses, participants, err := ReadProblem(strings.NewReader(doc))

	require.NoError(t, err)
	wantCourses, wantParticipants := testProblem()
	if diff := cmp.Diff(wantCourses, courses); diff != "" {
		t.Errorf("courses mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantParticipants, participants); diff != "" {
		t.Errorf("participants mismatch (-want +got):\n%s", diff)
	}
}

func TestReadProblem_Inconsistent(t *testing.T) {
	doc := `{
		"courses": [
			{"id": 10, "name": "Algorithms", "num_min": 1, "num_max": 2, "instructors": [7]}
		],
		"participants": [
			{"id": 20, "name": "Anton Administrator", "choices": [0]}
		]
	}`

	_, _, err := ReadProblem(strings.NewReader(doc))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid instructor index")
}

func TestReadProblem_Garbage(t *testing.T) {
	_, _, err := ReadProblem(strings.NewReader("not json"))
	assert.Error(t, err)
}

func TestWriteAssignment(t *testing.T) {
	courses, participants := testProblem()
	assignment := cdecao.Assignment{0, 0, 0}

	var buf strings.Builder
	err := WriteAssignment(&buf, assignment, courses, participants, 12345)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `"score": 12345`)
	// Gardening has no attendees and is reported as cancelled
	assert.Contains(t, out, `"cancelled_courses": [
    11
  ]`)
	assert.Contains(t, out, `"is_instructor": true`)
}
