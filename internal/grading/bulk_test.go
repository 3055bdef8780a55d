package grading

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marksSheet = `student_id,question_number,marks_obtained,is_optional,is_selected
s1,1,7,false,false
s2,1,10,no,no
s1,2,4,true,true
s1,3,9,true,true
s1,4,8,true,true
s2,2,6,yes,yes
`

func TestParseAnswersCSV(t *testing.T) {
	rows, err := ParseAnswersCSV(strings.NewReader(marksSheet))
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "s1", rows[0].StudentID)
	assert.Equal(t, 1, rows[0].QuestionNumber)
	assert.Equal(t, 7.0, rows[0].MarksObtained)
	assert.False(t, rows[0].IsOptional)
	assert.True(t, rows[5].IsOptional)
	assert.True(t, rows[5].IsSelected)
}

func TestParseAnswersCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing column", "student_id,marks_obtained\ns1,3\n", "missing column: question_number"},
		{"bad number", "student_id,question_number,marks_obtained\ns1,x,3\n", "line 2: question_number"},
		{"bad marks", "student_id,question_number,marks_obtained\ns1,1,lots\n", "line 2: marks_obtained"},
		{"bad flag", "student_id,question_number,marks_obtained,is_optional\ns1,1,3,maybe\n", "line 2: is_optional"},
		{"empty student", "student_id,question_number,marks_obtained\n,1,3\n", "line 2: student_id is empty"},
		{"empty input", "", "read header"},
		{"repeated answer", "student_id,question_number,marks_obtained\ns1,1,2\ns2,1,2\ns1,1,2\n", "line 4: student s1 answers question 1 again (first on line 2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAnswersCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseAnswersCSVLooseMarks(t *testing.T) {
	rows, err := ParseAnswersCSV(strings.NewReader("student_id,question_number,marks_obtained,max_marks\ns1,1,7 / 10,10\ns1,2,4.5 marks,5\n"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 7.0, rows[0].MarksObtained)
	assert.Equal(t, 10.0, rows[0].MaxMarks)
	assert.Equal(t, 4.5, rows[1].MarksObtained)
}

func TestComputeBulk(t *testing.T) {
	rows, err := ParseAnswersCSV(strings.NewReader(marksSheet))
	require.NoError(t, err)

	results, err := ComputeBulk(mixedSection(), rows)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "s1", results[0].StudentID)
	assert.Equal(t, 24.0, results[0].Result.TotalMarks)
	assert.Equal(t, 80.0, results[0].Result.Percentage)

	assert.Equal(t, "s2", results[1].StudentID)
	assert.Equal(t, 16.0, results[1].Result.TotalMarks)
	assert.Equal(t, 2, results[1].Result.QuestionsAttempted)
}

func TestComputeBulkRejectsBadSection(t *testing.T) {
	sec := mixedSection()
	sec.QuestionsToAttempt = 0
	_, err := ComputeBulk(sec, nil)
	var cerr *ConfigurationError
	assert.True(t, errors.As(err, &cerr), "error = %v", err)
}

func TestClampMarks(t *testing.T) {
	assert.Equal(t, 0.0, ClampMarks(-1, 5))
	assert.Equal(t, 5.0, ClampMarks(7, 5))
	assert.Equal(t, 3.5, ClampMarks(3.5, 5))
}
