package grading

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-blueprint/internal/blueprint"
)

// StudentAnswer is one row of a bulk marks sheet.
type StudentAnswer struct {
	StudentID string `json:"student_id"`
	AnsweredQuestion
}

type StudentResult struct {
	StudentID string           `json:"student_id"`
	Result    SmartMarksResult `json:"result"`
}

// ComputeBulk groups rows by student, in order of first appearance, and scores each
// student's answers against sec.
func ComputeBulk(sec blueprint.Section, rows []StudentAnswer) ([]StudentResult, error) {
	if err := checkSection(sec); err != nil {
		return nil, err
	}
	order := make([]string, 0, 16)
	byStudent := map[string][]AnsweredQuestion{}
	for _, r := range rows {
		if _, ok := byStudent[r.StudentID]; !ok {
			order = append(order, r.StudentID)
		}
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r.AnsweredQuestion)
	}
	out := make([]StudentResult, 0, len(order))
	for _, id := range order {
		res, err := ComputeSmartMarks(sec, byStudent[id])
		if err != nil {
			return nil, err
		}
		out = append(out, StudentResult{StudentID: id, Result: res})
	}
	return out, nil
}

// ClampMarks bounds a manually entered mark to [0, max].
func ClampMarks(obtained, max float64) float64 {
	if obtained < 0 {
		return 0
	}
	if max >= 0 && obtained > max {
		return max
	}
	return obtained
}

// ParseAnswersCSV reads a marks sheet with the header
// student_id,question_number,marks_obtained[,max_marks][,is_optional][,is_selected].
// Column order is free; header names are case-insensitive. A student may appear only
// once per question_number.
func ParseAnswersCSV(r io.Reader) ([]StudentAnswer, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	hdr, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, k := range []string{"student_id", "question_number", "marks_obtained"} {
		if _, ok := idx[k]; !ok {
			return nil, errors.New("missing column: " + k)
		}
	}

	type answerKey struct {
		student  string
		question int
	}
	seen := map[answerKey]int{} // first line of each answer

	var rows []StudentAnswer
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		col := func(name string) string {
			if i, ok := idx[name]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		row := StudentAnswer{StudentID: col("student_id")}
		if row.StudentID == "" {
			return nil, errors.Errorf("line %d: student_id is empty", line)
		}
		if row.QuestionNumber, err = strconv.Atoi(col("question_number")); err != nil {
			return nil, errors.Wrapf(err, "line %d: question_number", line)
		}
		key := answerKey{row.StudentID, row.QuestionNumber}
		if first, ok := seen[key]; ok {
			return nil, errors.Errorf("line %d: student %s answers question %d again (first on line %d)",
				line, row.StudentID, row.QuestionNumber, first)
		}
		seen[key] = line
		if row.MarksObtained, err = parseMarks(col("marks_obtained")); err != nil {
			return nil, errors.Wrapf(err, "line %d: marks_obtained", line)
		}
		if v := col("max_marks"); v != "" {
			if row.MaxMarks, err = parseMarks(v); err != nil {
				return nil, errors.Wrapf(err, "line %d: max_marks", line)
			}
		}
		if row.IsOptional, err = parseFlag(col("is_optional")); err != nil {
			return nil, errors.Wrapf(err, "line %d: is_optional", line)
		}
		if row.IsSelected, err = parseFlag(col("is_selected")); err != nil {
			return nil, errors.Wrapf(err, "line %d: is_selected", line)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseMarks accepts plain numbers as well as spreadsheet forms like "7 / 10" or "7.5 marks".
func parseMarks(s string) (float64, error) {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	if head := strings.Fields(strings.Replace(s, "/", " ", 1)); len(head) > 0 {
		if v, err := strconv.ParseFloat(head[0], 64); err == nil {
			return v, nil
		}
	}
	return 0, errors.Errorf("not a number: %q", s)
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "0", "false", "no", "n":
		return false, nil
	case "1", "true", "yes", "y":
		return true, nil
	default:
		return false, errors.Errorf("not a boolean: %q", s)
	}
}
