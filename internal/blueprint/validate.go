package blueprint

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

type IssueKind string

const (
	TotalMarksMismatch    IssueKind = "total_marks_mismatch"
	QuestionCountMismatch IssueKind = "question_count_mismatch"
	AttemptCountInvalid   IssueKind = "attempt_count_invalid"
	EmptyBlueprint        IssueKind = "empty_blueprint"
)

// Issue is one advisory problem found in a blueprint. Section is the index of the
// offending section, or -1 for exam-level issues.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Section int       `json:"section"`
	Name    string    `json:"section_name,omitempty"`
	Message string    `json:"message"`
}

type Issues []Issue

func (is Issues) Has(kind IssueKind) bool {
	for _, i := range is {
		if i.Kind == kind {
			return true
		}
	}
	return false
}

// Err returns nil for an empty list, a *ValidationError otherwise.
func (is Issues) Err() error {
	if len(is) == 0 {
		return nil
	}
	flds := make([]FieldError, 0, len(is))
	for _, i := range is {
		field := "total_marks"
		if i.Section >= 0 {
			field = "sections[" + strconv.Itoa(i.Section) + "]"
		} else if i.Kind == EmptyBlueprint {
			field = "sections"
		}
		flds = append(flds, FieldError{Field: field, Error: i.Message})
	}
	return NewValidationError(errors.Errorf("blueprint has %d issue(s)", len(is)), flds...)
}

// FieldError is used to indicate an error with a specific field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// Validate cross-checks a blueprint. It never fails; an empty result means valid.
func Validate(bp ExamBlueprint) Issues {
	issues := Issues{}
	if len(bp.Sections) == 0 {
		return append(issues, Issue{
			Kind:    EmptyBlueprint,
			Section: -1,
			Message: "blueprint has no sections",
		})
	}

	if sum := bp.SectionMarks(); sum != bp.TotalMarks {
		issues = append(issues, Issue{
			Kind:    TotalMarksMismatch,
			Section: -1,
			Message: fmt.Sprintf("sections add up to %s marks, exam total is %s", fmtMarks(sum), fmtMarks(bp.TotalMarks)),
		})
	}

	for i, s := range bp.Sections {
		issues = append(issues, sectionIssues(i, s)...)
	}
	return issues
}

func sectionIssues(idx int, s Section) Issues {
	var out Issues
	add := func(kind IssueKind, format string, args ...interface{}) {
		out = append(out, Issue{Kind: kind, Section: idx, Name: s.Name, Message: fmt.Sprintf(format, args...)})
	}

	if s.MandatoryQuestions+s.OptionalQuestions != s.TotalQuestions {
		add(QuestionCountMismatch, "%d mandatory + %d optional questions != %d total",
			s.MandatoryQuestions, s.OptionalQuestions, s.TotalQuestions)
	}
	if s.SectionType == SectionMandatory && s.OptionalQuestions != 0 {
		add(QuestionCountMismatch, "mandatory section has %d optional questions", s.OptionalQuestions)
	}
	if n := len(s.Questions); n > 0 && n != s.TotalQuestions {
		add(QuestionCountMismatch, "section holds %d questions, declares %d", n, s.TotalQuestions)
	}

	switch {
	case s.QuestionsToAttempt > s.TotalQuestions:
		add(AttemptCountInvalid, "questions to attempt (%d) exceeds total questions (%d)",
			s.QuestionsToAttempt, s.TotalQuestions)
	case s.QuestionsToAttempt < s.MandatoryQuestions:
		add(AttemptCountInvalid, "questions to attempt (%d) is below mandatory questions (%d)",
			s.QuestionsToAttempt, s.MandatoryQuestions)
	case s.SectionType == SectionMandatory && s.QuestionsToAttempt != s.TotalQuestions:
		add(AttemptCountInvalid, "mandatory section must attempt all %d questions, got %d",
			s.TotalQuestions, s.QuestionsToAttempt)
	}
	return out
}

func fmtMarks(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
