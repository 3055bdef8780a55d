package blueprint

import (
	"testing"

	"github.com/pkg/errors"
)

func validSection() Section {
	return Section{
		Name:               "Section B",
		TotalMarks:         40,
		TotalQuestions:     6,
		QuestionsToAttempt: 4,
		SectionType:        SectionOptional,
		OptionalQuestions:  6,
		QuestionMarks:      10,
		IsOptionalSection:  true,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		bp    ExamBlueprint
		kinds []IssueKind
	}{
		{
			name:  "empty",
			bp:    ExamBlueprint{TotalMarks: 100},
			kinds: []IssueKind{EmptyBlueprint},
		},
		{
			name:  "valid",
			bp:    ExamBlueprint{TotalMarks: 40, Sections: []Section{validSection()}},
			kinds: nil,
		},
		{
			name:  "total mismatch is exact",
			bp:    ExamBlueprint{TotalMarks: 40.5, Sections: []Section{validSection()}},
			kinds: []IssueKind{TotalMarksMismatch},
		},
		{
			name: "question count mismatch",
			bp: ExamBlueprint{TotalMarks: 40, Sections: []Section{func() Section {
				s := validSection()
				s.OptionalQuestions = 2
				return s
			}()}},
			kinds: []IssueKind{QuestionCountMismatch},
		},
		{
			name: "attempt exceeds total",
			bp: ExamBlueprint{TotalMarks: 40, Sections: []Section{func() Section {
				s := validSection()
				s.QuestionsToAttempt = 7
				return s
			}()}},
			kinds: []IssueKind{AttemptCountInvalid},
		},
		{
			name: "attempt below mandatory",
			bp: ExamBlueprint{TotalMarks: 40, Sections: []Section{func() Section {
				s := validSection()
				s.SectionType = SectionMixed
				s.MandatoryQuestions = 5
				s.OptionalQuestions = 1
				return s
			}()}},
			kinds: []IssueKind{AttemptCountInvalid},
		},
		{
			name: "mandatory section with optional questions",
			bp: ExamBlueprint{TotalMarks: 20, Sections: []Section{{
				Name: "Section A", TotalMarks: 20, TotalQuestions: 10, QuestionsToAttempt: 10,
				SectionType: SectionMandatory, MandatoryQuestions: 8, OptionalQuestions: 2, QuestionMarks: 2,
			}}},
			kinds: []IssueKind{QuestionCountMismatch},
		},
		{
			name: "mandatory section skipping questions",
			bp: ExamBlueprint{TotalMarks: 20, Sections: []Section{{
				Name: "Section A", TotalMarks: 20, TotalQuestions: 10, QuestionsToAttempt: 9,
				SectionType: SectionMandatory, MandatoryQuestions: 9, OptionalQuestions: 1, QuestionMarks: 2,
			}}},
			kinds: []IssueKind{QuestionCountMismatch, AttemptCountInvalid},
		},
		{
			name: "authored questions disagree with declared count",
			bp: ExamBlueprint{TotalMarks: 40, Sections: []Section{func() Section {
				s := validSection()
				s.Questions = s.Scaffold()[:5]
				return s
			}()}},
			kinds: []IssueKind{QuestionCountMismatch},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.bp)
			if got == nil {
				t.Fatal("Validate() returned nil, want non-nil list")
			}
			if len(got) != len(tt.kinds) {
				t.Fatalf("Validate() = %+v, want kinds %v", got, tt.kinds)
			}
			for i, k := range tt.kinds {
				if got[i].Kind != k {
					t.Errorf("issue %d kind = %s, want %s", i, got[i].Kind, k)
				}
			}
		})
	}
}

func TestValidateSectionIndex(t *testing.T) {
	bad := validSection()
	bad.QuestionsToAttempt = 9
	bp := ExamBlueprint{TotalMarks: 80, Sections: []Section{validSection(), bad}}
	got := Validate(bp)
	if len(got) != 1 || got[0].Section != 1 || got[0].Name != "Section B" {
		t.Fatalf("Validate() = %+v", got)
	}
}

func TestIssuesErr(t *testing.T) {
	if err := (Issues{}).Err(); err != nil {
		t.Fatalf("empty issues Err() = %v", err)
	}
	issues := Validate(ExamBlueprint{TotalMarks: 10, Sections: []Section{validSection()}})
	err := issues.Err()
	if err == nil {
		t.Fatal("Err() = nil")
	}
	verr, ok := errors.Cause(err).(*ValidationError)
	if !ok {
		t.Fatalf("Err() type = %T", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "total_marks" {
		t.Errorf("fields = %+v", verr.Fields)
	}
	if !issues.Has(TotalMarksMismatch) || issues.Has(EmptyBlueprint) {
		t.Errorf("Has() mismatch for %+v", issues)
	}
}
