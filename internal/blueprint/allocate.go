package blueprint

import (
	"fmt"
	"math"
	"strings"
)

const (
	ExamInternal = "internal"
	ExamQuiz     = "quiz"
)

// allocator derives the sections of one exam type from the exam's total marks.
type allocator func(totalMarks float64) []Section

// allocators is read-only after package init.
var allocators = map[string]allocator{
	ExamInternal: internalSections,
	ExamQuiz:     quizSections,
}

// Generate derives the section layout for an exam type. Unknown types yield an empty
// layout so the caller builds sections by hand; it never fails.
//
// Marks are rounded half away from zero and never reconciled here: Validate reports
// any drift between the section sum and the exam total.
func Generate(examType string, totalMarks float64) []Section {
	alloc, ok := allocators[NormalizeExamType(examType)]
	if !ok {
		return []Section{}
	}
	return alloc(totalMarks)
}

// Supported reports whether Generate knows a layout for examType.
func Supported(examType string) bool {
	_, ok := allocators[NormalizeExamType(examType)]
	return ok
}

// New builds a blueprint for examType around the generated sections.
func New(examType string, totalMarks float64, durationMinutes int) ExamBlueprint {
	return ExamBlueprint{
		ExamType:        NormalizeExamType(examType),
		TotalMarks:      totalMarks,
		DurationMinutes: durationMinutes,
		Sections:        Generate(examType, totalMarks),
	}
}

// NormalizeExamType is the form exam types are matched and stored in.
func NormalizeExamType(t string) string { return strings.ToLower(strings.TrimSpace(t)) }

// internalSections: A is 20% short answers at 2 marks each, B and C split the rest as
// "any 4 of 6" and "any 2 of 4".
func internalSections(total float64) []Section {
	aQuestions := int(math.Round(total * 0.1))
	a := Section{
		Name:               "Section A",
		Instructions:       "Answer all questions.",
		TotalMarks:         math.Round(total * 0.2),
		TotalQuestions:     aQuestions,
		QuestionsToAttempt: aQuestions,
		SectionType:        SectionMandatory,
		MandatoryQuestions: aQuestions,
		QuestionMarks:      2,
	}
	return []Section{
		a,
		optionalSection("Section B", math.Round(total*0.4), 6, 4),
		optionalSection("Section C", math.Round(total*0.4), 4, 2),
	}
}

func optionalSection(name string, marks float64, questions, attempt int) Section {
	return Section{
		Name:               name,
		Instructions:       fmt.Sprintf("Answer any %d out of %d questions.", attempt, questions),
		TotalMarks:         marks,
		TotalQuestions:     questions,
		QuestionsToAttempt: attempt,
		SectionType:        SectionOptional,
		OptionalQuestions:  questions,
		MandatoryQuestions: 0,
		QuestionMarks:      math.Round(marks / float64(attempt)),
		IsOptionalSection:  true,
	}
}

func quizSections(total float64) []Section {
	const n = 20
	return []Section{{
		Name:               "Section A",
		Instructions:       "Answer all questions.",
		TotalMarks:         total,
		TotalQuestions:     n,
		QuestionsToAttempt: n,
		SectionType:        SectionMandatory,
		MandatoryQuestions: n,
		QuestionMarks:      math.Round(total / n),
	}}
}
