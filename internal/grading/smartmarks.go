package grading

import (
	"fmt"
	"math"
	"sort"

	"github.com/mind-engage/mindengage-blueprint/internal/blueprint"
)

// AnsweredQuestion is a graded answer of one student to one question of a section.
// MaxMarks may be left zero, in which case the section's per-question marks apply.
type AnsweredQuestion struct {
	QuestionNumber int     `json:"question_number"`
	QuestionID     string  `json:"question_id,omitempty"`
	MarksObtained  float64 `json:"marks_obtained" validate:"gte=0"`
	MaxMarks       float64 `json:"max_marks,omitempty" validate:"gte=0"`
	IsOptional     bool    `json:"is_optional"`
	IsSelected     bool    `json:"is_selected"`
}

type MandatoryDetail struct {
	QuestionNumber int     `json:"question_number"`
	MarksObtained  float64 `json:"marks_obtained"`
	MaxMarks       float64 `json:"max_marks"`
	Unattempted    bool    `json:"unattempted,omitempty"`
}

type OptionalDetail struct {
	QuestionNumber int     `json:"question_number"`
	MarksObtained  float64 `json:"marks_obtained"`
	MaxMarks       float64 `json:"max_marks"`
	IsSelected     bool    `json:"is_selected"`
	Counted        bool    `json:"counted"`
}

type SmartMarksResult struct {
	SectionID          string            `json:"section_id"`
	MandatoryMarks     float64           `json:"mandatory_marks"`
	OptionalMarks      float64           `json:"optional_marks"`
	TotalMarks         float64           `json:"total_marks"`
	MaxPossible        float64           `json:"max_possible"`
	Percentage         float64           `json:"percentage"`
	QuestionsAttempted int               `json:"questions_attempted"`
	MandatoryDetails   []MandatoryDetail `json:"mandatory_details"`
	OptionalDetails    []OptionalDetail  `json:"optional_details"`
}

// ConfigurationError reports a section definition the aggregator cannot score.
type ConfigurationError struct {
	Section string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Section == "" {
		return "invalid section: " + e.Reason
	}
	return fmt.Sprintf("invalid section %q: %s", e.Section, e.Reason)
}

// ComputeSmartMarks scores one student's answers to a section. Every mandatory answer
// counts; of the selected optional answers only the best OptionalQuota() count, ties
// going to the earlier answer. Missing mandatory answers score zero.
func ComputeSmartMarks(sec blueprint.Section, answers []AnsweredQuestion) (SmartMarksResult, error) {
	if err := checkSection(sec); err != nil {
		return SmartMarksResult{}, err
	}

	res := SmartMarksResult{
		SectionID:        sectionKey(sec),
		MaxPossible:      sec.TotalMarks,
		MandatoryDetails: []MandatoryDetail{},
		OptionalDetails:  []OptionalDetail{},
	}

	var selected []int // indexes into res.OptionalDetails
	used := make(map[int]bool, len(answers))
	for _, a := range answers {
		used[a.QuestionNumber] = true
		if !a.IsOptional {
			res.MandatoryDetails = append(res.MandatoryDetails, MandatoryDetail{
				QuestionNumber: a.QuestionNumber,
				MarksObtained:  a.MarksObtained,
				MaxMarks:       maxMarks(a, sec),
			})
			res.MandatoryMarks += a.MarksObtained
			res.QuestionsAttempted++
			continue
		}
		res.OptionalDetails = append(res.OptionalDetails, OptionalDetail{
			QuestionNumber: a.QuestionNumber,
			MarksObtained:  a.MarksObtained,
			MaxMarks:       maxMarks(a, sec),
			IsSelected:     a.IsSelected,
		})
		if a.IsSelected {
			selected = append(selected, len(res.OptionalDetails)-1)
		}
	}

	// Placeholders take the lowest free numbers, so with mandatory questions numbered
	// first they land on the unanswered mandatory slots.
	next := 1
	for missing := sec.MandatoryQuestions - len(res.MandatoryDetails); missing > 0; missing-- {
		for used[next] {
			next++
		}
		used[next] = true
		res.MandatoryDetails = append(res.MandatoryDetails, MandatoryDetail{
			QuestionNumber: next,
			MaxMarks:       sec.QuestionMarks,
			Unattempted:    true,
		})
	}

	for _, i := range bestOf(res.OptionalDetails, selected, sec.OptionalQuota()) {
		res.OptionalDetails[i].Counted = true
		res.OptionalMarks += res.OptionalDetails[i].MarksObtained
		res.QuestionsAttempted++
	}

	res.TotalMarks = res.MandatoryMarks + res.OptionalMarks
	res.Percentage = percentage(res.TotalMarks, res.MaxPossible)
	return res, nil
}

// bestOf picks at most n of the candidate indexes, highest marks first. The
// stable sort keeps input order among equal marks.
func bestOf(details []OptionalDetail, candidates []int, n int) []int {
	if n <= 0 || len(candidates) == 0 {
		return nil
	}
	if len(candidates) <= n {
		return candidates
	}
	picked := append([]int(nil), candidates...)
	sort.SliceStable(picked, func(i, j int) bool {
		return details[picked[i]].MarksObtained > details[picked[j]].MarksObtained
	})
	return picked[:n]
}

func checkSection(sec blueprint.Section) error {
	bad := func(format string, args ...interface{}) error {
		return &ConfigurationError{Section: sectionKey(sec), Reason: fmt.Sprintf(format, args...)}
	}
	switch {
	case sec.TotalQuestions < 0 || sec.MandatoryQuestions < 0 || sec.OptionalQuestions < 0 || sec.QuestionsToAttempt < 0:
		return bad("question counts must not be negative")
	case sec.QuestionMarks < 0 || sec.TotalMarks < 0:
		return bad("marks must not be negative")
	case sec.QuestionsToAttempt < sec.MandatoryQuestions:
		return bad("questions to attempt (%d) below mandatory questions (%d)", sec.QuestionsToAttempt, sec.MandatoryQuestions)
	case sec.QuestionsToAttempt > sec.TotalQuestions:
		return bad("questions to attempt (%d) exceeds total questions (%d)", sec.QuestionsToAttempt, sec.TotalQuestions)
	case sec.MandatoryQuestions+sec.OptionalQuestions != sec.TotalQuestions:
		return bad("%d mandatory + %d optional != %d total questions", sec.MandatoryQuestions, sec.OptionalQuestions, sec.TotalQuestions)
	case sec.SectionType == blueprint.SectionMandatory && sec.OptionalQuestions != 0:
		return bad("mandatory section has %d optional questions", sec.OptionalQuestions)
	case sec.SectionType == blueprint.SectionMandatory && sec.QuestionsToAttempt != sec.TotalQuestions:
		return bad("mandatory section must attempt all %d questions, got %d", sec.TotalQuestions, sec.QuestionsToAttempt)
	}
	return nil
}

func sectionKey(sec blueprint.Section) string {
	if sec.ID != "" {
		return sec.ID
	}
	return sec.Name
}

func maxMarks(a AnsweredQuestion, sec blueprint.Section) float64 {
	if a.MaxMarks > 0 {
		return a.MaxMarks
	}
	return sec.QuestionMarks
}

// percentage is rounded to one decimal and bounded to [0, 100].
func percentage(got, max float64) float64 {
	if max == 0 {
		return 0
	}
	p := math.Round(got/max*1000) / 10
	return math.Max(0, math.Min(100, p))
}
