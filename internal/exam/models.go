package exam

import (
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-blueprint/internal/blueprint"
)

// Summary is the list view of a stored blueprint.
type Summary struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	ExamType        string  `json:"exam_type"`
	TotalMarks      float64 `json:"total_marks"`
	DurationMinutes int     `json:"duration_minutes"`
	SectionCount    int     `json:"section_count"`
	CreatedBy       string  `json:"created_by,omitempty"`
	UpdatedAt       int64   `json:"updated_at"`
}

func summarize(bp blueprint.ExamBlueprint) Summary {
	return Summary{
		ID:              bp.ID,
		Title:           bp.Title,
		ExamType:        bp.ExamType,
		TotalMarks:      bp.TotalMarks,
		DurationMinutes: bp.DurationMinutes,
		SectionCount:    len(bp.Sections),
		CreatedBy:       bp.CreatedBy,
		UpdatedAt:       bp.UpdatedAt,
	}
}

// withIDs returns a copy of bp where the blueprint, its sections and their questions
// all carry IDs and questions point at their section.
func withIDs(bp blueprint.ExamBlueprint, now time.Time) blueprint.ExamBlueprint {
	out := bp
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if out.CreatedAt == 0 {
		out.CreatedAt = now.Unix()
	}
	out.UpdatedAt = now.Unix()
	out.Sections = make([]blueprint.Section, len(bp.Sections))
	for i, s := range bp.Sections {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		qs := make([]blueprint.Question, len(s.Questions))
		for j, q := range s.Questions {
			if q.ID == "" {
				q.ID = uuid.NewString()
			}
			q.SectionID = s.ID
			qs[j] = q
		}
		if len(qs) > 0 {
			s.Questions = qs
		}
		out.Sections[i] = s
	}
	return out
}
