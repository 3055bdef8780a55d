package blueprint

type SectionType string

const (
	SectionMandatory SectionType = "mandatory"
	SectionOptional  SectionType = "optional"
	SectionMixed     SectionType = "mixed"
)

type BloomLevel string

const (
	BloomRemember   BloomLevel = "remember"
	BloomUnderstand BloomLevel = "understand"
	BloomApply      BloomLevel = "apply"
	BloomAnalyze    BloomLevel = "analyze"
	BloomEvaluate   BloomLevel = "evaluate"
	BloomCreate     BloomLevel = "create"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is one slot of a section. CO tagging is carried for backend analytics only.
type Question struct {
	ID              string     `json:"id,omitempty"`
	SectionID       string     `json:"section_id,omitempty"`
	Number          int        `json:"number"`
	Marks           float64    `json:"marks" validate:"gte=0"`
	IsOptional      bool       `json:"is_optional"`
	IsSelected      bool       `json:"is_selected,omitempty"`
	BloomLevel      BloomLevel `json:"bloom_level,omitempty" validate:"omitempty,oneof=remember understand apply analyze evaluate create"`
	DifficultyLevel Difficulty `json:"difficulty_level,omitempty" validate:"omitempty,oneof=easy medium hard"`
	COID            string     `json:"co_id,omitempty"`
	COWeight        float64    `json:"co_weight,omitempty" validate:"gte=0"`
}

type Section struct {
	ID                 string      `json:"id,omitempty"`
	Name               string      `json:"name" validate:"required"`
	Instructions       string      `json:"instructions,omitempty"`
	TotalMarks         float64     `json:"total_marks" validate:"gte=0"`
	TotalQuestions     int         `json:"total_questions" validate:"gte=0"`
	QuestionsToAttempt int         `json:"questions_to_attempt" validate:"gte=0"`
	SectionType        SectionType `json:"section_type" validate:"required,oneof=mandatory optional mixed"`
	OptionalQuestions  int         `json:"optional_questions" validate:"gte=0"`
	MandatoryQuestions int         `json:"mandatory_questions" validate:"gte=0"`
	QuestionMarks      float64     `json:"question_marks" validate:"gte=0"`
	IsOptionalSection  bool        `json:"is_optional_section"`
	Questions          []Question  `json:"questions,omitempty" validate:"dive"`
}

// SkippableQuestions is how many questions of the section a student may leave out.
func (s Section) SkippableQuestions() int {
	if n := s.TotalQuestions - s.QuestionsToAttempt; n > 0 {
		return n
	}
	return 0
}

// OptionalQuota is how many optional answers can count toward the section total.
func (s Section) OptionalQuota() int {
	if n := s.QuestionsToAttempt - s.MandatoryQuestions; n > 0 {
		return n
	}
	return 0
}

// Scaffold returns the question skeleton of the section: mandatory slots first, then optional ones.
func (s Section) Scaffold() []Question {
	if s.TotalQuestions <= 0 {
		return nil
	}
	out := make([]Question, 0, s.TotalQuestions)
	for i := 0; i < s.TotalQuestions; i++ {
		out = append(out, Question{
			SectionID:       s.ID,
			Number:          i + 1,
			Marks:           s.QuestionMarks,
			IsOptional:      i >= s.MandatoryQuestions,
			BloomLevel:      BloomRemember,
			DifficultyLevel: DifficultyMedium,
		})
	}
	return out
}

type ExamBlueprint struct {
	ID              string    `json:"id,omitempty"`
	Title           string    `json:"title,omitempty"`
	ExamType        string    `json:"exam_type" validate:"required"`
	TotalMarks      float64   `json:"total_marks" validate:"gte=0"`
	DurationMinutes int       `json:"duration_minutes" validate:"gte=0"`
	Sections        []Section `json:"sections" validate:"dive"`

	CreatedBy string `json:"created_by,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`
	UpdatedAt int64  `json:"updated_at,omitempty"`
}

// SectionMarks sums the declared marks of every section.
func (b ExamBlueprint) SectionMarks() float64 {
	total := 0.0
	for _, s := range b.Sections {
		total += s.TotalMarks
	}
	return total
}

// Scaffold returns a copy of b where every section without questions gets its skeleton.
func (b ExamBlueprint) Scaffold() ExamBlueprint {
	out := b
	out.Sections = make([]Section, len(b.Sections))
	for i, s := range b.Sections {
		if len(s.Questions) == 0 {
			s.Questions = s.Scaffold()
		} else {
			s.Questions = append([]Question(nil), s.Questions...)
		}
		out.Sections[i] = s
	}
	return out
}
