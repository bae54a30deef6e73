package survey

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-insights/core"
)

type QuestionType string

// Question types
const (
	QuestionRating         QuestionType = "rating"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionText           QuestionType = "text"
)

// Rating scale accepted on submission.
const (
	RatingMin = 1
	RatingMax = 5
)

type Tier string

// Performance tiers
const (
	TierExcelling  Tier = "excelling"
	TierGood       Tier = "good"
	TierStruggling Tier = "struggling"
	TierNoData     Tier = "no_data"
)

// Tier lower bounds, inclusive.
const (
	excellingThreshold  = 4.5
	goodThreshold       = 3.5
	strugglingThreshold = 2.5
)

var AllTiers = []Tier{TierExcelling, TierGood, TierStruggling, TierNoData}

type Survey struct {
	ID          string     `json:"id"`
	SchoolID    string     `json:"school_id"`
	CourseID    string     `json:"course_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedBy   string     `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`          // UTC
	ClosesAt    *time.Time `json:"closes_at,omitempty"` // UTC
	Questions   []Question `json:"questions,omitempty"`
}

// IsOpen reports whether the survey still accepts responses at `now`.
func (s Survey) IsOpen(now time.Time) bool {
	if !s.IsActive {
		return false
	}
	return s.ClosesAt == nil || now.Before(*s.ClosesAt)
}

type Question struct {
	ID       string       `json:"id"`
	SurveyID string       `json:"survey_id"`
	Text     string       `json:"question_text"`
	Type     QuestionType `json:"question_type"`
	Position int          `json:"position"`
	Required bool         `json:"is_required"`
}

// SurveyResponse is one stored answer of a student to a survey question,
// already joined with the question it answers.
type SurveyResponse struct {
	StudentID    string       `json:"student_id"`
	QuestionID   string       `json:"question_id"`
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`
	Value        string       `json:"response_value"`
	SubmittedAt  time.Time    `json:"submitted_at"` // UTC
}

// ScoredResponse is a rating response whose value parsed as an integer.
type ScoredResponse struct {
	StudentID   string
	QuestionID  string
	Score       int
	SubmittedAt time.Time
}

type StudentPerformance struct {
	StudentID      string    `json:"student_id"`
	AverageScore   float64   `json:"average_score"`
	ResponseCount  int       `json:"response_count"`
	LastResponseAt time.Time `json:"last_response_at"`
	Tier           Tier      `json:"performance_tier"`
}

type QuestionStats struct {
	QuestionText  string       `json:"question_text"`
	QuestionType  QuestionType `json:"question_type"`
	AverageScore  float64      `json:"average_score"`
	ResponseCount int          `json:"response_count"`
}

type ClassSummary struct {
	TotalResponses int     `json:"total_responses"`
	AverageScore   float64 `json:"average_score"`
	// ParticipationRate is responses per respondent * 100, so it is not bounded by 100.
	// See Roster.Coverage for the share of enrolled students who responded.
	ParticipationRate  float64              `json:"participation_rate"`
	TopPerformers      []StudentPerformance `json:"top_performers"`
	StrugglingStudents []StudentPerformance `json:"struggling_students"`
	QuestionBreakdown  []QuestionStats      `json:"question_breakdown"`
}

// Roster compares respondents with the students enrolled in the survey's course.
type Roster struct {
	CourseID       string   `json:"course_id"`
	Enrolled       int      `json:"enrolled"`
	Respondents    int      `json:"respondents"`
	Coverage       float64  `json:"coverage"`
	NonRespondents []string `json:"non_respondents"`
}

type Report struct {
	Survey      Survey               `json:"survey"`
	Students    []StudentPerformance `json:"students"`
	Summary     ClassSummary         `json:"summary"`
	TierCounts  map[Tier]int         `json:"tier_counts"`
	Roster      *Roster              `json:"roster,omitempty"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// NewResponse contains a student's answers to a survey.
type NewResponse struct {
	Answers []Answer `json:"answers" validate:"required,min=1,dive"`
}

type Answer struct {
	QuestionID string `json:"question_id" validate:"required"`
	Value      string `json:"value" validate:"notblank"`
}

func (nr *NewResponse) Validate(validate *validator.Validate) error {
	for i := range nr.Answers {
		nr.Answers[i].QuestionID = core.CleanString(nr.Answers[i].QuestionID)
		nr.Answers[i].Value = core.CleanString(nr.Answers[i].Value)
	}
	return validate.Struct(nr)
}

type QueryFilter struct {
	Search   string
	CourseID string
	IsActive *bool
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.CourseID = core.CleanString(qf.CourseID)
}
