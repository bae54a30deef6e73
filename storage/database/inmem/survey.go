package inmemdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/masomo-insights/core"
	"github.com/trezcool/masomo-insights/core/survey"
)

type surveyRepository struct {
	db *surveyTable
}

var _ survey.Repository = (*surveyRepository)(nil) // interface compliance check

func NewSurveyRepository(db *DB) *surveyRepository {
	return &surveyRepository{db: db.survey}
}

// AddSurvey stores srv and its questions, setting missing IDs.
func (repo *surveyRepository) AddSurvey(srv survey.Survey) survey.Survey {
	repo.db.Lock()
	defer repo.db.Unlock()

	if srv.ID == "" {
		srv.ID = uuid.New().String()
	}
	if srv.CreatedAt.IsZero() {
		srv.CreatedAt = time.Now().UTC()
	}
	questions := make([]survey.Question, 0, len(srv.Questions))
	for _, q := range srv.Questions {
		if q.ID == "" {
			q.ID = uuid.New().String()
		}
		q.SurveyID = srv.ID
		questions = append(questions, q)
	}
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Position < questions[j].Position })
	srv.Questions = questions

	repo.db.table[srv.ID] = &srv
	return srv
}

// AddEnrollment enrolls students in a course of the given school.
func (repo *surveyRepository) AddEnrollment(schoolID, courseID string, studentIDs ...string) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c, ok := repo.db.courses[courseID]
	if !ok {
		c = &course{schoolID: schoolID}
		repo.db.courses[courseID] = c
	}
	c.students = append(c.students, studentIDs...)
}

// AddResponses stores historical responses as is, without any validation.
func (repo *surveyRepository) AddResponses(surveyID string, responses ...survey.SurveyResponse) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.responses[surveyID] = append(repo.db.responses[surveyID], responses...)
}

func (repo *surveyRepository) get(schoolID, id string) (survey.Survey, bool) {
	srv, ok := repo.db.table[id]
	if !ok || srv.SchoolID != schoolID {
		return survey.Survey{}, false
	}
	res := *srv
	res.Questions = append([]survey.Question(nil), srv.Questions...)
	return res, true
}

func (repo *surveyRepository) GetSurvey(_ context.Context, schoolID, id string) (survey.Survey, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if srv, ok := repo.get(schoolID, id); ok {
		return srv, nil
	}
	return survey.Survey{}, survey.ErrNotFound
}

func (repo *surveyRepository) QuerySurveys(_ context.Context, schoolID string, filter *survey.QueryFilter, ordering []core.DBOrdering) ([]survey.Survey, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	surveys := make([]survey.Survey, 0)
	for _, srv := range repo.db.table {
		if srv.SchoolID != schoolID {
			continue
		}
		if filter != nil {
			search := strings.ToLower(filter.Search)
			if search != "" && !(strings.Contains(strings.ToLower(srv.Title), search) ||
				strings.Contains(strings.ToLower(srv.Description), search)) {
				continue
			}
			if filter.CourseID != "" && srv.CourseID != filter.CourseID {
				continue
			}
			if filter.IsActive != nil && srv.IsActive != *filter.IsActive {
				continue
			}
		}
		s := *srv
		s.Questions = nil
		surveys = append(surveys, s)
	}

	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "created_at"}}
	}
	sort.SliceStable(surveys, func(i, j int) bool {
		for _, ord := range ordering {
			c := compareSurveys(surveys[i], surveys[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return surveys[i].ID < surveys[j].ID
	})
	return surveys, nil
}

func compareSurveys(a, b survey.Survey, field string) int {
	switch field {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "created_at":
		return compareTimes(a.CreatedAt, b.CreatedAt)
	case "closes_at":
		var ta, tb time.Time
		if a.ClosesAt != nil {
			ta = *a.ClosesAt
		}
		if b.ClosesAt != nil {
			tb = *b.ClosesAt
		}
		return compareTimes(ta, tb)
	}
	return 0
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func (repo *surveyRepository) FetchResponses(_ context.Context, schoolID, surveyID string) ([]survey.SurveyResponse, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if _, ok := repo.get(schoolID, surveyID); !ok {
		return []survey.SurveyResponse{}, nil
	}
	responses := append(make([]survey.SurveyResponse, 0, len(repo.db.responses[surveyID])), repo.db.responses[surveyID]...)
	sort.SliceStable(responses, func(i, j int) bool { return responses[i].SubmittedAt.Before(responses[j].SubmittedAt) })
	return responses, nil
}

func (repo *surveyRepository) FetchEnrolledStudents(_ context.Context, schoolID, courseID string) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	c, ok := repo.db.courses[courseID]
	if !ok || c.schoolID != schoolID {
		return []string{}, nil
	}
	return append([]string{}, c.students...), nil
}

func (repo *surveyRepository) HasResponded(_ context.Context, surveyID, studentID string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, r := range repo.db.responses[surveyID] {
		if r.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *surveyRepository) CreateResponses(_ context.Context, surveyID, studentID string, answers []survey.Answer, submittedAt time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	srv, ok := repo.db.table[surveyID]
	if !ok {
		return survey.ErrNotFound
	}
	questions := make(map[string]survey.Question, len(srv.Questions))
	for _, q := range srv.Questions {
		questions[q.ID] = q
	}

	for _, a := range answers {
		q := questions[a.QuestionID]
		repo.db.responses[surveyID] = append(repo.db.responses[surveyID], survey.SurveyResponse{
			StudentID:    studentID,
			QuestionID:   a.QuestionID,
			QuestionText: q.Text,
			QuestionType: q.Type,
			Value:        a.Value,
			SubmittedAt:  submittedAt.UTC(),
		})
	}
	return nil
}
