package boiledrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries"

	"github.com/trezcool/masomo-insights/core"
	"github.com/trezcool/masomo-insights/core/survey"
)

const surveyColumns = `id, school_id, course_id, title, description, is_active, created_by, created_at, closes_at`

type (
	surveyRow struct {
		ID          string      `boil:"id"`
		SchoolID    string      `boil:"school_id"`
		CourseID    null.String `boil:"course_id"`
		Title       string      `boil:"title"`
		Description null.String `boil:"description"`
		IsActive    bool        `boil:"is_active"`
		CreatedBy   null.String `boil:"created_by"`
		CreatedAt   time.Time   `boil:"created_at"`
		ClosesAt    null.Time   `boil:"closes_at"`
	}

	questionRow struct {
		ID         string `boil:"id"`
		SurveyID   string `boil:"survey_id"`
		Text       string `boil:"question_text"`
		Type       string `boil:"question_type"`
		Position   int    `boil:"position"`
		IsRequired bool   `boil:"is_required"`
	}

	responseRow struct {
		StudentID    string    `boil:"student_id"`
		QuestionID   string    `boil:"question_id"`
		QuestionText string    `boil:"question_text"`
		QuestionType string    `boil:"question_type"`
		Value        string    `boil:"response_value"`
		SubmittedAt  time.Time `boil:"submitted_at"`
	}
)

type surveyRepository struct {
	db      *sql.DB
	timeout time.Duration
}

var _ survey.Repository = (*surveyRepository)(nil) // interface compliance check

func NewSurveyRepository(db *sql.DB, conf *core.Config) *surveyRepository {
	return &surveyRepository{db: db, timeout: conf.Database.FetchTimeout}
}

func (repo surveyRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if repo.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, repo.timeout)
}

func (repo surveyRepository) unboilSurvey(row surveyRow) survey.Survey {
	srv := survey.Survey{
		ID:          row.ID,
		SchoolID:    row.SchoolID,
		CourseID:    row.CourseID.String,
		Title:       row.Title,
		Description: row.Description.String,
		IsActive:    row.IsActive,
		CreatedBy:   row.CreatedBy.String,
		CreatedAt:   row.CreatedAt.UTC(),
	}
	if row.ClosesAt.Valid {
		closesAt := row.ClosesAt.Time.UTC()
		srv.ClosesAt = &closesAt
	}
	return srv
}

// trapNoRowsErr maps psql "no rows" err to survey.ErrNotFound
func (repo surveyRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return survey.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func validIDs(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}

func (repo surveyRepository) GetSurvey(ctx context.Context, schoolID, id string) (survey.Survey, error) {
	if !validIDs(schoolID, id) {
		return survey.Survey{}, survey.ErrNotFound
	}
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	var row surveyRow
	q := `SELECT ` + surveyColumns + ` FROM survey WHERE id = $1 AND school_id = $2`
	if err := queries.Raw(q, id, schoolID).Bind(ctx, repo.db, &row); err != nil {
		return survey.Survey{}, repo.trapNoRowsErr(err, "finding survey")
	}

	var questions []questionRow
	q = `SELECT id, survey_id, question_text, question_type, position, is_required
		FROM survey_question WHERE survey_id = $1 ORDER BY position, id`
	if err := queries.Raw(q, id).Bind(ctx, repo.db, &questions); err != nil {
		return survey.Survey{}, errors.Wrap(err, "querying survey questions")
	}

	srv := repo.unboilSurvey(row)
	srv.Questions = make([]survey.Question, 0, len(questions))
	for _, qr := range questions {
		srv.Questions = append(srv.Questions, survey.Question{
			ID:       qr.ID,
			SurveyID: qr.SurveyID,
			Text:     qr.Text,
			Type:     survey.QuestionType(qr.Type),
			Position: qr.Position,
			Required: qr.IsRequired,
		})
	}
	return srv, nil
}

func (repo surveyRepository) QuerySurveys(ctx context.Context, schoolID string, filter *survey.QueryFilter, ordering []core.DBOrdering) ([]survey.Survey, error) {
	if !validIDs(schoolID) {
		return []survey.Survey{}, nil
	}
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	where := []string{"school_id = $1"}
	args := []interface{}{schoolID}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.Search != "" {
			ph := arg("%" + filter.Search + "%")
			where = append(where, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", ph, ph))
		}
		if filter.CourseID != "" {
			if !validIDs(filter.CourseID) {
				return []survey.Survey{}, nil
			}
			where = append(where, "course_id = "+arg(filter.CourseID))
		}
		if filter.IsActive != nil {
			where = append(where, "is_active = "+arg(*filter.IsActive))
		}
	}

	// ordering fields are checked by the service
	orderBy := "created_at DESC"
	if len(ordering) > 0 {
		orderList := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			orderList = append(orderList, ord.String())
		}
		orderBy = strings.Join(orderList, ", ")
	}

	q := fmt.Sprintf(`SELECT %s FROM survey WHERE %s ORDER BY %s`, surveyColumns, strings.Join(where, " AND "), orderBy)
	var rows []surveyRow
	if err := queries.Raw(q, args...).Bind(ctx, repo.db, &rows); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return []survey.Survey{}, nil
		}
		return nil, errors.Wrap(err, "querying surveys")
	}

	surveys := make([]survey.Survey, 0, len(rows))
	for _, row := range rows {
		surveys = append(surveys, repo.unboilSurvey(row))
	}
	return surveys, nil
}

func (repo surveyRepository) FetchResponses(ctx context.Context, schoolID, surveyID string) ([]survey.SurveyResponse, error) {
	if !validIDs(schoolID, surveyID) {
		return []survey.SurveyResponse{}, nil
	}
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	q := `SELECT r.student_id, r.question_id, q.question_text, q.question_type, r.response_value, r.submitted_at
		FROM survey_response r
		JOIN survey_question q ON q.id = r.question_id
		JOIN survey s ON s.id = r.survey_id
		WHERE r.survey_id = $1 AND s.school_id = $2
		ORDER BY r.submitted_at, q.position, r.id`
	var rows []responseRow
	if err := queries.Raw(q, surveyID, schoolID).Bind(ctx, repo.db, &rows); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return []survey.SurveyResponse{}, nil
		}
		return nil, errors.Wrap(err, "fetching survey responses")
	}

	responses := make([]survey.SurveyResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, survey.SurveyResponse{
			StudentID:    row.StudentID,
			QuestionID:   row.QuestionID,
			QuestionText: row.QuestionText,
			QuestionType: survey.QuestionType(row.QuestionType),
			Value:        row.Value,
			SubmittedAt:  row.SubmittedAt.UTC(),
		})
	}
	return responses, nil
}

func (repo surveyRepository) FetchEnrolledStudents(ctx context.Context, schoolID, courseID string) ([]string, error) {
	if !validIDs(schoolID, courseID) {
		return []string{}, nil
	}
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	q := `SELECT e.student_id FROM enrollment e
		JOIN course c ON c.id = e.course_id
		WHERE e.course_id = $1 AND c.school_id = $2
		ORDER BY e.enrolled_at, e.student_id`
	var rows []struct {
		StudentID string `boil:"student_id"`
	}
	if err := queries.Raw(q, courseID, schoolID).Bind(ctx, repo.db, &rows); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return []string{}, nil
		}
		return nil, errors.Wrap(err, "fetching enrolled students")
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.StudentID)
	}
	return ids, nil
}

func (repo surveyRepository) HasResponded(ctx context.Context, surveyID, studentID string) (bool, error) {
	if !validIDs(surveyID, studentID) {
		return false, nil
	}
	var res struct {
		Responded bool `boil:"responded"`
	}
	q := `SELECT EXISTS (SELECT 1 FROM survey_response WHERE survey_id = $1 AND student_id = $2) AS responded`
	if err := queries.Raw(q, surveyID, studentID).Bind(ctx, repo.db, &res); err != nil {
		return false, errors.Wrap(err, "checking survey responses")
	}
	return res.Responded, nil
}

func (repo surveyRepository) CreateResponses(ctx context.Context, surveyID, studentID string, answers []survey.Answer, submittedAt time.Time) error {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}

	q := `INSERT INTO survey_response (id, survey_id, question_id, student_id, response_value, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (survey_id, question_id, student_id) DO NOTHING`
	for _, a := range answers {
		_, err = queries.Raw(q, uuid.New().String(), surveyID, a.QuestionID, studentID, a.Value, submittedAt.UTC()).ExecContext(ctx, tx)
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "inserting survey response")
		}
	}
	return errors.Wrap(tx.Commit(), "committing survey responses")
}
