package survey

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-insights/core"
)

var (
	// errors
	ErrNotFound         = core.NewNotFoundError("survey not found")
	ErrSurveyClosed     = errors.New("this survey is closed")
	ErrAlreadySubmitted = errors.New("you already responded to this survey")
	errNoReportEmail    = errors.New("no email address to send the report to")

	ratingScaleText = fmt.Sprintf("rating must be an integer between %d and %d", RatingMin, RatingMax)
)

// Survey ordering fields
var surveyOrderings = []string{"title", "created_at", "closes_at"}

const reportTemplate = "survey_report"

type Repository interface {
	// GetSurvey returns the survey with its questions, ordered by position.
	// A survey of another school is reported as not found.
	GetSurvey(ctx context.Context, schoolID, id string) (Survey, error)
	QuerySurveys(ctx context.Context, schoolID string, filter *QueryFilter, ordering []core.DBOrdering) ([]Survey, error)
	// FetchResponses returns every response to the survey joined with its question,
	// ordered by submission time.
	FetchResponses(ctx context.Context, schoolID, surveyID string) ([]SurveyResponse, error)
	FetchEnrolledStudents(ctx context.Context, schoolID, courseID string) ([]string, error)
	HasResponded(ctx context.Context, surveyID, studentID string) (bool, error)
	// CreateResponses stores all answers of a student or none of them.
	CreateResponses(ctx context.Context, surveyID, studentID string, answers []Answer, submittedAt time.Time) error
}

type Service struct {
	repo    Repository
	mailSvc core.EmailService
	logger  core.Logger
	now     func() time.Time
}

func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		logger:  logger,
		now:     time.Now,
	}
}

func (svc *Service) GetSurvey(ctx context.Context, sess core.Session, id string) (Survey, error) {
	return svc.repo.GetSurvey(ctx, sess.SchoolID, core.CleanString(id))
}

func (svc *Service) ListSurveys(ctx context.Context, sess core.Session, filter *QueryFilter, ordering []core.DBOrdering) ([]Survey, error) {
	if err := core.CheckOrdering(ordering, surveyOrderings...); err != nil {
		return nil, err
	}
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QuerySurveys(ctx, sess.SchoolID, filter, ordering)
}

// Analyze computes the survey's report from its stored responses.
// Nothing derived is persisted: each call recomputes the report.
func (svc *Service) Analyze(ctx context.Context, sess core.Session, surveyID string) (Report, error) {
	srv, err := svc.GetSurvey(ctx, sess, surveyID)
	if err != nil {
		return Report{}, errors.Wrap(err, "getting survey")
	}
	responses, err := svc.repo.FetchResponses(ctx, sess.SchoolID, srv.ID)
	if err != nil {
		return Report{}, errors.Wrap(err, "fetching responses")
	}

	report := BuildReport(srv, responses, svc.now())
	if srv.CourseID != "" {
		enrolled, err := svc.repo.FetchEnrolledStudents(ctx, sess.SchoolID, srv.CourseID)
		if err != nil {
			return Report{}, errors.Wrap(err, "fetching enrolled students")
		}
		roster := ComputeRoster(srv.CourseID, responses, enrolled)
		report.Roster = &roster
	}

	svc.logger.Debug(
		fmt.Sprintf("survey %s analyzed: %d responses from %d students", srv.ID, len(responses), len(report.Students)),
		sess,
	)
	return report, nil
}

// StudentPerformance returns the survey's per-student results, sorted by ordering.
func (svc *Service) StudentPerformance(ctx context.Context, sess core.Session, surveyID string, ordering []core.DBOrdering) ([]StudentPerformance, error) {
	if err := core.CheckOrdering(ordering, performanceOrderings...); err != nil {
		return nil, err
	}
	srv, err := svc.GetSurvey(ctx, sess, surveyID)
	if err != nil {
		return nil, errors.Wrap(err, "getting survey")
	}
	responses, err := svc.repo.FetchResponses(ctx, sess.SchoolID, srv.ID)
	if err != nil {
		return nil, errors.Wrap(err, "fetching responses")
	}

	perf := ComputeStudentPerformance(responses)
	if err = SortPerformance(perf, ordering); err != nil {
		return nil, err
	}
	return perf, nil
}

// Submit stores the session student's answers to a survey.
// nr must have been validated beforehand.
func (svc *Service) Submit(ctx context.Context, sess core.Session, surveyID string, nr NewResponse) error {
	srv, err := svc.GetSurvey(ctx, sess, surveyID)
	if err != nil {
		return errors.Wrap(err, "getting survey")
	}
	if !srv.IsOpen(svc.now()) {
		return core.NewValidationError(ErrSurveyClosed)
	}

	responded, err := svc.repo.HasResponded(ctx, srv.ID, sess.UserID)
	if err != nil {
		return errors.Wrap(err, "checking previous responses")
	}
	if responded {
		return core.NewValidationError(ErrAlreadySubmitted)
	}

	if err = checkAnswers(srv.Questions, nr.Answers); err != nil {
		return err
	}

	err = svc.repo.CreateResponses(ctx, srv.ID, sess.UserID, nr.Answers, svc.now().UTC())
	return errors.Wrap(err, "creating responses")
}

// checkAnswers matches answers against the survey questions.
func checkAnswers(questions []Question, answers []Answer) error {
	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	var fldErrs []core.FieldError
	answered := make(map[string]bool, len(answers))
	for i, a := range answers {
		q, ok := byID[a.QuestionID]
		switch {
		case !ok:
			fldErrs = append(fldErrs, core.FieldError{
				Field: fmt.Sprintf("answers[%d].question_id", i),
				Error: "unknown question",
			})
			continue
		case answered[a.QuestionID]:
			fldErrs = append(fldErrs, core.FieldError{
				Field: fmt.Sprintf("answers[%d].question_id", i),
				Error: "question answered more than once",
			})
			continue
		}
		answered[a.QuestionID] = true

		if q.Type == QuestionRating {
			if score, err := strconv.Atoi(a.Value); err != nil || score < RatingMin || score > RatingMax {
				fldErrs = append(fldErrs, core.FieldError{Field: fmt.Sprintf("answers[%d].value", i), Error: ratingScaleText})
			}
		}
	}

	var missing []string
	for _, q := range questions {
		if q.Required && !answered[q.ID] {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		fldErrs = append(fldErrs, core.FieldError{
			Field: "answers",
			Error: "missing answers to required questions: " + strings.Join(missing, ", "),
		})
	}

	if len(fldErrs) > 0 {
		return core.NewValidationError(errors.New("invalid answers"), fldErrs...)
	}
	return nil
}

// MailReport analyzes the survey and mails the report to the session user.
// The per-student results and the tier chart are attached.
func (svc *Service) MailReport(ctx context.Context, sess core.Session, surveyID string) error {
	if sess.Email == "" {
		return core.NewValidationError(errNoReportEmail)
	}

	report, err := svc.Analyze(ctx, sess, surveyID)
	if err != nil {
		return errors.Wrap(err, "analyzing survey")
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: sess.Username, Address: sess.Email}},
		Subject:      "Survey report: " + report.Survey.Title,
		TemplateName: reportTemplate,
		TemplateData: report,
	}

	var buf bytes.Buffer
	if err = WriteStudentsCSV(&buf, report.Students); err != nil {
		return errors.Wrap(err, "writing students csv")
	}
	if err = msg.Attach(&buf, "students.csv", "text/csv"); err != nil {
		return errors.Wrap(err, "attaching students csv")
	}

	buf.Reset()
	if err = RenderTierChart(&buf, report); err != nil {
		return errors.Wrap(err, "rendering tier chart")
	}
	if err = msg.Attach(&buf, "tiers.html", "text/html"); err != nil {
		return errors.Wrap(err, "attaching tier chart")
	}

	svc.mailSvc.SendMessages(msg)
	return nil
}
