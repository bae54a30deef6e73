package echoapi

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-insights/core"
	"github.com/trezcool/masomo-insights/core/survey"
	"github.com/trezcool/masomo-insights/core/user"
)

type surveyApi struct {
	svc      *survey.Service
	validate *validator.Validate
}

func registerSurveyAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *survey.Service, validate *validator.Validate) {
	api := surveyApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/surveys", jwt)
	staff := roleMiddleware(user.StaffRoles...)

	sg.GET("", api.query, staff)
	sg.GET("/:id", api.retrieve)
	sg.GET("/:id/analytics", api.analytics, staff)
	sg.GET("/:id/analytics/chart", api.chart, staff)
	sg.GET("/:id/students", api.students, staff)
	sg.POST("/:id/responses", api.respond, roleMiddleware(user.RoleStudent))
	sg.POST("/:id/report", api.mailReport, staff)
}

// Handlers

func (api *surveyApi) query(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}

	filter := &survey.QueryFilter{
		Search:   ctx.QueryParam("search"),
		CourseID: ctx.QueryParam("course_id"),
	}
	if val := ctx.QueryParam("is_active"); val != "" {
		isActive, err := strconv.ParseBool(val)
		if err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "is_active", Error: "must be a boolean"})
		}
		filter.IsActive = &isActive
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	surveys, err := api.svc.ListSurveys(ctx.Request().Context(), sess, filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "listing surveys")
	}
	if surveys == nil {
		surveys = []survey.Survey{}
	}
	return ctx.JSON(http.StatusOK, surveys)
}

func (api *surveyApi) retrieve(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	srv, err := api.svc.GetSurvey(ctx.Request().Context(), sess, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting survey")
	}
	return ctx.JSON(http.StatusOK, srv)
}

func (api *surveyApi) analytics(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	report, err := api.svc.Analyze(ctx.Request().Context(), sess, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "analyzing survey")
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api *surveyApi) chart(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	report, err := api.svc.Analyze(ctx.Request().Context(), sess, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "analyzing survey")
	}

	var buf bytes.Buffer
	if err = survey.RenderTierChart(&buf, report); err != nil {
		return errors.Wrap(err, "rendering tier chart")
	}
	return ctx.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (api *surveyApi) students(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	perf, err := api.svc.StudentPerformance(ctx.Request().Context(), sess, ctx.Param("id"), ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "computing student performance")
	}
	return ctx.JSON(http.StatusOK, perf)
}

func (api *surveyApi) respond(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}

	var data survey.NewResponse
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResponse")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	if err = api.svc.Submit(ctx.Request().Context(), sess, ctx.Param("id"), data); err != nil {
		return errors.Wrap(err, "submitting responses")
	}
	return ctx.NoContent(http.StatusCreated)
}

func (api *surveyApi) mailReport(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	if err = api.svc.MailReport(ctx.Request().Context(), sess, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "mailing report")
	}
	return ctx.JSON(http.StatusAccepted, SuccessResponse{Success: "The report will arrive in your inbox shortly."})
}

type SuccessResponse struct {
	Success string `json:"success"`
}
