package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-insights/core"
	"github.com/trezcool/masomo-insights/core/survey"
)

func TestSurveyRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSurveyRepository(Open())
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	week1 := repo.AddSurvey(survey.Survey{
		SchoolID: "sch1", Title: "Week 1", IsActive: true, CreatedAt: now,
		Questions: []survey.Question{
			{Text: "Comments", Type: survey.QuestionText, Position: 2},
			{Text: "Pace", Type: survey.QuestionRating, Position: 1},
		},
	})
	week2 := repo.AddSurvey(survey.Survey{SchoolID: "sch1", Title: "Week 2", CreatedAt: now.Add(time.Hour)})
	other := repo.AddSurvey(survey.Survey{SchoolID: "sch2", Title: "Week 1"})

	t.Run("get", func(t *testing.T) {
		srv, err := repo.GetSurvey(ctx, "sch1", week1.ID)
		require.NoError(t, err)
		require.Len(t, srv.Questions, 2)
		assert.Equal(t, "Pace", srv.Questions[0].Text)
		assert.Equal(t, week1.ID, srv.Questions[0].SurveyID)

		_, err = repo.GetSurvey(ctx, "sch1", other.ID)
		assert.Equal(t, survey.ErrNotFound, err)
	})

	t.Run("query", func(t *testing.T) {
		active := true
		tests := []struct {
			name     string
			filter   *survey.QueryFilter
			ordering []core.DBOrdering
			want     []string
		}{
			{name: "default ordering", want: []string{week2.ID, week1.ID}},
			{name: "title", ordering: []core.DBOrdering{{Field: "title", Ascending: true}}, want: []string{week1.ID, week2.ID}},
			{name: "search", filter: &survey.QueryFilter{Search: "week 2"}, want: []string{week2.ID}},
			{name: "is_active", filter: &survey.QueryFilter{IsActive: &active}, want: []string{week1.ID}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				surveys, err := repo.QuerySurveys(ctx, "sch1", tt.filter, tt.ordering)
				require.NoError(t, err)
				ids := make([]string, 0, len(surveys))
				for _, srv := range surveys {
					ids = append(ids, srv.ID)
				}
				assert.Equal(t, tt.want, ids)
			})
		}
	})

	t.Run("responses", func(t *testing.T) {
		pace := week1.Questions[0]
		require.Equal(t, "Pace", pace.Text)

		err := repo.CreateResponses(ctx, week1.ID, "s1", []survey.Answer{{QuestionID: pace.ID, Value: "4"}}, now)
		require.NoError(t, err)
		repo.AddResponses(week1.ID, survey.SurveyResponse{StudentID: "s0", QuestionText: "Pace", QuestionType: survey.QuestionRating, Value: "bad", SubmittedAt: now.Add(-time.Hour)})

		responses, err := repo.FetchResponses(ctx, "sch1", week1.ID)
		require.NoError(t, err)
		require.Len(t, responses, 2)
		assert.Equal(t, "s0", responses[0].StudentID)
		assert.Equal(t, survey.SurveyResponse{
			StudentID: "s1", QuestionID: pace.ID, QuestionText: "Pace", QuestionType: survey.QuestionRating, Value: "4", SubmittedAt: now,
		}, responses[1])

		responded, err := repo.HasResponded(ctx, week1.ID, "s1")
		require.NoError(t, err)
		assert.True(t, responded)

		responses, err = repo.FetchResponses(ctx, "sch2", week1.ID)
		require.NoError(t, err)
		assert.Empty(t, responses)
	})

	t.Run("enrollment", func(t *testing.T) {
		repo.AddEnrollment("sch1", "c1", "s1", "s2")

		students, err := repo.FetchEnrolledStudents(ctx, "sch1", "c1")
		require.NoError(t, err)
		assert.Equal(t, []string{"s1", "s2"}, students)

		students, err = repo.FetchEnrolledStudents(ctx, "sch2", "c1")
		require.NoError(t, err)
		assert.Empty(t, students)
	})
}
