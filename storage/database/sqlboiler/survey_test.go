package boiledrepos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-insights/core"
	"github.com/trezcool/masomo-insights/core/survey"
)

func Test_validIDs(t *testing.T) {
	id := uuid.New().String()
	tests := []struct {
		name string
		ids  []string
		want bool
	}{
		{name: "none", want: true},
		{name: "uuid", ids: []string{id}, want: true},
		{name: "one invalid", ids: []string{id, "lol"}, want: false},
		{name: "empty", ids: []string{""}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validIDs(tt.ids...); got != tt.want {
				t.Errorf("failed! validIDs() = %v; want %v", got, tt.want)
			}
		})
	}
}

func Test_surveyRepository_unboilSurvey(t *testing.T) {
	repo := NewSurveyRepository(nil, &core.Config{})
	loc := time.FixedZone("CAT", 2*60*60)
	createdAt := time.Date(2026, 3, 2, 10, 0, 0, 0, loc)

	t.Run("nulls", func(t *testing.T) {
		srv := repo.unboilSurvey(surveyRow{ID: "s", SchoolID: "sch", Title: "Week 1", IsActive: true, CreatedAt: createdAt})
		assert.Empty(t, srv.CourseID)
		assert.Empty(t, srv.Description)
		assert.Nil(t, srv.ClosesAt)
		assert.Equal(t, time.UTC, srv.CreatedAt.Location())
		assert.True(t, srv.CreatedAt.Equal(createdAt))
	})

	t.Run("values", func(t *testing.T) {
		closesAt := createdAt.Add(48 * time.Hour)
		srv := repo.unboilSurvey(surveyRow{
			ID:          "s",
			CourseID:    null.StringFrom("c1"),
			Description: null.StringFrom("weekly check"),
			CreatedBy:   null.StringFrom("t1"),
			CreatedAt:   createdAt,
			ClosesAt:    null.TimeFrom(closesAt),
		})
		assert.Equal(t, "c1", srv.CourseID)
		assert.Equal(t, "weekly check", srv.Description)
		assert.Equal(t, "t1", srv.CreatedBy)
		if assert.NotNil(t, srv.ClosesAt) {
			assert.True(t, srv.ClosesAt.Equal(closesAt))
		}
	})
}

func Test_surveyRepository_invalidIDs(t *testing.T) {
	// invalid IDs never reach the database
	repo := NewSurveyRepository(nil, &core.Config{})
	ctx := context.Background()
	schoolID := uuid.New().String()

	_, err := repo.GetSurvey(ctx, schoolID, "lol")
	assert.Equal(t, survey.ErrNotFound, err)
}
