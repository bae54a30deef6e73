package survey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-insights/core"
)

func TestSortPerformance(t *testing.T) {
	perf := func() []StudentPerformance {
		return []StudentPerformance{
			{StudentID: "b", AverageScore: 4, ResponseCount: 3, LastResponseAt: t0.Add(time.Hour)},
			{StudentID: "a", AverageScore: 4, ResponseCount: 1, LastResponseAt: t0},
			{StudentID: "c", AverageScore: 2.5, ResponseCount: 3, LastResponseAt: t0.Add(2 * time.Hour)},
		}
	}
	ids := func(list []StudentPerformance) []string {
		got := make([]string, 0, len(list))
		for _, sp := range list {
			got = append(got, sp.StudentID)
		}
		return got
	}

	tests := []struct {
		name     string
		ordering []core.DBOrdering
		want     []string
	}{
		{name: "no ordering", ordering: nil, want: []string{"b", "a", "c"}},
		{name: "student_id", ordering: []core.DBOrdering{{Field: OrderStudentID, Ascending: true}}, want: []string{"a", "b", "c"}},
		{name: "-average_score keeps ties", ordering: []core.DBOrdering{{Field: OrderAverageScore}}, want: []string{"b", "a", "c"}},
		{
			name:     "-average_score,response_count",
			ordering: []core.DBOrdering{{Field: OrderAverageScore}, {Field: OrderResponseCount, Ascending: true}},
			want:     []string{"a", "b", "c"},
		},
		{name: "-last_response_at", ordering: []core.DBOrdering{{Field: OrderLastResponseAt}}, want: []string{"c", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := perf()
			if err := SortPerformance(list, tt.ordering); err != nil {
				t.Fatalf("SortPerformance() failed: %v", err)
			}
			assert.Equal(t, tt.want, ids(list))
		})
	}
}

func TestSortPerformance_invalidField(t *testing.T) {
	err := SortPerformance(nil, []core.DBOrdering{{Field: "password_hash"}})

	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("failed! err = %v; want *core.ValidationError", err)
	}
	assert.Equal(t, []core.FieldError{{Field: core.OrderingField, Error: `cannot order by "password_hash"`}}, vErr.Fields)
}
