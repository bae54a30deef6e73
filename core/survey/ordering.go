package survey

import (
	"sort"
	"strings"

	"github.com/trezcool/masomo-insights/core"
)

// Student performance ordering fields
const (
	OrderAverageScore   = "average_score"
	OrderResponseCount  = "response_count"
	OrderLastResponseAt = "last_response_at"
	OrderStudentID      = "student_id"
)

var performanceOrderings = []string{OrderAverageScore, OrderResponseCount, OrderLastResponseAt, OrderStudentID}

// SortPerformance sorts perf in place following ordering, the first field being the primary key.
// Students equal on every field keep their relative order.
func SortPerformance(perf []StudentPerformance, ordering []core.DBOrdering) error {
	if err := core.CheckOrdering(ordering, performanceOrderings...); err != nil {
		return err
	}
	if len(ordering) == 0 {
		return nil
	}

	sort.SliceStable(perf, func(i, j int) bool {
		for _, ord := range ordering {
			c := comparePerformance(perf[i], perf[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
	return nil
}

func comparePerformance(a, b StudentPerformance, field string) int {
	switch field {
	case OrderAverageScore:
		return compareFloats(a.AverageScore, b.AverageScore)
	case OrderResponseCount:
		return a.ResponseCount - b.ResponseCount
	case OrderLastResponseAt:
		switch {
		case a.LastResponseAt.Before(b.LastResponseAt):
			return -1
		case a.LastResponseAt.After(b.LastResponseAt):
			return 1
		}
		return 0
	case OrderStudentID:
		return strings.Compare(a.StudentID, b.StudentID)
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
