package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeRoster(t *testing.T) {
	responses := []SurveyResponse{rating("s1", "5"), rating("s1", "4"), rating("s3", "3"), rating("dropped", "1")}

	tests := []struct {
		name     string
		enrolled []string
		want     Roster
	}{
		{
			name:     "no enrolment",
			enrolled: nil,
			want:     Roster{CourseID: "c1", NonRespondents: []string{}},
		},
		{
			name:     "partial coverage",
			enrolled: []string{"s1", "s2", "s3"},
			want:     Roster{CourseID: "c1", Enrolled: 3, Respondents: 2, Coverage: 66.7, NonRespondents: []string{"s2"}},
		},
		{
			name:     "duplicate enrolment counted once",
			enrolled: []string{"s1", "s1", "s3"},
			want:     Roster{CourseID: "c1", Enrolled: 2, Respondents: 2, Coverage: 100, NonRespondents: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeRoster("c1", responses, tt.enrolled))
		})
	}
}
