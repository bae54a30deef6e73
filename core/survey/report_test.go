package survey

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport(t *testing.T) {
	srv := Survey{ID: "srv1", Title: "Week 1"}
	responses := []SurveyResponse{rating("S1", "5"), rating("S1", "4"), rating("S2", "2")}

	report := BuildReport(srv, responses, t0)

	assert.Equal(t, srv, report.Survey)
	assert.Len(t, report.Students, 2)
	assert.Equal(t, 3.67, report.Summary.AverageScore)
	assert.Equal(t, 1, report.TierCounts[TierExcelling])
	assert.Equal(t, 1, report.TierCounts[TierNoData])
	assert.Nil(t, report.Roster)
	assert.Equal(t, t0, report.GeneratedAt)
}

func TestWriteStudentsCSV(t *testing.T) {
	perf := []StudentPerformance{
		{StudentID: "s1", AverageScore: 4.5, ResponseCount: 2, LastResponseAt: t0, Tier: TierExcelling},
		{StudentID: "s2", ResponseCount: 1, Tier: TierNoData},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStudentsCSV(&buf, perf))

	want := strings.Join([]string{
		"student_id,average_score,response_count,last_response_at,performance_tier",
		"s1,4.5,2,2026-03-02T08:00:00Z,excelling",
		"s2,0.0,1,,no_data",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestRenderTierChart(t *testing.T) {
	report := BuildReport(Survey{Title: "Week 1"}, []SurveyResponse{rating("S1", "5")}, t0)

	var buf bytes.Buffer
	require.NoError(t, RenderTierChart(&buf, report))
	assert.Contains(t, buf.String(), "Week 1")
	assert.Contains(t, buf.String(), string(TierExcelling))
}
