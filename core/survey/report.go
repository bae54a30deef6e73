package survey

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// BuildReport runs the analytics pipeline over a survey's responses.
// The roster section is left for the caller since it needs the course enrolment.
func BuildReport(srv Survey, responses []SurveyResponse, now time.Time) Report {
	perf := ComputeStudentPerformance(responses)
	return Report{
		Survey:      srv,
		Students:    perf,
		Summary:     ComputeClassSummary(responses, perf),
		TierCounts:  CountTiers(perf),
		GeneratedAt: now.UTC(),
	}
}

var studentsCSVHeader = []string{"student_id", "average_score", "response_count", "last_response_at", "performance_tier"}

// WriteStudentsCSV writes one line per student performance, after a header line.
func WriteStudentsCSV(w io.Writer, perf []StudentPerformance) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(studentsCSVHeader); err != nil {
		return err
	}
	for _, sp := range perf {
		var last string
		if !sp.LastResponseAt.IsZero() {
			last = sp.LastResponseAt.UTC().Format(time.RFC3339)
		}
		rec := []string{
			sp.StudentID,
			strconv.FormatFloat(sp.AverageScore, 'f', 1, 64),
			strconv.Itoa(sp.ResponseCount),
			last,
			string(sp.Tier),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
