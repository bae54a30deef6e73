package survey

import "github.com/trezcool/masomo-insights/core"

// ComputeRoster compares the respondents of a survey with the course's enrolled students.
// Respondents who are not enrolled (eg. dropped the course) are not counted.
func ComputeRoster(courseID string, responses []SurveyResponse, enrolled []string) Roster {
	responded := make(map[string]bool)
	for _, r := range responses {
		responded[r.StudentID] = true
	}

	roster := Roster{
		CourseID:       courseID,
		NonRespondents: make([]string, 0),
	}
	seen := make(map[string]bool, len(enrolled))
	for _, studentID := range enrolled {
		if seen[studentID] {
			continue
		}
		seen[studentID] = true
		roster.Enrolled++
		if responded[studentID] {
			roster.Respondents++
		} else {
			roster.NonRespondents = append(roster.NonRespondents, studentID)
		}
	}
	if roster.Enrolled > 0 {
		roster.Coverage = core.Round(float64(roster.Respondents)/float64(roster.Enrolled)*100, 1)
	}
	return roster
}
