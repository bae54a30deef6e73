package survey

import (
	"github.com/trezcool/masomo-insights/core"
)

// TierFor maps an average score onto its performance tier.
func TierFor(avg float64) Tier {
	switch {
	case avg >= excellingThreshold:
		return TierExcelling
	case avg >= goodThreshold:
		return TierGood
	case avg >= strugglingThreshold:
		return TierStruggling
	default:
		return TierNoData
	}
}

// partitionByStudent groups responses per student, keeping students in order of first appearance.
func partitionByStudent(responses []SurveyResponse) ([]string, map[string][]SurveyResponse) {
	order := make([]string, 0)
	parts := make(map[string][]SurveyResponse)
	for _, r := range responses {
		if _, ok := parts[r.StudentID]; !ok {
			order = append(order, r.StudentID)
		}
		parts[r.StudentID] = append(parts[r.StudentID], r)
	}
	return order, parts
}

// ComputeStudentPerformance returns one StudentPerformance per student appearing in responses,
// in order of first appearance. responses is not modified.
func ComputeStudentPerformance(responses []SurveyResponse) []StudentPerformance {
	order, parts := partitionByStudent(responses)

	perf := make([]StudentPerformance, 0, len(order))
	for _, studentID := range order {
		part := parts[studentID]
		sp := StudentPerformance{
			StudentID:     studentID,
			ResponseCount: len(part),
			Tier:          TierNoData,
		}
		for _, r := range part {
			if r.SubmittedAt.After(sp.LastResponseAt) {
				sp.LastResponseAt = r.SubmittedAt
			}
		}
		if mean, ok := meanScore(Normalize(part)); ok {
			sp.AverageScore = core.Round(mean, 1)
			sp.Tier = TierFor(sp.AverageScore)
		}
		perf = append(perf, sp)
	}
	return perf
}

// CountTiers returns the number of students in every tier, all tiers included.
func CountTiers(perf []StudentPerformance) map[Tier]int {
	counts := make(map[Tier]int, len(AllTiers))
	for _, t := range AllTiers {
		counts[t] = 0
	}
	for _, sp := range perf {
		counts[sp.Tier]++
	}
	return counts
}
