package survey

import (
	"sort"

	"github.com/trezcool/masomo-insights/core"
)

const rankedListSize = 5

// ComputeClassSummary summarizes a survey's responses.
// The average is pooled over every scored response, so students who answered more rating
// questions weigh more than in a mean of the per-student averages.
func ComputeClassSummary(responses []SurveyResponse, perf []StudentPerformance) ClassSummary {
	summary := ClassSummary{
		TotalResponses:     len(responses),
		TopPerformers:      rankPerformers(perf, TierExcelling, false),
		StrugglingStudents: rankPerformers(perf, TierStruggling, true),
		QuestionBreakdown:  breakdownQuestions(responses),
	}
	if mean, ok := meanScore(Normalize(responses)); ok {
		summary.AverageScore = core.Round(mean, 2)
	}
	if len(perf) > 0 {
		summary.ParticipationRate = core.Round(float64(len(responses))/float64(len(perf))*100, 1)
	}
	return summary
}

// rankPerformers returns at most rankedListSize students of the given tier, sorted by average score.
// Ties keep the order of perf.
func rankPerformers(perf []StudentPerformance, tier Tier, ascending bool) []StudentPerformance {
	ranked := make([]StudentPerformance, 0)
	for _, sp := range perf {
		if sp.Tier == tier {
			ranked = append(ranked, sp)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ascending {
			return ranked[i].AverageScore < ranked[j].AverageScore
		}
		return ranked[i].AverageScore > ranked[j].AverageScore
	})
	if len(ranked) > rankedListSize {
		ranked = ranked[:rankedListSize]
	}
	return ranked
}

// breakdownQuestions groups responses by question text, in order of first appearance.
// Non-rating questions only get a response count.
func breakdownQuestions(responses []SurveyResponse) []QuestionStats {
	type acc struct {
		stats  QuestionStats
		sum    int
		scored int
	}

	order := make([]string, 0)
	accs := make(map[string]*acc)
	for _, r := range responses {
		a, ok := accs[r.QuestionText]
		if !ok {
			a = &acc{stats: QuestionStats{QuestionText: r.QuestionText, QuestionType: r.QuestionType}}
			accs[r.QuestionText] = a
			order = append(order, r.QuestionText)
		}
		a.stats.ResponseCount++
		if score, ok := parseScore(r); ok {
			a.sum += score
			a.scored++
		}
	}

	breakdown := make([]QuestionStats, 0, len(order))
	for _, text := range order {
		a := accs[text]
		if a.scored > 0 {
			a.stats.AverageScore = core.Round(float64(a.sum)/float64(a.scored), 1)
		}
		breakdown = append(breakdown, a.stats)
	}
	return breakdown
}
