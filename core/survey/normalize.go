package survey

import (
	"strconv"
	"strings"
)

// Normalize returns the scored subset of responses: rating questions whose value parses as an integer.
// Other question types carry no score. A rating value that does not parse is malformed historical
// data; it is dropped from scoring rather than counted as zero.
func Normalize(responses []SurveyResponse) []ScoredResponse {
	scored := make([]ScoredResponse, 0, len(responses))
	for _, r := range responses {
		score, ok := parseScore(r)
		if !ok {
			continue
		}
		scored = append(scored, ScoredResponse{
			StudentID:   r.StudentID,
			QuestionID:  r.QuestionID,
			Score:       score,
			SubmittedAt: r.SubmittedAt,
		})
	}
	return scored
}

func parseScore(r SurveyResponse) (int, bool) {
	if r.QuestionType != QuestionRating {
		return 0, false
	}
	score, err := strconv.Atoi(strings.TrimSpace(r.Value))
	if err != nil {
		return 0, false
	}
	return score, true
}

func meanScore(scored []ScoredResponse) (float64, bool) {
	if len(scored) == 0 {
		return 0, false
	}
	var sum int
	for _, s := range scored {
		sum += s.Score
	}
	return float64(sum) / float64(len(scored)), true
}
