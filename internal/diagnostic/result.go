package diagnostic

import (
	"math"
	"time"

	"github.com/skillbit/skillbit/internal/questionbank"
)

// Result is the baseline produced by one completed diagnostic run.
type Result struct {
	Score     int                        `json:"score"`
	Answers   []questionbank.AnswerEvent `json:"answers"`
	Timestamp int64                      `json:"timestamp"` // unix milliseconds
}

// Time returns Timestamp as a time.Time.
func (r Result) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Correct returns the number of correct answers.
func (r Result) Correct() int {
	n := 0
	for _, a := range r.Answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// ComputeScore returns round(100 * correct / total), or 0 for an empty run.
func ComputeScore(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// ScoreMessage returns the headline shown after the diagnostic.
func ScoreMessage(score int) string {
	switch {
	case score >= 80:
		return "Excellent! You have a strong foundation."
	case score >= 60:
		return "Good! You have solid basic knowledge."
	case score >= 40:
		return "Fair. There's room for improvement."
	default:
		return "Let's build your foundation step by step."
	}
}

// Recommendation returns the next-step advice for a baseline score.
func Recommendation(score int) string {
	switch {
	case score < 50:
		return "We recommend revisiting this topic for better understanding."
	case score < 80:
		return "Good job! Try a practice quiz to reinforce your learning."
	default:
		return "Excellent! Move on to the next topic."
	}
}
