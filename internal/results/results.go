// Package results derives the end-of-session analytics shown on the
// results screen and by `skillbit stats`.
package results

import (
	"math"

	"github.com/skillbit/skillbit/internal/diagnostic"
	"github.com/skillbit/skillbit/internal/questionbank"
	"github.com/skillbit/skillbit/internal/session"
)

// Category buckets the improvement delta.
type Category int

const (
	Encouragement Category = iota
	Maintained
	Good
	Great
	Outstanding
)

func (c Category) String() string {
	switch c {
	case Outstanding:
		return "outstanding"
	case Great:
		return "great"
	case Good:
		return "good"
	case Maintained:
		return "maintained"
	}
	return "encouragement"
}

// Message returns the learner-facing sentence for the category.
func (c Category) Message() string {
	switch c {
	case Outstanding:
		return "Outstanding improvement! You've made excellent progress."
	case Great:
		return "Great job! You've shown solid improvement."
	case Good:
		return "Good progress! You're moving in the right direction."
	case Maintained:
		return "You maintained your level. Keep practicing!"
	}
	return "Don't worry! Learning takes time. Keep going!"
}

// Categorize maps an improvement delta to its category.
func Categorize(improvement int) Category {
	switch {
	case improvement >= 20:
		return Outstanding
	case improvement >= 10:
		return Great
	case improvement >= 5:
		return Good
	case improvement >= 0:
		return Maintained
	}
	return Encouragement
}

// Distribution counts answered questions per tier.
type Distribution struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// Count returns the count for d.
func (d Distribution) Count(diff questionbank.Difficulty) int {
	switch diff {
	case questionbank.Easy:
		return d.Easy
	case questionbank.Medium:
		return d.Medium
	case questionbank.Hard:
		return d.Hard
	}
	return 0
}

// Comparison pairs the pre-test and post-test scores.
type Comparison struct {
	PreTest  int `json:"preTest"`
	PostTest int `json:"postTest"`
}

// Point is one answered question on the performance timeline.
type Point struct {
	Question   int                     `json:"question"` // 1-based position
	QuestionID int                     `json:"questionId"`
	Accuracy   int                     `json:"accuracy"` // 0 or 100
	Seconds    int                     `json:"time"`
	Difficulty questionbank.Difficulty `json:"difficulty"`
}

// Summary is the full analytics view of one session.
type Summary struct {
	DiagnosticScore   int                     `json:"diagnosticScore"`
	FinalCompetence   int                     `json:"finalCompetence"`
	FinalFatigue      int                     `json:"finalFatigue"`
	FinalDifficulty   questionbank.Difficulty `json:"finalDifficulty"`
	Improvement       int                     `json:"improvement"`
	Accuracy          float64                 `json:"accuracy"`
	QuestionsAnswered int                     `json:"questionsAnswered"`
	CorrectAnswers    int                     `json:"correctAnswers"`
	Category          Category                `json:"-"`
	Distribution      Distribution            `json:"distribution"`
	Comparison        Comparison              `json:"comparison"`
	Timeline          []Point                 `json:"timeline"`
}

// Message returns the improvement message.
func (s Summary) Message() string {
	return s.Category.Message()
}

// Summarize computes the analytics for a finished session against its
// diagnostic baseline. It has no side effects.
func Summarize(diag diagnostic.Result, sess session.Result) Summary {
	improvement := sess.Competence - diag.Score

	var accuracy float64
	if sess.QuestionsAnswered > 0 {
		accuracy = float64(sess.CorrectAnswers) / float64(sess.QuestionsAnswered) * 100
	}

	var dist Distribution
	timeline := make([]Point, 0, len(sess.Answers))
	for i, a := range sess.Answers {
		switch a.Difficulty {
		case questionbank.Easy:
			dist.Easy++
		case questionbank.Medium:
			dist.Medium++
		case questionbank.Hard:
			dist.Hard++
		}

		p := Point{
			Question:   i + 1,
			QuestionID: a.QuestionID,
			Seconds:    int(math.Round(float64(a.TimeSpent) / 1000)),
			Difficulty: a.Difficulty,
		}
		if a.IsCorrect {
			p.Accuracy = 100
		}
		timeline = append(timeline, p)
	}

	return Summary{
		DiagnosticScore:   diag.Score,
		FinalCompetence:   sess.Competence,
		FinalFatigue:      sess.Fatigue,
		FinalDifficulty:   sess.CurrentDifficulty,
		Improvement:       improvement,
		Accuracy:          accuracy,
		QuestionsAnswered: sess.QuestionsAnswered,
		CorrectAnswers:    sess.CorrectAnswers,
		Category:          Categorize(improvement),
		Distribution:      dist,
		Comparison:        Comparison{PreTest: diag.Score, PostTest: sess.Competence},
		Timeline:          timeline,
	}
}
