package session

import (
	"slices"
	"time"

	"github.com/skillbit/skillbit/internal/questionbank"
)

// Result is the immutable snapshot taken when a session terminates.
type Result struct {
	Competence        int                        `json:"competence"`
	Fatigue           int                        `json:"fatigue"`
	QuestionsAnswered int                        `json:"questionsAnswered"`
	CorrectAnswers    int                        `json:"correctAnswers"`
	CurrentDifficulty questionbank.Difficulty    `json:"currentDifficulty"`
	Answers           []questionbank.AnswerEvent `json:"answers"`
	Timestamp         int64                      `json:"timestamp"` // unix milliseconds

	// SessionID is kept out of the persisted document shape.
	SessionID string `json:"-"`
}

func snapshot(id string, s State, at time.Time) Result {
	answers := slices.Clone(s.Answers)
	if answers == nil {
		answers = []questionbank.AnswerEvent{}
	}
	return Result{
		Competence:        s.Competence,
		Fatigue:           s.Fatigue,
		QuestionsAnswered: s.QuestionsAnswered,
		CorrectAnswers:    s.CorrectAnswers,
		CurrentDifficulty: s.Difficulty,
		Answers:           answers,
		Timestamp:         at.UnixMilli(),
		SessionID:         id,
	}
}

// Time returns Timestamp as a time.Time.
func (r Result) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}
