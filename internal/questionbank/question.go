package questionbank

import (
	"slices"
	"time"
)

// Question is an immutable multiple-choice item from the bank.
type Question struct {
	ID          int        `yaml:"id" json:"id"`
	Prompt      string     `yaml:"prompt" json:"prompt"`
	Options     []string   `yaml:"options" json:"options"`
	Correct     int        `yaml:"correct" json:"correct"`
	Difficulty  Difficulty `yaml:"difficulty" json:"difficulty"`
	Explanation string     `yaml:"explanation,omitempty" json:"explanation,omitempty"`
}

// IsCorrect reports whether selected is the index of the correct option.
func (q Question) IsCorrect(selected int) bool {
	return selected == q.Correct
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return ""
	}
	return q.Options[q.Correct]
}

// HasOption reports whether i indexes one of the options.
func (q Question) HasOption(i int) bool {
	return i >= 0 && i < len(q.Options)
}

func (q Question) clone() Question {
	q.Options = slices.Clone(q.Options)
	return q
}

// AnswerEvent records one submitted answer. It is created once per
// submission and never modified afterwards.
type AnswerEvent struct {
	QuestionID     int        `json:"questionId"`
	SelectedAnswer int        `json:"selectedAnswer"`
	IsCorrect      bool       `json:"isCorrect"`
	TimeSpent      int64      `json:"timeSpent"` // milliseconds
	Difficulty     Difficulty `json:"difficulty"`
}

// NewAnswerEvent builds the event for selecting option selected on q after elapsed.
func NewAnswerEvent(q Question, selected int, elapsed time.Duration) AnswerEvent {
	if elapsed < 0 {
		elapsed = 0
	}
	return AnswerEvent{
		QuestionID:     q.ID,
		SelectedAnswer: selected,
		IsCorrect:      q.IsCorrect(selected),
		TimeSpent:      elapsed.Milliseconds(),
		Difficulty:     q.Difficulty,
	}
}

// Elapsed returns TimeSpent as a duration.
func (a AnswerEvent) Elapsed() time.Duration {
	return time.Duration(a.TimeSpent) * time.Millisecond
}
