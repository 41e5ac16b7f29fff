package session

import (
	"slices"

	"github.com/skillbit/skillbit/internal/questionbank"
)

// Phase is the main-flow position of the session state machine. A break
// is tracked separately and suspends whichever phase is current.
type Phase int

const (
	PhaseAwaitingQuestion Phase = iota
	PhaseQuestionPresented
	PhaseFeedbackShown
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingQuestion:
		return "awaiting-question"
	case PhaseQuestionPresented:
		return "question-presented"
	case PhaseFeedbackShown:
		return "feedback-shown"
	case PhaseComplete:
		return "session-complete"
	}
	return "unknown"
}

const (
	// LectureBonus is added to the diagnostic score to seed competence.
	LectureBonus = 10

	// MediumStartScore is the diagnostic score at which a session starts on medium.
	MediumStartScore = 70

	// BreakThreshold is the fatigue level that forces a rest break.
	BreakThreshold = 70

	MinScore = 0
	MaxScore = 100
)

// State is the adaptive learner model for one session.
type State struct {
	Competence        int
	Fatigue           int
	Difficulty        questionbank.Difficulty
	QuestionsAnswered int
	CorrectAnswers    int
	Answers           []questionbank.AnswerEvent
}

// InitialState seeds a session from a diagnostic baseline score.
func InitialState(diagnosticScore int) State {
	tier := questionbank.Easy
	if diagnosticScore >= MediumStartScore {
		tier = questionbank.Medium
	}
	return State{
		Competence: clamp(diagnosticScore + LectureBonus),
		Difficulty: tier,
	}
}

// Accuracy returns the percentage of correct answers, or 0 before any answer.
func (s State) Accuracy() float64 {
	if s.QuestionsAnswered == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.QuestionsAnswered) * 100
}

// Answered returns the set of question IDs already answered.
func (s State) Answered() map[int]bool {
	m := make(map[int]bool, len(s.Answers))
	for _, a := range s.Answers {
		m[a.QuestionID] = true
	}
	return m
}

func (s State) clone() State {
	s.Answers = slices.Clone(s.Answers)
	return s
}

func clamp(v int) int {
	return min(MaxScore, max(MinScore, v))
}
