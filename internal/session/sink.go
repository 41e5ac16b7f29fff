package session

import (
	"context"

	"github.com/skillbit/skillbit/internal/questionbank"
)

// Session lifecycle actions recorded through the sink.
const (
	ActionStart         = "start"
	ActionBreakStart    = "break_start"
	ActionBreakComplete = "break_complete"
	ActionBreakSkip     = "break_skip"
	ActionEnd           = "end"
)

// Event is a lifecycle record for one session.
type Event struct {
	SessionID         string
	Action            string
	QuestionsAnswered int
	CorrectAnswers    int
	Competence        int
	Fatigue           int
	Difficulty        questionbank.Difficulty
	Reason            string
}

// Sink receives session output. Every call is best-effort: the controller
// logs failures and carries on.
type Sink interface {
	SaveSessionResult(ctx context.Context, r Result) error
	AppendAnswer(ctx context.Context, sessionID string, ev questionbank.AnswerEvent) error
	AppendSessionEvent(ctx context.Context, ev Event) error
}

type nopSink struct{}

func (nopSink) SaveSessionResult(context.Context, Result) error { return nil }
func (nopSink) AppendAnswer(context.Context, string, questionbank.AnswerEvent) error {
	return nil
}
func (nopSink) AppendSessionEvent(context.Context, Event) error { return nil }
