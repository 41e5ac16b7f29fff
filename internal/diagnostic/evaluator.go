// Package diagnostic runs the fixed baseline quiz that seeds a practice
// session's starting competence and tier.
package diagnostic

import (
	"context"
	"errors"
	"fmt"

	"github.com/skillbit/skillbit/internal/clock"
	"github.com/skillbit/skillbit/internal/logger"
	"github.com/skillbit/skillbit/internal/prereq"
	"github.com/skillbit/skillbit/internal/questionbank"
)

var (
	ErrNoQuestions   = errors.New("diagnostic has no questions")
	ErrFinished      = errors.New("diagnostic already finished")
	ErrNotFinished   = errors.New("diagnostic not finished")
	ErrNotPresented  = errors.New("no question presented")
	ErrInvalidOption = errors.New("invalid answer option")
)

// LectureChecker reports whether all lectures are complete.
type LectureChecker interface {
	LecturesComplete(ctx context.Context) (bool, error)
}

// ResultSink receives the finished result. Failures are logged, never returned.
type ResultSink interface {
	SaveDiagnosticResult(ctx context.Context, r Result) error
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock sets the time source.
func WithClock(c clock.Clock) Option {
	return func(e *Evaluator) { e.clock = c }
}

// WithSink sets where the finished result is persisted.
func WithSink(s ResultSink) Option {
	return func(e *Evaluator) { e.sink = s }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Evaluator) { e.log = logger.OrNop(l) }
}

// Evaluator presents the diagnostic questions in order, one answer each.
// Not safe for concurrent use.
type Evaluator struct {
	questions []questionbank.Question
	answers   []questionbank.AnswerEvent

	presented   bool
	presentedAt int64

	result *Result

	clock clock.Clock
	sink  ResultSink
	log   *logger.Logger
}

// Start verifies the lecture prerequisite and returns an evaluator over
// questions. Returns a *prereq.Error when lectures are incomplete.
func Start(ctx context.Context, lectures LectureChecker, questions []questionbank.Question, opts ...Option) (*Evaluator, error) {
	e := &Evaluator{
		questions: questions,
		clock:     clock.System,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	done, err := lectures.LecturesComplete(ctx)
	if err != nil {
		e.log.Warn("lecture progress unavailable", "error", err)
		err = fmt.Errorf("read lecture progress: %w", err)
		done = false
	}
	if !done {
		return nil, &prereq.Error{Missing: []prereq.Requirement{prereq.Lectures}, Cause: err}
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return e, nil
}

// Current returns the question awaiting an answer. The first call for each
// question starts its response timer.
func (e *Evaluator) Current() (questionbank.Question, bool) {
	if e.Done() {
		return questionbank.Question{}, false
	}
	if !e.presented {
		e.presented = true
		e.presentedAt = e.clock.Now().UnixMilli()
	}
	return e.questions[len(e.answers)], true
}

// Submit records the answer to the current question. After the last
// question the result is computed and handed to the sink.
func (e *Evaluator) Submit(ctx context.Context, selected int) (questionbank.AnswerEvent, error) {
	if e.Done() {
		return questionbank.AnswerEvent{}, ErrFinished
	}
	if !e.presented {
		return questionbank.AnswerEvent{}, ErrNotPresented
	}
	q := e.questions[len(e.answers)]
	if !q.HasOption(selected) {
		return questionbank.AnswerEvent{}, fmt.Errorf("option %d of question %d: %w", selected, q.ID, ErrInvalidOption)
	}

	now := e.clock.Now()
	ev := questionbank.AnswerEvent{
		QuestionID:     q.ID,
		SelectedAnswer: selected,
		IsCorrect:      q.IsCorrect(selected),
		TimeSpent:      max(0, now.UnixMilli()-e.presentedAt),
		Difficulty:     q.Difficulty,
	}
	e.answers = append(e.answers, ev)
	e.presented = false

	if len(e.answers) == len(e.questions) {
		e.finish(ctx, now.UnixMilli())
	}
	return ev, nil
}

func (e *Evaluator) finish(ctx context.Context, ts int64) {
	r := Result{
		Answers:   append([]questionbank.AnswerEvent(nil), e.answers...),
		Timestamp: ts,
	}
	r.Score = ComputeScore(r.Correct(), len(e.questions))
	e.result = &r

	e.log.Info("diagnostic complete", "score", r.Score, "correct", r.Correct(), "total", len(e.questions))

	// Persist result.
	if e.sink != nil {
		if err := e.sink.SaveDiagnosticResult(ctx, r); err != nil {
			e.log.Warn("save diagnostic result failed", "error", err)
		}
	}
}

// Progress returns how many questions have been answered out of the total.
func (e *Evaluator) Progress() (answered, total int) {
	return len(e.answers), len(e.questions)
}

// Done reports whether every question has been answered.
func (e *Evaluator) Done() bool {
	return e.result != nil
}

// Result returns the finished result.
func (e *Evaluator) Result() (Result, error) {
	if e.result == nil {
		return Result{}, ErrNotFinished
	}
	r := *e.result
	r.Answers = append([]questionbank.AnswerEvent(nil), r.Answers...)
	return r, nil
}
