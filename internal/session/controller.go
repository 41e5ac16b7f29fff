// Package session implements the adaptive practice loop: question
// selection, competence/fatigue scoring, tier changes and rest breaks.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skillbit/skillbit/internal/breaks"
	"github.com/skillbit/skillbit/internal/clock"
	"github.com/skillbit/skillbit/internal/logger"
	"github.com/skillbit/skillbit/internal/prereq"
	"github.com/skillbit/skillbit/internal/questionbank"
)

var (
	// ErrBreakActive rejects answers while a rest break is running.
	ErrBreakActive     = errors.New("break in progress")
	// ErrNoQuestion is returned by Submit before any question was presented.
	ErrNoQuestion      = errors.New("no question presented")
	// ErrAlreadyAnswered rejects a second answer to the same question.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrSessionComplete is returned once the session has ended.
	ErrSessionComplete = errors.New("session complete")
	// ErrInvalidOption means the chosen index is outside the question's options.
	ErrInvalidOption   = errors.New("invalid answer option")
)

// Termination reasons.
const (
	ReasonExhausted = "pool_exhausted"
	ReasonLimit     = "question_limit"
	ReasonEnded     = "ended"
)

// Feedback describes the outcome of one submitted answer.
type Feedback struct {
	Question questionbank.Question
	Event    questionbank.AnswerEvent
	Update   Update

	// Values before the update was applied.
	PrevCompetence int
	PrevFatigue    int
	PrevDifficulty questionbank.Difficulty

	// BreakRequired is set when this answer pushed fatigue over the threshold.
	BreakRequired bool
}

// TierChanged reports whether the answer moved the difficulty tier.
func (f Feedback) TierChanged() bool {
	return f.Update.TierChanged(f.PrevDifficulty)
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the time source for answer timing and breaks.
func WithClock(c clock.Clock) Option {
	return func(s *Controller) { s.clock = c }
}

// WithRand sets the source used to pick the next question.
func WithRand(r Rand) Option {
	return func(s *Controller) { s.rand = r }
}

// WithBreakPolicy overrides the break duration and fatigue relief.
func WithBreakPolicy(p breaks.Policy) Option {
	return func(s *Controller) { s.timer = breaks.NewTimer(p) }
}

// WithSink receives session events and the final result.
func WithSink(sink Sink) Option {
	return func(s *Controller) { s.sink = sink }
}

// WithLogger sets the logger. Nil discards output.
func WithLogger(l *logger.Logger) Option {
	return func(s *Controller) { s.log = logger.OrNop(l) }
}

// WithMaxQuestions ends the session after n answers. Zero means no cap.
func WithMaxQuestions(n int) Option {
	return func(s *Controller) { s.maxQuestions = n }
}

// WithSessionID replaces the generated session identifier.
func WithSessionID(id string) Option {
	return func(s *Controller) { s.id = id }
}

// Controller owns the live state of one practice session.
// It is not safe for concurrent use.
type Controller struct {
	id    string
	pool  []questionbank.Question
	state State
	phase Phase

	current     questionbank.Question
	presentedAt time.Time
	answered    map[int]bool

	timer         *breaks.Timer
	breakRequired bool

	startedAt time.Time
	result    *Result

	maxQuestions int
	clock        clock.Clock
	rand         Rand
	sink         Sink
	log          *logger.Logger
}

// New verifies prerequisites and starts a session over pool. It returns a
// *prereq.Error naming what is missing when lectures are incomplete or no
// diagnostic result exists. Collaborator read failures count as missing and
// are kept as the error's Cause.
func New(ctx context.Context, prereqs Prerequisites, pool []questionbank.Question, opts ...Option) (*Controller, error) {
	s := &Controller{
		id:       uuid.NewString(),
		pool:     pool,
		answered: make(map[int]bool, len(pool)),
		clock:    clock.System,
		rand:     globalRand{},
		sink:     nopSink{},
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.timer == nil {
		s.timer = breaks.NewTimer(breaks.DefaultPolicy())
	}
	if s.maxQuestions < 0 {
		return nil, fmt.Errorf("max questions must not be negative, got %d", s.maxQuestions)
	}

	var causes []error
	lecturesDone, err := prereqs.LecturesComplete(ctx)
	if err != nil {
		s.log.Warn("lecture progress unavailable", "error", err)
		causes = append(causes, fmt.Errorf("read lecture progress: %w", err))
		lecturesDone = false
	}
	diag, err := prereqs.DiagnosticResult(ctx)
	if err != nil {
		s.log.Warn("diagnostic result unavailable", "error", err)
		causes = append(causes, fmt.Errorf("read diagnostic result: %w", err))
		diag = nil
	}
	if err := prereq.Check(lecturesDone, diag != nil); err != nil {
		return nil, prereq.WithCause(err, errors.Join(causes...))
	}

	s.log = s.log.With("session_id", s.id)
	s.state = InitialState(diag.Score)
	s.startedAt = s.clock.Now()
	s.phase = PhaseAwaitingQuestion

	s.log.Info("session started",
		"diagnostic_score", diag.Score,
		"competence", s.state.Competence,
		"difficulty", s.state.Difficulty,
		"pool", len(pool),
	)
	s.record(ctx, ActionStart, "")
	return s, nil
}

// ID returns the session identifier.
func (s *Controller) ID() string { return s.id }

// Phase returns the main-flow phase.
func (s *Controller) Phase() Phase { return s.phase }

// BreakRequired reports whether a rest break is suspending the session.
func (s *Controller) BreakRequired() bool { return s.breakRequired }

// Break exposes the break countdown for display.
func (s *Controller) Break() BreakStatus {
	return BreakStatus{
		Active:    s.breakRequired,
		Remaining: s.timer.Remaining(),
		Duration:  s.timer.Policy().Duration,
		Progress:  s.timer.Progress(),
		Relief:    s.timer.Policy().Relief,
	}
}

// BreakStatus is a read-only view of the break timer.
type BreakStatus struct {
	Active    bool
	Remaining time.Duration
	Duration  time.Duration
	Progress  float64
	Relief    int
}

// State returns a copy of the learner model.
func (s *Controller) State() State { return s.state.clone() }

// Current returns the question awaiting an answer, if any.
func (s *Controller) Current() (questionbank.Question, bool) {
	if s.phase != PhaseQuestionPresented {
		return questionbank.Question{}, false
	}
	return s.current, true
}

// Elapsed returns the time since the current question was presented.
func (s *Controller) Elapsed() time.Duration {
	if s.phase != PhaseQuestionPresented {
		return 0
	}
	return s.clock.Now().Sub(s.presentedAt)
}

// Next presents the next question. Calling it while a question is already
// presented returns that question again without restarting its timer. When
// no question is left the session completes and ErrSessionComplete is returned.
func (s *Controller) Next(ctx context.Context) (questionbank.Question, error) {
	switch {
	case s.phase == PhaseComplete:
		return questionbank.Question{}, ErrSessionComplete
	case s.breakRequired:
		return questionbank.Question{}, ErrBreakActive
	case s.phase == PhaseQuestionPresented:
		return s.current, nil
	}

	if s.maxQuestions > 0 && s.state.QuestionsAnswered >= s.maxQuestions {
		s.complete(ctx, ReasonLimit)
		return questionbank.Question{}, ErrSessionComplete
	}

	q, ok := Select(s.pool, s.state.Difficulty, s.answered, s.rand)
	if !ok {
		s.complete(ctx, ReasonExhausted)
		return questionbank.Question{}, ErrSessionComplete
	}

	s.current = q
	s.presentedAt = s.clock.Now()
	s.phase = PhaseQuestionPresented
	s.log.Debug("question presented", "question_id", q.ID, "difficulty", q.Difficulty, "tier", s.state.Difficulty)
	return q, nil
}

// Submit scores the answer to the presented question. Only the first
// submission per question is accepted; rejected submissions leave the
// state untouched.
func (s *Controller) Submit(ctx context.Context, selected int) (Feedback, error) {
	switch {
	case s.phase == PhaseComplete:
		return Feedback{}, ErrSessionComplete
	case s.breakRequired:
		return Feedback{}, ErrBreakActive
	case s.phase == PhaseFeedbackShown:
		return Feedback{}, ErrAlreadyAnswered
	case s.phase != PhaseQuestionPresented:
		return Feedback{}, ErrNoQuestion
	}

	q := s.current
	if !q.HasOption(selected) {
		return Feedback{}, fmt.Errorf("option %d of question %d: %w", selected, q.ID, ErrInvalidOption)
	}

	elapsed := s.clock.Now().Sub(s.presentedAt)
	ev := questionbank.NewAnswerEvent(q, selected, elapsed)
	upd := Score(s.state, ev.IsCorrect, elapsed)

	fb := Feedback{
		Question:       q,
		Event:          ev,
		Update:         upd,
		PrevCompetence: s.state.Competence,
		PrevFatigue:    s.state.Fatigue,
		PrevDifficulty: s.state.Difficulty,
	}

	s.state.Competence = upd.Competence
	s.state.Fatigue = upd.Fatigue
	s.state.Difficulty = upd.Difficulty
	s.state.Answers = append(s.state.Answers, ev)
	s.state.QuestionsAnswered++
	if ev.IsCorrect {
		s.state.CorrectAnswers++
	}
	s.answered[q.ID] = true
	s.phase = PhaseFeedbackShown

	s.log.Debug("answer scored",
		"question_id", q.ID,
		"correct", ev.IsCorrect,
		"time_ms", ev.TimeSpent,
		"rule", upd.Rule,
		"competence", upd.Competence,
		"fatigue", upd.Fatigue,
		"difficulty", upd.Difficulty,
	)
	if fb.TierChanged() {
		s.log.Info("difficulty changed", "from", fb.PrevDifficulty, "to", upd.Difficulty)
	}

	// Persist answer event.
	if err := s.sink.AppendAnswer(ctx, s.id, ev); err != nil {
		s.log.Warn("append answer failed", "error", err)
	}

	fb.BreakRequired = s.checkBreak(ctx)
	return fb, nil
}

func (s *Controller) checkBreak(ctx context.Context) bool {
	if s.state.Fatigue < BreakThreshold || s.state.QuestionsAnswered == 0 || s.breakRequired {
		return false
	}
	if !s.timer.Start() {
		return false
	}
	s.breakRequired = true
	s.log.Info("break started", "fatigue", s.state.Fatigue, "duration", s.timer.Policy().Duration)
	s.record(ctx, ActionBreakStart, "")
	return true
}

// AdvanceBreak moves the break countdown forward by d. It reports whether
// the break completed, in which case fatigue relief has been applied.
func (s *Controller) AdvanceBreak(ctx context.Context, d time.Duration) bool {
	if !s.breakRequired {
		return false
	}
	if !s.timer.Advance(d) {
		return false
	}
	s.endBreak(ctx, ActionBreakComplete)
	return true
}

// SkipBreak ends the break early with the same relief as a completed one.
// Returns false when no break is active.
func (s *Controller) SkipBreak(ctx context.Context) bool {
	if !s.breakRequired {
		return false
	}
	s.timer.Skip()
	s.endBreak(ctx, ActionBreakSkip)
	return true
}

func (s *Controller) endBreak(ctx context.Context, action string) {
	before := s.state.Fatigue
	s.state.Fatigue = clamp(s.timer.Policy().Relieve(before))
	s.breakRequired = false
	s.log.Info("break finished", "action", action, "fatigue_before", before, "fatigue", s.state.Fatigue)
	s.record(ctx, action, "")
}

// End terminates the session on the caller's request. An unanswered
// question is discarded. Calling End on a finished session returns the
// existing result.
func (s *Controller) End(ctx context.Context) Result {
	if s.phase != PhaseComplete {
		s.complete(ctx, ReasonEnded)
	}
	return *s.resultCopy()
}

// Result returns the final snapshot once the session is complete.
func (s *Controller) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.resultCopy(), true
}

func (s *Controller) resultCopy() *Result {
	r := *s.result
	r.Answers = append([]questionbank.AnswerEvent{}, r.Answers...)
	return &r
}

func (s *Controller) complete(ctx context.Context, reason string) {
	if s.breakRequired {
		s.timer.Skip()
		s.breakRequired = false
	}
	s.phase = PhaseComplete
	s.current = questionbank.Question{}

	r := snapshot(s.id, s.state, s.clock.Now())
	s.result = &r

	s.log.Info("session complete",
		"reason", reason,
		"answered", r.QuestionsAnswered,
		"correct", r.CorrectAnswers,
		"competence", r.Competence,
		"duration", s.clock.Now().Sub(s.startedAt),
	)

	// Persist result.
	if err := s.sink.SaveSessionResult(ctx, r); err != nil {
		s.log.Warn("save session result failed", "error", err)
	}
	s.record(ctx, ActionEnd, reason)
}

func (s *Controller) record(ctx context.Context, action, reason string) {
	ev := Event{
		SessionID:         s.id,
		Action:            action,
		QuestionsAnswered: s.state.QuestionsAnswered,
		CorrectAnswers:    s.state.CorrectAnswers,
		Competence:        s.state.Competence,
		Fatigue:           s.state.Fatigue,
		Difficulty:        s.state.Difficulty,
		Reason:            reason,
	}
	if err := s.sink.AppendSessionEvent(ctx, ev); err != nil {
		s.log.Warn("append session event failed", "action", action, "error", err)
	}
}
