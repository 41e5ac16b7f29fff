package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbit/skillbit/internal/breaks"
	"github.com/skillbit/skillbit/internal/clock"
	"github.com/skillbit/skillbit/internal/diagnostic"
	"github.com/skillbit/skillbit/internal/prereq"
	"github.com/skillbit/skillbit/internal/questionbank"
)

type prereqStub struct {
	lectures bool
	diag     *diagnostic.Result
	err      error
}

func (p prereqStub) LecturesComplete(context.Context) (bool, error) { return p.lectures, nil }
func (p prereqStub) DiagnosticResult(context.Context) (*diagnostic.Result, error) {
	return p.diag, p.err
}

func ready(score int) prereqStub {
	return prereqStub{lectures: true, diag: &diagnostic.Result{Score: score}}
}

type recordingSink struct {
	results []Result
	answers []questionbank.AnswerEvent
	events  []Event
	fail    bool
}

func (r *recordingSink) SaveSessionResult(_ context.Context, res Result) error {
	r.results = append(r.results, res)
	if r.fail {
		return errors.New("save failed")
	}
	return nil
}

func (r *recordingSink) AppendAnswer(_ context.Context, _ string, ev questionbank.AnswerEvent) error {
	r.answers = append(r.answers, ev)
	if r.fail {
		return errors.New("append failed")
	}
	return nil
}

func (r *recordingSink) AppendSessionEvent(_ context.Context, ev Event) error {
	r.events = append(r.events, ev)
	if r.fail {
		return errors.New("append failed")
	}
	return nil
}

func (r *recordingSink) actions() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

// makePool builds perTier questions for every tier, option 0 always correct.
func makePool(perTier int) []questionbank.Question {
	var pool []questionbank.Question
	id := 1
	for _, d := range questionbank.AllDifficulties() {
		for i := 0; i < perTier; i++ {
			pool = append(pool, questionbank.Question{
				ID:         id,
				Prompt:     fmt.Sprintf("%s question %d", d, i),
				Options:    []string{"right", "wrong"},
				Correct:    0,
				Difficulty: d,
			})
			id++
		}
	}
	return pool
}

type harness struct {
	t     *testing.T
	ctx   context.Context
	clock *clock.Manual
	sink  *recordingSink
	s     *Controller
}

func newHarness(t *testing.T, score int, pool []questionbank.Question, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		t:     t,
		ctx:   context.Background(),
		clock: clock.NewManual(time.UnixMilli(1_700_000_000_000)),
		sink:  &recordingSink{},
	}
	base := []Option{WithClock(h.clock), WithRand(NewRand(42)), WithSink(h.sink)}
	s, err := New(h.ctx, ready(score), pool, append(base, opts...)...)
	require.NoError(t, err)
	h.s = s
	return h
}

// answer presents the next question and answers it after elapsed.
func (h *harness) answer(correct bool, elapsed time.Duration) Feedback {
	h.t.Helper()
	q, err := h.s.Next(h.ctx)
	require.NoError(h.t, err)
	h.clock.Advance(elapsed)
	pick := q.Correct
	if !correct {
		pick = (q.Correct + 1) % len(q.Options)
	}
	fb, err := h.s.Submit(h.ctx, pick)
	require.NoError(h.t, err)
	return fb
}

func TestNewRequiresPrerequisites(t *testing.T) {
	ctx := context.Background()
	pool := makePool(1)

	tests := []struct {
		name    string
		p       prereqStub
		missing []prereq.Requirement
	}{
		{"nothing done", prereqStub{}, []prereq.Requirement{prereq.Lectures, prereq.Diagnostic}},
		{"no diagnostic", prereqStub{lectures: true}, []prereq.Requirement{prereq.Diagnostic}},
		{"lectures incomplete", prereqStub{diag: &diagnostic.Result{Score: 80}}, []prereq.Requirement{prereq.Lectures}},
		{"diagnostic unreadable", prereqStub{lectures: true, err: errors.New("corrupt")}, []prereq.Requirement{prereq.Diagnostic}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(ctx, tt.p, pool)
			require.ErrorIs(t, err, prereq.ErrNotMet)
			assert.Equal(t, tt.missing, prereq.Missing(err))
		})
	}

	_, err := New(ctx, ready(50), pool, WithMaxQuestions(-1))
	assert.Error(t, err)
}

func TestNewKeepsPrerequisiteReadFailure(t *testing.T) {
	corrupt := errors.New("corrupt")
	_, err := New(context.Background(), prereqStub{lectures: true, err: corrupt}, makePool(1))

	require.ErrorIs(t, err, prereq.ErrNotMet)
	assert.ErrorIs(t, err, corrupt)
	assert.Contains(t, err.Error(), "read diagnostic result: corrupt")

	_, err = New(context.Background(), prereqStub{lectures: true}, makePool(1))
	var pe *prereq.Error
	require.ErrorAs(t, err, &pe)
	assert.NoError(t, pe.Cause)
}

func TestInitialState(t *testing.T) {
	tests := []struct {
		score      int
		competence int
		tier       questionbank.Difficulty
	}{
		{70, 80, questionbank.Medium},
		{90, 100, questionbank.Medium},
		{100, 100, questionbank.Medium},
		{69, 79, questionbank.Easy},
		{45, 55, questionbank.Easy},
		{0, 10, questionbank.Easy},
	}
	for _, tt := range tests {
		h := newHarness(t, tt.score, makePool(1))
		st := h.s.State()
		if st.Competence != tt.competence {
			t.Errorf("score %d: competence = %d, want %d", tt.score, st.Competence, tt.competence)
		}
		if st.Difficulty != tt.tier {
			t.Errorf("score %d: difficulty = %s, want %s", tt.score, st.Difficulty, tt.tier)
		}
		assert.Zero(t, st.Fatigue)
		assert.Zero(t, st.QuestionsAnswered)
		assert.Equal(t, PhaseAwaitingQuestion, h.s.Phase())
	}
}

func TestScoreRules(t *testing.T) {
	tests := []struct {
		name     string
		in       State
		correct  bool
		elapsed  time.Duration
		wantRule Rule
		wantComp int
		wantFat  int
		wantTier questionbank.Difficulty
	}{
		{"quick correct", State{Competence: 50, Fatigue: 10, Difficulty: questionbank.Easy}, true, 3 * time.Second, RuleCorrectQuick, 58, 8, questionbank.Easy},
		{"quick correct promotes easy", State{Competence: 65, Difficulty: questionbank.Easy}, true, time.Second, RuleCorrectQuick, 73, 0, questionbank.Medium},
		{"quick correct promotes one step only", State{Competence: 95, Difficulty: questionbank.Easy}, true, time.Second, RuleCorrectQuick, 100, 0, questionbank.Medium},
		{"quick correct promotes medium", State{Competence: 80, Difficulty: questionbank.Medium}, true, time.Second, RuleCorrectQuick, 88, 0, questionbank.Hard},
		{"quick correct at 85 stays medium", State{Competence: 77, Difficulty: questionbank.Medium}, true, time.Second, RuleCorrectQuick, 85, 0, questionbank.Medium},
		{"quick correct caps", State{Competence: 97, Difficulty: questionbank.Hard}, true, time.Second, RuleCorrectQuick, 100, 0, questionbank.Hard},
		{"10s is slow", State{Competence: 50, Fatigue: 10, Difficulty: questionbank.Easy}, true, 10 * time.Second, RuleCorrectSlow, 54, 13, questionbank.Easy},
		{"slow correct never promotes", State{Competence: 90, Difficulty: questionbank.Easy}, true, time.Minute, RuleCorrectSlow, 94, 3, questionbank.Easy},
		{"slow correct caps fatigue", State{Competence: 50, Fatigue: 99, Difficulty: questionbank.Easy}, true, time.Minute, RuleCorrectSlow, 54, 100, questionbank.Easy},
		{"incorrect", State{Competence: 70, Fatigue: 20, Difficulty: questionbank.Medium}, false, time.Second, RuleIncorrect, 67, 28, questionbank.Medium},
		{"incorrect demotes hard", State{Competence: 62, Difficulty: questionbank.Hard}, false, time.Second, RuleIncorrect, 59, 8, questionbank.Medium},
		{"incorrect demotes one step only", State{Competence: 20, Difficulty: questionbank.Hard}, false, time.Second, RuleIncorrect, 17, 8, questionbank.Medium},
		{"incorrect demotes medium", State{Competence: 42, Difficulty: questionbank.Medium}, false, time.Minute, RuleIncorrect, 39, 8, questionbank.Easy},
		{"incorrect floors competence", State{Competence: 1, Fatigue: 95, Difficulty: questionbank.Easy}, false, time.Second, RuleIncorrect, 0, 100, questionbank.Easy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := Score(tt.in, tt.correct, tt.elapsed)
			assert.Equal(t, tt.wantRule, u.Rule)
			if u.Competence != tt.wantComp {
				t.Errorf("competence = %d, want %d", u.Competence, tt.wantComp)
			}
			if u.Fatigue != tt.wantFat {
				t.Errorf("fatigue = %d, want %d", u.Fatigue, tt.wantFat)
			}
			if u.Difficulty != tt.wantTier {
				t.Errorf("difficulty = %s, want %s", u.Difficulty, tt.wantTier)
			}
		})
	}
}

func TestScoreInvariants(t *testing.T) {
	tiers := questionbank.AllDifficulties()
	for comp := 0; comp <= 100; comp += 3 {
		for fat := 0; fat <= 100; fat += 7 {
			for _, tier := range tiers {
				for _, correct := range []bool{true, false} {
					for _, elapsed := range []time.Duration{time.Second, 20 * time.Second} {
						s := State{Competence: comp, Fatigue: fat, Difficulty: tier}
						u := Score(s, correct, elapsed)
						if u.Competence < 0 || u.Competence > 100 || u.Fatigue < 0 || u.Fatigue > 100 {
							t.Fatalf("out of range: %+v -> %+v", s, u)
						}
						if tier == questionbank.Easy && u.Difficulty == questionbank.Hard ||
							tier == questionbank.Hard && u.Difficulty == questionbank.Easy {
							t.Fatalf("tier skipped: %+v -> %+v", s, u)
						}
					}
				}
			}
		}
	}
}

func TestEndToEndPromotion(t *testing.T) {
	h := newHarness(t, 45, makePool(5))

	fb := h.answer(true, 2*time.Second)
	assert.Equal(t, 63, fb.Update.Competence)
	assert.Equal(t, questionbank.Easy, fb.Question.Difficulty)
	assert.False(t, fb.TierChanged())

	fb = h.answer(true, 2*time.Second)
	assert.Equal(t, 71, fb.Update.Competence)
	assert.True(t, fb.TierChanged())
	assert.Equal(t, questionbank.Medium, h.s.State().Difficulty)

	fb = h.answer(true, 2*time.Second)
	assert.Equal(t, questionbank.Medium, fb.Question.Difficulty)

	st := h.s.State()
	assert.Equal(t, 79, st.Competence)
	assert.Equal(t, 0, st.Fatigue)
	assert.Equal(t, questionbank.Medium, st.Difficulty)
	assert.Equal(t, 3, st.QuestionsAnswered)
	assert.Equal(t, 3, st.CorrectAnswers)
	assert.Len(t, h.sink.answers, 3)
}

func TestSubmitGuards(t *testing.T) {
	h := newHarness(t, 50, makePool(2))

	_, err := h.s.Submit(h.ctx, 0)
	assert.ErrorIs(t, err, ErrNoQuestion)

	q, err := h.s.Next(h.ctx)
	require.NoError(t, err)

	// Next while presented returns the same question.
	again, err := h.s.Next(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, q.ID, again.ID)

	_, err = h.s.Submit(h.ctx, 7)
	assert.ErrorIs(t, err, ErrInvalidOption)
	assert.Equal(t, PhaseQuestionPresented, h.s.Phase())

	_, err = h.s.Submit(h.ctx, q.Correct)
	require.NoError(t, err)
	before := h.s.State()

	_, err = h.s.Submit(h.ctx, q.Correct)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
	assert.Equal(t, before, h.s.State())
}

func TestElapsedMeasuredFromPresentation(t *testing.T) {
	h := newHarness(t, 50, makePool(2))

	h.clock.Advance(time.Minute) // idle time before Next is not counted
	fb := h.answer(true, 4*time.Second)
	assert.Equal(t, int64(4000), fb.Event.TimeSpent)
	assert.Equal(t, RuleCorrectQuick, fb.Update.Rule)
}

// drive answers incorrectly until a break is required.
func driveToBreak(t *testing.T, h *harness) Feedback {
	t.Helper()
	for i := 0; i < 20; i++ {
		fb := h.answer(false, 2*time.Second)
		if fb.BreakRequired {
			return fb
		}
	}
	t.Fatal("break never triggered")
	return Feedback{}
}

func TestBreakTriggerAndCompletion(t *testing.T) {
	h := newHarness(t, 90, makePool(10))

	fb := driveToBreak(t, h)
	// 9 incorrect answers: 9 * 8 = 72.
	assert.Equal(t, 9, h.s.State().QuestionsAnswered)
	assert.Equal(t, 72, fb.Update.Fatigue)
	assert.True(t, h.s.BreakRequired())

	_, err := h.s.Next(h.ctx)
	assert.ErrorIs(t, err, ErrBreakActive)
	_, err = h.s.Submit(h.ctx, 0)
	assert.ErrorIs(t, err, ErrBreakActive)

	status := h.s.Break()
	assert.True(t, status.Active)
	assert.Equal(t, 30*time.Second, status.Remaining)

	for i := 0; i < 29; i++ {
		require.False(t, h.s.AdvanceBreak(h.ctx, time.Second))
	}
	assert.True(t, h.s.AdvanceBreak(h.ctx, time.Second))
	assert.False(t, h.s.BreakRequired())
	assert.Equal(t, 42, h.s.State().Fatigue)

	_, err = h.s.Next(h.ctx)
	assert.NoError(t, err)

	assert.Contains(t, h.sink.actions(), ActionBreakStart)
	assert.Contains(t, h.sink.actions(), ActionBreakComplete)
}

func TestBreakSkipAppliesSameRelief(t *testing.T) {
	h := newHarness(t, 90, makePool(10))
	driveToBreak(t, h)

	h.s.AdvanceBreak(h.ctx, 3*time.Second)
	assert.True(t, h.s.SkipBreak(h.ctx))
	assert.Equal(t, 42, h.s.State().Fatigue)
	assert.False(t, h.s.SkipBreak(h.ctx))
	assert.False(t, h.s.AdvanceBreak(h.ctx, time.Second))
}

func TestBreakCustomPolicy(t *testing.T) {
	h := newHarness(t, 90, makePool(10), WithBreakPolicy(breaks.Policy{Duration: 5 * time.Second, Relief: 100}))
	driveToBreak(t, h)

	assert.True(t, h.s.AdvanceBreak(h.ctx, 5*time.Second))
	assert.Equal(t, 0, h.s.State().Fatigue)
}

func TestNoBreakBeforeFirstAnswer(t *testing.T) {
	h := newHarness(t, 50, makePool(1))
	h.s.state.Fatigue = 90

	assert.False(t, h.s.checkBreak(h.ctx))
	assert.False(t, h.s.BreakRequired())
}

func TestPoolExhaustion(t *testing.T) {
	pool := makePool(2)
	h := newHarness(t, 50, pool)

	seen := map[int]bool{}
	for i := 0; i < len(pool); i++ {
		fb := h.answer(true, 20*time.Second)
		if seen[fb.Question.ID] {
			t.Fatalf("question %d repeated", fb.Question.ID)
		}
		seen[fb.Question.ID] = true
	}

	_, err := h.s.Next(h.ctx)
	require.ErrorIs(t, err, ErrSessionComplete)
	assert.Equal(t, PhaseComplete, h.s.Phase())

	res, ok := h.s.Result()
	require.True(t, ok)
	assert.Equal(t, len(pool), res.QuestionsAnswered)
	assert.Len(t, res.Answers, len(pool))
	assert.Equal(t, h.clock.Now().UnixMilli(), res.Timestamp)

	require.Len(t, h.sink.results, 1)
	assert.Equal(t, res, h.sink.results[0])
	last := h.sink.events[len(h.sink.events)-1]
	assert.Equal(t, ActionEnd, last.Action)
	assert.Equal(t, ReasonExhausted, last.Reason)

	_, err = h.s.Submit(h.ctx, 0)
	assert.ErrorIs(t, err, ErrSessionComplete)

	// End after completion returns the same snapshot without saving twice.
	assert.Equal(t, res, h.s.End(h.ctx))
	assert.Len(t, h.sink.results, 1)
}

func TestMaxQuestions(t *testing.T) {
	h := newHarness(t, 50, makePool(5), WithMaxQuestions(2))
	h.answer(true, time.Second)
	h.answer(true, time.Second)

	_, err := h.s.Next(h.ctx)
	require.ErrorIs(t, err, ErrSessionComplete)
	assert.Equal(t, ReasonLimit, h.sink.events[len(h.sink.events)-1].Reason)
}

func TestEndDiscardsUnansweredQuestion(t *testing.T) {
	h := newHarness(t, 50, makePool(3))
	h.answer(true, time.Second)
	_, err := h.s.Next(h.ctx)
	require.NoError(t, err)

	res := h.s.End(h.ctx)
	assert.Equal(t, 1, res.QuestionsAnswered)
	_, ok := h.s.Current()
	assert.False(t, ok)
}

func TestSinkFailuresDoNotBlock(t *testing.T) {
	h := newHarness(t, 50, makePool(1))
	h.sink.fail = true

	for i := 0; i < 3; i++ {
		h.answer(true, time.Second)
	}
	_, err := h.s.Next(h.ctx)
	assert.ErrorIs(t, err, ErrSessionComplete)
	assert.Equal(t, 3, h.s.State().QuestionsAnswered)
}

func TestStateIsACopy(t *testing.T) {
	h := newHarness(t, 50, makePool(1))
	h.answer(true, time.Second)

	st := h.s.State()
	st.Answers[0].QuestionID = 999
	assert.NotEqual(t, 999, h.s.State().Answers[0].QuestionID)
}

func TestSelect(t *testing.T) {
	pool := makePool(3) // ids 1-3 easy, 4-6 medium, 7-9 hard
	r := NewRand(7)

	q, ok := Select(pool, questionbank.Medium, map[int]bool{}, r)
	require.True(t, ok)
	assert.Equal(t, questionbank.Medium, q.Difficulty)

	// Tier exhausted: fall back to any unanswered question.
	answered := map[int]bool{4: true, 5: true, 6: true, 1: true, 2: true, 3: true}
	q, ok = Select(pool, questionbank.Medium, answered, r)
	require.True(t, ok)
	assert.Equal(t, questionbank.Hard, q.Difficulty)

	for _, p := range pool {
		answered[p.ID] = true
	}
	_, ok = Select(pool, questionbank.Medium, answered, r)
	assert.False(t, ok)
}

func TestSelectDeterministicUnderSeed(t *testing.T) {
	pool := makePool(10)
	pick := func() []int {
		r := NewRand(99)
		var ids []int
		for i := 0; i < 5; i++ {
			q, _ := Select(pool, questionbank.Easy, map[int]bool{}, r)
			ids = append(ids, q.ID)
		}
		return ids
	}
	assert.Equal(t, pick(), pick())
}

func TestResultJSONShape(t *testing.T) {
	h := newHarness(t, 50, makePool(1))
	h.answer(false, 12*time.Second)
	res := h.s.End(h.ctx)

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	for _, key := range []string{"competence", "fatigue", "questionsAnswered", "correctAnswers", "currentDifficulty", "answers", "timestamp"} {
		assert.Contains(t, m, key)
	}
	answer := m["answers"].([]any)[0].(map[string]any)
	for _, key := range []string{"questionId", "selectedAnswer", "isCorrect", "timeSpent", "difficulty"} {
		assert.Contains(t, answer, key)
	}
	assert.Equal(t, float64(12000), answer["timeSpent"])
}
