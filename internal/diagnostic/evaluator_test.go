package diagnostic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbit/skillbit/internal/clock"
	"github.com/skillbit/skillbit/internal/prereq"
	"github.com/skillbit/skillbit/internal/questionbank"
)

type lectureStub struct {
	done bool
	err  error
}

func (l lectureStub) LecturesComplete(context.Context) (bool, error) { return l.done, l.err }

type sinkStub struct {
	saved []Result
	err   error
}

func (s *sinkStub) SaveDiagnosticResult(_ context.Context, r Result) error {
	s.saved = append(s.saved, r)
	return s.err
}

func diagnosticQuestions() []questionbank.Question {
	return questionbank.Builtin().Diagnostic.All()
}

func TestStartRequiresLectures(t *testing.T) {
	ctx := context.Background()

	_, err := Start(ctx, lectureStub{done: false}, diagnosticQuestions())
	require.ErrorIs(t, err, prereq.ErrNotMet)
	assert.Equal(t, []prereq.Requirement{prereq.Lectures}, prereq.Missing(err))

	// A failing collaborator is treated as unmet and kept as the cause.
	diskGone := errors.New("disk gone")
	_, err = Start(ctx, lectureStub{err: diskGone}, diagnosticQuestions())
	assert.ErrorIs(t, err, prereq.ErrNotMet)
	assert.ErrorIs(t, err, diskGone)
	assert.Contains(t, err.Error(), "read lecture progress: disk gone")

	_, err = Start(ctx, lectureStub{done: true}, nil)
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestFullRun(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(time.UnixMilli(1_700_000_000_000))
	sink := &sinkStub{}

	e, err := Start(ctx, lectureStub{done: true}, diagnosticQuestions(), WithClock(clk), WithSink(sink))
	require.NoError(t, err)

	// Answer the first three correctly, the last two wrong: 3/5 = 60.
	picks := []int{1, 2, 1, 0, 0}
	for i, pick := range picks {
		q, ok := e.Current()
		require.True(t, ok)
		assert.Equal(t, i+1, q.ID)

		clk.Advance(2 * time.Second)
		ev, err := e.Submit(ctx, pick)
		require.NoError(t, err)
		assert.Equal(t, int64(2000), ev.TimeSpent)
	}

	assert.True(t, e.Done())
	_, ok := e.Current()
	assert.False(t, ok)

	r, err := e.Result()
	require.NoError(t, err)
	assert.Equal(t, 60, r.Score)
	assert.Len(t, r.Answers, 5)
	assert.Equal(t, clk.Now().UnixMilli(), r.Timestamp)

	require.Len(t, sink.saved, 1)
	assert.Equal(t, r, sink.saved[0])

	_, err = e.Submit(ctx, 0)
	assert.ErrorIs(t, err, ErrFinished)
}

func TestSubmitGuards(t *testing.T) {
	ctx := context.Background()
	e, err := Start(ctx, lectureStub{done: true}, diagnosticQuestions())
	require.NoError(t, err)

	_, err = e.Submit(ctx, 1)
	assert.ErrorIs(t, err, ErrNotPresented)

	e.Current()
	_, err = e.Submit(ctx, 9)
	assert.ErrorIs(t, err, ErrInvalidOption)

	_, err = e.Submit(ctx, 1)
	require.NoError(t, err)

	// No re-answering: the next submit needs the next question presented.
	_, err = e.Submit(ctx, 1)
	assert.ErrorIs(t, err, ErrNotPresented)

	answered, total := e.Progress()
	assert.Equal(t, 1, answered)
	assert.Equal(t, 5, total)

	_, err = e.Result()
	assert.ErrorIs(t, err, ErrNotFinished)
}

func TestSinkFailureDoesNotFailRun(t *testing.T) {
	ctx := context.Background()
	sink := &sinkStub{err: errors.New("write failed")}
	qs := diagnosticQuestions()[:1]

	e, err := Start(ctx, lectureStub{done: true}, qs, WithSink(sink))
	require.NoError(t, err)
	e.Current()
	_, err = e.Submit(ctx, qs[0].Correct)
	require.NoError(t, err)

	r, err := e.Result()
	require.NoError(t, err)
	assert.Equal(t, 100, r.Score)
}

func TestComputeScore(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{0, 5, 0},
		{1, 5, 20},
		{5, 5, 100},
		{2, 3, 67},
		{1, 3, 33},
		{1, 8, 13}, // 12.5 rounds up
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := ComputeScore(tt.correct, tt.total); got != tt.want {
			t.Errorf("ComputeScore(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
		}
	}
}

func TestScoreMessages(t *testing.T) {
	assert.Contains(t, ScoreMessage(80), "Excellent")
	assert.Contains(t, ScoreMessage(60), "Good")
	assert.Contains(t, ScoreMessage(40), "Fair")
	assert.Contains(t, ScoreMessage(39), "foundation")

	assert.Contains(t, Recommendation(49), "revisiting")
	assert.Contains(t, Recommendation(50), "practice quiz")
	assert.Contains(t, Recommendation(80), "Move on")
}
