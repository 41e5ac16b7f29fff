package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/skillbit/skillbit/internal/questionbank"
	"github.com/skillbit/skillbit/internal/session"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int    // max results (0 = unlimited)
	After     int64  // sequence > After
	Before    int64  // sequence < Before
	SessionID string // restrict to one session
}

// AnswerRecord is a stored answer event.
type AnswerRecord struct {
	Sequence  int64
	Timestamp time.Time
	SessionID string
	Answer    questionbank.AnswerEvent
}

// SessionRecord is a stored session lifecycle event.
type SessionRecord struct {
	Sequence  int64
	Timestamp time.Time
	Event     session.Event
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRecord is a stored LLM request event.
type LLMRecord struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMEventLogger records LLM requests. Satisfied by *EventRepo.
type LLMEventLogger interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// EventRepo provides append and query access to the event tables.
type EventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func (r *EventRepo) timestamp() int64 {
	if r.now != nil {
		return r.now().UnixMilli()
	}
	return time.Now().UnixMilli()
}

// AppendAnswer records one answer of a practice session.
func (r *EventRepo) AppendAnswer(ctx context.Context, sessionID string, ev questionbank.AnswerEvent) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert("answer_events").
		Columns("sequence", "timestamp", "session_id", "question_id", "selected_answer", "correct", "time_ms", "difficulty").
		Values(seqNum, r.timestamp(), sessionID, ev.QuestionID, ev.SelectedAnswer, ev.IsCorrect, ev.TimeSpent, string(ev.Difficulty)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

// AppendSessionEvent records a session lifecycle action.
func (r *EventRepo) AppendSessionEvent(ctx context.Context, ev session.Event) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert("session_events").
		Columns("sequence", "timestamp", "session_id", "action", "questions_answered", "correct_answers", "competence", "fatigue", "difficulty", "reason").
		Values(seqNum, r.timestamp(), ev.SessionID, ev.Action, ev.QuestionsAnswered, ev.CorrectAnswers, ev.Competence, ev.Fatigue, string(ev.Difficulty), ev.Reason).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

// AppendLLMRequest records an LLM API call event.
func (r *EventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert("llm_events").
		Columns("sequence", "timestamp", "provider", "model", "purpose", "input_tokens", "output_tokens",
			"latency_ms", "success", "error_message", "request_body", "response_body").
		Values(seqNum, r.timestamp(), data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
			data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// applyOpts adds the common sequence window, session filter and limit.
// Results are newest first.
func applyOpts(s *entsql.Selector, opts QueryOpts) *entsql.Selector {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if opts.SessionID != "" {
		preds = append(preds, entsql.EQ("session_id", opts.SessionID))
	}
	if len(preds) > 0 {
		s = s.Where(entsql.And(preds...))
	}
	s = s.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		s = s.Limit(opts.Limit)
	}
	return s
}

// Answers returns stored answer events, newest first.
func (r *EventRepo) Answers(ctx context.Context, opts QueryOpts) ([]AnswerRecord, error) {
	b := builder()
	sel := b.Select("sequence", "timestamp", "session_id", "question_id", "selected_answer", "correct", "time_ms", "difficulty").
		From(b.Table("answer_events"))
	query, args := applyOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerRecord
	for rows.Next() {
		var (
			rec  AnswerRecord
			ts   int64
			diff string
		)
		if err := rows.Scan(&rec.Sequence, &ts, &rec.SessionID, &rec.Answer.QuestionID, &rec.Answer.SelectedAnswer,
			&rec.Answer.IsCorrect, &rec.Answer.TimeSpent, &diff); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		rec.Answer.Difficulty = questionbank.Difficulty(diff)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SessionEvents returns stored session lifecycle events, newest first.
func (r *EventRepo) SessionEvents(ctx context.Context, opts QueryOpts) ([]SessionRecord, error) {
	b := builder()
	sel := b.Select("sequence", "timestamp", "session_id", "action", "questions_answered", "correct_answers",
		"competence", "fatigue", "difficulty", "reason").
		From(b.Table("session_events"))
	query, args := applyOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var (
			rec  SessionRecord
			ts   int64
			diff string
		)
		ev := &rec.Event
		if err := rows.Scan(&rec.Sequence, &ts, &ev.SessionID, &ev.Action, &ev.QuestionsAnswered, &ev.CorrectAnswers,
			&ev.Competence, &ev.Fatigue, &diff, &ev.Reason); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		ev.Difficulty = questionbank.Difficulty(diff)
		out = append(out, rec)
	}
	return out, rows.Err()
}

var llmColumns = []string{"id", "sequence", "timestamp", "provider", "model", "purpose", "input_tokens",
	"output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body"}

func scanLLM(sc interface{ Scan(...any) error }) (LLMRecord, error) {
	var (
		rec LLMRecord
		ts  int64
	)
	err := sc.Scan(&rec.ID, &rec.Sequence, &ts, &rec.Provider, &rec.Model, &rec.Purpose, &rec.InputTokens,
		&rec.OutputTokens, &rec.LatencyMs, &rec.Success, &rec.ErrorMessage, &rec.RequestBody, &rec.ResponseBody)
	rec.Timestamp = time.UnixMilli(ts)
	return rec, err
}

// LLMRequests returns stored LLM request events, newest first.
func (r *EventRepo) LLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRecord, error) {
	b := builder()
	sel := b.Select(llmColumns...).From(b.Table("llm_events"))
	opts.SessionID = ""
	query, args := applyOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRecord
	for rows.Next() {
		rec, err := scanLLM(rows)
		if err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// LLMRequest returns one LLM request event by ID, or nil if not found.
func (r *EventRepo) LLMRequest(ctx context.Context, id int64) (*LLMRecord, error) {
	b := builder()
	query, args := b.Select(llmColumns...).
		From(b.Table("llm_events")).
		Where(entsql.EQ("id", id)).
		Query()

	rec, err := scanLLM(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query LLM event %d: %w", id, err)
	}
	return &rec, nil
}

// LLMUsage aggregates token usage for one purpose.
type LLMUsage struct {
	Purpose      string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMStats aggregates all LLM request events by purpose.
func (r *EventRepo) LLMStats(ctx context.Context) ([]LLMUsage, error) {
	events, err := r.LLMRequests(ctx, QueryOpts{})
	if err != nil {
		return nil, err
	}

	byPurpose := map[string]*LLMUsage{}
	var order []string
	totals := map[string]int64{}
	for _, e := range events {
		u, ok := byPurpose[e.Purpose]
		if !ok {
			u = &LLMUsage{Purpose: e.Purpose}
			byPurpose[e.Purpose] = u
			order = append(order, e.Purpose)
		}
		u.Requests++
		if !e.Success {
			u.Failures++
		}
		u.InputTokens += e.InputTokens
		u.OutputTokens += e.OutputTokens
		totals[e.Purpose] += e.LatencyMs
	}

	out := make([]LLMUsage, 0, len(order))
	for _, p := range order {
		u := byPurpose[p]
		u.AvgLatencyMs = totals[p] / int64(u.Requests)
		out = append(out, *u)
	}
	return out, nil
}

// SessionSink adapts the store to session.Sink: the latest result goes to
// the result repository and the history, answers and lifecycle events to
// the event tables.
type SessionSink struct {
	Results   *ResultRepo
	Events    *EventRepo
	Snapshots SnapshotRepo
	// Keep bounds the history to the most recent sessions. Zero keeps all.
	Keep int
}

func (s SessionSink) SaveSessionResult(ctx context.Context, r session.Result) error {
	if err := s.Results.SaveSessionResult(ctx, r); err != nil {
		return err
	}
	if s.Snapshots == nil {
		return nil
	}
	if err := s.Snapshots.Save(ctx, &Snapshot{
		UserID:    s.Results.userID,
		SessionID: r.SessionID,
		Timestamp: r.Time(),
		Result:    r,
	}); err != nil {
		return err
	}
	if s.Keep <= 0 {
		return nil
	}
	return s.Snapshots.Prune(ctx, s.Results.userID, s.Keep)
}

func (s SessionSink) AppendAnswer(ctx context.Context, sessionID string, ev questionbank.AnswerEvent) error {
	return s.Events.AppendAnswer(ctx, sessionID, ev)
}

func (s SessionSink) AppendSessionEvent(ctx context.Context, ev session.Event) error {
	return s.Events.AppendSessionEvent(ctx, ev)
}
