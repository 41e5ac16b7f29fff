package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skillbit/skillbit/internal/diagnostic"
	"github.com/skillbit/skillbit/internal/session"
)

// ResultRepo persists diagnostic and session results for one learner.
// Documents are validated against their schema on write and on read.
type ResultRepo struct {
	docs   *DocumentRepo
	userID string
}

func newResultRepo(docs *DocumentRepo, userID string) *ResultRepo {
	return &ResultRepo{docs: docs, userID: userID}
}

// SaveDiagnosticResult stores the latest diagnostic baseline.
func (r *ResultRepo) SaveDiagnosticResult(ctx context.Context, res diagnostic.Result) error {
	return r.save(ctx, KindDiagnosticResults, schemaDiagnosticResult, res)
}

// DiagnosticResult returns the stored baseline, or nil if none exists.
func (r *ResultRepo) DiagnosticResult(ctx context.Context) (*diagnostic.Result, error) {
	var res diagnostic.Result
	ok, err := r.load(ctx, KindDiagnosticResults, schemaDiagnosticResult, &res)
	if err != nil || !ok {
		return nil, err
	}
	return &res, nil
}

// SaveSessionResult stores the latest session snapshot.
func (r *ResultRepo) SaveSessionResult(ctx context.Context, res session.Result) error {
	return r.save(ctx, KindSessionResults, schemaSessionResult, res)
}

// SessionResult returns the stored session snapshot, or nil if none exists.
func (r *ResultRepo) SessionResult(ctx context.Context) (*session.Result, error) {
	var res session.Result
	ok, err := r.load(ctx, KindSessionResults, schemaSessionResult, &res)
	if err != nil || !ok {
		return nil, err
	}
	return &res, nil
}

// Clear removes both stored results so the learner can start over.
func (r *ResultRepo) Clear(ctx context.Context) error {
	if err := r.docs.Delete(ctx, r.userID, KindDiagnosticResults); err != nil {
		return err
	}
	return r.docs.Delete(ctx, r.userID, KindSessionResults)
}

func (r *ResultRepo) save(ctx context.Context, kind, schemaName string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	if err := validateDocument(kind, schemaName, body); err != nil {
		return err
	}
	return r.docs.put(ctx, r.userID, kind, body)
}

func (r *ResultRepo) load(ctx context.Context, kind, schemaName string, v any) (bool, error) {
	raw, err := r.docs.Get(ctx, r.userID, kind)
	if err != nil || raw == nil {
		return false, err
	}
	if err := validateDocument(kind, schemaName, raw); err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", kind, err)
	}
	return true, nil
}
