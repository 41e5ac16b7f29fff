package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// Document kinds written by SkillBit.
const (
	KindProfile           = "profile"
	KindLectureProgress   = "lectureProgress"
	KindDiagnosticResults = "diagnosticResults"
	KindSessionResults    = "sessionResults"
)

// Kinds lists every known document kind.
func Kinds() []string {
	return []string{KindProfile, KindLectureProgress, KindDiagnosticResults, KindSessionResults}
}

const documentsTable = "documents"

// DocumentRepo stores one JSON object per (user, kind).
type DocumentRepo struct {
	db *sql.DB
}

// Get returns the raw JSON body, or nil if the document does not exist.
func (r *DocumentRepo) Get(ctx context.Context, userID, kind string) (json.RawMessage, error) {
	b := builder()
	query, args := b.Select("body").
		From(b.Table(documentsTable)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("kind", kind))).
		Query()

	var body string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s document: %w", kind, err)
	}
	return json.RawMessage(body), nil
}

// GetInto decodes the document into v. Reports false if it does not exist.
func (r *DocumentRepo) GetInto(ctx context.Context, userID, kind string, v any) (bool, error) {
	raw, err := r.Get(ctx, userID, kind)
	if err != nil || raw == nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s document: %w", kind, err)
	}
	return true, nil
}

// Set replaces the document with v.
func (r *DocumentRepo) Set(ctx context.Context, userID, kind string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", kind, err)
	}
	return r.put(ctx, userID, kind, body)
}

// SetMerge merges the top-level keys of v into the stored object, keeping
// keys v does not mention. v must encode to a JSON object.
func (r *DocumentRepo) SetMerge(ctx context.Context, userID, kind string, v any) error {
	patch, err := toObject(v)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", kind, err)
	}

	merged := map[string]json.RawMessage{}
	existing, err := r.Get(ctx, userID, kind)
	if err != nil {
		return err
	}
	if existing != nil {
		if err := json.Unmarshal(existing, &merged); err != nil {
			return fmt.Errorf("decode %s document: %w", kind, err)
		}
	}
	for k, val := range patch {
		merged[k] = val
	}

	body, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", kind, err)
	}
	return r.put(ctx, userID, kind, body)
}

func (r *DocumentRepo) put(ctx context.Context, userID, kind string, body []byte) error {
	query, args := builder().Insert(documentsTable).
		Columns("user_id", "kind", "body", "updated_at").
		Values(userID, kind, string(body), time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("user_id", "kind"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save %s document: %w", kind, err)
	}
	return nil
}

// Delete removes the document. Deleting a missing document is not an error.
func (r *DocumentRepo) Delete(ctx context.Context, userID, kind string) error {
	query, args := builder().Delete(documentsTable).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("kind", kind))).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %s document: %w", kind, err)
	}
	return nil
}

// DeleteUser removes every document belonging to userID.
func (r *DocumentRepo) DeleteUser(ctx context.Context, userID string) error {
	query, args := builder().Delete(documentsTable).
		Where(entsql.EQ("user_id", userID)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete documents: %w", err)
	}
	return nil
}

func toObject(v any) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("document must be a JSON object: %w", err)
	}
	return m, nil
}
