package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/skillbit/skillbit/internal/session"
)

// Snapshot is one finished session kept in the learner's history.
type Snapshot struct {
	ID        int64
	UserID    string
	SessionID string
	Timestamp time.Time
	Result    session.Result
}

// SnapshotRepo manages the history of finished sessions.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot for userID, or nil if none exist.
	Latest(ctx context.Context, userID string) (*Snapshot, error)

	// List returns up to limit snapshots for userID, newest first (0 = all).
	List(ctx context.Context, userID string, limit int) ([]Snapshot, error)

	// Prune deletes all but the keep most recent snapshots for userID.
	Prune(ctx context.Context, userID string, keep int) error
}

// snapshotRepo implements SnapshotRepo on the snapshots table.
type snapshotRepo struct {
	db *sql.DB
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap.Result)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	if err := validateDocument("snapshot", schemaSessionResult, data); err != nil {
		return err
	}

	query, args := builder().Insert("snapshots").
		Columns("user_id", "session_id", "timestamp", "data").
		Values(snap.UserID, snap.SessionID, snap.Timestamp.UnixMilli(), string(data)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context, userID string) (*Snapshot, error) {
	snaps, err := r.List(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	return &snaps[0], nil
}

func (r *snapshotRepo) List(ctx context.Context, userID string, limit int) ([]Snapshot, error) {
	b := builder()
	sel := b.Select("id", "user_id", "session_id", "timestamp", "data").
		From(b.Table("snapshots")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			s    Snapshot
			ts   int64
			data string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.SessionID, &ts, &data); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &s.Result); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
		}
		s.Timestamp = time.UnixMilli(ts)
		s.Result.SessionID = s.SessionID
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *snapshotRepo) Prune(ctx context.Context, userID string, keep int) error {
	if keep < 0 {
		return fmt.Errorf("prune snapshots: keep must not be negative, got %d", keep)
	}
	snaps, err := r.List(ctx, userID, 0)
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	if len(snaps) <= keep {
		return nil
	}

	// List is newest first, so everything past keep goes.
	ids := make([]any, 0, len(snaps)-keep)
	for _, snap := range snaps[keep:] {
		ids = append(ids, snap.ID)
	}
	query, args := builder().Delete("snapshots").
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.In("id", ids...))).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

// deleteUser removes every snapshot belonging to userID.
func (r *snapshotRepo) deleteUser(ctx context.Context, userID string) error {
	query, args := builder().Delete("snapshots").Where(entsql.EQ("user_id", userID)).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}
	return nil
}
