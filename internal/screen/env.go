package screen

import (
	"context"

	"github.com/skillbit/skillbit/internal/breaks"
	"github.com/skillbit/skillbit/internal/coach"
	"github.com/skillbit/skillbit/internal/diagnostic"
	"github.com/skillbit/skillbit/internal/learner"
	"github.com/skillbit/skillbit/internal/lectures"
	"github.com/skillbit/skillbit/internal/logger"
	"github.com/skillbit/skillbit/internal/questionbank"
	"github.com/skillbit/skillbit/internal/session"
	"github.com/skillbit/skillbit/internal/store"
)

// ResultStore is the slice of the store the screens read and clear.
type ResultStore interface {
	diagnostic.ResultSink
	session.DiagnosticSource
	SessionResult(ctx context.Context) (*session.Result, error)
	Clear(ctx context.Context) error
}

// SnapshotStore lists finished sessions, newest first.
type SnapshotStore interface {
	List(ctx context.Context, userID string, limit int) ([]store.Snapshot, error)
}

// Env carries the collaborators every screen may need.
type Env struct {
	Learner  *learner.Learner
	Profiles learner.ProfileStore
	Catalog  *questionbank.Catalog
	Lectures *lectures.Tracker
	Results  ResultStore
	// Sink receives session answers, events and results.
	Sink         session.Sink
	History      SnapshotStore
	Coach        *coach.Service
	Break        breaks.Policy
	MaxQuestions int
	Log          *logger.Logger
}

// Gate returns the session prerequisites backed by this environment.
func (e *Env) Gate() session.Gate {
	return session.Gate{Lectures: e.Lectures, Diagnostics: e.Results}
}

// LearnerName returns the display name for the header.
func (e *Env) LearnerName() string {
	if e == nil || e.Learner == nil {
		return ""
	}
	return e.Learner.Name
}
