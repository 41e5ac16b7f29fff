package session

import (
	"context"

	"github.com/skillbit/skillbit/internal/diagnostic"
)

// Prerequisites answers the two questions a session needs before it can start.
// DiagnosticResult returns nil when no diagnostic has been taken.
type Prerequisites interface {
	LecturesComplete(ctx context.Context) (bool, error)
	DiagnosticResult(ctx context.Context) (*diagnostic.Result, error)
}

// DiagnosticSource loads the stored diagnostic baseline.
type DiagnosticSource interface {
	DiagnosticResult(ctx context.Context) (*diagnostic.Result, error)
}

// Gate combines a lecture checker and a diagnostic source into Prerequisites.
type Gate struct {
	Lectures    diagnostic.LectureChecker
	Diagnostics DiagnosticSource
}

func (g Gate) LecturesComplete(ctx context.Context) (bool, error) {
	return g.Lectures.LecturesComplete(ctx)
}

func (g Gate) DiagnosticResult(ctx context.Context) (*diagnostic.Result, error) {
	return g.Diagnostics.DiagnosticResult(ctx)
}
