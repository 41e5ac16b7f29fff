package lectures

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownLecture is returned when marking a lecture that is not in the catalog.
var ErrUnknownLecture = errors.New("unknown lecture")

// ProgressStore persists the IDs of completed lectures.
type ProgressStore interface {
	LoadLectureProgress(ctx context.Context) ([]string, error)
	SaveLectureProgress(ctx context.Context, completed []string) error
}

// Tracker records lecture completion for one learner.
type Tracker struct {
	store    ProgressStore
	lectures []Lecture
}

// NewTracker returns a tracker over the built-in catalog.
func NewTracker(store ProgressStore) *Tracker {
	return &Tracker{store: store, lectures: All()}
}

// Lectures returns the catalog the tracker checks against.
func (t *Tracker) Lectures() []Lecture {
	return slices.Clone(t.lectures)
}

// Completed returns the completed lecture IDs in catalog order.
// Stored IDs that are no longer in the catalog are ignored.
func (t *Tracker) Completed(ctx context.Context) ([]string, error) {
	stored, err := t.store.LoadLectureProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("load lecture progress: %w", err)
	}
	var out []string
	for _, l := range t.lectures {
		if slices.Contains(stored, l.ID) {
			out = append(out, l.ID)
		}
	}
	return out, nil
}

// IsComplete reports whether the lecture with the given ID has been watched.
func (t *Tracker) IsComplete(ctx context.Context, id string) (bool, error) {
	done, err := t.Completed(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(done, id), nil
}

// MarkComplete records a lecture as watched. Marking it twice is a no-op.
func (t *Tracker) MarkComplete(ctx context.Context, id string) error {
	if !slices.ContainsFunc(t.lectures, func(l Lecture) bool { return l.ID == id }) {
		return fmt.Errorf("mark lecture %q: %w", id, ErrUnknownLecture)
	}
	done, err := t.Completed(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(done, id) {
		return nil
	}
	done = append(done, id)
	if err := t.store.SaveLectureProgress(ctx, done); err != nil {
		return fmt.Errorf("save lecture progress: %w", err)
	}
	return nil
}

// LecturesComplete reports whether every catalog lecture has been watched.
func (t *Tracker) LecturesComplete(ctx context.Context) (bool, error) {
	done, err := t.Completed(ctx)
	if err != nil {
		return false, err
	}
	return len(done) == len(t.lectures), nil
}

// Progress returns completed and total counts.
func (t *Tracker) Progress(ctx context.Context) (done, total int, err error) {
	ids, err := t.Completed(ctx)
	if err != nil {
		return 0, 0, err
	}
	return len(ids), len(t.lectures), nil
}

// Reset clears all lecture progress.
func (t *Tracker) Reset(ctx context.Context) error {
	if err := t.store.SaveLectureProgress(ctx, []string{}); err != nil {
		return fmt.Errorf("reset lecture progress: %w", err)
	}
	return nil
}
