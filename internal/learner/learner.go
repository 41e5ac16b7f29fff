// Package learner resolves the local learner identity. SkillBit is single
// user: the first run creates a profile and every later run reuses it.
package learner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillbit/skillbit/internal/store"
)

// DefaultName is used when no display name is given on first run.
const DefaultName = "Learner"

// ProfileStore loads and saves the owning profile.
type ProfileStore interface {
	Local(ctx context.Context) (*store.ProfileRecord, error)
	SaveLocal(ctx context.Context, p store.ProfileRecord) error
}

// Learner is the current user.
type Learner struct {
	ID        string
	Name      string
	CreatedAt time.Time
	// New is set when this call created the profile.
	New bool
}

// Resolve returns the local learner, creating one on first run. A non-empty
// name renames an existing learner.
func Resolve(ctx context.Context, profiles ProfileStore, name string) (*Learner, error) {
	name = strings.TrimSpace(name)
	now := time.Now().UTC()

	existing, err := profiles.Local(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	if existing == nil {
		if name == "" {
			name = DefaultName
		}
		rec := store.ProfileRecord{
			ID:        uuid.NewString(),
			Name:      name,
			CreatedAt: now,
			LastSeen:  now,
		}
		if err := profiles.SaveLocal(ctx, rec); err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
		return &Learner{ID: rec.ID, Name: rec.Name, CreatedAt: rec.CreatedAt, New: true}, nil
	}

	rec := *existing
	if name != "" {
		rec.Name = name
	}
	rec.LastSeen = now
	if err := profiles.SaveLocal(ctx, rec); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &Learner{ID: rec.ID, Name: rec.Name, CreatedAt: rec.CreatedAt}, nil
}
