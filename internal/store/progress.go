package store

import (
	"context"
	"time"
)

// localUserID keys the document that records which learner owns this install.
const localUserID = "_local"

type lectureProgressDoc struct {
	Completed []string `json:"completed"`
}

// LectureProgressRepo persists completed lecture IDs for one learner.
type LectureProgressRepo struct {
	docs   *DocumentRepo
	userID string
}

// LectureProgress returns the lecture progress repository for userID.
func (s *Store) LectureProgress(userID string) *LectureProgressRepo {
	return &LectureProgressRepo{docs: s.Documents(), userID: userID}
}

func (r *LectureProgressRepo) LoadLectureProgress(ctx context.Context) ([]string, error) {
	var doc lectureProgressDoc
	if _, err := r.docs.GetInto(ctx, r.userID, KindLectureProgress, &doc); err != nil {
		return nil, err
	}
	return doc.Completed, nil
}

func (r *LectureProgressRepo) SaveLectureProgress(ctx context.Context, completed []string) error {
	if completed == nil {
		completed = []string{}
	}
	return r.docs.SetMerge(ctx, r.userID, KindLectureProgress, lectureProgressDoc{Completed: completed})
}

// ProfileRecord is the stored learner profile.
type ProfileRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	LastSeen  time.Time `json:"lastSeen"`
}

// ProfileRepo stores the local learner identity.
type ProfileRepo struct {
	docs *DocumentRepo
}

// Profiles returns the profile repository.
func (s *Store) Profiles() *ProfileRepo {
	return &ProfileRepo{docs: s.Documents()}
}

// Local returns the profile that owns this install, or nil on first run.
func (r *ProfileRepo) Local(ctx context.Context) (*ProfileRecord, error) {
	var p ProfileRecord
	ok, err := r.docs.GetInto(ctx, localUserID, KindProfile, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

// SaveLocal records p as the owning profile and merges it into the
// learner's own profile document.
func (r *ProfileRepo) SaveLocal(ctx context.Context, p ProfileRecord) error {
	if err := r.docs.Set(ctx, localUserID, KindProfile, p); err != nil {
		return err
	}
	return r.docs.SetMerge(ctx, p.ID, KindProfile, p)
}
