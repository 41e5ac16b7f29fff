package questionbank

import (
	"fmt"
	"slices"
	"strings"
)

// Set is an ordered, read-only collection of questions with unique IDs.
type Set struct {
	name      string
	questions []Question
	byID      map[int]int
}

// NewSet validates qs and builds a Set. Order is preserved.
func NewSet(name string, qs []Question) (*Set, error) {
	if err := validateQuestions(name, qs); err != nil {
		return nil, err
	}
	s := &Set{
		name:      name,
		questions: make([]Question, len(qs)),
		byID:      make(map[int]int, len(qs)),
	}
	for i, q := range qs {
		s.questions[i] = q.clone()
		s.byID[q.ID] = i
	}
	return s, nil
}

// Name returns the set name ("diagnostic" or "practice" for catalogs).
func (s *Set) Name() string {
	return s.name
}

// Len returns the number of questions.
func (s *Set) Len() int {
	return len(s.questions)
}

// All returns every question in catalog order.
func (s *Set) All() []Question {
	return s.Questions()
}

// Questions returns the questions matching any of the given difficulties,
// in catalog order. With no filter every question is returned.
func (s *Set) Questions(filter ...Difficulty) []Question {
	out := make([]Question, 0, len(s.questions))
	for _, q := range s.questions {
		if len(filter) > 0 && !slices.Contains(filter, q.Difficulty) {
			continue
		}
		out = append(out, q.clone())
	}
	return out
}

// ByID looks up a question by ID.
func (s *Set) ByID(id int) (Question, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Question{}, false
	}
	return s.questions[i].clone(), true
}

// CountByDifficulty returns how many questions each tier holds.
func (s *Set) CountByDifficulty() map[Difficulty]int {
	counts := make(map[Difficulty]int, 3)
	for _, q := range s.questions {
		counts[q.Difficulty]++
	}
	return counts
}

// validateQuestions performs all structural checks on a question list.
// Returns a combined error describing all problems found, or nil if valid.
func validateQuestions(set string, qs []Question) error {
	var errs []string

	if len(qs) == 0 {
		errs = append(errs, "set has no questions")
	}

	seen := make(map[int]bool, len(qs))
	for _, q := range qs {
		prefix := fmt.Sprintf("question %d", q.ID)
		if seen[q.ID] {
			errs = append(errs, fmt.Sprintf("duplicate question ID: %d", q.ID))
		}
		seen[q.ID] = true

		if strings.TrimSpace(q.Prompt) == "" {
			errs = append(errs, prefix+": empty prompt")
		}
		if len(q.Options) < 2 {
			errs = append(errs, fmt.Sprintf("%s: needs at least 2 options, got %d", prefix, len(q.Options)))
		}
		if !q.HasOption(q.Correct) {
			errs = append(errs, fmt.Sprintf("%s: correct index %d out of range", prefix, q.Correct))
		}
		if !q.Difficulty.Valid() {
			errs = append(errs, fmt.Sprintf("%s: unknown difficulty %q", prefix, q.Difficulty))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s set validation failed:\n  %s", set, strings.Join(errs, "\n  "))
	}
	return nil
}
