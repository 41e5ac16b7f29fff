package session

import (
	"time"

	"github.com/skillbit/skillbit/internal/questionbank"
)

// QuickThreshold is the response time below which an answer counts as fluent.
const QuickThreshold = 10 * time.Second

// Rule identifies which branch of the update table applied.
type Rule int

const (
	RuleCorrectQuick Rule = iota
	RuleCorrectSlow
	RuleIncorrect
)

func (r Rule) String() string {
	switch r {
	case RuleCorrectQuick:
		return "correct-quick"
	case RuleCorrectSlow:
		return "correct-slow"
	case RuleIncorrect:
		return "incorrect"
	}
	return "unknown"
}

// Update is the outcome of scoring one answer.
type Update struct {
	Rule       Rule
	Competence int
	Fatigue    int
	Difficulty questionbank.Difficulty
}

// TierChanged reports whether the update moved the difficulty tier relative to from.
func (u Update) TierChanged(from questionbank.Difficulty) bool {
	return u.Difficulty != from
}

// Score applies the competence/fatigue rule table to s. Tier thresholds
// are tested against the tier held before the update, so a single answer
// moves at most one step.
func Score(s State, correct bool, elapsed time.Duration) Update {
	quick := elapsed < QuickThreshold
	u := Update{Difficulty: s.Difficulty}

	switch {
	case correct && quick:
		u.Rule = RuleCorrectQuick
		u.Competence = clamp(s.Competence + 8)
		u.Fatigue = clamp(s.Fatigue - 2)
		if u.Competence > 70 && s.Difficulty == questionbank.Easy {
			u.Difficulty = questionbank.Medium
		} else if u.Competence > 85 && s.Difficulty == questionbank.Medium {
			u.Difficulty = questionbank.Hard
		}
	case correct:
		u.Rule = RuleCorrectSlow
		u.Competence = clamp(s.Competence + 4)
		u.Fatigue = clamp(s.Fatigue + 3)
	default:
		u.Rule = RuleIncorrect
		u.Competence = clamp(s.Competence - 3)
		u.Fatigue = clamp(s.Fatigue + 8)
		if u.Competence < 60 && s.Difficulty == questionbank.Hard {
			u.Difficulty = questionbank.Medium
		} else if u.Competence < 40 && s.Difficulty == questionbank.Medium {
			u.Difficulty = questionbank.Easy
		}
	}
	return u
}
