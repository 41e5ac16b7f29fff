package session

import (
	"math/rand/v2"

	"github.com/skillbit/skillbit/internal/questionbank"
)

// Rand is the randomness source for question selection.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Select picks the next question uniformly at random among the unanswered
// questions of the given tier, falling back to unanswered questions of any
// tier. Returns false when every question has been answered.
func Select(pool []questionbank.Question, tier questionbank.Difficulty, answered map[int]bool, r Rand) (questionbank.Question, bool) {
	var sameTier, unanswered []questionbank.Question
	for _, q := range pool {
		if answered[q.ID] {
			continue
		}
		unanswered = append(unanswered, q)
		if q.Difficulty == tier {
			sameTier = append(sameTier, q)
		}
	}

	candidates := sameTier
	if len(candidates) == 0 {
		candidates = unanswered
	}
	if len(candidates) == 0 {
		return questionbank.Question{}, false
	}
	return candidates[r.IntN(len(candidates))], true
}
