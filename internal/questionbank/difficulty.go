package questionbank

import "fmt"

// Difficulty is the tier a question belongs to.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// AllDifficulties returns the tiers in ascending order.
func AllDifficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// Up returns the next harder tier. Hard stays Hard.
func (d Difficulty) Up() Difficulty {
	switch d {
	case Easy:
		return Medium
	case Medium:
		return Hard
	}
	return d
}

// Down returns the next easier tier. Easy stays Easy.
func (d Difficulty) Down() Difficulty {
	switch d {
	case Hard:
		return Medium
	case Medium:
		return Easy
	}
	return d
}

// Label returns the capitalized display name.
func (d Difficulty) Label() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	}
	return string(d)
}

// ParseDifficulty parses easy, medium or hard.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q: must be easy, medium or hard", s)
	}
	return d, nil
}
