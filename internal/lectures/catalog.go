// Package lectures holds the foundational lecture catalog and tracks which
// lectures the learner has watched.
package lectures

import (
	"fmt"
	"time"
)

// Lecture is one foundational video.
type Lecture struct {
	ID          string
	Title       string
	Description string
	Duration    time.Duration
	VideoURL    string
}

// DurationLabel formats the running time as m:ss.
func (l Lecture) DurationLabel() string {
	secs := int(l.Duration.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

var catalog = []Lecture{
	{
		ID:          "1",
		Title:       "Introduction to Adaptive Learning",
		Description: "Understanding the fundamentals of personalized education and how adaptive systems work to optimize your learning experience.",
		Duration:    12*time.Minute + 30*time.Second,
		VideoURL:    "https://skillbit.dev/lectures/adaptive-learning",
	},
	{
		ID:          "2",
		Title:       "Competence-Based Learning Theory",
		Description: "Explore how competence tracking helps identify your strengths and areas for improvement in real-time.",
		Duration:    15*time.Minute + 45*time.Second,
		VideoURL:    "https://skillbit.dev/lectures/competence-based-learning",
	},
	{
		ID:          "3",
		Title:       "Fatigue Management in Learning",
		Description: "Learn about cognitive load theory and how managing fatigue can dramatically improve retention and performance.",
		Duration:    10*time.Minute + 20*time.Second,
		VideoURL:    "https://skillbit.dev/lectures/fatigue-management",
	},
	{
		ID:          "4",
		Title:       "Micro-Learning Best Practices",
		Description: "Discover the science behind bite-sized learning and how to maximize knowledge retention through spaced repetition.",
		Duration:    18*time.Minute + 15*time.Second,
		VideoURL:    "https://skillbit.dev/lectures/micro-learning",
	},
}

// All returns the lectures in viewing order.
func All() []Lecture {
	out := make([]Lecture, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a lecture.
func ByID(id string) (Lecture, bool) {
	for _, l := range catalog {
		if l.ID == id {
			return l, true
		}
	}
	return Lecture{}, false
}
