package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual(t *testing.T) {
	start := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewManual(start)
	assert.Equal(t, start, c.Now())

	c.Advance(1500 * time.Millisecond)
	assert.Equal(t, start.Add(1500*time.Millisecond), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestSystemMovesForward(t *testing.T) {
	a := System.Now()
	b := System.Now()
	assert.False(t, b.Before(a))
}
