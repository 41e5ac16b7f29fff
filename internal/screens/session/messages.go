package session

import (
	"time"

	sess "github.com/skillbit/skillbit/internal/session"
)

// sessionInitMsg is sent when the controller has been created, or the
// prerequisites turned it away.
type sessionInitMsg struct {
	Ctrl *sess.Controller
	Err  error
}

// timerTickMsg is sent every second to drive the clock and the break countdown.
type timerTickMsg time.Time

// sessionEndMsg is sent to trigger the session end flow.
type sessionEndMsg struct{}
