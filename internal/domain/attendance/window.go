package attendance

import (
	"fmt"
	"time"
)

// DefaultWindowLead is how long before the expected start the check-in
// window opens.
const DefaultWindowLead = 5 * time.Minute

// WindowOpensAt returns the opening instant, or false when the schedule has
// no usable expected start.
func WindowOpensAt(expectedStart *time.Time, lead time.Duration) (time.Time, bool) {
	if expectedStart == nil || expectedStart.IsZero() {
		return time.Time{}, false
	}
	return expectedStart.Add(-lead), true
}

// WindowOpen reports whether check-in is permitted at the given authoritative
// time. The window opens `lead` before the expected start and never closes: a
// late check-in is still a check-in, lateness classification belongs to the
// verifier. A missing expected start fails closed.
func WindowOpen(now time.Time, expectedStart *time.Time, lead time.Duration) bool {
	opensAt, ok := WindowOpensAt(expectedStart, lead)
	if !ok {
		return false
	}
	return !now.Before(opensAt)
}

// Countdown is the human-facing time remaining until the window opens,
// clamped to zero once it has.
type Countdown struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

func (c Countdown) String() string {
	return fmt.Sprintf("%02d:%02d", c.Minutes, c.Seconds)
}

// CountdownUntilOpen computes whole minutes and seconds until the window
// opens. Already-open (or unusable) schedules report zero.
func CountdownUntilOpen(now time.Time, expectedStart *time.Time, lead time.Duration) Countdown {
	opensAt, ok := WindowOpensAt(expectedStart, lead)
	if !ok {
		return Countdown{}
	}
	remaining := opensAt.Sub(now)
	if remaining <= 0 {
		return Countdown{}
	}
	total := int(remaining.Round(time.Second) / time.Second)
	return Countdown{Minutes: total / 60, Seconds: total % 60}
}
