package attendance

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrWindowClosed      = errors.New("check-in window not yet open")
	ErrMalformedSchedule = errors.New("schedule has no usable expected start")
	ErrAlreadyCheckedIn  = errors.New("already checked in for this schedule")
	ErrNotCheckedIn      = errors.New("not checked in for this schedule")
	ErrCompleted         = errors.New("shift already completed")
	ErrIdentityRejected  = errors.New("identity not recognized")
	ErrNotScheduleOwner  = errors.New("schedule belongs to another employee")
)

// WindowClosedError carries when the window opens so the rejection message
// can state the opening time and countdown, not a generic failure.
type WindowClosedError struct {
	OpensAt   time.Time
	Remaining Countdown
}

func (e *WindowClosedError) Error() string {
	return fmt.Sprintf("check-in opens at %s (in %s)", e.OpensAt.Format("15:04:05"), e.Remaining)
}

func (e *WindowClosedError) Unwrap() error { return ErrWindowClosed }
