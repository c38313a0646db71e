package attendance

import "time"

// Timesheet is the realized attendance record for one work schedule. It is
// created only by a successful check-in and updated only by a successful
// check-out; at most one exists per schedule.
type Timesheet struct {
	ID         string     `json:"id"`
	ScheduleID string     `json:"scheduleId"`
	CheckInAt  *time.Time `json:"checkInAt,omitempty"`
	CheckOutAt *time.Time `json:"checkOutAt,omitempty"`
	// StatusCode (e.g. ON_TIME, LATE) is assigned by the external verifier at
	// check-in and stored verbatim, never recomputed here.
	StatusCode string    `json:"statusCode,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// State is the derived attendance position for one schedule. It is computed
// from the timesheet facts every time it is needed; nothing persists it.
type State string

const (
	StateAwaitingCheckIn State = "AWAITING_CHECK_IN"
	StateCheckedIn       State = "CHECKED_IN"
	StateCompleted       State = "COMPLETED"
)

// DeriveState projects the timesheet facts onto the state machine. Passing
// nil means no timesheet exists yet.
func DeriveState(ts *Timesheet) State {
	if ts == nil || ts.CheckInAt == nil {
		return StateAwaitingCheckIn
	}
	if ts.CheckOutAt == nil {
		return StateCheckedIn
	}
	return StateCompleted
}
