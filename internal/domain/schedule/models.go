package schedule

import "time"

// WorkSchedule is one employee assigned to one shift on one date. Date carries
// no time component; ExpectedStart/ExpectedEnd are absolute timestamps built
// from the date plus the shift's time-of-day. An ExpectedEnd whose wall-clock
// time-of-day precedes ExpectedStart's denotes an overnight shift, which is a
// valid state, not an error.
type WorkSchedule struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Date          time.Time  `json:"date"`
	ShiftCode     string     `json:"shiftCode"`
	ExpectedStart *time.Time `json:"expectedStart,omitempty"`
	ExpectedEnd   *time.Time `json:"expectedEnd,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Draft is a schedule not yet persisted: manager input or clone engine output.
type Draft struct {
	UserID        string     `json:"userId"`
	Date          time.Time  `json:"date"`
	ShiftCode     string     `json:"shiftCode"`
	ExpectedStart *time.Time `json:"expectedStart,omitempty"`
	ExpectedEnd   *time.Time `json:"expectedEnd,omitempty"`
}

// Update carries the mutable fields; nil means leave unchanged. The Clear
// flags strip a stored expected time back to NULL, which a nil pointer
// cannot express.
type Update struct {
	Date               *time.Time
	ShiftCode          *string
	ExpectedStart      *time.Time
	ExpectedEnd        *time.Time
	ClearExpectedStart bool
	ClearExpectedEnd   bool
}

// BulkResult reports a bulk create that may have partially succeeded.
// Created < Requested means some rows were rejected (typically duplicates).
type BulkResult struct {
	Requested int `json:"requested"`
	Created   int `json:"created"`
}

// CloneResult reports a prior-day roster duplication. Matched == 0 means
// there was nothing to clone and no write was attempted.
type CloneResult struct {
	Matched int `json:"matched"`
	Created int `json:"created"`
}

// PeriodSummary is derived on demand for one employee and date range;
// it is never stored.
type PeriodSummary struct {
	UserID      string  `json:"userId"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	TotalShifts int     `json:"totalShifts"`
	TotalHours  float64 `json:"totalHours"`
}
