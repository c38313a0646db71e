package schedule

import "time"

// ShiftDuration returns how long a shift runs. Both timestamps carry the
// schedule's own date, so an overnight shift shows up as end <= start in
// wall-clock terms; those roll into the next calendar day and get 24h added
// before subtracting. A valid shift never has zero or negative duration.
func ShiftDuration(start, end time.Time) time.Duration {
	d := end.Sub(start)
	if d <= 0 {
		d += 24 * time.Hour
	}
	return d
}

// CombineDateTime rebuilds a timestamp from a target calendar day and the
// time-of-day of a source timestamp.
func CombineDateTime(date, timeOfDay time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), timeOfDay.Second(), 0,
		timeOfDay.Location(),
	)
}

// Retarget builds a draft for the same employee and shift on a new date,
// preserving the source's time-of-day. An 08:00-12:00 assignment retargets to
// 08:00-12:00 on the new date, never to the literal old timestamps.
func Retarget(src WorkSchedule, date time.Time) Draft {
	draft := Draft{
		UserID:    src.UserID,
		Date:      date,
		ShiftCode: src.ShiftCode,
	}
	if src.ExpectedStart != nil {
		start := CombineDateTime(date, *src.ExpectedStart)
		draft.ExpectedStart = &start
	}
	if src.ExpectedEnd != nil {
		end := CombineDateTime(date, *src.ExpectedEnd)
		draft.ExpectedEnd = &end
	}
	return draft
}

// ValidateDraft enforces the construction invariants: a calendar date is
// required, the shift code must be one of the known set, and any provided
// expected start/end must be real timestamps.
func ValidateDraft(d Draft) error {
	if d.Date.IsZero() {
		return ErrMissingDate
	}
	if !ValidShiftCode(d.ShiftCode) {
		return ErrInvalidShiftCode
	}
	if d.ExpectedStart != nil && d.ExpectedStart.IsZero() {
		return ErrInvalidTimes
	}
	if d.ExpectedEnd != nil && d.ExpectedEnd.IsZero() {
		return ErrInvalidTimes
	}
	return nil
}

// HoursRow is one schedule row joined with its timesheet, if any, for
// period aggregation.
type HoursRow struct {
	ExpectedStart *time.Time
	ExpectedEnd   *time.Time
	CheckInAt     *time.Time
	CheckOutAt    *time.Time
}

// RowDuration prefers the realized duration when the shift was fully worked
// and falls back to the planned duration otherwise. Rows with neither
// contribute nothing.
func RowDuration(row HoursRow) time.Duration {
	if row.CheckInAt != nil && row.CheckOutAt != nil {
		return row.CheckOutAt.Sub(*row.CheckInAt)
	}
	if row.ExpectedStart != nil && row.ExpectedEnd != nil {
		return ShiftDuration(*row.ExpectedStart, *row.ExpectedEnd)
	}
	return 0
}

// SummarizeHours sums row durations and reports them as fractional hours.
// Every row counts as a shift regardless of whether it carries times.
func SummarizeHours(rows []HoursRow) float64 {
	var total time.Duration
	for _, row := range rows {
		total += RowDuration(row)
	}
	return total.Hours()
}
