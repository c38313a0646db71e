package schedule

import "errors"

var (
	ErrNotFound         = errors.New("schedule not found")
	ErrInvalidShiftCode = errors.New("unknown shift code")
	ErrMissingDate      = errors.New("date is required")
	ErrInvalidTimes     = errors.New("expected start/end must be well-formed timestamps")
	ErrDuplicate        = errors.New("schedule already exists for employee, date and shift")
)
