package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	FindBySchedule(ctx context.Context, scheduleID string) (*Timesheet, error)
	CreateCheckIn(ctx context.Context, scheduleID string, checkInAt time.Time, statusCode string) (Timesheet, error)
	SetCheckOut(ctx context.Context, timesheetID string, checkOutAt time.Time) (Timesheet, error)
}
