package schedule

import (
	"context"
	"time"
)

type StoreAPI interface {
	Get(ctx context.Context, scheduleID string) (WorkSchedule, error)
	ListRange(ctx context.Context, from, to time.Time, userID string) ([]WorkSchedule, error)
	ListByDateAndShift(ctx context.Context, date time.Time, shiftCode string) ([]WorkSchedule, error)
	Create(ctx context.Context, draft Draft) (string, error)
	CreateBulk(ctx context.Context, drafts []Draft) (BulkResult, error)
	Update(ctx context.Context, scheduleID string, update Update) error
	Delete(ctx context.Context, scheduleID string) error
	HoursRows(ctx context.Context, userID string, from, to time.Time) ([]HoursRow, error)
}
