package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// FindBySchedule returns the schedule's timesheet, or nil when the schedule
// has not been acted upon yet.
func (s *Store) FindBySchedule(ctx context.Context, scheduleID string) (*Timesheet, error) {
	var ts Timesheet
	err := s.DB.QueryRow(ctx, `
    SELECT id, schedule_id, check_in_at, check_out_at, status_code, created_at
    FROM timesheets
    WHERE schedule_id = $1
  `, scheduleID).Scan(&ts.ID, &ts.ScheduleID, &ts.CheckInAt, &ts.CheckOutAt, &ts.StatusCode, &ts.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// CreateCheckIn inserts the timesheet row for a fresh check-in. The unique
// constraint on schedule_id is the race authority: a concurrent second
// check-in loses with ErrAlreadyCheckedIn no matter what this process saw.
func (s *Store) CreateCheckIn(ctx context.Context, scheduleID string, checkInAt time.Time, statusCode string) (Timesheet, error) {
	var ts Timesheet
	err := s.DB.QueryRow(ctx, `
    INSERT INTO timesheets (schedule_id, check_in_at, status_code)
    VALUES ($1,$2,$3)
    RETURNING id, schedule_id, check_in_at, check_out_at, status_code, created_at
  `, scheduleID, checkInAt, statusCode).Scan(&ts.ID, &ts.ScheduleID, &ts.CheckInAt, &ts.CheckOutAt, &ts.StatusCode, &ts.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Timesheet{}, ErrAlreadyCheckedIn
		}
		return Timesheet{}, err
	}
	return ts, nil
}

// SetCheckOut stamps the check-out on an open timesheet. The WHERE clause
// refuses rows already checked out, so a racing double check-out affects
// zero rows and reports ErrCompleted.
func (s *Store) SetCheckOut(ctx context.Context, timesheetID string, checkOutAt time.Time) (Timesheet, error) {
	var ts Timesheet
	err := s.DB.QueryRow(ctx, `
    UPDATE timesheets
    SET check_out_at = $2
    WHERE id = $1 AND check_out_at IS NULL
    RETURNING id, schedule_id, check_in_at, check_out_at, status_code, created_at
  `, timesheetID, checkOutAt).Scan(&ts.ID, &ts.ScheduleID, &ts.CheckInAt, &ts.CheckOutAt, &ts.StatusCode, &ts.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Timesheet{}, ErrCompleted
	}
	if err != nil {
		return Timesheet{}, err
	}
	return ts, nil
}
