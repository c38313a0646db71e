package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
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

func (s *Store) Get(ctx context.Context, scheduleID string) (WorkSchedule, error) {
	// ids are uuids; anything else cannot match a row and must not reach
	// the parameter cast.
	if _, err := uuid.Parse(scheduleID); err != nil {
		return WorkSchedule{}, ErrNotFound
	}

	var row WorkSchedule
	err := s.DB.QueryRow(ctx, `
    SELECT id, user_id, date, shift_code, expected_start, expected_end, created_at
    FROM work_schedules
    WHERE id = $1
  `, scheduleID).Scan(&row.ID, &row.UserID, &row.Date, &row.ShiftCode, &row.ExpectedStart, &row.ExpectedEnd, &row.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return WorkSchedule{}, ErrNotFound
	}
	if err != nil {
		return WorkSchedule{}, err
	}
	return row, nil
}

// ListRange returns schedules whose date falls in [from, to] inclusive,
// optionally restricted to one employee.
func (s *Store) ListRange(ctx context.Context, from, to time.Time, userID string) ([]WorkSchedule, error) {
	query := `
    SELECT id, user_id, date, shift_code, expected_start, expected_end, created_at
    FROM work_schedules
    WHERE date >= $1 AND date <= $2
  `
	args := []any{from, to}
	if userID != "" {
		query += " AND user_id = $3"
		args = append(args, userID)
	}
	query += " ORDER BY date, shift_code, user_id"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WorkSchedule
	for rows.Next() {
		var row WorkSchedule
		if err := rows.Scan(&row.ID, &row.UserID, &row.Date, &row.ShiftCode, &row.ExpectedStart, &row.ExpectedEnd, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ListByDateAndShift returns every assignment for one calendar day and shift
// code; the clone engine reads the prior day's roster through this.
func (s *Store) ListByDateAndShift(ctx context.Context, date time.Time, shiftCode string) ([]WorkSchedule, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, date, shift_code, expected_start, expected_end, created_at
    FROM work_schedules
    WHERE date = $1 AND shift_code = $2
    ORDER BY user_id
  `, date, shiftCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WorkSchedule
	for rows.Next() {
		var row WorkSchedule
		if err := rows.Scan(&row.ID, &row.UserID, &row.Date, &row.ShiftCode, &row.ExpectedStart, &row.ExpectedEnd, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, draft Draft) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO work_schedules (user_id, date, shift_code, expected_start, expected_end)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, draft.UserID, draft.Date, draft.ShiftCode, draft.ExpectedStart, draft.ExpectedEnd).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return "", ErrDuplicate
		}
		return "", err
	}
	return id, nil
}

// CreateBulk inserts drafts one row at a time inside a transaction, skipping
// rows that collide with an existing (user, date, shift) assignment. Partial
// success is the expected outcome for clones onto a partly-filled day, so the
// created count is reported rather than an all-or-nothing error.
func (s *Store) CreateBulk(ctx context.Context, drafts []Draft) (BulkResult, error) {
	result := BulkResult{Requested: len(drafts)}
	if len(drafts) == 0 {
		return result, nil
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return result, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, draft := range drafts {
		tag, err := tx.Exec(ctx, `
      INSERT INTO work_schedules (user_id, date, shift_code, expected_start, expected_end)
      VALUES ($1,$2,$3,$4,$5)
      ON CONFLICT (user_id, date, shift_code) DO NOTHING
    `, draft.UserID, draft.Date, draft.ShiftCode, draft.ExpectedStart, draft.ExpectedEnd)
		if err != nil {
			return result, err
		}
		result.Created += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return BulkResult{Requested: len(drafts)}, err
	}
	return result, nil
}

func (s *Store) Update(ctx context.Context, scheduleID string, update Update) error {
	if _, err := uuid.Parse(scheduleID); err != nil {
		return ErrNotFound
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE work_schedules
    SET date = COALESCE($2, date),
        shift_code = COALESCE($3, shift_code),
        expected_start = CASE WHEN $4 THEN NULL ELSE COALESCE($5, expected_start) END,
        expected_end = CASE WHEN $6 THEN NULL ELSE COALESCE($7, expected_end) END
    WHERE id = $1
  `, scheduleID, update.Date, update.ShiftCode,
		update.ClearExpectedStart, update.ExpectedStart,
		update.ClearExpectedEnd, update.ExpectedEnd)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, scheduleID string) error {
	if _, err := uuid.Parse(scheduleID); err != nil {
		return ErrNotFound
	}
	tag, err := s.DB.Exec(ctx, "DELETE FROM work_schedules WHERE id = $1", scheduleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// HoursRows feeds the period aggregator: every schedule row in range for the
// employee, joined with its timesheet when one exists.
func (s *Store) HoursRows(ctx context.Context, userID string, from, to time.Time) ([]HoursRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT ws.expected_start, ws.expected_end, ts.check_in_at, ts.check_out_at
    FROM work_schedules ws
    LEFT JOIN timesheets ts ON ts.schedule_id = ws.id
    WHERE ws.user_id = $1 AND ws.date >= $2 AND ws.date <= $3
  `, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HoursRow
	for rows.Next() {
		var row HoursRow
		if err := rows.Scan(&row.ExpectedStart, &row.ExpectedEnd, &row.CheckInAt, &row.CheckOutAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
