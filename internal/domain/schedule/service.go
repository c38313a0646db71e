package schedule

import (
	"context"
	"time"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) Get(ctx context.Context, scheduleID string) (WorkSchedule, error) {
	return s.Store.Get(ctx, scheduleID)
}

func (s *Service) ListRange(ctx context.Context, from, to time.Time, userID string) ([]WorkSchedule, error) {
	return s.Store.ListRange(ctx, from, to, userID)
}

func (s *Service) Create(ctx context.Context, draft Draft) (string, error) {
	if err := ValidateDraft(draft); err != nil {
		return "", err
	}
	return s.Store.Create(ctx, draft)
}

func (s *Service) CreateBulk(ctx context.Context, drafts []Draft) (BulkResult, error) {
	for _, draft := range drafts {
		if err := ValidateDraft(draft); err != nil {
			return BulkResult{Requested: len(drafts)}, err
		}
	}
	return s.Store.CreateBulk(ctx, drafts)
}

func (s *Service) Update(ctx context.Context, scheduleID string, update Update) error {
	if update.ShiftCode != nil && !ValidShiftCode(*update.ShiftCode) {
		return ErrInvalidShiftCode
	}
	return s.Store.Update(ctx, scheduleID, update)
}

func (s *Service) Delete(ctx context.Context, scheduleID string) error {
	return s.Store.Delete(ctx, scheduleID)
}

// CloneDay duplicates the previous day's roster for one shift code onto the
// target date. Time-of-day is preserved per assignment; the date moves.
// Duplicate detection stays with the store's unique constraint, so a clone
// onto a partly-populated day reports partial success instead of failing.
func (s *Service) CloneDay(ctx context.Context, target time.Time, shiftCode string) (CloneResult, error) {
	if !ValidShiftCode(shiftCode) {
		return CloneResult{}, ErrInvalidShiftCode
	}
	if target.IsZero() {
		return CloneResult{}, ErrMissingDate
	}

	prevDay := target.AddDate(0, 0, -1)
	sources, err := s.Store.ListByDateAndShift(ctx, prevDay, shiftCode)
	if err != nil {
		return CloneResult{}, err
	}
	if len(sources) == 0 {
		// Nothing to clone is a reportable outcome, not a failure.
		return CloneResult{}, nil
	}

	drafts := make([]Draft, 0, len(sources))
	for _, src := range sources {
		drafts = append(drafts, Retarget(src, target))
	}

	bulk, err := s.Store.CreateBulk(ctx, drafts)
	if err != nil {
		return CloneResult{Matched: len(sources)}, err
	}
	return CloneResult{Matched: len(sources), Created: bulk.Created}, nil
}

// Summarize answers "how much did this employee work in [from, to]".
// The overnight duration rule lives in RowDuration; it feeds payroll-adjacent
// figures and must hold no matter where the rows came from.
func (s *Service) Summarize(ctx context.Context, userID string, from, to time.Time) (PeriodSummary, error) {
	rows, err := s.Store.HoursRows(ctx, userID, from, to)
	if err != nil {
		return PeriodSummary{}, err
	}
	return PeriodSummary{
		UserID:      userID,
		From:        from.Format("2006-01-02"),
		To:          to.Format("2006-01-02"),
		TotalShifts: len(rows),
		TotalHours:  SummarizeHours(rows),
	}, nil
}
