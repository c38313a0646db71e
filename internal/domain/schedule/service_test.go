package schedule

import (
	"context"
	"testing"
	"time"
)

type fakeStore struct {
	StoreAPI

	byDateShift map[string][]WorkSchedule
	bulkCalls   [][]Draft
	bulkResult  BulkResult
	hoursRows   []HoursRow
}

func dateShiftKey(date time.Time, shiftCode string) string {
	return date.Format("2006-01-02") + "|" + shiftCode
}

func (f *fakeStore) ListByDateAndShift(_ context.Context, date time.Time, shiftCode string) ([]WorkSchedule, error) {
	return f.byDateShift[dateShiftKey(date, shiftCode)], nil
}

func (f *fakeStore) CreateBulk(_ context.Context, drafts []Draft) (BulkResult, error) {
	f.bulkCalls = append(f.bulkCalls, drafts)
	result := f.bulkResult
	result.Requested = len(drafts)
	return result, nil
}

func (f *fakeStore) HoursRows(context.Context, string, time.Time, time.Time) ([]HoursRow, error) {
	return f.hoursRows, nil
}

func TestCloneDayNothingToClone(t *testing.T) {
	store := &fakeStore{byDateShift: map[string][]WorkSchedule{}}
	service := NewService(store)

	target := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	result, err := service.CloneDay(context.Background(), target, ShiftMorning)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Matched != 0 || result.Created != 0 {
		t.Fatalf("expected empty clone result, got %+v", result)
	}
	if len(store.bulkCalls) != 0 {
		t.Fatal("expected no writes for an empty clone")
	}
}

func TestCloneDayRetargetsPriorDay(t *testing.T) {
	day1 := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	store := &fakeStore{
		byDateShift: map[string][]WorkSchedule{
			dateShiftKey(day1, ShiftMorning): {
				{
					UserID:        "u-1",
					Date:          day1,
					ShiftCode:     ShiftMorning,
					ExpectedStart: ts(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)),
					ExpectedEnd:   ts(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)),
				},
				{UserID: "u-2", Date: day1, ShiftCode: ShiftMorning},
			},
		},
		bulkResult: BulkResult{Created: 2},
	}
	service := NewService(store)

	result, err := service.CloneDay(context.Background(), day2, ShiftMorning)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Matched != 2 || result.Created != 2 {
		t.Fatalf("expected 2 of 2 created, got %+v", result)
	}

	if len(store.bulkCalls) != 1 {
		t.Fatalf("expected one bulk call, got %d", len(store.bulkCalls))
	}
	drafts := store.bulkCalls[0]
	if !drafts[0].Date.Equal(day2) {
		t.Fatalf("expected retargeted date %v, got %v", day2, drafts[0].Date)
	}
	wantStart := time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)
	if !drafts[0].ExpectedStart.Equal(wantStart) {
		t.Fatalf("expected start %v, got %v", wantStart, drafts[0].ExpectedStart)
	}
}

func TestCloneDayPartialSuccess(t *testing.T) {
	day1 := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	store := &fakeStore{
		byDateShift: map[string][]WorkSchedule{
			dateShiftKey(day1, ShiftEvening): {
				{UserID: "u-1", Date: day1, ShiftCode: ShiftEvening},
				{UserID: "u-2", Date: day1, ShiftCode: ShiftEvening},
				{UserID: "u-3", Date: day1, ShiftCode: ShiftEvening},
			},
		},
		bulkResult: BulkResult{Created: 1},
	}
	service := NewService(store)

	result, err := service.CloneDay(context.Background(), day2, ShiftEvening)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Matched != 3 || result.Created != 1 {
		t.Fatalf("expected 1 of 3 created, got %+v", result)
	}
}

func TestCloneDayRejectsUnknownShift(t *testing.T) {
	service := NewService(&fakeStore{})
	_, err := service.CloneDay(context.Background(), time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), "BRUNCH")
	if err != ErrInvalidShiftCode {
		t.Fatalf("expected ErrInvalidShiftCode, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	store := &fakeStore{
		hoursRows: []HoursRow{
			{
				ExpectedStart: ts(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)),
				ExpectedEnd:   ts(time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)),
			},
			{
				ExpectedStart: ts(time.Date(2025, 3, 11, 22, 0, 0, 0, time.UTC)),
				ExpectedEnd:   ts(time.Date(2025, 3, 11, 6, 0, 0, 0, time.UTC)),
			},
		},
	}
	service := NewService(store)

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
	summary, err := service.Summarize(context.Background(), "u-1", from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalShifts != 2 {
		t.Fatalf("expected 2 shifts, got %d", summary.TotalShifts)
	}
	if summary.TotalHours != 16 {
		t.Fatalf("expected 16 hours, got %v", summary.TotalHours)
	}
}
