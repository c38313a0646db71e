package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"rosterd/internal/domain/schedule"
	"rosterd/internal/platform/clock"
	"rosterd/internal/platform/verify"
)

type fakeTimesheetStore struct {
	existing *Timesheet

	checkedInAt  *time.Time
	checkedOutAt *time.Time
	statusCode   string
}

func (f *fakeTimesheetStore) FindBySchedule(context.Context, string) (*Timesheet, error) {
	return f.existing, nil
}

func (f *fakeTimesheetStore) CreateCheckIn(_ context.Context, scheduleID string, checkInAt time.Time, statusCode string) (Timesheet, error) {
	f.checkedInAt = &checkInAt
	f.statusCode = statusCode
	return Timesheet{ID: "ts-1", ScheduleID: scheduleID, CheckInAt: &checkInAt, StatusCode: statusCode}, nil
}

func (f *fakeTimesheetStore) SetCheckOut(_ context.Context, timesheetID string, checkOutAt time.Time) (Timesheet, error) {
	f.checkedOutAt = &checkOutAt
	out := *f.existing
	out.CheckOutAt = &checkOutAt
	return out, nil
}

type fakeScheduleReader struct {
	sched schedule.WorkSchedule
	err   error
}

func (f fakeScheduleReader) Get(context.Context, string) (schedule.WorkSchedule, error) {
	return f.sched, f.err
}

type fakeVerifier struct {
	result verify.Result
	err    error
	calls  []verify.Request
}

func (f *fakeVerifier) Verify(_ context.Context, req verify.Request) (verify.Result, error) {
	f.calls = append(f.calls, req)
	return f.result, f.err
}

func testSchedule(start time.Time) schedule.WorkSchedule {
	return schedule.WorkSchedule{
		ID:            "sch-1",
		UserID:        "u-1",
		Date:          time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		ShiftCode:     schedule.ShiftMorning,
		ExpectedStart: &start,
	}
}

func TestCheckInInsideWindow(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	now := start.Add(-2 * time.Minute)
	store := &fakeTimesheetStore{}
	verifier := &fakeVerifier{result: verify.Result{Accepted: true, StatusCode: "ON_TIME"}}
	service := NewService(store, fakeScheduleReader{sched: testSchedule(start)}, clock.Fixed{T: now}, verifier, DefaultWindowLead)

	sheet, err := service.CheckIn(context.Background(), "u-1", "sch-1", "station-1", "payload")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sheet.StatusCode != "ON_TIME" {
		t.Fatalf("expected verifier status stored, got %q", sheet.StatusCode)
	}
	if !store.checkedInAt.Equal(now) {
		t.Fatalf("expected check-in at authoritative now %v, got %v", now, store.checkedInAt)
	}
	if len(verifier.calls) != 1 || !verifier.calls[0].CapturedAt.Equal(now) {
		t.Fatalf("expected verifier called with authoritative now, got %+v", verifier.calls)
	}
}

func TestCheckInBeforeWindowRejectedLocally(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	now := start.Add(-DefaultWindowLead - time.Second)
	verifier := &fakeVerifier{result: verify.Result{Accepted: true}}
	service := NewService(&fakeTimesheetStore{}, fakeScheduleReader{sched: testSchedule(start)}, clock.Fixed{T: now}, verifier, DefaultWindowLead)

	_, err := service.CheckIn(context.Background(), "u-1", "sch-1", "station-1", "payload")
	if !errors.Is(err, ErrWindowClosed) {
		t.Fatalf("expected ErrWindowClosed, got %v", err)
	}
	if len(verifier.calls) != 0 {
		t.Fatal("expected no verifier call before the window opens")
	}
}

func TestCheckInMalformedScheduleFailsClosed(t *testing.T) {
	sched := testSchedule(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	sched.ExpectedStart = nil
	service := NewService(&fakeTimesheetStore{}, fakeScheduleReader{sched: sched}, clock.Fixed{T: time.Now()}, &fakeVerifier{}, DefaultWindowLead)

	_, err := service.CheckIn(context.Background(), "u-1", "sch-1", "station-1", "payload")
	if !errors.Is(err, ErrMalformedSchedule) {
		t.Fatalf("expected ErrMalformedSchedule, got %v", err)
	}
}

func TestCheckInRejectedWhenAlreadyCheckedIn(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	in := start.Add(time.Minute)
	store := &fakeTimesheetStore{existing: &Timesheet{ID: "ts-1", CheckInAt: &in}}
	service := NewService(store, fakeScheduleReader{sched: testSchedule(start)}, clock.Fixed{T: start}, &fakeVerifier{result: verify.Result{Accepted: true}}, DefaultWindowLead)

	_, err := service.CheckIn(context.Background(), "u-1", "sch-1", "station-1", "payload")
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}

	out := in.Add(8 * time.Hour)
	store.existing.CheckOutAt = &out
	_, err = service.CheckIn(context.Background(), "u-1", "sch-1", "station-1", "payload")
	if !errors.Is(err, ErrCompleted) {
		t.Fatalf("expected ErrCompleted, got %v", err)
	}
}

func TestCheckInIdentityRejected(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	store := &fakeTimesheetStore{}
	verifier := &fakeVerifier{result: verify.Result{Accepted: false, Reason: "no match"}}
	service := NewService(store, fakeScheduleReader{sched: testSchedule(start)}, clock.Fixed{T: start}, verifier, DefaultWindowLead)

	_, err := service.CheckIn(context.Background(), "u-1", "sch-1", "station-1", "payload")
	if !errors.Is(err, ErrIdentityRejected) {
		t.Fatalf("expected ErrIdentityRejected, got %v", err)
	}
	if store.checkedInAt != nil {
		t.Fatal("expected no timesheet write after rejection")
	}
}

func TestCheckInWrongOwner(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	service := NewService(&fakeTimesheetStore{}, fakeScheduleReader{sched: testSchedule(start)}, clock.Fixed{T: start}, &fakeVerifier{}, DefaultWindowLead)

	_, err := service.CheckIn(context.Background(), "u-2", "sch-1", "station-1", "payload")
	if !errors.Is(err, ErrNotScheduleOwner) {
		t.Fatalf("expected ErrNotScheduleOwner, got %v", err)
	}
}

func TestCheckOutRequiresCheckIn(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	service := NewService(&fakeTimesheetStore{}, fakeScheduleReader{sched: testSchedule(start)}, clock.Fixed{T: start}, &fakeVerifier{result: verify.Result{Accepted: true}}, DefaultWindowLead)

	_, err := service.CheckOut(context.Background(), "u-1", "sch-1", "station-1", "payload")
	if !errors.Is(err, ErrNotCheckedIn) {
		t.Fatalf("expected ErrNotCheckedIn, got %v", err)
	}
}

func TestCheckOutHasNoWindow(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	in := start
	// Deep into the next morning; check-out is still permitted.
	now := start.Add(20 * time.Hour)
	store := &fakeTimesheetStore{existing: &Timesheet{ID: "ts-1", ScheduleID: "sch-1", CheckInAt: &in}}
	service := NewService(store, fakeScheduleReader{sched: testSchedule(start)}, clock.Fixed{T: now}, &fakeVerifier{result: verify.Result{Accepted: true}}, DefaultWindowLead)

	sheet, err := service.CheckOut(context.Background(), "u-1", "sch-1", "station-1", "payload")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sheet.CheckOutAt.Equal(now) {
		t.Fatalf("expected check-out at %v, got %v", now, sheet.CheckOutAt)
	}
	if DeriveState(&sheet) != StateCompleted {
		t.Fatalf("expected COMPLETED, got %s", DeriveState(&sheet))
	}
}

func TestCheckOutTerminalAfterCompletion(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	in := start
	out := start.Add(8 * time.Hour)
	store := &fakeTimesheetStore{existing: &Timesheet{ID: "ts-1", CheckInAt: &in, CheckOutAt: &out}}
	service := NewService(store, fakeScheduleReader{sched: testSchedule(start)}, clock.Fixed{T: out}, &fakeVerifier{result: verify.Result{Accepted: true}}, DefaultWindowLead)

	_, err := service.CheckOut(context.Background(), "u-1", "sch-1", "station-1", "payload")
	if !errors.Is(err, ErrCompleted) {
		t.Fatalf("expected ErrCompleted, got %v", err)
	}
}

func TestStatusReportsWindowAndCountdown(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	now := start.Add(-15 * time.Minute)
	service := NewService(&fakeTimesheetStore{}, fakeScheduleReader{sched: testSchedule(start)}, clock.Fixed{T: now}, &fakeVerifier{}, DefaultWindowLead)

	status, err := service.Status(context.Background(), "u-1", "sch-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.State != StateAwaitingCheckIn {
		t.Fatalf("expected AWAITING_CHECK_IN, got %s", status.State)
	}
	if status.WindowOpen {
		t.Fatal("expected closed window 15 minutes out")
	}
	if status.Countdown.Minutes != 10 || status.Countdown.Seconds != 0 {
		t.Fatalf("expected 10m00s countdown, got %+v", status.Countdown)
	}
}
