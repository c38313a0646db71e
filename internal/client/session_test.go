package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"rosterd/internal/domain/attendance"
	"rosterd/internal/domain/schedule"
)

type fakeAPI struct {
	mu        sync.Mutex
	serverNow time.Time
	schedules []schedule.WorkSchedule
	listErr   error

	actionStarted chan struct{}
	actionRelease chan struct{}
	actionErr     error
}

func (f *fakeAPI) ServerTime(context.Context) (time.Time, error) {
	return f.serverNow, nil
}

func (f *fakeAPI) ListSchedules(context.Context, time.Time, time.Time, string) ([]schedule.WorkSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.schedules, f.listErr
}

func (f *fakeAPI) CheckIn(ctx context.Context, scheduleID, _ string) (attendance.Timesheet, error) {
	if f.actionStarted != nil {
		close(f.actionStarted)
	}
	if f.actionRelease != nil {
		select {
		case <-f.actionRelease:
		case <-ctx.Done():
			return attendance.Timesheet{}, ctx.Err()
		}
	}
	if f.actionErr != nil {
		return attendance.Timesheet{}, f.actionErr
	}
	return attendance.Timesheet{ID: "ts-1", ScheduleID: scheduleID}, nil
}

func (f *fakeAPI) CheckOut(_ context.Context, scheduleID, _ string) (attendance.Timesheet, error) {
	return attendance.Timesheet{ID: "ts-1", ScheduleID: scheduleID}, nil
}

func TestSessionSyncsClockOnStart(t *testing.T) {
	server := time.Now().Add(3 * time.Minute)
	api := &fakeAPI{serverNow: server}
	session := NewSession(api, "u-1")
	session.Start(context.Background())
	defer session.Close()

	drift := session.Now().Sub(time.Now())
	if drift < 2*time.Minute+50*time.Second || drift > 3*time.Minute+10*time.Second {
		t.Fatalf("expected roughly +3m authoritative drift, got %v", drift)
	}
}

func TestSessionSingleActionInFlight(t *testing.T) {
	api := &fakeAPI{
		serverNow:     time.Now(),
		actionStarted: make(chan struct{}),
		actionRelease: make(chan struct{}),
	}
	session := NewSession(api, "u-1")

	errs := make(chan error, 1)
	go func() {
		_, err := session.CheckIn(context.Background(), "sch-1", "payload")
		errs <- err
	}()

	<-api.actionStarted
	if _, err := session.CheckIn(context.Background(), "sch-1", "payload"); err != ErrActionInFlight {
		t.Fatalf("expected ErrActionInFlight, got %v", err)
	}

	close(api.actionRelease)
	if err := <-errs; err != nil {
		t.Fatalf("unexpected error from first action: %v", err)
	}

	// Guard released after completion.
	api.actionRelease = nil
	api.actionStarted = nil
	if _, err := session.CheckIn(context.Background(), "sch-1", "payload"); err != nil {
		t.Fatalf("unexpected error after release: %v", err)
	}
}

func TestSessionStationInvalidCallback(t *testing.T) {
	api := &fakeAPI{serverNow: time.Now(), actionErr: ErrStationInvalid}
	session := NewSession(api, "u-1")

	invalid := false
	session.OnStationInvalid = func() { invalid = true }

	_, err := session.CheckIn(context.Background(), "sch-1", "payload")
	if err != ErrStationInvalid {
		t.Fatalf("expected ErrStationInvalid, got %v", err)
	}
	if !invalid {
		t.Fatal("expected OnStationInvalid to fire")
	}
}

func TestSessionCloseStopsLoops(t *testing.T) {
	api := &fakeAPI{serverNow: time.Now()}
	session := NewSession(api, "u-1")
	session.refreshEvery = 5 * time.Millisecond
	session.tickEvery = 5 * time.Millisecond

	var mu sync.Mutex
	ticks := 0
	session.OnTick = func(time.Time) {
		mu.Lock()
		ticks++
		mu.Unlock()
	}

	session.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	session.Close()

	mu.Lock()
	after := ticks
	mu.Unlock()
	if after == 0 {
		t.Fatal("expected at least one tick before close")
	}

	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	final := ticks
	mu.Unlock()
	if final != after {
		t.Fatalf("expected no ticks after close, got %d then %d", after, final)
	}

	// Close is idempotent.
	session.Close()
}

func TestSessionRefreshDeliversSchedules(t *testing.T) {
	api := &fakeAPI{
		serverNow: time.Now(),
		schedules: []schedule.WorkSchedule{{ID: "sch-1", UserID: "u-1", ShiftCode: schedule.ShiftMorning}},
	}
	session := NewSession(api, "u-1")
	session.refreshEvery = time.Hour

	got := make(chan []schedule.WorkSchedule, 1)
	session.OnSchedules = func(rows []schedule.WorkSchedule) {
		select {
		case got <- rows:
		default:
		}
	}

	session.Start(context.Background())
	defer session.Close()

	select {
	case rows := <-got:
		if len(rows) != 1 || rows[0].ID != "sch-1" {
			t.Fatalf("unexpected schedules: %+v", rows)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial refresh")
	}
}
