package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"rosterd/internal/domain/attendance"
	"rosterd/internal/domain/schedule"
	"rosterd/internal/platform/clock"
)

// ErrActionInFlight means a check-in/out round trip is still outstanding;
// the terminal disables repeated submission rather than queueing.
var ErrActionInFlight = errors.New("action already in flight")

const (
	defaultRefreshEvery = 30 * time.Second
	defaultTickEvery    = time.Second
)

// API is what a session needs from the collaborator client.
type API interface {
	ServerTime(ctx context.Context) (time.Time, error)
	ListSchedules(ctx context.Context, from, to time.Time, userID string) ([]schedule.WorkSchedule, error)
	CheckIn(ctx context.Context, scheduleID, biometricPayload string) (attendance.Timesheet, error)
	CheckOut(ctx context.Context, scheduleID, biometricPayload string) (attendance.Timesheet, error)
}

// Session drives one station view: a single clock sync at start, a slow
// schedule refresh loop, and a fast local countdown tick that needs no
// network round trip. Both loops stop on Close.
type Session struct {
	api       API
	authority *clock.Authority
	userID    string

	refreshEvery time.Duration
	tickEvery    time.Duration

	// OnSchedules receives each fresh roster fetch. OnTick fires every tick
	// with the authoritative now so the view can recompute countdowns
	// locally. OnStationInvalid fires when the terminal credential is
	// rejected and the operator must re-register.
	OnSchedules      func([]schedule.WorkSchedule)
	OnTick           func(now time.Time)
	OnStationInvalid func()

	cancel   context.CancelFunc
	done     sync.WaitGroup
	inFlight atomic.Bool
	startMu  sync.Mutex
}

func NewSession(api API, userID string) *Session {
	return &Session{
		api:          api,
		authority:    clock.NewAuthority(api),
		userID:       userID,
		refreshEvery: defaultRefreshEvery,
		tickEvery:    defaultTickEvery,
	}
}

// Now exposes the session's authoritative clock for countdown rendering.
func (s *Session) Now() time.Time {
	return s.authority.Now()
}

// Start syncs the clock once and launches the refresh and tick loops.
// A failed sync degrades to the local clock; a stale offset over a very
// long-lived session is an accepted risk.
func (s *Session) Start(ctx context.Context) {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.authority.Sync(ctx)

	s.done.Add(2)
	go s.refreshLoop(ctx)
	go s.tickLoop(ctx)
}

// Close tears down both loops. Any in-flight action is abandoned through
// context cancellation and leaves no partial local state behind.
func (s *Session) Close() {
	s.startMu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.startMu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.done.Wait()
}

func (s *Session) refreshLoop(ctx context.Context) {
	defer s.done.Done()

	s.refresh(ctx)
	ticker := time.NewTicker(s.refreshEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *Session) tickLoop(ctx context.Context) {
	defer s.done.Done()

	ticker := time.NewTicker(s.tickEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.OnTick != nil {
				s.OnTick(s.authority.Now())
			}
		}
	}
}

func (s *Session) refresh(ctx context.Context) {
	// Span yesterday through tomorrow so an overnight shift stays visible
	// past midnight.
	today := s.authority.Now()
	from := today.AddDate(0, 0, -1)
	to := today.AddDate(0, 0, 1)

	schedules, err := s.api.ListSchedules(ctx, from, to, s.userID)
	if err != nil {
		if errors.Is(err, ErrStationInvalid) && s.OnStationInvalid != nil {
			s.OnStationInvalid()
			return
		}
		if !errors.Is(err, context.Canceled) {
			slog.Warn("schedule refresh failed", "err", err)
		}
		return
	}
	if s.OnSchedules != nil {
		s.OnSchedules(schedules)
	}
}

// CheckIn submits a check-in for one schedule, refusing overlap with another
// outstanding action.
func (s *Session) CheckIn(ctx context.Context, scheduleID, biometricPayload string) (attendance.Timesheet, error) {
	return s.action(ctx, scheduleID, biometricPayload, s.api.CheckIn)
}

// CheckOut submits a check-out for one schedule.
func (s *Session) CheckOut(ctx context.Context, scheduleID, biometricPayload string) (attendance.Timesheet, error) {
	return s.action(ctx, scheduleID, biometricPayload, s.api.CheckOut)
}

func (s *Session) action(ctx context.Context, scheduleID, biometricPayload string, call func(context.Context, string, string) (attendance.Timesheet, error)) (attendance.Timesheet, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return attendance.Timesheet{}, ErrActionInFlight
	}
	defer s.inFlight.Store(false)

	ts, err := call(ctx, scheduleID, biometricPayload)
	if err != nil {
		if errors.Is(err, ErrStationInvalid) && s.OnStationInvalid != nil {
			s.OnStationInvalid()
		}
		return attendance.Timesheet{}, err
	}

	// Fold the action's outcome back in so the view reflects it before the
	// next scheduled poll.
	s.refresh(ctx)
	return ts, nil
}
