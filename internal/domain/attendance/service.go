package attendance

import (
	"context"
	"time"

	"rosterd/internal/domain/schedule"
	"rosterd/internal/platform/clock"
	"rosterd/internal/platform/verify"
)

// ScheduleReader is the slice of the schedule domain this service needs.
type ScheduleReader interface {
	Get(ctx context.Context, scheduleID string) (schedule.WorkSchedule, error)
}

type Service struct {
	Store      StoreAPI
	Schedules  ScheduleReader
	Clock      clock.Clock
	Verifier   verify.Verifier
	WindowLead time.Duration
}

func NewService(store StoreAPI, schedules ScheduleReader, clk clock.Clock, verifier verify.Verifier, windowLead time.Duration) *Service {
	if windowLead <= 0 {
		windowLead = DefaultWindowLead
	}
	return &Service{Store: store, Schedules: schedules, Clock: clk, Verifier: verifier, WindowLead: windowLead}
}

// ScheduleStatus is what a station view renders for one schedule: the
// derived state plus the current window verdict.
type ScheduleStatus struct {
	Schedule   schedule.WorkSchedule `json:"schedule"`
	Timesheet  *Timesheet            `json:"timesheet,omitempty"`
	State      State                 `json:"state"`
	WindowOpen bool                  `json:"windowOpen"`
	Countdown  Countdown             `json:"countdown"`
}

func (s *Service) Status(ctx context.Context, actorUserID, scheduleID string) (ScheduleStatus, error) {
	sched, err := s.Schedules.Get(ctx, scheduleID)
	if err != nil {
		return ScheduleStatus{}, err
	}
	if sched.UserID != actorUserID {
		return ScheduleStatus{}, ErrNotScheduleOwner
	}

	ts, err := s.Store.FindBySchedule(ctx, scheduleID)
	if err != nil {
		return ScheduleStatus{}, err
	}

	now := s.Clock.Now()
	return ScheduleStatus{
		Schedule:   sched,
		Timesheet:  ts,
		State:      DeriveState(ts),
		WindowOpen: WindowOpen(now, sched.ExpectedStart, s.WindowLead),
		Countdown:  CountdownUntilOpen(now, sched.ExpectedStart, s.WindowLead),
	}, nil
}

// CheckIn drives AWAITING_CHECK_IN -> CHECKED_IN. The local window and state
// checks give fast feedback, but the store's uniqueness constraint remains
// the final authority if two actions race.
func (s *Service) CheckIn(ctx context.Context, actorUserID, scheduleID, stationID, biometricPayload string) (Timesheet, error) {
	sched, err := s.Schedules.Get(ctx, scheduleID)
	if err != nil {
		return Timesheet{}, err
	}
	if sched.UserID != actorUserID {
		return Timesheet{}, ErrNotScheduleOwner
	}

	existing, err := s.Store.FindBySchedule(ctx, scheduleID)
	if err != nil {
		return Timesheet{}, err
	}
	switch DeriveState(existing) {
	case StateCheckedIn:
		return Timesheet{}, ErrAlreadyCheckedIn
	case StateCompleted:
		return Timesheet{}, ErrCompleted
	}

	if sched.ExpectedStart == nil || sched.ExpectedStart.IsZero() {
		return Timesheet{}, ErrMalformedSchedule
	}
	now := s.Clock.Now()
	if !WindowOpen(now, sched.ExpectedStart, s.WindowLead) {
		opensAt, _ := WindowOpensAt(sched.ExpectedStart, s.WindowLead)
		return Timesheet{}, &WindowClosedError{
			OpensAt:   opensAt,
			Remaining: CountdownUntilOpen(now, sched.ExpectedStart, s.WindowLead),
		}
	}

	result, err := s.Verifier.Verify(ctx, verify.Request{
		UserID:     actorUserID,
		StationID:  stationID,
		Action:     "check-in",
		Payload:    biometricPayload,
		CapturedAt: now,
		ExpectedAt: *sched.ExpectedStart,
	})
	if err != nil {
		return Timesheet{}, err
	}
	if !result.Accepted {
		return Timesheet{}, ErrIdentityRejected
	}

	return s.Store.CreateCheckIn(ctx, scheduleID, now, result.StatusCode)
}

// CheckOut drives CHECKED_IN -> COMPLETED. No window applies; only identity
// verification gates it.
func (s *Service) CheckOut(ctx context.Context, actorUserID, scheduleID, stationID, biometricPayload string) (Timesheet, error) {
	sched, err := s.Schedules.Get(ctx, scheduleID)
	if err != nil {
		return Timesheet{}, err
	}
	if sched.UserID != actorUserID {
		return Timesheet{}, ErrNotScheduleOwner
	}

	existing, err := s.Store.FindBySchedule(ctx, scheduleID)
	if err != nil {
		return Timesheet{}, err
	}
	switch DeriveState(existing) {
	case StateAwaitingCheckIn:
		return Timesheet{}, ErrNotCheckedIn
	case StateCompleted:
		return Timesheet{}, ErrCompleted
	}

	now := s.Clock.Now()
	result, err := s.Verifier.Verify(ctx, verify.Request{
		UserID:     actorUserID,
		StationID:  stationID,
		Action:     "check-out",
		Payload:    biometricPayload,
		CapturedAt: now,
	})
	if err != nil {
		return Timesheet{}, err
	}
	if !result.Accepted {
		return Timesheet{}, ErrIdentityRejected
	}

	return s.Store.SetCheckOut(ctx, existing.ID, now)
}
