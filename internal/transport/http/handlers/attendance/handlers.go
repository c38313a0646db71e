package attendancehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rosterd/internal/domain/attendance"
	"rosterd/internal/domain/schedule"
	"rosterd/internal/transport/http/api"
	"rosterd/internal/transport/http/middleware"
)

type Handler struct {
	Service  *attendance.Service
	Stations middleware.StationAuthenticator
}

func NewHandler(service *attendance.Service, stations middleware.StationAuthenticator) *Handler {
	return &Handler{Service: service, Stations: stations}
}

// RegisterRoutes attaches the station-facing action surface; the caller
// mounts it under /schedules next to the planner routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/{scheduleID}/status", h.handleStatus)
	r.With(middleware.RequireStation(h.Stations)).Post("/{scheduleID}/check-in", h.handleCheckIn)
	r.With(middleware.RequireStation(h.Stations)).Post("/{scheduleID}/check-out", h.handleCheckOut)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	status, err := h.Service.Status(r.Context(), user.UserID, chi.URLParam(r, "scheduleID"))
	if err != nil {
		h.failAction(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, status, middleware.GetRequestID(r.Context()))
}

type actionPayload struct {
	BiometricPayload string `json:"biometricPayload"`
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	h.handleAction(w, r, h.Service.CheckIn)
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	h.handleAction(w, r, h.Service.CheckOut)
}

type actionFunc func(ctx context.Context, actorUserID, scheduleID, stationID, biometricPayload string) (attendance.Timesheet, error)

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request, action actionFunc) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	st, ok := middleware.GetStation(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "station_invalid", "station credential missing", middleware.GetRequestID(r.Context()))
		return
	}

	var payload actionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	sheet, err := action(r.Context(), user.UserID, chi.URLParam(r, "scheduleID"), st.ID, payload.BiometricPayload)
	if err != nil {
		h.failAction(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, sheet, middleware.GetRequestID(r.Context()))
}

// failAction maps domain rejections onto the codes terminals react to. The
// window-closed message carries the opening time so the terminal can show it
// instead of a generic failure.
func (h *Handler) failAction(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, schedule.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "schedule_not_found", "schedule not found", requestID)
	case errors.Is(err, attendance.ErrNotScheduleOwner):
		api.Fail(w, http.StatusForbidden, "not_schedule_owner", "schedule belongs to another employee", requestID)
	case errors.Is(err, attendance.ErrWindowClosed):
		message := "check-in window not yet open"
		var windowErr *attendance.WindowClosedError
		if errors.As(err, &windowErr) {
			message = windowErr.Error()
		}
		api.Fail(w, http.StatusConflict, "window_closed", message, requestID)
	case errors.Is(err, attendance.ErrMalformedSchedule):
		api.Fail(w, http.StatusConflict, "malformed_schedule", "check-in unavailable for this shift", requestID)
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		api.Fail(w, http.StatusConflict, "already_checked_in", "already checked in for this schedule", requestID)
	case errors.Is(err, attendance.ErrNotCheckedIn):
		api.Fail(w, http.StatusConflict, "not_checked_in", "not checked in for this schedule", requestID)
	case errors.Is(err, attendance.ErrCompleted):
		api.Fail(w, http.StatusConflict, "shift_completed", "shift already completed", requestID)
	case errors.Is(err, attendance.ErrIdentityRejected):
		api.Fail(w, http.StatusUnauthorized, "identity_rejected", "identity not recognized", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "attendance_action_failed", "attendance action failed", requestID)
	}
}
