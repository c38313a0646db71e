package schedulehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rosterd/internal/auth"
	"rosterd/internal/domain/schedule"
	"rosterd/internal/transport/http/api"
	"rosterd/internal/transport/http/middleware"
	"rosterd/internal/transport/http/shared"
)

type Handler struct {
	Service *schedule.Service
	MaxDays int
}

func NewHandler(service *schedule.Service, maxDays int) *Handler {
	return &Handler{Service: service, MaxDays: maxDays}
}

// RegisterRoutes attaches the planner surface; the caller mounts it under
// /schedules alongside the attendance action routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/summary", h.handleSummary)
	r.With(middleware.RequireRole(auth.RoleManager)).Post("/", h.handleCreate)
	r.With(middleware.RequireRole(auth.RoleManager)).Post("/bulk", h.handleCreateBulk)
	r.With(middleware.RequireRole(auth.RoleManager)).Post("/clone", h.handleClone)
	r.With(middleware.RequireRole(auth.RoleManager)).Put("/{scheduleID}", h.handleUpdate)
	r.With(middleware.RequireRole(auth.RoleManager)).Delete("/{scheduleID}", h.handleDelete)
}

type schedulePayload struct {
	UserID        string `json:"userId"`
	Date          string `json:"date"`
	ShiftCode     string `json:"shiftCode"`
	ExpectedStart string `json:"expectedStart"`
	ExpectedEnd   string `json:"expectedEnd"`
}

func (h *Handler) draftFromPayload(payload schedulePayload, v *shared.Validator) schedule.Draft {
	v.Required("userId", payload.UserID, "employee is required")
	v.Enum("shiftCode", payload.ShiftCode, schedule.ShiftCodes, "must be one of the known shift codes")
	date, _ := v.Date("date", payload.Date)
	start, _ := v.Timestamp("expectedStart", payload.ExpectedStart)
	end, _ := v.Timestamp("expectedEnd", payload.ExpectedEnd)

	return schedule.Draft{
		UserID:        payload.UserID,
		Date:          date,
		ShiftCode:     payload.ShiftCode,
		ExpectedStart: start,
		ExpectedEnd:   end,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	from, _ := v.Date("from", r.URL.Query().Get("from"))
	to, _ := v.Date("to", r.URL.Query().Get("to"))
	v.DateOrder("from", from, "to", to)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	if h.MaxDays > 0 && to.Sub(from) > time.Duration(h.MaxDays)*24*time.Hour {
		api.Fail(w, http.StatusBadRequest, "range_too_wide", "date range exceeds the allowed span", middleware.GetRequestID(r.Context()))
		return
	}

	userID := r.URL.Query().Get("userId")
	// Employees only ever see their own roster.
	if user.Role != auth.RoleManager {
		userID = user.UserID
	}

	rows, err := h.Service.ListRange(r.Context(), from, to, userID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "schedule_list_failed", "failed to list schedules", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload schedulePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	draft := h.draftFromPayload(payload, v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.Create(r.Context(), draft)
	if err != nil {
		h.failCreate(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateBulk(w http.ResponseWriter, r *http.Request) {
	var payloads []schedulePayload
	if err := json.NewDecoder(r.Body).Decode(&payloads); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	drafts := make([]schedule.Draft, 0, len(payloads))
	for _, payload := range payloads {
		drafts = append(drafts, h.draftFromPayload(payload, v))
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.CreateBulk(r.Context(), drafts)
	if err != nil {
		h.failCreate(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, result, middleware.GetRequestID(r.Context()))
}

type clonePayload struct {
	Date      string `json:"date"`
	ShiftCode string `json:"shiftCode"`
}

func (h *Handler) handleClone(w http.ResponseWriter, r *http.Request) {
	var payload clonePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	date, _ := v.Date("date", payload.Date)
	v.Enum("shiftCode", payload.ShiftCode, schedule.ShiftCodes, "must be one of the known shift codes")
	v.Required("shiftCode", payload.ShiftCode, "shift code is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.CloneDay(r.Context(), shared.DayOf(date), payload.ShiftCode)
	if err != nil {
		h.failCreate(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

type updatePayload struct {
	Date          *string `json:"date"`
	ShiftCode     *string `json:"shiftCode"`
	ExpectedStart *string `json:"expectedStart"`
	ExpectedEnd   *string `json:"expectedEnd"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleID")

	var payload updatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	update := schedule.Update{ShiftCode: payload.ShiftCode}
	if payload.Date != nil {
		if date, ok := v.Date("date", *payload.Date); ok {
			update.Date = &date
		}
	}
	// An explicit empty string strips the stored time; an absent field
	// leaves it unchanged.
	if payload.ExpectedStart != nil {
		if *payload.ExpectedStart == "" {
			update.ClearExpectedStart = true
		} else {
			update.ExpectedStart, _ = v.Timestamp("expectedStart", *payload.ExpectedStart)
		}
	}
	if payload.ExpectedEnd != nil {
		if *payload.ExpectedEnd == "" {
			update.ClearExpectedEnd = true
		} else {
			update.ExpectedEnd, _ = v.Timestamp("expectedEnd", *payload.ExpectedEnd)
		}
	}
	if payload.ShiftCode != nil {
		v.Enum("shiftCode", *payload.ShiftCode, schedule.ShiftCodes, "must be one of the known shift codes")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	if err := h.Service.Update(r.Context(), scheduleID, update); err != nil {
		switch {
		case errors.Is(err, schedule.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "schedule_not_found", "schedule not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, schedule.ErrDuplicate):
			api.Fail(w, http.StatusConflict, "schedule_duplicate", "schedule already exists for employee, date and shift", middleware.GetRequestID(r.Context()))
		case errors.Is(err, schedule.ErrInvalidShiftCode):
			api.Fail(w, http.StatusBadRequest, "invalid_shift_code", "unknown shift code", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "schedule_update_failed", "failed to update schedule", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, map[string]string{"id": scheduleID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleID")
	if err := h.Service.Delete(r.Context(), scheduleID); err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "schedule_not_found", "schedule not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "schedule_delete_failed", "failed to delete schedule", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"id": scheduleID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	from, _ := v.Date("from", r.URL.Query().Get("from"))
	to, _ := v.Date("to", r.URL.Query().Get("to"))
	v.DateOrder("from", from, "to", to)

	userID := r.URL.Query().Get("userId")
	if user.Role != auth.RoleManager {
		userID = user.UserID
	}
	v.Required("userId", userID, "employee is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	summary, err := h.Service.Summarize(r.Context(), userID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "summary_failed", "failed to compute summary", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failCreate(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, schedule.ErrDuplicate):
		api.Fail(w, http.StatusConflict, "schedule_duplicate", "schedule already exists for employee, date and shift", requestID)
	case errors.Is(err, schedule.ErrInvalidShiftCode):
		api.Fail(w, http.StatusBadRequest, "invalid_shift_code", "unknown shift code", requestID)
	case errors.Is(err, schedule.ErrMissingDate):
		api.Fail(w, http.StatusBadRequest, "missing_date", "date is required", requestID)
	case errors.Is(err, schedule.ErrInvalidTimes):
		api.Fail(w, http.StatusBadRequest, "invalid_times", "expected start/end must be well-formed timestamps", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "schedule_write_failed", "failed to write schedule", requestID)
	}
}
