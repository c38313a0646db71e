package stationhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rosterd/internal/auth"
	"rosterd/internal/domain/station"
	"rosterd/internal/transport/http/api"
	"rosterd/internal/transport/http/middleware"
	"rosterd/internal/transport/http/shared"
)

type Handler struct {
	Service *station.Service
}

func NewHandler(service *station.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/stations", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleManager)).Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleManager)).Post("/register", h.handleRegister)
		r.With(middleware.RequireRole(auth.RoleManager)).Delete("/{stationID}", h.handleRevoke)
	})
}

type registerPayload struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "station name is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	registration, err := h.Service.Register(r.Context(), payload.Name, payload.Location)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "station_register_failed", "failed to register station", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, registration, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	stations, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "station_list_failed", "failed to list stations", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, stations, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	stationID := chi.URLParam(r, "stationID")
	if err := h.Service.Revoke(r.Context(), stationID); err != nil {
		if errors.Is(err, station.ErrInvalid) {
			api.Fail(w, http.StatusNotFound, "station_not_found", "station not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "station_revoke_failed", "failed to revoke station", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"id": stationID}, middleware.GetRequestID(r.Context()))
}
