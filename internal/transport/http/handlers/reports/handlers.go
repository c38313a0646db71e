package reportshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rosterd/internal/auth"
	"rosterd/internal/domain/reports"
	"rosterd/internal/transport/http/api"
	"rosterd/internal/transport/http/middleware"
	"rosterd/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleManager)).Get("/hours.pdf", h.handleHoursPDF)
	})
}

func (h *Handler) handleHoursPDF(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	from, _ := v.Date("from", r.URL.Query().Get("from"))
	to, _ := v.Date("to", r.URL.Query().Get("to"))
	v.DateOrder("from", from, "to", to)
	userID := r.URL.Query().Get("userId")
	v.Required("userId", userID, "employee is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	pdf, err := h.Service.HoursReportPDF(r.Context(), userID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render hours report", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="hours-report.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
