package reports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"rosterd/internal/domain/schedule"
)

// Summarizer is the slice of the schedule domain reports depend on.
type Summarizer interface {
	Summarize(ctx context.Context, userID string, from, to time.Time) (schedule.PeriodSummary, error)
	ListRange(ctx context.Context, from, to time.Time, userID string) ([]schedule.WorkSchedule, error)
}

type Service struct {
	Schedules Summarizer
}

func NewService(schedules Summarizer) *Service {
	return &Service{Schedules: schedules}
}

// HoursReportPDF renders one employee's period summary and shift list as a
// PDF for the back office.
func (s *Service) HoursReportPDF(ctx context.Context, userID string, from, to time.Time) ([]byte, error) {
	summary, err := s.Schedules.Summarize(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	shifts, err := s.Schedules.ListRange(ctx, from, to, userID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Worked Hours Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", userID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total shifts: %d", summary.TotalShifts))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total hours: %.2f", summary.TotalHours))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Shifts")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, shift := range shifts {
		line := fmt.Sprintf("%s  %s", shift.Date.Format("2006-01-02"), shift.ShiftCode)
		if shift.ExpectedStart != nil && shift.ExpectedEnd != nil {
			line += fmt.Sprintf("  %s-%s (%.2fh)",
				shift.ExpectedStart.Format("15:04"),
				shift.ExpectedEnd.Format("15:04"),
				schedule.ShiftDuration(*shift.ExpectedStart, *shift.ExpectedEnd).Hours())
		}
		pdf.Cell(0, 7, line)
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
