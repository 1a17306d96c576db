package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"worklytics/internal/models"
	"worklytics/internal/repository"
)

var sixty = decimal.NewFromInt(60)

// Reporting service
// Thin layer over the aggregate queries, plus the derived ratios the
// dashboard shows. Everything is recomputed per request.
type ReportService struct {
	reportRepo repository.ReportRepo
}

func NewService(reportRepo repository.ReportRepo) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// UserSummary returns the user's totals with average earning per task
// and average hourly rate filled in. Ratios are zero when there is
// nothing to divide by.
func (s *ReportService) UserSummary(ctx context.Context, userID uuid.UUID) (models.UserSummary, error) {
	summary, err := s.reportRepo.UserTotals(ctx, userID)
	if err != nil {
		return summary, err
	}

	if summary.Tasks > 0 {
		summary.AveragePerTask = summary.TotalEarnings.Div(decimal.NewFromInt(summary.Tasks))
	}
	summary.HourlyRate = hourlyRate(summary.TotalEarnings, summary.TotalMinutes)

	return summary, nil
}

func (s *ReportService) MonthlyTotals(ctx context.Context, userID uuid.UUID) ([]models.MonthlyTotal, error) {
	return s.reportRepo.MonthlyTotals(ctx, userID)
}

func (s *ReportService) PayTypeTotals(ctx context.Context, userID uuid.UUID) ([]models.CategoryTotal, error) {
	return s.reportRepo.PayTypeTotals(ctx, userID)
}

func (s *ReportService) StatusTotals(ctx context.Context, userID uuid.UUID) ([]models.CategoryTotal, error) {
	return s.reportRepo.StatusTotals(ctx, userID)
}

func (s *ReportService) PlatformMonthlyTotals(ctx context.Context) ([]models.UserMonthlyTotal, error) {
	return s.reportRepo.PlatformMonthlyTotals(ctx)
}

func (s *ReportService) PlatformSummary(ctx context.Context) (models.PlatformSummary, error) {
	return s.reportRepo.PlatformTotals(ctx)
}

// hourlyRate is earnings divided by hours, zero if no time was tracked
func hourlyRate(earnings decimal.Decimal, minutes decimal.Decimal) decimal.Decimal {
	if minutes.IsZero() {
		return decimal.Zero
	}

	return earnings.Div(minutes.Div(sixty))
}
