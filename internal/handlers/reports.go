package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"worklytics/internal/handlers/render"
	"worklytics/internal/handlers/userctx"
	"worklytics/internal/logger"
	"worklytics/internal/models"
)

func handleUserSummary(reportService reportService, l logger.Logger) http.Handler {
	type response struct {
		TotalEarnings  float64 `json:"total_earnings"`
		TotalMinutes   float64 `json:"total_minutes"`
		DaysWorked     int64   `json:"days_worked"`
		Tasks          int64   `json:"tasks"`
		AveragePerTask float64 `json:"average_per_task"`
		HourlyRate     float64 `json:"hourly_rate"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		summary, err := reportService.UserSummary(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to get summary", "error", err, "user", user.Username)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		earnings, _ := summary.TotalEarnings.Float64()
		minutes, _ := summary.TotalMinutes.Float64()
		avg, _ := summary.AveragePerTask.Float64()
		rate, _ := summary.HourlyRate.Float64()
		render.JSON(w, response{
			TotalEarnings:  earnings,
			TotalMinutes:   minutes,
			DaysWorked:     summary.DaysWorked,
			Tasks:          summary.Tasks,
			AveragePerTask: avg,
			HourlyRate:     rate,
		})
	})
}

func handleMonthlyReport(reportService reportService, l logger.Logger) http.Handler {
	type monthly struct {
		MonthYear string  `json:"month_year"`
		Total     float64 `json:"total"`
		Minutes   float64 `json:"minutes"`
		Tasks     int64   `json:"tasks"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		totals, err := reportService.MonthlyTotals(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to get monthly report", "error", err, "user", user.Username)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]monthly, 0, len(totals))
		for _, t := range totals {
			total, _ := t.Total.Float64()
			minutes, _ := t.Minutes.Float64()
			response = append(response, monthly{
				MonthYear: t.MonthYear,
				Total:     total,
				Minutes:   minutes,
				Tasks:     t.Tasks,
			})
		}
		render.JSON(w, response)
	})
}

func handlePayTypeReport(reportService reportService, l logger.Logger) http.Handler {
	return handleCategoryReport(reportService.PayTypeTotals, "pay_type", l)
}

func handleStatusReport(reportService reportService, l logger.Logger) http.Handler {
	return handleCategoryReport(reportService.StatusTotals, "status", l)
}

// Shared shape of the pay type and status breakdowns
func handleCategoryReport(
	totalsFn func(ctx context.Context, userID uuid.UUID) ([]models.CategoryTotal, error),
	nameField string,
	l logger.Logger,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		totals, err := totalsFn(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to get category report", "error", err, "user", user.Username)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]map[string]any, 0, len(totals))
		for _, t := range totals {
			total, _ := t.Total.Float64()
			response = append(response, map[string]any{
				nameField: t.Name,
				"total":   total,
			})
		}
		render.JSON(w, response)
	})
}
