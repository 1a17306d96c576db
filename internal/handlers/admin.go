package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"worklytics/internal/apperrors"
	"worklytics/internal/handlers/render"
	"worklytics/internal/logger"
)

func handleAdminListUsers(userService userService, l logger.Logger) http.Handler {
	type userResponse struct {
		ID        uuid.UUID `json:"id"`
		Username  string    `json:"username"`
		Role      string    `json:"role"`
		CreatedAt time.Time `json:"created_at"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		users, err := userService.ListUsers(r.Context())
		if err != nil {
			l.Error("Failed to list users", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]userResponse, 0, len(users))
		for _, u := range users {
			response = append(response, userResponse{
				ID:        u.ID,
				Username:  u.Username,
				Role:      u.Role,
				CreatedAt: u.CreatedAt,
			})
		}
		render.JSON(w, response)
	})
}

func handleAdminCreateUser(userService userService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required,min=2,max=50"`
		Password string `json:"password" validate:"required,min=8"`
		Role     string `json:"role" validate:"required,oneof=user admin"`
	}
	type response struct {
		ID       uuid.UUID `json:"id"`
		Username string    `json:"username"`
		Role     string    `json:"role"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, err := userService.CreateUser(r.Context(), data.Username, data.Password, data.Role)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserAlreadyExists):
				render.ServiceError(w, "User already exists", http.StatusConflict)
			default:
				l.Error("Failed to create user", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSONWithStatus(w, response{ID: user.ID, Username: user.Username, Role: user.Role}, http.StatusCreated)
	})
}

func handleAdminDeleteUser(userService userService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := r.PathValue("username")

		err := userService.DeleteUser(r.Context(), username)

		switch {
		case err == nil:
			render.JSON(w, response{Message: "User deleted successfully"})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrUserIsAdmin):
			render.ServiceError(w, "Admin users can't be deleted", http.StatusForbidden)
		default:
			l.Error("Failed to delete user", "error", err, "username", username)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleAdminMonthlyReport(reportService reportService, l logger.Logger) http.Handler {
	type monthly struct {
		Username  string  `json:"username"`
		MonthYear string  `json:"month_year"`
		Total     float64 `json:"total"`
		Minutes   float64 `json:"minutes"`
		Tasks     int64   `json:"tasks"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		totals, err := reportService.PlatformMonthlyTotals(r.Context())
		if err != nil {
			l.Error("Failed to get platform monthly report", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]monthly, 0, len(totals))
		for _, t := range totals {
			total, _ := t.Total.Float64()
			minutes, _ := t.Minutes.Float64()
			response = append(response, monthly{
				Username:  t.Username,
				MonthYear: t.MonthYear,
				Total:     total,
				Minutes:   minutes,
				Tasks:     t.Tasks,
			})
		}
		render.JSON(w, response)
	})
}

func handleAdminSummary(reportService reportService, l logger.Logger) http.Handler {
	type response struct {
		TotalEarnings float64 `json:"total_earnings"`
		TotalMinutes  float64 `json:"total_minutes"`
		ActiveUsers   int64   `json:"active_users"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		summary, err := reportService.PlatformSummary(r.Context())
		if err != nil {
			l.Error("Failed to get platform summary", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		earnings, _ := summary.TotalEarnings.Float64()
		minutes, _ := summary.TotalMinutes.Float64()
		render.JSON(w, response{
			TotalEarnings: earnings,
			TotalMinutes:  minutes,
			ActiveUsers:   summary.ActiveUsers,
		})
	})
}
