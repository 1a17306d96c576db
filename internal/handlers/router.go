package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"

	"worklytics/internal/handlers/middleware"
	"worklytics/internal/logger"
	"worklytics/internal/models"
	"worklytics/internal/service/record"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	recordService recordService,
	reportService reportService,
	userService userService,
	logger logger.Logger,
) http.Handler {
	authMiddleware := middleware.AuthMiddleware(authService)
	adminMiddleware := middleware.AdminMiddleware()

	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	apiuser := http.NewServeMux()

	apiuser.Handle("POST /login", handleLogin(authService, logger))
	apiuser.Handle("POST /register", handleRegister(authService, logger))
	apiuser.Handle("POST /refresh", handleTokenRefresh(authService, logger))

	apiuser.Handle("GET /me", withAuth(handleUserMe()))

	apiuser.Handle("POST /records", withAuth(handleUploadRecords(recordService, logger)))
	apiuser.Handle("GET /records", withAuth(handleListRecords(recordService, logger)))
	apiuser.Handle("DELETE /records", withAuth(handleClearRecords(recordService, logger)))

	apiuser.Handle("GET /reports/summary", withAuth(handleUserSummary(reportService, logger)))
	apiuser.Handle("GET /reports/monthly", withAuth(handleMonthlyReport(reportService, logger)))
	apiuser.Handle("GET /reports/paytype", withAuth(handlePayTypeReport(reportService, logger)))
	apiuser.Handle("GET /reports/status", withAuth(handleStatusReport(reportService, logger)))

	apiadmin := http.NewServeMux()

	apiadmin.Handle("GET /users", handleAdminListUsers(userService, logger))
	apiadmin.Handle("POST /users", handleAdminCreateUser(userService, logger))
	apiadmin.Handle("DELETE /users/{username}", handleAdminDeleteUser(userService, logger))
	apiadmin.Handle("GET /reports/monthly", handleAdminMonthlyReport(reportService, logger))
	apiadmin.Handle("GET /reports/summary", handleAdminSummary(reportService, logger))

	root := http.NewServeMux()
	root.Handle("/api/user/", http.StripPrefix("/api/user", apiuser))
	root.Handle("/api/admin/", http.StripPrefix("/api/admin", chain(apiadmin, authMiddleware, adminMiddleware)))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Register user with username and password
	// Has to return apperrors.ErrUserAlreadyExists if user already exists
	Register(ctx context.Context, username string, password string) (models.TokenPair, error)

	// Login user with username and password
	// Has to return apperrors.ErrInvalidCredentials on unknown user or wrong password
	Login(ctx context.Context, username string, password string) (models.TokenPair, error)

	// Refresh tokens using refresh token
	// If token expired: has to return apperrors.ErrRefreshTokenExpired
	// If token not found: has to return apperrors.ErrRefreshTokenNotFound
	RefreshPair(ctx context.Context, refresh string) (models.TokenPair, error)

	// Set auth tokens (access, refresh) to response
	SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair)

	// Get refresh token from request
	GetRefreshString(r *http.Request) (string, error)

	// Get request and return user if it authenticated or error
	GetUserFromRequest(ctx context.Context, r *http.Request) (models.User, error)
}

type recordService interface {
	ImportCSV(ctx context.Context, userID uuid.UUID, r io.Reader) (record.ImportResult, error)
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.WorkRecord, error)
	Clear(ctx context.Context, userID uuid.UUID) (int64, error)
}

type reportService interface {
	UserSummary(ctx context.Context, userID uuid.UUID) (models.UserSummary, error)
	MonthlyTotals(ctx context.Context, userID uuid.UUID) ([]models.MonthlyTotal, error)
	PayTypeTotals(ctx context.Context, userID uuid.UUID) ([]models.CategoryTotal, error)
	StatusTotals(ctx context.Context, userID uuid.UUID) ([]models.CategoryTotal, error)

	PlatformMonthlyTotals(ctx context.Context) ([]models.UserMonthlyTotal, error)
	PlatformSummary(ctx context.Context) (models.PlatformSummary, error)
}

type userService interface {
	CreateUser(ctx context.Context, username string, password string, role string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, username string) error
}
