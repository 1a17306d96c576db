package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"worklytics/internal/models"
)

// Storage bundles all repositories over one database handle
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	WorkRecord() WorkRecordRepo
	Report() ReportRepo

	// Run fn with a Storage bound to a single transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with username exists already has to return error apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, hashedPassword string, role string) (models.User, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// List all users ordered by creation time
	ListUsers(ctx context.Context) ([]models.User, error)

	// Delete user by username
	// If user not found must return apperrors.ErrUserNotFound
	DeleteUser(ctx context.Context, username string) error
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	// Save token in repository
	Save(ctx context.Context, token models.RefreshToken) error

	// Return the token if it exists in the database
	// Returns result even if the token expired or is used already
	Get(ctx context.Context, tokenString string) (models.RefreshToken, error)

	// Mark token as used
	// If the token is already used, must not overwrite the existing 'usedAt'
	// and must return apperrors.ErrRefreshTokenIsUsed
	MarkUsed(ctx context.Context, tokenString string) (usedAt time.Time, err error)
}

// WorkRecord repository interface
type WorkRecordRepo interface {
	// Insert a record as is, derived fields included
	CreateRecord(ctx context.Context, record models.WorkRecord) (models.WorkRecord, error)

	// User's records ordered by work date, newest first
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.WorkRecord, error)

	// Bulk delete all records of the user, returns number of deleted rows
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Report repository interface
// Every method recomputes its aggregate with a single query, nothing is cached
type ReportRepo interface {
	UserTotals(ctx context.Context, userID uuid.UUID) (models.UserSummary, error)
	MonthlyTotals(ctx context.Context, userID uuid.UUID) ([]models.MonthlyTotal, error)
	PayTypeTotals(ctx context.Context, userID uuid.UUID) ([]models.CategoryTotal, error)
	StatusTotals(ctx context.Context, userID uuid.UUID) ([]models.CategoryTotal, error)

	PlatformMonthlyTotals(ctx context.Context) ([]models.UserMonthlyTotal, error)
	PlatformTotals(ctx context.Context) (models.PlatformSummary, error)
}
