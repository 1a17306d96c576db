package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserIsAdmin        = errors.New("admin users can't be deleted")
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenIsUsed   = errors.New("refresh token is used")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")

	ErrMissingColumns = errors.New("csv header misses required columns")
	ErrUnreadableCSV  = errors.New("csv file can't be read")
)
