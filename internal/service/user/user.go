package user

import (
	"context"
	"errors"
	"fmt"

	"worklytics/internal/apperrors"
	"worklytics/internal/models"
	"worklytics/internal/repository"
	"worklytics/internal/service/auth"
)

// User management service, the backend of the admin panel
type UserService struct {
	hasher  auth.PasswordHasher
	storage repository.Storage
}

func NewService(hasher auth.PasswordHasher, storage repository.Storage) *UserService {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}

	return &UserService{
		hasher:  hasher,
		storage: storage,
	}
}

// Create user with explicit role
// Returns apperrors.ErrUserAlreadyExists if the username is taken
func (s *UserService) CreateUser(ctx context.Context, username string, password string, role string) (models.User, error) {
	var user models.User

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err = s.storage.User().CreateUser(ctx, username, hash, role)
	if err != nil {
		return user, err
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.storage.User().ListUsers(ctx)
}

// Delete user together with their work records
// Admin accounts can't be deleted this way
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	return s.storage.InTx(ctx, func(st repository.Storage) error {
		user, err := st.User().GetUserByUsername(ctx, username)
		if err != nil {
			return err
		}

		if user.IsAdmin() {
			return apperrors.ErrUserIsAdmin
		}

		// Records go first, the same order the dashboard always used
		if _, err := st.WorkRecord().DeleteByUser(ctx, user.ID); err != nil {
			return err
		}

		return st.User().DeleteUser(ctx, username)
	})
}

// Ensure an admin account exists, used to seed dev environments
// Does nothing if the username is taken already
func (s *UserService) EnsureAdmin(ctx context.Context, username string, password string) error {
	_, err := s.CreateUser(ctx, username, password, models.RoleAdmin)
	if errors.Is(err, apperrors.ErrUserAlreadyExists) {
		return nil
	}

	return err
}
