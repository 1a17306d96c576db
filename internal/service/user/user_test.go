package user

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worklytics/internal/apperrors"
	"worklytics/internal/models"
	"worklytics/internal/repository"
	"worklytics/internal/repository/postgres"
	"worklytics/internal/testutil"
)

func Test_UserService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Begin new db transaction and create new UserService
	// Rollback transaction when test stops
	withTx := func(t *testing.T, fn func(s *UserService, storage repository.Storage)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			fn(NewService(nil, storage), storage)
		})
	}

	seedRecord := func(t *testing.T, storage repository.Storage, user models.User) {
		t.Helper()
		_, err := storage.WorkRecord().CreateRecord(t.Context(), models.WorkRecord{
			UserID:          user.ID,
			WorkDate:        time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			Duration:        "30m",
			DurationMinutes: decimal.RequireFromString("30"),
			Payout:          "$10",
			PayoutAmount:    decimal.RequireFromString("10"),
			PayType:         "base",
			Status:          "paid",
			MonthYear:       "2024-03",
		})
		require.NoError(t, err)
	}

	t.Run("create user hashes password", func(t *testing.T) {
		withTx(t, func(s *UserService, storage repository.Storage) {
			user, err := s.CreateUser(t.Context(), "worker", "password", models.RoleUser)

			require.NoError(t, err)
			assert.Equal(t, "worker", user.Username)
			assert.Equal(t, models.RoleUser, user.Role)
			assert.NotEqual(t, "password", user.HashedPassword, "password must never be stored as plain text")
		})
	})

	t.Run("create admin", func(t *testing.T) {
		withTx(t, func(s *UserService, storage repository.Storage) {
			user, err := s.CreateUser(t.Context(), "boss", "password", models.RoleAdmin)

			require.NoError(t, err)
			assert.True(t, user.IsAdmin())
		})
	})

	t.Run("create duplicate", func(t *testing.T) {
		withTx(t, func(s *UserService, storage repository.Storage) {
			_, err := s.CreateUser(t.Context(), "worker", "password", models.RoleUser)
			require.NoError(t, err)

			_, err = s.CreateUser(t.Context(), "worker", "other", models.RoleUser)

			require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
		})
	})

	t.Run("list users", func(t *testing.T) {
		withTx(t, func(s *UserService, storage repository.Storage) {
			_, err := s.CreateUser(t.Context(), "alice", "password", models.RoleUser)
			require.NoError(t, err)
			_, err = s.CreateUser(t.Context(), "bob", "password", models.RoleAdmin)
			require.NoError(t, err)

			users, err := s.ListUsers(t.Context())

			require.NoError(t, err)
			require.Len(t, users, 2)
		})
	})

	t.Run("delete user removes their records", func(t *testing.T) {
		withTx(t, func(s *UserService, storage repository.Storage) {
			user, err := s.CreateUser(t.Context(), "shortlived", "password", models.RoleUser)
			require.NoError(t, err)
			seedRecord(t, storage, user)

			err = s.DeleteUser(t.Context(), "shortlived")

			require.NoError(t, err)

			_, err = storage.User().GetUserByUsername(t.Context(), "shortlived")
			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

			records, err := storage.WorkRecord().ListRecent(t.Context(), user.ID, 10)
			require.NoError(t, err)
			assert.Empty(t, records, "records must not outlive their owner")
		})
	})

	t.Run("delete admin forbidden", func(t *testing.T) {
		withTx(t, func(s *UserService, storage repository.Storage) {
			_, err := s.CreateUser(t.Context(), "boss", "password", models.RoleAdmin)
			require.NoError(t, err)

			err = s.DeleteUser(t.Context(), "boss")

			require.ErrorIs(t, err, apperrors.ErrUserIsAdmin)

			_, err = storage.User().GetUserByUsername(t.Context(), "boss")
			assert.NoError(t, err, "admin account should survive the delete attempt")
		})
	})

	t.Run("delete unknown user", func(t *testing.T) {
		withTx(t, func(s *UserService, storage repository.Storage) {
			err := s.DeleteUser(t.Context(), "ghost")

			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("EnsureAdmin", func(t *testing.T) {
		t.Run("creates admin", func(t *testing.T) {
			withTx(t, func(s *UserService, storage repository.Storage) {
				err := s.EnsureAdmin(t.Context(), "admin", "password")

				require.NoError(t, err)

				user, err := storage.User().GetUserByUsername(t.Context(), "admin")
				require.NoError(t, err)
				assert.True(t, user.IsAdmin())
			})
		})

		t.Run("idempotent", func(t *testing.T) {
			withTx(t, func(s *UserService, storage repository.Storage) {
				require.NoError(t, s.EnsureAdmin(t.Context(), "admin", "password"))

				err := s.EnsureAdmin(t.Context(), "admin", "password")

				require.NoError(t, err, "second run should be a no-op")
			})
		})
	})
}
