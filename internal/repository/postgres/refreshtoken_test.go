package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worklytics/internal/apperrors"
	"worklytics/internal/models"
	"worklytics/internal/testutil"
)

func mustParseTime(value string) time.Time {
	dt, err := time.Parse("2006-01-02 15:04:05Z07:00", value)
	if err != nil {
		panic(err)
	}
	return dt
}

func Test_RefreshTokenRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Tokens reference users, so every subtest creates its owner first
	makeToken := func(t *testing.T, tx pgx.Tx) models.RefreshToken {
		t.Helper()
		user, err := (&UserRepo{DB: tx}).CreateUser(t.Context(), "tokenowner", "hash", models.RoleUser)
		require.NoError(t, err)

		return models.RefreshToken{
			ID:        uuid.New(),
			UserID:    user.ID,
			Token:     "secret-token",
			CreatedAt: mustParseTime("2024-01-01 19:00:01Z"),
			ExpiresAt: mustParseTime("2200-01-01 03:00:02Z"),
			UsedAt:    nil,
		}
	}

	t.Run("save token ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := makeToken(t, tx)

			err := repo.Save(t.Context(), token)

			require.NoError(t, err)
		})
	})

	t.Run("get token ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := makeToken(t, tx)
			require.NoError(t, repo.Save(t.Context(), token))

			got, err := repo.Get(t.Context(), token.Token)

			require.NoError(t, err)
			require.Equal(t, token.Token, got.Token)
			require.Equal(t, token.UserID, got.UserID)
			require.WithinDuration(t, token.CreatedAt, got.CreatedAt, 0)
			require.WithinDuration(t, token.ExpiresAt, got.ExpiresAt, 0)
			require.Nil(t, got.UsedAt)
		})
	})

	t.Run("get not existed token", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}

			_, err := repo.Get(t.Context(), "never-saved")

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
		})
	})

	t.Run("mark token used", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := makeToken(t, tx)
			require.NoError(t, repo.Save(t.Context(), token))

			usedAt, err := repo.MarkUsed(t.Context(), token.Token)

			require.NoError(t, err, "No error must be happen when marking used existed token")
			require.WithinDuration(t, time.Now(), usedAt, 50*time.Millisecond, "should marked as used close to now() enough")
		})
	})

	t.Run("mark used survives the database round trip", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := makeToken(t, tx)
			require.NoError(t, repo.Save(t.Context(), token))

			// The first use must be reported as fresh even though the stored
			// timestamp loses the nanoseconds of time.Now()
			usedAt, err := repo.MarkUsed(t.Context(), token.Token)
			require.NoError(t, err, "first use must not be mistaken for a reused token")

			got, err := repo.Get(t.Context(), token.Token)
			require.NoError(t, err)
			require.NotNil(t, got.UsedAt)
			assert.True(t, got.UsedAt.Equal(usedAt), "stored used_at %s should match returned %s", got.UsedAt, usedAt)
		})
	})

	t.Run("mark used not existed token", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}

			_, err := repo.MarkUsed(t.Context(), "never-saved")

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
		})
	})

	t.Run("mark used is idempotent", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			token := makeToken(t, tx)
			require.NoError(t, repo.Save(t.Context(), token))

			usedFirst, err := repo.MarkUsed(t.Context(), token.Token)
			require.NoError(t, err, "No error should happen on mark used")

			time.Sleep(100 * time.Millisecond)
			usedSecond, err := repo.MarkUsed(t.Context(), token.Token)
			require.Error(t, err, "Mark used already used token has to return error")
			require.ErrorIs(t, err, apperrors.ErrRefreshTokenIsUsed, "should return ErrRefreshTokenIsUsed error")

			assert.WithinDuration(t, usedFirst, usedSecond, 0, "should return same time for already used token")
		})
	})
}
