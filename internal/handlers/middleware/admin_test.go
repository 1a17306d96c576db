package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"worklytics/internal/handlers/userctx"
	"worklytics/internal/models"
)

func TestAdminMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("admin area"))
		require.NoError(t, err, "should write response")
	})

	// Serve the admin protected handler with the given user in context (or none)
	do := func(t *testing.T, user *models.User) *http.Response {
		t.Helper()

		middleware := AdminMiddleware()
		wrapped := middleware(handler)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user != nil {
				r = r.WithContext(userctx.New(r.Context(), *user))
			}
			wrapped.ServeHTTP(w, r)
		}))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/admin")
		require.NoError(t, err, "should make request to test server")
		return resp
	}

	t.Run("admin passes", func(t *testing.T) {
		resp := do(t, &models.User{Username: "boss", Role: models.RoleAdmin})
		defer resp.Body.Close() // nolint:errcheck

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "admin area", string(body))
	})

	t.Run("plain user forbidden", func(t *testing.T) {
		resp := do(t, &models.User{Username: "worker", Role: models.RoleUser})
		defer resp.Body.Close() // nolint:errcheck

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		require.JSONEq(t,
			`{
				"error": "service_error",
				"message": "Forbidden"
			}`,
			string(body),
		)
	})

	t.Run("no user unauthorized", func(t *testing.T) {
		resp := do(t, nil)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
