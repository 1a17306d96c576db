package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"worklytics/internal/apperrors"
	"worklytics/internal/handlers/render"
	"worklytics/internal/handlers/userctx"
	"worklytics/internal/logger"
)

const maxUploadBytes = 10 << 20

func handleUploadRecords(recordService recordService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

		// The file comes either as a multipart form field or as the raw body
		var file io.Reader = r.Body
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			formFile, _, err := r.FormFile("file")
			if err != nil {
				render.ServiceError(w, "Missing 'file' form field", http.StatusBadRequest)
				return
			}
			defer formFile.Close() //nolint:errcheck
			file = formFile
		}

		result, err := recordService.ImportCSV(r.Context(), user.ID, file)

		switch {
		case err == nil:
			render.JSON(w, result)
		case errors.Is(err, apperrors.ErrMissingColumns), errors.Is(err, apperrors.ErrUnreadableCSV):
			render.ServiceError(w, err.Error(), http.StatusBadRequest)
		default:
			l.Error("Failed to import records", "error", err, "user", user.Username)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListRecords(recordService recordService, l logger.Logger) http.Handler {
	type recordResponse struct {
		WorkDate string  `json:"work_date"`
		Duration string  `json:"duration"`
		Payout   string  `json:"payout"`
		PayType  string  `json:"pay_type"`
		Status   string  `json:"status"`
		Amount   float64 `json:"amount"`
		Minutes  float64 `json:"minutes"`
		ItemID   *string `json:"item_id,omitempty"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		records, err := recordService.Recent(r.Context(), user.ID, limit)
		if err != nil {
			l.Error("Failed to list records", "error", err, "user", user.Username)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]recordResponse, 0, len(records))
		for _, rec := range records {
			amount, _ := rec.PayoutAmount.Float64()
			minutes, _ := rec.DurationMinutes.Float64()
			response = append(response, recordResponse{
				WorkDate: rec.WorkDate.Format(time.DateOnly),
				Duration: rec.Duration,
				Payout:   rec.Payout,
				PayType:  rec.PayType,
				Status:   rec.Status,
				Amount:   amount,
				Minutes:  minutes,
				ItemID:   rec.ItemID,
			})
		}
		render.JSON(w, response)
	})
}

func handleClearRecords(recordService recordService, l logger.Logger) http.Handler {
	type response struct {
		Deleted int64 `json:"deleted"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		deleted, err := recordService.Clear(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to clear records", "error", err, "user", user.Username)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{Deleted: deleted})
	})
}
