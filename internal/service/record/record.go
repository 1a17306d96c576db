package record

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"worklytics/internal/apperrors"
	"worklytics/internal/models"
	"worklytics/internal/repository"
)

// Required CSV columns, matched case sensitively against the header.
// The optional itemID column is stored when present.
var requiredColumns = []string{"workDate", "duration", "payout", "payType", "status"}

const itemIDColumn = "itemID"

// RowError reports one rejected CSV row. Line counts from 1 and includes
// the header, matching what an editor shows for the uploaded file.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportResult is the outcome of one upload: how many rows were committed
// and which ones were skipped. Saved rows commit even when others fail.
type ImportResult struct {
	Saved    int        `json:"saved"`
	Rejected []RowError `json:"rejected"`
}

// Work record service
// Ingests uploaded CSV files into work records and owns the bulk
// operations of their lifecycle
type RecordService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *RecordService {
	return &RecordService{storage: storage}
}

const defaultRecentLimit = 5

// Recent returns the user's latest records, newest work date first
func (s *RecordService) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.WorkRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	return s.storage.WorkRecord().ListRecent(ctx, userID, limit)
}

// Clear removes all of the user's records, returns how many were deleted
func (s *RecordService) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.storage.WorkRecord().DeleteByUser(ctx, userID)
}

// ImportCSV reads the upload for the given user.
// A header that can't be read fails the whole upload with
// apperrors.ErrUnreadableCSV, one missing required columns with
// apperrors.ErrMissingColumns. Malformed rows are skipped and reported
// while the rest is committed in one transaction. The owner is always
// the authenticated user, never the file.
func (s *RecordService) ImportCSV(ctx context.Context, userID uuid.UUID, r io.Reader) (ImportResult, error) {
	var result ImportResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // row length is validated per row

	// An empty upload or a broken header is the uploader's problem, not ours
	header, err := reader.Read()
	if err != nil {
		return result, fmt.Errorf("%w: %v", apperrors.ErrUnreadableCSV, err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return result, err
	}

	var records []models.WorkRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Rejected = append(result.Rejected, RowError{Line: line, Reason: err.Error()})
			continue
		}

		record, err := rowToRecord(columns, row, userID)
		if err != nil {
			result.Rejected = append(result.Rejected, RowError{Line: line, Reason: err.Error()})
			continue
		}

		records = append(records, record)
	}

	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		for _, record := range records {
			if _, err := st.WorkRecord().CreateRecord(ctx, record); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("can't save records. Err: %w", err)
	}

	result.Saved = len(records)
	return result, nil
}

// mapColumns resolves column name to index and checks all required ones exist
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrMissingColumns, strings.Join(missing, ", "))
	}

	return columns, nil
}

func rowToRecord(columns map[string]int, row []string, userID uuid.UUID) (models.WorkRecord, error) {
	var record models.WorkRecord

	field := func(name string) (string, error) {
		i := columns[name]
		if i >= len(row) {
			return "", fmt.Errorf("row too short, no %q field", name)
		}
		return row[i], nil
	}

	var errs []error
	collect := func(name string) string {
		value, err := field(name)
		if err != nil {
			errs = append(errs, err)
		}
		return value
	}

	rawDate := collect("workDate")
	record.Duration = collect("duration")
	record.Payout = collect("payout")
	record.PayType = collect("payType")
	record.Status = collect("status")
	if len(errs) > 0 {
		return record, errors.Join(errs...)
	}

	workDate, err := ParseWorkDate(rawDate)
	if err != nil {
		return record, err
	}

	minutes, err := ParseDuration(record.Duration)
	if err != nil {
		return record, err
	}

	amount, err := ParseAmount(record.Payout)
	if err != nil {
		return record, err
	}

	record.ID = uuid.New()
	record.UserID = userID
	record.WorkDate = workDate
	record.DurationMinutes = minutes
	record.PayoutAmount = amount
	record.MonthYear = MonthYear(workDate)

	if i, ok := columns[itemIDColumn]; ok && i < len(row) && row[i] != "" {
		itemID := row[i]
		record.ItemID = &itemID
	}

	return record, nil
}
