package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"worklytics/internal/apperrors"
	"worklytics/internal/models"
)

type WorkRecordRepo struct {
	DB DBTX
}

const createRecord = `-- name: CreateRecord
INSERT INTO work_records (id, user_id, work_date, duration, duration_minutes, payout, payout_amount, pay_type, status, month_year, item_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id, created_at, user_id, work_date, duration, duration_minutes, payout, payout_amount, pay_type, status, month_year, item_id
`

func (r *WorkRecordRepo) CreateRecord(ctx context.Context, record models.WorkRecord) (models.WorkRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createRecord,
		record.ID,
		record.UserID,
		record.WorkDate,
		record.Duration,
		record.DurationMinutes,
		record.Payout,
		record.PayoutAmount,
		record.PayType,
		record.Status,
		record.MonthYear,
		record.ItemID,
	)
	saved, err := pgx.CollectOneRow(rows, rowToRecord)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return saved, apperrors.ErrUserNotFound
		}

		return saved, fmt.Errorf("db error: %w", err)
	}

	return saved, nil
}

const listRecent = `-- name: ListRecent
SELECT id, created_at, user_id, work_date, duration, duration_minutes, payout, payout_amount, pay_type, status, month_year, item_id
FROM work_records
WHERE user_id = $1
ORDER BY work_date DESC, created_at DESC
LIMIT $2
`

func (r *WorkRecordRepo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.WorkRecord, error) {
	rows, _ := r.DB.Query(ctx, listRecent, userID, limit)
	records, err := pgx.CollectRows(rows, rowToRecord)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return records, nil
}

const deleteByUser = `-- name: DeleteByUser
DELETE FROM work_records
WHERE user_id = $1
`

func (r *WorkRecordRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.DB.Exec(ctx, deleteByUser, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return tag.RowsAffected(), nil
}

func rowToRecord(row pgx.CollectableRow) (models.WorkRecord, error) {
	var rec models.WorkRecord
	err := row.Scan(
		&rec.ID,
		&rec.CreatedAt,
		&rec.UserID,
		&rec.WorkDate,
		&rec.Duration,
		&rec.DurationMinutes,
		&rec.Payout,
		&rec.PayoutAmount,
		&rec.PayType,
		&rec.Status,
		&rec.MonthYear,
		&rec.ItemID,
	)
	return rec, err
}
