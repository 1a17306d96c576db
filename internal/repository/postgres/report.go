package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"worklytics/internal/models"
)

// ReportRepo runs the aggregate queries behind every report view.
// Totals are recomputed on each call, there is no caching layer.
type ReportRepo struct {
	DB DBTX
}

const userTotals = `-- name: UserTotals
SELECT
	COALESCE(SUM(payout_amount), 0),
	COALESCE(SUM(duration_minutes), 0),
	COUNT(DISTINCT work_date),
	COUNT(*)
FROM work_records
WHERE user_id = $1
`

// Raw sums only, derived ratios (avg per task, hourly rate) belong to the report service
func (r *ReportRepo) UserTotals(ctx context.Context, userID uuid.UUID) (models.UserSummary, error) {
	rows, _ := r.DB.Query(ctx, userTotals, userID)
	summary, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.UserSummary, error) {
		var s models.UserSummary
		err := row.Scan(&s.TotalEarnings, &s.TotalMinutes, &s.DaysWorked, &s.Tasks)
		return s, err
	})
	if err != nil {
		return summary, fmt.Errorf("db error: %w", err)
	}

	return summary, nil
}

const monthlyTotals = `-- name: MonthlyTotals
SELECT month_year, SUM(payout_amount), SUM(duration_minutes), COUNT(*)
FROM work_records
WHERE user_id = $1
GROUP BY month_year
ORDER BY month_year
`

func (r *ReportRepo) MonthlyTotals(ctx context.Context, userID uuid.UUID) ([]models.MonthlyTotal, error) {
	rows, _ := r.DB.Query(ctx, monthlyTotals, userID)
	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.MonthlyTotal, error) {
		var t models.MonthlyTotal
		err := row.Scan(&t.MonthYear, &t.Total, &t.Minutes, &t.Tasks)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return totals, nil
}

const payTypeTotals = `-- name: PayTypeTotals
SELECT pay_type, SUM(payout_amount)
FROM work_records
WHERE user_id = $1
GROUP BY pay_type
ORDER BY pay_type
`

func (r *ReportRepo) PayTypeTotals(ctx context.Context, userID uuid.UUID) ([]models.CategoryTotal, error) {
	return r.categoryTotals(ctx, payTypeTotals, userID)
}

const statusTotals = `-- name: StatusTotals
SELECT status, SUM(payout_amount)
FROM work_records
WHERE user_id = $1
GROUP BY status
ORDER BY status
`

func (r *ReportRepo) StatusTotals(ctx context.Context, userID uuid.UUID) ([]models.CategoryTotal, error) {
	return r.categoryTotals(ctx, statusTotals, userID)
}

func (r *ReportRepo) categoryTotals(ctx context.Context, query string, userID uuid.UUID) ([]models.CategoryTotal, error) {
	rows, _ := r.DB.Query(ctx, query, userID)
	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CategoryTotal, error) {
		var t models.CategoryTotal
		err := row.Scan(&t.Name, &t.Total)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return totals, nil
}

const platformMonthlyTotals = `-- name: PlatformMonthlyTotals
SELECT u.username, w.month_year, SUM(w.payout_amount), SUM(w.duration_minutes), COUNT(*)
FROM work_records w
JOIN users u ON u.id = w.user_id
GROUP BY u.username, w.month_year
ORDER BY u.username, w.month_year
`

func (r *ReportRepo) PlatformMonthlyTotals(ctx context.Context) ([]models.UserMonthlyTotal, error) {
	rows, _ := r.DB.Query(ctx, platformMonthlyTotals)
	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.UserMonthlyTotal, error) {
		var t models.UserMonthlyTotal
		err := row.Scan(&t.Username, &t.MonthYear, &t.Total, &t.Minutes, &t.Tasks)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return totals, nil
}

const platformTotals = `-- name: PlatformTotals
SELECT
	COALESCE(SUM(payout_amount), 0),
	COALESCE(SUM(duration_minutes), 0),
	COUNT(DISTINCT user_id)
FROM work_records
`

func (r *ReportRepo) PlatformTotals(ctx context.Context) (models.PlatformSummary, error) {
	rows, _ := r.DB.Query(ctx, platformTotals)
	summary, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.PlatformSummary, error) {
		var s models.PlatformSummary
		err := row.Scan(&s.TotalEarnings, &s.TotalMinutes, &s.ActiveUsers)
		return s, err
	})
	if err != nil {
		return summary, fmt.Errorf("db error: %w", err)
	}

	return summary, nil
}
