package models

import (
	"github.com/shopspring/decimal"
)

// UserSummary aggregates a single user's work records.
type UserSummary struct {
	TotalEarnings  decimal.Decimal
	TotalMinutes   decimal.Decimal
	DaysWorked     int64
	Tasks          int64
	AveragePerTask decimal.Decimal
	HourlyRate     decimal.Decimal
}

// MonthlyTotal is one "YYYY-MM" bucket of a user's earnings.
type MonthlyTotal struct {
	MonthYear string
	Total     decimal.Decimal
	Minutes   decimal.Decimal
	Tasks     int64
}

// CategoryTotal is earnings grouped by pay type or by status.
type CategoryTotal struct {
	Name  string
	Total decimal.Decimal
}

// UserMonthlyTotal is one row of the platform wide month-by-user pivot.
type UserMonthlyTotal struct {
	Username  string
	MonthYear string
	Total     decimal.Decimal
	Minutes   decimal.Decimal
	Tasks     int64
}

type PlatformSummary struct {
	TotalEarnings decimal.Decimal
	TotalMinutes  decimal.Decimal
	ActiveUsers   int64
}
