package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkRecord is one logged unit of work. Duration and Payout keep the
// uploaded display strings, DurationMinutes and PayoutAmount the derived
// numeric values, MonthYear the "YYYY-MM" grouping key.
// Records are immutable after insert and deleted only in bulk.
type WorkRecord struct {
	ID              uuid.UUID
	CreatedAt       time.Time
	UserID          uuid.UUID
	WorkDate        time.Time
	Duration        string
	DurationMinutes decimal.Decimal
	Payout          string
	PayoutAmount    decimal.Decimal
	PayType         string
	Status          string
	MonthYear       string
	ItemID          *string // optional external id, nil if the upload had none
}
