package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var sixty = decimal.NewFromInt(60)

// ParseDuration converts a display duration like "1h 30m" or "13m 6s"
// into minutes. Tokens are space separated, each a number with a trailing
// h, m or s unit. Seconds contribute fractionally: "13m 6s" -> 13.1.
func ParseDuration(s string) (decimal.Decimal, error) {
	var minutes decimal.Decimal

	parts := strings.Fields(s)
	if len(parts) == 0 {
		return minutes, fmt.Errorf("empty duration")
	}

	for _, part := range parts {
		unit := part[len(part)-1]
		value, err := decimal.NewFromString(part[:len(part)-1])
		if err != nil {
			return decimal.Zero, fmt.Errorf("bad duration token %q", part)
		}

		switch unit {
		case 'h':
			minutes = minutes.Add(value.Mul(sixty))
		case 'm':
			minutes = minutes.Add(value)
		case 's':
			minutes = minutes.Add(value.Div(sixty))
		default:
			return decimal.Zero, fmt.Errorf("bad duration token %q", part)
		}
	}

	return minutes, nil
}

// ParseAmount converts a display amount like "$1,234.56" into a decimal,
// stripping the currency sign and thousands separators.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad amount %q", s)
	}

	return amount, nil
}

// ParseWorkDate parses the calendar date of a record, "YYYY-MM-DD"
func ParseWorkDate(s string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("bad work date %q", s)
	}

	return date, nil
}

// MonthYear derives the "YYYY-MM" grouping key from a work date
func MonthYear(date time.Time) string {
	return date.Format("2006-01")
}
