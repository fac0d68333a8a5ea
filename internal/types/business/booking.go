package business

import (
	"fmt"
	"time"
)

// MonthKey identifies a calendar month (year + month, no day).
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthKeyOf truncates a timestamp to its calendar month.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// String renders the key as YYYY-MM.
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Before reports whether k is an earlier month than other.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// Booking is one transaction row from the dataset.
type Booking struct {
	UserID      string
	Email       string
	Revenue     float64
	BookingDate time.Time
	Month       MonthKey
}
