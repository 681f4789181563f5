package domain

import (
	"fmt"
	"strings"
	"time"
)

// Recurrence is how often an automatic transaction fires.
type Recurrence string

const (
	RecurrenceDaily   Recurrence = "DAILY"
	RecurrenceWeekly  Recurrence = "WEEKLY"
	RecurrenceMonthly Recurrence = "MONTHLY"
	RecurrenceYearly  Recurrence = "YEARLY"
)

// ParseRecurrence validates a recurrence name, case-insensitively.
func ParseRecurrence(name string) (Recurrence, error) {
	r := Recurrence(strings.ToUpper(name))
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return r, nil
	}
	return "", fmt.Errorf("recurrence '%s' doesn't exist: %w", name, ErrValidation)
}

// Advance moves a date forward by interval units of the recurrence.
func (r Recurrence) Advance(date time.Time, interval int) time.Time {
	switch r {
	case RecurrenceDaily:
		return date.AddDate(0, 0, interval)
	case RecurrenceWeekly:
		return date.AddDate(0, 0, 7*interval)
	case RecurrenceMonthly:
		return addMonths(date, interval)
	case RecurrenceYearly:
		return addMonths(date, 12*interval)
	}
	return date
}

// addMonths clamps the day of month to the target month's length, so
// Jan 31 + 1 month lands on Feb 28/29 instead of normalizing into March
// and skipping a cycle.
func addMonths(date time.Time, months int) time.Time {
	year, month, day := date.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, date.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, date.Location())
}
