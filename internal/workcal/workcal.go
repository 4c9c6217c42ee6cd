package workcal

import (
	"context"
	"time"
)

const dateKeyLayout = "2006-01-02"

// DateKey normalizes a date to the map key used by holiday sets.
func DateKey(d time.Time) string {
	return d.Format(dateKeyLayout)
}

// CountWorkingDays counts the days in [start, end] that are neither
// Saturday/Sunday nor present in holidaySet (keyed by DateKey). The count is
// returned as float64 because leave accounting elsewhere deals in fractional
// days. An inverted range counts zero.
func CountWorkingDays(start, end time.Time, holidaySet map[string]struct{}) float64 {
	if start.After(end) {
		return 0
	}

	var days float64
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if _, ok := holidaySet[DateKey(d)]; ok {
			continue
		}
		days++
	}
	return days
}

// HolidaySource resolves the applicable holiday dates for a company over a
// range. Implementations filter union-only holidays by the employee's union
// membership.
type HolidaySource interface {
	HolidaySet(ctx context.Context, companyID string, start, end time.Time, employeeID string) (map[string]struct{}, error)
}

// Calculator binds the pure count to a holiday store. Without a company it
// degrades to a weekend-only calendar.
type Calculator struct {
	holidays HolidaySource
}

func NewCalculator(holidays HolidaySource) *Calculator {
	return &Calculator{holidays: holidays}
}

func (c *Calculator) Count(ctx context.Context, start, end time.Time, companyID, employeeID string) (float64, error) {
	if start.After(end) {
		return 0, nil
	}

	var set map[string]struct{}
	if companyID != "" && c.holidays != nil {
		var err error
		set, err = c.holidays.HolidaySet(ctx, companyID, start, end, employeeID)
		if err != nil {
			return 0, err
		}
	}
	return CountWorkingDays(start, end, set), nil
}
