package workcal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-hrpay/internal/workcal"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCountWorkingDays(t *testing.T) {
	t.Run("fourteen day span with one holiday", func(t *testing.T) {
		// Mon 2026-03-02 .. Sun 2026-03-15: 14 days, 4 weekend days, 1 holiday.
		holidays := map[string]struct{}{workcal.DateKey(day(2026, 3, 4)): {}}
		got := workcal.CountWorkingDays(day(2026, 3, 2), day(2026, 3, 15), holidays)
		assert.Equal(t, 9.0, got)
	})

	t.Run("nine day span with two weekend days and one holiday", func(t *testing.T) {
		// Thu 2026-01-01 .. Fri 2026-01-09: 9 days, weekend Jan 3-4, New Year holiday.
		holidays := map[string]struct{}{workcal.DateKey(day(2026, 1, 1)): {}}
		got := workcal.CountWorkingDays(day(2026, 1, 1), day(2026, 1, 9), holidays)
		assert.Equal(t, 6.0, got)
	})

	t.Run("inverted range counts zero", func(t *testing.T) {
		assert.Zero(t, workcal.CountWorkingDays(day(2026, 3, 10), day(2026, 3, 2), nil))
	})

	t.Run("single weekday", func(t *testing.T) {
		assert.Equal(t, 1.0, workcal.CountWorkingDays(day(2026, 3, 3), day(2026, 3, 3), nil))
	})

	t.Run("single weekend day", func(t *testing.T) {
		assert.Zero(t, workcal.CountWorkingDays(day(2026, 3, 7), day(2026, 3, 7), nil))
	})

	t.Run("holiday on weekend does not double count", func(t *testing.T) {
		holidays := map[string]struct{}{workcal.DateKey(day(2026, 3, 7)): {}}
		got := workcal.CountWorkingDays(day(2026, 3, 2), day(2026, 3, 8), holidays)
		assert.Equal(t, 5.0, got)
	})
}

type fakeHolidaySource struct {
	holidaySetFn func(ctx context.Context, companyID string, start, end time.Time, employeeID string) (map[string]struct{}, error)
}

func (f *fakeHolidaySource) HolidaySet(ctx context.Context, companyID string, start, end time.Time, employeeID string) (map[string]struct{}, error) {
	if f.holidaySetFn != nil {
		return f.holidaySetFn(ctx, companyID, start, end, employeeID)
	}
	return nil, nil
}

func TestCalculator_Count(t *testing.T) {
	ctx := context.Background()

	t.Run("success resolves holidays for company", func(t *testing.T) {
		src := &fakeHolidaySource{
			holidaySetFn: func(ctx context.Context, companyID string, start, end time.Time, employeeID string) (map[string]struct{}, error) {
				assert.Equal(t, "company-1", companyID)
				assert.Equal(t, "emp-1", employeeID)
				return map[string]struct{}{workcal.DateKey(day(2026, 3, 3)): {}}, nil
			},
		}
		calc := workcal.NewCalculator(src)

		got, err := calc.Count(ctx, day(2026, 3, 2), day(2026, 3, 6), "company-1", "emp-1")
		assert.NoError(t, err)
		assert.Equal(t, 4.0, got)
	})

	t.Run("no company excludes weekends only", func(t *testing.T) {
		src := &fakeHolidaySource{
			holidaySetFn: func(ctx context.Context, companyID string, start, end time.Time, employeeID string) (map[string]struct{}, error) {
				t.Fatal("holiday source must not be called without a company")
				return nil, nil
			},
		}
		calc := workcal.NewCalculator(src)

		got, err := calc.Count(ctx, day(2026, 3, 2), day(2026, 3, 8), "", "")
		assert.NoError(t, err)
		assert.Equal(t, 5.0, got)
	})

	t.Run("negative holiday lookup error", func(t *testing.T) {
		src := &fakeHolidaySource{
			holidaySetFn: func(ctx context.Context, companyID string, start, end time.Time, employeeID string) (map[string]struct{}, error) {
				return nil, errors.New("db error")
			},
		}
		calc := workcal.NewCalculator(src)

		_, err := calc.Count(ctx, day(2026, 3, 2), day(2026, 3, 6), "company-1", "emp-1")
		assert.Error(t, err)
	})
}
