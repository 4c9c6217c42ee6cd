package timeclock_test

import (
	"testing"
	"time"

	"go-hrpay/internal/timeclock"

	"github.com/stretchr/testify/assert"
)

var (
	monday   = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	saturday = time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	sunday   = time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
)

func TestComputeHours_MissingPunches(t *testing.T) {
	t.Run("no check-in", func(t *testing.T) {
		got := timeclock.ComputeHours(timeclock.DayInput{
			CheckOut: at(17, 0, 0),
			WorkDate: monday,
		})
		assert.Equal(t, timeclock.HoursResult{}, got)
	})

	t.Run("no check-out", func(t *testing.T) {
		got := timeclock.ComputeHours(timeclock.DayInput{
			CheckIn:  at(8, 0, 0),
			WorkDate: monday,
		})
		assert.Equal(t, timeclock.HoursResult{}, got)
	})
}

func TestComputeHours_NormalWeekday(t *testing.T) {
	t.Run("regular plus half hour overtime", func(t *testing.T) {
		// Schedule 08:00-16:00, rounded punches 07:45 and 16:30.
		got := timeclock.ComputeHours(timeclock.DayInput{
			CheckIn:       at(7, 45, 0),
			CheckOut:      at(16, 30, 0),
			ScheduleStart: at(8, 0, 0),
			ScheduleEnd:   at(16, 0, 0),
			WorkDate:      monday,
		})
		assert.InDelta(t, 8.0, got.Regular, 1e-9)
		assert.InDelta(t, 0.5, got.Overtime, 1e-9)
		assert.Zero(t, got.WeekendOvertime)
	})

	t.Run("early arrival earns nothing before schedule start", func(t *testing.T) {
		got := timeclock.ComputeHours(timeclock.DayInput{
			CheckIn:       at(6, 0, 0),
			CheckOut:      at(16, 0, 0),
			ScheduleStart: at(8, 0, 0),
			ScheduleEnd:   at(16, 0, 0),
			WorkDate:      monday,
		})
		assert.InDelta(t, 8.0, got.Regular, 1e-9)
		assert.Zero(t, got.Overtime)
	})

	t.Run("short overtime discarded below floor", func(t *testing.T) {
		got := timeclock.ComputeHours(timeclock.DayInput{
			CheckIn:       at(8, 0, 0),
			CheckOut:      at(16, 15, 0),
			ScheduleStart: at(8, 0, 0),
			ScheduleEnd:   at(16, 0, 0),
			WorkDate:      monday,
		})
		assert.InDelta(t, 8.0, got.Regular, 1e-9)
		assert.Zero(t, got.Overtime)
	})

	t.Run("short overtime kept with count_all_ot", func(t *testing.T) {
		got := timeclock.ComputeHours(timeclock.DayInput{
			CheckIn:       at(8, 0, 0),
			CheckOut:      at(16, 15, 0),
			ScheduleStart: at(8, 0, 0),
			ScheduleEnd:   at(16, 0, 0),
			WorkDate:      monday,
			CountAllOT:    true,
		})
		assert.InDelta(t, 0.25, got.Overtime, 1e-9)
	})

	t.Run("late arrival shortens regular", func(t *testing.T) {
		got := timeclock.ComputeHours(timeclock.DayInput{
			CheckIn:       at(9, 30, 0),
			CheckOut:      at(16, 0, 0),
			ScheduleStart: at(8, 0, 0),
			ScheduleEnd:   at(16, 0, 0),
			WorkDate:      monday,
		})
		assert.InDelta(t, 6.5, got.Regular, 1e-9)
		assert.Zero(t, got.Overtime)
	})

	t.Run("overnight schedule wraps", func(t *testing.T) {
		// Night shift 22:00-06:00; punches 22:00 and 06:30 next morning.
		got := timeclock.ComputeHours(timeclock.DayInput{
			CheckIn:       at(22, 0, 0),
			CheckOut:      at(6, 30, 0),
			ScheduleStart: at(22, 0, 0),
			ScheduleEnd:   at(6, 0, 0),
			WorkDate:      monday,
		})
		assert.InDelta(t, 8.0, got.Regular, 1e-9)
		assert.InDelta(t, 0.5, got.Overtime, 1e-9)
	})
}

func TestComputeHours_NoScheduleWeekday(t *testing.T) {
	// Without a schedule every worked minute is overtime and the threshold
	// rule does not apply.
	got := timeclock.ComputeHours(timeclock.DayInput{
		CheckIn:  at(8, 0, 0),
		CheckOut: at(12, 0, 0),
		WorkDate: monday,
	})
	assert.Equal(t, timeclock.HoursResult{Overtime: 4.0}, got)

	short := timeclock.ComputeHours(timeclock.DayInput{
		CheckIn:  at(8, 0, 0),
		CheckOut: at(8, 15, 0),
		WorkDate: monday,
	})
	assert.InDelta(t, 0.25, short.Overtime, 1e-9, "no-schedule overtime skips the 30-minute floor")
}

func TestComputeHours_Weekend(t *testing.T) {
	t.Run("all hours land in weekend bucket", func(t *testing.T) {
		got := timeclock.ComputeHours(timeclock.DayInput{
			CheckIn:  at(9, 0, 0),
			CheckOut: at(13, 0, 0),
			WorkDate: saturday,
		})
		assert.Equal(t, timeclock.HoursResult{WeekendOvertime: 4.0}, got)
	})

	t.Run("early arrival clamped to weekday baseline", func(t *testing.T) {
		got := timeclock.ComputeHours(timeclock.DayInput{
			CheckIn:              at(6, 0, 0),
			CheckOut:             at(12, 0, 0),
			WorkDate:             sunday,
			WeekdayBaselineStart: at(8, 0, 0),
		})
		assert.InDelta(t, 4.0, got.WeekendOvertime, 1e-9)
		assert.Zero(t, got.Regular)
		assert.Zero(t, got.Overtime)
	})

	t.Run("baseline before arrival has no effect", func(t *testing.T) {
		got := timeclock.ComputeHours(timeclock.DayInput{
			CheckIn:              at(10, 0, 0),
			CheckOut:             at(14, 0, 0),
			WorkDate:             saturday,
			WeekdayBaselineStart: at(8, 0, 0),
		})
		assert.InDelta(t, 4.0, got.WeekendOvertime, 1e-9)
	})

	t.Run("check-out before baseline clamps to zero", func(t *testing.T) {
		got := timeclock.ComputeHours(timeclock.DayInput{
			CheckIn:              at(6, 0, 0),
			CheckOut:             at(7, 0, 0),
			WorkDate:             saturday,
			WeekdayBaselineStart: at(8, 0, 0),
		})
		assert.Zero(t, got.WeekendOvertime)
	})

	t.Run("schedule is ignored on weekends", func(t *testing.T) {
		got := timeclock.ComputeHours(timeclock.DayInput{
			CheckIn:       at(9, 0, 0),
			CheckOut:      at(17, 0, 0),
			ScheduleStart: at(8, 0, 0),
			ScheduleEnd:   at(16, 0, 0),
			WorkDate:      saturday,
		})
		assert.Zero(t, got.Regular)
		assert.Zero(t, got.Overtime)
		assert.InDelta(t, 8.0, got.WeekendOvertime, 1e-9)
	})
}
