package timeclock

import "time"

// HoursResult is the payable split for one attendance day. Weekend days only
// ever fill WeekendOvertime; weekdays only ever fill Regular/Overtime.
type HoursResult struct {
	Regular         float64
	Overtime        float64
	WeekendOvertime float64
}

// DayInput carries everything ComputeHours needs for one calendar day.
// Punches are expected to be pre-rounded with RoundPunch; ComputeHours does
// not round them again. All time values are interpreted as time-of-day on
// WorkDate.
type DayInput struct {
	CheckIn  *time.Time
	CheckOut *time.Time

	// Shift expected for WorkDate. Both nil means no schedule is defined
	// for that weekday.
	ScheduleStart *time.Time
	ScheduleEnd   *time.Time

	WorkDate time.Time

	// WeekdayBaselineStart is the employee's usual weekday shift start.
	// On weekends the overtime clock starts no earlier than this, so an
	// early Saturday arrival earns nothing extra.
	WeekdayBaselineStart *time.Time

	// IsDriver is carried on the employment record and passed through by
	// callers. The current hour-split policy does not branch on it.
	IsDriver bool

	CountAllOT bool
}

// ComputeHours turns one day's punches into (regular, overtime, weekend
// overtime) hours. Missing punches yield a zero result rather than an error:
// an absent punch is a normal business state, not a fault.
func ComputeHours(in DayInput) HoursResult {
	if in.CheckIn == nil || in.CheckOut == nil {
		return HoursResult{}
	}

	ci := minuteOfDay(*in.CheckIn)
	co := minuteOfDay(*in.CheckOut)
	if co < ci {
		// Overnight shift: the check-out belongs to the next calendar day.
		co += minutesPerDay
	}

	if isWeekend(in.WorkDate) {
		es := ci
		if in.WeekdayBaselineStart != nil {
			if b := minuteOfDay(*in.WeekdayBaselineStart); b > es {
				es = b
			}
		}
		weekend := co - es
		if weekend < 0 {
			weekend = 0
		}
		return HoursResult{WeekendOvertime: toHours(weekend)}
	}

	if in.ScheduleStart == nil || in.ScheduleEnd == nil {
		// No schedule defined for this weekday: every worked minute is
		// overtime, and historically this path skips the threshold and
		// quarter-hour rule applied on scheduled days.
		return HoursResult{Overtime: toHours(co - ci)}
	}

	ss := minuteOfDay(*in.ScheduleStart)
	se := minuteOfDay(*in.ScheduleEnd)
	if se < ss {
		se += minutesPerDay
	}

	// Arriving before the scheduled start earns no credit.
	es := ci
	if ss > es {
		es = ss
	}

	regularEnd := co
	if se < regularEnd {
		regularEnd = se
	}
	regular := regularEnd - es
	if regular < 0 {
		regular = 0
	}

	rawOT := co - se
	if rawOT < 0 {
		rawOT = 0
	}

	return HoursResult{
		Regular:  toHours(regular),
		Overtime: toHours(applyOvertimeRuleMinutes(rawOT, in.CountAllOT)),
	}
}

const minutesPerDay = 24 * 60

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func toHours(minutes int) float64 {
	return float64(minutes) / 60
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
