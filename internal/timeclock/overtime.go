package timeclock

import "math"

// minOvertimeMinutes is the floor below which weekday overtime is discarded
// unless the employment record carries the count_all_ot override.
const minOvertimeMinutes = 30

// ApplyOvertimeRule converts raw weekday overtime into payable overtime:
// below a 30-minute floor it pays nothing (unless countAllOT), otherwise it
// rounds to the nearest quarter hour.
//
// Arithmetic runs on whole minutes so the quarter-hour rounding is
// deterministic; float hours near the .125 boundaries otherwise drift in
// binary floating point.
func ApplyOvertimeRule(rawHours float64, countAllOT bool) float64 {
	if rawHours <= 0 {
		return 0
	}
	return float64(applyOvertimeRuleMinutes(int(math.Round(rawHours*60)), countAllOT)) / 60
}

func applyOvertimeRuleMinutes(rawMinutes int, countAllOT bool) int {
	if rawMinutes <= 0 {
		return 0
	}
	if !countAllOT && rawMinutes < minOvertimeMinutes {
		return 0
	}
	// Nearest 15-minute increment. Integer minutes never land exactly on a
	// 7.5-minute midpoint, so the result is unambiguous.
	return (rawMinutes + 7) / 15 * 15
}
