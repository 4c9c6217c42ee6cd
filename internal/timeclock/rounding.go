package timeclock

import "time"

// RoundPunch snaps a raw punch to its quarter-hour bucket. The table is
// asymmetric on purpose: the top of the hour absorbs minutes 0-8, and
// minutes 54-59 roll forward into the next hour. Seconds are always
// dropped. A nil punch (employee never clocked) stays nil.
//
//	 0- 8 -> :00
//	 9-23 -> :15
//	24-38 -> :30
//	39-53 -> :45
//	54-59 -> :00 of the next hour
func RoundPunch(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	h := t.Hour()
	var m int
	switch {
	case t.Minute() <= 8:
		m = 0
	case t.Minute() <= 23:
		m = 15
	case t.Minute() <= 38:
		m = 30
	case t.Minute() <= 53:
		m = 45
	default:
		m = 0
		h = (h + 1) % 24
	}

	rounded := time.Date(t.Year(), t.Month(), t.Day(), h, m, 0, 0, t.Location())
	return &rounded
}

// RoundCheckIn and RoundCheckOut are retained as separate names because the
// attendance policy documents them as distinct rules. The current table is
// identical for both directions; see the naming note in DESIGN.md before
// changing either one independently.
func RoundCheckIn(t *time.Time) *time.Time { return RoundPunch(t) }

func RoundCheckOut(t *time.Time) *time.Time { return RoundPunch(t) }
