package timeclock_test

import (
	"testing"
	"time"

	"go-hrpay/internal/timeclock"

	"github.com/stretchr/testify/assert"
)

func at(h, m, s int) *time.Time {
	t := time.Date(2026, 3, 4, h, m, s, 0, time.UTC)
	return &t
}

func TestRoundPunch_BucketTable(t *testing.T) {
	// Every minute of the hour must land in exactly the documented bucket.
	expectedMinute := func(m int) int {
		switch {
		case m <= 8:
			return 0
		case m <= 23:
			return 15
		case m <= 38:
			return 30
		case m <= 53:
			return 45
		default:
			return 0
		}
	}

	for m := 0; m < 60; m++ {
		got := timeclock.RoundPunch(at(10, m, 0))
		assert.NotNil(t, got)
		assert.Equal(t, expectedMinute(m), got.Minute(), "minute %d", m)
		if m >= 54 {
			assert.Equal(t, 11, got.Hour(), "minute %d must wrap to next hour", m)
		} else {
			assert.Equal(t, 10, got.Hour(), "minute %d", m)
		}
		assert.Zero(t, got.Second())
	}
}

func TestRoundPunch_MidnightWrap(t *testing.T) {
	got := timeclock.RoundPunch(at(23, 57, 12))
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, 0, got.Minute())
}

func TestRoundPunch_NilStaysNil(t *testing.T) {
	assert.Nil(t, timeclock.RoundPunch(nil))
}

func TestRoundPunch_SecondsDiscarded(t *testing.T) {
	got := timeclock.RoundPunch(at(8, 15, 59))
	assert.Equal(t, 15, got.Minute())
	assert.Zero(t, got.Second())
	assert.Zero(t, got.Nanosecond())
}

func TestRoundCheckInAndOut_ShareOneTable(t *testing.T) {
	for _, m := range []int{0, 8, 9, 23, 24, 38, 39, 53, 54, 59} {
		in := timeclock.RoundCheckIn(at(9, m, 30))
		out := timeclock.RoundCheckOut(at(9, m, 30))
		assert.Equal(t, in, out, "minute %d", m)
	}
}
