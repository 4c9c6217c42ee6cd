package timeclock_test

import (
	"testing"

	"go-hrpay/internal/timeclock"

	"github.com/stretchr/testify/assert"
)

func TestApplyOvertimeRule(t *testing.T) {
	tests := []struct {
		name       string
		rawHours   float64
		countAllOT bool
		expected   float64
	}{
		{name: "zero stays zero", rawHours: 0, expected: 0},
		{name: "negative clamps to zero", rawHours: -1, expected: 0},
		{name: "29 minutes below floor", rawHours: 0.483, expected: 0},
		{name: "exactly 30 minutes passes floor", rawHours: 0.5, expected: 0.5},
		{name: "31 minutes rounds to half hour", rawHours: 0.517, expected: 0.5},
		{name: "38 minutes rounds up to 45", rawHours: 38.0 / 60, expected: 0.75},
		{name: "one hour seven minutes rounds down", rawHours: 67.0 / 60, expected: 1.0},
		{name: "one hour eight minutes rounds up", rawHours: 68.0 / 60, expected: 1.25},
		{name: "override counts 12 minutes", rawHours: 0.2, countAllOT: true, expected: 0.25},
		{name: "override still rounds", rawHours: 7.0 / 60, countAllOT: true, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timeclock.ApplyOvertimeRule(tt.rawHours, tt.countAllOT)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}
