package events

import "time"

const AttendanceHoursComputedTopic = "hr.attendance.hours.v1"

// AttendanceHoursComputedEvent is emitted after the timeclock engine writes a
// day's payable split onto an attendance row. Downstream consumers maintain
// month-to-date summaries from it.
type AttendanceHoursComputedEvent struct {
	EventType            string    `json:"event_type"`
	RequestID            string    `json:"request_id,omitempty"`
	AttendanceID         string    `json:"attendance_id"`
	CompanyID            string    `json:"company_id"`
	EmployeeID           string    `json:"employee_id"`
	WorkDate             string    `json:"work_date"`
	RegularHours         float64   `json:"regular_hours"`
	OvertimeHours        float64   `json:"overtime_hours"`
	WeekendOvertimeHours float64   `json:"weekend_overtime_hours"`
	OccurredAt           time.Time `json:"occurred_at"`
}
