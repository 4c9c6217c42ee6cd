package events

import "time"

const LeaveDecisionTopic = "hr.leave.decision.v1"

type LeaveDecisionRecordedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leave_id"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id"`
	LeaveType  string    `json:"leave_type"`
	Decision   string    `json:"decision"`
	Remaining  float64   `json:"remaining"`
	OccurredAt time.Time `json:"occurred_at"`
}
