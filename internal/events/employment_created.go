package events

import "time"

const EmploymentCreatedTopic = "hr.employment.created.v1"

type EmploymentCreatedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	EmploymentID string    `json:"employment_id"`
	CompanyID    string    `json:"company_id"`
	HireDate     string    `json:"hire_date"`
	OccurredAt   time.Time `json:"occurred_at"`
}
