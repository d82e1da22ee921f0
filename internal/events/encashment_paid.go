package events

import "time"

const EncashmentPaidTopic = "lms.encashment.paid.v1"

type EncashmentPaidEvent struct {
	EventType    string    `json:"event_type"`
	EncashmentID string    `json:"encashment_id"`
	EmployeeID   string    `json:"employee_id"`
	Year         int       `json:"year"`
	Days         int       `json:"days"`
	OccurredAt   time.Time `json:"occurred_at"`
}
