package events

import "time"

const LeaveDecidedTopic = "lms.leave.decided.v1"

// LeaveDecidedEvent is emitted through the outbox whenever a leave request
// reaches a settled status (APPROVED, REJECTED, CANCELLED, RECALLED).
type LeaveDecidedEvent struct {
	EventType   string    `json:"event_type"`
	LeaveID     string    `json:"leave_id"`
	RequesterID string    `json:"requester_id"`
	LeaveType   string    `json:"leave_type"`
	Status      string    `json:"status"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	WorkingDays int       `json:"working_days"`
	DecidedBy   string    `json:"decided_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
