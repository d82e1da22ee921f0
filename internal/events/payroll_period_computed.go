package events

import "time"

const PayrollPeriodComputedTopic = "lms.payroll.period.computed.v1"

type PayrollPeriodComputedEvent struct {
	EventType  string    `json:"event_type"`
	PeriodID   string    `json:"period_id"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	RowCount   int       `json:"row_count"`
	ComputedBy string    `json:"computed_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
