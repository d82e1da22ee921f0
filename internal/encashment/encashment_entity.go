package encashment

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusPaid     = "PAID"
)

// EncashmentRequest converts unused EARNED days into a payroll payment.
// BalanceAtRequest freezes the closing balance seen at submission; the
// actual reservation happens at approval against the live ledger.
type EncashmentRequest struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID       uuid.UUID `gorm:"type:uuid;not null;index:idx_encashments_employee"`
	Year             int       `gorm:"not null"`
	DaysRequested    int       `gorm:"not null"`
	BalanceAtRequest int       `gorm:"not null"`
	Status           string    `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_encashments_status"`
	RejectionReason  *string   `gorm:"type:text"`
	ApprovedAt       *time.Time
	PaidAt           *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
