package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-lms/internal/policy"
)

// Request statuses. REJECTED and CANCELLED are terminal; APPROVED is
// terminal except for the cancellation, recall and duty-return sub-flows.
const (
	StatusSubmitted             = "SUBMITTED"
	StatusPending               = "PENDING"
	StatusApproved              = "APPROVED"
	StatusRejected              = "REJECTED"
	StatusReturned              = "RETURNED"
	StatusCancellationRequested = "CANCELLATION_REQUESTED"
	StatusCancelled             = "CANCELLED"
	StatusRecalled              = "RECALLED"
)

type LeaveRequest struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequesterID uuid.UUID        `gorm:"type:uuid;not null;index:idx_leave_requests_requester"`
	LeaveType   policy.LeaveType `gorm:"type:varchar(30);not null"`

	StartDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_dates"`
	EndDate     time.Time `gorm:"type:date;not null;index:idx_leave_requests_dates"`
	WorkingDays int       `gorm:"not null"`
	Reason      string    `gorm:"type:text"`

	Status string `gorm:"type:varchar(30);not null;default:'SUBMITTED';index:idx_leave_requests_status"`

	// Cycle counts submission rounds; a return-to-employee followed by a
	// resubmit starts a new cycle while prior approval rows stay untouched.
	Cycle int `gorm:"not null;default:1"`

	CertificateURL        *string `gorm:"type:text"`
	FitnessCertificateURL *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`
}

// ConversionDetail is one persisted component of the conversion plan applied
// at final approval. Stored structured rather than as breakdown text so
// cancellation and recall can release exactly what was charged.
type ConversionDetail struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveID   uuid.UUID        `gorm:"type:uuid;not null;index:idx_conversion_details_leave"`
	Cycle     int              `gorm:"not null"`
	Seq       int              `gorm:"not null"`
	LeaveType policy.LeaveType `gorm:"type:varchar(30);not null"`
	Days      int              `gorm:"not null"`
	PolicyRef string           `gorm:"type:varchar(20)"`

	CreatedAt time.Time
}
