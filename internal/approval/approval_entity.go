package approval

import (
	"time"

	"github.com/google/uuid"
)

// Approval chain kinds. Certificate rows share the table but belong to the
// duty-return mini-chain, not the leave's own chain.
const (
	KindLeave       = "LEAVE"
	KindCertificate = "CERTIFICATE"
)

// Approval is one step of an approval chain. Rows are append-only per
// (leave, cycle): the current pending row is decided in place and prior
// rows are never modified, preserving the audit trail across resubmits.
type Approval struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveID uuid.UUID `gorm:"type:uuid;not null;index:idx_approvals_leave"`
	Kind    string    `gorm:"type:varchar(20);not null;default:'LEAVE'"`
	Cycle   int       `gorm:"not null"`
	Step    int       `gorm:"not null"`

	// ChainPos is the base-chain position this step satisfies. A forwarded
	// step inherits the forwarder's position so the chain resumes after it.
	ChainPos int `gorm:"not null"`

	Role       string     `gorm:"type:varchar(20);not null"`
	ApproverID *uuid.UUID `gorm:"type:uuid"`
	Decision   string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Comment    string     `gorm:"type:text"`
	ToRole     *string    `gorm:"type:varchar(20)"`
	DecidedAt  *time.Time

	CreatedAt time.Time
}

// Certificate statuses for the duty-return sub-flow.
const (
	CertificateStatusPending  = "PENDING"
	CertificateStatusAccepted = "ACCEPTED"
	CertificateStatusRejected = "REJECTED"
)

// ReturnCertificate tracks one submission attempt of a duty-return medical
// certificate. A rejected attempt stays on record; the employee submits a
// new attempt.
type ReturnCertificate struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveID        uuid.UUID `gorm:"type:uuid;not null;index:idx_return_certificates_leave"`
	Attempt        int       `gorm:"not null"`
	CertificateURL string    `gorm:"type:text;not null"`
	Status         string    `gorm:"type:varchar(20);not null;default:'PENDING'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
