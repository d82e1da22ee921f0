package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PeriodStatusComputed = "COMPUTED"
)

// PayrollPeriod is one computed payroll month. Recomputing a month replaces
// its rows; rows are drafts for the payroll system, never ledger mutations.
type PayrollPeriod struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Year       int       `gorm:"not null;uniqueIndex:idx_payroll_periods_month"`
	Month      int       `gorm:"not null;uniqueIndex:idx_payroll_periods_month"`
	Status     string    `gorm:"type:varchar(20);not null;default:'COMPUTED'"`
	ComputedAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayrollRow is the per-employee adjustment for a period: leave-without-pay
// deduction plus earned-leave encashment payment.
type PayrollRow struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PeriodID uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_rows_period"`

	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_payroll_rows_employee"`
	MonthlySalary decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	LWPDays      int             `gorm:"not null"`
	LWPDeduction decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	EncashmentDays    int             `gorm:"not null"`
	EncashmentPayment decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	CreatedAt time.Time
}

// UnpaidLeaveDraft mirrors an approved EXTRAWITHOUTPAY leave as consumed
// from the decision topic, so period builds have a local read model even
// when the leave service is unreachable.
type UnpaidLeaveDraft struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_unpaid_leave_drafts_leave"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_unpaid_leave_drafts_employee"`
	StartDate   time.Time `gorm:"type:date;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`
	WorkingDays int       `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
