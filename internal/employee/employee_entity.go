package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Employee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName   string    `gorm:"type:varchar(120);not null"`
	Email      string    `gorm:"type:varchar(120);not null;uniqueIndex:idx_employees_email"`
	Role       string    `gorm:"type:varchar(20);not null;default:'EMPLOYEE';index:idx_employees_role"`
	Department string    `gorm:"type:varchar(80)"`

	// Monthly gross salary, used by payroll for LWP deduction and
	// encashment payment rows.
	MonthlySalary decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`

	JoinedAt  time.Time `gorm:"type:date"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_employees_deleted_at"`
}
