package balance

import (
	"time"

	"github.com/google/uuid"

	"go-lms/internal/policy"
)

// Balance is one ledger row per (user, leave type, year).
// Invariant: Closing = max(Opening + Accrued - Used, 0); Used only moves
// through Reserve/Release so the invariant holds under concurrency.
type Balance struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_balances_user_type_year"`
	LeaveType policy.LeaveType `gorm:"type:varchar(30);not null;uniqueIndex:idx_balances_user_type_year"`
	Year      int              `gorm:"not null;uniqueIndex:idx_balances_user_type_year"`

	Opening int `gorm:"not null;default:0"`
	Accrued int `gorm:"not null;default:0"`
	Used    int `gorm:"not null;default:0"`
	Closing int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
