package balance

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"go-lms/internal/policy"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Get(ctx context.Context, userID string, leaveType policy.LeaveType, year int) (*Balance, error)
	ListForUser(ctx context.Context, userID string, year int) ([]Balance, error)
	Create(ctx context.Context, b *Balance) error

	// Reserve adds days to used only when the resulting closing stays >= 0.
	// Returns false when the row exists but lacks the days. Runs as one
	// conditional UPDATE so two racing reservations cannot both win.
	Reserve(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) (bool, error)

	// Release subtracts days from used, floored at zero.
	Release(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) error

	// AddAccrued credits accrual days to the row.
	AddAccrued(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) error
}

// Reads go through gorm; the used/accrued mutations are raw conditional
// UPDATEs so they honor the caller's *sql.Tx and stay atomic per statement.
type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Get(ctx context.Context, userID string, leaveType policy.LeaveType, year int) (*Balance, error) {
	var b Balance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("leave_type = ?", leaveType).
		Where("year = ?", year).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListForUser(ctx context.Context, userID string, year int) ([]Balance, error) {
	var balances []Balance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("year = ?", year).
		Order("leave_type ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) Create(ctx context.Context, b *Balance) error {
	b.Closing = b.Opening + b.Accrued - b.Used
	if b.Closing < 0 {
		b.Closing = 0
	}
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) Reserve(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) (bool, error) {
	query := `
UPDATE balances
SET
	used = used + $4,
	closing = opening + accrued - (used + $4),
	updated_at = NOW()
WHERE user_id = $1
	AND leave_type = $2
	AND year = $3
	AND opening + accrued - used - $4 >= 0
`
	res, err := r.execer().ExecContext(ctx, query, userID, string(leaveType), year, days)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *repository) Release(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) error {
	query := `
UPDATE balances
SET
	used = GREATEST(used - $4, 0),
	closing = GREATEST(opening + accrued - GREATEST(used - $4, 0), 0),
	updated_at = NOW()
WHERE user_id = $1
	AND leave_type = $2
	AND year = $3
`
	_, err := r.execer().ExecContext(ctx, query, userID, string(leaveType), year, days)
	return err
}

func (r *repository) AddAccrued(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) error {
	query := `
UPDATE balances
SET
	accrued = accrued + $4,
	closing = GREATEST(opening + accrued + $4 - used, 0),
	updated_at = NOW()
WHERE user_id = $1
	AND leave_type = $2
	AND year = $3
`
	_, err := r.execer().ExecContext(ctx, query, userID, string(leaveType), year, days)
	return err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	if sqlDB, err := r.db.DB(); err == nil {
		return sqlDB
	}
	return noopExecer{}
}

type noopExecer struct{}

func (noopExecer) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, sql.ErrConnDone
}
