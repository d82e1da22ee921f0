package encashment

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=encashment_repo.go -destination=mock/encashment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *EncashmentRequest) error
	FindByID(ctx context.Context, id string) (*EncashmentRequest, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]EncashmentRequest, error)
	FindAllByStatus(ctx context.Context, status string) ([]EncashmentRequest, error)
	FindPaidInYear(ctx context.Context, year int) ([]EncashmentRequest, error)

	// TransitionStatus moves from one status to another as a conditional
	// update; false means the row was not in the expected status.
	TransitionStatus(ctx context.Context, id, from, to string, reason *string) (bool, error)
}

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

func (r *repository) Create(ctx context.Context, e *EncashmentRequest) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*EncashmentRequest, error) {
	var e EncashmentRequest
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]EncashmentRequest, error) {
	var requests []EncashmentRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindAllByStatus(ctx context.Context, status string) ([]EncashmentRequest, error) {
	var requests []EncashmentRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindPaidInYear(ctx context.Context, year int) ([]EncashmentRequest, error) {
	var requests []EncashmentRequest
	err := r.db.WithContext(ctx).
		Where("year = ?", year).
		Where("status = ?", StatusPaid).
		Order("paid_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) TransitionStatus(ctx context.Context, id, from, to string, reason *string) (bool, error) {
	query := `
UPDATE encashment_requests
SET
	status = $3,
	rejection_reason = COALESCE($4, rejection_reason),
	approved_at = CASE WHEN $3 = 'APPROVED' THEN NOW() ELSE approved_at END,
	paid_at = CASE WHEN $3 = 'PAID' THEN NOW() ELSE paid_at END,
	updated_at = NOW()
WHERE id = $1 AND status = $2
`
	res, err := r.execer().ExecContext(ctx, query, id, from, to, reason)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
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
