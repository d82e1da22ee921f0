package payroll

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreatePeriod(ctx context.Context, p *PayrollPeriod) error
	DeletePeriod(ctx context.Context, year, month int) error
	FindPeriod(ctx context.Context, year, month int) (*PayrollPeriod, error)
	CreateRow(ctx context.Context, row *PayrollRow) error
	ListRows(ctx context.Context, periodID string) ([]PayrollRow, error)

	UpsertUnpaidLeaveDraft(ctx context.Context, d *UnpaidLeaveDraft) error
	ListUnpaidLeaveDraftsInRange(ctx context.Context, from, to time.Time) ([]UnpaidLeaveDraft, error)
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

func (r *repository) CreatePeriod(ctx context.Context, p *PayrollPeriod) error {
	query := `
INSERT INTO payroll_periods (
	id, year, month, status, computed_at, created_at, updated_at
) VALUES ($1, $2, $3, $4, NOW(), NOW(), NOW())
`
	_, err := r.execer().ExecContext(ctx, query, p.ID, p.Year, p.Month, p.Status)
	return err
}

// DeletePeriod clears a previously computed month so it can be rebuilt.
func (r *repository) DeletePeriod(ctx context.Context, year, month int) error {
	query := `
DELETE FROM payroll_rows
WHERE period_id IN (SELECT id FROM payroll_periods WHERE year = $1 AND month = $2)
`
	if _, err := r.execer().ExecContext(ctx, query, year, month); err != nil {
		return err
	}
	_, err := r.execer().ExecContext(
		ctx, `DELETE FROM payroll_periods WHERE year = $1 AND month = $2`, year, month,
	)
	return err
}

func (r *repository) FindPeriod(ctx context.Context, year, month int) (*PayrollPeriod, error) {
	var p PayrollPeriod
	err := r.db.WithContext(ctx).
		Where("year = ?", year).
		Where("month = ?", month).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) CreateRow(ctx context.Context, row *PayrollRow) error {
	query := `
INSERT INTO payroll_rows (
	id, period_id, employee_id, monthly_salary,
	lwp_days, lwp_deduction, encashment_days, encashment_payment, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
`
	_, err := r.execer().ExecContext(
		ctx, query,
		row.ID, row.PeriodID, row.EmployeeID, row.MonthlySalary,
		row.LWPDays, row.LWPDeduction, row.EncashmentDays, row.EncashmentPayment,
	)
	return err
}

func (r *repository) ListRows(ctx context.Context, periodID string) ([]PayrollRow, error) {
	var rows []PayrollRow
	err := r.db.WithContext(ctx).
		Where("period_id = ?", periodID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) UpsertUnpaidLeaveDraft(ctx context.Context, d *UnpaidLeaveDraft) error {
	query := `
INSERT INTO unpaid_leave_drafts (
	id, leave_id, employee_id, start_date, end_date, working_days, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
ON CONFLICT (leave_id) DO UPDATE SET
	start_date = EXCLUDED.start_date,
	end_date = EXCLUDED.end_date,
	working_days = EXCLUDED.working_days,
	updated_at = NOW()
`
	_, err := r.execer().ExecContext(
		ctx, query,
		d.ID, d.LeaveID, d.EmployeeID, d.StartDate, d.EndDate, d.WorkingDays,
	)
	return err
}

func (r *repository) ListUnpaidLeaveDraftsInRange(ctx context.Context, from, to time.Time) ([]UnpaidLeaveDraft, error) {
	var drafts []UnpaidLeaveDraft
	err := r.db.WithContext(ctx).
		Where("NOT (end_date < ? OR start_date > ?)", from, to).
		Order("start_date ASC").
		Find(&drafts).Error
	return drafts, err
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
