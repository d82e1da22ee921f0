package approval

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=approval_repo.go -destination=mock/approval_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	// Step writes run against the caller's transaction so a decision and
	// its side effects commit as one.
	CreatePending(ctx context.Context, a *Approval) error
	InsertDecided(ctx context.Context, a *Approval) error
	DecideStep(ctx context.Context, id, approverID, decision, comment string, toRole *string) error

	FindPendingStep(ctx context.Context, leaveID string, cycle int, kind string) (*Approval, error)
	ListByLeave(ctx context.Context, leaveID string) ([]Approval, error)
	ListPendingByRole(ctx context.Context, role string) ([]Approval, error)
	NextStep(ctx context.Context, leaveID string, cycle int) (int, error)

	CreateCertificate(ctx context.Context, c *ReturnCertificate) error
	FindLatestCertificate(ctx context.Context, leaveID string) (*ReturnCertificate, error)
	SetCertificateStatus(ctx context.Context, id, status string) error
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

func (r *repository) CreatePending(ctx context.Context, a *Approval) error {
	query := `
INSERT INTO approvals (
	id, leave_id, kind, cycle, step, chain_pos, role, decision, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
`
	_, err := r.execer().ExecContext(
		ctx, query,
		a.ID, a.LeaveID, a.Kind, a.Cycle, a.Step, a.ChainPos, a.Role, DecisionPending,
	)
	return err
}

func (r *repository) InsertDecided(ctx context.Context, a *Approval) error {
	query := `
INSERT INTO approvals (
	id, leave_id, kind, cycle, step, chain_pos, role, approver_id, decision, comment, decided_at, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
`
	_, err := r.execer().ExecContext(
		ctx, query,
		a.ID, a.LeaveID, a.Kind, a.Cycle, a.Step, a.ChainPos, a.Role, a.ApproverID, a.Decision, a.Comment,
	)
	return err
}

func (r *repository) DecideStep(ctx context.Context, id, approverID, decision, comment string, toRole *string) error {
	query := `
UPDATE approvals
SET
	approver_id = $2,
	decision = $3,
	comment = $4,
	to_role = $5,
	decided_at = NOW()
WHERE id = $1 AND decision = 'PENDING'
`
	res, err := r.execer().ExecContext(ctx, query, id, approverID, decision, comment, toRole)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindPendingStep(ctx context.Context, leaveID string, cycle int, kind string) (*Approval, error) {
	var a Approval
	err := r.db.WithContext(ctx).
		Where("leave_id = ?", leaveID).
		Where("cycle = ?", cycle).
		Where("kind = ?", kind).
		Where("decision = ?", DecisionPending).
		Order("step DESC").
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) ListByLeave(ctx context.Context, leaveID string) ([]Approval, error) {
	var approvals []Approval
	err := r.db.WithContext(ctx).
		Where("leave_id = ?", leaveID).
		Order("cycle ASC, step ASC").
		Find(&approvals).Error
	return approvals, err
}

func (r *repository) ListPendingByRole(ctx context.Context, role string) ([]Approval, error) {
	var approvals []Approval
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Where("decision = ?", DecisionPending).
		Order("created_at ASC").
		Find(&approvals).Error
	return approvals, err
}

func (r *repository) NextStep(ctx context.Context, leaveID string, cycle int) (int, error) {
	var maxStep sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&Approval{}).
		Where("leave_id = ?", leaveID).
		Where("cycle = ?", cycle).
		Select("MAX(step)").
		Scan(&maxStep).Error
	if err != nil {
		return 0, err
	}
	return int(maxStep.Int64) + 1, nil
}

func (r *repository) CreateCertificate(ctx context.Context, c *ReturnCertificate) error {
	query := `
INSERT INTO return_certificates (
	id, leave_id, attempt, certificate_url, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
`
	_, err := r.execer().ExecContext(
		ctx, query,
		c.ID, c.LeaveID, c.Attempt, c.CertificateURL, c.Status,
	)
	return err
}

func (r *repository) FindLatestCertificate(ctx context.Context, leaveID string) (*ReturnCertificate, error) {
	var c ReturnCertificate
	err := r.db.WithContext(ctx).
		Where("leave_id = ?", leaveID).
		Order("attempt DESC").
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) SetCertificateStatus(ctx context.Context, id, status string) error {
	query := `
UPDATE return_certificates
SET status = $2, updated_at = NOW()
WHERE id = $1
`
	_, err := r.execer().ExecContext(ctx, query, id, status)
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
