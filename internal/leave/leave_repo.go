package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAllByRequester(ctx context.Context, requesterID string) ([]LeaveRequest, error)
	FindAllByStatus(ctx context.Context, status string) ([]LeaveRequest, error)
	FindApprovedByTypeInRange(ctx context.Context, leaveType string, from, to time.Time) ([]LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	HasOverlappingPeriod(ctx context.Context, requesterID string, startDate, endDate time.Time, excludeID *string) (bool, error)

	// UpdateStatus and the conversion-detail writes run against the
	// caller's transaction so a decision and its side effects commit as one.
	UpdateStatus(ctx context.Context, id, status string) error
	InsertConversionDetail(ctx context.Context, d *ConversionDetail) error
	ListConversionDetails(ctx context.Context, leaveID string, cycle int) ([]ConversionDetail, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindAllByRequester(ctx context.Context, requesterID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAllByStatus(ctx context.Context, status string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindApprovedByTypeInRange(ctx context.Context, leaveType string, from, to time.Time) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("leave_type = ?", leaveType).
		Where("status = ?", StatusApproved).
		Where("NOT (end_date < ? OR start_date > ?)", from, to).
		Order("start_date ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, requesterID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("requester_id = ?", requesterID).
		Where("status NOT IN ?", []string{StatusRejected, StatusCancelled, StatusRecalled}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
UPDATE leave_requests
SET status = $2, updated_at = NOW()
WHERE id = $1
`
	_, err := r.execer().ExecContext(ctx, query, id, status)
	return err
}

func (r *repository) InsertConversionDetail(ctx context.Context, d *ConversionDetail) error {
	query := `
INSERT INTO conversion_details (
	id, leave_id, cycle, seq, leave_type, days, policy_ref, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
`
	_, err := r.execer().ExecContext(
		ctx, query,
		d.ID, d.LeaveID, d.Cycle, d.Seq, string(d.LeaveType), d.Days, d.PolicyRef,
	)
	return err
}

func (r *repository) ListConversionDetails(ctx context.Context, leaveID string, cycle int) ([]ConversionDetail, error) {
	var details []ConversionDetail
	err := r.db.WithContext(ctx).
		Where("leave_id = ?", leaveID).
		Where("cycle = ?", cycle).
		Order("seq ASC").
		Find(&details).Error
	return details, err
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
