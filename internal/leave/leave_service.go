package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-lms/internal/balance"
	leaveerrors "go-lms/internal/leave/errors"
	"go-lms/internal/policy"
	"go-lms/internal/workday"
)

// HolidayProvider supplies the holiday set for a date span.
type HolidayProvider interface {
	SetForRange(ctx context.Context, from, to time.Time) (workday.HolidaySet, error)
}

// ChainStarter opens the step-1 pending approval row for a new submission
// cycle. Implemented by the approval module; declared here so the leave
// module does not depend on it.
type ChainStarter interface {
	Start(ctx context.Context, tx *sql.Tx, l *LeaveRequest) error
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, requesterID string, req CreateLeaveRequest) (LeaveResponse, error)
	Resubmit(ctx context.Context, requesterID, id string, req ResubmitLeaveRequest) (LeaveResponse, error)

	// Cancel is employee-initiated. Before anything has been reserved it
	// cancels outright; an APPROVED request moves to
	// CANCELLATION_REQUESTED awaiting HR finalization.
	Cancel(ctx context.Context, requesterID, id string) (LeaveResponse, error)

	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	ListByRequester(ctx context.Context, requesterID string) ([]LeaveResponse, error)
	ListByStatus(ctx context.Context, status string) ([]LeaveResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	balanceRepo balance.Repository
	holidays    HolidayProvider
	calc        *workday.Calculator
	chain       ChainStarter
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	balanceRepo balance.Repository,
	holidays HolidayProvider,
	calc *workday.Calculator,
	chain ChainStarter,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		balanceRepo: balanceRepo,
		holidays:    holidays,
		calc:        calc,
		chain:       chain,
		logger:      l,
	}
}

func (s *service) Create(ctx context.Context, requesterID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("requester_id", requesterID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequesterID
	}
	leaveType := policy.LeaveType(req.LeaveType)
	if !policy.IsKnownLeaveType(leaveType) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}
	startDate, endDate, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	workingDays, err := s.countWorkingDays(ctx, startDate, endDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	overlap, err := s.repo.HasOverlappingPeriod(ctx, requesterID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlap detected",
			zap.String("requester_id", requesterID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	// Plan preview only; the plan is recomputed and persisted at final
	// approval, when balances are actually charged.
	plan, err := s.planFor(ctx, requesterID, leaveType, workingDays, startDate.Year())
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	l := &LeaveRequest{
		ID:          uuid.New(),
		RequesterID: requesterUUID,
		LeaveType:   leaveType,
		StartDate:   startDate,
		EndDate:     endDate,
		WorkingDays: workingDays,
		Reason:      req.Reason,
		Status:      StatusSubmitted,
		Cycle:       1,
	}
	if req.CertificateURL != "" {
		l.CertificateURL = &req.CertificateURL
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.chain.Start(ctx, tx, l); err != nil {
		s.logger.Error("create leave chain start failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("requester_id", requesterID),
		zap.Int("working_days", workingDays),
	)

	resp := mapToResponse(*l)
	resp.ConversionPlan = mapPlanToResponse(plan)
	return resp, nil
}

func (s *service) Resubmit(ctx context.Context, requesterID, id string, req ResubmitLeaveRequest) (LeaveResponse, error) {
	l, err := s.findOwned(ctx, requesterID, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.Status != StatusReturned {
		return LeaveResponse{}, leaveerrors.ErrNotReturned
	}

	startDate, endDate, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	workingDays, err := s.countWorkingDays(ctx, startDate, endDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	overlap, err := s.repo.HasOverlappingPeriod(ctx, requesterID, startDate, endDate, &id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	l.StartDate = startDate
	l.EndDate = endDate
	l.WorkingDays = workingDays
	l.Reason = req.Reason
	l.Status = StatusSubmitted
	l.Cycle++
	if req.CertificateURL != "" {
		l.CertificateURL = &req.CertificateURL
	}

	if err := s.repo.Update(ctx, l); err != nil {
		s.logger.Error("resubmit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.chain.Start(ctx, tx, l); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave resubmitted",
		zap.String("leave_id", id),
		zap.Int("cycle", l.Cycle),
	)
	return mapToResponse(*l), nil
}

func (s *service) Cancel(ctx context.Context, requesterID, id string) (LeaveResponse, error) {
	l, err := s.findOwned(ctx, requesterID, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	switch l.Status {
	case StatusSubmitted, StatusPending, StatusReturned:
		// Nothing reserved yet; cancel outright, no approval row added.
		l.Status = StatusCancelled
	case StatusApproved:
		l.Status = StatusCancellationRequested
	default:
		return LeaveResponse{}, leaveerrors.ErrInvalidTransition
	}

	if err := s.repo.Update(ctx, l); err != nil {
		s.logger.Error("cancel leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave cancel requested",
		zap.String("leave_id", id),
		zap.String("status", l.Status),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	resp := mapToResponse(*l)
	if details, err := s.repo.ListConversionDetails(ctx, id, l.Cycle); err == nil {
		for _, d := range details {
			resp.ConversionPlan = append(resp.ConversionPlan, ConversionComponentResponse{
				LeaveType: string(d.LeaveType),
				Days:      d.Days,
				PolicyRef: d.PolicyRef,
			})
		}
	}
	return resp, nil
}

func (s *service) ListByRequester(ctx context.Context, requesterID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) ListByStatus(ctx context.Context, status string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) findOwned(ctx context.Context, requesterID, id string) (*LeaveRequest, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	if l.RequesterID.String() != requesterID {
		return nil, leaveerrors.ErrNotRequester
	}
	return l, nil
}

func (s *service) countWorkingDays(ctx context.Context, startDate, endDate time.Time) (int, error) {
	holidays, err := s.holidays.SetForRange(ctx, startDate, endDate)
	if err != nil {
		s.logger.Error("holiday lookup failed", zap.Error(err))
		return 0, err
	}
	workingDays, err := s.calc.Count(startDate, endDate, holidays)
	if err != nil {
		return 0, err
	}
	if workingDays == 0 {
		return 0, leaveerrors.ErrNoWorkingDays
	}
	return workingDays, nil
}

func (s *service) planFor(ctx context.Context, requesterID string, leaveType policy.LeaveType, workingDays, year int) (policy.Plan, error) {
	balances, err := s.balanceRepo.ListForUser(ctx, requesterID, year)
	if err != nil {
		return policy.Plan{}, err
	}
	m := policy.BalanceMap{}
	for _, b := range balances {
		m[b.LeaveType] = b.Closing
	}
	return policy.Convert(leaveType, workingDays, m)
}

func parseDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(workday.DateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse(workday.DateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:             l.ID.String(),
		RequesterID:    l.RequesterID.String(),
		LeaveType:      string(l.LeaveType),
		StartDate:      l.StartDate.Format(workday.DateLayout),
		EndDate:        l.EndDate.Format(workday.DateLayout),
		WorkingDays:    l.WorkingDays,
		Reason:         l.Reason,
		Status:         l.Status,
		Cycle:          l.Cycle,
		CertificateURL: l.CertificateURL,
	}
}

func mapPlanToResponse(plan policy.Plan) []ConversionComponentResponse {
	resp := make([]ConversionComponentResponse, len(plan.Components))
	for i, c := range plan.Components {
		resp[i] = ConversionComponentResponse{
			LeaveType: string(c.Type),
			Days:      c.Days,
			PolicyRef: c.PolicyRef,
		}
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
