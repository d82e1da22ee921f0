package approval

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	approvalerrors "go-lms/internal/approval/errors"
	"go-lms/internal/balance"
	balanceerrors "go-lms/internal/balance/errors"
	"go-lms/internal/domain"
	"go-lms/internal/events"
	"go-lms/internal/leave"
	leaveerrors "go-lms/internal/leave/errors"
	"go-lms/internal/messaging/kafka"
	"go-lms/internal/policy"
	"go-lms/internal/shared/contextutil"
	"go-lms/internal/workday"
)

// RoleLookup resolves an employee's approver role. Satisfied by the
// employee service.
type RoleLookup interface {
	RoleOf(ctx context.Context, id string) (string, error)
}

//go:generate mockgen -source=approval_service.go -destination=mock/approval_service_mock.go -package=mock
type Service interface {
	// Start opens the step-1 pending row for a new submission cycle inside
	// the caller's transaction. It is the leave module's ChainStarter.
	Start(ctx context.Context, tx *sql.Tx, l *leave.LeaveRequest) error

	// Decide applies one approver decision to the pending step of a leave
	// request's current cycle. A CANCEL decision finalizes a pending
	// cancellation instead of acting on a chain step.
	Decide(ctx context.Context, approverID, leaveID string, req DecideRequest) (DecisionResponse, error)

	// Recall terminates an approved leave early and releases the unused
	// remainder of the reserved days.
	Recall(ctx context.Context, adminID, leaveID string, req RecallRequest) (DecisionResponse, error)

	SubmitCertificate(ctx context.Context, requesterID, leaveID string, req SubmitCertificateRequest) (CertificateResponse, error)
	DecideCertificate(ctx context.Context, approverID, leaveID string, req DecideCertificateRequest) (CertificateResponse, error)

	ListForLeave(ctx context.Context, leaveID string) ([]ApprovalResponse, error)
	ListPendingForRole(ctx context.Context, role string) ([]ApprovalResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	leaveRepo   leave.Repository
	balanceRepo balance.Repository
	outboxRepo  kafka.OutboxRepository
	roles       RoleLookup
	holidays    leave.HolidayProvider
	calc        *workday.Calculator
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	leaveRepo leave.Repository,
	balanceRepo balance.Repository,
	outboxRepo kafka.OutboxRepository,
	roles RoleLookup,
	holidays leave.HolidayProvider,
	calc *workday.Calculator,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("approval.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		leaveRepo:   leaveRepo,
		balanceRepo: balanceRepo,
		outboxRepo:  outboxRepo,
		roles:       roles,
		holidays:    holidays,
		calc:        calc,
		logger:      l,
	}
}

func (s *service) Start(ctx context.Context, tx *sql.Tx, l *leave.LeaveRequest) error {
	chain := Chain(l.LeaveType)
	return s.repo.WithTx(tx).CreatePending(ctx, &Approval{
		ID:       uuid.New(),
		LeaveID:  l.ID,
		Kind:     KindLeave,
		Cycle:    l.Cycle,
		Step:     1,
		ChainPos: 0,
		Role:     chain[0],
	})
}

func (s *service) Decide(ctx context.Context, approverID, leaveID string, req DecideRequest) (DecisionResponse, error) {
	l, err := s.findLeave(ctx, leaveID)
	if err != nil {
		return DecisionResponse{}, err
	}
	role, err := s.roles.RoleOf(ctx, approverID)
	if err != nil {
		return DecisionResponse{}, err
	}

	if req.Decision == DecisionCancel {
		return s.finalizeCancellation(ctx, approverID, role, l, req.Comment)
	}

	if l.Status != leave.StatusSubmitted && l.Status != leave.StatusPending {
		return DecisionResponse{}, approvalerrors.ErrInvalidTransition
	}

	pending, err := s.repo.FindPendingStep(ctx, leaveID, l.Cycle, KindLeave)
	if err != nil {
		return DecisionResponse{}, err
	}
	if pending == nil {
		return DecisionResponse{}, approvalerrors.ErrNoPendingStep
	}
	if pending.Role != role {
		s.logger.Warn("decision by wrong role",
			zap.String("leave_id", leaveID),
			zap.String("expected_role", pending.Role),
			zap.String("actual_role", role),
		)
		return DecisionResponse{}, approvalerrors.ErrNotYourTurn
	}

	switch req.Decision {
	case DecisionApproved:
		if IsFinalPos(l.LeaveType, pending.ChainPos) {
			return s.finalApprove(ctx, approverID, l, pending, req.Comment)
		}
		return s.advance(ctx, approverID, l, pending, req.Comment)
	case DecisionRejected:
		return s.reject(ctx, approverID, l, pending, req.Comment)
	case DecisionReturned:
		return s.returnToEmployee(ctx, approverID, l, pending, req.Comment)
	case DecisionForwarded:
		return s.forward(ctx, approverID, l, pending, req.Comment, req.ToRole)
	default:
		return DecisionResponse{}, approvalerrors.ErrInvalidDecision
	}
}

// finalApprove commits the terminal approval: the decision row, the status
// flip, the persisted conversion plan and every balance reservation share
// one transaction. A failed reservation rolls the whole decision back.
func (s *service) finalApprove(ctx context.Context, approverID string, l *leave.LeaveRequest, pending *Approval, comment string) (DecisionResponse, error) {
	year := l.StartDate.Year()
	plan, err := s.planFor(ctx, l, year)
	if err != nil {
		return DecisionResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DecisionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	leaveQtx := s.leaveRepo.WithTx(tx)
	balanceQtx := s.balanceRepo.WithTx(tx)

	if err := qtx.DecideStep(ctx, pending.ID.String(), approverID, DecisionApproved, comment, nil); err != nil {
		return DecisionResponse{}, err
	}
	if err := leaveQtx.UpdateStatus(ctx, l.ID.String(), leave.StatusApproved); err != nil {
		return DecisionResponse{}, err
	}

	requesterID := l.RequesterID.String()
	for i, c := range plan.Components {
		if err := leaveQtx.InsertConversionDetail(ctx, &leave.ConversionDetail{
			ID:        uuid.New(),
			LeaveID:   l.ID,
			Cycle:     l.Cycle,
			Seq:       i + 1,
			LeaveType: c.Type,
			Days:      c.Days,
			PolicyRef: c.PolicyRef,
		}); err != nil {
			return DecisionResponse{}, err
		}

		ok, err := balanceQtx.Reserve(ctx, requesterID, c.Type, year, c.Days)
		if err != nil {
			return DecisionResponse{}, err
		}
		if !ok {
			s.logger.Warn("final approval reservation failed",
				zap.String("leave_id", l.ID.String()),
				zap.String("leave_type", string(c.Type)),
				zap.Int("days", c.Days),
			)
			return DecisionResponse{}, balanceerrors.ErrInsufficientBalance
		}
	}

	if err := s.emitDecided(ctx, s.outboxRepo.WithTx(tx), l, leave.StatusApproved, approverID); err != nil {
		return DecisionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DecisionResponse{}, err
	}

	s.logger.Info("leave approved",
		zap.String("leave_id", l.ID.String()),
		zap.String("approver_id", approverID),
		zap.Int("components", len(plan.Components)),
	)
	return DecisionResponse{
		LeaveID:     l.ID.String(),
		LeaveStatus: leave.StatusApproved,
		Decision:    DecisionApproved,
	}, nil
}

func (s *service) advance(ctx context.Context, approverID string, l *leave.LeaveRequest, pending *Approval, comment string) (DecisionResponse, error) {
	nextPos := pending.ChainPos + 1
	nextRole := Chain(l.LeaveType)[nextPos]

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DecisionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.DecideStep(ctx, pending.ID.String(), approverID, DecisionApproved, comment, nil); err != nil {
		return DecisionResponse{}, err
	}
	if err := qtx.CreatePending(ctx, &Approval{
		ID:       uuid.New(),
		LeaveID:  l.ID,
		Kind:     KindLeave,
		Cycle:    l.Cycle,
		Step:     pending.Step + 1,
		ChainPos: nextPos,
		Role:     nextRole,
	}); err != nil {
		return DecisionResponse{}, err
	}
	if l.Status == leave.StatusSubmitted {
		if err := s.leaveRepo.WithTx(tx).UpdateStatus(ctx, l.ID.String(), leave.StatusPending); err != nil {
			return DecisionResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return DecisionResponse{}, err
	}

	return DecisionResponse{
		LeaveID:     l.ID.String(),
		LeaveStatus: leave.StatusPending,
		Decision:    DecisionApproved,
		NextRole:    &nextRole,
	}, nil
}

func (s *service) reject(ctx context.Context, approverID string, l *leave.LeaveRequest, pending *Approval, comment string) (DecisionResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DecisionResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).DecideStep(ctx, pending.ID.String(), approverID, DecisionRejected, comment, nil); err != nil {
		return DecisionResponse{}, err
	}
	if err := s.leaveRepo.WithTx(tx).UpdateStatus(ctx, l.ID.String(), leave.StatusRejected); err != nil {
		return DecisionResponse{}, err
	}
	if err := s.emitDecided(ctx, s.outboxRepo.WithTx(tx), l, leave.StatusRejected, approverID); err != nil {
		return DecisionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DecisionResponse{}, err
	}

	s.logger.Info("leave rejected",
		zap.String("leave_id", l.ID.String()),
		zap.String("approver_id", approverID),
	)
	return DecisionResponse{
		LeaveID:     l.ID.String(),
		LeaveStatus: leave.StatusRejected,
		Decision:    DecisionRejected,
	}, nil
}

func (s *service) returnToEmployee(ctx context.Context, approverID string, l *leave.LeaveRequest, pending *Approval, comment string) (DecisionResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DecisionResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).DecideStep(ctx, pending.ID.String(), approverID, DecisionReturned, comment, nil); err != nil {
		return DecisionResponse{}, err
	}
	if err := s.leaveRepo.WithTx(tx).UpdateStatus(ctx, l.ID.String(), leave.StatusReturned); err != nil {
		return DecisionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DecisionResponse{}, err
	}

	return DecisionResponse{
		LeaveID:     l.ID.String(),
		LeaveStatus: leave.StatusReturned,
		Decision:    DecisionReturned,
	}, nil
}

// forward hands the current chain position to a named role. The forwarded
// approver inherits the position, so once they approve the chain resumes
// after the forwarder.
func (s *service) forward(ctx context.Context, approverID string, l *leave.LeaveRequest, pending *Approval, comment, toRole string) (DecisionResponse, error) {
	if toRole == "" {
		return DecisionResponse{}, approvalerrors.ErrForwardRoleRequired
	}
	if !domain.IsKnownRole(toRole) || toRole == domain.RoleEmployee {
		return DecisionResponse{}, approvalerrors.ErrUnknownRole
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DecisionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.DecideStep(ctx, pending.ID.String(), approverID, DecisionForwarded, comment, &toRole); err != nil {
		return DecisionResponse{}, err
	}
	if err := qtx.CreatePending(ctx, &Approval{
		ID:       uuid.New(),
		LeaveID:  l.ID,
		Kind:     KindLeave,
		Cycle:    l.Cycle,
		Step:     pending.Step + 1,
		ChainPos: pending.ChainPos,
		Role:     toRole,
	}); err != nil {
		return DecisionResponse{}, err
	}
	if l.Status == leave.StatusSubmitted {
		if err := s.leaveRepo.WithTx(tx).UpdateStatus(ctx, l.ID.String(), leave.StatusPending); err != nil {
			return DecisionResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return DecisionResponse{}, err
	}

	return DecisionResponse{
		LeaveID:     l.ID.String(),
		LeaveStatus: leave.StatusPending,
		Decision:    DecisionForwarded,
		NextRole:    &toRole,
	}, nil
}

func (s *service) finalizeCancellation(ctx context.Context, approverID, role string, l *leave.LeaveRequest, comment string) (DecisionResponse, error) {
	if role != domain.RoleHRAdmin && role != domain.RoleHRHead {
		return DecisionResponse{}, approvalerrors.ErrCancelNotPermitted
	}
	if l.Status != leave.StatusCancellationRequested {
		return DecisionResponse{}, approvalerrors.ErrNotCancellation
	}

	details, err := s.leaveRepo.ListConversionDetails(ctx, l.ID.String(), l.Cycle)
	if err != nil {
		return DecisionResponse{}, err
	}
	nextStep, err := s.repo.NextStep(ctx, l.ID.String(), l.Cycle)
	if err != nil {
		return DecisionResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DecisionResponse{}, err
	}
	defer tx.Rollback()

	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return DecisionResponse{}, approvalerrors.ErrInvalidApproverID
	}
	if err := s.repo.WithTx(tx).InsertDecided(ctx, &Approval{
		ID:         uuid.New(),
		LeaveID:    l.ID,
		Kind:       KindLeave,
		Cycle:      l.Cycle,
		Step:       nextStep,
		ChainPos:   0,
		Role:       role,
		ApproverID: &approverUUID,
		Decision:   DecisionCancel,
		Comment:    comment,
	}); err != nil {
		return DecisionResponse{}, err
	}
	if err := s.leaveRepo.WithTx(tx).UpdateStatus(ctx, l.ID.String(), leave.StatusCancelled); err != nil {
		return DecisionResponse{}, err
	}

	year := l.StartDate.Year()
	requesterID := l.RequesterID.String()
	balanceQtx := s.balanceRepo.WithTx(tx)
	if len(details) == 0 {
		// Approved before any plan was persisted; charge was single-bucket.
		if err := balanceQtx.Release(ctx, requesterID, l.LeaveType, year, l.WorkingDays); err != nil {
			return DecisionResponse{}, err
		}
	}
	for _, d := range details {
		if err := balanceQtx.Release(ctx, requesterID, d.LeaveType, year, d.Days); err != nil {
			return DecisionResponse{}, err
		}
	}

	if err := s.emitDecided(ctx, s.outboxRepo.WithTx(tx), l, leave.StatusCancelled, approverID); err != nil {
		return DecisionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DecisionResponse{}, err
	}

	s.logger.Info("leave cancellation finalized",
		zap.String("leave_id", l.ID.String()),
		zap.String("approver_id", approverID),
	)
	return DecisionResponse{
		LeaveID:     l.ID.String(),
		LeaveStatus: leave.StatusCancelled,
		Decision:    DecisionCancel,
	}, nil
}

func (s *service) Recall(ctx context.Context, adminID, leaveID string, req RecallRequest) (DecisionResponse, error) {
	l, err := s.findLeave(ctx, leaveID)
	if err != nil {
		return DecisionResponse{}, err
	}
	role, err := s.roles.RoleOf(ctx, adminID)
	if err != nil {
		return DecisionResponse{}, err
	}
	if role != domain.RoleHRAdmin && role != domain.RoleHRHead {
		return DecisionResponse{}, approvalerrors.ErrRecallNotPermitted
	}
	if l.Status != leave.StatusApproved {
		return DecisionResponse{}, approvalerrors.ErrNotApproved
	}

	effective, err := time.Parse(workday.DateLayout, req.EffectiveDate)
	if err != nil {
		return DecisionResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	if effective.Before(l.StartDate) || effective.After(l.EndDate) {
		return DecisionResponse{}, approvalerrors.ErrRecallOutOfRange
	}

	holidays, err := s.holidays.SetForRange(ctx, effective, l.EndDate)
	if err != nil {
		return DecisionResponse{}, err
	}
	remaining, err := s.calc.Remaining(effective, l.EndDate, holidays)
	if err != nil {
		return DecisionResponse{}, err
	}

	details, err := s.leaveRepo.ListConversionDetails(ctx, leaveID, l.Cycle)
	if err != nil {
		return DecisionResponse{}, err
	}
	nextStep, err := s.repo.NextStep(ctx, leaveID, l.Cycle)
	if err != nil {
		return DecisionResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DecisionResponse{}, err
	}
	defer tx.Rollback()

	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return DecisionResponse{}, approvalerrors.ErrInvalidApproverID
	}
	if err := s.repo.WithTx(tx).InsertDecided(ctx, &Approval{
		ID:         uuid.New(),
		LeaveID:    l.ID,
		Kind:       KindLeave,
		Cycle:      l.Cycle,
		Step:       nextStep,
		ChainPos:   0,
		Role:       role,
		ApproverID: &adminUUID,
		Decision:   DecisionRecall,
		Comment:    req.Comment,
	}); err != nil {
		return DecisionResponse{}, err
	}
	if err := s.leaveRepo.WithTx(tx).UpdateStatus(ctx, leaveID, leave.StatusRecalled); err != nil {
		return DecisionResponse{}, err
	}

	// Release the unused remainder against the plan components in reverse
	// charge order, so fallback buckets give days back first.
	year := l.StartDate.Year()
	requesterID := l.RequesterID.String()
	balanceQtx := s.balanceRepo.WithTx(tx)
	left := remaining
	if len(details) == 0 && left > 0 {
		if err := balanceQtx.Release(ctx, requesterID, l.LeaveType, year, left); err != nil {
			return DecisionResponse{}, err
		}
		left = 0
	}
	for i := len(details) - 1; i >= 0 && left > 0; i-- {
		d := details[i]
		give := d.Days
		if give > left {
			give = left
		}
		if err := balanceQtx.Release(ctx, requesterID, d.LeaveType, year, give); err != nil {
			return DecisionResponse{}, err
		}
		left -= give
	}

	if err := s.emitDecided(ctx, s.outboxRepo.WithTx(tx), l, leave.StatusRecalled, adminID); err != nil {
		return DecisionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DecisionResponse{}, err
	}

	s.logger.Info("leave recalled",
		zap.String("leave_id", leaveID),
		zap.String("admin_id", adminID),
		zap.Int("released_days", remaining),
	)
	return DecisionResponse{
		LeaveID:     leaveID,
		LeaveStatus: leave.StatusRecalled,
		Decision:    DecisionRecall,
	}, nil
}

func (s *service) SubmitCertificate(ctx context.Context, requesterID, leaveID string, req SubmitCertificateRequest) (CertificateResponse, error) {
	l, err := s.findLeave(ctx, leaveID)
	if err != nil {
		return CertificateResponse{}, err
	}
	if l.RequesterID.String() != requesterID {
		return CertificateResponse{}, leaveerrors.ErrNotRequester
	}
	if l.Status != leave.StatusApproved {
		return CertificateResponse{}, approvalerrors.ErrNotApproved
	}
	if !policy.RequiresCertificateChain(l.LeaveType, l.WorkingDays) {
		return CertificateResponse{}, approvalerrors.ErrCertificateNotRequired
	}

	latest, err := s.repo.FindLatestCertificate(ctx, leaveID)
	if err != nil {
		return CertificateResponse{}, err
	}
	attempt := 1
	if latest != nil {
		switch latest.Status {
		case CertificateStatusPending:
			return CertificateResponse{}, approvalerrors.ErrCertificatePending
		case CertificateStatusAccepted:
			return CertificateResponse{}, approvalerrors.ErrInvalidTransition
		}
		attempt = latest.Attempt + 1
	}

	l.FitnessCertificateURL = &req.CertificateURL
	if err := s.leaveRepo.Update(ctx, l); err != nil {
		return CertificateResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CertificateResponse{}, err
	}
	defer tx.Rollback()

	cert := &ReturnCertificate{
		ID:             uuid.New(),
		LeaveID:        l.ID,
		Attempt:        attempt,
		CertificateURL: req.CertificateURL,
		Status:         CertificateStatusPending,
	}
	qtx := s.repo.WithTx(tx)
	if err := qtx.CreateCertificate(ctx, cert); err != nil {
		return CertificateResponse{}, err
	}
	if err := qtx.CreatePending(ctx, &Approval{
		ID:       uuid.New(),
		LeaveID:  l.ID,
		Kind:     KindCertificate,
		Cycle:    attempt,
		Step:     1,
		ChainPos: 0,
		Role:     CertificateChain()[0],
	}); err != nil {
		return CertificateResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return CertificateResponse{}, err
	}

	s.logger.Info("duty-return certificate submitted",
		zap.String("leave_id", leaveID),
		zap.Int("attempt", attempt),
	)
	return mapCertificateToResponse(cert), nil
}

func (s *service) DecideCertificate(ctx context.Context, approverID, leaveID string, req DecideCertificateRequest) (CertificateResponse, error) {
	cert, err := s.repo.FindLatestCertificate(ctx, leaveID)
	if err != nil {
		return CertificateResponse{}, err
	}
	if cert == nil || cert.Status != CertificateStatusPending {
		return CertificateResponse{}, approvalerrors.ErrCertificateNotFound
	}

	pending, err := s.repo.FindPendingStep(ctx, leaveID, cert.Attempt, KindCertificate)
	if err != nil {
		return CertificateResponse{}, err
	}
	if pending == nil {
		return CertificateResponse{}, approvalerrors.ErrNoPendingStep
	}

	role, err := s.roles.RoleOf(ctx, approverID)
	if err != nil {
		return CertificateResponse{}, err
	}
	if pending.Role != role {
		return CertificateResponse{}, approvalerrors.ErrNotYourTurn
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CertificateResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	chain := CertificateChain()

	switch req.Decision {
	case DecisionApproved:
		if err := qtx.DecideStep(ctx, pending.ID.String(), approverID, DecisionApproved, req.Comment, nil); err != nil {
			return CertificateResponse{}, err
		}
		if pending.ChainPos == len(chain)-1 {
			if err := qtx.SetCertificateStatus(ctx, cert.ID.String(), CertificateStatusAccepted); err != nil {
				return CertificateResponse{}, err
			}
			cert.Status = CertificateStatusAccepted
		} else {
			if err := qtx.CreatePending(ctx, &Approval{
				ID:       uuid.New(),
				LeaveID:  cert.LeaveID,
				Kind:     KindCertificate,
				Cycle:    cert.Attempt,
				Step:     pending.Step + 1,
				ChainPos: pending.ChainPos + 1,
				Role:     chain[pending.ChainPos+1],
			}); err != nil {
				return CertificateResponse{}, err
			}
		}
	case DecisionRejected:
		// The leave stays APPROVED; only the certificate attempt fails and
		// must be resubmitted.
		if err := qtx.DecideStep(ctx, pending.ID.String(), approverID, DecisionRejected, req.Comment, nil); err != nil {
			return CertificateResponse{}, err
		}
		if err := qtx.SetCertificateStatus(ctx, cert.ID.String(), CertificateStatusRejected); err != nil {
			return CertificateResponse{}, err
		}
		cert.Status = CertificateStatusRejected
	default:
		return CertificateResponse{}, approvalerrors.ErrInvalidDecision
	}

	if err := tx.Commit(); err != nil {
		return CertificateResponse{}, err
	}

	return mapCertificateToResponse(cert), nil
}

func (s *service) ListForLeave(ctx context.Context, leaveID string) ([]ApprovalResponse, error) {
	approvals, err := s.repo.ListByLeave(ctx, leaveID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(approvals), nil
}

func (s *service) ListPendingForRole(ctx context.Context, role string) ([]ApprovalResponse, error) {
	if !domain.IsKnownRole(role) {
		return nil, approvalerrors.ErrUnknownRole
	}
	approvals, err := s.repo.ListPendingByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(approvals), nil
}

func (s *service) findLeave(ctx context.Context, leaveID string) (*leave.LeaveRequest, error) {
	l, err := s.leaveRepo.FindByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *service) planFor(ctx context.Context, l *leave.LeaveRequest, year int) (policy.Plan, error) {
	balances, err := s.balanceRepo.ListForUser(ctx, l.RequesterID.String(), year)
	if err != nil {
		return policy.Plan{}, err
	}
	m := policy.BalanceMap{}
	for _, b := range balances {
		m[b.LeaveType] = b.Closing
	}
	return policy.Convert(l.LeaveType, l.WorkingDays, m)
}

func (s *service) emitDecided(ctx context.Context, outbox kafka.OutboxRepository, l *leave.LeaveRequest, status, actorID string) error {
	payload, err := json.Marshal(events.LeaveDecidedEvent{
		EventType:   "leave.decided",
		LeaveID:     l.ID.String(),
		RequesterID: l.RequesterID.String(),
		LeaveType:   string(l.LeaveType),
		Status:      status,
		StartDate:   l.StartDate.Format(workday.DateLayout),
		EndDate:     l.EndDate.Format(workday.DateLayout),
		WorkingDays: l.WorkingDays,
		DecidedBy:   actorID,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     "leave.decided",
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapToResponse(a Approval) ApprovalResponse {
	resp := ApprovalResponse{
		ID:       a.ID.String(),
		LeaveID:  a.LeaveID.String(),
		Kind:     a.Kind,
		Cycle:    a.Cycle,
		Step:     a.Step,
		Role:     a.Role,
		Decision: a.Decision,
		Comment:  a.Comment,
		ToRole:   a.ToRole,
	}
	if a.ApproverID != nil {
		id := a.ApproverID.String()
		resp.ApproverID = &id
	}
	if a.DecidedAt != nil {
		ts := a.DecidedAt.UTC().Format(time.RFC3339)
		resp.DecidedAt = &ts
	}
	return resp
}

func mapToListResponse(approvals []Approval) []ApprovalResponse {
	resp := make([]ApprovalResponse, len(approvals))
	for i, a := range approvals {
		resp[i] = mapToResponse(a)
	}
	return resp
}

func mapCertificateToResponse(c *ReturnCertificate) CertificateResponse {
	return CertificateResponse{
		ID:             c.ID.String(),
		LeaveID:        c.LeaveID.String(),
		Attempt:        c.Attempt,
		CertificateURL: c.CertificateURL,
		Status:         c.Status,
	}
}
