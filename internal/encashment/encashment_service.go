package encashment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-lms/internal/balance"
	balanceerrors "go-lms/internal/balance/errors"
	"go-lms/internal/domain"
	encashmenterrors "go-lms/internal/encashment/errors"
	"go-lms/internal/events"
	"go-lms/internal/messaging/kafka"
	"go-lms/internal/policy"
	"go-lms/internal/shared/contextutil"
)

// RoleLookup resolves an employee's approver role.
type RoleLookup interface {
	RoleOf(ctx context.Context, id string) (string, error)
}

//go:generate mockgen -source=encashment_service.go -destination=mock/encashment_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, employeeID string, req CreateEncashmentRequest) (EncashmentResponse, error)
	Approve(ctx context.Context, approverID, id string) (EncashmentResponse, error)
	Reject(ctx context.Context, approverID, id string, req RejectEncashmentRequest) (EncashmentResponse, error)
	MarkPaid(ctx context.Context, actorID, id string) (EncashmentResponse, error)
	GetByID(ctx context.Context, id string) (EncashmentResponse, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]EncashmentResponse, error)
	ListByStatus(ctx context.Context, status string) ([]EncashmentResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	balanceRepo balance.Repository
	outboxRepo  kafka.OutboxRepository
	roles       RoleLookup
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	balanceRepo balance.Repository,
	outboxRepo kafka.OutboxRepository,
	roles RoleLookup,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("encashment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("encashment.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		balanceRepo: balanceRepo,
		outboxRepo:  outboxRepo,
		roles:       roles,
		logger:      l,
	}
}

func (s *service) Create(ctx context.Context, employeeID string, req CreateEncashmentRequest) (EncashmentResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return EncashmentResponse{}, encashmenterrors.ErrInvalidEmployeeID
	}
	if req.Days <= 0 {
		return EncashmentResponse{}, encashmenterrors.ErrInvalidDays
	}

	b, err := s.balanceRepo.Get(ctx, employeeID, policy.Earned, req.Year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EncashmentResponse{}, balanceerrors.ErrBalanceNotFound
		}
		return EncashmentResponse{}, err
	}
	if req.Days > b.Closing {
		return EncashmentResponse{}, balanceerrors.ErrInsufficientBalance
	}

	e := &EncashmentRequest{
		ID:               uuid.New(),
		EmployeeID:       employeeUUID,
		Year:             req.Year,
		DaysRequested:    req.Days,
		BalanceAtRequest: b.Closing,
		Status:           StatusPending,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("create encashment failed", zap.Error(err))
		return EncashmentResponse{}, err
	}

	s.logger.Info("encashment requested",
		zap.String("encashment_id", e.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int("days", req.Days),
	)
	return mapToResponse(*e), nil
}

// Approve reserves the requested days against the EARNED ledger and flips
// the status in one transaction; a lost reservation race rolls both back.
func (s *service) Approve(ctx context.Context, approverID, id string) (EncashmentResponse, error) {
	if err := s.requireHRRole(ctx, approverID); err != nil {
		return EncashmentResponse{}, err
	}
	e, err := s.find(ctx, id)
	if err != nil {
		return EncashmentResponse{}, err
	}
	if e.Status != StatusPending {
		return EncashmentResponse{}, encashmenterrors.ErrNotPending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EncashmentResponse{}, err
	}
	defer tx.Rollback()

	ok, err := s.balanceRepo.WithTx(tx).Reserve(ctx, e.EmployeeID.String(), policy.Earned, e.Year, e.DaysRequested)
	if err != nil {
		return EncashmentResponse{}, err
	}
	if !ok {
		return EncashmentResponse{}, balanceerrors.ErrInsufficientBalance
	}

	moved, err := s.repo.WithTx(tx).TransitionStatus(ctx, id, StatusPending, StatusApproved, nil)
	if err != nil {
		return EncashmentResponse{}, err
	}
	if !moved {
		return EncashmentResponse{}, encashmenterrors.ErrNotPending
	}

	if err := tx.Commit(); err != nil {
		return EncashmentResponse{}, err
	}

	s.logger.Info("encashment approved",
		zap.String("encashment_id", id),
		zap.String("approver_id", approverID),
		zap.Int("days", e.DaysRequested),
	)

	now := time.Now().UTC()
	e.Status = StatusApproved
	e.ApprovedAt = &now
	return mapToResponse(*e), nil
}

func (s *service) Reject(ctx context.Context, approverID, id string, req RejectEncashmentRequest) (EncashmentResponse, error) {
	if err := s.requireHRRole(ctx, approverID); err != nil {
		return EncashmentResponse{}, err
	}
	e, err := s.find(ctx, id)
	if err != nil {
		return EncashmentResponse{}, err
	}

	moved, err := s.repo.TransitionStatus(ctx, id, StatusPending, StatusRejected, &req.Reason)
	if err != nil {
		return EncashmentResponse{}, err
	}
	if !moved {
		return EncashmentResponse{}, encashmenterrors.ErrNotPending
	}

	e.Status = StatusRejected
	e.RejectionReason = &req.Reason
	return mapToResponse(*e), nil
}

// MarkPaid finalizes a paid-out encashment and hands it to payroll via the
// outbox.
func (s *service) MarkPaid(ctx context.Context, actorID, id string) (EncashmentResponse, error) {
	if err := s.requireHRRole(ctx, actorID); err != nil {
		return EncashmentResponse{}, err
	}
	e, err := s.find(ctx, id)
	if err != nil {
		return EncashmentResponse{}, err
	}
	if e.Status != StatusApproved {
		return EncashmentResponse{}, encashmenterrors.ErrNotApproved
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EncashmentResponse{}, err
	}
	defer tx.Rollback()

	moved, err := s.repo.WithTx(tx).TransitionStatus(ctx, id, StatusApproved, StatusPaid, nil)
	if err != nil {
		return EncashmentResponse{}, err
	}
	if !moved {
		return EncashmentResponse{}, encashmenterrors.ErrNotApproved
	}

	payload, err := json.Marshal(events.EncashmentPaidEvent{
		EventType:    "encashment.paid",
		EncashmentID: e.ID.String(),
		EmployeeID:   e.EmployeeID.String(),
		Year:         e.Year,
		Days:         e.DaysRequested,
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		return EncashmentResponse{}, err
	}
	if err := s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "encashment_request",
		AggregateID:   e.ID.String(),
		EventType:     "encashment.paid",
		Topic:         events.EncashmentPaidTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		return EncashmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EncashmentResponse{}, err
	}

	s.logger.Info("encashment paid",
		zap.String("encashment_id", id),
		zap.String("actor_id", actorID),
	)

	now := time.Now().UTC()
	e.Status = StatusPaid
	e.PaidAt = &now
	return mapToResponse(*e), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EncashmentResponse, error) {
	e, err := s.find(ctx, id)
	if err != nil {
		return EncashmentResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) ListForEmployee(ctx context.Context, employeeID string) ([]EncashmentResponse, error) {
	requests, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) ListByStatus(ctx context.Context, status string) ([]EncashmentResponse, error) {
	requests, err := s.repo.FindAllByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) find(ctx context.Context, id string) (*EncashmentRequest, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, encashmenterrors.ErrEncashmentNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *service) requireHRRole(ctx context.Context, actorID string) error {
	role, err := s.roles.RoleOf(ctx, actorID)
	if err != nil {
		return err
	}
	if role != domain.RoleHRAdmin && role != domain.RoleHRHead {
		return encashmenterrors.ErrNotPermitted
	}
	return nil
}

func mapToResponse(e EncashmentRequest) EncashmentResponse {
	resp := EncashmentResponse{
		ID:               e.ID.String(),
		EmployeeID:       e.EmployeeID.String(),
		Year:             e.Year,
		DaysRequested:    e.DaysRequested,
		BalanceAtRequest: e.BalanceAtRequest,
		Status:           e.Status,
		RejectionReason:  e.RejectionReason,
	}
	if e.ApprovedAt != nil {
		ts := e.ApprovedAt.UTC().Format(time.RFC3339)
		resp.ApprovedAt = &ts
	}
	if e.PaidAt != nil {
		ts := e.PaidAt.UTC().Format(time.RFC3339)
		resp.PaidAt = &ts
	}
	return resp
}

func mapToListResponse(requests []EncashmentRequest) []EncashmentResponse {
	resp := make([]EncashmentResponse, len(requests))
	for i, e := range requests {
		resp[i] = mapToResponse(e)
	}
	return resp
}
