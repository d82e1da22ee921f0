package balance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	balanceerrors "go-lms/internal/balance/errors"
	"go-lms/internal/policy"
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	Open(ctx context.Context, req OpenBalanceRequest) (BalanceResponse, error)
	GetBalance(ctx context.Context, userID string, leaveType policy.LeaveType, year int) (BalanceResponse, error)
	ListForUser(ctx context.Context, userID string, year int) ([]BalanceResponse, error)

	// Accrue credits accrual days. EARNED accrual above the 60-day cap
	// transfers the excess to the SPECIAL bucket in the same transaction.
	Accrue(ctx context.Context, req AccrueRequest) (AccrueResponse, error)

	// Reserve and Release mutate used within their own transaction. Callers
	// holding a transaction already (approval decisions) go through the
	// Repository with WithTx instead.
	Reserve(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) error
	Release(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Open(ctx context.Context, req OpenBalanceRequest) (BalanceResponse, error) {
	userUUID, leaveType, err := validateKey(req.UserID, req.LeaveType, req.Year)
	if err != nil {
		return BalanceResponse{}, err
	}

	b := &Balance{
		ID:        uuid.New(),
		UserID:    userUUID,
		LeaveType: leaveType,
		Year:      req.Year,
		Opening:   req.Opening,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		s.logger.Error("open balance persist failed", zap.Error(err))
		return BalanceResponse{}, err
	}

	s.logger.Info("balance opened",
		zap.String("user_id", req.UserID),
		zap.String("leave_type", string(leaveType)),
		zap.Int("year", req.Year),
		zap.Int("opening", req.Opening),
	)
	return mapToResponse(*b), nil
}

func (s *service) GetBalance(ctx context.Context, userID string, leaveType policy.LeaveType, year int) (BalanceResponse, error) {
	b, err := s.repo.Get(ctx, userID, leaveType, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, balanceerrors.ErrBalanceNotFound
		}
		return BalanceResponse{}, err
	}
	return mapToResponse(*b), nil
}

func (s *service) ListForUser(ctx context.Context, userID string, year int) ([]BalanceResponse, error) {
	balances, err := s.repo.ListForUser(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp, nil
}

func (s *service) Accrue(ctx context.Context, req AccrueRequest) (AccrueResponse, error) {
	_, leaveType, err := validateKey(req.UserID, req.LeaveType, req.Year)
	if err != nil {
		return AccrueResponse{}, err
	}
	if req.Days <= 0 {
		return AccrueResponse{}, balanceerrors.ErrInvalidDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("accrue begin tx failed", zap.Error(err))
		return AccrueResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	earnedDays := req.Days
	specialTransfer := 0
	if leaveType == policy.Earned {
		current, err := s.repo.Get(ctx, req.UserID, policy.Earned, req.Year)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return AccrueResponse{}, balanceerrors.ErrBalanceNotFound
			}
			return AccrueResponse{}, err
		}
		earnedDays, specialTransfer = policy.ApplyEarnedCap(current.Closing, req.Days)
	}

	if earnedDays > 0 {
		if err := qtx.AddAccrued(ctx, req.UserID, leaveType, req.Year, earnedDays); err != nil {
			s.logger.Error("accrue persist failed", zap.Error(err))
			return AccrueResponse{}, err
		}
	}
	if specialTransfer > 0 {
		if err := qtx.AddAccrued(ctx, req.UserID, policy.Special, req.Year, specialTransfer); err != nil {
			s.logger.Error("accrue overflow transfer failed", zap.Error(err))
			return AccrueResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("accrue commit failed", zap.Error(err))
		return AccrueResponse{}, err
	}

	s.logger.Info("accrual applied",
		zap.String("user_id", req.UserID),
		zap.String("leave_type", string(leaveType)),
		zap.Int("days", earnedDays),
		zap.Int("special_transfer", specialTransfer),
	)

	resp := AccrueResponse{}
	if b, err := s.repo.Get(ctx, req.UserID, leaveType, req.Year); err == nil {
		resp.Accrued = mapToResponse(*b)
	}
	if specialTransfer > 0 {
		if b, err := s.repo.Get(ctx, req.UserID, policy.Special, req.Year); err == nil {
			v := mapToResponse(*b)
			resp.SpecialTransfer = &v
		}
	}
	return resp, nil
}

func (s *service) Reserve(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) error {
	if days <= 0 {
		return balanceerrors.ErrInvalidDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ok, err := s.repo.WithTx(tx).Reserve(ctx, userID, leaveType, year, days)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Warn("reservation refused",
			zap.String("user_id", userID),
			zap.String("leave_type", string(leaveType)),
			zap.Int("year", year),
			zap.Int("days", days),
		)
		return balanceerrors.ErrInsufficientBalance
	}

	return tx.Commit()
}

func (s *service) Release(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) error {
	if days <= 0 {
		return balanceerrors.ErrInvalidDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Release(ctx, userID, leaveType, year, days); err != nil {
		return err
	}

	return tx.Commit()
}

func validateKey(userID, leaveType string, year int) (uuid.UUID, policy.LeaveType, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, "", balanceerrors.ErrInvalidUserID
	}
	lt := policy.LeaveType(leaveType)
	if !policy.IsKnownLeaveType(lt) {
		return uuid.Nil, "", balanceerrors.ErrInvalidLeaveType
	}
	if year < 2000 || year > time.Now().UTC().Year()+1 {
		return uuid.Nil, "", balanceerrors.ErrInvalidYear
	}
	return userUUID, lt, nil
}

func mapToResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		UserID:    b.UserID.String(),
		LeaveType: string(b.LeaveType),
		Year:      b.Year,
		Opening:   b.Opening,
		Accrued:   b.Accrued,
		Used:      b.Used,
		Closing:   b.Closing,
	}
}
