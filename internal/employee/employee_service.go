package employee

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-lms/internal/shared/apperror"
	"go-lms/internal/workday"
)

var (
	errEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	errInvalidSalary = apperror.New(
		apperror.CodeInvalidInput,
		"invalid monthly_salary",
		http.StatusBadRequest,
	)
	errInvalidJoinedAt = apperror.New(
		apperror.CodeInvalidInput,
		"invalid joined_at, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	List(ctx context.Context) ([]EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// RoleOf returns the approver role recorded for the employee.
	RoleOf(ctx context.Context, id string) (string, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	salary := decimal.Zero
	if req.MonthlySalary != "" {
		var err error
		salary, err = decimal.NewFromString(req.MonthlySalary)
		if err != nil || salary.IsNegative() {
			return EmployeeResponse{}, errInvalidSalary
		}
	}

	joinedAt := time.Now().UTC()
	if req.JoinedAt != "" {
		var err error
		joinedAt, err = time.Parse(workday.DateLayout, req.JoinedAt)
		if err != nil {
			return EmployeeResponse{}, errInvalidJoinedAt
		}
	}

	e := &Employee{
		ID:            uuid.New(),
		FullName:      req.FullName,
		Email:         req.Email,
		Role:          req.Role,
		Department:    req.Department,
		MonthlySalary: salary,
		JoinedAt:      joinedAt,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("employee created",
		zap.String("employee_id", e.ID.String()),
		zap.String("role", e.Role),
	)
	return mapToResponse(*e), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, errEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) List(ctx context.Context) ([]EmployeeResponse, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, errEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	if req.MonthlySalary != "" {
		salary, err := decimal.NewFromString(req.MonthlySalary)
		if err != nil || salary.IsNegative() {
			return EmployeeResponse{}, errInvalidSalary
		}
		e.MonthlySalary = salary
	}
	e.FullName = req.FullName
	e.Role = req.Role
	e.Department = req.Department

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) RoleOf(ctx context.Context, id string) (string, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errEmployeeNotFound
		}
		return "", err
	}
	return e.Role, nil
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:            e.ID.String(),
		FullName:      e.FullName,
		Email:         e.Email,
		Role:          e.Role,
		Department:    e.Department,
		MonthlySalary: e.MonthlySalary.StringFixed(2),
	}
	if !e.JoinedAt.IsZero() {
		resp.JoinedAt = e.JoinedAt.Format(workday.DateLayout)
	}
	return resp
}
