package holiday

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-lms/internal/shared/apperror"
	"go-lms/internal/workday"
)

var errInvalidDate = apperror.New(
	apperror.CodeInvalidInput,
	"invalid date format, expected YYYY-MM-DD",
	http.StatusBadRequest,
)

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	ListByYear(ctx context.Context, year int) ([]HolidayResponse, error)
	Delete(ctx context.Context, id string) error

	// SetForRange returns the holiday set feeding the working-day calculator.
	SetForRange(ctx context.Context, from, to time.Time) (workday.HolidaySet, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error) {
	date, err := time.Parse(workday.DateLayout, req.Date)
	if err != nil {
		return HolidayResponse{}, errInvalidDate
	}

	h := &Holiday{
		ID:   uuid.New(),
		Date: date,
		Name: req.Name,
	}
	if err := s.repo.Create(ctx, h); err != nil {
		s.logger.Error("create holiday persist failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	s.logger.Info("holiday created",
		zap.String("date", req.Date),
		zap.String("name", req.Name),
	)
	return mapToResponse(*h), nil
}

func (s *service) ListByYear(ctx context.Context, year int) ([]HolidayResponse, error) {
	holidays, err := s.repo.ListByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	resp := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		resp[i] = mapToResponse(h)
	}
	return resp, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) SetForRange(ctx context.Context, from, to time.Time) (workday.HolidaySet, error) {
	holidays, err := s.repo.ListInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	set := make(workday.HolidaySet, len(holidays))
	for _, h := range holidays {
		set[h.Date.Format(workday.DateLayout)] = struct{}{}
	}
	return set, nil
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:   h.ID.String(),
		Date: h.Date.Format(workday.DateLayout),
		Name: h.Name,
	}
}
