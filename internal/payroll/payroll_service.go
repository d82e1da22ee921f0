package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-lms/internal/employee"
	"go-lms/internal/encashment"
	"go-lms/internal/events"
	"go-lms/internal/leave"
	"go-lms/internal/messaging/kafka"
	payrollerrors "go-lms/internal/payroll/errors"
	"go-lms/internal/policy"
	"go-lms/internal/shared/contextutil"
	"go-lms/internal/workday"
)

// encashmentDivisor is the fixed policy denominator for encashment pay:
// one day pays out salary/30 regardless of the month's length.
var encashmentDivisor = decimal.NewFromInt(30)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	// BuildPeriod computes the LWP deductions and encashment payments for a
	// payroll month and stores them as draft rows, replacing any previous
	// build of the same month.
	BuildPeriod(ctx context.Context, actorID string, req BuildPeriodRequest) (PeriodResponse, error)

	GetPeriod(ctx context.Context, year, month int) (PeriodResponse, error)

	// SyncUnpaidLeave maintains the local unpaid-leave read model from the
	// leave decision topic; only approved EXTRAWITHOUTPAY leaves are kept.
	SyncUnpaidLeave(ctx context.Context, evt events.LeaveDecidedEvent) error
}

type service struct {
	db             *sql.DB
	repo           Repository
	leaveRepo      leave.Repository
	encashmentRepo encashment.Repository
	employeeRepo   employee.Repository
	outboxRepo     kafka.OutboxRepository
	logger         *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	leaveRepo leave.Repository,
	encashmentRepo encashment.Repository,
	employeeRepo employee.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:             db,
		repo:           repo,
		leaveRepo:      leaveRepo,
		encashmentRepo: encashmentRepo,
		employeeRepo:   employeeRepo,
		outboxRepo:     outboxRepo,
		logger:         l,
	}
}

type periodDraft struct {
	lwpDays        int
	encashmentDays int
}

func (s *service) BuildPeriod(ctx context.Context, actorID string, req BuildPeriodRequest) (PeriodResponse, error) {
	if req.Month < 1 || req.Month > 12 || req.Year < 2000 {
		return PeriodResponse{}, payrollerrors.ErrInvalidPeriod
	}
	monthStart, monthEnd := MonthBounds(req.Year, time.Month(req.Month))

	leaves, err := s.leaveRepo.FindApprovedByTypeInRange(
		ctx, string(policy.ExtraWithoutPay), monthStart, monthEnd,
	)
	if err != nil {
		return PeriodResponse{}, err
	}

	drafts := map[uuid.UUID]*periodDraft{}
	draftFor := func(id uuid.UUID) *periodDraft {
		d, ok := drafts[id]
		if !ok {
			d = &periodDraft{}
			drafts[id] = d
		}
		return d
	}

	for _, l := range leaves {
		overlap := OverlapDays(l.StartDate, l.EndDate, monthStart, monthEnd)
		if overlap > 0 {
			draftFor(l.RequesterID).lwpDays += overlap
		}
	}

	encashments, err := s.encashmentRepo.FindPaidInYear(ctx, req.Year)
	if err != nil {
		return PeriodResponse{}, err
	}
	for _, e := range encashments {
		if e.PaidAt == nil || int(e.PaidAt.Month()) != req.Month {
			continue
		}
		draftFor(e.EmployeeID).encashmentDays += e.DaysRequested
	}

	period := &PayrollPeriod{
		ID:     uuid.New(),
		Year:   req.Year,
		Month:  req.Month,
		Status: PeriodStatusComputed,
	}
	daysInMonth := decimal.NewFromInt(int64(monthEnd.Day()))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.DeletePeriod(ctx, req.Year, req.Month); err != nil {
		return PeriodResponse{}, err
	}
	if err := qtx.CreatePeriod(ctx, period); err != nil {
		return PeriodResponse{}, err
	}

	rows := make([]PayrollRow, 0, len(drafts))
	for employeeID, d := range drafts {
		emp, err := s.employeeRepo.FindByID(ctx, employeeID.String())
		if err != nil {
			s.logger.Error("payroll build salary lookup failed",
				zap.String("employee_id", employeeID.String()),
				zap.Error(err),
			)
			return PeriodResponse{}, err
		}

		row := PayrollRow{
			ID:             uuid.New(),
			PeriodID:       period.ID,
			EmployeeID:     employeeID,
			MonthlySalary:  emp.MonthlySalary,
			LWPDays:        d.lwpDays,
			EncashmentDays: d.encashmentDays,
			LWPDeduction: emp.MonthlySalary.
				Div(daysInMonth).
				Mul(decimal.NewFromInt(int64(d.lwpDays))).
				Round(2),
			EncashmentPayment: emp.MonthlySalary.
				Div(encashmentDivisor).
				Mul(decimal.NewFromInt(int64(d.encashmentDays))).
				Round(2),
		}
		if err := qtx.CreateRow(ctx, &row); err != nil {
			return PeriodResponse{}, err
		}
		rows = append(rows, row)
	}

	payload, err := json.Marshal(events.PayrollPeriodComputedEvent{
		EventType:  "payroll.period_computed",
		PeriodID:   period.ID.String(),
		Year:       req.Year,
		Month:      req.Month,
		RowCount:   len(rows),
		ComputedBy: actorID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return PeriodResponse{}, err
	}
	if err := s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll_period",
		AggregateID:   period.ID.String(),
		EventType:     "payroll.period_computed",
		Topic:         events.PayrollPeriodComputedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		return PeriodResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}

	s.logger.Info("payroll period computed",
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.Int("rows", len(rows)),
	)
	return mapPeriodToResponse(period, rows), nil
}

func (s *service) GetPeriod(ctx context.Context, year, month int) (PeriodResponse, error) {
	period, err := s.repo.FindPeriod(ctx, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PeriodResponse{}, payrollerrors.ErrPeriodNotFound
		}
		return PeriodResponse{}, err
	}
	rows, err := s.repo.ListRows(ctx, period.ID.String())
	if err != nil {
		return PeriodResponse{}, err
	}
	return mapPeriodToResponse(period, rows), nil
}

func (s *service) SyncUnpaidLeave(ctx context.Context, evt events.LeaveDecidedEvent) error {
	if evt.Status != leave.StatusApproved || evt.LeaveType != string(policy.ExtraWithoutPay) {
		return nil
	}

	leaveID, err := uuid.Parse(evt.LeaveID)
	if err != nil {
		return err
	}
	employeeID, err := uuid.Parse(evt.RequesterID)
	if err != nil {
		return err
	}
	startDate, err := time.Parse(workday.DateLayout, evt.StartDate)
	if err != nil {
		return err
	}
	endDate, err := time.Parse(workday.DateLayout, evt.EndDate)
	if err != nil {
		return err
	}

	s.logger.Info("syncing unpaid leave draft",
		zap.String("leave_id", evt.LeaveID),
		zap.String("employee_id", evt.RequesterID),
	)
	return s.repo.UpsertUnpaidLeaveDraft(ctx, &UnpaidLeaveDraft{
		ID:          uuid.New(),
		LeaveID:     leaveID,
		EmployeeID:  employeeID,
		StartDate:   startDate,
		EndDate:     endDate,
		WorkingDays: evt.WorkingDays,
	})
}

func mapPeriodToResponse(p *PayrollPeriod, rows []PayrollRow) PeriodResponse {
	resp := PeriodResponse{
		ID:     p.ID.String(),
		Year:   p.Year,
		Month:  p.Month,
		Status: p.Status,
	}
	if !p.ComputedAt.IsZero() {
		resp.ComputedAt = p.ComputedAt.UTC().Format(time.RFC3339)
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, PayrollRowResponse{
			EmployeeID:        row.EmployeeID.String(),
			MonthlySalary:     row.MonthlySalary.StringFixed(2),
			LWPDays:           row.LWPDays,
			LWPDeduction:      row.LWPDeduction.StringFixed(2),
			EncashmentDays:    row.EncashmentDays,
			EncashmentPayment: row.EncashmentPayment.StringFixed(2),
		})
	}
	return resp
}
