package leave_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-lms/internal/balance"
	"go-lms/internal/leave"
	leaveerrors "go-lms/internal/leave/errors"
	"go-lms/internal/policy"
	"go-lms/internal/workday"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn                  func(tx *sql.Tx) leave.Repository
	createFn                  func(ctx context.Context, l *leave.LeaveRequest) error
	findByIDFn                func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	findAllByRequesterFn      func(ctx context.Context, requesterID string) ([]leave.LeaveRequest, error)
	findAllByStatusFn         func(ctx context.Context, status string) ([]leave.LeaveRequest, error)
	findApprovedInRangeFn     func(ctx context.Context, leaveType string, from, to time.Time) ([]leave.LeaveRequest, error)
	updateFn                  func(ctx context.Context, l *leave.LeaveRequest) error
	hasOverlappingPeriodFn    func(ctx context.Context, requesterID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	updateStatusFn            func(ctx context.Context, id, status string) error
	insertConversionDetailFn  func(ctx context.Context, d *leave.ConversionDetail) error
	listConversionDetailsFn   func(ctx context.Context, leaveID string, cycle int) ([]leave.ConversionDetail, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindAllByRequester(ctx context.Context, requesterID string) ([]leave.LeaveRequest, error) {
	if f.findAllByRequesterFn != nil {
		return f.findAllByRequesterFn(ctx, requesterID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllByStatus(ctx context.Context, status string) ([]leave.LeaveRequest, error) {
	if f.findAllByStatusFn != nil {
		return f.findAllByStatusFn(ctx, status)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindApprovedByTypeInRange(ctx context.Context, leaveType string, from, to time.Time) ([]leave.LeaveRequest, error) {
	if f.findApprovedInRangeFn != nil {
		return f.findApprovedInRangeFn(ctx, leaveType, from, to)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.LeaveRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, requesterID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, requesterID, startDate, endDate, excludeID)
	}
	return false, nil
}

func (f *fakeLeaveRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (f *fakeLeaveRepository) InsertConversionDetail(ctx context.Context, d *leave.ConversionDetail) error {
	if f.insertConversionDetailFn != nil {
		return f.insertConversionDetailFn(ctx, d)
	}
	return nil
}

func (f *fakeLeaveRepository) ListConversionDetails(ctx context.Context, leaveID string, cycle int) ([]leave.ConversionDetail, error) {
	if f.listConversionDetailsFn != nil {
		return f.listConversionDetailsFn(ctx, leaveID, cycle)
	}
	return nil, nil
}

type fakeBalanceReader struct {
	listForUserFn func(ctx context.Context, userID string, year int) ([]balance.Balance, error)
}

func (f *fakeBalanceReader) WithTx(tx *sql.Tx) balance.Repository { return f }

func (f *fakeBalanceReader) Get(ctx context.Context, userID string, leaveType policy.LeaveType, year int) (*balance.Balance, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceReader) ListForUser(ctx context.Context, userID string, year int) ([]balance.Balance, error) {
	if f.listForUserFn != nil {
		return f.listForUserFn(ctx, userID, year)
	}
	return nil, nil
}

func (f *fakeBalanceReader) Create(ctx context.Context, b *balance.Balance) error { return nil }

func (f *fakeBalanceReader) Reserve(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) (bool, error) {
	return true, nil
}

func (f *fakeBalanceReader) Release(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) error {
	return nil
}

func (f *fakeBalanceReader) AddAccrued(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) error {
	return nil
}

type fakeHolidayProvider struct {
	setForRangeFn func(ctx context.Context, from, to time.Time) (workday.HolidaySet, error)
}

func (f *fakeHolidayProvider) SetForRange(ctx context.Context, from, to time.Time) (workday.HolidaySet, error) {
	if f.setForRangeFn != nil {
		return f.setForRangeFn(ctx, from, to)
	}
	return workday.HolidaySet{}, nil
}

type fakeChainStarter struct {
	startFn func(ctx context.Context, tx *sql.Tx, l *leave.LeaveRequest) error
	started int
}

func (f *fakeChainStarter) Start(ctx context.Context, tx *sql.Tx, l *leave.LeaveRequest) error {
	f.started++
	if f.startFn != nil {
		return f.startFn(ctx, tx, l)
	}
	return nil
}

type leaveServiceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	service  leave.Service
	repo     *fakeLeaveRepository
	balances *fakeBalanceReader
	holidays *fakeHolidayProvider
	chain    *fakeChainStarter
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	balances := &fakeBalanceReader{}
	holidays := &fakeHolidayProvider{}
	chain := &fakeChainStarter{}
	svc := leave.NewService(db, repo, balances, holidays, workday.New(), chain)

	return &leaveServiceDeps{
		db:       db,
		sqlMock:  sqlMock,
		service:  svc,
		repo:     repo,
		balances: balances,
		holidays: holidays,
		chain:    chain,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.balances.listForUserFn = func(ctx context.Context, uid string, year int) ([]balance.Balance, error) {
			assert.Equal(t, requesterID, uid)
			return []balance.Balance{
				{LeaveType: policy.Casual, Opening: 10, Closing: 10},
			}, nil
		}

		var created *leave.LeaveRequest
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			created = l
			return nil
		}

		// 2026-03-02 to 2026-03-04 is Monday through Wednesday.
		resp, err := deps.service.Create(ctx, requesterID, leave.CreateLeaveRequest{
			LeaveType: "CASUAL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-04",
			Reason:    "family event",
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, leave.StatusSubmitted, resp.Status)
		assert.Equal(t, 3, resp.WorkingDays)
		assert.Equal(t, 1, resp.Cycle)
		assert.Equal(t, 1, deps.chain.started)
		assert.Equal(t, []leave.ConversionComponentResponse{
			{LeaveType: "CASUAL", Days: 3},
		}, resp.ConversionPlan)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success casual over three days splits plan", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.balances.listForUserFn = func(ctx context.Context, uid string, year int) ([]balance.Balance, error) {
			return []balance.Balance{
				{LeaveType: policy.Casual, Closing: 10},
				{LeaveType: policy.Earned, Closing: 20},
			}, nil
		}

		// Full working week, Monday through Friday.
		resp, err := deps.service.Create(ctx, requesterID, leave.CreateLeaveRequest{
			LeaveType: "CASUAL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-06",
			Reason:    "trip",
		})

		assert.NoError(t, err)
		assert.Equal(t, []leave.ConversionComponentResponse{
			{LeaveType: "CASUAL", Days: 3, PolicyRef: policy.RefCasualConversion},
			{LeaveType: "EARNED", Days: 2, PolicyRef: policy.RefCasualConversion},
		}, resp.ConversionPlan)
	})

	t.Run("negative overlapping period", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, uid string, s, e time.Time, excl *string) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Create(ctx, requesterID, leave.CreateLeaveRequest{
			LeaveType: "CASUAL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-04",
			Reason:    "family event",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
		assert.Equal(t, 0, deps.chain.started)
	})

	t.Run("negative weekend only span", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		// 2026-03-07 and 2026-03-08 are Saturday and Sunday.
		_, err := deps.service.Create(ctx, requesterID, leave.CreateLeaveRequest{
			LeaveType: "CASUAL",
			StartDate: "2026-03-07",
			EndDate:   "2026-03-08",
			Reason:    "weekend",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrNoWorkingDays)
	})

	t.Run("negative unknown leave type", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, requesterID, leave.CreateLeaveRequest{
			LeaveType: "SABBATICAL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-04",
			Reason:    "study",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveType)
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, requesterID, leave.CreateLeaveRequest{
			LeaveType: "CASUAL",
			StartDate: "2026-03-04",
			EndDate:   "2026-03-02",
			Reason:    "typo",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative chain start failure rolls back", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.chain.startFn = func(ctx context.Context, tx *sql.Tx, l *leave.LeaveRequest) error {
			return assert.AnError
		}

		_, err := deps.service.Create(ctx, requesterID, leave.CreateLeaveRequest{
			LeaveType: "CASUAL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-04",
			Reason:    "family event",
		})

		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Resubmit(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New().String()
	leaveID := uuid.New()

	returned := func() *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:          leaveID,
			RequesterID: uuid.MustParse(requesterID),
			LeaveType:   policy.Casual,
			Status:      leave.StatusReturned,
			Cycle:       1,
		}
	}

	t.Run("success increments cycle", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return returned(), nil
		}

		resp, err := deps.service.Resubmit(ctx, requesterID, leaveID.String(), leave.ResubmitLeaveRequest{
			StartDate: "2026-03-02",
			EndDate:   "2026-03-03",
			Reason:    "adjusted dates",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusSubmitted, resp.Status)
		assert.Equal(t, 2, resp.Cycle)
		assert.Equal(t, 2, resp.WorkingDays)
		assert.Equal(t, 1, deps.chain.started)
	})

	t.Run("negative not returned", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			l := returned()
			l.Status = leave.StatusPending
			return l, nil
		}

		_, err := deps.service.Resubmit(ctx, requesterID, leaveID.String(), leave.ResubmitLeaveRequest{
			StartDate: "2026-03-02",
			EndDate:   "2026-03-03",
			Reason:    "adjusted dates",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrNotReturned)
	})

	t.Run("negative not the requester", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return returned(), nil
		}

		_, err := deps.service.Resubmit(ctx, uuid.New().String(), leaveID.String(), leave.ResubmitLeaveRequest{
			StartDate: "2026-03-02",
			EndDate:   "2026-03-03",
			Reason:    "adjusted dates",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrNotRequester)
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New().String()
	leaveID := uuid.New()

	withStatus := func(status string) *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:          leaveID,
			RequesterID: uuid.MustParse(requesterID),
			LeaveType:   policy.Earned,
			Status:      status,
			Cycle:       1,
		}
	}

	t.Run("success pending cancels outright", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return withStatus(leave.StatusPending), nil
		}

		resp, err := deps.service.Cancel(ctx, requesterID, leaveID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, resp.Status)
	})

	t.Run("success approved requests cancellation", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return withStatus(leave.StatusApproved), nil
		}

		resp, err := deps.service.Cancel(ctx, requesterID, leaveID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCancellationRequested, resp.Status)
	})

	t.Run("negative already rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return withStatus(leave.StatusRejected), nil
		}

		_, err := deps.service.Cancel(ctx, requesterID, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Cancel(ctx, requesterID, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()
	leaveID := uuid.New()

	t.Run("success attaches persisted conversion details", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{
				ID:          leaveID,
				RequesterID: uuid.New(),
				LeaveType:   policy.Medical,
				Status:      leave.StatusApproved,
				Cycle:       1,
				WorkingDays: 20,
			}, nil
		}
		deps.repo.listConversionDetailsFn = func(ctx context.Context, id string, cycle int) ([]leave.ConversionDetail, error) {
			assert.Equal(t, leaveID.String(), id)
			assert.Equal(t, 1, cycle)
			return []leave.ConversionDetail{
				{LeaveType: policy.Medical, Days: 14, PolicyRef: policy.RefMedicalConversion},
				{LeaveType: policy.Earned, Days: 4, PolicyRef: policy.RefMedicalConversion},
				{LeaveType: policy.Special, Days: 2, PolicyRef: policy.RefMedicalConversion},
			}, nil
		}

		resp, err := deps.service.GetByID(ctx, leaveID.String())

		assert.NoError(t, err)
		assert.Len(t, resp.ConversionPlan, 3)
		assert.Equal(t, "MEDICAL", resp.ConversionPlan[0].LeaveType)
		assert.Equal(t, 14, resp.ConversionPlan[0].Days)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}
