package balance_test

import (
	"context"
	"database/sql"
	"testing"

	"go-lms/internal/balance"
	"go-lms/internal/policy"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeBalanceRepository struct {
	withTxFn      func(tx *sql.Tx) balance.Repository
	getFn         func(ctx context.Context, userID string, leaveType policy.LeaveType, year int) (*balance.Balance, error)
	listForUserFn func(ctx context.Context, userID string, year int) ([]balance.Balance, error)
	createFn      func(ctx context.Context, b *balance.Balance) error
	reserveFn     func(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) (bool, error)
	releaseFn     func(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) error
	addAccruedFn  func(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) error
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) balance.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeBalanceRepository) Get(ctx context.Context, userID string, leaveType policy.LeaveType, year int) (*balance.Balance, error) {
	if f.getFn != nil {
		return f.getFn(ctx, userID, leaveType, year)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceRepository) ListForUser(ctx context.Context, userID string, year int) ([]balance.Balance, error) {
	if f.listForUserFn != nil {
		return f.listForUserFn(ctx, userID, year)
	}
	return nil, nil
}

func (f *fakeBalanceRepository) Create(ctx context.Context, b *balance.Balance) error {
	if f.createFn != nil {
		return f.createFn(ctx, b)
	}
	return nil
}

func (f *fakeBalanceRepository) Reserve(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) (bool, error) {
	if f.reserveFn != nil {
		return f.reserveFn(ctx, userID, leaveType, year, days)
	}
	return true, nil
}

func (f *fakeBalanceRepository) Release(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) error {
	if f.releaseFn != nil {
		return f.releaseFn(ctx, userID, leaveType, year, days)
	}
	return nil
}

func (f *fakeBalanceRepository) AddAccrued(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) error {
	if f.addAccruedFn != nil {
		return f.addAccruedFn(ctx, userID, leaveType, year, days)
	}
	return nil
}

type balanceServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service balance.Service
	repo    *fakeBalanceRepository
}

func setupBalanceServiceTest(t *testing.T) *balanceServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeBalanceRepository{}
	svc := balance.NewService(db, repo)

	return &balanceServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
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

func TestBalanceService_Reserve(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.reserveFn = func(ctx context.Context, uid string, lt policy.LeaveType, year, days int) (bool, error) {
			assert.Equal(t, userID, uid)
			assert.Equal(t, policy.Earned, lt)
			assert.Equal(t, 2026, year)
			assert.Equal(t, 5, days)
			return true, nil
		}

		err := deps.service.Reserve(ctx, userID, policy.Earned, 2026, 5)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative insufficient balance", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.reserveFn = func(ctx context.Context, uid string, lt policy.LeaveType, year, days int) (bool, error) {
			return false, nil
		}

		err := deps.service.Reserve(ctx, userID, policy.Earned, 2026, 30)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative zero days", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		err := deps.service.Reserve(ctx, userID, policy.Earned, 2026, 0)

		assert.Error(t, err)
	})
}

func TestBalanceService_Accrue(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("earned under cap accrues whole", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.getFn = func(ctx context.Context, uid string, lt policy.LeaveType, year int) (*balance.Balance, error) {
			return &balance.Balance{
				UserID:    uuid.MustParse(userID),
				LeaveType: lt,
				Year:      year,
				Opening:   40,
				Closing:   40,
			}, nil
		}

		var accruals []struct {
			lt   policy.LeaveType
			days int
		}
		deps.repo.addAccruedFn = func(ctx context.Context, uid string, lt policy.LeaveType, year, days int) error {
			accruals = append(accruals, struct {
				lt   policy.LeaveType
				days int
			}{lt, days})
			return nil
		}

		_, err := deps.service.Accrue(ctx, balance.AccrueRequest{
			UserID:    userID,
			LeaveType: "EARNED",
			Year:      2026,
			Days:      10,
		})

		assert.NoError(t, err)
		assert.Len(t, accruals, 1)
		assert.Equal(t, policy.Earned, accruals[0].lt)
		assert.Equal(t, 10, accruals[0].days)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("earned overflow transfers to special", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.getFn = func(ctx context.Context, uid string, lt policy.LeaveType, year int) (*balance.Balance, error) {
			return &balance.Balance{
				UserID:    uuid.MustParse(userID),
				LeaveType: lt,
				Year:      year,
				Closing:   57,
			}, nil
		}

		accrued := map[policy.LeaveType]int{}
		deps.repo.addAccruedFn = func(ctx context.Context, uid string, lt policy.LeaveType, year, days int) error {
			accrued[lt] += days
			return nil
		}

		_, err := deps.service.Accrue(ctx, balance.AccrueRequest{
			UserID:    userID,
			LeaveType: "EARNED",
			Year:      2026,
			Days:      10,
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, accrued[policy.Earned])
		assert.Equal(t, 7, accrued[policy.Special])
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("casual accrual has no cap", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		accrued := map[policy.LeaveType]int{}
		deps.repo.addAccruedFn = func(ctx context.Context, uid string, lt policy.LeaveType, year, days int) error {
			accrued[lt] += days
			return nil
		}

		_, err := deps.service.Accrue(ctx, balance.AccrueRequest{
			UserID:    userID,
			LeaveType: "CASUAL",
			Year:      2026,
			Days:      10,
		})

		assert.NoError(t, err)
		assert.Equal(t, 10, accrued[policy.Casual])
		assert.Zero(t, accrued[policy.Special])
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unknown type", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Accrue(ctx, balance.AccrueRequest{
			UserID:    userID,
			LeaveType: "VACATION",
			Year:      2026,
			Days:      1,
		})

		assert.Error(t, err)
	})
}

func TestBalanceService_GetBalance(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.getFn = func(ctx context.Context, uid string, lt policy.LeaveType, year int) (*balance.Balance, error) {
			return &balance.Balance{
				UserID:    uuid.MustParse(userID),
				LeaveType: lt,
				Year:      year,
				Opening:   10,
				Accrued:   5,
				Used:      3,
				Closing:   12,
			}, nil
		}

		resp, err := deps.service.GetBalance(ctx, userID, policy.Earned, 2026)

		assert.NoError(t, err)
		assert.Equal(t, 12, resp.Closing)
		assert.Equal(t, resp.Opening+resp.Accrued-resp.Used, resp.Closing)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetBalance(ctx, userID, policy.Earned, 2026)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}
