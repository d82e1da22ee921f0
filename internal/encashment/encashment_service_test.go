package encashment_test

import (
	"context"
	"database/sql"
	"testing"

	"go-lms/internal/balance"
	balanceerrors "go-lms/internal/balance/errors"
	"go-lms/internal/domain"
	"go-lms/internal/encashment"
	encashmenterrors "go-lms/internal/encashment/errors"
	"go-lms/internal/messaging/kafka"
	"go-lms/internal/policy"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEncashmentRepository struct {
	created      *encashment.EncashmentRequest
	stored       *encashment.EncashmentRequest
	transitions  []string
	transitionFn func(ctx context.Context, id, from, to string, reason *string) (bool, error)
}

func (f *fakeEncashmentRepository) WithTx(tx *sql.Tx) encashment.Repository { return f }

func (f *fakeEncashmentRepository) Create(ctx context.Context, e *encashment.EncashmentRequest) error {
	f.created = e
	return nil
}

func (f *fakeEncashmentRepository) FindByID(ctx context.Context, id string) (*encashment.EncashmentRequest, error) {
	if f.stored == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f.stored
	return &cp, nil
}

func (f *fakeEncashmentRepository) FindAllByEmployee(ctx context.Context, employeeID string) ([]encashment.EncashmentRequest, error) {
	return nil, nil
}

func (f *fakeEncashmentRepository) FindAllByStatus(ctx context.Context, status string) ([]encashment.EncashmentRequest, error) {
	return nil, nil
}

func (f *fakeEncashmentRepository) FindPaidInYear(ctx context.Context, year int) ([]encashment.EncashmentRequest, error) {
	return nil, nil
}

func (f *fakeEncashmentRepository) TransitionStatus(ctx context.Context, id, from, to string, reason *string) (bool, error) {
	if f.transitionFn != nil {
		return f.transitionFn(ctx, id, from, to, reason)
	}
	f.transitions = append(f.transitions, from+">"+to)
	return true, nil
}

type fakeBalanceRepository struct {
	earnedClosing int
	reserveOK     bool
	reserved      int
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) balance.Repository { return f }

func (f *fakeBalanceRepository) Get(ctx context.Context, userID string, leaveType policy.LeaveType, year int) (*balance.Balance, error) {
	if f.earnedClosing < 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &balance.Balance{LeaveType: leaveType, Year: year, Closing: f.earnedClosing}, nil
}

func (f *fakeBalanceRepository) ListForUser(ctx context.Context, userID string, year int) ([]balance.Balance, error) {
	return nil, nil
}

func (f *fakeBalanceRepository) Create(ctx context.Context, b *balance.Balance) error { return nil }

func (f *fakeBalanceRepository) Reserve(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) (bool, error) {
	if !f.reserveOK {
		return false, nil
	}
	f.reserved += days
	return true, nil
}

func (f *fakeBalanceRepository) Release(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) error {
	return nil
}

func (f *fakeBalanceRepository) AddAccrued(ctx context.Context, userID string, leaveType policy.LeaveType, year, days int) error {
	return nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeRoleLookup struct {
	roles map[string]string
}

func (f *fakeRoleLookup) RoleOf(ctx context.Context, id string) (string, error) {
	return f.roles[id], nil
}

type encashmentServiceDeps struct {
	db          *sql.DB
	sqlMock     sqlmock.Sqlmock
	service     encashment.Service
	repo        *fakeEncashmentRepository
	balanceRepo *fakeBalanceRepository
	outboxRepo  *fakeOutboxRepository
	roles       *fakeRoleLookup
}

func setupEncashmentServiceTest(t *testing.T) *encashmentServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeEncashmentRepository{}
	balanceRepo := &fakeBalanceRepository{earnedClosing: 30, reserveOK: true}
	outboxRepo := &fakeOutboxRepository{}
	roles := &fakeRoleLookup{roles: map[string]string{}}
	svc := encashment.NewService(db, repo, balanceRepo, outboxRepo, roles)

	return &encashmentServiceDeps{
		db:          db,
		sqlMock:     sqlMock,
		service:     svc,
		repo:        repo,
		balanceRepo: balanceRepo,
		outboxRepo:  outboxRepo,
		roles:       roles,
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

func TestEncashmentService_Create(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("success captures closing balance", func(t *testing.T) {
		deps := setupEncashmentServiceTest(t)
		defer deps.db.Close()

		resp, err := deps.service.Create(ctx, employeeID, encashment.CreateEncashmentRequest{
			Year: 2026,
			Days: 10,
		})

		assert.NoError(t, err)
		assert.Equal(t, encashment.StatusPending, resp.Status)
		assert.Equal(t, 30, resp.BalanceAtRequest)
		assert.NotNil(t, deps.repo.created)
	})

	t.Run("negative more days than closing", func(t *testing.T) {
		deps := setupEncashmentServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, employeeID, encashment.CreateEncashmentRequest{
			Year: 2026,
			Days: 31,
		})

		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
	})

	t.Run("negative no earned balance row", func(t *testing.T) {
		deps := setupEncashmentServiceTest(t)
		defer deps.db.Close()

		deps.balanceRepo.earnedClosing = -1
		_, err := deps.service.Create(ctx, employeeID, encashment.CreateEncashmentRequest{
			Year: 2026,
			Days: 5,
		})

		assert.ErrorIs(t, err, balanceerrors.ErrBalanceNotFound)
	})
}

func TestEncashmentService_Approve(t *testing.T) {
	ctx := context.Background()
	approverID := uuid.New().String()

	pendingRequest := func() *encashment.EncashmentRequest {
		return &encashment.EncashmentRequest{
			ID:            uuid.New(),
			EmployeeID:    uuid.New(),
			Year:          2026,
			DaysRequested: 10,
			Status:        encashment.StatusPending,
		}
	}

	t.Run("success reserves earned days", func(t *testing.T) {
		deps := setupEncashmentServiceTest(t)
		defer deps.db.Close()

		deps.repo.stored = pendingRequest()
		deps.roles.roles[approverID] = domain.RoleHRHead

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.Approve(ctx, approverID, deps.repo.stored.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, encashment.StatusApproved, resp.Status)
		assert.Equal(t, 10, deps.balanceRepo.reserved)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative reservation race rolls back", func(t *testing.T) {
		deps := setupEncashmentServiceTest(t)
		defer deps.db.Close()

		deps.repo.stored = pendingRequest()
		deps.roles.roles[approverID] = domain.RoleHRAdmin
		deps.balanceRepo.reserveOK = false

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.Approve(ctx, approverID, deps.repo.stored.ID.String())

		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative non-hr approver", func(t *testing.T) {
		deps := setupEncashmentServiceTest(t)
		defer deps.db.Close()

		deps.repo.stored = pendingRequest()
		deps.roles.roles[approverID] = domain.RoleEmployee

		_, err := deps.service.Approve(ctx, approverID, deps.repo.stored.ID.String())

		assert.ErrorIs(t, err, encashmenterrors.ErrNotPermitted)
	})

	t.Run("negative already approved", func(t *testing.T) {
		deps := setupEncashmentServiceTest(t)
		defer deps.db.Close()

		req := pendingRequest()
		req.Status = encashment.StatusApproved
		deps.repo.stored = req
		deps.roles.roles[approverID] = domain.RoleHRHead

		_, err := deps.service.Approve(ctx, approverID, req.ID.String())

		assert.ErrorIs(t, err, encashmenterrors.ErrNotPending)
	})
}

func TestEncashmentService_MarkPaid(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("success emits paid event", func(t *testing.T) {
		deps := setupEncashmentServiceTest(t)
		defer deps.db.Close()

		deps.repo.stored = &encashment.EncashmentRequest{
			ID:            uuid.New(),
			EmployeeID:    uuid.New(),
			Year:          2026,
			DaysRequested: 10,
			Status:        encashment.StatusApproved,
		}
		deps.roles.roles[actorID] = domain.RoleHRAdmin

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.MarkPaid(ctx, actorID, deps.repo.stored.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, encashment.StatusPaid, resp.Status)
		assert.Len(t, deps.outboxRepo.created, 1)
	})

	t.Run("negative pending request cannot be paid", func(t *testing.T) {
		deps := setupEncashmentServiceTest(t)
		defer deps.db.Close()

		deps.repo.stored = &encashment.EncashmentRequest{
			ID:     uuid.New(),
			Status: encashment.StatusPending,
		}
		deps.roles.roles[actorID] = domain.RoleHRAdmin

		_, err := deps.service.MarkPaid(ctx, actorID, deps.repo.stored.ID.String())

		assert.ErrorIs(t, err, encashmenterrors.ErrNotApproved)
	})
}
