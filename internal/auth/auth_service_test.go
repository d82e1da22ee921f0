package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"go-lms/internal/auth"
	autherrors "go-lms/internal/auth/errors"
	"go-lms/internal/domain"
	"go-lms/internal/employee"
)

type fakeAuthRepository struct {
	getByEmailFn func(ctx context.Context, email string) (*auth.User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*auth.User, error)
	createFn     func(ctx context.Context, user *auth.User) error

	created *auth.User
}

func (f *fakeAuthRepository) Create(ctx context.Context, user *auth.User) error {
	f.created = user
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	return nil
}

func (f *fakeAuthRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return f.getByEmailFn(ctx, email)
}

func (f *fakeAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return f.getByIDFn(ctx, id)
}

type fakeEmployeeRepository struct {
	employees map[string]*employee.Employee
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error { return nil }

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if e, ok := f.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByRole(ctx context.Context, role string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error { return nil }

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	pw, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	assert.NoError(t, err)
	return string(pw)
}

func TestAuthService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	user := &auth.User{
		ID:         uuid.New(),
		EmployeeID: uuid.New(),
		Email:      "ana@corp.test",
		Name:       "Ana",
		Password:   hashPassword(t, "password123"),
		Role:       domain.RoleHRAdmin,
	}

	t.Run("success", func(t *testing.T) {
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return user, nil
			},
		}
		service := auth.NewService(repo, &fakeEmployeeRepository{})

		accessToken, refreshToken, resp, err := service.Login(ctx, user.Email, "password123")

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, user.Email, resp.Email)
		assert.Equal(t, domain.RoleHRAdmin, resp.Role)
		assert.Equal(t, user.EmployeeID.String(), resp.EmployeeID)
	})

	t.Run("negative - wrong password", func(t *testing.T) {
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return user, nil
			},
		}
		service := auth.NewService(repo, &fakeEmployeeRepository{})

		_, _, _, err := service.Login(ctx, user.Email, "wrong-password")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative - unknown email maps to the same error", func(t *testing.T) {
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		service := auth.NewService(repo, &fakeEmployeeRepository{})

		_, _, _, err := service.Login(ctx, "nobody@corp.test", "password123")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	user := &auth.User{
		ID:         uuid.New(),
		EmployeeID: uuid.New(),
		Email:      "ben@corp.test",
		Name:       "Ben",
		Password:   hashPassword(t, "password123"),
		Role:       domain.RoleDeptHead,
	}

	repo := &fakeAuthRepository{
		getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			return user, nil
		},
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := auth.NewService(repo, &fakeEmployeeRepository{})

	t.Run("success", func(t *testing.T) {
		_, refreshToken, _, err := service.Login(ctx, user.Email, "password123")
		assert.NoError(t, err)

		newAccess, newRefresh, resp, err := service.RefreshToken(ctx, refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, user.ID.String(), resp.ID)
		assert.Equal(t, domain.RoleDeptHead, resp.Role)
	})

	t.Run("negative - garbage token", func(t *testing.T) {
		_, _, _, err := service.RefreshToken(ctx, "not-a-jwt")

		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	employeeID := uuid.New()
	employees := &fakeEmployeeRepository{
		employees: map[string]*employee.Employee{
			employeeID.String(): {
				ID:       employeeID,
				FullName: "Cara",
				Role:     domain.RoleEmployee,
			},
		},
	}

	t.Run("success", func(t *testing.T) {
		repo := &fakeAuthRepository{}
		service := auth.NewService(repo, employees)

		resp, err := service.Register(ctx, auth.RegisterRequest{
			EmployeeID: employeeID.String(),
			Email:      "cara@corp.test",
			Name:       "Cara",
			Password:   "password123",
		})

		assert.NoError(t, err)
		assert.Equal(t, employeeID.String(), resp.EmployeeID)
		assert.Equal(t, domain.RoleEmployee, resp.Role)
		assert.NotNil(t, repo.created)
		// Stored hash must verify against the plain password.
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.Password), []byte("password123")))
	})

	t.Run("negative - employee does not exist", func(t *testing.T) {
		repo := &fakeAuthRepository{}
		service := auth.NewService(repo, employees)

		_, err := service.Register(ctx, auth.RegisterRequest{
			EmployeeID: uuid.NewString(),
			Email:      "ghost@corp.test",
			Name:       "Ghost",
			Password:   "password123",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmployeeNotFound)
		assert.Nil(t, repo.created)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("negative - malformed user id", func(t *testing.T) {
		service := auth.NewService(&fakeAuthRepository{}, &fakeEmployeeRepository{})

		_, err := service.GetMe(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})

	t.Run("negative - user gone", func(t *testing.T) {
		repo := &fakeAuthRepository{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		service := auth.NewService(repo, &fakeEmployeeRepository{})

		_, err := service.GetMe(ctx, uuid.NewString())

		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}
