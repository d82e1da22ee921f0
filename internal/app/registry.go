package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"go-lms/internal/approval"
	"go-lms/internal/auth"
	"go-lms/internal/balance"
	"go-lms/internal/employee"
	"go-lms/internal/encashment"
	"go-lms/internal/holiday"
	"go-lms/internal/leave"
	"go-lms/internal/messaging/kafka"
	"go-lms/internal/middleware"
	"go-lms/internal/payroll"
	"go-lms/internal/rbac"
	"go-lms/internal/rbac/infra"
	"go-lms/internal/workday"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	approvalRepo := approval.NewRepository(gormDB)
	encashmentRepo := encashment.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	calc := workday.New()

	employeeService := employee.NewService(employeeRepo)
	holidayService := holiday.NewService(holidayRepo)
	balanceService := balance.NewService(db, balanceRepo)
	authService := auth.NewService(authRepo, employeeRepo)

	approvalService := approval.NewService(
		db,
		approvalRepo,
		leaveRepo,
		balanceRepo,
		outboxRepo,
		employeeService,
		holidayService,
		calc,
	)
	leaveService := leave.NewService(
		db,
		leaveRepo,
		balanceRepo,
		holidayService,
		calc,
		approvalService,
	)
	encashmentService := encashment.NewService(
		db,
		encashmentRepo,
		balanceRepo,
		outboxRepo,
		employeeService,
	)
	payrollService := payroll.NewService(
		db,
		payrollRepo,
		leaveRepo,
		encashmentRepo,
		employeeRepo,
		outboxRepo,
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	holidayHandler := holiday.NewHandler(holidayService)
	balanceHandler := balance.NewHandler(balanceService)
	leaveHandler := leave.NewHandler(leaveService)
	approvalHandler := approval.NewHandler(approvalService)
	encashmentHandler := encashment.NewHandler(encashmentService)
	payrollHandler := payroll.NewHandler(payrollService)
	rbacHandler := rbac.NewHandler(rbacService)

	idempotency := middleware.NewIdempotencyMiddleware(rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		holiday.RegisterRoutes(api, holidayHandler, rbacService)
		balance.RegisterRoutes(api, balanceHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		approval.RegisterRoutes(api, approvalHandler, rbacService)
		encashment.RegisterRoutes(api, encashmentHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, idempotency)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
