package payroll

import (
	"github.com/gin-gonic/gin"

	"go-lms/internal/middleware"
	"go-lms/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	idempotency *middleware.IdempotencyMiddleware,
) {
	payrolls := r.Group("/payroll")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.POST("/periods",
			middleware.RBACAuthorize(rbacService, "payroll", "manage"),
			idempotency.Handle(),
			handler.BuildPeriod,
		)
		payrolls.GET("/periods/:year/:month",
			middleware.RBACAuthorize(rbacService, "payroll", "read"),
			handler.GetPeriod,
		)
	}
}
