package balance

import (
	"github.com/gin-gonic/gin"

	"go-lms/internal/middleware"
	"go-lms/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/:userId", middleware.RBACAuthorize(rbacService, "balance", "read"), handler.GetForUser)
		balances.GET("/:userId/:type", middleware.RBACAuthorize(rbacService, "balance", "read"), handler.GetOne)
		balances.POST("", middleware.RBACAuthorize(rbacService, "balance", "manage"), handler.Open)
		balances.POST("/accrue", middleware.RBACAuthorize(rbacService, "balance", "manage"), handler.Accrue)
	}
}
