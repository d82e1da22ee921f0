package encashment

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
	encashments := r.Group("/encashments")
	encashments.Use(middleware.AuthMiddleware())
	{
		encashments.POST("", middleware.RBACAuthorize(rbacService, "encashment", "create"), handler.Create)
		encashments.GET("", middleware.RBACAuthorize(rbacService, "encashment", "read"), handler.GetMine)
		encashments.GET("/status", middleware.RBACAuthorize(rbacService, "encashment", "manage"), handler.GetByStatus)
		encashments.GET("/:id", middleware.RBACAuthorize(rbacService, "encashment", "read"), handler.GetById)
		encashments.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "encashment", "manage"), handler.Approve)
		encashments.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "encashment", "manage"), handler.Reject)
		encashments.POST("/:id/pay", middleware.RBACAuthorize(rbacService, "encashment", "manage"), handler.MarkPaid)
	}
}
