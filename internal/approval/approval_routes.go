package approval

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
	approvals := r.Group("/approvals")
	approvals.Use(middleware.AuthMiddleware())
	{
		approvals.GET("/pending", middleware.RBACAuthorize(rbacService, "approval", "decide"), handler.ListPending)
		approvals.GET("/leave/:id", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.ListForLeave)
		approvals.POST("/leave/:id/decide", middleware.RBACAuthorize(rbacService, "approval", "decide"), handler.Decide)
		approvals.POST("/leave/:id/recall", middleware.RBACAuthorize(rbacService, "approval", "decide"), handler.Recall)
		approvals.POST("/leave/:id/certificate", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.SubmitCertificate)
		approvals.POST("/leave/:id/certificate/decide", middleware.RBACAuthorize(rbacService, "approval", "decide"), handler.DecideCertificate)
	}
}
