package rbac

import (
	"github.com/gin-gonic/gin"

	"go-lms/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service Service) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/enforce", handler.Enforce)

		group.GET("/permissions", middleware.RBACAuthorize(service, "role", "manage"), handler.ListPermissions)
		group.GET("/roles/:role/permissions", middleware.RBACAuthorize(service, "role", "read"), handler.GetRolePermissions)
		group.PUT("/roles/:role/permissions", middleware.RBACAuthorize(service, "role", "manage"), handler.UpdateRolePermissions)
	}
}
