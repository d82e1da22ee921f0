package middleware

import (
	"net/http"

	"go-lms/internal/domain"
	"go-lms/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is the slice of the rbac service this middleware needs.
// Declared locally so middleware does not import the rbac package.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

// RBACAuthorize gates a route on a resource/action pair. AuthMiddleware
// must run first so employee_id and role are present in the context.
func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID := c.GetString("employee_id")
		role := c.GetString("role")

		if employeeID == "" || role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			EmployeeID: employeeID,
			Role:       role,
			Resource:   resource,
			Action:     action,
		})
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "RBAC_ERROR", "Authorization check failed", nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this resource", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
