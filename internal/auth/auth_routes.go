package auth

import (
	"github.com/gin-gonic/gin"

	"go-lms/internal/domain"
	"go-lms/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		auth.GET("/me", middleware.AuthMiddleware(), middleware.RateLimitByUser(2, 5), handler.Me)
		auth.POST("/login", middleware.RateLimitByIP(0.1, 5), handler.Login)
		auth.POST("/refresh", handler.RefreshToken)
		auth.POST("/logout", middleware.AuthMiddleware(), handler.Logout)

		// Account provisioning is an HR task, not self-service signup.
		auth.POST("/register",
			middleware.AuthMiddleware(),
			middleware.RoleMiddleware(domain.RoleHRAdmin, domain.RoleHRHead),
			handler.Register,
		)
	}
}
