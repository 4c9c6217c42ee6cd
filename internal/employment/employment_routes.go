package employment

import (
	"go-hrpay/internal/middleware"
	"go-hrpay/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	employments := r.Group("/employments")
	employments.Use(middleware.AuthMiddleware())
	employments.Use(middleware.ContextLogger(logger))
	{
		employments.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "employment", "read"),
			handler.GetAll,
		)

		employments.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "employment", "read"),
			handler.GetById,
		)

		employments.POST("",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "employment", "create"),
			handler.Create,
		)

		employments.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "employment", "update"),
			handler.Update,
		)

		employments.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "employment", "delete"),
			handler.Delete,
		)
	}
}
