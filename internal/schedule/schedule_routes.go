package schedule

import (
	"go-hrpay/internal/middleware"
	"go-hrpay/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	schedules := r.Group("/schedules")
	schedules.Use(middleware.AuthMiddleware())
	{
		schedules.PUT("", middleware.RBACAuthorize(rbacService, "schedule", "update"), handler.Upsert)
		schedules.GET("/:employeeId", middleware.RBACAuthorize(rbacService, "schedule", "read"), handler.GetForEmployee)
		schedules.DELETE("/:employeeId/:weekday", middleware.RBACAuthorize(rbacService, "schedule", "delete"), handler.Delete)
	}
}
