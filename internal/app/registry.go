package app

import (
	"database/sql"

	"go-hrpay/internal/attendance"
	"go-hrpay/internal/employment"
	"go-hrpay/internal/holiday"
	"go-hrpay/internal/leave"
	"go-hrpay/internal/messaging/kafka"
	"go-hrpay/internal/rbac"
	"go-hrpay/internal/rbac/infra"
	"go-hrpay/internal/rbac/rbac_http"
	"go-hrpay/internal/schedule"
	"go-hrpay/internal/shared/counter"
	"go-hrpay/internal/workcal"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	employmentRepo := employment.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	scheduleRepo := schedule.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)
	rbacManagement := rbac.NewManagementService(rbacRepo)

	// --- Services ---
	employmentService := employment.NewService(db, employmentRepo, counterRepo, outboxRepo, rdb)
	scheduleService := schedule.NewService(scheduleRepo)
	holidayService := holiday.NewService(holidayRepo)
	workingDays := workcal.NewCalculator(holidayRepo)

	balanceEngine := leave.NewBalanceEngine(leave.DefaultEntitlementPolicy(), leaveRepo)
	leaveService := leave.NewService(db, leaveRepo, balanceEngine, employmentService, workingDays, counterRepo, outboxRepo, rdb)

	attendanceService := attendance.NewService(db, attendanceRepo, scheduleService, employmentService, outboxRepo)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	employmentHandler := employment.NewHandler(employmentService)
	holidayHandler := holiday.NewHandler(holidayService)
	leaveHandler := leave.NewHandler(leaveService)
	scheduleHandler := schedule.NewHandler(scheduleService)
	rbacHandler := rbac.NewHandler(rbacService, rbacManagement)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		employment.RegisterRoutes(api, employmentHandler, rbacService, logger)
		holiday.RegisterRoutes(api, holidayHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		schedule.RegisterRoutes(api, scheduleHandler, rbacService)
		rbac_http.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
