package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KunjGarala/Dayflow/config"
	"github.com/KunjGarala/Dayflow/internal/api/handler"
	"github.com/KunjGarala/Dayflow/internal/api/middleware"
	"github.com/KunjGarala/Dayflow/internal/auth"
	"github.com/KunjGarala/Dayflow/pkg/jwt"
	"github.com/KunjGarala/Dayflow/pkg/redis"
)

// maxBodyBytes 请求体上限；所有接口均为小型 JSON
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎；rdb 可为 nil（登录限流降级放行）
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.Authenticate(jwtMgr, cfg.Auth.Cookie.Name, logger))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	hrOnly := middleware.RequireRole(auth.RoleHR)
	employeeOnly := middleware.RequireRole(auth.RoleEmployee)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login",
				middleware.RateLimit(rdb, cfg.RateLimit.LoginPerMinute, time.Minute, logger),
				h.Auth.Login)
			authGroup.POST("/logout", h.Auth.Logout)
			authGroup.GET("/me", middleware.RequireAuth(), h.Auth.Me)
			authGroup.PUT("/password", middleware.RequireAuth(), h.Auth.ChangePassword)
		}

		// HR 账号与员工管理
		hr := v1.Group("/hr")
		{
			hr.POST("/signup", h.Hr.Signup)
			hr.GET("/profile", hrOnly, h.Hr.Profile)

			employees := hr.Group("/employees", hrOnly)
			{
				employees.POST("", h.Employee.Create)
				employees.GET("", h.Employee.List)
				employees.GET("/:id", h.Employee.Get)
			}

			// HR 考勤视图
			attendance := hr.Group("/attendance", hrOnly)
			{
				attendance.GET("/employees", h.Attendance.ListEmployees)
				attendance.GET("/employee/:id", h.Attendance.ListEmployee)
				attendance.GET("/summary/:year/:month", h.Attendance.MonthlySummary)
				attendance.GET("/daily", h.Attendance.DailyReport)
				attendance.GET("/export/:year/:month", h.Export.ExportMonthly)
			}
		}

		// 员工考勤
		empAttendance := v1.Group("/employee/attendance", employeeOnly)
		{
			empAttendance.POST("/check-in", h.Attendance.CheckIn)
			empAttendance.POST("/check-out", h.Attendance.CheckOut)
			empAttendance.GET("/today", h.Attendance.Today)
			empAttendance.GET("/can-check-in", h.Attendance.CanCheckIn)
			empAttendance.GET("/current-month", h.Attendance.CurrentMonth)
			empAttendance.GET("/monthly/:year/:month", h.Attendance.Monthly)
			empAttendance.GET("/summary/:year/:month", h.Attendance.Summary)
		}

		// 请假模块
		leaves := v1.Group("/leave-requests")
		{
			// 员工侧
			leaves.POST("", employeeOnly, h.Leave.Create)
			leaves.GET("/my-leaves", employeeOnly, h.Leave.ListMine)
			leaves.GET("/my-leaves/:id", employeeOnly, h.Leave.GetMine)
			leaves.GET("/stats", employeeOnly, h.Leave.Stats)
			leaves.GET("/calendar.ics", employeeOnly, h.Leave.Calendar)
			leaves.PUT("/:id/cancel", employeeOnly, h.Leave.Cancel)

			// HR 侧
			leaves.GET("", hrOnly, h.Leave.ListAll)
			leaves.GET("/pending", hrOnly, h.Leave.ListPending)
			leaves.GET("/filter", hrOnly, h.Leave.Filter)
			leaves.GET("/:id", hrOnly, h.Leave.Get)
			leaves.PUT("/:id/status", hrOnly, h.Leave.Decide)
		}
	}

	return r
}
