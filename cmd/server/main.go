package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/KunjGarala/Dayflow/config"
	"github.com/KunjGarala/Dayflow/internal/api/handler"
	"github.com/KunjGarala/Dayflow/internal/api/router"
	"github.com/KunjGarala/Dayflow/internal/repository"
	"github.com/KunjGarala/Dayflow/internal/scheduler"
	"github.com/KunjGarala/Dayflow/internal/service"
	"github.com/KunjGarala/Dayflow/pkg/database"
	"github.com/KunjGarala/Dayflow/pkg/jwt"
	applogger "github.com/KunjGarala/Dayflow/pkg/logger"
	"github.com/KunjGarala/Dayflow/pkg/redis"
	"github.com/KunjGarala/Dayflow/pkg/telemetry"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("DAYFLOW_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("attendance_timezone", cfg.Attendance.Timezone),
	)

	// 3. 链路追踪（未配置 endpoint 时为空操作）
	shutdownTracing := telemetry.Setup(context.Background(), &cfg.Telemetry, logger)

	// 4. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 4.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 5. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，登录限流与自动签退分布式锁将不可用", zap.Error(err))
		rdb = nil
	}

	// 6. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 7. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, logger)
	h := handler.NewHandler(cfg, svc)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 9. 自动签退后台任务
	bgCtx, stopBackground := context.WithCancel(context.Background())
	var bg sync.WaitGroup
	if cfg.Attendance.SweepEnabled {
		job, err := scheduler.NewAutoCheckout(svc.Attendance, &cfg.Attendance, rdb, applogger.Named(logger, "auto_checkout"))
		if err != nil {
			logger.Fatal("初始化自动签退任务失败", zap.Error(err))
		}
		bg.Add(1)
		go func() {
			defer bg.Done()
			job.Run(bgCtx)
		}()
	} else {
		logger.Info("自动签退任务已禁用")
	}

	// 10. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      otelhttp.NewHandler(engine, cfg.Telemetry.ServiceName),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 11. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	stopBackground()
	bg.Wait()

	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("关闭链路追踪导出器失败", zap.Error(err))
	}

	// 关闭数据库连接
	if err := sqlDB.Close(); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}

	// 关闭 Redis 连接
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("服务器已关闭")
}
