// Package cmd 实现 hrctl 运维命令行：数据库迁移、手动补跑自动签退、生成密码哈希。
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KunjGarala/Dayflow/config"
	"github.com/KunjGarala/Dayflow/pkg/database"
	applogger "github.com/KunjGarala/Dayflow/pkg/logger"
)

var (
	// Version 构建时通过 -ldflags 注入
	Version = "dev"

	configPath string

	okFmt   = color.New(color.FgGreen).SprintFunc()
	warnFmt = color.New(color.FgYellow).SprintFunc()
	errFmt  = color.New(color.FgRed, color.Bold).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "hrctl",
	Short: "Dayflow 运维命令行",
	Long: `hrctl 用于 Dayflow 后端的日常运维：

  migrate    执行或回滚数据库迁移
  sweep      为指定日期补跑自动签退
  hash-password  生成 bcrypt 密码哈希（手工修复账号时使用）`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认 ./config/config.yaml）")
}

// Execute 运行根命令
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), errFmt("错误:"), err)
	}
	return err
}

// env 命令运行所需的配置、日志与数据库连接
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func (e *env) close() {
	if e.db != nil {
		if sqlDB, err := e.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = e.logger.Sync()
}

// openEnv 加载配置并连接数据库
func openEnv() (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, err
	}
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	return &env{cfg: cfg, logger: logger, db: db}, nil
}
