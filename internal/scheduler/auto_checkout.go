// Package scheduler 后台定时任务
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/KunjGarala/Dayflow/config"
	"github.com/KunjGarala/Dayflow/internal/service"
	"github.com/KunjGarala/Dayflow/pkg/redis"
	"github.com/KunjGarala/Dayflow/pkg/workday"
)

const (
	lockTTL    = 10 * time.Minute
	lockPrefix = "auto_checkout:"
)

// Sweeper 执行某日的自动签退
type Sweeper interface {
	AutoCloseSweep(ctx context.Context, day, cutoff time.Time) (*service.SweepResult, error)
}

// AutoCheckout 每日在截止时刻为当天未签退的记录自动签退
//
// 多实例部署时以 Redis 锁保证同一日只有一个实例执行；未配置 Redis 时直接执行，
// 依赖 AutoCloseSweep 的条件更新保证重复执行无副作用。
type AutoCheckout struct {
	sweeper Sweeper
	rdb     *redis.Client
	loc     *time.Location
	hour    int
	minute  int
	now     func() time.Time
	after   func(time.Duration) <-chan time.Time
	logger  *zap.Logger
}

// NewAutoCheckout 创建自动签退任务；rdb 可为 nil
func NewAutoCheckout(sweeper Sweeper, cfg *config.AttendanceConfig, rdb *redis.Client, logger *zap.Logger) (*AutoCheckout, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	hour, minute, err := cfg.CutoffClock()
	if err != nil {
		return nil, err
	}
	return &AutoCheckout{
		sweeper: sweeper,
		rdb:     rdb,
		loc:     loc,
		hour:    hour,
		minute:  minute,
		now:     time.Now,
		after:   time.After,
		logger:  logger,
	}, nil
}

// Cutoff 某日的截止时刻
func (a *AutoCheckout) Cutoff(day time.Time) time.Time {
	return workday.At(day, a.hour, a.minute, a.loc)
}

// NextRun now 之后（不含）最近一次截止时刻及其所属日期
func (a *AutoCheckout) NextRun(now time.Time) (time.Time, time.Time) {
	day := workday.DateOf(now, a.loc)
	cutoff := a.Cutoff(day)
	if !cutoff.After(now) {
		day = day.AddDate(0, 0, 1)
		cutoff = a.Cutoff(day)
	}
	return day, cutoff
}

// Run 阻塞运行直到 ctx 取消
// 启动时先补跑前一日；若当日截止时刻已过也立即补跑当日
func (a *AutoCheckout) Run(ctx context.Context) {
	a.logger.Info("自动签退任务已启动",
		zap.String("timezone", a.loc.String()),
		zap.Int("hour", a.hour),
		zap.Int("minute", a.minute),
	)

	now := a.now()
	today := workday.DateOf(now, a.loc)
	a.runLogged(ctx, today.AddDate(0, 0, -1))
	if !a.Cutoff(today).After(now) {
		a.runLogged(ctx, today)
	}

	for {
		day, cutoff := a.NextRun(a.now())
		wait := cutoff.Sub(a.now())
		if wait < 0 {
			wait = 0
		}

		select {
		case <-ctx.Done():
			a.logger.Info("自动签退任务已停止")
			return
		case <-a.after(wait):
			a.runLogged(ctx, day)
		}
	}
}

func (a *AutoCheckout) runLogged(ctx context.Context, day time.Time) {
	if _, err := a.RunOnce(ctx, day); err != nil && ctx.Err() == nil {
		a.logger.Error("自动签退执行失败",
			zap.String("date", day.Format(workday.DateLayout)),
			zap.Error(err),
		)
	}
}

// RunOnce 对 day 执行一次自动签退；其他实例持有锁时返回 (nil, nil)
func (a *AutoCheckout) RunOnce(ctx context.Context, day time.Time) (*service.SweepResult, error) {
	day = workday.Normalize(day)

	if a.rdb != nil {
		lock, err := a.rdb.AcquireLock(ctx, lockPrefix+day.Format(workday.DateLayout), lockTTL)
		if err != nil {
			// Redis 不可用时降级为直接执行
			a.logger.Warn("获取自动签退锁失败，直接执行", zap.Error(err))
		} else if lock == nil {
			a.logger.Info("其他实例正在执行自动签退，跳过", zap.String("date", day.Format(workday.DateLayout)))
			return nil, nil
		} else {
			defer func() {
				if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
					a.logger.Warn("释放自动签退锁失败", zap.Error(err))
				}
			}()
		}
	}

	return a.sweeper.AutoCloseSweep(ctx, day, a.Cutoff(day))
}
