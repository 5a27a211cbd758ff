package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KunjGarala/Dayflow/internal/repository"
	"github.com/KunjGarala/Dayflow/internal/scheduler"
	"github.com/KunjGarala/Dayflow/internal/service"
	applogger "github.com/KunjGarala/Dayflow/pkg/logger"
	"github.com/KunjGarala/Dayflow/pkg/workday"
)

var sweepDate string

func init() {
	sweepCmd.Flags().StringVarP(&sweepDate, "date", "d", "", "考勤日期 YYYY-MM-DD（默认考勤时区下的昨天）")
	rootCmd.AddCommand(sweepCmd)
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "为指定日期补跑自动签退",
	Long: `将指定日期仍未签退的记录按配置的截止时刻签退。重复执行不会产生副作用。

Examples:
  hrctl sweep
  hrctl sweep --date 2025-03-10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		loc, err := e.cfg.Attendance.Location()
		if err != nil {
			return err
		}
		day, err := resolveSweepDate(sweepDate, time.Now(), loc)
		if err != nil {
			return err
		}

		repo := repository.NewRepository(e.db)
		attendance := service.NewAttendanceService(repo, loc, e.logger)
		job, err := scheduler.NewAutoCheckout(attendance, &e.cfg.Attendance, nil, applogger.Named(e.logger, "auto_checkout"))
		if err != nil {
			return err
		}

		res, err := job.RunOnce(cmd.Context(), day)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if res == nil {
			fmt.Fprintln(out, warnFmt("该日期的签退任务正由其他实例执行，已跳过"))
			return nil
		}

		fmt.Fprintf(out, "日期: %s  截止: %s\n", day.Format(workday.DateLayout), job.Cutoff(day).Format(time.RFC3339))
		fmt.Fprintf(out, "扫描 %d  签退 %s  跳过 %d", res.Scanned, okFmt(res.Closed), res.Skipped)
		if res.Failed > 0 {
			fmt.Fprintf(out, "  失败 %s", errFmt(res.Failed))
		}
		fmt.Fprintln(out)
		return nil
	},
}

// resolveSweepDate 解析 --date；为空时取 loc 时区下的昨天
func resolveSweepDate(s string, now time.Time, loc *time.Location) (time.Time, error) {
	if s == "" {
		return workday.DateOf(now, loc).AddDate(0, 0, -1), nil
	}
	day, err := workday.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("日期格式无效，应为 YYYY-MM-DD: %q", s)
	}
	return day, nil
}
