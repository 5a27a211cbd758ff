package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/KunjGarala/Dayflow/config"
	"github.com/KunjGarala/Dayflow/internal/repository"
	"github.com/KunjGarala/Dayflow/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Hr         HrService
	Employee   EmployeeService
	Attendance AttendanceService
	Leave      LeaveService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) *Service {
	loc, err := cfg.Attendance.Location()
	if err != nil {
		logger.Warn("考勤时区无效，回退为 UTC", zap.String("timezone", cfg.Attendance.Timezone), zap.Error(err))
		loc = time.UTC
	}

	return &Service{
		Auth:       NewAuthService(repo, jwtMgr, logger),
		Hr:         NewHrService(repo, jwtMgr, logger),
		Employee:   NewEmployeeService(repo, logger),
		Attendance: NewAttendanceService(repo, loc, logger),
		Leave:      NewLeaveService(repo, loc, logger),
		Export:     NewExportService(repo, loc, logger),
	}
}
