package handler

import (
	"github.com/KunjGarala/Dayflow/config"
	"github.com/KunjGarala/Dayflow/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Hr         *HrHandler
	Employee   *EmployeeHandler
	Attendance *AttendanceHandler
	Leave      *LeaveHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth, &cfg.Auth.Cookie),
		Hr:         NewHrHandler(svc.Hr),
		Employee:   NewEmployeeHandler(svc.Employee),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Leave:      NewLeaveHandler(svc.Leave),
		Export:     NewExportHandler(svc.Export),
	}
}
