package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/KunjGarala/Dayflow/internal/dto"
	"github.com/KunjGarala/Dayflow/internal/service"
	"github.com/KunjGarala/Dayflow/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// ──────────────────────────── 员工侧 ────────────────────────────

// CheckIn 签到
// POST /api/v1/employee/attendance/check-in
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.CheckIn(c.Request.Context(), p.UserID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, result)
}

// CheckOut 签退
// POST /api/v1/employee/attendance/check-out
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.CheckOut(c.Request.Context(), p.UserID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// Today 今日考勤；未签到时 data 为空
// GET /api/v1/employee/attendance/today
func (h *AttendanceHandler) Today(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.Today(c.Request.Context(), p.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, result)
}

// CanCheckIn 今日是否可签到
// GET /api/v1/employee/attendance/can-check-in
func (h *AttendanceHandler) CanCheckIn(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	can, err := h.attendanceSvc.CanCheckIn(c.Request.Context(), p.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, dto.CanCheckInResponse{CanCheckIn: can})
}

// CurrentMonth 本月考勤
// GET /api/v1/employee/attendance/current-month
func (h *AttendanceHandler) CurrentMonth(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	list, err := h.attendanceSvc.CurrentMonth(c.Request.Context(), p.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, list)
}

// Monthly 指定月份考勤
// GET /api/v1/employee/attendance/monthly/:year/:month
func (h *AttendanceHandler) Monthly(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	year, month, ok := parseYearMonth(c)
	if !ok {
		return
	}

	list, err := h.attendanceSvc.Monthly(c.Request.Context(), p.UserID, year, month)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, list)
}

// Summary 月度汇总
// GET /api/v1/employee/attendance/summary/:year/:month
func (h *AttendanceHandler) Summary(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	year, month, ok := parseYearMonth(c)
	if !ok {
		return
	}

	summary, err := h.attendanceSvc.Summary(c.Request.Context(), p.UserID, year, month)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, summary)
}

// ──────────────────────────── HR 侧 ────────────────────────────

// ListEmployees 名下员工考勤（按日期区间，缺省当天）
// GET /api/v1/hr/attendance/employees?start_date=&end_date=&employee_id=
func (h *AttendanceHandler) ListEmployees(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var filter dto.HrAttendanceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.attendanceSvc.ListForHr(c.Request.Context(), p.UserID, &filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, list)
}

// ListEmployee 单个员工考勤
// GET /api/v1/hr/attendance/employee/:id?start_date=&end_date=
func (h *AttendanceHandler) ListEmployee(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var filter dto.HrAttendanceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	filter.EmployeeID = c.Param("id")

	list, err := h.attendanceSvc.ListForHr(c.Request.Context(), p.UserID, &filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, list)
}

// MonthlySummary 名下员工月度汇总
// GET /api/v1/hr/attendance/summary/:year/:month
func (h *AttendanceHandler) MonthlySummary(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	year, month, ok := parseYearMonth(c)
	if !ok {
		return
	}

	summary, err := h.attendanceSvc.HrMonthlySummary(c.Request.Context(), p.UserID, year, month)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, summary)
}

// DailyReport 日报
// GET /api/v1/hr/attendance/daily?date=YYYY-MM-DD
func (h *AttendanceHandler) DailyReport(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	report, err := h.attendanceSvc.DailyReport(c.Request.Context(), p.UserID, c.Query("date"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, report)
}
