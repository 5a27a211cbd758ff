package dto

import (
	"time"

	"github.com/KunjGarala/Dayflow/internal/model"
	"github.com/KunjGarala/Dayflow/pkg/workday"
)

const (
	timeLayout  = "15:04:05"
	stampLayout = time.RFC3339
)

// ── 认证模块响应 ──

// UserInfo 登录主体信息
type UserInfo struct {
	ID                 string `json:"id"`
	Identifier         string `json:"identifier"`
	Name               string `json:"name"`
	Role               string `json:"role"`
	CompanyName        string `json:"company_name"`
	CompanyAvatar      string `json:"company_avatar,omitempty"`
	EmployeeCode       string `json:"employee_code,omitempty"`
	Department         string `json:"department,omitempty"`
	JobPosition        string `json:"job_position,omitempty"`
	MustChangePassword bool   `json:"must_change_password"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int      `json:"expires_in"` // 秒
	User        UserInfo `json:"user"`
}

// ── HR 模块响应 ──

// HrResponse HR 信息（脱敏）
type HrResponse struct {
	ID            string `json:"id"`
	CompanyName   string `json:"company_name"`
	CompanyAvatar string `json:"company_avatar,omitempty"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Role          string `json:"role"`
	CreatedAt     string `json:"created_at"`
}

// NewHrResponse 由模型构造
func NewHrResponse(h *model.HrUser) HrResponse {
	return HrResponse{
		ID:            h.ID,
		CompanyName:   h.CompanyName,
		CompanyAvatar: h.CompanyAvatar,
		Name:          h.Name,
		Email:         h.Email,
		Phone:         h.Phone,
		Role:          "HR",
		CreatedAt:     h.CreatedAt.Format(stampLayout),
	}
}

// HrSignupResponse 注册成功响应
type HrSignupResponse struct {
	Hr          HrResponse `json:"hr"`
	AccessToken string     `json:"access_token"`
	ExpiresIn   int        `json:"expires_in"`
}

// ── 员工模块响应 ──

// EmployeeResponse 员工信息（脱敏）
type EmployeeResponse struct {
	ID                 string `json:"id"`
	EmployeeCode       string `json:"employee_code"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	FullName           string `json:"full_name"`
	JobPosition        string `json:"job_position"`
	Email              string `json:"email"`
	Mobile             string `json:"mobile"`
	Company            string `json:"company"`
	CompanyAvatar      string `json:"company_avatar,omitempty"`
	Department         string `json:"department"`
	Manager            string `json:"manager"`
	Location           string `json:"location"`
	YearOfJoining      int    `json:"year_of_joining"`
	MustChangePassword bool   `json:"must_change_password"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

// NewEmployeeResponse 由模型构造
func NewEmployeeResponse(e *model.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                 e.ID,
		EmployeeCode:       e.EmployeeCode,
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		FullName:           e.FullName(),
		JobPosition:        e.JobPosition,
		Email:              e.Email,
		Mobile:             e.Mobile,
		Company:            e.Company,
		CompanyAvatar:      e.CompanyAvatar,
		Department:         e.Department,
		Manager:            e.Manager,
		Location:           e.Location,
		YearOfJoining:      e.YearOfJoining,
		MustChangePassword: e.MustChangePassword,
		CreatedAt:          e.CreatedAt.Format(stampLayout),
		UpdatedAt:          e.UpdatedAt.Format(stampLayout),
	}
}

// CreateEmployeeResponse 创建员工响应；临时密码仅返回这一次
type CreateEmployeeResponse struct {
	Employee     EmployeeResponse `json:"employee"`
	TempPassword string           `json:"temp_password"`
}

// ── 考勤模块响应 ──

// AttendanceResponse 考勤记录
type AttendanceResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name,omitempty"`
	EmployeeCode    string  `json:"employee_code,omitempty"`
	AttendanceDate  string  `json:"attendance_date"`
	CheckInTime     string  `json:"check_in_time"`
	CheckOutTime    string  `json:"check_out_time,omitempty"`
	TotalHours      float64 `json:"total_hours"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	CheckedOut      bool    `json:"checked_out"`
	AutoClosed      bool    `json:"auto_closed"`
	Remarks         string  `json:"remarks,omitempty"`
}

// NewAttendanceResponse 由模型构造；时刻按 loc 展示
func NewAttendanceResponse(a *model.Attendance, loc *time.Location) AttendanceResponse {
	resp := AttendanceResponse{
		ID:              a.ID,
		EmployeeID:      a.EmployeeID,
		AttendanceDate:  a.AttendanceDate.Format(workday.DateLayout),
		CheckInTime:     a.CheckInTime.In(loc).Format(timeLayout),
		TotalHours:      a.TotalHours(),
		OvertimeMinutes: a.OvertimeMinutes(),
		CheckedOut:      a.IsCheckedOut(),
		AutoClosed:      a.AutoClosed,
		Remarks:         a.CheckInRemarks,
	}
	if a.CheckOutTime != nil {
		resp.CheckOutTime = a.CheckOutTime.In(loc).Format(timeLayout)
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.FullName()
		resp.EmployeeCode = a.Employee.EmployeeCode
	}
	return resp
}

// CanCheckInResponse 是否可签到
type CanCheckInResponse struct {
	CanCheckIn bool `json:"can_check_in"`
}

// AttendanceSummaryResponse 员工月度考勤汇总
type AttendanceSummaryResponse struct {
	EmployeeName   string  `json:"employee_name"`
	EmployeeCode   string  `json:"employee_code"`
	Month          string  `json:"month"`
	Year           int     `json:"year"`
	TotalDays      int     `json:"total_days"`
	PresentDays    int     `json:"present_days"`
	AbsentDays     int     `json:"absent_days"`
	CheckedOutDays int     `json:"checked_out_days"`
	TotalHours     float64 `json:"total_hours"`
	AvgHoursPerDay float64 `json:"avg_hours_per_day"`
}

// DailyAttendanceSummary HR 月度汇总中的单日统计
type DailyAttendanceSummary struct {
	Date           string  `json:"date"`
	Records        int     `json:"records"`
	CheckedOut     int     `json:"checked_out"`
	TotalHours     float64 `json:"total_hours"`
	AvgHoursPerDay float64 `json:"avg_hours_per_day"`
}

// HrMonthlySummaryResponse HR 月度考勤汇总
type HrMonthlySummaryResponse struct {
	Month string                   `json:"month"`
	Year  int                      `json:"year"`
	Days  []DailyAttendanceSummary `json:"days"`
}

// AttendanceRecordRow 日报中的单条记录
type AttendanceRecordRow struct {
	EmployeeName string  `json:"employee_name"`
	EmployeeCode string  `json:"employee_code"`
	CheckIn      string  `json:"check_in"`
	CheckOut     string  `json:"check_out,omitempty"`
	WorkHours    float64 `json:"work_hours"`
	ExtraHours   float64 `json:"extra_hours"`
}

// DailyReportResponse HR 日报
type DailyReportResponse struct {
	CompanyName    string                `json:"company_name"`
	AttendanceDate string                `json:"attendance_date"`
	Records        []AttendanceRecordRow `json:"records"`
}

// ── 请假模块响应 ──

// LeaveResponse 请假申请
type LeaveResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	LeaveType    string `json:"leave_type"`
	Status       string `json:"status"`
	NumberOfDays int    `json:"number_of_days"`
	Note         string `json:"note"`
	AdminComment string `json:"admin_comment,omitempty"`
	DecidedBy    string `json:"decided_by,omitempty"`
	DecidedAt    string `json:"decided_at,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// NewLeaveResponse 由模型构造
func NewLeaveResponse(l *model.LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID,
		EmployeeID:   l.EmployeeID,
		StartDate:    l.StartDate.Format(workday.DateLayout),
		EndDate:      l.EndDate.Format(workday.DateLayout),
		LeaveType:    string(l.LeaveType),
		Status:       string(l.Status),
		NumberOfDays: l.NumberOfDays,
		Note:         l.Note,
		AdminComment: l.AdminComment,
		CreatedAt:    l.CreatedAt.Format(stampLayout),
	}
	if l.DecidedBy != nil {
		resp.DecidedBy = *l.DecidedBy
	}
	if l.DecidedAt != nil {
		resp.DecidedAt = l.DecidedAt.Format(stampLayout)
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName()
	}
	return resp
}

// NewLeaveResponses 批量构造
func NewLeaveResponses(list []model.LeaveRequest) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(list))
	for i := range list {
		out = append(out, NewLeaveResponse(&list[i]))
	}
	return out
}

// LeaveStatsResponse 已用假期统计
type LeaveStatsResponse struct {
	LeaveType string `json:"leave_type"`
	Year      int    `json:"year"`
	Used      int64  `json:"used"`
}

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}
