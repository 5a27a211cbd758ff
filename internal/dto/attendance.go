package dto

// ── 考勤模块 DTO ──

// CheckInRequest 签到请求
type CheckInRequest struct {
	Remarks  string `json:"remarks"  binding:"required,max=500"`
	Location string `json:"location" binding:"omitempty,max=200"`
}

// CheckOutRequest 签退请求
type CheckOutRequest struct {
	Remarks  string `json:"remarks"  binding:"required,max=500"`
	Location string `json:"location" binding:"omitempty,max=200"`
}

// HrAttendanceFilter HR 考勤查询条件；日期为 YYYY-MM-DD，缺省为当天
type HrAttendanceFilter struct {
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
}
