package dto

// ── 请假模块 DTO ──

// CreateLeaveRequest 提交请假申请；日期为 YYYY-MM-DD
type CreateLeaveRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"required"`
	LeaveType string `json:"leave_type" binding:"required"`
	Note      string `json:"note"       binding:"omitempty,max=1000"`
}

// DecideLeaveRequest HR 审批请求
type DecideLeaveRequest struct {
	Status       string `json:"status"        binding:"required"`
	AdminComment string `json:"admin_comment" binding:"omitempty,max=1000"`
}

// LeaveRangeFilter 按日期区间筛选；两端均可省略
type LeaveRangeFilter struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Status    string `form:"status"`
}

// LeaveStatsQuery 已用假期统计
type LeaveStatsQuery struct {
	LeaveType string `form:"leave_type" binding:"required"`
	Year      int    `form:"year"       binding:"omitempty,min=1900,max=2999"`
}
