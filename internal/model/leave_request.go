package model

import "time"

// LeaveType 请假类型
type LeaveType string

const (
	LeavePaidTimeOff LeaveType = "PAID_TIME_OFF"
	LeaveSick        LeaveType = "SICK_LEAVE"
	LeaveUnpaid      LeaveType = "UNPAID_LEAVE"
)

// Valid 是否为已知类型
func (t LeaveType) Valid() bool {
	switch t {
	case LeavePaidTimeOff, LeaveSick, LeaveUnpaid:
		return true
	default:
		return false
	}
}

// LeaveStatus 请假状态
// PENDING → APPROVED | REJECTED | CANCELLED，终态不可再变更
type LeaveStatus string

const (
	LeavePending   LeaveStatus = "PENDING"
	LeaveApproved  LeaveStatus = "APPROVED"
	LeaveRejected  LeaveStatus = "REJECTED"
	LeaveCancelled LeaveStatus = "CANCELLED"
)

// Valid 是否为已知状态
func (s LeaveStatus) Valid() bool {
	switch s {
	case LeavePending, LeaveApproved, LeaveRejected, LeaveCancelled:
		return true
	default:
		return false
	}
}

// LeaveRequest 请假申请，对应 leave_requests 表
type LeaveRequest struct {
	ID           string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeID   string      `gorm:"type:uuid;not null;index"                       json:"employee_id"`
	StartDate    time.Time   `gorm:"type:date;not null"                             json:"start_date"`
	EndDate      time.Time   `gorm:"type:date;not null"                             json:"end_date"`
	LeaveType    LeaveType   `gorm:"type:varchar(20);not null"                      json:"leave_type"`
	Status       LeaveStatus `gorm:"type:varchar(20);not null;default:'PENDING'"    json:"status"`
	NumberOfDays int         `gorm:"not null;default:0"                             json:"number_of_days"`
	Note         string      `gorm:"type:varchar(1000);not null;default:''"         json:"note"`
	AdminComment string      `gorm:"type:varchar(1000);not null;default:''"         json:"admin_comment"`
	DecidedBy    *string     `gorm:"type:uuid"                                      json:"decided_by,omitempty"`
	DecidedAt    *time.Time  `                                                      json:"decided_at,omitempty"`
	BaseModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:ID" json:"employee,omitempty"`
}

// TableName 指定表名
func (LeaveRequest) TableName() string { return "leave_requests" }
