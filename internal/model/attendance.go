package model

import "time"

// StandardWorkHours 标准日工时；未签退的记录按此计算
const StandardWorkHours = 8.0

// Attendance 考勤记录，对应 attendances 表
// (employee_id, attendance_date) 唯一；check_out_time 为空表示仍在岗
type Attendance struct {
	ID               string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeID       string     `gorm:"type:uuid;not null"                             json:"employee_id"`
	AttendanceDate   time.Time  `gorm:"type:date;not null"                             json:"attendance_date"`
	CheckInTime      time.Time  `gorm:"not null"                                       json:"check_in_time"`
	CheckOutTime     *time.Time `                                                      json:"check_out_time,omitempty"`
	CheckInRemarks   string     `gorm:"type:varchar(500);not null;default:''"          json:"check_in_remarks"`
	CheckInLocation  string     `gorm:"type:varchar(200);not null;default:''"          json:"check_in_location"`
	CheckOutRemarks  string     `gorm:"type:varchar(500);not null;default:''"          json:"check_out_remarks"`
	CheckOutLocation string     `gorm:"type:varchar(200);not null;default:''"          json:"check_out_location"`
	AutoClosed       bool       `gorm:"not null;default:false"                         json:"auto_closed"`
	BaseModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:ID" json:"employee,omitempty"`
}

// TableName 指定表名
func (Attendance) TableName() string { return "attendances" }

// IsCheckedOut 是否已签退
func (a *Attendance) IsCheckedOut() bool { return a.CheckOutTime != nil }

// TotalHours 已签退返回实际工时，未签退按标准工时 8h 计
func (a *Attendance) TotalHours() float64 {
	if a.CheckOutTime == nil {
		return StandardWorkHours
	}
	return a.CheckOutTime.Sub(a.CheckInTime).Hours()
}

// OvertimeMinutes 超出 8h 的分钟数（向下取整），未签退为 0
func (a *Attendance) OvertimeMinutes() int {
	if a.CheckOutTime == nil {
		return 0
	}
	extra := (a.TotalHours() - StandardWorkHours) * 60
	if extra <= 0 {
		return 0
	}
	return int(extra)
}
