package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/KunjGarala/Dayflow/internal/model"
	pkgerrors "github.com/KunjGarala/Dayflow/pkg/errors"
)

// CheckOutFields 签退写入字段
type CheckOutFields struct {
	CheckOutTime time.Time
	Remarks      string
	Location     string
	AutoClosed   bool
}

// AttendanceRepository 考勤数据访问接口
type AttendanceRepository interface {
	// Create 写入签到记录；同一员工同一天已有记录时返回 DuplicateKeyError
	Create(ctx context.Context, a *model.Attendance) error
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*model.Attendance, error)
	ExistsByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (bool, error)
	// CloseOpen 仅当记录尚未签退时写入签退；记录已签退返回 ErrOptimisticLock
	CloseOpen(ctx context.Context, id string, fields CheckOutFields) error
	ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]model.Attendance, error)
	ListOpenByDate(ctx context.Context, date time.Time) ([]model.Attendance, error)
	// ListByHrBetween 某 HR 名下员工在区间内的记录，employeeID 为空表示全部员工
	ListByHrBetween(ctx context.Context, hrID, employeeID string, from, to time.Time) ([]model.Attendance, error)
}

// attendanceRepo AttendanceRepository 的 GORM 实现
type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, a *model.Attendance) error {
	return translateError(r.db.WithContext(ctx).Create(a).Error)
}

func (r *attendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND attendance_date = ?", employeeID, date).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) ExistsByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("employee_id = ? AND attendance_date = ?", employeeID, date).
		Count(&count).Error
	return count > 0, err
}

func (r *attendanceRepo) CloseOpen(ctx context.Context, id string, fields CheckOutFields) error {
	result := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("id = ? AND check_out_time IS NULL", id).
		Updates(map[string]interface{}{
			"check_out_time":     fields.CheckOutTime,
			"check_out_remarks":  fields.Remarks,
			"check_out_location": fields.Location,
			"auto_closed":        fields.AutoClosed,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *attendanceRepo) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]model.Attendance, error) {
	var list []model.Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND attendance_date BETWEEN ? AND ?", employeeID, from, to).
		Order("attendance_date ASC").
		Find(&list).Error
	return list, err
}

func (r *attendanceRepo) ListOpenByDate(ctx context.Context, date time.Time) ([]model.Attendance, error) {
	var list []model.Attendance
	err := r.db.WithContext(ctx).
		Where("attendance_date = ? AND check_out_time IS NULL", date).
		Order("check_in_time ASC").
		Find(&list).Error
	return list, err
}

func (r *attendanceRepo) ListByHrBetween(ctx context.Context, hrID, employeeID string, from, to time.Time) ([]model.Attendance, error) {
	var list []model.Attendance
	db := r.db.WithContext(ctx).
		Joins("JOIN employees ON employees.id = attendances.employee_id").
		Preload("Employee").
		Where("employees.hr_id = ?", hrID).
		Where("attendances.attendance_date BETWEEN ? AND ?", from, to)
	if employeeID != "" {
		db = db.Where("attendances.employee_id = ?", employeeID)
	}
	err := db.
		Order("attendances.attendance_date ASC, attendances.check_in_time ASC").
		Find(&list).Error
	return list, err
}
