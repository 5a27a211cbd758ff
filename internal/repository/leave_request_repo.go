package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/KunjGarala/Dayflow/internal/model"
	pkgerrors "github.com/KunjGarala/Dayflow/pkg/errors"
)

// LeaveDecision 审批写入字段
type LeaveDecision struct {
	Status       model.LeaveStatus
	AdminComment string
	DecidedBy    *string
	DecidedAt    time.Time
}

// LeaveRangeQuery 区间筛选；StartDate/EndDate 为空表示该端不设限
// 结果为完全落在 [StartDate, EndDate] 内的申请
type LeaveRangeQuery struct {
	HrID      string
	StartDate *time.Time
	EndDate   *time.Time
	Status    model.LeaveStatus
}

// LeaveRequestRepository 请假申请数据访问接口
type LeaveRequestRepository interface {
	Create(ctx context.Context, l *model.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	// ListByEmployee 员工自己的申请，按创建时间倒序
	ListByEmployee(ctx context.Context, employeeID string, offset, limit int) ([]model.LeaveRequest, int64, error)
	// ListByHr 某 HR 名下全部申请，按创建时间倒序
	ListByHr(ctx context.Context, hrID string, offset, limit int) ([]model.LeaveRequest, int64, error)
	// ListByStatus 某 HR 名下指定状态的申请；oldestFirst 控制排序方向
	ListByStatus(ctx context.Context, hrID string, status model.LeaveStatus, oldestFirst bool) ([]model.LeaveRequest, error)
	ListByRange(ctx context.Context, q LeaveRangeQuery) ([]model.LeaveRequest, error)
	// FindApprovedOverlapping 与闭区间 [start, end] 相交的已批准申请，excludeID 非空时排除该申请
	FindApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID string) ([]model.LeaveRequest, error)
	ListApprovedByEmployee(ctx context.Context, employeeID string) ([]model.LeaveRequest, error)
	CountApprovedByTypeAndYear(ctx context.Context, employeeID string, leaveType model.LeaveType, year int) (int64, error)
	// TransitionFromPending 仅当申请仍为 PENDING 时写入新状态；否则返回 ErrOptimisticLock
	TransitionFromPending(ctx context.Context, id string, d LeaveDecision) error
}

// leaveRequestRepo LeaveRequestRepository 的 GORM 实现
type leaveRequestRepo struct {
	db *gorm.DB
}

// NewLeaveRequestRepo 创建 LeaveRequestRepository 实例
func NewLeaveRequestRepo(db *gorm.DB) LeaveRequestRepository {
	return &leaveRequestRepo{db: db}
}

func (r *leaveRequestRepo) Create(ctx context.Context, l *model.LeaveRequest) error {
	return translateError(r.db.WithContext(ctx).Create(l).Error)
}

func (r *leaveRequestRepo) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	var l model.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("id = ?", id).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *leaveRequestRepo) ListByEmployee(ctx context.Context, employeeID string, offset, limit int) ([]model.LeaveRequest, int64, error) {
	var list []model.LeaveRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.LeaveRequest{}).Where("employee_id = ?", employeeID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

// scopeHr 限定为某 HR 名下员工的申请
func scopeHr(hrID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN employees ON employees.id = leave_requests.employee_id").
			Where("employees.hr_id = ?", hrID)
	}
}

func (r *leaveRequestRepo) ListByHr(ctx context.Context, hrID string, offset, limit int) ([]model.LeaveRequest, int64, error) {
	var list []model.LeaveRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.LeaveRequest{}).Scopes(scopeHr(hrID))

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Employee").
		Offset(offset).Limit(limit).
		Order("leave_requests.created_at DESC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *leaveRequestRepo) ListByStatus(ctx context.Context, hrID string, status model.LeaveStatus, oldestFirst bool) ([]model.LeaveRequest, error) {
	order := "leave_requests.created_at DESC"
	if oldestFirst {
		order = "leave_requests.created_at ASC"
	}
	var list []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(scopeHr(hrID)).
		Preload("Employee").
		Where("leave_requests.status = ?", status).
		Order(order).
		Find(&list).Error
	return list, err
}

func (r *leaveRequestRepo) ListByRange(ctx context.Context, q LeaveRangeQuery) ([]model.LeaveRequest, error) {
	db := r.db.WithContext(ctx).
		Scopes(scopeHr(q.HrID)).
		Preload("Employee")
	if q.StartDate != nil {
		db = db.Where("leave_requests.start_date >= ?", *q.StartDate)
	}
	if q.EndDate != nil {
		db = db.Where("leave_requests.end_date <= ?", *q.EndDate)
	}
	if q.Status != "" {
		db = db.Where("leave_requests.status = ?", q.Status)
	}
	var list []model.LeaveRequest
	err := db.Order("leave_requests.created_at DESC").Find(&list).Error
	return list, err
}

func (r *leaveRequestRepo) FindApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID string) ([]model.LeaveRequest, error) {
	db := r.db.WithContext(ctx).
		Where("employee_id = ? AND status = ?", employeeID, model.LeaveApproved).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}
	var list []model.LeaveRequest
	err := db.Order("start_date ASC").Find(&list).Error
	return list, err
}

func (r *leaveRequestRepo) ListApprovedByEmployee(ctx context.Context, employeeID string) ([]model.LeaveRequest, error) {
	var list []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND status = ?", employeeID, model.LeaveApproved).
		Order("start_date ASC").
		Find(&list).Error
	return list, err
}

func (r *leaveRequestRepo) CountApprovedByTypeAndYear(ctx context.Context, employeeID string, leaveType model.LeaveType, year int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Where("employee_id = ? AND leave_type = ? AND status = ?", employeeID, leaveType, model.LeaveApproved).
		Where("EXTRACT(YEAR FROM start_date) = ?", year).
		Count(&count).Error
	return count, err
}

func (r *leaveRequestRepo) TransitionFromPending(ctx context.Context, id string, d LeaveDecision) error {
	result := r.db.WithContext(ctx).
		Model(&model.LeaveRequest{}).
		Where("id = ? AND status = ?", id, model.LeavePending).
		Updates(map[string]interface{}{
			"status":        d.Status,
			"admin_comment": d.AdminComment,
			"decided_by":    d.DecidedBy,
			"decided_at":    d.DecidedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}
