package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Hr         HrRepository
	Employee   EmployeeRepository
	Attendance AttendanceRepository
	Leave      LeaveRequestRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		Hr:         NewHrRepo(db),
		Employee:   NewEmployeeRepo(db),
		Attendance: NewAttendanceRepo(db),
		Leave:      NewLeaveRequestRepo(db),
	}
}

// WithTx 在同一事务中执行 fn，fn 收到绑定事务连接的 Repository
// fn 返回错误时整体回滚；未绑定数据库（单测中手工组装）时直接以自身调用 fn
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
