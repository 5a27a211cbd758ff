package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KunjGarala/Dayflow/internal/model"
)

// EmployeeRepository 员工数据访问接口
type EmployeeRepository interface {
	Create(ctx context.Context, emp *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	// GetByIDForUpdate 行级锁读取，必须在事务中调用（Repository.WithTx）
	GetByIDForUpdate(ctx context.Context, id string) (*model.Employee, error)
	GetByCode(ctx context.Context, code string) (*model.Employee, error)
	GetByEmail(ctx context.Context, email string) (*model.Employee, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByMobile(ctx context.Context, mobile string) (bool, error)
	ListByHr(ctx context.Context, hrID string) ([]model.Employee, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, mustChange bool) error

	// FindLastCodeByPrefix 同前缀下字典序最大的员工编号，不存在返回空串
	FindLastCodeByPrefix(ctx context.Context, prefix string) (string, error)
	// LockCodePrefix 获取编号前缀的事务级咨询锁，事务结束自动释放
	LockCodePrefix(ctx context.Context, prefix string) error
}

// employeeRepo EmployeeRepository 的 GORM 实现
type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, emp *model.Employee) error {
	return translateError(r.db.WithContext(ctx).Create(emp).Error)
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) GetByCode(ctx context.Context, code string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("employee_code = ?", code).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *employeeRepo) ExistsByMobile(ctx context.Context, mobile string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("mobile = ?", mobile).
		Count(&count).Error
	return count > 0, err
}

func (r *employeeRepo) ListByHr(ctx context.Context, hrID string) ([]model.Employee, error) {
	var list []model.Employee
	err := r.db.WithContext(ctx).
		Where("hr_id = ?", hrID).
		Order("employee_code ASC").
		Find(&list).Error
	return list, err
}

func (r *employeeRepo) UpdatePassword(ctx context.Context, id, passwordHash string, mustChange bool) error {
	result := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash":        passwordHash,
			"must_change_password": mustChange,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *employeeRepo) FindLastCodeByPrefix(ctx context.Context, prefix string) (string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("employee_code LIKE ?", prefix+"%").
		Order("employee_code DESC").
		Limit(1).
		Pluck("employee_code", &codes).Error
	if err != nil || len(codes) == 0 {
		return "", err
	}
	return codes[0], nil
}

func (r *employeeRepo) LockCodePrefix(ctx context.Context, prefix string) error {
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "employee_code:"+prefix).Error
}
