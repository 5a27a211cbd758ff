package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KunjGarala/Dayflow/internal/model"
)

// HrRepository HR 账号数据访问接口
type HrRepository interface {
	Create(ctx context.Context, hr *model.HrUser) error
	GetByID(ctx context.Context, id string) (*model.HrUser, error)
	GetByEmail(ctx context.Context, email string) (*model.HrUser, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// hrRepo HrRepository 的 GORM 实现
type hrRepo struct {
	db *gorm.DB
}

// NewHrRepo 创建 HrRepository 实例
func NewHrRepo(db *gorm.DB) HrRepository {
	return &hrRepo{db: db}
}

func (r *hrRepo) Create(ctx context.Context, hr *model.HrUser) error {
	return translateError(r.db.WithContext(ctx).Create(hr).Error)
}

func (r *hrRepo) GetByID(ctx context.Context, id string) (*model.HrUser, error) {
	var hr model.HrUser
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&hr).Error
	if err != nil {
		return nil, err
	}
	return &hr, nil
}

func (r *hrRepo) GetByEmail(ctx context.Context, email string) (*model.HrUser, error) {
	var hr model.HrUser
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&hr).Error
	if err != nil {
		return nil, err
	}
	return &hr, nil
}

func (r *hrRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.HrUser{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *hrRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.HrUser{}).
		Where("phone = ?", phone).
		Count(&count).Error
	return count > 0, err
}

func (r *hrRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result := r.db.WithContext(ctx).
		Model(&model.HrUser{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
