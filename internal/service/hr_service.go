package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KunjGarala/Dayflow/internal/auth"
	"github.com/KunjGarala/Dayflow/internal/dto"
	"github.com/KunjGarala/Dayflow/internal/model"
	"github.com/KunjGarala/Dayflow/internal/repository"
	"github.com/KunjGarala/Dayflow/pkg/jwt"
)

// HrService HR 账号业务接口
type HrService interface {
	Signup(ctx context.Context, req *dto.HrSignupRequest) (*dto.HrSignupResponse, error)
	Profile(ctx context.Context, hrID string) (*dto.HrResponse, error)
}

type hrService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewHrService 创建 HrService 实例
func NewHrService(repo *repository.Repository, jwtMgr *jwt.Manager, logger *zap.Logger) HrService {
	return &hrService{repo: repo, jwtMgr: jwtMgr, logger: logger}
}

// ──────────────────────── Signup ────────────────────────

func (s *hrService) Signup(ctx context.Context, req *dto.HrSignupRequest) (*dto.HrSignupResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// 登录时 HR 邮箱优先匹配，员工邮箱同样不能占用
	if exists, err := s.repo.Hr.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrHrEmailExists
	}
	if exists, err := s.repo.Employee.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrHrEmailExists
	}
	if exists, err := s.repo.Hr.ExistsByPhone(ctx, req.Phone); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrHrPhoneExists
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	hr := &model.HrUser{
		CompanyName:   strings.TrimSpace(req.CompanyName),
		CompanyAvatar: req.CompanyAvatar,
		Name:          strings.TrimSpace(req.Name),
		Email:         email,
		Phone:         req.Phone,
		PasswordHash:  hash,
	}
	if err := s.repo.Hr.Create(ctx, hr); err != nil {
		switch repository.ConstraintOf(err) {
		case repository.ConstraintHrEmail:
			return nil, ErrHrEmailExists
		case repository.ConstraintHrPhone:
			return nil, ErrHrPhoneExists
		}
		s.logger.Error("创建 HR 失败", zap.Error(err))
		return nil, err
	}

	token, _, err := s.jwtMgr.Issue(hr.Email, hr.ID, auth.RoleHR.String())
	if err != nil {
		s.logger.Error("签发 Token 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("HR 注册成功", zap.String("hr_id", hr.ID), zap.String("company", hr.CompanyName))

	return &dto.HrSignupResponse{
		Hr:          dto.NewHrResponse(hr),
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.TTL().Seconds()),
	}, nil
}

// ──────────────────────── Profile ────────────────────────

func (s *hrService) Profile(ctx context.Context, hrID string) (*dto.HrResponse, error) {
	hr, err := s.repo.Hr.GetByID(ctx, hrID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHrNotFound
		}
		return nil, err
	}
	resp := dto.NewHrResponse(hr)
	return &resp, nil
}
