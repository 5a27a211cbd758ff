package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/KunjGarala/Dayflow/internal/auth"
	"github.com/KunjGarala/Dayflow/internal/dto"
	"github.com/KunjGarala/Dayflow/internal/model"
	"github.com/KunjGarala/Dayflow/internal/repository"
	"github.com/KunjGarala/Dayflow/pkg/jwt"
)

// employeeCodePattern 员工编号格式，如 COJO23001
var employeeCodePattern = regexp.MustCompile(`^[A-Z]{4}\d{5}$`)

// AuthService 认证业务接口
type AuthService interface {
	// Login 先按邮箱匹配 HR，再按员工编号或邮箱匹配员工
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, p auth.Principal) (*dto.UserInfo, error)
	ChangePassword(ctx context.Context, p auth.Principal, req *dto.ChangePasswordRequest) error
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		jwtMgr: jwtMgr,
		logger: logger,
	}
}

// ──────────────────────── Login ────────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)
	email := strings.ToLower(identifier)

	// 1. HR 按邮箱
	hr, err := s.repo.Hr.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !checkPassword(hr.PasswordHash, req.Password) {
			return nil, ErrInvalidCredentials
		}
		return s.issue(hr.Email, hr.ID, auth.RoleHR, hrUserInfo(hr))
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("查询 HR 失败", zap.Error(err))
		return nil, err
	}

	// 2. 员工按编号或邮箱
	var emp *model.Employee
	if employeeCodePattern.MatchString(identifier) {
		emp, err = s.repo.Employee.GetByCode(ctx, identifier)
	} else {
		emp, err = s.repo.Employee.GetByEmail(ctx, email)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}
	if !checkPassword(emp.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(emp.Email, emp.ID, auth.RoleEmployee, employeeUserInfo(emp))
}

func (s *authService) issue(subject, userID string, role auth.Role, info dto.UserInfo) (*dto.LoginResponse, error) {
	token, _, err := s.jwtMgr.Issue(subject, userID, role.String())
	if err != nil {
		s.logger.Error("签发 Token 失败", zap.Error(err))
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.TTL().Seconds()),
		User:        info,
	}, nil
}

// ──────────────────────── Me ────────────────────────

func (s *authService) Me(ctx context.Context, p auth.Principal) (*dto.UserInfo, error) {
	switch p.Role {
	case auth.RoleHR:
		hr, err := s.repo.Hr.GetByID(ctx, p.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrHrNotFound
			}
			return nil, err
		}
		info := hrUserInfo(hr)
		return &info, nil
	case auth.RoleEmployee:
		emp, err := s.repo.Employee.GetByID(ctx, p.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEmployeeNotFound
			}
			return nil, err
		}
		info := employeeUserInfo(emp)
		return &info, nil
	default:
		return nil, ErrInvalidCredentials
	}
}

// ──────────────────────── ChangePassword ────────────────────────

func (s *authService) ChangePassword(ctx context.Context, p auth.Principal, req *dto.ChangePasswordRequest) error {
	if req.OldPassword == req.NewPassword {
		return ErrSamePassword
	}

	var currentHash string
	switch p.Role {
	case auth.RoleHR:
		hr, err := s.repo.Hr.GetByID(ctx, p.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHrNotFound
			}
			return err
		}
		currentHash = hr.PasswordHash
	case auth.RoleEmployee:
		emp, err := s.repo.Employee.GetByID(ctx, p.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmployeeNotFound
			}
			return err
		}
		currentHash = emp.PasswordHash
	default:
		return ErrInvalidCredentials
	}

	if !checkPassword(currentHash, req.OldPassword) {
		return ErrWrongOldPassword
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}

	if p.Role == auth.RoleHR {
		err = s.repo.Hr.UpdatePassword(ctx, p.UserID, hash)
	} else {
		err = s.repo.Employee.UpdatePassword(ctx, p.UserID, hash, false)
	}
	if err != nil {
		s.logger.Error("更新密码失败", zap.String("user_id", p.UserID), zap.Error(err))
		return err
	}
	return nil
}

// ── 辅助函数 ──

// HashPassword 以 bcrypt 默认强度生成密码哈希
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func hrUserInfo(hr *model.HrUser) dto.UserInfo {
	return dto.UserInfo{
		ID:            hr.ID,
		Identifier:    hr.Email,
		Name:          hr.Name,
		Role:          auth.RoleHR.String(),
		CompanyName:   hr.CompanyName,
		CompanyAvatar: hr.CompanyAvatar,
	}
}

func employeeUserInfo(emp *model.Employee) dto.UserInfo {
	return dto.UserInfo{
		ID:                 emp.ID,
		Identifier:         emp.Email,
		Name:               emp.FullName(),
		Role:               auth.RoleEmployee.String(),
		CompanyName:        emp.Company,
		CompanyAvatar:      emp.CompanyAvatar,
		EmployeeCode:       emp.EmployeeCode,
		Department:         emp.Department,
		JobPosition:        emp.JobPosition,
		MustChangePassword: emp.MustChangePassword,
	}
}
