package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KunjGarala/Dayflow/internal/dto"
	"github.com/KunjGarala/Dayflow/internal/model"
	"github.com/KunjGarala/Dayflow/internal/repository"
	"github.com/KunjGarala/Dayflow/pkg/idgen"
)

// maxCodeAttempts 员工编号唯一约束冲突时的最大尝试次数
const maxCodeAttempts = 3

// EmployeeService 员工业务接口（HR 视角）
type EmployeeService interface {
	// Create 创建员工并分配员工编号，临时密码仅在返回值中出现一次
	Create(ctx context.Context, hrID string, req *dto.CreateEmployeeRequest) (*dto.CreateEmployeeResponse, error)
	List(ctx context.Context, hrID string) ([]dto.EmployeeResponse, error)
	Get(ctx context.Context, hrID, employeeID string) (*dto.EmployeeResponse, error)
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger}
}

// ──────────────────────── Create ────────────────────────

func (s *employeeService) Create(ctx context.Context, hrID string, req *dto.CreateEmployeeRequest) (*dto.CreateEmployeeResponse, error) {
	hr, err := s.repo.Hr.GetByID(ctx, hrID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHrNotFound
		}
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.checkUnique(ctx, email, req.Mobile); err != nil {
		return nil, err
	}

	tempPassword, err := generateTempPassword(10)
	if err != nil {
		s.logger.Error("生成临时密码失败", zap.Error(err))
		return nil, err
	}
	hash, err := HashPassword(tempPassword)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	var created *model.Employee
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		emp := &model.Employee{
			FirstName:          strings.TrimSpace(req.FirstName),
			LastName:           strings.TrimSpace(req.LastName),
			Email:              email,
			Mobile:             req.Mobile,
			PasswordHash:       hash,
			MustChangePassword: true,
			JobPosition:        req.JobPosition,
			Department:         req.Department,
			Manager:            req.Manager,
			Location:           req.Location,
			Company:            hr.CompanyName,
			CompanyAvatar:      hr.CompanyAvatar,
			YearOfJoining:      req.YearOfJoining,
			HrID:               hr.ID,
		}

		err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
			return s.allocateAndInsert(ctx, tx, emp)
		})
		if err == nil {
			created = emp
			break
		}

		switch {
		case errors.Is(err, idgen.ErrSerialExhausted):
			return nil, ErrEmployeeCodeExhausted
		case repository.ConstraintOf(err) == repository.ConstraintEmployeeEmail:
			return nil, ErrEmployeeEmailExists
		case repository.ConstraintOf(err) == repository.ConstraintEmployeeMobile:
			return nil, ErrEmployeeMobileExists
		case errors.Is(err, repository.ErrDuplicateKey):
			s.logger.Warn("员工编号冲突，重新分配",
				zap.Int("attempt", attempt),
				zap.String("code", emp.EmployeeCode),
			)
			continue
		default:
			s.logger.Error("创建员工失败", zap.Error(err))
			return nil, err
		}
	}
	if created == nil {
		return nil, ErrEmployeeCodeConflict
	}

	s.logger.Info("员工创建成功",
		zap.String("hr_id", hr.ID),
		zap.String("employee_id", created.ID),
		zap.String("code", created.EmployeeCode),
	)

	return &dto.CreateEmployeeResponse{
		Employee:     dto.NewEmployeeResponse(created),
		TempPassword: tempPassword,
	}, nil
}

// allocateAndInsert 在事务内持有前缀锁分配编号并写入
func (s *employeeService) allocateAndInsert(ctx context.Context, tx *repository.Repository, emp *model.Employee) error {
	prefix := idgen.Prefix(emp.Company, emp.FirstName, emp.YearOfJoining)
	if err := tx.Employee.LockCodePrefix(ctx, prefix); err != nil {
		return err
	}

	res, err := idgen.NewAllocator(tx.Employee, s.logger).Generate(ctx, emp.Company, emp.FirstName, emp.YearOfJoining)
	if err != nil {
		return err
	}
	emp.EmployeeCode = res.Code

	return tx.Employee.Create(ctx, emp)
}

func (s *employeeService) checkUnique(ctx context.Context, email, mobile string) error {
	if exists, err := s.repo.Employee.ExistsByEmail(ctx, email); err != nil {
		return err
	} else if exists {
		return ErrEmployeeEmailExists
	}
	if exists, err := s.repo.Hr.ExistsByEmail(ctx, email); err != nil {
		return err
	} else if exists {
		return ErrEmployeeEmailExists
	}
	if exists, err := s.repo.Employee.ExistsByMobile(ctx, mobile); err != nil {
		return err
	} else if exists {
		return ErrEmployeeMobileExists
	}
	return nil
}

// ──────────────────────── List / Get ────────────────────────

func (s *employeeService) List(ctx context.Context, hrID string) ([]dto.EmployeeResponse, error) {
	list, err := s.repo.Employee.ListByHr(ctx, hrID)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.EmployeeResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.NewEmployeeResponse(&list[i]))
	}
	return out, nil
}

func (s *employeeService) Get(ctx context.Context, hrID, employeeID string) (*dto.EmployeeResponse, error) {
	emp, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	if emp.HrID != hrID {
		return nil, ErrEmployeeNotOwned
	}
	resp := dto.NewEmployeeResponse(emp)
	return &resp, nil
}

// ── 辅助函数 ──

// generateTempPassword 生成指定长度的临时密码（保证包含字母和数字）
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 8 {
		length = 8
	}

	pick := func(set string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return 0, err
		}
		return set[n.Int64()], nil
	}

	result := make([]byte, length)
	var err error
	if result[0], err = pick(letters); err != nil {
		return "", err
	}
	if result[1], err = pick(digits); err != nil {
		return "", err
	}
	for i := 2; i < length; i++ {
		if result[i], err = pick(all); err != nil {
			return "", err
		}
	}

	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}

	return string(result), nil
}
