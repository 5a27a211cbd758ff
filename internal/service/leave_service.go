package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KunjGarala/Dayflow/internal/dto"
	"github.com/KunjGarala/Dayflow/internal/model"
	"github.com/KunjGarala/Dayflow/internal/repository"
	pkgerrors "github.com/KunjGarala/Dayflow/pkg/errors"
	"github.com/KunjGarala/Dayflow/pkg/workday"
)

// LeaveService 请假业务接口
//
// 状态机：PENDING → APPROVED | REJECTED | CANCELLED，均为终态。
// 同一员工的已批准请假两两不重叠（闭区间）。
type LeaveService interface {
	Create(ctx context.Context, employeeID string, req *dto.CreateLeaveRequest) (*dto.LeaveResponse, error)
	// Decide HR 审批，仅可将 PENDING 申请变更为 APPROVED 或 REJECTED
	Decide(ctx context.Context, hrID, leaveID string, req *dto.DecideLeaveRequest) (*dto.LeaveResponse, error)
	// Cancel 员工撤回自己的 PENDING 申请
	Cancel(ctx context.Context, employeeID, leaveID string) (*dto.LeaveResponse, error)

	GetForHr(ctx context.Context, hrID, leaveID string) (*dto.LeaveResponse, error)
	GetMine(ctx context.Context, employeeID, leaveID string) (*dto.LeaveResponse, error)
	ListMine(ctx context.Context, employeeID string, page *dto.PaginationRequest) ([]dto.LeaveResponse, int64, error)
	ListAll(ctx context.Context, hrID string, page *dto.PaginationRequest) ([]dto.LeaveResponse, int64, error)
	// ListPending 待审批申请，最早提交的在前
	ListPending(ctx context.Context, hrID string) ([]dto.LeaveResponse, error)
	// Filter 按状态及日期区间筛选，区间两端均可省略
	Filter(ctx context.Context, hrID string, f *dto.LeaveRangeFilter) ([]dto.LeaveResponse, error)
	// UsedLeaveCount 某类型某年已批准的申请数
	UsedLeaveCount(ctx context.Context, employeeID string, q *dto.LeaveStatsQuery) (*dto.LeaveStatsResponse, error)
	// Calendar 已批准请假的 iCalendar 订阅内容
	Calendar(ctx context.Context, employeeID string) ([]byte, error)
}

type leaveService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewLeaveService 创建 LeaveService 实例
func NewLeaveService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) LeaveService {
	return &leaveService{
		repo:   repo,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

func (s *leaveService) getEmployee(ctx context.Context, employeeID string) (*model.Employee, error) {
	emp, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return emp, nil
}

func (s *leaveService) getLeave(ctx context.Context, repo *repository.Repository, leaveID string) (*model.LeaveRequest, error) {
	leave, err := repo.Leave.GetByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		return nil, err
	}
	return leave, nil
}

// ──────────────────────── Create ────────────────────────

func (s *leaveService) Create(ctx context.Context, employeeID string, req *dto.CreateLeaveRequest) (*dto.LeaveResponse, error) {
	emp, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	start, err := workday.ParseDate(req.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	end, err := workday.ParseDate(req.EndDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if start.After(end) {
		return nil, ErrInvalidLeaveRange
	}

	leaveType := model.LeaveType(strings.ToUpper(strings.TrimSpace(req.LeaveType)))
	if !leaveType.Valid() {
		return nil, ErrInvalidLeaveType
	}

	overlaps, err := s.repo.Leave.FindApprovedOverlapping(ctx, employeeID, start, end, "")
	if err != nil {
		s.logger.Error("查询重叠请假失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	if len(overlaps) > 0 {
		return nil, ErrOverlappingLeave
	}

	leave := &model.LeaveRequest{
		EmployeeID:   employeeID,
		StartDate:    start,
		EndDate:      end,
		LeaveType:    leaveType,
		Status:       model.LeavePending,
		NumberOfDays: workday.CountWorkingDays(start, end),
		Note:         req.Note,
	}
	if err := s.repo.Leave.Create(ctx, leave); err != nil {
		s.logger.Error("创建请假申请失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	leave.Employee = emp

	resp := dto.NewLeaveResponse(leave)
	return &resp, nil
}

// ──────────────────────── Decide ────────────────────────

func (s *leaveService) Decide(ctx context.Context, hrID, leaveID string, req *dto.DecideLeaveRequest) (*dto.LeaveResponse, error) {
	status := model.LeaveStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if status != model.LeaveApproved && status != model.LeaveRejected {
		return nil, ErrInvalidDecision
	}

	var decided *model.LeaveRequest
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		leave, err := s.getLeave(ctx, tx, leaveID)
		if err != nil {
			return err
		}

		// 锁住员工行，串行化同一员工的并发审批
		emp, err := tx.Employee.GetByIDForUpdate(ctx, leave.EmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmployeeNotFound
			}
			return err
		}
		if emp.HrID != hrID {
			return ErrLeaveNotOwned
		}
		if leave.Status != model.LeavePending {
			return ErrInvalidTransition
		}

		if status == model.LeaveApproved {
			overlaps, err := tx.Leave.FindApprovedOverlapping(ctx, leave.EmployeeID, leave.StartDate, leave.EndDate, leave.ID)
			if err != nil {
				return err
			}
			if len(overlaps) > 0 {
				return ErrOverlappingLeave
			}
		}

		now := s.now()
		decider := hrID
		err = tx.Leave.TransitionFromPending(ctx, leave.ID, repository.LeaveDecision{
			Status:       status,
			AdminComment: req.AdminComment,
			DecidedBy:    &decider,
			DecidedAt:    now,
		})
		if err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				return ErrInvalidTransition
			}
			return err
		}

		leave.Status = status
		leave.AdminComment = req.AdminComment
		leave.DecidedBy = &decider
		leave.DecidedAt = &now
		leave.Employee = emp
		decided = leave
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) == pkgerrors.KindInternal {
			s.logger.Error("审批请假失败", zap.String("leave_id", leaveID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("请假审批完成",
		zap.String("leave_id", decided.ID),
		zap.String("status", string(decided.Status)),
		zap.String("hr_id", hrID),
	)

	resp := dto.NewLeaveResponse(decided)
	return &resp, nil
}

// ──────────────────────── Cancel ────────────────────────

func (s *leaveService) Cancel(ctx context.Context, employeeID, leaveID string) (*dto.LeaveResponse, error) {
	leave, err := s.getLeave(ctx, s.repo, leaveID)
	if err != nil {
		return nil, err
	}
	if leave.EmployeeID != employeeID {
		return nil, ErrLeaveNotOwned
	}
	if leave.Status != model.LeavePending {
		return nil, ErrInvalidTransition
	}

	now := s.now()
	err = s.repo.Leave.TransitionFromPending(ctx, leave.ID, repository.LeaveDecision{
		Status:    model.LeaveCancelled,
		DecidedAt: now,
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	leave.Status = model.LeaveCancelled
	leave.DecidedAt = &now
	resp := dto.NewLeaveResponse(leave)
	return &resp, nil
}

// ──────────────────────── 查询 ────────────────────────

func (s *leaveService) GetForHr(ctx context.Context, hrID, leaveID string) (*dto.LeaveResponse, error) {
	leave, err := s.getLeave(ctx, s.repo, leaveID)
	if err != nil {
		return nil, err
	}
	emp := leave.Employee
	if emp == nil {
		if emp, err = s.getEmployee(ctx, leave.EmployeeID); err != nil {
			return nil, err
		}
	}
	if emp.HrID != hrID {
		return nil, ErrLeaveNotOwned
	}
	resp := dto.NewLeaveResponse(leave)
	return &resp, nil
}

func (s *leaveService) GetMine(ctx context.Context, employeeID, leaveID string) (*dto.LeaveResponse, error) {
	leave, err := s.getLeave(ctx, s.repo, leaveID)
	if err != nil {
		return nil, err
	}
	if leave.EmployeeID != employeeID {
		return nil, ErrLeaveNotOwned
	}
	resp := dto.NewLeaveResponse(leave)
	return &resp, nil
}

func (s *leaveService) ListMine(ctx context.Context, employeeID string, page *dto.PaginationRequest) ([]dto.LeaveResponse, int64, error) {
	list, total, err := s.repo.Leave.ListByEmployee(ctx, employeeID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		return nil, 0, err
	}
	return dto.NewLeaveResponses(list), total, nil
}

func (s *leaveService) ListAll(ctx context.Context, hrID string, page *dto.PaginationRequest) ([]dto.LeaveResponse, int64, error) {
	list, total, err := s.repo.Leave.ListByHr(ctx, hrID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		return nil, 0, err
	}
	return dto.NewLeaveResponses(list), total, nil
}

func (s *leaveService) ListPending(ctx context.Context, hrID string) ([]dto.LeaveResponse, error) {
	list, err := s.repo.Leave.ListByStatus(ctx, hrID, model.LeavePending, true)
	if err != nil {
		return nil, err
	}
	return dto.NewLeaveResponses(list), nil
}

func (s *leaveService) Filter(ctx context.Context, hrID string, f *dto.LeaveRangeFilter) ([]dto.LeaveResponse, error) {
	var status model.LeaveStatus
	if f.Status != "" {
		status = model.LeaveStatus(strings.ToUpper(f.Status))
		if !status.Valid() {
			return nil, ErrInvalidLeaveStatus
		}
	}

	q := repository.LeaveRangeQuery{HrID: hrID, Status: status}
	if f.StartDate != "" {
		d, err := workday.ParseDate(f.StartDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		q.StartDate = &d
	}
	if f.EndDate != "" {
		d, err := workday.ParseDate(f.EndDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		q.EndDate = &d
	}
	if q.StartDate != nil && q.EndDate != nil && q.StartDate.After(*q.EndDate) {
		return nil, ErrInvalidLeaveRange
	}

	var (
		list []model.LeaveRequest
		err  error
	)
	if q.StartDate == nil && q.EndDate == nil && status != "" {
		list, err = s.repo.Leave.ListByStatus(ctx, hrID, status, false)
	} else {
		list, err = s.repo.Leave.ListByRange(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	return dto.NewLeaveResponses(list), nil
}

func (s *leaveService) UsedLeaveCount(ctx context.Context, employeeID string, q *dto.LeaveStatsQuery) (*dto.LeaveStatsResponse, error) {
	leaveType := model.LeaveType(strings.ToUpper(q.LeaveType))
	if !leaveType.Valid() {
		return nil, ErrInvalidLeaveType
	}
	year := q.Year
	if year == 0 {
		year = s.now().In(s.loc).Year()
	}

	used, err := s.repo.Leave.CountApprovedByTypeAndYear(ctx, employeeID, leaveType, year)
	if err != nil {
		return nil, err
	}
	return &dto.LeaveStatsResponse{
		LeaveType: string(leaveType),
		Year:      year,
		Used:      used,
	}, nil
}

func (s *leaveService) Calendar(ctx context.Context, employeeID string) ([]byte, error) {
	emp, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	leaves, err := s.repo.Leave.ListApprovedByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return buildLeaveCalendar(emp, leaves, s.now()), nil
}
