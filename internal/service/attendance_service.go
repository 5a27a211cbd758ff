package service

import (
	"context"
	"errors"
	"sort"
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

const autoCloseRemark = "系统自动签退"

// SweepResult 一次自动签退的处理结果
type SweepResult struct {
	Date    time.Time
	Scanned int
	Closed  int
	Skipped int
	Failed  int
}

// AttendanceService 考勤业务接口
//
// “今天”指考勤时区下的公历日期。每名员工每天至多一条记录：
// 未签到 → 已签到 → 已签退（当日终态）。
type AttendanceService interface {
	CheckIn(ctx context.Context, employeeID string, req *dto.CheckInRequest) (*dto.AttendanceResponse, error)
	CheckOut(ctx context.Context, employeeID string, req *dto.CheckOutRequest) (*dto.AttendanceResponse, error)
	// Today 当日记录，无记录时返回 (nil, nil)
	Today(ctx context.Context, employeeID string) (*dto.AttendanceResponse, error)
	// CanCheckIn 周末或当日已有记录（无论是否签退）时为 false
	CanCheckIn(ctx context.Context, employeeID string) (bool, error)
	Monthly(ctx context.Context, employeeID string, year, month int) ([]dto.AttendanceResponse, error)
	CurrentMonth(ctx context.Context, employeeID string) ([]dto.AttendanceResponse, error)
	Summary(ctx context.Context, employeeID string, year, month int) (*dto.AttendanceSummaryResponse, error)

	// AutoCloseSweep 将 day 当天所有未签退记录以 cutoff 签退
	// 逐条独立处理，单条失败只记日志不影响其他记录；重复执行无副作用
	AutoCloseSweep(ctx context.Context, day, cutoff time.Time) (*SweepResult, error)

	ListForHr(ctx context.Context, hrID string, filter *dto.HrAttendanceFilter) ([]dto.AttendanceResponse, error)
	HrMonthlySummary(ctx context.Context, hrID string, year, month int) (*dto.HrMonthlySummaryResponse, error)
	DailyReport(ctx context.Context, hrID, date string) (*dto.DailyReportResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) AttendanceService {
	return &attendanceService{
		repo:   repo,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

func (s *attendanceService) today() time.Time {
	return workday.DateOf(s.now(), s.loc)
}

func (s *attendanceService) getEmployee(ctx context.Context, employeeID string) (*model.Employee, error) {
	emp, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	return emp, nil
}

// ──────────────────────── CheckIn ────────────────────────

func (s *attendanceService) CheckIn(ctx context.Context, employeeID string, req *dto.CheckInRequest) (*dto.AttendanceResponse, error) {
	now := s.now()
	today := workday.DateOf(now, s.loc)

	emp, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if workday.IsWeekend(today) {
		return nil, ErrWeekendCheckIn
	}

	exists, err := s.repo.Attendance.ExistsByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyCheckedIn
	}

	record := &model.Attendance{
		EmployeeID:      employeeID,
		AttendanceDate:  today,
		CheckInTime:     now,
		CheckInRemarks:  req.Remarks,
		CheckInLocation: req.Location,
	}
	// 并发签到由 (employee_id, attendance_date) 唯一约束兜底
	if err := s.repo.Attendance.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrAlreadyCheckedIn
		}
		s.logger.Error("写入签到记录失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	record.Employee = emp

	resp := dto.NewAttendanceResponse(record, s.loc)
	return &resp, nil
}

// ──────────────────────── CheckOut ────────────────────────

func (s *attendanceService) CheckOut(ctx context.Context, employeeID string, req *dto.CheckOutRequest) (*dto.AttendanceResponse, error) {
	now := s.now()
	today := workday.DateOf(now, s.loc)

	emp, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.Attendance.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCheckedIn
		}
		return nil, err
	}
	if record.IsCheckedOut() {
		return nil, ErrAlreadyCheckedOut
	}
	if now.Before(record.CheckInTime) {
		return nil, ErrInvalidTimeOrder
	}

	err = s.repo.Attendance.CloseOpen(ctx, record.ID, repository.CheckOutFields{
		CheckOutTime: now,
		Remarks:      req.Remarks,
		Location:     req.Location,
	})
	if err != nil {
		// 读取之后被自动签退抢先关闭
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrAlreadyCheckedOut
		}
		s.logger.Error("写入签退失败", zap.String("attendance_id", record.ID), zap.Error(err))
		return nil, err
	}

	record.CheckOutTime = &now
	record.CheckOutRemarks = req.Remarks
	record.CheckOutLocation = req.Location
	record.Employee = emp

	resp := dto.NewAttendanceResponse(record, s.loc)
	return &resp, nil
}

// ──────────────────────── Today / CanCheckIn ────────────────────────

func (s *attendanceService) Today(ctx context.Context, employeeID string) (*dto.AttendanceResponse, error) {
	emp, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.Attendance.GetByEmployeeAndDate(ctx, employeeID, s.today())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	record.Employee = emp
	resp := dto.NewAttendanceResponse(record, s.loc)
	return &resp, nil
}

func (s *attendanceService) CanCheckIn(ctx context.Context, employeeID string) (bool, error) {
	today := s.today()
	if workday.IsWeekend(today) {
		return false, nil
	}
	if _, err := s.getEmployee(ctx, employeeID); err != nil {
		return false, err
	}
	exists, err := s.repo.Attendance.ExistsByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// ──────────────────────── Monthly / Summary ────────────────────────

func monthBounds(year, month int) (time.Time, time.Time, error) {
	if year < 1900 || year > 2999 || month < 1 || month > 12 {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	first, last := workday.MonthRange(year, time.Month(month))
	return first, last, nil
}

func (s *attendanceService) monthRecords(ctx context.Context, emp *model.Employee, year, month int) ([]model.Attendance, error) {
	first, last, err := monthBounds(year, month)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.Attendance.ListByEmployeeBetween(ctx, emp.ID, first, last)
	if err != nil {
		s.logger.Error("查询月度考勤失败", zap.String("employee_id", emp.ID), zap.Error(err))
		return nil, err
	}
	return records, nil
}

func (s *attendanceService) Monthly(ctx context.Context, employeeID string, year, month int) ([]dto.AttendanceResponse, error) {
	emp, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	records, err := s.monthRecords(ctx, emp, year, month)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		records[i].Employee = emp
		out = append(out, dto.NewAttendanceResponse(&records[i], s.loc))
	}
	return out, nil
}

func (s *attendanceService) CurrentMonth(ctx context.Context, employeeID string) ([]dto.AttendanceResponse, error) {
	today := s.today()
	return s.Monthly(ctx, employeeID, today.Year(), int(today.Month()))
}

func (s *attendanceService) Summary(ctx context.Context, employeeID string, year, month int) (*dto.AttendanceSummaryResponse, error) {
	emp, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	records, err := s.monthRecords(ctx, emp, year, month)
	if err != nil {
		return nil, err
	}

	summary := &dto.AttendanceSummaryResponse{
		EmployeeName: emp.FullName(),
		EmployeeCode: emp.EmployeeCode,
		Month:        strings.ToUpper(time.Month(month).String()),
		Year:         year,
		TotalDays:    len(records),
	}
	for i := range records {
		r := &records[i]
		if !r.CheckInTime.IsZero() {
			summary.PresentDays++
		}
		if r.IsCheckedOut() {
			summary.CheckedOutDays++
		}
		summary.TotalHours += r.TotalHours()
	}
	summary.AbsentDays = summary.TotalDays - summary.PresentDays
	if summary.TotalDays > 0 {
		summary.AvgHoursPerDay = summary.TotalHours / float64(summary.TotalDays)
	}
	return summary, nil
}

// ──────────────────────── AutoCloseSweep ────────────────────────

func (s *attendanceService) AutoCloseSweep(ctx context.Context, day, cutoff time.Time) (*SweepResult, error) {
	day = workday.Normalize(day)
	open, err := s.repo.Attendance.ListOpenByDate(ctx, day)
	if err != nil {
		s.logger.Error("查询未签退记录失败", zap.Time("date", day), zap.Error(err))
		return nil, err
	}

	result := &SweepResult{Date: day, Scanned: len(open)}
	for i := range open {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		record := &open[i]
		if cutoff.Before(record.CheckInTime) {
			s.logger.Warn("签到时间晚于自动签退时刻，跳过",
				zap.String("attendance_id", record.ID),
				zap.Time("check_in", record.CheckInTime),
				zap.Time("cutoff", cutoff),
			)
			result.Skipped++
			continue
		}

		err := s.repo.Attendance.CloseOpen(ctx, record.ID, repository.CheckOutFields{
			CheckOutTime: cutoff,
			Remarks:      autoCloseRemark,
			AutoClosed:   true,
		})
		switch {
		case err == nil:
			result.Closed++
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			// 员工已自行签退
			result.Skipped++
		default:
			s.logger.Error("自动签退失败",
				zap.String("attendance_id", record.ID),
				zap.String("employee_id", record.EmployeeID),
				zap.Error(err),
			)
			result.Failed++
		}
	}

	s.logger.Info("自动签退完成",
		zap.String("date", day.Format(workday.DateLayout)),
		zap.Int("scanned", result.Scanned),
		zap.Int("closed", result.Closed),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// ──────────────────────── HR 视角 ────────────────────────

func parseOptionalDate(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := workday.ParseDate(s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func (s *attendanceService) ListForHr(ctx context.Context, hrID string, filter *dto.HrAttendanceFilter) ([]dto.AttendanceResponse, error) {
	today := s.today()
	start, err := parseOptionalDate(filter.StartDate, today)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate(filter.EndDate, today)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	if filter.EmployeeID != "" {
		emp, err := s.getEmployee(ctx, filter.EmployeeID)
		if err != nil {
			return nil, err
		}
		if emp.HrID != hrID {
			return nil, ErrEmployeeNotOwned
		}
	}

	records, err := s.repo.Attendance.ListByHrBetween(ctx, hrID, filter.EmployeeID, start, end)
	if err != nil {
		s.logger.Error("查询员工考勤失败", zap.String("hr_id", hrID), zap.Error(err))
		return nil, err
	}
	out := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		out = append(out, dto.NewAttendanceResponse(&records[i], s.loc))
	}
	return out, nil
}

func (s *attendanceService) HrMonthlySummary(ctx context.Context, hrID string, year, month int) (*dto.HrMonthlySummaryResponse, error) {
	first, last, err := monthBounds(year, month)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.Attendance.ListByHrBetween(ctx, hrID, "", first, last)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*dto.DailyAttendanceSummary)
	for i := range records {
		r := &records[i]
		key := r.AttendanceDate.Format(workday.DateLayout)
		day, ok := byDate[key]
		if !ok {
			day = &dto.DailyAttendanceSummary{Date: key}
			byDate[key] = day
		}
		day.Records++
		if r.IsCheckedOut() {
			day.CheckedOut++
			day.TotalHours += r.TotalHours()
		}
	}

	days := make([]dto.DailyAttendanceSummary, 0, len(byDate))
	for _, d := range byDate {
		if d.CheckedOut > 0 {
			d.AvgHoursPerDay = d.TotalHours / float64(d.CheckedOut)
		}
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	return &dto.HrMonthlySummaryResponse{
		Month: strings.ToUpper(time.Month(month).String()),
		Year:  year,
		Days:  days,
	}, nil
}

func (s *attendanceService) DailyReport(ctx context.Context, hrID, date string) (*dto.DailyReportResponse, error) {
	day, err := parseOptionalDate(date, s.today())
	if err != nil {
		return nil, err
	}
	hr, err := s.repo.Hr.GetByID(ctx, hrID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHrNotFound
		}
		return nil, err
	}
	records, err := s.repo.Attendance.ListByHrBetween(ctx, hrID, "", day, day)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.AttendanceRecordRow, 0, len(records))
	for i := range records {
		r := &records[i]
		row := dto.AttendanceRecordRow{
			CheckIn:    r.CheckInTime.In(s.loc).Format("15:04"),
			WorkHours:  r.TotalHours(),
			ExtraHours: float64(r.OvertimeMinutes()) / 60,
		}
		if r.CheckOutTime != nil {
			row.CheckOut = r.CheckOutTime.In(s.loc).Format("15:04")
		}
		if r.Employee != nil {
			row.EmployeeName = r.Employee.FullName()
			row.EmployeeCode = r.Employee.EmployeeCode
		}
		rows = append(rows, row)
	}

	return &dto.DailyReportResponse{
		CompanyName:    hr.CompanyName,
		AttendanceDate: day.Format(workday.DateLayout),
		Records:        rows,
	}, nil
}
