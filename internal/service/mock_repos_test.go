package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KunjGarala/Dayflow/internal/model"
	"github.com/KunjGarala/Dayflow/internal/repository"
	pkgerrors "github.com/KunjGarala/Dayflow/pkg/errors"
	"github.com/KunjGarala/Dayflow/pkg/workday"
)

var errMockUniqueViolation = errors.New("duplicate key value violates unique constraint")

// ── Mock HrRepository ──

type mockHrRepo struct {
	hrs map[string]*model.HrUser
	seq int
}

func newMockHrRepo() *mockHrRepo {
	return &mockHrRepo{hrs: make(map[string]*model.HrUser)}
}

func (m *mockHrRepo) Create(_ context.Context, hr *model.HrUser) error {
	for _, h := range m.hrs {
		if h.Email == hr.Email {
			return &repository.DuplicateKeyError{Constraint: repository.ConstraintHrEmail, Err: errMockUniqueViolation}
		}
		if h.Phone == hr.Phone {
			return &repository.DuplicateKeyError{Constraint: repository.ConstraintHrPhone, Err: errMockUniqueViolation}
		}
	}
	if hr.ID == "" {
		m.seq++
		hr.ID = fmt.Sprintf("hr-%d", m.seq)
	}
	hr.CreatedAt = time.Now()
	m.hrs[hr.ID] = hr
	return nil
}

func (m *mockHrRepo) GetByID(_ context.Context, id string) (*model.HrUser, error) {
	if h, ok := m.hrs[id]; ok {
		return h, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHrRepo) GetByEmail(_ context.Context, email string) (*model.HrUser, error) {
	for _, h := range m.hrs {
		if h.Email == email {
			return h, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHrRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *mockHrRepo) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	for _, h := range m.hrs {
		if h.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockHrRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	h, ok := m.hrs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	h.PasswordHash = passwordHash
	return nil
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	emps map[string]*model.Employee
	seq  int
	// failCreates 大于 0 时，Create 以员工编号冲突失败并递减
	failCreates  int
	lockedPrefix []string
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{emps: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) Create(_ context.Context, emp *model.Employee) error {
	if m.failCreates > 0 {
		m.failCreates--
		return &repository.DuplicateKeyError{Constraint: repository.ConstraintEmployeeCode, Err: errMockUniqueViolation}
	}
	for _, e := range m.emps {
		switch {
		case e.EmployeeCode == emp.EmployeeCode:
			return &repository.DuplicateKeyError{Constraint: repository.ConstraintEmployeeCode, Err: errMockUniqueViolation}
		case e.Email == emp.Email:
			return &repository.DuplicateKeyError{Constraint: repository.ConstraintEmployeeEmail, Err: errMockUniqueViolation}
		case e.Mobile == emp.Mobile:
			return &repository.DuplicateKeyError{Constraint: repository.ConstraintEmployeeMobile, Err: errMockUniqueViolation}
		}
	}
	if emp.ID == "" {
		m.seq++
		emp.ID = fmt.Sprintf("emp-%d", m.seq)
	}
	emp.CreatedAt = time.Now()
	m.emps[emp.ID] = emp
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.emps[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Employee, error) {
	return m.GetByID(ctx, id)
}

func (m *mockEmployeeRepo) GetByCode(_ context.Context, code string) (*model.Employee, error) {
	for _, e := range m.emps {
		if e.EmployeeCode == code {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByEmail(_ context.Context, email string) (*model.Employee, error) {
	for _, e := range m.emps {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *mockEmployeeRepo) ExistsByMobile(_ context.Context, mobile string) (bool, error) {
	for _, e := range m.emps {
		if e.Mobile == mobile {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEmployeeRepo) ListByHr(_ context.Context, hrID string) ([]model.Employee, error) {
	var result []model.Employee
	for _, e := range m.emps {
		if e.HrID == hrID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeCode < result[j].EmployeeCode })
	return result, nil
}

func (m *mockEmployeeRepo) UpdatePassword(_ context.Context, id, passwordHash string, mustChange bool) error {
	e, ok := m.emps[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.PasswordHash = passwordHash
	e.MustChangePassword = mustChange
	return nil
}

func (m *mockEmployeeRepo) FindLastCodeByPrefix(_ context.Context, prefix string) (string, error) {
	last := ""
	for _, e := range m.emps {
		if strings.HasPrefix(e.EmployeeCode, prefix) && e.EmployeeCode > last {
			last = e.EmployeeCode
		}
	}
	return last, nil
}

func (m *mockEmployeeRepo) LockCodePrefix(_ context.Context, prefix string) error {
	m.lockedPrefix = append(m.lockedPrefix, prefix)
	return nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records map[string]*model.Attendance
	seq     int
	emps    *mockEmployeeRepo
	// closeErr 非空时 CloseOpen 对该记录 ID 返回此错误
	closeErr map[string]error
}

func newMockAttendanceRepo(emps *mockEmployeeRepo) *mockAttendanceRepo {
	return &mockAttendanceRepo{
		records:  make(map[string]*model.Attendance),
		emps:     emps,
		closeErr: make(map[string]error),
	}
}

func (m *mockAttendanceRepo) Create(_ context.Context, a *model.Attendance) error {
	for _, r := range m.records {
		if r.EmployeeID == a.EmployeeID && r.AttendanceDate.Equal(a.AttendanceDate) {
			return &repository.DuplicateKeyError{Constraint: repository.ConstraintAttendanceEmpDate, Err: errMockUniqueViolation}
		}
	}
	if a.ID == "" {
		m.seq++
		a.ID = fmt.Sprintf("att-%d", m.seq)
	}
	m.records[a.ID] = a
	return nil
}

func (m *mockAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*model.Attendance, error) {
	for _, r := range m.records {
		if r.EmployeeID == employeeID && r.AttendanceDate.Equal(date) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ExistsByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	_, err := m.GetByEmployeeAndDate(ctx, employeeID, date)
	return err == nil, nil
}

func (m *mockAttendanceRepo) CloseOpen(_ context.Context, id string, fields repository.CheckOutFields) error {
	if err, ok := m.closeErr[id]; ok {
		return err
	}
	r, ok := m.records[id]
	if !ok || r.CheckOutTime != nil {
		return pkgerrors.ErrOptimisticLock
	}
	out := fields.CheckOutTime
	r.CheckOutTime = &out
	r.CheckOutRemarks = fields.Remarks
	r.CheckOutLocation = fields.Location
	r.AutoClosed = fields.AutoClosed
	return nil
}

func (m *mockAttendanceRepo) between(pred func(r *model.Attendance) bool, from, to time.Time) []model.Attendance {
	var result []model.Attendance
	for _, r := range m.records {
		if r.AttendanceDate.Before(from) || r.AttendanceDate.After(to) || !pred(r) {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].AttendanceDate.Equal(result[j].AttendanceDate) {
			return result[i].AttendanceDate.Before(result[j].AttendanceDate)
		}
		return result[i].CheckInTime.Before(result[j].CheckInTime)
	})
	return result
}

func (m *mockAttendanceRepo) ListByEmployeeBetween(_ context.Context, employeeID string, from, to time.Time) ([]model.Attendance, error) {
	return m.between(func(r *model.Attendance) bool { return r.EmployeeID == employeeID }, from, to), nil
}

func (m *mockAttendanceRepo) ListOpenByDate(_ context.Context, date time.Time) ([]model.Attendance, error) {
	return m.between(func(r *model.Attendance) bool { return r.CheckOutTime == nil }, date, date), nil
}

func (m *mockAttendanceRepo) ListByHrBetween(_ context.Context, hrID, employeeID string, from, to time.Time) ([]model.Attendance, error) {
	list := m.between(func(r *model.Attendance) bool {
		emp, ok := m.emps.emps[r.EmployeeID]
		if !ok || emp.HrID != hrID {
			return false
		}
		return employeeID == "" || r.EmployeeID == employeeID
	}, from, to)
	for i := range list {
		list[i].Employee = m.emps.emps[list[i].EmployeeID]
	}
	return list, nil
}

// ── Mock LeaveRequestRepository ──

type mockLeaveRepo struct {
	leaves map[string]*model.LeaveRequest
	seq    int
	emps   *mockEmployeeRepo
}

func newMockLeaveRepo(emps *mockEmployeeRepo) *mockLeaveRepo {
	return &mockLeaveRepo{leaves: make(map[string]*model.LeaveRequest), emps: emps}
}

func (m *mockLeaveRepo) Create(_ context.Context, l *model.LeaveRequest) error {
	if l.ID == "" {
		m.seq++
		l.ID = fmt.Sprintf("leave-%d", m.seq)
	}
	// 以序号递增的创建时间保证排序稳定
	l.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.seq) * time.Minute)
	cp := *l
	m.leaves[l.ID] = &cp
	return nil
}

func (m *mockLeaveRepo) GetByID(_ context.Context, id string) (*model.LeaveRequest, error) {
	l, ok := m.leaves[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	cp.Employee = m.emps.emps[l.EmployeeID]
	return &cp, nil
}

func (m *mockLeaveRepo) filter(pred func(l *model.LeaveRequest) bool, oldestFirst bool) []model.LeaveRequest {
	var result []model.LeaveRequest
	for _, l := range m.leaves {
		if pred(l) {
			cp := *l
			cp.Employee = m.emps.emps[l.EmployeeID]
			result = append(result, cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if oldestFirst {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (m *mockLeaveRepo) ownedBy(hrID string, l *model.LeaveRequest) bool {
	emp, ok := m.emps.emps[l.EmployeeID]
	return ok && emp.HrID == hrID
}

func page(list []model.LeaveRequest, offset, limit int) []model.LeaveRequest {
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

func (m *mockLeaveRepo) ListByEmployee(_ context.Context, employeeID string, offset, limit int) ([]model.LeaveRequest, int64, error) {
	all := m.filter(func(l *model.LeaveRequest) bool { return l.EmployeeID == employeeID }, false)
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockLeaveRepo) ListByHr(_ context.Context, hrID string, offset, limit int) ([]model.LeaveRequest, int64, error) {
	all := m.filter(func(l *model.LeaveRequest) bool { return m.ownedBy(hrID, l) }, false)
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockLeaveRepo) ListByStatus(_ context.Context, hrID string, status model.LeaveStatus, oldestFirst bool) ([]model.LeaveRequest, error) {
	return m.filter(func(l *model.LeaveRequest) bool {
		return m.ownedBy(hrID, l) && l.Status == status
	}, oldestFirst), nil
}

func (m *mockLeaveRepo) ListByRange(_ context.Context, q repository.LeaveRangeQuery) ([]model.LeaveRequest, error) {
	return m.filter(func(l *model.LeaveRequest) bool {
		if !m.ownedBy(q.HrID, l) {
			return false
		}
		if q.StartDate != nil && l.StartDate.Before(*q.StartDate) {
			return false
		}
		if q.EndDate != nil && l.EndDate.After(*q.EndDate) {
			return false
		}
		return q.Status == "" || l.Status == q.Status
	}, false), nil
}

func (m *mockLeaveRepo) FindApprovedOverlapping(_ context.Context, employeeID string, start, end time.Time, excludeID string) ([]model.LeaveRequest, error) {
	return m.filter(func(l *model.LeaveRequest) bool {
		return l.EmployeeID == employeeID &&
			l.Status == model.LeaveApproved &&
			l.ID != excludeID &&
			workday.Overlaps(l.StartDate, l.EndDate, start, end)
	}, true), nil
}

func (m *mockLeaveRepo) ListApprovedByEmployee(_ context.Context, employeeID string) ([]model.LeaveRequest, error) {
	list := m.filter(func(l *model.LeaveRequest) bool {
		return l.EmployeeID == employeeID && l.Status == model.LeaveApproved
	}, true)
	sort.Slice(list, func(i, j int) bool { return list[i].StartDate.Before(list[j].StartDate) })
	return list, nil
}

func (m *mockLeaveRepo) CountApprovedByTypeAndYear(_ context.Context, employeeID string, leaveType model.LeaveType, year int) (int64, error) {
	var n int64
	for _, l := range m.leaves {
		if l.EmployeeID == employeeID && l.LeaveType == leaveType &&
			l.Status == model.LeaveApproved && l.StartDate.Year() == year {
			n++
		}
	}
	return n, nil
}

func (m *mockLeaveRepo) TransitionFromPending(_ context.Context, id string, d repository.LeaveDecision) error {
	l, ok := m.leaves[id]
	if !ok || l.Status != model.LeavePending {
		return pkgerrors.ErrOptimisticLock
	}
	l.Status = d.Status
	l.AdminComment = d.AdminComment
	l.DecidedBy = d.DecidedBy
	at := d.DecidedAt
	l.DecidedAt = &at
	return nil
}

// ── 测试夹具 ──

type mockRepos struct {
	hr         *mockHrRepo
	employee   *mockEmployeeRepo
	attendance *mockAttendanceRepo
	leave      *mockLeaveRepo
	repo       *repository.Repository
}

func newMockRepos() *mockRepos {
	hr := newMockHrRepo()
	emp := newMockEmployeeRepo()
	m := &mockRepos{
		hr:         hr,
		employee:   emp,
		attendance: newMockAttendanceRepo(emp),
		leave:      newMockLeaveRepo(emp),
	}
	m.repo = &repository.Repository{
		Hr:         m.hr,
		Employee:   m.employee,
		Attendance: m.attendance,
		Leave:      m.leave,
	}
	return m
}

// seedHr 写入一名 HR，密码为明文 password
func (m *mockRepos) seedHr(id, email, password string) *model.HrUser {
	hash, _ := HashPassword(password)
	hr := &model.HrUser{
		ID:           id,
		CompanyName:  "Cognizant",
		Name:         "Asha Rao",
		Email:        email,
		Phone:        "98765" + fmt.Sprintf("%05d", len(m.hr.hrs)),
		PasswordHash: hash,
	}
	m.hr.hrs[id] = hr
	return hr
}

// seedEmployee 写入一名员工，密码为明文 password
func (m *mockRepos) seedEmployee(id, hrID, code, email, password string) *model.Employee {
	hash, _ := HashPassword(password)
	emp := &model.Employee{
		ID:                 id,
		EmployeeCode:       code,
		FirstName:          "John",
		LastName:           "Doe",
		Email:              email,
		Mobile:             "91234" + fmt.Sprintf("%05d", len(m.employee.emps)),
		PasswordHash:       hash,
		MustChangePassword: true,
		Company:            "Cognizant",
		YearOfJoining:      2023,
		HrID:               hrID,
	}
	m.employee.emps[id] = emp
	return emp
}

// fixedClock 返回固定时刻，可手动推进
type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func newTestAttendanceService(m *mockRepos, clock *fixedClock) *attendanceService {
	svc := NewAttendanceService(m.repo, time.UTC, zap.NewNop()).(*attendanceService)
	svc.now = clock.Now
	return svc
}

func newTestLeaveService(m *mockRepos, clock *fixedClock) *leaveService {
	svc := NewLeaveService(m.repo, time.UTC, zap.NewNop()).(*leaveService)
	svc.now = clock.Now
	return svc
}

func errOptimisticLockForTest() error { return pkgerrors.ErrOptimisticLock }
