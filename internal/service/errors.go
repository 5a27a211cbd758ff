package service

import (
	pkgerrors "github.com/KunjGarala/Dayflow/pkg/errors"
)

// ── 认证 / 账号 ──

var (
	ErrInvalidCredentials = pkgerrors.New(pkgerrors.KindInvalidCredentials, 20001, "账号或密码错误")
	ErrWrongOldPassword   = pkgerrors.New(pkgerrors.KindInvalidArgument, 20002, "原密码错误")
	ErrSamePassword       = pkgerrors.New(pkgerrors.KindInvalidArgument, 20003, "新密码不能与原密码相同")
	ErrPasswordMismatch   = pkgerrors.New(pkgerrors.KindInvalidArgument, 20004, "两次输入的密码不一致")
	ErrHrEmailExists      = pkgerrors.New(pkgerrors.KindConflict, 20005, "邮箱已被注册")
	ErrHrPhoneExists      = pkgerrors.New(pkgerrors.KindConflict, 20006, "手机号已被注册")
	ErrHrNotFound         = pkgerrors.New(pkgerrors.KindNotFound, 20007, "HR 账号不存在")
)

// ── 员工 ──

var (
	ErrEmployeeNotFound      = pkgerrors.New(pkgerrors.KindNotFound, 30001, "员工不存在")
	ErrEmployeeEmailExists   = pkgerrors.New(pkgerrors.KindConflict, 30002, "员工邮箱已存在")
	ErrEmployeeMobileExists  = pkgerrors.New(pkgerrors.KindConflict, 30003, "员工手机号已存在")
	ErrEmployeeCodeConflict  = pkgerrors.New(pkgerrors.KindConflict, 30004, "员工编号分配冲突，请稍后重试")
	ErrEmployeeCodeExhausted = pkgerrors.New(pkgerrors.KindConflict, 30005, "该前缀下员工编号已用尽")
	ErrEmployeeNotOwned      = pkgerrors.New(pkgerrors.KindForbidden, 30006, "无权访问该员工")
)

// ── 考勤 ──

var (
	ErrAlreadyCheckedIn  = pkgerrors.New(pkgerrors.KindConflict, 40001, "今日已签到")
	ErrNotCheckedIn      = pkgerrors.New(pkgerrors.KindNotFound, 40002, "今日尚未签到")
	ErrAlreadyCheckedOut = pkgerrors.New(pkgerrors.KindConflict, 40003, "今日已签退")
	ErrInvalidTimeOrder  = pkgerrors.New(pkgerrors.KindInvalidTransition, 40004, "签退时间不能早于签到时间")
	ErrWeekendCheckIn    = pkgerrors.New(pkgerrors.KindInvalidArgument, 40005, "周末不可签到")
	ErrInvalidRange      = pkgerrors.New(pkgerrors.KindInvalidArgument, 40006, "开始日期不能晚于结束日期")
	ErrInvalidMonth      = pkgerrors.New(pkgerrors.KindInvalidArgument, 40007, "年份或月份无效")
	ErrInvalidDate       = pkgerrors.New(pkgerrors.KindInvalidArgument, 40008, "日期格式无效，应为 YYYY-MM-DD")
)

// ── 请假 ──

var (
	ErrLeaveNotFound      = pkgerrors.New(pkgerrors.KindNotFound, 50001, "请假申请不存在")
	ErrInvalidLeaveRange  = pkgerrors.New(pkgerrors.KindInvalidArgument, 50002, "请假开始日期不能晚于结束日期")
	ErrInvalidLeaveType   = pkgerrors.New(pkgerrors.KindInvalidArgument, 50003, "请假类型无效")
	ErrOverlappingLeave   = pkgerrors.New(pkgerrors.KindConflict, 50004, "与已批准的请假日期重叠")
	ErrInvalidDecision    = pkgerrors.New(pkgerrors.KindInvalidArgument, 50005, "审批结果只能为 APPROVED 或 REJECTED")
	ErrInvalidTransition  = pkgerrors.New(pkgerrors.KindInvalidTransition, 50006, "请假申请已处理，不可重复变更")
	ErrLeaveNotOwned      = pkgerrors.New(pkgerrors.KindForbidden, 50007, "无权操作该请假申请")
	ErrInvalidLeaveStatus = pkgerrors.New(pkgerrors.KindInvalidArgument, 50008, "请假状态无效")
)

// ── 导出 ──

var (
	ErrExportGenerateFail = pkgerrors.New(pkgerrors.KindInternal, 60001, "生成 Excel 文件失败")
)
