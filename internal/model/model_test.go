package model

import (
	"testing"
	"time"
)

func ptr(t time.Time) *time.Time { return &t }

func TestAttendance_TotalHours(t *testing.T) {
	in := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	open := &Attendance{CheckInTime: in}
	if got := open.TotalHours(); got != 8.0 {
		t.Errorf("未签退期望 8.0，实际 %v", got)
	}
	if got := open.OvertimeMinutes(); got != 0 {
		t.Errorf("未签退加班期望 0，实际 %d", got)
	}

	closed := &Attendance{CheckInTime: in, CheckOutTime: ptr(in.Add(9*time.Hour + 30*time.Minute))}
	if got := closed.TotalHours(); got != 9.5 {
		t.Errorf("期望 9.5，实际 %v", got)
	}
	if got := closed.OvertimeMinutes(); got != 90 {
		t.Errorf("期望加班 90 分钟，实际 %d", got)
	}
}

func TestAttendance_OvertimeTruncates(t *testing.T) {
	in := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	a := &Attendance{CheckInTime: in, CheckOutTime: ptr(in.Add(8*time.Hour + 59*time.Second))}
	if got := a.OvertimeMinutes(); got != 0 {
		t.Errorf("不足 1 分钟期望 0，实际 %d", got)
	}

	short := &Attendance{CheckInTime: in, CheckOutTime: ptr(in.Add(4 * time.Hour))}
	if got := short.OvertimeMinutes(); got != 0 {
		t.Errorf("工时不足 8h 期望 0，实际 %d", got)
	}
}

func TestLeaveEnums(t *testing.T) {
	if !LeaveSick.Valid() || LeaveType("VACATION").Valid() {
		t.Error("LeaveType.Valid 判断错误")
	}
	if !LeaveCancelled.Valid() || LeaveStatus("DONE").Valid() {
		t.Error("LeaveStatus.Valid 判断错误")
	}
}
