package service

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/KunjGarala/Dayflow/internal/model"
)

// ── iCalendar 导出 ──────────────────────────────────────────
//
// 每条已批准请假对应一个全天事件；DTEND 为结束日次日（RFC 5545 全天事件不含结束日）。
// UID 取请假 ID，订阅方可据此增量更新。
// ─────────────────────────────────────────────────────────────

const calendarProdID = "-//Dayflow//Leave Calendar//ZH"

var leaveTypeLabels = map[model.LeaveType]string{
	model.LeavePaidTimeOff: "带薪休假",
	model.LeaveSick:        "病假",
	model.LeaveUnpaid:      "无薪假",
}

func buildLeaveCalendar(emp *model.Employee, leaves []model.LeaveRequest, stamp time.Time) []byte {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProdID)
	cal.SetName(fmt.Sprintf("%s 的请假", emp.FullName()))

	for i := range leaves {
		l := &leaves[i]
		event := cal.AddEvent(l.ID + "@dayflow")
		event.SetDtStampTime(stamp.UTC())
		event.SetAllDayStartAt(l.StartDate)
		event.SetAllDayEndAt(l.EndDate.AddDate(0, 0, 1))
		label, ok := leaveTypeLabels[l.LeaveType]
		if !ok {
			label = string(l.LeaveType)
		}
		event.SetSummary(fmt.Sprintf("%s（%d 个工作日）", label, l.NumberOfDays))
		if l.Note != "" {
			event.SetDescription(l.Note)
		}
		event.SetStatus(ics.ObjectStatusConfirmed)
	}

	return []byte(cal.Serialize())
}
