// Package workday 提供考勤与请假共用的工作日规则：周六、周日为休息日。
//
// 日期统一以 UTC 零点的 time.Time 表示“公历日期”，与 PostgreSQL DATE 列往返时不受时区影响。
package workday

import "time"

// DateLayout 日期的文本格式
const DateLayout = "2006-01-02"

// Date 构造 UTC 零点日期
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf 取 t 在 loc 时区下的公历日期
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return Date(y, m, d)
}

// Normalize 去掉时分秒，保留 t 自身时区下的年月日
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Normalize(t), nil
}

// IsWeekend 周六或周日
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// CountWorkingDays 统计 [start, end] 闭区间内的工作日数；start 晚于 end 时返回 0
func CountWorkingDays(start, end time.Time) int {
	start, end = Normalize(start), Normalize(end)
	if start.After(end) {
		return 0
	}
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !IsWeekend(d) {
			count++
		}
	}
	return count
}

// Overlaps 两个闭区间是否相交
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// MonthRange 返回某月的首日与末日
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	first := Date(year, month, 1)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// At 在 date 对应的公历日期上取 loc 时区的 hour:minute
func At(date time.Time, hour, minute int, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, loc)
}
