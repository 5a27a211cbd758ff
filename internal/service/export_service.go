package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KunjGarala/Dayflow/internal/model"
	"github.com/KunjGarala/Dayflow/internal/repository"
	"github.com/KunjGarala/Dayflow/pkg/workday"
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
type ExportService interface {
	// ExportMonthlyAttendance 导出 HR 名下员工某月考勤为 Excel
	ExportMonthlyAttendance(ctx context.Context, hrID string, year, month int) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, loc: loc, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportMonthlyAttendance 导出月度考勤表
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "考勤汇总"：每名员工一行，列为当月每一天，单元格为工时；
//     周末为 "休"，无记录为 "-"，未签退为 "未签退"；末尾为出勤天数与总工时
//   - Sheet "考勤明细"：逐条记录，含签到/签退时间、工时与加班分钟数
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

const (
	summarySheet = "考勤汇总"
	detailSheet  = "考勤明细"
)

func (s *exportService) ExportMonthlyAttendance(ctx context.Context, hrID string, year, month int) (*bytes.Buffer, string, error) {
	first, last, err := monthBounds(year, month)
	if err != nil {
		return nil, "", err
	}

	// 1. 查询 HR 与员工
	hr, err := s.repo.Hr.GetByID(ctx, hrID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrHrNotFound
		}
		return nil, "", err
	}
	employees, err := s.repo.Employee.ListByHr(ctx, hrID)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, "", err
	}

	// 2. 查询当月考勤
	records, err := s.repo.Attendance.ListByHrBetween(ctx, hrID, "", first, last)
	if err != nil {
		s.logger.Error("查询月度考勤失败", zap.Error(err))
		return nil, "", err
	}

	// 3. 索引: "employeeID:YYYY-MM-DD" → 记录
	index := make(map[string]*model.Attendance, len(records))
	for i := range records {
		r := &records[i]
		index[r.EmployeeID+":"+r.AttendanceDate.Format(workday.DateLayout)] = r
	}

	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(summarySheet)
	f.SetActiveSheet(idx)
	f.NewSheet(detailSheet)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	weekendStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	// 汇总表
	lastCol := colName(2 + len(days) + 1)
	f.SetColWidth(summarySheet, "A", "A", 12)
	f.SetColWidth(summarySheet, "B", "B", 16)
	f.SetColWidth(summarySheet, colName(2), colName(1+len(days)), 7)

	title := fmt.Sprintf("%s %d年%d月考勤", hr.CompanyName, year, month)
	f.SetCellValue(summarySheet, "A1", title)
	f.MergeCell(summarySheet, "A1", cell(lastCol, 1))
	f.SetCellStyle(summarySheet, "A1", "A1", headerStyle)

	row := 2
	f.SetCellValue(summarySheet, cell("A", row), "员工编号")
	f.SetCellValue(summarySheet, cell("B", row), "姓名")
	for i, d := range days {
		f.SetCellValue(summarySheet, cell(colName(2+i), row), d.Day())
	}
	f.SetCellValue(summarySheet, cell(colName(2+len(days)), row), "出勤天数")
	f.SetCellValue(summarySheet, cell(lastCol, row), "总工时")
	f.SetCellStyle(summarySheet, cell("A", row), cell(lastCol, row), headerStyle)

	row = 3
	for _, emp := range employees {
		f.SetCellValue(summarySheet, cell("A", row), emp.EmployeeCode)
		f.SetCellValue(summarySheet, cell("B", row), emp.FullName())

		present := 0
		total := 0.0
		for i, d := range days {
			c := cell(colName(2+i), row)
			r, ok := index[emp.ID+":"+d.Format(workday.DateLayout)]
			switch {
			case ok && r.IsCheckedOut():
				present++
				total += r.TotalHours()
				f.SetCellValue(summarySheet, c, roundHours(r.TotalHours()))
			case ok:
				present++
				total += r.TotalHours()
				f.SetCellValue(summarySheet, c, "未签退")
			case workday.IsWeekend(d):
				f.SetCellValue(summarySheet, c, "休")
				f.SetCellStyle(summarySheet, c, c, weekendStyle)
			default:
				f.SetCellValue(summarySheet, c, "-")
			}
		}
		f.SetCellValue(summarySheet, cell(colName(2+len(days)), row), present)
		f.SetCellValue(summarySheet, cell(lastCol, row), roundHours(total))
		row++
	}

	// 明细表
	detailHeaders := []string{"日期", "员工编号", "姓名", "签到", "签退", "工时", "加班(分钟)", "自动签退", "签到备注", "签退备注"}
	for i, h := range detailHeaders {
		f.SetCellValue(detailSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(detailSheet, "A1", cell(colName(len(detailHeaders)-1), 1), headerStyle)
	f.SetColWidth(detailSheet, "A", "C", 14)
	f.SetColWidth(detailSheet, "I", "J", 30)

	row = 2
	for i := range records {
		r := &records[i]
		f.SetCellValue(detailSheet, cell("A", row), r.AttendanceDate.Format(workday.DateLayout))
		if r.Employee != nil {
			f.SetCellValue(detailSheet, cell("B", row), r.Employee.EmployeeCode)
			f.SetCellValue(detailSheet, cell("C", row), r.Employee.FullName())
		}
		f.SetCellValue(detailSheet, cell("D", row), r.CheckInTime.In(s.loc).Format("15:04"))
		if r.CheckOutTime != nil {
			f.SetCellValue(detailSheet, cell("E", row), r.CheckOutTime.In(s.loc).Format("15:04"))
		}
		f.SetCellValue(detailSheet, cell("F", row), roundHours(r.TotalHours()))
		f.SetCellValue(detailSheet, cell("G", row), r.OvertimeMinutes())
		if r.AutoClosed {
			f.SetCellValue(detailSheet, cell("H", row), "是")
		}
		f.SetCellValue(detailSheet, cell("I", row), r.CheckInRemarks)
		f.SetCellValue(detailSheet, cell("J", row), r.CheckOutRemarks)
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("考勤_%d-%02d.xlsx", year, month)
	return buf, filename, nil
}

// ── 辅助函数 ──

// colName 0 起始列号转列名
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func roundHours(h float64) float64 {
	return float64(int(h*100+0.5)) / 100
}
