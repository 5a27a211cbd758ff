package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func setupTestExportService() (ExportService, *mockRepos) {
	m := newMockRepos()
	m.seedHr("hr-1", "hr@acme.io", "Passw0rd!")
	m.seedEmployee("emp-1", "hr-1", "COJO23001", "john@acme.io", "Temp1234")
	return NewExportService(m.repo, time.UTC, zap.NewNop()), m
}

func TestExportService_ExportMonthlyAttendance(t *testing.T) {
	svc, m := setupTestExportService()
	seedAttendance(m, "att-1", "emp-1", monday, ptrTime(monday.Add(9*time.Hour)))
	seedAttendance(m, "att-2", "emp-1", monday.AddDate(0, 0, 1), nil)

	buf, filename, err := svc.ExportMonthlyAttendance(context.Background(), "hr-1", 2025, 3)
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if filename != "考勤_2025-03.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("生成的 Excel 无法打开: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != summarySheet || sheets[1] != detailSheet {
		t.Fatalf("Sheet 列表不符: %v", sheets)
	}

	// 第 3 行为首名员工；B 列为姓名，C 列起为 1 号
	if v, _ := f.GetCellValue(summarySheet, "A3"); v != "COJO23001" {
		t.Errorf("员工编号不符: %q", v)
	}
	// 10 号位于第 2+9 列
	if v, _ := f.GetCellValue(summarySheet, cell(colName(2+9), 3)); v != "9" {
		t.Errorf("10 号工时期望 9，实际=%q", v)
	}
	if v, _ := f.GetCellValue(summarySheet, cell(colName(2+10), 3)); v != "未签退" {
		t.Errorf("11 号期望 未签退，实际=%q", v)
	}
	// 2025-03-01 为周六
	if v, _ := f.GetCellValue(summarySheet, cell(colName(2), 3)); v != "休" {
		t.Errorf("周末期望 休，实际=%q", v)
	}
	if v, _ := f.GetCellValue(summarySheet, cell(colName(2+31), 3)); v != "2" {
		t.Errorf("出勤天数期望 2，实际=%q", v)
	}

	rows, err := f.GetRows(detailSheet)
	if err != nil {
		t.Fatalf("读取明细失败: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("明细期望表头加 2 行，实际=%d", len(rows))
	}
}

func TestExportService_InvalidMonth(t *testing.T) {
	svc, _ := setupTestExportService()

	if _, _, err := svc.ExportMonthlyAttendance(context.Background(), "hr-1", 2025, 0); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("期望 ErrInvalidMonth，实际: %v", err)
	}
}

func TestExportService_UnknownHr(t *testing.T) {
	svc, _ := setupTestExportService()

	if _, _, err := svc.ExportMonthlyAttendance(context.Background(), "missing", 2025, 3); !errors.Is(err, ErrHrNotFound) {
		t.Errorf("期望 ErrHrNotFound，实际: %v", err)
	}
}
