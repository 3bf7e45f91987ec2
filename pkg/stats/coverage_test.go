package stats

import (
	"testing"

	"github.com/zhibopai/zhibopai/pkg/model"
	"github.com/zhibopai/zhibopai/pkg/roster"
)

func TestCoverageAnalyzer_FullCoverage(t *testing.T) {
	shifts, _ := roster.GenerateRange(model.DateRange{StartDate: "2026-03-02", EndDate: "2026-03-03"}, "")
	staff := testStaff("小林")

	assignments := make([]*model.Assignment, 0, len(shifts))
	for _, s := range shifts {
		assignments = append(assignments, &model.Assignment{
			ShiftID:   s.ID,
			StaffID:   staff.ID,
			Date:      s.Date,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}

	metrics := NewCoverageAnalyzer().Analyze(shifts, assignments)

	if metrics.OverallCoverage != 100 {
		t.Errorf("覆盖率应为100, got %v", metrics.OverallCoverage)
	}
	if len(metrics.UnfilledShifts) != 0 {
		t.Errorf("不应有空缺, got %d", len(metrics.UnfilledShifts))
	}
	if len(metrics.DailyCoverage) != 2 {
		t.Errorf("应有2天的统计, got %d", len(metrics.DailyCoverage))
	}
	if day := metrics.DailyCoverage["2026-03-02"]; day.TotalHours != 10.75 {
		t.Errorf("单日总工时应为10.75, got %v", day.TotalHours)
	}
}

func TestCoverageAnalyzer_PartialCoverage(t *testing.T) {
	shifts, _ := roster.GenerateRange(model.DateRange{StartDate: "2026-03-02", EndDate: "2026-03-02"}, "")
	staff := testStaff("小林")

	// 只分配早班
	assignments := []*model.Assignment{{
		ShiftID:   shifts[0].ID,
		StaffID:   staff.ID,
		Date:      shifts[0].Date,
		StartTime: shifts[0].StartTime,
		EndTime:   shifts[0].EndTime,
	}}

	metrics := NewCoverageAnalyzer().Analyze(shifts, assignments)

	if metrics.AssignedShifts != 1 || metrics.TotalShifts != 3 {
		t.Errorf("统计错误: %d/%d", metrics.AssignedShifts, metrics.TotalShifts)
	}
	if len(metrics.UnfilledShifts) != 2 {
		t.Fatalf("应有2个空缺, got %d", len(metrics.UnfilledShifts))
	}
	// 空缺按时间排序
	if metrics.UnfilledShifts[0].SlotType != model.SlotDay ||
		metrics.UnfilledShifts[1].SlotType != model.SlotEvening {
		t.Errorf("空缺顺序错误: %+v", metrics.UnfilledShifts)
	}
	if metrics.SlotCoverage[model.SlotMorning] != 100 {
		t.Errorf("早班覆盖率应为100, got %v", metrics.SlotCoverage[model.SlotMorning])
	}
	if metrics.SlotCoverage[model.SlotDay] != 0 {
		t.Errorf("日班覆盖率应为0, got %v", metrics.SlotCoverage[model.SlotDay])
	}
}

func TestCoverageAnalyzer_Empty(t *testing.T) {
	metrics := NewCoverageAnalyzer().Analyze(nil, nil)
	if metrics.OverallCoverage != 100 {
		t.Errorf("空输入覆盖率应为100, got %v", metrics.OverallCoverage)
	}
}
