package stats

import (
	"sort"

	"github.com/google/uuid"

	"github.com/zhibopai/zhibopai/pkg/model"
)

// CoverageMetrics 覆盖率指标
type CoverageMetrics struct {
	TotalShifts     int                        `json:"total_shifts"`
	AssignedShifts  int                        `json:"assigned_shifts"`
	OverallCoverage float64                    `json:"overall_coverage"` // 整体覆盖率 (%)
	DailyCoverage   map[string]DayCoverage     `json:"daily_coverage"`
	SlotCoverage    map[model.SlotType]float64 `json:"slot_coverage"` // 按槽位类型覆盖率
	UnfilledShifts  []UnfilledShift            `json:"unfilled_shifts"`
}

// DayCoverage 每日覆盖情况
type DayCoverage struct {
	Date         string  `json:"date"`
	TotalShifts  int     `json:"total_shifts"`
	Assigned     int     `json:"assigned"`
	CoverageRate float64 `json:"coverage_rate"`
	TotalHours   float64 `json:"total_hours"`
}

// UnfilledShift 空缺班次
type UnfilledShift struct {
	ShiftID   uuid.UUID      `json:"shift_id"`
	Date      string         `json:"date"`
	SlotType  model.SlotType `json:"slot_type"`
	StartTime string         `json:"start_time"`
	EndTime   string         `json:"end_time"`
}

// CoverageAnalyzer 覆盖率分析器
type CoverageAnalyzer struct{}

// NewCoverageAnalyzer 创建覆盖率分析器
func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{}
}

// Analyze 分析排班覆盖率
func (c *CoverageAnalyzer) Analyze(shifts []*model.Shift, assignments []*model.Assignment) *CoverageMetrics {
	metrics := &CoverageMetrics{
		DailyCoverage: make(map[string]DayCoverage),
		SlotCoverage:  make(map[model.SlotType]float64),
	}
	if len(shifts) == 0 {
		metrics.OverallCoverage = 100
		return metrics
	}

	assignedShiftIDs := make(map[uuid.UUID]bool, len(assignments))
	for _, a := range assignments {
		assignedShiftIDs[a.ShiftID] = true
	}

	dailyStats := make(map[string]*DayCoverage)
	slotTotals := make(map[model.SlotType]int)
	slotAssigned := make(map[model.SlotType]int)

	for _, shift := range shifts {
		metrics.TotalShifts++
		isAssigned := assignedShiftIDs[shift.ID]
		if isAssigned {
			metrics.AssignedShifts++
		} else {
			metrics.UnfilledShifts = append(metrics.UnfilledShifts, UnfilledShift{
				ShiftID:   shift.ID,
				Date:      shift.Date,
				SlotType:  shift.SlotType,
				StartTime: shift.StartTime,
				EndTime:   shift.EndTime,
			})
		}

		day, exists := dailyStats[shift.Date]
		if !exists {
			day = &DayCoverage{Date: shift.Date}
			dailyStats[shift.Date] = day
		}
		day.TotalShifts++
		if isAssigned {
			day.Assigned++
			day.TotalHours += shift.Hours()
		}

		slotTotals[shift.SlotType]++
		if isAssigned {
			slotAssigned[shift.SlotType]++
		}
	}

	metrics.OverallCoverage = float64(metrics.AssignedShifts) / float64(metrics.TotalShifts) * 100

	for date, day := range dailyStats {
		if day.TotalShifts > 0 {
			day.CoverageRate = float64(day.Assigned) / float64(day.TotalShifts) * 100
		}
		metrics.DailyCoverage[date] = *day
	}

	for slot, total := range slotTotals {
		if total > 0 {
			metrics.SlotCoverage[slot] = float64(slotAssigned[slot]) / float64(total) * 100
		}
	}

	// 空缺列表按日期和开始时间排序，输出确定
	sort.Slice(metrics.UnfilledShifts, func(i, j int) bool {
		a, b := metrics.UnfilledShifts[i], metrics.UnfilledShifts[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.StartTime < b.StartTime
	})

	return metrics
}
