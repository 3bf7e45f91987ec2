// Package stats 提供排班结果的统计分析功能
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/zhibopai/zhibopai/pkg/model"
)

// FairnessMetrics 公平性指标
type FairnessMetrics struct {
	WorkloadGini     float64                    `json:"workload_gini"`     // 工时基尼系数 (0=完全公平)
	WorkloadVariance float64                    `json:"workload_variance"` // 工时方差
	WorkloadStdDev   float64                    `json:"workload_std_dev"`  // 工时标准差
	AvgHoursPerStaff float64                    `json:"avg_hours_per_staff"`
	MaxHours         float64                    `json:"max_hours"`
	MinHours         float64                    `json:"min_hours"`
	HoursRange       float64                    `json:"hours_range"`
	SlotDistribution map[model.SlotType]float64 `json:"slot_distribution"` // 各槽位类型占比 (%)
	WeekendGini      float64                    `json:"weekend_gini"`      // 周末班分配基尼系数
	StaffStats       []StaffStat                `json:"staff_stats"`
	OverallScore     float64                    `json:"overall_score"` // 综合公平性评分 (0-100)
}

// StaffStat 单个员工的统计
type StaffStat struct {
	StaffID       uuid.UUID `json:"staff_id"`
	StaffName     string    `json:"staff_name"`
	TotalHours    float64   `json:"total_hours"`
	ShiftCount    int       `json:"shift_count"`
	WeekendShifts int       `json:"weekend_shifts"`
	Deviation     float64   `json:"deviation"` // 与人均工时的偏差百分比
}

// FairnessAnalyzer 公平性分析器
type FairnessAnalyzer struct{}

// NewFairnessAnalyzer 创建公平性分析器
func NewFairnessAnalyzer() *FairnessAnalyzer {
	return &FairnessAnalyzer{}
}

// Analyze 分析排班公平性。零班次员工也计入，闲置的人会拉高基尼系数。
func (f *FairnessAnalyzer) Analyze(assignments []*model.Assignment, staff []*model.Staff) *FairnessMetrics {
	if len(staff) == 0 {
		return &FairnessMetrics{
			SlotDistribution: make(map[model.SlotType]float64),
			OverallScore:     100,
		}
	}

	statMap := make(map[uuid.UUID]*StaffStat, len(staff))
	for _, s := range staff {
		statMap[s.ID] = &StaffStat{StaffID: s.ID, StaffName: s.Name}
	}

	slotCounts := make(map[model.SlotType]int)
	for _, a := range assignments {
		stat, ok := statMap[a.StaffID]
		if !ok {
			continue
		}
		stat.TotalHours += a.Hours()
		stat.ShiftCount++
		if isWeekend(a.Date) {
			stat.WeekendShifts++
		}
		slotCounts[classifySlot(a.StartTime)]++
	}

	stats := make([]StaffStat, 0, len(statMap))
	hours := make([]float64, 0, len(statMap))
	weekend := make([]float64, 0, len(statMap))
	for _, s := range staff {
		stat := statMap[s.ID]
		stats = append(stats, *stat)
		hours = append(hours, stat.TotalHours)
		weekend = append(weekend, float64(stat.WeekendShifts))
	}

	avgHours := mean(hours)
	variance := varianceOf(hours, avgHours)
	stdDev := math.Sqrt(variance)
	maxHours, minHours := extremes(hours)

	for i := range stats {
		if avgHours > 0 {
			stats[i].Deviation = (stats[i].TotalHours - avgHours) / avgHours * 100
		}
	}

	// 工时降序、ID升序，保证输出顺序确定
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalHours != stats[j].TotalHours {
			return stats[i].TotalHours > stats[j].TotalHours
		}
		return stats[i].StaffID.String() < stats[j].StaffID.String()
	})

	dist := make(map[model.SlotType]float64)
	if total := len(assignments); total > 0 {
		for slot, count := range slotCounts {
			dist[slot] = float64(count) / float64(total) * 100
		}
	}

	workloadGini := gini(hours)
	weekendGini := gini(weekend)

	return &FairnessMetrics{
		WorkloadGini:     workloadGini,
		WorkloadVariance: variance,
		WorkloadStdDev:   stdDev,
		AvgHoursPerStaff: avgHours,
		MaxHours:         maxHours,
		MinHours:         minHours,
		HoursRange:       maxHours - minHours,
		SlotDistribution: dist,
		WeekendGini:      weekendGini,
		StaffStats:       stats,
		OverallScore:     overallScore(workloadGini, weekendGini, stdDev, avgHours),
	}
}

// classifySlot 按开始时间归类槽位
func classifySlot(startTime string) model.SlotType {
	startMin, err := model.ParseClock(startTime)
	if err != nil {
		return model.SlotDay
	}
	for _, tpl := range model.StandardSlots {
		s, _ := model.ParseClock(tpl.StartTime)
		e, _ := model.ParseClock(tpl.EndTime)
		if startMin >= s && startMin < e {
			return tpl.Type
		}
	}
	if startMin >= 840 { // 14:00 之后算晚班
		return model.SlotEvening
	}
	return model.SlotMorning
}

// isWeekend 判断日期是否为周末
func isWeekend(date string) bool {
	wd, err := model.WeekdayOf(date)
	if err != nil {
		return false
	}
	return wd == time.Saturday || wd == time.Sunday
}

// mean 计算平均值
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// varianceOf 计算方差
func varianceOf(values []float64, m float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSquares := 0.0
	for _, v := range values {
		diff := v - m
		sumSquares += diff * diff
	}
	return sumSquares / float64(len(values))
}

// extremes 计算极值
func extremes(values []float64) (max, min float64) {
	if len(values) == 0 {
		return 0, 0
	}
	max, min = values[0], values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return
}

// gini 计算基尼系数
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	g := 0.0
	for i, v := range sorted {
		g += (2*float64(i+1) - float64(n) - 1) * v
	}
	g = g / (float64(n) * sum)
	return math.Max(0, math.Min(1, g))
}

// overallScore 计算综合公平性评分
func overallScore(workloadGini, weekendGini, stdDev, avgHours float64) float64 {
	const (
		workloadWeight = 0.5
		weekendWeight  = 0.3
		stdDevWeight   = 0.2
	)

	workloadScore := (1 - workloadGini) * 100
	weekendScore := (1 - weekendGini) * 100

	cvScore := 100.0
	if avgHours > 0 {
		cv := stdDev / avgHours
		cvScore = math.Max(0, 100-cv*200)
	}

	score := workloadWeight*workloadScore + weekendWeight*weekendScore + stdDevWeight*cvScore
	return math.Max(0, math.Min(100, score))
}
