// Package feasibility 判定员工能否承接某个班次（纯谓词，不修改任何状态）
package feasibility

import (
	"github.com/google/uuid"

	"github.com/zhibopai/zhibopai/pkg/model"
)

// Reason 不可排的原因
type Reason string

const (
	ReasonOK              Reason = ""
	ReasonExcludedWeekday Reason = "excluded_weekday" // 该星期被排除
	ReasonOutsideWindow   Reason = "outside_window"   // 班次不在允许时间窗口内
	ReasonOverlap         Reason = "overlap"          // 与当日已有班次重叠
	ReasonWeeklyCap       Reason = "weekly_cap"       // 达到7天滚动窗口上限
)

// Index 员工已分配班次的只读索引
type Index struct {
	byStaffDate map[uuid.UUID]map[string][]*model.Shift
}

// NewIndex 创建空索引
func NewIndex() *Index {
	return &Index{byStaffDate: make(map[uuid.UUID]map[string][]*model.Shift)}
}

// Add 记录一次分配
func (idx *Index) Add(staffID uuid.UUID, shift *model.Shift) {
	byDate, ok := idx.byStaffDate[staffID]
	if !ok {
		byDate = make(map[string][]*model.Shift)
		idx.byStaffDate[staffID] = byDate
	}
	byDate[shift.Date] = append(byDate[shift.Date], shift)
}

// ShiftsOn 返回员工在某日已分配的班次
func (idx *Index) ShiftsOn(staffID uuid.UUID, date string) []*model.Shift {
	if byDate, ok := idx.byStaffDate[staffID]; ok {
		return byDate[date]
	}
	return nil
}

// CountInWindow 统计以 endDate 为结束日的连续7天内员工的班次数
func (idx *Index) CountInWindow(staffID uuid.UUID, endDate string) int {
	byDate, ok := idx.byStaffDate[staffID]
	if !ok {
		return 0
	}
	count := 0
	for i := -6; i <= 0; i++ {
		count += len(byDate[model.AddDays(endDate, i)])
	}
	return count
}

// TotalCount 返回员工的总班次数
func (idx *Index) TotalCount(staffID uuid.UUID) int {
	count := 0
	for _, shifts := range idx.byStaffDate[staffID] {
		count += len(shifts)
	}
	return count
}

// TotalHours 返回员工的总工时
func (idx *Index) TotalHours(staffID uuid.UUID) float64 {
	var hours float64
	for _, shifts := range idx.byStaffDate[staffID] {
		for _, s := range shifts {
			hours += s.Hours()
		}
	}
	return hours
}

// IsEligible 判定员工能否承接班次。按固定顺序检查四项硬约束：
// 排除星期、时间窗口包含、当日重叠、7天滚动上限。
func IsEligible(staff *model.Staff, shift *model.Shift, idx *Index) (bool, Reason) {
	wd, err := model.WeekdayOf(shift.Date)
	if err != nil {
		return false, ReasonExcludedWeekday
	}
	if staff.Constraints.ExcludesWeekday(wd) {
		return false, ReasonExcludedWeekday
	}

	startMin, endMin := shift.Minutes()
	if !staff.Constraints.AllowsInterval(startMin, endMin) {
		return false, ReasonOutsideWindow
	}

	for _, assigned := range idx.ShiftsOn(staff.ID, shift.Date) {
		if assigned.OverlapsWith(shift) {
			return false, ReasonOverlap
		}
	}

	if max := staff.Constraints.MaxShiftsPerWeek; max > 0 {
		if idx.CountInWindow(staff.ID, shift.Date) >= max {
			return false, ReasonWeeklyCap
		}
	}

	return true, ReasonOK
}
