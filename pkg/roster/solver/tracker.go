package solver

import (
	"github.com/google/uuid"

	"github.com/zhibopai/zhibopai/pkg/model"
	"github.com/zhibopai/zhibopai/pkg/roster/feasibility"
)

// Tracker 公平性跟踪器。每次求解创建新实例，只在分配落定后更新。
type Tracker struct {
	idx   *feasibility.Index
	hours map[uuid.UUID]float64
	count map[uuid.UUID]int
}

// NewTracker 创建空的公平性跟踪器
func NewTracker() *Tracker {
	return &Tracker{
		idx:   feasibility.NewIndex(),
		hours: make(map[uuid.UUID]float64),
		count: make(map[uuid.UUID]int),
	}
}

// Record 记录一次已落定的分配
func (t *Tracker) Record(staffID uuid.UUID, shift *model.Shift) {
	t.idx.Add(staffID, shift)
	t.hours[staffID] += shift.Hours()
	t.count[staffID]++
}

// Index 返回可排性检查用的只读索引
func (t *Tracker) Index() *feasibility.Index {
	return t.idx
}

// HoursOf 返回员工累计工时
func (t *Tracker) HoursOf(staffID uuid.UUID) float64 {
	return t.hours[staffID]
}

// CountOf 返回员工累计班次数
func (t *Tracker) CountOf(staffID uuid.UUID) int {
	return t.count[staffID]
}

// AssignedOn 检查员工当日是否已有班次
func (t *Tracker) AssignedOn(staffID uuid.UUID, date string) bool {
	return len(t.idx.ShiftsOn(staffID, date)) > 0
}

// Deficit 返回员工相对每周最少班次数的缺口（以 endDate 为结束日的7天窗口）
func (t *Tracker) Deficit(s *model.Staff, endDate string) int {
	deficit := s.Constraints.WeeklyMinimum() - t.idx.CountInWindow(s.ID, endDate)
	if deficit < 0 {
		return 0
	}
	return deficit
}
