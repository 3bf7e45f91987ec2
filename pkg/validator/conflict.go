// Package validator 提供排班结果验证功能
package validator

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/zhibopai/zhibopai/pkg/model"
)

// ConflictType 冲突类型
type ConflictType string

const (
	ConflictOverlap         ConflictType = "overlap"          // 时间重叠
	ConflictExcludedWeekday ConflictType = "excluded_weekday" // 排在被排除的星期
	ConflictOutsideWindow   ConflictType = "outside_window"   // 超出允许时间窗口
	ConflictWeeklyCap       ConflictType = "weekly_cap"       // 超过7天滚动上限
)

// Conflict 冲突信息
type Conflict struct {
	Type     ConflictType `json:"type"`
	Severity string       `json:"severity"` // error/warning
	StaffID  uuid.UUID    `json:"staff_id"`
	Date     string       `json:"date"`
	Message  string       `json:"message"`
	ShiftIDs []uuid.UUID  `json:"shift_ids,omitempty"`
}

// ConflictDetector 冲突检测器
type ConflictDetector struct{}

// NewConflictDetector 创建冲突检测器
func NewConflictDetector() *ConflictDetector {
	return &ConflictDetector{}
}

// DetectAll 检测排班结果中的所有冲突
func (d *ConflictDetector) DetectAll(assignments []*model.Assignment, staff map[uuid.UUID]*model.Staff) []Conflict {
	var conflicts []Conflict

	byStaff := groupByStaff(assignments)

	// 按员工ID排序遍历，保证输出顺序确定
	staffIDs := make([]uuid.UUID, 0, len(byStaff))
	for id := range byStaff {
		staffIDs = append(staffIDs, id)
	}
	sort.Slice(staffIDs, func(i, j int) bool {
		return staffIDs[i].String() < staffIDs[j].String()
	})

	for _, id := range staffIDs {
		group := byStaff[id]
		conflicts = append(conflicts, d.detectOverlaps(id, group)...)

		s := staff[id]
		if s == nil {
			continue
		}
		conflicts = append(conflicts, d.detectConstraintViolations(s, group)...)
		conflicts = append(conflicts, d.detectWeeklyCapViolations(s, group)...)
	}

	return conflicts
}

// detectOverlaps 检测同一员工的时间重叠
func (d *ConflictDetector) detectOverlaps(staffID uuid.UUID, assignments []*model.Assignment) []Conflict {
	var conflicts []Conflict

	sorted := make([]*model.Assignment, len(assignments))
	copy(sorted, assignments)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].StartTime < sorted[j].StartTime
	})

	for i := 0; i < len(sorted)-1; i++ {
		current := sorted[i]
		next := sorted[i+1]
		if current.Overlaps(next) {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictOverlap,
				Severity: "error",
				StaffID:  staffID,
				Date:     current.Date,
				Message:  fmt.Sprintf("员工在 %s 存在时间重叠的班次", current.Date),
				ShiftIDs: []uuid.UUID{current.ShiftID, next.ShiftID},
			})
		}
	}

	return conflicts
}

// detectConstraintViolations 检测星期排除与时间窗口违反
func (d *ConflictDetector) detectConstraintViolations(s *model.Staff, assignments []*model.Assignment) []Conflict {
	var conflicts []Conflict

	for _, a := range assignments {
		wd, err := model.WeekdayOf(a.Date)
		if err != nil {
			continue
		}
		if s.Constraints.ExcludesWeekday(wd) {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictExcludedWeekday,
				Severity: "error",
				StaffID:  s.ID,
				Date:     a.Date,
				Message:  fmt.Sprintf("员工 %s 被排在已排除的星期 %s", s.Name, a.Date),
				ShiftIDs: []uuid.UUID{a.ShiftID},
			})
		}

		startMin, err1 := model.ParseClock(a.StartTime)
		endMin, err2 := model.ParseClock(a.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if !s.Constraints.AllowsInterval(startMin, endMin) {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictOutsideWindow,
				Severity: "error",
				StaffID:  s.ID,
				Date:     a.Date,
				Message:  fmt.Sprintf("员工 %s 的班次 %s-%s 超出允许时间窗口", s.Name, a.StartTime, a.EndTime),
				ShiftIDs: []uuid.UUID{a.ShiftID},
			})
		}
	}

	return conflicts
}

// detectWeeklyCapViolations 检测7天滚动窗口上限违反
func (d *ConflictDetector) detectWeeklyCapViolations(s *model.Staff, assignments []*model.Assignment) []Conflict {
	max := s.Constraints.MaxShiftsPerWeek
	if max <= 0 {
		return nil
	}

	byDate := make(map[string]int)
	for _, a := range assignments {
		byDate[a.Date]++
	}

	var conflicts []Conflict
	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	// 以每个有班日期为结束日检查一次滚动窗口
	for _, endDate := range dates {
		count := 0
		for i := -6; i <= 0; i++ {
			count += byDate[model.AddDays(endDate, i)]
		}
		if count > max {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictWeeklyCap,
				Severity: "error",
				StaffID:  s.ID,
				Date:     endDate,
				Message:  fmt.Sprintf("员工 %s 在截至 %s 的7天内有 %d 班，超过上限 %d", s.Name, endDate, count, max),
			})
		}
	}

	return conflicts
}

// HasDoubleBooking 快速检查是否存在同员工时间重叠（求解器内部不变量检查用）
func HasDoubleBooking(assignments []*model.Assignment) *Conflict {
	byStaff := groupByStaff(assignments)
	d := NewConflictDetector()
	for staffID, group := range byStaff {
		if overlaps := d.detectOverlaps(staffID, group); len(overlaps) > 0 {
			return &overlaps[0]
		}
	}
	return nil
}

// groupByStaff 按员工分组
func groupByStaff(assignments []*model.Assignment) map[uuid.UUID][]*model.Assignment {
	result := make(map[uuid.UUID][]*model.Assignment)
	for _, a := range assignments {
		result[a.StaffID] = append(result[a.StaffID], a)
	}
	return result
}
