package model

import (
	"fmt"
	"time"
)

// RoleHost 主播角色（当前唯一角色）
const RoleHost = "Host"

// DefaultMinShiftsPerWeek 每7天最少班次数默认值
const DefaultMinShiftsPerWeek = 2

// ConstraintModel 员工排班约束（结构化，不含自由文本）
type ConstraintModel struct {
	// Windows 允许上班的当日时间窗口。为空表示全天可用。
	// 硬约束：班次必须被某个窗口完整包含。
	Windows []TimeWindow `json:"windows,omitempty"`

	// ExcludedWeekdays 不可排班的星期。硬约束。
	ExcludedWeekdays []time.Weekday `json:"excluded_weekdays,omitempty"`

	// MinShiftsPerWeek 任意连续7天内的最少班次数（软约束，未满足只记入说明）。
	// 0 表示使用默认值。
	MinShiftsPerWeek int `json:"min_shifts_per_week,omitempty"`

	// MaxShiftsPerWeek 任意连续7天内的最多班次数（硬约束）。0 表示不限。
	MaxShiftsPerWeek int `json:"max_shifts_per_week,omitempty"`

	// Preferences 槽位类型偏好权重，越大越偏好。软约束，只影响排序。
	Preferences map[SlotType]int `json:"preferences,omitempty"`
}

// WeeklyMinimum 返回生效的每周最少班次数
func (c *ConstraintModel) WeeklyMinimum() int {
	if c.MinShiftsPerWeek <= 0 {
		return DefaultMinShiftsPerWeek
	}
	return c.MinShiftsPerWeek
}

// Validate 验证约束是否自洽
func (c *ConstraintModel) Validate() error {
	for _, w := range c.Windows {
		if !w.Valid() {
			return fmt.Errorf("时间窗口非法: %s-%s", w.Start, w.End)
		}
	}
	for _, wd := range c.ExcludedWeekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return fmt.Errorf("星期值非法: %d", wd)
		}
	}
	if c.MinShiftsPerWeek < 0 {
		return fmt.Errorf("每周最少班次数不能为负: %d", c.MinShiftsPerWeek)
	}
	if c.MaxShiftsPerWeek < 0 {
		return fmt.Errorf("每周最多班次数不能为负: %d", c.MaxShiftsPerWeek)
	}
	if c.MaxShiftsPerWeek > 0 && c.WeeklyMinimum() > c.MaxShiftsPerWeek {
		return fmt.Errorf("每周最少班次数 %d 大于最多班次数 %d", c.WeeklyMinimum(), c.MaxShiftsPerWeek)
	}
	return nil
}

// ExcludesWeekday 检查某个星期是否被排除
func (c *ConstraintModel) ExcludesWeekday(wd time.Weekday) bool {
	for _, x := range c.ExcludedWeekdays {
		if x == wd {
			return true
		}
	}
	return false
}

// AllowsInterval 检查分钟区间 [startMin, endMin) 是否落在某个允许窗口内。
// 未配置窗口时视为全天可用。
func (c *ConstraintModel) AllowsInterval(startMin, endMin int) bool {
	if len(c.Windows) == 0 {
		return true
	}
	for _, w := range c.Windows {
		if w.Covers(startMin, endMin) {
			return true
		}
	}
	return false
}

// PreferenceFor 返回槽位类型的偏好权重，未配置为 0
func (c *ConstraintModel) PreferenceFor(t SlotType) int {
	if c.Preferences == nil {
		return 0
	}
	return c.Preferences[t]
}

// Staff 员工（主播）
type Staff struct {
	BaseModel
	Name        string          `json:"name" db:"name"`
	Role        string          `json:"role" db:"role"`
	Avatar      string          `json:"avatar,omitempty" db:"avatar"`
	Constraints ConstraintModel `json:"constraints" db:"-"`
	// RawConstraints 原始自由文本约束（仅存档，求解器不读取）
	RawConstraints string `json:"raw_constraints,omitempty" db:"raw_constraints"`
}

// Validate 验证员工字段
func (s *Staff) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("员工姓名不能为空")
	}
	return s.Constraints.Validate()
}
