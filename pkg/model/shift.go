package model

import (
	"fmt"

	"github.com/google/uuid"
)

// SlotType 班次槽位类型
type SlotType string

const (
	SlotMorning SlotType = "Morning" // 早班
	SlotDay     SlotType = "Day"     // 日班
	SlotEvening SlotType = "Evening" // 晚班
)

// slotOrder 槽位在一天内的固定顺序
var slotOrder = map[SlotType]int{
	SlotMorning: 0,
	SlotDay:     1,
	SlotEvening: 2,
}

// SlotTemplate 标准槽位模板
type SlotTemplate struct {
	Type      SlotType
	StartTime string // HH:MM
	EndTime   string // HH:MM
}

// StandardSlots 每日三个标准直播槽位
var StandardSlots = []SlotTemplate{
	{Type: SlotMorning, StartTime: "06:30", EndTime: "08:30"},
	{Type: SlotDay, StartTime: "08:30", EndTime: "13:30"},
	{Type: SlotEvening, StartTime: "14:45", EndTime: "18:30"},
}

// SlotOrder 返回槽位顺序值，未知槽位排在最后
func SlotOrder(t SlotType) int {
	if o, ok := slotOrder[t]; ok {
		return o
	}
	return len(slotOrder)
}

// Shift 班次
type Shift struct {
	BaseModel
	Date      string    `json:"date" db:"date"`             // YYYY-MM-DD
	SlotType  SlotType  `json:"slot_type" db:"slot_type"`   // Morning/Day/Evening
	StartTime string    `json:"start_time" db:"start_time"` // HH:MM
	EndTime   string    `json:"end_time" db:"end_time"`     // HH:MM
	Role      string    `json:"role" db:"role"`
	StaffID   uuid.UUID `json:"staff_id,omitempty" db:"staff_id"` // 已分配的员工，零值表示空缺
}

// Validate 验证班次字段
func (s *Shift) Validate() error {
	if _, err := WeekdayOf(s.Date); err != nil {
		return err
	}
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("班次 %s 时间段非法: %s 不早于 %s", s.ID, s.StartTime, s.EndTime)
	}
	return nil
}

// Minutes 返回班次的当日分钟区间 [start, end)
func (s *Shift) Minutes() (int, int) {
	start, _ := ParseClock(s.StartTime)
	end, _ := ParseClock(s.EndTime)
	return start, end
}

// Hours 返回班次时长（小时）
func (s *Shift) Hours() float64 {
	start, end := s.Minutes()
	if end <= start {
		return 0
	}
	return float64(end-start) / 60.0
}

// OverlapsWith 检查两个班次是否在同一天且时间重叠
func (s *Shift) OverlapsWith(other *Shift) bool {
	if s.Date != other.Date {
		return false
	}
	aStart, aEnd := s.Minutes()
	bStart, bEnd := other.Minutes()
	return aStart < bEnd && bStart < aEnd
}

// Before 返回班次的稳定时序比较结果（日期、开始时间、槽位顺序、ID）
func (s *Shift) Before(other *Shift) bool {
	if s.Date != other.Date {
		return s.Date < other.Date
	}
	if s.StartTime != other.StartTime {
		return s.StartTime < other.StartTime
	}
	if SlotOrder(s.SlotType) != SlotOrder(other.SlotType) {
		return SlotOrder(s.SlotType) < SlotOrder(other.SlotType)
	}
	return s.ID.String() < other.ID.String()
}

// Assignment 排班分配结果
type Assignment struct {
	ShiftID   uuid.UUID `json:"shiftId" db:"shift_id"`
	StaffID   uuid.UUID `json:"staffId" db:"staff_id"`
	Date      string    `json:"date,omitempty" db:"date"`
	StartTime string    `json:"start_time,omitempty" db:"start_time"`
	EndTime   string    `json:"end_time,omitempty" db:"end_time"`
}

// Hours 返回分配的工时（小时）
func (a *Assignment) Hours() float64 {
	start, err1 := ParseClock(a.StartTime)
	end, err2 := ParseClock(a.EndTime)
	if err1 != nil || err2 != nil || end <= start {
		return 0
	}
	return float64(end-start) / 60.0
}

// Overlaps 检查两个分配是否在同一天且时间重叠
func (a *Assignment) Overlaps(other *Assignment) bool {
	if a.Date != other.Date {
		return false
	}
	aStart, _ := ParseClock(a.StartTime)
	aEnd, _ := ParseClock(a.EndTime)
	bStart, _ := ParseClock(other.StartTime)
	bEnd, _ := ParseClock(other.EndTime)
	return aStart < bEnd && bStart < aEnd
}
