// Package model 定义排班引擎的核心数据模型
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BaseModel 基础模型（包含通用字段）
type BaseModel struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// NewBaseModel 创建新的基础模型
func NewBaseModel() BaseModel {
	now := time.Now()
	return BaseModel{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DateRange 日期范围
type DateRange struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// Days 返回范围内的所有日期（含两端），范围非法时返回 nil
func (dr DateRange) Days() []string {
	start, err1 := time.Parse("2006-01-02", dr.StartDate)
	end, err2 := time.Parse("2006-01-02", dr.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return nil
	}
	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format("2006-01-02"))
	}
	return days
}

// ParseClock 解析 HH:MM 为当日分钟数
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("时间格式无效 '%s'，应为HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// WeekdayOf 返回日期的星期，日期非法时返回错误
func WeekdayOf(date string) (time.Weekday, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Sunday, fmt.Errorf("日期格式无效 '%s'，应为YYYY-MM-DD", date)
	}
	return t.Weekday(), nil
}

// AddDays 日期加减天数
func AddDays(date string, days int) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, days).Format("2006-01-02")
}

// TimeWindow 允许的当日时间窗口
type TimeWindow struct {
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`   // HH:MM
}

// Valid 检查窗口是否合法（起点早于终点）
func (w TimeWindow) Valid() bool {
	start, err1 := ParseClock(w.Start)
	end, err2 := ParseClock(w.End)
	return err1 == nil && err2 == nil && start < end
}

// Covers 检查窗口是否完整包含 [startMin, endMin)
func (w TimeWindow) Covers(startMin, endMin int) bool {
	ws, err1 := ParseClock(w.Start)
	we, err2 := ParseClock(w.End)
	if err1 != nil || err2 != nil {
		return false
	}
	return ws <= startMin && endMin <= we
}
