package model

import (
	"testing"
)

func TestShift_Hours(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected float64
	}{
		{"早班2小时", "06:30", "08:30", 2.0},
		{"日班5小时", "08:30", "13:30", 5.0},
		{"晚班3小时45分", "14:45", "18:30", 3.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Shift{StartTime: tt.start, EndTime: tt.end}
			if result := s.Hours(); result != tt.expected {
				t.Errorf("Hours() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestShift_Validate(t *testing.T) {
	tests := []struct {
		name    string
		shift   Shift
		wantErr bool
	}{
		{
			name:    "正常班次",
			shift:   Shift{Date: "2026-03-02", StartTime: "06:30", EndTime: "08:30"},
			wantErr: false,
		},
		{
			name:    "起点晚于终点",
			shift:   Shift{Date: "2026-03-02", StartTime: "08:30", EndTime: "06:30"},
			wantErr: true,
		},
		{
			name:    "零长度班次",
			shift:   Shift{Date: "2026-03-02", StartTime: "08:30", EndTime: "08:30"},
			wantErr: true,
		},
		{
			name:    "日期非法",
			shift:   Shift{Date: "03/02/2026", StartTime: "06:30", EndTime: "08:30"},
			wantErr: true,
		},
		{
			name:    "时间非法",
			shift:   Shift{Date: "2026-03-02", StartTime: "6:3", EndTime: "08:30"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.shift.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShift_OverlapsWith(t *testing.T) {
	tests := []struct {
		name     string
		a        Shift
		b        Shift
		expected bool
	}{
		{
			name:     "相邻不重叠",
			a:        Shift{Date: "2026-03-02", StartTime: "06:30", EndTime: "08:30"},
			b:        Shift{Date: "2026-03-02", StartTime: "08:30", EndTime: "13:30"},
			expected: false,
		},
		{
			name:     "部分重叠",
			a:        Shift{Date: "2026-03-02", StartTime: "06:30", EndTime: "09:00"},
			b:        Shift{Date: "2026-03-02", StartTime: "08:30", EndTime: "13:30"},
			expected: true,
		},
		{
			name:     "不同日期",
			a:        Shift{Date: "2026-03-02", StartTime: "06:30", EndTime: "08:30"},
			b:        Shift{Date: "2026-03-03", StartTime: "06:30", EndTime: "08:30"},
			expected: false,
		},
		{
			name:     "完全包含",
			a:        Shift{Date: "2026-03-02", StartTime: "06:00", EndTime: "14:00"},
			b:        Shift{Date: "2026-03-02", StartTime: "08:30", EndTime: "13:30"},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.a.OverlapsWith(&tt.b); result != tt.expected {
				t.Errorf("OverlapsWith() = %v, expected %v", result, tt.expected)
			}
			if result := tt.b.OverlapsWith(&tt.a); result != tt.expected {
				t.Errorf("反向 OverlapsWith() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestShift_Before(t *testing.T) {
	earlier := &Shift{Date: "2026-03-02", StartTime: "06:30", SlotType: SlotMorning}
	later := &Shift{Date: "2026-03-02", StartTime: "08:30", SlotType: SlotDay}
	nextDay := &Shift{Date: "2026-03-03", StartTime: "06:30", SlotType: SlotMorning}

	if !earlier.Before(later) {
		t.Error("同日早班应排在日班之前")
	}
	if !later.Before(nextDay) {
		t.Error("前一天的班次应排在后一天之前")
	}
	if nextDay.Before(earlier) {
		t.Error("后一天的班次不应排在前一天之前")
	}
}

func TestSlotOrder(t *testing.T) {
	if SlotOrder(SlotMorning) >= SlotOrder(SlotDay) {
		t.Error("早班应排在日班之前")
	}
	if SlotOrder(SlotDay) >= SlotOrder(SlotEvening) {
		t.Error("日班应排在晚班之前")
	}
	if SlotOrder("unknown") != 3 {
		t.Error("未知槽位应排在最后")
	}
}

func TestStandardSlots(t *testing.T) {
	if len(StandardSlots) != 3 {
		t.Fatalf("标准槽位应为3个, got %d", len(StandardSlots))
	}
	expected := []struct {
		slot  SlotType
		start string
		end   string
	}{
		{SlotMorning, "06:30", "08:30"},
		{SlotDay, "08:30", "13:30"},
		{SlotEvening, "14:45", "18:30"},
	}
	for i, e := range expected {
		if StandardSlots[i].Type != e.slot || StandardSlots[i].StartTime != e.start || StandardSlots[i].EndTime != e.end {
			t.Errorf("StandardSlots[%d] = %+v, expected %+v", i, StandardSlots[i], e)
		}
	}
}
