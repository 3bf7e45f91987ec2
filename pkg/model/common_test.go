package model

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		wantErr  bool
	}{
		{"清晨", "06:30", 390, false},
		{"午夜", "00:00", 0, false},
		{"傍晚", "18:30", 1110, false},
		{"格式错误", "6点30", 0, true},
		{"缺少冒号", "0630", 0, true},
		{"空字符串", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseClock(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && result != tt.expected {
				t.Errorf("ParseClock(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDateRange_Days(t *testing.T) {
	tests := []struct {
		name     string
		dr       DateRange
		expected int
	}{
		{"单日", DateRange{StartDate: "2026-03-02", EndDate: "2026-03-02"}, 1},
		{"一周", DateRange{StartDate: "2026-03-02", EndDate: "2026-03-08"}, 7},
		{"跨月", DateRange{StartDate: "2026-02-27", EndDate: "2026-03-02"}, 4},
		{"终点早于起点", DateRange{StartDate: "2026-03-08", EndDate: "2026-03-02"}, 0},
		{"日期非法", DateRange{StartDate: "2026/03/02", EndDate: "2026-03-08"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := tt.dr.Days()
			if len(days) != tt.expected {
				t.Errorf("Days() 返回 %d 天, expected %d", len(days), tt.expected)
			}
		})
	}
}

func TestDateRange_DaysOrdered(t *testing.T) {
	dr := DateRange{StartDate: "2026-03-02", EndDate: "2026-03-04"}
	days := dr.Days()
	expected := []string{"2026-03-02", "2026-03-03", "2026-03-04"}
	for i, d := range expected {
		if days[i] != d {
			t.Errorf("days[%d] = %s, expected %s", i, days[i], d)
		}
	}
}

func TestWeekdayOf(t *testing.T) {
	// 2026-03-02 是周一
	wd, err := WeekdayOf("2026-03-02")
	if err != nil {
		t.Fatalf("WeekdayOf() error = %v", err)
	}
	if wd != time.Monday {
		t.Errorf("WeekdayOf() = %v, expected Monday", wd)
	}

	if _, err := WeekdayOf("bad-date"); err == nil {
		t.Error("非法日期应返回错误")
	}
}

func TestTimeWindow_Covers(t *testing.T) {
	w := TimeWindow{Start: "06:00", End: "14:00"}

	tests := []struct {
		name     string
		startMin int
		endMin   int
		expected bool
	}{
		{"完整包含", 390, 510, true},   // 06:30-08:30
		{"与窗口重合", 360, 840, true},  // 06:00-14:00
		{"起点早于窗口", 350, 510, false},
		{"终点晚于窗口", 510, 870, false}, // 08:30-14:30
		{"完全在窗口外", 885, 1110, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := w.Covers(tt.startMin, tt.endMin); result != tt.expected {
				t.Errorf("Covers(%d, %d) = %v, expected %v", tt.startMin, tt.endMin, result, tt.expected)
			}
		})
	}
}

func TestTimeWindow_Valid(t *testing.T) {
	if !(TimeWindow{Start: "06:00", End: "14:00"}).Valid() {
		t.Error("正常窗口应合法")
	}
	if (TimeWindow{Start: "14:00", End: "06:00"}).Valid() {
		t.Error("倒置窗口应非法")
	}
	if (TimeWindow{Start: "06:00", End: "06:00"}).Valid() {
		t.Error("零长度窗口应非法")
	}
}

func TestNewBaseModel(t *testing.T) {
	base := NewBaseModel()

	if base.ID.String() == "" {
		t.Error("ID should not be empty")
	}
	if base.CreatedAt.IsZero() {
		t.Error("CreatedAt should not be zero")
	}
	if base.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should not be zero")
	}
}
