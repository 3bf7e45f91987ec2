package constraints

import (
	"testing"
	"time"

	"github.com/zhibopai/zhibopai/pkg/model"
)

func TestParse_Weekends(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"英文", "no weekends"},
		{"中文", "周末不上"},
		{"中文休息", "周末休息"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm, unrec := Parse(tt.text)
			if !cm.ExcludesWeekday(time.Saturday) || !cm.ExcludesWeekday(time.Sunday) {
				t.Errorf("应排除周六周日, got %v", cm.ExcludedWeekdays)
			}
			if len(unrec) != 0 {
				t.Errorf("不应有未识别片段: %v", unrec)
			}
		})
	}
}

func TestParse_SpecificWeekday(t *testing.T) {
	cm, _ := Parse("no monday; 周三不上")
	if !cm.ExcludesWeekday(time.Monday) {
		t.Error("应排除周一")
	}
	if !cm.ExcludesWeekday(time.Wednesday) {
		t.Error("应排除周三")
	}
	if cm.ExcludesWeekday(time.Friday) {
		t.Error("不应排除周五")
	}
}

func TestParse_TimeWindow(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		start string
		end   string
	}{
		{"标准格式", "06:00-14:00", "06:00", "14:00"},
		{"单位数小时", "6:30-14:00", "06:30", "14:00"},
		{"中文连接", "06:00到14:00", "06:00", "14:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm, _ := Parse(tt.text)
			if len(cm.Windows) != 1 {
				t.Fatalf("应解析出1个窗口, got %d", len(cm.Windows))
			}
			if cm.Windows[0].Start != tt.start || cm.Windows[0].End != tt.end {
				t.Errorf("窗口 = %+v, expected %s-%s", cm.Windows[0], tt.start, tt.end)
			}
		})
	}
}

func TestParse_OnlySlot(t *testing.T) {
	cm, _ := Parse("only mornings")
	if len(cm.Windows) != 1 {
		t.Fatalf("应翻译为1个窗口, got %d", len(cm.Windows))
	}
	if cm.Windows[0].Start != "06:30" || cm.Windows[0].End != "08:30" {
		t.Errorf("早班窗口 = %+v", cm.Windows[0])
	}

	cm2, _ := Parse("只上晚班")
	if len(cm2.Windows) != 1 || cm2.Windows[0].Start != "14:45" {
		t.Errorf("晚班窗口 = %+v", cm2.Windows)
	}
}

func TestParse_MinMax(t *testing.T) {
	cm, _ := Parse("max 4; min 2")
	if cm.MaxShiftsPerWeek != 4 {
		t.Errorf("MaxShiftsPerWeek = %d, expected 4", cm.MaxShiftsPerWeek)
	}
	if cm.MinShiftsPerWeek != 2 {
		t.Errorf("MinShiftsPerWeek = %d, expected 2", cm.MinShiftsPerWeek)
	}

	cm2, _ := Parse("最多3班，至少1班")
	if cm2.MaxShiftsPerWeek != 3 || cm2.MinShiftsPerWeek != 1 {
		t.Errorf("中文解析结果 = %+v", cm2)
	}
}

func TestParse_Preference(t *testing.T) {
	cm, _ := Parse("prefer evenings")
	if cm.PreferenceFor(model.SlotEvening) != preferWeight {
		t.Errorf("晚班偏好 = %d", cm.PreferenceFor(model.SlotEvening))
	}

	cm2, _ := Parse("偏好早班")
	if cm2.PreferenceFor(model.SlotMorning) != preferWeight {
		t.Errorf("早班偏好 = %d", cm2.PreferenceFor(model.SlotMorning))
	}
}

func TestParse_Unrecognized(t *testing.T) {
	cm, unrec := Parse("喜欢和小周搭班")
	if len(unrec) != 1 {
		t.Fatalf("应有1个未识别片段, got %v", unrec)
	}
	if len(cm.Windows) != 0 || len(cm.ExcludedWeekdays) != 0 {
		t.Error("未识别片段不应影响模型")
	}
}

func TestParse_Empty(t *testing.T) {
	cm, unrec := Parse("")
	if len(unrec) != 0 {
		t.Errorf("空文本不应有未识别片段: %v", unrec)
	}
	if err := cm.Validate(); err != nil {
		t.Errorf("空文本应产生合法模型: %v", err)
	}
}

func TestParse_Deterministic(t *testing.T) {
	text := "no weekends; only mornings; max 4"
	cm1, _ := Parse(text)
	cm2, _ := Parse(text)

	if len(cm1.ExcludedWeekdays) != len(cm2.ExcludedWeekdays) ||
		len(cm1.Windows) != len(cm2.Windows) ||
		cm1.MaxShiftsPerWeek != cm2.MaxShiftsPerWeek {
		t.Error("两次解析结果不一致")
	}
	for i := range cm1.ExcludedWeekdays {
		if cm1.ExcludedWeekdays[i] != cm2.ExcludedWeekdays[i] {
			t.Error("排除星期顺序不一致")
		}
	}
}

func TestParse_CombinedClause(t *testing.T) {
	cm, unrec := Parse("no weekends, 06:00-14:00, max 5")
	if !cm.ExcludesWeekday(time.Saturday) {
		t.Error("应排除周六")
	}
	if len(cm.Windows) != 1 {
		t.Errorf("应有1个窗口, got %d", len(cm.Windows))
	}
	if cm.MaxShiftsPerWeek != 5 {
		t.Errorf("MaxShiftsPerWeek = %d", cm.MaxShiftsPerWeek)
	}
	if len(unrec) != 0 {
		t.Errorf("全部子句都应被识别: %v", unrec)
	}
}
