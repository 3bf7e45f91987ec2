package model

import (
	"testing"
	"time"
)

func TestConstraintModel_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cm      ConstraintModel
		wantErr bool
	}{
		{
			name:    "空约束",
			cm:      ConstraintModel{},
			wantErr: false,
		},
		{
			name: "正常约束",
			cm: ConstraintModel{
				Windows:          []TimeWindow{{Start: "06:00", End: "14:00"}},
				ExcludedWeekdays: []time.Weekday{time.Saturday, time.Sunday},
				MinShiftsPerWeek: 2,
				MaxShiftsPerWeek: 5,
			},
			wantErr: false,
		},
		{
			name: "倒置窗口",
			cm: ConstraintModel{
				Windows: []TimeWindow{{Start: "14:00", End: "06:00"}},
			},
			wantErr: true,
		},
		{
			name: "最少大于最多",
			cm: ConstraintModel{
				MinShiftsPerWeek: 5,
				MaxShiftsPerWeek: 3,
			},
			wantErr: true,
		},
		{
			name: "默认最少大于最多",
			cm: ConstraintModel{
				MaxShiftsPerWeek: 1, // 默认最少为2
			},
			wantErr: true,
		},
		{
			name: "负数最少",
			cm: ConstraintModel{
				MinShiftsPerWeek: -1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cm.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConstraintModel_WeeklyMinimum(t *testing.T) {
	cm := ConstraintModel{}
	if cm.WeeklyMinimum() != DefaultMinShiftsPerWeek {
		t.Errorf("未配置时应使用默认值 %d, got %d", DefaultMinShiftsPerWeek, cm.WeeklyMinimum())
	}

	cm.MinShiftsPerWeek = 3
	if cm.WeeklyMinimum() != 3 {
		t.Errorf("WeeklyMinimum() = %d, expected 3", cm.WeeklyMinimum())
	}
}

func TestConstraintModel_AllowsInterval(t *testing.T) {
	tests := []struct {
		name     string
		cm       ConstraintModel
		startMin int
		endMin   int
		expected bool
	}{
		{
			name:     "无窗口全天可用",
			cm:       ConstraintModel{},
			startMin: 390, endMin: 510,
			expected: true,
		},
		{
			name: "班次在窗口内",
			cm: ConstraintModel{
				Windows: []TimeWindow{{Start: "06:00", End: "14:00"}},
			},
			startMin: 390, endMin: 510, // 06:30-08:30
			expected: true,
		},
		{
			name: "班次超出窗口",
			cm: ConstraintModel{
				Windows: []TimeWindow{{Start: "06:00", End: "14:00"}},
			},
			startMin: 885, endMin: 1110, // 14:45-18:30
			expected: false,
		},
		{
			name: "多个窗口命中后者",
			cm: ConstraintModel{
				Windows: []TimeWindow{
					{Start: "06:00", End: "09:00"},
					{Start: "14:00", End: "19:00"},
				},
			},
			startMin: 885, endMin: 1110,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.cm.AllowsInterval(tt.startMin, tt.endMin); result != tt.expected {
				t.Errorf("AllowsInterval(%d, %d) = %v, expected %v", tt.startMin, tt.endMin, result, tt.expected)
			}
		})
	}
}

func TestConstraintModel_ExcludesWeekday(t *testing.T) {
	cm := ConstraintModel{ExcludedWeekdays: []time.Weekday{time.Saturday, time.Sunday}}

	if !cm.ExcludesWeekday(time.Saturday) {
		t.Error("周六应被排除")
	}
	if cm.ExcludesWeekday(time.Monday) {
		t.Error("周一不应被排除")
	}
}

func TestConstraintModel_PreferenceFor(t *testing.T) {
	cm := ConstraintModel{Preferences: map[SlotType]int{SlotMorning: 5}}

	if cm.PreferenceFor(SlotMorning) != 5 {
		t.Errorf("PreferenceFor(Morning) = %d, expected 5", cm.PreferenceFor(SlotMorning))
	}
	if cm.PreferenceFor(SlotEvening) != 0 {
		t.Errorf("未配置槽位偏好应为0, got %d", cm.PreferenceFor(SlotEvening))
	}

	var empty ConstraintModel
	if empty.PreferenceFor(SlotDay) != 0 {
		t.Error("空约束偏好应为0")
	}
}

func TestStaff_Validate(t *testing.T) {
	staff := Staff{BaseModel: NewBaseModel(), Name: "小林", Role: RoleHost}
	if err := staff.Validate(); err != nil {
		t.Errorf("正常员工不应报错: %v", err)
	}

	staff.Name = ""
	if err := staff.Validate(); err == nil {
		t.Error("空姓名应报错")
	}

	staff.Name = "小林"
	staff.Constraints = ConstraintModel{MinShiftsPerWeek: 5, MaxShiftsPerWeek: 2}
	if err := staff.Validate(); err == nil {
		t.Error("矛盾约束应报错")
	}
}
