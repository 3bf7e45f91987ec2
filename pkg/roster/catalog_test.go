package roster

import (
	"testing"

	"github.com/zhibopai/zhibopai/pkg/model"
)

func TestGenerateRange(t *testing.T) {
	rng := model.DateRange{StartDate: "2026-03-02", EndDate: "2026-03-08"}
	shifts, err := GenerateRange(rng, "")
	if err != nil {
		t.Fatalf("GenerateRange() error = %v", err)
	}
	if len(shifts) != 21 {
		t.Fatalf("7天应生成21个班次, got %d", len(shifts))
	}

	// 第一天的三个槽位按时间顺序
	if shifts[0].SlotType != model.SlotMorning || shifts[0].StartTime != "06:30" {
		t.Errorf("首个班次应为早班06:30, got %s %s", shifts[0].SlotType, shifts[0].StartTime)
	}
	if shifts[1].SlotType != model.SlotDay || shifts[2].SlotType != model.SlotEvening {
		t.Error("槽位顺序应为早班、日班、晚班")
	}

	// 默认角色
	if shifts[0].Role != model.RoleHost {
		t.Errorf("默认角色应为 %s, got %s", model.RoleHost, shifts[0].Role)
	}

	// 全部按时间顺序且合法
	for i := 1; i < len(shifts); i++ {
		if !shifts[i-1].Before(shifts[i]) {
			t.Errorf("班次 %d 与 %d 顺序错误", i-1, i)
		}
	}
	if err := ValidateShifts(shifts); err != nil {
		t.Errorf("生成的班次应全部合法: %v", err)
	}
}

func TestGenerateRange_InvalidRange(t *testing.T) {
	tests := []struct {
		name string
		rng  model.DateRange
	}{
		{"终点早于起点", model.DateRange{StartDate: "2026-03-08", EndDate: "2026-03-02"}},
		{"日期非法", model.DateRange{StartDate: "foo", EndDate: "2026-03-02"}},
		{"空范围", model.DateRange{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := GenerateRange(tt.rng, ""); err == nil {
				t.Error("非法范围应返回错误")
			}
		})
	}
}

func TestSort(t *testing.T) {
	rng := model.DateRange{StartDate: "2026-03-02", EndDate: "2026-03-03"}
	shifts, _ := GenerateRange(rng, "")

	// 打乱后重排
	shifts[0], shifts[5] = shifts[5], shifts[0]
	shifts[1], shifts[3] = shifts[3], shifts[1]
	Sort(shifts)

	for i := 1; i < len(shifts); i++ {
		if !shifts[i-1].Before(shifts[i]) {
			t.Fatalf("排序后班次 %d 与 %d 顺序错误", i-1, i)
		}
	}
}

func TestValidateShifts_Duplicate(t *testing.T) {
	rng := model.DateRange{StartDate: "2026-03-02", EndDate: "2026-03-02"}
	shifts, _ := GenerateRange(rng, "")
	shifts = append(shifts, shifts[0])

	if err := ValidateShifts(shifts); err == nil {
		t.Error("重复ID应返回错误")
	}
}
