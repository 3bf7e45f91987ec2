package scenario

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/zhibopai/zhibopai/pkg/errors"
	"github.com/zhibopai/zhibopai/pkg/model"
	"github.com/zhibopai/zhibopai/pkg/roster/solver"
)

// TestEmptyStaffNamesField 员工列表为空：错误指明缺失的是 staff，不返回结果
func TestEmptyStaffNamesField(t *testing.T) {
	shifts, _ := weekCatalog(t)

	result, err := solver.NewGreedySolver().Solve(context.Background(), shifts, nil)
	if err == nil {
		t.Fatal("空员工列表应返回错误")
	}
	if result != nil {
		t.Error("出错时不应返回结果")
	}
	if !errors.Is(err, errors.CodeInvalidInput) {
		t.Errorf("应为输入错误，实际 %v", errors.GetCode(err))
	}
	if !strings.Contains(err.Error(), "staff") {
		t.Errorf("错误信息应指明缺失 staff: %v", err)
	}
}

// TestTieBreakByStaffID 所有排序条件打平时，ID较小的主播胜出，且多次运行一致
func TestTieBreakByStaffID(t *testing.T) {
	for i := 0; i < 10; i++ {
		shift := singleShift("2026-03-02", "08:30", "13:30", model.SlotDay)
		a := createStaff(1, "小雨", model.ConstraintModel{})
		b := createStaff(2, "阿杰", model.ConstraintModel{})

		result, err := solver.NewGreedySolver().Solve(
			context.Background(),
			[]*model.Shift{shift},
			[]*model.Staff{b, a}, // 故意乱序传入
		)
		if err != nil {
			t.Fatalf("排班执行失败: %v", err)
		}
		if len(result.Assignments) != 1 {
			t.Fatalf("应分配1个班次，实际 %d", len(result.Assignments))
		}
		if result.Assignments[0].StaffID != a.ID {
			t.Fatalf("第%d次运行：打平时应选ID较小的主播", i+1)
		}
	}
}

// TestResolveIdempotent 对同一输入重复求解，分配结果完全一致
func TestResolveIdempotent(t *testing.T) {
	staff := []*model.Staff{
		createStaff(1, "小雨", model.ConstraintModel{}),
		createStaff(2, "阿杰", model.ConstraintModel{MaxShiftsPerWeek: 4}),
		createStaff(3, "琳琳", model.ConstraintModel{
			Preferences: map[model.SlotType]int{model.SlotMorning: 3},
		}),
	}

	shifts1, _ := weekCatalog(t)
	first, err := solver.NewGreedySolver().Solve(context.Background(), shifts1, staff)
	if err != nil {
		t.Fatalf("第一次求解失败: %v", err)
	}

	// 重新生成同构目录无法复用ID，这里复位后重解同一批班次
	for _, s := range shifts1 {
		s.StaffID = uuid.Nil
	}
	second, err := solver.NewGreedySolver().Solve(context.Background(), shifts1, staff)
	if err != nil {
		t.Fatalf("第二次求解失败: %v", err)
	}

	if len(first.Assignments) != len(second.Assignments) {
		t.Fatalf("两次求解分配数不同: %d vs %d", len(first.Assignments), len(second.Assignments))
	}
	for i := range first.Assignments {
		f, s := first.Assignments[i], second.Assignments[i]
		if f.ShiftID != s.ShiftID || f.StaffID != s.StaffID {
			t.Errorf("第%d条分配不一致: %s->%s vs %s->%s",
				i, f.ShiftID, f.StaffID, s.ShiftID, s.StaffID)
		}
	}
}

// TestCoverageMonotonic 增加可用主播不会让空缺变多
func TestCoverageMonotonic(t *testing.T) {
	tight := model.ConstraintModel{MaxShiftsPerWeek: 3}

	shifts1, _ := weekCatalog(t)
	few, err := solver.NewGreedySolver().Solve(context.Background(), shifts1,
		[]*model.Staff{createStaff(1, "小雨", tight)})
	if err != nil {
		t.Fatalf("排班执行失败: %v", err)
	}

	shifts2, _ := weekCatalog(t)
	more, err := solver.NewGreedySolver().Solve(context.Background(), shifts2,
		[]*model.Staff{
			createStaff(1, "小雨", tight),
			createStaff(2, "阿杰", model.ConstraintModel{}),
		})
	if err != nil {
		t.Fatalf("排班执行失败: %v", err)
	}

	if len(more.UnfilledShiftIDs) > len(few.UnfilledShiftIDs) {
		t.Errorf("增加主播后空缺反而变多: %d -> %d",
			len(few.UnfilledShiftIDs), len(more.UnfilledShiftIDs))
	}
}
