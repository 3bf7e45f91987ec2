package scenario

import (
	"context"
	"testing"
	"time"

	"github.com/zhibopai/zhibopai/pkg/constraints"
	"github.com/zhibopai/zhibopai/pkg/model"
	"github.com/zhibopai/zhibopai/pkg/roster/solver"
)

// TestFreeTextConstraintEndToEnd 约束原文解析后参与求解：
// "周末不上班" 的主播绝不出现在周末班次中。
func TestFreeTextConstraintEndToEnd(t *testing.T) {
	cm, unrecognized := constraints.Parse("周末不上班；最多 5 班")
	if len(unrecognized) != 0 {
		t.Fatalf("约束原文应全部识别，未识别: %v", unrecognized)
	}

	weekender := createStaff(1, "小雨", cm)
	weekender.RawConstraints = "周末不上班；最多 5 班"
	backup := createStaff(2, "阿杰", model.ConstraintModel{})

	shifts, _ := weekCatalog(t)
	result, err := solver.NewGreedySolver().Solve(context.Background(), shifts,
		[]*model.Staff{weekender, backup})
	if err != nil {
		t.Fatalf("排班执行失败: %v", err)
	}

	count := 0
	for _, a := range result.Assignments {
		if a.StaffID != weekender.ID {
			continue
		}
		count++
		wd, err := model.WeekdayOf(a.Date)
		if err != nil {
			t.Fatalf("日期解析失败: %v", err)
		}
		if wd == time.Saturday || wd == time.Sunday {
			t.Errorf("小雨声明周末不上班，却被排到 %s", a.Date)
		}
	}
	if count > 5 {
		t.Errorf("小雨最多5班，实际 %d", count)
	}
}

// TestFreeTextEnglishConstraint 英文约束原文同样生效
func TestFreeTextEnglishConstraint(t *testing.T) {
	cm, _ := constraints.Parse("no weekends; max 3 shifts")

	host := createStaff(1, "Luna", cm)
	shifts, _ := weekCatalog(t)

	result, err := solver.NewGreedySolver().Solve(context.Background(), shifts,
		[]*model.Staff{host})
	if err != nil {
		t.Fatalf("排班执行失败: %v", err)
	}

	if len(result.Assignments) != 3 {
		t.Errorf("每周上限3班，实际分配 %d", len(result.Assignments))
	}
	for _, a := range result.Assignments {
		wd, _ := model.WeekdayOf(a.Date)
		if wd == time.Saturday || wd == time.Sunday {
			t.Errorf("不应排周末班次: %s", a.Date)
		}
	}
}
