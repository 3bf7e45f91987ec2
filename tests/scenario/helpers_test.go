// Package scenario 提供场景测试
package scenario

import (
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/zhibopai/zhibopai/pkg/model"
	"github.com/zhibopai/zhibopai/pkg/roster"
)

// createStaff 创建测试主播，ID由序号决定以保证可比较
func createStaff(n int, name string, cm model.ConstraintModel) *model.Staff {
	id := uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
	return &model.Staff{
		BaseModel:   model.BaseModel{ID: id},
		Name:        name,
		Role:        model.RoleHost,
		Constraints: cm,
	}
}

// weekCatalog 生成 2026-03-02（周一）起一周的标准班次目录
func weekCatalog(t *testing.T) ([]*model.Shift, model.DateRange) {
	t.Helper()
	rng := model.DateRange{StartDate: "2026-03-02", EndDate: "2026-03-08"}
	shifts, err := roster.GenerateRange(rng, model.RoleHost)
	if err != nil {
		t.Fatalf("生成班次目录失败: %v", err)
	}
	return shifts, rng
}

// singleShift 创建单个班次
func singleShift(date, start, end string, slot model.SlotType) *model.Shift {
	return &model.Shift{
		BaseModel: model.NewBaseModel(),
		Date:      date,
		SlotType:  slot,
		StartTime: start,
		EndTime:   end,
		Role:      model.RoleHost,
	}
}
