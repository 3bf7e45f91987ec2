// Package roster 提供班次目录与排班求解的领域逻辑
package roster

import (
	"sort"

	"github.com/zhibopai/zhibopai/pkg/errors"
	"github.com/zhibopai/zhibopai/pkg/model"
)

// GenerateRange 为日期范围生成每天三个标准直播槽位，按时间顺序返回。
// 范围非法时返回输入错误。
func GenerateRange(rng model.DateRange, role string) ([]*model.Shift, error) {
	days := rng.Days()
	if len(days) == 0 {
		return nil, errors.InvalidInput("date_range",
			"日期范围非法: "+rng.StartDate+" ~ "+rng.EndDate)
	}
	if role == "" {
		role = model.RoleHost
	}

	shifts := make([]*model.Shift, 0, len(days)*len(model.StandardSlots))
	for _, day := range days {
		for _, tpl := range model.StandardSlots {
			shifts = append(shifts, &model.Shift{
				BaseModel: model.NewBaseModel(),
				Date:      day,
				SlotType:  tpl.Type,
				StartTime: tpl.StartTime,
				EndTime:   tpl.EndTime,
				Role:      role,
			})
		}
	}
	return shifts, nil
}

// Sort 按日期、开始时间、槽位顺序、ID 稳定排序
func Sort(shifts []*model.Shift) {
	sort.SliceStable(shifts, func(i, j int) bool {
		return shifts[i].Before(shifts[j])
	})
}

// ValidateShifts 校验班次集合，返回首个非法班次的错误
func ValidateShifts(shifts []*model.Shift) error {
	seen := make(map[string]bool, len(shifts))
	for _, s := range shifts {
		if err := s.Validate(); err != nil {
			return errors.Wrap(err, errors.CodeInvalidTimeRange, "班次校验失败")
		}
		if seen[s.ID.String()] {
			return errors.InvalidInput("shifts", "班次ID重复: "+s.ID.String())
		}
		seen[s.ID.String()] = true
	}
	return nil
}
