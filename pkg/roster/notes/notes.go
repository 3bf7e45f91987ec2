// Package notes 生成排班结果的确定性文字说明
package notes

import (
	"fmt"
	"strings"

	"github.com/zhibopai/zhibopai/pkg/model"
	"github.com/zhibopai/zhibopai/pkg/roster/solver"
)

// Generate 根据求解结果生成说明条目。相同输入总是产生相同输出：
// 条目顺序固定，姓名列表按升序排列。
func Generate(result *solver.Result, staff []*model.Staff, rng model.DateRange) []string {
	var lines []string

	if n := len(result.UnfilledShiftIDs); n > 0 {
		lines = append(lines, fmt.Sprintf("有 %d 个班次无人可排", n))
	}

	for _, ex := range result.ExcludedStaff {
		lines = append(lines, fmt.Sprintf("员工 %s 约束配置无效已被排除: %s", ex.Name, ex.Reason))
	}

	if below := solver.BelowWeeklyMinimum(result, staff, rng); len(below) > 0 {
		lines = append(lines, fmt.Sprintf("未达到每周最少班次数: %s", strings.Join(below, "、")))
	}

	if zero := solver.ZeroHourStaff(result, staff); len(zero) > 0 {
		lines = append(lines, fmt.Sprintf("本期没有任何班次: %s", strings.Join(zero, "、")))
	}

	if len(lines) == 0 {
		lines = append(lines, "所有班次均已排满，员工班次分布正常")
	}

	return lines
}

// Render 将说明条目合并为单个字符串
func Render(lines []string) string {
	return strings.Join(lines, "；")
}
