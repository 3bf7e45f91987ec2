// Package constraints 将自由文本约束翻译为结构化约束模型。
// 求解器只消费结构化模型，本包是可选的前置处理步骤。
package constraints

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/zhibopai/zhibopai/pkg/model"
)

var (
	windowPattern = regexp.MustCompile(`(\d{1,2}:\d{2})\s*[-~到至]\s*(\d{1,2}:\d{2})`)
	maxPattern    = regexp.MustCompile(`(?:max|最多|不超过)\s*(\d+)`)
	minPattern    = regexp.MustCompile(`(?:min|at least|至少|最少)\s*(\d+)`)
)

// 星期关键字，中英文各一套
var weekdayKeywords = []struct {
	keys []string
	day  time.Weekday
}{
	{[]string{"monday", "周一", "星期一"}, time.Monday},
	{[]string{"tuesday", "周二", "星期二"}, time.Tuesday},
	{[]string{"wednesday", "周三", "星期三"}, time.Wednesday},
	{[]string{"thursday", "周四", "星期四"}, time.Thursday},
	{[]string{"friday", "周五", "星期五"}, time.Friday},
	{[]string{"saturday", "周六", "星期六"}, time.Saturday},
	{[]string{"sunday", "周日", "星期日", "星期天"}, time.Sunday},
}

// 槽位关键字
var slotKeywords = []struct {
	keys []string
	slot model.SlotType
}{
	{[]string{"morning", "早班", "早上"}, model.SlotMorning},
	{[]string{"day", "日班", "白天"}, model.SlotDay},
	{[]string{"evening", "晚班", "晚上"}, model.SlotEvening},
}

// preferWeight 偏好关键字命中时赋予的权重
const preferWeight = 5

// Parse 解析自由文本约束。无法识别的片段原样返回，调用方决定如何提示。
// 解析是确定性的：相同文本总是产生相同模型。
func Parse(text string) (model.ConstraintModel, []string) {
	cm := model.ConstraintModel{}
	var unrecognized []string

	for _, raw := range splitClauses(text) {
		clause := strings.ToLower(strings.TrimSpace(raw))
		if clause == "" {
			continue
		}
		if !parseClause(clause, &cm) {
			unrecognized = append(unrecognized, strings.TrimSpace(raw))
		}
	}

	return cm, unrecognized
}

// splitClauses 按分隔符拆分文本
func splitClauses(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case ';', ',', '\n', '。', '；', '，':
			return true
		}
		return false
	})
}

// parseClause 解析单个子句，返回是否识别成功
func parseClause(clause string, cm *model.ConstraintModel) bool {
	matched := false

	// 周末排除
	if strings.Contains(clause, "weekend") || strings.Contains(clause, "周末") {
		if isNegated(clause) {
			addExcludedWeekday(cm, time.Saturday)
			addExcludedWeekday(cm, time.Sunday)
			matched = true
		}
	}

	// 具体星期排除
	for _, wk := range weekdayKeywords {
		for _, key := range wk.keys {
			if strings.Contains(clause, key) && isNegated(clause) {
				addExcludedWeekday(cm, wk.day)
				matched = true
			}
		}
	}

	// 时间窗口，如 "06:00-14:00"
	if m := windowPattern.FindStringSubmatch(clause); m != nil {
		w := model.TimeWindow{Start: padClock(m[1]), End: padClock(m[2])}
		cm.Windows = append(cm.Windows, w)
		matched = true
	}

	// 只上某类槽位，翻译为该槽位的时间窗口
	if strings.Contains(clause, "only") || strings.Contains(clause, "只上") || strings.Contains(clause, "只能") {
		for _, sk := range slotKeywords {
			for _, key := range sk.keys {
				if strings.Contains(clause, key) {
					for _, tpl := range model.StandardSlots {
						if tpl.Type == sk.slot {
							cm.Windows = append(cm.Windows, model.TimeWindow{Start: tpl.StartTime, End: tpl.EndTime})
						}
					}
					matched = true
				}
			}
		}
	}

	// 槽位偏好
	if strings.Contains(clause, "prefer") || strings.Contains(clause, "偏好") || strings.Contains(clause, "喜欢") {
		for _, sk := range slotKeywords {
			for _, key := range sk.keys {
				if strings.Contains(clause, key) {
					if cm.Preferences == nil {
						cm.Preferences = make(map[model.SlotType]int)
					}
					cm.Preferences[sk.slot] = preferWeight
					matched = true
				}
			}
		}
	}

	// 每周班次上下限
	if m := maxPattern.FindStringSubmatch(clause); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			cm.MaxShiftsPerWeek = n
			matched = true
		}
	}
	if m := minPattern.FindStringSubmatch(clause); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			cm.MinShiftsPerWeek = n
			matched = true
		}
	}

	return matched
}

// isNegated 检查子句是否为否定语气
func isNegated(clause string) bool {
	for _, neg := range []string{"no ", "not ", "can't", "cannot", "不上", "不能", "不排", "休息", "排除"} {
		if strings.Contains(clause, neg) {
			return true
		}
	}
	// "no weekends" 这类子句整体以 no 开头
	return strings.HasPrefix(clause, "no")
}

// padClock 将 "6:30" 补齐为 "06:30"
func padClock(s string) string {
	if len(s) == 4 {
		return "0" + s
	}
	return s
}

// addExcludedWeekday 去重添加排除星期
func addExcludedWeekday(cm *model.ConstraintModel, wd time.Weekday) {
	if cm.ExcludesWeekday(wd) {
		return
	}
	cm.ExcludedWeekdays = append(cm.ExcludedWeekdays, wd)
}
