// Package solver 提供确定性的贪心排班求解器
package solver

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/zhibopai/zhibopai/pkg/errors"
	"github.com/zhibopai/zhibopai/pkg/logger"
	"github.com/zhibopai/zhibopai/pkg/model"
	"github.com/zhibopai/zhibopai/pkg/roster"
	"github.com/zhibopai/zhibopai/pkg/roster/feasibility"
	"github.com/zhibopai/zhibopai/pkg/validator"
)

// ExcludedStaff 因约束配置错误被排除的员工
type ExcludedStaff struct {
	StaffID uuid.UUID `json:"staff_id"`
	Name    string    `json:"name"`
	Reason  string    `json:"reason"`
}

// Result 求解结果
type Result struct {
	Assignments      []*model.Assignment `json:"assignments"`
	UnfilledShiftIDs []uuid.UUID         `json:"unfilledShiftIds"`
	ExcludedStaff    []ExcludedStaff     `json:"excluded_staff,omitempty"`
	Statistics       *Statistics         `json:"statistics"`
	Duration         time.Duration       `json:"duration"`
}

// Statistics 排班统计
type Statistics struct {
	TotalShifts      int     `json:"total_shifts"`
	Assigned         int     `json:"assigned"`
	Unfilled         int     `json:"unfilled"`
	FillRate         float64 `json:"fill_rate"`
	TotalHours       float64 `json:"total_hours"`
	ActiveStaff      int     `json:"active_staff"`
	AvgHoursPerStaff float64 `json:"avg_hours_per_staff"`
}

// GreedySolver 贪心求解器。相同输入总是产生相同输出。
type GreedySolver struct {
	logger *logger.SolverLogger
}

// NewGreedySolver 创建贪心求解器
func NewGreedySolver() *GreedySolver {
	return &GreedySolver{logger: logger.NewSolverLogger()}
}

// Name 返回求解器名称
func (s *GreedySolver) Name() string {
	return "GreedySolver"
}

// Solve 按时间顺序逐班分配，每班选择排序链中最优的可排员工。
// 空输入返回输入错误；约束配置错误的员工被排除后继续求解；
// 结果中出现同员工时间重叠视为内部错误，不返回结果。
func (s *GreedySolver) Solve(ctx context.Context, shifts []*model.Shift, staff []*model.Staff) (*Result, error) {
	startTime := time.Now()
	s.logger.StartSolve(len(shifts), len(staff))

	if len(shifts) == 0 {
		return nil, errors.MissingInput("shifts")
	}
	if len(staff) == 0 {
		return nil, errors.MissingInput("staff")
	}
	if err := roster.ValidateShifts(shifts); err != nil {
		return nil, err
	}

	result := &Result{
		Assignments:      make([]*model.Assignment, 0, len(shifts)),
		UnfilledShiftIDs: make([]uuid.UUID, 0),
		Statistics:       &Statistics{TotalShifts: len(shifts)},
	}

	// 约束配置错误的员工只排除本人，不中断求解
	pool := make([]*model.Staff, 0, len(staff))
	for _, st := range staff {
		if err := st.Validate(); err != nil {
			s.logger.ConfigError(st.ID.String(), st.Name, err.Error())
			result.ExcludedStaff = append(result.ExcludedStaff, ExcludedStaff{
				StaffID: st.ID,
				Name:    st.Name,
				Reason:  err.Error(),
			})
			continue
		}
		pool = append(pool, st)
	}
	sort.Slice(pool, func(i, j int) bool {
		return pool[i].ID.String() < pool[j].ID.String()
	})
	sort.Slice(result.ExcludedStaff, func(i, j int) bool {
		return result.ExcludedStaff[i].StaffID.String() < result.ExcludedStaff[j].StaffID.String()
	})

	// 复制后按时间顺序处理，不修改调用方切片
	ordered := make([]*model.Shift, len(shifts))
	copy(ordered, shifts)
	roster.Sort(ordered)

	tracker := NewTracker()

	for _, shift := range ordered {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		best := s.pickBest(pool, shift, tracker)
		if best == nil {
			s.logger.ShiftUnfilled(shift.ID.String(), shift.Date)
			result.UnfilledShiftIDs = append(result.UnfilledShiftIDs, shift.ID)
			continue
		}

		shift.StaffID = best.ID
		tracker.Record(best.ID, shift)
		result.Assignments = append(result.Assignments, &model.Assignment{
			ShiftID:   shift.ID,
			StaffID:   best.ID,
			Date:      shift.Date,
			StartTime: shift.StartTime,
			EndTime:   shift.EndTime,
		})
	}

	// 内部不变量：同一员工绝不重叠。违反说明求解器自身有缺陷。
	if c := validator.HasDoubleBooking(result.Assignments); c != nil {
		return nil, errors.New(errors.CodeInternal, "求解器产生了重叠排班").WithDetails(c.Message)
	}

	s.fillStatistics(result, tracker, pool)
	result.Duration = time.Since(startTime)
	s.logger.SolveComplete(len(result.Assignments), len(result.UnfilledShiftIDs), result.Duration)

	return result, nil
}

// candidate 参与排序的候选员工及其排序键
type candidate struct {
	staff       *model.Staff
	dayDistinct bool // 当日尚无班次
	deficit     int  // 每周最少班次缺口
	hours       float64
	preference  int
}

// pickBest 返回排序链中最优的可排员工，无人可排时返回 nil。
// 排序链：当日无班优先 → 周最少缺口大者优先 → 累计工时少者优先 →
// 槽位偏好高者优先 → 员工ID升序兜底。
func (s *GreedySolver) pickBest(pool []*model.Staff, shift *model.Shift, tracker *Tracker) *model.Staff {
	var candidates []candidate
	for _, st := range pool {
		if ok, _ := feasibility.IsEligible(st, shift, tracker.Index()); !ok {
			continue
		}
		candidates = append(candidates, candidate{
			staff:       st,
			dayDistinct: !tracker.AssignedOn(st.ID, shift.Date),
			deficit:     tracker.Deficit(st, shift.Date),
			hours:       tracker.HoursOf(st.ID),
			preference:  st.Constraints.PreferenceFor(shift.SlotType),
		})
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.dayDistinct != b.dayDistinct {
			return a.dayDistinct
		}
		if a.deficit != b.deficit {
			return a.deficit > b.deficit
		}
		if a.hours != b.hours {
			return a.hours < b.hours
		}
		if a.preference != b.preference {
			return a.preference > b.preference
		}
		return a.staff.ID.String() < b.staff.ID.String()
	})

	return candidates[0].staff
}

// fillStatistics 填充统计信息
func (s *GreedySolver) fillStatistics(result *Result, tracker *Tracker, pool []*model.Staff) {
	stats := result.Statistics
	stats.Assigned = len(result.Assignments)
	stats.Unfilled = len(result.UnfilledShiftIDs)
	if stats.TotalShifts > 0 {
		stats.FillRate = float64(stats.Assigned) / float64(stats.TotalShifts) * 100
	}

	var totalHours float64
	active := 0
	for _, st := range pool {
		h := tracker.HoursOf(st.ID)
		totalHours += h
		if h > 0 {
			active++
		}
	}
	stats.TotalHours = totalHours
	stats.ActiveStaff = active
	if active > 0 {
		stats.AvgHoursPerStaff = totalHours / float64(active)
	}
}

// BelowWeeklyMinimum 返回在整个排班范围内未达到每周最少班次数的员工姓名（升序）。
// 以范围起始日为界按每7天一段评估。
func BelowWeeklyMinimum(result *Result, staff []*model.Staff, rng model.DateRange) []string {
	days := rng.Days()
	if len(days) == 0 {
		return nil
	}

	countByStaffDate := make(map[uuid.UUID]map[string]int)
	for _, a := range result.Assignments {
		if countByStaffDate[a.StaffID] == nil {
			countByStaffDate[a.StaffID] = make(map[string]int)
		}
		countByStaffDate[a.StaffID][a.Date]++
	}

	excluded := make(map[uuid.UUID]bool)
	for _, ex := range result.ExcludedStaff {
		excluded[ex.StaffID] = true
	}

	var names []string
	for _, st := range staff {
		if excluded[st.ID] {
			continue
		}
		minimum := st.Constraints.WeeklyMinimum()
		for blockStart := 0; blockStart < len(days); blockStart += 7 {
			blockEnd := blockStart + 7
			if blockEnd > len(days) {
				blockEnd = len(days)
			}
			// 不足7天的尾段按比例不作要求
			if blockEnd-blockStart < 7 {
				continue
			}
			count := 0
			for _, day := range days[blockStart:blockEnd] {
				count += countByStaffDate[st.ID][day]
			}
			if count < minimum {
				names = append(names, st.Name)
				break
			}
		}
	}
	sort.Strings(names)
	return names
}

// ZeroHourStaff 返回范围内没有任何班次的员工姓名（升序），不含被排除者
func ZeroHourStaff(result *Result, staff []*model.Staff) []string {
	assigned := make(map[uuid.UUID]bool)
	for _, a := range result.Assignments {
		assigned[a.StaffID] = true
	}
	excluded := make(map[uuid.UUID]bool)
	for _, ex := range result.ExcludedStaff {
		excluded[ex.StaffID] = true
	}

	var names []string
	for _, st := range staff {
		if !assigned[st.ID] && !excluded[st.ID] {
			names = append(names, st.Name)
		}
	}
	sort.Strings(names)
	return names
}
