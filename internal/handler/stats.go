package handler

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/google/uuid"

	"github.com/zhibopai/zhibopai/pkg/errors"
	"github.com/zhibopai/zhibopai/pkg/logger"
	"github.com/zhibopai/zhibopai/pkg/model"
	"github.com/zhibopai/zhibopai/pkg/stats"
)

// StatsRequest 统计请求
type StatsRequest struct {
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	Staff       []StaffInput        `json:"staff"`
	Shifts      []ShiftInput        `json:"shifts"`
	Assignments []*model.Assignment `json:"assignments"`
}

// FairnessResponse 公平性响应
type FairnessResponse struct {
	Success bool                   `json:"success"`
	Data    *stats.FairnessMetrics `json:"data,omitempty"`
}

// CoverageResponse 覆盖率响应
type CoverageResponse struct {
	Success bool                   `json:"success"`
	Data    *stats.CoverageMetrics `json:"data,omitempty"`
}

// WorkloadResponse 工作量响应
type WorkloadResponse struct {
	Success bool             `json:"success"`
	Data    *WorkloadSummary `json:"data,omitempty"`
}

// WorkloadSummary 工作量汇总
type WorkloadSummary struct {
	Period            string                   `json:"period"`
	TotalHours        float64                  `json:"total_hours"`
	TotalShifts       int                      `json:"total_shifts"`
	StaffCount        int                      `json:"staff_count"`
	AvgHoursPerPerson float64                  `json:"avg_hours_per_person"`
	ByStaff           []StaffWorkload          `json:"by_staff"`
	ByDate            map[string]DailyWorkload `json:"by_date"`
	BySlot            map[string]float64       `json:"by_slot"`
}

// StaffWorkload 单个员工工作量
type StaffWorkload struct {
	StaffID    string  `json:"staff_id"`
	StaffName  string  `json:"staff_name"`
	TotalHours float64 `json:"total_hours"`
	ShiftCount int     `json:"shift_count"`
}

// DailyWorkload 每日工作量
type DailyWorkload struct {
	Date       string  `json:"date"`
	TotalHours float64 `json:"total_hours"`
	ShiftCount int     `json:"shift_count"`
}

// GetFairnessHandler 公平性分析API
func GetFairnessHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeStatsRequest(w, r)
	if !ok {
		return
	}

	logger.Info().
		Int("staff", len(req.Staff)).
		Int("assignments", len(req.Assignments)).
		Msg("接收公平性分析请求")

	staff, appErr := buildStaff(req.Staff)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	metrics := stats.NewFairnessAnalyzer().Analyze(req.Assignments, staff)
	respondJSON(w, http.StatusOK, FairnessResponse{Success: true, Data: metrics})
}

// GetCoverageHandler 覆盖率分析API
func GetCoverageHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeStatsRequest(w, r)
	if !ok {
		return
	}

	logger.Info().
		Int("shifts", len(req.Shifts)).
		Int("assignments", len(req.Assignments)).
		Msg("接收覆盖率分析请求")

	shifts, appErr := buildShifts(req.Shifts, model.RoleHost)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	metrics := stats.NewCoverageAnalyzer().Analyze(shifts, req.Assignments)
	respondJSON(w, http.StatusOK, CoverageResponse{Success: true, Data: metrics})
}

// GetWorkloadHandler 工作量统计API
func GetWorkloadHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeStatsRequest(w, r)
	if !ok {
		return
	}

	logger.Info().
		Str("start_date", req.StartDate).
		Str("end_date", req.EndDate).
		Int("assignments", len(req.Assignments)).
		Msg("接收工作量统计请求")

	staff, appErr := buildStaff(req.Staff)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	summary := calculateWorkload(req.Assignments, staff, req.StartDate, req.EndDate)
	respondJSON(w, http.StatusOK, WorkloadResponse{Success: true, Data: summary})
}

// decodeStatsRequest 解析统计请求体
func decodeStatsRequest(w http.ResponseWriter, r *http.Request) (*StatsRequest, bool) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return nil, false
	}

	var req StatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return nil, false
	}
	return &req, true
}

// calculateWorkload 按员工、日期与槽位汇总工时
func calculateWorkload(assignments []*model.Assignment, staff []*model.Staff, startDate, endDate string) *WorkloadSummary {
	summary := &WorkloadSummary{
		Period: startDate + " ~ " + endDate,
		ByDate: make(map[string]DailyWorkload),
		BySlot: make(map[string]float64),
	}

	nameMap := make(map[uuid.UUID]string, len(staff))
	for _, st := range staff {
		nameMap[st.ID] = st.Name
	}

	byStaff := make(map[uuid.UUID]*StaffWorkload)
	for _, a := range assignments {
		hours := a.Hours()
		summary.TotalHours += hours
		summary.TotalShifts++

		sw, exists := byStaff[a.StaffID]
		if !exists {
			name := nameMap[a.StaffID]
			if name == "" {
				name = a.StaffID.String()
			}
			sw = &StaffWorkload{StaffID: a.StaffID.String(), StaffName: name}
			byStaff[a.StaffID] = sw
		}
		sw.TotalHours += hours
		sw.ShiftCount++

		daily := summary.ByDate[a.Date]
		daily.Date = a.Date
		daily.TotalHours += hours
		daily.ShiftCount++
		summary.ByDate[a.Date] = daily

		start, err := model.ParseClock(a.StartTime)
		if err == nil {
			summary.BySlot[slotLabel(start)] += hours
		}
	}

	summary.StaffCount = len(byStaff)
	for _, sw := range byStaff {
		summary.ByStaff = append(summary.ByStaff, *sw)
	}
	sort.Slice(summary.ByStaff, func(i, j int) bool {
		if summary.ByStaff[i].TotalHours != summary.ByStaff[j].TotalHours {
			return summary.ByStaff[i].TotalHours > summary.ByStaff[j].TotalHours
		}
		return summary.ByStaff[i].StaffID < summary.ByStaff[j].StaffID
	})

	if summary.StaffCount > 0 {
		summary.AvgHoursPerPerson = summary.TotalHours / float64(summary.StaffCount)
	}

	return summary
}

// slotLabel 根据开始时间归类槽位
func slotLabel(startMin int) string {
	switch {
	case startMin < 8*60+30:
		return string(model.SlotMorning)
	case startMin < 14*60:
		return string(model.SlotDay)
	default:
		return string(model.SlotEvening)
	}
}
