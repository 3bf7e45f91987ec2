// Package handler 提供HTTP请求处理器
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/zhibopai/zhibopai/internal/config"
	"github.com/zhibopai/zhibopai/internal/metrics"
	"github.com/zhibopai/zhibopai/internal/repository"
	"github.com/zhibopai/zhibopai/pkg/constraints"
	"github.com/zhibopai/zhibopai/pkg/errors"
	"github.com/zhibopai/zhibopai/pkg/model"
	"github.com/zhibopai/zhibopai/pkg/roster/notes"
	"github.com/zhibopai/zhibopai/pkg/roster/solver"
	"github.com/zhibopai/zhibopai/pkg/stats"
	"github.com/zhibopai/zhibopai/pkg/validator"
)

// RosterHandler 排班处理器
type RosterHandler struct {
	cfg       *config.Config
	staffRepo *repository.StaffRepository
	shiftRepo *repository.ShiftRepository
}

// NewRosterHandler 创建排班处理器。仓储可为 nil，此时仅支持请求体内联数据。
func NewRosterHandler(cfg *config.Config, staffRepo *repository.StaffRepository, shiftRepo *repository.ShiftRepository) *RosterHandler {
	return &RosterHandler{
		cfg:       cfg,
		staffRepo: staffRepo,
		shiftRepo: shiftRepo,
	}
}

// SolveRequest 排班求解请求。班次与员工可内联提供；
// 省略时从数据库按日期范围加载。
type SolveRequest struct {
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
	Shifts    []ShiftInput  `json:"shifts,omitempty"`
	Staff     []StaffInput  `json:"staff,omitempty"`
	Persist   bool          `json:"persist,omitempty"` // 是否将结果写回数据库
	Options   *SolveOptions `json:"options,omitempty"`
}

// SolveOptions 求解选项
type SolveOptions struct {
	Timeout int `json:"timeout_seconds,omitempty"`
}

// ShiftInput 班次输入
type ShiftInput struct {
	ID        string `json:"id,omitempty"`
	Date      string `json:"date"`
	SlotType  string `json:"slot_type"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Role      string `json:"role,omitempty"`
}

// StaffInput 员工输入
type StaffInput struct {
	ID             string                 `json:"id,omitempty"`
	Name           string                 `json:"name"`
	Role           string                 `json:"role,omitempty"`
	Constraints    *model.ConstraintModel `json:"constraints,omitempty"`
	RawConstraints string                 `json:"raw_constraints,omitempty"`
}

// AssignmentOutput 单条排班输出
type AssignmentOutput struct {
	ShiftID   string `json:"shiftId"`
	StaffID   string `json:"staffId"`
	StaffName string `json:"staff_name,omitempty"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// SolveResponse 求解响应
type SolveResponse struct {
	Success          bool                   `json:"success"`
	Assignments      []AssignmentOutput     `json:"assignments"`
	UnfilledShiftIDs []string               `json:"unfilledShiftIds"`
	Notes            []string               `json:"notes"`
	ExcludedStaff    []solver.ExcludedStaff `json:"excluded_staff,omitempty"`
	Statistics       *solver.Statistics     `json:"statistics"`
	Duration         string                 `json:"duration"`
}

// Solve 求解排班
func (h *RosterHandler) Solve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if err := validateSolveRequest(&req); err != nil {
		respondError(w, err)
		return
	}

	shifts, appErr := h.resolveShifts(r.Context(), &req)
	if appErr != nil {
		respondError(w, appErr)
		return
	}
	staff, appErr := h.resolveStaff(r.Context(), &req)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	timeout := h.cfg.Roster.SolveTimeout
	if req.Options != nil && req.Options.Timeout > 0 {
		timeout = time.Duration(req.Options.Timeout) * time.Second
	}
	solveCtx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	s := solver.NewGreedySolver()
	result, err := s.Solve(solveCtx, shifts, staff)
	if err != nil {
		metrics.RecordSolve(false, 0, 0)
		if err == context.DeadlineExceeded {
			respondError(w, errors.New(errors.CodeTimeout, "排班计算超时，请缩短排班周期"))
			return
		}
		if err == context.Canceled {
			respondError(w, errors.New(errors.CodeInternal, "排班请求已取消"))
			return
		}
		respondError(w, toAppError(err))
		return
	}

	rng := model.DateRange{StartDate: req.StartDate, EndDate: req.EndDate}
	if rng.StartDate == "" || rng.EndDate == "" {
		rng = rangeOfShifts(shifts)
	}
	noteLines := notes.Generate(result, staff, rng)

	metrics.RecordSolve(true, len(result.UnfilledShiftIDs), result.Duration)
	recordQualityMetrics(shifts, result, staff)

	if req.Persist {
		if h.shiftRepo == nil {
			respondError(w, errors.New(errors.CodeInternal, "数据库未配置，无法保存排班结果"))
			return
		}
		if err := h.shiftRepo.ApplyAssignments(r.Context(), rng, result.Assignments); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "保存排班结果失败"))
			return
		}
	}

	nameMap := make(map[uuid.UUID]string, len(staff))
	for _, st := range staff {
		nameMap[st.ID] = st.Name
	}

	assignments := make([]AssignmentOutput, len(result.Assignments))
	for i, a := range result.Assignments {
		assignments[i] = AssignmentOutput{
			ShiftID:   a.ShiftID.String(),
			StaffID:   a.StaffID.String(),
			StaffName: nameMap[a.StaffID],
			Date:      a.Date,
			StartTime: a.StartTime,
			EndTime:   a.EndTime,
		}
	}
	unfilled := make([]string, len(result.UnfilledShiftIDs))
	for i, id := range result.UnfilledShiftIDs {
		unfilled[i] = id.String()
	}

	respondJSON(w, http.StatusOK, SolveResponse{
		Success:          true,
		Assignments:      assignments,
		UnfilledShiftIDs: unfilled,
		Notes:            noteLines,
		ExcludedStaff:    result.ExcludedStaff,
		Statistics:       result.Statistics,
		Duration:         result.Duration.String(),
	})
}

// resolveShifts 获取求解用班次：优先内联，其次数据库
func (h *RosterHandler) resolveShifts(ctx context.Context, req *SolveRequest) ([]*model.Shift, *errors.AppError) {
	if len(req.Shifts) > 0 {
		return buildShifts(req.Shifts, h.cfg.Roster.DefaultRole)
	}
	if h.shiftRepo == nil {
		return nil, errors.New(errors.CodeInvalidInput, "未提供班次且数据库未配置")
	}
	rng := model.DateRange{StartDate: req.StartDate, EndDate: req.EndDate}
	shifts, err := h.shiftRepo.ListByRange(ctx, rng)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "加载班次失败")
	}
	return shifts, nil
}

// resolveStaff 获取求解用员工：优先内联，其次数据库
func (h *RosterHandler) resolveStaff(ctx context.Context, req *SolveRequest) ([]*model.Staff, *errors.AppError) {
	if len(req.Staff) > 0 {
		return buildStaff(req.Staff)
	}
	if h.staffRepo == nil {
		return nil, errors.New(errors.CodeInvalidInput, "未提供员工且数据库未配置")
	}
	staff, err := h.staffRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "加载员工失败")
	}
	return staff, nil
}

// buildShifts 将请求输入转为模型班次
func buildShifts(inputs []ShiftInput, defaultRole string) ([]*model.Shift, *errors.AppError) {
	shifts := make([]*model.Shift, 0, len(inputs))
	for _, in := range inputs {
		id := uuid.New()
		if in.ID != "" {
			parsed, err := uuid.Parse(in.ID)
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeInvalidInput, "无效的班次ID格式: "+in.ID)
			}
			id = parsed
		}
		role := in.Role
		if role == "" {
			role = defaultRole
		}
		shifts = append(shifts, &model.Shift{
			BaseModel: model.BaseModel{ID: id},
			Date:      in.Date,
			SlotType:  model.SlotType(in.SlotType),
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
			Role:      role,
		})
	}
	return shifts, nil
}

// buildStaff 将请求输入转为模型员工。只给出约束原文时先解析。
func buildStaff(inputs []StaffInput) ([]*model.Staff, *errors.AppError) {
	staff := make([]*model.Staff, 0, len(inputs))
	for _, in := range inputs {
		id := uuid.New()
		if in.ID != "" {
			parsed, err := uuid.Parse(in.ID)
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeInvalidInput, "无效的员工ID格式: "+in.ID)
			}
			id = parsed
		}
		st := &model.Staff{
			BaseModel:      model.BaseModel{ID: id},
			Name:           in.Name,
			Role:           in.Role,
			RawConstraints: in.RawConstraints,
		}
		if st.Role == "" {
			st.Role = model.RoleHost
		}
		if in.Constraints != nil {
			st.Constraints = *in.Constraints
		} else if in.RawConstraints != "" {
			cm, _ := constraints.Parse(in.RawConstraints)
			st.Constraints = cm
		}
		staff = append(staff, st)
	}
	return staff, nil
}

// validateSolveRequest 验证求解请求
func validateSolveRequest(req *SolveRequest) *errors.AppError {
	ve := &errors.ValidationErrors{}

	if len(req.Shifts) == 0 {
		if req.StartDate == "" {
			ve.Add("start_date", "开始日期不能为空")
		}
		if req.EndDate == "" {
			ve.Add("end_date", "结束日期不能为空")
		}
	}
	if req.StartDate != "" {
		if _, err := time.Parse("2006-01-02", req.StartDate); err != nil {
			ve.Add("start_date", "日期格式无效，应为YYYY-MM-DD")
		}
	}
	if req.EndDate != "" {
		if _, err := time.Parse("2006-01-02", req.EndDate); err != nil {
			ve.Add("end_date", "日期格式无效，应为YYYY-MM-DD")
		}
	}

	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return nil
}

// rangeOfShifts 从班次集合推导日期范围
func rangeOfShifts(shifts []*model.Shift) model.DateRange {
	var rng model.DateRange
	for _, s := range shifts {
		if rng.StartDate == "" || s.Date < rng.StartDate {
			rng.StartDate = s.Date
		}
		if rng.EndDate == "" || s.Date > rng.EndDate {
			rng.EndDate = s.Date
		}
	}
	return rng
}

// recordQualityMetrics 求解完成后更新公平性与覆盖率指标
func recordQualityMetrics(shifts []*model.Shift, result *solver.Result, staff []*model.Staff) {
	fairness := stats.NewFairnessAnalyzer().Analyze(result.Assignments, staff)
	metrics.SetFairnessGini("workload", fairness.WorkloadGini)
	metrics.SetFairnessGini("weekend", fairness.WeekendGini)

	coverage := stats.NewCoverageAnalyzer().Analyze(shifts, result.Assignments)
	metrics.SetCoverageRate(coverage.OverallCoverage)
}

// ValidateRequest 排班验证请求
type ValidateRequest struct {
	Assignments []ValidateAssignmentInput `json:"assignments"`
	Staff       []StaffInput              `json:"staff"`
}

// ValidateAssignmentInput 待验证的排班输入
type ValidateAssignmentInput struct {
	ShiftID   string `json:"shiftId"`
	StaffID   string `json:"staffId"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ValidateResponse 验证响应
type ValidateResponse struct {
	IsValid   bool                 `json:"is_valid"`
	Conflicts []validator.Conflict `json:"conflicts"`
}

// Validate 验证一份排班是否违反员工约束
func (h *RosterHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if len(req.Assignments) == 0 {
		respondError(w, errors.InvalidInput("assignments", "排班列表不能为空"))
		return
	}

	staff, appErr := buildStaff(req.Staff)
	if appErr != nil {
		respondError(w, appErr)
		return
	}
	staffMap := make(map[uuid.UUID]*model.Staff, len(staff))
	for _, st := range staff {
		staffMap[st.ID] = st
	}

	assignments := make([]*model.Assignment, 0, len(req.Assignments))
	for _, in := range req.Assignments {
		shiftID, err := uuid.Parse(in.ShiftID)
		if err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "无效的班次ID格式: "+in.ShiftID))
			return
		}
		staffID, err := uuid.Parse(in.StaffID)
		if err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "无效的员工ID格式: "+in.StaffID))
			return
		}
		assignments = append(assignments, &model.Assignment{
			ShiftID:   shiftID,
			StaffID:   staffID,
			Date:      in.Date,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
		})
	}

	conflicts := validator.NewConflictDetector().DetectAll(assignments, staffMap)
	if conflicts == nil {
		conflicts = []validator.Conflict{}
	}

	respondJSON(w, http.StatusOK, ValidateResponse{
		IsValid:   len(conflicts) == 0,
		Conflicts: conflicts,
	})
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
		"fields":  err.Fields,
	})
}

// toAppError 将任意错误转为应用错误
func toAppError(err error) *errors.AppError {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr
	}
	return errors.Wrap(err, errors.CodeInternal, "排班失败")
}
