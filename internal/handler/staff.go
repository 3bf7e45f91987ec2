package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/zhibopai/zhibopai/internal/repository"
	"github.com/zhibopai/zhibopai/pkg/constraints"
	"github.com/zhibopai/zhibopai/pkg/errors"
	"github.com/zhibopai/zhibopai/pkg/model"
)

// StaffHandler 员工处理器
type StaffHandler struct {
	repo *repository.StaffRepository
}

// NewStaffHandler 创建员工处理器
func NewStaffHandler(repo *repository.StaffRepository) *StaffHandler {
	return &StaffHandler{repo: repo}
}

// StaffRequest 员工创建/更新请求
type StaffRequest struct {
	Name           string                 `json:"name"`
	Role           string                 `json:"role,omitempty"`
	Avatar         string                 `json:"avatar,omitempty"`
	Constraints    *model.ConstraintModel `json:"constraints,omitempty"`
	RawConstraints string                 `json:"raw_constraints,omitempty"`
}

// StaffResponse 单个员工响应
type StaffResponse struct {
	Success      bool         `json:"success"`
	Data         *model.Staff `json:"data,omitempty"`
	Unrecognized []string     `json:"unrecognized,omitempty"` // 约束原文中未能识别的片段
}

// StaffListResponse 员工列表响应
type StaffListResponse struct {
	Success bool           `json:"success"`
	Data    []*model.Staff `json:"data"`
	Total   int            `json:"total"`
}

// Collection 处理 /api/v1/staff 集合路由
func (h *StaffHandler) Collection(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, errors.New(errors.CodeInternal, "数据库未配置"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		respondError(w, errors.New(errors.CodeInvalidInput, "不支持的方法: "+r.Method))
	}
}

// Item 处理 /api/v1/staff/{id} 单体路由
func (h *StaffHandler) Item(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, errors.New(errors.CodeInternal, "数据库未配置"))
		return
	}

	id, appErr := pathID(r.URL.Path, "/api/v1/staff/")
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		respondError(w, errors.New(errors.CodeInvalidInput, "不支持的方法: "+r.Method))
	}
}

func (h *StaffHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := repository.DefaultListFilter().
		WithSearch(r.URL.Query().Get("search"))
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter = filter.WithLimit(limit)
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		filter = filter.WithOffset(offset)
	}

	staffList, total, err := h.repo.List(r.Context(), filter)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询员工列表失败"))
		return
	}
	if staffList == nil {
		staffList = []*model.Staff{}
	}

	respondJSON(w, http.StatusOK, StaffListResponse{Success: true, Data: staffList, Total: total})
}

func (h *StaffHandler) create(w http.ResponseWriter, r *http.Request) {
	var req StaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if req.Name == "" {
		respondError(w, errors.InvalidInput("name", "姓名不能为空"))
		return
	}

	staff, unrecognized := buildStaffModel(&req)
	if err := h.repo.Create(r.Context(), staff); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "创建员工失败"))
		return
	}

	respondJSON(w, http.StatusCreated, StaffResponse{Success: true, Data: staff, Unrecognized: unrecognized})
}

func (h *StaffHandler) get(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	staff, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询员工失败"))
		return
	}
	if staff == nil {
		respondError(w, errors.NotFound("员工", id.String()))
		return
	}

	respondJSON(w, http.StatusOK, StaffResponse{Success: true, Data: staff})
}

func (h *StaffHandler) update(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req StaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询员工失败"))
		return
	}
	if existing == nil {
		respondError(w, errors.NotFound("员工", id.String()))
		return
	}

	staff, unrecognized := buildStaffModel(&req)
	staff.BaseModel = existing.BaseModel
	if staff.Name == "" {
		staff.Name = existing.Name
	}

	if err := h.repo.Update(r.Context(), staff); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "更新员工失败"))
		return
	}

	respondJSON(w, http.StatusOK, StaffResponse{Success: true, Data: staff, Unrecognized: unrecognized})
}

func (h *StaffHandler) delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "删除员工失败"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// buildStaffModel 组装员工模型。给定结构化约束时直接采用；
// 否则解析约束原文，返回未识别的片段供前端提示。
func buildStaffModel(req *StaffRequest) (*model.Staff, []string) {
	staff := &model.Staff{
		Name:           req.Name,
		Role:           req.Role,
		Avatar:         req.Avatar,
		RawConstraints: req.RawConstraints,
	}
	if staff.Role == "" {
		staff.Role = model.RoleHost
	}

	var unrecognized []string
	if req.Constraints != nil {
		staff.Constraints = *req.Constraints
	} else if req.RawConstraints != "" {
		staff.Constraints, unrecognized = constraints.Parse(req.RawConstraints)
	}
	return staff, unrecognized
}

// pathID 从路径中提取UUID
func pathID(path, prefix string) (uuid.UUID, *errors.AppError) {
	raw := strings.TrimPrefix(path, prefix)
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" || strings.Contains(raw, "/") {
		return uuid.Nil, errors.New(errors.CodeInvalidInput, "路径中缺少资源ID")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, errors.CodeInvalidInput, "无效的ID格式: "+raw)
	}
	return id, nil
}
