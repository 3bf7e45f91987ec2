package handler

import (
	"encoding/json"
	"net/http"

	"github.com/zhibopai/zhibopai/internal/repository"
	"github.com/zhibopai/zhibopai/pkg/errors"
	"github.com/zhibopai/zhibopai/pkg/logger"
	"github.com/zhibopai/zhibopai/pkg/model"
	"github.com/zhibopai/zhibopai/pkg/roster"
)

// ShiftHandler 班次处理器
type ShiftHandler struct {
	repo        *repository.ShiftRepository
	defaultRole string
}

// NewShiftHandler 创建班次处理器
func NewShiftHandler(repo *repository.ShiftRepository, defaultRole string) *ShiftHandler {
	return &ShiftHandler{repo: repo, defaultRole: defaultRole}
}

// GenerateShiftsRequest 班次生成请求
type GenerateShiftsRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Role      string `json:"role,omitempty"`
	Persist   bool   `json:"persist,omitempty"` // 是否写入数据库（覆盖范围内旧班次）
}

// ShiftListResponse 班次列表响应
type ShiftListResponse struct {
	Success bool           `json:"success"`
	Data    []*model.Shift `json:"data"`
	Total   int            `json:"total"`
}

// Generate 为日期范围生成标准班次目录
func (h *ShiftHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req GenerateShiftsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	role := req.Role
	if role == "" {
		role = h.defaultRole
	}

	rng := model.DateRange{StartDate: req.StartDate, EndDate: req.EndDate}
	shifts, err := roster.GenerateRange(rng, role)
	if err != nil {
		respondError(w, toAppError(err))
		return
	}

	if req.Persist {
		if h.repo == nil {
			respondError(w, errors.New(errors.CodeInternal, "数据库未配置，无法保存班次"))
			return
		}
		if err := h.repo.ReplaceRange(r.Context(), rng, shifts); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "保存班次失败"))
			return
		}
		logger.Info().
			Str("start_date", rng.StartDate).
			Str("end_date", rng.EndDate).
			Int("count", len(shifts)).
			Msg("班次目录已重建")
	}

	respondJSON(w, http.StatusOK, ShiftListResponse{Success: true, Data: shifts, Total: len(shifts)})
}

// List 查询班次列表，支持 start_date / end_date 过滤
func (h *ShiftHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}
	if h.repo == nil {
		respondError(w, errors.New(errors.CodeInternal, "数据库未配置"))
		return
	}

	filter := repository.DefaultListFilter().
		WithDateRange(r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date")).
		WithLimit(500)

	shifts, total, err := h.repo.List(r.Context(), filter)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询班次列表失败"))
		return
	}
	if shifts == nil {
		shifts = []*model.Shift{}
	}

	respondJSON(w, http.StatusOK, ShiftListResponse{Success: true, Data: shifts, Total: total})
}

// Clear 清空班次。给定日期范围时只清该范围，否则清空全部。
func (h *ShiftHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持DELETE方法"))
		return
	}
	if h.repo == nil {
		respondError(w, errors.New(errors.CodeInternal, "数据库未配置"))
		return
	}

	start := r.URL.Query().Get("start_date")
	end := r.URL.Query().Get("end_date")

	var err error
	if start != "" && end != "" {
		err = h.repo.ClearRange(r.Context(), model.DateRange{StartDate: start, EndDate: end})
	} else {
		err = h.repo.ClearAll(r.Context())
	}
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "清空班次失败"))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
