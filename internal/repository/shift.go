package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhibopai/zhibopai/pkg/model"
)

// ShiftRepository 班次仓储
type ShiftRepository struct {
	db DB
}

// NewShiftRepository 创建班次仓储
func NewShiftRepository(db DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// Create 创建班次
func (r *ShiftRepository) Create(ctx context.Context, shift *model.Shift) error {
	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	now := time.Now()
	shift.CreatedAt = now
	shift.UpdatedAt = now

	query := `
		INSERT INTO shifts (
			id, date, slot_type, start_time, end_time, role, staff_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		shift.ID, shift.Date, shift.SlotType, shift.StartTime, shift.EndTime,
		shift.Role, nullableUUID(shift.StaffID), shift.CreatedAt, shift.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建班次失败: %w", err)
	}

	return nil
}

// CreateBatch 批量创建班次
func (r *ShiftRepository) CreateBatch(ctx context.Context, shifts []*model.Shift) error {
	if len(shifts) == 0 {
		return nil
	}

	var values []string
	var args []interface{}
	argIndex := 1

	now := time.Now()
	for _, s := range shifts {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		s.CreatedAt = now
		s.UpdatedAt = now

		values = append(values, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			argIndex, argIndex+1, argIndex+2, argIndex+3, argIndex+4,
			argIndex+5, argIndex+6, argIndex+7, argIndex+8,
		))
		args = append(args,
			s.ID, s.Date, s.SlotType, s.StartTime, s.EndTime,
			s.Role, nullableUUID(s.StaffID), s.CreatedAt, s.UpdatedAt,
		)
		argIndex += 9
	}

	query := fmt.Sprintf(`
		INSERT INTO shifts (
			id, date, slot_type, start_time, end_time, role, staff_id, created_at, updated_at
		) VALUES %s
	`, strings.Join(values, ", "))

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("批量创建班次失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取班次
func (r *ShiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Shift, error) {
	query := `
		SELECT id, date, slot_type, start_time, end_time, role, staff_id, created_at, updated_at
		FROM shifts
		WHERE id = $1 AND deleted_at IS NULL
	`

	shift, err := scanShift(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询班次失败: %w", err)
	}

	return shift, nil
}

// Update 更新班次
func (r *ShiftRepository) Update(ctx context.Context, shift *model.Shift) error {
	shift.UpdatedAt = time.Now()

	query := `
		UPDATE shifts SET
			date = $2, slot_type = $3, start_time = $4, end_time = $5,
			role = $6, staff_id = $7, updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		shift.ID, shift.Date, shift.SlotType, shift.StartTime, shift.EndTime,
		shift.Role, nullableUUID(shift.StaffID), shift.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("更新班次失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("班次不存在")
	}

	return nil
}

// Delete 软删除班次
func (r *ShiftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE shifts SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除班次失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("班次不存在")
	}

	return nil
}

// List 查询班次列表
func (r *ShiftRepository) List(ctx context.Context, filter ListFilter) ([]*model.Shift, int, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	conditions = append(conditions, "deleted_at IS NULL")

	if filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argIndex))
		args = append(args, filter.StartDate)
		argIndex++
	}
	if filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argIndex))
		args = append(args, filter.EndDate)
		argIndex++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM shifts WHERE %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("查询总数失败: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, date, slot_type, start_time, end_time, role, staff_id, created_at, updated_at
		FROM shifts
		WHERE %s
		ORDER BY date ASC, start_time ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询列表失败: %w", err)
	}
	defer rows.Close()

	var shifts []*model.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("扫描行失败: %w", err)
		}
		shifts = append(shifts, shift)
	}

	return shifts, total, nil
}

// ListByRange 获取日期范围内的全部班次，按时间排序
func (r *ShiftRepository) ListByRange(ctx context.Context, rng model.DateRange) ([]*model.Shift, error) {
	filter := DefaultListFilter().WithDateRange(rng.StartDate, rng.EndDate).WithLimit(10000)
	shifts, _, err := r.List(ctx, filter)
	return shifts, err
}

// ReplaceRange 重建日期范围内的班次：先清空范围内旧班次，再批量写入新班次
func (r *ShiftRepository) ReplaceRange(ctx context.Context, rng model.DateRange, shifts []*model.Shift) error {
	if err := r.ClearRange(ctx, rng); err != nil {
		return err
	}
	return r.CreateBatch(ctx, shifts)
}

// ClearRange 删除日期范围内的班次
func (r *ShiftRepository) ClearRange(ctx context.Context, rng model.DateRange) error {
	query := `DELETE FROM shifts WHERE date >= $1 AND date <= $2`
	if _, err := r.db.ExecContext(ctx, query, rng.StartDate, rng.EndDate); err != nil {
		return fmt.Errorf("清空班次失败: %w", err)
	}
	return nil
}

// ClearAll 删除全部班次
func (r *ShiftRepository) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shifts`); err != nil {
		return fmt.Errorf("清空班次失败: %w", err)
	}
	return nil
}

// ApplyAssignments 整体落库排班结果：先清空范围内的分配，再按结果写回
func (r *ShiftRepository) ApplyAssignments(ctx context.Context, rng model.DateRange, assignments []*model.Assignment) error {
	clearQuery := `
		UPDATE shifts SET staff_id = NULL, updated_at = $3
		WHERE date >= $1 AND date <= $2 AND deleted_at IS NULL
	`
	if _, err := r.db.ExecContext(ctx, clearQuery, rng.StartDate, rng.EndDate, time.Now()); err != nil {
		return fmt.Errorf("清空排班结果失败: %w", err)
	}

	updateQuery := `UPDATE shifts SET staff_id = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`
	now := time.Now()
	for _, a := range assignments {
		if _, err := r.db.ExecContext(ctx, updateQuery, a.ShiftID, a.StaffID, now); err != nil {
			return fmt.Errorf("写入排班结果失败: %w", err)
		}
	}

	return nil
}

// scanShift 从行扫描班次
func scanShift(row Scanner) (*model.Shift, error) {
	shift := &model.Shift{}
	var staffID uuid.NullUUID
	err := row.Scan(
		&shift.ID, &shift.Date, &shift.SlotType, &shift.StartTime, &shift.EndTime,
		&shift.Role, &staffID, &shift.CreatedAt, &shift.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if staffID.Valid {
		shift.StaffID = staffID.UUID
	}
	return shift, nil
}

// nullableUUID 零值UUID写为NULL
func nullableUUID(id uuid.UUID) interface{} {
	if id == uuid.Nil {
		return nil
	}
	return id
}
