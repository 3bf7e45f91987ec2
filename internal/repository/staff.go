package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhibopai/zhibopai/pkg/model"
)

// StaffRepository 员工仓储
type StaffRepository struct {
	db DB
}

// NewStaffRepository 创建员工仓储
func NewStaffRepository(db DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// Create 创建员工
func (r *StaffRepository) Create(ctx context.Context, staff *model.Staff) error {
	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	now := time.Now()
	staff.CreatedAt = now
	staff.UpdatedAt = now

	constraintsJSON, err := json.Marshal(staff.Constraints)
	if err != nil {
		return fmt.Errorf("序列化约束失败: %w", err)
	}

	query := `
		INSERT INTO staff (
			id, name, role, avatar, raw_constraints, constraints, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.ExecContext(ctx, query,
		staff.ID, staff.Name, staff.Role, staff.Avatar,
		staff.RawConstraints, constraintsJSON, staff.CreatedAt, staff.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建员工失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取员工
func (r *StaffRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	query := `
		SELECT id, name, role, avatar, raw_constraints, constraints, created_at, updated_at
		FROM staff
		WHERE id = $1 AND deleted_at IS NULL
	`

	staff, err := scanStaff(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询员工失败: %w", err)
	}

	return staff, nil
}

// Update 更新员工
func (r *StaffRepository) Update(ctx context.Context, staff *model.Staff) error {
	staff.UpdatedAt = time.Now()

	constraintsJSON, err := json.Marshal(staff.Constraints)
	if err != nil {
		return fmt.Errorf("序列化约束失败: %w", err)
	}

	query := `
		UPDATE staff SET
			name = $2, role = $3, avatar = $4, raw_constraints = $5,
			constraints = $6, updated_at = $7
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		staff.ID, staff.Name, staff.Role, staff.Avatar,
		staff.RawConstraints, constraintsJSON, staff.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("更新员工失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("员工不存在")
	}

	return nil
}

// Delete 软删除员工
func (r *StaffRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE staff SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除员工失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("员工不存在")
	}

	return nil
}

// List 查询员工列表
func (r *StaffRepository) List(ctx context.Context, filter ListFilter) ([]*model.Staff, int, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	conditions = append(conditions, "deleted_at IS NULL")

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM staff WHERE %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("查询总数失败: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, role, avatar, raw_constraints, constraints, created_at, updated_at
		FROM staff
		WHERE %s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询列表失败: %w", err)
	}
	defer rows.Close()

	var staffList []*model.Staff
	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("扫描行失败: %w", err)
		}
		staffList = append(staffList, staff)
	}

	return staffList, total, nil
}

// ListAll 获取全部员工（求解用）
func (r *StaffRepository) ListAll(ctx context.Context) ([]*model.Staff, error) {
	staffList, _, err := r.List(ctx, DefaultListFilter().WithLimit(1000))
	return staffList, err
}

// scanStaff 从行扫描员工
func scanStaff(row Scanner) (*model.Staff, error) {
	staff := &model.Staff{}
	var constraintsJSON []byte
	err := row.Scan(
		&staff.ID, &staff.Name, &staff.Role, &staff.Avatar,
		&staff.RawConstraints, &constraintsJSON, &staff.CreatedAt, &staff.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(constraintsJSON) > 0 {
		if err := json.Unmarshal(constraintsJSON, &staff.Constraints); err != nil {
			return nil, fmt.Errorf("解析约束失败: %w", err)
		}
	}
	return staff, nil
}
