package validator

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/zhibopai/zhibopai/pkg/model"
)

func makeStaff(name string, cm model.ConstraintModel) *model.Staff {
	return &model.Staff{
		BaseModel:   model.NewBaseModel(),
		Name:        name,
		Role:        model.RoleHost,
		Constraints: cm,
	}
}

func makeAssignment(staffID uuid.UUID, date, start, end string) *model.Assignment {
	return &model.Assignment{
		ShiftID:   uuid.New(),
		StaffID:   staffID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	}
}

func TestDetectAll_Overlap(t *testing.T) {
	s := makeStaff("小周", model.ConstraintModel{})
	staffMap := map[uuid.UUID]*model.Staff{s.ID: s}

	assignments := []*model.Assignment{
		makeAssignment(s.ID, "2026-03-02", "06:30", "08:30"),
		makeAssignment(s.ID, "2026-03-02", "08:00", "13:30"),
	}

	conflicts := NewConflictDetector().DetectAll(assignments, staffMap)
	if len(conflicts) != 1 {
		t.Fatalf("应检出1个冲突, got %d", len(conflicts))
	}
	if conflicts[0].Type != ConflictOverlap {
		t.Errorf("冲突类型 = %s, expected %s", conflicts[0].Type, ConflictOverlap)
	}
	if len(conflicts[0].ShiftIDs) != 2 {
		t.Errorf("应关联2个班次, got %d", len(conflicts[0].ShiftIDs))
	}
}

func TestDetectAll_NoConflict(t *testing.T) {
	s := makeStaff("小周", model.ConstraintModel{})
	staffMap := map[uuid.UUID]*model.Staff{s.ID: s}

	assignments := []*model.Assignment{
		makeAssignment(s.ID, "2026-03-02", "06:30", "08:30"),
		makeAssignment(s.ID, "2026-03-02", "08:30", "13:30"),
		makeAssignment(s.ID, "2026-03-03", "06:30", "08:30"),
	}

	if conflicts := NewConflictDetector().DetectAll(assignments, staffMap); len(conflicts) != 0 {
		t.Errorf("不应检出冲突, got %v", conflicts)
	}
}

func TestDetectAll_ExcludedWeekday(t *testing.T) {
	s := makeStaff("小吴", model.ConstraintModel{
		ExcludedWeekdays: []time.Weekday{time.Saturday},
	})
	staffMap := map[uuid.UUID]*model.Staff{s.ID: s}

	// 2026-03-07 是周六
	assignments := []*model.Assignment{
		makeAssignment(s.ID, "2026-03-07", "06:30", "08:30"),
	}

	conflicts := NewConflictDetector().DetectAll(assignments, staffMap)
	if len(conflicts) != 1 || conflicts[0].Type != ConflictExcludedWeekday {
		t.Fatalf("应检出星期排除冲突, got %v", conflicts)
	}
}

func TestDetectAll_OutsideWindow(t *testing.T) {
	s := makeStaff("小郑", model.ConstraintModel{
		Windows: []model.TimeWindow{{Start: "06:00", End: "09:00"}},
	})
	staffMap := map[uuid.UUID]*model.Staff{s.ID: s}

	assignments := []*model.Assignment{
		makeAssignment(s.ID, "2026-03-02", "14:45", "18:30"),
	}

	conflicts := NewConflictDetector().DetectAll(assignments, staffMap)
	if len(conflicts) != 1 || conflicts[0].Type != ConflictOutsideWindow {
		t.Fatalf("应检出窗口冲突, got %v", conflicts)
	}
}

func TestDetectAll_WeeklyCap(t *testing.T) {
	s := makeStaff("小王", model.ConstraintModel{MinShiftsPerWeek: 1, MaxShiftsPerWeek: 2})
	staffMap := map[uuid.UUID]*model.Staff{s.ID: s}

	assignments := []*model.Assignment{
		makeAssignment(s.ID, "2026-03-02", "06:30", "08:30"),
		makeAssignment(s.ID, "2026-03-04", "06:30", "08:30"),
		makeAssignment(s.ID, "2026-03-06", "06:30", "08:30"),
	}

	conflicts := NewConflictDetector().DetectAll(assignments, staffMap)
	found := false
	for _, c := range conflicts {
		if c.Type == ConflictWeeklyCap {
			found = true
		}
	}
	if !found {
		t.Error("应检出7天滚动上限冲突")
	}
}

func TestHasDoubleBooking(t *testing.T) {
	id := uuid.New()

	clean := []*model.Assignment{
		makeAssignment(id, "2026-03-02", "06:30", "08:30"),
		makeAssignment(id, "2026-03-02", "08:30", "13:30"),
	}
	if c := HasDoubleBooking(clean); c != nil {
		t.Errorf("无重叠不应返回冲突: %v", c)
	}

	booked := append(clean, makeAssignment(id, "2026-03-02", "07:00", "09:00"))
	if c := HasDoubleBooking(booked); c == nil {
		t.Error("存在重叠应返回冲突")
	}
}
