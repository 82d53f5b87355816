package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"rollcall/internal/adapters/storage/kv"
	"rollcall/internal/domain/attendance"
	"rollcall/internal/domain/roster"
)

// AttendanceStore defines the per-date attendance persistence.
type AttendanceStore interface {
	Load(ctx context.Context, date string) (map[int]attendance.Status, error)
	Save(ctx context.Context, date string, m attendance.Map) error
	ListDates(ctx context.Context) ([]string, error)
}

// LoadAttendanceInput carries input for the load attendance orchestrator.
type LoadAttendanceInput struct {
	Date   string
	Roster roster.Roster
}

// LoadAttendanceDeps holds dependencies for LoadAttendance.
type LoadAttendanceDeps struct {
	AttendanceStore AttendanceStore
}

// ExecuteLoadAttendance returns the complete map for a date.
// PRE: Roster is valid
// POST: result covers every roster member, even when an error is returned
// POST: a date with nothing saved is not an error
func ExecuteLoadAttendance(ctx context.Context, input LoadAttendanceInput, deps LoadAttendanceDeps) (attendance.Map, error) {
	date, err := attendance.ParseDate(input.Date)
	if err != nil {
		return attendance.Complete(input.Roster, nil), err
	}

	saved, err := deps.AttendanceStore.Load(ctx, date)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return attendance.Complete(input.Roster, nil), nil
		}
		slog.Warn("attendance_event", "event", "attendance_load_failed", "date", date, "error", err)
		return attendance.Complete(input.Roster, nil), fmt.Errorf("load attendance %s: %w", date, err)
	}
	return attendance.Complete(input.Roster, saved), nil
}

// SaveAttendanceInput carries input for the save attendance orchestrator.
type SaveAttendanceInput struct {
	Date       string
	Roster     roster.Roster
	Attendance attendance.Map
}

// SaveAttendanceDeps holds dependencies for SaveAttendance.
type SaveAttendanceDeps struct {
	AttendanceStore AttendanceStore
}

// ExecuteSaveAttendance persists the map for a date, replacing any previous save.
// PRE: Date is YYYY-MM-DD
// POST: a later ExecuteLoadAttendance for Date returns an identical map
func ExecuteSaveAttendance(ctx context.Context, input SaveAttendanceInput, deps SaveAttendanceDeps) error {
	date, err := attendance.ParseDate(input.Date)
	if err != nil {
		return err
	}

	m := attendance.Complete(input.Roster, input.Attendance)
	if err := deps.AttendanceStore.Save(ctx, date, m); err != nil {
		return fmt.Errorf("save attendance %s: %w", date, err)
	}

	present, absent := m.Counts(input.Roster)
	slog.Info("attendance_event", "event", "attendance_saved", "date", date, "present", present, "absent", absent)
	return nil
}

// ListSavedDatesDeps holds dependencies for ListSavedDates.
type ListSavedDatesDeps struct {
	AttendanceStore AttendanceStore
}

// ExecuteListSavedDates returns every date with saved attendance, newest first.
// POST: returns an empty slice rather than nil when nothing is saved
func ExecuteListSavedDates(ctx context.Context, deps ListSavedDatesDeps) ([]string, error) {
	dates, err := deps.AttendanceStore.ListDates(ctx)
	if err != nil {
		return []string{}, fmt.Errorf("list saved dates: %w", err)
	}
	if dates == nil {
		dates = []string{}
	}
	return dates, nil
}
