package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"sort"
	"time"

	"rollcall/internal/adapters/storage/kv"
	"rollcall/internal/domain/attendance"
	"rollcall/internal/domain/export"
	"rollcall/internal/domain/roster"
	"rollcall/internal/domain/theme"
)

var errStorage = errors.New("disk unavailable")

var fixedTime = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// mockRosterStore implements RosterStore for testing.
type mockRosterStore struct {
	roster  roster.Roster
	loadErr error
	saveErr error
	saves   int
}

func (m *mockRosterStore) Load(_ context.Context) (roster.Roster, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.roster == nil {
		return nil, fmt.Errorf("roster: %w", kv.ErrNotFound)
	}
	return m.roster, nil
}

func (m *mockRosterStore) Save(_ context.Context, r roster.Roster) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.roster = r
	return nil
}

// mockAttendanceStore implements AttendanceStore for testing.
type mockAttendanceStore struct {
	maps    map[string]map[int]attendance.Status
	loadErr error
	saveErr error
}

func newMockAttendanceStore() *mockAttendanceStore {
	return &mockAttendanceStore{maps: make(map[string]map[int]attendance.Status)}
}

func (m *mockAttendanceStore) Load(_ context.Context, date string) (map[int]attendance.Status, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	saved, ok := m.maps[date]
	if !ok {
		return nil, fmt.Errorf("%s: %w", date, kv.ErrNotFound)
	}
	out := make(map[int]attendance.Status, len(saved))
	for k, v := range saved {
		out[k] = v
	}
	return out, nil
}

func (m *mockAttendanceStore) Save(_ context.Context, date string, am attendance.Map) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.maps[date] = maps.Clone(am)
	return nil
}

func (m *mockAttendanceStore) ListDates(_ context.Context) ([]string, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	var dates []string
	for d := range m.maps {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// mockThemeStore implements ThemeStore for testing.
type mockThemeStore struct {
	theme   theme.Theme
	loadErr error
	saveErr error
}

func (m *mockThemeStore) Load(_ context.Context) (theme.Theme, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	if m.theme == "" {
		return theme.Default, nil
	}
	return m.theme, nil
}

func (m *mockThemeStore) Save(_ context.Context, t theme.Theme) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.theme = t
	return nil
}

// stubWriter implements SheetWriter by printing one line per row.
type stubWriter struct {
	format string
	err    error
}

func (w stubWriter) Format() string      { return w.format }
func (w stubWriter) ContentType() string { return "text/plain" }

func (w stubWriter) Write(out io.Writer, s export.Sheet) error {
	for i, r := range s.Rows {
		if w.err != nil && i == 1 {
			return w.err
		}
		fmt.Fprintf(out, "%d %s\n", r.Roll, r.Status)
	}
	return nil
}
