package projections

import (
	"rollcall/internal/application/session"
	"rollcall/internal/domain/export"
)

// BuildSheet snapshots the full roster for export, ignoring the search filter.
// PRE: s was built by session.New
// POST: one row per roster member in roster order; s is not modified
// INVARIANT: sheet.Present + sheet.Absent == len(sheet.Rows)
func BuildSheet(s *session.State) export.Sheet {
	rows := make([]export.Row, 0, len(s.Roster))
	for _, st := range s.Roster {
		rows = append(rows, export.Row{
			Roll:   st.Roll,
			Name:   st.Name,
			Status: string(s.Attendance.Get(st.Roll)),
		})
	}
	present, absent := s.Counts()
	return export.Sheet{
		Section: s.Section,
		Subject: s.Subject,
		Date:    s.Date,
		Rows:    rows,
		Present: present,
		Absent:  absent,
	}
}
