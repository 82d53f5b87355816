package projections

import (
	"fmt"
	"time"

	"rollcall/internal/application/session"
)

// StudentCard is one tile in the student grid.
type StudentCard struct {
	Roll   int    `json:"roll"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Class  string `json:"class"` // "present" or "absent"
}

// NoticeView is the toast shown above the grid.
type NoticeView struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
}

// View is the declarative description of the attendance screen.
type View struct {
	Date       string   `json:"date"`
	Section    string   `json:"section"`
	Subject    string   `json:"subject"`
	Query      string   `json:"query"`
	Theme      string   `json:"theme"`
	IsDark     bool     `json:"is_dark"`
	ThemeIcon  string   `json:"theme_icon"`
	SavedDates []string `json:"saved_dates"`

	Cards       []StudentCard `json:"cards"`
	Page        int           `json:"page"` // 0-indexed
	PageSize    int           `json:"page_size"`
	TotalPages  int           `json:"total_pages"`
	PageLabel   string        `json:"page_label"`
	PageNumbers []int         `json:"page_numbers"`
	HasPrev     bool          `json:"has_prev"`
	HasNext     bool          `json:"has_next"`

	Shown      int    `json:"shown"`       // filtered roster size
	ShownLabel string `json:"shown_label"` // "N (Absents: A)"
	Present    int    `json:"present"`     // over the full roster
	Absent     int    `json:"absent"`      // over the full roster
	Total      int    `json:"total"`

	Notice *NoticeView `json:"notice,omitempty"`
}

// RenderView projects the state into a View.
// PRE: s was built by session.New
// POST: same state and now always yield an equal View; s is not modified
func RenderView(s *session.State, now time.Time) View {
	info := s.PageInfo()
	visible := s.VisibleStudents()

	cards := make([]StudentCard, 0, len(visible))
	for _, st := range visible {
		status := s.Attendance.Get(st.Roll)
		cards = append(cards, StudentCard{
			Roll:   st.Roll,
			Name:   st.Name,
			Status: string(status),
			Class:  status.CSSClass(),
		})
	}

	present, absent := s.Counts()
	v := View{
		Date:        s.Date,
		Section:     s.Section,
		Subject:     s.Subject,
		Query:       s.Query,
		Theme:       string(s.Theme),
		IsDark:      s.Theme.IsDark(),
		ThemeIcon:   s.Theme.ToggleIcon(),
		SavedDates:  append([]string{}, s.SavedDates...),
		Cards:       cards,
		Page:        info.Page,
		PageSize:    info.PerPage,
		TotalPages:  info.TotalPages,
		PageLabel:   info.Label(),
		PageNumbers: info.PageNumbers(),
		HasPrev:     info.HasPrev(),
		HasNext:     info.HasNext(),
		Shown:       len(s.Filtered),
		ShownLabel:  fmt.Sprintf("%d (Absents: %d)", len(s.Filtered), absent),
		Present:     present,
		Absent:      absent,
		Total:       len(s.Roster),
	}
	if n, ok := s.ActiveNotice(now); ok {
		v.Notice = &NoticeView{Text: n.Text, Kind: n.Kind}
	}
	return v
}
