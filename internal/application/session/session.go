package session

import (
	"strconv"
	"strings"
	"time"

	"rollcall/internal/application/listutil"
	"rollcall/internal/domain/attendance"
	"rollcall/internal/domain/roster"
	"rollcall/internal/domain/theme"
)

// Notice kinds.
const (
	NoticeOK    = "ok"
	NoticeError = "error"
)

// NoticeTTL is how long a notice stays visible.
const NoticeTTL = 3 * time.Second

// Notice messages shared by handlers and tests.
const (
	MsgSaved        = "Attendance saved locally!"
	MsgInverted     = "Selection inverted"
	MsgRollNotFound = "Roll number not found in current filter."
	MsgInvalidDate  = "Please pick a valid date."
	MsgSaveFailed   = "Could not save attendance: storage unavailable."
	MsgLoadFailed   = "Saved attendance could not be read; showing defaults."
)

// Notice is a transient message. A newer notice replaces the current one.
type Notice struct {
	Text      string
	Kind      string
	ExpiresAt time.Time
}

// State is the whole attendance screen: roster, the active date's map, and
// the derived view state. It is not safe for concurrent use; callers serialize.
type State struct {
	Date       string
	Section    string
	Subject    string
	Roster     roster.Roster
	Attendance attendance.Map
	Theme      theme.Theme
	SavedDates []string // dates with stored attendance, newest first

	Query    string
	Filtered roster.Roster
	Page     int
	PageSize int

	Notice Notice
}

// New builds a state for date with the given roster and saved statuses.
// PRE: r is a valid, non-empty roster
// POST: Attendance covers every roster member; Filtered is the full roster; Page is 0
func New(r roster.Roster, date string, saved map[int]attendance.Status, pageSize int) *State {
	if pageSize < 1 {
		pageSize = listutil.DefaultPerPage
	}
	s := &State{
		Date:       date,
		Roster:     r,
		Attendance: attendance.Complete(r, saved),
		Theme:      theme.Default,
		PageSize:   pageSize,
	}
	s.ApplyFilter("")
	return s
}

// ApplyFilter recomputes the filtered roster for query and resets the page.
// POST: Page == 0
func (s *State) ApplyFilter(query string) {
	s.Query = strings.TrimSpace(query)
	s.Filtered = s.Roster.FilterByRoll(s.Query)
	s.Page = 0
}

// LoadDate switches the active date and replaces the attendance map.
// Search and page are kept.
func (s *State) LoadDate(date string, saved map[int]attendance.Status) {
	s.Date = date
	s.Attendance = attendance.Complete(s.Roster, saved)
}

// Toggle flips one student's status.
// PRE: roll is on the roster
// POST: status flipped, or attendance.ErrUnknownRoll
func (s *State) Toggle(roll int) (attendance.Status, error) {
	return s.Attendance.Toggle(roll)
}

// Mark sets one student's status explicitly (the swipe gesture).
// POST: returns true when the status changed
func (s *State) Mark(roll int, status attendance.Status) bool {
	return s.Attendance.SetStatus(roll, status)
}

// SetAll marks every roster member.
func (s *State) SetAll(status attendance.Status, now time.Time) {
	s.Attendance.SetAll(status)
	s.Notify("All students marked as "+string(status), NoticeOK, now)
}

// Invert flips every roster member.
func (s *State) Invert(now time.Time) {
	s.Attendance.Invert()
	s.Notify(MsgInverted, NoticeOK, now)
}

// ChangePage moves by dir pages; moves that would leave the valid range are ignored.
// POST: returns true when the page changed
func (s *State) ChangePage(dir int) bool {
	next := s.Page + dir
	if next < 0 || next >= listutil.PageCount(len(s.Filtered), s.PageSize) {
		return false
	}
	s.Page = next
	return true
}

// GoToPage sets the page, clamped into range.
func (s *State) GoToPage(page int) {
	s.Page = listutil.ClampPage(page, s.PageSize, len(s.Filtered))
}

// JumpTo moves to the page holding the roll typed in input.
// Only the leading digits count ("12a" is roll 12). Input with no leading
// digits is ignored; a roll outside the current filter leaves the page
// unchanged and emits a not-found notice.
// POST: returns true when the roll was found
func (s *State) JumpTo(input string, now time.Time) bool {
	roll, ok := leadingInt(input)
	if !ok {
		return false
	}
	idx := s.Filtered.IndexOf(roll)
	if idx < 0 {
		s.Notify(MsgRollNotFound, NoticeError, now)
		return false
	}
	s.Page = idx / s.PageSize
	return true
}

// SetMeta records the section and subject labels used by exports.
func (s *State) SetMeta(section, subject string) {
	s.Section = strings.TrimSpace(section)
	s.Subject = strings.TrimSpace(subject)
}

// Notify replaces the current notice.
func (s *State) Notify(text, kind string, now time.Time) {
	s.Notice = Notice{Text: text, Kind: kind, ExpiresAt: now.Add(NoticeTTL)}
}

// ActiveNotice returns the current notice if it has not expired.
func (s *State) ActiveNotice(now time.Time) (Notice, bool) {
	if s.Notice.Text == "" || !now.Before(s.Notice.ExpiresAt) {
		return Notice{}, false
	}
	return s.Notice, true
}

// PageInfo returns the pagination metadata for the filtered roster.
func (s *State) PageInfo() listutil.PageInfo {
	return listutil.NewPageInfo(s.Page, s.PageSize, len(s.Filtered))
}

// VisibleStudents returns the current page of the filtered roster.
func (s *State) VisibleStudents() roster.Roster {
	return listutil.Paginate(s.Filtered, s.Page, s.PageSize)
}

// Counts returns present and absent totals over the full roster.
func (s *State) Counts() (present, absent int) {
	return s.Attendance.Counts(s.Roster)
}

// leadingInt parses an optionally signed run of digits at the start of the
// trimmed input, ignoring whatever follows.
func leadingInt(input string) (int, bool) {
	input = strings.TrimSpace(input)
	end := 0
	if end < len(input) && (input[end] == '+' || input[end] == '-') {
		end++
	}
	digits := end
	for end < len(input) && input[end] >= '0' && input[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(input[:end])
	return n, err == nil
}
