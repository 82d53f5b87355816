package attendance

import (
	"errors"
	"fmt"
	"time"

	"rollcall/internal/domain/roster"
)

// DateLayout is the calendar date format used for keys and display.
const DateLayout = "2006-01-02"

// Status is a student's attendance for one date.
type Status string

// Status values. The string form is what gets persisted and exported.
const (
	Present Status = "Present"
	Absent  Status = "Absent"
)

// Domain errors
var (
	ErrInvalidStatus = errors.New("status must be 'Present' or 'Absent'")
	ErrInvalidDate   = errors.New("date must be in YYYY-MM-DD format")
	ErrUnknownRoll   = errors.New("roll number is not on the roster")
)

// ParseStatus converts user or stored input into a Status.
// PRE: none
// POST: returns ErrInvalidStatus for anything other than Present/Absent
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case Present, Absent:
		return Status(s), nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidStatus)
}

// Flip returns the opposite status.
func (s Status) Flip() Status {
	if s == Present {
		return Absent
	}
	return Present
}

// CSSClass returns the lower-case class name used by the card renderer.
func (s Status) CSSClass() string {
	if s == Absent {
		return "absent"
	}
	return "present"
}

// ParseDate validates a YYYY-MM-DD date string.
// PRE: none
// POST: returns the canonical form of the date or ErrInvalidDate
func ParseDate(s string) (string, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%q: %w", s, ErrInvalidDate)
	}
	return d.Format(DateLayout), nil
}

// Map holds roll -> status for one calendar date.
// A roll missing from the map reads as Present.
type Map map[int]Status

// Complete builds a map covering every roster member, taking saved values
// where present and valid and defaulting the rest to Present.
// PRE: r is a valid roster
// POST: len(result) == len(r); rolls not on the roster are dropped
func Complete(r roster.Roster, saved map[int]Status) Map {
	m := make(Map, len(r))
	for _, s := range r {
		st, ok := saved[s.Roll]
		if !ok || (st != Present && st != Absent) {
			st = Present
		}
		m[s.Roll] = st
	}
	return m
}

// Get returns the status of roll, defaulting to Present.
func (m Map) Get(roll int) Status {
	if st, ok := m[roll]; ok {
		return st
	}
	return Present
}

// SetStatus sets a single roll. Returns false when the roll is not in the map
// or the status is already that value.
// PRE: m was built by Complete
// POST: m[roll] == status when true is returned
func (m Map) SetStatus(roll int, status Status) bool {
	cur, ok := m[roll]
	if !ok || cur == status {
		return false
	}
	m[roll] = status
	return true
}

// Toggle flips a single roll and returns its new status.
// PRE: m was built by Complete
// POST: m[roll] flipped, or ErrUnknownRoll
func (m Map) Toggle(roll int) (Status, error) {
	cur, ok := m[roll]
	if !ok {
		return "", fmt.Errorf("roll %d: %w", roll, ErrUnknownRoll)
	}
	m[roll] = cur.Flip()
	return m[roll], nil
}

// SetAll marks every roll with status.
func (m Map) SetAll(status Status) {
	for roll := range m {
		m[roll] = status
	}
}

// Invert flips every roll.
// INVARIANT: Invert applied twice restores the original map
func (m Map) Invert() {
	for roll, st := range m {
		m[roll] = st.Flip()
	}
}

// Counts summarises the map over the given roster.
// INVARIANT: present + absent == len(r)
func (m Map) Counts(r roster.Roster) (present, absent int) {
	for _, s := range r {
		if m.Get(s.Roll) == Absent {
			absent++
		} else {
			present++
		}
	}
	return present, absent
}
