package roster

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultStudentCount is the size of the synthetic roster generated on first run.
const DefaultStudentCount = 80

// MaxNameLength bounds the display name of a student.
const MaxNameLength = 100

// Domain errors
var (
	ErrEmptyRoster   = errors.New("roster must contain at least one student")
	ErrDuplicateRoll = errors.New("roll numbers must be unique")
	ErrInvalidRoll   = errors.New("roll number must be positive")
)

// Student is a single roster entry. Roll is the stable identity.
type Student struct {
	Roll int    `json:"roll"`
	Name string `json:"name"`
}

// Validate checks if the Student has valid data.
// PRE: none
// POST: Returns error if validation fails, nil otherwise
func (s Student) Validate() error {
	if s.Roll <= 0 {
		return fmt.Errorf("roll %d: %w", s.Roll, ErrInvalidRoll)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("roll %d: student name cannot be empty", s.Roll)
	}
	if len(s.Name) > MaxNameLength {
		return fmt.Errorf("roll %d: student name cannot exceed %d characters", s.Roll, MaxNameLength)
	}
	return nil
}

// RollString returns the decimal form of the roll number used for searching.
func (s Student) RollString() string {
	return strconv.Itoa(s.Roll)
}

// Roster is the ordered set of students.
type Roster []Student

// Validate checks the roster invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
// INVARIANT: non-empty, every student valid, rolls unique
func (r Roster) Validate() error {
	if len(r) == 0 {
		return ErrEmptyRoster
	}
	seen := make(map[int]bool, len(r))
	for _, s := range r {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.Roll] {
			return fmt.Errorf("roll %d: %w", s.Roll, ErrDuplicateRoll)
		}
		seen[s.Roll] = true
	}
	return nil
}

// Rolls returns the roll numbers in roster order.
func (r Roster) Rolls() []int {
	rolls := make([]int, len(r))
	for i, s := range r {
		rolls[i] = s.Roll
	}
	return rolls
}

// IndexOf returns the position of roll in the roster, or -1.
func (r Roster) IndexOf(roll int) int {
	for i, s := range r {
		if s.Roll == roll {
			return i
		}
	}
	return -1
}

// Contains reports whether roll belongs to the roster.
func (r Roster) Contains(roll int) bool {
	return r.IndexOf(roll) >= 0
}

// FilterByRoll returns the students whose decimal roll contains query.
// An empty (or all-space) query returns a copy of the full roster.
// PRE: none
// POST: result preserves roster order; the receiver is not modified
func (r Roster) FilterByRoll(query string) Roster {
	query = strings.TrimSpace(query)
	out := make(Roster, 0, len(r))
	for _, s := range r {
		if query == "" || strings.Contains(s.RollString(), query) {
			out = append(out, s)
		}
	}
	return out
}

// Generate builds the sequential default roster: rolls 1..n named "Student <roll>".
// PRE: n > 0 (values below 1 fall back to DefaultStudentCount)
// POST: returns a valid roster of n students
func Generate(n int) Roster {
	if n < 1 {
		n = DefaultStudentCount
	}
	r := make(Roster, n)
	for i := range r {
		r[i] = Student{Roll: i + 1, Name: fmt.Sprintf("Student %d", i+1)}
	}
	return r
}
