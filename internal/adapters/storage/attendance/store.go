package attendance

import (
	"context"
	"errors"

	domain "rollcall/internal/domain/attendance"
)

// KeyPrefix starts every per-date attendance key: attendance_<YYYY-MM-DD>.
const KeyPrefix = "attendance_"

// ErrCorrupt is returned when a stored map cannot be decoded.
var ErrCorrupt = errors.New("stored attendance is unreadable")

// Key returns the storage key for date.
func Key(date string) string {
	return KeyPrefix + date
}

// Store persists one attendance map per date.
type Store interface {
	Load(ctx context.Context, date string) (map[int]domain.Status, error)
	Save(ctx context.Context, date string, m domain.Map) error
	ListDates(ctx context.Context) ([]string, error)
}
