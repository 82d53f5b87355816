package roster

import (
	"context"
	"errors"

	domain "rollcall/internal/domain/roster"
)

// Key is the storage key holding the serialized roster.
const Key = "roster"

// ErrCorrupt is returned when the stored roster cannot be decoded or is invalid.
var ErrCorrupt = errors.New("stored roster is unreadable")

// Store persists the roster.
type Store interface {
	Load(ctx context.Context) (domain.Roster, error)
	Save(ctx context.Context, r domain.Roster) error
}
