package theme

import (
	"context"

	domain "rollcall/internal/domain/theme"
)

// Key is the storage key holding the theme preference.
const Key = "theme"

// Store persists the theme preference.
type Store interface {
	Load(ctx context.Context) (domain.Theme, error)
	Save(ctx context.Context, t domain.Theme) error
}
