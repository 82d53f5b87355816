package theme

import (
	"context"
	"errors"

	"rollcall/internal/adapters/storage/kv"
	domain "rollcall/internal/domain/theme"
)

// KVStore implements Store as a bare string under Key.
type KVStore struct {
	kv kv.Store
}

// NewKVStore creates a theme store over a key-value store.
func NewKVStore(store kv.Store) *KVStore {
	return &KVStore{kv: store}
}

// Load returns the stored theme, or domain.Default when none is stored.
// Unrecognised values also read as the default.
func (s *KVStore) Load(ctx context.Context) (domain.Theme, error) {
	raw, err := s.kv.Get(ctx, Key)
	if errors.Is(err, kv.ErrNotFound) {
		return domain.Default, nil
	}
	if err != nil {
		return domain.Default, err
	}
	return domain.Parse(raw), nil
}

// Save writes the theme preference.
func (s *KVStore) Save(ctx context.Context, t domain.Theme) error {
	return s.kv.Set(ctx, Key, string(domain.Parse(string(t))))
}
