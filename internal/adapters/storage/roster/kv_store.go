package roster

import (
	"context"
	"encoding/json"
	"fmt"

	"rollcall/internal/adapters/storage/kv"
	domain "rollcall/internal/domain/roster"
)

// KVStore implements Store as a JSON array under Key.
type KVStore struct {
	kv kv.Store
}

// NewKVStore creates a roster store over a key-value store.
func NewKVStore(store kv.Store) *KVStore {
	return &KVStore{kv: store}
}

// Load decodes the stored roster.
// POST: returns kv.ErrNotFound when nothing was stored, ErrCorrupt when the
// value does not decode to a valid roster
func (s *KVStore) Load(ctx context.Context) (domain.Roster, error) {
	raw, err := s.kv.Get(ctx, Key)
	if err != nil {
		return nil, err
	}
	var r domain.Roster
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return r, nil
}

// Save writes the roster, replacing any stored value.
// PRE: r is valid
func (s *KVStore) Save(ctx context.Context, r domain.Roster) error {
	if err := r.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, Key, string(raw))
}
