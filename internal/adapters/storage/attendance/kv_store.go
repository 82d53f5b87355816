package attendance

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"rollcall/internal/adapters/storage/kv"
	domain "rollcall/internal/domain/attendance"
)

// KVStore implements Store as a JSON object {"<roll>":"Present"|"Absent"} per date.
type KVStore struct {
	kv kv.Store
}

// NewKVStore creates an attendance store over a key-value store.
func NewKVStore(store kv.Store) *KVStore {
	return &KVStore{kv: store}
}

// Load decodes the map saved for date.
// Entries with a non-numeric roll, a non-string value, or an unknown status are skipped.
// POST: returns kv.ErrNotFound when nothing was saved for date, ErrCorrupt
// when the value is not a JSON object
func (s *KVStore) Load(ctx context.Context, date string) (map[int]domain.Status, error) {
	raw, err := s.kv.Get(ctx, Key(date))
	if err != nil {
		return nil, err
	}
	var stored map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", date, ErrCorrupt, err)
	}
	out := make(map[int]domain.Status, len(stored))
	for k, v := range stored {
		roll, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		var text string
		if err := json.Unmarshal(v, &text); err != nil {
			continue
		}
		st, err := domain.ParseStatus(text)
		if err != nil {
			continue
		}
		out[roll] = st
	}
	return out, nil
}

// Save writes m under date, overwriting any previous map. No merge.
// PRE: date is a valid YYYY-MM-DD string
func (s *KVStore) Save(ctx context.Context, date string, m domain.Map) error {
	if _, err := domain.ParseDate(date); err != nil {
		return err
	}
	stored := make(map[string]string, len(m))
	for roll, st := range m {
		stored[strconv.Itoa(roll)] = string(st)
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, Key(date), string(raw))
}

// ListDates returns every date with a saved map, newest first.
func (s *KVStore) ListDates(ctx context.Context) ([]string, error) {
	keys, err := s.kv.Keys(ctx, KeyPrefix)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(keys))
	for _, k := range keys {
		d := strings.TrimPrefix(k, KeyPrefix)
		if _, err := domain.ParseDate(d); err == nil {
			dates = append(dates, d)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}
