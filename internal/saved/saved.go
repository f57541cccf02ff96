package saved

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/farmhub/client-go/internal/kvstore"
)

const storeKey = "saved_products"

// Set is the locally persisted collection of product ids the user marked
// for later. Every mutation rewrites the whole list; there is a single
// local writer, so last-write-wins is acceptable and partial updates are
// not.
type Set struct {
	kv kvstore.Store
}

func NewSet(kv kvstore.Store) *Set {
	return &Set{kv: kv}
}

// List returns the saved ids in stored order. An unparseable stored value
// reads as an empty set.
func (s *Set) List(ctx context.Context) ([]string, error) {
	raw, err := s.kv.Get(ctx, storeKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read saved products: %w", err)
	}
	var ids []string
	if jsonErr := json.Unmarshal([]byte(raw), &ids); jsonErr != nil {
		return nil, nil
	}
	return ids, nil
}

// Toggle flips membership of id and returns the new state. The whole list
// is read, modified and written back; if the write fails the previous
// state stands and the caller must not assume the flip happened.
func (s *Set) Toggle(ctx context.Context, id string) (bool, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return false, err
	}

	next := make([]string, 0, len(ids)+1)
	removed := false
	for _, existing := range ids {
		if existing == id {
			removed = true
			continue
		}
		next = append(next, existing)
	}
	if !removed {
		next = append(next, id)
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return false, fmt.Errorf("encode saved products: %w", err)
	}
	if err := s.kv.Put(ctx, storeKey, string(raw)); err != nil {
		return false, fmt.Errorf("persist saved products: %w", err)
	}
	return !removed, nil
}

// Contains reports membership without mutating.
func (s *Set) Contains(ctx context.Context, id string) (bool, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	for _, existing := range ids {
		if existing == id {
			return true, nil
		}
	}
	return false, nil
}
