// SPDX-License-Identifier: MIT

package producer

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrEmptyIndex indicates an Index was built from zero keys.
	ErrEmptyIndex = errors.New("producer: index is empty")

	// ErrDuplicateKey indicates the same (region, sector) pair appeared twice.
	ErrDuplicateKey = errors.New("producer: duplicate key")
)

// Index is an immutable ordered set of producer keys.
//   - keys preserves construction order (the table axis order).
//   - pos maps each key to its position in keys.
type Index struct {
	keys []Key
	pos  map[Key]int
}

// NewIndex builds an Index over keys in the given order.
// Implementation:
//   - Stage 1: reject empty input.
//   - Stage 2: copy keys and register positions, rejecting the first duplicate.
//
// Errors:
//   - ErrEmptyIndex, ErrDuplicateKey (wrapped with the offending key and positions).
//
// Complexity:
//   - Time O(n), Space O(n).
func NewIndex(keys []Key) (*Index, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyIndex
	}
	idx := &Index{
		keys: make([]Key, len(keys)),
		pos:  make(map[Key]int, len(keys)),
	}
	copy(idx.keys, keys)
	for i, k := range idx.keys {
		if prev, ok := idx.pos[k]; ok {
			return nil, fmt.Errorf("producer: key %s at positions %d and %d: %w", k, prev, i, ErrDuplicateKey)
		}
		idx.pos[k] = i
	}

	return idx, nil
}

// MustIndex is NewIndex that panics on error. Intended for tests and literals.
func MustIndex(keys ...Key) *Index {
	idx, err := NewIndex(keys)
	if err != nil {
		panic(err)
	}

	return idx
}

// Len returns the number of keys.
func (x *Index) Len() int { return len(x.keys) }

// At returns the key at position i. Panics when i is out of range, like a slice.
func (x *Index) At(i int) Key { return x.keys[i] }

// Position returns the position of k and whether it is present.
func (x *Index) Position(k Key) (int, bool) {
	i, ok := x.pos[k]
	return i, ok
}

// Contains reports whether k is present.
func (x *Index) Contains(k Key) bool {
	_, ok := x.pos[k]
	return ok
}

// Keys returns a copy of the keys in index order.
func (x *Index) Keys() []Key {
	out := make([]Key, len(x.keys))
	copy(out, x.keys)

	return out
}

// Equal reports whether both indexes hold the same keys in the same order.
func (x *Index) Equal(o *Index) bool {
	if x == nil || o == nil {
		return x == o
	}
	if len(x.keys) != len(o.keys) {
		return false
	}
	for i := range x.keys {
		if x.keys[i] != o.keys[i] {
			return false
		}
	}

	return true
}

// RegionMask returns mask[i] = (At(i).Region == region).
// Complexity: Time O(n), Space O(n).
func (x *Index) RegionMask(region string) []bool {
	mask := make([]bool, len(x.keys))
	for i, k := range x.keys {
		mask[i] = k.Region == region
	}

	return mask
}

// Regions returns the sorted distinct regions.
func (x *Index) Regions() []string {
	return x.distinct(func(k Key) string { return k.Region })
}

// Sectors returns the sorted distinct sectors.
func (x *Index) Sectors() []string {
	return x.distinct(func(k Key) string { return k.Sector })
}

func (x *Index) distinct(field func(Key) string) []string {
	seen := make(map[string]struct{}, len(x.keys))
	out := make([]string, 0, len(x.keys))
	for _, k := range x.keys {
		v := field(k)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)

	return out
}

// Missing returns, in this index's order, the keys absent from other,
// stopping after limit keys (limit <= 0 means no limit), plus the total
// number of absent keys.
// Complexity: Time O(n), Space O(min(n, limit)).
func (x *Index) Missing(other *Index, limit int) (sample []Key, total int) {
	for _, k := range x.keys {
		if other != nil && other.Contains(k) {
			continue
		}
		total++
		if limit <= 0 || len(sample) < limit {
			sample = append(sample, k)
		}
	}

	return sample, total
}
