package grid

import "github.com/zyedidia/generic/mapset"

// ExclusionSet holds keys of cells that must never be materialized,
// such as cells reserved for stairs.
type ExclusionSet struct {
	keys mapset.Set[Key]
}

// NewExclusionSet creates an empty exclusion set.
func NewExclusionSet() *ExclusionSet {
	return &ExclusionSet{keys: mapset.New[Key]()}
}

// Replace discards the current contents and excludes exactly coords.
func (s *ExclusionSet) Replace(coords []Coord) {
	keys := mapset.New[Key]()
	for _, c := range coords {
		keys.Put(c.Key())
	}
	s.keys = keys
}

// Contains reports whether key is excluded.
func (s *ExclusionSet) Contains(key Key) bool {
	return s.keys.Has(key)
}

// Len returns the number of excluded keys.
func (s *ExclusionSet) Len() int {
	return s.keys.Size()
}

// Clear empties the set.
func (s *ExclusionSet) Clear() {
	s.keys = mapset.New[Key]()
}

// Keys returns the excluded keys in canonical order.
func (s *ExclusionSet) Keys() []Key {
	keys := make([]Key, 0, s.keys.Size())
	s.keys.Each(func(k Key) {
		keys = append(keys, k)
	})
	SortKeys(keys)
	return keys
}
