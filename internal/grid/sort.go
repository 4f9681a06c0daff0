package grid

import "slices"

// SortKeys sorts keys in place into canonical order.
func SortKeys(keys []Key) {
	slices.SortFunc(keys, Compare)
}

// Dedup removes repeated coordinates, keeping the first occurrence of each.
func Dedup(coords []Coord) []Coord {
	seen := make(map[Key]struct{}, len(coords))
	out := coords[:0:0]
	for _, c := range coords {
		k := c.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out
}
