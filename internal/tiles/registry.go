package tiles

import (
	"image/color"

	"dungeonfloor/internal/grid"
	"dungeonfloor/internal/logger"

	"github.com/sirupsen/logrus"
)

// Classification is the semantic category of a registered floor tile.
type Classification int

const (
	Room Classification = iota
	Hallway
	Overlap // a second registration landed on an occupied cell
)

func (c Classification) String() string {
	switch c {
	case Room:
		return "room"
	case Hallway:
		return "hallway"
	case Overlap:
		return "overlap"
	default:
		return "unknown"
	}
}

// DefaultOverlapColor tags tiles that were registered more than once.
var DefaultOverlapColor = color.RGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}

// Record is the metadata kept for one registered cell.
type Record struct {
	Position       grid.Coord
	Color          color.RGBA
	Classification Classification
}

// RegisterStats reports what a Register call did, cell by cell.
type RegisterStats struct {
	Added      int
	Overlapped int
	Skipped    int // excluded cells
}

// Registry maps canonical grid keys to tile records and owns the
// exclusion set consulted on registration and at render time.
//
// A Registry is not safe for concurrent use; floor.Manager serializes
// access to it.
type Registry struct {
	records      map[grid.Key]Record
	excluded     *grid.ExclusionSet
	overlapColor color.RGBA
}

// NewRegistry creates an empty registry that paints overlaps with overlapColor.
func NewRegistry(overlapColor color.RGBA) *Registry {
	return &Registry{
		records:      make(map[grid.Key]Record),
		excluded:     grid.NewExclusionSet(),
		overlapColor: overlapColor,
	}
}

// OverlapColor returns the color written into overlapping records.
func (r *Registry) OverlapColor() color.RGBA {
	return r.overlapColor
}

// SetExcluded replaces the exclusion set. Existing records are kept but
// will not be materialized while excluded.
func (r *Registry) SetExcluded(coords []grid.Coord) {
	r.excluded.Replace(coords)
	logger.For("registry").WithField("excluded", r.excluded.Len()).Debug("exclusion set replaced")
}

// IsExcluded reports whether key is in the exclusion set.
func (r *Registry) IsExcluded(key grid.Key) bool {
	return r.excluded.Contains(key)
}

// Excluded returns the excluded keys in canonical order.
func (r *Registry) Excluded() []grid.Key {
	return r.excluded.Keys()
}

// Register records coords under the given color and classification.
//
// Excluded cells are skipped. A cell that already holds a record, from an
// earlier call or earlier in the same batch, becomes Overlap with the
// overlap color no matter which classifications were involved. Registering
// the same batch twice therefore turns every cell of it into Overlap.
func (r *Registry) Register(coords []grid.Coord, c color.RGBA, class Classification) RegisterStats {
	var stats RegisterStats
	for _, pos := range coords {
		key := pos.Key()
		if r.excluded.Contains(key) {
			stats.Skipped++
			continue
		}
		if _, occupied := r.records[key]; occupied {
			r.records[key] = Record{Position: pos, Color: r.overlapColor, Classification: Overlap}
			stats.Overlapped++
			continue
		}
		r.records[key] = Record{Position: pos, Color: c, Classification: class}
		stats.Added++
	}

	logger.For("registry").WithFields(logrus.Fields{
		"class":      class.String(),
		"coords":     len(coords),
		"added":      stats.Added,
		"overlapped": stats.Overlapped,
		"skipped":    stats.Skipped,
	}).Debug("cells registered")
	return stats
}

// Unregister removes the records at coords. Missing cells are ignored.
// The exclusion set is not touched. It returns how many records were removed.
func (r *Registry) Unregister(coords []grid.Coord) int {
	removed := 0
	for _, pos := range coords {
		key := pos.Key()
		if _, ok := r.records[key]; ok {
			delete(r.records, key)
			removed++
		}
	}
	return removed
}

// Clear empties both the records and the exclusion set.
func (r *Registry) Clear() {
	r.records = make(map[grid.Key]Record)
	r.excluded.Clear()
}

// Lookup returns the record registered at pos.
func (r *Registry) Lookup(pos grid.Coord) (Record, bool) {
	rec, ok := r.records[pos.Key()]
	return rec, ok
}

// Len returns the number of records, excluded ones included.
func (r *Registry) Len() int {
	return len(r.records)
}

// Coordinates returns every registered position in canonical key order,
// regardless of exclusion or classification.
func (r *Registry) Coordinates() []grid.Coord {
	coords := make([]grid.Coord, 0, len(r.records))
	r.Each(func(rec Record) {
		coords = append(coords, rec.Position)
	})
	return coords
}

// Each calls fn for every record in canonical key order.
func (r *Registry) Each(fn func(Record)) {
	for _, k := range r.sortedKeys() {
		fn(r.records[k])
	}
}

// EachVisible calls fn for every record that is not excluded, in
// canonical key order.
func (r *Registry) EachVisible(fn func(Record)) {
	for _, k := range r.sortedKeys() {
		if r.excluded.Contains(k) {
			continue
		}
		fn(r.records[k])
	}
}

func (r *Registry) sortedKeys() []grid.Key {
	keys := make([]grid.Key, 0, len(r.records))
	for k := range r.records {
		keys = append(keys, k)
	}
	grid.SortKeys(keys)
	return keys
}
