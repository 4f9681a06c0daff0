package grid

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Coord is a cell position on the world grid.
type Coord struct {
	X, Y int
}

// C is shorthand for Coord{X: x, Y: y}.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// Key returns the canonical key for this coordinate.
func (c Coord) Key() Key {
	return KeyOf(c.X, c.Y)
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Key is the canonical registry key of a grid coordinate.
// Two keys are equal exactly when their coordinates are equal, and keys
// order by X first, then Y.
type Key struct {
	x, y int
}

// KeyOf builds the canonical key for (x, y).
func KeyOf(x, y int) Key {
	return Key{x: x, y: y}
}

// Coord converts the key back into the coordinate it was built from.
func (k Key) Coord() Coord {
	return Coord{X: k.x, Y: k.y}
}

// String renders the key as "x,y".
func (k Key) String() string {
	return strconv.Itoa(k.x) + "," + strconv.Itoa(k.y)
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Key{}, fmt.Errorf("invalid grid key %q: missing separator", s)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return Key{}, fmt.Errorf("invalid grid key %q: %w", s, err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return Key{}, fmt.Errorf("invalid grid key %q: %w", s, err)
	}
	return KeyOf(x, y), nil
}

// Compare orders keys by X, then Y. It returns -1, 0 or +1.
func Compare(a, b Key) int {
	if c := cmp.Compare(a.x, b.x); c != 0 {
		return c
	}
	return cmp.Compare(a.y, b.y)
}
