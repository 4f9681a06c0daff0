// Package raster turns rectangles and thick line segments into grid cells.
package raster

import (
	"math"

	"dungeonfloor/internal/grid"
	"dungeonfloor/internal/mathutil"

	"gonum.org/v1/gonum/spatial/r2"
)

// AreaCoordinates enumerates every cell of the inclusive rectangle spanned
// by (startX, startY) and (endX, endY), x-major. Both ranges are walked
// upwards as given: if start > end on either axis the result is empty.
func AreaCoordinates(startX, startY, endX, endY int) []grid.Coord {
	if startX > endX || startY > endY {
		return nil
	}
	coords := make([]grid.Coord, 0, areaCapacity(startX, startY, endX, endY))
	// break before incrementing so end == math.MaxInt terminates
	for x := startX; ; x++ {
		for y := startY; ; y++ {
			coords = append(coords, grid.C(x, y))
			if y == endY {
				break
			}
		}
		if x == endX {
			break
		}
	}
	return coords
}

// maxAreaPrealloc bounds the up-front allocation of AreaCoordinates.
// Larger rectangles grow by append.
const maxAreaPrealloc = 1 << 16

func areaCapacity(startX, startY, endX, endY int) int {
	// unsigned differences stay exact when end-start overflows int
	w, h := uint64(endX)-uint64(startX), uint64(endY)-uint64(startY)
	if w >= maxAreaPrealloc || h >= maxAreaPrealloc {
		return maxAreaPrealloc
	}
	return int(min((w+1)*(h+1), maxAreaPrealloc))
}

// PathCoordinates approximates the segment from start to end with a band
// of cells width wide, centered on the segment. The result holds no
// duplicates and keeps first-occurrence order. A width below 1 is treated
// as 1; equal endpoints yield the single rounded start cell.
func PathCoordinates(startX, startY, endX, endY float64, width int) []grid.Coord {
	start := r2.Vec{X: startX, Y: startY}
	end := r2.Vec{X: endX, Y: endY}
	if start == end {
		return []grid.Coord{roundCell(start)}
	}
	width = mathutil.IntMax(width, 1)

	delta := r2.Sub(end, start)
	dir := r2.Unit(delta)
	perp := r2.Vec{X: -dir.Y, Y: dir.X}

	steps := int(math.Ceil(r2.Norm(delta))) + 1
	half := width / 2

	coords := make([]grid.Coord, 0, steps*width)
	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps-1)
		center := r2.Add(start, r2.Scale(t, delta))
		for w := 0; w < width; w++ {
			offset := float64(w - half)
			coords = append(coords, roundCell(r2.Add(center, r2.Scale(offset, perp))))
		}
	}
	return grid.Dedup(coords)
}

// LShapedCorridor joins two cells with a horizontal leg followed by a
// vertical leg, each rasterized with PathCoordinates.
func LShapedCorridor(from, to grid.Coord, width int) []grid.Coord {
	corner := grid.C(to.X, from.Y)
	legs := PathCoordinates(float64(from.X), float64(from.Y), float64(corner.X), float64(corner.Y), width)
	legs = append(legs, PathCoordinates(float64(corner.X), float64(corner.Y), float64(to.X), float64(to.Y), width)...)
	return grid.Dedup(legs)
}

func roundCell(v r2.Vec) grid.Coord {
	return grid.C(mathutil.RoundHalfUp(v.X), mathutil.RoundHalfUp(v.Y))
}
