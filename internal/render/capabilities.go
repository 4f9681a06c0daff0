// Package render materializes the tile registry into drawables attached
// to render surfaces, one container per surface.
//
// The package only knows the capabilities below; concrete engines live in
// subpackages (ebitenfloor, termfloor).
package render

import "dungeonfloor/internal/tiles"

// SurfaceID identifies a render surface. Containers are keyed by it, not
// by the surface value.
type SurfaceID string

// Surface is a target a container can be attached to.
type Surface interface {
	SurfaceID() SurfaceID
	Attach(c *Container)
	// Detach must be a no-op for a container that is not attached.
	Detach(c *Container)
}

// MaterialTag names a paint the provider knows how to build.
type MaterialTag string

const (
	RoomFloor    MaterialTag = "room-floor"
	HallwayFloor MaterialTag = "hallway-floor"
)

// MaterialFor picks the paint for a classification. Overlaps render as
// hallway floor; their distinct color only lives in the registry.
func MaterialFor(c tiles.Classification) MaterialTag {
	if c == tiles.Room {
		return RoomFloor
	}
	return HallwayFloor
}

// Releasable resources must tolerate being released more than once.
type Releasable interface {
	Release()
}

// Paint is whatever a backend fills a cube with.
type Paint interface {
	Releasable
	Tag() MaterialTag
}

// Geometry is the shared cube shape of one materialization pass.
type Geometry interface {
	Releasable
	Size() float64
}

// PaintProvider resolves material tags into paints.
type PaintProvider interface {
	ResolvePaint(tag MaterialTag) (Paint, error)
}

// Vec3 is a world-space position. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

// Shadows carries the shadow flags of a drawable.
type Shadows struct {
	Cast    bool
	Receive bool
}

// Drawable is one positioned cube.
type Drawable interface {
	Geometry() Geometry
	Paint() Paint
	Position() Vec3
	Shadows() Shadows
}

// DrawableFactory builds cube geometry and drawables for a backend.
type DrawableFactory interface {
	NewCubeGeometry(size float64) Geometry
	NewDrawable(geom Geometry, paint Paint, pos Vec3, shadows Shadows) Drawable
}

// Counter receives the summary of every materialization pass.
type Counter interface {
	ObserveMaterialize(s Summary)
}
