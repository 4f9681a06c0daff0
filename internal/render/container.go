package render

import "sync"

// Container owns the drawables materialized for one surface. Surfaces may
// read it from their draw loop while the next pass refills it.
type Container struct {
	mutex     sync.RWMutex
	surface   SurfaceID
	drawables []Drawable
}

func newContainer(id SurfaceID) *Container {
	return &Container{surface: id}
}

// Surface returns the id of the surface this container belongs to.
func (c *Container) Surface() SurfaceID {
	return c.surface
}

// Len returns the number of drawables.
func (c *Container) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.drawables)
}

// Drawables returns a copy of the current drawable list.
func (c *Container) Drawables() []Drawable {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	out := make([]Drawable, len(c.drawables))
	copy(out, c.drawables)
	return out
}

// Each calls fn for every drawable in materialization order. fn sees one
// complete pass, never a half-filled one.
func (c *Container) Each(fn func(Drawable)) {
	c.mutex.RLock()
	drawables := c.drawables
	c.mutex.RUnlock()

	for _, d := range drawables {
		fn(d)
	}
}

// replace swaps in the drawables of a new pass and frees the geometry of
// the previous one. Paints stay with the provider, which hands the same
// ones out next pass.
func (c *Container) replace(next []Drawable) {
	c.mutex.Lock()
	prev := c.drawables
	c.drawables = next
	c.mutex.Unlock()

	for _, d := range prev {
		d.Geometry().Release()
	}
}

// release frees geometry and paint of every drawable and empties the container.
func (c *Container) release() {
	c.mutex.Lock()
	prev := c.drawables
	c.drawables = nil
	c.mutex.Unlock()

	for _, d := range prev {
		d.Geometry().Release()
		d.Paint().Release()
	}
}
