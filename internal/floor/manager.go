// Package floor exposes the floor-tile subsystem to level generation and
// game-loop code: one Manager owns the registry, the exclusion set and the
// surface containers of a session.
package floor

import (
	"image/color"
	"sync"

	"dungeonfloor/internal/grid"
	"dungeonfloor/internal/logger"
	"dungeonfloor/internal/raster"
	"dungeonfloor/internal/render"
	"dungeonfloor/internal/tiles"

	"github.com/sirupsen/logrus"
)

// Backend bundles the capabilities a render engine provides.
type Backend struct {
	Paints  render.PaintProvider
	Factory render.DrawableFactory
}

// Option customizes a Manager.
type Option func(*settings)

type settings struct {
	overlapColor color.RGBA
	counter      render.Counter
}

// WithOverlapColor sets the color recorded for overlapping tiles.
func WithOverlapColor(c color.RGBA) Option {
	return func(s *settings) { s.overlapColor = c }
}

// WithCounter sends every materialization summary to c.
func WithCounter(c render.Counter) Option {
	return func(s *settings) { s.counter = c }
}

// Manager is safe for concurrent use. Every method runs to completion
// under one lock, so calls are applied in the order they acquire it.
type Manager struct {
	mu           sync.Mutex
	registry     *tiles.Registry
	materializer *render.Materializer
	log          *logrus.Entry
}

// NewManager creates an empty subsystem drawing through backend.
func NewManager(backend Backend, opts ...Option) *Manager {
	s := settings{overlapColor: tiles.DefaultOverlapColor}
	for _, opt := range opts {
		opt(&s)
	}

	registry := tiles.NewRegistry(s.overlapColor)
	return &Manager{
		registry:     registry,
		materializer: render.NewMaterializer(registry, backend.Paints, backend.Factory, s.counter),
		log:          logger.For("floor"),
	}
}

// ClearRegistry drops every tile record and every exclusion.
func (m *Manager) ClearRegistry() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry.Clear()
}

// SetExcludedCoordinates replaces the exclusion set with coords.
func (m *Manager) SetExcludedCoordinates(coords []grid.Coord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry.SetExcluded(coords)
}

// ExcludedCoordinates returns the current exclusion set in canonical key
// order. Excluded cells need not be registered.
func (m *Manager) ExcludedCoordinates() []grid.Coord {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := m.registry.Excluded()
	coords := make([]grid.Coord, len(keys))
	for i, k := range keys {
		coords[i] = k.Coord()
	}
	return coords
}

// IsExcluded reports whether pos is kept out of rendering.
func (m *Manager) IsExcluded(pos grid.Coord) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registry.IsExcluded(pos.Key())
}

// UnregisterCoordinates removes records without touching exclusions.
func (m *Manager) UnregisterCoordinates(coords []grid.Coord) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registry.Unregister(coords)
}

// AllCoordinates returns a snapshot of every registered cell, excluded
// ones included, in canonical key order.
func (m *Manager) AllCoordinates() []grid.Coord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registry.Coordinates()
}

// Lookup returns the record at pos.
func (m *Manager) Lookup(pos grid.Coord) (tiles.Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registry.Lookup(pos)
}

// RegisterCubes records coords with the given color and classification.
func (m *Manager) RegisterCubes(coords []grid.Coord, c color.RGBA, class tiles.Classification) tiles.RegisterStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registry.Register(coords, c, class)
}

// RenderAllCubes materializes the registry onto surface. A nil opts uses
// render.DefaultOptions.
func (m *Manager) RenderAllCubes(surface render.Surface, opts *render.Options) (*render.Container, render.Summary, error) {
	o := render.DefaultOptions()
	if opts != nil {
		o = *opts
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.materializer.Materialize(surface, o)
}

// ReleaseSurface frees the container of one surface.
func (m *Manager) ReleaseSurface(id render.SurfaceID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.materializer.Release(id)
}

// AreaCoordinates is raster.AreaCoordinates.
func (m *Manager) AreaCoordinates(x0, y0, x1, y1 int) []grid.Coord {
	return raster.AreaCoordinates(x0, y0, x1, y1)
}

// PathCoordinates is raster.PathCoordinates. Widths below 1 draw a
// single-cell path.
func (m *Manager) PathCoordinates(x0, y0, x1, y1 float64, width int) []grid.Coord {
	return raster.PathCoordinates(x0, y0, x1, y1, width)
}

// Dispose returns the subsystem to its initial empty state. It is safe to
// call more than once and the Manager stays usable afterwards.
func (m *Manager) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()

	records, surfaces := m.registry.Len(), m.materializer.Surfaces()
	m.registry.Clear()
	m.materializer.Dispose()
	if records > 0 || surfaces > 0 {
		m.log.WithFields(logrus.Fields{
			"records":  records,
			"surfaces": surfaces,
		}).Info("floor disposed")
	}
}
