package render

import (
	"fmt"
	"time"

	"dungeonfloor/internal/logger"
	"dungeonfloor/internal/tiles"

	"github.com/sirupsen/logrus"
)

// Options control placement of materialized cubes.
type Options struct {
	TileSize       float64
	VerticalOffset float64
}

// DefaultOptions places unit cubes resting on y = 0.
func DefaultOptions() Options {
	return Options{TileSize: 1, VerticalOffset: 0}
}

func (o Options) normalized() Options {
	if o.TileSize <= 0 {
		o.TileSize = 1
	}
	return o
}

// Placement returns where the cube for grid cell (gx, gy) is centered.
func (o Options) Placement(gx, gy int) Vec3 {
	return Vec3{
		X: float64(gx) * o.TileSize,
		Y: o.VerticalOffset + o.TileSize/2,
		Z: float64(gy) * o.TileSize,
	}
}

// Summary describes one materialization pass.
type Summary struct {
	Surface  SurfaceID
	Rooms    int
	Hallways int
	Overlaps int
	Excluded int // records kept in the registry but not drawn
	Duration time.Duration
}

// Total is the number of drawables produced.
func (s Summary) Total() int {
	return s.Rooms + s.Hallways + s.Overlaps
}

type surfaceEntry struct {
	surface   Surface
	container *Container
}

// Materializer converts registry records into drawables, one container
// per surface. Containers are created lazily, attached once, and refilled
// on every pass.
type Materializer struct {
	registry *tiles.Registry
	paints   PaintProvider
	factory  DrawableFactory
	counter  Counter
	surfaces map[SurfaceID]*surfaceEntry
	log      *logrus.Entry
}

// NewMaterializer wires a materializer to a registry and backend. counter
// may be nil.
func NewMaterializer(registry *tiles.Registry, paints PaintProvider, factory DrawableFactory, counter Counter) *Materializer {
	return &Materializer{
		registry: registry,
		paints:   paints,
		factory:  factory,
		counter:  counter,
		surfaces: make(map[SurfaceID]*surfaceEntry),
		log:      logger.For("materializer"),
	}
}

// Materialize rebuilds the container of surface from the registry.
//
// Paints are resolved before the container is touched, so a provider
// failure returns an error and leaves the previous pass in place.
func (m *Materializer) Materialize(surface Surface, opts Options) (*Container, Summary, error) {
	start := time.Now()
	opts = opts.normalized()
	id := surface.SurfaceID()
	summary := Summary{Surface: id}

	var visible []tiles.Record
	m.registry.EachVisible(func(rec tiles.Record) {
		visible = append(visible, rec)
	})
	summary.Excluded = m.registry.Len() - len(visible)

	paints := make(map[MaterialTag]Paint, 2)
	for _, rec := range visible {
		tag := MaterialFor(rec.Classification)
		if _, ok := paints[tag]; ok {
			continue
		}
		p, err := m.paints.ResolvePaint(tag)
		if err != nil {
			return nil, Summary{Surface: id}, fmt.Errorf("resolve paint %q for surface %s: %w", tag, id, err)
		}
		paints[tag] = p
	}

	entry := m.entryFor(surface)

	var drawables []Drawable
	if len(visible) > 0 {
		drawables = make([]Drawable, 0, len(visible))
		geom := m.factory.NewCubeGeometry(opts.TileSize)
		shadows := Shadows{Cast: true, Receive: true}
		for _, rec := range visible {
			paint := paints[MaterialFor(rec.Classification)]
			pos := opts.Placement(rec.Position.X, rec.Position.Y)
			drawables = append(drawables, m.factory.NewDrawable(geom, paint, pos, shadows))

			switch rec.Classification {
			case tiles.Room:
				summary.Rooms++
			case tiles.Hallway:
				summary.Hallways++
			case tiles.Overlap:
				summary.Overlaps++
			}
		}
	}
	entry.container.replace(drawables)

	summary.Duration = time.Since(start)
	if m.counter != nil {
		m.counter.ObserveMaterialize(summary)
	}
	m.log.WithFields(logrus.Fields{
		"surface":  id,
		"rooms":    summary.Rooms,
		"hallways": summary.Hallways,
		"overlaps": summary.Overlaps,
		"excluded": summary.Excluded,
	}).Debug("materialized floor")

	return entry.container, summary, nil
}

// Container returns the container already created for id, if any.
func (m *Materializer) Container(id SurfaceID) (*Container, bool) {
	entry, ok := m.surfaces[id]
	if !ok {
		return nil, false
	}
	return entry.container, true
}

// Surfaces returns how many surfaces currently have a container.
func (m *Materializer) Surfaces() int {
	return len(m.surfaces)
}

func (m *Materializer) entryFor(surface Surface) *surfaceEntry {
	id := surface.SurfaceID()
	if entry, ok := m.surfaces[id]; ok {
		return entry
	}
	entry := &surfaceEntry{surface: surface, container: newContainer(id)}
	m.surfaces[id] = entry
	surface.Attach(entry.container)
	m.log.WithField("surface", id).Debug("container attached")
	return entry
}
