package floor

import (
	"image/color"
	"sync"
	"testing"

	"dungeonfloor/internal/grid"
	"dungeonfloor/internal/render"
	"dungeonfloor/internal/tiles"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	roomColor    = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	hallwayColor = color.RGBA{R: 139, G: 115, B: 85, A: 255}
)

type stubSurface struct {
	id       render.SurfaceID
	attached int
}

func (s *stubSurface) SurfaceID() render.SurfaceID { return s.id }
func (s *stubSurface) Attach(*render.Container)    { s.attached++ }
func (s *stubSurface) Detach(*render.Container) {
	if s.attached > 0 {
		s.attached--
	}
}

type stubPaint struct {
	tag      render.MaterialTag
	released int
}

func (p *stubPaint) Tag() render.MaterialTag { return p.tag }
func (p *stubPaint) Release()                { p.released++ }

type stubGeometry struct{ size float64 }

func (g *stubGeometry) Size() float64 { return g.size }
func (g *stubGeometry) Release()      {}

type stubDrawable struct {
	geom  render.Geometry
	paint render.Paint
	pos   render.Vec3
}

func (d *stubDrawable) Geometry() render.Geometry { return d.geom }
func (d *stubDrawable) Paint() render.Paint       { return d.paint }
func (d *stubDrawable) Position() render.Vec3     { return d.pos }
func (d *stubDrawable) Shadows() render.Shadows   { return render.Shadows{Cast: true, Receive: true} }

type stubBackend struct{}

func (stubBackend) ResolvePaint(tag render.MaterialTag) (render.Paint, error) {
	return &stubPaint{tag: tag}, nil
}

func (stubBackend) NewCubeGeometry(size float64) render.Geometry {
	return &stubGeometry{size: size}
}

func (stubBackend) NewDrawable(geom render.Geometry, paint render.Paint, pos render.Vec3, _ render.Shadows) render.Drawable {
	return &stubDrawable{geom: geom, paint: paint, pos: pos}
}

func newManager(opts ...Option) *Manager {
	return NewManager(Backend{Paints: stubBackend{}, Factory: stubBackend{}}, opts...)
}

func TestRoomThenHallwayBecomesOverlap(t *testing.T) {
	for _, order := range []string{"room-first", "hallway-first"} {
		t.Run(order, func(t *testing.T) {
			m := newManager()
			c := []grid.Coord{grid.C(4, -2)}
			if order == "room-first" {
				m.RegisterCubes(c, roomColor, tiles.Room)
				m.RegisterCubes(c, hallwayColor, tiles.Hallway)
			} else {
				m.RegisterCubes(c, hallwayColor, tiles.Hallway)
				m.RegisterCubes(c, roomColor, tiles.Room)
			}

			rec, ok := m.Lookup(c[0])
			require.True(t, ok)
			assert.Equal(t, tiles.Overlap, rec.Classification)
			assert.Equal(t, tiles.DefaultOverlapColor, rec.Color)
		})
	}
}

func TestCustomOverlapColor(t *testing.T) {
	magenta := color.RGBA{R: 255, B: 255, A: 255}
	m := newManager(WithOverlapColor(magenta))
	c := []grid.Coord{grid.C(0, 0), grid.C(0, 0)}
	m.RegisterCubes(c, roomColor, tiles.Room)

	rec, _ := m.Lookup(grid.C(0, 0))
	assert.Equal(t, magenta, rec.Color)
}

func TestExcludedCellsAreNeverRegistered(t *testing.T) {
	m := newManager()
	m.SetExcludedCoordinates([]grid.Coord{grid.C(1, 1)})

	stats := m.RegisterCubes(m.AreaCoordinates(0, 0, 2, 2), roomColor, tiles.Room)
	assert.Equal(t, 8, stats.Added)
	assert.Equal(t, 1, stats.Skipped)

	_, ok := m.Lookup(grid.C(1, 1))
	assert.False(t, ok)
}

func TestExcludedCoordinates(t *testing.T) {
	m := newManager()
	m.RegisterCubes([]grid.Coord{grid.C(0, 0)}, roomColor, tiles.Room)
	m.SetExcludedCoordinates([]grid.Coord{grid.C(4, 1), grid.C(0, 0), grid.C(-2, 3)})

	want := []grid.Coord{grid.C(-2, 3), grid.C(0, 0), grid.C(4, 1)}
	if diff := cmp.Diff(want, m.ExcludedCoordinates()); diff != "" {
		t.Errorf("Excluded mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, m.IsExcluded(grid.C(0, 0)))
	assert.False(t, m.IsExcluded(grid.C(1, 0)))

	m.SetExcludedCoordinates(nil)
	assert.Empty(t, m.ExcludedCoordinates())
}

func TestClearRegistry(t *testing.T) {
	m := newManager()
	m.RegisterCubes(m.AreaCoordinates(0, 0, 3, 3), roomColor, tiles.Room)
	m.SetExcludedCoordinates([]grid.Coord{grid.C(9, 9)})

	m.ClearRegistry()
	assert.Empty(t, m.AllCoordinates())

	// the exclusion went with it
	m.RegisterCubes([]grid.Coord{grid.C(9, 9)}, roomColor, tiles.Room)
	assert.Len(t, m.AllCoordinates(), 1)
}

func TestUnregisterKeepsExclusions(t *testing.T) {
	m := newManager()
	m.RegisterCubes([]grid.Coord{grid.C(0, 0), grid.C(1, 0)}, roomColor, tiles.Room)
	m.SetExcludedCoordinates([]grid.Coord{grid.C(1, 0)})

	assert.Equal(t, 2, m.UnregisterCoordinates([]grid.Coord{grid.C(0, 0), grid.C(1, 0), grid.C(5, 5)}))
	assert.Empty(t, m.AllCoordinates())

	stats := m.RegisterCubes([]grid.Coord{grid.C(1, 0)}, roomColor, tiles.Room)
	assert.Equal(t, 1, stats.Skipped)
}

func TestCoordinateHelpers(t *testing.T) {
	m := newManager()

	if diff := cmp.Diff([]grid.Coord{{X: 0, Y: 0}}, m.PathCoordinates(0, 0, 0, 0, 1)); diff != "" {
		t.Errorf("degenerate path mismatch (-want +got):\n%s", diff)
	}

	want := []grid.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	if diff := cmp.Diff(want, m.PathCoordinates(0, 0, 3, 0, 1)); diff != "" {
		t.Errorf("horizontal path mismatch (-want +got):\n%s", diff)
	}

	area := []grid.Coord{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}, {X: 2, Y: 1}}
	if diff := cmp.Diff(area, m.AreaCoordinates(0, 0, 2, 1)); diff != "" {
		t.Errorf("area mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderAllCubesIsNotCumulative(t *testing.T) {
	m := newManager()
	m.RegisterCubes(m.AreaCoordinates(0, 0, 4, 4), roomColor, tiles.Room)
	surface := &stubSurface{id: "main"}

	first, _, err := m.RenderAllCubes(surface, nil)
	require.NoError(t, err)
	assert.Equal(t, 25, first.Len())

	second, summary, err := m.RenderAllCubes(surface, nil)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 25, second.Len())
	assert.Equal(t, 25, summary.Rooms)
	assert.Equal(t, 1, surface.attached)
}

func TestRenderAllCubesOptions(t *testing.T) {
	m := newManager()
	m.RegisterCubes([]grid.Coord{grid.C(2, 3)}, hallwayColor, tiles.Hallway)

	c, _, err := m.RenderAllCubes(&stubSurface{id: "scaled"}, &render.Options{TileSize: 2, VerticalOffset: 1})
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	d := c.Drawables()[0]
	assert.Equal(t, render.Vec3{X: 4, Y: 2, Z: 6}, d.Position())
	assert.Equal(t, 2.0, d.Geometry().Size())
	assert.Equal(t, render.HallwayFloor, d.Paint().Tag())
}

func TestDisposeThenFreshSurface(t *testing.T) {
	m := newManager()
	m.RegisterCubes(m.AreaCoordinates(0, 0, 2, 2), roomColor, tiles.Room)
	m.SetExcludedCoordinates([]grid.Coord{grid.C(7, 7)})
	old := &stubSurface{id: "old"}
	container, _, err := m.RenderAllCubes(old, nil)
	require.NoError(t, err)
	paint := container.Drawables()[0].Paint().(*stubPaint)

	m.Dispose()
	m.Dispose()

	assert.Zero(t, old.attached)
	assert.Positive(t, paint.released)
	assert.Empty(t, m.AllCoordinates())

	fresh := &stubSurface{id: "fresh"}
	c, summary, err := m.RenderAllCubes(fresh, nil)
	require.NoError(t, err)
	assert.Zero(t, c.Len())
	assert.Zero(t, summary.Total())
	assert.Equal(t, 1, fresh.attached)

	// exclusions were reset too
	m.RegisterCubes([]grid.Coord{grid.C(7, 7)}, roomColor, tiles.Room)
	assert.Len(t, m.AllCoordinates(), 1)
}

func TestReleaseSurface(t *testing.T) {
	m := newManager()
	m.RegisterCubes([]grid.Coord{grid.C(0, 0)}, roomColor, tiles.Room)
	a, b := &stubSurface{id: "a"}, &stubSurface{id: "b"}
	_, _, _ = m.RenderAllCubes(a, nil)
	cb, _, _ := m.RenderAllCubes(b, nil)

	m.ReleaseSurface("a")
	m.ReleaseSurface("a")

	assert.Zero(t, a.attached)
	assert.Equal(t, 1, b.attached)
	assert.Equal(t, 1, cb.Len())
	assert.Len(t, m.AllCoordinates(), 1)
}

func TestConcurrentRegistration(t *testing.T) {
	m := newManager()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(row int) {
			defer wg.Done()
			m.RegisterCubes(m.AreaCoordinates(0, row, 9, row), roomColor, tiles.Room)
		}(i)
	}
	wg.Wait()

	assert.Len(t, m.AllCoordinates(), 80)
}

func TestRenderWhileSurfaceReads(t *testing.T) {
	m := newManager()
	m.RegisterCubes(m.AreaCoordinates(0, 0, 9, 9), roomColor, tiles.Room)
	surface := &stubSurface{id: "reader"}
	c, _, err := m.RenderAllCubes(surface, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, _, _ = m.RenderAllCubes(surface, nil)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			n := 0
			c.Each(func(render.Drawable) { n++ })
			// every read sees one whole pass
			if n != 100 {
				t.Errorf("Expected 100 drawables per pass, got %d", n)
				return
			}
			_ = c.Len()
			_ = c.Drawables()
		}
	}()
	wg.Wait()

	assert.Equal(t, 100, c.Len())
	assert.Equal(t, 1, surface.attached)
}
