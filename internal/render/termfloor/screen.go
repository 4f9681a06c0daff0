package termfloor

import (
	"math"
	"slices"
	"sync"

	"dungeonfloor/internal/render"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
)

// Screen is a render surface backed by a tcell screen.
type Screen struct {
	id         render.SurfaceID
	screen     tcell.Screen
	mutex      sync.Mutex
	containers []*render.Container
}

// NewScreen wraps an initialized tcell screen.
func NewScreen(screen tcell.Screen) *Screen {
	return &Screen{id: render.SurfaceID(uuid.NewString()), screen: screen}
}

func (s *Screen) SurfaceID() render.SurfaceID { return s.id }

func (s *Screen) Attach(c *render.Container) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !slices.Contains(s.containers, c) {
		s.containers = append(s.containers, c)
	}
}

func (s *Screen) Detach(c *render.Container) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if i := slices.Index(s.containers, c); i >= 0 {
		s.containers = slices.Delete(s.containers, i, i+1)
	}
}

// Containers returns how many containers are attached.
func (s *Screen) Containers() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.containers)
}

// Draw writes every attached cell to the screen, with grid cell
// (originX, originY) in the top-left corner. Cells outside the screen are
// skipped. It does not call Show. It returns the number of cells written.
func (s *Screen) Draw(originX, originY int) int {
	s.mutex.Lock()
	containers := slices.Clone(s.containers)
	s.mutex.Unlock()

	width, height := s.screen.Size()
	drawn := 0
	for _, c := range containers {
		c.Each(func(d render.Drawable) {
			paint, ok := d.Paint().(*GlyphPaint)
			if !ok {
				return
			}
			gx, gy := gridCell(d)
			x, y := gx-originX, gy-originY
			if x < 0 || y < 0 || x >= width || y >= height {
				return
			}
			glyph, style := paint.Glyph()
			s.screen.SetContent(x, y, glyph, nil, style)
			drawn++
		})
	}
	return drawn
}

// gridCell recovers the grid cell from a drawable's world position.
func gridCell(d render.Drawable) (int, int) {
	size := d.Geometry().Size()
	if size <= 0 {
		size = 1
	}
	pos := d.Position()
	return int(math.Round(pos.X / size)), int(math.Round(pos.Z / size))
}
