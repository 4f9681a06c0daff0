package ebitenfloor

import (
	"slices"
	"sync"

	"dungeonfloor/internal/render"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
)

// Camera positions the view in world units.
type Camera struct {
	X, Y float64 // world point drawn at the screen origin
	Zoom float64
}

// Scene is a render surface that draws its attached containers.
type Scene struct {
	id            render.SurfaceID
	mutex         sync.Mutex
	containers    []*render.Container
	pixelsPerUnit float64
	shadowOffset  float64 // pixels at zoom 1
}

// NewScene creates a scene with a fresh identifier.
func NewScene(pixelsPerUnit float64) *Scene {
	if pixelsPerUnit <= 0 {
		pixelsPerUnit = 16
	}
	return &Scene{
		id:            render.SurfaceID(uuid.NewString()),
		pixelsPerUnit: pixelsPerUnit,
		shadowOffset:  pixelsPerUnit / 8,
	}
}

func (s *Scene) SurfaceID() render.SurfaceID { return s.id }

func (s *Scene) Attach(c *render.Container) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !slices.Contains(s.containers, c) {
		s.containers = append(s.containers, c)
	}
}

func (s *Scene) Detach(c *render.Container) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if i := slices.Index(s.containers, c); i >= 0 {
		s.containers = slices.Delete(s.containers, i, i+1)
	}
}

// Containers returns how many containers are attached.
func (s *Scene) Containers() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.containers)
}

// Draw renders every attached cube onto screen, shadows first so no cube
// is covered by its neighbor's shadow. It returns the number of cubes drawn.
func (s *Scene) Draw(screen *ebiten.Image, cam Camera) int {
	cubes := s.cubes()
	zoom := cam.zoom()

	for _, cube := range shadowCasters(cubes) {
		s.drawCube(screen, cube, cam, s.shadowOffset*zoom, true)
	}
	drawn := 0
	for _, cube := range cubes {
		if s.drawCube(screen, cube, cam, 0, false) {
			drawn++
		}
	}
	return drawn
}

func (c Camera) zoom() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// cubes snapshots the cubes of every attached container.
func (s *Scene) cubes() []*Cube {
	s.mutex.Lock()
	containers := slices.Clone(s.containers)
	s.mutex.Unlock()

	var cubes []*Cube
	for _, c := range containers {
		c.Each(func(d render.Drawable) {
			if cube, ok := d.(*Cube); ok {
				cubes = append(cubes, cube)
			}
		})
	}
	return cubes
}

func shadowCasters(cubes []*Cube) []*Cube {
	casters := make([]*Cube, 0, len(cubes))
	for _, cube := range cubes {
		if cube.shadows.Cast {
			casters = append(casters, cube)
		}
	}
	return casters
}

// Project returns the screen rectangle of a cube: top-left corner and
// side length in pixels.
func (s *Scene) Project(cube *Cube, cam Camera) (x, y, side float64) {
	scale := s.pixelsPerUnit * cam.zoom()
	size := cube.geom.Size()
	x = (cube.pos.X - size/2 - cam.X) * scale
	y = (cube.pos.Z - size/2 - cam.Y) * scale
	return x, y, size * scale
}

func (s *Scene) drawCube(screen *ebiten.Image, cube *Cube, cam Camera, offset float64, shadow bool) bool {
	paint, ok := cube.paint.(*TexturePaint)
	if !ok {
		return false
	}
	tex, err := paint.Image()
	if err != nil {
		return false
	}

	px, py, side := s.Project(cube, cam)

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(side/float64(tex.Bounds().Dx()), side/float64(tex.Bounds().Dy()))
	opts.GeoM.Translate(px+offset, py+offset)
	if shadow {
		opts.ColorScale.Scale(0, 0, 0, 0.35)
	}
	screen.DrawImage(tex, opts)
	return true
}
