package render

import (
	"errors"
	"fmt"
)

type fakeSurface struct {
	id       SurfaceID
	attached []*Container
	attaches int
	detaches int
}

func newFakeSurface(id string) *fakeSurface {
	return &fakeSurface{id: SurfaceID(id)}
}

func (s *fakeSurface) SurfaceID() SurfaceID { return s.id }

func (s *fakeSurface) Attach(c *Container) {
	s.attaches++
	s.attached = append(s.attached, c)
}

func (s *fakeSurface) Detach(c *Container) {
	for i, a := range s.attached {
		if a == c {
			s.detaches++
			s.attached = append(s.attached[:i], s.attached[i+1:]...)
			return
		}
	}
}

type fakePaint struct {
	tag      MaterialTag
	releases int
}

func (p *fakePaint) Tag() MaterialTag { return p.tag }
func (p *fakePaint) Release()         { p.releases++ }

type fakeProvider struct {
	paints   map[MaterialTag]*fakePaint
	failOn   MaterialTag
	resolved int
}

var errNoTexture = errors.New("texture missing")

func newFakeProvider() *fakeProvider {
	return &fakeProvider{paints: make(map[MaterialTag]*fakePaint)}
}

func (p *fakeProvider) ResolvePaint(tag MaterialTag) (Paint, error) {
	p.resolved++
	if tag == p.failOn {
		return nil, fmt.Errorf("load %s: %w", tag, errNoTexture)
	}
	if paint, ok := p.paints[tag]; ok {
		return paint, nil
	}
	paint := &fakePaint{tag: tag}
	p.paints[tag] = paint
	return paint, nil
}

type fakeGeometry struct {
	size     float64
	releases int
}

func (g *fakeGeometry) Size() float64 { return g.size }
func (g *fakeGeometry) Release()      { g.releases++ }

type fakeDrawable struct {
	geom    Geometry
	paint   Paint
	pos     Vec3
	shadows Shadows
}

func (d *fakeDrawable) Geometry() Geometry { return d.geom }
func (d *fakeDrawable) Paint() Paint       { return d.paint }
func (d *fakeDrawable) Position() Vec3     { return d.pos }
func (d *fakeDrawable) Shadows() Shadows   { return d.shadows }

type fakeFactory struct {
	geometries []*fakeGeometry
}

func (f *fakeFactory) NewCubeGeometry(size float64) Geometry {
	g := &fakeGeometry{size: size}
	f.geometries = append(f.geometries, g)
	return g
}

func (f *fakeFactory) NewDrawable(geom Geometry, paint Paint, pos Vec3, shadows Shadows) Drawable {
	return &fakeDrawable{geom: geom, paint: paint, pos: pos, shadows: shadows}
}

type fakeCounter struct {
	summaries []Summary
}

func (c *fakeCounter) ObserveMaterialize(s Summary) {
	c.summaries = append(c.summaries, s)
}
