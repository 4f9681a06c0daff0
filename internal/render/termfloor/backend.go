// Package termfloor draws materialized floors in a terminal with tcell,
// one character cell per grid cell.
package termfloor

import (
	"fmt"
	"image/color"
	"unicode/utf8"

	"dungeonfloor/internal/config"
	"dungeonfloor/internal/render"

	"github.com/gdamore/tcell/v2"
)

// GlyphPaint fills a cell with a styled rune.
type GlyphPaint struct {
	tag      render.MaterialTag
	glyph    rune
	style    tcell.Style
	released bool
}

func (p *GlyphPaint) Tag() render.MaterialTag { return p.tag }
func (p *GlyphPaint) Release()                { p.released = true }

// Glyph returns the rune and style the paint draws with.
func (p *GlyphPaint) Glyph() (rune, tcell.Style) { return p.glyph, p.style }

// Released reports whether the paint was released.
func (p *GlyphPaint) Released() bool { return p.released }

type glyphSpec struct {
	glyph rune
	style tcell.Style
}

// GlyphProvider maps material tags to glyph paints.
type GlyphProvider struct {
	specs map[render.MaterialTag]glyphSpec
}

// NewGlyphProvider reads glyphs and colors for both floor materials from
// cfg. Materials without a glyph use '.' for rooms and '#' for hallways.
func NewGlyphProvider(cfg *config.Config) *GlyphProvider {
	defaults := map[render.MaterialTag]struct {
		glyph rune
		color color.RGBA
	}{
		render.RoomFloor:    {'.', cfg.GetRoomColor()},
		render.HallwayFloor: {'#', cfg.GetHallwayColor()},
	}

	p := &GlyphProvider{specs: make(map[render.MaterialTag]glyphSpec, len(defaults))}
	for tag, d := range defaults {
		mc := cfg.GetMaterial(string(tag))
		glyph, fg := d.glyph, d.color
		if r, _ := utf8.DecodeRuneInString(mc.Glyph); r != utf8.RuneError {
			glyph = r
		}
		if mc.Color != [3]int{} {
			fg = config.RGB(mc.Color)
		}
		p.specs[tag] = glyphSpec{glyph: glyph, style: Style(fg)}
	}
	return p
}

// Style is the tcell style of a cell drawn in c.
func Style(c color.RGBA) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))).
		Background(tcell.ColorBlack)
}

func (p *GlyphProvider) ResolvePaint(tag render.MaterialTag) (render.Paint, error) {
	spec, ok := p.specs[tag]
	if !ok {
		return nil, fmt.Errorf("no glyph for material %q", tag)
	}
	return &GlyphPaint{tag: tag, glyph: spec.glyph, style: spec.style}, nil
}

// CellGeometry is one terminal cell, sized in world units.
type CellGeometry struct {
	size     float64
	released bool
}

func (g *CellGeometry) Size() float64 { return g.size }
func (g *CellGeometry) Release()      { g.released = true }

// Cell is one positioned floor cell.
type Cell struct {
	geom    render.Geometry
	paint   render.Paint
	pos     render.Vec3
	shadows render.Shadows
}

func (c *Cell) Geometry() render.Geometry { return c.geom }
func (c *Cell) Paint() render.Paint       { return c.paint }
func (c *Cell) Position() render.Vec3     { return c.pos }
func (c *Cell) Shadows() render.Shadows   { return c.shadows }

// CellFactory builds cells for a Screen.
type CellFactory struct{}

func (CellFactory) NewCubeGeometry(size float64) render.Geometry {
	return &CellGeometry{size: size}
}

func (CellFactory) NewDrawable(geom render.Geometry, paint render.Paint, pos render.Vec3, shadows render.Shadows) render.Drawable {
	return &Cell{geom: geom, paint: paint, pos: pos, shadows: shadows}
}
