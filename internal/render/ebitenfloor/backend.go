// Package ebitenfloor draws materialized floors with ebiten: cubes are
// projected top-down onto the screen with a cast-shadow offset.
package ebitenfloor

import (
	"fmt"
	"image/color"

	"dungeonfloor/internal/config"
	"dungeonfloor/internal/graphics"
	"dungeonfloor/internal/logger"
	"dungeonfloor/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

// TexturePaint fills a cube with the texture of one material. The image is
// looked up on every draw, so a paint released by one surface is rebuilt
// for the others.
type TexturePaint struct {
	tag      render.MaterialTag
	textures *graphics.TextureManager
}

func (p *TexturePaint) Tag() render.MaterialTag { return p.tag }

// Image returns the current texture.
func (p *TexturePaint) Image() (*ebiten.Image, error) {
	return p.textures.GetTexture(string(p.tag))
}

// Release frees the GPU texture. Repeated calls are no-ops.
func (p *TexturePaint) Release() {
	p.textures.Release(string(p.tag))
}

// TextureProvider resolves material tags through a TextureManager.
type TextureProvider struct {
	textures *graphics.TextureManager
}

// NewTextureProvider wraps an already configured manager.
func NewTextureProvider(textures *graphics.TextureManager) *TextureProvider {
	return &TextureProvider{textures: textures}
}

// NewTextureProviderFromConfig sets up textures for both floor materials
// from the materials and atlas blocks of cfg. A missing atlas is logged
// and the per-material files or placeholders are used instead.
func NewTextureProviderFromConfig(cfg *config.Config) *TextureProvider {
	textures := graphics.NewTextureManager(int(cfg.GetPixelsPerUnit()))

	if cfg.Atlas.File != "" {
		cols, rows := cfg.GetAtlasGrid()
		if err := textures.LoadAtlas(cfg.Atlas.File, cols, rows); err != nil {
			logger.For("ebitenfloor").WithError(err).Warn("texture atlas unavailable, using material files")
		}
	}

	fallback := map[render.MaterialTag]color.RGBA{
		render.RoomFloor:    cfg.GetRoomColor(),
		render.HallwayFloor: cfg.GetHallwayColor(),
	}
	for tag, base := range fallback {
		mc := cfg.GetMaterial(string(tag))
		src := graphics.TextureSource{AtlasIndex: -1, File: mc.Texture, Placeholder: base}
		if mc.AtlasIndex != nil {
			src.AtlasIndex = *mc.AtlasIndex
		}
		if mc.Color != [3]int{} {
			src.Placeholder = config.RGB(mc.Color)
		}
		textures.SetSource(string(tag), src)
	}
	return NewTextureProvider(textures)
}

// ResolvePaint builds the texture up front so load failures surface here
// rather than mid-draw.
func (p *TextureProvider) ResolvePaint(tag render.MaterialTag) (render.Paint, error) {
	if _, err := p.textures.GetTexture(string(tag)); err != nil {
		return nil, fmt.Errorf("resolve %s texture: %w", tag, err)
	}
	logger.For("ebitenfloor").WithFields(logrus.Fields{
		"material": tag,
		"source":   p.textures.Kind(string(tag)),
	}).Debug("paint resolved")
	return &TexturePaint{tag: tag, textures: p.textures}, nil
}

// Close frees every texture the provider handed out.
func (p *TextureProvider) Close() {
	p.textures.ReleaseAll()
}

// CubeGeometry is the shared cube shape of one pass. Releasing it only
// marks it; the cube has no GPU buffers of its own.
type CubeGeometry struct {
	size     float64
	released bool
}

func (g *CubeGeometry) Size() float64 { return g.size }
func (g *CubeGeometry) Release()      { g.released = true }

// Released reports whether the geometry was released.
func (g *CubeGeometry) Released() bool { return g.released }

// Cube is one positioned floor cube.
type Cube struct {
	geom    render.Geometry
	paint   render.Paint
	pos     render.Vec3
	shadows render.Shadows
}

func (c *Cube) Geometry() render.Geometry { return c.geom }
func (c *Cube) Paint() render.Paint       { return c.paint }
func (c *Cube) Position() render.Vec3     { return c.pos }
func (c *Cube) Shadows() render.Shadows   { return c.shadows }

// CubeFactory builds cubes for a Scene.
type CubeFactory struct{}

func (CubeFactory) NewCubeGeometry(size float64) render.Geometry {
	return &CubeGeometry{size: size}
}

func (CubeFactory) NewDrawable(geom render.Geometry, paint render.Paint, pos render.Vec3, shadows render.Shadows) render.Drawable {
	return &Cube{geom: geom, paint: paint, pos: pos, shadows: shadows}
}
