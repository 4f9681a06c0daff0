package graphics

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultTextureSize is the edge length textures are normalized to.
const DefaultTextureSize = 32

// TextureSource describes where the texture for one material comes from.
// Sources are tried in order: atlas cell, PNG file, solid placeholder.
type TextureSource struct {
	AtlasIndex  int // -1 when the material has no atlas cell
	File        string
	Placeholder color.RGBA
}

// TextureManager loads and caches floor textures by material name.
type TextureManager struct {
	mutex    sync.Mutex
	size     int
	sources  map[string]TextureSource
	textures map[string]*ebiten.Image
	kinds    map[string]string // "atlas", "file" or "placeholder"
	atlas    []image.Image
}

// NewTextureManager creates a manager producing size x size textures.
func NewTextureManager(size int) *TextureManager {
	if size <= 0 {
		size = DefaultTextureSize
	}
	return &TextureManager{
		size:     size,
		sources:  make(map[string]TextureSource),
		textures: make(map[string]*ebiten.Image),
		kinds:    make(map[string]string),
	}
}

// SetSource registers where a material's texture comes from.
func (tm *TextureManager) SetSource(name string, src TextureSource) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	tm.sources[name] = src
}

// LoadAtlas reads a texture sheet and splits it into columns x rows cells.
func (tm *TextureManager) LoadAtlas(filename string, columns, rows int) error {
	img, err := decodeFile(filename)
	if err != nil {
		return fmt.Errorf("failed to load texture atlas: %w", err)
	}
	cells, err := SplitAtlas(img, columns, rows)
	if err != nil {
		return fmt.Errorf("failed to split texture atlas %s: %w", filename, err)
	}

	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	tm.atlas = cells
	return nil
}

// GetTexture returns the cached texture for name, building it on first use.
func (tm *TextureManager) GetTexture(name string) (*ebiten.Image, error) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	if tex, exists := tm.textures[name]; exists {
		return tex, nil
	}

	src, ok := tm.sources[name]
	if !ok {
		return nil, fmt.Errorf("no texture source for material %q", name)
	}

	tex, kind := tm.build(src)
	tm.textures[name] = tex
	tm.kinds[name] = kind
	return tex, nil
}

// Kind reports which source the cached texture for name was built from.
func (tm *TextureManager) Kind(name string) string {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	return tm.kinds[name]
}

// Release frees the GPU image for name. The next GetTexture rebuilds it.
// Releasing an unknown or already released name does nothing.
func (tm *TextureManager) Release(name string) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	tex, ok := tm.textures[name]
	if !ok {
		return
	}
	tex.Deallocate()
	delete(tm.textures, name)
	delete(tm.kinds, name)
}

// ReleaseAll frees every cached texture.
func (tm *TextureManager) ReleaseAll() {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	for name, tex := range tm.textures {
		tex.Deallocate()
		delete(tm.textures, name)
		delete(tm.kinds, name)
	}
}

func (tm *TextureManager) build(src TextureSource) (*ebiten.Image, string) {
	if src.AtlasIndex >= 0 && src.AtlasIndex < len(tm.atlas) {
		return ebiten.NewImageFromImage(Resize(tm.atlas[src.AtlasIndex], tm.size)), "atlas"
	}

	if src.File != "" {
		if img, err := decodeFile(src.File); err == nil {
			return ebiten.NewImageFromImage(Resize(img, tm.size)), "file"
		}
	}

	return ebiten.NewImageFromImage(Placeholder(tm.size, src.Placeholder)), "placeholder"
}

func decodeFile(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	return img, nil
}
