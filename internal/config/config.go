package config

import (
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all floor viewer configuration values
type Config struct {
	Display   DisplayConfig             `yaml:"display"`
	Render    RenderConfig              `yaml:"render"`
	Colors    ColorsConfig              `yaml:"colors"`
	Materials map[string]MaterialConfig `yaml:"materials"`
	Atlas     AtlasConfig               `yaml:"atlas"`
	Layout    LayoutConfig              `yaml:"layout"`
	Logging   LoggingConfig             `yaml:"logging"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
}

type RenderConfig struct {
	TileSize       float64 `yaml:"tile_size"`
	VerticalOffset float64 `yaml:"vertical_offset"`
	PixelsPerUnit  float64 `yaml:"pixels_per_unit"` // ebiten scene scale
}

type ColorsConfig struct {
	Room    [3]int `yaml:"room"`
	Hallway [3]int `yaml:"hallway"`
	Overlap [3]int `yaml:"overlap"`
}

// MaterialConfig describes how one material tag is painted.
type MaterialConfig struct {
	Texture    string `yaml:"texture"`     // PNG file, tried after the atlas
	AtlasIndex *int   `yaml:"atlas_index"` // cell in the atlas, row-major
	Color      [3]int `yaml:"color"`       // placeholder fill
	Glyph      string `yaml:"glyph"`       // terminal rendering
}

// AtlasConfig points at a texture sheet split into a Columns x Rows grid.
type AtlasConfig struct {
	File    string `yaml:"file"`
	Columns int    `yaml:"columns"`
	Rows    int    `yaml:"rows"`
}

type LayoutConfig struct {
	Width         int   `yaml:"width"`
	Height        int   `yaml:"height"`
	RoomCount     int   `yaml:"room_count"`
	RoomSizeMin   int   `yaml:"room_size_min"`
	RoomSizeMax   int   `yaml:"room_size_max"`
	CorridorWidth int   `yaml:"corridor_width"`
	StairsCount   int   `yaml:"stairs_count"`
	Seed          int64 `yaml:"seed"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadConfig loads the configuration from a YAML file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML configuration bytes
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// Default returns the configuration used when no file is available.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  1024,
			ScreenHeight: 768,
			WindowTitle:  "Dungeon Floor",
			Resizable:    true,
		},
		Render: RenderConfig{TileSize: 1, PixelsPerUnit: 16},
		Colors: ColorsConfig{
			Room:    [3]int{70, 130, 180},
			Hallway: [3]int{139, 115, 85},
			Overlap: [3]int{255, 255, 0},
		},
		Materials: map[string]MaterialConfig{
			"room-floor":    {Color: [3]int{70, 130, 180}, Glyph: "."},
			"hallway-floor": {Color: [3]int{139, 115, 85}, Glyph: "#"},
		},
		Atlas: AtlasConfig{Columns: 6, Rows: 4},
		Layout: LayoutConfig{
			Width:         64,
			Height:        40,
			RoomCount:     8,
			RoomSizeMin:   4,
			RoomSizeMax:   9,
			CorridorWidth: 1,
			StairsCount:   2,
			Seed:          1,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	if c.Display.ScreenWidth <= 0 {
		return 1024
	}
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	if c.Display.ScreenHeight <= 0 {
		return 768
	}
	return c.Display.ScreenHeight
}

func (c *Config) GetTileSize() float64 {
	if c.Render.TileSize <= 0 {
		return 1
	}
	return c.Render.TileSize
}

func (c *Config) GetVerticalOffset() float64 {
	return c.Render.VerticalOffset
}

func (c *Config) GetPixelsPerUnit() float64 {
	if c.Render.PixelsPerUnit <= 0 {
		return 16
	}
	return c.Render.PixelsPerUnit
}

func (c *Config) GetRoomColor() color.RGBA {
	return rgbOr(c.Colors.Room, color.RGBA{R: 70, G: 130, B: 180, A: 255})
}

func (c *Config) GetHallwayColor() color.RGBA {
	return rgbOr(c.Colors.Hallway, color.RGBA{R: 139, G: 115, B: 85, A: 255})
}

func (c *Config) GetOverlapColor() color.RGBA {
	return rgbOr(c.Colors.Overlap, color.RGBA{R: 255, G: 255, B: 0, A: 255})
}

// GetMaterial returns the configuration for a material tag, with an empty
// config when the tag is not listed.
func (c *Config) GetMaterial(tag string) MaterialConfig {
	return c.Materials[tag]
}

func (c *Config) GetAtlasGrid() (columns, rows int) {
	columns, rows = c.Atlas.Columns, c.Atlas.Rows
	if columns <= 0 {
		columns = 6
	}
	if rows <= 0 {
		rows = 4
	}
	return columns, rows
}

func (c *Config) GetCorridorWidth() int {
	if c.Layout.CorridorWidth <= 0 {
		return 1
	}
	return c.Layout.CorridorWidth
}

// RGB converts a config triple into an opaque color.
func RGB(v [3]int) color.RGBA {
	return color.RGBA{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2]), A: 255}
}

func rgbOr(v [3]int, fallback color.RGBA) color.RGBA {
	// Check if color is set (non-zero)
	if v[0] != 0 || v[1] != 0 || v[2] != 0 {
		return RGB(v)
	}
	return fallback
}
