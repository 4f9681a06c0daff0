// Package layout generates dungeon levels as batches of floor cells: rooms,
// corridors joining them, and stair cells that must stay undrawn.
package layout

import (
	"context"
	"fmt"
	"image/color"
	"math/rand"

	"dungeonfloor/internal/config"
	"dungeonfloor/internal/grid"
	"dungeonfloor/internal/logger"
	"dungeonfloor/internal/raster"
	"dungeonfloor/internal/threading/core"
	"dungeonfloor/internal/tiles"

	"github.com/sirupsen/logrus"
)

// Room is an axis-aligned rectangle of floor cells.
type Room struct {
	X, Y, W, H int
}

// Center returns the middle cell of the room.
func (r Room) Center() grid.Coord {
	return grid.C(r.X+r.W/2, r.Y+r.H/2)
}

// Cells lists every cell of the room.
func (r Room) Cells() []grid.Coord {
	return raster.AreaCoordinates(r.X, r.Y, r.X+r.W-1, r.Y+r.H-1)
}

// intersects reports whether r and o overlap once o is grown by margin.
func (r Room) intersects(o Room, margin int) bool {
	return r.X < o.X+o.W+margin && o.X-margin < r.X+r.W &&
		r.Y < o.Y+o.H+margin && o.Y-margin < r.Y+r.H
}

// Corridor joins two room centers.
type Corridor struct {
	From, To grid.Coord
	Cells    []grid.Coord
}

// Level is one generated layout.
type Level struct {
	Rooms     []Room
	Corridors []Corridor
	Stairs    []grid.Coord
}

// Registrar receives a level. floor.Manager satisfies it.
type Registrar interface {
	RegisterCubes(coords []grid.Coord, c color.RGBA, class tiles.Classification) tiles.RegisterStats
	SetExcludedCoordinates(coords []grid.Coord)
}

// Palette colors the batches of a level.
type Palette struct {
	Room    color.RGBA
	Hallway color.RGBA
}

// Generator builds levels from a seeded random source. Corridors are
// rasterized on the worker pool; everything else is sequential, so the
// same seed always yields the same level.
type Generator struct {
	cfg  config.LayoutConfig
	pool *core.WorkerPool
	log  *logrus.Entry
}

// NewGenerator creates a generator. pool must be started.
func NewGenerator(cfg config.LayoutConfig, pool *core.WorkerPool) *Generator {
	return &Generator{cfg: normalize(cfg), pool: pool, log: logger.For("layout")}
}

func normalize(cfg config.LayoutConfig) config.LayoutConfig {
	if cfg.Width <= 0 {
		cfg.Width = 64
	}
	if cfg.Height <= 0 {
		cfg.Height = 40
	}
	if cfg.RoomSizeMin <= 0 {
		cfg.RoomSizeMin = 3
	}
	if cfg.RoomSizeMax < cfg.RoomSizeMin {
		cfg.RoomSizeMax = cfg.RoomSizeMin
	}
	if cfg.CorridorWidth <= 0 {
		cfg.CorridorWidth = 1
	}
	return cfg
}

// Generate produces a level for seed.
func (g *Generator) Generate(ctx context.Context, seed int64) (*Level, error) {
	rng := rand.New(rand.NewSource(seed))
	level := &Level{Rooms: g.placeRooms(rng)}

	if n := len(level.Rooms) - 1; n > 0 {
		level.Corridors = make([]Corridor, n)
		g.pool.ParallelForWithContext(ctx, 0, n, func(i int) {
			from, to := level.Rooms[i].Center(), level.Rooms[i+1].Center()
			level.Corridors[i] = Corridor{
				From:  from,
				To:    to,
				Cells: raster.LShapedCorridor(from, to, g.cfg.CorridorWidth),
			}
		})
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generate corridors: %w", err)
		}
	}

	level.Stairs = g.placeStairs(rng, level.Rooms)

	g.log.WithFields(logrus.Fields{
		"seed":      seed,
		"rooms":     len(level.Rooms),
		"corridors": len(level.Corridors),
		"stairs":    len(level.Stairs),
		"workers":   g.pool.GetNumWorkers(),
	}).Debug("level generated")
	return level, nil
}

func (g *Generator) placeRooms(rng *rand.Rand) []Room {
	var rooms []Room
	span := g.cfg.RoomSizeMax - g.cfg.RoomSizeMin + 1
	for attempt := 0; attempt < g.cfg.RoomCount*20 && len(rooms) < g.cfg.RoomCount; attempt++ {
		w := g.cfg.RoomSizeMin + rng.Intn(span)
		h := g.cfg.RoomSizeMin + rng.Intn(span)
		if w >= g.cfg.Width || h >= g.cfg.Height {
			continue
		}
		candidate := Room{
			X: rng.Intn(g.cfg.Width - w),
			Y: rng.Intn(g.cfg.Height - h),
			W: w,
			H: h,
		}

		free := true
		for _, r := range rooms {
			if candidate.intersects(r, 1) {
				free = false
				break
			}
		}
		if free {
			rooms = append(rooms, candidate)
		}
	}
	return rooms
}

// placeStairs picks distinct cells inside distinct rooms.
func (g *Generator) placeStairs(rng *rand.Rand, rooms []Room) []grid.Coord {
	count := max(0, min(g.cfg.StairsCount, len(rooms)))
	stairs := make([]grid.Coord, 0, count)
	for _, idx := range rng.Perm(len(rooms))[:count] {
		r := rooms[idx]
		stairs = append(stairs, grid.C(r.X+rng.Intn(r.W), r.Y+rng.Intn(r.H)))
	}
	return stairs
}

// Apply registers rooms then corridors, in generation order, and then
// excludes the stairs so their cells stay registered but undrawn.
// Corridor cells crossing a room end up as Overlap.
func (l *Level) Apply(dst Registrar, palette Palette) tiles.RegisterStats {
	var total tiles.RegisterStats
	add := func(s tiles.RegisterStats) {
		total.Added += s.Added
		total.Overlapped += s.Overlapped
		total.Skipped += s.Skipped
	}

	for _, r := range l.Rooms {
		add(dst.RegisterCubes(r.Cells(), palette.Room, tiles.Room))
	}
	for _, c := range l.Corridors {
		add(dst.RegisterCubes(c.Cells, palette.Hallway, tiles.Hallway))
	}
	dst.SetExcludedCoordinates(l.Stairs)
	return total
}
