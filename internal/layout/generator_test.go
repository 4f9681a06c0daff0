package layout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"testing"

	"dungeonfloor/internal/config"
	"dungeonfloor/internal/grid"
	"dungeonfloor/internal/logger"
	"dungeonfloor/internal/threading/core"
	"dungeonfloor/internal/tiles"

	"github.com/google/go-cmp/cmp"
)

func testConfig() config.LayoutConfig {
	return config.LayoutConfig{
		Width:         48,
		Height:        32,
		RoomCount:     6,
		RoomSizeMin:   3,
		RoomSizeMax:   6,
		CorridorWidth: 1,
		StairsCount:   2,
	}
}

func newGenerator(t *testing.T, cfg config.LayoutConfig) *Generator {
	t.Helper()
	pool := core.NewWorkerPool(4)
	pool.Start()
	t.Cleanup(pool.Stop)
	return NewGenerator(cfg, pool)
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := newGenerator(t, testConfig())

	a, err := g.Generate(context.Background(), 7)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := g.Generate(context.Background(), 7)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Same seed produced different levels (-first +second):\n%s", diff)
	}
}

func TestRoomsStayInBoundsAndApart(t *testing.T) {
	cfg := testConfig()
	level, err := newGenerator(t, cfg).Generate(context.Background(), 3)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(level.Rooms) == 0 {
		t.Fatal("Expected at least one room")
	}

	for i, r := range level.Rooms {
		if r.X < 0 || r.Y < 0 || r.X+r.W > cfg.Width || r.Y+r.H > cfg.Height {
			t.Errorf("Room %d out of bounds: %+v", i, r)
		}
		if r.W < cfg.RoomSizeMin || r.W > cfg.RoomSizeMax {
			t.Errorf("Room %d width %d outside [%d, %d]", i, r.W, cfg.RoomSizeMin, cfg.RoomSizeMax)
		}
		for j := i + 1; j < len(level.Rooms); j++ {
			if r.intersects(level.Rooms[j], 0) {
				t.Errorf("Rooms %d and %d overlap", i, j)
			}
		}
	}
}

func TestCorridorsJoinConsecutiveRooms(t *testing.T) {
	level, err := newGenerator(t, testConfig()).Generate(context.Background(), 11)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(level.Corridors) != len(level.Rooms)-1 {
		t.Fatalf("Expected %d corridors, got %d", len(level.Rooms)-1, len(level.Corridors))
	}

	for i, c := range level.Corridors {
		if c.From != level.Rooms[i].Center() || c.To != level.Rooms[i+1].Center() {
			t.Errorf("Corridor %d joins %v-%v, expected room centers", i, c.From, c.To)
		}
		if c.Cells[0] != c.From {
			t.Errorf("Corridor %d should start at %v, got %v", i, c.From, c.Cells[0])
		}
		if !containsCoord(c.Cells, c.To) {
			t.Errorf("Corridor %d does not reach %v", i, c.To)
		}
	}
}

func TestStairsInsideRooms(t *testing.T) {
	level, err := newGenerator(t, testConfig()).Generate(context.Background(), 5)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(level.Stairs) != 2 {
		t.Fatalf("Expected 2 stairs, got %d", len(level.Stairs))
	}
	for _, s := range level.Stairs {
		inside := false
		for _, r := range level.Rooms {
			if containsCoord(r.Cells(), s) {
				inside = true
			}
		}
		if !inside {
			t.Errorf("Stairs %v not inside any room", s)
		}
	}
}

func TestGenerateLogsSummary(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	var buf bytes.Buffer
	logger.Init(logger.Settings{Output: &buf})
	defer logger.Init(logger.Settings{Output: &bytes.Buffer{}})

	level, err := newGenerator(t, testConfig()).Generate(context.Background(), 9)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var entry map[string]interface{}
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var e map[string]interface{}
		if json.Unmarshal(line, &e) == nil && e["msg"] == "level generated" {
			entry = e
		}
	}
	if entry == nil {
		t.Fatalf("Expected a level generated entry, got %q", buf.String())
	}
	if entry["workers"] != float64(4) {
		t.Errorf("Expected workers field 4, got %v", entry["workers"])
	}
	if entry["rooms"] != float64(len(level.Rooms)) {
		t.Errorf("Expected rooms field %d, got %v", len(level.Rooms), entry["rooms"])
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newGenerator(t, testConfig()).Generate(ctx, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestZeroRooms(t *testing.T) {
	cfg := testConfig()
	cfg.RoomCount = 0
	level, err := newGenerator(t, cfg).Generate(context.Background(), 1)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(level.Rooms) != 0 || len(level.Corridors) != 0 || len(level.Stairs) != 0 {
		t.Errorf("Expected empty level, got %+v", level)
	}
}

type recorder struct {
	calls    []tiles.Classification
	excluded []grid.Coord
}

func (r *recorder) RegisterCubes(coords []grid.Coord, _ color.RGBA, class tiles.Classification) tiles.RegisterStats {
	r.calls = append(r.calls, class)
	return tiles.RegisterStats{Added: len(coords)}
}

func (r *recorder) SetExcludedCoordinates(coords []grid.Coord) {
	r.excluded = coords
}

func TestApplyOrder(t *testing.T) {
	level := &Level{
		Rooms:     []Room{{X: 0, Y: 0, W: 2, H: 2}, {X: 5, Y: 0, W: 2, H: 2}},
		Corridors: []Corridor{{Cells: []grid.Coord{grid.C(2, 1), grid.C(3, 1), grid.C(4, 1)}}},
		Stairs:    []grid.Coord{grid.C(0, 0)},
	}

	rec := &recorder{}
	stats := level.Apply(rec, Palette{})

	want := []tiles.Classification{tiles.Room, tiles.Room, tiles.Hallway}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("Registration order mismatch (-want +got):\n%s", diff)
	}
	if stats.Added != 11 {
		t.Errorf("Expected 11 added cells, got %d", stats.Added)
	}
	if diff := cmp.Diff(level.Stairs, rec.excluded); diff != "" {
		t.Errorf("Excluded mismatch (-want +got):\n%s", diff)
	}
}

func containsCoord(coords []grid.Coord, c grid.Coord) bool {
	for _, v := range coords {
		if v == c {
			return true
		}
	}
	return false
}
