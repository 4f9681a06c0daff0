package main

import (
	"context"
	"fmt"
	"log"
	"maps"
	"os"
	"slices"
	"strings"

	"dungeonfloor/internal/config"
	"dungeonfloor/internal/floor"
	"dungeonfloor/internal/grid"
	"dungeonfloor/internal/layout"
	"dungeonfloor/internal/logger"
	"dungeonfloor/internal/monitoring"
	"dungeonfloor/internal/render/termfloor"
	"dungeonfloor/internal/threading/core"
	"dungeonfloor/internal/tiles"

	"github.com/gdamore/tcell/v2"
)

func main() {
	// Dump a generated floor as text
	fmt.Println("Floor Registry Dump")
	fmt.Println("===================")

	cfg, err := config.LoadConfig("../assets/floor.yaml")
	if err != nil {
		log.Printf("Warning: %v, using defaults", err)
		cfg = config.Default()
	}
	logger.Init(logger.Settings{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	pool := core.CreateDefaultWorkerPool()
	defer pool.Stop()

	level, err := layout.NewGenerator(cfg.Layout, pool).Generate(context.Background(), cfg.Layout.Seed)
	if err != nil {
		log.Fatalf("Failed to generate level: %v", err)
	}

	monitor := monitoring.NewFloorMonitor()
	manager := floor.NewManager(
		floor.Backend{Paints: termfloor.NewGlyphProvider(cfg), Factory: termfloor.CellFactory{}},
		floor.WithOverlapColor(cfg.GetOverlapColor()),
		floor.WithCounter(monitor),
	)
	defer manager.Dispose()

	registered := level.Apply(manager, layout.Palette{Room: cfg.GetRoomColor(), Hallway: cfg.GetHallwayColor()})
	fmt.Printf("\nRegistration: %d added, %d overlapped, %d skipped\n", registered.Added, registered.Overlapped, registered.Skipped)

	fmt.Println("\nRooms:")
	for i, r := range level.Rooms {
		fmt.Printf("%2d: %dx%d at (%d,%d)\n", i, r.W, r.H, r.X, r.Y)
	}

	fmt.Println("\nStairs (excluded):")
	for _, s := range manager.ExcludedCoordinates() {
		fmt.Printf("- %s\n", s)
	}

	fmt.Println("\nOverlaps:")
	for _, c := range manager.AllCoordinates() {
		if rec, ok := manager.Lookup(c); ok && rec.Classification == tiles.Overlap {
			fmt.Printf("%s ", c)
		}
	}
	fmt.Println()

	// Cells named on the command line as "x,y"
	if len(os.Args) > 1 {
		fmt.Println("\nCells:")
	}
	for _, arg := range os.Args[1:] {
		key, err := grid.ParseKey(arg)
		if err != nil {
			fmt.Printf("%s: %v\n", arg, err)
			continue
		}
		pos := key.Coord()
		rec, ok := manager.Lookup(pos)
		switch {
		case !ok:
			fmt.Printf("%s: empty\n", pos)
		case manager.IsExcluded(pos):
			fmt.Printf("%s: %s (excluded)\n", pos, rec.Classification)
		default:
			fmt.Printf("%s: %s\n", pos, rec.Classification)
		}
	}

	// Render onto an off-screen terminal and print it
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		log.Fatalf("Failed to init screen: %v", err)
	}
	defer sim.Fini()
	sim.SetSize(cfg.Layout.Width, cfg.Layout.Height)

	surface := termfloor.NewScreen(sim)
	if _, _, err := manager.RenderAllCubes(surface, nil); err != nil {
		log.Fatalf("Failed to render floor: %v", err)
	}
	surface.Draw(0, 0)

	fmt.Println("\nMap:")
	w, h := sim.Size()
	var sb strings.Builder
	for y := 0; y < h; y++ {
		sb.Reset()
		for x := 0; x < w; x++ {
			r, _, _, _ := sim.GetContent(x, y)
			sb.WriteRune(r)
		}
		fmt.Println(strings.TrimRight(sb.String(), " "))
	}

	fmt.Printf("\nSurface %s: %d pass(es)\n", surface.SurfaceID(), monitor.PassesFor(surface.SurfaceID()))

	fmt.Println("\nMetrics:")
	stats := monitor.GetDetailedStats()
	for _, k := range slices.Sorted(maps.Keys(stats)) {
		fmt.Printf("%s: %v\n", k, stats[k])
	}
}
