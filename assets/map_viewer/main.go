package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"dungeonfloor/internal/config"
	"dungeonfloor/internal/floor"
	"dungeonfloor/internal/layout"
	"dungeonfloor/internal/logger"
	"dungeonfloor/internal/render/termfloor"
	"dungeonfloor/internal/threading/core"

	"github.com/gdamore/tcell/v2"
)

const configPath = "assets/floor.yaml"

type viewer struct {
	cfg       *config.Config
	screen    tcell.Screen
	surface   *termfloor.Screen
	manager   *floor.Manager
	generator *layout.Generator
	level     *layout.Level
	seed      int64
	originX   int
	originY   int
	status    string

	stairsShown bool
}

func main() {
	ensureRuntimeCWD()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: %v, using defaults", err)
		cfg = config.Default()
	}
	// The terminal belongs to the viewer; logs go to stderr.
	logger.Init(logger.Settings{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: os.Stderr})

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()

	pool := core.CreateDefaultWorkerPool()
	defer pool.Stop()

	v := &viewer{
		cfg:    cfg,
		screen: screen,
		manager: floor.NewManager(
			floor.Backend{Paints: termfloor.NewGlyphProvider(cfg), Factory: termfloor.CellFactory{}},
			floor.WithOverlapColor(cfg.GetOverlapColor()),
		),
		generator: layout.NewGenerator(cfg.Layout, pool),
		seed:      cfg.Layout.Seed,
	}
	defer v.manager.Dispose()

	v.surface = termfloor.NewScreen(screen)
	v.regenerate()
	v.run()
}

func (v *viewer) regenerate() {
	level, err := v.generator.Generate(context.Background(), v.seed)
	if err != nil {
		v.status = err.Error()
		return
	}
	v.manager.ClearRegistry()
	level.Apply(v.manager, layout.Palette{Room: v.cfg.GetRoomColor(), Hallway: v.cfg.GetHallwayColor()})
	v.level = level
	v.stairsShown = false
	v.materialize()
}

func (v *viewer) materialize() {
	_, summary, err := v.manager.RenderAllCubes(v.surface, nil)
	if err != nil {
		v.status = err.Error()
		return
	}
	v.status = fmt.Sprintf("seed %d  rooms %d  hallways %d  overlaps %d  excluded %d  [r]egen [e]stairs [q]uit",
		v.seed, summary.Rooms, summary.Hallways, summary.Overlaps, summary.Excluded)
}

func (v *viewer) toggleStairs() {
	if v.level == nil {
		return
	}
	v.stairsShown = !v.stairsShown
	if v.stairsShown {
		v.manager.SetExcludedCoordinates(nil)
	} else {
		v.manager.SetExcludedCoordinates(v.level.Stairs)
	}
	v.materialize()
}

func (v *viewer) draw() {
	v.screen.Clear()
	v.surface.Draw(v.originX, v.originY)

	_, h := v.screen.Size()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for i, r := range []rune(v.status) {
		v.screen.SetContent(i, h-1, r, nil, style)
	}
	v.screen.Show()
}

func (v *viewer) run() {
	for {
		v.draw()

		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return
			case tcell.KeyLeft:
				v.originX--
			case tcell.KeyRight:
				v.originX++
			case tcell.KeyUp:
				v.originY--
			case tcell.KeyDown:
				v.originY++
			case tcell.KeyRune:
				switch ev.Rune() {
				case 'q':
					return
				case 'r':
					v.seed++
					v.regenerate()
				case 'e':
					v.toggleStairs()
				}
			}
		}
	}
}

func ensureRuntimeCWD() {
	if _, err := os.Stat(configPath); err == nil {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		return
	}
	// the binary lives in assets/map_viewer
	_ = os.Chdir(filepath.Join(filepath.Dir(exe), "..", ".."))
}
