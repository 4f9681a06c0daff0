package main

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"dungeonfloor/internal/config"
	"dungeonfloor/internal/floor"
	"dungeonfloor/internal/layout"
	"dungeonfloor/internal/logger"
	"dungeonfloor/internal/monitoring"
	"dungeonfloor/internal/render"
	"dungeonfloor/internal/render/ebitenfloor"
	"dungeonfloor/internal/threading/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/basicfont"
)

const (
	hudWidth  = 300
	panSpeed  = 0.5 // world units per frame
	zoomStep  = 1.25
	lineStep  = 15
	hudMargin = 8
)

var (
	backgroundColor = color.RGBA{R: 15, G: 15, B: 22, A: 255}
	hudColor        = color.RGBA{R: 0, G: 0, B: 0, A: 170}
	textColor       = color.RGBA{R: 220, G: 220, B: 220, A: 255}
)

// viewer is the ebiten game that shows generated floors.
type viewer struct {
	cfg       *config.Config
	pool      *core.WorkerPool
	generator *layout.Generator
	provider  *ebitenfloor.TextureProvider
	manager   *floor.Manager
	monitor   *monitoring.FloorMonitor
	scene     *ebitenfloor.Scene
	camera    ebitenfloor.Camera

	level        *layout.Level
	seed         int64
	stairsHidden bool
	dirty        bool
	summary      render.Summary
	lastErr      string
	log          *logrus.Entry
}

func newViewer(cfg *config.Config) (*viewer, error) {
	pool := core.CreateDefaultWorkerPool()
	provider := ebitenfloor.NewTextureProviderFromConfig(cfg)
	monitor := monitoring.NewFloorMonitor()
	// a pass longer than one tick drops a frame
	monitor.SetSlowPassThreshold(time.Second / time.Duration(ebiten.TPS()))

	v := &viewer{
		cfg:       cfg,
		pool:      pool,
		generator: layout.NewGenerator(cfg.Layout, pool),
		provider:  provider,
		manager: floor.NewManager(
			floor.Backend{Paints: provider, Factory: ebitenfloor.CubeFactory{}},
			floor.WithOverlapColor(cfg.GetOverlapColor()),
			floor.WithCounter(monitor),
		),
		monitor:      monitor,
		scene:        ebitenfloor.NewScene(cfg.GetPixelsPerUnit()),
		camera:       ebitenfloor.Camera{Zoom: 1},
		seed:         cfg.Layout.Seed,
		stairsHidden: true,
		log:          logger.For("viewer"),
	}
	if err := v.regenerate(); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}

// Close frees the floor and stops the worker pool.
func (v *viewer) Close() {
	v.manager.Dispose()
	v.provider.Close()
	v.pool.Stop()
}

func (v *viewer) regenerate() error {
	level, err := v.generator.Generate(context.Background(), v.seed)
	if err != nil {
		return fmt.Errorf("generate level %d: %w", v.seed, err)
	}

	v.manager.ClearRegistry()
	stats := level.Apply(v.manager, layout.Palette{
		Room:    v.cfg.GetRoomColor(),
		Hallway: v.cfg.GetHallwayColor(),
	})
	if !v.stairsHidden {
		v.manager.SetExcludedCoordinates(nil)
	}

	v.level = level
	v.dirty = true
	v.log.WithFields(logrus.Fields{
		"seed":       v.seed,
		"added":      stats.Added,
		"overlapped": stats.Overlapped,
	}).Info("level loaded")
	return nil
}

func (v *viewer) toggleStairs() {
	v.stairsHidden = !v.stairsHidden
	if v.stairsHidden {
		v.manager.SetExcludedCoordinates(v.level.Stairs)
	} else {
		v.manager.SetExcludedCoordinates(nil)
	}
	v.dirty = true
}

// dispose tears the floor down and starts over on a new scene, which is
// what a level transition does.
func (v *viewer) dispose() {
	v.manager.Dispose()
	v.scene = ebitenfloor.NewScene(v.cfg.GetPixelsPerUnit())
	v.level = &layout.Level{}
	v.dirty = true
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.seed++
		if err := v.regenerate(); err != nil {
			v.lastErr = err.Error()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		v.toggleStairs()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		v.dispose()
	}

	if ebiten.IsKeyPressed(ebiten.KeyLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		v.camera.X -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		v.camera.X += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		v.camera.Y -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		v.camera.Y += panSpeed
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		v.camera.Zoom *= zoomStep
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		v.camera.Zoom /= zoomStep
	}

	if v.dirty {
		opts := render.Options{TileSize: v.cfg.GetTileSize(), VerticalOffset: v.cfg.GetVerticalOffset()}
		_, summary, err := v.manager.RenderAllCubes(v.scene, &opts)
		if err != nil {
			v.lastErr = err.Error()
			v.log.WithError(err).Error("materialize failed")
		} else {
			v.summary = summary
			v.lastErr = ""
		}
		v.dirty = false

		for _, alert := range v.monitor.CheckPerformanceAlerts() {
			v.log.WithField("alert", alert.Type).Warn(alert.Message)
		}
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	v.scene.Draw(screen, v.camera)
	v.drawHUD(screen)

	if v.lastErr != "" {
		ebitenutil.DebugPrintAt(screen, v.lastErr, hudMargin, screen.Bounds().Dy()-20)
	}
}

func (v *viewer) drawHUD(screen *ebiten.Image) {
	metrics := v.monitor.GetCurrentMetrics()
	lines := []string{
		fmt.Sprintf("seed %d", v.seed),
		fmt.Sprintf("rooms %d  hallways %d", v.summary.Rooms, v.summary.Hallways),
		fmt.Sprintf("overlaps %d  excluded %d", v.summary.Overlaps, v.summary.Excluded),
		fmt.Sprintf("passes %d (scene %d)  last %s", metrics.Passes, v.monitor.PassesFor(v.scene.SurfaceID()), metrics.LastPass),
		fmt.Sprintf("stairs hidden: %t", v.stairsHidden),
		"",
		"R regenerate  E stairs  X dispose",
		"arrows pan  +/- zoom  Esc quit",
	}

	height := len(lines)*lineStep + hudMargin*3
	vector.DrawFilledRect(screen, hudMargin, hudMargin, hudWidth, float32(height), hudColor, false)

	face := basicfont.Face7x13
	for i, line := range lines {
		ebitext.Draw(screen, line, face, hudMargin*2, hudMargin*2+(i+1)*lineStep, textColor)
	}

	// overlap color swatch
	swatchY := float32(hudMargin*2 + 3*lineStep - 10)
	vector.DrawFilledRect(screen, hudWidth-hudMargin-12, swatchY, 12, 12, v.cfg.GetOverlapColor(), false)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return v.cfg.GetScreenWidth(), v.cfg.GetScreenHeight()
}
