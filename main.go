package main

import (
	"log"

	"dungeonfloor/internal/config"
	"dungeonfloor/internal/logger"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	// Load configuration
	cfg := config.MustLoadConfig("assets/floor.yaml")

	logger.Init(logger.Settings{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	// Set window properties from config
	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	v, err := newViewer(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer v.Close()

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
