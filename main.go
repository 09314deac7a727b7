package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/corner-viz/internal/config"
	"github.com/iburimskiy/corner-viz/internal/game"
)

func main() {
	configPath := flag.String("config", "", "INI file overriding the built-in settings")
	seed := flag.Uint64("seed", 0, "particle random seed (0 seeds from the clock)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err.Error())
	}
	if *seed != 0 {
		cfg.Field.Seed = *seed
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title + " - O: open file, P: pulse, Space: pause, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// a paused field keeps showing its last frame
	ebiten.SetScreenClearedEveryFrame(false)

	g := game.NewGame(cfg)
	defer g.Close()
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err.Error())
	}
}
