package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/gemstone/config"
)

func main() {
	manifest := flag.String("manifest", "", "animation manifest (.json) to preview; a built-in demo plays when empty")
	configPath := flag.String("config", "gemstone.yaml", "config file (embedded defaults are used when missing)")
	crowd := flag.Int("crowd", 0, "number of instances sharing the animation (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *crowd > 0 {
		cfg.Viewer.Crowd = *crowd
	}

	viewer, err := NewViewer(cfg, *manifest)
	if err != nil {
		log.Fatal(err)
	}
	defer viewer.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Viewer.Width, cfg.Viewer.Height)
	ebiten.SetWindowTitle("gemstone - " + viewer.Title())

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
