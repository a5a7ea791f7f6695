package main

import (
	"embed"
	"os"

	"github.com/chazu/octreeview/pkg/config"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg := config.Default()
	if path := os.Getenv("OCTREEVIEW_CONFIG"); path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			log.Fatalf("Error loading configuration: %v", err)
		}
	}

	closer, err := cfg.SetupLogging()
	if err != nil {
		log.Fatalf("Error configuring logging: %v", err)
	}
	defer closer.Close()

	app := NewApp(cfg)

	err = wails.Run(&options.App{
		Title:  "octreeview",
		Width:  1024,
		Height: 768,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 255, G: 255, B: 255, A: 1},
		OnStartup:        app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Errorf("Error: %v", err)
	}
}
