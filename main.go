package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/milk9111/dynmusic/config"
	"github.com/milk9111/dynmusic/logger"
)

var (
	app         = kingpin.New("dynmusic", "Dynamic music demo")
	configPath  = app.Flag("config", "Config file (YAML)").Short('c').Envar("DYNMUSIC_CONFIG").String()
	levelName   = app.Flag("level", "Level name in levels/ (overrides the config)").String()
	debug       = app.Flag("debug", "Debug logging and overlay").Short('v').Bool()
	baseMonitor = app.Flag("m", "Use the base monitor instead of the primary one").Bool()
)

func main() {
	_ = godotenv.Load()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load config")
	}
	if *debug {
		cfg.Log.Level = "debug"
	}
	if *levelName != "" {
		cfg.Level.Name = *levelName
	}
	if err := logger.Init(logger.Config{Output: cfg.Log.Output, Level: cfg.Log.Level, File: cfg.Log.File}); err != nil {
		zlog.Fatal().Err(err).Msg("failed to init logger")
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("dynmusic")
	ebiten.SetTPS(cfg.Game.TPS)

	game, err := NewGame(cfg, *debug)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to start game")
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		zlog.Fatal().Err(err).Msg("game exited with error")
	}
}
