// Command musiccheck validates track files, probes sounds and runs tracks
// headless to show how the scheduler chains their parts.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/milk9111/dynmusic/config"
	"github.com/milk9111/dynmusic/logger"
	"github.com/milk9111/dynmusic/tracks"
)

var (
	app        = kingpin.New("musiccheck", "Inspect and simulate dynamic music tracks")
	configPath = app.Flag("config", "Config file (YAML)").Short('c').Envar("DYNMUSIC_CONFIG").String()
	verbose    = app.Flag("verbose", "Debug logging").Short('v').Bool()

	// validate command
	validateCmd    = app.Command("validate", "Check the track catalog and its sounds")
	validateTracks = validateCmd.Arg("tracks", "Track names (default: all)").Strings()

	// probe command
	probeCmd   = app.Command("probe", "Print format and duration of sound files")
	probeFiles = probeCmd.Arg("files", "Sound files or tone:// references").Required().Strings()

	// simulate command
	simCmd     = app.Command("simulate", "Play a track on virtual channels and print the schedule").Alias("sim")
	simTrack   = simCmd.Arg("track", "Track name").Required().String()
	simLength  = simCmd.Flag("length", "Simulated time").Default("60s").Duration()
	simDT      = simCmd.Flag("dt", "Frame time").Default("16ms").Duration()
	simCalmAt  = simCmd.Flag("calm-at", "Leave the intense zone at this time").Duration()
	simClearAt = simCmd.Flag("clear-at", "Clear the enemies at this time").Duration()
	simStopAt  = simCmd.Flag("stop-at", "Stop the track at this time").Duration()
	simSeed    = simCmd.Flag("seed", "Random seed").Default("1").Uint64()
	simNoFade  = simCmd.Flag("no-fade", "Start at full volume").Bool()
)

func main() {
	_ = godotenv.Load()
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	level := cfg.Log.Level
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Output: "stderr", Level: level}); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	switch command {
	case validateCmd.FullCommand():
		lib := loadLibrary(cfg.Tracks.Dir)
		if failures := validate(os.Stdout, lib, *validateTracks, resolveDuration); failures > 0 {
			fmt.Printf("\n%d problem(s) found\n", failures)
			os.Exit(1)
		}
	case probeCmd.FullCommand():
		if failures := probe(os.Stdout, *probeFiles); failures > 0 {
			os.Exit(1)
		}
	case simCmd.FullCommand():
		lib := loadLibrary(cfg.Tracks.Dir)
		t, ok := lib.Get(*simTrack)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown track %q (have %v)\n", *simTrack, lib.Names())
			os.Exit(1)
		}
		opts := simOptions{
			Length:    *simLength,
			DT:        *simDT,
			CalmAt:    *simCalmAt,
			ClearAt:   *simClearAt,
			StopAt:    *simStopAt,
			Seed:      *simSeed,
			NoFade:    *simNoFade,
			LookAhead: cfg.Music.LookAhead,
		}
		if _, err := simulate(os.Stdout, t, resolveDuration, opts); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}
}

func loadLibrary(dir string) *tracks.Library {
	tracks.Dir = dir
	lib, err := tracks.LoadAll()
	if err != nil {
		zlog.Warn().Err(err).Msg("some tracks failed to load")
	}
	if lib == nil {
		fmt.Fprintln(os.Stderr, "Error: no tracks")
		os.Exit(1)
	}
	return lib
}
