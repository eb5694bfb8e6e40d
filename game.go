package main

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	zlog "github.com/rs/zerolog/log"

	"github.com/milk9111/dynmusic/assets"
	"github.com/milk9111/dynmusic/config"
	"github.com/milk9111/dynmusic/ecs"
	"github.com/milk9111/dynmusic/ecs/entity"
	"github.com/milk9111/dynmusic/ecs/system"
	"github.com/milk9111/dynmusic/levels"
	"github.com/milk9111/dynmusic/music"
	"github.com/milk9111/dynmusic/sound"
	"github.com/milk9111/dynmusic/tracks"
)

const (
	baseWidth  = 960
	baseHeight = 540

	maxLogLines = 6
)

type Game struct {
	frames int
	debug  bool

	world     *ecs.World
	scheduler *ecs.Scheduler
	level     *levels.Level

	music    *music.Player
	musicSys *system.MusicSystem
	provider *sound.Provider
	library  *tracks.Library
	watcher  *tracks.Watcher

	log []string
}

func NewGame(cfg *config.Config, debug bool) (*Game, error) {
	tracks.Dir = cfg.Tracks.Dir
	library, err := tracks.LoadAll()
	if err != nil {
		if library == nil || len(library.Names()) == 0 {
			return nil, errors.Wrap(err, "load tracks")
		}
		zlog.Warn().Err(err).Msg("some tracks failed to load")
	}

	provider := sound.NewProvider(audio.NewContext(cfg.Audio.SampleRate), assets.LoadAudio)
	for _, name := range cfg.Tracks.Preload {
		t, ok := library.Get(name)
		if !ok {
			zlog.Warn().Str("track", name).Msg("cannot preload unknown track")
			continue
		}
		if err := provider.Preload(tracks.Sounds(t)...); err != nil {
			zlog.Warn().Err(err).Str("track", name).Msg("preload incomplete")
		}
	}

	opts := music.Options{
		Channels:  provider,
		LookAhead: cfg.Music.LookAhead,
	}
	if !cfg.Audio.NoClock {
		opts.Clock = sound.NewSampleClock(cfg.Audio.SampleRate)
	}
	if cfg.Music.Seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(cfg.Music.Seed, cfg.Music.Seed))
	}
	player := music.NewPlayer(opts)

	lvl, err := levels.LoadLevelFromFS(cfg.Level.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "load level %q", cfg.Level.Name)
	}
	world := ecs.NewWorld()
	if err := entity.LoadLevelToWorld(world, lvl); err != nil {
		return nil, err
	}

	musicSys := system.NewMusicSystem(player, cfg.Game.TPS)
	scheduler := ecs.NewScheduler(
		system.NewInputSystem(),
		system.NewPlayerControllerSystem(cfg.Game.PlayerSpeed, float64(lvl.Width), float64(lvl.Height)),
		system.NewCombatSystem(cfg.Game.AttackRange),
		system.NewPatrolSystem(levels.LoadScript, cfg.Game.TPS),
		system.NewMusicZoneSystem(player, library),
		musicSys,
	)

	g := &Game{
		debug:     debug,
		world:     world,
		scheduler: scheduler,
		level:     lvl,
		music:     player,
		musicSys:  musicSys,
		provider:  provider,
		library:   library,
	}

	if cfg.Tracks.Watch {
		w, err := tracks.NewWatcher(cfg.Tracks.Dir)
		if err != nil {
			zlog.Warn().Err(err).Str("dir", cfg.Tracks.Dir).Msg("track hot reload disabled")
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Update() error {
	g.frames++

	g.reloadTracks()
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		g.music.StopTrack()
	}

	g.scheduler.Update(g.world)

	for _, e := range g.world.Events().Peek() {
		g.logEvent(e)
	}
	return nil
}

// reloadTracks applies track file changes. The player keeps the track it is
// playing; the new version is used on the next StartTrack.
func (g *Game) reloadTracks() {
	if g.watcher == nil {
		return
	}
	select {
	case err, ok := <-g.watcher.Errors:
		if ok && err != nil {
			zlog.Warn().Err(err).Msg("track watcher error")
		}
	default:
	}

	files := g.watcher.Drain()
	if len(files) == 0 {
		return
	}
	for _, c := range g.library.ReloadFiles(files...) {
		if c.Old != nil && c.Old != g.music.CurrentTrack() {
			g.provider.Evict(tracks.Sounds(c.Old)...)
		}
		if err := g.provider.Preload(tracks.Sounds(c.New)...); err != nil {
			zlog.Warn().Err(err).Str("track", c.Name).Msg("preload incomplete")
		}
		g.pushLog(fmt.Sprintf("reloaded %s", c.Name))
	}
}

func (g *Game) logEvent(e ecs.Event) {
	switch data := e.Data.(type) {
	case music.StateChangedEvent:
		g.pushLog(fmt.Sprintf("state %s -> %s", data.Old, data.New))
	case music.PartChangedEvent:
		g.pushLog(fmt.Sprintf("part %s", data.Part))
	case string:
		g.pushLog(fmt.Sprintf("%s %s", strings.ReplaceAll(e.Type, "_", " "), data))
	}
}

func (g *Game) pushLog(line string) {
	g.log = append(g.log, line)
	if len(g.log) > maxLogLines {
		g.log = g.log[len(g.log)-maxLogLines:]
	}
}

// Status is the one-line music summary shown in the overlay.
func (g *Game) Status() string {
	track := "-"
	if t := g.music.CurrentTrack(); t != nil {
		track = t.Name
	}
	next := "-"
	if id, ok := g.music.ScheduledPart(); ok {
		next = string(id)
		if next == "" {
			next = "(end)"
		}
	}
	intensity := "calm"
	if g.music.IsInIntenseZone() {
		intensity = "intense"
	}
	return fmt.Sprintf("%s  track=%s part=%s next=%s %s vol=%.2f left=%s",
		g.music.State(), track, g.music.CurrentPartID(), next, intensity,
		g.music.Volume(), g.music.Remaining().Truncate(10*time.Millisecond))
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.musicSys.Close()
	g.music.Close()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
