package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/milk9111/dynmusic/music"
)

type simOptions struct {
	Length    time.Duration
	DT        time.Duration
	CalmAt    time.Duration // zero: never
	ClearAt   time.Duration
	StopAt    time.Duration
	Seed      uint64
	NoFade    bool
	LookAhead time.Duration
}

type simResult struct {
	Parts []music.PartID
	Final music.State
}

// virtualChannel plays nothing; it only knows how long its sound is.
type virtualChannel struct {
	durations DurationFunc
	dur       time.Duration
	playing   bool
}

func (c *virtualChannel) SetSound(ref music.SoundRef) error {
	d, err := c.durations(ref)
	if err != nil {
		return err
	}
	c.dur = d
	return nil
}

func (c *virtualChannel) Play() error {
	c.playing = true
	return nil
}

func (c *virtualChannel) Stop()                   { c.playing = false }
func (c *virtualChannel) SetVolume(float64)       {}
func (c *virtualChannel) Duration() time.Duration { return c.dur }
func (c *virtualChannel) IsPlaying() bool         { return c.playing }

type virtualProvider DurationFunc

func (p virtualProvider) NewChannel(string) (music.Channel, error) {
	return &virtualChannel{durations: DurationFunc(p)}, nil
}

// simulate runs t on virtual channels at a fixed frame time and prints every
// notification with its timestamp.
func simulate(w io.Writer, t *music.Track, durations DurationFunc, opts simOptions) (simResult, error) {
	if opts.DT <= 0 {
		return simResult{}, errors.Newf("frame time must be positive, got %s", opts.DT)
	}
	if err := t.Validate(); err != nil {
		return simResult{}, err
	}

	quiet := zerolog.Nop()
	player := music.NewPlayer(music.Options{
		Channels:  virtualProvider(durations),
		Rand:      rand.New(rand.NewPCG(opts.Seed, opts.Seed)),
		LookAhead: opts.LookAhead,
		Logger:    &quiet,
	})
	defer player.Close()

	var res simResult
	var now time.Duration
	stamp := func() string { return fmt.Sprintf("%8.3fs", now.Seconds()) }

	unsubscribe := player.Subscribe(music.ListenerFuncs{
		StateChanged: func(e music.StateChangedEvent) {
			fmt.Fprintf(w, "%s  state %s -> %s\n", stamp(), e.Old, e.New)
		},
		PartChanged: func(e music.PartChangedEvent) {
			res.Parts = append(res.Parts, e.Part)
			fmt.Fprintf(w, "%s  part  %s\n", stamp(), e.Part)
		},
	})
	defer unsubscribe()

	fmt.Fprintf(w, "simulating %s for %s (dt %s, seed %d)\n", t.Name, opts.Length, opts.DT, opts.Seed)
	player.StartTrack(t, !opts.NoFade)

	type trigger struct {
		at   time.Duration
		name string
		fire func()
		done bool
	}
	triggers := []*trigger{
		{at: opts.CalmAt, name: "calm", fire: func() { player.SetIntenseZone(false) }},
		{at: opts.ClearAt, name: "enemies cleared", fire: player.OnEnemiesCleared},
		{at: opts.StopAt, name: "stop", fire: player.StopTrack},
	}

	for now < opts.Length {
		for _, tr := range triggers {
			if tr.at > 0 && !tr.done && now >= tr.at {
				tr.done = true
				fmt.Fprintf(w, "%s  >>> %s\n", stamp(), tr.name)
				tr.fire()
			}
		}
		player.Update(opts.DT)
		now += opts.DT
		if player.State() == music.StateStopped {
			break
		}
	}

	res.Final = player.State()
	fmt.Fprintf(w, "%s  end: %s, %d part(s) played\n", stamp(), res.Final, len(res.Parts))
	return res, nil
}
