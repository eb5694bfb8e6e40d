package music

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

var errFakeUnavailable = errors.New("fake: channel unavailable")

// recorder keeps the ordered list of channel operations across both channels.
type recorder struct {
	ops []string
}

func (r *recorder) add(format string, args ...any) {
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

func (r *recorder) count(op string) int {
	n := 0
	for _, o := range r.ops {
		if o == op {
			n++
		}
	}
	return n
}

func (r *recorder) index(op string) int {
	for i, o := range r.ops {
		if o == op {
			return i
		}
	}
	return -1
}

type fakeChannel struct {
	name    string
	rec     *recorder
	sounds  map[SoundRef]time.Duration
	sound   SoundRef
	playing bool
	volume  float64
}

func (c *fakeChannel) SetSound(ref SoundRef) error {
	if _, ok := c.sounds[ref]; !ok {
		return errors.Newf("fake: unknown sound %q", ref)
	}
	c.sound = ref
	c.playing = false
	c.rec.add("%s load %s", c.name, ref)
	return nil
}

func (c *fakeChannel) Play() error {
	if c.sound == "" {
		return errors.New("fake: nothing loaded")
	}
	c.playing = true
	c.rec.add("%s play %s", c.name, c.sound)
	return nil
}

func (c *fakeChannel) Stop() {
	if c.playing {
		c.rec.add("%s stop %s", c.name, c.sound)
	}
	c.playing = false
}

func (c *fakeChannel) SetVolume(v float64)     { c.volume = v }
func (c *fakeChannel) Duration() time.Duration { return c.sounds[c.sound] }
func (c *fakeChannel) IsPlaying() bool         { return c.playing }

type fakeProvider struct {
	rec    recorder
	sounds map[SoundRef]time.Duration
	chans  map[string]*fakeChannel
	// failures makes the next NewChannel calls fail.
	failures int
}

func newFakeProvider(sounds map[SoundRef]time.Duration) *fakeProvider {
	return &fakeProvider{sounds: sounds, chans: map[string]*fakeChannel{}}
}

func (p *fakeProvider) NewChannel(name string) (Channel, error) {
	if p.failures > 0 {
		p.failures--
		return nil, errFakeUnavailable
	}
	ch := &fakeChannel{name: name, rec: &p.rec, sounds: p.sounds}
	p.chans[name] = ch
	return ch, nil
}

func (p *fakeProvider) playingCount() int {
	n := 0
	for _, ch := range p.chans {
		if ch.playing {
			n++
		}
	}
	return n
}

// seqRand returns the queued indices in order, then zeros.
type seqRand struct {
	seq   []int
	calls int
}

func (r *seqRand) IntN(n int) int {
	r.calls++
	if len(r.seq) == 0 {
		return 0
	}
	v := r.seq[0]
	r.seq = r.seq[1:]
	return v % n
}

type fakeClock struct {
	running bool
	starts  int
	stops   int
}

func (c *fakeClock) Start()        { c.running = true; c.starts++ }
func (c *fakeClock) Stop()         { c.running = false; c.stops++ }
func (c *fakeClock) Running() bool { return c.running }

type eventLog struct {
	states []StateChangedEvent
	parts  []PartID
}

func (l *eventLog) OnStateChanged(e StateChangedEvent) { l.states = append(l.states, e) }
func (l *eventLog) OnPartChanged(e PartChangedEvent)   { l.parts = append(l.parts, e.Part) }

func quietLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

const tick = 100 * time.Millisecond

// run advances p by n ticks.
func run(p *Player, n int) {
	for i := 0; i < n; i++ {
		p.Update(tick)
	}
}

func sec(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// testTrack is intro -> loop1 <-> loop2, with a calm branch and a terminal
// outro reachable from calm_bridge.
func testTrack() (*Track, map[SoundRef]time.Duration) {
	sounds := map[SoundRef]time.Duration{
		"intro.wav":  sec(5),
		"loop1.wav":  sec(4),
		"loop2.wav":  sec(4),
		"calm.wav":   sec(3),
		"outro.wav":  sec(2),
		"broken.wav": sec(1),
	}
	t := &Track{
		Name:      "arena",
		StartPart: "intro",
		Parts: []Part{
			{ID: "intro", Sound: "intro.wav", Volume: 1, NextIntense: []PartID{"loop1"}},
			{ID: "loop1", Sound: "loop1.wav", Volume: 0.8, NextIntense: []PartID{"loop2"}, NextCalm: []PartID{"calm_bridge"}},
			{ID: "loop2", Sound: "loop2.wav", Volume: 1, NextIntense: []PartID{"loop1"}, NextCalm: []PartID{"calm_bridge"}},
			{ID: "calm_bridge", Sound: "calm.wav", Volume: 1, NextCalm: []PartID{"outro"}},
			{ID: "outro", Sound: "outro.wav", Volume: 1},
		},
		FadeIn:          sec(2),
		FadeOut:         sec(1),
		IntensityChange: sec(1),
		IntenseVolume:   1,
		CalmVolume:      0.4,
	}
	return t, sounds
}

func newTestPlayer(sounds map[SoundRef]time.Duration, rng Rand) (*Player, *fakeProvider, *eventLog) {
	prov := newFakeProvider(sounds)
	if rng == nil {
		rng = &seqRand{}
	}
	p := NewPlayer(Options{Channels: prov, Rand: rng, Logger: quietLogger()})
	events := &eventLog{}
	p.Subscribe(events)
	return p, prov, events
}
